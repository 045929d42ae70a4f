package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/example/smartmeeting/internal/persistence"
)

// ParticipantRepository captures the persistence interactions needed by
// ParticipantService.
type ParticipantRepository interface {
	AddParticipant(ctx context.Context, meetingID, userID string) error
	RemoveParticipant(ctx context.Context, meetingID, userID string) error
	ListParticipants(ctx context.Context, meetingID string) ([]User, error)
	ListParticipantUserIDs(ctx context.Context, meetingID string) ([]string, error)
}

// ParticipantService manages the attendee roster of a meeting.
type ParticipantService struct {
	participants ParticipantRepository
	meetings     MeetingRepository
	users        UserDirectory
	logger       *slog.Logger
}

// NewParticipantService wires dependencies for roster management.
func NewParticipantService(participants ParticipantRepository, meetings MeetingRepository, users UserDirectory) *ParticipantService {
	return NewParticipantServiceWithLogger(participants, meetings, users, nil)
}

// NewParticipantServiceWithLogger constructs a ParticipantService with a
// specified logger.
func NewParticipantServiceWithLogger(participants ParticipantRepository, meetings MeetingRepository, users UserDirectory, logger *slog.Logger) *ParticipantService {
	return &ParticipantService{
		participants: participants,
		meetings:     meetings,
		users:        users,
		logger:       defaultLogger(logger),
	}
}

func (s *ParticipantService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "ParticipantService", operation, attrs...)
}

// AddParticipant attaches a user to a meeting's roster. Adding the same user
// twice is a no-op.
func (s *ParticipantService) AddParticipant(ctx context.Context, meetingID, userID string) error {
	if s == nil || s.participants == nil {
		return fmt.Errorf("participant repository not configured")
	}

	logger := s.loggerWith(ctx, "AddParticipant", "meeting_id", meetingID, "user_id", userID)

	if err := s.ensureMeetingExists(ctx, meetingID); err != nil {
		return err
	}
	if s.users != nil {
		if _, err := s.users.FindUser(ctx, userID); err != nil {
			if errors.Is(err, ErrNotFound) || errors.Is(err, persistence.ErrNotFound) {
				return fmt.Errorf("user: %w", ErrNotFound)
			}
			return err
		}
	}

	if err := s.participants.AddParticipant(ctx, meetingID, userID); err != nil {
		if errors.Is(err, persistence.ErrDuplicate) {
			// Idempotent: the user is already on the roster.
			return nil
		}
		err = mapParticipantRepoError(err)
		logger.ErrorContext(ctx, "failed to add participant", "error", err, "error_kind", ErrorKind(err))
		return err
	}

	logger.InfoContext(ctx, "participant added")
	return nil
}

// RemoveParticipant detaches a user from a meeting's roster.
func (s *ParticipantService) RemoveParticipant(ctx context.Context, meetingID, userID string) error {
	if s == nil || s.participants == nil {
		return fmt.Errorf("participant repository not configured")
	}

	if err := s.participants.RemoveParticipant(ctx, meetingID, userID); err != nil {
		return mapParticipantRepoError(err)
	}
	s.loggerWith(ctx, "RemoveParticipant", "meeting_id", meetingID, "user_id", userID).
		InfoContext(ctx, "participant removed")
	return nil
}

// ListParticipants returns the roster for a meeting as full user records.
func (s *ParticipantService) ListParticipants(ctx context.Context, meetingID string) ([]User, error) {
	if s == nil || s.participants == nil {
		return nil, fmt.Errorf("participant repository not configured")
	}

	if err := s.ensureMeetingExists(ctx, meetingID); err != nil {
		return nil, err
	}

	users, err := s.participants.ListParticipants(ctx, meetingID)
	if err != nil {
		return nil, mapParticipantRepoError(err)
	}
	return users, nil
}

// ListParticipantUserIDs satisfies the ParticipantStore interface for the
// meeting service's notification fan-out.
func (s *ParticipantService) ListParticipantUserIDs(ctx context.Context, meetingID string) ([]string, error) {
	if s == nil || s.participants == nil {
		return nil, fmt.Errorf("participant repository not configured")
	}
	ids, err := s.participants.ListParticipantUserIDs(ctx, meetingID)
	if err != nil {
		return nil, mapParticipantRepoError(err)
	}
	return ids, nil
}

func (s *ParticipantService) ensureMeetingExists(ctx context.Context, meetingID string) error {
	if s.meetings == nil {
		return nil
	}
	if _, err := s.meetings.GetMeeting(ctx, meetingID); err != nil {
		if errors.Is(err, ErrNotFound) || errors.Is(err, persistence.ErrNotFound) {
			return fmt.Errorf("meeting: %w", ErrNotFound)
		}
		return err
	}
	return nil
}

func mapParticipantRepoError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrNotFound) || errors.Is(err, persistence.ErrNotFound) {
		return ErrNotFound
	}
	if errors.Is(err, persistence.ErrForeignKeyViolation) {
		return ErrNotFound
	}
	return err
}
