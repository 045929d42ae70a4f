package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/example/smartmeeting/internal/persistence"
	"github.com/example/smartmeeting/internal/scheduler"
)

// MeetingRepository captures the persistence interactions needed by the service.
type MeetingRepository interface {
	CreateMeeting(ctx context.Context, meeting Meeting) (Meeting, error)
	GetMeeting(ctx context.Context, id string) (Meeting, error)
	UpdateMeeting(ctx context.Context, meeting Meeting) (Meeting, error)
	DeleteMeeting(ctx context.Context, id string) error
	ListMeetings(ctx context.Context) ([]Meeting, error)
	ListMeetingsForRoom(ctx context.Context, roomID string) ([]Meeting, error)
}

// UserDirectory exposes the read-only user lookup the scheduler depends on.
type UserDirectory interface {
	FindUser(ctx context.Context, id string) (User, error)
}

// ParticipantStore supplies the attendee user ids for notification fan-out.
type ParticipantStore interface {
	ListParticipantUserIDs(ctx context.Context, meetingID string) ([]string, error)
}

// Notifier dispatches one notification per unique recipient. Implementations
// are best-effort: they log failures and never return them.
type Notifier interface {
	NotifyAll(ctx context.Context, recipientIDs []string, notificationType, message string, meetingID string)
}

// MeetingService owns the meeting lifecycle: booking with room-conflict
// exclusion, organizer authorization, status transitions, and change-driven
// notification fan-out.
type MeetingService struct {
	meetings     MeetingRepository
	users        UserDirectory
	participants ParticipantStore
	notifier     Notifier
	roomLocks    *scheduler.RoomLocks
	idGenerator  func() string
	now          func() time.Time
	logger       *slog.Logger
}

// NewMeetingService wires dependencies for meeting operations.
func NewMeetingService(meetings MeetingRepository, users UserDirectory, participants ParticipantStore, notifier Notifier, idGenerator func() string, now func() time.Time) *MeetingService {
	return NewMeetingServiceWithLogger(meetings, users, participants, notifier, idGenerator, now, nil)
}

// NewMeetingServiceWithLogger constructs a MeetingService with a specified logger.
func NewMeetingServiceWithLogger(meetings MeetingRepository, users UserDirectory, participants ParticipantStore, notifier Notifier, idGenerator func() string, now func() time.Time, logger *slog.Logger) *MeetingService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &MeetingService{
		meetings:     meetings,
		users:        users,
		participants: participants,
		notifier:     notifier,
		roomLocks:    scheduler.NewRoomLocks(),
		idGenerator:  idGenerator,
		now:          now,
		logger:       defaultLogger(logger),
	}
}

func (s *MeetingService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "MeetingService", operation, attrs...)
}

// CreateMeeting books a new meeting after organizer, time, and room-overlap
// checks pass. Creation sends no notifications; only updates and deletions
// fan out.
func (s *MeetingService) CreateMeeting(ctx context.Context, input MeetingInput) (Meeting, error) {
	if s == nil || s.meetings == nil {
		return Meeting{}, fmt.Errorf("meeting repository not configured")
	}

	logger := s.loggerWith(ctx, "CreateMeeting", "room_id", input.RoomID, "organizer_id", input.OrganizerID)

	if err := s.ensureOrganizerCanSchedule(ctx, input.OrganizerID); err != nil {
		logger.ErrorContext(ctx, "organizer check failed", "error", err, "error_kind", ErrorKind(err))
		return Meeting{}, err
	}

	vErr := &ValidationError{}
	if strings.TrimSpace(input.Title) == "" {
		vErr.add("title", "title is required")
	}
	validateTimes(input.Start, input.End, vErr)

	status := StatusScheduled
	if strings.TrimSpace(input.Status) != "" {
		parsed, ok := ParseMeetingStatus(input.Status)
		if !ok {
			vErr.add("status", "unknown status")
		} else {
			status = parsed
		}
	}

	if vErr.HasErrors() {
		return Meeting{}, vErr
	}

	agenda := ""
	if input.Agenda != nil {
		agenda = *input.Agenda
	}

	meeting := Meeting{
		ID:          s.idGenerator(),
		Title:       input.Title,
		Agenda:      agenda,
		OrganizerID: input.OrganizerID,
		RoomID:      input.RoomID,
		Start:       input.Start,
		End:         input.End,
		Status:      status,
		CreatedAt:   s.now(),
	}

	// The room lock spans the overlap check and the write so two concurrent
	// bookings cannot both observe a free slot.
	unlock := s.roomLocks.Lock(input.RoomID)
	defer unlock()

	if err := s.ensureRoomAvailable(ctx, meeting, ""); err != nil {
		logger.ErrorContext(ctx, "room unavailable", "error", err, "error_kind", ErrorKind(err))
		return Meeting{}, err
	}

	persisted, err := s.meetings.CreateMeeting(ctx, meeting)
	if err != nil {
		err = mapMeetingRepoError(err)
		logger.ErrorContext(ctx, "failed to persist meeting", "error", err, "error_kind", ErrorKind(err))
		return Meeting{}, err
	}

	logger.InfoContext(ctx, "meeting created", "meeting_id", persisted.ID)
	return persisted, nil
}

// GetMeeting retrieves a single meeting by id.
func (s *MeetingService) GetMeeting(ctx context.Context, id string) (Meeting, error) {
	if s == nil || s.meetings == nil {
		return Meeting{}, fmt.Errorf("meeting repository not configured")
	}
	meeting, err := s.meetings.GetMeeting(ctx, id)
	if err != nil {
		return Meeting{}, mapMeetingRepoError(err)
	}
	return meeting, nil
}

// ListMeetings returns all meetings.
func (s *MeetingService) ListMeetings(ctx context.Context) ([]Meeting, error) {
	if s == nil || s.meetings == nil {
		return nil, fmt.Errorf("meeting repository not configured")
	}
	meetings, err := s.meetings.ListMeetings(ctx)
	if err != nil {
		return nil, mapMeetingRepoError(err)
	}
	return meetings, nil
}

// UpdateMeeting applies a full-replacement update: reschedule, room move,
// title/agenda edits, and status transitions. When at least one field
// changed, a MeetingUpdated notification summarizing the changes fans out to
// the organizer and all current participants.
func (s *MeetingService) UpdateMeeting(ctx context.Context, id string, input MeetingInput) (Meeting, error) {
	if s == nil || s.meetings == nil {
		return Meeting{}, fmt.Errorf("meeting repository not configured")
	}

	logger := s.loggerWith(ctx, "UpdateMeeting", "meeting_id", id)

	if err := s.ensureOrganizerCanSchedule(ctx, input.OrganizerID); err != nil {
		logger.ErrorContext(ctx, "organizer check failed", "error", err, "error_kind", ErrorKind(err))
		return Meeting{}, err
	}

	vErr := &ValidationError{}
	validateTimes(input.Start, input.End, vErr)
	if vErr.HasErrors() {
		return Meeting{}, vErr
	}

	existing, err := s.meetings.GetMeeting(ctx, id)
	if err != nil {
		return Meeting{}, mapMeetingRepoError(err)
	}

	updated, changes, err := applyMeetingUpdate(existing, input)
	if err != nil {
		logger.ErrorContext(ctx, "update rejected", "error", err, "error_kind", ErrorKind(err))
		return Meeting{}, err
	}

	unlock := s.roomLocks.Lock(updated.RoomID)
	defer unlock()

	if err := s.ensureRoomAvailable(ctx, updated, updated.ID); err != nil {
		logger.ErrorContext(ctx, "room unavailable", "error", err, "error_kind", ErrorKind(err))
		return Meeting{}, err
	}

	persisted, err := s.meetings.UpdateMeeting(ctx, updated)
	if err != nil {
		err = mapMeetingRepoError(err)
		logger.ErrorContext(ctx, "failed to persist meeting", "error", err, "error_kind", ErrorKind(err))
		return Meeting{}, err
	}

	if len(changes) > 0 {
		message := fmt.Sprintf("Meeting %q updated: %s.", persisted.Title, strings.Join(changes, ", "))
		s.notifyAll(ctx, persisted, NotificationTypeMeetingUpdated, message)
	}

	logger.InfoContext(ctx, "meeting updated", "changes", len(changes))
	return persisted, nil
}

// DeleteMeeting removes the meeting record and fans out a MeetingCanceled
// notification built from the pre-deletion copy; recipients are resolved
// before the row (and its participant joins) disappear.
func (s *MeetingService) DeleteMeeting(ctx context.Context, id string) error {
	if s == nil || s.meetings == nil {
		return fmt.Errorf("meeting repository not configured")
	}

	logger := s.loggerWith(ctx, "DeleteMeeting", "meeting_id", id)

	existing, err := s.meetings.GetMeeting(ctx, id)
	if err != nil {
		return mapMeetingRepoError(err)
	}

	message := fmt.Sprintf("Meeting %q (%s) was canceled.", existing.Title, timeRangeString(existing.Start, existing.End))
	recipients := s.recipientsFor(ctx, existing)

	if err := s.meetings.DeleteMeeting(ctx, id); err != nil {
		return mapMeetingRepoError(err)
	}

	if s.notifier != nil {
		s.notifier.NotifyAll(ctx, recipients, NotificationTypeMeetingCanceled, message, existing.ID)
	}

	logger.InfoContext(ctx, "meeting deleted")
	return nil
}

func (s *MeetingService) ensureOrganizerCanSchedule(ctx context.Context, organizerID string) error {
	if s.users == nil {
		return nil
	}
	user, err := s.users.FindUser(ctx, organizerID)
	if err != nil {
		if errors.Is(err, ErrNotFound) || errors.Is(err, persistence.ErrNotFound) {
			return fmt.Errorf("organizer: %w", ErrNotFound)
		}
		return err
	}
	if strings.EqualFold(user.Role, RoleGuest) {
		return ErrForbidden
	}
	return nil
}

// ensureRoomAvailable loads the room's bookings and applies the half-open
// overlap predicate, skipping excludeMeetingID so an update never conflicts
// with itself.
func (s *MeetingService) ensureRoomAvailable(ctx context.Context, candidate Meeting, excludeMeetingID string) error {
	others, err := s.meetings.ListMeetingsForRoom(ctx, candidate.RoomID)
	if err != nil {
		return mapMeetingRepoError(err)
	}

	bookings := make([]scheduler.Booking, 0, len(others))
	for _, other := range others {
		bookings = append(bookings, scheduler.Booking{
			MeetingID: other.ID,
			RoomID:    other.RoomID,
			Start:     other.Start,
			End:       other.End,
		})
	}

	conflict := scheduler.FindRoomConflict(bookings, scheduler.Booking{
		MeetingID: candidate.ID,
		RoomID:    candidate.RoomID,
		Start:     candidate.Start,
		End:       candidate.End,
	}, excludeMeetingID)

	if conflict != nil {
		return ErrRoomConflict
	}
	return nil
}

// applyMeetingUpdate computes the effective post-update meeting and the
// ordered list of human-readable change descriptions. Blank title, nil
// agenda, and blank status fall back to the stored values; organizer, room,
// and times always overwrite.
func applyMeetingUpdate(existing Meeting, input MeetingInput) (Meeting, []string, error) {
	updated := existing

	if title := input.Title; strings.TrimSpace(title) != "" {
		updated.Title = title
	}
	if input.Agenda != nil {
		updated.Agenda = *input.Agenda
	}
	updated.OrganizerID = input.OrganizerID
	updated.RoomID = input.RoomID
	updated.Start = input.Start
	updated.End = input.End

	if strings.TrimSpace(input.Status) != "" {
		next, ok := ParseMeetingStatus(input.Status)
		if !ok {
			vErr := &ValidationError{}
			vErr.add("status", "unknown status")
			return Meeting{}, nil, vErr
		}
		if !existing.Status.CanTransitionTo(next) {
			return Meeting{}, nil, fmt.Errorf("%w: %s to %s", ErrInvalidTransition, existing.Status, next)
		}
		updated.Status = next
	} else if updated.Status == "" {
		updated.Status = StatusScheduled
	}

	var changes []string
	if existing.Title != updated.Title {
		changes = append(changes, fmt.Sprintf("title %q → %q", existing.Title, updated.Title))
	}
	if existing.Agenda != updated.Agenda {
		changes = append(changes, "agenda updated")
	}
	if existing.RoomID != updated.RoomID {
		changes = append(changes, fmt.Sprintf("room %s → %s", existing.RoomID, updated.RoomID))
	}
	if !existing.Start.Equal(updated.Start) || !existing.End.Equal(updated.End) {
		changes = append(changes, fmt.Sprintf("time %s → %s",
			timeRangeString(existing.Start, existing.End),
			timeRangeString(updated.Start, updated.End)))
	}
	if !strings.EqualFold(string(existing.Status), string(updated.Status)) {
		changes = append(changes, fmt.Sprintf("status %s → %s", existing.Status, updated.Status))
	}

	return updated, changes, nil
}

// notifyAll resolves the recipient set for a meeting and dispatches one
// notification per unique recipient. Best-effort: failures never surface to
// the caller of the triggering mutation.
func (s *MeetingService) notifyAll(ctx context.Context, meeting Meeting, notificationType, message string) {
	if s.notifier == nil {
		return
	}
	s.notifier.NotifyAll(ctx, s.recipientsFor(ctx, meeting), notificationType, message, meeting.ID)
}

func (s *MeetingService) recipientsFor(ctx context.Context, meeting Meeting) []string {
	var recipients []string
	if s.participants != nil {
		attendeeIDs, err := s.participants.ListParticipantUserIDs(ctx, meeting.ID)
		if err != nil {
			s.loggerWith(ctx, "recipientsFor", "meeting_id", meeting.ID).
				WarnContext(ctx, "failed to resolve participants", "error", err)
		} else {
			recipients = attendeeIDs
		}
	}
	return append(recipients, meeting.OrganizerID)
}

func validateTimes(start, end time.Time, vErr *ValidationError) {
	if start.IsZero() {
		vErr.add("start", "start is required")
	}
	if end.IsZero() {
		vErr.add("end", "end is required")
	}
	if !start.IsZero() && !end.IsZero() && !end.After(start) {
		vErr.add("time", "end time must be after start time")
	}
}

func timeRangeString(start, end time.Time) string {
	return start.Format("2006-01-02 15:04") + "–" + end.Format("15:04")
}

func mapMeetingRepoError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrNotFound) || errors.Is(err, persistence.ErrNotFound) {
		return ErrNotFound
	}
	if errors.Is(err, persistence.ErrDuplicate) {
		return ErrAlreadyExists
	}
	if errors.Is(err, persistence.ErrForeignKeyViolation) {
		vErr := &ValidationError{}
		vErr.add("room_id", "room does not exist")
		return vErr
	}
	if errors.Is(err, persistence.ErrConstraintViolation) {
		vErr := &ValidationError{}
		vErr.add("time", "end time must be after start time")
		return vErr
	}
	return err
}
