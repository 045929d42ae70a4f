package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/example/smartmeeting/internal/persistence"
)

// NotificationFilter narrows a notification listing.
type NotificationFilter struct {
	UnreadOnly bool
	// Take limits the number of rows returned; zero means no limit.
	Take int
}

// NotificationRepository captures the persistence interactions needed by
// NotificationService.
type NotificationRepository interface {
	CreateNotification(ctx context.Context, notification Notification) (Notification, error)
	ListNotificationsForUser(ctx context.Context, userID string, filter NotificationFilter) ([]Notification, error)
	CountUnreadNotifications(ctx context.Context, userID string) (int, error)
	MarkNotificationRead(ctx context.Context, id, userID string) error
	MarkAllNotificationsRead(ctx context.Context, userID string) error
	DeleteNotification(ctx context.Context, id, userID string) error
}

// NotificationService manages each user's notification inbox. Every
// operation is scoped to the owning user: a notification id belonging to
// someone else behaves as if it did not exist.
type NotificationService struct {
	notifications NotificationRepository
	idGenerator   func() string
	now           func() time.Time
	logger        *slog.Logger
}

// NewNotificationService wires dependencies for inbox management.
func NewNotificationService(notifications NotificationRepository, idGenerator func() string, now func() time.Time) *NotificationService {
	return NewNotificationServiceWithLogger(notifications, idGenerator, now, nil)
}

// NewNotificationServiceWithLogger constructs a NotificationService with a
// specified logger.
func NewNotificationServiceWithLogger(notifications NotificationRepository, idGenerator func() string, now func() time.Time, logger *slog.Logger) *NotificationService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &NotificationService{
		notifications: notifications,
		idGenerator:   idGenerator,
		now:           now,
		logger:        defaultLogger(logger),
	}
}

func (s *NotificationService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "NotificationService", operation, attrs...)
}

// CreateNotification records a new unread notification for a user.
func (s *NotificationService) CreateNotification(ctx context.Context, input NotificationInput) (Notification, error) {
	if s == nil || s.notifications == nil {
		return Notification{}, fmt.Errorf("notification repository not configured")
	}

	logger := s.loggerWith(ctx, "CreateNotification", "user_id", input.UserID, "type", input.Type)

	notification := Notification{
		ID:        s.idGenerator(),
		UserID:    input.UserID,
		Type:      input.Type,
		Message:   input.Message,
		MeetingID: input.MeetingID,
		CreatedAt: s.now(),
		IsRead:    false,
	}

	persisted, err := s.notifications.CreateNotification(ctx, notification)
	if err != nil {
		err = mapNotificationRepoError(err)
		logger.ErrorContext(ctx, "failed to persist notification", "error", err, "error_kind", ErrorKind(err))
		return Notification{}, err
	}
	return persisted, nil
}

// ListNotifications returns a user's notifications, newest first.
func (s *NotificationService) ListNotifications(ctx context.Context, userID string, filter NotificationFilter) ([]Notification, error) {
	if s == nil || s.notifications == nil {
		return nil, fmt.Errorf("notification repository not configured")
	}
	notifications, err := s.notifications.ListNotificationsForUser(ctx, userID, filter)
	if err != nil {
		return nil, mapNotificationRepoError(err)
	}
	return notifications, nil
}

// CountUnread returns the number of unread notifications for a user.
func (s *NotificationService) CountUnread(ctx context.Context, userID string) (int, error) {
	if s == nil || s.notifications == nil {
		return 0, fmt.Errorf("notification repository not configured")
	}
	count, err := s.notifications.CountUnreadNotifications(ctx, userID)
	if err != nil {
		return 0, mapNotificationRepoError(err)
	}
	return count, nil
}

// MarkRead marks a single notification as read.
func (s *NotificationService) MarkRead(ctx context.Context, id, userID string) error {
	if s == nil || s.notifications == nil {
		return fmt.Errorf("notification repository not configured")
	}
	if err := s.notifications.MarkNotificationRead(ctx, id, userID); err != nil {
		return mapNotificationRepoError(err)
	}
	return nil
}

// MarkAllRead marks every unread notification for a user as read.
func (s *NotificationService) MarkAllRead(ctx context.Context, userID string) error {
	if s == nil || s.notifications == nil {
		return fmt.Errorf("notification repository not configured")
	}
	if err := s.notifications.MarkAllNotificationsRead(ctx, userID); err != nil {
		return mapNotificationRepoError(err)
	}
	s.loggerWith(ctx, "MarkAllRead", "user_id", userID).InfoContext(ctx, "notifications marked read")
	return nil
}

// DeleteNotification removes a notification from a user's inbox.
func (s *NotificationService) DeleteNotification(ctx context.Context, id, userID string) error {
	if s == nil || s.notifications == nil {
		return fmt.Errorf("notification repository not configured")
	}
	if err := s.notifications.DeleteNotification(ctx, id, userID); err != nil {
		return mapNotificationRepoError(err)
	}
	return nil
}

func mapNotificationRepoError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrNotFound) || errors.Is(err, persistence.ErrNotFound) {
		return ErrNotFound
	}
	if errors.Is(err, persistence.ErrForeignKeyViolation) {
		vErr := &ValidationError{}
		vErr.add("user_id", "user does not exist")
		return vErr
	}
	return err
}
