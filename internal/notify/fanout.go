// Package notify fans meeting notifications out to their recipients.
package notify

import (
	"context"
	"log/slog"
	"sync"

	"github.com/samber/lo"

	"github.com/example/smartmeeting/internal/application"
	"github.com/example/smartmeeting/internal/logging"
)

// NotificationCreator persists a single notification.
type NotificationCreator interface {
	CreateNotification(ctx context.Context, input application.NotificationInput) (application.Notification, error)
}

// Dispatcher delivers one notification per unique recipient, concurrently.
// Delivery is best-effort: a failure for one recipient is logged and never
// blocks or fails the others.
type Dispatcher struct {
	creator NotificationCreator
	logger  *slog.Logger
}

// NewDispatcher wires a Dispatcher over the given notification creator.
func NewDispatcher(creator NotificationCreator, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{creator: creator, logger: logger}
}

// NotifyAll creates one notification per unique recipient id. Duplicates in
// recipientIDs (an organizer who also attends) collapse to a single delivery.
// The call blocks until every delivery attempt has finished.
func (d *Dispatcher) NotifyAll(ctx context.Context, recipientIDs []string, notificationType, message string, meetingID string) {
	if d == nil || d.creator == nil {
		return
	}

	logger := logging.OrDefault(ctx, d.logger).With("component", "notify", "type", notificationType)

	unique := lo.Uniq(lo.Filter(recipientIDs, func(id string, _ int) bool {
		return id != ""
	}))
	if len(unique) == 0 {
		return
	}

	var meetingRef *string
	if meetingID != "" {
		meetingRef = &meetingID
	}

	var wg sync.WaitGroup
	for _, userID := range unique {
		wg.Add(1)
		go func(userID string) {
			defer wg.Done()
			_, err := d.creator.CreateNotification(ctx, application.NotificationInput{
				UserID:    userID,
				Type:      notificationType,
				Message:   message,
				MeetingID: meetingRef,
			})
			if err != nil {
				logger.WarnContext(ctx, "notification delivery failed", "user_id", userID, "error", err)
			}
		}(userID)
	}
	wg.Wait()

	logger.InfoContext(ctx, "notifications dispatched", "recipients", len(unique))
}
