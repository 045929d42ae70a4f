package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/example/smartmeeting/internal/persistence"
)

// NotificationRepository implements persistence.NotificationRepository using SQLite.
type NotificationRepository struct {
	pool *ConnectionPool
}

// NewNotificationRepository creates a new SQLite notification repository.
func NewNotificationRepository(pool *ConnectionPool) *NotificationRepository {
	return &NotificationRepository{pool: pool}
}

const notificationColumns = "id, user_id, type, message, meeting_id, created_at, is_read"

// CreateNotification inserts a delivered notification.
func (r *NotificationRepository) CreateNotification(ctx context.Context, notification persistence.Notification) error {
	if notification.ID == "" {
		return persistence.ErrConstraintViolation
	}

	var meetingID sql.NullString
	if notification.MeetingID != nil {
		meetingID = sql.NullString{String: *notification.MeetingID, Valid: true}
	}

	return r.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		_, err := tx.Exec(
			`INSERT INTO notifications (`+notificationColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)`,
			notification.ID,
			notification.UserID,
			notification.Type,
			notification.Message,
			meetingID,
			formatTime(notification.CreatedAt),
			boolToInt(notification.IsRead),
		)
		return mapError(err)
	})
}

// ListNotificationsForUser returns a user's notifications newest first,
// optionally unread only and bounded by filter.Take.
func (r *NotificationRepository) ListNotificationsForUser(ctx context.Context, userID string, filter persistence.NotificationFilter) ([]persistence.Notification, error) {
	query := `SELECT ` + notificationColumns + ` FROM notifications WHERE user_id = ?`
	args := []any{userID}

	if filter.UnreadOnly {
		query += ` AND is_read = 0`
	}
	query += ` ORDER BY created_at DESC, id DESC`
	if filter.Take > 0 {
		query += ` LIMIT ?`
		args = append(args, filter.Take)
	}

	rows, err := r.pool.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var notifications []persistence.Notification
	for rows.Next() {
		notification, err := scanNotification(rows)
		if err != nil {
			return nil, err
		}
		notifications = append(notifications, notification)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}
	return notifications, nil
}

// CountUnread returns the number of unread notifications for a user.
func (r *NotificationRepository) CountUnread(ctx context.Context, userID string) (int, error) {
	var count int
	err := r.pool.DB().QueryRowContext(ctx,
		`SELECT COUNT(1) FROM notifications WHERE user_id = ? AND is_read = 0`, userID).Scan(&count)
	if err != nil {
		return 0, mapError(err)
	}
	return count, nil
}

// MarkRead flags a single notification as read. The update is scoped to the
// owning user so another user's notification id behaves as missing.
func (r *NotificationRepository) MarkRead(ctx context.Context, id, userID string) error {
	return r.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		result, err := tx.Exec(`UPDATE notifications SET is_read = 1 WHERE id = ? AND user_id = ?`, id, userID)
		if err != nil {
			return mapError(err)
		}

		affected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		if affected == 0 {
			return persistence.ErrNotFound
		}
		return nil
	})
}

// MarkAllRead flags every unread notification for a user as read.
func (r *NotificationRepository) MarkAllRead(ctx context.Context, userID string) error {
	return r.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		_, err := tx.Exec(`UPDATE notifications SET is_read = 1 WHERE user_id = ? AND is_read = 0`, userID)
		return mapError(err)
	})
}

// DeleteNotification removes a notification by id, scoped to the owning user.
func (r *NotificationRepository) DeleteNotification(ctx context.Context, id, userID string) error {
	return r.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		result, err := tx.Exec(`DELETE FROM notifications WHERE id = ? AND user_id = ?`, id, userID)
		if err != nil {
			return mapError(err)
		}

		affected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		if affected == 0 {
			return persistence.ErrNotFound
		}
		return nil
	})
}

func scanNotification(row rowScanner) (persistence.Notification, error) {
	var notification persistence.Notification
	var meetingID sql.NullString
	var createdAt string
	var isRead int

	err := row.Scan(
		&notification.ID,
		&notification.UserID,
		&notification.Type,
		&notification.Message,
		&meetingID,
		&createdAt,
		&isRead,
	)
	if err != nil {
		return persistence.Notification{}, mapError(err)
	}

	if meetingID.Valid {
		notification.MeetingID = &meetingID.String
	}
	notification.IsRead = isRead != 0

	if notification.CreatedAt, err = parseTime(createdAt); err != nil {
		return persistence.Notification{}, fmt.Errorf("failed to parse created_at: %w", err)
	}
	return notification, nil
}

func boolToInt(value bool) int {
	if value {
		return 1
	}
	return 0
}
