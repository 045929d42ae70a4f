package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/example/smartmeeting/internal/persistence"
)

func seedTestNotification(t *testing.T, repo *NotificationRepository, id, userID string, createdAt time.Time) {
	t.Helper()

	err := repo.CreateNotification(context.Background(), persistence.Notification{
		ID:        id,
		UserID:    userID,
		Type:      "MeetingUpdated",
		Message:   "something changed",
		CreatedAt: createdAt,
	})
	if err != nil {
		t.Fatalf("failed to seed notification %s: %v", id, err)
	}
}

func TestNotificationRepository_ListNewestFirst(t *testing.T) {
	pool := setupTestPool(t)
	user := seedTestUser(t, pool, "user1")
	repo := NewNotificationRepository(pool)

	base := time.Date(2025, 6, 3, 9, 0, 0, 0, time.UTC)
	seedTestNotification(t, repo, "n-old", user.ID, base)
	seedTestNotification(t, repo, "n-new", user.ID, base.Add(time.Hour))

	notifications, err := repo.ListNotificationsForUser(context.Background(), user.ID, persistence.NotificationFilter{})
	if err != nil {
		t.Fatalf("ListNotificationsForUser failed: %v", err)
	}
	if len(notifications) != 2 {
		t.Fatalf("expected 2 notifications, got %d", len(notifications))
	}
	if notifications[0].ID != "n-new" || notifications[1].ID != "n-old" {
		t.Errorf("expected newest first, got %s then %s", notifications[0].ID, notifications[1].ID)
	}
}

func TestNotificationRepository_UnreadFilterAndTake(t *testing.T) {
	pool := setupTestPool(t)
	user := seedTestUser(t, pool, "user1")
	repo := NewNotificationRepository(pool)

	ctx := context.Background()
	base := time.Date(2025, 6, 3, 9, 0, 0, 0, time.UTC)
	seedTestNotification(t, repo, "n1", user.ID, base)
	seedTestNotification(t, repo, "n2", user.ID, base.Add(time.Minute))
	seedTestNotification(t, repo, "n3", user.ID, base.Add(2*time.Minute))

	if err := repo.MarkRead(ctx, "n2", user.ID); err != nil {
		t.Fatalf("MarkRead failed: %v", err)
	}

	unread, err := repo.ListNotificationsForUser(ctx, user.ID, persistence.NotificationFilter{UnreadOnly: true})
	if err != nil {
		t.Fatalf("ListNotificationsForUser failed: %v", err)
	}
	if len(unread) != 2 {
		t.Fatalf("expected 2 unread, got %d", len(unread))
	}

	limited, err := repo.ListNotificationsForUser(ctx, user.ID, persistence.NotificationFilter{UnreadOnly: true, Take: 1})
	if err != nil {
		t.Fatalf("ListNotificationsForUser failed: %v", err)
	}
	if len(limited) != 1 || limited[0].ID != "n3" {
		t.Fatalf("expected the newest unread only, got %+v", limited)
	}

	count, err := repo.CountUnread(ctx, user.ID)
	if err != nil {
		t.Fatalf("CountUnread failed: %v", err)
	}
	if count != 2 {
		t.Errorf("expected 2 unread, got %d", count)
	}
}

func TestNotificationRepository_OwnerScoping(t *testing.T) {
	pool := setupTestPool(t)
	owner := seedTestUser(t, pool, "user1")
	other := seedTestUser(t, pool, "user2")
	repo := NewNotificationRepository(pool)

	ctx := context.Background()
	seedTestNotification(t, repo, "n1", owner.ID, time.Date(2025, 6, 3, 9, 0, 0, 0, time.UTC))

	if err := repo.MarkRead(ctx, "n1", other.ID); !errors.Is(err, persistence.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for foreign MarkRead, got %v", err)
	}
	if err := repo.DeleteNotification(ctx, "n1", other.ID); !errors.Is(err, persistence.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for foreign delete, got %v", err)
	}

	if err := repo.DeleteNotification(ctx, "n1", owner.ID); err != nil {
		t.Fatalf("owner delete failed: %v", err)
	}
}

func TestNotificationRepository_MarkAllRead(t *testing.T) {
	pool := setupTestPool(t)
	user := seedTestUser(t, pool, "user1")
	bystander := seedTestUser(t, pool, "user2")
	repo := NewNotificationRepository(pool)

	ctx := context.Background()
	base := time.Date(2025, 6, 3, 9, 0, 0, 0, time.UTC)
	seedTestNotification(t, repo, "n1", user.ID, base)
	seedTestNotification(t, repo, "n2", user.ID, base.Add(time.Minute))
	seedTestNotification(t, repo, "n3", bystander.ID, base)

	if err := repo.MarkAllRead(ctx, user.ID); err != nil {
		t.Fatalf("MarkAllRead failed: %v", err)
	}

	count, err := repo.CountUnread(ctx, user.ID)
	if err != nil {
		t.Fatalf("CountUnread failed: %v", err)
	}
	if count != 0 {
		t.Errorf("expected 0 unread for user, got %d", count)
	}

	otherCount, err := repo.CountUnread(ctx, bystander.ID)
	if err != nil {
		t.Fatalf("CountUnread failed: %v", err)
	}
	if otherCount != 1 {
		t.Errorf("expected bystander's notification untouched, got %d unread", otherCount)
	}
}

func TestNotificationRepository_MeetingReferenceRoundTrip(t *testing.T) {
	pool := setupTestPool(t)
	user := seedTestUser(t, pool, "user1")
	repo := NewNotificationRepository(pool)

	ctx := context.Background()
	meetingID := "meeting-ref"
	err := repo.CreateNotification(ctx, persistence.Notification{
		ID:        "n1",
		UserID:    user.ID,
		Type:      "MeetingCanceled",
		Message:   "gone",
		MeetingID: &meetingID,
		CreatedAt: time.Date(2025, 6, 3, 9, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("CreateNotification failed: %v", err)
	}

	notifications, err := repo.ListNotificationsForUser(ctx, user.ID, persistence.NotificationFilter{})
	if err != nil {
		t.Fatalf("ListNotificationsForUser failed: %v", err)
	}
	if len(notifications) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(notifications))
	}
	if notifications[0].MeetingID == nil || *notifications[0].MeetingID != meetingID {
		t.Errorf("meeting reference did not round-trip: %+v", notifications[0].MeetingID)
	}
}
