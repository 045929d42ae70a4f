package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/example/smartmeeting/internal/persistence"
)

// setupTestPool opens a migrated temporary database. The pool is closed via
// t.Cleanup.
func setupTestPool(t *testing.T) *ConnectionPool {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.db")
	pool, err := NewConnectionPool("file:" + path)
	if err != nil {
		t.Fatalf("failed to create connection pool: %v", err)
	}
	t.Cleanup(func() {
		_ = pool.Close()
	})

	if err := Migrate(context.Background(), pool); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return pool
}

func seedTestUser(t *testing.T, pool *ConnectionPool, id string) persistence.User {
	t.Helper()

	user := persistence.User{
		ID:           id,
		Name:         "User " + id,
		Email:        id + "@example.com",
		PasswordHash: "$argon2id$hash",
		Role:         "Employee",
		CreatedAt:    time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC),
	}
	if err := NewUserRepository(pool).CreateUser(context.Background(), user); err != nil {
		t.Fatalf("failed to seed user %s: %v", id, err)
	}
	return user
}

func seedTestRoom(t *testing.T, pool *ConnectionPool, id string) persistence.Room {
	t.Helper()

	room := persistence.Room{
		ID:        id,
		Name:      "Room " + id,
		Location:  "Floor 2",
		Capacity:  8,
		CreatedAt: time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC),
	}
	if err := NewRoomRepository(pool).CreateRoom(context.Background(), room); err != nil {
		t.Fatalf("failed to seed room %s: %v", id, err)
	}
	return room
}

func seedTestMeeting(t *testing.T, pool *ConnectionPool, id, organizerID, roomID string, start time.Time) persistence.Meeting {
	t.Helper()

	meeting := persistence.Meeting{
		ID:          id,
		Title:       "Meeting " + id,
		OrganizerID: organizerID,
		RoomID:      roomID,
		Start:       start,
		End:         start.Add(time.Hour),
		Status:      "Scheduled",
		CreatedAt:   time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC),
	}
	if err := NewMeetingRepository(pool).CreateMeeting(context.Background(), meeting); err != nil {
		t.Fatalf("failed to seed meeting %s: %v", id, err)
	}
	return meeting
}
