package application_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/example/smartmeeting/internal/application"
	"github.com/example/smartmeeting/internal/testfixtures"
)

func newRoomServiceForTest(t *testing.T) (*application.RoomService, *testfixtures.MemoryStore) {
	t.Helper()
	store := testfixtures.NewMemoryStore()
	ids := testfixtures.NewIDGenerator("room")
	clock := testfixtures.NewClock(time.Time{})
	return application.NewRoomService(store, ids.NextFunc(), clock.NowFunc()), store
}

func TestCreateRoom(t *testing.T) {
	t.Parallel()

	service, store := newRoomServiceForTest(t)

	room, err := service.CreateRoom(context.Background(), application.RoomInput{
		Name:     "Boardroom",
		Location: "3rd floor",
		Capacity: 12,
	})
	if err != nil {
		t.Fatalf("CreateRoom returned error: %v", err)
	}
	if room.ID == "" {
		t.Fatal("expected generated room id")
	}

	if _, err := store.GetRoom(context.Background(), room.ID); err != nil {
		t.Fatalf("room not persisted: %v", err)
	}
}

func TestCreateRoomValidation(t *testing.T) {
	t.Parallel()

	service, _ := newRoomServiceForTest(t)

	cases := []struct {
		name  string
		input application.RoomInput
		field string
	}{
		{"missing name", application.RoomInput{Capacity: 4}, "name"},
		{"zero capacity", application.RoomInput{Name: "Huddle", Capacity: 0}, "capacity"},
		{"negative capacity", application.RoomInput{Name: "Huddle", Capacity: -1}, "capacity"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := service.CreateRoom(context.Background(), tc.input)
			var vErr *application.ValidationError
			if !errors.As(err, &vErr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if _, ok := vErr.FieldErrors[tc.field]; !ok {
				t.Fatalf("expected error on field %q, got %v", tc.field, vErr.FieldErrors)
			}
		})
	}
}

func TestUpdateRoomReplacesAttributes(t *testing.T) {
	t.Parallel()

	service, store := newRoomServiceForTest(t)
	existing := testfixtures.NewRoomFixture()
	store.SeedRoom(existing.Application())

	updated, err := service.UpdateRoom(context.Background(), existing.ID, application.RoomInput{
		Name:     "Renovated",
		Location: "Annex",
		Capacity: 20,
	})
	if err != nil {
		t.Fatalf("UpdateRoom returned error: %v", err)
	}
	if updated.Name != "Renovated" || updated.Location != "Annex" || updated.Capacity != 20 {
		t.Fatalf("unexpected updated room: %+v", updated)
	}
}

func TestDeleteRoomInUse(t *testing.T) {
	t.Parallel()

	service, store := newRoomServiceForTest(t)
	room := testfixtures.NewRoomFixture()
	store.SeedRoom(room.Application())
	meeting := testfixtures.NewMeetingFixture(testfixtures.WithMeetingRoom(room.ID))
	store.SeedMeeting(meeting.Application())

	err := service.DeleteRoom(context.Background(), room.ID)
	if err == nil {
		t.Fatal("expected error deleting a room with bookings")
	}
	if errors.Is(err, application.ErrNotFound) {
		t.Fatalf("unexpected not-found error: %v", err)
	}
}

func TestRoomLookupsMissing(t *testing.T) {
	t.Parallel()

	service, _ := newRoomServiceForTest(t)

	if _, err := service.GetRoom(context.Background(), "missing"); !errors.Is(err, application.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := service.DeleteRoom(context.Background(), "missing"); !errors.Is(err, application.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
