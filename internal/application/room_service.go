package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/example/smartmeeting/internal/persistence"
)

// RoomRepository captures the persistence interactions needed by RoomService.
type RoomRepository interface {
	CreateRoom(ctx context.Context, room Room) (Room, error)
	GetRoom(ctx context.Context, id string) (Room, error)
	UpdateRoom(ctx context.Context, room Room) (Room, error)
	DeleteRoom(ctx context.Context, id string) error
	ListRooms(ctx context.Context) ([]Room, error)
}

// RoomService manages the catalog of bookable rooms.
type RoomService struct {
	rooms       RoomRepository
	idGenerator func() string
	now         func() time.Time
	logger      *slog.Logger
}

// NewRoomService wires dependencies for room catalog management.
func NewRoomService(rooms RoomRepository, idGenerator func() string, now func() time.Time) *RoomService {
	return NewRoomServiceWithLogger(rooms, idGenerator, now, nil)
}

// NewRoomServiceWithLogger constructs a RoomService with a specified logger.
func NewRoomServiceWithLogger(rooms RoomRepository, idGenerator func() string, now func() time.Time, logger *slog.Logger) *RoomService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &RoomService{
		rooms:       rooms,
		idGenerator: idGenerator,
		now:         now,
		logger:      defaultLogger(logger),
	}
}

func (s *RoomService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "RoomService", operation, attrs...)
}

// CreateRoom adds a room to the catalog.
func (s *RoomService) CreateRoom(ctx context.Context, input RoomInput) (Room, error) {
	if s == nil || s.rooms == nil {
		return Room{}, fmt.Errorf("room repository not configured")
	}

	logger := s.loggerWith(ctx, "CreateRoom", "name", input.Name)

	if vErr := validateRoomInput(input); vErr.HasErrors() {
		return Room{}, vErr
	}

	room := Room{
		ID:        s.idGenerator(),
		Name:      input.Name,
		Location:  input.Location,
		Capacity:  input.Capacity,
		CreatedAt: s.now(),
	}

	persisted, err := s.rooms.CreateRoom(ctx, room)
	if err != nil {
		err = mapRoomRepoError(err)
		logger.ErrorContext(ctx, "failed to persist room", "error", err, "error_kind", ErrorKind(err))
		return Room{}, err
	}

	logger.InfoContext(ctx, "room created", "room_id", persisted.ID)
	return persisted, nil
}

// GetRoom retrieves a single room by id.
func (s *RoomService) GetRoom(ctx context.Context, id string) (Room, error) {
	if s == nil || s.rooms == nil {
		return Room{}, fmt.Errorf("room repository not configured")
	}
	room, err := s.rooms.GetRoom(ctx, id)
	if err != nil {
		return Room{}, mapRoomRepoError(err)
	}
	return room, nil
}

// ListRooms returns the full catalog.
func (s *RoomService) ListRooms(ctx context.Context) ([]Room, error) {
	if s == nil || s.rooms == nil {
		return nil, fmt.Errorf("room repository not configured")
	}
	rooms, err := s.rooms.ListRooms(ctx)
	if err != nil {
		return nil, mapRoomRepoError(err)
	}
	return rooms, nil
}

// UpdateRoom replaces a room's attributes.
func (s *RoomService) UpdateRoom(ctx context.Context, id string, input RoomInput) (Room, error) {
	if s == nil || s.rooms == nil {
		return Room{}, fmt.Errorf("room repository not configured")
	}

	logger := s.loggerWith(ctx, "UpdateRoom", "room_id", id)

	if vErr := validateRoomInput(input); vErr.HasErrors() {
		return Room{}, vErr
	}

	existing, err := s.rooms.GetRoom(ctx, id)
	if err != nil {
		return Room{}, mapRoomRepoError(err)
	}

	existing.Name = input.Name
	existing.Location = input.Location
	existing.Capacity = input.Capacity

	persisted, err := s.rooms.UpdateRoom(ctx, existing)
	if err != nil {
		err = mapRoomRepoError(err)
		logger.ErrorContext(ctx, "failed to persist room", "error", err, "error_kind", ErrorKind(err))
		return Room{}, err
	}

	logger.InfoContext(ctx, "room updated")
	return persisted, nil
}

// DeleteRoom removes a room from the catalog. Rooms referenced by existing
// meetings cannot be removed.
func (s *RoomService) DeleteRoom(ctx context.Context, id string) error {
	if s == nil || s.rooms == nil {
		return fmt.Errorf("room repository not configured")
	}
	if err := s.rooms.DeleteRoom(ctx, id); err != nil {
		return mapRoomRepoError(err)
	}
	s.loggerWith(ctx, "DeleteRoom", "room_id", id).InfoContext(ctx, "room deleted")
	return nil
}

func validateRoomInput(input RoomInput) *ValidationError {
	vErr := &ValidationError{}
	if strings.TrimSpace(input.Name) == "" {
		vErr.add("name", "name is required")
	}
	if input.Capacity <= 0 {
		vErr.add("capacity", "capacity must be positive")
	}
	return vErr
}

func mapRoomRepoError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrNotFound) || errors.Is(err, persistence.ErrNotFound) {
		return ErrNotFound
	}
	if errors.Is(err, persistence.ErrDuplicate) {
		vErr := &ValidationError{}
		vErr.add("name", "a room with this name already exists")
		return vErr
	}
	if errors.Is(err, persistence.ErrForeignKeyViolation) {
		return fmt.Errorf("room is referenced by existing meetings: %w", ErrAlreadyExists)
	}
	return err
}
