package testfixtures

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/example/smartmeeting/internal/application"
	"github.com/example/smartmeeting/internal/persistence"
)

// MemoryStore is an in-memory implementation of the application layer's
// repository interfaces, for tests that exercise services or handlers
// without a database.
type MemoryStore struct {
	mu            sync.RWMutex
	users         map[string]application.User
	passwords     map[string]string
	rooms         map[string]application.Room
	meetings      map[string]application.Meeting
	participants  map[string]map[string]struct{}
	notifications map[string]application.Notification
	order         []string
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:         make(map[string]application.User),
		passwords:     make(map[string]string),
		rooms:         make(map[string]application.Room),
		meetings:      make(map[string]application.Meeting),
		participants:  make(map[string]map[string]struct{}),
		notifications: make(map[string]application.Notification),
	}
}

// SeedUser inserts a user together with their password hash.
func (s *MemoryStore) SeedUser(user application.User, passwordHash string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[user.ID] = user
	s.passwords[user.ID] = passwordHash
}

// SeedRoom inserts a room.
func (s *MemoryStore) SeedRoom(room application.Room) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rooms[room.ID] = room
}

// SeedMeeting inserts a meeting.
func (s *MemoryStore) SeedMeeting(meeting application.Meeting) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.meetings[meeting.ID] = meeting
}

// SeedParticipant attaches a user to a meeting's roster.
func (s *MemoryStore) SeedParticipant(meetingID, userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.participants[meetingID] == nil {
		s.participants[meetingID] = make(map[string]struct{})
	}
	s.participants[meetingID][userID] = struct{}{}
}

// --------------------------- MeetingRepository ---------------------------

func (s *MemoryStore) CreateMeeting(_ context.Context, meeting application.Meeting) (application.Meeting, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.meetings[meeting.ID] = meeting
	return meeting, nil
}

func (s *MemoryStore) GetMeeting(_ context.Context, id string) (application.Meeting, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	meeting, ok := s.meetings[id]
	if !ok {
		return application.Meeting{}, application.ErrNotFound
	}
	return meeting, nil
}

func (s *MemoryStore) UpdateMeeting(_ context.Context, meeting application.Meeting) (application.Meeting, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.meetings[meeting.ID]; !ok {
		return application.Meeting{}, application.ErrNotFound
	}
	s.meetings[meeting.ID] = meeting
	return meeting, nil
}

func (s *MemoryStore) DeleteMeeting(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.meetings[id]; !ok {
		return application.ErrNotFound
	}
	delete(s.meetings, id)
	delete(s.participants, id)
	return nil
}

func (s *MemoryStore) ListMeetings(_ context.Context) ([]application.Meeting, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]application.Meeting, 0, len(s.meetings))
	for _, meeting := range s.meetings {
		out = append(out, meeting)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Start.Before(out[j].Start) })
	return out, nil
}

func (s *MemoryStore) ListMeetingsForRoom(_ context.Context, roomID string) ([]application.Meeting, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []application.Meeting
	for _, meeting := range s.meetings {
		if meeting.RoomID == roomID {
			out = append(out, meeting)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Start.Before(out[j].Start) })
	return out, nil
}

// ------------------------- UserDirectory / users -------------------------

func (s *MemoryStore) CreateUser(_ context.Context, user application.User, passwordHash string) (application.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if strings.EqualFold(existing.Email, user.Email) {
			return application.User{}, persistence.ErrDuplicate
		}
	}
	s.users[user.ID] = user
	s.passwords[user.ID] = passwordHash
	return user, nil
}

func (s *MemoryStore) GetUser(_ context.Context, id string) (application.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.users[id]
	if !ok {
		return application.User{}, application.ErrNotFound
	}
	return user, nil
}

func (s *MemoryStore) UpdateUser(_ context.Context, user application.User) (application.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[user.ID]; !ok {
		return application.User{}, application.ErrNotFound
	}
	s.users[user.ID] = user
	return user, nil
}

func (s *MemoryStore) DeleteUser(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[id]; !ok {
		return application.ErrNotFound
	}
	delete(s.users, id)
	delete(s.passwords, id)
	return nil
}

func (s *MemoryStore) ListUsers(_ context.Context) ([]application.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]application.User, 0, len(s.users))
	for _, user := range s.users {
		out = append(out, user)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *MemoryStore) FindUser(_ context.Context, id string) (application.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.users[id]
	if !ok {
		return application.User{}, application.ErrNotFound
	}
	return user, nil
}

func (s *MemoryStore) GetUserByEmail(_ context.Context, email string) (application.UserCredentials, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, user := range s.users {
		if strings.EqualFold(user.Email, email) {
			return application.UserCredentials{User: user, PasswordHash: s.passwords[user.ID]}, nil
		}
	}
	return application.UserCredentials{}, application.ErrNotFound
}

// ----------------------------- RoomRepository ----------------------------

func (s *MemoryStore) CreateRoom(_ context.Context, room application.Room) (application.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.rooms {
		if existing.Name == room.Name {
			return application.Room{}, persistence.ErrDuplicate
		}
	}
	s.rooms[room.ID] = room
	return room, nil
}

func (s *MemoryStore) GetRoom(_ context.Context, id string) (application.Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	room, ok := s.rooms[id]
	if !ok {
		return application.Room{}, application.ErrNotFound
	}
	return room, nil
}

func (s *MemoryStore) UpdateRoom(_ context.Context, room application.Room) (application.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rooms[room.ID]; !ok {
		return application.Room{}, application.ErrNotFound
	}
	s.rooms[room.ID] = room
	return room, nil
}

func (s *MemoryStore) DeleteRoom(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rooms[id]; !ok {
		return application.ErrNotFound
	}
	for _, meeting := range s.meetings {
		if meeting.RoomID == id {
			return persistence.ErrForeignKeyViolation
		}
	}
	delete(s.rooms, id)
	return nil
}

func (s *MemoryStore) ListRooms(_ context.Context) ([]application.Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]application.Room, 0, len(s.rooms))
	for _, room := range s.rooms {
		out = append(out, room)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// --------------------------- ParticipantStore ----------------------------

func (s *MemoryStore) ListParticipantUserIDs(_ context.Context, meetingID string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	roster := s.participants[meetingID]
	out := make([]string, 0, len(roster))
	for userID := range roster {
		out = append(out, userID)
	}
	sort.Strings(out)
	return out, nil
}

func (s *MemoryStore) AddParticipant(_ context.Context, meetingID, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.participants[meetingID] == nil {
		s.participants[meetingID] = make(map[string]struct{})
	}
	s.participants[meetingID][userID] = struct{}{}
	return nil
}

func (s *MemoryStore) RemoveParticipant(_ context.Context, meetingID, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	roster := s.participants[meetingID]
	if roster == nil {
		return application.ErrNotFound
	}
	if _, ok := roster[userID]; !ok {
		return application.ErrNotFound
	}
	delete(roster, userID)
	return nil
}

func (s *MemoryStore) ListParticipants(ctx context.Context, meetingID string) ([]application.User, error) {
	ids, err := s.ListParticipantUserIDs(ctx, meetingID)
	if err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]application.User, 0, len(ids))
	for _, id := range ids {
		if user, ok := s.users[id]; ok {
			out = append(out, user)
		}
	}
	return out, nil
}

// ------------------------ NotificationRepository -------------------------

func (s *MemoryStore) CreateNotification(_ context.Context, notification application.Notification) (application.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifications[notification.ID] = notification
	s.order = append(s.order, notification.ID)
	return notification, nil
}

func (s *MemoryStore) ListNotificationsForUser(_ context.Context, userID string, filter application.NotificationFilter) ([]application.Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []application.Notification
	for i := len(s.order) - 1; i >= 0; i-- {
		notification, ok := s.notifications[s.order[i]]
		if !ok || notification.UserID != userID {
			continue
		}
		if filter.UnreadOnly && notification.IsRead {
			continue
		}
		out = append(out, notification)
		if filter.Take > 0 && len(out) == filter.Take {
			break
		}
	}
	return out, nil
}

func (s *MemoryStore) CountUnreadNotifications(_ context.Context, userID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	count := 0
	for _, notification := range s.notifications {
		if notification.UserID == userID && !notification.IsRead {
			count++
		}
	}
	return count, nil
}

func (s *MemoryStore) MarkNotificationRead(_ context.Context, id, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	notification, ok := s.notifications[id]
	if !ok || notification.UserID != userID {
		return application.ErrNotFound
	}
	notification.IsRead = true
	s.notifications[id] = notification
	return nil
}

func (s *MemoryStore) MarkAllNotificationsRead(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, notification := range s.notifications {
		if notification.UserID == userID && !notification.IsRead {
			notification.IsRead = true
			s.notifications[id] = notification
		}
	}
	return nil
}

func (s *MemoryStore) DeleteNotification(_ context.Context, id, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	notification, ok := s.notifications[id]
	if !ok || notification.UserID != userID {
		return application.ErrNotFound
	}
	delete(s.notifications, id)
	return nil
}

// NotificationsFor returns all stored notifications for a user, oldest first.
func (s *MemoryStore) NotificationsFor(userID string) []application.Notification {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []application.Notification
	for _, id := range s.order {
		if notification, ok := s.notifications[id]; ok && notification.UserID == userID {
			out = append(out, notification)
		}
	}
	return out
}
