package persistence

import "context"

// UserRepository exposes CRUD operations for directory users.
type UserRepository interface {
	CreateUser(ctx context.Context, user User) error
	UpdateUser(ctx context.Context, user User) error
	GetUser(ctx context.Context, id string) (User, error)
	GetUserByEmail(ctx context.Context, email string) (User, error)
	ListUsers(ctx context.Context) ([]User, error)
	DeleteUser(ctx context.Context, id string) error
}

// RoomRepository exposes CRUD operations for the room catalog.
type RoomRepository interface {
	CreateRoom(ctx context.Context, room Room) error
	UpdateRoom(ctx context.Context, room Room) error
	GetRoom(ctx context.Context, id string) (Room, error)
	ListRooms(ctx context.Context) ([]Room, error)
	DeleteRoom(ctx context.Context, id string) error
}

// MeetingRepository stores meeting records.
type MeetingRepository interface {
	CreateMeeting(ctx context.Context, meeting Meeting) error
	UpdateMeeting(ctx context.Context, meeting Meeting) error
	GetMeeting(ctx context.Context, id string) (Meeting, error)
	ListMeetings(ctx context.Context) ([]Meeting, error)
	ListMeetingsForRoom(ctx context.Context, roomID string) ([]Meeting, error)
	DeleteMeeting(ctx context.Context, id string) error
}

// ParticipantRepository stores the meeting-to-attendee join rows.
type ParticipantRepository interface {
	AddParticipant(ctx context.Context, participant Participant) error
	RemoveParticipant(ctx context.Context, meetingID, userID string) error
	ListParticipants(ctx context.Context, meetingID string) ([]Participant, error)
	ListParticipantUserIDs(ctx context.Context, meetingID string) ([]string, error)
}

// NotificationFilter narrows notification queries for a single user.
type NotificationFilter struct {
	UnreadOnly bool
	Take       int
}

// NotificationRepository stores delivered notifications.
type NotificationRepository interface {
	CreateNotification(ctx context.Context, notification Notification) error
	ListNotificationsForUser(ctx context.Context, userID string, filter NotificationFilter) ([]Notification, error)
	CountUnread(ctx context.Context, userID string) (int, error)
	MarkRead(ctx context.Context, id, userID string) error
	MarkAllRead(ctx context.Context, userID string) error
	DeleteNotification(ctx context.Context, id, userID string) error
}
