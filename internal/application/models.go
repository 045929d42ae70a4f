package application

import "time"

// Principal represents the authenticated user invoking a service method.
type Principal struct {
	UserID string
	Role   string
}

// Meeting represents a persisted meeting booking.
type Meeting struct {
	ID          string
	Title       string
	Agenda      string
	OrganizerID string
	RoomID      string
	Start       time.Time
	End         time.Time
	Status      MeetingStatus
	CreatedAt   time.Time
}

// MeetingInput captures caller provided meeting fields for create and update.
//
// Agenda is a pointer so callers can distinguish "leave unchanged" (nil) from
// "clear the agenda" (empty string) on update. A blank Title or Status on
// update likewise falls back to the stored value.
type MeetingInput struct {
	Title       string
	Agenda      *string
	OrganizerID string
	RoomID      string
	Start       time.Time
	End         time.Time
	Status      string
}

// User represents a directory account.
type User struct {
	ID        string
	Name      string
	Email     string
	Role      string
	CreatedAt time.Time
}

// UserCredentials bundles a user with their stored password hash for
// authentication flows.
type UserCredentials struct {
	User         User
	PasswordHash string
}

// UserInput captures caller provided user attributes.
type UserInput struct {
	Name     string
	Email    string
	Password string
	Role     string
}

// Room represents a catalog entry for a bookable meeting room.
type Room struct {
	ID        string
	Name      string
	Location  string
	Capacity  int
	CreatedAt time.Time
}

// RoomInput captures caller provided room fields.
type RoomInput struct {
	Name     string
	Location string
	Capacity int
}

// Participant links a user to a meeting they attend.
type Participant struct {
	MeetingID string
	UserID    string
}

// Notification represents a delivered notification.
type Notification struct {
	ID        string
	UserID    string
	Type      string
	Message   string
	MeetingID *string
	CreatedAt time.Time
	IsRead    bool
}

// NotificationInput captures the fields needed to create a notification.
type NotificationInput struct {
	UserID    string
	Type      string
	Message   string
	MeetingID *string
}

// Notification types emitted by the meeting service.
const (
	NotificationTypeMeetingUpdated  = "MeetingUpdated"
	NotificationTypeMeetingCanceled = "MeetingCanceled"
)

// Directory roles. Guests may never schedule or modify meetings.
const (
	RoleAdmin    = "Admin"
	RoleEmployee = "Employee"
	RoleGuest    = "Guest"
)

// AuthResult captures the outcome of a successful authentication attempt.
type AuthResult struct {
	User      User
	Token     string
	ExpiresAt time.Time
}
