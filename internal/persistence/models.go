package persistence

import "time"

// User is the stored representation of an account in the directory.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         string
	CreatedAt    time.Time
}

// Room is the stored representation of a bookable meeting room.
type Room struct {
	ID        string
	Name      string
	Location  string
	Capacity  int
	CreatedAt time.Time
}

// Meeting is the stored representation of a booked meeting.
type Meeting struct {
	ID          string
	Title       string
	Agenda      string
	OrganizerID string
	RoomID      string
	Start       time.Time
	End         time.Time
	Status      string
	CreatedAt   time.Time
}

// Participant links a user to a meeting they are invited to.
type Participant struct {
	MeetingID string
	UserID    string
}

// Notification is the stored representation of a delivered notification.
type Notification struct {
	ID        string
	UserID    string
	Type      string
	Message   string
	MeetingID *string
	CreatedAt time.Time
	IsRead    bool
}
