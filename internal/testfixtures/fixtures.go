package testfixtures

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/example/smartmeeting/internal/application"
	"github.com/example/smartmeeting/internal/persistence"
)

var (
	userCounter    uint64
	roomCounter    uint64
	meetingCounter uint64
)

var referenceTime = time.Date(2025, time.June, 2, 9, 0, 0, 0, time.UTC)

// ReferenceTime returns the canonical baseline timestamp used by fixtures.
func ReferenceTime() time.Time {
	return referenceTime
}

// ----------------------------- User fixtures -----------------------------

// UserFixture represents a deterministic user record that can be materialised
// for application or persistence tests.
type UserFixture struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         string
	CreatedAt    time.Time
}

// UserOption configures the generated user fixture.
type UserOption func(*UserFixture)

// NewUserFixture returns a deterministic user fixture with optional overrides.
func NewUserFixture(opts ...UserOption) UserFixture {
	idx := atomic.AddUint64(&userCounter, 1)
	id := fmt.Sprintf("user-%03d", idx)
	fixture := UserFixture{
		ID:           id,
		Name:         fmt.Sprintf("User %03d", idx),
		Email:        fmt.Sprintf("%s@example.com", id),
		PasswordHash: fmt.Sprintf("hash-%03d", idx),
		Role:         application.RoleEmployee,
		CreatedAt:    referenceTime.Add(time.Duration(idx) * time.Minute),
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithUserID overrides the generated user ID.
func WithUserID(id string) UserOption {
	return func(f *UserFixture) {
		f.ID = id
	}
}

// WithUserName overrides the generated name.
func WithUserName(name string) UserOption {
	return func(f *UserFixture) {
		f.Name = name
	}
}

// WithUserEmail overrides the generated email address.
func WithUserEmail(email string) UserOption {
	return func(f *UserFixture) {
		f.Email = email
	}
}

// WithUserRole sets the role on the generated fixture.
func WithUserRole(role string) UserOption {
	return func(f *UserFixture) {
		f.Role = role
	}
}

// WithUserPasswordHash overrides the generated password hash.
func WithUserPasswordHash(hash string) UserOption {
	return func(f *UserFixture) {
		f.PasswordHash = hash
	}
}

// Application returns the fixture as an application.User value.
func (f UserFixture) Application() application.User {
	return application.User{
		ID:        f.ID,
		Name:      f.Name,
		Email:     f.Email,
		Role:      f.Role,
		CreatedAt: f.CreatedAt,
	}
}

// Credentials returns the fixture as application.UserCredentials.
func (f UserFixture) Credentials() application.UserCredentials {
	return application.UserCredentials{
		User:         f.Application(),
		PasswordHash: f.PasswordHash,
	}
}

// Principal returns an application.Principal derived from the fixture.
func (f UserFixture) Principal() application.Principal {
	return application.Principal{UserID: f.ID, Role: f.Role}
}

// Persistence returns the fixture as a persistence.User value.
func (f UserFixture) Persistence() persistence.User {
	return persistence.User{
		ID:           f.ID,
		Name:         f.Name,
		Email:        f.Email,
		PasswordHash: f.PasswordHash,
		Role:         f.Role,
		CreatedAt:    f.CreatedAt,
	}
}

// ----------------------------- Room fixtures -----------------------------

// RoomFixture represents a deterministic meeting room record.
type RoomFixture struct {
	ID        string
	Name      string
	Location  string
	Capacity  int
	CreatedAt time.Time
}

// RoomOption configures the generated room fixture.
type RoomOption func(*RoomFixture)

// NewRoomFixture returns a deterministic room fixture with optional overrides.
func NewRoomFixture(opts ...RoomOption) RoomFixture {
	idx := atomic.AddUint64(&roomCounter, 1)
	id := fmt.Sprintf("room-%03d", idx)
	fixture := RoomFixture{
		ID:        id,
		Name:      fmt.Sprintf("Room %03d", idx),
		Location:  "Main Office",
		Capacity:  int(4 + idx%4),
		CreatedAt: referenceTime.Add(time.Duration(idx) * time.Hour),
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithRoomID overrides the generated room ID.
func WithRoomID(id string) RoomOption {
	return func(f *RoomFixture) {
		f.ID = id
	}
}

// WithRoomName overrides the generated room name.
func WithRoomName(name string) RoomOption {
	return func(f *RoomFixture) {
		f.Name = name
	}
}

// WithRoomCapacity overrides the generated capacity.
func WithRoomCapacity(capacity int) RoomOption {
	return func(f *RoomFixture) {
		f.Capacity = capacity
	}
}

// Application returns the fixture as an application.Room value.
func (f RoomFixture) Application() application.Room {
	return application.Room{
		ID:        f.ID,
		Name:      f.Name,
		Location:  f.Location,
		Capacity:  f.Capacity,
		CreatedAt: f.CreatedAt,
	}
}

// Persistence returns the fixture as a persistence.Room value.
func (f RoomFixture) Persistence() persistence.Room {
	return persistence.Room{
		ID:        f.ID,
		Name:      f.Name,
		Location:  f.Location,
		Capacity:  f.Capacity,
		CreatedAt: f.CreatedAt,
	}
}

// Input returns the fixture as an application.RoomInput.
func (f RoomFixture) Input() application.RoomInput {
	return application.RoomInput{
		Name:     f.Name,
		Location: f.Location,
		Capacity: f.Capacity,
	}
}

// ---------------------------- Meeting fixtures ---------------------------

// MeetingFixture represents a deterministic meeting record.
type MeetingFixture struct {
	ID          string
	Title       string
	Agenda      string
	OrganizerID string
	RoomID      string
	Start       time.Time
	End         time.Time
	Status      application.MeetingStatus
	CreatedAt   time.Time
}

// MeetingOption configures the generated meeting fixture.
type MeetingOption func(*MeetingFixture)

// NewMeetingFixture returns a deterministic meeting fixture with optional
// overrides. Consecutive fixtures occupy consecutive hour slots so they never
// overlap unless a test asks them to.
func NewMeetingFixture(opts ...MeetingOption) MeetingFixture {
	idx := atomic.AddUint64(&meetingCounter, 1)
	start := referenceTime.Add(time.Duration(idx) * 2 * time.Hour)
	fixture := MeetingFixture{
		ID:          fmt.Sprintf("meeting-%03d", idx),
		Title:       fmt.Sprintf("Meeting %03d", idx),
		OrganizerID: fmt.Sprintf("user-%03d", idx),
		RoomID:      fmt.Sprintf("room-%03d", idx),
		Start:       start,
		End:         start.Add(time.Hour),
		Status:      application.StatusScheduled,
		CreatedAt:   referenceTime,
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithMeetingID overrides the meeting ID.
func WithMeetingID(id string) MeetingOption {
	return func(f *MeetingFixture) {
		f.ID = id
	}
}

// WithMeetingTitle overrides the title.
func WithMeetingTitle(title string) MeetingOption {
	return func(f *MeetingFixture) {
		f.Title = title
	}
}

// WithMeetingAgenda sets the agenda text.
func WithMeetingAgenda(agenda string) MeetingOption {
	return func(f *MeetingFixture) {
		f.Agenda = agenda
	}
}

// WithMeetingOrganizer sets the organizer ID.
func WithMeetingOrganizer(id string) MeetingOption {
	return func(f *MeetingFixture) {
		f.OrganizerID = id
	}
}

// WithMeetingRoom sets the room ID.
func WithMeetingRoom(id string) MeetingOption {
	return func(f *MeetingFixture) {
		f.RoomID = id
	}
}

// WithMeetingStartEnd sets the start and end times.
func WithMeetingStartEnd(start, end time.Time) MeetingOption {
	return func(f *MeetingFixture) {
		f.Start = start
		f.End = end
	}
}

// WithMeetingStatus sets the lifecycle status.
func WithMeetingStatus(status application.MeetingStatus) MeetingOption {
	return func(f *MeetingFixture) {
		f.Status = status
	}
}

// Application returns the fixture as an application.Meeting value.
func (f MeetingFixture) Application() application.Meeting {
	return application.Meeting{
		ID:          f.ID,
		Title:       f.Title,
		Agenda:      f.Agenda,
		OrganizerID: f.OrganizerID,
		RoomID:      f.RoomID,
		Start:       f.Start,
		End:         f.End,
		Status:      f.Status,
		CreatedAt:   f.CreatedAt,
	}
}

// Input returns the fixture as an application.MeetingInput.
func (f MeetingFixture) Input() application.MeetingInput {
	var agenda *string
	if f.Agenda != "" {
		value := f.Agenda
		agenda = &value
	}
	return application.MeetingInput{
		Title:       f.Title,
		Agenda:      agenda,
		OrganizerID: f.OrganizerID,
		RoomID:      f.RoomID,
		Start:       f.Start,
		End:         f.End,
		Status:      string(f.Status),
	}
}

// Persistence returns the fixture as a persistence.Meeting value.
func (f MeetingFixture) Persistence() persistence.Meeting {
	return persistence.Meeting{
		ID:          f.ID,
		Title:       f.Title,
		Agenda:      f.Agenda,
		OrganizerID: f.OrganizerID,
		RoomID:      f.RoomID,
		Start:       f.Start,
		End:         f.End,
		Status:      string(f.Status),
		CreatedAt:   f.CreatedAt,
	}
}
