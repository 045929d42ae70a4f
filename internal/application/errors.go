package application

import "errors"

var (
	// ErrNotFound is returned when a referenced meeting, user, or room does not exist.
	ErrNotFound = errors.New("application: not found")
	// ErrForbidden is returned when the acting user's role disallows the operation.
	ErrForbidden = errors.New("application: forbidden")
	// ErrRoomConflict is returned when a booking overlaps another meeting in the same room.
	ErrRoomConflict = errors.New("application: room is already booked for the selected time")
	// ErrInvalidTransition is returned when a status update violates the meeting lifecycle.
	ErrInvalidTransition = errors.New("application: invalid status transition")
	// ErrAlreadyExists is returned when a unique attribute is already taken.
	ErrAlreadyExists = errors.New("application: already exists")
	// ErrInvalidCredentials is returned when authentication fails.
	ErrInvalidCredentials = errors.New("application: invalid credentials")
)

// ValidationError captures field level validation issues that callers can
// surface to users.
type ValidationError struct {
	FieldErrors map[string]string
}

// Error implements the error interface.
func (v *ValidationError) Error() string {
	if v == nil {
		return ""
	}
	return "validation failed"
}

// HasErrors reports whether any field level issues were recorded.
func (v *ValidationError) HasErrors() bool {
	return v != nil && len(v.FieldErrors) > 0
}

// add records a field level validation error.
func (v *ValidationError) add(field, message string) {
	if v.FieldErrors == nil {
		v.FieldErrors = make(map[string]string)
	}
	v.FieldErrors[field] = message
}
