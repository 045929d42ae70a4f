package application

import "strings"

// MeetingStatus is the lifecycle state of a meeting.
type MeetingStatus string

const (
	StatusScheduled  MeetingStatus = "Scheduled"
	StatusInProgress MeetingStatus = "InProgress"
	StatusCompleted  MeetingStatus = "Completed"
	StatusCancelled  MeetingStatus = "Cancelled"
)

// ParseMeetingStatus resolves a caller supplied status string
// case-insensitively. The boolean is false for unknown values.
func ParseMeetingStatus(value string) (MeetingStatus, bool) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "scheduled":
		return StatusScheduled, true
	case "inprogress":
		return StatusInProgress, true
	case "completed":
		return StatusCompleted, true
	case "cancelled", "canceled":
		return StatusCancelled, true
	}
	return "", false
}

// CanTransitionTo reports whether the lifecycle permits moving from the
// receiver to next. Re-asserting the current status is always permitted and
// treated as a no-op by callers.
//
// Scheduled → InProgress → Completed; Scheduled and InProgress may move to
// Cancelled; Completed and Cancelled are terminal.
func (s MeetingStatus) CanTransitionTo(next MeetingStatus) bool {
	if s == next {
		return true
	}
	switch s {
	case StatusScheduled:
		return next == StatusInProgress || next == StatusCancelled
	case StatusInProgress:
		return next == StatusCompleted || next == StatusCancelled
	default:
		return false
	}
}
