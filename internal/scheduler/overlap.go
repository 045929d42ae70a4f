package scheduler

import "time"

// Booking represents a room reservation held by a meeting.
type Booking struct {
	MeetingID string
	RoomID    string
	Start     time.Time
	End       time.Time
}

// Overlaps reports whether two half-open intervals [aStart, aEnd) and
// [bStart, bEnd) intersect. Back-to-back bookings, where one interval ends
// exactly when the other starts, do not overlap.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

// FindRoomConflict returns the first existing booking that occupies the
// candidate's room during the candidate's time range. A booking whose
// meeting id equals excludeMeetingID is skipped so a meeting can keep or
// extend its own slot. Returns nil when the room is free.
func FindRoomConflict(existing []Booking, candidate Booking, excludeMeetingID string) *Booking {
	for i := range existing {
		other := existing[i]
		if excludeMeetingID != "" && other.MeetingID == excludeMeetingID {
			continue
		}
		if other.RoomID != candidate.RoomID {
			continue
		}
		if Overlaps(other.Start, other.End, candidate.Start, candidate.End) {
			return &other
		}
	}
	return nil
}
