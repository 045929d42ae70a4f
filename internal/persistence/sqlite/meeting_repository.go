package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/smartmeeting/internal/persistence"
)

// MeetingRepository implements persistence.MeetingRepository using SQLite.
type MeetingRepository struct {
	pool *ConnectionPool
}

// NewMeetingRepository creates a new SQLite meeting repository.
func NewMeetingRepository(pool *ConnectionPool) *MeetingRepository {
	return &MeetingRepository{pool: pool}
}

const meetingColumns = "id, title, agenda, organizer_id, room_id, start_time, end_time, status, created_at"

// CreateMeeting inserts a new meeting record.
func (r *MeetingRepository) CreateMeeting(ctx context.Context, meeting persistence.Meeting) error {
	if meeting.ID == "" {
		return persistence.ErrConstraintViolation
	}

	return r.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		_, err := tx.Exec(
			`INSERT INTO meetings (`+meetingColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			meeting.ID,
			meeting.Title,
			meeting.Agenda,
			meeting.OrganizerID,
			meeting.RoomID,
			formatTime(meeting.Start),
			formatTime(meeting.End),
			meeting.Status,
			formatTime(meeting.CreatedAt),
		)
		return mapError(err)
	})
}

// UpdateMeeting replaces the mutable fields of an existing meeting.
// The stored created_at is never touched.
func (r *MeetingRepository) UpdateMeeting(ctx context.Context, meeting persistence.Meeting) error {
	if meeting.ID == "" {
		return persistence.ErrNotFound
	}

	return r.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		result, err := tx.Exec(
			`UPDATE meetings
			 SET title = ?, agenda = ?, organizer_id = ?, room_id = ?, start_time = ?, end_time = ?, status = ?
			 WHERE id = ?`,
			meeting.Title,
			meeting.Agenda,
			meeting.OrganizerID,
			meeting.RoomID,
			formatTime(meeting.Start),
			formatTime(meeting.End),
			meeting.Status,
			meeting.ID,
		)
		if err != nil {
			return mapError(err)
		}

		affected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		if affected == 0 {
			return persistence.ErrNotFound
		}
		return nil
	})
}

// GetMeeting retrieves a meeting by id.
func (r *MeetingRepository) GetMeeting(ctx context.Context, id string) (persistence.Meeting, error) {
	if id == "" {
		return persistence.Meeting{}, persistence.ErrNotFound
	}

	row := r.pool.DB().QueryRowContext(ctx,
		`SELECT `+meetingColumns+` FROM meetings WHERE id = ?`, id)
	return scanMeeting(row)
}

// ListMeetings returns all meetings ordered by start time.
func (r *MeetingRepository) ListMeetings(ctx context.Context) ([]persistence.Meeting, error) {
	return r.queryMeetings(ctx,
		`SELECT `+meetingColumns+` FROM meetings ORDER BY start_time ASC, id ASC`)
}

// ListMeetingsForRoom returns all meetings booked in the given room ordered
// by start time.
func (r *MeetingRepository) ListMeetingsForRoom(ctx context.Context, roomID string) ([]persistence.Meeting, error) {
	return r.queryMeetings(ctx,
		`SELECT `+meetingColumns+` FROM meetings WHERE room_id = ? ORDER BY start_time ASC, id ASC`, roomID)
}

// DeleteMeeting removes a meeting; participant rows cascade.
func (r *MeetingRepository) DeleteMeeting(ctx context.Context, id string) error {
	if id == "" {
		return persistence.ErrNotFound
	}

	return r.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		result, err := tx.Exec(`DELETE FROM meetings WHERE id = ?`, id)
		if err != nil {
			return mapError(err)
		}

		affected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		if affected == 0 {
			return persistence.ErrNotFound
		}
		return nil
	})
}

func (r *MeetingRepository) queryMeetings(ctx context.Context, query string, args ...any) ([]persistence.Meeting, error) {
	rows, err := r.pool.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var meetings []persistence.Meeting
	for rows.Next() {
		meeting, err := scanMeeting(rows)
		if err != nil {
			return nil, err
		}
		meetings = append(meetings, meeting)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}
	return meetings, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMeeting(row rowScanner) (persistence.Meeting, error) {
	var meeting persistence.Meeting
	var start, end, createdAt string

	err := row.Scan(
		&meeting.ID,
		&meeting.Title,
		&meeting.Agenda,
		&meeting.OrganizerID,
		&meeting.RoomID,
		&start,
		&end,
		&meeting.Status,
		&createdAt,
	)
	if err != nil {
		return persistence.Meeting{}, mapError(err)
	}

	if meeting.Start, err = parseTime(start); err != nil {
		return persistence.Meeting{}, fmt.Errorf("failed to parse start_time: %w", err)
	}
	if meeting.End, err = parseTime(end); err != nil {
		return persistence.Meeting{}, fmt.Errorf("failed to parse end_time: %w", err)
	}
	if meeting.CreatedAt, err = parseTime(createdAt); err != nil {
		return persistence.Meeting{}, fmt.Errorf("failed to parse created_at: %w", err)
	}

	return meeting, nil
}

// RFC3339 with second precision keeps the stored strings fixed-width, so the
// lexicographic comparisons in ORDER BY and the end > start CHECK stay correct.
func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func parseTime(value string) (time.Time, error) {
	return time.Parse(time.RFC3339, value)
}
