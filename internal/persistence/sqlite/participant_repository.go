package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/example/smartmeeting/internal/persistence"
)

// ParticipantRepository implements persistence.ParticipantRepository using SQLite.
type ParticipantRepository struct {
	pool *ConnectionPool
}

// NewParticipantRepository creates a new SQLite participant repository.
func NewParticipantRepository(pool *ConnectionPool) *ParticipantRepository {
	return &ParticipantRepository{pool: pool}
}

// AddParticipant inserts a meeting-attendee join row. Adding the same user
// twice surfaces persistence.ErrDuplicate via the primary key.
func (r *ParticipantRepository) AddParticipant(ctx context.Context, participant persistence.Participant) error {
	return r.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		_, err := tx.Exec(
			`INSERT INTO participants (meeting_id, user_id) VALUES (?, ?)`,
			participant.MeetingID,
			participant.UserID,
		)
		return mapError(err)
	})
}

// RemoveParticipant deletes a meeting-attendee join row.
func (r *ParticipantRepository) RemoveParticipant(ctx context.Context, meetingID, userID string) error {
	return r.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		result, err := tx.Exec(
			`DELETE FROM participants WHERE meeting_id = ? AND user_id = ?`,
			meetingID,
			userID,
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

// ListParticipants returns the join rows for a meeting ordered by user id.
func (r *ParticipantRepository) ListParticipants(ctx context.Context, meetingID string) ([]persistence.Participant, error) {
	rows, err := r.pool.DB().QueryContext(ctx,
		`SELECT meeting_id, user_id FROM participants WHERE meeting_id = ? ORDER BY user_id ASC`, meetingID)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var participants []persistence.Participant
	for rows.Next() {
		var participant persistence.Participant
		if err := rows.Scan(&participant.MeetingID, &participant.UserID); err != nil {
			return nil, mapError(err)
		}
		participants = append(participants, participant)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}
	return participants, nil
}

// ListParticipantUserIDs returns the attendee user ids for a meeting.
func (r *ParticipantRepository) ListParticipantUserIDs(ctx context.Context, meetingID string) ([]string, error) {
	rows, err := r.pool.DB().QueryContext(ctx,
		`SELECT user_id FROM participants WHERE meeting_id = ? ORDER BY user_id ASC`, meetingID)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var userIDs []string
	for rows.Next() {
		var userID string
		if err := rows.Scan(&userID); err != nil {
			return nil, mapError(err)
		}
		userIDs = append(userIDs, userID)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}
	return userIDs, nil
}
