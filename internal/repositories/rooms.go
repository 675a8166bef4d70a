package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/Lalka12235/TuneWave/internal/models"
)

// RoomRepository stores room and member snapshots keyed by view target.
type RoomRepository struct {
	db *sql.DB
}

// NewRoomRepository creates a RoomRepository with the given database connection
func NewRoomRepository(db *sql.DB) *RoomRepository {
	return &RoomRepository{db: db}
}

// ReplaceView swaps the stored snapshot for one view target with the given
// rooms in a single transaction.
func (r *RoomRepository) ReplaceView(target string, rooms []models.Room) error {
	if target == "" {
		return fmt.Errorf("a view target is required")
	}

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM room_snapshots WHERE target = ?", target); err != nil {
		return fmt.Errorf("failed to clear previous snapshot: %w", err)
	}

	query := `
		INSERT INTO room_snapshots (
			id, target, name, max_members, is_private, owner_id,
			current_track_id, current_track_position_ms, is_playing,
			current_members_count, created_at, fetched_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	now := time.Now()
	for _, room := range rooms {
		_, err := tx.Exec(query,
			room.ID,
			target,
			room.Name,
			room.MaxMembers,
			room.IsPrivate,
			room.OwnerID,
			room.CurrentTrackID,
			room.CurrentTrackPosMS,
			room.IsPlaying,
			room.CurrentMemberCount,
			room.CreatedAt,
			now,
		)
		if err != nil {
			return fmt.Errorf("failed to insert room snapshot: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit snapshot: %w", err)
	}

	return nil
}

// View returns the stored snapshot for a target along with the time it was
// fetched. A missing snapshot returns no rooms and a zero time.
func (r *RoomRepository) View(target string) ([]models.Room, time.Time, error) {
	query := `
		SELECT id, name, max_members, is_private, owner_id,
		       current_track_id, current_track_position_ms, is_playing,
		       current_members_count, created_at, fetched_at
		FROM room_snapshots
		WHERE target = ?
		ORDER BY name
	`

	rows, err := r.db.Query(query, target)
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("failed to query snapshot: %w", err)
	}
	defer rows.Close()

	var rooms []models.Room
	var fetchedAt time.Time

	for rows.Next() {
		var room models.Room
		var createdAt sql.NullTime
		if err := rows.Scan(
			&room.ID,
			&room.Name,
			&room.MaxMembers,
			&room.IsPrivate,
			&room.OwnerID,
			&room.CurrentTrackID,
			&room.CurrentTrackPosMS,
			&room.IsPlaying,
			&room.CurrentMemberCount,
			&createdAt,
			&fetchedAt,
		); err != nil {
			return nil, time.Time{}, fmt.Errorf("failed to scan room snapshot: %w", err)
		}
		if createdAt.Valid {
			room.CreatedAt = createdAt.Time
		}
		rooms = append(rooms, room)
	}

	if err := rows.Err(); err != nil {
		return nil, time.Time{}, fmt.Errorf("failed to iterate snapshot: %w", err)
	}

	return rooms, fetchedAt, nil
}

// Get returns one stored room by id, preferring the personal snapshot when
// the room appears in both views.
func (r *RoomRepository) Get(id string) (*models.Room, error) {
	query := `
		SELECT id, name, max_members, is_private, owner_id,
		       current_track_id, current_track_position_ms, is_playing,
		       current_members_count, created_at
		FROM room_snapshots
		WHERE id = ?
		ORDER BY target DESC
		LIMIT 1
	`

	var room models.Room
	var createdAt sql.NullTime
	err := r.db.QueryRow(query, id).Scan(
		&room.ID,
		&room.Name,
		&room.MaxMembers,
		&room.IsPrivate,
		&room.OwnerID,
		&room.CurrentTrackID,
		&room.CurrentTrackPosMS,
		&room.IsPlaying,
		&room.CurrentMemberCount,
		&createdAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query room snapshot: %w", err)
	}
	if createdAt.Valid {
		room.CreatedAt = createdAt.Time
	}
	return &room, nil
}

// ReplaceMembers swaps the stored member list for one room.
func (r *RoomRepository) ReplaceMembers(roomID string, members []models.Member) error {
	if roomID == "" {
		return fmt.Errorf("a room id is required")
	}

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM member_snapshots WHERE room_id = ?", roomID); err != nil {
		return fmt.Errorf("failed to clear previous members: %w", err)
	}

	now := time.Now()
	for _, member := range members {
		_, err := tx.Exec(
			"INSERT INTO member_snapshots (room_id, member_id, username, fetched_at) VALUES (?, ?, ?, ?)",
			roomID, member.ID, member.Username, now,
		)
		if err != nil {
			return fmt.Errorf("failed to insert member snapshot: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit members: %w", err)
	}

	return nil
}

// Members returns the stored member list for one room ordered by username.
func (r *RoomRepository) Members(roomID string) ([]models.Member, error) {
	rows, err := r.db.Query(
		"SELECT member_id, username FROM member_snapshots WHERE room_id = ? ORDER BY username",
		roomID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query member snapshots: %w", err)
	}
	defer rows.Close()

	var members []models.Member
	for rows.Next() {
		var member models.Member
		if err := rows.Scan(&member.ID, &member.Username); err != nil {
			return nil, fmt.Errorf("failed to scan member snapshot: %w", err)
		}
		members = append(members, member)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate member snapshots: %w", err)
	}

	return members, nil
}

// Purge drops all stored snapshots.
func (r *RoomRepository) Purge() error {
	if _, err := r.db.Exec("DELETE FROM member_snapshots"); err != nil {
		return fmt.Errorf("failed to purge member snapshots: %w", err)
	}
	if _, err := r.db.Exec("DELETE FROM room_snapshots"); err != nil {
		return fmt.Errorf("failed to purge room snapshots: %w", err)
	}
	return nil
}
