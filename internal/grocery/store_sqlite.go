package grocery

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// SQLiteStore persists check state as one JSON blob row per user.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLiteStore.
func NewSQLiteStore(d *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: d}
}

// LoadChecks retrieves the stored check state for a user. A user with no
// saved state gets an empty one.
func (s *SQLiteStore) LoadChecks(ctx context.Context, userID string) (CheckState, error) {
	var data string
	err := s.db.QueryRowContext(ctx,
		`SELECT data FROM check_states WHERE user_id = ?`, userID).Scan(&data)
	if err != nil {
		if err == sql.ErrNoRows {
			return CheckState{}, nil
		}
		return nil, fmt.Errorf("failed to load check state: %w", err)
	}

	var state CheckState
	if err := json.Unmarshal([]byte(data), &state); err != nil {
		return nil, fmt.Errorf("failed to unmarshal check state JSON: %w", err)
	}
	return state, nil
}

// SaveChecks upserts the user's check state verbatim.
func (s *SQLiteStore) SaveChecks(ctx context.Context, userID string, state CheckState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to marshal check state to JSON: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO check_states (user_id, data, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
		userID, string(data), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to save check state: %w", err)
	}
	return nil
}
