package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/colonyops/preview/internal/core/preview"
)

const (
	upsertState = `
INSERT INTO panel_states (panel_id, slot, state, updated_at)
VALUES (?, ?, ?, ?)
ON CONFLICT (panel_id) DO UPDATE SET
    slot = excluded.slot,
    state = excluded.state,
    updated_at = excluded.updated_at`

	listStates = `
SELECT panel_id, slot, state, updated_at
FROM panel_states
ORDER BY slot, updated_at, panel_id`

	deleteState = `DELETE FROM panel_states WHERE panel_id = ?`
	clearStates = `DELETE FROM panel_states`
)

// StateStore implements preview.StateStore using SQLite.
type StateStore struct {
	db *DB
}

var _ preview.StateStore = (*StateStore)(nil)

// NewStateStore creates a new SQLite-backed panel state store.
func NewStateStore(db *DB) *StateStore {
	return &StateStore{db: db}
}

// Save inserts or replaces the state of a panel. Busy databases are retried
// with backoff.
func (s *StateStore) Save(ctx context.Context, state preview.StoredState) error {
	if state.UpdatedAt.IsZero() {
		state.UpdatedAt = time.Now()
	}

	wait := initialWait
	for i := 0; ; i++ {
		_, err := s.db.conn.ExecContext(ctx, upsertState,
			state.PanelID,
			int(state.Slot),
			string(state.Blob),
			state.UpdatedAt.UnixNano(),
		)
		if err == nil {
			return nil
		}
		if !IsBusyError(err) || i == maxRetries-1 {
			return fmt.Errorf("save panel state %q: %w", state.PanelID, err)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
			wait *= 2
		}
	}
}

// List returns all states ordered by slot, then by save time.
func (s *StateStore) List(ctx context.Context) ([]preview.StoredState, error) {
	rows, err := s.db.conn.QueryContext(ctx, listStates)
	if err != nil {
		return nil, fmt.Errorf("list panel states: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []preview.StoredState
	for rows.Next() {
		var (
			st        preview.StoredState
			slot      int
			blob      string
			updatedAt int64
		)
		if err := rows.Scan(&st.PanelID, &slot, &blob, &updatedAt); err != nil {
			return nil, fmt.Errorf("scan panel state: %w", err)
		}
		st.Slot = preview.Slot(slot)
		st.Blob = []byte(blob)
		st.UpdatedAt = time.Unix(0, updatedAt)
		out = append(out, st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list panel states: %w", err)
	}

	return out, nil
}

// Delete removes the state of a panel. Returns ErrNotFound if absent.
func (s *StateStore) Delete(ctx context.Context, panelID string) error {
	res, err := s.db.conn.ExecContext(ctx, deleteState, panelID)
	if err != nil {
		return fmt.Errorf("delete panel state %q: %w", panelID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete panel state %q: %w", panelID, err)
	}
	if n == 0 {
		return fmt.Errorf("delete panel state %q: %w", panelID, preview.ErrNotFound)
	}
	return nil
}

// Replace clears the table and inserts states inside one transaction.
func (s *StateStore) Replace(ctx context.Context, states []preview.StoredState) error {
	now := time.Now()
	return s.db.WithTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, clearStates); err != nil {
			return fmt.Errorf("clear panel states: %w", err)
		}
		for _, st := range states {
			if st.UpdatedAt.IsZero() {
				st.UpdatedAt = now
			}
			_, err := tx.ExecContext(ctx, upsertState,
				st.PanelID,
				int(st.Slot),
				string(st.Blob),
				st.UpdatedAt.UnixNano(),
			)
			if err != nil {
				return fmt.Errorf("save panel state %q: %w", st.PanelID, err)
			}
		}
		return nil
	})
}

// Clear removes every stored state.
func (s *StateStore) Clear(ctx context.Context) error {
	return s.db.WithTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, clearStates); err != nil {
			return fmt.Errorf("clear panel states: %w", err)
		}
		return nil
	})
}
