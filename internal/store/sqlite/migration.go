package sqlite

import (
	"context"
	"fmt"
	"os"

	"github.com/colonyops/preview/internal/store/jsonfile"
)

// MigrateFromJSON copies panel states from a JSON state file into SQLite when:
// - the JSON file exists
// - the database has no panel states
// Skips migration if the database is already populated to avoid resurrecting
// panels that were closed after switching backends.
func MigrateFromJSON(ctx context.Context, db *DB, jsonPath string) (int, error) {
	if _, err := os.Stat(jsonPath); os.IsNotExist(err) {
		return 0, nil
	}

	store := NewStateStore(db)
	existing, err := store.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to check existing states: %w", err)
	}
	if len(existing) > 0 {
		return 0, nil
	}

	states, err := jsonfile.NewStateStore(jsonPath).List(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to read state file: %w", err)
	}

	for _, st := range states {
		if err := store.Save(ctx, st); err != nil {
			return 0, fmt.Errorf("failed to save state %s: %w", st.PanelID, err)
		}
	}

	return len(states), nil
}
