// Package jsonfile persists preview panel states in a single JSON file.
package jsonfile

import (
	"cmp"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/colonyops/preview/internal/core/preview"
)

// StateFile is the root JSON structure stored on disk.
type StateFile struct {
	Panels []preview.StoredState `json:"panels"`
}

// StateStore implements preview.StateStore using a JSON file for persistence.
type StateStore struct {
	path string
	mu   sync.RWMutex
}

var _ preview.StateStore = (*StateStore)(nil)

// NewStateStore creates a new JSON file state store at the given path.
func NewStateStore(path string) *StateStore {
	return &StateStore{path: path}
}

// List returns all panel states ordered by slot, then by save time.
func (s *StateStore) List(ctx context.Context) ([]preview.StoredState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	file, err := s.load()
	if err != nil {
		return nil, err
	}

	slices.SortStableFunc(file.Panels, func(a, b preview.StoredState) int {
		if c := cmp.Compare(a.Slot, b.Slot); c != 0 {
			return c
		}
		return a.UpdatedAt.Compare(b.UpdatedAt)
	})
	return file.Panels, nil
}

// Save inserts or replaces the state of a panel.
func (s *StateStore) Save(ctx context.Context, state preview.StoredState) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	file, err := s.load()
	if err != nil {
		return err
	}

	if state.UpdatedAt.IsZero() {
		state.UpdatedAt = time.Now()
	}

	idx := slices.IndexFunc(file.Panels, func(p preview.StoredState) bool { return p.PanelID == state.PanelID })
	if idx >= 0 {
		file.Panels[idx] = state
	} else {
		file.Panels = append(file.Panels, state)
	}

	return s.save(file)
}

// Delete removes the state of a panel. Returns ErrNotFound if absent.
func (s *StateStore) Delete(ctx context.Context, panelID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	file, err := s.load()
	if err != nil {
		return err
	}

	idx := slices.IndexFunc(file.Panels, func(p preview.StoredState) bool { return p.PanelID == panelID })
	if idx < 0 {
		return fmt.Errorf("delete panel state %q: %w", panelID, preview.ErrNotFound)
	}
	file.Panels = slices.Delete(file.Panels, idx, idx+1)

	return s.save(file)
}

// Clear removes all panel states.
func (s *StateStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.save(StateFile{Panels: []preview.StoredState{}})
}

// Replace writes states as the complete stored set in a single file write.
func (s *StateStore) Replace(ctx context.Context, states []preview.StoredState) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	panels := make([]preview.StoredState, 0, len(states))
	for _, st := range states {
		if st.UpdatedAt.IsZero() {
			st.UpdatedAt = now
		}
		panels = append(panels, st)
	}
	return s.save(StateFile{Panels: panels})
}

// load reads the state file from disk.
// Returns empty StateFile if file doesn't exist.
func (s *StateStore) load() (StateFile, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return StateFile{}, nil
		}
		return StateFile{}, err
	}

	if len(data) == 0 {
		return StateFile{}, nil
	}

	var file StateFile
	if err := json.Unmarshal(data, &file); err != nil {
		return StateFile{}, fmt.Errorf("parse %s: %w", s.path, err)
	}

	return file, nil
}

// save writes the state file to disk atomically.
func (s *StateStore) save(file StateFile) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return err
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}

	return os.Rename(tmp, s.path)
}
