package preview

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// State is the serializable form of a session. It carries everything needed
// to rebuild an equivalent session with RestoreSession.
type State struct {
	Resource Resource `json:"resource"`
	Slot     Slot     `json:"slot"`
	Locked   bool     `json:"locked"`
	Line     *int     `json:"line,omitempty"`
}

// EncodeState serializes s.
func EncodeState(s State) ([]byte, error) {
	return json.Marshal(s)
}

// DecodeState parses a blob produced by EncodeState.
func DecodeState(blob []byte) (State, error) {
	var s State
	if err := json.Unmarshal(blob, &s); err != nil {
		return State{}, fmt.Errorf("%w: %w", ErrInvalidState, err)
	}
	if s.Resource == "" {
		return State{}, fmt.Errorf("%w: missing resource", ErrInvalidState)
	}
	return s, nil
}

// StoredState is a persisted panel: the host's own placement data plus the
// opaque session blob.
type StoredState struct {
	PanelID   string          `json:"panel_id"`
	Slot      Slot            `json:"slot"`
	Blob      json.RawMessage `json:"state"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// StateStore persists panel states across host restarts.
type StateStore interface {
	Save(ctx context.Context, state StoredState) error
	// List returns states ordered by slot, then by save time.
	List(ctx context.Context) ([]StoredState, error)
	// Delete removes a state. Returns ErrNotFound if absent.
	Delete(ctx context.Context, panelID string) error
	Clear(ctx context.Context) error
	// Replace swaps the whole stored set for states in one step. On error the
	// previous set is left intact.
	Replace(ctx context.Context, states []StoredState) error
}
