package host

import (
	"context"
	"fmt"
	"time"

	"github.com/colonyops/preview/internal/core/preview"
)

// Serializer produces the state blob of the session owning a panel.
type Serializer interface {
	SerializeSession(panelID string) ([]byte, bool)
}

// Restorer rebuilds a session on a restored panel.
type Restorer interface {
	RestoreSession(panel preview.Panel, blob []byte) (preview.Preview, error)
}

// Persist replaces the stored panel states with the states of every open
// panel that has a session. It returns the number of panels saved.
func (w *Workspace) Persist(ctx context.Context, s Serializer, store preview.StateStore) (int, error) {
	now := time.Now()
	var states []preview.StoredState
	for _, p := range w.Panels() {
		blob, ok := s.SerializeSession(p.id)
		if !ok {
			continue
		}
		states = append(states, preview.StoredState{
			PanelID:   p.id,
			Slot:      p.slot,
			Blob:      blob,
			UpdatedAt: now,
		})
	}

	if err := store.Replace(ctx, states); err != nil {
		return 0, fmt.Errorf("replace panel states: %w", err)
	}

	w.log.Debug().Int("panels", len(states)).Msg("persisted panels")
	return len(states), nil
}

// Restore recreates every stored panel and hands it to r. Panels whose
// session cannot be restored are closed and their state is deleted. It
// returns the number of sessions restored.
func (w *Workspace) Restore(ctx context.Context, r Restorer, store preview.StateStore) (int, error) {
	states, err := store.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("list panel states: %w", err)
	}

	restored := 0
	for _, st := range states {
		if err := ctx.Err(); err != nil {
			return restored, err
		}

		p := w.RestorePanel(st.PanelID, st.Slot)
		if _, err := r.RestoreSession(p, st.Blob); err != nil {
			w.log.Warn().
				Err(err).
				Str("panel_id", st.PanelID).
				Msg("dropping unrestorable panel")
			p.Dispose()
			if err := store.Delete(ctx, st.PanelID); err != nil {
				w.log.Warn().Err(err).Str("panel_id", st.PanelID).Msg("failed to delete panel state")
			}
			continue
		}
		restored++
	}

	return restored, nil
}
