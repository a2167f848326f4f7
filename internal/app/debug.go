package app

import (
	"context"
	"net/http"
	"time"

	"github.com/colonyops/preview/internal/core/loop"
	"github.com/colonyops/preview/pkg/iojson"
)

const snapshotTimeout = 2 * time.Second

// SessionInfo is a point-in-time view of one session.
type SessionInfo struct {
	PanelID  string `json:"panel_id"`
	Resource string `json:"resource"`
	Slot     int    `json:"slot"`
	Locked   bool   `json:"locked"`
	Active   bool   `json:"active"`
}

// Snapshot collects session info on the event loop and waits for it. Safe to
// call from any goroutine while the loop is being pumped. A busy loop fails
// fast with loop.ErrFull.
func (a *App) Snapshot(ctx context.Context) ([]SessionInfo, error) {
	ch := make(chan []SessionInfo, 1)
	if err := a.Loop.TryPost(func() { ch <- a.sessionInfos() }); err != nil {
		return nil, err
	}

	select {
	case infos := <-ch:
		return infos, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (a *App) sessionInfos() []SessionInfo {
	sessions := a.Registry.Sessions()
	infos := make([]SessionInfo, 0, len(sessions))
	for _, s := range sessions {
		infos = append(infos, SessionInfo{
			PanelID:  s.PanelID(),
			Resource: string(s.Resource()),
			Slot:     int(s.Slot()),
			Locked:   s.Locked(),
			Active:   s.Active(),
		})
	}
	return infos
}

// DebugHandler serves Snapshot as JSON.
func (a *App) DebugHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), snapshotTimeout)
		defer cancel()

		infos, err := a.Snapshot(ctx)
		if err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(iojson.MarshalError("snapshot failed", map[string]any{"error": err.Error()})))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = iojson.WriteWith(w, w, infos)
	})
}
