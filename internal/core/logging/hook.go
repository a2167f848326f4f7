package logging

import (
	"context"

	"github.com/rs/zerolog"
)

// ContextHook extracts panel_id and resource from context and adds them to log events.
type ContextHook struct{}

// Run adds contextual fields to the zerolog event.
func (h ContextHook) Run(e *zerolog.Event, level zerolog.Level, msg string) {
	ctx := e.GetCtx()
	if ctx == nil || ctx == context.Background() {
		return
	}

	if panelID := GetPanelID(ctx); panelID != "" {
		e.Str("panel_id", panelID)
	}

	if resource := GetResource(ctx); resource != "" {
		e.Str("resource", resource)
	}
}
