// Package logging provides component loggers and context-derived log fields.
package logging

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Component creates a new logger with a component identifier. Events logged
// with a context pick up panel_id and resource through ContextHook.
func Component(name string) zerolog.Logger {
	return log.With().Str("cmp", name).Logger().Hook(ContextHook{})
}

// ForPanel derives a logger that tags every event with panelID.
func ForPanel(base zerolog.Logger, panelID string) zerolog.Logger {
	return base.With().Str("panel_id", panelID).Logger()
}
