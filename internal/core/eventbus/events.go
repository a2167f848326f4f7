// Package eventbus provides a typed publish/subscribe bus for app-level
// preview notifications. Delivery is asynchronous: subscribers run on the
// bus goroutine, never on the preview event loop.
package eventbus

// Events defines all event types and their payload structs.
var Events = map[string]any{
	// Keep list sorted A-Z
	"config.reloaded":   ConfigReloadedPayload{},
	"context.changed":   ContextChangedPayload{},
	"preview.activated": PreviewActivatedPayload{},
	"preview.disposed":  PreviewDisposedPayload{},
	"preview.opened":    PreviewOpenedPayload{},
	"preview.restored":  PreviewRestoredPayload{},
}

// PreviewOpenedPayload is emitted when the registry creates a new session.
type PreviewOpenedPayload struct {
	PanelID  string
	Resource string
	Slot     int
	Locked   bool
}

// PreviewRestoredPayload is emitted when a session is rebuilt from persisted state.
type PreviewRestoredPayload struct {
	PanelID  string
	Resource string
	Slot     int
	Locked   bool
}

// PreviewDisposedPayload is emitted when a session leaves the registry.
type PreviewDisposedPayload struct {
	PanelID  string
	Resource string
}

// PreviewActivatedPayload is emitted when the active session changes.
// PanelID is empty when no session is active.
type PreviewActivatedPayload struct {
	PanelID  string
	Resource string
}

// ContextChangedPayload is emitted when a host context flag changes.
type ContextChangedPayload struct {
	Key   string
	Value bool
}

// ConfigReloadedPayload is emitted after the config file is reloaded.
type ConfigReloadedPayload struct {
	Path string
}
