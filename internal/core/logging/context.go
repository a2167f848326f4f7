package logging

import "context"

type contextKey string

const (
	panelIDKey  contextKey = "panel_id"
	resourceKey contextKey = "resource"
)

// WithPanelID adds a preview panel ID to the context.
func WithPanelID(ctx context.Context, panelID string) context.Context {
	return context.WithValue(ctx, panelIDKey, panelID)
}

// WithResource adds a document resource to the context.
func WithResource(ctx context.Context, resource string) context.Context {
	return context.WithValue(ctx, resourceKey, resource)
}

// GetPanelID retrieves the panel ID from the context.
// Returns empty string if not present.
func GetPanelID(ctx context.Context) string {
	if id, ok := ctx.Value(panelIDKey).(string); ok {
		return id
	}
	return ""
}

// GetResource retrieves the resource from the context.
// Returns empty string if not present.
func GetResource(ctx context.Context) string {
	if r, ok := ctx.Value(resourceKey).(string); ok {
		return r
	}
	return ""
}
