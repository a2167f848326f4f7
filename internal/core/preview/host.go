package preview

import (
	"context"

	"github.com/colonyops/preview/internal/core/display"
)

// ViewState is reported by a panel when its focus or slot changes.
type ViewState struct {
	Active bool
	Slot   Slot
}

// Panel is the host UI surface owned by exactly one session.
type Panel interface {
	ID() string
	// Valid reports whether the host still knows this panel.
	Valid() bool
	Slot() Slot
	Active() bool
	SetTitle(title string)
	SetContent(content string)
	ScrollTo(line int)
	// Reveal brings the panel to the front of slot.
	Reveal(slot Slot)
	OnDidDispose(fn func()) func()
	OnDidChangeViewState(fn func(ViewState)) func()
	Dispose()
}

// PanelHost creates panels. A created panel must not report focus until it
// is revealed.
type PanelHost interface {
	CreatePanel(title string, slot Slot) (Panel, error)
}

// RenderContext is what a renderer knows about the session it renders for.
type RenderContext struct {
	PanelID  string
	Settings display.Settings
	Locked   bool
	// Line is the scroll position to render around, nil when unknown.
	Line *int
}

// Renderer turns a resource into displayable content.
type Renderer interface {
	Render(ctx context.Context, resource Resource, rc RenderContext) (string, error)
}

// RendererFunc adapts a function to Renderer.
type RendererFunc func(ctx context.Context, resource Resource, rc RenderContext) (string, error)

// Render implements Renderer.
func (f RendererFunc) Render(ctx context.Context, resource Resource, rc RenderContext) (string, error) {
	return f(ctx, resource, rc)
}

// ConfigSource serves display settings per resource.
type ConfigSource interface {
	Get(resource string) display.Settings
}

// ScrollSource reports the topmost visible editor line per resource.
type ScrollSource interface {
	Line(resource string) (int, bool)
	Subscribe(resource string, fn func(line int)) func()
}

// DocumentSource reports content changes per resource.
type DocumentSource interface {
	Subscribe(resource string, fn func()) func()
}

// ContextSetter receives host context flags.
type ContextSetter interface {
	SetContext(key string, value bool)
}

// Executor runs work off the event loop and applies its completion on it.
type Executor interface {
	Go(work func() func())
}
