package host

import (
	"github.com/colonyops/preview/internal/core/preview"
)

// Panel is a preview surface inside a Workspace.
type Panel struct {
	ws *Workspace

	id       string
	slot     preview.Slot
	title    string
	content  string
	line     int
	active   bool
	visible  bool
	disposed bool

	onDispose preview.Signal[struct{}]
	onView    preview.Signal[preview.ViewState]
}

var _ preview.Panel = (*Panel)(nil)

func (p *Panel) ID() string         { return p.id }
func (p *Panel) Valid() bool        { return !p.disposed }
func (p *Panel) Slot() preview.Slot { return p.slot }
func (p *Panel) Active() bool       { return p.active }

// Visible reports whether the panel is at the front of its slot.
func (p *Panel) Visible() bool   { return p.visible }
func (p *Panel) Title() string   { return p.title }
func (p *Panel) Content() string { return p.content }

// Line is the last line the panel was asked to scroll to.
func (p *Panel) Line() int { return p.line }

func (p *Panel) SetTitle(title string) {
	if p.disposed {
		return
	}
	p.title = title
	p.ws.changed()
}

func (p *Panel) SetContent(content string) {
	if p.disposed {
		return
	}
	p.content = content
	p.ws.changed()
}

func (p *Panel) ScrollTo(line int) {
	if p.disposed {
		return
	}
	p.line = max(line, 0)
	p.ws.changed()
}

// Reveal moves the panel to slot and focuses it.
func (p *Panel) Reveal(slot preview.Slot) {
	if p.disposed {
		return
	}
	p.ws.focus(p, slot)
}

func (p *Panel) OnDidDispose(fn func()) func() {
	return p.onDispose.Subscribe(func(struct{}) { fn() })
}

func (p *Panel) OnDidChangeViewState(fn func(preview.ViewState)) func() {
	return p.onView.Subscribe(fn)
}

// Dispose closes the panel. It is safe to call more than once.
func (p *Panel) Dispose() {
	if p.disposed {
		return
	}
	p.ws.remove(p)
}

func (p *Panel) setActive(active bool) {
	if p.active == active {
		return
	}
	p.active = active
	p.onView.Emit(preview.ViewState{Active: active, Slot: p.slot})
}
