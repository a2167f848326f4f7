// Package host implements an in-process panel host: panels arranged in
// slots, focus tracking, host context keys, and persistence of panel states
// across restarts.
//
// A Workspace is not safe for concurrent use; it is driven from the same
// event loop as the preview registry.
package host

import (
	"cmp"
	"errors"
	"slices"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/colonyops/preview/internal/core/logging"
	"github.com/colonyops/preview/internal/core/preview"
)

// ErrPanelNotFound is returned when a panel ID is unknown to the workspace.
var ErrPanelNotFound = errors.New("panel not found")

// Workspace hosts preview panels.
type Workspace struct {
	panels  []*Panel
	front   map[preview.Slot]*Panel
	focused *Panel
	context map[string]bool

	newID    func() string
	log      zerolog.Logger
	onChange preview.Signal[struct{}]
}

var _ preview.PanelHost = (*Workspace)(nil)

// New creates an empty workspace.
func New() *Workspace {
	return &Workspace{
		front:   make(map[preview.Slot]*Panel),
		context: make(map[string]bool),
		newID:   uuid.NewString,
		log:     logging.Component("host"),
	}
}

// CreatePanel opens a new panel at the front of slot. The panel does not take
// focus until it is revealed, so its owner can subscribe to view state first.
func (w *Workspace) CreatePanel(title string, slot preview.Slot) (preview.Panel, error) {
	p := w.add(w.newID(), title, slot)
	w.bringToFront(p)
	return p, nil
}

// RestorePanel recreates a panel that existed before a restart. The panel is
// placed at the front of its slot without taking focus.
func (w *Workspace) RestorePanel(id string, slot preview.Slot) *Panel {
	if id == "" {
		id = w.newID()
	}
	p := w.add(id, "", slot)
	w.bringToFront(p)
	return p
}

func (w *Workspace) bringToFront(p *Panel) {
	if cur := w.front[p.slot]; cur != nil {
		cur.visible = false
	}
	w.front[p.slot] = p
	p.visible = true
	w.changed()
}

func (w *Workspace) add(id, title string, slot preview.Slot) *Panel {
	p := &Panel{ws: w, id: id, slot: max(slot, 1), title: title}
	w.panels = append(w.panels, p)
	w.log.Debug().Str("panel_id", id).Int("slot", int(p.slot)).Msg("panel opened")
	return p
}

// Focus focuses the panel with id.
func (w *Workspace) Focus(id string) error {
	p, ok := w.Get(id)
	if !ok {
		return ErrPanelNotFound
	}
	w.focus(p, p.slot)
	return nil
}

// FocusNext moves focus to the next panel in slot order, wrapping around.
// With nothing focused the first panel is focused.
func (w *Workspace) FocusNext() {
	panels := w.Panels()
	if len(panels) == 0 {
		return
	}
	idx := 0
	if w.focused != nil {
		idx = (slices.Index(panels, w.focused) + 1) % len(panels)
	}
	w.focus(panels[idx], panels[idx].slot)
}

// Blur takes focus away from every panel, as when the user returns to an
// editor.
func (w *Workspace) Blur() {
	prev := w.focused
	if prev == nil {
		return
	}
	w.focused = nil
	prev.setActive(false)
	w.changed()
}

// focus brings p to the front of slot and gives it focus. The newly focused
// panel reports its view state before the previously focused one.
func (w *Workspace) focus(p *Panel, slot preview.Slot) {
	slot = max(slot, 1)
	prev := w.focused

	if p.slot != slot && w.front[p.slot] == p {
		w.promoteInSlot(p.slot, p)
	}
	p.slot = slot
	if cur := w.front[slot]; cur != nil && cur != p {
		cur.visible = false
	}
	w.front[slot] = p
	p.visible = true
	w.focused = p

	if p.active {
		// Slot moves still need to reach the session.
		p.onView.Emit(preview.ViewState{Active: true, Slot: p.slot})
	} else {
		p.setActive(true)
	}
	if prev != nil && prev != p {
		prev.setActive(false)
	}
	w.changed()
}

// Close disposes the panel with id, as if the user closed it.
func (w *Workspace) Close(id string) error {
	p, ok := w.Get(id)
	if !ok {
		return ErrPanelNotFound
	}
	p.Dispose()
	return nil
}

func (w *Workspace) remove(p *Panel) {
	idx := slices.Index(w.panels, p)
	if idx >= 0 {
		w.panels = slices.Delete(w.panels, idx, idx+1)
	}
	p.disposed = true
	p.visible = false

	wasFocused := w.focused == p
	if wasFocused {
		w.focused = nil
		p.active = false
	}
	if w.front[p.slot] == p {
		w.promoteInSlot(p.slot, p)
	}

	w.log.Debug().Str("panel_id", p.id).Msg("panel closed")
	p.onDispose.Emit(struct{}{})
	p.onDispose.Clear()
	p.onView.Clear()

	if wasFocused {
		if np := w.front[p.slot]; np != nil {
			w.focus(np, np.slot)
		}
	}
	w.changed()
}

// promoteInSlot makes the most recently opened panel in slot, other than
// leaving, the front panel of that slot.
func (w *Workspace) promoteInSlot(slot preview.Slot, leaving *Panel) {
	delete(w.front, slot)
	for i := len(w.panels) - 1; i >= 0; i-- {
		p := w.panels[i]
		if p != leaving && p.slot == slot {
			w.front[slot] = p
			p.visible = true
			return
		}
	}
}

// Get returns the panel with id.
func (w *Workspace) Get(id string) (*Panel, bool) {
	for _, p := range w.panels {
		if p.id == id {
			return p, true
		}
	}
	return nil, false
}

// Panels returns open panels ordered by slot, then by creation.
func (w *Workspace) Panels() []*Panel {
	out := slices.Clone(w.panels)
	slices.SortStableFunc(out, func(a, b *Panel) int {
		return cmp.Compare(a.slot, b.slot)
	})
	return out
}

// Visible returns the front panel of every occupied slot, ordered by slot.
func (w *Workspace) Visible() []*Panel {
	out := make([]*Panel, 0, len(w.front))
	for _, p := range w.front {
		out = append(out, p)
	}
	slices.SortFunc(out, func(a, b *Panel) int {
		return cmp.Compare(a.slot, b.slot)
	})
	return out
}

// Focused returns the focused panel.
func (w *Workspace) Focused() (*Panel, bool) {
	return w.focused, w.focused != nil
}

// SetContext sets a host context key.
func (w *Workspace) SetContext(key string, value bool) {
	if w.context[key] == value {
		return
	}
	w.context[key] = value
	w.changed()
}

// Context returns a host context key.
func (w *Workspace) Context(key string) bool {
	return w.context[key]
}

// OnChange registers fn to run after any visible change to the workspace.
func (w *Workspace) OnChange(fn func()) func() {
	return w.onChange.Subscribe(func(struct{}) { fn() })
}

func (w *Workspace) changed() {
	w.onChange.Emit(struct{}{})
}
