package preview

import (
	"context"
	"errors"
	"fmt"
	"slices"
)

type fakePanel struct {
	host     *fakeHost
	id       string
	slot     Slot
	title    string
	content  string
	scrolled []int
	active   bool
	disposed bool
	reveals  []Slot

	onDispose Signal[struct{}]
	onView    Signal[ViewState]
}

func (p *fakePanel) ID() string             { return p.id }
func (p *fakePanel) Valid() bool            { return !p.disposed }
func (p *fakePanel) Slot() Slot             { return p.slot }
func (p *fakePanel) Active() bool           { return p.active }
func (p *fakePanel) SetTitle(title string)  { p.title = title }
func (p *fakePanel) SetContent(c string)    { p.content = c }
func (p *fakePanel) ScrollTo(line int)      { p.scrolled = append(p.scrolled, line) }
func (p *fakePanel) Reveal(slot Slot)       { p.reveals = append(p.reveals, slot); p.host.focus(p, slot) }
func (p *fakePanel) OnDidDispose(fn func()) func() {
	return p.onDispose.Subscribe(func(struct{}) { fn() })
}

func (p *fakePanel) OnDidChangeViewState(fn func(ViewState)) func() {
	return p.onView.Subscribe(fn)
}

func (p *fakePanel) Dispose() {
	if p.disposed {
		return
	}
	p.disposed = true
	if p.host.focused == p {
		p.host.focused = nil
	}
	p.onDispose.Emit(struct{}{})
}

// fakeHost opens panels unfocused; the registry reveals them.
type fakeHost struct {
	panels  []*fakePanel
	focused *fakePanel
	failErr error
}

func (h *fakeHost) CreatePanel(title string, slot Slot) (Panel, error) {
	if h.failErr != nil {
		return nil, h.failErr
	}
	p := &fakePanel{host: h, id: fmt.Sprintf("panel-%d", len(h.panels)+1), slot: slot, title: title}
	h.panels = append(h.panels, p)
	return p, nil
}

// detached creates a panel the host knows about but has not focused, as
// after a restart.
func (h *fakeHost) detached(slot Slot) *fakePanel {
	p := &fakePanel{host: h, id: fmt.Sprintf("restored-%d", len(h.panels)+1), slot: slot}
	h.panels = append(h.panels, p)
	return p
}

// focus activates p, reporting the newly focused panel before the old one
// loses focus.
func (h *fakeHost) focus(p *fakePanel, slot Slot) {
	prev := h.focused
	moved := p.slot != slot
	p.slot = slot
	h.focused = p
	if !p.active || moved {
		p.active = true
		p.onView.Emit(ViewState{Active: true, Slot: slot})
	}
	if prev != nil && prev != p {
		prev.active = false
		prev.onView.Emit(ViewState{Active: false, Slot: prev.slot})
	}
}

// blur removes focus from every panel, e.g. the user moved to an editor.
func (h *fakeHost) blur() {
	if h.focused == nil {
		return
	}
	prev := h.focused
	h.focused = nil
	prev.active = false
	prev.onView.Emit(ViewState{Active: false, Slot: prev.slot})
}

type renderCall struct {
	resource Resource
	rc       RenderContext
}

type fakeRenderer struct {
	calls []renderCall
	fail  map[Resource]error
}

func (r *fakeRenderer) Render(ctx context.Context, resource Resource, rc RenderContext) (string, error) {
	r.calls = append(r.calls, renderCall{resource: resource, rc: rc})
	if err := r.fail[resource]; err != nil {
		return "", err
	}
	return "rendered:" + string(resource), nil
}

func (r *fakeRenderer) count(resource Resource) int {
	n := 0
	for _, c := range r.calls {
		if c.resource == resource {
			n++
		}
	}
	return n
}

// manualExec queues work so tests decide when, and in which order, renders finish.
type manualExec struct {
	pending []func() func()
}

func (m *manualExec) Go(work func() func()) {
	m.pending = append(m.pending, work)
}

func (m *manualExec) complete(i int) {
	work := m.pending[i]
	m.pending = slices.Delete(m.pending, i, i+1)
	if done := work(); done != nil {
		done()
	}
}

// discard runs work but drops its completion, as a closed loop would.
func (m *manualExec) discard(i int) {
	work := m.pending[i]
	m.pending = slices.Delete(m.pending, i, i+1)
	work()
}

func (m *manualExec) drain() {
	for len(m.pending) > 0 {
		m.complete(0)
	}
}

type recordingContext struct {
	values []bool
}

func (c *recordingContext) SetContext(key string, value bool) {
	if key == ContextPreviewFocus {
		c.values = append(c.values, value)
	}
}

func (c *recordingContext) last() (bool, bool) {
	if len(c.values) == 0 {
		return false, false
	}
	return c.values[len(c.values)-1], true
}

type fakeScroll struct {
	lines map[string]int
	subs  map[string][]func(int)
}

func newFakeScroll() *fakeScroll {
	return &fakeScroll{lines: map[string]int{}, subs: map[string][]func(int){}}
}

func (f *fakeScroll) Line(resource string) (int, bool) {
	l, ok := f.lines[resource]
	return l, ok
}

func (f *fakeScroll) Subscribe(resource string, fn func(int)) func() {
	f.subs[resource] = append(f.subs[resource], fn)
	idx := len(f.subs[resource]) - 1
	return func() { f.subs[resource][idx] = nil }
}

func (f *fakeScroll) report(resource string, line int) {
	f.lines[resource] = line
	for _, fn := range f.subs[resource] {
		if fn != nil {
			fn(line)
		}
	}
}

func (f *fakeScroll) active(resource string) int {
	n := 0
	for _, fn := range f.subs[resource] {
		if fn != nil {
			n++
		}
	}
	return n
}

var errRender = errors.New("renderer exploded")
