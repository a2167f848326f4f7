package preview

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/colonyops/preview/internal/core/logging"
)

// Preview is the capability set the Registry needs from a session.
type Preview interface {
	PanelID() string
	Resource() Resource
	Slot() Slot
	Locked() bool
	Active() bool
	Disposed() bool

	// Matches reports whether other has the same resource, slot and lockedness.
	Matches(other Preview) bool
	MatchesResource(resource Resource, slot Slot, locked bool) bool

	Update(resource Resource)
	Reveal(slot Slot)
	ToggleLock()
	Refresh()
	UpdateConfiguration()
	State() State

	OnDidDispose(fn func()) func()
	OnDidChangeActive(fn func(active bool)) func()
	OnDidChangeSlot(fn func(slot Slot)) func()
	Dispose()
}

type sessionDeps struct {
	renderer  Renderer
	config    ConfigSource
	scroll    ScrollSource
	documents DocumentSource
	exec      Executor
	errorView func(Resource, error) string
	logger    zerolog.Logger
}

// Session binds one resource to one panel and keeps the panel current.
type Session struct {
	panel    Panel
	resource Resource
	slot     Slot
	locked   bool
	active   bool
	disposed bool

	line    int
	hasLine bool

	// gen identifies the newest render; completions from older renders are dropped.
	gen    uint64
	cancel context.CancelFunc

	deps   sessionDeps
	logger zerolog.Logger

	panelSubs   []func()
	resourceSub []func()

	onDispose Signal[struct{}]
	onActive  Signal[bool]
	onSlot    Signal[Slot]
}

var _ Preview = (*Session)(nil)

func newSession(panel Panel, st State, deps sessionDeps) *Session {
	s := &Session{
		panel:    panel,
		resource: st.Resource,
		slot:     st.Slot,
		locked:   st.Locked,
		active:   panel.Active(),
		deps:     deps,
		logger:   logging.ForPanel(deps.logger, panel.ID()),
	}

	if st.Line != nil {
		s.line, s.hasLine = *st.Line, true
	} else {
		s.line, s.hasLine = s.lastKnownLine(st.Resource)
	}

	s.panelSubs = []func(){
		panel.OnDidDispose(s.teardown),
		panel.OnDidChangeViewState(s.onViewState),
	}
	s.watchResource()
	panel.SetTitle(s.title())

	return s
}

func (s *Session) PanelID() string    { return s.panel.ID() }
func (s *Session) Resource() Resource { return s.resource }
func (s *Session) Slot() Slot         { return s.slot }
func (s *Session) Locked() bool       { return s.locked }
func (s *Session) Active() bool       { return s.active }
func (s *Session) Disposed() bool     { return s.disposed }

// Matches reports whether other would be redundant with s.
func (s *Session) Matches(other Preview) bool {
	if other == nil {
		return false
	}
	return s.MatchesResource(other.Resource(), other.Slot(), other.Locked())
}

// MatchesResource reports whether s is bound to resource in slot with the
// given lockedness. Disposed sessions never match.
func (s *Session) MatchesResource(resource Resource, slot Slot, locked bool) bool {
	return !s.disposed && s.resource == resource && s.slot == slot && s.locked == locked
}

// Update renders resource. A locked session ignores requests for any resource
// other than its own.
func (s *Session) Update(resource Resource) {
	if s.disposed {
		return
	}
	if s.locked && resource != s.resource {
		s.logger.Debug().
			Str("resource", string(s.resource)).
			Str("requested", string(resource)).
			Msg("locked preview ignored retarget")
		return
	}

	if resource != s.resource {
		s.resource = resource
		s.line, s.hasLine = s.lastKnownLine(resource)
		s.watchResource()
		s.panel.SetTitle(s.title())
	}

	s.render()
}

// Reveal brings the panel to the front of slot.
func (s *Session) Reveal(slot Slot) {
	if s.disposed {
		return
	}
	s.panel.Reveal(slot)
	s.setSlot(s.panel.Slot())
}

// ToggleLock flips the lock flag.
func (s *Session) ToggleLock() {
	if s.disposed {
		return
	}
	s.locked = !s.locked
	s.panel.SetTitle(s.title())
}

// Refresh re-renders the current resource.
func (s *Session) Refresh() {
	if s.disposed {
		return
	}
	s.render()
}

// UpdateConfiguration re-reads display settings and re-renders. Settings are
// read at render time, so this is a render that also reapplies scroll sync.
func (s *Session) UpdateConfiguration() {
	if s.disposed {
		return
	}
	s.render()
}

// State returns the serializable state of the session.
func (s *Session) State() State {
	st := State{
		Resource: s.resource,
		Slot:     s.slot,
		Locked:   s.locked,
	}
	if s.hasLine {
		line := s.line
		st.Line = &line
	}
	return st
}

// OnDidDispose registers fn to run once when the session is disposed.
func (s *Session) OnDidDispose(fn func()) func() {
	return s.onDispose.Subscribe(func(struct{}) { fn() })
}

// OnDidChangeActive registers fn for focus transitions of the panel.
func (s *Session) OnDidChangeActive(fn func(active bool)) func() {
	return s.onActive.Subscribe(fn)
}

// OnDidChangeSlot registers fn for moves of the panel to another slot.
func (s *Session) OnDidChangeSlot(fn func(slot Slot)) func() {
	return s.onSlot.Subscribe(fn)
}

// Dispose closes the panel and releases every subscription.
func (s *Session) Dispose() {
	if s.disposed {
		return
	}
	s.panel.Dispose()
	s.teardown()
}

func (s *Session) teardown() {
	if s.disposed {
		return
	}
	s.disposed = true

	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	for _, unsub := range s.panelSubs {
		unsub()
	}
	s.panelSubs = nil
	s.unwatchResource()

	s.onDispose.Emit(struct{}{})
	s.onDispose.Clear()
	s.onActive.Clear()
	s.onSlot.Clear()
}

func (s *Session) onViewState(vs ViewState) {
	if s.disposed {
		return
	}
	if vs.Active != s.active {
		s.active = vs.Active
		s.onActive.Emit(vs.Active)
	}
	s.setSlot(vs.Slot)
}

func (s *Session) setSlot(slot Slot) {
	if s.disposed || slot == s.slot {
		return
	}
	s.slot = slot
	s.onSlot.Emit(slot)
}

func (s *Session) onScroll(line int) {
	if s.disposed {
		return
	}
	s.line, s.hasLine = line, true
	if s.deps.config.Get(string(s.resource)).ScrollSync {
		s.panel.ScrollTo(line)
	}
}

func (s *Session) watchResource() {
	s.unwatchResource()
	key := string(s.resource)
	if s.deps.scroll != nil {
		s.resourceSub = append(s.resourceSub, s.deps.scroll.Subscribe(key, s.onScroll))
	}
	if s.deps.documents != nil {
		s.resourceSub = append(s.resourceSub, s.deps.documents.Subscribe(key, s.Refresh))
	}
}

func (s *Session) unwatchResource() {
	for _, unsub := range s.resourceSub {
		unsub()
	}
	s.resourceSub = nil
}

func (s *Session) lastKnownLine(resource Resource) (int, bool) {
	if s.deps.scroll == nil {
		return 0, false
	}
	return s.deps.scroll.Line(string(resource))
}

func (s *Session) render() {
	if s.cancel != nil {
		s.cancel()
	}

	s.gen++
	gen := s.gen
	resource := s.resource
	settings := s.deps.config.Get(string(resource))

	ctx := logging.WithResource(logging.WithPanelID(context.Background(), s.panel.ID()), string(resource))
	var cancel context.CancelFunc
	if settings.RenderTimeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, settings.RenderTimeout)
	} else {
		ctx, cancel = context.WithCancel(ctx)
	}
	s.cancel = cancel

	rc := RenderContext{
		PanelID:  s.panel.ID(),
		Settings: settings,
		Locked:   s.locked,
	}
	if s.hasLine {
		line := s.line
		rc.Line = &line
	}

	renderer := s.deps.renderer
	s.deps.exec.Go(func() func() {
		out, err := renderer.Render(ctx, resource, rc)
		// The completion may be dropped if the loop closes first.
		cancel()
		return func() { s.applyRender(gen, resource, out, err) }
	})
}

func (s *Session) applyRender(gen uint64, resource Resource, out string, err error) {
	if s.disposed || gen != s.gen {
		s.logger.Debug().
			Uint64("gen", gen).
			Uint64("current", s.gen).
			Bool("disposed", s.disposed).
			Msg("discarding stale render")
		return
	}
	s.cancel = nil

	if err != nil {
		s.logger.Debug().Err(err).Str("resource", string(resource)).Msg("render failed")
		out = s.deps.errorView(resource, err)
	}
	s.panel.SetContent(out)

	if s.hasLine && s.deps.config.Get(string(resource)).ScrollSync {
		s.panel.ScrollTo(s.line)
	}
}

func (s *Session) title() string {
	if s.locked {
		return fmt.Sprintf("[Preview] %s", s.resource.Base())
	}
	return fmt.Sprintf("Preview %s", s.resource.Base())
}

func defaultErrorView(resource Resource, err error) string {
	return fmt.Sprintf("! Could not render %s\n\n%v\n", resource.Base(), err)
}
