package preview

import (
	"fmt"
	"slices"

	"github.com/rs/zerolog"

	"github.com/colonyops/preview/internal/core/display"
	"github.com/colonyops/preview/internal/core/eventbus"
	"github.com/colonyops/preview/internal/core/logging"
	"github.com/colonyops/preview/internal/core/loop"
)

// ContextPreviewFocus is the host context key set while a preview panel is focused.
const ContextPreviewFocus = "markdownPreviewFocus"

// Settings describe where and how a preview is requested.
type Settings struct {
	Slot   Slot
	Locked bool
}

// Options configures a Registry. Host and Renderer are required.
type Options struct {
	Host      PanelHost
	Renderer  Renderer
	Config    ConfigSource
	Scroll    ScrollSource
	Documents DocumentSource
	Exec      Executor
	Context   ContextSetter
	Bus       *eventbus.EventBus
	// ErrorView formats a render failure as panel content.
	ErrorView func(Resource, error) string
}

// Registry owns every live preview session. It is created once per process
// and handed to the commands and event handlers that drive it.
type Registry struct {
	host    PanelHost
	deps    sessionDeps
	context ContextSetter
	bus     *eventbus.EventBus
	logger  zerolog.Logger

	previews []Preview
	active   Preview
	focused  bool
}

// NewRegistry creates an empty registry.
func NewRegistry(opts Options) *Registry {
	deps := sessionDeps{
		renderer:  opts.Renderer,
		config:    opts.Config,
		scroll:    opts.Scroll,
		documents: opts.Documents,
		exec:      opts.Exec,
		errorView: opts.ErrorView,
		logger:    logging.Component("session"),
	}
	if deps.config == nil {
		deps.config = display.NewStore(display.Settings{}, nil)
	}
	if deps.exec == nil {
		deps.exec = loop.Immediate{}
	}
	if deps.errorView == nil {
		deps.errorView = defaultErrorView
	}

	return &Registry{
		host:    opts.Host,
		deps:    deps,
		context: opts.Context,
		bus:     opts.Bus,
		logger:  logging.Component("registry"),
	}
}

// RequestPreview reveals and updates the session matching resource, slot and
// lockedness, or creates one when none matches.
func (r *Registry) RequestPreview(resource Resource, settings Settings) (Preview, error) {
	for _, p := range r.previews {
		if p.MatchesResource(resource, settings.Slot, settings.Locked) {
			r.logger.Debug().
				Str("panel_id", p.PanelID()).
				Str("resource", string(resource)).
				Msg("reusing preview")
			p.Reveal(settings.Slot)
			p.Update(resource)
			return p, nil
		}
	}

	panel, err := r.host.CreatePanel("Preview "+resource.Base(), settings.Slot)
	if err != nil {
		return nil, fmt.Errorf("create panel: %w", err)
	}

	s := newSession(panel, State{
		Resource: resource,
		Slot:     settings.Slot,
		Locked:   settings.Locked,
	}, r.deps)
	r.register(s)

	r.logger.Debug().
		Str("panel_id", s.PanelID()).
		Str("resource", string(resource)).
		Int("slot", int(settings.Slot)).
		Bool("locked", settings.Locked).
		Msg("created preview")
	r.bus.PublishPreviewOpened(eventbus.PreviewOpenedPayload{
		PanelID:  s.PanelID(),
		Resource: string(resource),
		Slot:     int(settings.Slot),
		Locked:   settings.Locked,
	})

	s.Reveal(settings.Slot)
	s.Update(resource)
	return s, nil
}

// ToggleLock flips the lock of the active session and disposes every other
// session that now matches it.
func (r *Registry) ToggleLock() {
	target := r.active
	if target == nil {
		return
	}
	target.ToggleLock()
	r.evictMatching(target)
}

// RefreshAll re-renders every session.
func (r *Registry) RefreshAll() {
	for _, p := range slices.Clone(r.previews) {
		p.Refresh()
	}
}

// PropagateConfigChange makes every session re-read display settings.
func (r *Registry) PropagateConfigChange() {
	for _, p := range slices.Clone(r.previews) {
		p.UpdateConfiguration()
	}
}

// OnActiveEditorChanged retargets every unlocked session to resource. Sessions
// that become redundant in a slot collapse to one, preferring the active one.
func (r *Registry) OnActiveEditorChanged(resource Resource) {
	if resource == "" {
		return
	}
	for _, p := range slices.Clone(r.previews) {
		if !p.Locked() {
			p.Update(resource)
		}
	}

	if r.active != nil && !r.active.Locked() {
		r.evictMatching(r.active)
	}
	for _, p := range slices.Clone(r.previews) {
		if !p.Disposed() && !p.Locked() {
			r.evictMatching(p)
		}
	}
}

// RestoreSession rebuilds a session from a panel that survived a host restart
// and the blob SerializeSession produced for it.
func (r *Registry) RestoreSession(panel Panel, blob []byte) (Preview, error) {
	if panel == nil || !panel.Valid() {
		return nil, ErrInvalidPanel
	}
	st, err := DecodeState(blob)
	if err != nil {
		return nil, err
	}

	s := newSession(panel, st, r.deps)
	r.register(s)

	r.logger.Debug().
		Str("panel_id", s.PanelID()).
		Str("resource", string(st.Resource)).
		Msg("restored preview")
	r.bus.PublishPreviewRestored(eventbus.PreviewRestoredPayload{
		PanelID:  s.PanelID(),
		Resource: string(st.Resource),
		Slot:     int(st.Slot),
		Locked:   st.Locked,
	})

	s.Refresh()
	return s, nil
}

// SerializeSession returns the state blob of the session owning panelID.
// It reports false when no tracked session owns the panel.
func (r *Registry) SerializeSession(panelID string) ([]byte, bool) {
	p, ok := r.Find(panelID)
	if !ok {
		return nil, false
	}
	blob, err := EncodeState(p.State())
	if err != nil {
		r.logger.Warn().Err(err).Str("panel_id", panelID).Msg("failed to serialize preview")
		return nil, false
	}
	return blob, true
}

// Find returns the session owning panelID.
func (r *Registry) Find(panelID string) (Preview, bool) {
	for _, p := range r.previews {
		if p.PanelID() == panelID {
			return p, true
		}
	}
	return nil, false
}

// Sessions returns a snapshot of the tracked sessions in creation order.
func (r *Registry) Sessions() []Preview {
	return slices.Clone(r.previews)
}

// Len returns the number of tracked sessions.
func (r *Registry) Len() int {
	return len(r.previews)
}

// ActiveSession returns the most recently focused session, or nil.
func (r *Registry) ActiveSession() Preview {
	return r.active
}

// ActiveResource returns the resource of the active session.
func (r *Registry) ActiveResource() (Resource, bool) {
	if r.active == nil {
		return "", false
	}
	return r.active.Resource(), true
}

// Shutdown disposes every tracked session.
func (r *Registry) Shutdown() {
	for _, p := range slices.Clone(r.previews) {
		p.Dispose()
	}
}

func (r *Registry) register(p Preview) {
	r.previews = append(r.previews, p)
	p.OnDidDispose(func() { r.unregister(p) })
	p.OnDidChangeActive(func(active bool) { r.trackActive(p, active) })
	p.OnDidChangeSlot(func(Slot) { r.evictMatching(p) })
	if p.Active() {
		r.trackActive(p, true)
	}
}

func (r *Registry) unregister(p Preview) {
	idx := slices.Index(r.previews, p)
	if idx < 0 {
		return
	}
	r.previews = slices.Delete(r.previews, idx, idx+1)

	r.logger.Debug().
		Str("panel_id", p.PanelID()).
		Str("resource", string(p.Resource())).
		Msg("preview disposed")
	r.bus.PublishPreviewDisposed(eventbus.PreviewDisposedPayload{
		PanelID:  p.PanelID(),
		Resource: string(p.Resource()),
	})

	if r.active == p {
		r.setActive(nil)
	}
}

func (r *Registry) trackActive(p Preview, active bool) {
	switch {
	case active && r.active != p:
		r.setActive(p)
	case !active && r.active == p:
		r.setActive(nil)
	}
}

func (r *Registry) setActive(p Preview) {
	r.active = p

	payload := eventbus.PreviewActivatedPayload{}
	if p != nil {
		payload.PanelID = p.PanelID()
		payload.Resource = string(p.Resource())
	}
	r.bus.PublishPreviewActivated(payload)

	focused := p != nil
	if r.context != nil {
		r.context.SetContext(ContextPreviewFocus, focused)
	}
	if focused != r.focused {
		r.focused = focused
		r.bus.PublishContextChanged(eventbus.ContextChangedPayload{
			Key:   ContextPreviewFocus,
			Value: focused,
		})
	}
}

func (r *Registry) evictMatching(keep Preview) {
	for _, p := range slices.Clone(r.previews) {
		if p != keep && p.Matches(keep) {
			r.logger.Debug().
				Str("panel_id", p.PanelID()).
				Str("kept", keep.PanelID()).
				Msg("evicting redundant preview")
			p.Dispose()
		}
	}
}
