// Package tui implements the Bubble Tea terminal host for markdown previews.
// The left side of the screen stands in for an editor: a set of documents
// the user switches between and scrolls. Preview panels are laid out in
// slots to its right.
package tui

import (
	"context"
	"errors"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/colonyops/preview/internal/core/eventbus"
	"github.com/colonyops/preview/internal/core/logging"
	"github.com/colonyops/preview/internal/core/loop"
	"github.com/colonyops/preview/internal/core/preview"
	"github.com/colonyops/preview/internal/core/scroll"
	"github.com/colonyops/preview/internal/host"
)

const (
	maxSlots      = 3
	defaultWidth  = 100
	defaultHeight = 30
	busBuffer     = 16
)

// Options configures the Model. Registry and Workspace are required; the
// registry must have been created with Workspace as its host.
type Options struct {
	Registry  *preview.Registry
	Workspace *host.Workspace
	Scroll    *scroll.Monitor
	Store     preview.StateStore
	// Loop is pumped from Update. Nil when the registry runs inline.
	Loop      *loop.Loop
	Bus       *eventbus.EventBus
	Documents []preview.Resource
}

// Model is the root Bubble Tea model.
type Model struct {
	ctx  context.Context
	opts Options
	log  zerolog.Logger

	keys   keyMap
	help   help.Model
	toasts *ToastController
	busCh  chan busMsg

	editor int
	lines  map[preview.Resource]int
	slot   preview.Slot

	width  int
	height int

	quitting bool
}

// New creates a Model and announces the first document as the active editor.
func New(ctx context.Context, opts Options) Model {
	m := Model{
		ctx:    ctx,
		opts:   opts,
		log:    logging.Component("tui"),
		keys:   defaultKeyMap(),
		help:   help.New(),
		toasts: NewToastController(),
		busCh:  make(chan busMsg, busBuffer),
		lines:  make(map[preview.Resource]int, len(opts.Documents)),
		slot:   1,
		width:  defaultWidth,
		height: defaultHeight,
	}
	bridgeBus(opts.Bus, m.busCh)

	if doc, ok := m.currentDocument(); ok {
		opts.Registry.OnActiveEditorChanged(doc)
	}
	return m
}

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{waitForBus(m.ctx, m.busCh)}
	if m.opts.Loop != nil {
		cmds = append(cmds, waitForTask(m.ctx, m.opts.Loop))
	}
	return tea.Batch(cmds...)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case loopTaskMsg:
		m.opts.Loop.Exec(msg.fn)
		return m, waitForTask(m.ctx, m.opts.Loop)

	case loopClosedMsg:
		return m, nil

	case busMsg:
		return m, tea.Batch(m.pushToast(msg.level, msg.message), waitForBus(m.ctx, m.busCh))

	case toastTickMsg:
		m.toasts.Tick(toastTickInterval)
		if m.toasts.HasToasts() {
			return m, scheduleToastTick()
		}
		m.toasts.SetTicking(false)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.quit()

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll

	case key.Matches(msg, m.keys.PrevEditor):
		m.switchEditor(-1)

	case key.Matches(msg, m.keys.NextEditor):
		m.switchEditor(1)

	case key.Matches(msg, m.keys.LineUp):
		m.scrollEditor(-1)

	case key.Matches(msg, m.keys.LineDown):
		m.scrollEditor(1)

	case key.Matches(msg, m.keys.Open):
		return m, m.openPreview(false)

	case key.Matches(msg, m.keys.OpenLocked):
		return m, m.openPreview(true)

	case key.Matches(msg, m.keys.ToggleLock):
		if m.opts.Registry.ActiveSession() == nil {
			return m, m.pushToast(toastWarning, "focus a preview to toggle its lock")
		}
		m.opts.Registry.ToggleLock()

	case key.Matches(msg, m.keys.FocusNext):
		m.opts.Workspace.FocusNext()

	case key.Matches(msg, m.keys.Blur):
		m.opts.Workspace.Blur()

	case key.Matches(msg, m.keys.Slot):
		m.slot = preview.Slot(msg.Runes[0] - '0')
		if p, ok := m.opts.Workspace.Focused(); ok {
			p.Reveal(m.slot)
		}

	case key.Matches(msg, m.keys.Close):
		if p, ok := m.opts.Workspace.Focused(); ok {
			if err := m.opts.Workspace.Close(p.ID()); err != nil {
				m.log.Error().Err(err).Str("panel_id", p.ID()).Msg("close panel")
			}
		}

	case key.Matches(msg, m.keys.Refresh):
		m.opts.Registry.RefreshAll()

	case key.Matches(msg, m.keys.Dismiss):
		m.toasts.Dismiss()
	}

	return m, nil
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	m.quitting = true
	if m.opts.Store == nil {
		return m, tea.Quit
	}

	n, err := m.opts.Workspace.Persist(m.ctx, m.opts.Registry, m.opts.Store)
	if err != nil && !errors.Is(err, context.Canceled) {
		m.log.Error().Err(err).Msg("persist previews")
	}
	m.log.Debug().Int("panels", n).Msg("persisted previews")
	return m, tea.Quit
}

func (m *Model) switchEditor(delta int) {
	n := len(m.opts.Documents)
	if n == 0 {
		return
	}
	m.opts.Workspace.Blur()
	m.editor = (m.editor + delta + n) % n
	m.opts.Registry.OnActiveEditorChanged(m.opts.Documents[m.editor])
}

func (m *Model) scrollEditor(delta int) {
	doc, ok := m.currentDocument()
	if !ok || m.opts.Scroll == nil {
		return
	}
	line := max(m.lines[doc]+delta, 0)
	m.lines[doc] = line
	m.opts.Scroll.Report(string(doc), line)
}

func (m *Model) openPreview(locked bool) tea.Cmd {
	doc, ok := m.currentDocument()
	if !ok {
		return m.pushToast(toastWarning, "no document to preview")
	}
	_, err := m.opts.Registry.RequestPreview(doc, preview.Settings{Slot: m.slot, Locked: locked})
	if err != nil {
		m.log.Error().Err(err).Str("resource", string(doc)).Msg("open preview")
		return m.pushToast(toastError, err.Error())
	}
	return nil
}

func (m *Model) pushToast(level toastLevel, message string) tea.Cmd {
	m.toasts.Push(level, message)
	if m.toasts.Ticking() {
		return nil
	}
	m.toasts.SetTicking(true)
	return scheduleToastTick()
}

func (m Model) currentDocument() (preview.Resource, bool) {
	if len(m.opts.Documents) == 0 {
		return "", false
	}
	return m.opts.Documents[m.editor], true
}
