package host

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/preview/internal/core/preview"
)

type viewLog struct {
	events []string
}

func (l *viewLog) watch(p *Panel) {
	p.OnDidChangeViewState(func(vs preview.ViewState) {
		state := "inactive"
		if vs.Active {
			state = "active"
		}
		l.events = append(l.events, p.Title()+":"+state)
	})
}

func create(t *testing.T, w *Workspace, title string, slot preview.Slot) *Panel {
	t.Helper()
	p, err := w.CreatePanel(title, slot)
	require.NoError(t, err)
	p.Reveal(slot)
	return p.(*Panel)
}

func TestWorkspace_CreatePanelDoesNotFocus(t *testing.T) {
	w := New()
	a := create(t, w, "a", 1)

	created, err := w.CreatePanel("b", 1)
	require.NoError(t, err)
	b := created.(*Panel)

	assert.NotEmpty(t, b.ID())
	assert.False(t, b.Active())
	assert.True(t, b.Visible())
	assert.False(t, a.Visible())
	assert.True(t, a.Active(), "focus stays on the previous panel until b is revealed")

	b.Reveal(1)
	focused, ok := w.Focused()
	require.True(t, ok)
	assert.Same(t, b, focused)
}

func TestWorkspace_UniqueIDs(t *testing.T) {
	w := New()
	a := create(t, w, "a", 1)
	b := create(t, w, "b", 1)
	assert.NotEqual(t, a.ID(), b.ID())
}

func TestWorkspace_FocusReportsNewPanelFirst(t *testing.T) {
	w := New()
	a := create(t, w, "a", 1)
	b := create(t, w, "b", 2)

	var log viewLog
	log.watch(a)
	log.watch(b)

	require.NoError(t, w.Focus(a.ID()))

	assert.Equal(t, []string{"a:active", "b:inactive"}, log.events)
}

func TestWorkspace_FocusUnknownPanel(t *testing.T) {
	w := New()
	assert.ErrorIs(t, w.Focus("missing"), ErrPanelNotFound)
	assert.ErrorIs(t, w.Close("missing"), ErrPanelNotFound)
}

func TestWorkspace_SlotFrontPanel(t *testing.T) {
	w := New()
	a := create(t, w, "a", 1)
	b := create(t, w, "b", 1)

	assert.False(t, a.Visible())
	assert.True(t, b.Visible())

	a.Reveal(1)
	assert.True(t, a.Visible())
	assert.False(t, b.Visible())
}

func TestWorkspace_RevealMovesSlot(t *testing.T) {
	w := New()
	a := create(t, w, "a", 1)
	b := create(t, w, "b", 1)

	var slots []preview.Slot
	b.OnDidChangeViewState(func(vs preview.ViewState) { slots = append(slots, vs.Slot) })

	b.Reveal(2)

	assert.Equal(t, preview.Slot(2), b.Slot())
	assert.Equal(t, []preview.Slot{2}, slots)
	assert.True(t, a.Visible(), "a is promoted to the front of slot 1")
	assert.Len(t, w.Visible(), 2)
}

func TestWorkspace_ClosePromotesAndRefocuses(t *testing.T) {
	w := New()
	a := create(t, w, "a", 1)
	b := create(t, w, "b", 1)

	disposed := 0
	b.OnDidDispose(func() { disposed++ })

	require.NoError(t, w.Close(b.ID()))

	assert.Equal(t, 1, disposed)
	assert.False(t, b.Valid())
	assert.True(t, a.Visible())
	assert.True(t, a.Active())
	_, ok := w.Get(b.ID())
	assert.False(t, ok)

	b.Dispose()
	assert.Equal(t, 1, disposed)
}

func TestWorkspace_PanelsOrderedBySlot(t *testing.T) {
	w := New()
	c := create(t, w, "c", 3)
	a := create(t, w, "a", 1)
	b := create(t, w, "b", 2)
	a2 := create(t, w, "a2", 1)

	assert.Equal(t, []*Panel{a, a2, b, c}, w.Panels())
}

func TestWorkspace_FocusNextWraps(t *testing.T) {
	w := New()
	a := create(t, w, "a", 1)
	b := create(t, w, "b", 2)

	w.FocusNext()
	assert.True(t, a.Active())

	w.FocusNext()
	assert.True(t, b.Active())

	w.Blur()
	w.FocusNext()
	assert.True(t, a.Active())
}

func TestWorkspace_Blur(t *testing.T) {
	w := New()
	a := create(t, w, "a", 1)

	w.Blur()

	assert.False(t, a.Active())
	assert.True(t, a.Visible())
	_, ok := w.Focused()
	assert.False(t, ok)
}

func TestWorkspace_Context(t *testing.T) {
	w := New()
	changes := 0
	w.OnChange(func() { changes++ })

	w.SetContext("markdownPreviewFocus", true)
	w.SetContext("markdownPreviewFocus", true)

	assert.True(t, w.Context("markdownPreviewFocus"))
	assert.False(t, w.Context("other"))
	assert.Equal(t, 1, changes)
}

func TestWorkspace_RestorePanelDoesNotFocus(t *testing.T) {
	w := New()
	a := create(t, w, "a", 1)

	r := w.RestorePanel("saved-id", 1)

	assert.Equal(t, "saved-id", r.ID())
	assert.False(t, r.Active())
	assert.True(t, r.Visible())
	assert.True(t, a.Active())
	assert.False(t, a.Visible())
}

func TestPanel_DisposedIgnoresUpdates(t *testing.T) {
	w := New()
	p := create(t, w, "a", 1)
	p.SetContent("before")
	p.Dispose()

	p.SetContent("after")
	p.SetTitle("after")
	p.ScrollTo(10)

	assert.Equal(t, "before", p.Content())
	assert.Equal(t, "a", p.Title())
	assert.Zero(t, p.Line())
}
