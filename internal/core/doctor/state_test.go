package doctor

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/preview/internal/core/preview"
	"github.com/colonyops/preview/internal/store/jsonfile"
)

func newStore(t *testing.T) *jsonfile.StateStore {
	t.Helper()
	return jsonfile.NewStateStore(filepath.Join(t.TempDir(), "panels.json"))
}

func save(t *testing.T, store preview.StateStore, id string, blob []byte) {
	t.Helper()
	require.NoError(t, store.Save(context.Background(), preview.StoredState{PanelID: id, Slot: 1, Blob: blob}))
}

func encode(t *testing.T, resource preview.Resource) []byte {
	t.Helper()
	blob, err := preview.EncodeState(preview.State{Resource: resource, Slot: 1})
	require.NoError(t, err)
	return blob
}

func TestStateCheck_Empty(t *testing.T) {
	result := NewStateCheck(newStore(t), false).Run(context.Background())

	require.Len(t, result.Findings, 1)
	assert.Equal(t, StatusPass, result.Findings[0].Status)
	assert.Contains(t, result.Findings[0].Detail, "no persisted panels")
}

func TestStateCheck_ReportsProblems(t *testing.T) {
	doc := filepath.Join(t.TempDir(), "a.md")
	require.NoError(t, os.WriteFile(doc, []byte("# a"), 0o644))

	store := newStore(t)
	save(t, store, "ok", encode(t, preview.FileResource(doc)))
	save(t, store, "gone", encode(t, preview.FileResource(filepath.Join(t.TempDir(), "gone.md"))))
	save(t, store, "bad", []byte(`{}`))

	result := NewStateCheck(store, false).Run(context.Background())

	bySubject := map[string]Finding{}
	for _, item := range result.Findings {
		bySubject[item.Subject] = item
	}
	assert.Equal(t, StatusPass, bySubject["ok"].Status)
	assert.Equal(t, StatusWarn, bySubject["gone"].Status)
	assert.True(t, bySubject["gone"].Removable)
	assert.Equal(t, StatusFail, bySubject["bad"].Status)
	assert.True(t, bySubject["bad"].Removable)

	states, err := store.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, states, 3, "report-only run must not modify the store")
}

func TestStateCheck_AutofixRemovesUnrestorable(t *testing.T) {
	orig := statFunc
	t.Cleanup(func() { statFunc = orig })
	statFunc = func(string) (os.FileInfo, error) { return nil, os.ErrNotExist }

	store := newStore(t)
	save(t, store, "gone", encode(t, "file:///docs/gone.md"))
	save(t, store, "bad", []byte(`{}`))

	result := NewStateCheck(store, true).Run(context.Background())

	report := Build([]Section{result})
	assert.Equal(t, Tally{Passed: 2}, report.Summary)
	assert.Empty(t, report.Hint())

	states, err := store.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, states)
}
