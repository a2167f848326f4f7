package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/preview/internal/core/preview"
)

func newTestStateStore(t *testing.T) *StateStore {
	t.Helper()
	database, err := Open(filepath.Join(t.TempDir(), "preview.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })
	return NewStateStore(database)
}

func stored(id string, slot preview.Slot, at time.Time) preview.StoredState {
	return preview.StoredState{
		PanelID:   id,
		Slot:      slot,
		Blob:      []byte(`{"resource":"file:///` + id + `.md","slot":1,"locked":false}`),
		UpdatedAt: at,
	}
}

func TestStateStore_SaveAndList(t *testing.T) {
	ctx := context.Background()
	store := newTestStateStore(t)
	base := time.Unix(1_700_000_000, 0)

	require.NoError(t, store.Save(ctx, stored("c", 2, base)))
	require.NoError(t, store.Save(ctx, stored("b", 1, base.Add(time.Second))))
	require.NoError(t, store.Save(ctx, stored("a", 1, base.Add(2*time.Second))))

	got, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, got, 3)

	ids := []string{got[0].PanelID, got[1].PanelID, got[2].PanelID}
	assert.Equal(t, []string{"b", "a", "c"}, ids)
	assert.Equal(t, preview.Slot(2), got[2].Slot)
	assert.JSONEq(t, string(stored("b", 1, base).Blob), string(got[0].Blob))
	assert.True(t, got[0].UpdatedAt.Equal(base.Add(time.Second)))
}

func TestStateStore_SaveOverwrites(t *testing.T) {
	ctx := context.Background()
	store := newTestStateStore(t)

	require.NoError(t, store.Save(ctx, stored("a", 1, time.Now())))
	updated := stored("a", 3, time.Now())
	updated.Blob = []byte(`{"resource":"file:///x.md","slot":3,"locked":true}`)
	require.NoError(t, store.Save(ctx, updated))

	got, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, preview.Slot(3), got[0].Slot)
	assert.JSONEq(t, string(updated.Blob), string(got[0].Blob))
}

func TestStateStore_SaveStampsTime(t *testing.T) {
	ctx := context.Background()
	store := newTestStateStore(t)

	require.NoError(t, store.Save(ctx, stored("a", 1, time.Time{})))

	got, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.WithinDuration(t, time.Now(), got[0].UpdatedAt, time.Minute)
}

func TestStateStore_Delete(t *testing.T) {
	ctx := context.Background()
	store := newTestStateStore(t)
	require.NoError(t, store.Save(ctx, stored("a", 1, time.Now())))

	require.NoError(t, store.Delete(ctx, "a"))
	assert.ErrorIs(t, store.Delete(ctx, "a"), preview.ErrNotFound)

	got, err := store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestStateStore_Clear(t *testing.T) {
	ctx := context.Background()
	store := newTestStateStore(t)
	require.NoError(t, store.Save(ctx, stored("a", 1, time.Now())))
	require.NoError(t, store.Save(ctx, stored("b", 2, time.Now())))

	require.NoError(t, store.Clear(ctx))

	got, err := store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestStateStore_Replace(t *testing.T) {
	ctx := context.Background()
	store := newTestStateStore(t)
	require.NoError(t, store.Save(ctx, stored("old", 1, time.Now())))

	require.NoError(t, store.Replace(ctx, []preview.StoredState{
		stored("b", 2, time.Now()),
		stored("a", 1, time.Time{}),
	}))

	got, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].PanelID)
	assert.False(t, got[0].UpdatedAt.IsZero())
	assert.Equal(t, "b", got[1].PanelID)
}

func TestStateStore_ReplaceFailureKeepsPreviousSet(t *testing.T) {
	ctx := context.Background()
	store := newTestStateStore(t)
	require.NoError(t, store.Save(ctx, stored("old", 1, time.Now())))

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	require.Error(t, store.Replace(cancelled, []preview.StoredState{stored("new", 1, time.Now())}))

	got, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "old", got[0].PanelID)
}

func TestOpen_ReopensExistingDatabase(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "preview.db")

	first, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, NewStateStore(first).Save(ctx, stored("a", 1, time.Now())))
	require.NoError(t, first.Close())

	second, err := Open(path)
	require.NoError(t, err)
	defer second.Close() //nolint:errcheck

	got, err := NewStateStore(second).List(ctx)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestIsBusyError(t *testing.T) {
	assert.False(t, IsBusyError(nil))
	assert.False(t, IsBusyError(assert.AnError))
}
