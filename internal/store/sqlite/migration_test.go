package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/colonyops/preview/internal/core/preview"
	"github.com/colonyops/preview/internal/store/jsonfile"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "preview.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestMigrateFromJSON_NoFile(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	n, err := MigrateFromJSON(ctx, db, filepath.Join(t.TempDir(), "panels.json"))
	if err != nil {
		t.Fatalf("MigrateFromJSON failed: %v", err)
	}
	if n != 0 {
		t.Errorf("expected 0 migrated, got %d", n)
	}
}

func TestMigrateFromJSON_States(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	jsonPath := filepath.Join(t.TempDir(), "panels.json")
	src := jsonfile.NewStateStore(jsonPath)
	for i, id := range []string{"p1", "p2"} {
		err := src.Save(ctx, preview.StoredState{
			PanelID:   id,
			Slot:      preview.Slot(i + 1),
			Blob:      []byte(`{"resource":"file:///docs/` + id + `.md","slot":1}`),
			UpdatedAt: time.Now(),
		})
		if err != nil {
			t.Fatalf("Save: %v", err)
		}
	}

	n, err := MigrateFromJSON(ctx, db, jsonPath)
	if err != nil {
		t.Fatalf("MigrateFromJSON failed: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 migrated, got %d", n)
	}

	states, err := NewStateStore(db).List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(states) != 2 {
		t.Fatalf("expected 2 states, got %d", len(states))
	}
	if states[0].PanelID != "p1" || states[1].Slot != 2 {
		t.Errorf("unexpected states: %+v", states)
	}
}

func TestMigrateFromJSON_SkipsPopulatedDB(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	err := NewStateStore(db).Save(ctx, preview.StoredState{
		PanelID: "existing",
		Slot:    1,
		Blob:    []byte(`{"resource":"file:///docs/x.md","slot":1}`),
	})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	jsonPath := filepath.Join(t.TempDir(), "panels.json")
	err = jsonfile.NewStateStore(jsonPath).Save(ctx, preview.StoredState{
		PanelID: "from-json",
		Slot:    2,
		Blob:    []byte(`{"resource":"file:///docs/y.md","slot":2}`),
	})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	n, err := MigrateFromJSON(ctx, db, jsonPath)
	if err != nil {
		t.Fatalf("MigrateFromJSON failed: %v", err)
	}
	if n != 0 {
		t.Errorf("expected migration to be skipped, got %d", n)
	}

	states, _ := NewStateStore(db).List(ctx)
	if len(states) != 1 || states[0].PanelID != "existing" {
		t.Errorf("expected only the existing state, got %+v", states)
	}
}
