package cache

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/graphlens/graphlens/pkg/layout"
	"github.com/graphlens/graphlens/pkg/model"
)

func testSnapshot() *Snapshot {
	return &Snapshot{
		FileIDs: []string{"f1", "f2"},
		Payload: &model.GraphPayload{
			Entities: []model.Entity{
				{ID: "e1", Name: "Alice", Type: "person", Degree: 2},
			},
		},
		Positions: map[string]layout.Position{
			"e1": {X: 120.5, Y: 44.25},
		},
		SavedAt: time.Now(),
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	store, err := NewStore(t.TempDir(), nil)
	if err != nil {
		t.Fatal(err)
	}

	if err := store.Save(testSnapshot()); err != nil {
		t.Fatal(err)
	}

	got, ok := store.Load([]string{"f1", "f2"})
	if !ok {
		t.Fatal("snapshot not found after save")
	}
	if len(got.Payload.Entities) != 1 || got.Payload.Entities[0].Name != "Alice" {
		t.Errorf("payload = %+v", got.Payload)
	}
	if got.Positions["e1"].X != 120.5 {
		t.Errorf("positions = %+v", got.Positions)
	}
}

func TestKeyIgnoresOrder(t *testing.T) {
	if Key([]string{"f2", "f1"}) != Key([]string{"f1", "f2"}) {
		t.Error("key must not depend on selection order")
	}
	if Key([]string{"f1"}) == Key([]string{"f2"}) {
		t.Error("different selections must key differently")
	}
	// Ids that would collide under naive concatenation must not.
	if Key([]string{"ab", "c"}) == Key([]string{"a", "bc"}) {
		t.Error("key must separate ids unambiguously")
	}
}

func TestLoadMiss(t *testing.T) {
	store, err := NewStore(t.TempDir(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := store.Load([]string{"nothing"}); ok {
		t.Error("load of unknown selection should miss")
	}
}

func TestLoadCorruptSnapshotIsMiss(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir, nil)
	if err != nil {
		t.Fatal(err)
	}

	if err := store.Save(testSnapshot()); err != nil {
		t.Fatal(err)
	}

	// Corrupt the stored file in place.
	entries, err := os.ReadDir(dir)
	if err != nil || len(entries) == 0 {
		t.Fatalf("cache dir: %v entries, err %v", len(entries), err)
	}
	path := filepath.Join(dir, entries[0].Name())
	if err := os.WriteFile(path, []byte("not snappy"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, ok := store.Load([]string{"f1", "f2"}); ok {
		t.Error("corrupt snapshot should be treated as a miss")
	}
	// The corrupt file is removed so the next save starts clean.
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("corrupt snapshot file should be deleted")
	}
}

func TestInvalidate(t *testing.T) {
	store, err := NewStore(t.TempDir(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := store.Save(testSnapshot()); err != nil {
		t.Fatal(err)
	}

	store.Invalidate([]string{"f1", "f2"})
	if _, ok := store.Load([]string{"f1", "f2"}); ok {
		t.Error("invalidated snapshot should miss")
	}
}

func TestSeedPayload(t *testing.T) {
	payload := &model.GraphPayload{
		Entities: []model.Entity{
			{ID: "e1"},
			{ID: "e2"},
		},
	}
	SeedPayload(payload, map[string]layout.Position{
		"e1": {X: 10, Y: 20},
	})

	if payload.Entities[0].X == nil || *payload.Entities[0].X != 10 {
		t.Error("e1 should be seeded with the cached position")
	}
	if payload.Entities[1].X != nil {
		t.Error("e2 has no cached position and must stay unseeded")
	}
}
