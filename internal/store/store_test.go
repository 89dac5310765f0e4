package store

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSQLite_SaveLoadRoundTrip(t *testing.T) {
	s := Store{Dir: t.TempDir()}
	db := sampleDB()
	db.Version = 3
	if err := s.Save(db); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := s.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Version != 3 {
		t.Fatalf("expected version 3, got %d", got.Version)
	}
	if len(got.Items) != len(db.Items) {
		t.Fatalf("expected %d items, got %d", len(db.Items), len(got.Items))
	}
	assertIDs(t, childIDs(got, ""), "a", "b", "c")
	assertIDs(t, childIDs(got, "a"), "a1", "a2")
	a2, ok := got.FindItem("a2")
	if !ok || !a2.Leaf || a2.Parent() != "a" {
		t.Fatalf("expected leaf a2 under a, got %+v", a2)
	}
	if !a2.CreatedAt.Equal(testNow) {
		t.Fatalf("expected created_at %v, got %v", testNow, a2.CreatedAt)
	}
}

func TestSQLite_SaveReplacesAllItems(t *testing.T) {
	s := Store{Dir: t.TempDir()}
	if err := s.Save(sampleDB()); err != nil {
		t.Fatalf("Save: %v", err)
	}
	small := &DB{Version: 1}
	small.SetItems(append(small.Items, item("only", "", "h")))
	if err := s.Save(small); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := s.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	assertIDs(t, childIDs(got, ""), "only")
}

func TestLoad_EmptyStore(t *testing.T) {
	s := Store{Dir: filepath.Join(t.TempDir(), ".arbor")}
	db, err := s.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(db.Items) != 0 || db.Version != 1 {
		t.Fatalf("expected empty v1 db, got %+v", db)
	}
	if _, err := os.Stat(filepath.Join(s.Dir, sqliteFileName)); err != nil {
		t.Fatalf("expected sqlite file: %v", err)
	}
}

func TestEvents_AppendAndRead(t *testing.T) {
	s := Store{Dir: t.TempDir()}
	for i, id := range []string{"a", "b", "a"} {
		if err := s.AppendEvent("item.rename", id, map[string]any{"n": i}); err != nil {
			t.Fatalf("AppendEvent: %v", err)
		}
	}

	all, err := s.ReadEvents(0)
	if err != nil {
		t.Fatalf("ReadEvents: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 events, got %d", len(all))
	}
	if all[0].ID == "" || all[0].ID == all[1].ID {
		t.Fatalf("expected distinct event ids, got %q %q", all[0].ID, all[1].ID)
	}

	last, err := s.ReadEvents(2)
	if err != nil {
		t.Fatalf("ReadEvents: %v", err)
	}
	if len(last) != 2 || last[0].EntityID != "b" || last[1].EntityID != "a" {
		t.Fatalf("expected newest two events oldest first, got %+v", last)
	}

	forA, err := s.ReadEventsForEntity("a", 0)
	if err != nil {
		t.Fatalf("ReadEventsForEntity: %v", err)
	}
	if len(forA) != 2 {
		t.Fatalf("expected 2 events for a, got %d", len(forA))
	}
}

func TestAppendEvent_RequiresTypeAndEntity(t *testing.T) {
	s := Store{Dir: t.TempDir()}
	if err := s.AppendEvent("", "a", nil); err == nil {
		t.Fatalf("expected error for missing type")
	}
	if err := s.AppendEvent("item.move", " ", nil); err == nil {
		t.Fatalf("expected error for missing entity id")
	}
}

func TestDiscoverDir_WalksUp(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, dirName), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	deep := filepath.Join(root, "x", "y")
	if err := os.MkdirAll(deep, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	got, ok := DiscoverDir(deep)
	if !ok || got != filepath.Join(root, dirName) {
		t.Fatalf("expected %s, got %q (ok=%v)", filepath.Join(root, dirName), got, ok)
	}
}

func TestDB_TreeQueries(t *testing.T) {
	db := sampleDB()
	if got := db.Depth("a1"); got != 1 {
		t.Fatalf("expected depth 1, got %d", got)
	}
	if got := db.Depth("nope"); got != -1 {
		t.Fatalf("expected -1 for unknown, got %d", got)
	}
	if !db.IsAncestor("a", "a2") || db.IsAncestor("b", "a2") {
		t.Fatalf("unexpected ancestor results")
	}
	meta, ok := db.ItemMeta("a")
	if !ok || !meta.Expandable || meta.ParentID != "" {
		t.Fatalf("unexpected meta for a: %+v", meta)
	}
	meta, _ = db.ItemMeta("b")
	if meta.Expandable {
		t.Fatalf("b has no children but is expandable")
	}
}

func TestDB_CloneIsIndependent(t *testing.T) {
	db := sampleDB()
	cp := db.Clone()
	cp.Items[0].Label = "changed"
	if db.Items[0].Label == "changed" {
		t.Fatalf("clone shares item storage")
	}
}

func TestNextID_ShortAndUnique(t *testing.T) {
	db := sampleDB()
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		id := db.NextID()
		if !strings.HasPrefix(id, "item-") {
			t.Fatalf("expected item prefix, got %q", id)
		}
		if got := len(strings.TrimPrefix(id, "item-")); got < 6 {
			t.Fatalf("expected suffix len >= 6, got %d (%q)", got, id)
		}
		if seen[id] {
			t.Fatalf("duplicate id %q", id)
		}
		seen[id] = true
		db.SetItems(append(db.Items, item(id, "", "z")))
	}
}
