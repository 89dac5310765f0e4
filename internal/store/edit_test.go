package store

import (
	"errors"
	"testing"
)

func newTestWorkspace(t *testing.T) *Workspace {
	t.Helper()
	s := Store{Dir: t.TempDir()}
	db := sampleDB()
	if err := s.Save(db); err != nil {
		t.Fatalf("Save: %v", err)
	}
	return &Workspace{Store: s, DB: db}
}

func TestWorkspaceAddItem_AppendsLastChild(t *testing.T) {
	ws := newTestWorkspace(t)
	it, err := ws.AddItem("  Third  ", "a", false)
	if err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	if it.Label != "Third" || it.Parent() != "a" {
		t.Fatalf("unexpected item %+v", it)
	}
	assertIDs(t, childIDs(ws.DB, "a"), "a1", "a2", it.ID)

	reloaded, err := ws.Store.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if _, ok := reloaded.FindItem(it.ID); !ok {
		t.Fatalf("expected %s persisted", it.ID)
	}
}

func TestWorkspaceAddItem_Validation(t *testing.T) {
	ws := newTestWorkspace(t)
	if _, err := ws.AddItem(" ", "", false); !errors.Is(err, ErrEmptyLabel) {
		t.Fatalf("expected ErrEmptyLabel, got %v", err)
	}
	if _, err := ws.AddItem("x", "missing", false); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := ws.AddItem("x", "a2", false); !errors.Is(err, ErrLeafParent) {
		t.Fatalf("expected ErrLeafParent, got %v", err)
	}
}

func TestWorkspaceRenameAndDisable(t *testing.T) {
	ws := newTestWorkspace(t)
	if err := ws.RenameItem("b", "Bee"); err != nil {
		t.Fatalf("RenameItem: %v", err)
	}
	if err := ws.SetDisabled("b", true); err != nil {
		t.Fatalf("SetDisabled: %v", err)
	}
	b, _ := ws.DB.FindItem("b")
	if b.Label != "Bee" || !b.Disabled {
		t.Fatalf("unexpected b: %+v", b)
	}
	evs, err := ws.Store.ReadEventsForEntity("b", 0)
	if err != nil {
		t.Fatalf("ReadEventsForEntity: %v", err)
	}
	if len(evs) != 2 || evs[0].Type != "item.rename" || evs[1].Type != "item.set_disabled" {
		t.Fatalf("unexpected events %+v", evs)
	}
	if err := ws.RenameItem("b", ""); !errors.Is(err, ErrEmptyLabel) {
		t.Fatalf("expected ErrEmptyLabel, got %v", err)
	}
}

func TestWorkspaceDeleteItem_RemovesSubtree(t *testing.T) {
	ws := newTestWorkspace(t)
	n, err := ws.DeleteItem("a")
	if err != nil {
		t.Fatalf("DeleteItem: %v", err)
	}
	if n != 3 {
		t.Fatalf("expected 3 removed, got %d", n)
	}
	assertIDs(t, childIDs(ws.DB, ""), "b", "c")
	if _, ok := ws.DB.FindItem("a1"); ok {
		t.Fatalf("expected a1 removed")
	}
}
