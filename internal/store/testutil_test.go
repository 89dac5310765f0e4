package store

import (
	"testing"
	"time"

	"arbor-cli/internal/model"
)

var testNow = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

func strPtr(s string) *string { return &s }

func item(id, parent, rank string) model.Item {
	it := model.Item{ID: id, Rank: rank, Label: id, CreatedAt: testNow, UpdatedAt: testNow}
	if parent != "" {
		it.ParentID = strPtr(parent)
	}
	return it
}

// sampleDB is a{a1, a2}, b, c with a2 a leaf.
func sampleDB() *DB {
	a2 := item("a2", "a", "p")
	a2.Leaf = true
	return &DB{Version: 1, Items: []model.Item{
		item("a", "", "h"),
		item("a1", "a", "h"),
		a2,
		item("b", "", "p"),
		item("c", "", "t"),
	}}
}

func childIDs(db *DB, parent string) []string {
	return db.ChildrenIDs(parent)
}

func assertIDs(t *testing.T, got []string, want ...string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}
