package publish

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"arbor-cli/internal/model"
	"arbor-cli/internal/store"
)

func testDB() *store.DB {
	now := time.Date(2025, 12, 20, 0, 0, 0, 0, time.UTC)
	child := func(id, parent, rank, label string) model.Item {
		it := model.Item{ID: id, Rank: rank, Label: label, CreatedAt: now, UpdatedAt: now}
		if parent != "" {
			p := parent
			it.ParentID = &p
		}
		return it
	}
	hidden := child("item-c", "item-a", "p", "Hidden")
	hidden.Disabled = true
	locked := child("item-b", "", "p", "Beta_2")
	locked.Locked = true

	db := &store.DB{Version: 1}
	db.SetItems([]model.Item{
		child("item-a", "", "h", "Alpha"),
		child("item-a1", "item-a", "h", "Apricot"),
		hidden,
		locked,
	})
	return db
}

func TestRenderItemMarkdown_IncludesPathAndChildren(t *testing.T) {
	t.Parallel()

	db := testDB()
	md, err := RenderItemMarkdown(db, "item-a1", RenderOptions{})
	if err != nil {
		t.Fatalf("RenderItemMarkdown: %v", err)
	}
	if !strings.Contains(md, "# Apricot") {
		t.Fatalf("expected title header, got:\n%s", md)
	}
	if !strings.Contains(md, "- Path: [Alpha](item-a.md)") {
		t.Fatalf("expected path line, got:\n%s", md)
	}

	md, err = RenderItemMarkdown(db, "item-a", RenderOptions{})
	if err != nil {
		t.Fatalf("RenderItemMarkdown: %v", err)
	}
	if !strings.Contains(md, "## Children") || !strings.Contains(md, "- [Apricot](item-a1.md)") {
		t.Fatalf("expected children section, got:\n%s", md)
	}
	if strings.Contains(md, "Hidden") {
		t.Fatalf("expected disabled child to be skipped, got:\n%s", md)
	}

	md, err = RenderItemMarkdown(db, "item-b", RenderOptions{})
	if err != nil {
		t.Fatalf("RenderItemMarkdown: %v", err)
	}
	if !strings.Contains(md, `# Beta\_2`) || !strings.Contains(md, "- Locked: true") {
		t.Fatalf("expected escaped title and locked flag, got:\n%s", md)
	}

	if _, err := RenderItemMarkdown(db, "item-c", RenderOptions{}); err == nil {
		t.Fatalf("expected disabled item to be refused")
	}
	if _, err := RenderItemMarkdown(db, "item-nope", RenderOptions{}); err == nil {
		t.Fatalf("expected unknown item to fail")
	}
}

func TestRenderTreeMarkdown_NestsChildren(t *testing.T) {
	t.Parallel()

	md, err := RenderTreeMarkdown(testDB(), "", RenderOptions{IncludeDisabled: true})
	if err != nil {
		t.Fatalf("RenderTreeMarkdown: %v", err)
	}
	want := "# Tree\n\n" +
		"- [Alpha](items/item-a.md)\n" +
		"  - [Apricot](items/item-a1.md)\n" +
		"  - [Hidden](items/item-c.md) (disabled)\n" +
		"- [Beta\\_2](items/item-b.md)\n"
	if md != want {
		t.Fatalf("unexpected index:\n%s\nwant:\n%s", md, want)
	}
}

func TestWriteTree_WritesIndexAndItems(t *testing.T) {
	t.Parallel()

	db := testDB()
	to := t.TempDir()
	res, err := WriteTree(db, "item-a", to, WriteOptions{})
	if err != nil {
		t.Fatalf("WriteTree: %v", err)
	}
	if len(res.Written) != 3 {
		t.Fatalf("expected index plus 2 pages; got %d (%v)", len(res.Written), res.Written)
	}
	index, err := os.ReadFile(filepath.Join(to, "index.md"))
	if err != nil {
		t.Fatalf("read index.md: %v", err)
	}
	if !strings.HasPrefix(string(index), "# Alpha\n") {
		t.Fatalf("expected subtree title, got:\n%s", index)
	}
	if _, err := os.Stat(filepath.Join(to, "items", "item-a1.md")); err != nil {
		t.Fatalf("stat item-a1.md: %v", err)
	}

	if _, err := WriteTree(db, "item-a", to, WriteOptions{}); err == nil || !strings.Contains(err.Error(), "--overwrite") {
		t.Fatalf("expected existing files to be refused; got %v", err)
	}
	if _, err := WriteTree(db, "item-a", to, WriteOptions{Overwrite: true}); err != nil {
		t.Fatalf("WriteTree overwrite: %v", err)
	}
}
