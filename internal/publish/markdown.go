package publish

import (
	"bytes"
	"fmt"
	"strings"

	"arbor-cli/internal/model"
	"arbor-cli/internal/store"
)

type RenderOptions struct {
	IncludeDisabled bool
	// Title heads the index page. Empty means "Tree".
	Title string
}

var mdEscaper = strings.NewReplacer(`\`, `\\`, "*", `\*`, "_", `\_`, "[", `\[`, "]", `\]`, "`", "\\`")

func escape(s string) string { return mdEscaper.Replace(strings.TrimSpace(s)) }

// RenderItemMarkdown renders one item page: its path from the root, flags
// and direct children.
func RenderItemMarkdown(db *store.DB, itemID string, opt RenderOptions) (string, error) {
	if db == nil {
		return "", fmt.Errorf("missing db")
	}
	item, ok := db.FindItem(strings.TrimSpace(itemID))
	if !ok || item == nil {
		return "", fmt.Errorf("item not found: %s", itemID)
	}
	if item.Disabled && !opt.IncludeDisabled {
		return "", fmt.Errorf("item disabled (use --include-disabled): %s", item.ID)
	}

	var buf bytes.Buffer
	writeLn := func(s string) {
		buf.WriteString(s)
		buf.WriteString("\n")
	}

	writeLn("# " + escape(item.Label))
	writeLn("")

	writeLn("## Meta")
	writeLn("")
	writeLn("- ID: " + item.ID)
	if path := ancestors(db, item); len(path) > 0 {
		parts := make([]string, 0, len(path))
		for _, p := range path {
			parts = append(parts, fmt.Sprintf("[%s](%s.md)", escape(p.Label), p.ID))
		}
		writeLn("- Path: " + strings.Join(parts, " / "))
	}
	if item.Disabled {
		writeLn("- Disabled: true")
	}
	if item.Locked {
		writeLn("- Locked: true")
	}
	if item.Leaf {
		writeLn("- Leaf: true")
	}
	writeLn("- Updated: " + item.UpdatedAt.UTC().Format("2006-01-02 15:04"))
	writeLn("")

	children := visibleChildren(db, item.ID, opt.IncludeDisabled)
	if len(children) > 0 {
		writeLn("## Children")
		writeLn("")
		for _, ch := range children {
			writeLn(fmt.Sprintf("- [%s](%s.md)", escape(ch.Label), ch.ID))
		}
	}
	return buf.String(), nil
}

// RenderTreeMarkdown renders the index page: the tree under rootID ("" for
// the whole tree) as a nested list linking to item pages.
func RenderTreeMarkdown(db *store.DB, rootID string, opt RenderOptions) (string, error) {
	if db == nil {
		return "", fmt.Errorf("missing db")
	}
	rootID = strings.TrimSpace(rootID)
	title := strings.TrimSpace(opt.Title)
	if rootID != "" {
		root, ok := db.FindItem(rootID)
		if !ok {
			return "", fmt.Errorf("item not found: %s", rootID)
		}
		if title == "" {
			title = root.Label
		}
	}
	if title == "" {
		title = "Tree"
	}

	var buf bytes.Buffer
	buf.WriteString("# " + escape(title) + "\n\n")
	for _, it := range visibleChildren(db, rootID, opt.IncludeDisabled) {
		renderTreeLine(&buf, db, it, 0, opt.IncludeDisabled)
	}
	return buf.String(), nil
}

func renderTreeLine(buf *bytes.Buffer, db *store.DB, it model.Item, depth int, includeDisabled bool) {
	suffix := ""
	if it.Disabled {
		suffix = " (disabled)"
	}
	fmt.Fprintf(buf, "%s- [%s](items/%s.md)%s\n", strings.Repeat("  ", depth), escape(it.Label), it.ID, suffix)
	for _, ch := range visibleChildren(db, it.ID, includeDisabled) {
		renderTreeLine(buf, db, ch, depth+1, includeDisabled)
	}
}

func visibleChildren(db *store.DB, parentID string, includeDisabled bool) []model.Item {
	out := make([]model.Item, 0)
	for _, ch := range db.ChildrenOf(parentID) {
		if ch.Disabled && !includeDisabled {
			continue
		}
		out = append(out, ch)
	}
	return out
}

// ancestors returns the parent chain of it, root first.
func ancestors(db *store.DB, it *model.Item) []model.Item {
	var out []model.Item
	seen := map[string]bool{it.ID: true}
	for pid := it.Parent(); pid != "" && !seen[pid]; {
		seen[pid] = true
		p, ok := db.FindItem(pid)
		if !ok {
			break
		}
		out = append([]model.Item{*p}, out...)
		pid = p.Parent()
	}
	return out
}

// subtree returns rootID and its descendants ("" for every item) in
// depth-first order.
func subtree(db *store.DB, rootID string, includeDisabled bool) []model.Item {
	var out []model.Item
	var walk func(parentID string)
	walk = func(parentID string) {
		for _, ch := range visibleChildren(db, parentID, includeDisabled) {
			out = append(out, ch)
			walk(ch.ID)
		}
	}
	if rootID != "" {
		root, ok := db.FindItem(rootID)
		if !ok || (root.Disabled && !includeDisabled) {
			return nil
		}
		out = append(out, *root)
	}
	walk(rootID)
	return out
}
