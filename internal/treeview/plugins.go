package treeview

import (
	"errors"
	"sort"
	"strings"

	"arbor-cli/internal/event"
	"arbor-cli/internal/model"
	"arbor-cli/internal/treeorder"
)

// Items exposes item data and metadata.
type Items struct {
	src  ItemSource
	view *treeorder.View
}

func (p *Items) Item(id string) (model.Item, bool) {
	it, ok := p.src.FindItem(id)
	if !ok {
		return model.Item{}, false
	}
	return *it, true
}

func (p *Items) ItemMeta(id string) (treeorder.Meta, bool) { return p.view.ItemMeta(id) }

func (p *Items) ChildrenIDs(parentID string) []string { return p.view.ChildrenIDs(parentID) }

func (p *Items) Label(id string) string {
	if it, ok := p.src.FindItem(id); ok {
		return it.Label
	}
	return ""
}

// IsItemDisabled is true for disabled items and for everything below them.
func (p *Items) IsItemDisabled(id string) bool { return p.view.IsItemDisabled(id) }

func (p *Items) IsExpandable(id string) bool {
	m, ok := p.view.ItemMeta(id)
	return ok && m.Expandable
}

// CanHaveChildren rejects leaf items.
func (p *Items) CanHaveChildren(id string) bool {
	it, ok := p.src.FindItem(id)
	return ok && !it.Leaf
}

// Expansion tracks which items are expanded.
type Expansion struct {
	items    *Items
	expanded map[string]bool
	onToggle func(ev event.Event, id string, expanded bool)
}

func newExpansion(defaults []string, onToggle func(event.Event, string, bool)) *Expansion {
	e := &Expansion{expanded: map[string]bool{}, onToggle: onToggle}
	for _, id := range defaults {
		e.expanded[id] = true
	}
	return e
}

func (e *Expansion) IsItemExpanded(id string) bool { return e.expanded[id] }

// SetItemExpansion sets the state of id. Items without children never
// expand.
func (e *Expansion) SetItemExpansion(ev event.Event, id string, expanded bool) {
	if e.expanded[id] == expanded {
		return
	}
	if expanded && (e.items == nil || !e.items.IsExpandable(id)) {
		return
	}
	if expanded {
		e.expanded[id] = true
	} else {
		delete(e.expanded, id)
	}
	if e.onToggle != nil {
		e.onToggle(ev, id, expanded)
	}
}

func (e *Expansion) ToggleItemExpansion(ev event.Event, id string) {
	e.SetItemExpansion(ev, id, !e.expanded[id])
}

// ExpandedItems returns the expanded ids, sorted.
func (e *Expansion) ExpandedItems() []string {
	out := make([]string, 0, len(e.expanded))
	for id := range e.expanded {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// ExpandAllSiblings expands every expandable sibling of id.
func (e *Expansion) ExpandAllSiblings(ev event.Event, id string) {
	m, ok := e.items.ItemMeta(id)
	if !ok {
		return
	}
	for _, sib := range e.items.ChildrenIDs(m.ParentID) {
		e.SetItemExpansion(ev, sib, true)
	}
}

// Focus tracks the focused item. Only navigable items take focus.
type Focus struct {
	view    *treeorder.View
	focused string
	onFocus func(ev event.Event, id string)
}

func (f *Focus) Focused() string { return f.focused }

func (f *Focus) IsItemFocused(id string) bool { return id != "" && f.focused == id }

func (f *Focus) FocusItem(ev event.Event, id string) {
	if id == f.focused || !f.view.IsNavigable(id) {
		return
	}
	f.focused = id
	if f.onFocus != nil {
		f.onFocus(ev, id)
	}
}

func (f *Focus) Blur(event.Event) { f.focused = "" }

var ErrNotEditable = errors.New("item label is not editable")

// Label is the optional inline label editing plugin.
type Label struct {
	items      *Items
	store      LabelStore
	isEditable func(id string) bool
	onChange   func(id, label string)

	edited string
}

func (l *Label) IsItemEditable(id string) bool {
	it, ok := l.items.Item(id)
	if !ok || it.ReadOnlyLabel {
		return false
	}
	if l.isEditable != nil {
		return l.isEditable(id)
	}
	return true
}

func (l *Label) IsItemBeingEdited(id string) bool { return id != "" && l.edited == id }

func (l *Label) EditedItemID() string { return l.edited }

// SetEditedItemID starts editing id, or stops editing with "".
func (l *Label) SetEditedItemID(id string) { l.edited = id }

func (l *Label) UpdateItemLabel(id, label string) error {
	if !l.IsItemEditable(id) {
		return ErrNotEditable
	}
	label = strings.TrimSpace(label)
	if label == l.items.Label(id) {
		return nil
	}
	if err := l.store.RenameItem(id, label); err != nil {
		return err
	}
	if l.onChange != nil {
		l.onChange(id, label)
	}
	return nil
}
