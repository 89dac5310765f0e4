package treeview

import (
	"strings"
	"unicode/utf8"

	"arbor-cli/internal/event"
	"arbor-cli/internal/selection"
)

// HandleKey applies the tree keyboard model to the focused item and reports
// whether the key was consumed. ev.Key is the base key name with modifiers
// carried as flags (see event.ParseKey).
func (tv *TreeView) HandleKey(ev event.Event) bool {
	if tv.handled(ev) {
		return true
	}
	cur := tv.focus.Focused()
	if cur == "" {
		tv.EnsureFocus(ev)
		return tv.focus.Focused() != ""
	}
	multi := tv.opts.MultiSelect && !tv.opts.DisableSelection
	canToggle := !tv.items.IsItemDisabled(cur)

	switch key := strings.ToLower(ev.Key); {
	case key == " " || key == "space":
		if tv.opts.DisableSelection || !canToggle {
			return true
		}
		if multi && ev.Shift {
			tv.selection.ExpandSelectionRange(ev, cur)
			return true
		}
		var should *bool
		if !tv.opts.MultiSelect {
			should = selection.Bool(true)
		}
		tv.selection.SelectItem(ev, selection.SelectParams{ItemID: cur, KeepExisting: tv.opts.MultiSelect, ShouldBeSelected: should})
		return true

	case key == "enter":
		switch {
		case tv.label != nil && tv.label.IsItemEditable(cur) && !tv.label.IsItemBeingEdited(cur):
			tv.Interactions(cur).ToggleItemEditing()
		case tv.items.IsExpandable(cur):
			tv.toggleExpansion(ev, cur)
		case canToggle && !tv.opts.DisableSelection:
			if tv.opts.MultiSelect {
				tv.selection.SelectItem(ev, selection.SelectParams{ItemID: cur, KeepExisting: true})
			} else {
				tv.selection.SelectItem(ev, selection.SelectParams{ItemID: cur, ShouldBeSelected: selection.Bool(true)})
			}
		}
		return true

	case key == "down" || key == "up":
		next := tv.view.NextNavigable(cur)
		if key == "up" {
			next = tv.view.PrevNavigable(cur)
		}
		if next == "" {
			return true
		}
		tv.focus.FocusItem(ev, next)
		if multi && ev.Shift && canToggle && !tv.items.IsItemDisabled(next) {
			tv.selection.SelectItemFromArrowNavigation(ev, cur, next)
		}
		return true

	case key == "right":
		if tv.expansion.IsItemExpanded(cur) {
			if next := tv.view.NextNavigable(cur); next != "" && tv.view.IsDescendant(cur, next) {
				tv.focus.FocusItem(ev, next)
			}
		} else if tv.items.IsExpandable(cur) && !tv.items.IsItemDisabled(cur) {
			tv.toggleExpansion(ev, cur)
		}
		return true

	case key == "left":
		if tv.expansion.IsItemExpanded(cur) && !tv.items.IsItemDisabled(cur) {
			tv.toggleExpansion(ev, cur)
		} else if parent, ok := tv.view.ParentOf(cur); ok && parent != "" {
			tv.focus.FocusItem(ev, parent)
		}
		return true

	case key == "home":
		if multi && ev.Ctrl && ev.Shift && canToggle {
			tv.selection.SelectRangeFromStartToItem(ev, cur)
		} else {
			tv.focus.FocusItem(ev, tv.view.FirstNavigable())
		}
		return true

	case key == "end":
		if multi && ev.Ctrl && ev.Shift && canToggle {
			tv.selection.SelectRangeFromItemToEnd(ev, cur)
		} else {
			tv.focus.FocusItem(ev, tv.view.LastNavigable())
		}
		return true

	case key == "*":
		tv.expansion.ExpandAllSiblings(ev, cur)
		return true

	case key == "a" && (ev.Ctrl || ev.Meta):
		if !multi {
			return false
		}
		tv.selection.SelectAllNavigableItems(ev)
		return true

	case !ev.Ctrl && !ev.Alt && !ev.Meta && utf8.RuneCountInString(ev.Key) == 1:
		if next := tv.typeAhead(cur, ev.Key); next != "" {
			tv.focus.FocusItem(ev, next)
			return true
		}
	}
	return false
}

// typeAhead returns the next navigable item after cur whose label starts
// with prefix, wrapping around.
func (tv *TreeView) typeAhead(cur, prefix string) string {
	prefix = strings.ToLower(prefix)
	order := tv.view.AllNavigable()
	start := 0
	for i, id := range order {
		if id == cur {
			start = i + 1
			break
		}
	}
	for i := 0; i < len(order); i++ {
		id := order[(start+i)%len(order)]
		if strings.HasPrefix(strings.ToLower(tv.items.Label(id)), prefix) {
			return id
		}
	}
	return ""
}
