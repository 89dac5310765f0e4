package treeview

import (
	"arbor-cli/internal/event"
	"arbor-cli/internal/plugin"
	"arbor-cli/internal/reorder"
	"arbor-cli/internal/selection"
)

type ItemStatus struct {
	Expandable bool
	Expanded   bool
	Focused    bool
	Selected   bool
	Disabled   bool
	Editing    bool
	Editable   bool
	Draggable  bool
	Depth      int

	// DropAction is set on the current drag target. DropDepth is the
	// nesting level the indicator is drawn at.
	DropAction reorder.Action
	DropDepth  int
}

func (tv *TreeView) Status(id string) ItemStatus {
	m, _ := tv.items.ItemMeta(id)
	st := ItemStatus{
		Expandable: m.Expandable,
		Expanded:   tv.expansion.IsItemExpanded(id),
		Focused:    tv.focus.IsItemFocused(id),
		Selected:   tv.selection.IsItemSelected(id),
		Disabled:   tv.items.IsItemDisabled(id),
		Depth:      m.Depth,
	}
	if tv.label != nil {
		st.Editing = tv.label.IsItemBeingEdited(id)
		st.Editable = tv.label.IsItemEditable(id)
	}
	if tv.reorder != nil {
		st.Draggable = tv.reorder.CanItemBeDragged(id)
		if d, ok := tv.reorder.CurrentDrag(); ok && d.TargetItemID == id && d.Action != reorder.ActionNone {
			st.DropAction = d.Action
			st.DropDepth, _ = tv.reorder.TargetDepth()
		}
	}
	return st
}

// Interactions are the handlers bound to one rendered item.
type Interactions struct {
	tv     *TreeView
	itemID string
}

func (tv *TreeView) Interactions(id string) Interactions {
	return Interactions{tv: tv, itemID: id}
}

func (in Interactions) multiple(ev event.Event) bool {
	return in.tv.opts.MultiSelect && ev.Multiple()
}

// HandleClick is the content click: external handlers, then expansion,
// then selection.
func (in Interactions) HandleClick(ev event.Event) {
	if in.tv.handled(ev) {
		return
	}
	in.HandleExpansion(ev)
	in.HandleSelection(ev)
}

func (in Interactions) HandleExpansion(ev event.Event) {
	tv, id := in.tv, in.itemID
	if tv.items.IsItemDisabled(id) {
		return
	}
	if !tv.focus.IsItemFocused(id) {
		tv.focus.FocusItem(ev, id)
	}
	// A modifier click on an open item changes selection, not expansion.
	if tv.items.IsExpandable(id) && !(in.multiple(ev) && tv.expansion.IsItemExpanded(id)) {
		tv.toggleExpansion(ev, id)
	}
}

func (in Interactions) HandleSelection(ev event.Event) {
	tv, id := in.tv, in.itemID
	if tv.items.IsItemDisabled(id) {
		return
	}
	if !tv.focus.IsItemFocused(id) {
		tv.focus.FocusItem(ev, id)
	}
	switch {
	case in.multiple(ev) && ev.Shift:
		tv.selection.ExpandSelectionRange(ev, id)
	case in.multiple(ev):
		tv.selection.SelectItem(ev, selection.SelectParams{ItemID: id, KeepExisting: true})
	default:
		tv.selection.SelectItem(ev, selection.SelectParams{ItemID: id, ShouldBeSelected: selection.Bool(true)})
	}
}

func (in Interactions) HandleCheckboxSelection(ev event.Event, checked bool) {
	tv, id := in.tv, in.itemID
	if tv.handled(ev) || tv.items.IsItemDisabled(id) {
		return
	}
	if tv.opts.MultiSelect && ev.Shift {
		tv.selection.ExpandSelectionRange(ev, id)
		return
	}
	tv.selection.SelectItem(ev, selection.SelectParams{
		ItemID:           id,
		KeepExisting:     tv.opts.MultiSelect,
		ShouldBeSelected: selection.Bool(checked),
	})
}

// ToggleItemEditing starts or stops label editing of the item. No-op
// without the label plugin.
func (in Interactions) ToggleItemEditing() {
	tv := in.tv
	if !tv.registry.Has(plugin.Label) {
		return
	}
	if !tv.label.IsItemEditable(in.itemID) {
		return
	}
	if tv.label.IsItemBeingEdited(in.itemID) {
		tv.label.SetEditedItemID("")
	} else {
		tv.label.SetEditedItemID(in.itemID)
	}
}

// HandleSaveItemLabel stores label and leaves edit mode. Calls for an item
// that is not being edited, such as a blur after a save, do nothing.
func (in Interactions) HandleSaveItemLabel(ev event.Event, label string) error {
	tv := in.tv
	if !tv.registry.Has(plugin.Label) || !tv.label.IsItemBeingEdited(in.itemID) {
		return nil
	}
	err := tv.label.UpdateItemLabel(in.itemID, label)
	in.ToggleItemEditing()
	tv.focus.FocusItem(ev, in.itemID)
	return err
}

func (in Interactions) HandleCancelItemLabelEditing(ev event.Event) {
	tv := in.tv
	if !tv.registry.Has(plugin.Label) || !tv.label.IsItemBeingEdited(in.itemID) {
		return
	}
	in.ToggleItemEditing()
	tv.focus.FocusItem(ev, in.itemID)
}

// toggleExpansion collapses or expands id. Collapsing over the focused item
// moves focus to id.
func (tv *TreeView) toggleExpansion(ev event.Event, id string) {
	wasExpanded := tv.expansion.IsItemExpanded(id)
	tv.expansion.ToggleItemExpansion(ev, id)
	if wasExpanded && tv.view.IsDescendant(id, tv.focus.Focused()) {
		tv.focus.FocusItem(ev, id)
	}
}
