package treeview

import (
	"arbor-cli/internal/event"
	"arbor-cli/internal/model"
	"arbor-cli/internal/plugin"
	"arbor-cli/internal/reorder"
	"arbor-cli/internal/selection"
)

// PublicAPI is the handle host code uses to drive a tree view
// programmatically. Calls are attributed to an api event.
type PublicAPI struct {
	tv *TreeView
}

func (tv *TreeView) API() PublicAPI { return PublicAPI{tv: tv} }

var apiEvent = event.Event{Kind: event.KindAPI}

func (a PublicAPI) GetItem(id string) (model.Item, bool) { return a.tv.items.Item(id) }

func (a PublicAPI) GetItemOrderedChildrenIDs(parentID string) []string {
	return a.tv.items.ChildrenIDs(parentID)
}

func (a PublicAPI) IsItemSelected(id string) bool { return a.tv.selection.IsItemSelected(id) }

func (a PublicAPI) SelectedItems() selection.Model { return a.tv.selection.Model() }

// SelectItem selects, deselects or toggles (selected == nil) id.
func (a PublicAPI) SelectItem(id string, keepExisting bool, selected *bool) {
	a.tv.selection.SelectItem(apiEvent, selection.SelectParams{ItemID: id, KeepExisting: keepExisting, ShouldBeSelected: selected})
}

func (a PublicAPI) SetSelectedItems(m selection.Model) { a.tv.selection.SetSelectedItems(apiEvent, m) }

func (a PublicAPI) SelectAllNavigableItems() { a.tv.selection.SelectAllNavigableItems(apiEvent) }

func (a PublicAPI) ExpandSelectionRange(id string) { a.tv.selection.ExpandSelectionRange(apiEvent, id) }

func (a PublicAPI) SelectRangeFromStartToItem(id string) {
	a.tv.selection.SelectRangeFromStartToItem(apiEvent, id)
}

func (a PublicAPI) SelectRangeFromItemToEnd(id string) {
	a.tv.selection.SelectRangeFromItemToEnd(apiEvent, id)
}

func (a PublicAPI) SelectItemFromArrowNavigation(current, next string) {
	a.tv.selection.SelectItemFromArrowNavigation(apiEvent, current, next)
}

func (a PublicAPI) FocusItem(id string) { a.tv.focus.FocusItem(apiEvent, id) }

func (a PublicAPI) IsItemExpanded(id string) bool { return a.tv.expansion.IsItemExpanded(id) }

func (a PublicAPI) SetItemExpansion(id string, expanded bool) {
	if a.tv.expansion.IsItemExpanded(id) != expanded {
		a.tv.toggleExpansion(apiEvent, id)
	}
}

// UpdateItemLabel renames id. Without the label plugin it reports
// ErrNotEditable.
func (a PublicAPI) UpdateItemLabel(id, label string) error {
	if !a.tv.registry.Has(plugin.Label) {
		return ErrNotEditable
	}
	return a.tv.label.UpdateItemLabel(id, label)
}

func (a PublicAPI) CanItemBeDragged(id string) bool {
	return a.tv.reorder != nil && a.tv.reorder.CanItemBeDragged(id)
}

// Drop performs a whole drag of dragged onto target without pointer input:
// start, enter, resolve action, end. The action must be valid for target.
func (a PublicAPI) Drop(dragged, target string, action reorder.Action) (reorder.MoveParams, error) {
	tv := a.tv
	if tv.reorder == nil {
		return reorder.MoveParams{}, ErrReorderingDisabled
	}
	if !tv.HandleDragStart(event.Event{Kind: event.KindDragStart}, dragged, nil) {
		return reorder.MoveParams{}, ErrNotDraggable
	}
	defer tv.CancelDrag()

	tv.HandleDragEnter(event.Event{Kind: event.KindDragEnter}, target)
	valid, _ := tv.CachedValidActions(target)
	if !valid.Has(action) {
		return reorder.MoveParams{}, &InvalidDropError{Action: action, Valid: valid}
	}
	tv.reorder.SetDragTargetItem(reorder.TargetInput{ItemID: target, ValidActions: reorder.NewActionSet(action)})

	d, _ := tv.reorder.CurrentDrag()
	moved := reorder.MoveParams{ItemID: dragged}
	if m, ok := tv.view.ItemMeta(dragged); ok {
		moved.OldPosition = reorder.Position{ParentID: m.ParentID, Index: tv.view.ItemIndex(dragged)}
	}
	if d.NewPosition != nil {
		moved.NewPosition = *d.NewPosition
	}
	if err := tv.HandleDragEnd(event.Event{Kind: event.KindDragEnd}, dragged); err != nil {
		return reorder.MoveParams{}, err
	}
	return moved, nil
}
