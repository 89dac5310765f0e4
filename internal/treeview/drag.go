package treeview

import (
	"arbor-cli/internal/event"
	"arbor-cli/internal/reorder"
)

// Geometry is one pointer sample relative to a target's content box, in
// host units.
type Geometry struct {
	Height float64
	X      float64
	Y      float64
	// Indent is the width of one nesting level.
	Indent float64
}

// HandleDragStart fills payload and starts dragging id. It reports whether a
// drag is now active.
func (tv *TreeView) HandleDragStart(ev event.Event, id string, payload *reorder.Payload) bool {
	if tv.reorder == nil || !tv.reorder.CanItemBeDragged(id) {
		return false
	}
	if tv.handled(ev) {
		return false
	}
	if payload != nil {
		reorder.PrepareDragPayload(payload, tv.opts.Platform, id)
	}
	clear(tv.validActions)
	return tv.reorder.StartDraggingItem(id)
}

// isDropCandidate reports whether id can receive drag-over events: a drag is
// active and id is not the dragged item.
func (tv *TreeView) isDropCandidate(id string) bool {
	if tv.reorder == nil {
		return false
	}
	d, ok := tv.reorder.CurrentDrag()
	return ok && d.DraggedItemID != id
}

// HandleDragEnter computes and caches the valid actions for id. Later
// drag-over samples on id reuse the cached set.
func (tv *TreeView) HandleDragEnter(ev event.Event, id string) {
	if !tv.isDropCandidate(id) || tv.handled(ev) {
		return
	}
	tv.validActions[id] = tv.reorder.GetDroppingTargetValidActions(id)
}

// HandleDragOver resolves the action under the pointer. Samples for an item
// that was never entered are ignored.
func (tv *TreeView) HandleDragOver(ev event.Event, id string, g Geometry) {
	if !tv.isDropCandidate(id) || tv.handled(ev) {
		return
	}
	valid, ok := tv.validActions[id]
	if !ok {
		return
	}
	tv.reorder.SetDragTargetItem(reorder.TargetInput{
		ItemID:              id,
		ValidActions:        valid,
		TargetHeight:        g.Height,
		CursorX:             g.X,
		CursorY:             g.Y,
		ChildrenIndentation: g.Indent,
	})
}

// HandleDragLeave is called when the pointer leaves the tree. The drag stays
// active but has no target.
func (tv *TreeView) HandleDragLeave(ev event.Event) {
	if tv.reorder == nil || tv.handled(ev) {
		return
	}
	tv.reorder.ClearDragTarget()
}

// HandleDragEnd ends the drag of id and commits the resolved drop, if any.
func (tv *TreeView) HandleDragEnd(ev event.Event, id string) error {
	if tv.reorder == nil || tv.handled(ev) {
		return nil
	}
	clear(tv.validActions)
	return tv.reorder.StopDraggingItem(id)
}

// CancelDrag abandons the active drag without moving anything.
func (tv *TreeView) CancelDrag() {
	if tv.reorder == nil {
		return
	}
	clear(tv.validActions)
	tv.reorder.CancelDrag()
}

// CachedValidActions returns the set cached on drag enter of id.
func (tv *TreeView) CachedValidActions(id string) (reorder.ActionSet, bool) {
	s, ok := tv.validActions[id]
	return s, ok
}
