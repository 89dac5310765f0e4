// Package reorder resolves drag-and-drop gestures over a tree into moves.
//
// The engine tracks one drag at a time. Hosts feed it geometry while the
// pointer moves over candidate targets; on drag end it commits at most one
// move through a Mover.
package reorder

import (
	"log/slog"

	"arbor-cli/internal/logging"
	"arbor-cli/internal/treeorder"
)

// Tree is the read side the engine consumes. *treeorder.View implements it.
type Tree interface {
	ItemMeta(id string) (treeorder.Meta, bool)
	ChildrenIDs(parentID string) []string
	ItemIndex(id string) int
	IsDescendant(ancestorID, id string) bool
	IsExpanded(id string) bool
}

// Mover applies a move as a single update. Readers must never observe the
// item detached from both its old and new parent.
type Mover interface {
	MoveItem(p MoveParams) error
}

type Config struct {
	Enabled bool

	// IsItemReorderable reports whether an item may be dragged. nil allows all.
	IsItemReorderable func(id string) bool
	// CanItemHaveChildren gates make-child drops. nil allows all.
	CanItemHaveChildren func(id string) bool
	// CanMoveItemToNewPosition vetoes individual destinations. nil allows all.
	CanMoveItemToNewPosition func(p MoveParams) bool
	// OnItemPositionChange fires after a move was committed.
	OnItemPositionChange func(p MoveParams)

	Logger *slog.Logger
}

type Drag struct {
	DraggedItemID string
	TargetItemID  string
	Action        Action
	NewPosition   *Position

	CursorX float64
	CursorY float64
}

func (d Drag) clone() Drag {
	if d.NewPosition != nil {
		p := *d.NewPosition
		d.NewPosition = &p
	}
	return d
}

// TargetInput is one pointer sample over a candidate target. Geometry is in
// host units relative to the target's content box.
type TargetInput struct {
	ItemID       string
	ValidActions ActionSet

	TargetHeight float64
	CursorX      float64
	CursorY      float64

	// ChildrenIndentation is the width of one nesting level. A cursor left of
	// it selects move-to-parent when that action is valid.
	ChildrenIndentation float64
}

type Engine struct {
	cfg   Config
	tree  Tree
	mover Mover
	log   *slog.Logger

	drag *Drag
}

func New(cfg Config, tree Tree, mover Mover) *Engine {
	return &Engine{
		cfg:   cfg,
		tree:  tree,
		mover: mover,
		log:   logging.OrDiscard(cfg.Logger).With("component", "reorder"),
	}
}

func (e *Engine) Enabled() bool { return e.cfg.Enabled }

func (e *Engine) CanItemBeDragged(id string) bool {
	if !e.cfg.Enabled {
		return false
	}
	if _, ok := e.tree.ItemMeta(id); !ok {
		return false
	}
	if e.cfg.IsItemReorderable != nil {
		return e.cfg.IsItemReorderable(id)
	}
	return true
}

// StartDraggingItem begins a drag. An active drag is replaced.
func (e *Engine) StartDraggingItem(id string) bool {
	if !e.CanItemBeDragged(id) {
		return false
	}
	e.drag = &Drag{DraggedItemID: id}
	e.log.Debug("drag started", "item", id)
	return true
}

// CurrentDrag returns a copy of the active drag state.
func (e *Engine) CurrentDrag() (Drag, bool) {
	if e.drag == nil {
		return Drag{}, false
	}
	return e.drag.clone(), true
}

func (e *Engine) positionOf(id string) (Position, bool) {
	m, ok := e.tree.ItemMeta(id)
	if !ok {
		return Position{}, false
	}
	return Position{ParentID: m.ParentID, Index: e.tree.ItemIndex(id)}, true
}

// candidates computes the destination each action would produce for the
// active drag over targetID. Actions that do not apply are absent.
func (e *Engine) candidates(targetID string) map[Action]Position {
	out := map[Action]Position{}
	if e.drag == nil {
		return out
	}
	dragged, ok := e.positionOf(e.drag.DraggedItemID)
	if !ok {
		return out
	}
	target, ok := e.tree.ItemMeta(targetID)
	if !ok {
		return out
	}
	targetIndex := e.tree.ItemIndex(targetID)

	// shift converts an index among the current children of parentID into the
	// coordinate system after the dragged item has been removed.
	shift := func(parentID string, idx int) int {
		if dragged.ParentID == parentID && dragged.Index < idx {
			return idx - 1
		}
		return idx
	}

	out[ActionReorderAbove] = Position{ParentID: target.ParentID, Index: shift(target.ParentID, targetIndex)}

	// Below an open parent is visually the first-child slot; make-child covers it.
	if !(e.tree.IsExpanded(targetID) && len(e.tree.ChildrenIDs(targetID)) > 0) {
		out[ActionReorderBelow] = Position{ParentID: target.ParentID, Index: shift(target.ParentID, targetIndex+1)}
	}

	if e.cfg.CanItemHaveChildren == nil || e.cfg.CanItemHaveChildren(targetID) {
		out[ActionMakeChild] = Position{ParentID: targetID, Index: 0}
	}

	if target.ParentID != "" {
		parent, ok := e.tree.ItemMeta(target.ParentID)
		if ok {
			idx := e.tree.ItemIndex(parent.ID) + 1
			out[ActionMoveToParent] = Position{ParentID: parent.ParentID, Index: shift(parent.ParentID, idx)}
		}
	}
	return out
}

// GetDroppingTargetValidActions returns the actions legal for dropping the
// dragged item on targetID. The dragged item and its descendants never
// accept a drop.
func (e *Engine) GetDroppingTargetValidActions(targetID string) ActionSet {
	if e.drag == nil {
		return 0
	}
	dragged := e.drag.DraggedItemID
	if targetID == dragged || e.tree.IsDescendant(dragged, targetID) {
		return 0
	}
	old, ok := e.positionOf(dragged)
	if !ok {
		return 0
	}

	var set ActionSet
	for action, pos := range e.candidates(targetID) {
		if e.cfg.CanMoveItemToNewPosition != nil &&
			!e.cfg.CanMoveItemToNewPosition(MoveParams{ItemID: dragged, OldPosition: old, NewPosition: pos}) {
			continue
		}
		set = set.With(action)
	}
	return set
}

// SetDragTargetItem resolves the action under the cursor and the position a
// drop would produce. Repeating the same input yields the same state. The
// dragged item and its descendants are never targets, whatever ValidActions
// says.
func (e *Engine) SetDragTargetItem(in TargetInput) {
	if e.drag == nil || in.ItemID == e.drag.DraggedItemID || e.tree.IsDescendant(e.drag.DraggedItemID, in.ItemID) {
		return
	}
	action := ChooseAction(in)

	var pos *Position
	if action != ActionNone {
		if p, ok := e.candidates(in.ItemID)[action]; ok {
			pos = &p
		} else {
			action = ActionNone
		}
	}

	e.drag.TargetItemID = in.ItemID
	e.drag.Action = action
	e.drag.NewPosition = pos
	e.drag.CursorX = in.CursorX
	e.drag.CursorY = in.CursorY
}

// ClearDragTarget forgets the hovered target, e.g. when the pointer leaves
// the tree. A drag ending afterwards commits nothing.
func (e *Engine) ClearDragTarget() {
	if e.drag == nil {
		return
	}
	e.drag = &Drag{DraggedItemID: e.drag.DraggedItemID}
}

// CancelDrag drops all drag state without committing.
func (e *Engine) CancelDrag() {
	if e.drag != nil {
		e.log.Debug("drag cancelled", "item", e.drag.DraggedItemID)
	}
	e.drag = nil
}

// StopDraggingItem ends the drag of id. When a target with an action was
// resolved the move is committed through the Mover and reported through
// OnItemPositionChange. Drag state is cleared either way. Only a Mover
// failure is returned.
func (e *Engine) StopDraggingItem(id string) error {
	d := e.drag
	if d == nil || d.DraggedItemID != id {
		return nil
	}
	e.drag = nil

	if d.TargetItemID == "" || d.TargetItemID == d.DraggedItemID || d.Action == ActionNone || d.NewPosition == nil {
		return nil
	}
	old, ok := e.positionOf(id)
	if !ok {
		return nil
	}
	p := MoveParams{ItemID: id, OldPosition: old, NewPosition: *d.NewPosition}
	if p.OldPosition == p.NewPosition {
		return nil
	}

	if e.mover != nil {
		if err := e.mover.MoveItem(p); err != nil {
			e.log.Warn("move failed", "item", id, "err", err)
			return err
		}
	}
	e.log.Debug("item moved", "item", id, "action", d.Action, "parent", p.NewPosition.ParentID, "index", p.NewPosition.Index)
	if e.cfg.OnItemPositionChange != nil {
		e.cfg.OnItemPositionChange(p)
	}
	return nil
}

// TargetDepth is the nesting depth of the drop indicator: 0 at the root
// level, otherwise one deeper than the destination parent.
func (e *Engine) TargetDepth() (int, bool) {
	if e.drag == nil || e.drag.Action == ActionNone || e.drag.NewPosition == nil {
		return 0, false
	}
	pid := e.drag.NewPosition.ParentID
	if pid == "" {
		return 0, true
	}
	m, ok := e.tree.ItemMeta(pid)
	if !ok {
		return 0, false
	}
	return m.Depth + 1, true
}

// ChooseAction maps a cursor position inside the target to one action.
//
// Left of the children indentation move-to-parent wins. Otherwise the top
// quarter prefers reorder-above, the bottom quarter reorder-below and the
// middle half make-child; when the preferred action is not valid the nearest
// valid one is used. No action is returned only for an empty set.
func ChooseAction(in TargetInput) Action {
	valid := in.ValidActions
	if valid.Empty() {
		return ActionNone
	}
	if valid.Has(ActionMoveToParent) && in.CursorX < in.ChildrenIndentation {
		return ActionMoveToParent
	}

	h, y := in.TargetHeight, in.CursorY
	var prefs []Action
	switch {
	case h > 0 && y < h/4:
		prefs = []Action{ActionReorderAbove, ActionMakeChild, ActionReorderBelow}
	case h > 0 && y > 3*h/4:
		prefs = []Action{ActionReorderBelow, ActionMakeChild, ActionReorderAbove}
	case h > 0 && y < h/2:
		prefs = []Action{ActionMakeChild, ActionReorderAbove, ActionReorderBelow}
	default:
		prefs = []Action{ActionMakeChild, ActionReorderBelow, ActionReorderAbove}
	}
	prefs = append(prefs, ActionMoveToParent)
	for _, a := range prefs {
		if valid.Has(a) {
			return a
		}
	}
	return ActionNone
}
