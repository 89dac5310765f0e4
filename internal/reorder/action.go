package reorder

import "strings"

type Action string

const (
	ActionNone         Action = ""
	ActionReorderAbove Action = "reorder-above"
	ActionReorderBelow Action = "reorder-below"
	ActionMakeChild    Action = "make-child"
	ActionMoveToParent Action = "move-to-parent"
)

var allActions = []Action{ActionReorderAbove, ActionReorderBelow, ActionMakeChild, ActionMoveToParent}

func ParseAction(s string) (Action, bool) {
	switch Action(strings.ToLower(strings.TrimSpace(s))) {
	case ActionReorderAbove, "above", "before":
		return ActionReorderAbove, true
	case ActionReorderBelow, "below", "after":
		return ActionReorderBelow, true
	case ActionMakeChild, "child", "into":
		return ActionMakeChild, true
	case ActionMoveToParent, "parent", "outdent":
		return ActionMoveToParent, true
	}
	return ActionNone, false
}

func (a Action) bit() ActionSet {
	for i, x := range allActions {
		if x == a {
			return 1 << i
		}
	}
	return 0
}

// ActionSet is the set of drop actions legal for one dragged/target pair.
type ActionSet uint8

func NewActionSet(actions ...Action) ActionSet {
	var s ActionSet
	for _, a := range actions {
		s = s.With(a)
	}
	return s
}

func (s ActionSet) Has(a Action) bool       { return a != ActionNone && s&a.bit() != 0 }
func (s ActionSet) With(a Action) ActionSet { return s | a.bit() }
func (s ActionSet) Empty() bool             { return s == 0 }

func (s ActionSet) Actions() []Action {
	var out []Action
	for _, a := range allActions {
		if s.Has(a) {
			out = append(out, a)
		}
	}
	return out
}

func (s ActionSet) String() string {
	parts := make([]string, 0, 4)
	for _, a := range s.Actions() {
		parts = append(parts, string(a))
	}
	return "{" + strings.Join(parts, ",") + "}"
}

// Position is a destination slot: the parent ("" for the root level) and the
// index among its children after the dragged item has been removed.
type Position struct {
	ParentID string `json:"parentId"`
	Index    int    `json:"index"`
}

type MoveParams struct {
	ItemID      string   `json:"itemId"`
	OldPosition Position `json:"oldPosition"`
	NewPosition Position `json:"newPosition"`
}
