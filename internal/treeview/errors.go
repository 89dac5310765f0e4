package treeview

import (
	"errors"
	"fmt"

	"arbor-cli/internal/reorder"
)

var (
	ErrReorderingDisabled = errors.New("items reordering is disabled")
	ErrNotDraggable       = errors.New("item cannot be dragged")
)

// InvalidDropError reports a drop action the target does not accept.
type InvalidDropError struct {
	Action reorder.Action
	Valid  reorder.ActionSet
}

func (e *InvalidDropError) Error() string {
	return fmt.Sprintf("action %s is not valid here (valid: %s)", e.Action, e.Valid)
}
