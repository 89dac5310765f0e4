package cli

import (
	"errors"
	"fmt"

	"arbor-cli/internal/store"
)

type notFoundError struct {
	kind string
	id   string
}

func (e notFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.kind, e.id)
}

func errNotFound(kind, id string) error {
	return notFoundError{kind: kind, id: id}
}

// storeErr maps store sentinel errors onto CLI errors.
func storeErr(id string, err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("%w (%v)", errNotFound("item", id), err)
	}
	return err
}

func errInvalidAction(name string) error {
	return fmt.Errorf("unknown drop action %q (reorder-above|reorder-below|make-child|move-to-parent)", name)
}
