package store

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"arbor-cli/internal/model"
	"arbor-cli/internal/reorder"
)

var (
	ErrCycle      = errors.New("cannot move an item into its own subtree")
	ErrLeafParent = errors.New("target item does not accept children")
)

// PlanMove computes the item slice after moving p.ItemID to p.NewPosition.
// db is not modified. The index counts siblings after the moved item has been
// taken out of its current parent.
func (db *DB) PlanMove(p reorder.MoveParams, now time.Time) ([]model.Item, error) {
	id := strings.TrimSpace(p.ItemID)
	it, ok := db.FindItem(id)
	if !ok {
		return nil, fmt.Errorf("item %q: %w", id, ErrNotFound)
	}
	parentID := strings.TrimSpace(p.NewPosition.ParentID)
	if parentID != "" {
		parent, ok := db.FindItem(parentID)
		if !ok {
			return nil, fmt.Errorf("parent %q: %w", parentID, ErrNotFound)
		}
		if parentID == id || db.IsAncestor(id, parentID) {
			return nil, ErrCycle
		}
		if parent.Leaf {
			return nil, fmt.Errorf("parent %q: %w", parentID, ErrLeafParent)
		}
	}

	moved := *it
	if parentID == "" {
		moved.ParentID = nil
	} else {
		pid := parentID
		moved.ParentID = &pid
	}

	sibs := make([]model.Item, 0, len(db.ChildrenOf(parentID))+1)
	for _, s := range db.ChildrenOf(parentID) {
		if s.ID != id {
			sibs = append(sibs, s)
		}
	}
	sibs = append(sibs, moved)

	plan, err := PlanRanks(sibs, id, p.NewPosition.Index)
	if err != nil {
		return nil, fmt.Errorf("plan ranks: %w", err)
	}

	next := make([]model.Item, len(db.Items))
	copy(next, db.Items)
	for i := range next {
		if next[i].ID == id {
			next[i].ParentID = moved.ParentID
			next[i].UpdatedAt = now
		}
		if r, ok := plan.RankByID[next[i].ID]; ok {
			next[i].Rank = r
			next[i].UpdatedAt = now
		}
	}
	return next, nil
}

// MoveItem applies a move to the in-memory DB in a single swap.
func (db *DB) MoveItem(p reorder.MoveParams) error {
	next, err := db.PlanMove(p, time.Now().UTC())
	if err != nil {
		return err
	}
	db.SetItems(next)
	return nil
}

// Workspace pairs a loaded DB with its Store so that moves persist before
// they become visible in memory.
type Workspace struct {
	Store Store
	DB    *DB
	Now   func() time.Time
}

func (w *Workspace) now() time.Time {
	if w.Now != nil {
		return w.Now()
	}
	return time.Now().UTC()
}

// MoveItem implements reorder.Mover.
func (w *Workspace) MoveItem(p reorder.MoveParams) error {
	next, err := w.DB.PlanMove(p, w.now())
	if err != nil {
		return err
	}
	return w.commit(next, "item.move", p.ItemID, p)
}

// Reload replaces the in-memory DB with the persisted state.
func (w *Workspace) Reload() error {
	db, err := w.Store.Load()
	if err != nil {
		return err
	}
	w.DB.Version = db.Version
	w.DB.SetItems(db.Items)
	return nil
}
