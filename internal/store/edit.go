package store

import (
	"errors"
	"fmt"
	"strings"

	"arbor-cli/internal/model"
)

var ErrEmptyLabel = errors.New("label must not be empty")

// commit persists next, swaps it into memory and logs one event.
func (w *Workspace) commit(next []model.Item, typ, entityID string, payload any) error {
	staged := &DB{Version: w.DB.Version, Items: next}
	if err := w.Store.Save(staged); err != nil {
		return fmt.Errorf("save: %w", err)
	}
	w.DB.SetItems(next)
	if err := w.Store.AppendEvent(typ, entityID, payload); err != nil {
		return fmt.Errorf("append event: %w", err)
	}
	return nil
}

// update applies fn to a copy of the item and commits the result.
func (w *Workspace) update(id, typ string, payload any, fn func(it *model.Item) error) error {
	id = strings.TrimSpace(id)
	if _, ok := w.DB.FindItem(id); !ok {
		return fmt.Errorf("item %q: %w", id, ErrNotFound)
	}
	next := w.DB.Clone().Items
	for i := range next {
		if next[i].ID != id {
			continue
		}
		if err := fn(&next[i]); err != nil {
			return err
		}
		next[i].UpdatedAt = w.now()
	}
	return w.commit(next, typ, id, payload)
}

// AddItem appends a new item as the last child of parentID ("" for root).
func (w *Workspace) AddItem(label, parentID string, disabled bool) (model.Item, error) {
	label = strings.TrimSpace(label)
	if label == "" {
		return model.Item{}, ErrEmptyLabel
	}
	parentID = strings.TrimSpace(parentID)
	var pid *string
	if parentID != "" {
		parent, ok := w.DB.FindItem(parentID)
		if !ok {
			return model.Item{}, fmt.Errorf("parent %q: %w", parentID, ErrNotFound)
		}
		if parent.Leaf {
			return model.Item{}, fmt.Errorf("parent %q: %w", parentID, ErrLeafParent)
		}
		pid = &parentID
	}

	last := ""
	if sibs := w.DB.ChildrenOf(parentID); len(sibs) > 0 {
		last = sibs[len(sibs)-1].Rank
	}
	rank, err := RankAfter(last)
	if err != nil {
		return model.Item{}, fmt.Errorf("rank: %w", err)
	}

	now := w.now()
	it := model.Item{
		ID:        w.DB.NextID(),
		ParentID:  pid,
		Rank:      rank,
		Label:     label,
		Disabled:  disabled,
		CreatedAt: now,
		UpdatedAt: now,
	}
	next := append(w.DB.Clone().Items, it)
	if err := w.commit(next, "item.create", it.ID, it); err != nil {
		return model.Item{}, err
	}
	return it, nil
}

func (w *Workspace) RenameItem(id, label string) error {
	label = strings.TrimSpace(label)
	if label == "" {
		return ErrEmptyLabel
	}
	return w.update(id, "item.rename", map[string]string{"label": label}, func(it *model.Item) error {
		it.Label = label
		return nil
	})
}

func (w *Workspace) SetDisabled(id string, disabled bool) error {
	return w.update(id, "item.set_disabled", map[string]bool{"disabled": disabled}, func(it *model.Item) error {
		it.Disabled = disabled
		return nil
	})
}

func (w *Workspace) SetLocked(id string, locked bool) error {
	return w.update(id, "item.set_locked", map[string]bool{"locked": locked}, func(it *model.Item) error {
		it.Locked = locked
		return nil
	})
}

// DeleteItem removes an item and its whole subtree.
func (w *Workspace) DeleteItem(id string) (int, error) {
	id = strings.TrimSpace(id)
	if _, ok := w.DB.FindItem(id); !ok {
		return 0, fmt.Errorf("item %q: %w", id, ErrNotFound)
	}
	drop := map[string]bool{id: true}
	for _, it := range w.DB.Items {
		if w.DB.IsAncestor(id, it.ID) {
			drop[it.ID] = true
		}
	}
	next := make([]model.Item, 0, len(w.DB.Items)-len(drop))
	for _, it := range w.DB.Items {
		if !drop[it.ID] {
			next = append(next, it)
		}
	}
	if err := w.commit(next, "item.delete", id, map[string]int{"removed": len(drop)}); err != nil {
		return 0, err
	}
	return len(drop), nil
}
