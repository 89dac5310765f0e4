package selection

// Tree is the traversal capability the engine consumes.
// *treeorder.View implements it.
type Tree interface {
	ParentOf(id string) (string, bool)
	ChildrenIDs(parentID string) []string
	IsItemDisabled(id string) bool

	AllNavigable() []string
	FirstNavigable() string
	LastNavigable() string
	FindOrderInTremauxTree(a, b string) (string, string)
	NonDisabledItemsInRange(a, b string) []string
}

type Propagation struct {
	Descendants bool
	Parents     bool
}

func (p Propagation) any() bool { return p.Descendants || p.Parents }

type changes struct {
	added   []string
	removed []string
}

func diff(oldIDs, newIDs []string) changes {
	oldSet := make(map[string]bool, len(oldIDs))
	for _, id := range oldIDs {
		oldSet[id] = true
	}
	newSet := make(map[string]bool, len(newIDs))
	for _, id := range newIDs {
		newSet[id] = true
	}
	var c changes
	for _, id := range newIDs {
		if !oldSet[id] {
			c.added = append(c.added, id)
		}
	}
	for _, id := range oldIDs {
		if !newSet[id] {
			c.removed = append(c.removed, id)
		}
	}
	return c
}

func contains(ids []string, id string) bool {
	for _, x := range ids {
		if x == id {
			return true
		}
	}
	return false
}

// propagate extends a multi-select change to descendants and/or ancestors.
//
// Items in extra are propagated from even when their membership did not
// change, so re-checking an indeterminate parent still selects its subtree.
// Disabled items are never selected by propagation and do not block a parent
// from becoming selected.
func propagate(tree Tree, p Propagation, oldIDs, newIDs, extra []string) []string {
	if !p.any() {
		return newIDs
	}

	selected := make(map[string]bool, len(newIDs))
	for _, id := range newIDs {
		selected[id] = true
	}
	// appended keeps insertion order for ids that propagation adds.
	var appended []string
	dirty := false
	add := func(id string) {
		if selected[id] {
			return
		}
		selected[id] = true
		appended = append(appended, id)
		dirty = true
	}
	drop := func(id string) {
		if !selected[id] {
			return
		}
		delete(selected, id)
		dirty = true
	}

	c := diff(oldIDs, newIDs)
	for _, id := range extra {
		if selected[id] {
			if !contains(c.added, id) {
				c.added = append(c.added, id)
			}
		} else if !contains(c.removed, id) {
			c.removed = append(c.removed, id)
		}
	}

	for _, root := range c.added {
		if p.Descendants {
			var down func(id string)
			down = func(id string) {
				for _, child := range tree.ChildrenIDs(id) {
					if tree.IsItemDisabled(child) {
						continue
					}
					add(child)
					down(child)
				}
			}
			down(root)
		}
		if p.Parents {
			cur := root
			for {
				parent, ok := tree.ParentOf(cur)
				if !ok || parent == "" {
					break
				}
				full := true
				// Only direct children count; grandchildren have their own parent.
				for _, sib := range tree.ChildrenIDs(parent) {
					if !tree.IsItemDisabled(sib) && !selected[sib] {
						full = false
						break
					}
				}
				if !full || tree.IsItemDisabled(parent) {
					break
				}
				add(parent)
				cur = parent
			}
		}
	}

	for _, root := range c.removed {
		if p.Parents {
			cur := root
			for {
				parent, ok := tree.ParentOf(cur)
				if !ok || parent == "" {
					break
				}
				drop(parent)
				cur = parent
			}
		}
		if p.Descendants {
			var down func(id string)
			down = func(id string) {
				for _, child := range tree.ChildrenIDs(id) {
					drop(child)
					down(child)
				}
			}
			down(root)
		}
	}

	if !dirty {
		return newIDs
	}
	out := make([]string, 0, len(selected))
	emitted := make(map[string]bool, len(selected))
	for _, ids := range [][]string{newIDs, appended} {
		for _, id := range ids {
			if selected[id] && !emitted[id] {
				emitted[id] = true
				out = append(out, id)
			}
		}
	}
	return out
}
