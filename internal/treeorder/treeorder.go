// Package treeorder computes traversal orders over an item hierarchy.
//
// Everything here is read-only: callers supply a Source (item metadata and
// ordered children) plus the current expansion state, and get back navigable
// sequences and ordering comparisons. Unknown ids never panic; they are
// treated as not navigable.
package treeorder

type Meta struct {
	ID       string
	ParentID string // "" for root items
	Depth    int

	Disabled   bool
	Expandable bool
}

type Source interface {
	ItemMeta(id string) (Meta, bool)
	// ChildrenIDs returns ordered child ids. parentID "" is the root level.
	ChildrenIDs(parentID string) []string
}

type View struct {
	Source   Source
	Expanded func(id string) bool

	DisabledItemsFocusable bool
}

func (v *View) meta(id string) (Meta, bool) {
	if v == nil || v.Source == nil || id == "" {
		return Meta{}, false
	}
	return v.Source.ItemMeta(id)
}

func (v *View) children(parentID string) []string {
	if v == nil || v.Source == nil {
		return nil
	}
	return v.Source.ChildrenIDs(parentID)
}

func (v *View) ItemMeta(id string) (Meta, bool) { return v.meta(id) }

func (v *View) ChildrenIDs(parentID string) []string { return v.children(parentID) }

// ParentOf returns the parent id of id ("" at the root level).
func (v *View) ParentOf(id string) (string, bool) {
	m, ok := v.meta(id)
	return m.ParentID, ok
}

func (v *View) IsExpanded(id string) bool {
	if v == nil || v.Expanded == nil {
		return false
	}
	return v.Expanded(id)
}

// IsItemDisabled reports whether id or any of its ancestors is disabled.
// Unknown ids count as disabled.
func (v *View) IsItemDisabled(id string) bool {
	m, ok := v.meta(id)
	if !ok {
		return true
	}
	for {
		if m.Disabled {
			return true
		}
		if m.ParentID == "" {
			return false
		}
		m, ok = v.meta(m.ParentID)
		if !ok {
			return true
		}
	}
}

// isVisible reports whether every ancestor of id is expanded.
func (v *View) isVisible(id string) bool {
	m, ok := v.meta(id)
	if !ok {
		return false
	}
	for m.ParentID != "" {
		if !v.IsExpanded(m.ParentID) {
			return false
		}
		m, ok = v.meta(m.ParentID)
		if !ok {
			return false
		}
	}
	return true
}

// focusable ignores visibility: it is the per-item half of IsNavigable.
func (v *View) focusable(id string) bool {
	if _, ok := v.meta(id); !ok {
		return false
	}
	return v.DisabledItemsFocusable || !v.IsItemDisabled(id)
}

func (v *View) IsNavigable(id string) bool {
	return v.focusable(id) && v.isVisible(id)
}

// AllNavigable returns every navigable item in depth-first pre-order.
// Collapsed subtrees are skipped, as are subtrees under a non-focusable item.
func (v *View) AllNavigable() []string {
	var out []string
	var walk func(parentID string)
	walk = func(parentID string) {
		for _, id := range v.children(parentID) {
			if !v.focusable(id) {
				continue
			}
			out = append(out, id)
			if v.IsExpanded(id) {
				walk(id)
			}
		}
	}
	walk("")
	return out
}

func (v *View) FirstNavigable() string {
	for _, id := range v.children("") {
		if v.focusable(id) {
			return id
		}
	}
	return ""
}

func (v *View) LastNavigable() string {
	last := ""
	siblings := v.children("")
	for {
		found := ""
		for i := len(siblings) - 1; i >= 0; i-- {
			if v.focusable(siblings[i]) {
				found = siblings[i]
				break
			}
		}
		if found == "" {
			return last
		}
		last = found
		if !v.IsExpanded(found) {
			return last
		}
		siblings = v.children(found)
	}
}

// NextNavigable returns the navigable item after id, or "" at the end.
func (v *View) NextNavigable(id string) string {
	if v.IsExpanded(id) {
		for _, c := range v.children(id) {
			if v.focusable(c) {
				return c
			}
		}
	}
	m, ok := v.meta(id)
	for ok {
		siblings := v.children(m.ParentID)
		idx := indexOf(siblings, m.ID)
		for i := idx + 1; idx >= 0 && i < len(siblings); i++ {
			if v.focusable(siblings[i]) {
				return siblings[i]
			}
		}
		m, ok = v.meta(m.ParentID)
	}
	return ""
}

// PrevNavigable returns the navigable item before id, or "" at the start.
func (v *View) PrevNavigable(id string) string {
	m, ok := v.meta(id)
	if !ok {
		return ""
	}
	siblings := v.children(m.ParentID)
	idx := indexOf(siblings, id)
	prev := ""
	for i := idx - 1; i >= 0; i-- {
		if v.focusable(siblings[i]) {
			prev = siblings[i]
			break
		}
	}
	if prev == "" {
		return m.ParentID
	}
	for v.IsExpanded(prev) {
		kids := v.children(prev)
		next := ""
		for i := len(kids) - 1; i >= 0; i-- {
			if v.focusable(kids[i]) {
				next = kids[i]
				break
			}
		}
		if next == "" {
			break
		}
		prev = next
	}
	return prev
}

// Ancestors returns the ancestors of id, nearest first.
func (v *View) Ancestors(id string) []string {
	var out []string
	m, ok := v.meta(id)
	seen := map[string]bool{id: true}
	for ok && m.ParentID != "" {
		if seen[m.ParentID] {
			break
		}
		seen[m.ParentID] = true
		out = append(out, m.ParentID)
		m, ok = v.meta(m.ParentID)
	}
	return out
}

// IsDescendant reports whether id lies strictly below ancestorID.
func (v *View) IsDescendant(ancestorID, id string) bool {
	if ancestorID == "" || id == "" || ancestorID == id {
		return false
	}
	for _, a := range v.Ancestors(id) {
		if a == ancestorID {
			return true
		}
	}
	return false
}

// Descendants returns every item below id in pre-order, ignoring expansion.
func (v *View) Descendants(id string) []string {
	var out []string
	var walk func(parentID string)
	walk = func(parentID string) {
		for _, c := range v.children(parentID) {
			out = append(out, c)
			walk(c)
		}
	}
	walk(id)
	return out
}

// ItemIndex returns the position of id among its siblings, or -1.
func (v *View) ItemIndex(id string) int {
	m, ok := v.meta(id)
	if !ok {
		return -1
	}
	return indexOf(v.children(m.ParentID), id)
}

// FindOrderInTremauxTree returns a and b ordered by depth-first pre-order.
// It does not depend on expansion state. Unknown ids keep their input order.
func (v *View) FindOrderInTremauxTree(a, b string) (first, second string) {
	if a == b {
		return a, b
	}
	pa := v.path(a)
	pb := v.path(b)
	if pa == nil || pb == nil {
		return a, b
	}
	i := 0
	for i < len(pa) && i < len(pb) && pa[i] == pb[i] {
		i++
	}
	switch {
	case i == len(pa):
		// a is an ancestor of b
		return a, b
	case i == len(pb):
		return b, a
	}
	if v.ItemIndex(pa[i]) <= v.ItemIndex(pb[i]) {
		return a, b
	}
	return b, a
}

// path returns the root-first chain ending at id, or nil for unknown ids.
func (v *View) path(id string) []string {
	if _, ok := v.meta(id); !ok {
		return nil
	}
	anc := v.Ancestors(id)
	out := make([]string, 0, len(anc)+1)
	for i := len(anc) - 1; i >= 0; i-- {
		out = append(out, anc[i])
	}
	return append(out, id)
}

// nextVisible walks pre-order over visible items, ignoring disabled state.
func (v *View) nextVisible(id string) string {
	if v.IsExpanded(id) {
		if kids := v.children(id); len(kids) > 0 {
			return kids[0]
		}
	}
	m, ok := v.meta(id)
	for ok {
		siblings := v.children(m.ParentID)
		idx := indexOf(siblings, m.ID)
		if idx >= 0 && idx < len(siblings)-1 {
			return siblings[idx+1]
		}
		m, ok = v.meta(m.ParentID)
	}
	return ""
}

// visibleRow returns id, or the outermost collapsed ancestor when id is
// hidden inside a collapsed subtree.
func (v *View) visibleRow(id string) string {
	path := v.path(id)
	for _, p := range path[:max(len(path)-1, 0)] {
		if !v.IsExpanded(p) {
			return p
		}
	}
	return id
}

// NonDisabledItemsInRange returns the non-disabled visible items between a and
// b inclusive, in traversal order. Either endpoint may be given first. A hidden
// endpoint stands for the collapsed ancestor that contains it.
func (v *View) NonDisabledItemsInRange(a, b string) []string {
	if _, ok := v.meta(a); !ok {
		return nil
	}
	if _, ok := v.meta(b); !ok {
		return nil
	}
	first, last := v.FindOrderInTremauxTree(v.visibleRow(a), v.visibleRow(b))
	var out []string
	cur := first
	for cur != "" {
		if !v.IsItemDisabled(cur) {
			out = append(out, cur)
		}
		if cur == last {
			break
		}
		cur = v.nextVisible(cur)
	}
	return out
}

func indexOf(ids []string, id string) int {
	for i, x := range ids {
		if x == id {
			return i
		}
	}
	return -1
}
