package treeorder

// Node describes a subtree for NewStatic.
type Node struct {
	ID       string
	Disabled bool
	Children []Node
}

// Static is an immutable in-memory Source.
type Static struct {
	metas map[string]Meta
	kids  map[string][]string
}

func NewStatic(roots ...Node) *Static {
	s := &Static{metas: map[string]Meta{}, kids: map[string][]string{}}
	var add func(parentID string, depth int, nodes []Node)
	add = func(parentID string, depth int, nodes []Node) {
		for _, n := range nodes {
			s.metas[n.ID] = Meta{
				ID:         n.ID,
				ParentID:   parentID,
				Depth:      depth,
				Disabled:   n.Disabled,
				Expandable: len(n.Children) > 0,
			}
			s.kids[parentID] = append(s.kids[parentID], n.ID)
			add(n.ID, depth+1, n.Children)
		}
	}
	add("", 0, roots)
	return s
}

func (s *Static) ItemMeta(id string) (Meta, bool) {
	m, ok := s.metas[id]
	return m, ok
}

func (s *Static) ChildrenIDs(parentID string) []string {
	return s.kids[parentID]
}

// ExpandAll returns an expansion predicate that reports every item expanded.
func ExpandAll(string) bool { return true }

// ExpandedSet returns an expansion predicate backed by the given ids.
func ExpandedSet(ids ...string) func(string) bool {
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return func(id string) bool { return set[id] }
}
