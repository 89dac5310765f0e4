package reorder

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"arbor-cli/internal/treeorder"
)

// memTree is a mutable Source whose MoveItem swaps in a fully built state.
type memTree struct {
	state *memState
	moves []MoveParams
}

type memState struct {
	parent map[string]string
	kids   map[string][]string
}

func newMemTree(pairs ...[2]string) *memTree {
	st := &memState{parent: map[string]string{}, kids: map[string][]string{}}
	for _, p := range pairs {
		st.parent[p[1]] = p[0]
		st.kids[p[0]] = append(st.kids[p[0]], p[1])
	}
	return &memTree{state: st}
}

func (m *memTree) ItemMeta(id string) (treeorder.Meta, bool) {
	pid, ok := m.state.parent[id]
	if !ok {
		return treeorder.Meta{}, false
	}
	depth := 0
	for p := pid; p != ""; p = m.state.parent[p] {
		depth++
	}
	return treeorder.Meta{ID: id, ParentID: pid, Depth: depth, Expandable: len(m.state.kids[id]) > 0}, true
}

func (m *memTree) ChildrenIDs(parentID string) []string { return m.state.kids[parentID] }

func (m *memTree) MoveItem(p MoveParams) error {
	next := &memState{parent: map[string]string{}, kids: map[string][]string{}}
	for k, v := range m.state.parent {
		next.parent[k] = v
	}
	for k, v := range m.state.kids {
		for _, id := range v {
			if id != p.ItemID {
				next.kids[k] = append(next.kids[k], id)
			}
		}
	}
	dst := next.kids[p.NewPosition.ParentID]
	idx := p.NewPosition.Index
	dst = append(dst[:idx:idx], append([]string{p.ItemID}, dst[idx:]...)...)
	next.kids[p.NewPosition.ParentID] = dst
	next.parent[p.ItemID] = p.NewPosition.ParentID
	m.state = next
	m.moves = append(m.moves, p)
	return nil
}

// A
// ├── B
// ├── C
// └── D
//     └── D1
// E
func sample() (*memTree, *treeorder.View) {
	mt := newMemTree(
		[2]string{"", "A"}, [2]string{"A", "B"}, [2]string{"A", "C"},
		[2]string{"A", "D"}, [2]string{"D", "D1"}, [2]string{"", "E"},
	)
	return mt, &treeorder.View{Source: mt, Expanded: treeorder.ExpandAll}
}

func TestCanItemBeDragged(t *testing.T) {
	mt, v := sample()
	e := New(Config{}, v, mt)
	assert.False(t, e.CanItemBeDragged("B"), "reordering disabled")

	e = New(Config{Enabled: true, IsItemReorderable: func(id string) bool { return id != "C" }}, v, mt)
	assert.True(t, e.CanItemBeDragged("B"))
	assert.False(t, e.CanItemBeDragged("C"))
	assert.False(t, e.CanItemBeDragged("ghost"))
	assert.False(t, e.StartDraggingItem("C"))
	_, ok := e.CurrentDrag()
	assert.False(t, ok)
}

func TestValidActions_CyclePrevention(t *testing.T) {
	mt, v := sample()
	e := New(Config{Enabled: true}, v, mt)
	require.True(t, e.StartDraggingItem("A"))
	for _, id := range []string{"A", "B", "C", "D", "D1"} {
		assert.True(t, e.GetDroppingTargetValidActions(id).Empty(), id)
	}
	assert.False(t, e.GetDroppingTargetValidActions("E").Empty())
}

func TestValidActions_PerTarget(t *testing.T) {
	mt, v := sample()
	e := New(Config{Enabled: true}, v, mt)
	require.True(t, e.StartDraggingItem("B"))

	// Root-level E has no parent to move next to.
	assert.Equal(t, NewActionSet(ActionReorderAbove, ActionReorderBelow, ActionMakeChild), e.GetDroppingTargetValidActions("E"))
	// D is expanded with children: no reorder-below.
	assert.Equal(t, NewActionSet(ActionReorderAbove, ActionMakeChild, ActionMoveToParent), e.GetDroppingTargetValidActions("D"))

	e = New(Config{Enabled: true, CanItemHaveChildren: func(id string) bool { return id != "C" }}, v, mt)
	e.StartDraggingItem("B")
	assert.False(t, e.GetDroppingTargetValidActions("C").Has(ActionMakeChild))
}

func TestValidActions_CanMoveItemToNewPositionVeto(t *testing.T) {
	mt, v := sample()
	var seen []MoveParams
	e := New(Config{Enabled: true, CanMoveItemToNewPosition: func(p MoveParams) bool {
		seen = append(seen, p)
		return p.NewPosition.ParentID != ""
	}}, v, mt)
	e.StartDraggingItem("B")
	got := e.GetDroppingTargetValidActions("E")
	assert.Equal(t, NewActionSet(ActionMakeChild), got)
	require.NotEmpty(t, seen)
	assert.Equal(t, Position{ParentID: "A", Index: 0}, seen[0].OldPosition)
}

func TestSetDragTargetItem_ZonesAndPositions(t *testing.T) {
	mt, v := sample()
	e := New(Config{Enabled: true}, v, mt)
	e.StartDraggingItem("B")
	valid := e.GetDroppingTargetValidActions("C")

	cases := []struct {
		y      float64
		x      float64
		action Action
		pos    Position
	}{
		{y: 0.5, x: 10, action: ActionReorderAbove, pos: Position{"A", 0}},
		{y: 3.5, x: 10, action: ActionReorderBelow, pos: Position{"A", 1}},
		{y: 2, x: 10, action: ActionMakeChild, pos: Position{"C", 0}},
		{y: 2, x: 1, action: ActionMoveToParent, pos: Position{"", 1}},
	}
	for _, tc := range cases {
		in := TargetInput{ItemID: "C", ValidActions: valid, TargetHeight: 4, CursorX: tc.x, CursorY: tc.y, ChildrenIndentation: 2}
		e.SetDragTargetItem(in)
		d, ok := e.CurrentDrag()
		require.True(t, ok)
		assert.Equal(t, "C", d.TargetItemID)
		assert.Equal(t, tc.action, d.Action, "y=%v x=%v", tc.y, tc.x)
		require.NotNil(t, d.NewPosition)
		assert.Equal(t, tc.pos, *d.NewPosition, "y=%v x=%v", tc.y, tc.x)

		// Idempotent for identical input.
		e.SetDragTargetItem(in)
		d2, _ := e.CurrentDrag()
		assert.Equal(t, d, d2)
	}
}

func TestSetDragTargetItem_IgnoresDraggedItemAndNoDrag(t *testing.T) {
	mt, v := sample()
	e := New(Config{Enabled: true}, v, mt)
	e.SetDragTargetItem(TargetInput{ItemID: "C", ValidActions: NewActionSet(ActionMakeChild)})
	_, ok := e.CurrentDrag()
	assert.False(t, ok)

	e.StartDraggingItem("B")
	e.SetDragTargetItem(TargetInput{ItemID: "B", ValidActions: NewActionSet(ActionMakeChild)})
	d, _ := e.CurrentDrag()
	assert.Equal(t, "", d.TargetItemID)
}

func TestSetDragTargetItem_IgnoresDescendantsOfDraggedItem(t *testing.T) {
	mt, v := sample()
	e := New(Config{Enabled: true}, v, mt)
	require.True(t, e.StartDraggingItem("A"))

	// A stale action set for D1 must not record a move of A into its own subtree.
	e.SetDragTargetItem(TargetInput{ItemID: "D1", ValidActions: NewActionSet(ActionMakeChild), TargetHeight: 4, CursorX: 10, CursorY: 2, ChildrenIndentation: 2})
	d, ok := e.CurrentDrag()
	require.True(t, ok)
	assert.Equal(t, "", d.TargetItemID)
	assert.Nil(t, d.NewPosition)

	require.NoError(t, e.StopDraggingItem("A"))
	assert.Empty(t, mt.moves)
}

func TestChooseAction_AlwaysResolvesWhenAnyValid(t *testing.T) {
	for mask := ActionSet(1); mask < 16; mask++ {
		for _, y := range []float64{0, 0.5, 1, 1.5, 2, 2.5, 3, 3.5, 4} {
			for _, x := range []float64{0, 5} {
				a := ChooseAction(TargetInput{ValidActions: mask, TargetHeight: 4, CursorY: y, CursorX: x, ChildrenIndentation: 2})
				assert.True(t, mask.Has(a), "mask=%s y=%v x=%v -> %q", mask, y, x, a)
			}
		}
	}
	assert.Equal(t, ActionNone, ChooseAction(TargetInput{TargetHeight: 4, CursorY: 2}))
}

func TestChooseAction_DegradesToNearest(t *testing.T) {
	in := TargetInput{TargetHeight: 4, CursorX: 10, ChildrenIndentation: 2}

	in.ValidActions = NewActionSet(ActionReorderAbove, ActionReorderBelow)
	in.CursorY = 1.5
	assert.Equal(t, ActionReorderAbove, ChooseAction(in))
	in.CursorY = 2.5
	assert.Equal(t, ActionReorderBelow, ChooseAction(in))

	in.ValidActions = NewActionSet(ActionMakeChild)
	in.CursorY = 0
	assert.Equal(t, ActionMakeChild, ChooseAction(in))

	in.ValidActions = NewActionSet(ActionMoveToParent)
	assert.Equal(t, ActionMoveToParent, ChooseAction(in), "falls back even right of the indentation")
}

func TestStopDraggingItem_CommitsMakeChildAtomically(t *testing.T) {
	// A:[B, C]; drag B into C => A:[C], C:[B]
	mt := newMemTree([2]string{"", "A"}, [2]string{"A", "B"}, [2]string{"A", "C"})
	v := &treeorder.View{Source: mt, Expanded: treeorder.ExpandAll}
	var changed []MoveParams
	e := New(Config{Enabled: true, OnItemPositionChange: func(p MoveParams) { changed = append(changed, p) }}, v, mt)

	before := mt.state
	require.True(t, e.StartDraggingItem("B"))
	valid := e.GetDroppingTargetValidActions("C")
	e.SetDragTargetItem(TargetInput{ItemID: "C", ValidActions: valid, TargetHeight: 4, CursorY: 2, CursorX: 10, ChildrenIndentation: 2})
	require.NoError(t, e.StopDraggingItem("B"))

	assert.Equal(t, []string{"B", "C"}, before.kids["A"], "previous state untouched")
	assert.Equal(t, []string{"C"}, mt.state.kids["A"])
	assert.Equal(t, []string{"B"}, mt.state.kids["C"])
	assert.Equal(t, "C", mt.state.parent["B"])
	require.Len(t, mt.moves, 1)
	require.Len(t, changed, 1)
	assert.Equal(t, MoveParams{ItemID: "B", OldPosition: Position{"A", 0}, NewPosition: Position{"C", 0}}, changed[0])

	_, ok := e.CurrentDrag()
	assert.False(t, ok)
}

func TestStopDraggingItem_ReorderBelowSameParent(t *testing.T) {
	mt, v := sample()
	e := New(Config{Enabled: true}, v, mt)
	e.StartDraggingItem("B")
	valid := e.GetDroppingTargetValidActions("C")
	e.SetDragTargetItem(TargetInput{ItemID: "C", ValidActions: valid, TargetHeight: 4, CursorY: 3.9, CursorX: 10, ChildrenIndentation: 2})
	require.NoError(t, e.StopDraggingItem("B"))
	assert.Equal(t, []string{"C", "B", "D"}, mt.state.kids["A"])
}

func TestStopDraggingItem_NoTargetOrClearedTargetDoesNotCommit(t *testing.T) {
	mt, v := sample()
	e := New(Config{Enabled: true}, v, mt)

	e.StartDraggingItem("B")
	require.NoError(t, e.StopDraggingItem("B"))

	e.StartDraggingItem("B")
	e.SetDragTargetItem(TargetInput{ItemID: "E", ValidActions: e.GetDroppingTargetValidActions("E"), TargetHeight: 4, CursorY: 2})
	e.ClearDragTarget()
	d, ok := e.CurrentDrag()
	require.True(t, ok)
	assert.Equal(t, "B", d.DraggedItemID)
	require.NoError(t, e.StopDraggingItem("B"))

	e.StartDraggingItem("B")
	e.SetDragTargetItem(TargetInput{ItemID: "E", ValidActions: e.GetDroppingTargetValidActions("E"), TargetHeight: 4, CursorY: 2})
	e.CancelDrag()
	require.NoError(t, e.StopDraggingItem("B"))

	assert.Empty(t, mt.moves)
}

func TestStopDraggingItem_WrongItemKeepsDrag(t *testing.T) {
	mt, v := sample()
	e := New(Config{Enabled: true}, v, mt)
	e.StartDraggingItem("B")
	require.NoError(t, e.StopDraggingItem("C"))
	_, ok := e.CurrentDrag()
	assert.True(t, ok)
}

type failingMover struct{}

func (failingMover) MoveItem(MoveParams) error { return errors.New("disk full") }

func TestStopDraggingItem_MoverErrorSkipsCallback(t *testing.T) {
	_, v := sample()
	called := false
	e := New(Config{Enabled: true, OnItemPositionChange: func(MoveParams) { called = true }}, v, failingMover{})
	e.StartDraggingItem("B")
	e.SetDragTargetItem(TargetInput{ItemID: "E", ValidActions: e.GetDroppingTargetValidActions("E"), TargetHeight: 4, CursorY: 2})
	assert.Error(t, e.StopDraggingItem("B"))
	assert.False(t, called)
	_, ok := e.CurrentDrag()
	assert.False(t, ok)
}

func TestTargetDepth(t *testing.T) {
	mt, v := sample()
	e := New(Config{Enabled: true}, v, mt)
	_, ok := e.TargetDepth()
	assert.False(t, ok)

	e.StartDraggingItem("E")
	valid := e.GetDroppingTargetValidActions("D1")
	e.SetDragTargetItem(TargetInput{ItemID: "D1", ValidActions: valid, TargetHeight: 4, CursorY: 0.5, CursorX: 10, ChildrenIndentation: 2})
	depth, ok := e.TargetDepth()
	require.True(t, ok)
	assert.Equal(t, 2, depth, "sibling of D1 sits under D (depth 1)")

	e.SetDragTargetItem(TargetInput{ItemID: "A", ValidActions: e.GetDroppingTargetValidActions("A"), TargetHeight: 4, CursorY: 0.5, CursorX: 10, ChildrenIndentation: 2})
	depth, ok = e.TargetDepth()
	require.True(t, ok)
	assert.Equal(t, 0, depth)
}

func TestParseAction(t *testing.T) {
	a, ok := ParseAction("into")
	require.True(t, ok)
	assert.Equal(t, ActionMakeChild, a)
	_, ok = ParseAction("sideways")
	assert.False(t, ok)
	assert.Equal(t, "{reorder-above,make-child}", NewActionSet(ActionMakeChild, ActionReorderAbove).String())
}
