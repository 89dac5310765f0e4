package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	xansi "github.com/charmbracelet/x/ansi"

	"arbor-cli/internal/config"
	"arbor-cli/internal/model"
	"arbor-cli/internal/reorder"
	"arbor-cli/internal/store"
	"arbor-cli/internal/treeview"
)

type testTree struct {
	ws                            *store.Workspace
	alpha, apricot, beta, gamma   model.Item
}

// newTestTree seeds Alpha{Apricot}, Beta, Gamma in a fresh store.
func newTestTree(t *testing.T) testTree {
	t.Helper()
	s := store.Store{Dir: t.TempDir()}
	db, err := s.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	clock := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	ws := &store.Workspace{Store: s, DB: db, Now: func() time.Time { return clock }}

	var tt testTree
	tt.ws = ws
	add := func(label, parent string) model.Item {
		it, err := ws.AddItem(label, parent, false)
		if err != nil {
			t.Fatalf("add %s: %v", label, err)
		}
		return it
	}
	tt.alpha = add("Alpha", "")
	tt.apricot = add("Apricot", tt.alpha.ID)
	tt.beta = add("Beta", "")
	tt.gamma = add("Gamma", "")
	return tt
}

func newTestModel(t *testing.T, tt testTree, rowHeight int, mutate func(*treeview.Options)) appModel {
	t.Helper()
	setGlyphs(glyphSetASCII)
	to := treeview.Options{MultiSelect: true, ItemsReordering: true}
	if mutate != nil {
		mutate(&to)
	}
	m, err := newAppModel(Options{
		Workspace: tt.ws,
		Tree:      to,
		TUI:       config.TUIConfig{RowHeight: rowHeight, Indent: 2, Mouse: true},
	})
	if err != nil {
		t.Fatalf("newAppModel: %v", err)
	}
	return update(t, m, tea.WindowSizeMsg{Width: 80, Height: 24})
}

func update(t *testing.T, m appModel, msg tea.Msg) appModel {
	t.Helper()
	next, _ := m.Update(msg)
	mm, ok := next.(appModel)
	if !ok {
		t.Fatalf("unexpected model type %T", next)
	}
	return mm
}

func press(t *testing.T, m appModel, keys ...tea.KeyMsg) appModel {
	t.Helper()
	for _, k := range keys {
		m = update(t, m, k)
	}
	return m
}

func runes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

func rootLabels(t *testing.T, s store.Store) []string {
	t.Helper()
	db, err := s.Load()
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	var out []string
	for _, it := range db.Roots() {
		out = append(out, it.Label)
	}
	return out
}

func TestKeyboard_FocusAndShiftSelection(t *testing.T) {
	tt := newTestTree(t)
	m := newTestModel(t, tt, 1, nil)

	if got := m.tv.Focused(); got != tt.alpha.ID {
		t.Fatalf("expected initial focus on Alpha; got %q", got)
	}
	m = press(t, m, tea.KeyMsg{Type: tea.KeyDown}, tea.KeyMsg{Type: tea.KeyShiftDown})
	if got := m.tv.Focused(); got != tt.gamma.ID {
		t.Fatalf("expected focus on Gamma; got %q", got)
	}
	ids := m.tv.API().SelectedItems().IDs()
	if len(ids) != 2 || !m.tv.API().IsItemSelected(tt.beta.ID) || !m.tv.API().IsItemSelected(tt.gamma.ID) {
		t.Fatalf("expected Beta and Gamma selected; got %v", ids)
	}

	// Right expands Alpha so Apricot becomes visible.
	m = press(t, m, tea.KeyMsg{Type: tea.KeyHome}, tea.KeyMsg{Type: tea.KeyRight})
	if !m.tv.API().IsItemExpanded(tt.alpha.ID) {
		t.Fatalf("expected Alpha expanded")
	}
	if got := len(m.tv.VisibleItems()); got != 4 {
		t.Fatalf("expected 4 visible rows; got %d", got)
	}
}

func TestKeyboard_TypeAheadWraps(t *testing.T) {
	tt := newTestTree(t)
	m := newTestModel(t, tt, 1, nil)

	m = press(t, m, runes("g"))
	if got := m.tv.Focused(); got != tt.gamma.ID {
		t.Fatalf("expected type-ahead to Gamma; got %q", got)
	}
	m = press(t, m, runes("a"))
	if got := m.tv.Focused(); got != tt.alpha.ID {
		t.Fatalf("expected type-ahead to wrap to Alpha; got %q", got)
	}
}

func TestGrab_MovesBelowTarget(t *testing.T) {
	tt := newTestTree(t)
	m := newTestModel(t, tt, 1, nil)

	m = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlG})
	if m.grab == nil || m.grab.dragged != tt.alpha.ID {
		t.Fatalf("expected Alpha grabbed; got %+v", m.grab)
	}
	if m.grab.target != tt.beta.ID {
		t.Fatalf("expected first target Beta; got %q", m.grab.target)
	}
	m = press(t, m, tea.KeyMsg{Type: tea.KeyDown})
	if m.grab.target != tt.gamma.ID || m.grab.action() != reorder.ActionReorderBelow {
		t.Fatalf("expected reorder-below on Gamma; got %q %q", m.grab.target, m.grab.action())
	}
	if st := m.tv.Status(tt.gamma.ID); st.DropAction != reorder.ActionReorderBelow {
		t.Fatalf("expected drop indicator on Gamma; got %+v", st)
	}

	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.grab != nil {
		t.Fatalf("expected grab mode to end")
	}
	want := []string{"Beta", "Gamma", "Alpha"}
	if got := rootLabels(t, tt.ws.Store); strings.Join(got, ",") != strings.Join(want, ",") {
		t.Fatalf("expected persisted order %v; got %v", want, got)
	}
}

func TestGrab_TabCyclesToMakeChild(t *testing.T) {
	tt := newTestTree(t)
	m := newTestModel(t, tt, 1, nil)

	m = press(t, m, tea.KeyMsg{Type: tea.KeyDown}, tea.KeyMsg{Type: tea.KeyCtrlG})
	if m.grab == nil || m.grab.dragged != tt.beta.ID {
		t.Fatalf("expected Beta grabbed; got %+v", m.grab)
	}
	m = press(t, m, tea.KeyMsg{Type: tea.KeyDown})
	for i := 0; i < 4 && m.grab.action() != reorder.ActionMakeChild; i++ {
		m = press(t, m, tea.KeyMsg{Type: tea.KeyTab})
	}
	if m.grab.action() != reorder.ActionMakeChild {
		t.Fatalf("expected make-child among Gamma's actions; got %v", m.grab.actions)
	}
	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	db, err := tt.ws.Store.Load()
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	it, ok := db.FindItem(tt.beta.ID)
	if !ok || it.Parent() != tt.gamma.ID {
		t.Fatalf("expected Beta under Gamma; got %+v", it)
	}
	if !m.tv.API().IsItemExpanded(tt.gamma.ID) {
		t.Fatalf("expected Gamma expanded after make-child drop")
	}
}

func TestGrab_EscCancels(t *testing.T) {
	tt := newTestTree(t)
	m := newTestModel(t, tt, 1, nil)

	m = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlG}, tea.KeyMsg{Type: tea.KeyDown}, tea.KeyMsg{Type: tea.KeyEsc})
	if m.grab != nil {
		t.Fatalf("expected grab cancelled")
	}
	if _, ok := m.tv.Reorder().CurrentDrag(); ok {
		t.Fatalf("expected no active drag")
	}
	want := []string{"Alpha", "Beta", "Gamma"}
	if got := rootLabels(t, tt.ws.Store); strings.Join(got, ",") != strings.Join(want, ",") {
		t.Fatalf("expected unchanged order %v; got %v", want, got)
	}
}

func TestGrab_LockedItemIsRefused(t *testing.T) {
	tt := newTestTree(t)
	if err := tt.ws.SetLocked(tt.alpha.ID, true); err != nil {
		t.Fatalf("lock: %v", err)
	}
	m := newTestModel(t, tt, 1, nil)

	m = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlG})
	if m.grab != nil {
		t.Fatalf("expected locked item not to be grabbed")
	}
	if !m.statusErr || !strings.Contains(m.status, "cannot be dragged") {
		t.Fatalf("expected refusal status; got %q", m.status)
	}
}

func mouse(x, y int, action tea.MouseAction) tea.MouseMsg {
	btn := tea.MouseButtonLeft
	if action == tea.MouseActionRelease {
		btn = tea.MouseButtonNone
	}
	return tea.MouseMsg{X: x, Y: y, Action: action, Button: btn}
}

func TestMouse_DragBelowWithTallRows(t *testing.T) {
	tt := newTestTree(t)
	m := newTestModel(t, tt, 3, nil)

	// Rows: Alpha 1-3, Beta 4-6, Gamma 7-9. Line 9 is Gamma's bottom quarter.
	m = update(t, m, mouse(10, 2, tea.MouseActionPress))
	m = update(t, m, mouse(10, 5, tea.MouseActionMotion))
	m = update(t, m, mouse(10, 9, tea.MouseActionMotion))
	if st := m.tv.Status(tt.gamma.ID); st.DropAction != reorder.ActionReorderBelow {
		t.Fatalf("expected reorder-below on Gamma; got %q", st.DropAction)
	}
	m = update(t, m, mouse(10, 9, tea.MouseActionRelease))

	want := []string{"Beta", "Gamma", "Alpha"}
	if got := rootLabels(t, tt.ws.Store); strings.Join(got, ",") != strings.Join(want, ",") {
		t.Fatalf("expected persisted order %v; got %v", want, got)
	}
}

func TestMouse_LeavingTheTreeDropsNothing(t *testing.T) {
	tt := newTestTree(t)
	m := newTestModel(t, tt, 3, nil)

	m = update(t, m, mouse(10, 2, tea.MouseActionPress))
	m = update(t, m, mouse(10, 8, tea.MouseActionMotion))
	// Below the last row.
	m = update(t, m, mouse(10, 15, tea.MouseActionMotion))
	m = update(t, m, mouse(10, 15, tea.MouseActionRelease))

	want := []string{"Alpha", "Beta", "Gamma"}
	if got := rootLabels(t, tt.ws.Store); strings.Join(got, ",") != strings.Join(want, ",") {
		t.Fatalf("expected unchanged order %v; got %v", want, got)
	}
}

func TestMouse_ClickSelectsAndCtrlClickAdds(t *testing.T) {
	tt := newTestTree(t)
	m := newTestModel(t, tt, 1, nil)

	// Rows: Alpha 1, Beta 2, Gamma 3.
	m = update(t, m, mouse(8, 2, tea.MouseActionPress))
	m = update(t, m, mouse(8, 2, tea.MouseActionRelease))
	if ids := m.tv.API().SelectedItems().IDs(); len(ids) != 1 || ids[0] != tt.beta.ID {
		t.Fatalf("expected Beta selected; got %v", ids)
	}

	ctrl := mouse(8, 3, tea.MouseActionPress)
	ctrl.Ctrl = true
	m = update(t, m, ctrl)
	ctrl.Action, ctrl.Button = tea.MouseActionRelease, tea.MouseButtonNone
	m = update(t, m, ctrl)
	if got := m.tv.API().SelectedItems().Len(); got != 2 {
		t.Fatalf("expected two selected; got %d", got)
	}
}

func TestMouse_CheckboxToggles(t *testing.T) {
	tt := newTestTree(t)
	m := newTestModel(t, tt, 1, func(o *treeview.Options) { o.CheckboxSelection = true })

	// ASCII: gutter(2) + twisty ">"(1) + space, so the checkbox starts at column 4.
	m = update(t, m, mouse(5, 2, tea.MouseActionPress))
	if !m.tv.API().IsItemSelected(tt.beta.ID) {
		t.Fatalf("expected Beta checked")
	}
	m = update(t, m, mouse(5, 2, tea.MouseActionRelease))
	m = update(t, m, mouse(5, 2, tea.MouseActionPress))
	if m.tv.API().IsItemSelected(tt.beta.ID) {
		t.Fatalf("expected Beta unchecked")
	}
}

func TestLabelEditing_EnterRenames(t *testing.T) {
	tt := newTestTree(t)
	m := newTestModel(t, tt, 1, nil)

	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.editing != tt.alpha.ID {
		t.Fatalf("expected Alpha in edit mode; got %q", m.editing)
	}
	m = press(t, m, runes("!"), tea.KeyMsg{Type: tea.KeyEnter})
	if m.editing != "" {
		t.Fatalf("expected edit mode to end")
	}
	db, err := tt.ws.Store.Load()
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if it, _ := db.FindItem(tt.alpha.ID); it.Label != "Alpha!" {
		t.Fatalf("expected persisted label Alpha!; got %q", it.Label)
	}
}

func TestLabelEditing_EscKeepsLabel(t *testing.T) {
	tt := newTestTree(t)
	m := newTestModel(t, tt, 1, nil)

	m = press(t, m, tea.KeyMsg{Type: tea.KeyF2}, runes("zzz"), tea.KeyMsg{Type: tea.KeyEsc})
	if m.editing != "" {
		t.Fatalf("expected edit mode to end")
	}
	if it, _ := tt.ws.DB.FindItem(tt.alpha.ID); it.Label != "Alpha" {
		t.Fatalf("expected label unchanged; got %q", it.Label)
	}
}

func TestCopySelection(t *testing.T) {
	tt := newTestTree(t)
	m := newTestModel(t, tt, 1, nil)

	var copied string
	orig := copyToClipboard
	copyToClipboard = func(s string) error { copied = s; return nil }
	t.Cleanup(func() { copyToClipboard = orig })

	m = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlY})
	if copied != "Alpha\t"+tt.alpha.ID {
		t.Fatalf("expected focused item copied; got %q", copied)
	}
	if !strings.Contains(m.status, "copied 1") {
		t.Fatalf("expected copy status; got %q", m.status)
	}
}

func TestReload_PicksUpExternalWrites(t *testing.T) {
	tt := newTestTree(t)
	m := newTestModel(t, tt, 1, nil)

	other := &store.Workspace{Store: tt.ws.Store}
	db, err := other.Store.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	other.DB = db
	if _, err := other.AddItem("Delta", "", false); err != nil {
		t.Fatalf("add: %v", err)
	}

	m = update(t, m, storeChangedMsg{})
	if got := len(m.tv.VisibleItems()); got != 4 {
		t.Fatalf("expected Delta visible after reload; got %d rows", got)
	}
}

func TestView_RendersRowsAndIndicator(t *testing.T) {
	tt := newTestTree(t)
	m := newTestModel(t, tt, 1, nil)

	out := m.View()
	for _, want := range []string{"arbor", "Alpha", "Beta", "Gamma", "> > Alpha"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in view:\n%s", want, out)
		}
	}

	m = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlG}, tea.KeyMsg{Type: tea.KeyDown})
	if out := m.View(); !strings.Contains(out, "v   Gamma") {
		t.Fatalf("expected below marker on Gamma:\n%s", out)
	}
}

func TestHelp_RendersKeysTopicAndDegrades(t *testing.T) {
	tt := newTestTree(t)
	m := newTestModel(t, tt, 1, nil)

	m = press(t, m, runes("?"))
	if !m.showHelp {
		t.Fatalf("expected help to open")
	}
	if got := xansi.Strip(m.View()); !strings.Contains(got, "Tree") {
		t.Fatalf("expected keys topic in help; got:\n%s", got)
	}

	prev := helpTopic
	helpTopic = "no-such-topic"
	t.Cleanup(func() { helpTopic = prev })
	if got := xansi.Strip(m.View()); !strings.Contains(got, "available") {
		t.Fatalf("expected fallback help body; got:\n%s", got)
	}

	m = press(t, m, runes("x"))
	if m.showHelp {
		t.Fatalf("expected any key to close help")
	}
}
