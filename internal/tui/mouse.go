package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	xansi "github.com/charmbracelet/x/ansi"

	"arbor-cli/internal/event"
	"arbor-cli/internal/reorder"
	"arbor-cli/internal/treeview"
)

// mouseState tracks one press until its release. A press on a draggable
// row turns into a drag once the pointer leaves that row.
type mouseState struct {
	down     bool
	pressID  string
	pressY   int
	dragging bool
	// target is the row the drag last entered.
	target string
}

// rowHit is a screen position resolved to a row.
type rowHit struct {
	id string
	// offset is the line within the row, 0-based.
	offset int
	// x is the column relative to the row's content box.
	x int
}

func (m appModel) rowAt(x, y int) (rowHit, bool) {
	line := y - headerLines
	if line < 0 || line >= m.rowsFit()*m.cfg.RowHeight {
		return rowHit{}, false
	}
	idx := m.scroll + line/m.cfg.RowHeight
	visible := m.tv.VisibleItems()
	if idx >= len(visible) {
		return rowHit{}, false
	}
	id := visible[idx]
	return rowHit{id: id, offset: line % m.cfg.RowHeight, x: x - m.contentStart(id)}, true
}

// contentStart is the column where the row's content box begins, right
// after the gutter and its depth indentation.
func (m appModel) contentStart(id string) int {
	return gutterWidth + m.tv.Status(id).Depth*m.cfg.Indent
}

// geometry converts a hit into a drag-over sample. Cells are sampled at
// their center.
func (m appModel) geometry(h rowHit) treeview.Geometry {
	return treeview.Geometry{
		Height: float64(m.cfg.RowHeight),
		X:      float64(h.x) + 0.5,
		Y:      float64(h.offset) + 0.5,
		Indent: float64(m.cfg.Indent),
	}
}

func mouseEvent(kind event.Kind, msg tea.MouseMsg) event.Event {
	return event.Event{Kind: kind, Shift: msg.Shift, Ctrl: msg.Ctrl, Alt: msg.Alt, X: msg.X, Y: msg.Y}
}

func (m appModel) updateMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.showHelp || m.editing != "" || m.grab != nil {
		return m, nil
	}
	switch {
	case msg.Button == tea.MouseButtonWheelUp:
		m.scroll = max(0, m.scroll-1)
		return m, nil
	case msg.Button == tea.MouseButtonWheelDown:
		m.scroll = max(0, min(m.scroll+1, len(m.tv.VisibleItems())-m.rowsFit()))
		return m, nil
	}

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return m, nil
		}
		m.mouse = mouseState{down: true, pressY: msg.Y}
		if h, ok := m.rowAt(msg.X, msg.Y); ok {
			m.mouse.pressID = h.id
			if m.onCheckbox(h) {
				st := m.tv.Status(h.id)
				m.tv.Interactions(h.id).HandleCheckboxSelection(mouseEvent(event.KindCheckbox, msg), !st.Selected)
				m.mouse = mouseState{}
			}
		}

	case tea.MouseActionMotion:
		if !m.mouse.down || m.mouse.pressID == "" {
			return m, nil
		}
		if !m.mouse.dragging {
			if msg.Y == m.mouse.pressY {
				return m, nil
			}
			if !m.tv.HandleDragStart(mouseEvent(event.KindDragStart, msg), m.mouse.pressID, reorder.NewPayload()) {
				return m, nil
			}
			m.mouse.dragging = true
		}
		m.dragOver(msg)

	case tea.MouseActionRelease:
		ms := m.mouse
		m.mouse = mouseState{}
		if ms.dragging {
			d, _ := m.tv.Reorder().CurrentDrag()
			if err := m.tv.HandleDragEnd(mouseEvent(event.KindDragEnd, msg), ms.pressID); err != nil {
				m.setError(err)
			} else if d.Action != reorder.ActionNone && d.TargetItemID != "" {
				if d.Action == reorder.ActionMakeChild {
					m.tv.API().SetItemExpansion(d.TargetItemID, true)
				}
				m.setStatus(fmt.Sprintf("moved %s", m.label(ms.pressID)))
			}
			m.ensureVisible()
			return m, nil
		}
		if h, ok := m.rowAt(msg.X, msg.Y); ok && ms.pressID != "" && h.id == ms.pressID {
			m.clearStatus()
			m.tv.Interactions(h.id).HandleClick(mouseEvent(event.KindClick, msg))
			m.syncEditing()
			m.ensureVisible()
		}
	}
	return m, nil
}

// dragOver feeds one motion sample of an active drag to the tree view.
func (m *appModel) dragOver(msg tea.MouseMsg) {
	h, ok := m.rowAt(msg.X, msg.Y)
	if !ok || h.id == m.mouse.pressID {
		if m.mouse.target != "" {
			m.tv.HandleDragLeave(mouseEvent(event.KindDragLeave, msg))
			m.mouse.target = ""
		}
		return
	}
	if h.id != m.mouse.target {
		m.tv.HandleDragEnter(mouseEvent(event.KindDragEnter, msg), h.id)
		m.mouse.target = h.id
	}
	m.tv.HandleDragOver(mouseEvent(event.KindDragOver, msg), h.id, m.geometry(h))
}

// onCheckbox reports whether a hit lands on the row's checkbox.
func (m appModel) onCheckbox(h rowHit) bool {
	if !m.tv.Selection().Settings().CheckboxSelection {
		return false
	}
	start := xansi.StringWidth(glyphTwistyExpanded()) + 1
	return h.x >= start && h.x < start+xansi.StringWidth(glyphCheckboxOff())
}
