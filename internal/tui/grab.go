package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"arbor-cli/internal/event"
	"arbor-cli/internal/reorder"
	"arbor-cli/internal/treeview"
)

// grabState is a keyboard drag: the grabbed item, the row it hovers and the
// chosen action among the row's valid ones.
type grabState struct {
	dragged string
	target  string
	actions []reorder.Action
	zone    int
}

func (g *grabState) action() reorder.Action {
	if g == nil || len(g.actions) == 0 {
		return reorder.ActionNone
	}
	return g.actions[g.zone]
}

// zoneGeometry is a unit-sized sample whose position resolves to action.
func zoneGeometry(a reorder.Action) treeview.Geometry {
	g := treeview.Geometry{Height: 1, X: 1, Y: 0.5, Indent: 1}
	switch a {
	case reorder.ActionReorderAbove:
		g.Y = 0.1
	case reorder.ActionReorderBelow:
		g.Y = 0.9
	case reorder.ActionMoveToParent:
		g.X = 0
	}
	return g
}

func (m *appModel) startGrab() {
	id := m.tv.Focused()
	if id == "" {
		return
	}
	ev := event.Event{Kind: event.KindDragStart}
	if !m.tv.HandleDragStart(ev, id, reorder.NewPayload()) {
		m.setError(fmt.Errorf("%s cannot be dragged", m.label(id)))
		return
	}
	m.grab = &grabState{dragged: id}
	targets := m.grabTargets()
	next := ""
	for i, t := range targets {
		if t == id && i+1 < len(targets) {
			next = targets[i+1]
			break
		}
	}
	if next == "" && len(targets) > 1 {
		next = targets[len(targets)-2]
	}
	m.retarget(next)
}

// grabTargets are the visible rows outside the grabbed subtree. The grabbed
// row stays in the list so stepping past it keeps the order.
func (m *appModel) grabTargets() []string {
	var out []string
	for _, id := range m.tv.VisibleItems() {
		if !m.tv.View().IsDescendant(m.grab.dragged, id) {
			out = append(out, id)
		}
	}
	return out
}

func (m *appModel) retarget(id string) {
	g := m.grab
	g.target = id
	g.actions = nil
	g.zone = 0
	if id == "" || id == g.dragged {
		m.tv.HandleDragLeave(event.Event{Kind: event.KindDragLeave})
		m.grabStatus()
		return
	}
	m.tv.HandleDragEnter(event.Event{Kind: event.KindDragEnter}, id)
	valid, _ := m.tv.CachedValidActions(id)
	g.actions = valid.Actions()
	for i, a := range g.actions {
		if a == reorder.ActionReorderBelow {
			g.zone = i
		}
	}
	m.applyZone()
}

func (m *appModel) applyZone() {
	g := m.grab
	if a := g.action(); a != reorder.ActionNone {
		m.tv.HandleDragOver(event.Event{Kind: event.KindDragOver}, g.target, zoneGeometry(a))
	} else {
		m.tv.HandleDragLeave(event.Event{Kind: event.KindDragLeave})
	}
	m.grabStatus()
}

func (m *appModel) grabStatus() {
	g := m.grab
	if a := g.action(); a != reorder.ActionNone {
		m.setStatus(fmt.Sprintf("%s: %s %s", m.label(g.dragged), a, m.label(g.target)))
		return
	}
	m.setStatus(fmt.Sprintf("%s: no drop here", m.label(g.dragged)))
}

func (m appModel) updateGrab(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	g := m.grab
	switch {
	case key.Matches(msg, m.keys.Up), key.Matches(msg, m.keys.Down):
		targets := m.grabTargets()
		i := -1
		for j, t := range targets {
			if t == g.target {
				i = j
			}
		}
		if key.Matches(msg, m.keys.Up) {
			i--
		} else {
			i++
		}
		if i >= 0 && i < len(targets) {
			m.retarget(targets[i])
		}
	case key.Matches(msg, m.keys.Zone):
		if n := len(g.actions); n > 1 {
			if msg.String() == "shift+tab" {
				g.zone = (g.zone + n - 1) % n
			} else {
				g.zone = (g.zone + 1) % n
			}
			m.applyZone()
		}
	case key.Matches(msg, m.keys.Drop):
		action := g.action()
		m.grab = nil
		if err := m.tv.HandleDragEnd(event.Event{Kind: event.KindDragEnd}, g.dragged); err != nil {
			m.setError(err)
		} else if action != reorder.ActionNone {
			if action == reorder.ActionMakeChild {
				m.tv.API().SetItemExpansion(g.target, true)
			}
			m.setStatus(fmt.Sprintf("moved %s", m.label(g.dragged)))
			m.tv.API().FocusItem(g.dragged)
		} else {
			m.clearStatus()
		}
	case key.Matches(msg, m.keys.Abort):
		m.grab = nil
		m.tv.CancelDrag()
		m.setStatus("move cancelled")
	}
	m.ensureVisible()
	return m, nil
}

func (m appModel) label(id string) string {
	if it, ok := m.tv.API().GetItem(id); ok {
		return it.Label
	}
	return id
}
