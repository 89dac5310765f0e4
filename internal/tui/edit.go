package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"arbor-cli/internal/event"
)

// syncEditing binds the input to the item the tree view is editing.
func (m *appModel) syncEditing() {
	id := m.tv.EditedItem()
	if id == m.editing {
		return
	}
	m.editing = id
	if id == "" {
		m.input.Blur()
		return
	}
	it, _ := m.tv.API().GetItem(id)
	m.input.SetValue(it.Label)
	m.input.CursorEnd()
	m.input.Focus()
}

func (m appModel) updateEditing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	in := m.tv.Interactions(m.editing)
	switch msg.String() {
	case "enter":
		label := m.input.Value()
		if strings.TrimSpace(label) == "" {
			m.setError(fmt.Errorf("label must not be empty"))
			return m, nil
		}
		if err := in.HandleSaveItemLabel(event.ParseKey("enter"), label); err != nil {
			m.setError(err)
		} else {
			m.clearStatus()
		}
		m.syncEditing()
		return m, nil
	case "esc":
		in.HandleCancelItemLabelEditing(event.ParseKey("escape"))
		m.syncEditing()
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}
