package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"

	"arbor-cli/internal/reorder"
	"arbor-cli/internal/treeview"
)

func (m appModel) View() string {
	if m.width == 0 {
		return ""
	}
	if m.showHelp {
		return m.helpView()
	}

	var b strings.Builder
	b.WriteString(m.headerView())
	b.WriteString("\n")

	visible := m.tv.VisibleItems()
	lines := make([]string, 0, m.bodyHeight())
	end := min(len(visible), m.scroll+m.rowsFit())
	for _, id := range visible[min(m.scroll, end):end] {
		lines = append(lines, m.rowLines(id)...)
	}
	if len(visible) == 0 {
		lines = append(lines, styleMuted().Render("  (no items, add some with `arbor items add <label>`)"))
	}
	for len(lines) < m.bodyHeight() {
		lines = append(lines, "")
	}
	b.WriteString(strings.Join(lines[:m.bodyHeight()], "\n"))
	b.WriteString("\n")
	b.WriteString(m.footerView())
	return b.String()
}

func (m appModel) headerView() string {
	title := styleHeader().Render("arbor")
	sel := m.tv.API().SelectedItems()
	info := fmt.Sprintf(" %d items · %d selected", len(m.ws.DB.Items), sel.Len())
	if m.grab != nil {
		info += " · moving"
	}
	line := title + styleMuted().Render(info)
	return xansi.Truncate(line, m.width, "…")
}

func (m appModel) footerView() string {
	var line string
	switch {
	case m.status != "" && m.statusErr:
		line = styleError().Render(m.status)
	case m.grab != nil:
		line = m.status + "  " + m.help.ShortHelpView(m.keys.grabHelp())
	case m.status != "":
		line = m.status
	default:
		line = m.help.View(m.keys)
	}
	return xansi.Truncate(line, m.width, "…")
}

// rowLines renders one item as RowHeight lines. The label sits on the middle
// line; the drop indicator rule is drawn on the top or bottom line when the
// row has room for it.
func (m appModel) rowLines(id string) []string {
	st := m.tv.Status(id)
	h := m.cfg.RowHeight
	labelLine := h / 2
	out := make([]string, h)
	out[labelLine] = m.rowLabelLine(id, st)

	if h > 1 && st.DropAction != reorder.ActionNone {
		rule := strings.Repeat(" ", gutterWidth+st.DropDepth*m.cfg.Indent)
		rule += styleDrop().Render(strings.Repeat(glyphHRule(), max(4, m.width/3)))
		switch st.DropAction {
		case reorder.ActionReorderAbove:
			out[0] = rule
		case reorder.ActionReorderBelow, reorder.ActionMakeChild, reorder.ActionMoveToParent:
			out[h-1] = rule
		}
	}
	for i := range out {
		out[i] = xansi.Truncate(out[i], m.width, "…")
	}
	return out
}

func (m appModel) rowLabelLine(id string, st treeview.ItemStatus) string {
	it, _ := m.tv.API().GetItem(id)

	gutter := "  "
	if st.DropAction != reorder.ActionNone {
		gutter = styleDrop().Render(glyphDrop(string(st.DropAction))) + " "
	} else if st.Focused {
		gutter = styleFocused().Render(pick("›", ">")) + " "
	}

	var content strings.Builder
	switch {
	case st.Expandable && st.Expanded:
		content.WriteString(glyphTwistyExpanded())
	case st.Expandable:
		content.WriteString(glyphTwistyCollapsed())
	default:
		content.WriteString(strings.Repeat(" ", xansi.StringWidth(glyphTwistyExpanded())))
	}
	content.WriteString(" ")
	if m.tv.Selection().Settings().CheckboxSelection {
		if st.Selected {
			content.WriteString(glyphCheckboxOn())
		} else {
			content.WriteString(glyphCheckboxOff())
		}
		content.WriteString(" ")
	}

	if st.Editing && id == m.editing {
		avail := m.width - gutterWidth - st.Depth*m.cfg.Indent - xansi.StringWidth(content.String())
		return gutter + strings.Repeat(" ", st.Depth*m.cfg.Indent) + content.String() + renderInputLine(avail, m.input.View())
	}

	label := it.Label
	if it.Locked {
		label += " " + glyphLock()
	}
	style := lipgloss.NewStyle()
	switch {
	case st.Disabled:
		style = styleMuted()
	case st.Selected && st.Focused:
		style = styleSelected().Bold(true)
	case st.Selected:
		style = styleSelected()
	case st.Focused:
		style = styleFocused()
	}
	if m.isDragged(id) {
		style = style.Faint(true)
	}
	return gutter + strings.Repeat(" ", st.Depth*m.cfg.Indent) + content.String() + style.Render(label)
}

func (m appModel) isDragged(id string) bool {
	r := m.tv.Reorder()
	if r == nil {
		return false
	}
	d, ok := r.CurrentDrag()
	return ok && d.DraggedItemID == id
}
