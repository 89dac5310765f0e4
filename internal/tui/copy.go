package tui

import (
	"fmt"
	"strings"
)

// copySelection puts "label<TAB>id" lines for the selected items, or the
// focused one when nothing is selected, on the clipboard.
func (m *appModel) copySelection() {
	api := m.tv.API()
	ids := api.SelectedItems().IDs()
	if len(ids) == 0 {
		if f := m.tv.Focused(); f != "" {
			ids = []string{f}
		}
	}
	if len(ids) == 0 {
		m.setStatus("nothing to copy")
		return
	}
	lines := make([]string, 0, len(ids))
	for _, id := range ids {
		it, ok := api.GetItem(id)
		if !ok {
			continue
		}
		lines = append(lines, it.Label+"\t"+it.ID)
	}
	if err := copyToClipboard(strings.Join(lines, "\n")); err != nil {
		m.setError(fmt.Errorf("copy: %w", err))
		return
	}
	m.setStatus(fmt.Sprintf("copied %d item(s)", len(lines)))
}
