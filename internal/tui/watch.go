package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"arbor-cli/internal/store"
)

// storeChangedMsg reports that another process wrote to the store.
type storeChangedMsg struct{}

type watchErrMsg struct{ err error }

func waitForChange(w *store.Watcher) tea.Cmd {
	if w == nil {
		return nil
	}
	return func() tea.Msg {
		select {
		case _, ok := <-w.Changes():
			if !ok {
				return nil
			}
			return storeChangedMsg{}
		case err, ok := <-w.Errors():
			if !ok {
				return nil
			}
			return watchErrMsg{err: err}
		}
	}
}
