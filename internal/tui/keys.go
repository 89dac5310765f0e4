package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap holds the application keys. Everything else goes to the tree
// keyboard model, so printable letters stay free for type-ahead.
type keyMap struct {
	Quit   key.Binding
	Help   key.Binding
	Grab   key.Binding
	Copy   key.Binding
	Reload key.Binding
	Edit   key.Binding

	// Grab mode.
	Up    key.Binding
	Down  key.Binding
	Zone  key.Binding
	Drop  key.Binding
	Abort key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Quit:   key.NewBinding(key.WithKeys("ctrl+c", "ctrl+q"), key.WithHelp("ctrl+q", "quit")),
		Help:   key.NewBinding(key.WithKeys("?", "f1"), key.WithHelp("?", "help")),
		Grab:   key.NewBinding(key.WithKeys("ctrl+g", "f3"), key.WithHelp("ctrl+g", "grab item")),
		Copy:   key.NewBinding(key.WithKeys("ctrl+y"), key.WithHelp("ctrl+y", "copy selection")),
		Reload: key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "reload")),
		Edit:   key.NewBinding(key.WithKeys("f2"), key.WithHelp("f2", "rename")),

		Up:    key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑", "target up")),
		Down:  key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓", "target down")),
		Zone:  key.NewBinding(key.WithKeys("tab", "shift+tab"), key.WithHelp("tab", "next action")),
		Drop:  key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter", "drop")),
		Abort: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Help, k.Grab, k.Edit, k.Copy, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Help, k.Grab, k.Edit, k.Copy, k.Reload, k.Quit},
		{k.Up, k.Down, k.Zone, k.Drop, k.Abort},
	}
}

func (k keyMap) grabHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Zone, k.Drop, k.Abort}
}
