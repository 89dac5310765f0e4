package tui

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"arbor-cli/internal/config"
	"arbor-cli/internal/event"
	"arbor-cli/internal/logging"
	"arbor-cli/internal/store"
	"arbor-cli/internal/treeview"
)

type Options struct {
	Workspace *store.Workspace
	// Tree carries the tree-view settings. Mover and Labels are filled in
	// with the workspace.
	Tree   treeview.Options
	TUI    config.TUIConfig
	Logger *slog.Logger
}

// Layout: one header line, the rows, one footer line.
const (
	headerLines = 1
	footerLines = 1
	gutterWidth = 2
)

type appModel struct {
	ws   *store.Workspace
	tv   *treeview.TreeView
	cfg  config.TUIConfig
	log  *slog.Logger
	keys keyMap
	help help.Model

	width  int
	height int
	// First rendered row, as an index into the visible items.
	scroll int

	showHelp bool

	// editing is the item whose label the input is bound to.
	editing string
	input   textinput.Model

	grab  *grabState
	mouse mouseState

	watcher *store.Watcher

	status    string
	statusErr bool
}

func newAppModel(opts Options) (appModel, error) {
	if opts.Workspace == nil {
		return appModel{}, errors.New("tui: nil workspace")
	}
	cfg := opts.TUI
	if cfg.RowHeight < 1 {
		cfg.RowHeight = 1
	}
	if cfg.Indent < 1 {
		cfg.Indent = 2
	}
	log := logging.OrDiscard(opts.Logger).With("component", "tui")

	to := opts.Tree
	to.Mover = opts.Workspace
	to.Labels = opts.Workspace
	to.Logger = log
	tv, err := treeview.New(to, opts.Workspace.DB)
	if err != nil {
		return appModel{}, err
	}
	tv.EnsureFocus(event.Event{Kind: event.KindAPI})

	in := textinput.New()
	in.Prompt = ""
	in.CharLimit = 200

	return appModel{
		ws:    opts.Workspace,
		tv:    tv,
		cfg:   cfg,
		log:   log,
		keys:  defaultKeyMap(),
		help:  help.New(),
		input: in,
	}, nil
}

func (m appModel) Init() tea.Cmd {
	return waitForChange(m.watcher)
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.ensureVisible()
		return m, nil

	case storeChangedMsg:
		m.reload()
		return m, waitForChange(m.watcher)

	case watchErrMsg:
		m.log.Warn("watch failed", "err", msg.err)
		return m, waitForChange(m.watcher)

	case tea.KeyMsg:
		return m.updateKey(msg)

	case tea.MouseMsg:
		return m.updateMouse(msg)
	}

	if m.editing != "" {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m appModel) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}
	if m.showHelp {
		m.showHelp = false
		return m, nil
	}
	if m.editing != "" {
		return m.updateEditing(msg)
	}
	if m.grab != nil {
		return m.updateGrab(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil
	case key.Matches(msg, m.keys.Grab):
		m.startGrab()
		return m, nil
	case key.Matches(msg, m.keys.Copy):
		m.copySelection()
		return m, nil
	case key.Matches(msg, m.keys.Reload):
		m.reload()
		return m, nil
	case key.Matches(msg, m.keys.Edit):
		if id := m.tv.Focused(); id != "" {
			m.tv.Interactions(id).ToggleItemEditing()
		}
	default:
		m.clearStatus()
		m.tv.HandleKey(event.ParseKey(msg.String()))
	}
	m.syncEditing()
	m.ensureVisible()
	return m, nil
}

func (m *appModel) reload() {
	if err := m.ws.Reload(); err != nil {
		m.setError(fmt.Errorf("reload: %w", err))
		return
	}
	m.tv.EnsureFocus(event.Event{Kind: event.KindAPI})
	m.ensureVisible()
	m.log.Debug("reloaded", "items", len(m.ws.DB.Items))
}

func (m *appModel) setStatus(s string) {
	m.status = s
	m.statusErr = false
}

func (m *appModel) setError(err error) {
	m.status = err.Error()
	m.statusErr = true
	m.log.Warn("tui error", "err", err)
}

func (m *appModel) clearStatus() {
	m.status = ""
	m.statusErr = false
}

// bodyHeight is the number of terminal lines available for rows.
func (m appModel) bodyHeight() int {
	return max(1, m.height-headerLines-footerLines)
}

// rowsFit is the number of whole rows that fit on screen.
func (m appModel) rowsFit() int {
	return max(1, m.bodyHeight()/m.cfg.RowHeight)
}

// ensureVisible scrolls so the focused row is on screen.
func (m *appModel) ensureVisible() {
	visible := m.tv.VisibleItems()
	idx := -1
	focused := m.tv.Focused()
	if m.grab != nil {
		focused = m.grab.target
	}
	for i, id := range visible {
		if id == focused {
			idx = i
			break
		}
	}
	fit := m.rowsFit()
	if idx >= 0 {
		if idx < m.scroll {
			m.scroll = idx
		}
		if idx >= m.scroll+fit {
			m.scroll = idx - fit + 1
		}
	}
	m.scroll = max(0, min(m.scroll, len(visible)-fit))
}

// Run starts the interactive tree view and blocks until it exits.
func Run(opts Options) error {
	applyColorProfilePreference()
	applyThemePreference()
	applyGlyphPreference(opts.TUI.Glyphs)

	m, err := newAppModel(opts)
	if err != nil {
		return err
	}
	if w, err := opts.Workspace.Store.Watch(0); err != nil {
		m.log.Warn("store watch unavailable", "err", err)
	} else {
		m.watcher = w
		defer w.Close()
	}

	popts := []tea.ProgramOption{tea.WithAltScreen()}
	if opts.TUI.Mouse {
		popts = append(popts, tea.WithMouseCellMotion())
	}
	_, err = tea.NewProgram(m, popts...).Run()
	return err
}
