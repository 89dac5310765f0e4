// Package treeview composes one tree-view instance out of plugins: items,
// expansion, focus, selection, optional label editing and optional
// reordering. Hosts drive it through per-item interactions, the drag glue and
// keyboard handling, and read it back through ItemStatus.
package treeview

import (
	"fmt"
	"log/slog"

	"arbor-cli/internal/config"
	"arbor-cli/internal/event"
	"arbor-cli/internal/logging"
	"arbor-cli/internal/model"
	"arbor-cli/internal/plugin"
	"arbor-cli/internal/reorder"
	"arbor-cli/internal/selection"
	"arbor-cli/internal/treeorder"
)

// ItemSource is the item data a tree view renders. *store.DB implements it.
type ItemSource interface {
	treeorder.Source
	FindItem(id string) (*model.Item, bool)
}

// LabelStore persists label edits. *store.Workspace implements it.
type LabelStore interface {
	RenameItem(id, label string) error
}

type Options struct {
	MultiSelect            bool
	CheckboxSelection      bool
	DisableSelection       bool
	Propagation            selection.Propagation
	DefaultSelectedItems   selection.Model
	DisabledItemsFocusable bool
	DefaultExpandedItems   []string

	ItemsReordering bool
	// Mover commits drops. Required when ItemsReordering is set.
	Mover reorder.Mover
	// IsItemReorderable overrides the default (unlocked items only).
	IsItemReorderable        func(id string) bool
	CanMoveItemToNewPosition func(p reorder.MoveParams) bool

	// Labels enables inline label editing when set.
	Labels         LabelStore
	IsItemEditable func(id string) bool

	OnItemSelectionToggle func(ev event.Event, id string, selected bool)
	OnSelectedItemsChange func(ev event.Event, m selection.Model)
	OnItemExpansionToggle func(ev event.Event, id string, expanded bool)
	OnItemFocus           func(ev event.Event, id string)
	OnItemLabelChange     func(id, label string)
	OnItemPositionChange  func(p reorder.MoveParams)

	// Handlers are external handlers run before the built-in behavior of
	// each event kind. A handler returning true suppresses the built-in.
	Handlers map[event.Kind]event.Chain

	Platform reorder.Platform
	Logger   *slog.Logger
}

// OptionsFromConfig maps the tree section of the configuration file.
func OptionsFromConfig(c config.TreeConfig) Options {
	return Options{
		MultiSelect:       c.MultiSelect,
		CheckboxSelection: c.CheckboxSelection,
		DisableSelection:  c.DisableSelection,
		Propagation: selection.Propagation{
			Parents:     c.Propagation.Parents,
			Descendants: c.Propagation.Descendants,
		},
		DisabledItemsFocusable: c.DisabledItemsFocusable,
		ItemsReordering:        c.ItemsReordering,
	}
}

type TreeView struct {
	opts     Options
	log      *slog.Logger
	registry *plugin.Registry
	view     *treeorder.View

	items     *Items
	expansion *Expansion
	focus     *Focus
	label     *Label
	selection *selection.Engine
	reorder   *reorder.Engine

	// Valid drop actions per hovered item, filled on drag enter and
	// dropped when the drag ends.
	validActions map[string]reorder.ActionSet
}

func New(opts Options, src ItemSource) (*TreeView, error) {
	if src == nil {
		return nil, fmt.Errorf("treeview: nil item source")
	}
	if opts.ItemsReordering && opts.Mover == nil {
		return nil, fmt.Errorf("treeview: items reordering needs a mover")
	}
	tv := &TreeView{
		opts:         opts,
		log:          logging.OrDiscard(opts.Logger).With("component", "treeview"),
		registry:     plugin.NewRegistry(),
		validActions: map[string]reorder.ActionSet{},
	}

	tv.expansion = newExpansion(opts.DefaultExpandedItems, opts.OnItemExpansionToggle)
	tv.view = &treeorder.View{
		Source:                 src,
		Expanded:               tv.expansion.IsItemExpanded,
		DisabledItemsFocusable: opts.DisabledItemsFocusable,
	}
	tv.items = &Items{src: src, view: tv.view}
	tv.expansion.items = tv.items
	tv.focus = &Focus{view: tv.view, onFocus: opts.OnItemFocus}
	tv.selection = selection.New(selection.Config{
		MultiSelect:           opts.MultiSelect,
		DisableSelection:      opts.DisableSelection,
		CheckboxSelection:     opts.CheckboxSelection,
		Propagation:           opts.Propagation,
		DefaultSelectedItems:  opts.DefaultSelectedItems,
		OnItemSelectionToggle: opts.OnItemSelectionToggle,
		OnSelectedItemsChange: opts.OnSelectedItemsChange,
		Logger:                opts.Logger,
	}, tv.view)

	regs := []registration{
		{plugin.Items, tv.items},
		{plugin.Expansion, tv.expansion},
		{plugin.Focus, tv.focus},
		{plugin.Selection, tv.selection},
	}
	if opts.Labels != nil {
		tv.label = &Label{items: tv.items, store: opts.Labels, isEditable: opts.IsItemEditable, onChange: opts.OnItemLabelChange}
		regs = append(regs, registration{plugin.Label, tv.label})
	}
	if opts.ItemsReordering {
		tv.reorder = reorder.New(reorder.Config{
			Enabled:                  true,
			IsItemReorderable:        tv.isItemReorderable,
			CanItemHaveChildren:      tv.items.CanHaveChildren,
			CanMoveItemToNewPosition: opts.CanMoveItemToNewPosition,
			OnItemPositionChange:     opts.OnItemPositionChange,
			Logger:                   opts.Logger,
		}, tv.view, opts.Mover)
		regs = append(regs, registration{plugin.Reordering, tv.reorder})
	}
	for _, r := range regs {
		if err := tv.registry.Register(r.name, r.impl); err != nil {
			return nil, err
		}
	}
	tv.log.Debug("tree view ready", "plugins", tv.registry.Names())
	return tv, nil
}

type registration struct {
	name string
	impl any
}

func (tv *TreeView) isItemReorderable(id string) bool {
	if tv.opts.IsItemReorderable != nil {
		return tv.opts.IsItemReorderable(id)
	}
	it, ok := tv.items.Item(id)
	return ok && !it.Locked
}

// handled runs the external handlers registered for ev.Kind.
func (tv *TreeView) handled(ev event.Event) bool {
	return tv.opts.Handlers[ev.Kind].Run(ev)
}

func (tv *TreeView) Registry() *plugin.Registry   { return tv.registry }
func (tv *TreeView) View() *treeorder.View        { return tv.view }
func (tv *TreeView) Selection() *selection.Engine { return tv.selection }

// Reorder returns the drag engine, or nil when reordering is off.
func (tv *TreeView) Reorder() *reorder.Engine { return tv.reorder }

func (tv *TreeView) Focused() string { return tv.focus.Focused() }

// EditedItem returns the id whose label is being edited, or "".
func (tv *TreeView) EditedItem() string {
	if tv.label == nil {
		return ""
	}
	return tv.label.EditedItemID()
}

// VisibleItems returns the ids rendered in order: every item whose
// ancestors are all expanded, disabled ones included.
func (tv *TreeView) VisibleItems() []string {
	var out []string
	var walk func(parentID string)
	walk = func(parentID string) {
		for _, id := range tv.view.ChildrenIDs(parentID) {
			out = append(out, id)
			if tv.expansion.IsItemExpanded(id) {
				walk(id)
			}
		}
	}
	walk("")
	return out
}

// EnsureFocus focuses the first navigable item when nothing is focused or
// the focused item is gone, e.g. after a reload.
func (tv *TreeView) EnsureFocus(ev event.Event) {
	if cur := tv.focus.Focused(); cur != "" && tv.view.IsNavigable(cur) {
		return
	}
	if first := tv.view.FirstNavigable(); first != "" {
		tv.focus.FocusItem(ev, first)
	} else {
		tv.focus.Blur(ev)
	}
}
