// Package selection owns the selected-items model of one tree view.
//
// All operations run synchronously on the caller's goroutine and never fail:
// disabled selection, multi-only operations in single mode and unknown ids
// are silent no-ops.
package selection

import (
	"log/slog"
	"strconv"

	"arbor-cli/internal/event"
	"arbor-cli/internal/logging"
)

type Config struct {
	MultiSelect       bool
	DisableSelection  bool
	CheckboxSelection bool
	Propagation       Propagation

	DefaultSelectedItems Model

	// OnItemSelectionToggle fires once per item whose membership flipped.
	OnItemSelectionToggle func(ev event.Event, id string, selected bool)
	// OnSelectedItemsChange fires with the committed model after every mutation.
	OnSelectedItemsChange func(ev event.Event, m Model)

	Logger *slog.Logger
}

// Settings is the read-only view of Config the render layer consumes.
type Settings struct {
	MultiSelect       bool
	CheckboxSelection bool
	DisableSelection  bool
	Propagation       Propagation
}

type SelectParams struct {
	ItemID       string
	KeepExisting bool
	// ShouldBeSelected forces the resulting state. nil toggles.
	ShouldBeSelected *bool
}

func Bool(b bool) *bool { return &b }

type Engine struct {
	cfg  Config
	tree Tree
	log  *slog.Logger

	model Model

	// Anchor for range operations. Set by every discrete selection.
	lastSelectedItem string
	// Ids added by the most recent range operation. Always replaced as a whole.
	lastSelectedRange map[string]bool
}

func New(cfg Config, tree Tree) *Engine {
	return &Engine{
		cfg:   cfg,
		tree:  tree,
		log:   logging.OrDiscard(cfg.Logger).With("component", "selection"),
		model: cfg.DefaultSelectedItems.As(cfg.MultiSelect),
	}
}

func (e *Engine) Model() Model { return e.model }

func (e *Engine) Settings() Settings {
	return Settings{
		MultiSelect:       e.cfg.MultiSelect,
		CheckboxSelection: e.cfg.CheckboxSelection,
		DisableSelection:  e.cfg.DisableSelection,
		Propagation:       e.cfg.Propagation,
	}
}

// RootAttributes returns the tree-level accessibility attributes.
func (e *Engine) RootAttributes() map[string]string {
	return map[string]string{"aria-multiselectable": strconv.FormatBool(e.cfg.MultiSelect)}
}

// Anchor returns the id range operations extend from, or "".
func (e *Engine) Anchor() string { return e.lastSelectedItem }

func (e *Engine) IsItemSelected(id string) bool { return e.model.Contains(id) }

// SetSelectedItems replaces the model. In multi mode with propagation
// configured the new model is propagated first. Toggle and change
// notifications fire before the commit.
func (e *Engine) SetSelectedItems(ev event.Event, next Model) {
	e.commit(ev, next.As(e.cfg.MultiSelect), nil)
}

func (e *Engine) commit(ev event.Event, next Model, extra []string) {
	prev := e.model
	if e.cfg.MultiSelect && e.cfg.Propagation.any() {
		next = Model{multi: true, ids: propagate(e.tree, e.cfg.Propagation, prev.ids, next.ids, extra)}
	}

	if cb := e.cfg.OnItemSelectionToggle; cb != nil {
		if e.cfg.MultiSelect {
			c := diff(prev.ids, next.ids)
			for _, id := range c.added {
				cb(ev, id, true)
			}
			for _, id := range c.removed {
				cb(ev, id, false)
			}
		} else if !prev.Equal(next) {
			if id, ok := prev.Single(); ok {
				cb(ev, id, false)
			}
			if id, ok := next.Single(); ok {
				cb(ev, id, true)
			}
		}
	}
	if cb := e.cfg.OnSelectedItemsChange; cb != nil {
		cb(ev, next)
	}

	e.model = next
	e.log.Debug("selection committed", "kind", ev.Kind, "count", next.Len())
}

func (e *Engine) SelectItem(ev event.Event, p SelectParams) {
	if e.cfg.DisableSelection || p.ItemID == "" {
		return
	}
	id := p.ItemID
	was := e.model.Contains(id)

	var next Model
	switch {
	case p.KeepExisting && e.cfg.MultiSelect:
		cur := e.model.ids
		switch {
		case was && (p.ShouldBeSelected == nil || !*p.ShouldBeSelected):
			out := make([]string, 0, len(cur))
			for _, x := range cur {
				if x != id {
					out = append(out, x)
				}
			}
			next = Model{multi: true, ids: out}
		case !was && (p.ShouldBeSelected == nil || *p.ShouldBeSelected):
			next = Model{multi: true, ids: append([]string{id}, cur...)}
		default:
			next = e.model
		}
	case p.KeepExisting:
		// Single mode has room for one id: adding replaces, removing clears.
		switch {
		case was && (p.ShouldBeSelected == nil || !*p.ShouldBeSelected):
			next = Model{}
		case !was && (p.ShouldBeSelected == nil || *p.ShouldBeSelected):
			next = Single(id)
		default:
			next = e.model
		}
	default:
		if (p.ShouldBeSelected != nil && !*p.ShouldBeSelected) || (p.ShouldBeSelected == nil && was) {
			next = Empty(e.cfg.MultiSelect)
		} else if e.cfg.MultiSelect {
			next = Multi(id)
		} else {
			next = Single(id)
		}
	}

	e.commit(ev, next, []string{id})
	e.lastSelectedItem = id
	e.lastSelectedRange = nil
}

// SelectRange retracts the ids added by the previous range, then adds every
// non-disabled visible item between start and end.
func (e *Engine) SelectRange(ev event.Event, start, end string) {
	if e.cfg.DisableSelection || !e.cfg.MultiSelect {
		return
	}

	ids := make([]string, 0, e.model.Len())
	for _, id := range e.model.ids {
		if !e.lastSelectedRange[id] {
			ids = append(ids, id)
		}
	}

	rng := e.tree.NonDisabledItemsInRange(start, end)
	present := make(map[string]bool, len(ids))
	for _, id := range ids {
		present[id] = true
	}
	for _, id := range rng {
		if !present[id] {
			present[id] = true
			ids = append(ids, id)
		}
	}

	e.commit(ev, Model{multi: true, ids: ids}, nil)
	e.lastSelectedRange = toSet(rng)
}

// ExpandSelectionRange selects from the anchor to id in traversal order.
func (e *Engine) ExpandSelectionRange(ev event.Event, id string) {
	if e.lastSelectedItem == "" {
		return
	}
	start, end := e.tree.FindOrderInTremauxTree(id, e.lastSelectedItem)
	e.SelectRange(ev, start, end)
}

func (e *Engine) SelectRangeFromStartToItem(ev event.Event, id string) {
	first := e.tree.FirstNavigable()
	if first == "" {
		return
	}
	e.SelectRange(ev, first, id)
}

func (e *Engine) SelectRangeFromItemToEnd(ev event.Event, id string) {
	last := e.tree.LastNavigable()
	if last == "" {
		return
	}
	e.SelectRange(ev, id, last)
}

// SelectAllNavigableItems selects every visible, non-disabled item. Items in
// collapsed subtrees are not selected.
func (e *Engine) SelectAllNavigableItems(ev event.Event) {
	if e.cfg.DisableSelection || !e.cfg.MultiSelect {
		return
	}
	var ids []string
	for _, id := range e.tree.AllNavigable() {
		if !e.tree.IsItemDisabled(id) {
			ids = append(ids, id)
		}
	}
	e.commit(ev, Multi(ids...), nil)
	e.lastSelectedRange = toSet(ids)
}

// SelectItemFromArrowNavigation extends or shrinks the live range by one
// step as focus moves from current to next. When current is not a boundary of
// the live range the range restarts as {current, next}.
func (e *Engine) SelectItemFromArrowNavigation(ev event.Event, current, next string) {
	if e.cfg.DisableSelection || !e.cfg.MultiSelect || current == "" || next == "" {
		return
	}

	ids := e.model.IDs()
	rng := make(map[string]bool, len(e.lastSelectedRange)+1)

	switch {
	case !e.lastSelectedRange[current]:
		for _, id := range []string{current, next} {
			if !contains(ids, id) {
				ids = append(ids, id)
			}
		}
		rng[current] = true
		rng[next] = true
	case e.lastSelectedRange[next]:
		out := ids[:0]
		for _, id := range ids {
			if id != current {
				out = append(out, id)
			}
		}
		ids = out
		for id := range e.lastSelectedRange {
			if id != current {
				rng[id] = true
			}
		}
	default:
		if !contains(ids, next) {
			ids = append(ids, next)
		}
		for id := range e.lastSelectedRange {
			rng[id] = true
		}
		rng[next] = true
	}

	e.commit(ev, Model{multi: true, ids: ids}, nil)
	e.lastSelectedRange = rng
}

func toSet(ids []string) map[string]bool {
	out := make(map[string]bool, len(ids))
	for _, id := range ids {
		out[id] = true
	}
	return out
}
