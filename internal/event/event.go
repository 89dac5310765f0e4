// Package event carries the host's UI event into the tree-view engines.
//
// Engines never inspect the event beyond modifier keys; it is passed through
// to notification callbacks so hosts can correlate changes with input.
package event

import "strings"

type Kind string

const (
	KindClick     Kind = "click"
	KindKey       Kind = "key"
	KindCheckbox  Kind = "checkbox"
	KindDragStart Kind = "dragstart"
	KindDragEnter Kind = "dragenter"
	KindDragOver  Kind = "dragover"
	KindDragLeave Kind = "dragleave"
	KindDragEnd   Kind = "dragend"
	KindBlur      Kind = "blur"
	KindAPI       Kind = "api"
)

type Event struct {
	Kind Kind

	Shift bool
	Ctrl  bool
	Alt   bool
	Meta  bool

	// Pointer position in host cells. Zero for keyboard events.
	X int
	Y int

	// Key is the host's key name for keyboard events ("shift+down", ...).
	Key string
}

// Multiple reports whether a modifier that requests multi-selection is held.
func (e Event) Multiple() bool { return e.Shift || e.Ctrl || e.Meta }

// Handler is an externally supplied event handler. Returning true marks the
// event handled; the built-in behavior that follows it in the chain is
// skipped.
type Handler func(ev Event) bool

// Chain runs handlers in order and stops at the first one that handles the
// event. A nil chain never handles anything.
type Chain []Handler

func (c Chain) Run(ev Event) bool {
	for _, h := range c {
		if h == nil {
			continue
		}
		if h(ev) {
			return true
		}
	}
	return false
}

// ParseKey builds a key event from a "ctrl+shift+home" style name. The
// modifiers become flags and Key keeps only the base key.
func ParseKey(s string) Event {
	ev := Event{Kind: KindKey}
	parts := strings.Split(s, "+")
	// "+" itself, or a trailing "+" as in "ctrl++".
	if strings.HasSuffix(s, "+") && len(parts) > 1 {
		parts = append(parts[:len(parts)-2], "+")
	}
	for i, p := range parts {
		if i == len(parts)-1 {
			ev.Key = p
			break
		}
		switch p {
		case "shift":
			ev.Shift = true
		case "ctrl":
			ev.Ctrl = true
		case "alt":
			ev.Alt = true
		case "meta", "cmd", "super":
			ev.Meta = true
		default:
			ev.Key = strings.Join(parts[i:], "+")
			return ev
		}
	}
	return ev
}
