package tui

import (
	"os"
	"strings"
	"sync"
)

// Terminals and fonts differ in how well they render box and arrow glyphs.
// The glyph set picks Unicode or plain ASCII for every tree affordance.

type glyphSet int

const (
	glyphSetUnicode glyphSet = iota
	glyphSetASCII
)

var (
	glyphsMu      sync.RWMutex
	currentGlyphs = glyphSetUnicode
)

// applyGlyphPreference sets the glyph set from config. ARBOR_TUI_GLYPHS wins
// over the config value. Unknown values are ignored.
func applyGlyphPreference(configured string) {
	v := strings.ToLower(strings.TrimSpace(os.Getenv("ARBOR_TUI_GLYPHS")))
	if v == "" {
		v = strings.ToLower(strings.TrimSpace(configured))
	}
	switch v {
	case "", "unicode", "utf8":
		setGlyphs(glyphSetUnicode)
	case "ascii":
		setGlyphs(glyphSetASCII)
	}
}

func setGlyphs(gs glyphSet) {
	glyphsMu.Lock()
	currentGlyphs = gs
	glyphsMu.Unlock()
}

func glyphs() glyphSet {
	glyphsMu.RLock()
	gs := currentGlyphs
	glyphsMu.RUnlock()
	return gs
}

func pick(unicode, ascii string) string {
	if glyphs() == glyphSetASCII {
		return ascii
	}
	return unicode
}

func glyphTwistyCollapsed() string { return pick("▸", ">") }
func glyphTwistyExpanded() string  { return pick("▾", "v") }
func glyphCheckboxOn() string      { return pick("☑", "[x]") }
func glyphCheckboxOff() string     { return pick("☐", "[ ]") }
func glyphLock() string            { return pick("🔒", "#") }
func glyphHRule() string           { return pick("─", "-") }

// glyphDrop is the gutter marker for the action a drop would perform.
func glyphDrop(action string) string {
	switch action {
	case "reorder-above":
		return pick("▲", "^")
	case "reorder-below":
		return pick("▼", "v")
	case "make-child":
		return pick("↳", ">")
	case "move-to-parent":
		return pick("↰", "<")
	}
	return " "
}
