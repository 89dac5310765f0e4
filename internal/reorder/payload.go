package reorder

import "strings"

const (
	TypeTextPlain = "text/plain"
	TypeURIList   = "text/uri-list"

	// MarkerType is always present so hosts that require some media type at
	// drag start accept the drag.
	MarkerType = "application/x-arbor-item"

	AndroidFallback = "android-fallback"
	EffectMove      = "move"
)

// Payload is the data carried by a drag, keyed by media type.
type Payload struct {
	EffectAllowed string

	types []string
	data  map[string]string
}

func NewPayload() *Payload {
	return &Payload{data: map[string]string{}}
}

func (p *Payload) SetData(typ, value string) {
	typ = strings.ToLower(strings.TrimSpace(typ))
	if typ == "" {
		return
	}
	if p.data == nil {
		p.data = map[string]string{}
	}
	if _, ok := p.data[typ]; !ok {
		p.types = append(p.types, typ)
	}
	p.data[typ] = value
}

func (p *Payload) Data(typ string) (string, bool) {
	v, ok := p.data[strings.ToLower(strings.TrimSpace(typ))]
	return v, ok
}

// Types returns the media types in insertion order.
func (p *Payload) Types() []string {
	return append([]string(nil), p.types...)
}

func (p *Payload) hasType(typ string) bool {
	_, ok := p.data[typ]
	return ok
}

type Platform struct {
	Android bool
}

// DetectPlatform inspects the environment. Termux sessions count as Android.
func DetectPlatform(getenv func(string) string) Platform {
	if getenv == nil {
		return Platform{}
	}
	return Platform{
		Android: getenv("TERMUX_VERSION") != "" || getenv("ANDROID_ROOT") != "",
	}
}

// PrepareDragPayload fills p for a drag of itemID. Android refuses drags
// that carry neither text/plain nor text/uri-list, so a fallback text entry
// is added there.
func PrepareDragPayload(p *Payload, pl Platform, itemID string) {
	p.EffectAllowed = EffectMove
	if pl.Android && !p.hasType(TypeTextPlain) && !p.hasType(TypeURIList) {
		p.SetData(TypeTextPlain, AndroidFallback)
	}
	p.SetData(MarkerType, itemID)
}
