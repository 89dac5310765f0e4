package selection

import (
	"bytes"
	"errors"

	json "github.com/goccy/go-json"
)

// Model is an immutable selection value: a single nullable id in single-select
// mode, or an ordered set of unique ids in multi-select mode. Every mutation
// produces a new Model.
type Model struct {
	multi bool
	ids   []string
}

// Single returns a single-select model. An empty id is the null selection.
func Single(id string) Model {
	if id == "" {
		return Model{}
	}
	return Model{ids: []string{id}}
}

func Empty(multi bool) Model { return Model{multi: multi} }

// Multi returns a multi-select model. Duplicates and empty ids are dropped,
// keeping first occurrences.
func Multi(ids ...string) Model {
	out := make([]string, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return Model{multi: true, ids: out}
}

func (m Model) IsMulti() bool { return m.multi }

// IDs returns a copy of the selected ids in model order.
func (m Model) IDs() []string {
	out := make([]string, len(m.ids))
	copy(out, m.ids)
	return out
}

// Single returns the selected id of a model holding exactly one item.
func (m Model) Single() (string, bool) {
	if len(m.ids) != 1 {
		return "", false
	}
	return m.ids[0], true
}

func (m Model) Len() int { return len(m.ids) }

func (m Model) Contains(id string) bool {
	for _, x := range m.ids {
		if x == id {
			return true
		}
	}
	return false
}

func (m Model) Equal(o Model) bool {
	if m.multi != o.multi || len(m.ids) != len(o.ids) {
		return false
	}
	for i := range m.ids {
		if m.ids[i] != o.ids[i] {
			return false
		}
	}
	return true
}

// As converts m to the requested mode. Single mode keeps the first id.
func (m Model) As(multi bool) Model {
	if multi {
		return Multi(m.ids...)
	}
	if len(m.ids) == 0 {
		return Model{}
	}
	return Single(m.ids[0])
}

func (m Model) lookup() map[string]bool {
	out := make(map[string]bool, len(m.ids))
	for _, id := range m.ids {
		out[id] = true
	}
	return out
}

// MarshalJSON encodes single models as null or "id" and multi models as an array.
func (m Model) MarshalJSON() ([]byte, error) {
	if m.multi {
		return json.Marshal(m.IDs())
	}
	if id, ok := m.Single(); ok {
		return json.Marshal(id)
	}
	return []byte("null"), nil
}

func (m *Model) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case bytes.Equal(b, []byte("null")):
		*m = Model{}
		return nil
	case len(b) > 0 && b[0] == '"':
		var id string
		if err := json.Unmarshal(b, &id); err != nil {
			return err
		}
		*m = Single(id)
		return nil
	case len(b) > 0 && b[0] == '[':
		var ids []string
		if err := json.Unmarshal(b, &ids); err != nil {
			return err
		}
		*m = Multi(ids...)
		return nil
	}
	return errors.New("selection model: expected null, string or array")
}

// MarshalYAML mirrors MarshalJSON.
func (m Model) MarshalYAML() (any, error) {
	if m.multi {
		return m.IDs(), nil
	}
	if id, ok := m.Single(); ok {
		return id, nil
	}
	return nil, nil
}
