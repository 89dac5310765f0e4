package store

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"arbor-cli/internal/model"
)

// Node is one item of a nested tree document.
type Node struct {
	ID            string `json:"id,omitempty" yaml:"id,omitempty"`
	Label         string `json:"label" yaml:"label"`
	Disabled      bool   `json:"disabled,omitempty" yaml:"disabled,omitempty"`
	Locked        bool   `json:"locked,omitempty" yaml:"locked,omitempty"`
	Leaf          bool   `json:"leaf,omitempty" yaml:"leaf,omitempty"`
	ReadOnlyLabel bool   `json:"readOnlyLabel,omitempty" yaml:"readOnlyLabel,omitempty"`
	Children      []Node `json:"children,omitempty" yaml:"children,omitempty"`
}

// Document is the import/export format: the whole tree, nested, in sibling order.
type Document struct {
	Version int    `json:"version" yaml:"version"`
	Items   []Node `json:"items" yaml:"items"`
}

const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// FormatFromPath guesses the document format from a file extension.
func FormatFromPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

func Export(db *DB) Document {
	var walk func(parentID string) []Node
	walk = func(parentID string) []Node {
		kids := db.ChildrenOf(parentID)
		if len(kids) == 0 {
			return nil
		}
		out := make([]Node, 0, len(kids))
		for _, it := range kids {
			out = append(out, Node{
				ID:            it.ID,
				Label:         it.Label,
				Disabled:      it.Disabled,
				Locked:        it.Locked,
				Leaf:          it.Leaf,
				ReadOnlyLabel: it.ReadOnlyLabel,
				Children:      walk(it.ID),
			})
		}
		return out
	}
	items := walk("")
	if items == nil {
		items = []Node{}
	}
	return Document{Version: 1, Items: items}
}

func Encode(w io.Writer, doc Document, format string) error {
	switch format {
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return err
		}
		return enc.Close()
	case FormatJSON, "":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	}
	return fmt.Errorf("unknown document format %q", format)
}

func Decode(r io.Reader, format string) (Document, error) {
	var doc Document
	switch format {
	case FormatYAML:
		if err := yaml.NewDecoder(r).Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
			return Document{}, fmt.Errorf("decode yaml: %w", err)
		}
	case FormatJSON, "":
		if err := json.NewDecoder(r).Decode(&doc); err != nil {
			return Document{}, fmt.Errorf("decode json: %w", err)
		}
	default:
		return Document{}, fmt.Errorf("unknown document format %q", format)
	}
	return doc, nil
}

// Import adds the document's items to db. With replace, existing items are
// dropped first; otherwise the imported roots are appended after the current
// roots. Missing ids are generated. Duplicate ids are an error.
func Import(db *DB, doc Document, replace bool, now time.Time) (int, error) {
	base := []model.Item{}
	if !replace {
		base = append(base, db.Items...)
	}
	taken := map[string]bool{}
	for _, it := range base {
		taken[it.ID] = true
	}

	lastRoot := ""
	if !replace {
		if roots := db.Roots(); len(roots) > 0 {
			lastRoot = roots[len(roots)-1].Rank
		}
	}

	var added []model.Item
	var walk func(parentID *string, prevRank string, nodes []Node) error
	walk = func(parentID *string, prevRank string, nodes []Node) error {
		for _, n := range nodes {
			id := strings.TrimSpace(n.ID)
			if id == "" {
				id = idPrefix + strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
			}
			if taken[id] {
				return fmt.Errorf("import: duplicate item id %q", id)
			}
			taken[id] = true

			rank, err := RankAfter(prevRank)
			if err != nil {
				return fmt.Errorf("import: rank for %q: %w", id, err)
			}
			prevRank = rank

			label := strings.TrimSpace(n.Label)
			if label == "" {
				label = id
			}
			added = append(added, model.Item{
				ID:            id,
				ParentID:      parentID,
				Rank:          rank,
				Label:         label,
				Disabled:      n.Disabled,
				Locked:        n.Locked,
				Leaf:          n.Leaf,
				ReadOnlyLabel: n.ReadOnlyLabel,
				CreatedAt:     now,
				UpdatedAt:     now,
			})
			if len(n.Children) > 0 {
				if n.Leaf {
					return fmt.Errorf("import: leaf item %q has children", id)
				}
				pid := id
				if err := walk(&pid, "", n.Children); err != nil {
					return err
				}
			}
		}
		return nil
	}
	if err := walk(nil, lastRoot, doc.Items); err != nil {
		return 0, err
	}

	db.SetItems(append(base, added...))
	return len(added), nil
}
