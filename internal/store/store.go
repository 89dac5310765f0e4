package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"arbor-cli/internal/model"
	"arbor-cli/internal/treeorder"
)

const (
	dirName        = ".arbor"
	sqliteFileName = "arbor.sqlite"
)

var ErrNotFound = errors.New("not found")

type DB struct {
	Version int          `json:"version"`
	Items   []model.Item `json:"items"`

	// Derived indexes for per-item lookups. These are not persisted.
	idxBuilt            bool                    `json:"-"`
	idxByID             map[string]int          `json:"-"`
	idxChildrenByParent map[string][]model.Item `json:"-"`
}

type Store struct {
	Dir string
}

func DiscoverDir(start string) (string, bool) {
	dir := start
	for {
		candidate := filepath.Join(dir, dirName)
		if st, err := os.Stat(candidate); err == nil && st.IsDir() {
			return candidate, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

func DefaultDir() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	if found, ok := DiscoverDir(cwd); ok {
		return found, nil
	}
	return filepath.Join(cwd, dirName), nil
}

func (s Store) Ensure() error {
	return os.MkdirAll(s.Dir, 0o755)
}

func (s Store) Load() (*DB, error) {
	if err := s.Ensure(); err != nil {
		return nil, err
	}
	return s.LoadSQLite(context.Background())
}

func (s Store) Save(db *DB) error {
	if err := s.Ensure(); err != nil {
		return err
	}
	return s.SaveSQLite(context.Background(), db)
}

func (s Store) AppendEvent(typ, entityID string, payload any) error {
	return s.appendEventSQLite(context.Background(), typ, entityID, payload)
}

func (s Store) ReadEvents(limit int) ([]model.Event, error) {
	return s.readEventsSQLite(context.Background(), "", limit)
}

func (s Store) ReadEventsForEntity(entityID string, limit int) ([]model.Event, error) {
	return s.readEventsSQLite(context.Background(), entityID, limit)
}

func (db *DB) invalidate() {
	db.idxBuilt = false
}

func (db *DB) ensureIndexes() {
	if db == nil || db.idxBuilt {
		return
	}
	db.idxByID = make(map[string]int, len(db.Items))
	db.idxChildrenByParent = map[string][]model.Item{}

	for i, it := range db.Items {
		db.idxByID[it.ID] = i
		pid := strings.TrimSpace(it.Parent())
		db.idxChildrenByParent[pid] = append(db.idxChildrenByParent[pid], it)
	}
	for pid, kids := range db.idxChildrenByParent {
		sortItemsByRank(kids)
		db.idxChildrenByParent[pid] = kids
	}
	db.idxBuilt = true
}

func (db *DB) FindItem(id string) (*model.Item, bool) {
	if db == nil {
		return nil, false
	}
	db.ensureIndexes()
	i, ok := db.idxByID[strings.TrimSpace(id)]
	if !ok {
		return nil, false
	}
	return &db.Items[i], true
}

// ChildrenOf returns the children of parentItemID in rank order. "" is the root level.
func (db *DB) ChildrenOf(parentItemID string) []model.Item {
	if db == nil {
		return nil
	}
	db.ensureIndexes()
	return db.idxChildrenByParent[strings.TrimSpace(parentItemID)]
}

func (db *DB) Roots() []model.Item { return db.ChildrenOf("") }

// Depth returns the number of ancestors of id, or -1 for unknown ids.
func (db *DB) Depth(id string) int {
	it, ok := db.FindItem(id)
	if !ok {
		return -1
	}
	depth := 0
	seen := map[string]bool{it.ID: true}
	for pid := it.Parent(); pid != ""; {
		if seen[pid] {
			break
		}
		seen[pid] = true
		p, ok := db.FindItem(pid)
		if !ok {
			break
		}
		depth++
		pid = p.Parent()
	}
	return depth
}

// IsAncestor reports whether ancestorID lies on the parent chain of id.
func (db *DB) IsAncestor(ancestorID, id string) bool {
	seen := map[string]bool{}
	cur, ok := db.FindItem(id)
	for ok {
		pid := cur.Parent()
		if pid == "" || seen[pid] {
			return false
		}
		if pid == ancestorID {
			return true
		}
		seen[pid] = true
		cur, ok = db.FindItem(pid)
	}
	return false
}

// ItemMeta implements treeorder.Source.
func (db *DB) ItemMeta(id string) (treeorder.Meta, bool) {
	it, ok := db.FindItem(id)
	if !ok {
		return treeorder.Meta{}, false
	}
	return treeorder.Meta{
		ID:         it.ID,
		ParentID:   it.Parent(),
		Depth:      db.Depth(id),
		Disabled:   it.Disabled,
		Expandable: len(db.ChildrenOf(id)) > 0,
	}, true
}

// ChildrenIDs implements treeorder.Source.
func (db *DB) ChildrenIDs(parentID string) []string {
	kids := db.ChildrenOf(parentID)
	out := make([]string, 0, len(kids))
	for _, k := range kids {
		out = append(out, k.ID)
	}
	return out
}

// Clone returns a DB that shares no item storage with db.
func (db *DB) Clone() *DB {
	out := &DB{Version: db.Version, Items: make([]model.Item, len(db.Items))}
	copy(out.Items, db.Items)
	return out
}

// SetItems replaces the item slice in one step.
func (db *DB) SetItems(items []model.Item) {
	db.Items = items
	db.invalidate()
}
