package publish

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"arbor-cli/internal/store"
)

type WriteOptions struct {
	IncludeDisabled bool
	Overwrite       bool
	Title           string
}

type WriteResult struct {
	Written []string `json:"written"`
}

// WriteTree writes index.md for the tree under rootID ("" for the whole
// tree) plus one page per item under items/.
func WriteTree(db *store.DB, rootID string, toDir string, opt WriteOptions) (WriteResult, error) {
	if db == nil {
		return WriteResult{}, errors.New("missing db")
	}
	toDir = strings.TrimSpace(toDir)
	if toDir == "" {
		return WriteResult{}, errors.New("missing --to")
	}
	toDir = filepath.Clean(toDir)
	rootID = strings.TrimSpace(rootID)

	ropt := RenderOptions{IncludeDisabled: opt.IncludeDisabled, Title: opt.Title}
	indexMD, err := RenderTreeMarkdown(db, rootID, ropt)
	if err != nil {
		return WriteResult{}, err
	}

	itemsDir := filepath.Join(toDir, "items")
	if err := os.MkdirAll(itemsDir, 0o755); err != nil {
		return WriteResult{}, err
	}
	indexPath := filepath.Join(toDir, "index.md")
	if err := writeFile(indexPath, []byte(indexMD), opt.Overwrite); err != nil {
		return WriteResult{}, err
	}

	// Stop on the first failing page.
	written := []string{indexPath}
	for _, it := range subtree(db, rootID, opt.IncludeDisabled) {
		md, err := RenderItemMarkdown(db, it.ID, ropt)
		if err != nil {
			return WriteResult{}, err
		}
		p := filepath.Join(itemsDir, it.ID+".md")
		if err := writeFile(p, []byte(md), opt.Overwrite); err != nil {
			return WriteResult{}, err
		}
		written = append(written, p)
	}
	return WriteResult{Written: written}, nil
}

func writeFile(path string, b []byte, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return errors.New("file exists (use --overwrite): " + path)
		}
	}
	return os.WriteFile(path, b, 0o644)
}
