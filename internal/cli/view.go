package cli

import (
	"os"
	"strings"

	"arbor-cli/internal/reorder"
	"arbor-cli/internal/store"
	"arbor-cli/internal/treeview"
)

// headlessView builds a tree view over db for scripted selection and drops.
// With no explicit expansion every parent is expanded, so ranges and
// navigation cover the whole tree.
func headlessView(app *App, db *store.DB, mover reorder.Mover, expanded []string, mutate func(*treeview.Options)) (*treeview.TreeView, error) {
	opts := treeview.OptionsFromConfig(app.Config.Tree)
	opts.Logger = app.Log
	opts.Mover = mover
	opts.Platform = reorder.DetectPlatform(os.Getenv)
	if mover == nil {
		opts.ItemsReordering = false
	}
	if len(expanded) == 0 {
		for _, it := range db.Items {
			if len(db.ChildrenOf(it.ID)) > 0 {
				expanded = append(expanded, it.ID)
			}
		}
	}
	opts.DefaultExpandedItems = expanded
	if mutate != nil {
		mutate(&opts)
	}
	return treeview.New(opts, db)
}

func splitIDs(vals []string) []string {
	var out []string
	for _, v := range vals {
		for _, id := range strings.Split(v, ",") {
			if id = strings.TrimSpace(id); id != "" {
				out = append(out, id)
			}
		}
	}
	return out
}
