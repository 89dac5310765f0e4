package cli

import (
	"errors"
	"slices"

	"github.com/spf13/cobra"

	"arbor-cli/internal/reorder"
	"arbor-cli/internal/store"
)

func newItemsMoveCmd(app *App) *cobra.Command {
	var (
		before string
		after  string
		parent string
		root   bool
		index  int
	)
	cmd := &cobra.Command{
		Use:   "move <item-id>",
		Short: "Move an item to a new parent and/or sibling position",
		Long: `Move an item. Provide exactly one destination:

  --before <id> / --after <id>   next to a reference item (any parent)
  --parent <id> [--index N]      under a parent (default: last child)
  --root [--index N]             at the root level (default: last)

The index counts siblings after the item has been taken out of its
current place.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := loadWorkspace(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			id := args[0]
			it, ok := w.DB.FindItem(id)
			if !ok {
				return writeErr(cmd, errNotFound("item", id))
			}

			n := 0
			for _, set := range []bool{before != "", after != "", parent != "", root} {
				if set {
					n++
				}
			}
			if n != 1 {
				return writeErr(cmd, errors.New("provide exactly one of --before, --after, --parent or --root"))
			}

			p := reorder.MoveParams{
				ItemID:      id,
				OldPosition: reorder.Position{ParentID: it.Parent(), Index: slices.Index(w.DB.ChildrenIDs(it.Parent()), id)},
			}
			switch {
			case before != "" || after != "":
				ref := before
				if ref == "" {
					ref = after
				}
				r, ok := w.DB.FindItem(ref)
				if !ok {
					return writeErr(cmd, errNotFound("item", ref))
				}
				if ref == id {
					return writeErr(cmd, errors.New("cannot move an item next to itself"))
				}
				sibs := siblingsWithout(w.DB, r.Parent(), id)
				i := slices.Index(sibs, ref)
				if after != "" {
					i++
				}
				p.NewPosition = reorder.Position{ParentID: r.Parent(), Index: i}
			default:
				dest := parent
				if root {
					dest = ""
				}
				if dest != "" {
					if _, ok := w.DB.FindItem(dest); !ok {
						return writeErr(cmd, errNotFound("item", dest))
					}
				}
				i := index
				if i < 0 {
					i = len(siblingsWithout(w.DB, dest, id))
				}
				p.NewPosition = reorder.Position{ParentID: dest, Index: i}
			}

			if err := w.MoveItem(p); err != nil {
				return writeErr(cmd, storeErr(id, err))
			}
			app.Log.Info("item moved", "id", id, "parent", p.NewPosition.ParentID, "index", p.NewPosition.Index)
			moved, _ := w.DB.FindItem(id)
			return writeOut(cmd, app, map[string]any{"data": map[string]any{
				"move": p,
				"item": viewItem(w.DB, *moved),
			}})
		},
	}
	cmd.Flags().StringVar(&before, "before", "", "Place directly above this item")
	cmd.Flags().StringVar(&after, "after", "", "Place directly below this item")
	cmd.Flags().StringVar(&parent, "parent", "", "New parent item id")
	cmd.Flags().BoolVar(&root, "root", false, "Move to the root level")
	cmd.Flags().IntVar(&index, "index", -1, "Position among the new siblings (default: last)")
	return cmd
}

func siblingsWithout(db *store.DB, parentID, id string) []string {
	return slices.DeleteFunc(db.ChildrenIDs(parentID), func(s string) bool { return s == id })
}
