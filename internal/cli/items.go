package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"arbor-cli/internal/model"
	"arbor-cli/internal/store"
)

func newItemsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "items",
		Aliases: []string{"item"},
		Short:   "Create, inspect and edit items",
	}
	cmd.AddCommand(newItemsAddCmd(app))
	cmd.AddCommand(newItemsListCmd(app))
	cmd.AddCommand(newItemsShowCmd(app))
	cmd.AddCommand(newItemsRenameCmd(app))
	cmd.AddCommand(newItemsFlagCmd(app, "disable", "Disable an item (not selectable, skipped by ranges)", func(w *store.Workspace, id string) error { return w.SetDisabled(id, true) }))
	cmd.AddCommand(newItemsFlagCmd(app, "enable", "Enable a disabled item", func(w *store.Workspace, id string) error { return w.SetDisabled(id, false) }))
	cmd.AddCommand(newItemsFlagCmd(app, "lock", "Lock an item so it cannot be dragged", func(w *store.Workspace, id string) error { return w.SetLocked(id, true) }))
	cmd.AddCommand(newItemsFlagCmd(app, "unlock", "Allow dragging a locked item", func(w *store.Workspace, id string) error { return w.SetLocked(id, false) }))
	cmd.AddCommand(newItemsDeleteCmd(app))
	cmd.AddCommand(newItemsMoveCmd(app))
	return cmd
}

// itemView is the CLI shape of one item: the stored fields plus derived tree
// position.
type itemView struct {
	model.Item
	Depth    int      `json:"depth" yaml:"depth"`
	Index    int      `json:"index" yaml:"index"`
	Children []string `json:"children" yaml:"children"`
}

func viewItem(db *store.DB, it model.Item) itemView {
	v := itemView{Item: it, Depth: db.Depth(it.ID), Index: -1, Children: db.ChildrenIDs(it.ID)}
	if v.Children == nil {
		v.Children = []string{}
	}
	for i, id := range db.ChildrenIDs(it.Parent()) {
		if id == it.ID {
			v.Index = i
			break
		}
	}
	return v
}

func newItemsAddCmd(app *App) *cobra.Command {
	var (
		parent   string
		disabled bool
	)
	cmd := &cobra.Command{
		Use:   "add <label>",
		Short: "Add an item as the last child of --parent (or the last root)",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := loadWorkspace(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			it, err := w.AddItem(strings.Join(args, " "), parent, disabled)
			if err != nil {
				return writeErr(cmd, storeErr(parent, err))
			}
			app.Log.Info("item added", "id", it.ID, "parent", parent)
			return writeOut(cmd, app, map[string]any{"data": viewItem(w.DB, it)})
		},
	}
	cmd.Flags().StringVar(&parent, "parent", "", "Parent item id (default: root level)")
	cmd.Flags().BoolVar(&disabled, "disabled", false, "Create the item disabled")
	return cmd
}

func newItemsListCmd(app *App) *cobra.Command {
	var parent string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List items in tree order (depth-first)",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, _, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			if parent != "" {
				if _, ok := db.FindItem(parent); !ok {
					return writeErr(cmd, errNotFound("item", parent))
				}
			}
			out := []itemView{}
			var walk func(id string)
			walk = func(id string) {
				for _, child := range db.ChildrenOf(id) {
					out = append(out, viewItem(db, child))
					walk(child.ID)
				}
			}
			walk(parent)
			return writeOut(cmd, app, map[string]any{"data": out})
		},
	}
	cmd.Flags().StringVar(&parent, "parent", "", "Only the subtree below this item")
	return cmd
}

func newItemsShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <item-id>",
		Short: "Show one item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, _, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			it, ok := db.FindItem(args[0])
			if !ok {
				return writeErr(cmd, errNotFound("item", args[0]))
			}
			return writeOut(cmd, app, map[string]any{"data": viewItem(db, *it)})
		},
	}
}

func newItemsRenameCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "rename <item-id> <label>",
		Short: "Change an item's label",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := loadWorkspace(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			id := args[0]
			if err := w.RenameItem(id, strings.Join(args[1:], " ")); err != nil {
				return writeErr(cmd, storeErr(id, err))
			}
			it, _ := w.DB.FindItem(id)
			return writeOut(cmd, app, map[string]any{"data": viewItem(w.DB, *it)})
		},
	}
}

func newItemsFlagCmd(app *App, use, short string, apply func(w *store.Workspace, id string) error) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <item-id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := loadWorkspace(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			id := args[0]
			if err := apply(w, id); err != nil {
				return writeErr(cmd, storeErr(id, err))
			}
			it, _ := w.DB.FindItem(id)
			return writeOut(cmd, app, map[string]any{"data": viewItem(w.DB, *it)})
		},
	}
}

func newItemsDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <item-id>",
		Short: "Delete an item and everything below it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := loadWorkspace(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			n, err := w.DeleteItem(args[0])
			if err != nil {
				return writeErr(cmd, storeErr(args[0], err))
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"id": args[0], "deleted": n}})
		},
	}
}
