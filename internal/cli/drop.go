package cli

import (
	"github.com/spf13/cobra"

	"arbor-cli/internal/reorder"
)

func newDropCmd(app *App) *cobra.Command {
	var actionName string
	cmd := &cobra.Command{
		Use:   "drop <dragged-id> <target-id>",
		Short: "Drag an item onto a target and drop it with an action",
		Long: `Run a whole drag and drop without a pointer. The action must be one of
the valid actions for the pair:

  reorder-above   (above, before)
  reorder-below   (below, after)
  make-child      (child, into)
  move-to-parent  (parent, outdent)

Locked items cannot be dragged and leaf items do not accept children.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			action, ok := reorder.ParseAction(actionName)
			if !ok {
				return writeErr(cmd, errInvalidAction(actionName))
			}
			w, err := loadWorkspace(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := requireItems(w.DB, args...); err != nil {
				return writeErr(cmd, err)
			}
			tv, err := headlessView(app, w.DB, w, nil, nil)
			if err != nil {
				return writeErr(cmd, err)
			}
			p, err := tv.API().Drop(args[0], args[1], action)
			if err != nil {
				return writeErr(cmd, storeErr(args[0], err))
			}
			moved := p.OldPosition != p.NewPosition
			if moved {
				app.Log.Info("drop", "item", p.ItemID, "action", action, "parent", p.NewPosition.ParentID, "index", p.NewPosition.Index)
			}
			it, _ := w.DB.FindItem(args[0])
			return writeOut(cmd, app, map[string]any{"data": map[string]any{
				"action": action,
				"moved":  moved,
				"move":   p,
				"item":   viewItem(w.DB, *it),
			}})
		},
	}
	cmd.Flags().StringVar(&actionName, "action", string(reorder.ActionReorderBelow), "Drop action")
	return cmd
}
