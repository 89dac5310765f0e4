package cli

import (
	"github.com/spf13/cobra"

	"arbor-cli/internal/publish"
)

func newPublishCmd(app *App) *cobra.Command {
	var (
		to              string
		title           string
		overwrite       bool
		includeDisabled bool
	)

	cmd := &cobra.Command{
		Use:   "publish [item-id]",
		Short: "Write the tree (or a subtree) as markdown pages",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, _, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			rootID := ""
			if len(args) == 1 {
				rootID = args[0]
				if _, ok := db.FindItem(rootID); !ok {
					return writeErr(cmd, errNotFound("item", rootID))
				}
			}
			res, err := publish.WriteTree(db, rootID, to, publish.WriteOptions{
				IncludeDisabled: includeDisabled,
				Overwrite:       overwrite,
				Title:           title,
			})
			if err != nil {
				return writeErr(cmd, err)
			}
			app.Log.Info("published", "root", rootID, "to", to, "files", len(res.Written))
			return writeOut(cmd, app, map[string]any{"data": res})
		},
	}

	cmd.Flags().StringVar(&to, "to", "", "Output directory")
	cmd.Flags().StringVar(&title, "title", "", "Index page title")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Overwrite existing files")
	cmd.Flags().BoolVar(&includeDisabled, "include-disabled", false, "Include disabled items")
	_ = cmd.MarkFlagRequired("to")

	return cmd
}
