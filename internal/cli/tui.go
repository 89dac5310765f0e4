package cli

import (
	"os"

	"github.com/spf13/cobra"

	"arbor-cli/internal/reorder"
	"arbor-cli/internal/treeview"
	"arbor-cli/internal/tui"
)

func runTUI(cmd *cobra.Command, app *App) error {
	w, err := loadWorkspace(app)
	if err != nil {
		return writeErr(cmd, err)
	}
	opts := treeview.OptionsFromConfig(app.Config.Tree)
	opts.Platform = reorder.DetectPlatform(os.Getenv)
	if err := tui.Run(tui.Options{
		Workspace: w,
		Tree:      opts,
		TUI:       app.Config.TUI,
		Logger:    app.Log,
	}); err != nil {
		return writeErr(cmd, err)
	}
	return nil
}
