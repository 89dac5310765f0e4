package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"arbor-cli/internal/model"
)

func newEventsCmd(app *App) *cobra.Command {
	var (
		limit  int
		itemID string
	)

	cmd := &cobra.Command{
		Use:   "events",
		Short: "Inspect the local event log",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List events (oldest-first, newest N when limited)",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, s, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			var evs []model.Event
			if id := strings.TrimSpace(itemID); id != "" {
				evs, err = s.ReadEventsForEntity(id, limit)
			} else {
				evs, err = s.ReadEvents(limit)
			}
			if err != nil {
				return writeErr(cmd, err)
			}
			if evs == nil {
				evs = []model.Event{}
			}
			return writeOut(cmd, app, map[string]any{"data": evs})
		},
	}
	listCmd.Flags().IntVar(&limit, "limit", 200, "Max events to return (0 = all)")
	listCmd.Flags().StringVar(&itemID, "item", "", "Only events for this item id")

	cmd.AddCommand(listCmd)
	return cmd
}
