package cli

import (
	"github.com/spf13/cobra"

	"arbor-cli/internal/event"
	"arbor-cli/internal/selection"
	"arbor-cli/internal/store"
	"arbor-cli/internal/treeview"
)

type selectionToggle struct {
	ID       string `json:"id" yaml:"id"`
	Selected bool   `json:"selected" yaml:"selected"`
}

type selectionResult struct {
	Selected selection.Model   `json:"selected" yaml:"selected"`
	Toggles  []selectionToggle `json:"toggles" yaml:"toggles"`
	Changes  int               `json:"changes" yaml:"changes"`
}

// newSelectCmd runs one selection operation against a fresh selection seeded
// by --initial. Selection is session state, so nothing is written to the
// store.
func newSelectCmd(app *App) *cobra.Command {
	var (
		initial  []string
		expanded []string
	)
	cmd := &cobra.Command{
		Use:   "select",
		Short: "Evaluate selection operations headlessly",
		Long: `Evaluate a selection operation against the stored tree and print the
resulting selection, the per-item toggles and the number of change
notifications. Tree options come from the config file and the global
--multi/--checkbox/--propagate-* flags.`,
	}
	cmd.PersistentFlags().StringSliceVar(&initial, "initial", nil, "Items selected before the operation (comma separated)")
	cmd.PersistentFlags().StringSliceVar(&expanded, "expanded", nil, "Expanded items (default: all)")

	// run validates args and initial ids, then applies op.
	run := func(cmd *cobra.Command, args []string, op func(api treeview.PublicAPI, tv *treeview.TreeView)) error {
		db, _, err := loadDB(app)
		if err != nil {
			return writeErr(cmd, err)
		}
		if err := requireItems(db, append(splitIDs(initial), args...)...); err != nil {
			return writeErr(cmd, err)
		}
		res := selectionResult{Toggles: []selectionToggle{}}
		tv, err := headlessView(app, db, nil, splitIDs(expanded), func(o *treeview.Options) {
			if ids := splitIDs(initial); len(ids) > 0 {
				o.DefaultSelectedItems = selection.Multi(ids...).As(o.MultiSelect)
			}
			o.OnItemSelectionToggle = func(_ event.Event, id string, selected bool) {
				res.Toggles = append(res.Toggles, selectionToggle{ID: id, Selected: selected})
			}
			o.OnSelectedItemsChange = func(event.Event, selection.Model) { res.Changes++ }
		})
		if err != nil {
			return writeErr(cmd, err)
		}
		op(tv.API(), tv)
		res.Selected = tv.API().SelectedItems()
		return writeOut(cmd, app, map[string]any{"data": res})
	}

	var (
		keep bool
		on   bool
		off  bool
	)
	itemCmd := &cobra.Command{
		Use:   "item <item-id>",
		Short: "Select an item (--on/--off force the state, otherwise toggle)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, args, func(api treeview.PublicAPI, _ *treeview.TreeView) {
				var want *bool
				switch {
				case on && !off:
					want = selection.Bool(true)
				case off && !on:
					want = selection.Bool(false)
				}
				api.SelectItem(args[0], keep, want)
			})
		},
	}
	itemCmd.Flags().BoolVar(&keep, "keep", false, "Keep the existing selection")
	itemCmd.Flags().BoolVar(&on, "on", false, "Force selected")
	itemCmd.Flags().BoolVar(&off, "off", false, "Force deselected")

	rangeCmd := &cobra.Command{
		Use:   "range <start> <end>",
		Short: "Replace the last range with the navigable items from start to end",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, args, func(_ treeview.PublicAPI, tv *treeview.TreeView) {
				tv.Selection().SelectRange(event.Event{Kind: event.KindAPI}, args[0], args[1])
			})
		},
	}

	var anchor string
	extendCmd := &cobra.Command{
		Use:   "extend <item-id>",
		Short: "Extend the selection from the anchor to an item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if anchor != "" {
				args = append(args, anchor)
			}
			return run(cmd, args, func(api treeview.PublicAPI, _ *treeview.TreeView) {
				if anchor != "" {
					api.SelectItem(anchor, true, selection.Bool(true))
				}
				api.ExpandSelectionRange(args[0])
			})
		},
	}
	extendCmd.Flags().StringVar(&anchor, "anchor", "", "Select this item first to set the anchor")

	startCmd := &cobra.Command{
		Use:   "to-start <item-id>",
		Short: "Select from the first navigable item to an item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, args, func(api treeview.PublicAPI, _ *treeview.TreeView) {
				api.SelectRangeFromStartToItem(args[0])
			})
		},
	}
	endCmd := &cobra.Command{
		Use:   "to-end <item-id>",
		Short: "Select from an item to the last navigable item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, args, func(api treeview.PublicAPI, _ *treeview.TreeView) {
				api.SelectRangeFromItemToEnd(args[0])
			})
		},
	}
	arrowCmd := &cobra.Command{
		Use:   "arrow <current> <next>",
		Short: "Apply a shift+arrow step from current to next",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, args, func(api treeview.PublicAPI, _ *treeview.TreeView) {
				api.SelectItemFromArrowNavigation(args[0], args[1])
			})
		},
	}
	allCmd := &cobra.Command{
		Use:   "all",
		Short: "Select every navigable, enabled item",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, args, func(api treeview.PublicAPI, _ *treeview.TreeView) {
				api.SelectAllNavigableItems()
			})
		},
	}

	cmd.AddCommand(itemCmd, rangeCmd, extendCmd, startCmd, endCmd, arrowCmd, allCmd)
	return cmd
}

func requireItems(db *store.DB, ids ...string) error {
	for _, id := range ids {
		if _, ok := db.FindItem(id); !ok {
			return errNotFound("item", id)
		}
	}
	return nil
}
