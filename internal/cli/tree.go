package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss/tree"
	"github.com/spf13/cobra"

	"arbor-cli/internal/model"
	"arbor-cli/internal/store"
)

func newTreeCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tree",
		Short: "Render the item tree",
	}
	var (
		ascii  bool
		showID bool
	)
	show := &cobra.Command{
		Use:   "show [item-id]",
		Short: "Print the tree (or the subtree below item-id) as text",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, _, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			t := tree.New()
			if len(args) == 1 {
				it, ok := db.FindItem(args[0])
				if !ok {
					return writeErr(cmd, errNotFound("item", args[0]))
				}
				t = tree.Root(nodeLabel(*it, showID))
			}
			if ascii {
				t = t.Enumerator(asciiEnumerator).Indenter(asciiIndenter)
			}
			root := ""
			if len(args) == 1 {
				root = args[0]
			}
			addChildren(t, db, root, showID)
			out := t.String()
			if out == "" {
				out = "(empty)"
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), out)
			return err
		},
	}
	show.Flags().BoolVar(&ascii, "ascii", false, "Use ASCII branch glyphs")
	show.Flags().BoolVar(&showID, "ids", true, "Print item ids next to labels")
	cmd.AddCommand(show)
	return cmd
}

func addChildren(t *tree.Tree, db *store.DB, parentID string, showID bool) {
	for _, child := range db.ChildrenOf(parentID) {
		if len(db.ChildrenOf(child.ID)) == 0 {
			t.Child(nodeLabel(child, showID))
			continue
		}
		sub := tree.Root(nodeLabel(child, showID))
		addChildren(sub, db, child.ID, showID)
		t.Child(sub)
	}
}

func nodeLabel(it model.Item, showID bool) string {
	var b strings.Builder
	b.WriteString(it.Label)
	var tags []string
	if it.Disabled {
		tags = append(tags, "disabled")
	}
	if it.Locked {
		tags = append(tags, "locked")
	}
	if it.Leaf {
		tags = append(tags, "leaf")
	}
	if len(tags) > 0 {
		b.WriteString(" [" + strings.Join(tags, ",") + "]")
	}
	if showID {
		b.WriteString("  (" + it.ID + ")")
	}
	return b.String()
}

func asciiEnumerator(children tree.Children, index int) string {
	if children.Length()-1 == index {
		return "`--"
	}
	return "|--"
}

func asciiIndenter(children tree.Children, index int) string {
	if children.Length()-1 == index {
		return "   "
	}
	return "|  "
}
