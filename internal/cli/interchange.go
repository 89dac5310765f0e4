package cli

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"arbor-cli/internal/store"
)

func interchangeFormat(as, path string) (string, error) {
	switch f := strings.ToLower(strings.TrimSpace(as)); f {
	case "":
		return store.FormatFromPath(path), nil
	case store.FormatJSON, store.FormatYAML:
		return f, nil
	case "yml":
		return store.FormatYAML, nil
	default:
		return "", fmt.Errorf("unsupported document format %q (json|yaml)", as)
	}
}

func newImportCmd(app *App) *cobra.Command {
	var (
		as      string
		replace bool
	)
	cmd := &cobra.Command{
		Use:   "import <file|->",
		Short: "Import a nested item document (JSON or YAML)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fmtName, err := interchangeFormat(as, args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			in := cmd.InOrStdin()
			if args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return writeErr(cmd, err)
				}
				defer f.Close()
				in = f
			}
			doc, err := store.Decode(in, fmtName)
			if err != nil {
				return writeErr(cmd, err)
			}

			db, s, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			n, err := store.Import(db, doc, replace, time.Now().UTC())
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := s.Save(db); err != nil {
				return writeErr(cmd, err)
			}
			if err := s.AppendEvent("tree.import", "", map[string]any{"items": n, "replace": replace}); err != nil {
				return writeErr(cmd, err)
			}
			app.Log.Info("import", "items", n, "replace", replace)
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"imported": n, "total": len(db.Items)}})
		},
	}
	cmd.Flags().StringVar(&as, "as", "", "Document format (json|yaml; default: from file extension)")
	cmd.Flags().BoolVar(&replace, "replace", false, "Replace all existing items")
	return cmd
}

func newExportCmd(app *App) *cobra.Command {
	var (
		as  string
		out string
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the tree as a nested document (JSON or YAML)",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmtName, err := interchangeFormat(as, out)
			if err != nil {
				return writeErr(cmd, err)
			}
			db, _, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			w := cmd.OutOrStdout()
			if out != "" && out != "-" {
				f, err := os.Create(out)
				if err != nil {
					return writeErr(cmd, err)
				}
				defer f.Close()
				w = f
			}
			if err := store.Encode(w, store.Export(db), fmtName); err != nil {
				return writeErr(cmd, err)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&as, "as", "", "Document format (json|yaml; default: from -o extension, else json)")
	cmd.Flags().StringVarP(&out, "output", "o", "", "Write to a file instead of stdout")
	return cmd
}
