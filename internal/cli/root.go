package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"arbor-cli/internal/config"
	"arbor-cli/internal/format"
	"arbor-cli/internal/logging"
	"arbor-cli/internal/store"
)

type App struct {
	Dir        string
	ConfigPath string
	PrettyJSON bool
	Format     string

	Config config.Config
	Log    *slog.Logger

	logCloser io.Closer
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "arbor",
		Short:        "Arbor: a tree of items with multi-selection and drag reordering",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start the interactive tree view
  arbor

  # Scriptable commands
  arbor items add "Groceries"
  arbor tree show

  # Headless drag and drop
  arbor drop item-1a2b3c item-4d5e6f --action make-child

  # Direct item lookup (shortcut for: arbor items show <item-id>)
  arbor item-1a2b3c
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive TUI.
			if len(args) == 0 {
				return runTUI(cmd, app)
			}
			return cmd.Help()
		},
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(app.ConfigPath)
		if err != nil {
			return writeErr(cmd, err)
		}
		applyTreeFlags(cmd, &cfg)
		app.Config = cfg

		closer, err := logging.Init(logging.Options{
			Enabled: cfg.Log.Enabled,
			Dir:     cfg.Log.Dir,
			Level:   logging.ParseLevel(cfg.Log.Level),
		})
		if err != nil {
			return writeErr(cmd, fmt.Errorf("init logging: %w", err))
		}
		app.logCloser = closer
		app.Log = logging.L
		app.Log.Debug("command start", "cmd", cmd.CommandPath())
		return nil
	}

	cmd.PersistentPostRunE = func(cmd *cobra.Command, args []string) error {
		if app.logCloser != nil {
			return app.logCloser.Close()
		}
		return nil
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&app.Dir, "dir", envOr("ARBOR_DIR", ""), "Path to store dir (default: nearest .arbor/ upwards, else ./.arbor)")
	pf.StringVar(&app.ConfigPath, "config", "", "Config file (default: $ARBOR_CONFIG or ~/.config/arbor/config.yaml)")
	pf.BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print JSON/EDN output")
	pf.StringVar(&app.Format, "format", envOr("ARBOR_FORMAT", "json"), "Output format (json|yaml|edn)")

	pf.Bool("multi", true, "Allow selecting several items")
	pf.Bool("checkbox", false, "Select through checkboxes")
	pf.Bool("no-selection", false, "Disable selection")
	pf.Bool("propagate-parents", false, "Select a parent when all its children are selected")
	pf.Bool("propagate-descendants", false, "Select descendants together with their parent")
	pf.Bool("reorder", true, "Allow drag and drop reordering")
	pf.Bool("disabled-focusable", false, "Let disabled items take focus")

	cmd.AddCommand(newInitCmd(app))
	cmd.AddCommand(newConfigCmd(app))
	cmd.AddCommand(newItemsCmd(app))
	cmd.AddCommand(newTreeCmd(app))
	cmd.AddCommand(newImportCmd(app))
	cmd.AddCommand(newExportCmd(app))
	cmd.AddCommand(newEventsCmd(app))
	cmd.AddCommand(newSelectCmd(app))
	cmd.AddCommand(newDropCmd(app))
	cmd.AddCommand(newDocsCmd(app))
	cmd.AddCommand(newPublishCmd(app))

	return cmd
}

// applyTreeFlags lets explicitly set flags override the loaded config.
func applyTreeFlags(cmd *cobra.Command, cfg *config.Config) {
	fs := cmd.Flags()
	set := func(name string, dst *bool) {
		if !fs.Changed(name) {
			return
		}
		if v, err := fs.GetBool(name); err == nil {
			*dst = v
		}
	}
	set("multi", &cfg.Tree.MultiSelect)
	set("checkbox", &cfg.Tree.CheckboxSelection)
	set("no-selection", &cfg.Tree.DisableSelection)
	set("propagate-parents", &cfg.Tree.Propagation.Parents)
	set("propagate-descendants", &cfg.Tree.Propagation.Descendants)
	set("reorder", &cfg.Tree.ItemsReordering)
	set("disabled-focusable", &cfg.Tree.DisabledItemsFocusable)
}

func storeFor(app *App) (store.Store, error) {
	dir := app.Dir
	if dir == "" {
		d, err := store.DefaultDir()
		if err != nil {
			return store.Store{}, err
		}
		dir = d
		app.Dir = dir
	}
	return store.Store{Dir: dir}, nil
}

func loadDB(app *App) (*store.DB, store.Store, error) {
	s, err := storeFor(app)
	if err != nil {
		return nil, s, err
	}
	db, err := s.Load()
	if err != nil {
		return nil, s, err
	}
	return db, s, nil
}

func loadWorkspace(app *App) (*store.Workspace, error) {
	db, s, err := loadDB(app)
	if err != nil {
		return nil, err
	}
	return &store.Workspace{Store: s, DB: db}, nil
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	return format.Write(cmd.OutOrStdout(), v, app.Format, app.PrettyJSON)
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}
