package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Tree TreeConfig `mapstructure:"tree" json:"tree"`
	TUI  TUIConfig  `mapstructure:"tui" json:"tui"`
	Log  LogConfig  `mapstructure:"log" json:"log"`
}

// TreeConfig is fixed per tree-view instance.
type TreeConfig struct {
	MultiSelect            bool              `mapstructure:"multi_select" json:"multi_select"`
	CheckboxSelection      bool              `mapstructure:"checkbox_selection" json:"checkbox_selection"`
	DisableSelection       bool              `mapstructure:"disable_selection" json:"disable_selection"`
	Propagation            PropagationConfig `mapstructure:"propagation" json:"propagation"`
	ItemsReordering        bool              `mapstructure:"items_reordering" json:"items_reordering"`
	DisabledItemsFocusable bool              `mapstructure:"disabled_items_focusable" json:"disabled_items_focusable"`
}

type PropagationConfig struct {
	Parents     bool `mapstructure:"parents" json:"parents"`
	Descendants bool `mapstructure:"descendants" json:"descendants"`
}

type TUIConfig struct {
	Glyphs    string `mapstructure:"glyphs" json:"glyphs"`
	RowHeight int    `mapstructure:"row_height" json:"row_height"`
	Indent    int    `mapstructure:"indent" json:"indent"`
	Mouse     bool   `mapstructure:"mouse" json:"mouse"`
}

type LogConfig struct {
	Enabled bool   `mapstructure:"enabled" json:"enabled"`
	Dir     string `mapstructure:"dir" json:"dir"`
	Level   string `mapstructure:"level" json:"level"`
}

const envPrefix = "ARBOR"

func setDefaults(v *viper.Viper) {
	v.SetDefault("tree.multi_select", true)
	v.SetDefault("tree.checkbox_selection", false)
	v.SetDefault("tree.disable_selection", false)
	v.SetDefault("tree.propagation.parents", false)
	v.SetDefault("tree.propagation.descendants", false)
	v.SetDefault("tree.items_reordering", true)
	v.SetDefault("tree.disabled_items_focusable", false)
	v.SetDefault("tui.glyphs", "unicode")
	v.SetDefault("tui.row_height", 1)
	v.SetDefault("tui.indent", 2)
	v.SetDefault("tui.mouse", true)
	v.SetDefault("log.enabled", false)
	v.SetDefault("log.dir", "")
	v.SetDefault("log.level", "info")
}

// DefaultPath is where Load looks when neither an explicit path nor
// ARBOR_CONFIG is set.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "arbor", "config.yaml")
}

// Load reads configuration from file and env. Env var overrides use prefix ARBOR_
// (ARBOR_TREE_MULTI_SELECT=false). An explicit path that cannot be read is an
// error; a missing default config file is not.
func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v)

	explicit := strings.TrimSpace(path)
	if explicit == "" {
		explicit = strings.TrimSpace(os.Getenv(envPrefix + "_CONFIG"))
	}
	if explicit != "" {
		v.SetConfigFile(explicit)
	} else if def := DefaultPath(); def != "" {
		v.AddConfigPath(filepath.Dir(def))
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if explicit != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	c.normalize()
	return c, nil
}

func (c *Config) normalize() {
	if c.TUI.RowHeight < 1 {
		c.TUI.RowHeight = 1
	}
	if c.TUI.Indent < 1 {
		c.TUI.Indent = 2
	}
	c.TUI.Glyphs = strings.ToLower(strings.TrimSpace(c.TUI.Glyphs))
	if c.TUI.Glyphs == "" {
		c.TUI.Glyphs = "unicode"
	}
}

// Save writes cfg as YAML, creating the directory if needed.
func Save(path string, cfg Config) error {
	if strings.TrimSpace(path) == "" {
		path = DefaultPath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigType("yaml")
	v.Set("tree.multi_select", cfg.Tree.MultiSelect)
	v.Set("tree.checkbox_selection", cfg.Tree.CheckboxSelection)
	v.Set("tree.disable_selection", cfg.Tree.DisableSelection)
	v.Set("tree.propagation.parents", cfg.Tree.Propagation.Parents)
	v.Set("tree.propagation.descendants", cfg.Tree.Propagation.Descendants)
	v.Set("tree.items_reordering", cfg.Tree.ItemsReordering)
	v.Set("tree.disabled_items_focusable", cfg.Tree.DisabledItemsFocusable)
	v.Set("tui.glyphs", cfg.TUI.Glyphs)
	v.Set("tui.row_height", cfg.TUI.RowHeight)
	v.Set("tui.indent", cfg.TUI.Indent)
	v.Set("tui.mouse", cfg.TUI.Mouse)
	v.Set("log.enabled", cfg.Log.Enabled)
	v.Set("log.dir", cfg.Log.Dir)
	v.Set("log.level", cfg.Log.Level)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
