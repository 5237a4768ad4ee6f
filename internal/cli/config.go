package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/matzehuels/quilt/internal/server"
	"github.com/matzehuels/quilt/pkg/cache"
	"github.com/matzehuels/quilt/pkg/pipeline"
)

// Config is the CLI configuration file.
//
//	[layout]
//	direction = "vertical"
//	viewport_width = 1200
//
//	[cache]
//	backend = "redis"
//	redis_addr = "localhost:6379"
//
//	[serve]
//	addr = ":8080"
type Config struct {
	Layout LayoutConfig `toml:"layout"`
	Cache  cache.Config `toml:"cache"`
	Serve  ServeConfig  `toml:"serve"`
}

// LayoutConfig holds default layout and render settings. Zero values defer
// to the document.
type LayoutConfig struct {
	Direction      string   `toml:"direction"`
	CellWidth      float64  `toml:"cell_width"`
	CellHeight     float64  `toml:"cell_height"`
	ViewportWidth  float64  `toml:"viewport_width"`
	ViewportHeight float64  `toml:"viewport_height"`
	Formats        []string `toml:"formats"`
	Grid           bool     `toml:"grid"`
}

// ServeConfig configures the serve command.
type ServeConfig struct {
	Addr         string `toml:"addr"`
	MaxBodyBytes int64  `toml:"max_body_bytes"`
	KeyPrefix    string `toml:"key_prefix"`
}

func defaultConfig() Config {
	return Config{
		Cache: cache.Config{Backend: cache.BackendFile},
		Serve: ServeConfig{
			Addr:         server.DefaultAddr,
			MaxBodyBytes: server.DefaultMaxBodyBytes,
			KeyPrefix:    "api:",
		},
	}
}

// configPath returns the default config file location.
func configPath() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// loadConfig reads path over the defaults. An empty path means the default
// location, which may be absent; an explicit path must exist.
func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()
	explicit := path != ""
	if !explicit {
		p, err := configPath()
		if err != nil {
			return cfg, nil
		}
		path = p
	}

	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return defaultConfig(), nil
		}
		return Config{}, fmt.Errorf("load config %s: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, fmt.Errorf("load config %s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	return cfg, nil
}

// layoutFlags are the grid overrides shared by every command that packs.
type layoutFlags struct {
	direction      string
	cellWidth      float64
	cellHeight     float64
	viewportWidth  float64
	viewportHeight float64
}

func (f *layoutFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.direction, "direction", "d", "", "growth direction: vertical, horizontal (default: from document)")
	cmd.Flags().Float64Var(&f.cellWidth, "cell-width", 0, "cell width in pixels")
	cmd.Flags().Float64Var(&f.cellHeight, "cell-height", 0, "cell height in pixels")
	cmd.Flags().Float64Var(&f.viewportWidth, "width", 0, "viewport width in pixels")
	cmd.Flags().Float64Var(&f.viewportHeight, "height", 0, "viewport height in pixels")
	_ = cmd.RegisterFlagCompletionFunc("direction", completeDirections)
}

// options merges the flags over cfg. A flag counts only when it was set.
func (f *layoutFlags) options(cmd *cobra.Command, cfg LayoutConfig) pipeline.Options {
	opts := pipeline.Options{
		Direction:      cfg.Direction,
		CellWidth:      cfg.CellWidth,
		CellHeight:     cfg.CellHeight,
		ViewportWidth:  cfg.ViewportWidth,
		ViewportHeight: cfg.ViewportHeight,
		Formats:        cfg.Formats,
		Grid:           cfg.Grid,
	}
	flags := cmd.Flags()
	if flags.Changed("direction") {
		opts.Direction = f.direction
	}
	if flags.Changed("cell-width") || flags.Changed("cell-height") {
		opts.CellWidth, opts.CellHeight = f.cellWidth, f.cellHeight
		if opts.CellWidth == 0 {
			opts.CellWidth = opts.CellHeight
		}
		if opts.CellHeight == 0 {
			opts.CellHeight = opts.CellWidth
		}
	}
	if flags.Changed("width") {
		opts.ViewportWidth = f.viewportWidth
	}
	if flags.Changed("height") {
		opts.ViewportHeight = f.viewportHeight
	}
	return opts
}
