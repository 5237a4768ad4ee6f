// Package cli implements the quilt command-line interface.
//
// This package provides commands for packing quilt documents, rendering
// them, inspecting placements and browsing a quilt interactively. The CLI is
// built using cobra and logs through charmbracelet/log.
//
// # Commands
//
// The main commands are:
//   - pack: Compute the full layout of a document
//   - render: Generate SVG, JSON, text, PNG or PDF output
//   - inspect: Print placements as a table
//   - browse: Scroll through a lazily packed quilt
//   - serve: Run the HTTP API
//   - cache: Manage the layout cache
//
// # Configuration
//
// Defaults are read from $XDG_CONFIG_HOME/quilt/config.toml (or --config).
// Flags override file values, and file values override the document.
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context to allow structured progress tracking.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/quilt/pkg/buildinfo"
	"github.com/matzehuels/quilt/pkg/cache"
	"github.com/matzehuels/quilt/pkg/observability"
	"github.com/matzehuels/quilt/pkg/pipeline"
)

const (
	// appName is the application name used for directories and display.
	appName = "quilt"

	// layoutSuffix marks files written by the pack command.
	layoutSuffix = ".layout.json"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	Config Config

	configPath string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: defaultConfig(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:   appName,
		Short: "Quilt packs variable-size tiles into a scrolling grid",
		Long: `Quilt packs items of different block sizes into a grid that is bounded on
one axis and grows along the other, the way a mosaic photo wall scrolls.

Documents are JSON or TOML files listing sections of items. Layouts can be
computed in full, rendered, inspected, or browsed lazily one screen at a time.`,
		Version:       buildinfo.Get().Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if verbose {
				c.SetLogLevel(LogDebug)
				observability.Install(observability.NewLogHooks(c.Logger))
			}
			cfg, err := loadConfig(c.configPath)
			if err != nil {
				return err
			}
			c.Config = cfg
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/quilt/config.toml)")

	root.AddCommand(c.packCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.browseCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, noCache bool, keyer cache.Keyer) (*pipeline.Runner, error) {
	cc, err := c.openCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(cc, keyer, c.Logger), nil
}

// openCache opens the configured backend. A file backend without a
// directory uses the XDG cache directory; when that cannot be resolved
// caching is disabled.
func (c *CLI) openCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	cfg := c.Config.Cache
	if cfg.Backend == "" || cfg.Backend == cache.BackendFile {
		cfg.Backend = cache.BackendFile
		if cfg.Dir == "" {
			dir, err := cacheDir()
			if err != nil {
				c.Logger.Warn("caching disabled", "err", err)
				return cache.NewNullCache(), nil
			}
			cfg.Dir = dir
		}
	}
	return cache.Open(ctx, cfg)
}

// cacheDir returns the cache directory using XDG standard (~/.cache/quilt/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	formats := parts[:0]
	for _, p := range parts {
		if p = strings.ToLower(strings.TrimSpace(p)); p != "" {
			formats = append(formats, p)
		}
	}
	return formats
}

// basePath strips the document or layout extension from input.
func basePath(input string) string {
	if strings.HasSuffix(input, layoutSuffix) {
		return strings.TrimSuffix(input, layoutSuffix)
	}
	return strings.TrimSuffix(input, filepath.Ext(input))
}
