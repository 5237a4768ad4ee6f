package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/matzehuels/quilt/internal/server"
	"github.com/matzehuels/quilt/pkg/cache"
)

// serveCommand creates the serve command that runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Run the HTTP API.

The server packs and renders documents posted to /v1/layout and answers
viewport queries on /v1/tiles. It shares the configured cache backend;
cache keys are prefixed with serve.key_prefix so a server and local CLI
runs can use one Redis or MongoDB instance without colliding.

The server stops gracefully on SIGINT or SIGTERM.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := c.Config.Serve
			if cmd.Flags().Changed("addr") {
				cfg.Addr = addr
			}
			return c.runServe(cmd.Context(), cmd.OutOrStdout(), cfg, noCache)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", server.DefaultAddr, "listen address")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, w io.Writer, cfg ServeConfig, noCache bool) error {
	runner, err := c.newRunner(ctx, noCache, cache.NewScopedKeyer(nil, cfg.KeyPrefix))
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	srv := server.New(server.Config{
		Addr:         cfg.Addr,
		MaxBodyBytes: cfg.MaxBodyBytes,
		Runner:       runner,
		Logger:       loggerFromContext(ctx),
	})

	p := newPrinter(w)
	p.info("Serving on %s", srv.Addr())
	p.keyValue("backend", c.backendName(noCache))
	return srv.Run(ctx)
}

func (c *CLI) backendName(noCache bool) string {
	switch {
	case noCache:
		return cache.BackendNone
	case c.Config.Cache.Backend == "":
		return cache.BackendFile
	}
	return c.Config.Cache.Backend
}
