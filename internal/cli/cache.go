package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/quilt/pkg/cache"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the layout cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand. Only the file
// backend can be cleared: shared backends expire entries by TTL.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all cached layouts and renders",
		RunE: func(cmd *cobra.Command, args []string) error {
			fc, ok, err := c.fileCache()
			if err != nil {
				return err
			}
			p := newPrinter(cmd.OutOrStdout())
			if !ok {
				p.warning("Backend %q cannot be cleared from the CLI", c.Config.Cache.Backend)
				p.detail("Entries expire after %s", cache.TTLLayout)
				return nil
			}

			count, err := fc.Clear()
			if err != nil {
				return fmt.Errorf("clear cache: %w", err)
			}
			if count == 0 {
				p.info("Cache is empty")
				return nil
			}
			p.success("Cleared %d cached entries", count)
			p.detail("Directory: %s", fc.Dir())
			return nil
		},
	}
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache directory path",
		RunE: func(cmd *cobra.Command, args []string) error {
			fc, ok, err := c.fileCache()
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("backend %q has no local directory", c.Config.Cache.Backend)
			}
			fmt.Fprintln(cmd.OutOrStdout(), fc.Dir())
			return nil
		},
	}
}

// fileCache opens the configured file cache. ok is false for other backends.
func (c *CLI) fileCache() (fc *cache.FileCache, ok bool, err error) {
	cfg := c.Config.Cache
	if cfg.Backend != "" && cfg.Backend != cache.BackendFile {
		return nil, false, nil
	}
	dir := cfg.Dir
	if dir == "" {
		if dir, err = cacheDir(); err != nil {
			return nil, false, fmt.Errorf("get cache dir: %w", err)
		}
	}
	fc, err = cache.NewFileCache(dir)
	if err != nil {
		return nil, false, err
	}
	return fc, true, nil
}
