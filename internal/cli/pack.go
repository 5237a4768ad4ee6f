package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	qio "github.com/matzehuels/quilt/pkg/io"
	"github.com/matzehuels/quilt/pkg/pipeline"
)

// packCommand creates the pack command for computing full layouts.
func (c *CLI) packCommand() *cobra.Command {
	var (
		output  string
		noCache bool
		refresh bool
		flags   layoutFlags
	)

	cmd := &cobra.Command{
		Use:   "pack [document]",
		Short: "Compute the full layout of a quilt document",
		Long: `Compute the full layout of a quilt document.

The pack command reads a JSON or TOML document, places every item on the
grid and writes the result to a layout.json file. The layout can be
rendered later with 'quilt render' without packing again.

Flags override the config file, which overrides the document.
Results are cached locally for faster subsequent runs.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeDocuments,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := flags.options(cmd, c.Config.Layout)
			opts.Refresh = refresh
			return c.runPack(cmd.Context(), cmd.OutOrStdout(), args[0], opts, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>"+layoutSuffix+")")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "ignore cached layouts and pack again")
	flags.register(cmd)

	return cmd
}

// runPack loads the document, packs it, and writes the layout.
func (c *CLI) runPack(ctx context.Context, w io.Writer, input string, opts pipeline.Options, output string, noCache bool) error {
	doc, err := qio.Import(input)
	if err != nil {
		return fmt.Errorf("load document %s: %w", input, err)
	}

	runner, err := c.newRunner(ctx, noCache, nil)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.Logger = loggerFromContext(ctx)
	prog := newProgress(opts.Logger)

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Packing %d items...", doc.Len()))
	spinner.Start()

	layout, cacheHit, err := runner.PackWithCacheInfo(ctx, doc, opts)
	if err != nil {
		spinner.StopWithError("Pack failed")
		return fmt.Errorf("pack: %w", err)
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	outputPath := output
	if outputPath == "" {
		outputPath = basePath(input) + layoutSuffix
	}
	if err := qio.ExportLayout(layout, outputPath); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}
	prog.done("wrote layout", "path", outputPath, "capacity", layout.Capacity)

	p := newPrinter(w)
	p.success("Pack complete")
	p.file(outputPath)
	p.stats(doc.Len(), len(layout.Tiles), cacheHit)
	p.nextStep("Render", appName+" render "+outputPath)

	return nil
}
