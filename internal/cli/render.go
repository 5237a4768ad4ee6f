package cli

import (
	"context"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	qio "github.com/matzehuels/quilt/pkg/io"
	"github.com/matzehuels/quilt/pkg/pipeline"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output     string // output file (single format) or base path (multiple)
	formats    string // comma-separated output formats
	grid       bool   // draw cell grid lines
	hideLabels bool   // omit tile labels
	noCache    bool   // disable caching
	refresh    bool   // ignore cached results
}

// renderCommand creates the render command for generating visual output.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		opts  renderOpts
		flags layoutFlags
	)

	cmd := &cobra.Command{
		Use:   "render [document|layout.json]",
		Short: "Render a quilt to SVG, JSON, text, PNG or PDF",
		Long: `Render a quilt to SVG, JSON, text, PNG or PDF.

The input is either a document, which is packed first, or a layout.json
file written by 'quilt pack'. Layout files carry no labels or colors, so
tiles are labeled by item id and colored from the palette.

PNG and PDF output requires rsvg-convert (librsvg) on the PATH.`,
		Example: `  quilt render photos.toml
  quilt render photos.layout.json -f svg,png --grid
  quilt render photos.json -f txt -o -`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeDocuments,
		RunE: func(cmd *cobra.Command, args []string) error {
			po := flags.options(cmd, c.Config.Layout)
			if cmd.Flags().Changed("format") {
				po.Formats = parseFormats(opts.formats)
			}
			if cmd.Flags().Changed("grid") {
				po.Grid = opts.grid
			}
			po.HideLabels = opts.hideLabels
			po.Refresh = opts.refresh
			return c.runRender(cmd.Context(), cmd.OutOrStdout(), args[0], po, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format), base path (multiple), or - for stdout")
	cmd.Flags().StringVarP(&opts.formats, "format", "f", "", "output formats: svg, json, txt, png, pdf (default: svg)")
	cmd.Flags().BoolVar(&opts.grid, "grid", false, "draw the cell grid behind tiles")
	cmd.Flags().BoolVar(&opts.hideLabels, "no-labels", false, "omit tile labels")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "ignore cached results")
	_ = cmd.RegisterFlagCompletionFunc("format", completeFormats)
	flags.register(cmd)

	return cmd
}

// runRender packs the input if needed, renders every format, and writes
// the artifacts.
func (c *CLI) runRender(ctx context.Context, w io.Writer, input string, po pipeline.Options, ro renderOpts) error {
	runner, err := c.newRunner(ctx, ro.noCache, nil)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	po.Logger = loggerFromContext(ctx)
	prog := newProgress(po.Logger)

	spinner := newSpinnerWithContext(ctx, "Rendering...")
	spinner.Start()

	var (
		artifacts map[string][]byte
		items     int
		tiles     int
		cacheHit  bool
	)
	if strings.HasSuffix(input, layoutSuffix) {
		layout, err := qio.ImportLayout(input)
		if err != nil {
			spinner.StopWithError("Render failed")
			return fmt.Errorf("load layout %s: %w", input, err)
		}
		artifacts, cacheHit, err = runner.RenderWithCacheInfo(ctx, layout, nil, po)
		if err != nil {
			spinner.StopWithError("Render failed")
			return fmt.Errorf("render: %w", err)
		}
		items, tiles = len(layout.Tiles), len(layout.Tiles)
	} else {
		doc, err := qio.Import(input)
		if err != nil {
			spinner.StopWithError("Render failed")
			return fmt.Errorf("load document %s: %w", input, err)
		}
		result, err := runner.Execute(ctx, doc, po)
		if err != nil {
			spinner.StopWithError("Render failed")
			return err
		}
		artifacts = result.Artifacts
		items, tiles = result.Stats.ItemCount, result.Stats.TileCount
		cacheHit = result.CacheInfo.LayoutHit && result.CacheInfo.RenderHit
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	formats := slices.Sorted(maps.Keys(artifacts))
	if ro.output == "-" {
		if len(formats) != 1 {
			return fmt.Errorf("stdout output needs exactly one format, got %d", len(formats))
		}
		_, err := w.Write(artifacts[formats[0]])
		return err
	}

	paths := make([]string, 0, len(formats))
	for _, format := range formats {
		path := artifactPath(input, ro.output, format, len(formats))
		if err := os.WriteFile(path, artifacts[format], 0o644); err != nil {
			return fmt.Errorf("write output %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	prog.done("wrote artifacts", "formats", formats)

	p := newPrinter(w)
	p.success("Render complete")
	for _, path := range paths {
		p.file(path)
	}
	p.stats(items, tiles, cacheHit)
	return nil
}

// artifactPath names the file for one rendered format. With a single format
// an explicit output is used as is; otherwise it is a base path. JSON
// artifacts get a ".tiles.json" suffix so they never replace a JSON
// document or layout.
func artifactPath(input, output, format string, n int) string {
	if output != "" && n == 1 {
		return output
	}
	base := output
	if base == "" {
		base = basePath(input)
	}
	if format == pipeline.FormatJSON {
		return base + ".tiles.json"
	}
	return base + "." + format
}
