package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/quilt/pkg/errors"
	qio "github.com/matzehuels/quilt/pkg/io"
	"github.com/matzehuels/quilt/pkg/pipeline"
	"github.com/matzehuels/quilt/pkg/quilt"
)

// inspectCommand creates the inspect command for printing placements.
func (c *CLI) inspectCommand() *cobra.Command {
	var (
		window  string
		item    string
		noCache bool
		flags   layoutFlags
	)

	cmd := &cobra.Command{
		Use:   "inspect [document]",
		Short: "Print item placements as a table",
		Long: `Print item placements as a table.

Without --window the whole document is packed. With --window only the items
needed to fill the given pixel rectangle are placed, which is how a
scrolling view sees the quilt.`,
		Example: `  quilt inspect photos.toml
  quilt inspect photos.toml --window 0,1200,800,600
  quilt inspect photos.toml --item hero`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeDocuments,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := flags.options(cmd, c.Config.Layout)
			return c.runInspect(cmd.Context(), cmd.OutOrStdout(), args[0], opts, window, item, noCache)
		},
	}

	cmd.Flags().StringVar(&window, "window", "", "query only the rectangle x,y,width,height (pixels)")
	cmd.Flags().StringVar(&item, "item", "", "show a single item by document id or section.index")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	flags.register(cmd)

	return cmd
}

func (c *CLI) runInspect(ctx context.Context, w io.Writer, input string, opts pipeline.Options, window, item string, noCache bool) error {
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

	var (
		tiles    []quilt.Tile
		summary  string
		capacity int
	)
	if window != "" {
		rect, err := parseRect(window)
		if err != nil {
			return err
		}
		win, err := runner.Window(ctx, doc, rect, opts)
		if err != nil {
			return err
		}
		tiles, capacity = win.Tiles, win.Capacity
		summary = fmt.Sprintf("%d visible · %d of %d placed", len(win.Tiles), win.Placed, win.Total)
	} else {
		layout, _, err := runner.PackWithCacheInfo(ctx, doc, opts)
		if err != nil {
			return fmt.Errorf("pack: %w", err)
		}
		tiles, capacity = layout.Tiles, layout.Capacity
		summary = fmt.Sprintf("%d placed · %s", len(layout.Tiles), formatSize(layout.ContentSize))
	}

	if item != "" {
		id, err := parseItemRef(doc, item)
		if err != nil {
			return err
		}
		t, ok := findTile(tiles, id)
		if !ok {
			return errors.New(errors.ErrCodeItemOutOfRange, "item %s is not placed", item)
		}
		tiles = []quilt.Tile{t}
	}

	rows := make([][]string, len(tiles))
	for i, t := range tiles {
		rows[i] = []string{
			t.ID.String(),
			doc.Label(t.ID),
			t.Origin.String(),
			fmt.Sprintf("%dx%d", t.Size.Width, t.Size.Height),
			formatRect(t.Frame),
		}
	}
	fmt.Fprintln(w, renderTable([]string{"ID", "Label", "Cell", "Size", "Frame"}, rows))
	fmt.Fprintln(w, StyleDim.Render(fmt.Sprintf("capacity %d · %s", capacity, summary)))
	return nil
}

// parseRect parses "x,y,width,height".
func parseRect(s string) (quilt.Rect, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return quilt.Rect{}, errors.New(errors.ErrCodeInvalidInput, "window must be x,y,width,height, got %q", s)
	}
	var v [4]float64
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return quilt.Rect{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "window value %q", p)
		}
		v[i] = f
	}
	return quilt.Rect{X: v[0], Y: v[1], Width: v[2], Height: v[3]}, nil
}

// parseItemRef resolves a document id, falling back to "section.index".
// doc must be normalized.
func parseItemRef(doc *qio.Document, ref string) (quilt.ItemID, error) {
	if id, ok := doc.Lookup(ref); ok {
		return id, nil
	}
	sec, idx, ok := strings.Cut(ref, ".")
	if ok {
		s, err1 := strconv.Atoi(sec)
		i, err2 := strconv.Atoi(idx)
		if err1 == nil && err2 == nil {
			id := quilt.ItemID{Section: s, Index: i}
			if _, ok := doc.Item(id); ok {
				return id, nil
			}
		}
	}
	return quilt.ItemID{}, errors.New(errors.ErrCodeItemOutOfRange, "no item %q in document", ref)
}

func findTile(tiles []quilt.Tile, id quilt.ItemID) (quilt.Tile, bool) {
	for _, t := range tiles {
		if t.ID == id {
			return t, true
		}
	}
	return quilt.Tile{}, false
}

func formatRect(r quilt.Rect) string {
	return fmt.Sprintf("%g,%g %gx%g", r.X, r.Y, r.Width, r.Height)
}

func formatSize(s quilt.PixelSize) string {
	return fmt.Sprintf("%gx%g px", s.Width, s.Height)
}
