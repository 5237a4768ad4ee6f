package pipeline

import (
	"context"
	"time"

	"github.com/matzehuels/quilt/pkg/errors"
	qio "github.com/matzehuels/quilt/pkg/io"
	"github.com/matzehuels/quilt/pkg/observability"
	"github.com/matzehuels/quilt/pkg/quilt"
)

// Window is the answer to a viewport query.
type Window struct {
	// Tiles are the items visible in the queried rectangle.
	Tiles []quilt.Tile
	// Placed is the number of items the packer had to place to answer.
	Placed int
	// Total is the number of items in the document.
	Total int
	// Capacity is the number of cells on the restricted axis.
	Capacity int
	// ContentSize is the pixel extent of the placed content.
	ContentSize quilt.PixelSize
}

// Window returns the tiles visible in rect, packing only as far as needed.
// Results are never cached: the point of a window query is to avoid
// computing the full layout.
func (r *Runner) Window(ctx context.Context, doc *qio.Document, rect quilt.Rect, opts Options) (*Window, error) {
	r.applyLogger(&opts)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p, err := NewPacker(doc, opts)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	tiles := p.TilesIn(rect)
	dur := time.Since(start)
	observability.Pipeline().OnWindow(ctx, len(tiles), p.Placed(), dur)
	opts.Logger.Debug("window query", "rect", rect, "tiles", len(tiles), "placed", p.Placed(), "duration", dur)

	return &Window{
		Tiles:       tiles,
		Placed:      p.Placed(),
		Total:       doc.Len(),
		Capacity:    p.Capacity(),
		ContentSize: p.ContentSize(),
	}, nil
}

// NewPacker returns a packer for doc with opts applied that has placed
// nothing yet. It serves callers that query many windows of one quilt,
// such as an interactive viewer.
func NewPacker(doc *qio.Document, opts Options) (*quilt.Packer, error) {
	if err := opts.ValidateForLayout(); err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "document is required")
	}
	cfg, err := opts.Config(doc)
	if err != nil {
		return nil, err
	}
	return newWindowPacker(doc, cfg, opts.Logger)
}
