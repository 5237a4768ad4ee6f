package pipeline

import (
	"context"

	"github.com/charmbracelet/log"

	qio "github.com/matzehuels/quilt/pkg/io"
	"github.com/matzehuels/quilt/pkg/quilt"
)

// Pack places every item of doc on the grid described by cfg and returns
// the finished layout. The context is checked between sections.
func Pack(ctx context.Context, doc *qio.Document, cfg quilt.Config, logger *log.Logger) (quilt.Layout, error) {
	if err := doc.Normalize(); err != nil {
		return quilt.Layout{}, err
	}
	p, err := quilt.New(doc.Source(), cfg, quilt.WithLogger(logger))
	if err != nil {
		return quilt.Layout{}, err
	}
	for s, sec := range doc.Sections {
		if err := ctx.Err(); err != nil {
			return quilt.Layout{}, err
		}
		if n := len(sec.Items); n > 0 {
			p.FillUntil(quilt.ItemID{Section: s, Index: n - 1})
		}
	}
	return p.Snapshot(), nil
}

// newWindowPacker builds a packer for viewport queries. Unlike [Pack] it
// places nothing up front.
func newWindowPacker(doc *qio.Document, cfg quilt.Config, logger *log.Logger) (*quilt.Packer, error) {
	if err := doc.Normalize(); err != nil {
		return nil, err
	}
	return quilt.New(doc.Source(), cfg, quilt.WithLogger(logger))
}
