package sink

import (
	"context"

	"github.com/matzehuels/quilt/pkg/quilt"
	"github.com/matzehuels/quilt/pkg/render"
)

// RasterOption configures PDF and PNG rendering.
type RasterOption func(*rasterRenderer)

type rasterRenderer struct {
	svgOpts []SVGOption
	scale   float64
}

// WithSVGOptions passes options through to the underlying SVG renderer.
func WithSVGOptions(opts ...SVGOption) RasterOption {
	return func(r *rasterRenderer) { r.svgOpts = opts }
}

// WithScale sets the PNG scale factor. Default: 2.
func WithScale(s float64) RasterOption {
	return func(r *rasterRenderer) { r.scale = s }
}

// RenderPDF renders l as SVG and converts it with rsvg-convert.
func RenderPDF(ctx context.Context, l quilt.Layout, opts ...RasterOption) ([]byte, error) {
	r := newRasterRenderer(opts)
	return render.ToPDF(ctx, RenderSVG(l, r.svgOpts...))
}

// RenderPNG renders l as SVG and converts it with rsvg-convert.
func RenderPNG(ctx context.Context, l quilt.Layout, opts ...RasterOption) ([]byte, error) {
	r := newRasterRenderer(opts)
	return render.ToPNG(ctx, RenderSVG(l, r.svgOpts...), r.scale)
}

func newRasterRenderer(opts []RasterOption) rasterRenderer {
	r := rasterRenderer{scale: 2}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}
