// Package render turns packed quilts into visual output.
//
// Rasterized formats are produced from SVG: [ToPDF] and [ToPNG] pipe the
// SVG document through the external rsvg-convert tool (from librsvg). The
// renderers for the individual formats live in the [sink] subpackage.
//
//	svg := sink.RenderSVG(layout, sink.WithGrid())
//	png, err := render.ToPNG(ctx, svg, 2.0)
//
// [sink]: github.com/matzehuels/quilt/pkg/render/sink
package render
