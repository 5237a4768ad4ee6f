// Package sink renders packed quilts into output formats.
//
// # Overview
//
// A "sink" transforms a computed [quilt.Layout] into bytes. This package
// provides renderers for:
//
//   - SVG: one rectangle per tile, with labels and optional grid lines
//   - JSON: tile frames and labels for external tools
//   - Text: an ASCII occupancy map of the grid, one character per cell
//   - PDF and PNG: the SVG output converted by rsvg-convert
//
// # SVG Output
//
//	svg := sink.RenderSVG(layout,
//	    sink.WithLabels(doc.Label),
//	    sink.WithColors(doc.Color),
//	    sink.WithGrid(),
//	)
//
// Tiles without an explicit color get one from a fixed palette, chosen by a
// hash of the item id, so the same item keeps its color across renders.
//
// # Text Output
//
// [RenderText] is meant for terminals and tests. Every tile is drawn with
// one symbol over all cells it covers and gaps are dots:
//
//	AAB
//	AAC
//	D..
//
// [quilt.Layout]: github.com/matzehuels/quilt/pkg/quilt.Layout
package sink
