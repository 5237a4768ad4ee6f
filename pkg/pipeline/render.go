package pipeline

import (
	"context"
	"fmt"

	qio "github.com/matzehuels/quilt/pkg/io"
	"github.com/matzehuels/quilt/pkg/quilt"
	"github.com/matzehuels/quilt/pkg/render/sink"
)

// Render generates output artifacts in the requested formats. doc supplies
// labels and colors and may be nil when only a layout file is at hand.
func Render(ctx context.Context, l quilt.Layout, doc *qio.Document, opts Options) (map[string][]byte, error) {
	labels, colors := decorations(doc, opts)

	var svgOpts []sink.SVGOption
	if labels != nil {
		svgOpts = append(svgOpts, sink.WithLabels(labels))
	} else {
		svgOpts = append(svgOpts, sink.WithLabels(func(quilt.ItemID) string { return "" }))
	}
	svgOpts = append(svgOpts, sink.WithColors(colors))
	if opts.Grid {
		svgOpts = append(svgOpts, sink.WithGrid())
	}

	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatSVG:
			data = sink.RenderSVG(l, svgOpts...)
		case FormatJSON:
			jsonOpts := []sink.JSONOption{sink.WithJSONColors(colors)}
			if labels != nil {
				jsonOpts = append(jsonOpts, sink.WithJSONLabels(labels))
			}
			data, err = sink.RenderJSON(l, jsonOpts...)
		case FormatText:
			var textOpts []sink.TextOption
			if labels != nil {
				textOpts = append(textOpts, sink.WithLegend(labels))
			}
			data = sink.RenderText(l, textOpts...)
		case FormatPNG:
			data, err = sink.RenderPNG(ctx, l, sink.WithSVGOptions(svgOpts...))
		case FormatPDF:
			data, err = sink.RenderPDF(ctx, l, sink.WithSVGOptions(svgOpts...))
		default:
			return nil, ValidateFormat(format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

// decorations returns the label and color lookups for doc. The label
// lookup is nil when labels are hidden.
func decorations(doc *qio.Document, opts Options) (sink.LabelFunc, sink.ColorFunc) {
	labels := sink.LabelFunc(quilt.ItemID.String)
	colors := sink.ColorFunc(func(quilt.ItemID) string { return "" })
	if doc != nil {
		labels, colors = doc.Label, doc.Color
	}
	if opts.HideLabels {
		labels = nil
	}
	return labels, colors
}
