package sink

import (
	"bytes"
	"fmt"

	"github.com/matzehuels/quilt/pkg/quilt"
)

const (
	textSymbols = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
	textEmpty   = '.'
)

// TextOption configures text rendering via [RenderText].
type TextOption func(*textRenderer)

type textRenderer struct {
	legend LabelFunc
}

// WithLegend appends one "symbol id label" line per tile.
func WithLegend(fn LabelFunc) TextOption { return func(r *textRenderer) { r.legend = fn } }

// RenderText draws the occupancy map of l, one line per grid row. Symbols
// are reused after 62 tiles.
func RenderText(l quilt.Layout, opts ...TextOption) []byte {
	var r textRenderer
	for _, opt := range opts {
		opt(&r)
	}

	cols, rows := 0, 0
	for _, t := range l.Tiles {
		cols = max(cols, t.Origin.X+t.Size.Width)
		rows = max(rows, t.Origin.Y+t.Size.Height)
	}
	// Show the full restricted extent even where it is empty.
	if l.Direction == quilt.Horizontal {
		rows = max(rows, l.Capacity)
	} else {
		cols = max(cols, l.Capacity)
	}

	grid := make([][]byte, rows)
	for y := range grid {
		grid[y] = bytes.Repeat([]byte{textEmpty}, cols)
	}
	for i, t := range l.Tiles {
		sym := textSymbols[i%len(textSymbols)]
		for y := t.Origin.Y; y < t.Origin.Y+t.Size.Height; y++ {
			for x := t.Origin.X; x < t.Origin.X+t.Size.Width; x++ {
				grid[y][x] = sym
			}
		}
	}

	var buf bytes.Buffer
	for _, line := range grid {
		buf.Write(line)
		buf.WriteByte('\n')
	}
	if r.legend != nil && len(l.Tiles) > 0 {
		buf.WriteByte('\n')
		for i, t := range l.Tiles {
			fmt.Fprintf(&buf, "%c %-6s %s\n", textSymbols[i%len(textSymbols)], t.ID, r.legend(t.ID))
		}
	}
	return buf.Bytes()
}
