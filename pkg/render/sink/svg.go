package sink

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"hash/fnv"

	"github.com/matzehuels/quilt/pkg/quilt"
)

var palette = []string{
	"#264653", "#2a9d8f", "#8ab17d", "#e9c46a",
	"#f4a261", "#e76f51", "#6d597a", "#457b9d",
}

const (
	fontSizeMin = 8.0
	fontSizeMax = 18.0
	gridColor   = "#d0d0d0"
)

// LabelFunc returns the display label of an item.
type LabelFunc func(quilt.ItemID) string

// ColorFunc returns the fill color of an item, or "" for the palette color.
type ColorFunc func(quilt.ItemID) string

type SVGOption func(*svgRenderer)

type svgRenderer struct {
	labels LabelFunc
	colors ColorFunc
	grid   bool
}

// WithLabels sets the text drawn inside each tile. Default: the item id.
func WithLabels(fn LabelFunc) SVGOption { return func(r *svgRenderer) { r.labels = fn } }

// WithColors overrides tile fill colors.
func WithColors(fn ColorFunc) SVGOption { return func(r *svgRenderer) { r.colors = fn } }

// WithGrid draws the cell grid behind the tiles.
func WithGrid() SVGOption { return func(r *svgRenderer) { r.grid = true } }

// RenderSVG draws every tile of l as a labeled rectangle. The canvas is the
// layout's content size.
func RenderSVG(l quilt.Layout, opts ...SVGOption) []byte {
	r := svgRenderer{labels: defaultLabel}
	for _, opt := range opts {
		opt(&r)
	}

	w, h := l.ContentSize.Width, l.ContentSize.Height
	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n", w, h, w, h)
	buf.WriteString(`  <rect class="background" x="0" y="0" width="100%" height="100%" fill="#ffffff"/>` + "\n")

	if r.grid {
		renderGrid(&buf, l)
	}
	for _, t := range l.Tiles {
		r.renderTile(&buf, t)
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func (r *svgRenderer) renderTile(buf *bytes.Buffer, t quilt.Tile) {
	fill := ""
	if r.colors != nil {
		fill = r.colors(t.ID)
	}
	if fill == "" {
		fill = colorForID(t.ID)
	}

	f := t.Frame
	fmt.Fprintf(buf, `  <rect id="tile-%d-%d" class="tile" x="%.2f" y="%.2f" width="%.2f" height="%.2f" rx="4" fill="%s" stroke="#1d1d1d" stroke-width="1"/>`+"\n",
		t.ID.Section, t.ID.Index, f.X, f.Y, max(f.Width, 0), max(f.Height, 0), escapeXML(fill))

	label := r.labels(t.ID)
	if label == "" || f.Width <= 0 || f.Height <= 0 {
		return
	}
	size := fontSize(f, len(label))
	fmt.Fprintf(buf, `  <text class="tile-text" x="%.2f" y="%.2f" font-size="%.1f" text-anchor="middle" dominant-baseline="middle" fill="#ffffff">%s</text>`+"\n",
		f.X+f.Width/2, f.Y+f.Height/2, size, escapeXML(label))
}

func renderGrid(buf *bytes.Buffer, l quilt.Layout) {
	cw, ch := l.CellSize.Width, l.CellSize.Height
	w, h := l.ContentSize.Width, l.ContentSize.Height
	if cw <= 0 || ch <= 0 {
		return
	}
	buf.WriteString(`  <g class="grid" stroke="` + gridColor + `" stroke-width="0.5">` + "\n")
	for x := 0.0; x <= w; x += cw {
		fmt.Fprintf(buf, `    <line x1="%.2f" y1="0" x2="%.2f" y2="%.2f"/>`+"\n", x, x, h)
	}
	for y := 0.0; y <= h; y += ch {
		fmt.Fprintf(buf, `    <line x1="0" y1="%.2f" x2="%.2f" y2="%.2f"/>`+"\n", y, w, y)
	}
	buf.WriteString("  </g>\n")
}

func fontSize(f quilt.Rect, textLen int) float64 {
	n := float64(max(textLen, 1))
	byWidth := f.Width * 0.85 / (n * 0.55)
	byHeight := f.Height * 0.5
	return max(fontSizeMin, min(fontSizeMax, byWidth, byHeight))
}

func colorForID(id quilt.ItemID) string {
	h := fnv.New32a()
	h.Write([]byte(id.String()))
	return palette[h.Sum32()%uint32(len(palette))]
}

func defaultLabel(id quilt.ItemID) string { return id.String() }

func escapeXML(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
