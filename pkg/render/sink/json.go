package sink

import (
	"encoding/json"

	"github.com/matzehuels/quilt/pkg/quilt"
)

// JSONOption configures JSON rendering via [RenderJSON].
type JSONOption func(*jsonRenderer)

type jsonRenderer struct {
	labels LabelFunc
	colors ColorFunc
}

// WithJSONLabels adds a label to every tile.
func WithJSONLabels(fn LabelFunc) JSONOption { return func(r *jsonRenderer) { r.labels = fn } }

// WithJSONColors adds the resolved fill color to every tile, as the SVG sink
// would draw it.
func WithJSONColors(fn ColorFunc) JSONOption { return func(r *jsonRenderer) { r.colors = fn } }

type jsonOutput struct {
	Direction  string     `json:"direction"`
	CellWidth  float64    `json:"cell_width"`
	CellHeight float64    `json:"cell_height"`
	Capacity   int        `json:"capacity"`
	Width      float64    `json:"width"`
	Height     float64    `json:"height"`
	Tiles      []jsonTile `json:"tiles"`
}

type jsonTile struct {
	ID      string     `json:"id"`
	Section int        `json:"section"`
	Index   int        `json:"index"`
	Label   string     `json:"label,omitempty"`
	Color   string     `json:"color,omitempty"`
	Column  int        `json:"column"`
	Row     int        `json:"row"`
	Columns int        `json:"columns"`
	Rows    int        `json:"rows"`
	Frame   quilt.Rect `json:"frame"`
}

// RenderJSON exports the tiles of l with their grid position and pixel frame.
func RenderJSON(l quilt.Layout, opts ...JSONOption) ([]byte, error) {
	var r jsonRenderer
	for _, opt := range opts {
		opt(&r)
	}

	out := jsonOutput{
		Direction:  l.Direction.String(),
		CellWidth:  l.CellSize.Width,
		CellHeight: l.CellSize.Height,
		Capacity:   l.Capacity,
		Width:      l.ContentSize.Width,
		Height:     l.ContentSize.Height,
		Tiles:      make([]jsonTile, len(l.Tiles)),
	}
	for i, t := range l.Tiles {
		jt := jsonTile{
			ID:      t.ID.String(),
			Section: t.ID.Section,
			Index:   t.ID.Index,
			Column:  t.Origin.X,
			Row:     t.Origin.Y,
			Columns: t.Size.Width,
			Rows:    t.Size.Height,
			Frame:   t.Frame,
		}
		if r.labels != nil {
			jt.Label = r.labels(t.ID)
		}
		if r.colors != nil {
			if jt.Color = r.colors(t.ID); jt.Color == "" {
				jt.Color = colorForID(t.ID)
			}
		}
		out.Tiles[i] = jt
	}
	return json.MarshalIndent(out, "", "  ")
}
