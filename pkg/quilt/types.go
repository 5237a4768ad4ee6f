package quilt

import (
	"cmp"
	"fmt"
	"math"
	"strings"

	"github.com/matzehuels/quilt/pkg/errors"
)

// ItemID identifies an item by section and index within that section.
// IDs are ordered lexicographically, which is also the placement order.
type ItemID struct {
	Section int `json:"section"`
	Index   int `json:"index"`
}

// Compare returns -1, 0 or +1 depending on whether id sorts before, equal to,
// or after other.
func (id ItemID) Compare(other ItemID) int {
	if c := cmp.Compare(id.Section, other.Section); c != 0 {
		return c
	}
	return cmp.Compare(id.Index, other.Index)
}

// Less reports whether id is placed before other.
func (id ItemID) Less(other ItemID) bool { return id.Compare(other) < 0 }

func (id ItemID) String() string { return fmt.Sprintf("%d.%d", id.Section, id.Index) }

// Direction selects the axis along which the quilt grows.
type Direction int

const (
	// Vertical quilts are bounded in width and grow downwards.
	Vertical Direction = iota
	// Horizontal quilts are bounded in height and grow to the right.
	Horizontal
)

func (d Direction) String() string {
	if d == Horizontal {
		return "horizontal"
	}
	return "vertical"
}

// ParseDirection parses "vertical" or "horizontal" (case-insensitive).
// The empty string yields Vertical.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "vertical", "v":
		return Vertical, nil
	case "horizontal", "h":
		return Horizontal, nil
	}
	return Vertical, errors.New(errors.ErrCodeInvalidDirection, "invalid direction: %q (must be vertical or horizontal)", s)
}

// MarshalText implements encoding.TextMarshaler.
func (d Direction) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Direction) UnmarshalText(text []byte) error {
	parsed, err := ParseDirection(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// split returns the restricted and unrestricted coordinates of c.
func (d Direction) split(c Cell) (restricted, unrestricted int) {
	if d == Horizontal {
		return c.Y, c.X
	}
	return c.X, c.Y
}

// join is the inverse of split.
func (d Direction) join(restricted, unrestricted int) Cell {
	if d == Horizontal {
		return Cell{X: unrestricted, Y: restricted}
	}
	return Cell{X: restricted, Y: unrestricted}
}

// Cell is a coordinate on the layout grid.
type Cell struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func (c Cell) String() string { return fmt.Sprintf("(%d,%d)", c.X, c.Y) }

// Size is a block size measured in grid cells.
type Size struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// DefaultSize is the block size of items whose source does not answer.
var DefaultSize = Size{Width: 1, Height: 1}

// MaxBlockCells is the largest block extent, in cells, on either axis.
// Documents with larger items are rejected when normalized; a Source that
// reports one directly makes the packer panic rather than place it.
const MaxBlockCells = 1024

// clamped returns s with both dimensions raised to at least one cell.
func (s Size) clamped() Size {
	return Size{Width: max(s.Width, 1), Height: max(s.Height, 1)}
}

// PixelSize is a width and height in pixels.
type PixelSize struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Point is a pixel position.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Insets shrink an item's frame on each side, in pixels.
type Insets struct {
	Top    float64 `json:"top,omitempty" toml:"top"`
	Left   float64 `json:"left,omitempty" toml:"left"`
	Bottom float64 `json:"bottom,omitempty" toml:"bottom"`
	Right  float64 `json:"right,omitempty" toml:"right"`
}

// Rect is an axis-aligned pixel rectangle with its origin at the top-left.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

func (r Rect) MinX() float64 { return r.X }
func (r Rect) MaxX() float64 { return r.X + r.Width }
func (r Rect) MinY() float64 { return r.Y }
func (r Rect) MaxY() float64 { return r.Y + r.Height }

// IsEmpty reports whether r has no area.
func (r Rect) IsEmpty() bool { return r.Width <= 0 || r.Height <= 0 }

// Inset shrinks r by in on every side. Negative and non-finite insets count
// as zero. An axis whose insets consume the whole extent collapses to a
// zero-length line at its center, so the result never leaves r.
func (r Rect) Inset(in Insets) Rect {
	x, w := insetAxis(r.X, r.Width, in.Left, in.Right)
	y, h := insetAxis(r.Y, r.Height, in.Top, in.Bottom)
	return Rect{X: x, Y: y, Width: w, Height: h}
}

func insetAxis(lo, extent, a, b float64) (float64, float64) {
	a, b = validInset(a), validInset(b)
	if rest := extent - a - b; rest > 0 {
		return lo + a, rest
	}
	return lo + extent/2, 0
}

func validInset(v float64) float64 {
	if v > 0 && !math.IsInf(v, 1) {
		return v
	}
	return 0
}

// Valid reports whether every inset is finite and not negative.
func (in Insets) Valid() bool {
	for _, v := range [...]float64{in.Top, in.Left, in.Bottom, in.Right} {
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Intersects reports whether r and o overlap with a non-zero area.
func (r Rect) Intersects(o Rect) bool {
	return r.MinX() < o.MaxX() && o.MinX() < r.MaxX() &&
		r.MinY() < o.MaxY() && o.MinY() < r.MaxY()
}

// Placement records where an item was placed on the grid.
type Placement struct {
	ID     ItemID `json:"id"`
	Origin Cell   `json:"origin"`
	Size   Size   `json:"size"`
}

// Contains reports whether c lies inside the placement's footprint.
func (p Placement) Contains(c Cell) bool {
	return c.X >= p.Origin.X && c.X < p.Origin.X+p.Size.Width &&
		c.Y >= p.Origin.Y && c.Y < p.Origin.Y+p.Size.Height
}

// Footprint calls fn for every cell covered by the placement, column by
// column. It stops early and returns false as soon as fn returns false.
func (p Placement) Footprint(fn func(Cell) bool) bool {
	return footprint(p.Origin, p.Size, fn)
}

func footprint(origin Cell, size Size, fn func(Cell) bool) bool {
	for x := origin.X; x < origin.X+size.Width; x++ {
		for y := origin.Y; y < origin.Y+size.Height; y++ {
			if !fn(Cell{X: x, Y: y}) {
				return false
			}
		}
	}
	return true
}

// Tile is a placed item projected into pixel space.
type Tile struct {
	ID     ItemID `json:"id"`
	Origin Cell   `json:"origin"`
	Size   Size   `json:"size"`
	Frame  Rect   `json:"frame"`
}

// Layout is a complete, serializable snapshot of a packed quilt.
type Layout struct {
	Direction   Direction `json:"direction"`
	CellSize    PixelSize `json:"cell_size"`
	Viewport    PixelSize `json:"viewport"`
	Capacity    int       `json:"capacity"`
	ContentSize PixelSize `json:"content_size"`
	Tiles       []Tile    `json:"tiles"`
}

// floorDiv divides a pixel extent by a cell extent, rounding towards
// negative infinity. Oversized results saturate at math.MaxInt.
func floorDiv(v, cell float64) int {
	q := math.Floor(v / cell)
	if q >= math.MaxInt {
		return math.MaxInt
	}
	return int(q)
}
