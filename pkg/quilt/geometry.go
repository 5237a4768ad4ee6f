package quilt

import (
	"math"
	"slices"
)

// padding is the offset that centers the grid on the restricted axis when
// the viewport is not an exact multiple of the cell size.
func (p *Packer) padding() float64 {
	capacity := float64(p.restrictedCapacity())
	if p.cfg.Direction == Horizontal {
		return (p.cfg.Viewport.Height - capacity*p.cfg.CellSize.Height) / 2
	}
	return (p.cfg.Viewport.Width - capacity*p.cfg.CellSize.Width) / 2
}

// frame converts a placement into pixels, before insets.
func (p *Packer) frame(pl Placement) Rect {
	cell := p.cfg.CellSize
	r := Rect{
		X:      float64(pl.Origin.X) * cell.Width,
		Y:      float64(pl.Origin.Y) * cell.Height,
		Width:  float64(pl.Size.Width) * cell.Width,
		Height: float64(pl.Size.Height) * cell.Height,
	}
	if p.cfg.Direction == Horizontal {
		r.Y += p.padding()
	} else {
		r.X += p.padding()
	}
	return r
}

func (p *Packer) tile(pl Placement) Tile {
	return Tile{
		ID:     pl.ID,
		Origin: pl.Origin,
		Size:   pl.Size,
		Frame:  p.frame(pl).Inset(p.src.insets(pl.ID)),
	}
}

// RectFor returns the pixel frame of id, placing items up to it when it has
// no position yet. Items outside the source's universe report false and
// nothing is placed.
func (p *Packer) RectFor(id ItemID) (Rect, bool) {
	t, ok := p.TileFor(id)
	return t.Frame, ok
}

// TileFor is RectFor returning the full tile.
func (p *Packer) TileFor(id ItemID) (Tile, bool) {
	pl, ok := p.grid.positionOf(id)
	if !ok {
		if !p.src.contains(id) {
			return Tile{}, false
		}
		p.FillUntil(id)
		if pl, ok = p.grid.positionOf(id); !ok {
			return Tile{}, false
		}
	}
	return p.tile(pl), true
}

// CellRange maps a pixel rectangle to the unrestricted lines it touches:
// start is inclusive, end exclusive. Negative coordinates clamp to zero.
func (p *Packer) CellRange(r Rect) (start, end int) {
	lo, extent, cell := r.Y, r.Height, p.cfg.CellSize.Height
	if p.cfg.Direction == Horizontal {
		lo, extent, cell = r.X, r.Width, p.cfg.CellSize.Width
	}
	start = max(floorDiv(lo, cell), 0)
	n := max(floorDiv(extent, cell), 0)
	if n >= math.MaxInt-start {
		return start, math.MaxInt
	}
	return start, start + n + 1
}

// ContentSize returns the pixel size needed to show everything placed so
// far. The restricted extent is the viewport's; content never scrolls that way.
func (p *Packer) ContentSize() PixelSize {
	cell := p.cfg.CellSize
	if p.cfg.Direction == Horizontal {
		return PixelSize{
			Width:  cell.Width * float64(p.furthest.X+1),
			Height: p.cfg.Viewport.Height,
		}
	}
	return PixelSize{
		Width:  p.cfg.Viewport.Width,
		Height: cell.Height * float64(p.furthest.Y+1),
	}
}

// TilesIn returns every item whose cells fall on the unrestricted lines
// covered by r, each once, in scan order. Items are placed as needed to
// cover r (or all of them in prelayout mode). Repeating the previous query
// returns a copy of the cached result as long as nothing was placed in
// between. Growing the source does not clear that cache: hosts that append
// items must report them through ApplyUpdates before querying again.
func (p *Packer) TilesIn(r Rect) []Tile {
	if p.lastQuery != nil && *p.lastQuery == r {
		return slices.Clone(p.lastResult)
	}
	start, end := p.CellRange(r)
	p.FillUntilUnrestricted(end)

	// Lines past the furthest placement are empty.
	if p.grid.len() == 0 {
		end = start
	} else if _, fu := p.cfg.Direction.split(p.furthest); end > fu+1 {
		end = fu + 1
	}

	capacity := p.restrictedCapacity()
	seen := make(map[ItemID]bool)
	var tiles []Tile
	for u := start; u < end; u++ {
		for rc := 0; rc < capacity; rc++ {
			id, ok := p.grid.occupantAt(p.cfg.Direction.join(rc, u))
			if !ok || seen[id] {
				continue
			}
			seen[id] = true
			pl, _ := p.grid.positionOf(id)
			tiles = append(tiles, p.tile(pl))
		}
	}

	q := r
	p.lastQuery, p.lastResult = &q, tiles
	p.finished()
	return slices.Clone(tiles)
}

// Prepare fills the layout far enough to show the viewport scrolled to
// offset, as a host does before asking for the content size.
func (p *Packer) Prepare(offset Point) {
	visible := Rect{X: offset.X, Y: offset.Y, Width: p.cfg.Viewport.Width, Height: p.cfg.Viewport.Height}
	maxU, cell := visible.MaxY(), p.cfg.CellSize.Height
	if p.cfg.Direction == Horizontal {
		maxU, cell = visible.MaxX(), p.cfg.CellSize.Width
	}
	line := max(floorDiv(maxU, cell), 0)
	if line < math.MaxInt {
		line++
	}
	p.FillUntilUnrestricted(line)
	p.finished()
}

// Snapshot places every item and returns the complete layout.
func (p *Packer) Snapshot() Layout {
	p.FillAll()
	tiles := make([]Tile, 0, p.grid.len())
	for id, ok := p.src.next(ItemID{}, false); ok; id, ok = p.src.next(id, true) {
		if pl, placed := p.grid.positionOf(id); placed {
			tiles = append(tiles, p.tile(pl))
		}
	}
	return Layout{
		Direction:   p.cfg.Direction,
		CellSize:    p.cfg.CellSize,
		Viewport:    p.cfg.Viewport,
		Capacity:    p.restrictedCapacity(),
		ContentSize: p.ContentSize(),
		Tiles:       tiles,
	}
}

func (p *Packer) finished() {
	if p.onFinished != nil {
		p.onFinished()
	}
}
