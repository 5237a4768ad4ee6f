package quilt

import (
	"fmt"
	"math"
)

// restrictedCapacity is the number of whole cells that fit across the
// viewport on the restricted axis, never less than one.
func (p *Packer) restrictedCapacity() int {
	extent, cell := p.cfg.Viewport.Width, p.cfg.CellSize.Width
	if p.cfg.Direction == Horizontal {
		extent, cell = p.cfg.Viewport.Height, p.cfg.CellSize.Height
	}
	return max(floorDiv(extent, cell), 1)
}

// placeNext places id if it has no position yet. It reports whether a new
// placement was made.
//
// Candidate origins are scanned from the open cursor, unrestricted
// coordinate first and restricted coordinate second, and the first origin
// whose whole footprint is free wins.
func (p *Packer) placeNext(id ItemID, size Size) bool {
	if _, ok := p.grid.positionOf(id); ok {
		return false
	}
	size = size.clamped()
	if size.Width > MaxBlockCells || size.Height > MaxBlockCells {
		panic(fmt.Sprintf("quilt: block of %v is %dx%d cells, limit is %d", id, size.Width, size.Height, MaxBlockCells))
	}
	capacity := p.restrictedCapacity()
	dir := p.cfg.Direction

	// Any origin past the furthest occupied line is entirely free and, at
	// restricted coordinate zero, always fits.
	ceiling := p.openCursor
	if p.grid.len() > 0 {
		_, fu := dir.split(p.furthest)
		ceiling = max(ceiling, fu+1)
	}

	seenFree := false
	for u := p.openCursor; u <= ceiling; u++ {
		for r := 0; r < capacity; r++ {
			origin := dir.join(r, u)
			if origin.X > math.MaxInt-size.Width || origin.Y > math.MaxInt-size.Height {
				panic(fmt.Sprintf("quilt: footprint of %v at %v overflows the grid", id, origin))
			}
			if !p.grid.isFree(origin) {
				continue
			}
			if !seenFree {
				seenFree = true
				p.openCursor = u
			}
			if !p.fits(origin, size, capacity) {
				continue
			}
			p.commit(Placement{ID: id, Origin: origin, Size: size})
			return true
		}
	}
	panic(fmt.Sprintf("quilt: no origin found for %v (%dx%d) below unrestricted %d", id, size.Width, size.Height, ceiling))
}

// fits reports whether a block of size can sit at origin. Cells past the
// restricted bound are tolerated only for blocks anchored at restricted
// coordinate zero, so oversized blocks still place.
func (p *Packer) fits(origin Cell, size Size, capacity int) bool {
	dir := p.cfg.Direction
	anchored, _ := dir.split(origin)
	return footprint(origin, size, func(c Cell) bool {
		if !p.grid.isFree(c) {
			return false
		}
		r, _ := dir.split(c)
		return r < capacity || anchored == 0
	})
}

func (p *Packer) commit(pl Placement) {
	p.grid.record(pl)
	pl.Footprint(func(c Cell) bool {
		p.furthest.X = max(p.furthest.X, c.X)
		p.furthest.Y = max(p.furthest.Y, c.Y)
		return true
	})
	p.advanceCursor()
	p.clearQuery()
}

// advanceCursor moves the open cursor past lines that are now full.
func (p *Packer) advanceCursor() {
	capacity := p.restrictedCapacity()
	for {
		for r := 0; r < capacity; r++ {
			if p.grid.isFree(p.cfg.Direction.join(r, p.openCursor)) {
				return
			}
		}
		p.openCursor++
	}
}
