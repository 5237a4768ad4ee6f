package quilt

import "fmt"

// grid maps cells to the items occupying them and items to their placement.
//
// Cells are keyed restricted coordinate first. The restricted axis is
// bounded by the viewport, so the outer map stays small and memory grows
// with the number of cells placed rather than with the unbounded extent.
type grid struct {
	dir        Direction
	cells      map[int]map[int]ItemID
	placements map[ItemID]Placement
}

func newGrid(dir Direction) *grid {
	return &grid{
		dir:        dir,
		cells:      make(map[int]map[int]ItemID),
		placements: make(map[ItemID]Placement),
	}
}

// occupantAt returns the item covering c, if any.
func (g *grid) occupantAt(c Cell) (ItemID, bool) {
	r, u := g.dir.split(c)
	id, ok := g.cells[r][u]
	return id, ok
}

func (g *grid) isFree(c Cell) bool {
	_, taken := g.occupantAt(c)
	return !taken
}

// reserve marks c as occupied by id. Reserving an occupied cell is a
// planner bug that would corrupt the index, so it panics.
func (g *grid) reserve(c Cell, id ItemID) {
	r, u := g.dir.split(c)
	col, ok := g.cells[r]
	if !ok {
		col = make(map[int]ItemID)
		g.cells[r] = col
	}
	if prev, taken := col[u]; taken {
		panic(fmt.Sprintf("quilt: cell %v already occupied by %v, cannot reserve for %v", c, prev, id))
	}
	col[u] = id
}

// record stores the placement of an item and reserves its footprint.
func (g *grid) record(p Placement) {
	if _, dup := g.placements[p.ID]; dup {
		panic(fmt.Sprintf("quilt: item %v placed twice", p.ID))
	}
	p.Footprint(func(c Cell) bool {
		g.reserve(c, p.ID)
		return true
	})
	g.placements[p.ID] = p
}

// positionOf returns the placement recorded for id.
func (g *grid) positionOf(id ItemID) (Placement, bool) {
	p, ok := g.placements[id]
	return p, ok
}

func (g *grid) len() int { return len(g.placements) }
