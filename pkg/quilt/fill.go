package quilt

import "math"

// FillUntil places items in order after the frontier until target has been
// placed. It is a no-op when the frontier already reached target, and it
// stops early when the source runs out of items.
func (p *Packer) FillUntil(target ItemID) {
	if p.placed && p.frontier.Compare(target) >= 0 {
		return
	}
	n := 0
	for id, ok := p.src.next(p.frontier, p.placed); ok; id, ok = p.src.next(id, true) {
		if id.Compare(target) > 0 {
			break
		}
		if p.placeNext(id, p.src.blockSize(id)) {
			n++
		}
		p.advanceFrontier(id)
	}
	p.logger.Debug("filled to item", "target", target, "placed", n, "frontier", p.frontier)
}

// FillUntilUnrestricted places items in order after the frontier until the
// open cursor reaches coord, so that every line before coord is final, or
// until the source runs out of items. In prelayout mode every item is placed.
func (p *Packer) FillUntilUnrestricted(coord int) {
	if p.cfg.PrelayoutEverything {
		coord = math.MaxInt
	}
	if p.openCursor >= coord {
		return
	}
	n := 0
	for id, ok := p.src.next(p.frontier, p.placed); ok; id, ok = p.src.next(id, true) {
		if p.placeNext(id, p.src.blockSize(id)) {
			n++
		}
		p.advanceFrontier(id)
		if p.openCursor >= coord {
			break
		}
	}
	p.logger.Debug("filled to line", "target", coord, "placed", n, "cursor", p.openCursor)
}

// FillAll places every item the source currently declares.
func (p *Packer) FillAll() { p.FillUntilUnrestricted(math.MaxInt) }

func (p *Packer) advanceFrontier(id ItemID) {
	if !p.placed || p.frontier.Less(id) {
		p.frontier, p.placed = id, true
	}
}

// UpdateAction is the kind of change a host applies to its items.
type UpdateAction int

const (
	UpdateInsert UpdateAction = iota
	UpdateDelete
	UpdateMove
	UpdateReload
)

// Update describes one change to the item universe. Before is the item's ID
// prior to the change (deletes, moves, reloads) and After its ID once the
// change is applied (inserts, moves).
type Update struct {
	Action UpdateAction
	Before ItemID
	After  ItemID
}

// ApplyUpdates reconciles the layout with changes to the source. Items
// appended after the frontier are placed eagerly. Any change that touches an
// already placed item invalidates the whole layout, because placement never
// moves an item once placed. It reports whether an invalidation happened.
func (p *Packer) ApplyUpdates(updates ...Update) bool {
	for _, u := range updates {
		if p.touchesPlaced(u) {
			p.Invalidate()
			return true
		}
	}
	for _, u := range updates {
		if (u.Action == UpdateInsert || u.Action == UpdateMove) && p.src.contains(u.After) {
			p.FillUntil(u.After)
		}
	}
	p.clearQuery()
	return false
}

func (p *Packer) touchesPlaced(u Update) bool {
	if !p.placed {
		return false
	}
	switch u.Action {
	case UpdateInsert:
		return u.After.Compare(p.frontier) <= 0
	case UpdateMove:
		return u.Before.Compare(p.frontier) <= 0 || u.After.Compare(p.frontier) <= 0
	default:
		return u.Before.Compare(p.frontier) <= 0
	}
}
