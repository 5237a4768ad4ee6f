package io

import (
	"encoding/json"

	"github.com/google/uuid"

	"github.com/matzehuels/quilt/pkg/errors"
	"github.com/matzehuels/quilt/pkg/quilt"
)

// Document is a packing request: grid settings plus the items to place.
type Document struct {
	Direction quilt.Direction `json:"direction" toml:"direction"`
	Cell      quilt.PixelSize `json:"cell" toml:"cell"`
	Viewport  quilt.PixelSize `json:"viewport" toml:"viewport"`
	Prelayout bool            `json:"prelayout,omitempty" toml:"prelayout"`
	Sections  []Section       `json:"sections" toml:"sections"`

	index map[string]quilt.ItemID
}

// Section is an ordered group of items.
type Section struct {
	Name  string `json:"name,omitempty" toml:"name"`
	Items []Item `json:"items" toml:"items"`
}

// Item is one tile request.
type Item struct {
	ID     string       `json:"id" toml:"id"`
	Label  string       `json:"label,omitempty" toml:"label"`
	Width  int          `json:"width" toml:"width"`
	Height int          `json:"height" toml:"height"`
	Insets quilt.Insets `json:"insets,omitzero" toml:"insets"`
	Color  string       `json:"color,omitempty" toml:"color"`
}

// Normalize validates d and fills in derived values: missing ids get a UUID
// and block sizes below one cell become one. A zero cell size becomes the
// engine default. Blocks wider or taller than quilt.MaxBlockCells, and insets
// that are negative, non-finite or swallow the whole frame, are rejected.
// Normalize is idempotent.
func (d *Document) Normalize() error {
	if d.Cell == (quilt.PixelSize{}) {
		d.Cell = quilt.DefaultCellSize
	}
	if err := d.Config().Validate(); err != nil {
		return err
	}

	d.index = make(map[string]quilt.ItemID, d.Len())
	for s := range d.Sections {
		items := d.Sections[s].Items
		for i := range items {
			it := &items[i]
			if it.ID == "" {
				it.ID = uuid.NewString()
			}
			if err := errors.ValidateItemID(it.ID); err != nil {
				return errors.Wrap(errors.ErrCodeInvalidDocument, err, "section %d item %d", s, i)
			}
			if prev, dup := d.index[it.ID]; dup {
				return errors.New(errors.ErrCodeInvalidDocument, "duplicate item id %q (first at %v)", it.ID, prev)
			}
			it.Width, it.Height = max(it.Width, 1), max(it.Height, 1)
			if err := d.validateItem(*it); err != nil {
				return errors.Wrap(errors.ErrCodeInvalidDocument, err, "section %d item %d (%s)", s, i, it.ID)
			}
			d.index[it.ID] = quilt.ItemID{Section: s, Index: i}
		}
	}
	return nil
}

func (d *Document) validateItem(it Item) error {
	if it.Width > quilt.MaxBlockCells || it.Height > quilt.MaxBlockCells {
		return errors.New(errors.ErrCodeInvalidInput, "block %dx%d exceeds %d cells", it.Width, it.Height, quilt.MaxBlockCells)
	}
	in := it.Insets
	if !in.Valid() {
		return errors.New(errors.ErrCodeInvalidInput, "insets must be finite and not negative, got %+v", in)
	}
	if w := float64(it.Width) * d.Cell.Width; in.Left+in.Right >= w {
		return errors.New(errors.ErrCodeInvalidInput, "horizontal insets %v+%v leave nothing of a %vpx frame", in.Left, in.Right, w)
	}
	if h := float64(it.Height) * d.Cell.Height; in.Top+in.Bottom >= h {
		return errors.New(errors.ErrCodeInvalidInput, "vertical insets %v+%v leave nothing of a %vpx frame", in.Top, in.Bottom, h)
	}
	return nil
}

// Config returns the engine configuration the document asks for.
func (d *Document) Config() quilt.Config {
	return quilt.Config{
		Direction:           d.Direction,
		CellSize:            d.Cell,
		Viewport:            d.Viewport,
		PrelayoutEverything: d.Prelayout,
	}
}

// Len returns the number of items across all sections.
func (d *Document) Len() int {
	n := 0
	for _, s := range d.Sections {
		n += len(s.Items)
	}
	return n
}

// Item returns the item at id.
func (d *Document) Item(id quilt.ItemID) (Item, bool) {
	if id.Section < 0 || id.Section >= len(d.Sections) {
		return Item{}, false
	}
	items := d.Sections[id.Section].Items
	if id.Index < 0 || id.Index >= len(items) {
		return Item{}, false
	}
	return items[id.Index], true
}

// Lookup finds an item by its document id. It only works on a normalized
// document.
func (d *Document) Lookup(name string) (quilt.ItemID, bool) {
	id, ok := d.index[name]
	return id, ok
}

// Label returns the display label of id: its label, else its document id,
// else the engine id.
func (d *Document) Label(id quilt.ItemID) string {
	it, ok := d.Item(id)
	switch {
	case !ok:
		return id.String()
	case it.Label != "":
		return it.Label
	case it.ID != "":
		return it.ID
	}
	return id.String()
}

// Color returns the configured color of id, or "".
func (d *Document) Color(id quilt.ItemID) string {
	it, _ := d.Item(id)
	return it.Color
}

// Canonical returns a stable JSON encoding of the normalized document,
// suitable for hashing.
func (d *Document) Canonical() ([]byte, error) {
	data, err := json.Marshal(d)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode document")
	}
	return data, nil
}

// Source adapts d to the engine's collaborator contract. The document must
// not be modified while a packer reads from it.
func (d *Document) Source() quilt.Source { return docSource{d} }

type docSource struct{ d *Document }

func (s docSource) SectionCount() int { return len(s.d.Sections) }

func (s docSource) ItemCount(section int) int {
	if section < 0 || section >= len(s.d.Sections) {
		return 0
	}
	return len(s.d.Sections[section].Items)
}

func (s docSource) BlockSize(id quilt.ItemID) (quilt.Size, bool) {
	it, ok := s.d.Item(id)
	if !ok {
		return quilt.Size{}, false
	}
	return quilt.Size{Width: it.Width, Height: it.Height}, true
}

func (s docSource) Insets(id quilt.ItemID) (quilt.Insets, bool) {
	it, ok := s.d.Item(id)
	return it.Insets, ok
}
