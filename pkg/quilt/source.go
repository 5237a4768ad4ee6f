package quilt

// Source describes the ordered universe of items to lay out. Counts are read
// on demand, so a source may grow between calls; the packer only ever reads
// items after its frontier. After growing a source, report the new items
// with [Packer.ApplyUpdates] so cached viewport queries are dropped.
type Source interface {
	SectionCount() int
	ItemCount(section int) int
}

// BlockSizer is an optional capability of a Source that reports the block
// size of an item in cells. Returning false means "use the default".
type BlockSizer interface {
	BlockSize(id ItemID) (Size, bool)
}

// Insetter is an optional capability of a Source that reports pixel insets
// applied to an item's frame. Returning false means "no insets".
type Insetter interface {
	Insets(id ItemID) (Insets, bool)
}

// delegate resolves the optional capabilities of a Source once and answers
// with defaults where the source is silent.
type delegate struct {
	src      Source
	sizer    BlockSizer
	insetter Insetter
}

func newDelegate(src Source) delegate {
	d := delegate{src: src}
	d.sizer, _ = src.(BlockSizer)
	d.insetter, _ = src.(Insetter)
	return d
}

func (d delegate) sectionCount() int { return max(d.src.SectionCount(), 0) }

func (d delegate) itemCount(section int) int { return max(d.src.ItemCount(section), 0) }

// contains reports whether id is inside the universe the source declares.
func (d delegate) contains(id ItemID) bool {
	if id.Section < 0 || id.Index < 0 || id.Section >= d.sectionCount() {
		return false
	}
	return id.Index < d.itemCount(id.Section)
}

func (d delegate) blockSize(id ItemID) Size {
	if d.sizer == nil {
		return DefaultSize
	}
	if s, ok := d.sizer.BlockSize(id); ok {
		return s.clamped()
	}
	return DefaultSize
}

func (d delegate) insets(id ItemID) Insets {
	if d.insetter == nil {
		return Insets{}
	}
	in, _ := d.insetter.Insets(id)
	return in
}

// next returns the first item strictly after id in placement order, skipping
// empty sections. With ok false it returns the very first item.
func (d delegate) next(id ItemID, ok bool) (ItemID, bool) {
	section, index := 0, 0
	if ok {
		section, index = id.Section, id.Index+1
	}
	for n := d.sectionCount(); section < n; section, index = section+1, 0 {
		if index < d.itemCount(section) {
			return ItemID{Section: section, Index: index}, true
		}
	}
	return ItemID{}, false
}

// Item is one entry of an in-memory Sections source.
type Item struct {
	Size   Size
	Insets Insets
}

// Sections is an in-memory Source: a list of sections, each a list of items.
// A zero Size is reported as unanswered and falls back to the default.
type Sections [][]Item

// Uniform returns a single-section source of n default-sized items.
func Uniform(n int) Sections {
	return Sections{make([]Item, n)}
}

// Append adds items to section, creating empty sections as needed.
func (s *Sections) Append(section int, items ...Item) {
	for len(*s) <= section {
		*s = append(*s, nil)
	}
	(*s)[section] = append((*s)[section], items...)
}

func (s Sections) SectionCount() int { return len(s) }

func (s Sections) ItemCount(section int) int {
	if section < 0 || section >= len(s) {
		return 0
	}
	return len(s[section])
}

func (s Sections) BlockSize(id ItemID) (Size, bool) {
	it, ok := s.item(id)
	if !ok || it.Size == (Size{}) {
		return Size{}, false
	}
	return it.Size, true
}

func (s Sections) Insets(id ItemID) (Insets, bool) {
	it, ok := s.item(id)
	if !ok {
		return Insets{}, false
	}
	return it.Insets, true
}

func (s Sections) item(id ItemID) (Item, bool) {
	if id.Index < 0 || id.Index >= s.ItemCount(id.Section) {
		return Item{}, false
	}
	return s[id.Section][id.Index], true
}
