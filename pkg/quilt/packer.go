package quilt

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/quilt/pkg/errors"
)

// DefaultCellSize is the pixel size of a grid cell when none is configured.
var DefaultCellSize = PixelSize{Width: 100, Height: 100}

// Config holds the settings that shape a quilt. Changing any of them
// discards every placement.
type Config struct {
	// Direction selects the growing axis. Default: Vertical.
	Direction Direction
	// CellSize is the pixel size of one grid cell. Zero means DefaultCellSize.
	CellSize PixelSize
	// Viewport is the pixel size of the visible area, already reduced by any
	// content insets of the host. Its restricted extent bounds the grid.
	Viewport PixelSize
	// PrelayoutEverything places every item on the first viewport query.
	PrelayoutEverything bool
}

func (c *Config) setDefaults() {
	if c.CellSize == (PixelSize{}) {
		c.CellSize = DefaultCellSize
	}
}

// Validate checks that the configuration describes a usable grid.
func (c Config) Validate() error {
	if err := errors.ValidateCellSize(c.CellSize.Width, c.CellSize.Height); err != nil {
		return err
	}
	if err := errors.ValidateViewport(c.Viewport.Width, c.Viewport.Height); err != nil {
		return err
	}
	if c.Direction != Vertical && c.Direction != Horizontal {
		return errors.New(errors.ErrCodeInvalidDirection, "unknown direction %d", int(c.Direction))
	}
	return nil
}

// Invalidation describes a reset of placement state.
type Invalidation struct {
	// Generation is the packer generation after the reset.
	Generation uint64
	// Discarded is the number of placements thrown away.
	Discarded int
}

// Option configures a Packer.
type Option func(*Packer)

// WithLogger traces fill passes at debug level.
func WithLogger(l *log.Logger) Option {
	return func(p *Packer) {
		if l != nil {
			p.logger = l
		}
	}
}

// WithOnLayoutFinished registers fn to run once after every viewport fill
// pass (Prepare or an uncached TilesIn).
func WithOnLayoutFinished(fn func()) Option { return func(p *Packer) { p.onFinished = fn } }

// Packer lays out the items of a Source on a quilt grid.
type Packer struct {
	cfg        Config
	src        delegate
	logger     *log.Logger
	onFinished func()

	grid       *grid
	frontier   ItemID
	placed     bool // whether frontier is set
	furthest   Cell
	openCursor int // unrestricted coordinate of the earliest free cell
	generation uint64

	lastQuery  *Rect
	lastResult []Tile
}

// New returns a packer for src. The configuration is validated after
// defaults are applied.
func New(src Source, cfg Config, opts ...Option) (*Packer, error) {
	if src == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "source is required")
	}
	cfg.setDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	p := &Packer{
		cfg:    cfg,
		src:    newDelegate(src),
		logger: log.NewWithOptions(io.Discard, log.Options{}),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.reset()
	return p, nil
}

// Config returns the current configuration.
func (p *Packer) Config() Config { return p.cfg }

// Generation counts invalidations since the packer was created.
func (p *Packer) Generation() uint64 { return p.generation }

// Invalidate discards every placement. The next query rebuilds the layout.
func (p *Packer) Invalidate() Invalidation {
	discarded := p.grid.len()
	p.reset()
	p.generation++
	p.logger.Debug("quilt invalidated", "generation", p.generation, "discarded", discarded)
	return Invalidation{Generation: p.generation, Discarded: discarded}
}

func (p *Packer) reset() {
	p.grid = newGrid(p.cfg.Direction)
	p.frontier, p.placed = ItemID{}, false
	p.furthest = Cell{}
	p.openCursor = 0
	p.clearQuery()
}

func (p *Packer) clearQuery() {
	p.lastQuery, p.lastResult = nil, nil
}

// SetDirection changes the growing axis and invalidates the layout.
func (p *Packer) SetDirection(d Direction) (Invalidation, error) {
	if d != Vertical && d != Horizontal {
		return Invalidation{}, errors.New(errors.ErrCodeInvalidDirection, "unknown direction %d", int(d))
	}
	p.cfg.Direction = d
	return p.Invalidate(), nil
}

// SetCellSize changes the pixel size of a cell and invalidates the layout.
func (p *Packer) SetCellSize(s PixelSize) (Invalidation, error) {
	if err := errors.ValidateCellSize(s.Width, s.Height); err != nil {
		return Invalidation{}, err
	}
	p.cfg.CellSize = s
	return p.Invalidate(), nil
}

// SetViewport changes the viewport size. The layout is invalidated only
// when the size actually changes; ok reports whether that happened.
func (p *Packer) SetViewport(s PixelSize) (inv Invalidation, ok bool, err error) {
	if err := errors.ValidateViewport(s.Width, s.Height); err != nil {
		return Invalidation{}, false, err
	}
	if s == p.cfg.Viewport {
		return Invalidation{Generation: p.generation}, false, nil
	}
	p.cfg.Viewport = s
	return p.Invalidate(), true, nil
}

// SetPrelayoutEverything toggles exhaustive placement and invalidates the
// layout.
func (p *Packer) SetPrelayoutEverything(on bool) Invalidation {
	p.cfg.PrelayoutEverything = on
	return p.Invalidate()
}

// Frontier returns the last item placed, in placement order.
func (p *Packer) Frontier() (ItemID, bool) { return p.frontier, p.placed }

// FurthestPoint returns the largest occupied x and y seen so far.
func (p *Packer) FurthestPoint() Cell { return p.furthest }

// OpenCursor returns the unrestricted coordinate before which every cell
// inside the restricted bound is occupied.
func (p *Packer) OpenCursor() int { return p.openCursor }

// Placed returns the number of items placed.
func (p *Packer) Placed() int { return p.grid.len() }

// OccupantAt returns the item covering c without placing anything.
func (p *Packer) OccupantAt(c Cell) (ItemID, bool) { return p.grid.occupantAt(c) }

// PlacementOf returns where id was placed without placing anything.
func (p *Packer) PlacementOf(id ItemID) (Placement, bool) { return p.grid.positionOf(id) }

// Capacity returns the number of cells along the restricted axis.
func (p *Packer) Capacity() int { return p.restrictedCapacity() }
