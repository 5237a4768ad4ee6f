// Package pipeline provides the packing pipeline shared by the CLI and the
// HTTP API.
//
// The pipeline consists of two stages:
//
//  1. Pack: place every item of a document on the grid
//  2. Render: generate output in various formats (SVG, JSON, text, PNG, PDF)
//
// Both stages are cached through [cache.Cache]. A third entry point,
// [Runner.Window], answers viewport queries by packing lazily and is never
// cached.
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	result, err := runner.Execute(ctx, doc, pipeline.Options{
//	    Formats: []string{"svg"},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
//
// Options override the grid settings the document carries. Settings that
// neither specifies fall back to the package defaults.
package pipeline

import (
	"fmt"
	"io"
	"slices"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/quilt/pkg/cache"
	"github.com/matzehuels/quilt/pkg/errors"
	qio "github.com/matzehuels/quilt/pkg/io"
	"github.com/matzehuels/quilt/pkg/quilt"
)

const (
	// DefaultViewportWidth is the viewport width used when neither the
	// document nor the options set one.
	DefaultViewportWidth = 800.0

	// DefaultViewportHeight is the viewport height used when neither the
	// document nor the options set one.
	DefaultViewportHeight = 600.0
)

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatJSON = "json"
	FormatText = "txt"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatJSON: true,
	FormatText: true,
	FormatPNG:  true,
	FormatPDF:  true,
}

// Options contains all configuration for the packing pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Layout options. Zero values defer to the document.
	Direction      string  `json:"direction,omitempty"`
	CellWidth      float64 `json:"cell_width,omitempty"`
	CellHeight     float64 `json:"cell_height,omitempty"`
	ViewportWidth  float64 `json:"viewport_width,omitempty"`
	ViewportHeight float64 `json:"viewport_height,omitempty"`
	Refresh        bool    `json:"refresh,omitempty"`

	// Render options
	Formats    []string `json:"formats,omitempty"`
	Grid       bool     `json:"grid,omitempty"`
	HideLabels bool     `json:"hide_labels,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// DocumentHash is the content hash of the normalized document.
	DocumentHash string

	// Layout is the fully packed quilt.
	Layout quilt.Layout

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	ItemCount  int
	TileCount  int
	Capacity   int
	PackTime   time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LayoutHit bool `json:"layout_hit"` // Whether the layout came from cache
	RenderHit bool `json:"render_hit"` // Whether all artifacts came from cache
}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat,
			"invalid format: %q (must be one of: svg, json, txt, png, pdf)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// SetLayoutDefaults sets default values for layout computation.
func (o *Options) SetLayoutDefaults() {
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForLayout checks the layout overrides.
func (o *Options) ValidateForLayout() error {
	o.SetLayoutDefaults()
	if o.Direction != "" {
		if err := errors.ValidateDirection(o.Direction); err != nil {
			return err
		}
	}
	if o.CellWidth != 0 || o.CellHeight != 0 {
		if err := errors.ValidateCellSize(o.CellWidth, o.CellHeight); err != nil {
			return err
		}
	}
	return errors.ValidateViewport(o.ViewportWidth, o.ViewportHeight)
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	return ValidateFormats(o.Formats)
}

// Config resolves the engine configuration for doc: options first, then
// the document, then the defaults. Viewport dimensions are overridden one
// by one, the cell size only as a pair. A nil doc uses options and defaults
// only.
func (o *Options) Config(doc *qio.Document) (quilt.Config, error) {
	var cfg quilt.Config
	if doc != nil {
		cfg = doc.Config()
	}
	if o.Direction != "" {
		d, err := quilt.ParseDirection(o.Direction)
		if err != nil {
			return quilt.Config{}, err
		}
		cfg.Direction = d
	}
	if o.CellWidth != 0 || o.CellHeight != 0 {
		cfg.CellSize = quilt.PixelSize{Width: o.CellWidth, Height: o.CellHeight}
	}
	if cfg.CellSize == (quilt.PixelSize{}) {
		cfg.CellSize = quilt.DefaultCellSize
	}
	if o.ViewportWidth != 0 {
		cfg.Viewport.Width = o.ViewportWidth
	}
	if o.ViewportHeight != 0 {
		cfg.Viewport.Height = o.ViewportHeight
	}
	if cfg.Viewport == (quilt.PixelSize{}) {
		cfg.Viewport = quilt.PixelSize{Width: DefaultViewportWidth, Height: DefaultViewportHeight}
	}
	if err := cfg.Validate(); err != nil {
		return quilt.Config{}, fmt.Errorf("layout config: %w", err)
	}
	return cfg, nil
}

// LayoutKeyOpts returns cache key options for a layout packed with cfg.
func LayoutKeyOpts(cfg quilt.Config) cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{
		Direction:      cfg.Direction.String(),
		CellWidth:      cfg.CellSize.Width,
		CellHeight:     cfg.CellSize.Height,
		ViewportWidth:  cfg.Viewport.Width,
		ViewportHeight: cfg.Viewport.Height,
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format: format,
		Grid:   o.Grid && slices.Contains([]string{FormatSVG, FormatPNG, FormatPDF}, format),
		Labels: !o.HideLabels,
	}
}
