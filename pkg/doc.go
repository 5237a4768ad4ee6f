// Package pkg provides the core libraries for Quilt tile packing.
//
// # Overview
//
// Quilt places items of different block sizes on a grid that is bounded on
// one axis (the restricted axis) and grows without limit along the other,
// the way a photo wall or a mosaic feed scrolls. Items are placed in order,
// each at the first free spot that fits, and only as far as a viewer has
// scrolled. The pkg directory is organized into these areas:
//
//  1. [quilt] - The packing engine (grid, placement, viewport queries)
//  2. [io] - Documents (JSON, TOML) and layout files
//  3. [render] - Output formats (SVG, JSON, text, PDF, PNG)
//  4. [pipeline] - Orchestration (pack → render) with caching
//  5. [cache] - Cache backends (file, Redis, MongoDB)
//
// # Architecture
//
// The typical data flow:
//
//	Document (JSON/TOML)
//	         ↓
//	    [io] package (decode + normalize)
//	         ↓
//	    [quilt] package (pack items onto the grid)
//	         ↓
//	    [render/sink] package (draw tiles)
//	         ↓
//	    SVG/PDF/PNG/JSON/text output
//
// # Quick Start
//
// Pack a document and render it:
//
//	import (
//	    "github.com/matzehuels/quilt/pkg/io"
//	    "github.com/matzehuels/quilt/pkg/quilt"
//	    "github.com/matzehuels/quilt/pkg/render/sink"
//	)
//
//	doc, _ := io.Import("photos.toml")
//	_ = doc.Normalize()
//
//	p, _ := quilt.New(doc.Source(), doc.Config())
//	layout := p.Snapshot()
//
//	svg := sink.RenderSVG(layout, sink.WithLabels(doc.Label), sink.WithColors(doc.Color))
//
// Answer a viewport query without packing everything:
//
//	visible := p.TilesIn(quilt.Rect{Y: 2400, Width: 800, Height: 600})
//
// # Main Packages
//
// [quilt] - The packing engine. A [quilt.Packer] reads item counts and block
// sizes from a [quilt.Source], places items lazily, and maps between cells
// and pixels. Configuration changes and item updates invalidate exactly the
// state they affect.
//
// [io] - The document model shared by the CLI and the HTTP API, with JSON and
// TOML codecs, and helpers to read and write finished layouts.
//
// [render] - SVG to PDF/PNG conversion through rsvg-convert.
//
//   - [render/sink]: Output formats (SVG, JSON, text, PDF, PNG)
//
// [pipeline] - The pack → render pipeline used by CLI and API. Ensures
// consistent behavior and caching across entry points.
//
// [cache] - Key/value cache backends: FileCache for the CLI, Redis and
// MongoDB for shared servers, and keyers deriving keys from content hashes.
//
// [errors] - Error codes with HTTP status mapping and input validation.
//
// [observability] - Hooks for metrics and tracing of pack, render, cache and
// HTTP events.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...          # All tests
//	go test ./pkg/quilt/...    # Specific package
//	go test -run Example       # Examples only
//
// [quilt]: https://pkg.go.dev/github.com/matzehuels/quilt/pkg/quilt
// [quilt.Packer]: https://pkg.go.dev/github.com/matzehuels/quilt/pkg/quilt#Packer
// [quilt.Source]: https://pkg.go.dev/github.com/matzehuels/quilt/pkg/quilt#Source
// [io]: https://pkg.go.dev/github.com/matzehuels/quilt/pkg/io
// [render]: https://pkg.go.dev/github.com/matzehuels/quilt/pkg/render
// [render/sink]: https://pkg.go.dev/github.com/matzehuels/quilt/pkg/render/sink
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/quilt/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/quilt/pkg/cache
// [errors]: https://pkg.go.dev/github.com/matzehuels/quilt/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/quilt/pkg/observability
package pkg
