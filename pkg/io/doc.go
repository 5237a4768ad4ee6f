// Package io reads quilt documents and reads and writes computed layouts.
//
// # Overview
//
// A document describes what to pack: the grid settings and an ordered list of
// sections, each holding items with a block size in cells. Documents can be
// written as JSON or TOML and are designed for:
//
//   - Feeding the CLI and the HTTP API with the same input
//   - Hashing for cache keys (see [Document.Canonical])
//   - Carrying display data (labels, colors) through to the render sinks
//
// # JSON Format
//
//	{
//	  "direction": "vertical",
//	  "cell": {"width": 100, "height": 100},
//	  "viewport": {"width": 400, "height": 600},
//	  "sections": [
//	    {"name": "featured", "items": [
//	      {"id": "hero", "width": 2, "height": 2, "color": "#e76f51"},
//	      {"id": "a"},
//	      {"id": "b", "insets": {"top": 4, "left": 4, "bottom": 4, "right": 4}}
//	    ]}
//	  ]
//	}
//
// # TOML Format
//
//	direction = "horizontal"
//	viewport = { width = 800, height = 300 }
//
//	[[sections]]
//	name = "featured"
//
//	[[sections.items]]
//	id = "hero"
//	width = 2
//	height = 2
//
// # Item Fields
//
// All item fields are optional:
//   - id: Unique identifier; a random UUID is assigned when empty
//   - label: Display text for sinks (defaults to the id)
//   - width, height: Block size in cells; values below 1 are raised to 1
//   - insets: Pixel insets applied to the item's frame
//   - color: Fill color for the SVG sink
//
// # Import
//
// Use [Import] to read a document from a file path (the extension selects
// the format), or [ReadJSON] / [ReadTOML] to read from any io.Reader. Unknown
// fields, duplicate ids and invalid grid settings are rejected with
// [errors.ErrCodeInvalidDocument] and related codes.
//
// # Layouts
//
// [WriteLayout] and [ReadLayout] serialize a packed [quilt.Layout]. The
// pipeline uses them for its layout cache and the CLI for pack output.
//
// [errors.ErrCodeInvalidDocument]: github.com/matzehuels/quilt/pkg/errors.ErrCodeInvalidDocument
// [quilt.Layout]: github.com/matzehuels/quilt/pkg/quilt.Layout
package io
