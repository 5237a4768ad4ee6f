// Package quilt implements a deterministic tile-packing layout engine.
//
// # Overview
//
// A quilt is an ordered sequence of items laid out on an infinite grid of
// equally sized cells. Each item asks for a block of cells (width × height)
// and the [Packer] assigns it the earliest free origin that can hold the
// whole block. Gaps left by large blocks are back-filled by later, smaller
// ones, so the result is as tight as possible along one axis.
//
// The grid is bounded along the restricted axis (columns for [Vertical],
// rows for [Horizontal]) by the viewport and grows without bound along the
// other. Blocks anchored at restricted coordinate 0 may overflow the bound,
// which guarantees that every item places even when it is wider than the
// viewport.
//
// # Incremental Placement
//
// Placement is monotonic. Items are placed in (section, index) order and an
// item is never moved once placed; the packer remembers the last placed item
// (the frontier) and resumes strictly after it. Work is done lazily:
//
//   - [Packer.RectFor] places items up to the one being asked for
//   - [Packer.TilesIn] places items until the requested pixel window is covered
//   - [Packer.Snapshot] places everything
//
// With [Config.PrelayoutEverything] set, any viewport query places every item
// up front, trading laziness for a content size that is known immediately.
//
// Changing the direction, the cell size, the viewport or the prelayout flag
// resets all placement state; the next query rebuilds it from scratch.
//
// # Collaborators
//
// Items are described by a [Source]. A source only has to report how many
// sections and items exist; block sizes and insets are optional capabilities
// ([BlockSizer], [Insetter]) that default to 1×1 cells and zero insets.
// [Sections] is a ready-made in-memory source.
//
// # Concurrency
//
// A Packer is not safe for concurrent use. All calls must be serialized by
// the caller, typically by owning one packer per goroutine or request.
package quilt
