package errors

import (
	"math"
	"strings"
	"unicode"
)

// MaxItemIDLength is the longest item identifier a document may use.
const MaxItemIDLength = 256

// ValidateCellSize checks that a cell has a positive, finite pixel size.
func ValidateCellSize(width, height float64) error {
	if !positive(width) {
		return New(ErrCodeInvalidCellSize, "cell width must be positive, got %v", width)
	}
	if !positive(height) {
		return New(ErrCodeInvalidCellSize, "cell height must be positive, got %v", height)
	}
	return nil
}

// ValidateViewport checks that a viewport size is finite and not negative.
// A zero extent is allowed; the grid then holds a single line of cells.
func ValidateViewport(width, height float64) error {
	if width < 0 || math.IsNaN(width) || math.IsInf(width, 0) {
		return New(ErrCodeInvalidViewport, "viewport width must be a non-negative number, got %v", width)
	}
	if height < 0 || math.IsNaN(height) || math.IsInf(height, 0) {
		return New(ErrCodeInvalidViewport, "viewport height must be a non-negative number, got %v", height)
	}
	return nil
}

// ValidateDirection checks a direction name as accepted on the command line
// and in documents.
func ValidateDirection(dir string) error {
	switch strings.ToLower(strings.TrimSpace(dir)) {
	case "", "vertical", "v", "horizontal", "h":
		return nil
	}
	return New(ErrCodeInvalidDirection, "invalid direction: %q (must be vertical or horizontal)", dir)
}

// ValidateItemID validates a document item identifier. IDs end up in SVG
// element ids and cache keys, so control characters are rejected.
func ValidateItemID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidItemID, "item id cannot be empty")
	}
	if len(id) > MaxItemIDLength {
		return New(ErrCodeInvalidItemID, "item id too long (max %d characters)", MaxItemIDLength)
	}
	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidItemID, "item id contains invalid control characters")
		}
	}
	if strings.ContainsAny(id, `<>"'&`) {
		return New(ErrCodeInvalidItemID, "item id contains markup characters: %q", id)
	}
	return nil
}

func positive(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}
