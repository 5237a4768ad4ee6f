package errors

import (
	"math"
	"strings"
	"testing"
)

func TestValidateCellSize(t *testing.T) {
	tests := []struct {
		name    string
		w, h    float64
		wantErr bool
	}{
		{"square", 100, 100, false},
		{"fractional", 0.5, 12.25, false},

		{"zero width", 0, 100, true},
		{"zero height", 100, 0, true},
		{"negative", -10, 10, true},
		{"nan", math.NaN(), 10, true},
		{"infinite", 10, math.Inf(1), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCellSize(tt.w, tt.h)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateCellSize(%v, %v) error = %v, wantErr %v", tt.w, tt.h, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidCellSize) {
				t.Errorf("error code = %v, want %v", GetCode(err), ErrCodeInvalidCellSize)
			}
		})
	}
}

func TestValidateViewport(t *testing.T) {
	tests := []struct {
		name    string
		w, h    float64
		wantErr bool
	}{
		{"typical", 320, 480, false},
		{"zero", 0, 0, false},

		{"negative width", -1, 480, true},
		{"negative height", 320, -1, true},
		{"nan", math.NaN(), 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateViewport(tt.w, tt.h)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateViewport(%v, %v) error = %v, wantErr %v", tt.w, tt.h, err, tt.wantErr)
			}
		})
	}
}

func TestValidateDirection(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{"", false},
		{"vertical", false},
		{"Horizontal", false},
		{" h ", false},

		{"diagonal", true},
		{"up", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			err := ValidateDirection(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateDirection(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateItemID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"simple", "photo-1", false},
		{"unicode", "bild-ä", false},
		{"uuid", "2f1c6a3e-7f0e-4c61-9d7e-1f1f0c9b7a11", false},

		{"empty", "", true},
		{"too long", strings.Repeat("a", MaxItemIDLength+1), true},
		{"control char", "foo\x01bar", true},
		{"newline", "foo\nbar", true},
		{"markup", "<script>", true},
		{"quote", `a"b`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateItemID(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateItemID(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
