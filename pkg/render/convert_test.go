package render

import (
	"bytes"
	"context"
	"testing"

	"github.com/matzehuels/quilt/pkg/errors"
)

const tinySVG = `<svg xmlns="http://www.w3.org/2000/svg" width="10" height="10"><rect width="10" height="10" fill="#000"/></svg>`

func TestConvertMissingTool(t *testing.T) {
	old := converter
	converter = "quilt-no-such-converter"
	t.Cleanup(func() { converter = old })

	if Available() {
		t.Fatal("Available() = true for a missing binary")
	}
	_, err := ToPDF(context.Background(), []byte(tinySVG))
	if !errors.Is(err, errors.ErrCodeUnsupported) {
		t.Errorf("ToPDF() error = %v, want %s", err, errors.ErrCodeUnsupported)
	}
}

func TestToPNG(t *testing.T) {
	if !Available() {
		t.Skip("rsvg-convert not installed")
	}
	png, err := ToPNG(context.Background(), []byte(tinySVG), 2)
	if err != nil {
		t.Fatalf("ToPNG() error: %v", err)
	}
	if !bytes.HasPrefix(png, []byte("\x89PNG")) {
		t.Errorf("ToPNG() output is not a PNG: %q", png[:min(len(png), 8)])
	}
}

func TestToPDF(t *testing.T) {
	if !Available() {
		t.Skip("rsvg-convert not installed")
	}
	pdf, err := ToPDF(context.Background(), []byte(tinySVG))
	if err != nil {
		t.Fatalf("ToPDF() error: %v", err)
	}
	if !bytes.HasPrefix(pdf, []byte("%PDF")) {
		t.Errorf("ToPDF() output is not a PDF")
	}
}
