package render

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"

	"github.com/matzehuels/quilt/pkg/errors"
)

// converter is the rsvg-convert binary. Tests point it elsewhere.
var converter = "rsvg-convert"

// ToPDF converts an SVG document to PDF.
func ToPDF(ctx context.Context, svg []byte) ([]byte, error) {
	return convert(ctx, svg, "pdf")
}

// ToPNG converts an SVG document to PNG. A scale of 2 doubles the pixel
// dimensions of the SVG canvas.
func ToPNG(ctx context.Context, svg []byte, scale float64) ([]byte, error) {
	if scale <= 0 {
		scale = 1
	}
	return convert(ctx, svg, "png", "-z", strconv.FormatFloat(scale, 'f', 2, 64))
}

// Available reports whether rsvg-convert can be found on PATH.
func Available() bool {
	_, err := exec.LookPath(converter)
	return err == nil
}

func convert(ctx context.Context, svg []byte, format string, extra ...string) ([]byte, error) {
	if !Available() {
		return nil, errors.New(errors.ErrCodeUnsupported,
			"%s output requires librsvg (brew install librsvg, apt install librsvg2-bin)", format)
	}

	cmd := exec.CommandContext(ctx, converter, append([]string{"-f", format}, extra...)...)
	cmd.Stdin = bytes.NewReader(svg)
	var out, stderr bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%s: %w: %s", converter, err, bytes.TrimSpace(stderr.Bytes()))
	}
	return out.Bytes(), nil
}
