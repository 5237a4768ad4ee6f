package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/quilt/pkg/errors"
	qio "github.com/matzehuels/quilt/pkg/io"
	"github.com/matzehuels/quilt/pkg/quilt"
)

func TestPackCommand(t *testing.T) {
	doc := writeDoc(t)
	if _, err := runCLI(t, "pack", doc); err != nil {
		t.Fatalf("pack error: %v", err)
	}

	l, err := qio.ImportLayout(strings.TrimSuffix(doc, ".json") + layoutSuffix)
	if err != nil {
		t.Fatalf("ImportLayout() error: %v", err)
	}
	if len(l.Tiles) != 4 || l.Capacity != 3 {
		t.Errorf("layout = %d tiles, capacity %d; want 4, 3", len(l.Tiles), l.Capacity)
	}
	if l.Tiles[3].Origin != (quilt.Cell{X: 0, Y: 2}) {
		t.Errorf("last tile origin = %v, want (0,2)", l.Tiles[3].Origin)
	}
}

func TestPackCommandOverrides(t *testing.T) {
	doc := writeDoc(t)
	out := filepath.Join(t.TempDir(), "narrow.layout.json")
	if _, err := runCLI(t, "pack", doc, "-o", out, "--width", "200", "--no-cache"); err != nil {
		t.Fatalf("pack error: %v", err)
	}
	l, err := qio.ImportLayout(out)
	if err != nil {
		t.Fatalf("ImportLayout() error: %v", err)
	}
	if l.Capacity != 2 {
		t.Errorf("Capacity = %d, want 2 with --width 200", l.Capacity)
	}
}

func TestPackCommandErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		code errors.Code
	}{
		{"missing file", []string{"pack", filepath.Join(t.TempDir(), "none.json")}, errors.ErrCodeFileNotFound},
		{"bad direction", []string{"pack", writeDoc(t), "-d", "diagonal"}, errors.ErrCodeInvalidDirection},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runCLI(t, tt.args...)
			if !errors.Is(err, tt.code) {
				t.Errorf("error = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestRenderCommandText(t *testing.T) {
	doc := writeDoc(t)
	out := filepath.Join(t.TempDir(), "quilt.txt")
	if _, err := runCLI(t, "render", doc, "-f", "txt", "-o", out); err != nil {
		t.Fatalf("render error: %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "AAB\nAAC\nD..\n") {
		t.Errorf("text output =\n%s", data)
	}
	if !strings.Contains(string(data), "Hero") {
		t.Error("legend missing document label")
	}
}

func TestRenderCommandFromLayout(t *testing.T) {
	doc := writeDoc(t)
	if _, err := runCLI(t, "pack", doc); err != nil {
		t.Fatalf("pack error: %v", err)
	}
	base := strings.TrimSuffix(doc, ".json")
	if _, err := runCLI(t, "render", base+layoutSuffix, "-f", "svg,json", "--grid"); err != nil {
		t.Fatalf("render error: %v", err)
	}

	svg, err := os.ReadFile(base + ".svg")
	if err != nil {
		t.Fatal(err)
	}
	if n := strings.Count(string(svg), `class="tile"`); n != 4 {
		t.Errorf("svg tiles = %d, want 4", n)
	}
	if !strings.Contains(string(svg), `class="grid"`) {
		t.Error("svg grid missing")
	}
	if _, err := os.Stat(base + ".tiles.json"); err != nil {
		t.Errorf("json artifact missing: %v", err)
	}
	// The source document is never overwritten.
	if data, _ := os.ReadFile(doc); string(data) != sampleDoc {
		t.Error("document was modified")
	}
}

func TestRenderCommandInvalidFormat(t *testing.T) {
	_, err := runCLI(t, "render", writeDoc(t), "-f", "gif", "--no-cache")
	if !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("error = %v, want INVALID_FORMAT", err)
	}
}

func TestInspectCommand(t *testing.T) {
	out, err := runCLI(t, "inspect", writeDoc(t))
	if err != nil {
		t.Fatalf("inspect error: %v", err)
	}
	for _, want := range []string{"Label", "Hero", "(2,1)", "2x2", "capacity 3", "4 placed", "300x300 px"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestInspectCommandItem(t *testing.T) {
	doc := writeDoc(t)
	tests := []struct {
		ref  string
		want string
	}{
		{"hero", "Hero"},
		{"0.3", "(0,2)"},
	}
	for _, tt := range tests {
		t.Run(tt.ref, func(t *testing.T) {
			out, err := runCLI(t, "inspect", doc, "--item", tt.ref)
			if err != nil {
				t.Fatalf("inspect error: %v", err)
			}
			if !strings.Contains(out, tt.want) {
				t.Errorf("output missing %q:\n%s", tt.want, out)
			}
			if n := strings.Count(out, "0."); n != 1 {
				t.Errorf("rows = %d, want 1:\n%s", n, out)
			}
		})
	}

	_, err := runCLI(t, "inspect", doc, "--item", "missing")
	if !errors.Is(err, errors.ErrCodeItemOutOfRange) {
		t.Errorf("error = %v, want ITEM_OUT_OF_RANGE", err)
	}
}

func TestInspectCommandWindow(t *testing.T) {
	out, err := runCLI(t, "inspect", writeDoc(t), "--window", "0,0,300,100")
	if err != nil {
		t.Fatalf("inspect error: %v", err)
	}
	if !strings.Contains(out, "3 visible") {
		t.Errorf("output missing visible count:\n%s", out)
	}
	if strings.Contains(out, "(0,2)") {
		t.Errorf("tile below the window listed:\n%s", out)
	}
}

func TestParseRect(t *testing.T) {
	tests := []struct {
		in      string
		want    quilt.Rect
		wantErr bool
	}{
		{"0,100,300,200", quilt.Rect{Y: 100, Width: 300, Height: 200}, false},
		{" 1.5, 2 ,3,4", quilt.Rect{X: 1.5, Y: 2, Width: 3, Height: 4}, false},
		{"1,2,3", quilt.Rect{}, true},
		{"a,b,c,d", quilt.Rect{}, true},
	}
	for _, tt := range tests {
		got, err := parseRect(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseRect(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if err != nil && !errors.Is(err, errors.ErrCodeInvalidInput) {
			t.Errorf("parseRect(%q) error code = %v, want INVALID_INPUT", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("parseRect(%q) = %+v, want %+v", tt.in, got, tt.want)
		}
	}
}

func TestCachePathCommand(t *testing.T) {
	out, err := runCLI(t, "cache", "path")
	if err != nil {
		t.Fatalf("cache path error: %v", err)
	}
	want := filepath.Join(os.Getenv("XDG_CACHE_HOME"), appName)
	if strings.TrimSpace(out) != want {
		t.Errorf("cache path = %q, want %q", strings.TrimSpace(out), want)
	}
}
