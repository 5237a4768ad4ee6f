package io

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/matzehuels/quilt/pkg/errors"
	"github.com/matzehuels/quilt/pkg/quilt"
)

const sampleJSON = `{
  "direction": "vertical",
  "cell": {"width": 50, "height": 50},
  "viewport": {"width": 200, "height": 400},
  "sections": [
    {"name": "featured", "items": [
      {"id": "hero", "label": "Hero", "width": 2, "height": 2, "color": "#e76f51"},
      {"id": "a", "width": 0, "height": -3},
      {"id": "b", "insets": {"top": 2, "left": 2, "bottom": 2, "right": 2}}
    ]},
    {"name": "empty", "items": []},
    {"items": [{"id": "c"}]}
  ]
}`

const sampleTOML = `
direction = "vertical"
cell = { width = 50, height = 50 }
viewport = { width = 200, height = 400 }

[[sections]]
name = "featured"

[[sections.items]]
id = "hero"
label = "Hero"
width = 2
height = 2
color = "#e76f51"

[[sections.items]]
id = "a"

[[sections.items]]
id = "b"
insets = { top = 2, left = 2, bottom = 2, right = 2 }

[[sections]]
name = "empty"

[[sections]]

[[sections.items]]
id = "c"
`

func TestReadJSON(t *testing.T) {
	doc, err := ReadJSON(strings.NewReader(sampleJSON))
	if err != nil {
		t.Fatalf("ReadJSON() error: %v", err)
	}

	if doc.Len() != 4 {
		t.Errorf("Len() = %d, want 4", doc.Len())
	}
	want := quilt.Config{
		Direction: quilt.Vertical,
		CellSize:  quilt.PixelSize{Width: 50, Height: 50},
		Viewport:  quilt.PixelSize{Width: 200, Height: 400},
	}
	if got := doc.Config(); got != want {
		t.Errorf("Config() = %+v, want %+v", got, want)
	}

	id, ok := doc.Lookup("c")
	if !ok || id != (quilt.ItemID{Section: 2, Index: 0}) {
		t.Errorf("Lookup(c) = %v, %v", id, ok)
	}
	a, _ := doc.Item(quilt.ItemID{Section: 0, Index: 1})
	if a.Width != 1 || a.Height != 1 {
		t.Errorf("item a size = %dx%d, want clamped 1x1", a.Width, a.Height)
	}
}

func TestReadTOMLMatchesJSON(t *testing.T) {
	fromJSON, err := ReadJSON(strings.NewReader(sampleJSON))
	if err != nil {
		t.Fatalf("ReadJSON() error: %v", err)
	}
	fromTOML, err := ReadTOML(strings.NewReader(sampleTOML))
	if err != nil {
		t.Fatalf("ReadTOML() error: %v", err)
	}

	if fromJSON.Config() != fromTOML.Config() {
		t.Errorf("configs differ: %+v vs %+v", fromJSON.Config(), fromTOML.Config())
	}
	a, _ := quilt.New(fromJSON.Source(), fromJSON.Config())
	b, _ := quilt.New(fromTOML.Source(), fromTOML.Config())
	if !reflect.DeepEqual(a.Snapshot(), b.Snapshot()) {
		t.Error("JSON and TOML documents pack differently")
	}
}

func TestReadErrors(t *testing.T) {
	tests := []struct {
		name string
		json string
		code errors.Code
	}{
		{"malformed", `{"sections": [`, errors.ErrCodeInvalidDocument},
		{"unknown field", `{"sections": [], "colour": "red"}`, errors.ErrCodeInvalidDocument},
		{"duplicate id", `{"sections": [{"items": [{"id": "x"}]}, {"items": [{"id": "x"}]}]}`, errors.ErrCodeInvalidDocument},
		{"markup id", `{"sections": [{"items": [{"id": "<b>"}]}]}`, errors.ErrCodeInvalidDocument},
		{"bad direction", `{"direction": "diagonal", "sections": []}`, errors.ErrCodeInvalidDirection},
		{"negative viewport", `{"viewport": {"width": -1, "height": 0}, "sections": []}`, errors.ErrCodeInvalidViewport},
		{"negative cell", `{"cell": {"width": -10, "height": 10}, "sections": []}`, errors.ErrCodeInvalidCellSize},
		{"wide block", `{"sections": [{"items": [{"width": 1025}]}]}`, errors.ErrCodeInvalidDocument},
		{"overflowing block", `{"sections": [{"items": [{}, {"height": 9223372036854775807}]}]}`, errors.ErrCodeInvalidDocument},
		{"negative inset", `{"sections": [{"items": [{"insets": {"left": -4}}]}]}`, errors.ErrCodeInvalidDocument},
		{"inset past frame", `{"cell": {"width": 100, "height": 100}, "sections": [{"items": [{"insets": {"top": 150}}]}]}`, errors.ErrCodeInvalidDocument},
		{"insets fill frame", `{"cell": {"width": 100, "height": 100}, "sections": [{"items": [{"insets": {"left": 50, "right": 50}}]}]}`, errors.ErrCodeInvalidDocument},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadJSON(strings.NewReader(tt.json))
			if !errors.Is(err, tt.code) {
				t.Errorf("ReadJSON() error = %v, want code %v", err, tt.code)
			}
		})
	}
}

func TestNormalizeItemLimits(t *testing.T) {
	cell := quilt.PixelSize{Width: 100, Height: 100}
	tests := []struct {
		name string
		item Item
		ok   bool
	}{
		{"largest block", Item{Width: quilt.MaxBlockCells, Height: quilt.MaxBlockCells}, true},
		{"inset just inside frame", Item{Insets: quilt.Insets{Top: 60, Bottom: 39.5}}, true},
		{"tall block takes a large inset", Item{Height: 2, Insets: quilt.Insets{Top: 150}}, true},
		{"block past limit", Item{Height: quilt.MaxBlockCells + 1}, false},
		{"NaN inset", Item{Insets: quilt.Insets{Right: math.NaN()}}, false},
		{"infinite inset", Item{Insets: quilt.Insets{Bottom: math.Inf(1)}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := &Document{Cell: cell, Sections: []Section{{Items: []Item{tt.item}}}}
			err := doc.Normalize()
			if tt.ok && err != nil {
				t.Errorf("Normalize() error: %v", err)
			}
			if !tt.ok && !errors.Is(err, errors.ErrCodeInvalidDocument) {
				t.Errorf("Normalize() error = %v, want %v", err, errors.ErrCodeInvalidDocument)
			}
		})
	}
}

func TestReadTOMLUnknownKey(t *testing.T) {
	_, err := ReadTOML(strings.NewReader("viewport = { width = 100, height = 100 }\nwidht = 3\n"))
	if !errors.Is(err, errors.ErrCodeInvalidDocument) {
		t.Fatalf("ReadTOML() error = %v, want %v", err, errors.ErrCodeInvalidDocument)
	}
	if !strings.Contains(err.Error(), "widht") {
		t.Errorf("error %q does not name the key", err)
	}
}

func TestNormalizeAssignsIDs(t *testing.T) {
	doc, err := ReadJSON(strings.NewReader(`{"sections": [{"items": [{}, {"width": 2}]}]}`))
	if err != nil {
		t.Fatalf("ReadJSON() error: %v", err)
	}

	seen := map[string]bool{}
	for _, it := range doc.Sections[0].Items {
		if _, err := uuid.Parse(it.ID); err != nil {
			t.Errorf("generated id %q is not a UUID: %v", it.ID, err)
		}
		seen[it.ID] = true
	}
	if len(seen) != 2 {
		t.Error("generated ids are not unique")
	}
	if doc.Cell != quilt.DefaultCellSize {
		t.Errorf("Cell = %v, want default %v", doc.Cell, quilt.DefaultCellSize)
	}

	first := doc.Sections[0].Items[0].ID
	if err := doc.Normalize(); err != nil {
		t.Fatalf("second Normalize() error: %v", err)
	}
	if doc.Sections[0].Items[0].ID != first {
		t.Error("Normalize is not idempotent")
	}
}

func TestDocumentSource(t *testing.T) {
	doc, err := ReadJSON(strings.NewReader(sampleJSON))
	if err != nil {
		t.Fatalf("ReadJSON() error: %v", err)
	}
	p, err := quilt.New(doc.Source(), doc.Config())
	if err != nil {
		t.Fatalf("quilt.New() error: %v", err)
	}

	hero, ok := p.TileFor(quilt.ItemID{Section: 0, Index: 0})
	if !ok || hero.Size != (quilt.Size{Width: 2, Height: 2}) {
		t.Errorf("hero tile = %+v, %v", hero, ok)
	}
	b, _ := p.RectFor(quilt.ItemID{Section: 0, Index: 2})
	if want := (quilt.Rect{X: 152, Y: 2, Width: 46, Height: 46}); b != want {
		t.Errorf("RectFor(b) = %+v, want %+v", b, want)
	}
}

func TestLabel(t *testing.T) {
	doc, err := ReadJSON(strings.NewReader(sampleJSON))
	if err != nil {
		t.Fatalf("ReadJSON() error: %v", err)
	}

	tests := []struct {
		id   quilt.ItemID
		want string
	}{
		{quilt.ItemID{Section: 0, Index: 0}, "Hero"},
		{quilt.ItemID{Section: 0, Index: 1}, "a"},
		{quilt.ItemID{Section: 9, Index: 9}, "9.9"},
	}
	for _, tt := range tests {
		if got := doc.Label(tt.id); got != tt.want {
			t.Errorf("Label(%v) = %q, want %q", tt.id, got, tt.want)
		}
	}
	if got := doc.Color(quilt.ItemID{Section: 0, Index: 0}); got != "#e76f51" {
		t.Errorf("Color() = %q", got)
	}
}

func TestImport(t *testing.T) {
	dir := t.TempDir()
	jsonPath := filepath.Join(dir, "quilt.json")
	tomlPath := filepath.Join(dir, "quilt.TOML")
	if err := os.WriteFile(jsonPath, []byte(sampleJSON), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(tomlPath, []byte(sampleTOML), 0o644); err != nil {
		t.Fatal(err)
	}

	for _, path := range []string{jsonPath, tomlPath} {
		doc, err := Import(path)
		if err != nil {
			t.Errorf("Import(%s) error: %v", path, err)
			continue
		}
		if doc.Len() != 4 {
			t.Errorf("Import(%s) Len() = %d", path, doc.Len())
		}
	}

	if _, err := Import(filepath.Join(dir, "quilt.yaml")); !errors.Is(err, errors.ErrCodeUnsupported) {
		t.Errorf("Import(yaml) error = %v", err)
	}
	if _, err := ImportJSON(filepath.Join(dir, "missing.json")); !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("ImportJSON(missing) error = %v", err)
	}
}

func TestWriteTOMLReadable(t *testing.T) {
	doc, err := ReadJSON(strings.NewReader(sampleJSON))
	if err != nil {
		t.Fatalf("ReadJSON() error: %v", err)
	}

	var buf bytes.Buffer
	if err := WriteTOML(doc, &buf); err != nil {
		t.Fatalf("WriteTOML() error: %v", err)
	}
	back, err := ReadTOML(&buf)
	if err != nil {
		t.Fatalf("ReadTOML() error: %v\n%s", err, buf.String())
	}
	if _, ok := back.Lookup("hero"); !ok || back.Len() != doc.Len() {
		t.Errorf("TOML output lost items: %d of %d", back.Len(), doc.Len())
	}
}

func TestLayoutFiles(t *testing.T) {
	p, err := quilt.New(quilt.Uniform(5), quilt.Config{Viewport: quilt.PixelSize{Width: 300, Height: 300}})
	if err != nil {
		t.Fatal(err)
	}
	layout := p.Snapshot()

	path := filepath.Join(t.TempDir(), "quilt.layout.json")
	if err := ExportLayout(layout, path); err != nil {
		t.Fatalf("ExportLayout() error: %v", err)
	}
	back, err := ImportLayout(path)
	if err != nil {
		t.Fatalf("ImportLayout() error: %v", err)
	}
	if !reflect.DeepEqual(layout, back) {
		t.Errorf("layout changed on disk:\n%+v\n%+v", layout, back)
	}

	if _, err := UnmarshalLayout([]byte(`{"tiles": []}`)); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("UnmarshalLayout(no cell) error = %v", err)
	}
}

func TestShippedExamples(t *testing.T) {
	paths, err := filepath.Glob(filepath.Join("..", "..", "examples", "*"))
	if err != nil || len(paths) == 0 {
		t.Fatalf("no examples found: %v", err)
	}
	for _, path := range paths {
		t.Run(filepath.Base(path), func(t *testing.T) {
			doc, err := Import(path)
			if err != nil {
				t.Fatalf("Import() error: %v", err)
			}
			if err := doc.Normalize(); err != nil {
				t.Fatalf("Normalize() error: %v", err)
			}
			p, err := quilt.New(doc.Source(), doc.Config())
			if err != nil {
				t.Fatalf("quilt.New() error: %v", err)
			}
			if got := len(p.Snapshot().Tiles); got != doc.Len() {
				t.Errorf("packed %d tiles, want %d", got, doc.Len())
			}
		})
	}
}
