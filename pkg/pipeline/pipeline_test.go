package pipeline

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/matzehuels/quilt/pkg/cache"
	qerrors "github.com/matzehuels/quilt/pkg/errors"
	qio "github.com/matzehuels/quilt/pkg/io"
	"github.com/matzehuels/quilt/pkg/observability"
	"github.com/matzehuels/quilt/pkg/quilt"
)

// memCache is an in-memory cache.Cache for tests.
type memCache struct {
	mu   sync.Mutex
	data map[string][]byte
	sets int
}

func newMemCache() *memCache { return &memCache{data: make(map[string][]byte)} }

func (c *memCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	d, ok := c.data[key]
	return d, ok, nil
}

func (c *memCache) Set(_ context.Context, key string, data []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = data
	c.sets++
	return nil
}

func (c *memCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

func (c *memCache) Close() error { return nil }

func sampleDoc() *qio.Document {
	return &qio.Document{
		Cell:     quilt.PixelSize{Width: 100, Height: 100},
		Viewport: quilt.PixelSize{Width: 300, Height: 300},
		Sections: []qio.Section{{
			Name: "main",
			Items: []qio.Item{
				{ID: "hero", Label: "Hero", Width: 2, Height: 2, Color: "#ff0000"},
				{ID: "a"}, {ID: "b"}, {ID: "c"},
			},
		}},
	}
}

func uniformDoc(n int) *qio.Document {
	doc := &qio.Document{Viewport: quilt.PixelSize{Width: 300, Height: 300}}
	doc.Sections = []qio.Section{{Items: make([]qio.Item, n)}}
	return doc
}

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"svg", false},
		{"json", false},
		{"txt", false},
		{"png", false},
		{"pdf", false},
		{"invalid", true},
		{"SVG", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
		if err != nil && !qerrors.Is(err, qerrors.ErrCodeInvalidFormat) {
			t.Errorf("ValidateFormat(%q) code = %s", tt.format, qerrors.GetCode(err))
		}
	}
}

func TestValidateFormats(t *testing.T) {
	if err := ValidateFormats([]string{"svg", "txt"}); err != nil {
		t.Errorf("Valid formats should pass: %v", err)
	}

	if err := ValidateFormats([]string{"svg", "invalid"}); err == nil {
		t.Error("Invalid format should fail")
	}

	// Empty slice is valid
	if err := ValidateFormats(nil); err != nil {
		t.Errorf("Empty formats should pass: %v", err)
	}
}

func TestOptionsDefaults(t *testing.T) {
	var opts Options
	opts.SetRenderDefaults()
	if len(opts.Formats) != 1 || opts.Formats[0] != FormatSVG {
		t.Errorf("Formats = %v, want [svg]", opts.Formats)
	}
	if opts.Logger == nil {
		t.Error("Logger should default to a discard logger")
	}
}

func TestOptionsValidateForLayout(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		code qerrors.Code
	}{
		{"empty", Options{}, ""},
		{"overrides", Options{Direction: "h", CellWidth: 50, CellHeight: 40, ViewportWidth: 10}, ""},
		{"bad direction", Options{Direction: "diagonal"}, qerrors.ErrCodeInvalidDirection},
		{"half cell", Options{CellWidth: 50}, qerrors.ErrCodeInvalidCellSize},
		{"negative viewport", Options{ViewportHeight: -1}, qerrors.ErrCodeInvalidViewport},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateForLayout()
			if tt.code == "" {
				if err != nil {
					t.Errorf("ValidateForLayout() error = %v", err)
				}
				return
			}
			if !qerrors.Is(err, tt.code) {
				t.Errorf("ValidateForLayout() error = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestOptionsConfig(t *testing.T) {
	doc := sampleDoc()

	cfg, err := (&Options{}).Config(doc)
	if err != nil {
		t.Fatalf("Config() error: %v", err)
	}
	if cfg.Viewport != doc.Viewport || cfg.CellSize != doc.Cell || cfg.Direction != quilt.Vertical {
		t.Errorf("Config() = %+v, want document settings", cfg)
	}

	cfg, err = (&Options{Direction: "horizontal", ViewportWidth: 100, ViewportHeight: 500}).Config(doc)
	if err != nil {
		t.Fatalf("Config() error: %v", err)
	}
	if cfg.Direction != quilt.Horizontal || cfg.Viewport.Height != 500 || cfg.CellSize != doc.Cell {
		t.Errorf("Config() = %+v, want overrides applied", cfg)
	}

	cfg, err = (&Options{}).Config(nil)
	if err != nil {
		t.Fatalf("Config(nil) error: %v", err)
	}
	if cfg.CellSize != quilt.DefaultCellSize {
		t.Errorf("CellSize = %v, want default", cfg.CellSize)
	}
	if cfg.Viewport != (quilt.PixelSize{Width: DefaultViewportWidth, Height: DefaultViewportHeight}) {
		t.Errorf("Viewport = %v, want default", cfg.Viewport)
	}
}

func TestArtifactKeyOpts(t *testing.T) {
	opts := Options{Grid: true}
	if k := opts.ArtifactKeyOpts(FormatSVG); !k.Grid || !k.Labels {
		t.Errorf("svg key opts = %+v", k)
	}
	if k := opts.ArtifactKeyOpts(FormatText); k.Grid {
		t.Error("grid should not affect text artifacts")
	}
	opts.HideLabels = true
	if k := opts.ArtifactKeyOpts(FormatJSON); k.Labels {
		t.Error("Labels should be false when labels are hidden")
	}
}

func TestPack(t *testing.T) {
	cfg, err := (&Options{}).Config(sampleDoc())
	if err != nil {
		t.Fatal(err)
	}
	l, err := Pack(context.Background(), sampleDoc(), cfg, nil)
	if err != nil {
		t.Fatalf("Pack() error: %v", err)
	}
	if len(l.Tiles) != 4 || l.Capacity != 3 {
		t.Fatalf("Pack() = %d tiles, capacity %d", len(l.Tiles), l.Capacity)
	}
	want := []quilt.Cell{{X: 0, Y: 0}, {X: 2, Y: 0}, {X: 2, Y: 1}, {X: 0, Y: 2}}
	for i, tile := range l.Tiles {
		if tile.Origin != want[i] {
			t.Errorf("tile %d origin = %v, want %v", i, tile.Origin, want[i])
		}
	}
}

func TestPackCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Pack(ctx, uniformDoc(10), quilt.Config{}, nil)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Pack() error = %v, want context.Canceled", err)
	}
}

func TestPackDuplicateIDs(t *testing.T) {
	doc := sampleDoc()
	doc.Sections[0].Items[1].ID = "hero"
	_, err := NewRunner(nil, nil, nil).Pack(context.Background(), doc, Options{})
	if !qerrors.Is(err, qerrors.ErrCodeInvalidDocument) {
		t.Errorf("Pack() error = %v, want %s", err, qerrors.ErrCodeInvalidDocument)
	}
}

func TestRunnerNilDocument(t *testing.T) {
	_, err := NewRunner(nil, nil, nil).Pack(context.Background(), nil, Options{})
	if !qerrors.Is(err, qerrors.ErrCodeInvalidInput) {
		t.Errorf("Pack(nil) error = %v, want %s", err, qerrors.ErrCodeInvalidInput)
	}
}

func TestRunnerCaching(t *testing.T) {
	c := newMemCache()
	r := NewRunner(c, nil, nil)
	ctx := context.Background()
	opts := Options{Formats: []string{FormatSVG, FormatText}}

	first, err := r.Execute(ctx, sampleDoc(), opts)
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if first.CacheInfo.LayoutHit || first.CacheInfo.RenderHit {
		t.Errorf("first run CacheInfo = %+v, want misses", first.CacheInfo)
	}
	if c.sets != 3 {
		t.Errorf("cache writes = %d, want 3 (layout + 2 artifacts)", c.sets)
	}
	if first.Stats.ItemCount != 4 || first.Stats.TileCount != 4 || first.Stats.Capacity != 3 {
		t.Errorf("Stats = %+v", first.Stats)
	}

	second, err := r.Execute(ctx, sampleDoc(), opts)
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if !second.CacheInfo.LayoutHit || !second.CacheInfo.RenderHit {
		t.Errorf("second run CacheInfo = %+v, want hits", second.CacheInfo)
	}
	if second.DocumentHash != first.DocumentHash {
		t.Error("document hash changed between identical runs")
	}
	if string(second.Artifacts[FormatText]) != string(first.Artifacts[FormatText]) {
		t.Error("cached artifact differs from rendered one")
	}

	opts.Refresh = true
	third, err := r.Execute(ctx, sampleDoc(), opts)
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if third.CacheInfo.LayoutHit || third.CacheInfo.RenderHit {
		t.Errorf("refresh CacheInfo = %+v, want misses", third.CacheInfo)
	}
}

func TestRunnerLayoutKeyTracksOptions(t *testing.T) {
	r := NewRunner(newMemCache(), nil, nil)
	ctx := context.Background()

	if _, err := r.Pack(ctx, sampleDoc(), Options{}); err != nil {
		t.Fatal(err)
	}
	l, hit, err := r.PackWithCacheInfo(ctx, sampleDoc(), Options{ViewportWidth: 200, ViewportHeight: 300})
	if err != nil {
		t.Fatal(err)
	}
	if hit {
		t.Error("changing the viewport should miss the layout cache")
	}
	if l.Capacity != 2 {
		t.Errorf("Capacity = %d, want 2", l.Capacity)
	}
}

func TestRenderFormats(t *testing.T) {
	doc := sampleDoc()
	r := NewRunner(nil, nil, nil)
	ctx := context.Background()

	l, err := r.Pack(ctx, doc, Options{})
	if err != nil {
		t.Fatal(err)
	}
	artifacts, err := r.Render(ctx, l, doc, Options{Formats: []string{FormatSVG, FormatJSON, FormatText}, Grid: true})
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}

	svg := string(artifacts[FormatSVG])
	if !strings.Contains(svg, ">Hero</text>") || !strings.Contains(svg, `fill="#ff0000"`) {
		t.Error("svg is missing document label or color")
	}
	if !strings.Contains(svg, `class="grid"`) {
		t.Error("svg is missing the grid")
	}
	if js := string(artifacts[FormatJSON]); !strings.Contains(js, `"label": "Hero"`) {
		t.Errorf("json is missing labels:\n%s", js)
	}
	txt := string(artifacts[FormatText])
	if !strings.HasPrefix(txt, "AAB\nAAC\nD..\n") || !strings.Contains(txt, "Hero") {
		t.Errorf("txt =\n%s", txt)
	}
}

func TestRenderHideLabels(t *testing.T) {
	doc := sampleDoc()
	r := NewRunner(nil, nil, nil)
	ctx := context.Background()

	l, err := r.Pack(ctx, doc, Options{})
	if err != nil {
		t.Fatal(err)
	}
	artifacts, err := r.Render(ctx, l, nil, Options{Formats: []string{FormatSVG, FormatText}, HideLabels: true})
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	if strings.Contains(string(artifacts[FormatSVG]), "<text") {
		t.Error("svg has labels although they are hidden")
	}
	if got := string(artifacts[FormatText]); got != "AAB\nAAC\nD..\n" {
		t.Errorf("txt = %q, want grid only", got)
	}
}

func TestRenderInvalidFormat(t *testing.T) {
	_, err := NewRunner(nil, nil, nil).Render(context.Background(), quilt.Layout{}, nil, Options{Formats: []string{"gif"}})
	if !qerrors.Is(err, qerrors.ErrCodeInvalidFormat) {
		t.Errorf("Render() error = %v, want %s", err, qerrors.ErrCodeInvalidFormat)
	}
}

func TestWindow(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	w, err := r.Window(context.Background(), uniformDoc(100), quilt.Rect{Width: 300, Height: 300}, Options{})
	if err != nil {
		t.Fatalf("Window() error: %v", err)
	}
	if len(w.Tiles) != 12 || w.Placed != 12 || w.Total != 100 || w.Capacity != 3 {
		t.Errorf("Window() = %d tiles, placed %d of %d, capacity %d", len(w.Tiles), w.Placed, w.Total, w.Capacity)
	}
	if w.ContentSize.Height != 400 {
		t.Errorf("ContentSize = %v, want height 400", w.ContentSize)
	}
}

func TestWindowPrelayout(t *testing.T) {
	doc := uniformDoc(30)
	doc.Prelayout = true
	w, err := NewRunner(nil, nil, nil).Window(context.Background(), doc, quilt.Rect{Width: 300, Height: 100}, Options{})
	if err != nil {
		t.Fatalf("Window() error: %v", err)
	}
	if w.Placed != 30 {
		t.Errorf("Placed = %d, want 30 in prelayout mode", w.Placed)
	}
}

func TestNewPacker(t *testing.T) {
	p, err := NewPacker(uniformDoc(100), Options{Direction: "horizontal"})
	if err != nil {
		t.Fatalf("NewPacker() error: %v", err)
	}
	if p.Placed() != 0 {
		t.Errorf("Placed = %d before any query, want 0", p.Placed())
	}
	if p.Config().Direction != quilt.Horizontal {
		t.Errorf("Direction = %v, want horizontal override", p.Config().Direction)
	}
	if tiles := p.TilesIn(quilt.Rect{Width: 300, Height: 300}); len(tiles) != 12 {
		t.Errorf("TilesIn() = %d tiles, want 12", len(tiles))
	}

	if _, err := NewPacker(nil, Options{}); !qerrors.Is(err, qerrors.ErrCodeInvalidInput) {
		t.Errorf("NewPacker(nil) error = %v, want INVALID_INPUT", err)
	}
}

// recordingHooks captures pipeline events.
type recordingHooks struct {
	observability.NoopPipelineHooks
	mu     sync.Mutex
	events []string
}

func (h *recordingHooks) record(e string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, e)
}

func (h *recordingHooks) OnPackStart(context.Context, int) { h.record("pack-start") }
func (h *recordingHooks) OnPackComplete(_ context.Context, _, _ int, _ time.Duration, err error) {
	h.record("pack-complete")
}
func (h *recordingHooks) OnRenderStart(context.Context, []string) { h.record("render-start") }
func (h *recordingHooks) OnRenderComplete(context.Context, []string, time.Duration, error) {
	h.record("render-complete")
}
func (h *recordingHooks) OnWindow(context.Context, int, int, time.Duration) { h.record("window") }

func TestRunnerHooks(t *testing.T) {
	h := &recordingHooks{}
	observability.SetPipelineHooks(h)
	t.Cleanup(observability.Reset)

	r := NewRunner(cache.NewNullCache(), nil, nil)
	ctx := context.Background()
	if _, err := r.Execute(ctx, sampleDoc(), Options{Formats: []string{FormatText}}); err != nil {
		t.Fatal(err)
	}
	if _, err := r.Window(ctx, uniformDoc(5), quilt.Rect{Width: 300, Height: 100}, Options{}); err != nil {
		t.Fatal(err)
	}

	want := "pack-start pack-complete render-start render-complete window"
	if got := strings.Join(h.events, " "); got != want {
		t.Errorf("events = %q, want %q", got, want)
	}
}
