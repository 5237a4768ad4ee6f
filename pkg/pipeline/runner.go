package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/quilt/pkg/cache"
	"github.com/matzehuels/quilt/pkg/errors"
	qio "github.com/matzehuels/quilt/pkg/io"
	"github.com/matzehuels/quilt/pkg/observability"
	"github.com/matzehuels/quilt/pkg/quilt"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger. Every call
// builds its own packer, so multiple goroutines can share a Runner as long
// as they do not share a document that is being modified.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs pack then render with caching.
func (r *Runner) Execute(ctx context.Context, doc *qio.Document, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForLayout(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	if err := opts.ValidateForRender(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{}

	// Stage 1: Pack
	packStart := time.Now()
	layout, docHash, layoutHit, err := r.pack(ctx, doc, opts)
	if err != nil {
		return nil, fmt.Errorf("pack: %w", err)
	}
	result.DocumentHash = docHash
	result.Layout = layout
	result.Stats.ItemCount = doc.Len()
	result.Stats.TileCount = len(layout.Tiles)
	result.Stats.Capacity = layout.Capacity
	result.Stats.PackTime = time.Since(packStart)
	result.CacheInfo.LayoutHit = layoutHit

	r.Logger.Info("packed quilt",
		"items", result.Stats.ItemCount,
		"tiles", result.Stats.TileCount,
		"capacity", layout.Capacity,
		"duration", result.Stats.PackTime)

	// Stage 2: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, layout, doc, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// PackWithCacheInfo packs doc with caching and returns cache hit info.
func (r *Runner) PackWithCacheInfo(ctx context.Context, doc *qio.Document, opts Options) (quilt.Layout, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForLayout(); err != nil {
		return quilt.Layout{}, false, err
	}
	l, _, hit, err := r.pack(ctx, doc, opts)
	return l, hit, err
}

// Pack is a convenience wrapper that calls PackWithCacheInfo and discards the cache hit info.
func (r *Runner) Pack(ctx context.Context, doc *qio.Document, opts Options) (quilt.Layout, error) {
	l, _, err := r.PackWithCacheInfo(ctx, doc, opts)
	return l, err
}

func (r *Runner) pack(ctx context.Context, doc *qio.Document, opts Options) (l quilt.Layout, docHash string, hit bool, err error) {
	if doc == nil {
		return quilt.Layout{}, "", false, errors.New(errors.ErrCodeInvalidInput, "document is required")
	}
	if err := doc.Normalize(); err != nil {
		return quilt.Layout{}, "", false, err
	}
	cfg, err := opts.Config(doc)
	if err != nil {
		return quilt.Layout{}, "", false, err
	}
	docData, err := doc.Canonical()
	if err != nil {
		return quilt.Layout{}, "", false, err
	}
	docHash = cache.Hash(docData)
	cacheKey := r.Keyer.LayoutKey(docHash, LayoutKeyOpts(cfg))

	hooks := observability.Pipeline()
	hooks.OnPackStart(ctx, doc.Len())
	start := time.Now()
	defer func() { hooks.OnPackComplete(ctx, doc.Len(), len(l.Tiles), time.Since(start), err) }()

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if data, ok := r.cacheGet(ctx, cacheKey, "layout"); ok {
			cached, err := qio.UnmarshalLayout(data)
			if err == nil {
				return cached, docHash, true, nil
			}
			opts.Logger.Warn("discarding unreadable cached layout", "key", cacheKey, "err", err)
		}
	}

	l, err = Pack(ctx, doc, cfg, opts.Logger)
	if err != nil {
		return quilt.Layout{}, docHash, false, err
	}

	if data, err := qio.MarshalLayout(l); err == nil {
		r.cacheSet(ctx, cacheKey, "layout", data, cache.TTLLayout)
	}
	return l, docHash, false, nil
}

// RenderWithCacheInfo generates artifacts with caching and returns cache hit info.
// Artifacts depend on the document only through labels and colors, so the
// cache key covers the layout plus the document when one is given.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, l quilt.Layout, doc *qio.Document, opts Options) (artifacts map[string][]byte, hit bool, err error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}

	layoutData, err := qio.MarshalLayout(l)
	if err != nil {
		return nil, false, fmt.Errorf("serialize layout for cache key: %w", err)
	}
	if doc != nil {
		docData, err := doc.Canonical()
		if err != nil {
			return nil, false, err
		}
		layoutData = append(layoutData, docData...)
	}
	layoutHash := cache.Hash(layoutData)

	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.Formats)
	start := time.Now()
	defer func() { hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err) }()

	// Try to get all formats from cache
	if !opts.Refresh {
		cached := make(map[string][]byte, len(opts.Formats))
		for _, format := range opts.Formats {
			data, ok := r.cacheGet(ctx, r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format)), "artifact")
			if !ok {
				break
			}
			cached[format] = data
		}
		if len(cached) == len(opts.Formats) {
			return cached, true, nil
		}
	}

	rendered, err := Render(ctx, l, doc, opts)
	if err != nil {
		return nil, false, err
	}
	for format, data := range rendered {
		r.cacheSet(ctx, r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format)), "artifact", data, cache.TTLArtifact)
	}
	return rendered, false, nil
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and discards the cache hit info.
func (r *Runner) Render(ctx context.Context, l quilt.Layout, doc *qio.Document, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, l, doc, opts)
	return artifacts, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func (r *Runner) cacheGet(ctx context.Context, key, keyType string) ([]byte, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Warn("cache read failed", "type", keyType, "err", err)
	}
	if err != nil || !hit {
		observability.Cache().OnCacheMiss(ctx, keyType)
		return nil, false
	}
	observability.Cache().OnCacheHit(ctx, keyType)
	return data, true
}

func (r *Runner) cacheSet(ctx context.Context, key, keyType string, data []byte, ttl time.Duration) {
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		r.Logger.Warn("cache write failed", "type", keyType, "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, keyType, len(data))
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
