// Package observability provides instrumentation hooks for quilt.
//
// Packing, rendering, cache lookups and API requests report events through
// the interfaces below. Nothing is recorded until main registers an
// implementation; libraries only emit. [LogHooks] writes every event to a
// charmbracelet logger, and other backends (Prometheus, OpenTelemetry) plug
// in by implementing the same interfaces.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.Install(observability.NewLogHooks(logger))
//	    // ... run application
//	}
//
// or one category at a time with [SetPipelineHooks], [SetCacheHooks] and
// [SetHTTPHooks].
//
// Libraries call hooks to emit events:
//
//	observability.Pipeline().OnPackStart(ctx, items)
//	// ... pack ...
//	observability.Pipeline().OnPackComplete(ctx, items, tiles, duration, err)
package observability

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// =============================================================================
// Pipeline Hooks
// =============================================================================

// PipelineHooks receives events from the packing pipeline.
type PipelineHooks interface {
	// Pack events
	OnPackStart(ctx context.Context, items int)
	OnPackComplete(ctx context.Context, items, tiles int, duration time.Duration, err error)

	// Render events
	OnRenderStart(ctx context.Context, formats []string)
	OnRenderComplete(ctx context.Context, formats []string, duration time.Duration, err error)

	// OnWindow records a viewport query and how many items it had to place.
	OnWindow(ctx context.Context, tiles, placed int, duration time.Duration)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// HTTP Hooks
// =============================================================================

// HTTPHooks receives events from the HTTP API.
type HTTPHooks interface {
	// OnRequest records an incoming request.
	OnRequest(ctx context.Context, method, route string)

	// OnResponse records the response written for a request.
	OnResponse(ctx context.Context, method, route string, statusCode int, duration time.Duration)

	// OnError records a request that failed.
	OnError(ctx context.Context, method, route string, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopPipelineHooks is a no-op implementation of PipelineHooks.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnPackStart(context.Context, int)                                 {}
func (NoopPipelineHooks) OnPackComplete(context.Context, int, int, time.Duration, error)   {}
func (NoopPipelineHooks) OnRenderStart(context.Context, []string)                          {}
func (NoopPipelineHooks) OnRenderComplete(context.Context, []string, time.Duration, error) {}
func (NoopPipelineHooks) OnWindow(context.Context, int, int, time.Duration)                {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, int, time.Duration) {}
func (NoopHTTPHooks) OnError(context.Context, string, string, error)                 {}

// =============================================================================
// Global Hook Registry
// =============================================================================

// registry is replaced as a whole on every change, so readers never lock.
type registry struct {
	pipeline PipelineHooks
	cache    CacheHooks
	http     HTTPHooks
}

var (
	current atomic.Pointer[registry]
	writeMu sync.Mutex
)

func init() { Reset() }

func update(fn func(*registry)) {
	writeMu.Lock()
	defer writeMu.Unlock()
	next := *current.Load()
	fn(&next)
	current.Store(&next)
}

// SetPipelineHooks registers custom pipeline hooks. A nil h is ignored.
func SetPipelineHooks(h PipelineHooks) {
	if h != nil {
		update(func(r *registry) { r.pipeline = h })
	}
}

// SetCacheHooks registers custom cache hooks. A nil h is ignored.
func SetCacheHooks(h CacheHooks) {
	if h != nil {
		update(func(r *registry) { r.cache = h })
	}
}

// SetHTTPHooks registers custom HTTP hooks. A nil h is ignored.
func SetHTTPHooks(h HTTPHooks) {
	if h != nil {
		update(func(r *registry) { r.http = h })
	}
}

// Install registers h for every hook interface it implements and reports
// how many it matched.
func Install(h any) int {
	n := 0
	update(func(r *registry) {
		if p, ok := h.(PipelineHooks); ok {
			r.pipeline = p
			n++
		}
		if c, ok := h.(CacheHooks); ok {
			r.cache = c
			n++
		}
		if x, ok := h.(HTTPHooks); ok {
			r.http = x
			n++
		}
	})
	return n
}

// Pipeline returns the registered pipeline hooks.
func Pipeline() PipelineHooks { return current.Load().pipeline }

// Cache returns the registered cache hooks.
func Cache() CacheHooks { return current.Load().cache }

// HTTP returns the registered HTTP hooks.
func HTTP() HTTPHooks { return current.Load().http }

// Reset restores all hooks to their no-op defaults.
func Reset() {
	writeMu.Lock()
	defer writeMu.Unlock()
	current.Store(&registry{
		pipeline: NoopPipelineHooks{},
		cache:    NoopCacheHooks{},
		http:     NoopHTTPHooks{},
	})
}
