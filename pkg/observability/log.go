package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks implements every hook interface by writing debug records to a
// logger. Failures are logged at error level.
type LogHooks struct {
	logger *log.Logger
}

// NewLogHooks returns hooks that log to l (log.Default() when nil).
func NewLogHooks(l *log.Logger) *LogHooks {
	if l == nil {
		l = log.Default()
	}
	return &LogHooks{logger: l.WithPrefix("events")}
}

func (h *LogHooks) OnPackStart(_ context.Context, items int) {
	h.logger.Debug("pack start", "items", items)
}

func (h *LogHooks) OnPackComplete(_ context.Context, items, tiles int, d time.Duration, err error) {
	if err != nil {
		h.logger.Error("pack failed", "items", items, "duration", d, "err", err)
		return
	}
	h.logger.Debug("pack done", "items", items, "tiles", tiles, "duration", d)
}

func (h *LogHooks) OnRenderStart(_ context.Context, formats []string) {
	h.logger.Debug("render start", "formats", formats)
}

func (h *LogHooks) OnRenderComplete(_ context.Context, formats []string, d time.Duration, err error) {
	if err != nil {
		h.logger.Error("render failed", "formats", formats, "duration", d, "err", err)
		return
	}
	h.logger.Debug("render done", "formats", formats, "duration", d)
}

func (h *LogHooks) OnWindow(_ context.Context, tiles, placed int, d time.Duration) {
	h.logger.Debug("window", "tiles", tiles, "placed", placed, "duration", d)
}

func (h *LogHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h *LogHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h *LogHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "bytes", size)
}

func (h *LogHooks) OnRequest(_ context.Context, method, route string) {
	h.logger.Debug("request", "method", method, "route", route)
}

func (h *LogHooks) OnResponse(_ context.Context, method, route string, status int, d time.Duration) {
	h.logger.Info("response", "method", method, "route", route, "status", status, "duration", d)
}

func (h *LogHooks) OnError(_ context.Context, method, route string, err error) {
	h.logger.Error("request failed", "method", method, "route", route, "err", err)
}

var (
	_ PipelineHooks = (*LogHooks)(nil)
	_ CacheHooks    = (*LogHooks)(nil)
	_ HTTPHooks     = (*LogHooks)(nil)
)
