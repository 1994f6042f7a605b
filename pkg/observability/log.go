package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks reports every event as a debug log line. It implements
// [PipelineHooks], [CacheHooks] and [ServerHooks].
type LogHooks struct {
	Logger *log.Logger
}

// NewLogHooks returns hooks writing to logger, or to the default logger
// when logger is nil.
func NewLogHooks(logger *log.Logger) *LogHooks {
	if logger == nil {
		logger = log.Default()
	}
	return &LogHooks{Logger: logger}
}

func (h *LogHooks) OnLayoutStart(_ context.Context, rows, cols int) {
	h.Logger.Debug("layout start", "rows", rows, "columns", cols)
}

func (h *LogHooks) OnLayoutComplete(_ context.Context, bars int, d time.Duration, err error) {
	h.Logger.Debug("layout complete", "bars", bars, "duration", d, "err", err)
}

func (h *LogHooks) OnRenderStart(_ context.Context, formats []string) {
	h.Logger.Debug("render start", "formats", formats)
}

func (h *LogHooks) OnRenderComplete(_ context.Context, formats []string, d time.Duration, err error) {
	h.Logger.Debug("render complete", "formats", formats, "duration", d, "err", err)
}

func (h *LogHooks) OnCacheHit(_ context.Context, keyType string) {
	h.Logger.Debug("cache hit", "type", keyType)
}

func (h *LogHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.Logger.Debug("cache miss", "type", keyType)
}

func (h *LogHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.Logger.Debug("cache set", "type", keyType, "bytes", size)
}

func (h *LogHooks) OnRequest(_ context.Context, method, path string) {
	h.Logger.Debug("request", "method", method, "path", path)
}

func (h *LogHooks) OnResponse(_ context.Context, method, path string, status int, d time.Duration) {
	h.Logger.Debug("response", "method", method, "path", path, "status", status, "duration", d)
}

var (
	_ PipelineHooks = (*LogHooks)(nil)
	_ CacheHooks    = (*LogHooks)(nil)
	_ ServerHooks   = (*LogHooks)(nil)
)
