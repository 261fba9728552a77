package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks implements every hook interface by writing debug-level entries
// to a charmbracelet logger. The CLI installs it under --verbose.
type LogHooks struct {
	Logger *log.Logger
}

// NewLogHooks returns LogHooks writing to logger, or to log.Default() when
// logger is nil.
func NewLogHooks(logger *log.Logger) *LogHooks {
	if logger == nil {
		logger = log.Default()
	}
	return &LogHooks{Logger: logger}
}

// Install registers h for pipeline, cache and HTTP events.
func (h *LogHooks) Install() {
	SetPipelineHooks(h)
	SetCacheHooks(h)
	SetHTTPHooks(h)
}

func (h *LogHooks) OnDecodeStart(_ context.Context, source string) {
	h.Logger.Debug("decode start", "source", source)
}

func (h *LogHooks) OnDecodeComplete(_ context.Context, source string, records int, d time.Duration, err error) {
	if err != nil {
		h.Logger.Debug("decode failed", "source", source, "error", err)
		return
	}
	h.Logger.Debug("decoded", "source", source, "records", records, "duration", d)
}

func (h *LogHooks) OnTransformStart(_ context.Context, records int) {
	h.Logger.Debug("transform start", "records", records)
}

func (h *LogHooks) OnTransformComplete(_ context.Context, rows, columns int, d time.Duration) {
	h.Logger.Debug("transformed", "rows", rows, "columns", columns, "duration", d)
}

func (h *LogHooks) OnRenderStart(_ context.Context, formats []string) {
	h.Logger.Debug("render start", "formats", formats)
}

func (h *LogHooks) OnRenderComplete(_ context.Context, formats []string, d time.Duration, err error) {
	if err != nil {
		h.Logger.Debug("render failed", "formats", formats, "error", err)
		return
	}
	h.Logger.Debug("rendered", "formats", formats, "duration", d)
}

func (h *LogHooks) OnExportStart(_ context.Context, kind, target string) {
	h.Logger.Debug("export start", "kind", kind, "target", target)
}

func (h *LogHooks) OnExportComplete(_ context.Context, kind, target string, rows int, d time.Duration, err error) {
	if err != nil {
		h.Logger.Debug("export failed", "kind", kind, "target", target, "error", err)
		return
	}
	h.Logger.Debug("exported", "kind", kind, "target", target, "rows", rows, "duration", d)
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

func (h *LogHooks) OnRequest(_ context.Context, method, host, path string) {
	h.Logger.Debug("http request", "method", method, "host", host, "path", path)
}

func (h *LogHooks) OnResponse(_ context.Context, method, host, path string, status int, d time.Duration) {
	h.Logger.Debug("http response", "method", method, "host", host, "path", path, "status", status, "duration", d)
}

func (h *LogHooks) OnError(_ context.Context, method, host, path string, err error) {
	h.Logger.Debug("http error", "method", method, "host", host, "path", path, "error", err)
}
