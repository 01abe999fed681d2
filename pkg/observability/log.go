package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks reports every event as a debug-level log line.
type LogHooks struct {
	Logger *log.Logger
}

// InstallLogHooks routes pool, pipeline and cache events to l.
func InstallLogHooks(l *log.Logger) {
	h := LogHooks{Logger: l.WithPrefix("events")}
	SetPoolHooks(h)
	SetPipelineHooks(h)
	SetCacheHooks(h)
}

func (h LogHooks) OnRebuildStart(_ context.Context, lanes, milestones int) {
	h.Logger.Debug("rebuild", "lanes", lanes, "milestones", milestones)
}

func (h LogHooks) OnRebuildComplete(_ context.Context, lanes, milestones int, d time.Duration, err error) {
	h.done("rebuilt", d, err, "lanes", lanes, "milestones", milestones)
}

func (h LogHooks) OnLayoutStart(_ context.Context, lanes int) {
	h.Logger.Debug("layout", "lanes", lanes)
}

func (h LogHooks) OnLayoutComplete(_ context.Context, d time.Duration, err error) {
	h.done("layout done", d, err)
}

func (h LogHooks) OnRenderStart(_ context.Context, formats []string) {
	h.Logger.Debug("render", "formats", formats)
}

func (h LogHooks) OnRenderComplete(_ context.Context, formats []string, d time.Duration, err error) {
	h.done("render done", d, err, "formats", formats)
}

func (h LogHooks) OnCacheHit(_ context.Context, keyType string) {
	h.Logger.Debug("cache hit", "type", keyType)
}

func (h LogHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.Logger.Debug("cache miss", "type", keyType)
}

func (h LogHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.Logger.Debug("cache set", "type", keyType, "bytes", size)
}

func (h LogHooks) OnRequest(_ context.Context, method, path string) {
	h.Logger.Debug("request", "method", method, "path", path)
}

func (h LogHooks) OnResponse(_ context.Context, method, path string, status int, d time.Duration) {
	h.Logger.Debug("response", "method", method, "path", path, "status", status, "elapsed", d)
}

func (h LogHooks) done(msg string, d time.Duration, err error, keyvals ...any) {
	keyvals = append(keyvals, "elapsed", d)
	if err != nil {
		h.Logger.Warn(msg, append(keyvals, "err", err)...)
		return
	}
	h.Logger.Debug(msg, keyvals...)
}
