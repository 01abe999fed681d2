// Package observability lets callers observe pool rebuilds, pipeline stages,
// cache traffic and HTTP requests without tying poolkit to a metrics backend.
//
// Each event category has a hook interface with a no-op default. Programs
// install their own implementations once at startup:
//
//	observability.SetPoolHooks(myPoolHooks{})
//	observability.SetCacheHooks(myCacheHooks{})
//
// and instrumented code fetches the current hooks per event:
//
//	observability.Pool().OnRebuildStart(ctx, lanes, milestones)
//
// [LogHooks] implements every interface on top of a charmbracelet/log logger.
package observability

import (
	"context"
	"sync/atomic"
	"time"
)

// PoolHooks receives events from the layout engine.
type PoolHooks interface {
	OnRebuildStart(ctx context.Context, lanes, milestones int)
	OnRebuildComplete(ctx context.Context, lanes, milestones int, duration time.Duration, err error)
}

// PipelineHooks receives events from the layout and render stages.
type PipelineHooks interface {
	OnLayoutStart(ctx context.Context, lanes int)
	OnLayoutComplete(ctx context.Context, duration time.Duration, err error)
	OnRenderStart(ctx context.Context, formats []string)
	OnRenderComplete(ctx context.Context, formats []string, duration time.Duration, err error)
}

// CacheHooks receives cache lookups and writes. keyType is "layout" or
// "artifact".
type CacheHooks interface {
	OnCacheHit(ctx context.Context, keyType string)
	OnCacheMiss(ctx context.Context, keyType string)
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// HTTPHooks receives the requests served by the HTTP API.
type HTTPHooks interface {
	OnRequest(ctx context.Context, method, path string)
	OnResponse(ctx context.Context, method, path string, statusCode int, duration time.Duration)
}

type (
	NoopPoolHooks     struct{}
	NoopPipelineHooks struct{}
	NoopCacheHooks    struct{}
	NoopHTTPHooks     struct{}
)

func (NoopPoolHooks) OnRebuildStart(context.Context, int, int)                          {}
func (NoopPoolHooks) OnRebuildComplete(context.Context, int, int, time.Duration, error) {}

func (NoopPipelineHooks) OnLayoutStart(context.Context, int)                               {}
func (NoopPipelineHooks) OnLayoutComplete(context.Context, time.Duration, error)           {}
func (NoopPipelineHooks) OnRenderStart(context.Context, []string)                          {}
func (NoopPipelineHooks) OnRenderComplete(context.Context, []string, time.Duration, error) {}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

func (NoopHTTPHooks) OnRequest(context.Context, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, int, time.Duration) {}

// slot holds one installed hook implementation. A nil value is ignored so
// that the no-op default stays in place.
type slot[T any] struct {
	v    atomic.Pointer[T]
	noop T
}

func (s *slot[T]) get() T {
	if p := s.v.Load(); p != nil {
		return *p
	}
	return s.noop
}

func (s *slot[T]) set(h T) {
	if any(h) != nil {
		s.v.Store(&h)
	}
}

var (
	poolSlot     = slot[PoolHooks]{noop: NoopPoolHooks{}}
	pipelineSlot = slot[PipelineHooks]{noop: NoopPipelineHooks{}}
	cacheSlot    = slot[CacheHooks]{noop: NoopCacheHooks{}}
	httpSlot     = slot[HTTPHooks]{noop: NoopHTTPHooks{}}
)

func SetPoolHooks(h PoolHooks)         { poolSlot.set(h) }
func SetPipelineHooks(h PipelineHooks) { pipelineSlot.set(h) }
func SetCacheHooks(h CacheHooks)       { cacheSlot.set(h) }
func SetHTTPHooks(h HTTPHooks)         { httpSlot.set(h) }

func Pool() PoolHooks         { return poolSlot.get() }
func Pipeline() PipelineHooks { return pipelineSlot.get() }
func Cache() CacheHooks       { return cacheSlot.get() }
func HTTP() HTTPHooks         { return httpSlot.get() }

// Reset restores the no-op hooks. Tests use it between cases.
func Reset() {
	poolSlot.v.Store(nil)
	pipelineSlot.v.Store(nil)
	cacheSlot.v.Store(nil)
	httpSlot.v.Store(nil)
}
