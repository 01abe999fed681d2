package observability

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	// Pool hooks
	pl := NoopPoolHooks{}
	pl.OnRebuildStart(ctx, 3, 2)
	pl.OnRebuildComplete(ctx, 3, 2, time.Millisecond, nil)

	// Pipeline hooks
	p := NoopPipelineHooks{}
	p.OnLayoutStart(ctx, 12)
	p.OnLayoutComplete(ctx, time.Second, nil)
	p.OnRenderStart(ctx, []string{"svg"})
	p.OnRenderComplete(ctx, []string{"svg"}, time.Second, nil)

	// Cache hooks
	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "layout")
	c.OnCacheMiss(ctx, "layout")
	c.OnCacheSet(ctx, "artifact", 1024)

	// HTTP hooks
	h := NoopHTTPHooks{}
	h.OnRequest(ctx, "POST", "/v1/layout")
	h.OnResponse(ctx, "POST", "/v1/layout", 200, time.Second)
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()

	if _, ok := Pool().(NoopPoolHooks); !ok {
		t.Error("Pool() should return NoopPoolHooks by default")
	}
	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Error("Pipeline() should return NoopPipelineHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Error("HTTP() should return NoopHTTPHooks by default")
	}

	customPool := &testPoolHooks{}
	SetPoolHooks(customPool)
	if Pool() != customPool {
		t.Error("SetPoolHooks should set custom hooks")
	}

	customCache := &testCacheHooks{}
	SetCacheHooks(customCache)
	if Cache() != customCache {
		t.Error("SetCacheHooks should set custom hooks")
	}

	Reset()
	if _, ok := Pool().(NoopPoolHooks); !ok {
		t.Error("Reset() should restore NoopPoolHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()
	defer Reset()

	custom := &testPoolHooks{}
	SetPoolHooks(custom)
	SetPoolHooks(nil)
	if Pool() != custom {
		t.Error("SetPoolHooks(nil) should keep the current hooks")
	}
}

func TestCustomHooksReceiveEvents(t *testing.T) {
	Reset()
	defer Reset()

	custom := &testPoolHooks{}
	SetPoolHooks(custom)

	ctx := context.Background()
	Pool().OnRebuildStart(ctx, 4, 1)
	Pool().OnRebuildComplete(ctx, 4, 1, time.Millisecond, nil)

	if custom.starts != 1 || custom.completes != 1 {
		t.Errorf("starts=%d completes=%d, want 1/1", custom.starts, custom.completes)
	}
}

type testPoolHooks struct {
	starts, completes int
}

func (h *testPoolHooks) OnRebuildStart(context.Context, int, int) { h.starts++ }
func (h *testPoolHooks) OnRebuildComplete(context.Context, int, int, time.Duration, error) {
	h.completes++
}

type testCacheHooks struct{ NoopCacheHooks }

func TestLogHooks(t *testing.T) {
	Reset()
	defer Reset()

	var buf bytes.Buffer
	l := log.New(&buf)
	l.SetLevel(log.DebugLevel)
	InstallLogHooks(l)

	ctx := context.Background()
	Pool().OnRebuildComplete(ctx, 4, 2, time.Millisecond, nil)
	Cache().OnCacheMiss(ctx, "layout")
	Pipeline().OnRenderComplete(ctx, []string{"svg"}, time.Millisecond, errors.New("boom"))

	out := buf.String()
	for _, want := range []string{"rebuilt", "lanes=4", "cache miss", "type=layout", "WARN", "err=boom", "events"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q:\n%s", want, out)
		}
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Error("InstallLogHooks should leave HTTP hooks alone")
	}
}
