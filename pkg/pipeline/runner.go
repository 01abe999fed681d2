package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/poolkit/pkg/cache"
	"github.com/matzehuels/poolkit/pkg/diagram"
	"github.com/matzehuels/poolkit/pkg/observability"
	"github.com/matzehuels/poolkit/pkg/pool"
)

// Cache entry kinds reported to the cache hooks.
const (
	kindLayout   = "layout"
	kindArtifact = "artifact"
)

// Runner runs documents through the pipeline, reading and writing cache
// entries around each stage. It keeps no per-run state and may be shared
// by concurrent requests.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// TTL replaces the default lifetime of cached entries when positive.
	TTL time.Duration
}

// NewRunner returns a runner over c. A nil cache disables caching, a nil
// keyer selects the default key scheme and a nil logger uses log.Default.
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	r := &Runner{Cache: c, Keyer: keyer, Logger: logger}
	if r.Cache == nil {
		r.Cache = cache.NewNullCache()
	}
	if r.Keyer == nil {
		r.Keyer = cache.NewDefaultKeyer()
	}
	if r.Logger == nil {
		r.Logger = log.Default()
	}
	return r
}

// Execute lays out doc and renders every requested format.
func (r *Runner) Execute(ctx context.Context, doc *diagram.Document, opts Options) (*Result, error) {
	r.defaultLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	start := time.Now()
	l, docHash, layoutHit, err := r.layout(ctx, doc, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	res := &Result{
		DocHash: docHash,
		Layout:  l,
		Stats: Stats{
			LaneCount:      len(l.Lanes),
			MilestoneCount: len(l.Milestones),
			LayoutTime:     time.Since(start),
		},
		CacheInfo: CacheInfo{LayoutHit: layoutHit},
	}
	r.Logger.Info("computed layout", "lanes", res.Stats.LaneCount, "milestones", res.Stats.MilestoneCount,
		"cached", layoutHit, "duration", res.Stats.LayoutTime)

	start = time.Now()
	res.Artifacts, res.CacheInfo.RenderHit, err = r.RenderWithCacheInfo(ctx, l, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	res.Stats.RenderTime = time.Since(start)
	r.Logger.Info("rendered outputs", "formats", opts.Formats, "cached", res.CacheInfo.RenderHit,
		"duration", res.Stats.RenderTime)
	return res, nil
}

// GenerateLayout returns the layout of doc, from the cache when possible.
func (r *Runner) GenerateLayout(ctx context.Context, doc *diagram.Document, opts Options) (pool.Layout, error) {
	l, _, err := r.GenerateLayoutWithCacheInfo(ctx, doc, opts)
	return l, err
}

// GenerateLayoutWithCacheInfo is GenerateLayout that also reports whether
// the layout came from the cache.
func (r *Runner) GenerateLayoutWithCacheInfo(ctx context.Context, doc *diagram.Document, opts Options) (pool.Layout, bool, error) {
	l, _, hit, err := r.layout(ctx, doc, opts)
	return l, hit, err
}

func (r *Runner) layout(ctx context.Context, doc *diagram.Document, opts Options) (l pool.Layout, docHash string, hit bool, err error) {
	r.defaultLogger(&opts)
	if err := opts.ValidateForLayout(); err != nil {
		return l, "", false, err
	}
	if docHash, err = cache.HashJSON(doc); err != nil {
		return l, "", false, fmt.Errorf("hash document: %w", err)
	}
	key := r.Keyer.LayoutKey(docHash, opts.LayoutKeyOpts())

	if data, ok := r.lookup(ctx, kindLayout, key, opts.Refresh); ok {
		cached, err := diagram.UnmarshalLayout(data)
		if err == nil {
			return cached, docHash, true, nil
		}
		r.Logger.Warn("discarding unreadable cached layout", "key", key, "err", err)
	}

	if l, err = GenerateLayout(ctx, doc, opts); err != nil {
		return l, docHash, false, err
	}
	if data, err := diagram.MarshalLayout(l); err == nil {
		r.store(ctx, kindLayout, key, data, cache.LayoutTTL)
	}
	return l, docHash, false, nil
}

// Render renders l in every requested format, from the cache when possible.
func (r *Runner) Render(ctx context.Context, l pool.Layout, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, l, opts)
	return artifacts, err
}

// RenderWithCacheInfo is Render that also reports whether every artifact
// came from the cache.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, l pool.Layout, opts Options) (map[string][]byte, bool, error) {
	r.defaultLogger(&opts)
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}

	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.Formats)
	start := time.Now()
	artifacts, hit, err := r.render(ctx, l, opts)
	hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	return artifacts, hit, err
}

func (r *Runner) render(ctx context.Context, l pool.Layout, opts Options) (map[string][]byte, bool, error) {
	layoutData, err := diagram.MarshalLayout(l)
	if err != nil {
		return nil, false, fmt.Errorf("hash layout: %w", err)
	}
	layoutHash := cache.Hash(layoutData)
	keyFor := func(format string) string {
		return r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
	}

	artifacts := make(map[string][]byte, len(opts.Formats))
	var missing []string
	for _, format := range opts.Formats {
		if data, ok := r.lookup(ctx, kindArtifact, keyFor(format), opts.Refresh); ok {
			artifacts[format] = data
		} else {
			missing = append(missing, format)
		}
	}
	if len(missing) == 0 {
		return artifacts, true, nil
	}

	sub := opts
	sub.Formats = missing
	rendered, err := Render(l, sub)
	if err != nil {
		return nil, false, err
	}
	for format, data := range rendered {
		artifacts[format] = data
		r.store(ctx, kindArtifact, keyFor(format), data, cache.ArtifactTTL)
	}
	return artifacts, false, nil
}

// lookup reads key unless refresh is set. Cache errors count as misses.
func (r *Runner) lookup(ctx context.Context, kind, key string, refresh bool) ([]byte, bool) {
	if refresh {
		return nil, false
	}
	hooks := observability.Cache()
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Debug("cache read failed", "kind", kind, "err", err)
	}
	if err != nil || !hit {
		hooks.OnCacheMiss(ctx, kind)
		return nil, false
	}
	hooks.OnCacheHit(ctx, kind)
	return data, true
}

// store writes data under key. Failures are logged and otherwise ignored.
func (r *Runner) store(ctx context.Context, kind, key string, data []byte, ttl time.Duration) {
	if r.TTL > 0 {
		ttl = r.TTL
	}
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		r.Logger.Warn("cache write failed", "kind", kind, "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, kind, len(data))
}

// Close closes the cache.
func (r *Runner) Close() error {
	if r.Cache == nil {
		return nil
	}
	return r.Cache.Close()
}

func (r *Runner) defaultLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
