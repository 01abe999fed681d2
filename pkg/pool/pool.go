package pool

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/matzehuels/poolkit/pkg/errors"
	"github.com/matzehuels/poolkit/pkg/observability"
)

// Defaults applied by New.
const (
	DefaultHeaderSize     = 30.0
	DefaultMilestonesSize = 30.0
	DefaultWidth          = 800.0
	DefaultHeight         = 400.0
)

// Pool owns the lane and milestone specs of one pool shape together with its
// geometry and the registry derived from the specs.
type Pool struct {
	mu        sync.RWMutex
	rebuildMu sync.Mutex // serializes rebuilds

	size           Size
	position       Point
	angle          float64
	padding        Padding
	headerSize     float64
	milestonesSize float64

	lanes      []LaneSpec
	milestones []MilestoneSpec
	reg        *Registry
	version    uint64
}

// Option configures a Pool in New.
type Option func(*Pool)

// WithSize sets the pool's outer size.
func WithSize(width, height float64) Option {
	return func(p *Pool) {
		p.size = Size{Width: resizeValue(p.size.Width, width), Height: resizeValue(p.size.Height, height)}
	}
}

// WithPosition sets the pool's absolute top-left corner.
func WithPosition(x, y float64) Option {
	return func(p *Pool) { p.position = Point{X: x, Y: y} }
}

// WithAngle sets the pool's rotation in degrees about its center.
func WithAngle(deg float64) Option { return func(p *Pool) { p.angle = deg } }

// WithPadding sets the space between the pool border and its lanes.
func WithPadding(pad Padding) Option { return func(p *Pool) { p.padding = pad } }

// WithHeaderSize sets the header width of labeled lanes that do not
// declare their own.
func WithHeaderSize(v float64) Option { return func(p *Pool) { p.headerSize = v } }

// WithMilestonesSize sets the height of the milestone strip.
func WithMilestonesSize(v float64) Option { return func(p *Pool) { p.milestonesSize = v } }

// WithLanes sets the lane specs.
func WithLanes(lanes []LaneSpec) Option {
	return func(p *Pool) { p.lanes = cloneLanes(lanes) }
}

// WithMilestones sets the milestone specs.
func WithMilestones(ms []MilestoneSpec) Option {
	return func(p *Pool) { p.milestones = cloneMilestones(ms) }
}

// New creates a pool and builds its registry. It fails with a
// StructuralError when the specs are malformed.
func New(opts ...Option) (*Pool, error) {
	p := &Pool{
		size:           Size{Width: DefaultWidth, Height: DefaultHeight},
		headerSize:     DefaultHeaderSize,
		milestonesSize: DefaultMilestonesSize,
	}
	for _, opt := range opts {
		opt(p)
	}
	if err := p.Rebuild(); err != nil {
		return nil, err
	}
	return p, nil
}

// IsStructural reports whether err describes a malformed spec.
func IsStructural(err error) bool {
	return errors.Is(err, errors.ErrCodeStructural)
}

// =============================================================================
// Structural setters
// =============================================================================

// Rebuild re-runs the builders over the current specs and atomically
// replaces the registry. On error the previous registry stays in place.
func (p *Pool) Rebuild() error {
	return p.rebuild(func() ([]LaneSpec, []MilestoneSpec, buildConfig) {
		return p.lanes, p.milestones, p.config()
	})
}

// SetLanes replaces the lane specs and rebuilds.
func (p *Pool) SetLanes(lanes []LaneSpec) error {
	lanes = cloneLanes(lanes)
	return p.rebuild(func() ([]LaneSpec, []MilestoneSpec, buildConfig) {
		return lanes, p.milestones, p.config()
	})
}

// SetMilestones replaces the milestone specs and rebuilds.
func (p *Pool) SetMilestones(ms []MilestoneSpec) error {
	ms = cloneMilestones(ms)
	return p.rebuild(func() ([]LaneSpec, []MilestoneSpec, buildConfig) {
		return p.lanes, ms, p.config()
	})
}

// SetPadding changes the padding and rebuilds.
func (p *Pool) SetPadding(pad Padding) error {
	return p.rebuild(func() ([]LaneSpec, []MilestoneSpec, buildConfig) {
		cfg := p.config()
		cfg.padding = pad
		return p.lanes, p.milestones, cfg
	})
}

// SetHeaderSize changes the default lane header size and rebuilds.
func (p *Pool) SetHeaderSize(v float64) error {
	return p.rebuild(func() ([]LaneSpec, []MilestoneSpec, buildConfig) {
		cfg := p.config()
		cfg.headerSize = v
		return p.lanes, p.milestones, cfg
	})
}

// SetMilestonesSize changes the milestone strip height and rebuilds.
func (p *Pool) SetMilestonesSize(v float64) error {
	return p.rebuild(func() ([]LaneSpec, []MilestoneSpec, buildConfig) {
		cfg := p.config()
		cfg.milestonesSize = v
		return p.lanes, p.milestones, cfg
	})
}

func (p *Pool) config() buildConfig {
	return buildConfig{padding: p.padding, headerSize: p.headerSize, milestonesSize: p.milestonesSize}
}

// rebuild commits specs, config and the new registry together, or nothing
// at all. next picks the inputs under the read lock. Rebuilds are
// serialized by rebuildMu, so the inputs cannot change before the commit.
// The pool hooks run without p.mu held and may query the pool, but must
// not call a structural setter.
func (p *Pool) rebuild(next func() ([]LaneSpec, []MilestoneSpec, buildConfig)) error {
	p.rebuildMu.Lock()
	defer p.rebuildMu.Unlock()

	p.mu.RLock()
	lanes, ms, cfg := next()
	p.mu.RUnlock()

	ctx := context.Background()
	hooks := observability.Pool()
	hooks.OnRebuildStart(ctx, len(lanes), len(ms))
	start := time.Now()

	reg, err := buildRegistry(lanes, ms, cfg)
	if err != nil {
		hooks.OnRebuildComplete(ctx, len(lanes), len(ms), time.Since(start), err)
		return err
	}

	p.mu.Lock()
	p.lanes, p.milestones, p.reg = lanes, ms, reg
	p.padding, p.headerSize, p.milestonesSize = cfg.padding, cfg.headerSize, cfg.milestonesSize
	p.version++
	p.mu.Unlock()

	hooks.OnRebuildComplete(ctx, reg.LaneCount(), reg.MilestoneCount(), time.Since(start), nil)
	return nil
}

// =============================================================================
// Geometry setters
// =============================================================================

// Resize sets the pool's outer size. Negative values are clamped to 0; an
// infinite dimension keeps its previous value.
func (p *Pool) Resize(width, height float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.size = Size{Width: resizeValue(p.size.Width, width), Height: resizeValue(p.size.Height, height)}
	p.version++
}

func resizeValue(prev, v float64) float64 {
	if math.IsInf(v, 0) {
		return prev
	}
	return floor0(v)
}

// SetPosition moves the pool's top-left corner.
func (p *Pool) SetPosition(x, y float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.position = Point{X: x, Y: y}
}

// SetAngle sets the pool's rotation in degrees.
func (p *Pool) SetAngle(deg float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.angle = deg
}

// MinSize returns the smallest pool size that fits all lane headers, fixed
// milestones and lane content.
func (p *Pool) MinSize() Size {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.minSizeLocked()
}

func (p *Pool) minSizeLocked() Size {
	reg := p.reg

	var headers float64
	for _, id := range reg.laneOrder {
		headers = math.Max(headers, reg.headerChain(id))
	}
	var milestones float64
	for _, id := range reg.milestoneOrder {
		if m := reg.milestones[id]; m.Fixed {
			milestones += m.FixedSize
		}
	}

	stack := reg.TotalTakenHeight()
	if reg.MilestoneCount() > 0 && p.milestonesSize > stack {
		stack = 0
	}

	pad := reg.Padding()
	return Size{
		Width:  pad.Left + pad.Right + math.Max(headers, milestones),
		Height: pad.Top + pad.Bottom + stack,
	}
}

// AutoResize grows the pool to at least its minimal size. It never shrinks
// the pool and returns the resulting size.
func (p *Pool) AutoResize() Size {
	p.mu.Lock()
	defer p.mu.Unlock()
	least := p.minSizeLocked()
	next := Size{
		Width:  math.Max(p.size.Width, least.Width),
		Height: math.Max(p.size.Height, least.Height),
	}
	if next != p.size {
		p.size = next
		p.version++
	}
	return p.size
}

// =============================================================================
// State accessors
// =============================================================================

// Size returns the pool's outer size.
func (p *Pool) Size() Size {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.size
}

// BBox returns the pool's absolute, unrotated rectangle.
func (p *Pool) BBox() Rect {
	return p.resolve().poolRect()
}

// Angle returns the pool's rotation in degrees.
func (p *Pool) Angle() float64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.angle
}

// Padding returns the resolved padding, milestone strip included.
func (p *Pool) Padding() Padding {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.reg.Padding()
}

// ConfiguredPadding returns the padding as set, without the milestone strip.
func (p *Pool) ConfiguredPadding() Padding {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.padding
}

// HeaderSize returns the default header width of labeled lanes.
func (p *Pool) HeaderSize() float64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.headerSize
}

// MilestonesSize returns the height of the milestone strip.
func (p *Pool) MilestonesSize() float64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.milestonesSize
}

// Version increases with every structural or size change.
func (p *Pool) Version() uint64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.version
}

// LaneSpecs returns a copy of the current lane specs.
func (p *Pool) LaneSpecs() []LaneSpec {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return cloneLanes(p.lanes)
}

// MilestoneSpecs returns a copy of the current milestone specs.
func (p *Pool) MilestoneSpecs() []MilestoneSpec {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return cloneMilestones(p.milestones)
}

// Registry returns the current registry. It is never modified after a
// rebuild, so it can be read without holding the pool.
func (p *Pool) Registry() *Registry {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.reg
}

// resolve captures the current state for one query.
func (p *Pool) resolve() resolver {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return resolver{
		reg:            p.reg,
		size:           p.size,
		position:       p.position,
		angle:          p.angle,
		milestonesSize: p.milestonesSize,
	}
}
