package diagram

import (
	"github.com/matzehuels/poolkit/pkg/errors"
	"github.com/matzehuels/poolkit/pkg/pool"
)

// Document is the serialized form of one pool.
type Document struct {
	Width          float64              `json:"width,omitempty" toml:"width,omitempty"`
	Height         float64              `json:"height,omitempty" toml:"height,omitempty"`
	X              float64              `json:"x,omitempty" toml:"x,omitempty"`
	Y              float64              `json:"y,omitempty" toml:"y,omitempty"`
	Angle          float64              `json:"angle,omitempty" toml:"angle,omitempty"`
	Padding        pool.Padding         `json:"padding" toml:"padding"`
	HeaderSize     *float64             `json:"header_size,omitempty" toml:"header_size,omitempty"`
	MilestonesSize *float64             `json:"milestones_size,omitempty" toml:"milestones_size,omitempty"`
	AutoResize     bool                 `json:"auto_resize,omitempty" toml:"auto_resize,omitempty"`
	Lanes          []pool.LaneSpec      `json:"lanes,omitempty" toml:"lanes,omitempty"`
	Milestones     []pool.MilestoneSpec `json:"milestones,omitempty" toml:"milestones,omitempty"`
}

// Options returns the pool options described by the document.
func (d *Document) Options() []pool.Option {
	opts := []pool.Option{
		pool.WithPosition(d.X, d.Y),
		pool.WithAngle(d.Angle),
		pool.WithPadding(d.Padding),
		pool.WithLanes(d.Lanes),
		pool.WithMilestones(d.Milestones),
	}
	if d.Width > 0 || d.Height > 0 {
		w, h := d.Width, d.Height
		if w <= 0 {
			w = pool.DefaultWidth
		}
		if h <= 0 {
			h = pool.DefaultHeight
		}
		opts = append(opts, pool.WithSize(w, h))
	}
	if d.HeaderSize != nil {
		opts = append(opts, pool.WithHeaderSize(*d.HeaderSize))
	}
	if d.MilestonesSize != nil {
		opts = append(opts, pool.WithMilestonesSize(*d.MilestonesSize))
	}
	return opts
}

// Pool builds the pool described by the document. When AutoResize is set the
// pool is grown to its minimal size.
func (d *Document) Pool() (*pool.Pool, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	p, err := pool.New(d.Options()...)
	if err != nil {
		return nil, err
	}
	if d.AutoResize {
		p.AutoResize()
	}
	return p, nil
}

// Validate checks the document-level fields. Lane and milestone trees are
// validated when the pool is built.
func (d *Document) Validate() error {
	if d.Width < 0 || d.Height < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "pool size must not be negative (got %gx%g)", d.Width, d.Height)
	}
	return nil
}

// FromPool captures the current state of p as a document.
func FromPool(p *pool.Pool) *Document {
	size := p.Size()
	bbox := p.BBox()
	header := p.HeaderSize()
	strip := p.MilestonesSize()

	return &Document{
		Width:          size.Width,
		Height:         size.Height,
		X:              bbox.X,
		Y:              bbox.Y,
		Angle:          p.Angle(),
		Padding:        p.ConfiguredPadding(),
		HeaderSize:     &header,
		MilestonesSize: &strip,
		Lanes:          p.LaneSpecs(),
		Milestones:     p.MilestoneSpecs(),
	}
}
