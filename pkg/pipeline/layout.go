package pipeline

import (
	"context"
	"time"

	"github.com/matzehuels/poolkit/pkg/diagram"
	"github.com/matzehuels/poolkit/pkg/observability"
	"github.com/matzehuels/poolkit/pkg/pool"
)

// BuildPool builds the pool described by doc with the layout overrides of
// opts applied. The document itself is not modified.
func BuildPool(doc *diagram.Document, opts Options) (*pool.Pool, error) {
	if err := opts.ValidateForLayout(); err != nil {
		return nil, err
	}
	return opts.Apply(doc).Pool()
}

// GenerateLayout computes the layout of doc.
func GenerateLayout(ctx context.Context, doc *diagram.Document, opts Options) (pool.Layout, error) {
	hooks := observability.Pipeline()
	hooks.OnLayoutStart(ctx, len(doc.Lanes))
	start := time.Now()

	p, err := BuildPool(doc, opts)
	if err != nil {
		hooks.OnLayoutComplete(ctx, time.Since(start), err)
		return pool.Layout{}, err
	}
	l := p.Layout()
	hooks.OnLayoutComplete(ctx, time.Since(start), nil)

	if opts.Logger != nil {
		size := p.Size()
		opts.Logger.Debug("layout computed",
			"lanes", p.Registry().LaneCount(),
			"width", size.Width,
			"height", size.Height)
	}
	return l, nil
}
