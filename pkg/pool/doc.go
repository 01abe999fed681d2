// Package pool computes the layout of a BPMN-style pool: a rectangle split
// into horizontal lanes (optionally nested into sublanes) with an optional
// strip of milestone columns above them.
//
// # Overview
//
// A [Pool] owns a tree of [LaneSpec] values and a flat list of
// [MilestoneSpec] values. Every structural change rebuilds a flat
// [Registry] keyed by positional ids:
//
//	"0", "1", ...          top-level lanes
//	"1_0", "1_1", ...      sublanes of lane "1"
//	"milestone_0", ...     milestones
//
// Sizes and positions are never stored. They are derived on demand from the
// registry and the current pool size, so resizing the pool repositions every
// lane consistently.
//
// # Sizing
//
// Lanes stack vertically. A lane with a declared Size keeps
// max(Size, contentMinSize). Lanes without a size share what is left of
// their parent's height. A flexible lane whose content does not fit its
// share is pinned to its content size and the rest is redivided among the
// remaining flexible siblings. The last sublane of a group absorbs rounding
// so that siblings always tile their parent exactly.
//
// Labeled lanes reserve a header strip of HeaderSize on their left edge;
// their sublanes start after it.
//
// # Ids
//
// Queries accept either the custom id declared in a LaneSpec or the
// positional id. Results use the public id: the custom id when declared,
// the positional id otherwise. Unknown ids are reported through an ok flag
// or an empty result, never through an error.
//
// # Concurrency
//
// A Pool is safe for concurrent use. Queries share a read lock; setters and
// [Pool.Rebuild] take the write lock, so no query observes a half-built
// registry. [Pool.Layout] returns an immutable snapshot for renderers.
//
// # Usage
//
//	p, err := pool.New(
//	    pool.WithSize(600, 300),
//	    pool.WithLanes([]pool.LaneSpec{
//	        {ID: "sales", Label: "Sales", Size: pool.Fixed(100)},
//	        {ID: "ops", Label: "Operations"},
//	    }),
//	)
//	if err != nil {
//	    return err // a StructuralError naming the bad lane
//	}
//	box, ok := p.LaneBBox("ops")
package pool
