// Package pkg provides the libraries behind poolkit, a layout engine for
// swimlane pools.
//
// # Overview
//
// A pool is a rectangle holding lanes stacked vertically, each with a header
// strip on the left, and optionally a row of milestone columns along the
// top. Lanes nest: a lane may hold sublanes, which share its height. Sizes
// are either fixed by the caller or flexible, in which case the remaining
// space is shared out like a constrained flexbox.
//
// The pkg directory is organized into these areas:
//
//  1. [pool] - The layout engine (builders, resolvers, geometry queries)
//  2. [diagram] - JSON/TOML pool documents and layout files
//  3. [render] - SVG drawings, lane trees and format conversion
//  4. [pipeline] - Orchestration (document → layout → artifacts) with caching
//  5. [cache], [session] - File and Redis backed storage
//  6. [errors], [observability], [buildinfo] - Ambient support
//
// # Architecture
//
// The typical data flow through poolkit:
//
//	pool.json / pool.toml
//	         ↓
//	    [diagram] package (decode and validate)
//	         ↓
//	    [pool] package (registry build, size and position resolution)
//	         ↓
//	    [render] packages (SVG, DOT, PNG, PDF)
//
// # Quick Start
//
//	import (
//	    "github.com/matzehuels/poolkit/pkg/pool"
//	    "github.com/matzehuels/poolkit/pkg/render/svg"
//	)
//
//	p, err := pool.New(
//	    pool.WithSize(800, 400),
//	    pool.WithLanes([]pool.LaneSpec{
//	        {ID: "plan", Label: "Plan", Size: pool.Fixed(120)},
//	        {Label: "Build", Sublanes: []pool.LaneSpec{{Label: "Backend"}, {Label: "Frontend"}}},
//	    }),
//	    pool.WithMilestones([]pool.MilestoneSpec{{Label: "Q1"}, {Label: "Q2"}}),
//	)
//	if err != nil {
//	    return err // duplicate ids and bad sizes are structural errors
//	}
//
//	h, _ := p.LaneHeight("plan")           // 120
//	ids := p.LanesFromPoint(pool.Point{X: 400, Y: 300})
//	data := svg.RenderSVG(p.Layout())
//
// [pool]: github.com/matzehuels/poolkit/pkg/pool
// [diagram]: github.com/matzehuels/poolkit/pkg/diagram
// [render]: github.com/matzehuels/poolkit/pkg/render
// [pipeline]: github.com/matzehuels/poolkit/pkg/pipeline
// [cache]: github.com/matzehuels/poolkit/pkg/cache
// [session]: github.com/matzehuels/poolkit/pkg/session
// [errors]: github.com/matzehuels/poolkit/pkg/errors
// [observability]: github.com/matzehuels/poolkit/pkg/observability
// [buildinfo]: github.com/matzehuels/poolkit/pkg/buildinfo
package pkg
