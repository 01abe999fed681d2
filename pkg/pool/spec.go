package pool

import "math"

// LaneSpec declares a lane and its nested sublanes.
type LaneSpec struct {
	ID         string     `json:"id,omitempty" toml:"id,omitempty"`
	Label      string     `json:"label,omitempty" toml:"label,omitempty"`
	Size       *float64   `json:"size,omitempty" toml:"size,omitempty"`
	HeaderSize *float64   `json:"header_size,omitempty" toml:"header_size,omitempty"`
	Sublanes   []LaneSpec `json:"sublanes,omitempty" toml:"sublanes,omitempty"`
}

// MilestoneSpec declares a milestone column.
type MilestoneSpec struct {
	ID    string   `json:"id,omitempty" toml:"id,omitempty"`
	Label string   `json:"label,omitempty" toml:"label,omitempty"`
	Size  *float64 `json:"size,omitempty" toml:"size,omitempty"`
}

// Fixed returns a pointer to v, for use as LaneSpec.Size and friends.
func Fixed(v float64) *float64 { return &v }

// Padding is the space between the pool border and its lanes.
type Padding struct {
	Top    float64 `json:"top" toml:"top"`
	Left   float64 `json:"left" toml:"left"`
	Right  float64 `json:"right" toml:"right"`
	Bottom float64 `json:"bottom" toml:"bottom"`
}

// UniformPadding returns a Padding with all four sides set to v.
func UniformPadding(v float64) Padding {
	return Padding{Top: v, Left: v, Right: v, Bottom: v}
}

// Size is a width/height pair.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Point is a position in diagram coordinates (y grows downwards).
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Rect is an axis-aligned rectangle.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Contains reports whether pt lies inside r, edges included.
func (r Rect) Contains(pt Point) bool {
	return pt.X >= r.X && pt.X <= r.X+r.Width && pt.Y >= r.Y && pt.Y <= r.Y+r.Height
}

// Center returns the center point of r.
func (r Rect) Center() Point {
	return Point{X: r.X + r.Width/2, Y: r.Y + r.Height/2}
}

// Offset returns r translated by (dx, dy).
func (r Rect) Offset(dx, dy float64) Rect {
	r.X += dx
	r.Y += dy
	return r
}

// rotate turns pt around c by deg degrees, clockwise on screen.
func rotate(pt, c Point, deg float64) Point {
	if deg == 0 {
		return pt
	}
	rad := deg * math.Pi / 180
	sin, cos := math.Sincos(rad)
	dx, dy := pt.X-c.X, pt.Y-c.Y
	return Point{
		X: c.X + dx*cos - dy*sin,
		Y: c.Y + dx*sin + dy*cos,
	}
}

func floor0(v float64) float64 {
	if v < 0 || math.IsNaN(v) {
		return 0
	}
	return v
}

func cloneLanes(lanes []LaneSpec) []LaneSpec {
	if lanes == nil {
		return nil
	}
	out := make([]LaneSpec, len(lanes))
	for i, l := range lanes {
		out[i] = l
		if l.Size != nil {
			out[i].Size = Fixed(*l.Size)
		}
		if l.HeaderSize != nil {
			out[i].HeaderSize = Fixed(*l.HeaderSize)
		}
		out[i].Sublanes = cloneLanes(l.Sublanes)
	}
	return out
}

func cloneMilestones(ms []MilestoneSpec) []MilestoneSpec {
	if ms == nil {
		return nil
	}
	out := make([]MilestoneSpec, len(ms))
	for i, m := range ms {
		out[i] = m
		if m.Size != nil {
			out[i].Size = Fixed(*m.Size)
		}
	}
	return out
}
