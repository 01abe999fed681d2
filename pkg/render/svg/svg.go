package svg

import (
	"bytes"
	"fmt"
	"math"

	"github.com/matzehuels/poolkit/pkg/pool"
)

// SVGOption configures RenderSVG.
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	style  Style
	labels bool
	margin float64
}

// WithStyle sets the visual style. The default is [Plain].
func WithStyle(s Style) SVGOption { return func(r *svgRenderer) { r.style = s } }

// WithoutLabels omits lane and milestone label text.
func WithoutLabels() SVGOption { return func(r *svgRenderer) { r.labels = false } }

// WithMargin adds space around the pool.
func WithMargin(m float64) SVGOption { return func(r *svgRenderer) { r.margin = max(0, m) } }

func newSVGRenderer(opts ...SVGOption) svgRenderer {
	r := svgRenderer{style: Plain{}, labels: true}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

// RenderSVG draws the layout as a standalone SVG document.
func RenderSVG(l pool.Layout, opts ...SVGOption) []byte {
	r := newSVGRenderer(opts...)

	vb := viewBox(l.Bounds, l.Angle, r.margin)

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="%.2f %.2f %.2f %.2f" width="%.0f" height="%.0f">`+"\n",
		vb.X, vb.Y, vb.Width, vb.Height, vb.Width, vb.Height)
	r.style.RenderDefs(&buf)

	if l.Angle != 0 {
		c := l.Bounds.Center()
		fmt.Fprintf(&buf, `<g transform="rotate(%g %.2f %.2f)">`+"\n", l.Angle, c.X, c.Y)
	} else {
		buf.WriteString("<g>\n")
	}

	r.style.RenderPool(&buf, shapeOf(l.Bounds))
	renderMilestones(&buf, &r, l.Milestones)
	renderLanes(&buf, &r, l.Lanes)

	buf.WriteString("</g>\n</svg>\n")
	return buf.Bytes()
}

func renderMilestones(buf *bytes.Buffer, r *svgRenderer, ms []pool.MilestoneBox) {
	for i, m := range ms {
		s := shapeOf(m.Rect)
		s.ID, s.Label, s.Index, s.Fixed = m.ID, m.Label, i, m.Fixed
		r.style.RenderMilestone(buf, s)
		if r.labels && m.LabelRect != nil {
			cell := shapeOf(*m.LabelRect)
			cell.Label = m.Label
			stripText(buf, cell)
		}
	}
}

func renderLanes(buf *bytes.Buffer, r *svgRenderer, lanes []pool.LaneBox) {
	for _, b := range lanes {
		s := shapeOf(b.Rect)
		s.ID, s.Label, s.Level, s.Fixed = b.ID, b.Label, b.Level, b.Fixed
		if len(b.Path) > 0 {
			s.Index = b.Path[len(b.Path)-1].Index
		}
		r.style.RenderLane(buf, s)

		if b.LabelRect == nil {
			continue
		}
		h := shapeOf(*b.LabelRect)
		h.ID, h.Label, h.Level, h.Index = b.ID, b.Label, b.Level, s.Index
		r.style.RenderHeader(buf, h)
		if r.labels {
			headerText(buf, h)
		}
	}
}

func shapeOf(r pool.Rect) Shape {
	return Shape{X: r.X, Y: r.Y, W: r.Width, H: r.Height}
}

// viewBox returns the axis-aligned box around the pool rotated by angle
// degrees about its center, grown by margin on every side.
func viewBox(b pool.Rect, angle, margin float64) pool.Rect {
	out := b
	if angle != 0 {
		c := b.Center()
		sin, cos := math.Sincos(angle * math.Pi / 180)
		w := math.Abs(b.Width*cos) + math.Abs(b.Height*sin)
		h := math.Abs(b.Width*sin) + math.Abs(b.Height*cos)
		out = pool.Rect{X: c.X - w/2, Y: c.Y - h/2, Width: w, Height: h}
	}
	out.X -= margin
	out.Y -= margin
	out.Width += 2 * margin
	out.Height += 2 * margin
	return out
}
