package svg

import (
	"bytes"
	"fmt"
)

// Style controls how pool elements are drawn.
type Style interface {
	// RenderDefs writes SVG <defs> content.
	RenderDefs(buf *bytes.Buffer)
	// RenderPool writes the pool outline.
	RenderPool(buf *bytes.Buffer, s Shape)
	// RenderLane writes the body of a lane.
	RenderLane(buf *bytes.Buffer, s Shape)
	// RenderHeader writes a lane's header strip.
	RenderHeader(buf *bytes.Buffer, s Shape)
	// RenderMilestone writes a milestone column.
	RenderMilestone(buf *bytes.Buffer, s Shape)
}

// Shape is one element ready to be drawn.
type Shape struct {
	ID         string
	Label      string
	X, Y, W, H float64
	Level      int // nesting level, 0 for top-level lanes
	Index      int // position among siblings
	Fixed      bool
}

// Style names accepted by [StyleByName].
const (
	StylePlain   = "plain"
	StyleStriped = "striped"
)

// StyleByName returns the style registered under name.
func StyleByName(name string) (Style, error) {
	switch name {
	case "", StylePlain:
		return Plain{}, nil
	case StyleStriped:
		return Striped{}, nil
	default:
		return nil, fmt.Errorf("unknown style %q (must be one of: plain, striped)", name)
	}
}

// Plain draws black outlines on white.
type Plain struct{}

func (Plain) RenderDefs(*bytes.Buffer) {}

func (Plain) RenderPool(buf *bytes.Buffer, s Shape) {
	rect(buf, "pool", "", s, "white", "#222", 2)
}

func (Plain) RenderLane(buf *bytes.Buffer, s Shape) {
	rect(buf, "lane", "lane-"+s.ID, s, "none", "#444", 1)
}

func (Plain) RenderHeader(buf *bytes.Buffer, s Shape) {
	rect(buf, "lane-header", "", s, "#f4f4f4", "#444", 1)
}

func (Plain) RenderMilestone(buf *bytes.Buffer, s Shape) {
	rect(buf, "milestone", "milestone-"+s.ID, s, "none", "#bbb", 1)
}

// Striped alternates the fill of sibling lanes and shades milestone columns.
type Striped struct{}

var stripes = [...]string{"#ffffff", "#eef3fb"}

func (Striped) RenderDefs(buf *bytes.Buffer) {
	buf.WriteString(`  <defs>
    <pattern id="fixed-hatch" width="6" height="6" patternUnits="userSpaceOnUse" patternTransform="rotate(45)">
      <line x1="0" y1="0" x2="0" y2="6" stroke="#d8e0ec" stroke-width="1"/>
    </pattern>
  </defs>
`)
}

func (Striped) RenderPool(buf *bytes.Buffer, s Shape) {
	rect(buf, "pool", "", s, "white", "#1d3557", 2)
}

func (Striped) RenderLane(buf *bytes.Buffer, s Shape) {
	fill := stripes[(s.Index+s.Level)%len(stripes)]
	rect(buf, "lane", "lane-"+s.ID, s, fill, "#457b9d", 1)
	if s.Fixed {
		rect(buf, "lane-fixed", "", s, "url(#fixed-hatch)", "none", 0)
	}
}

func (Striped) RenderHeader(buf *bytes.Buffer, s Shape) {
	rect(buf, "lane-header", "", s, "#a8dadc", "#457b9d", 1)
}

func (Striped) RenderMilestone(buf *bytes.Buffer, s Shape) {
	fill := "none"
	if s.Index%2 == 1 {
		fill = "#f7f7f2"
	}
	rect(buf, "milestone", "milestone-"+s.ID, s, fill, "#c9c9c9", 1)
}

func rect(buf *bytes.Buffer, class, id string, s Shape, fill, stroke string, width float64) {
	buf.WriteString(`  <rect`)
	if id != "" {
		fmt.Fprintf(buf, ` id="%s"`, EscapeXML(id))
	}
	fmt.Fprintf(buf, ` class="%s" x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="%s" stroke="%s" stroke-width="%.1f"/>`+"\n",
		class, s.X, s.Y, s.W, s.H, fill, stroke, width)
}
