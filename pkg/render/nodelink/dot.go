package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/poolkit/pkg/pool"
)

// rootID names the pool node. Lane ids cannot contain spaces, so it never
// clashes with a lane.
const rootID = "pool root"

// Options configures lane tree rendering.
type Options struct {
	// Detailed adds computed sizes to node labels.
	Detailed bool
}

const graphHeader = `digraph G {
  rankdir=LR;
  bgcolor="transparent";
  node [shape=box, style="rounded,filled", fillcolor=white, fontsize=14, margin="0.2,0.1"];
  ranksep=0.4;
  nodesep=0.2;
`

// dotWriter emits DOT statements with a fixed indent.
type dotWriter struct {
	buf    bytes.Buffer
	indent string
}

func (w *dotWriter) line(format string, args ...any) {
	w.buf.WriteString(w.indent)
	fmt.Fprintf(&w.buf, format, args...)
	w.buf.WriteByte('\n')
}

func (w *dotWriter) node(id string, attrs ...string) {
	w.line("%q [%s];", id, strings.Join(attrs, ", "))
}

func attr(key, value string) string { return key + "=" + strconv.Quote(value) }

// ToDOT converts the lane hierarchy of a layout to Graphviz DOT. The pool
// is the root, every lane points from its parent, and milestones form a
// separate cluster. Fixed lanes are drawn with a bold outline.
func ToDOT(l pool.Layout, opts Options) string {
	w := &dotWriter{indent: "  "}
	w.buf.WriteString(graphHeader)
	w.buf.WriteByte('\n')

	root := "pool"
	if opts.Detailed {
		root += fmt.Sprintf("\n%gx%g", l.Bounds.Width, l.Bounds.Height)
	}
	w.node(rootID, attr("label", root), "shape=folder", "fillcolor=lightgrey")

	for _, b := range l.Lanes {
		attrs := []string{attr("label", laneLabel(b, opts.Detailed))}
		if b.Fixed {
			attrs = append(attrs, "penwidth=2")
		}
		w.node(b.ID, attrs...)
	}
	w.buf.WriteByte('\n')
	for _, b := range l.Lanes {
		parent := b.ParentID
		if parent == "" {
			parent = rootID
		}
		w.line("%q -> %q;", parent, b.ID)
	}

	if len(l.Milestones) > 0 {
		w.buf.WriteByte('\n')
		w.line("subgraph cluster_milestones {")
		w.indent = "    "
		w.line(`label="milestones";`)
		w.line("style=dashed;")
		for _, m := range l.Milestones {
			label := m.Label
			if label == "" {
				label = m.ID
			}
			if opts.Detailed {
				label += "\n" + sizeText(m.Rect.Width, m.Fixed)
			}
			w.node("milestone:"+m.ID, attr("label", label), "shape=ellipse")
		}
		w.indent = "  "
		w.line("}")
	}

	w.buf.WriteString("}\n")
	return w.buf.String()
}

// laneLabel shows the label with the id below it when they differ.
func laneLabel(b pool.LaneBox, detailed bool) string {
	label := b.ID
	if b.Label != "" && b.Label != b.ID {
		label = b.Label + "\n(" + b.ID + ")"
	}
	if detailed {
		label += "\n" + sizeText(b.Rect.Height, b.Fixed)
	}
	return label
}

func sizeText(v float64, fixed bool) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if fixed {
		s += " fixed"
	}
	return s
}

// RenderSVG lays out a DOT graph with the embedded Graphviz and returns SVG
// sized in pixels.
func RenderSVG(dot string) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("start graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse lane tree: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render lane tree: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var rootTagRe = regexp.MustCompile(`<svg[^>]*viewBox="[0-9.]+\s+[0-9.]+\s+([0-9.]+)\s+([0-9.]+)"[^>]*>`)

// normalizeViewBox replaces the point-sized root tag Graphviz writes with a
// pixel-sized one over the same viewBox.
func normalizeViewBox(svg []byte) []byte {
	m := rootTagRe.FindSubmatchIndex(svg)
	if m == nil {
		return svg
	}
	w, _ := strconv.ParseFloat(string(svg[m[2]:m[3]]), 64)
	h, _ := strconv.ParseFloat(string(svg[m[4]:m[5]]), 64)
	if w == 0 || h == 0 {
		return svg
	}
	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`, w, h, w, h)

	out := make([]byte, 0, len(svg))
	out = append(out, svg[:m[0]]...)
	out = append(out, tag...)
	return append(out, svg[m[1]:]...)
}
