// Package nodelink draws the lane hierarchy of a pool as a tree.
//
// Pool diagrams show where lanes are; lane trees show how they nest. The
// pool is the root, each lane hangs off its parent and milestones sit in a
// cluster of their own. With Options.Detailed every node also shows its
// computed size and whether that size is fixed.
//
//	dot := nodelink.ToDOT(p.Layout(), nodelink.Options{Detailed: true})
//	svg, err := nodelink.RenderSVG(dot)
//
// Rendering runs Graphviz in-process through github.com/goccy/go-graphviz.
package nodelink
