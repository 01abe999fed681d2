// Package svg renders a computed pool layout as SVG.
//
// # Usage
//
//	l := p.Layout()
//	data := svg.RenderSVG(l, svg.WithStyle(svg.Striped{}), svg.WithMargin(10))
//
// Lanes are drawn in pre-order so that sublanes paint over their parents.
// Each lane with a label gets a header strip on its left edge with the label
// rotated to read bottom-up. Milestones are drawn as columns behind the lanes
// with their labels in the strip above.
//
// A rotated pool is emitted as one group with a rotate transform about the
// pool's center; the viewBox covers the rotated outline.
//
// # Styles
//
// [Plain] draws thin outlines on white. [Striped] alternates the fill of
// sibling lanes. Custom styles implement [Style].
//
// # Element IDs
//
// Lanes are emitted with id="lane-<id>" and milestones with
// id="milestone-<id>", using the public id, so editors can attach handlers
// to the generated document.
package svg
