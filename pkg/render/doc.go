// Package render turns computed pool layouts into visual outputs.
//
// # Overview
//
// This package provides:
//
//   - Generic format conversion (SVG to PDF/PNG)
//   - Pool diagrams (in the [svg] subpackage)
//   - Lane tree diagrams (in the [nodelink] subpackage)
//
// # Format Conversion
//
// The [ToPDF] and [ToPNG] functions convert any SVG to other formats using
// the external rsvg-convert tool (from librsvg):
//
//	data := svg.RenderSVG(layout)
//	pdf, err := render.ToPDF(data)
//	png, err := render.ToPNG(data, 2.0) // 2x scale
//
// # Lane Trees
//
// The [nodelink] subpackage renders the lane hierarchy as a directed tree
// using Graphviz, which is handy when reviewing deeply nested pools.
//
// [svg]: github.com/matzehuels/poolkit/pkg/render/svg
// [nodelink]: github.com/matzehuels/poolkit/pkg/render/nodelink
package render
