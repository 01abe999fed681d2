package pipeline

import (
	"fmt"

	"github.com/matzehuels/poolkit/pkg/diagram"
	"github.com/matzehuels/poolkit/pkg/pool"
	"github.com/matzehuels/poolkit/pkg/render"
	"github.com/matzehuels/poolkit/pkg/render/nodelink"
	"github.com/matzehuels/poolkit/pkg/render/svg"
)

// pngScale is the raster scale used for PNG output.
const pngScale = 2.0

// Render generates output artifacts in the requested formats.
func Render(l pool.Layout, opts Options) (map[string][]byte, error) {
	svgOpts, err := buildSVGOptions(opts)
	if err != nil {
		return nil, err
	}
	treeOpts := nodelink.Options{Detailed: opts.Detailed}

	// SVG output is shared by the raster formats.
	var drawn []byte
	drawing := func() []byte {
		if drawn == nil {
			drawn = svg.RenderSVG(l, svgOpts...)
		}
		return drawn
	}

	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatSVG:
			data = drawing()
		case FormatPNG:
			data, err = render.ToPNG(drawing(), pngScale)
		case FormatPDF:
			data, err = render.ToPDF(drawing())
		case FormatJSON:
			data, err = diagram.MarshalLayout(l)
		case FormatDOT:
			data = []byte(nodelink.ToDOT(l, treeOpts))
		case FormatTree:
			data, err = nodelink.RenderSVG(nodelink.ToDOT(l, treeOpts))
		default:
			return nil, fmt.Errorf("unsupported format: %s", format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

// buildSVGOptions builds SVG rendering options.
func buildSVGOptions(opts Options) ([]svg.SVGOption, error) {
	name := opts.Style
	if name == "" {
		name = DefaultStyle
	}
	style, err := svg.StyleByName(name)
	if err != nil {
		return nil, err
	}

	svgOpts := []svg.SVGOption{svg.WithStyle(style)}
	if opts.NoLabels {
		svgOpts = append(svgOpts, svg.WithoutLabels())
	}
	if opts.Margin > 0 {
		svgOpts = append(svgOpts, svg.WithMargin(opts.Margin))
	}
	return svgOpts, nil
}

// RenderFromLayoutData renders output from serialized layout data.
// This is useful when the layout was computed elsewhere (e.g., cached).
func RenderFromLayoutData(layoutData []byte, opts Options) (map[string][]byte, error) {
	l, err := diagram.UnmarshalLayout(layoutData)
	if err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}
	return Render(l, opts)
}
