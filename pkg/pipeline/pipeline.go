// Package pipeline turns pool documents into layouts and rendered
// artifacts. The CLI and the HTTP server both run documents through a
// [Runner], so either entry point yields the same geometry, the same files
// and the same cache entries.
//
// A run has two stages. Layout builds the pool and computes every rectangle;
// its result is cached under the document hash and the layout overrides.
// Render turns the layout into the requested formats; each artifact is
// cached under the layout hash and the options that affect that format.
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	result, err := runner.Execute(ctx, doc, pipeline.Options{
//	    Formats: []string{"svg", "json"},
//	    Style:   "striped",
//	})
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"io"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/poolkit/pkg/cache"
	"github.com/matzehuels/poolkit/pkg/diagram"
	"github.com/matzehuels/poolkit/pkg/errors"
	"github.com/matzehuels/poolkit/pkg/pool"
	"github.com/matzehuels/poolkit/pkg/render/svg"
)

// DefaultStyle is the style used when Options.Style is empty.
const DefaultStyle = svg.StylePlain

// Output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatJSON = "json"
	FormatDOT  = "dot"
	FormatTree = "tree" // lane tree drawn by Graphviz, as SVG
)

// formatKind groups formats by the options that change their output.
type formatKind int

const (
	kindData    formatKind = iota // no render options apply
	kindDrawing                   // style, labels and margin apply
	kindGraph                     // Detailed applies
)

var formats = []struct {
	name string
	ext  string
	kind formatKind
}{
	{FormatSVG, ".svg", kindDrawing},
	{FormatPNG, ".png", kindDrawing},
	{FormatPDF, ".pdf", kindDrawing},
	{FormatJSON, ".json", kindData},
	{FormatDOT, ".dot", kindGraph},
	{FormatTree, ".tree.svg", kindGraph},
}

var styles = []string{svg.StylePlain, svg.StyleStriped}

func lookupFormat(name string) (ext string, kind formatKind, ok bool) {
	for _, f := range formats {
		if f.name == name {
			return f.ext, f.kind, true
		}
	}
	return "", 0, false
}

// FormatNames lists the supported output formats.
func FormatNames() []string {
	names := make([]string, len(formats))
	for i, f := range formats {
		names[i] = f.name
	}
	return names
}

// IsFormat reports whether name is a supported output format. Names are
// case-sensitive.
func IsFormat(name string) bool {
	_, _, ok := lookupFormat(name)
	return ok
}

// Extension returns the file extension written for format, including the
// leading dot.
func Extension(format string) string {
	if ext, _, ok := lookupFormat(format); ok {
		return ext
	}
	return "." + format
}

// ValidateFormat returns an UNSUPPORTED error for an unknown format.
func ValidateFormat(format string) error {
	if !IsFormat(format) {
		return errors.New(errors.ErrCodeUnsupported, "unknown format %q (want one of %s)", format, strings.Join(FormatNames(), ", "))
	}
	return nil
}

// ValidateFormats checks every entry of list.
func ValidateFormats(list []string) error {
	for _, f := range list {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateStyle returns an UNSUPPORTED error for an unknown style.
func ValidateStyle(style string) error {
	if !slices.Contains(styles, style) {
		return errors.New(errors.ErrCodeUnsupported, "unknown style %q (want one of %s)", style, strings.Join(styles, ", "))
	}
	return nil
}

// Options configures a pipeline run. It is also the options object of the
// HTTP API.
type Options struct {
	// Width and Height override the document's pool size when positive.
	Width      float64 `json:"width,omitempty"`
	Height     float64 `json:"height,omitempty"`
	AutoResize bool    `json:"auto_resize,omitempty"`

	Formats  []string `json:"formats,omitempty"`
	Style    string   `json:"style,omitempty"`
	NoLabels bool     `json:"no_labels,omitempty"`
	Margin   float64  `json:"margin,omitempty"`
	Detailed bool     `json:"detailed,omitempty"` // sizes in lane tree labels

	// Refresh skips cache reads; results are still written.
	Refresh bool `json:"refresh,omitempty"`

	Logger *log.Logger `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// DocHash is the content hash of the input document.
	DocHash string

	// Layout contains every computed rectangle.
	Layout pool.Layout

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	LaneCount      int
	MilestoneCount int
	LayoutTime     time.Duration
	RenderTime     time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LayoutHit bool // Whether the layout came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// ValidateAndSetDefaults checks every field and fills in defaults. Calling
// it again has no further effect.
func (o *Options) ValidateAndSetDefaults() error {
	if err := o.ValidateForLayout(); err != nil {
		return err
	}
	return o.ValidateForRender()
}

// ValidateForLayout checks the layout overrides.
func (o *Options) ValidateForLayout() error {
	if o.Width < 0 || o.Height < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "size must not be negative (got %gx%g)", o.Width, o.Height)
	}
	o.setLogger()
	return nil
}

// SetRenderDefaults selects SVG and the default style when unset.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Style == "" {
		o.Style = DefaultStyle
	}
	o.setLogger()
}

// ValidateForRender fills in render defaults and checks the render fields.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	if o.Margin < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "margin must not be negative (got %g)", o.Margin)
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	return ValidateStyle(o.Style)
}

func (o *Options) setLogger() {
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// LayoutKeyOpts returns cache key options for layout computation.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{
		Width:      o.Width,
		Height:     o.Height,
		AutoResize: o.AutoResize,
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	opts := cache.ArtifactKeyOpts{Format: format}
	switch _, kind, _ := lookupFormat(format); kind {
	case kindDrawing:
		opts.Style = o.Style
		opts.Labels = !o.NoLabels
		opts.Margin = o.Margin
	case kindGraph:
		opts.Labels = o.Detailed
	}
	return opts
}

// Apply copies the layout overrides onto a document copy.
func (o *Options) Apply(doc *diagram.Document) *diagram.Document {
	out := *doc
	if o.Width > 0 {
		out.Width = o.Width
	}
	if o.Height > 0 {
		out.Height = o.Height
	}
	out.AutoResize = out.AutoResize || o.AutoResize
	out.Lanes = slices.Clone(doc.Lanes)
	out.Milestones = slices.Clone(doc.Milestones)
	return &out
}
