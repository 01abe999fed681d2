package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/poolkit/pkg/diagram"
	"github.com/matzehuels/poolkit/pkg/pipeline"
)

// renderCommand creates the render command for generating pool drawings.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		output     string
		formatsStr string
		noCache    bool
		fromLayout bool
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "render [pool.json|pool.toml|layout.json]",
		Short: "Render a pool to SVG, PNG, PDF, DOT or a lane tree",
		Long: `Render a pool to one or more output formats.

Formats:
  svg   pool drawing (default)
  png   pool drawing, rasterized (needs rsvg-convert)
  pdf   pool drawing as PDF (needs rsvg-convert)
  json  computed layout
  dot   lane hierarchy in Graphviz DOT
  tree  lane hierarchy rendered by Graphviz, as SVG

With --layout the input is a layout.json written by 'layout', and no layout
is computed.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completePoolFile,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Formats = parseFormats(formatsStr)
			if err := opts.ValidateAndSetDefaults(); err != nil {
				return err
			}
			if fromLayout {
				return c.runRenderLayout(cmd.Context(), args[0], opts, output)
			}
			return c.runRender(cmd.Context(), args[0], opts, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), png, pdf, json, dot, tree (comma-separated)")
	cmd.Flags().StringVar(&opts.Style, "style", pipeline.DefaultStyle, "visual style: plain (default), striped")
	cmd.Flags().BoolVar(&opts.NoLabels, "no-labels", false, "omit lane and milestone labels")
	cmd.Flags().Float64Var(&opts.Margin, "margin", 0, "blank margin around the drawing")
	cmd.Flags().BoolVar(&opts.Detailed, "detailed", false, "show sizes in the lane tree (dot, tree)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&fromLayout, "layout", false, "input is a layout.json file")
	addLayoutFlags(cmd, &opts)

	return cmd
}

// runRender computes the layout and writes every requested format.
func (c *CLI) runRender(ctx context.Context, input string, opts pipeline.Options, output string, noCache bool) error {
	doc, err := diagram.ReadFile(input)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.Logger = c.Logger
	done := startTimer(c.Logger)

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Rendering %s...", strings.Join(opts.Formats, ", ")))
	spinner.Start()

	result, err := runner.Execute(ctx, doc, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return err
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	paths, err := writeArtifacts(result.Artifacts, opts.Formats, input, output)
	if err != nil {
		return err
	}
	done("Rendered artifacts", "count", len(paths))

	printSuccess("Render complete")
	for _, p := range paths {
		printFile(p)
	}
	printStats(result.Stats.LaneCount, result.Stats.MilestoneCount, result.CacheInfo.LayoutHit && result.CacheInfo.RenderHit)
	return nil
}

// runRenderLayout renders a precomputed layout file.
func (c *CLI) runRenderLayout(ctx context.Context, input string, opts pipeline.Options, output string) error {
	logger := loggerFromContext(ctx)

	data, err := os.ReadFile(input)
	if err != nil {
		return fmt.Errorf("read layout %s: %w", input, err)
	}
	artifacts, err := pipeline.RenderFromLayoutData(data, opts)
	if err != nil {
		return err
	}
	logger.Debugf("Rendered %d artifacts from %s", len(artifacts), input)

	name := input
	if base, ok := strings.CutSuffix(input, ".layout.json"); ok {
		name = base + ".json"
	}
	paths, err := writeArtifacts(artifacts, opts.Formats, name, output)
	if err != nil {
		return err
	}
	printSuccess("Render complete")
	for _, p := range paths {
		printFile(p)
	}
	return nil
}

// writeArtifacts writes each artifact next to the input or at output.
func writeArtifacts(artifacts map[string][]byte, formats []string, input, output string) ([]string, error) {
	paths := make([]string, 0, len(formats))
	for _, f := range formats {
		path := outputPath(f, len(formats), input, output)
		if err := os.WriteFile(path, artifacts[f], 0o644); err != nil {
			return paths, fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// outputPath picks the file name for one format. A single format is written
// to output verbatim; several formats share output as a base path.
func outputPath(format string, count int, input, output string) string {
	if output != "" && count == 1 {
		return output
	}
	return basePath(output, input) + pipeline.Extension(format)
}

// basePath derives the base output path from the output and input file paths.
// Known format extensions are stripped from output.
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if pipeline.IsFormat(strings.TrimPrefix(ext, ".")) {
		return strings.TrimSuffix(output, ext)
	}
	return output
}
