package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/poolkit/pkg/diagram"
	"github.com/matzehuels/poolkit/pkg/pipeline"
)

// layoutCommand creates the layout command for computing pool layouts.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output  string
		noCache bool
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "layout [pool.json|pool.toml]",
		Short: "Compute the layout of a pool document",
		Long: `Compute the layout of a pool document.

The layout command reads a pool document and writes every lane and milestone
rectangle as a layout.json file (same format as 'render -f json').

Results are cached locally for faster subsequent runs.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completePoolFile,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLayout(cmd.Context(), args[0], opts, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.layout.json)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	addLayoutFlags(cmd, &opts)

	return cmd
}

// addLayoutFlags registers the flags shared by commands that compute layouts.
func addLayoutFlags(cmd *cobra.Command, opts *pipeline.Options) {
	cmd.Flags().Float64Var(&opts.Width, "width", 0, "pool width (overrides the document)")
	cmd.Flags().Float64Var(&opts.Height, "height", 0, "pool height (overrides the document)")
	cmd.Flags().BoolVar(&opts.AutoResize, "auto-resize", false, "grow the pool to fit its content")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "ignore cached results")
}

// runLayout loads the document, computes the layout, and writes output.
func (c *CLI) runLayout(ctx context.Context, input string, opts pipeline.Options, output string, noCache bool) error {
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

	spinner := newSpinnerWithContext(ctx, "Computing layout...")
	spinner.Start()

	layout, cacheHit, err := runner.GenerateLayoutWithCacheInfo(ctx, doc, opts)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return fmt.Errorf("compute layout: %w", err)
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	outputPath := output
	if outputPath == "" {
		outputPath = strings.TrimSuffix(input, filepath.Ext(input)) + ".layout.json"
	}
	if err := diagram.WriteLayoutFile(outputPath, layout); err != nil {
		return err
	}

	printSuccess("Layout complete")
	printFile(outputPath)
	printStats(len(layout.Lanes), len(layout.Milestones), cacheHit)
	printNewline()
	printNextStep("Render", appName+" render "+input)

	return nil
}
