package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/poolkit/pkg/buildinfo"
	"github.com/matzehuels/poolkit/pkg/cache"
	"github.com/matzehuels/poolkit/pkg/diagram"
	"github.com/matzehuels/poolkit/pkg/pipeline"
	"github.com/matzehuels/poolkit/pkg/pool"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "poolkit"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Poolkit lays out swimlane pools with lanes and milestones",
		Long: `Poolkit computes the geometry of swimlane pools: nested lanes stacked
vertically with headers on the left, and milestone columns across the top.

Pools are described in JSON or TOML documents.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.queryCommand())
	root.AddCommand(c.pathCommand())
	root.AddCommand(c.treeCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.convertCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(noCache bool) (*pipeline.Runner, error) {
	cc, err := newCache(noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(cc, nil, c.Logger), nil
}

func newCache(noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	dir, err := cache.DefaultDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Input Helpers
// =============================================================================

// loadPool reads a document and builds its pool.
func loadPool(ctx context.Context, path string) (*diagram.Document, *pool.Pool, error) {
	logger := loggerFromContext(ctx)

	doc, err := diagram.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}
	p, err := doc.Pool()
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}
	logger.Debugf("Loaded %s: %d lanes, %d milestones", path, p.Registry().LaneCount(), p.Registry().MilestoneCount())
	return doc, p, nil
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, strings.ToLower(f))
		}
	}
	return out
}

// parsePoint parses "x,y".
func parsePoint(s string) (pool.Point, error) {
	xs, ys, ok := strings.Cut(s, ",")
	if !ok {
		return pool.Point{}, fmt.Errorf("invalid point %q (want x,y)", s)
	}
	x, err := strconv.ParseFloat(strings.TrimSpace(xs), 64)
	if err != nil {
		return pool.Point{}, fmt.Errorf("invalid x in %q: %w", s, err)
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(ys), 64)
	if err != nil {
		return pool.Point{}, fmt.Errorf("invalid y in %q: %w", s, err)
	}
	return pool.Point{X: x, Y: y}, nil
}
