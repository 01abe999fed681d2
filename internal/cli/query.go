package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/poolkit/pkg/errors"
	"github.com/matzehuels/poolkit/pkg/pool"
)

// queryCommand creates the query command group for geometry lookups.
func (c *CLI) queryCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "query",
		Short: "Look up lane and milestone geometry",
	}

	cmd.AddCommand(c.queryHitCommand())
	cmd.AddCommand(c.queryLaneCommand())
	cmd.AddCommand(c.queryMilestoneCommand())

	return cmd
}

// hitResult is the --json output of "query hit".
type hitResult struct {
	Point     pool.Point `json:"point"`
	Lanes     []string   `json:"lanes"`
	Milestone string     `json:"milestone,omitempty"`
}

func (c *CLI) queryHitCommand() *cobra.Command {
	var (
		at     string
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "hit [pool.json] --at x,y",
		Short: "List the lanes and milestone under a point",
		Long: `List the lanes and milestone under an absolute point.

Lanes are printed from the innermost outwards. The point is rotated back
by the pool angle before testing.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completePoolFile,
		RunE: func(cmd *cobra.Command, args []string) error {
			pt, err := parsePoint(at)
			if err != nil {
				return err
			}
			_, p, err := loadPool(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			res := hitResult{Point: pt, Lanes: p.LanesFromPoint(pt)}
			if res.Lanes == nil {
				res.Lanes = []string{}
			}
			res.Milestone, _ = p.MilestoneFromPoint(pt)

			out := cmd.OutOrStdout()
			if asJSON {
				return writeJSON(out, res)
			}
			if len(res.Lanes) == 0 && res.Milestone == "" {
				fmt.Fprintf(out, "nothing at %s,%s\n", fmtNum(pt.X), fmtNum(pt.Y))
				return nil
			}
			printKeyValue(out, "lanes", strings.Join(res.Lanes, " < "))
			printKeyValue(out, "milestone", res.Milestone)
			return nil
		},
	}

	cmd.Flags().StringVar(&at, "at", "", "absolute point as x,y")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	_ = cmd.MarkFlagRequired("at")

	return cmd
}

// laneResult is the --json output of "query lane".
type laneResult struct {
	pool.LaneBox
	Position pool.Point `json:"position"`
	Width    float64    `json:"width"`
	Height   float64    `json:"height"`
}

func (c *CLI) queryLaneCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:               "lane [pool.json] [id]",
		Short:             "Show the geometry of one lane",
		Args:              cobra.ExactArgs(2),
		ValidArgsFunction: completePoolFile,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, p, err := loadPool(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			id := args[1]
			box, ok := p.Layout().Lane(id)
			if !ok {
				return errors.New(errors.ErrCodeNotFound, "unknown lane %q", id)
			}
			res := laneResult{LaneBox: box}
			res.Position, _ = p.LanePosition(id)
			res.Width, _ = p.LaneWidth(id)
			res.Height, _ = p.LaneHeight(id)

			out := cmd.OutOrStdout()
			if asJSON {
				return writeJSON(out, res)
			}
			printKeyValue(out, "id", box.ID)
			printKeyValue(out, "positional", box.PositionalID)
			if box.ParentID != "" {
				printKeyValue(out, "parent", box.ParentID)
			}
			printKeyValue(out, "path", box.Path.String())
			printKeyValue(out, "position", fmtPoint(res.Position))
			printKeyValue(out, "size", fmtSize(res.Width, res.Height, box.Fixed))
			printKeyValue(out, "bbox", fmtRect(box.Rect))
			if box.LabelRect != nil {
				printKeyValue(out, "header", fmtRect(*box.LabelRect))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}

// milestoneResult is the --json output of "query milestone".
type milestoneResult struct {
	pool.MilestoneBox
	Position pool.Point `json:"position"`
	Width    float64    `json:"width"`
	Height   float64    `json:"height"`
}

func (c *CLI) queryMilestoneCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:               "milestone [pool.json] [id]",
		Short:             "Show the geometry of one milestone",
		Args:              cobra.ExactArgs(2),
		ValidArgsFunction: completePoolFile,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, p, err := loadPool(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			id := args[1]
			box, ok := p.Layout().Milestone(id)
			if !ok {
				return errors.New(errors.ErrCodeNotFound, "unknown milestone %q", id)
			}
			res := milestoneResult{MilestoneBox: box}
			res.Position, _ = p.MilestonePosition(id)
			res.Width, _ = p.MilestoneWidth(id)
			res.Height, _ = p.MilestoneHeight(id)

			out := cmd.OutOrStdout()
			if asJSON {
				return writeJSON(out, res)
			}
			printKeyValue(out, "id", box.ID)
			printKeyValue(out, "positional", box.PositionalID)
			printKeyValue(out, "position", fmtPoint(res.Position))
			printKeyValue(out, "size", fmtSize(res.Width, res.Height, box.Fixed))
			printKeyValue(out, "bbox", fmtRect(box.Rect))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}

// pathCommand resolves a lane id back into the document's lane tree.
func (c *CLI) pathCommand() *cobra.Command {
	var (
		asJSON  bool
		resolve bool
	)

	cmd := &cobra.Command{
		Use:   "path [pool.json] [lane-id]",
		Short: "Print where a lane is declared in the document",
		Long: `Print where a lane is declared in the document, as a path such as
lanes/1/sublanes/0. With --resolve the declaration itself is printed.`,
		Args:              cobra.ExactArgs(2),
		ValidArgsFunction: completePoolFile,
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, p, err := loadPool(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			id := args[1]
			path, ok := p.LanePath(id)
			if !ok {
				return errors.New(errors.ErrCodeNotFound, "unknown lane %q", id)
			}

			out := cmd.OutOrStdout()
			switch {
			case resolve:
				spec, ok := path.Resolve(doc.Lanes)
				if !ok {
					return errors.New(errors.ErrCodeInternal, "path %s does not resolve", path)
				}
				return writeJSON(out, spec)
			case asJSON:
				return writeJSON(out, path)
			default:
				fmt.Fprintln(out, path.String())
				return nil
			}
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the path as a JSON array")
	cmd.Flags().BoolVar(&resolve, "resolve", false, "print the lane declaration")
	return cmd
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func fmtPoint(p pool.Point) string {
	return fmtNum(p.X) + "," + fmtNum(p.Y)
}

func fmtRect(r pool.Rect) string {
	return fmt.Sprintf("%s,%s %s×%s", fmtNum(r.X), fmtNum(r.Y), fmtNum(r.Width), fmtNum(r.Height))
}

func fmtSize(w, h float64, fixed bool) string {
	s := fmtNum(w) + "×" + fmtNum(h)
	if fixed {
		s += " " + StyleFixed.Render("fixed")
	}
	return s
}
