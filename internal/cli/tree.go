package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/poolkit/pkg/pool"
)

var (
	tableHeaderStyle = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	tableBorderStyle = lipgloss.NewStyle().Foreground(colorDim)
	tableCellStyle   = lipgloss.NewStyle().PaddingRight(1)
)

// treeCommand prints the lane hierarchy with resolved sizes.
func (c *CLI) treeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:               "tree [pool.json]",
		Short:             "Print lanes and milestones with their resolved geometry",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completePoolFile,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, p, err := loadPool(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printTree(cmd.OutOrStdout(), p.Layout())
			return nil
		},
	}
	return cmd
}

// printTree writes the lane table and, when present, the milestone table.
func printTree(w io.Writer, l pool.Layout) {
	fmt.Fprintln(w, StyleTitle.Render("Lanes"))
	fmt.Fprintln(w, laneTable(l.Lanes).Render())

	if len(l.Milestones) == 0 {
		return
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, StyleTitle.Render("Milestones"))
	fmt.Fprintln(w, milestoneTable(l.Milestones).Render())
}

func laneTable(lanes []pool.LaneBox) *table.Table {
	rows := make([][]string, 0, len(lanes))
	for _, b := range lanes {
		rows = append(rows, []string{
			strings.Repeat("  ", b.Level) + laneName(b),
			b.ID,
			fmtNum(b.Rect.Y),
			fmtNum(b.Rect.Width),
			fmtNum(b.Rect.Height),
			fixedMark(b.Fixed),
		})
	}
	return newTable("Lane", "ID", "Y", "Width", "Height", "Fixed").Rows(rows...)
}

func milestoneTable(ms []pool.MilestoneBox) *table.Table {
	rows := make([][]string, 0, len(ms))
	for _, b := range ms {
		rows = append(rows, []string{
			b.Label,
			b.ID,
			fmtNum(b.Rect.X),
			fmtNum(b.Rect.Width),
			fixedMark(b.Fixed),
		})
	}
	return newTable("Milestone", "ID", "X", "Width", "Fixed").Rows(rows...)
}

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(tableBorderStyle).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return tableHeaderStyle
			}
			return tableCellStyle
		})
}

// laneName is the label, or the id for unlabeled lanes.
func laneName(b pool.LaneBox) string {
	if b.Label != "" {
		return b.Label
	}
	return StyleDim.Render("(" + b.PositionalID + ")")
}

func fixedMark(fixed bool) string {
	if fixed {
		return StyleFixed.Render("✓")
	}
	return ""
}
