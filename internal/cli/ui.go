package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// stdout receives status output. Tests replace it.
var stdout io.Writer = os.Stdout

// Terminal palette (ANSI 256).
var (
	colorTeal  = lipgloss.Color("36")
	colorGreen = lipgloss.Color("35")
	colorAmber = lipgloss.Color("220")
	colorRed   = lipgloss.Color("167")
	colorBlue  = lipgloss.Color("75")
	colorWhite = lipgloss.Color("255")
	colorGray  = lipgloss.Color("245")
	colorDim   = lipgloss.Color("240")
)

// Exported styles are shared with the lane browser.
var (
	StyleTitle  = lipgloss.NewStyle().Bold(true).Foreground(colorTeal)
	StyleDim    = lipgloss.NewStyle().Foreground(colorDim)
	StyleValue  = lipgloss.NewStyle().Foreground(colorWhite)
	StyleNumber = lipgloss.NewStyle().Foreground(colorTeal)
	StyleFixed  = lipgloss.NewStyle().Foreground(colorAmber) // caller-fixed sizes

	styleIconSpinner = lipgloss.NewStyle().Foreground(colorTeal)
	styleKey         = lipgloss.NewStyle().Foreground(colorGray).Width(12)
	styleCommand     = lipgloss.NewStyle().Foreground(colorBlue)
)

// Status line markers.
var (
	markSuccess = lipgloss.NewStyle().Foreground(colorGreen).Render("✓")
	markError   = lipgloss.NewStyle().Foreground(colorRed).Render("✗")
	markInfo    = lipgloss.NewStyle().Foreground(colorGray).Render("›")
	markFile    = StyleDim.Render("→")
	markCached  = lipgloss.NewStyle().Foreground(colorGreen).Render("cached")
	markFresh   = lipgloss.NewStyle().Foreground(colorGray).Render("fresh")
)

func status(mark, format string, args []any) {
	fmt.Fprintln(stdout, mark+" "+fmt.Sprintf(format, args...))
}

func printSuccess(format string, args ...any) { status(markSuccess, format, args) }
func printError(format string, args ...any)   { status(markError, format, args) }
func printInfo(format string, args ...any)    { status(markInfo, format, args) }

// printDetail prints an indented dim line.
func printDetail(format string, args ...any) {
	fmt.Fprintln(stdout, "  "+StyleDim.Render(fmt.Sprintf(format, args...)))
}

func printFile(path string) {
	fmt.Fprintln(stdout, "  "+markFile+" "+StyleValue.Render(path))
}

// printKeyValue prints a labeled value to w.
func printKeyValue(w io.Writer, key, value string) {
	fmt.Fprintln(w, styleKey.Render(key)+" "+StyleValue.Render(value))
}

// printStats prints "N lanes · M milestones · cached" under a result.
func printStats(laneCount, milestoneCount int, cached bool) {
	parts := []string{StyleDim.Render(fmt.Sprintf("%d lanes", laneCount))}
	if milestoneCount > 0 {
		parts = append(parts, StyleDim.Render(fmt.Sprintf("%d milestones", milestoneCount)))
	}
	if cached {
		parts = append(parts, markCached)
	} else {
		parts = append(parts, markFresh)
	}
	fmt.Fprintln(stdout, "  "+strings.Join(parts, StyleDim.Render(" · ")))
}

// printNextStep prints a suggested next command.
func printNextStep(description, cmd string) {
	fmt.Fprintln(stdout, StyleDim.Render(description+":")+" "+styleCommand.Render(cmd))
}

func printNewline() {
	fmt.Fprintln(stdout)
}

// fmtNum formats a coordinate without trailing zeros.
func fmtNum(v float64) string {
	return strings.TrimSuffix(strings.TrimRight(fmt.Sprintf("%.2f", v), "0"), ".")
}
