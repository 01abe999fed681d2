package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/poolkit/pkg/pool"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorTeal)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
	detailBoxStyle    = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(colorDim).
				Padding(0, 1)
)

// inspectCommand opens an interactive lane browser.
func (c *CLI) inspectCommand() *cobra.Command {
	return &cobra.Command{
		Use:               "inspect [pool.json]",
		Short:             "Browse lanes interactively",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completePoolFile,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, p, err := loadPool(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			prog := tea.NewProgram(NewLaneBrowser(p), tea.WithContext(cmd.Context()), tea.WithOutput(cmd.OutOrStdout()))
			_, err = prog.Run()
			return err
		},
	}
}

// =============================================================================
// LaneBrowser - Interactive lane list with geometry details
// =============================================================================

// LaneBrowser is the bubbletea model behind "poolkit inspect".
type LaneBrowser struct {
	Pool   *pool.Pool
	Lanes  []pool.LaneBox
	Cursor int
	Height int
	Offset int
}

// NewLaneBrowser creates a browser over the lanes of p.
func NewLaneBrowser(p *pool.Pool) LaneBrowser {
	return LaneBrowser{
		Pool:   p,
		Lanes:  p.Layout().Lanes,
		Height: 15,
	}
}

func (m LaneBrowser) Init() tea.Cmd {
	return nil
}

func (m LaneBrowser) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			m.move(-1)
		case "down", "j":
			m.move(1)
		case "home", "g":
			m.move(-len(m.Lanes))
		case "end", "G":
			m.move(len(m.Lanes))
		case "p":
			m.toParent()
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-12, 5)
		m.scroll()
	}
	return m, nil
}

func (m *LaneBrowser) move(delta int) {
	if len(m.Lanes) == 0 {
		return
	}
	m.Cursor = min(max(m.Cursor+delta, 0), len(m.Lanes)-1)
	m.scroll()
}

// toParent jumps to the parent of the selected lane.
func (m *LaneBrowser) toParent() {
	if len(m.Lanes) == 0 {
		return
	}
	parent := m.Lanes[m.Cursor].ParentID
	if parent == "" {
		return
	}
	for i, b := range m.Lanes {
		if b.ID == parent {
			m.Cursor = i
			m.scroll()
			return
		}
	}
}

func (m *LaneBrowser) scroll() {
	if m.Cursor < m.Offset {
		m.Offset = m.Cursor
	}
	if m.Cursor >= m.Offset+m.Height {
		m.Offset = m.Cursor - m.Height + 1
	}
}

// Selected returns the lane under the cursor.
func (m LaneBrowser) Selected() (pool.LaneBox, bool) {
	if len(m.Lanes) == 0 {
		return pool.LaneBox{}, false
	}
	return m.Lanes[m.Cursor], true
}

func (m LaneBrowser) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Lanes"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  p parent  q quit"))
	b.WriteString("\n\n")

	if len(m.Lanes) == 0 {
		b.WriteString(listDimStyle.Render("  no lanes"))
		b.WriteString("\n")
		return b.String()
	}

	end := min(m.Offset+m.Height, len(m.Lanes))
	for i := m.Offset; i < end; i++ {
		lane := m.Lanes[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		line := cursor + strings.Repeat("  ", lane.Level) + laneName(lane)
		if i == m.Cursor {
			b.WriteString(listSelectedStyle.Render(line))
		} else {
			b.WriteString(listNormalStyle.Render(line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(detailBoxStyle.Render(m.details()))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Lanes))))

	return b.String()
}

// details renders the geometry of the selected lane.
func (m LaneBrowser) details() string {
	lane, _ := m.Selected()
	var b strings.Builder
	row := func(key, value string) {
		printKeyValue(&b, key, value)
	}

	row("id", lane.ID)
	row("path", lane.Path.String())
	if lane.ParentID != "" {
		row("parent", lane.ParentID)
	}
	row("bbox", fmtRect(lane.Rect))
	if lane.LabelRect != nil {
		row("header", fmtRect(*lane.LabelRect))
	}
	row("size", fmtSize(lane.Rect.Width, lane.Rect.Height, lane.Fixed))
	if m.Pool != nil {
		if pos, ok := m.Pool.LanePosition(lane.ID); ok {
			row("offset", fmtPoint(pos))
		}
	}
	return strings.TrimRight(b.String(), "\n")
}
