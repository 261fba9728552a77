package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/codeWuws/th-governance-web-sub002/pkg/grid"
	"github.com/codeWuws/th-governance-web-sub002/pkg/sink"
)

var browseHelpStyle = lipgloss.NewStyle().Foreground(colorDim)

// browseChrome is the number of terminal lines used around the table body
// besides its header rows: title, help, blank line, three border lines,
// the footer and the position line.
const browseChrome = 8

// browseCommand creates the browse command.
func (c *CLI) browseCommand() *cobra.Command {
	var tf transformFlags

	cmd := &cobra.Command{
		Use:   "browse [input]",
		Short: "Page through the table interactively",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, opts, err := c.buildTable(cmd, args, &tf)
			if err != nil {
				return err
			}
			if len(t.Rows) == 0 {
				printInfo("No rows")
				return nil
			}
			title := "stdin"
			if len(args) > 0 {
				title = args[0]
			}
			p := tea.NewProgram(newBrowseModel(t, opts.Formatter(), title),
				tea.WithAltScreen(), tea.WithContext(cmd.Context()))
			_, err = p.Run()
			return err
		},
	}

	tf.register(cmd)
	return cmd
}

// =============================================================================
// browseModel - Interactive row pager
// =============================================================================

// browseModel is the bubbletea model of the browse command.
type browseModel struct {
	table     grid.Table
	formatter grid.Formatter
	title     string
	offset    int
	height    int // body rows per page
	width     int
}

func newBrowseModel(t grid.Table, f grid.Formatter, title string) browseModel {
	return browseModel{table: t, formatter: f, title: title, height: 20}
}

func (m browseModel) Init() tea.Cmd {
	return nil
}

func (m browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "down", "j":
			m.offset++
		case "up", "k":
			m.offset--
		case "pgdown", "f", " ":
			m.offset += m.height
		case "pgup", "b":
			m.offset -= m.height
		case "home", "g":
			m.offset = 0
		case "end", "G":
			m.offset = m.maxOffset()
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = max(msg.Height-browseChrome-m.table.HeaderDepth(), 1)
	}
	m.offset = min(max(m.offset, 0), m.maxOffset())
	return m, nil
}

func (m browseModel) maxOffset() int {
	return max(len(m.table.Rows)-m.height, 0)
}

func (m browseModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(m.title))
	b.WriteString("\n")
	b.WriteString(browseHelpStyle.Render("↑/↓ scroll  f/b page  g/G start/end  q quit"))
	b.WriteString("\n\n")

	b.WriteString(sink.RenderText(m.table, m.formatter,
		sink.WithTextOffset(m.offset),
		sink.WithTextLimit(m.height),
		sink.WithTextWidth(m.width),
		sink.WithTextColor()))
	b.WriteString("\n")

	last := min(m.offset+m.height, len(m.table.Rows))
	b.WriteString(browseHelpStyle.Render(fmt.Sprintf("  rows %d-%d of %d", m.offset+1, last, len(m.table.Rows))))
	return b.String()
}
