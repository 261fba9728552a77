package sink

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/codeWuws/th-governance-web-sub002/pkg/grid"
)

// TextOption configures terminal rendering via [RenderText].
type TextOption func(*textRenderer)

type textRenderer struct {
	limit  int
	offset int
	width  int
	color  bool
}

// WithTextLimit renders at most n rows. A footer reports the rows left out.
func WithTextLimit(n int) TextOption { return func(r *textRenderer) { r.limit = n } }

// WithTextOffset skips the first n rows.
func WithTextOffset(n int) TextOption { return func(r *textRenderer) { r.offset = n } }

// WithTextWidth bounds the table width in cells.
func WithTextWidth(w int) TextOption { return func(r *textRenderer) { r.width = w } }

// WithTextColor styles the header and missing cells.
func WithTextColor() TextOption { return func(r *textRenderer) { r.color = true } }

var (
	textHeaderStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Bold(true)
	textMissingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	textBorderStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// RenderText writes t as a bordered terminal table. Nested columns are
// headed by their group titles joined with "/". Suppressed cells are blank,
// so a merged value is shown once per block.
func RenderText(t grid.Table, f grid.Formatter, opts ...TextOption) string {
	var r textRenderer
	for _, opt := range opts {
		opt(&r)
	}

	rows := t.Rows
	start := min(max(r.offset, 0), len(rows))
	end := len(rows)
	if r.limit > 0 {
		end = min(start+r.limit, end)
	}
	shown := rows[start:end]

	leaves := grid.LeafPaths(t.Columns)
	data := make([][]string, len(shown))
	missing := make([][]bool, len(shown))
	for i, row := range shown {
		line := make([]string, len(leaves))
		miss := make([]bool, len(leaves))
		for j, path := range leaves {
			// The first shown row of a block carries its value even when
			// the head was scrolled away.
			if row.Span(path).IsSuppressed() && i > 0 {
				continue
			}
			c := row.Cell(path)
			line[j] = f.Format(c)
			miss[j] = c.Missing
		}
		data[i] = line
		missing[i] = miss
	}

	tbl := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(textBorderStyle).
		Headers(LeafTitles(t.Columns, "/")...).
		Rows(data...)
	if r.width > 0 {
		tbl = tbl.Width(r.width)
	}
	if r.color {
		tbl = tbl.StyleFunc(func(row, col int) lipgloss.Style {
			base := lipgloss.NewStyle().Padding(0, 1)
			if row == table.HeaderRow {
				return textHeaderStyle.Padding(0, 1)
			}
			if row >= 0 && row < len(missing) && col < len(missing[row]) && missing[row][col] {
				return textMissingStyle.Padding(0, 1)
			}
			return base
		})
	}

	out := tbl.Render()
	if rest := len(rows) - end; rest > 0 {
		out += fmt.Sprintf("\n… %d more rows", rest)
	}
	return out
}
