package sink

import "github.com/codeWuws/th-governance-web-sub002/pkg/grid"

// HeaderCell is one cell of a laid-out table header.
type HeaderCell struct {
	Title   string
	Path    string
	Level   int // header row, 0 at the top
	Col     int // first leaf column covered, 0-based
	ColSpan int
	RowSpan int
	Group   bool
}

// HeaderRows lays cols out as HeaderDepth(cols) header rows. Cells are
// ordered left to right within each row.
func HeaderRows(cols []grid.Column) [][]HeaderCell {
	depth := grid.HeaderDepth(cols)
	rows := make([][]HeaderCell, depth)
	col := 0
	for _, c := range cols {
		col = layoutHeader(rows, c, 0, col, depth)
	}
	return rows
}

func layoutHeader(rows [][]HeaderCell, c grid.Column, level, col, depth int) int {
	if !c.IsGroup() {
		rows[level] = append(rows[level], HeaderCell{
			Title:   c.Title,
			Path:    c.Path,
			Level:   level,
			Col:     col,
			ColSpan: 1,
			RowSpan: depth - level,
		})
		return col + 1
	}

	rows[level] = append(rows[level], HeaderCell{
		Title:   c.Title,
		Path:    c.Path,
		Level:   level,
		Col:     col,
		ColSpan: len(c.Leaves()),
		RowSpan: 1,
		Group:   true,
	})
	for _, ch := range c.Children {
		col = layoutHeader(rows, ch, level+1, col, depth)
	}
	return col
}

// LeafTitles returns one title per leaf column, prefixed by the titles of
// its enclosing groups and joined with sep.
func LeafTitles(cols []grid.Column, sep string) []string {
	var out []string
	var walk func(c grid.Column, prefix string)
	walk = func(c grid.Column, prefix string) {
		title := c.Title
		if prefix != "" {
			title = prefix + sep + title
		}
		if !c.IsGroup() {
			out = append(out, title)
			return
		}
		for _, ch := range c.Children {
			walk(ch, title)
		}
	}
	for _, c := range cols {
		walk(c, "")
	}
	return out
}
