package grid

import (
	"strconv"

	"github.com/codeWuws/th-governance-web-sub002/pkg/jsonvalue"
)

// DefaultMaxDepth is the nesting depth expanded when none is configured.
const DefaultMaxDepth = 5

// Options configures Transform.
type Options struct {
	// MaxDepth bounds nested expansion. Negative values are treated as 0.
	MaxDepth int

	// Labels resolves column titles. Nil uses the column paths.
	Labels LabelFunc

	// EmptyArrays selects the empty array policy.
	EmptyArrays EmptyArrayPolicy
}

// DefaultOptions returns Options with DefaultMaxDepth and no labels.
func DefaultOptions() Options {
	return Options{MaxDepth: DefaultMaxDepth}
}

// Table is the result of Transform.
type Table struct {
	Columns []Column
	Rows    []Row
}

// Transform runs the three stages over records: it builds the column tree,
// expands the rows, fills a missing cell for every leaf column a row lacks,
// and applies merge spans. The input is not modified.
func Transform(records []jsonvalue.Object, opts Options) Table {
	cols := BuildColumns(records, opts.Labels, opts.MaxDepth)
	rows := ExpandRows(records, opts.MaxDepth, WithEmptyArrays(opts.EmptyArrays))

	leaves := LeafPaths(cols)
	for _, r := range rows {
		for _, path := range leaves {
			if _, ok := r.Cells[path]; !ok {
				r.Cells[path] = Cell{Missing: true}
			}
		}
	}

	return Table{Columns: cols, Rows: ApplyMerges(cols, rows)}
}

// Leaves returns the leaf columns of t in display order.
func (t Table) Leaves() []Column {
	var out []Column
	for _, c := range t.Columns {
		out = append(out, c.Leaves()...)
	}
	return out
}

// HeaderDepth returns the number of header rows of t.
func (t Table) HeaderDepth() int { return HeaderDepth(t.Columns) }

// Records returns the number of distinct source records that produced rows.
func (t Table) Records() int {
	n := 0
	for i, r := range t.Rows {
		if i == 0 || r.Source != t.Rows[i-1].Source {
			n++
		}
	}
	return n
}

// RowKey returns a stable key for row, the i-th row of a table. The key is
// the row's "id" value, else its "key" value, else i. Rows of a fanned block
// append "#<index>" so keys stay unique inside the block.
//
// The positional fallback is only stable while the row order is unchanged.
func RowKey(row Row, i int) string {
	for _, field := range []string{"id", "key"} {
		c, ok := row.Cells[field]
		if !ok || c.Missing || !c.Value.IsScalar() || c.Value.IsNull() {
			continue
		}
		key := c.Value.String()
		if len(row.Fanned) > 0 {
			key += "#" + strconv.Itoa(row.Index)
		}
		return key
	}
	return strconv.Itoa(i)
}
