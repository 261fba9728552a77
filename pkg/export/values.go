package export

import (
	"math"
	"strconv"
	"strings"

	"github.com/codeWuws/th-governance-web-sub002/pkg/grid"
	"github.com/codeWuws/th-governance-web-sub002/pkg/jsonvalue"
)

// Names of the columns every exported row carries in addition to the
// table's leaves.
const (
	SourceColumn = "_source"
	IndexColumn  = "_index"
)

// ColumnKind is the storage type chosen for a leaf column.
type ColumnKind uint8

const (
	// KindText stores display text or JSON.
	KindText ColumnKind = iota
	// KindNumber stores float64 values.
	KindNumber
	// KindBool stores booleans.
	KindBool
)

func (k ColumnKind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	default:
		return "text"
	}
}

// Column describes one exported leaf column.
type Column struct {
	Name string // database column name, see ColumnName
	Path string
	Kind ColumnKind
}

// ColumnName turns a leaf path into a column name by replacing each "."
// with "__", so "tags.t" becomes "tags__t".
func ColumnName(path string) string {
	return strings.ReplaceAll(path, ".", "__")
}

// Columns returns the exported columns of t in leaf order. A column is
// KindNumber when every present non-null value is a number that float64
// holds exactly, KindBool when every such value is a boolean, and KindText
// otherwise (including columns with no values at all).
func Columns(t grid.Table) []Column {
	paths := grid.LeafPaths(t.Columns)
	cols := make([]Column, len(paths))
	for i, path := range paths {
		cols[i] = Column{Name: ColumnName(path), Path: path, Kind: inferKind(t.Rows, path)}
	}
	return cols
}

func inferKind(rows []grid.Row, path string) ColumnKind {
	seen := false
	numbers, bools := true, true
	for _, r := range rows {
		c := r.Cell(path)
		if c.Missing || c.Value.IsNull() {
			continue
		}
		seen = true
		switch c.Value.Kind() {
		case jsonvalue.KindNumber:
			bools = false
			if _, ok := ExactFloat(c.Value.Literal()); !ok {
				numbers = false
			}
		case jsonvalue.KindBool:
			numbers = false
		default:
			numbers, bools = false, false
		}
		if !numbers && !bools {
			return KindText
		}
	}
	switch {
	case !seen:
		return KindText
	case numbers:
		return KindNumber
	case bools:
		return KindBool
	default:
		return KindText
	}
}

// ExactFloat parses the number literal lit when float64 represents it
// without loss.
func ExactFloat(lit string) (float64, bool) {
	x, err := strconv.ParseFloat(lit, 64)
	if err != nil || math.IsInf(x, 0) || math.IsNaN(x) {
		return 0, false
	}
	if strconv.FormatFloat(x, 'f', -1, 64) == lit || strconv.FormatFloat(x, 'g', -1, 64) == lit {
		return x, true
	}
	return 0, false
}

// Values returns one slice per row: the row's Source and Index followed by
// one value per column of cols. Missing and null cells are nil. Text
// columns hold strings: scalars as f formats them, arrays and objects as
// JSON.
func Values(t grid.Table, cols []Column, f grid.Formatter) [][]any {
	out := make([][]any, len(t.Rows))
	for i, r := range t.Rows {
		vals := make([]any, 0, len(cols)+2)
		vals = append(vals, r.Source, r.Index)
		for _, col := range cols {
			vals = append(vals, cellValue(r.Cell(col.Path), col.Kind, f))
		}
		out[i] = vals
	}
	return out
}

func cellValue(c grid.Cell, kind ColumnKind, f grid.Formatter) any {
	if c.Missing || c.Value.IsNull() {
		return nil
	}
	switch kind {
	case KindNumber:
		x, _ := ExactFloat(c.Value.Literal())
		return x
	case KindBool:
		return c.Value.Bool()
	}
	if c.Value.IsScalar() {
		return f.FormatValue(c.Value)
	}
	data, _ := c.Value.MarshalJSON()
	return string(data)
}

// Names returns the column names of a row produced by Values.
func Names(cols []Column) []string {
	names := make([]string, 0, len(cols)+2)
	names = append(names, SourceColumn, IndexColumn)
	for _, c := range cols {
		names = append(names, c.Name)
	}
	return names
}

// Batches splits rows into consecutive chunks of at most size rows.
func Batches(rows [][]any, size int) [][][]any {
	if size <= 0 {
		size = DefaultBatchSize
	}
	var out [][][]any
	for len(rows) > 0 {
		n := min(size, len(rows))
		out = append(out, rows[:n])
		rows = rows[n:]
	}
	return out
}
