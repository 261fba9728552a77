package grid

import (
	"maps"
	"slices"

	"github.com/codeWuws/th-governance-web-sub002/pkg/jsonvalue"
)

// EmptyArrayPolicy decides how an empty array is expanded.
type EmptyArrayPolicy uint8

const (
	// EmptyArraysKeep treats an empty array as a plain value: the record
	// keeps its single row and the cell reads "[array, 0 items]".
	EmptyArraysKeep EmptyArrayPolicy = iota

	// EmptyArraysDrop treats an empty array as an object array with no
	// elements. When it drives the fan-out the record yields no rows.
	EmptyArraysDrop
)

// ParseEmptyArrayPolicy maps "keep" or "drop" to a policy. The empty string
// selects EmptyArraysKeep.
func ParseEmptyArrayPolicy(s string) (EmptyArrayPolicy, bool) {
	switch s {
	case "", "keep":
		return EmptyArraysKeep, true
	case "drop":
		return EmptyArraysDrop, true
	}
	return EmptyArraysKeep, false
}

func (p EmptyArrayPolicy) String() string {
	if p == EmptyArraysDrop {
		return "drop"
	}
	return "keep"
}

// Cell is the value of one leaf column in a row. Missing marks a column the
// row has no value for, which is distinct from a JSON null.
type Cell struct {
	Value   jsonvalue.Value
	Missing bool
}

// Row is one expanded row.
type Row struct {
	// Source is the index of the record this row was expanded from.
	Source int

	// Index is the position of the row inside its record's block.
	Index int

	// Cells maps column paths to values.
	Cells map[string]Cell

	// Spans holds merge annotations keyed by column path. Absent paths are
	// NotMerged.
	Spans map[string]Span

	// Fanned lists the array paths whose elements were spread over the
	// record's rows. Columns under these paths are never merged.
	Fanned []string
}

// Cell returns the cell at path. Paths with no entry are reported missing.
func (r Row) Cell(path string) Cell {
	c, ok := r.Cells[path]
	if !ok {
		return Cell{Missing: true}
	}
	return c
}

// Span returns the merge annotation for path.
func (r Row) Span(path string) Span { return r.Spans[path] }

// ExpandOption configures ExpandRows.
type ExpandOption func(*expander)

// WithEmptyArrays sets the empty array policy. The default is
// EmptyArraysKeep.
func WithEmptyArrays(p EmptyArrayPolicy) ExpandOption {
	return func(e *expander) { e.emptyArrays = p }
}

type expander struct {
	maxDepth    int
	emptyArrays EmptyArrayPolicy
}

// ExpandRows flattens records into rows.
//
// Nested objects are inlined under dotted paths. The first field, in key
// order, that holds an object array drives the fan-out: the record yields
// one row per expanded element and every other field is replicated into
// each of them. Further object arrays on the same record are zipped by
// element index: the rows of driving element i take element i of every
// sibling, and a sibling contributes nothing past its own length. Nesting is followed
// while the depth is below maxDepth; deeper values are kept whole.
//
// Rows carry no spans; see ApplyMerges.
func ExpandRows(records []jsonvalue.Object, maxDepth int, opts ...ExpandOption) []Row {
	e := &expander{maxDepth: max(maxDepth, 0)}
	for _, opt := range opts {
		opt(e)
	}

	var rows []Row
	for src, rec := range records {
		x := e.expand(rec, "", 0)
		fanned := slices.Clone(x.fanned)
		for i, values := range x.rows() {
			cells := make(map[string]Cell, len(values))
			for path, v := range values {
				cells[path] = Cell{Value: v}
			}
			rows = append(rows, Row{Source: src, Index: i, Cells: cells, Fanned: fanned})
		}
	}
	return rows
}

// expansion holds the rows of one object grouped by the element of its
// driving array they came from. An object without object arrays has a
// single group holding a single row.
type expansion struct {
	groups [][]map[string]jsonvalue.Value
	fanned []string
}

func (x expansion) rows() []map[string]jsonvalue.Value {
	var out []map[string]jsonvalue.Value
	for _, g := range x.groups {
		out = append(out, g...)
	}
	return out
}

func (e *expander) expand(obj jsonvalue.Object, prefix string, depth int) expansion {
	base := make(map[string]jsonvalue.Value)
	var fans [][][]map[string]jsonvalue.Value
	var fanned []string

	for _, key := range obj.Keys() {
		v := obj[key]
		path := joinPath(prefix, key)

		switch {
		case depth < e.maxDepth && v.IsObject() && v.Len() > 0:
			sub := e.expand(v.Fields(), path, depth+1)
			if len(sub.fanned) == 0 {
				maps.Copy(base, sub.groups[0][0])
				continue
			}
			fans = append(fans, sub.groups)
			fanned = append(fanned, sub.fanned...)
		case depth < e.maxDepth && e.fansOut(v):
			elems := make([][]map[string]jsonvalue.Value, 0, v.Len())
			for _, el := range v.Elems() {
				elems = append(elems, e.expand(el.Fields(), path, depth+1).rows())
			}
			fans = append(fans, elems)
			fanned = append(fanned, path)
		default:
			base[path] = v
		}
	}

	if len(fans) == 0 {
		return expansion{groups: [][]map[string]jsonvalue.Value{{base}}}
	}

	// Element i of the driver pairs with element i of every sibling. A
	// sibling element with one row fills every row of driver element i;
	// one that fans out further is zipped row by row.
	driver := fans[0]
	groups := make([][]map[string]jsonvalue.Value, 0, len(driver))
	for i, parts := range driver {
		group := make([]map[string]jsonvalue.Value, 0, len(parts))
		for j, part := range parts {
			row := maps.Clone(base)
			maps.Copy(row, part)
			for _, sibling := range fans[1:] {
				if i >= len(sibling) {
					continue
				}
				switch other := sibling[i]; {
				case len(other) == 1:
					maps.Copy(row, other[0])
				case j < len(other):
					maps.Copy(row, other[j])
				}
			}
			group = append(group, row)
		}
		groups = append(groups, group)
	}
	return expansion{groups: groups, fanned: fanned}
}

func (e *expander) fansOut(v jsonvalue.Value) bool {
	if e.emptyArrays == EmptyArraysDrop && v.IsArray() && v.Len() == 0 {
		return true
	}
	return v.IsObjectArray()
}
