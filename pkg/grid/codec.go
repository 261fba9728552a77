package grid

import (
	"encoding/json"
	"fmt"
	"slices"

	"github.com/codeWuws/th-governance-web-sub002/pkg/jsonvalue"
)

// Wire form of a Table. Spans use the classic integer encoding: n for a
// head, 0 for a suppressed cell, absent when not merged.
type wireTable struct {
	Columns []Column  `json:"columns"`
	Rows    []wireRow `json:"rows"`
}

type wireRow struct {
	Key     string                     `json:"key"`
	Source  int                        `json:"source"`
	Index   int                        `json:"index"`
	Cells   map[string]jsonvalue.Value `json:"cells"`
	Missing []string                   `json:"missing,omitempty"`
	Spans   map[string]int             `json:"spans,omitempty"`
	Fanned  []string                   `json:"fanned,omitempty"`
}

// MarshalJSON encodes t with one object per row carrying its RowKey.
func (t Table) MarshalJSON() ([]byte, error) {
	w := wireTable{Columns: t.Columns, Rows: make([]wireRow, len(t.Rows))}
	if w.Columns == nil {
		w.Columns = []Column{}
	}
	for i, r := range t.Rows {
		wr := wireRow{
			Key:    RowKey(r, i),
			Source: r.Source,
			Index:  r.Index,
			Cells:  make(map[string]jsonvalue.Value, len(r.Cells)),
			Fanned: r.Fanned,
		}
		for path, c := range r.Cells {
			if c.Missing {
				wr.Missing = append(wr.Missing, path)
				continue
			}
			wr.Cells[path] = c.Value
		}
		slices.Sort(wr.Missing)
		for path, s := range r.Spans {
			if s.IsMerged() {
				if wr.Spans == nil {
					wr.Spans = make(map[string]int)
				}
				wr.Spans[path] = s.Rows()
			}
		}
		w.Rows[i] = wr
	}
	return json.Marshal(w)
}

// UnmarshalJSON decodes the form written by MarshalJSON.
func (t *Table) UnmarshalJSON(data []byte) error {
	var w wireTable
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	rows := make([]Row, len(w.Rows))
	for i, wr := range w.Rows {
		r := Row{
			Source: wr.Source,
			Index:  wr.Index,
			Cells:  make(map[string]Cell, len(wr.Cells)+len(wr.Missing)),
			Spans:  make(map[string]Span, len(wr.Spans)),
			Fanned: wr.Fanned,
		}
		for path, v := range wr.Cells {
			r.Cells[path] = Cell{Value: v}
		}
		for _, path := range wr.Missing {
			r.Cells[path] = Cell{Missing: true}
		}
		for path, n := range wr.Spans {
			switch {
			case n == 0:
				r.Spans[path] = Suppressed
			case n > 0:
				r.Spans[path] = Head(n)
			default:
				return fmt.Errorf("row %d: invalid span %d for %s", i, n, path)
			}
		}
		rows[i] = r
	}
	*t = Table{Columns: w.Columns, Rows: rows}
	return nil
}
