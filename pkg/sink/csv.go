package sink

import (
	"bytes"
	"encoding/csv"

	"github.com/codeWuws/th-governance-web-sub002/pkg/grid"
)

// CSVOption configures CSV rendering via [RenderCSV].
type CSVOption func(*csvRenderer)

type csvRenderer struct {
	collapse     bool
	groupHeaders bool
	bom          bool
	comma        rune
}

// WithCSVCollapse leaves suppressed cells blank so that a merged value
// appears only on the first row of its block.
func WithCSVCollapse() CSVOption { return func(r *csvRenderer) { r.collapse = true } }

// WithCSVGroupHeaders writes every header level instead of only the leaf
// titles. A group title is written above its first leaf.
func WithCSVGroupHeaders() CSVOption { return func(r *csvRenderer) { r.groupHeaders = true } }

// WithCSVBOM prefixes the output with a UTF-8 byte order mark, which
// spreadsheet applications need to detect the encoding.
func WithCSVBOM() CSVOption { return func(r *csvRenderer) { r.bom = true } }

// WithCSVComma sets the field delimiter.
func WithCSVComma(c rune) CSVOption { return func(r *csvRenderer) { r.comma = c } }

// RenderCSV writes t as CSV: a header of leaf titles followed by one line
// per row. Without WithCSVCollapse every row repeats merged values.
func RenderCSV(t grid.Table, f grid.Formatter, opts ...CSVOption) ([]byte, error) {
	r := csvRenderer{comma: ','}
	for _, opt := range opts {
		opt(&r)
	}

	var buf bytes.Buffer
	if r.bom {
		buf.WriteString("\ufeff")
	}
	w := csv.NewWriter(&buf)
	w.Comma = r.comma

	leaves := t.Leaves()
	if r.groupHeaders {
		for _, hr := range HeaderRows(t.Columns) {
			line := make([]string, len(leaves))
			for _, c := range hr {
				line[c.Col] = c.Title
			}
			if err := w.Write(line); err != nil {
				return nil, err
			}
		}
	} else {
		line := make([]string, len(leaves))
		for i, c := range leaves {
			line[i] = c.Title
		}
		if err := w.Write(line); err != nil {
			return nil, err
		}
	}

	for _, row := range t.Rows {
		line := make([]string, len(leaves))
		for i, c := range leaves {
			if r.collapse && row.Span(c.Path).IsSuppressed() {
				continue
			}
			line[i] = f.Format(row.Cell(c.Path))
		}
		if err := w.Write(line); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
