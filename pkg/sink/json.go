package sink

import (
	"bytes"
	"encoding/json"

	"github.com/codeWuws/th-governance-web-sub002/pkg/grid"
)

// JSONOption configures JSON rendering via [RenderJSON].
type JSONOption func(*jsonRenderer)

type jsonRenderer struct {
	display   bool
	formatter grid.Formatter
	indent    bool
}

// WithJSONDisplay adds a "display" object to every row holding the text
// each leaf cell shows under f, and records the matched locale.
func WithJSONDisplay(f grid.Formatter) JSONOption {
	return func(r *jsonRenderer) { r.display = true; r.formatter = f }
}

// WithJSONIndent pretty-prints the output with two-space indentation.
func WithJSONIndent() JSONOption { return func(r *jsonRenderer) { r.indent = true } }

type jsonOutput struct {
	Locale  string                       `json:"locale,omitempty"`
	Columns json.RawMessage              `json:"columns"`
	Rows    []map[string]json.RawMessage `json:"rows"`
}

// RenderJSON encodes t in its wire form:
//
//	{"columns": [...], "rows": [{"key", "source", "index", "cells", "missing", "spans", "fanned"}]}
//
// Spans use integers: n on the head row, 0 on suppressed rows.
func RenderJSON(t grid.Table, opts ...JSONOption) ([]byte, error) {
	var r jsonRenderer
	for _, opt := range opts {
		opt(&r)
	}

	data, err := json.Marshal(t)
	if err != nil {
		return nil, err
	}

	if r.display {
		var out jsonOutput
		if err := json.Unmarshal(data, &out); err != nil {
			return nil, err
		}
		out.Locale = r.formatter.Locale()
		leaves := grid.LeafPaths(t.Columns)
		for i, row := range t.Rows {
			text := make(map[string]string, len(leaves))
			for _, path := range leaves {
				text[path] = r.formatter.Format(row.Cell(path))
			}
			raw, err := json.Marshal(text)
			if err != nil {
				return nil, err
			}
			out.Rows[i]["display"] = raw
		}
		if data, err = json.Marshal(out); err != nil {
			return nil, err
		}
	}

	if !r.indent {
		return data, nil
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, data, "", "  "); err != nil {
		return nil, err
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}
