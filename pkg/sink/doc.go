// Package sink renders a [grid.Table] into output formats.
//
// # Overview
//
// A "sink" takes the table computed by [grid.Transform] and writes it in a
// final form. Every sink reads the same column tree and row spans, so a
// value merged across three rows in HTML is merged across the same three
// rows in a spreadsheet:
//
//   - JSON: the table wire form, optionally with display text
//   - CSV: one line per row under the leaf titles
//   - HTML: a table with a multi-level header and rowspan cells
//   - XLSX: a workbook with merged header and body cells
//   - Text: a bordered terminal table
//   - DOT/SVG: the column tree as a diagram
//
// # Usage
//
//	t := grid.Transform(records, grid.DefaultOptions())
//	f := grid.NewFormatter("de")
//
//	html, err := sink.RenderHTML(t, f, sink.WithHTMLDocument("Orders"))
//	xlsx, err := sink.RenderXLSX(t, f, sink.WithSheetName("Orders"))
//
// # Header Layout
//
// [HeaderRows] lays the column tree out as header rows. A group column
// spans its leaves horizontally; a leaf column that ends above the deepest
// level spans the remaining header rows vertically. The HTML, XLSX and CSV
// sinks all share this layout.
//
// [grid.Table]: https://pkg.go.dev/github.com/codeWuws/th-governance-web-sub002/pkg/grid#Table
// [grid.Transform]: https://pkg.go.dev/github.com/codeWuws/th-governance-web-sub002/pkg/grid#Transform
package sink
