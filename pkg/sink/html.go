package sink

import (
	"bytes"
	"html/template"

	"github.com/codeWuws/th-governance-web-sub002/pkg/grid"
)

// HTMLOption configures HTML rendering via [RenderHTML].
type HTMLOption func(*htmlRenderer)

type htmlRenderer struct {
	document bool
	title    string
	class    string
}

// WithHTMLDocument wraps the table in a standalone HTML document with a
// minimal stylesheet.
func WithHTMLDocument(title string) HTMLOption {
	return func(r *htmlRenderer) { r.document = true; r.title = title }
}

// WithHTMLClass sets the class attribute of the <table> element.
func WithHTMLClass(class string) HTMLOption { return func(r *htmlRenderer) { r.class = class } }

const htmlTable = `{{define "table"}}<table class="{{.Class}}">
<thead>
{{- range .Header}}
<tr>{{range .}}<th{{if gt .ColSpan 1}} colspan="{{.ColSpan}}"{{end}}{{if gt .RowSpan 1}} rowspan="{{.RowSpan}}"{{end}} data-path="{{.Path}}">{{.Title}}</th>{{end}}</tr>
{{- end}}
</thead>
<tbody>
{{- range .Body}}
<tr data-key="{{.Key}}">{{range .Cells}}<td{{if gt .RowSpan 1}} rowspan="{{.RowSpan}}"{{end}}{{if .Missing}} class="missing"{{end}}>{{.Text}}</td>{{end}}</tr>
{{- end}}
</tbody>
</table>
{{end}}`

const htmlDocument = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
table { border-collapse: collapse; font-family: sans-serif; font-size: 14px; }
th, td { border: 1px solid #ccc; padding: 4px 8px; vertical-align: middle; }
th { background: #f4f4f4; }
td.missing { color: #999; }
</style>
</head>
<body>
{{template "table" .}}</body>
</html>
`

var (
	htmlTableTmpl    = template.Must(template.New("fragment").Parse(htmlTable + `{{template "table" .}}`))
	htmlDocumentTmpl = template.Must(template.Must(template.New("document").Parse(htmlTable)).Parse(htmlDocument))
)

type htmlView struct {
	Title  string
	Class  string
	Header [][]HeaderCell
	Body   []htmlRow
}

type htmlRow struct {
	Key   string
	Cells []htmlCell
}

type htmlCell struct {
	Text    string
	RowSpan int
	Missing bool
}

// RenderHTML writes t as an HTML table. Group headers carry colspan, leaf
// headers above the deepest level carry rowspan, and merged body cells are
// written once on their head row with a rowspan; suppressed cells are
// omitted. All text is escaped.
func RenderHTML(t grid.Table, f grid.Formatter, opts ...HTMLOption) ([]byte, error) {
	r := htmlRenderer{class: "gridshape"}
	for _, opt := range opts {
		opt(&r)
	}

	view := htmlView{
		Title:  r.title,
		Class:  r.class,
		Header: HeaderRows(t.Columns),
		Body:   make([]htmlRow, len(t.Rows)),
	}
	leaves := grid.LeafPaths(t.Columns)
	for i, row := range t.Rows {
		hr := htmlRow{Key: grid.RowKey(row, i)}
		for _, path := range leaves {
			span := row.Span(path)
			if span.IsSuppressed() {
				continue
			}
			c := row.Cell(path)
			hr.Cells = append(hr.Cells, htmlCell{
				Text:    f.Format(c),
				RowSpan: span.RowSpan(),
				Missing: c.Missing,
			})
		}
		view.Body[i] = hr
	}

	tmpl := htmlTableTmpl
	if r.document {
		tmpl = htmlDocumentTmpl
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, view); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
