package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/codeWuws/th-governance-web-sub002/pkg/grid"
	"github.com/codeWuws/th-governance-web-sub002/pkg/observability"
	"github.com/codeWuws/th-governance-web-sub002/pkg/sink"
)

// Render generates output artifacts in the requested formats.
func Render(ctx context.Context, t grid.Table, opts Options) (map[string][]byte, error) {
	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.Formats)
	start := time.Now()

	artifacts := make(map[string][]byte, len(opts.Formats))
	var err error
	for _, format := range opts.Formats {
		var data []byte
		if data, err = RenderFormat(ctx, t, format, opts); err != nil {
			err = fmt.Errorf("render %s: %w", format, err)
			break
		}
		artifacts[format] = data
	}

	hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	if err != nil {
		return nil, err
	}
	return artifacts, nil
}

// RenderFormat renders t in a single format.
func RenderFormat(ctx context.Context, t grid.Table, format string, opts Options) ([]byte, error) {
	f := opts.Formatter()

	switch format {
	case FormatJSON:
		return sink.RenderJSON(t, sink.WithJSONDisplay(f), sink.WithJSONIndent())
	case FormatCSV:
		var csvOpts []sink.CSVOption
		if opts.Collapse {
			csvOpts = append(csvOpts, sink.WithCSVCollapse())
		}
		return sink.RenderCSV(t, f, csvOpts...)
	case FormatHTML:
		var htmlOpts []sink.HTMLOption
		if opts.Title != "" {
			htmlOpts = append(htmlOpts, sink.WithHTMLDocument(opts.Title))
		}
		return sink.RenderHTML(t, f, htmlOpts...)
	case FormatXLSX:
		xlsxOpts := []sink.XLSXOption{sink.WithFrozenHeader()}
		if opts.Sheet != "" {
			xlsxOpts = append(xlsxOpts, sink.WithSheetName(opts.Sheet))
		}
		return sink.RenderXLSX(t, f, xlsxOpts...)
	case FormatText:
		return []byte(sink.RenderText(t, f) + "\n"), nil
	case FormatDOT:
		return []byte(sink.SchemaDOT(t.Columns, sink.WithSchemaPaths())), nil
	case FormatSVG:
		return sink.RenderSchemaSVG(ctx, sink.SchemaDOT(t.Columns, sink.WithSchemaPaths()))
	default:
		return nil, ValidateFormat(format)
	}
}

// ContentType returns the MIME type of a format.
func ContentType(format string) string {
	switch format {
	case FormatJSON:
		return "application/json"
	case FormatCSV:
		return "text/csv; charset=utf-8"
	case FormatHTML:
		return "text/html; charset=utf-8"
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case FormatDOT:
		return "text/vnd.graphviz; charset=utf-8"
	case FormatSVG:
		return "image/svg+xml"
	default:
		return "text/plain; charset=utf-8"
	}
}

// Extension returns the file extension of a format, without the dot.
func Extension(format string) string {
	if format == FormatText {
		return "txt"
	}
	return format
}
