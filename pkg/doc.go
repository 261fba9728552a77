// Package pkg provides the core libraries for gridshape.
//
// # Overview
//
// gridshape turns JSON records into tables. Nested objects become column
// groups, arrays of objects fan a record out into one row per element, and
// values shared by a record's rows carry merge spans so renderers can draw
// them once. The pkg directory is organized into four areas:
//
//  1. [grid] and [jsonvalue] - Domain logic (column tree, row expansion, spans)
//  2. [sink] and [export] - Output (files, terminal, databases)
//  3. [pipeline], [cache] and [source] - Orchestration (decode → transform → render)
//  4. [server], [config], [errors] and [observability] - Service plumbing
//
// # Architecture
//
// The typical data flow through gridshape:
//
//	file / stdin / URL
//	         ↓
//	    [source] package (read the document)
//	         ↓
//	    [jsonvalue] package (parse, select records)
//	         ↓
//	    [grid] package (columns, rows, spans)
//	         ↓
//	    [sink] / [export] packages
//	         ↓
//	JSON/CSV/HTML/XLSX/text/DOT/SVG, SQLite/PostgreSQL/MongoDB
//
// # Quick Start
//
// Transform records and write CSV:
//
//	import (
//	    "github.com/codeWuws/th-governance-web-sub002/pkg/grid"
//	    "github.com/codeWuws/th-governance-web-sub002/pkg/jsonvalue"
//	    "github.com/codeWuws/th-governance-web-sub002/pkg/sink"
//	)
//
//	// 1. Decode the document and find its records
//	doc, _ := jsonvalue.Parse(data)
//	records, _ := jsonvalue.Records(doc)
//
//	// 2. Build the table
//	t := grid.Transform(records, grid.DefaultOptions())
//
//	// 3. Render it
//	csv, _ := sink.RenderCSV(t, grid.NewFormatter("en"))
//
// # Main Packages
//
// [grid] - The table model. [grid.Transform] builds the column tree, expands
// object arrays into rows and computes per-column merge spans.
//
// [jsonvalue] - JSON values with number literals preserved, JSONPath record
// selection and envelope detection.
//
// [sink] - Renderers for JSON, CSV, HTML, XLSX (merged cells), terminal
// tables and Graphviz diagrams of the column tree.
//
// [export] - Database exporters registered by kind: sqlite, postgres, mongo.
//
// [pipeline] - Complete pipeline (decode → transform → render) with caching,
// shared by the CLI and the HTTP service.
//
// [cache] - Content-addressed result cache with file, Redis and null backends.
//
// [source] - Reads documents from files, stdin and HTTP(S) URLs.
//
// [server] - HTTP service exposing the pipeline.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...            # All tests
//	go test ./pkg/grid/...       # Specific package
//	go test -run Example ./...   # Examples only
//
// Set GRIDSHAPE_TEST_POSTGRES_DSN to include the PostgreSQL export test.
//
// [grid]: https://pkg.go.dev/github.com/codeWuws/th-governance-web-sub002/pkg/grid
// [grid.Transform]: https://pkg.go.dev/github.com/codeWuws/th-governance-web-sub002/pkg/grid#Transform
// [jsonvalue]: https://pkg.go.dev/github.com/codeWuws/th-governance-web-sub002/pkg/jsonvalue
// [sink]: https://pkg.go.dev/github.com/codeWuws/th-governance-web-sub002/pkg/sink
// [export]: https://pkg.go.dev/github.com/codeWuws/th-governance-web-sub002/pkg/export
// [pipeline]: https://pkg.go.dev/github.com/codeWuws/th-governance-web-sub002/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/codeWuws/th-governance-web-sub002/pkg/cache
// [source]: https://pkg.go.dev/github.com/codeWuws/th-governance-web-sub002/pkg/source
// [server]: https://pkg.go.dev/github.com/codeWuws/th-governance-web-sub002/pkg/server
// [config]: https://pkg.go.dev/github.com/codeWuws/th-governance-web-sub002/pkg/config
// [errors]: https://pkg.go.dev/github.com/codeWuws/th-governance-web-sub002/pkg/errors
// [observability]: https://pkg.go.dev/github.com/codeWuws/th-governance-web-sub002/pkg/observability
package pkg
