package sink

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/codeWuws/th-governance-web-sub002/pkg/grid"
)

// schemaRootID names the root node.
const schemaRootID = "@root"

// SchemaOption configures column tree diagrams.
type SchemaOption func(*schemaRenderer)

type schemaRenderer struct {
	paths bool
	root  string
}

// WithSchemaPaths adds each column's path under its title.
func WithSchemaPaths() SchemaOption { return func(r *schemaRenderer) { r.paths = true } }

// WithSchemaRoot sets the label of the root node.
func WithSchemaRoot(label string) SchemaOption { return func(r *schemaRenderer) { r.root = label } }

// SchemaDOT converts a column tree to Graphviz DOT format. Groups are drawn
// as grey boxes, leaves as white rounded boxes, and a root node links the
// top-level columns. The result can be rendered with [RenderSchemaSVG].
func SchemaDOT(cols []grid.Column, opts ...SchemaOption) string {
	r := schemaRenderer{root: "record"}
	for _, opt := range opts {
		opt(&r)
	}

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.4;\n")
	buf.WriteString("  nodesep=0.2;\n")
	buf.WriteString("\n")
	fmt.Fprintf(&buf, "  %q [label=%q, shape=ellipse, fillcolor=lightgrey];\n", schemaRootID, r.root)

	var edges []string
	var walk func(c grid.Column, parent string)
	walk = func(c grid.Column, parent string) {
		fmt.Fprintf(&buf, "  %q [%s];\n", c.Path, strings.Join(r.attrs(c), ", "))
		edges = append(edges, fmt.Sprintf("  %q -> %q;\n", parent, c.Path))
		for _, ch := range c.Children {
			walk(ch, c.Path)
		}
	}
	for _, c := range cols {
		walk(c, schemaRootID)
	}

	buf.WriteString("\n")
	for _, e := range edges {
		buf.WriteString(e)
	}
	buf.WriteString("}\n")
	return buf.String()
}

func (r schemaRenderer) attrs(c grid.Column) []string {
	label := c.Title
	if r.paths && c.Title != c.Path {
		label += "\n" + c.Path
	}
	attrs := []string{fmt.Sprintf("label=%q", label)}
	if c.IsGroup() {
		attrs = append(attrs, "style=\"filled\"", "fillcolor=\"#f4f4f4\"")
	}
	return attrs
}

// RenderSchemaSVG renders a DOT graph produced by [SchemaDOT] to SVG.
func RenderSchemaSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}

// SchemaText writes the column tree as an indented outline.
func SchemaText(cols []grid.Column) string {
	var b strings.Builder
	var walk func(c grid.Column, depth int)
	walk = func(c grid.Column, depth int) {
		b.WriteString(strings.Repeat("  ", depth))
		b.WriteString(c.Title)
		if c.Title != c.Path {
			fmt.Fprintf(&b, " (%s)", c.Path)
		}
		b.WriteByte('\n')
		for _, ch := range c.Children {
			walk(ch, depth+1)
		}
	}
	for _, c := range cols {
		walk(c, 0)
	}
	return b.String()
}
