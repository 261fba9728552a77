package sink_test

import (
	"fmt"

	"github.com/codeWuws/th-governance-web-sub002/pkg/grid"
	"github.com/codeWuws/th-governance-web-sub002/pkg/jsonvalue"
	"github.com/codeWuws/th-governance-web-sub002/pkg/sink"
)

func exampleTable() grid.Table {
	doc, _ := jsonvalue.Parse([]byte(`[{"id": 1, "tags": [{"t": "x"}, {"t": "y"}]}]`))
	records, _ := jsonvalue.Records(doc)
	return grid.Transform(records, grid.DefaultOptions())
}

func ExampleRenderCSV() {
	out, _ := sink.RenderCSV(exampleTable(), grid.NewFormatter("en"), sink.WithCSVCollapse())
	fmt.Print(string(out))
	// Output:
	// id,tags.t
	// 1,x
	// ,y
}

func ExampleHeaderRows() {
	for _, row := range sink.HeaderRows(exampleTable().Columns) {
		for _, c := range row {
			fmt.Printf("%s level=%d col=%d colspan=%d rowspan=%d\n", c.Path, c.Level, c.Col, c.ColSpan, c.RowSpan)
		}
	}
	// Output:
	// id level=0 col=0 colspan=1 rowspan=2
	// tags level=0 col=1 colspan=1 rowspan=1
	// tags.t level=1 col=1 colspan=1 rowspan=1
}

func ExampleSchemaText() {
	fmt.Print(sink.SchemaText(exampleTable().Columns))
	// Output:
	// id
	// tags
	//   tags.t
}
