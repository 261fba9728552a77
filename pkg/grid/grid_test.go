package grid

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/codeWuws/th-governance-web-sub002/pkg/jsonvalue"
)

func parseRecords(t *testing.T, input string) []jsonvalue.Object {
	t.Helper()
	doc, err := jsonvalue.Parse([]byte(input))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	recs, err := jsonvalue.Records(doc)
	if err != nil {
		t.Fatalf("Records: %v", err)
	}
	return recs
}

// cellText renders every cell of every row for comparison.
func cellText(rows []Row) []map[string]string {
	f := NewFormatter("en")
	out := make([]map[string]string, len(rows))
	for i, r := range rows {
		m := make(map[string]string, len(r.Cells))
		for path, c := range r.Cells {
			m[path] = f.Format(c)
		}
		out[i] = m
	}
	return out
}

// spanCounts encodes spans like the classic merge map: head n, suppressed 0.
func spanCounts(rows []Row) []map[string]int {
	out := make([]map[string]int, len(rows))
	for i, r := range rows {
		m := make(map[string]int)
		for path, s := range r.Spans {
			if s.IsMerged() {
				m[path] = s.RowSpan()
			}
		}
		out[i] = m
	}
	return out
}

func TestTransformFanOut(t *testing.T) {
	recs := parseRecords(t, `[{"id": "a", "tags": [{"t": "x"}, {"t": "y"}]}]`)
	tbl := Transform(recs, DefaultOptions())

	wantCols := []Column{
		{Path: "id", Title: "id"},
		{Path: "tags", Title: "tags", Children: []Column{{Path: "tags.t", Title: "tags.t"}}},
	}
	if diff := cmp.Diff(wantCols, tbl.Columns); diff != "" {
		t.Errorf("columns mismatch (-want +got):\n%s", diff)
	}

	wantCells := []map[string]string{
		{"id": "a", "tags.t": "x"},
		{"id": "a", "tags.t": "y"},
	}
	if diff := cmp.Diff(wantCells, cellText(tbl.Rows)); diff != "" {
		t.Errorf("cells mismatch (-want +got):\n%s", diff)
	}

	wantSpans := []map[string]int{{"id": 2}, {"id": 0}}
	if diff := cmp.Diff(wantSpans, spanCounts(tbl.Rows)); diff != "" {
		t.Errorf("spans mismatch (-want +got):\n%s", diff)
	}
}

func TestTransformHeterogeneousRecords(t *testing.T) {
	recs := parseRecords(t, `[{"a": 1}, {"a": 2, "b": {"c": 3}}]`)
	tbl := Transform(recs, DefaultOptions())

	wantCols := []Column{
		{Path: "a", Title: "a"},
		{Path: "b", Title: "b", Children: []Column{{Path: "b.c", Title: "b.c"}}},
	}
	if diff := cmp.Diff(wantCols, tbl.Columns); diff != "" {
		t.Errorf("columns mismatch (-want +got):\n%s", diff)
	}

	wantCells := []map[string]string{
		{"a": "1", "b.c": "-"},
		{"a": "2", "b.c": "3"},
	}
	if diff := cmp.Diff(wantCells, cellText(tbl.Rows)); diff != "" {
		t.Errorf("cells mismatch (-want +got):\n%s", diff)
	}
	if !tbl.Rows[0].Cells["b.c"].Missing {
		t.Error("row 0 b.c should be an explicit missing cell")
	}
	for i, r := range tbl.Rows {
		if len(r.Spans) != 0 {
			t.Errorf("row %d has spans %v, want none", i, r.Spans)
		}
	}
}

func TestTransformEmptyInput(t *testing.T) {
	tbl := Transform(nil, DefaultOptions())
	if len(tbl.Columns) != 0 || len(tbl.Rows) != 0 {
		t.Errorf("empty input: got %d columns, %d rows", len(tbl.Columns), len(tbl.Rows))
	}
}

func TestBuildColumnsIdempotent(t *testing.T) {
	recs := parseRecords(t, `[
		{"z": 1, "m": {"q": 1, "p": [{"x": 1}]}, "a": [{"k": 1}, {"j": 2}]},
		{"b": true, "m": {"r": null}}
	]`)

	first := BuildColumns(recs, nil, DefaultMaxDepth)
	second := BuildColumns(recs, nil, DefaultMaxDepth)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("BuildColumns not idempotent (-first +second):\n%s", diff)
	}

	want := []string{"a.j", "a.k", "b", "m.p.x", "m.q", "m.r", "z"}
	if diff := cmp.Diff(want, LeafPaths(first)); diff != "" {
		t.Errorf("leaf order mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildColumnsUnionsElementKeys(t *testing.T) {
	recs := parseRecords(t, `[
		{"items": [{"a": 1}]},
		{"items": [{"b": 2}, {"c": 3}]}
	]`)
	cols := BuildColumns(recs, nil, DefaultMaxDepth)
	want := []string{"items.a", "items.b", "items.c"}
	if diff := cmp.Diff(want, LeafPaths(cols)); diff != "" {
		t.Errorf("leaves mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildColumnsSampling(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"null sample skipped", `[{"b": null}, {"b": {"c": 1}}]`, []string{"b.c"}},
		{"empty array sample skipped", `[{"t": []}, {"t": [{"x": 1}]}]`, []string{"t.x"}},
		{"empty object degrades to leaf", `[{"b": {}}]`, []string{"b"}},
		{"primitive array is leaf", `[{"n": [1, 2]}]`, []string{"n"}},
		{"all null is leaf", `[{"b": null}]`, []string{"b"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cols := BuildColumns(parseRecords(t, tt.input), nil, DefaultMaxDepth)
			if diff := cmp.Diff(tt.want, LeafPaths(cols)); diff != "" {
				t.Errorf("leaves mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDepthZero(t *testing.T) {
	recs := parseRecords(t, `[{"id": 1, "o": {"a": 1}, "tags": [{"t": "x"}, {"t": "y"}]}]`)

	tbl := Transform(recs, Options{MaxDepth: 0})
	for _, c := range tbl.Columns {
		if c.IsGroup() {
			t.Errorf("column %s is a group at depth 0", c.Path)
		}
	}
	if len(tbl.Rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(tbl.Rows))
	}

	want := []map[string]string{{"id": "1", "o": "[object]", "tags": "[object array, 2 items]"}}
	if diff := cmp.Diff(want, cellText(tbl.Rows)); diff != "" {
		t.Errorf("cells mismatch (-want +got):\n%s", diff)
	}

	neg := Transform(recs, Options{MaxDepth: -3})
	if diff := cmp.Diff(tbl.Columns, neg.Columns); diff != "" {
		t.Errorf("negative depth should behave like 0 (-zero +neg):\n%s", diff)
	}
}

func TestDepthBoundStopsNesting(t *testing.T) {
	recs := parseRecords(t, `[{"a": {"b": {"c": 1}}}]`)
	tbl := Transform(recs, Options{MaxDepth: 1})

	if diff := cmp.Diff([]string{"a.b"}, LeafPaths(tbl.Columns)); diff != "" {
		t.Errorf("leaves mismatch (-want +got):\n%s", diff)
	}
	if got := NewFormatter("en").Format(tbl.Rows[0].Cell("a.b")); got != "[object]" {
		t.Errorf("a.b = %q, want [object]", got)
	}
}

func TestRowCountInvariant(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  int
	}{
		{"no arrays", `[{"a": 1}, {"a": 2}, {"a": 3}]`, 3},
		{"primitive arrays", `[{"a": [1, 2, 3]}, {"a": [4]}]`, 2},
		{"driving length 3", `[{"x": [{"v": 1}, {"v": 2}, {"v": 3}]}]`, 3},
		{"mixed records", `[{"x": [{"v": 1}, {"v": 2}]}, {"y": 1}]`, 3},
		{"nested fan-out", `[{"x": [{"y": [{"v": 1}, {"v": 2}]}, {"y": [{"v": 3}]}]}]`, 3},
		{"object hiding array", `[{"o": {"arr": [{"v": 1}, {"v": 2}]}}]`, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows := ExpandRows(parseRecords(t, tt.input), DefaultMaxDepth)
			if len(rows) != tt.want {
				t.Errorf("got %d rows, want %d", len(rows), tt.want)
			}
		})
	}
}

func TestSiblingArraysZip(t *testing.T) {
	recs := parseRecords(t, `[{
		"a": [{"v": 1}, {"v": 2}, {"v": 3}],
		"b": [{"w": "p"}],
		"id": 7
	}]`)
	tbl := Transform(recs, DefaultOptions())

	want := []map[string]string{
		{"a.v": "1", "b.w": "p", "id": "7"},
		{"a.v": "2", "b.w": "-", "id": "7"},
		{"a.v": "3", "b.w": "-", "id": "7"},
	}
	if diff := cmp.Diff(want, cellText(tbl.Rows)); diff != "" {
		t.Errorf("cells mismatch (-want +got):\n%s", diff)
	}

	wantSpans := []map[string]int{{"id": 3}, {"id": 0}, {"id": 0}}
	if diff := cmp.Diff(wantSpans, spanCounts(tbl.Rows)); diff != "" {
		t.Errorf("zipped columns must not merge (-want +got):\n%s", diff)
	}
}

func TestSiblingArraysZipByElement(t *testing.T) {
	recs := parseRecords(t, `[{
		"a": [{"x": 1, "n": [{"s": "p"}, {"s": "q"}]}, {"x": 2}],
		"b": [{"y": "b0"}, {"y": "b1"}]
	}]`)
	tbl := Transform(recs, DefaultOptions())

	want := []map[string]string{
		{"a.n.s": "p", "a.x": "1", "b.y": "b0"},
		{"a.n.s": "q", "a.x": "1", "b.y": "b0"},
		{"a.n.s": "-", "a.x": "2", "b.y": "b1"},
	}
	if diff := cmp.Diff(want, cellText(tbl.Rows)); diff != "" {
		t.Errorf("cells mismatch (-want +got):\n%s", diff)
	}

	t.Run("both sides fan out", func(t *testing.T) {
		recs := parseRecords(t, `[{
			"a": [{"n": [{"s": "p"}, {"s": "q"}, {"s": "r"}]}],
			"b": [{"m": [{"z": 1}, {"z": 2}]}]
		}]`)
		tbl := Transform(recs, DefaultOptions())
		want := []map[string]string{
			{"a.n.s": "p", "b.m.z": "1"},
			{"a.n.s": "q", "b.m.z": "2"},
			{"a.n.s": "r", "b.m.z": "-"},
		}
		if diff := cmp.Diff(want, cellText(tbl.Rows)); diff != "" {
			t.Errorf("cells mismatch (-want +got):\n%s", diff)
		}
	})
}

func TestEmptyArrayPolicy(t *testing.T) {
	input := `[{"id": 1, "tags": []}, {"id": 2, "tags": [{"t": "x"}]}]`

	t.Run("keep", func(t *testing.T) {
		tbl := Transform(parseRecords(t, input), DefaultOptions())
		if len(tbl.Rows) != 2 {
			t.Fatalf("got %d rows, want 2", len(tbl.Rows))
		}
		row := tbl.Rows[0]
		if got := NewFormatter("en").Format(row.Cell("id")); got != "1" {
			t.Errorf("id = %q, want 1", got)
		}
		if v := row.Cells["tags"].Value; !v.IsArray() || v.Len() != 0 {
			t.Errorf("tags = %v, want empty array", v)
		}
		if got := NewFormatter("en").FormatValue(row.Cells["tags"].Value); got != "[array, 0 items]" {
			t.Errorf("tags text = %q", got)
		}
	})

	t.Run("drop", func(t *testing.T) {
		opts := DefaultOptions()
		opts.EmptyArrays = EmptyArraysDrop
		tbl := Transform(parseRecords(t, input), opts)
		if len(tbl.Rows) != 1 {
			t.Fatalf("got %d rows, want 1", len(tbl.Rows))
		}
		if tbl.Rows[0].Source != 1 {
			t.Errorf("remaining row source = %d, want 1", tbl.Rows[0].Source)
		}
	})

	t.Run("drop with empty driver", func(t *testing.T) {
		opts := DefaultOptions()
		opts.EmptyArrays = EmptyArraysDrop
		recs := parseRecords(t, `[{"a": [], "b": [{"y": 1}, {"y": 2}], "id": 9}]`)
		if rows := Transform(recs, opts).Rows; len(rows) != 0 {
			t.Errorf("got %d rows, want 0: an empty first array drives the record", len(rows))
		}
	})
}

func TestParseEmptyArrayPolicy(t *testing.T) {
	for in, want := range map[string]EmptyArrayPolicy{"": EmptyArraysKeep, "keep": EmptyArraysKeep, "drop": EmptyArraysDrop} {
		got, ok := ParseEmptyArrayPolicy(in)
		if !ok || got != want {
			t.Errorf("ParseEmptyArrayPolicy(%q) = %v, %v", in, got, ok)
		}
	}
	if _, ok := ParseEmptyArrayPolicy("explode"); ok {
		t.Error("unknown policy should not parse")
	}
}

func TestMergeCoverage(t *testing.T) {
	recs := parseRecords(t, `[
		{"id": 1, "meta": {"owner": "o", "tier": 2}, "rows": [{"v": 1}, {"v": 2}, {"v": 3}, {"v": 4}]},
		{"id": 2, "meta": {"owner": "o", "tier": 2}, "rows": [{"v": 5}, {"v": 6}]}
	]`)
	tbl := Transform(recs, DefaultOptions())

	blocks := map[int][]Row{}
	for _, r := range tbl.Rows {
		blocks[r.Source] = append(blocks[r.Source], r)
	}

	for src, block := range blocks {
		k := len(block)
		for _, path := range []string{"id", "meta.owner", "meta.tier"} {
			heads, suppressed := 0, 0
			for _, r := range block {
				switch s := r.Span(path); {
				case s.IsHead():
					heads++
					if s.Rows() != k {
						t.Errorf("record %d %s: head spans %d, want %d", src, path, s.Rows(), k)
					}
				case s.IsSuppressed():
					suppressed++
				}
			}
			if heads != 1 || suppressed != k-1 {
				t.Errorf("record %d %s: %d heads, %d suppressed; want 1, %d", src, path, heads, suppressed, k-1)
			}
		}
		for _, r := range block {
			if r.Span("rows.v").IsMerged() {
				t.Errorf("record %d: driving column merged", src)
			}
		}
	}

	// Group column takes the span its leaves share.
	if got := tbl.Rows[0].Span("meta"); got != Head(4) {
		t.Errorf("meta span = %v, want head(4)", got)
	}
	if got := tbl.Rows[0].Span("rows"); got.IsMerged() {
		t.Errorf("rows group span = %v, want none", got)
	}
}

func TestNoCrossRecordBleed(t *testing.T) {
	recs := parseRecords(t, `[
		{"id": "same", "x": [{"v": 1}, {"v": 2}]},
		{"id": "same", "x": [{"v": 1}, {"v": 2}]},
		{"id": "same"},
		{"id": "same"}
	]`)
	tbl := Transform(recs, DefaultOptions())

	want := []map[string]int{
		{"id": 2}, {"id": 0},
		{"id": 2}, {"id": 0},
		{}, {},
	}
	if diff := cmp.Diff(want, spanCounts(tbl.Rows)); diff != "" {
		t.Errorf("spans mismatch (-want +got):\n%s", diff)
	}
}

func TestGroupSpanDisagreement(t *testing.T) {
	cols := []Column{
		{Path: "g", Children: []Column{{Path: "g.a"}, {Path: "g.b"}}},
		{Path: "arr", Children: []Column{{Path: "arr.v"}}},
	}
	rows := []Row{
		{Source: 0, Index: 0, Cells: map[string]Cell{}, Fanned: []string{"arr", "g.b"}},
		{Source: 0, Index: 1, Cells: map[string]Cell{}, Fanned: []string{"arr", "g.b"}},
	}

	out := ApplyMerges(cols, rows)
	if got := out[0].Span("g.a"); got != Head(2) {
		t.Errorf("g.a = %v, want head(2)", got)
	}
	if got := out[0].Span("g"); got.IsMerged() {
		t.Errorf("g = %v, want none when children disagree", got)
	}
	if rows[0].Spans != nil {
		t.Error("ApplyMerges modified its input")
	}
}

func TestTransformDoesNotMutateInput(t *testing.T) {
	recs := parseRecords(t, `[{"id": 1, "o": {"a": 1}, "tags": [{"t": "x"}, {"t": "y"}]}]`)
	before := jsonvalue.Obj(recs[0])

	_ = Transform(recs, DefaultOptions())

	if !jsonvalue.Obj(recs[0]).Equal(before) {
		t.Error("Transform modified its input")
	}
	if len(recs[0]) != 3 {
		t.Errorf("record has %d keys after Transform, want 3", len(recs[0]))
	}
}

func TestEveryRowHasEveryLeaf(t *testing.T) {
	recs := parseRecords(t, `[
		{"a": 1, "x": [{"p": 1}, {"q": 2}]},
		{"b": {"c": null}},
		{}
	]`)
	tbl := Transform(recs, DefaultOptions())
	for i, r := range tbl.Rows {
		for _, path := range LeafPaths(tbl.Columns) {
			if _, ok := r.Cells[path]; !ok {
				t.Errorf("row %d lacks cell %s", i, path)
			}
		}
	}
}

func TestRowKey(t *testing.T) {
	recs := parseRecords(t, `[
		{"id": "a", "tags": [{"t": "x"}, {"t": "y"}]},
		{"key": 9},
		{"name": "anon"},
		{"id": null, "key": "k"}
	]`)
	tbl := Transform(recs, DefaultOptions())

	var got []string
	for i, r := range tbl.Rows {
		got = append(got, RowKey(r, i))
	}
	want := []string{"a#0", "a#1", "9", "3", "k"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("keys mismatch (-want +got):\n%s", diff)
	}
}

func TestFormatter(t *testing.T) {
	obj := jsonvalue.Obj(jsonvalue.Object{"a": jsonvalue.Int(1)})
	tests := []struct {
		name   string
		locale string
		v      jsonvalue.Value
		want   string
	}{
		{"null", "en", jsonvalue.Null(), "-"},
		{"true en", "en", jsonvalue.Bool(true), "yes"},
		{"false en", "en-GB", jsonvalue.Bool(false), "no"},
		{"true de", "de-AT", jsonvalue.Bool(true), "ja"},
		{"false ja", "ja", jsonvalue.Bool(false), "いいえ"},
		{"unknown locale", "xx-invalid", jsonvalue.Bool(true), "yes"},
		{"object array", "en", jsonvalue.Array(obj, obj), "[object array, 2 items]"},
		{"array", "en", jsonvalue.Array(jsonvalue.String("a")), "[array, 1 items]"},
		{"object", "en", obj, "[object]"},
		{"number", "en", jsonvalue.Number("12345678901234567890"), "12345678901234567890"},
		{"string", "en", jsonvalue.String("hello"), "hello"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NewFormatter(tt.locale).FormatValue(tt.v); got != tt.want {
				t.Errorf("FormatValue(%v) = %q, want %q", tt.v, got, tt.want)
			}
		})
	}

	var zero Formatter
	if got := zero.FormatValue(jsonvalue.Bool(true)); got != "yes" {
		t.Errorf("zero Formatter bool = %q, want yes", got)
	}
}

func TestHeaderDepth(t *testing.T) {
	recs := parseRecords(t, `[{"a": 1, "b": {"c": {"d": 1}}}]`)
	tbl := Transform(recs, DefaultOptions())
	if got := tbl.HeaderDepth(); got != 3 {
		t.Errorf("HeaderDepth() = %d, want 3", got)
	}
	if got := len(tbl.Leaves()); got != 2 {
		t.Errorf("Leaves() = %d, want 2", got)
	}
}

func TestSpanRowSpan(t *testing.T) {
	if NotMerged.RowSpan() != 1 || Suppressed.RowSpan() != 0 || Head(4).RowSpan() != 4 {
		t.Error("RowSpan mapping wrong")
	}
	var zero Span
	if zero != NotMerged {
		t.Error("zero Span should be NotMerged")
	}
}

func TestTableJSONRoundTrip(t *testing.T) {
	recs := parseRecords(t, `[
		{"id": "a", "big": 12345678901234567890, "tags": [{"t": "x"}, {"t": "y"}]},
		{"id": "b", "extra": true}
	]`)
	tbl := Transform(recs, DefaultOptions())

	data, err := json.Marshal(tbl)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var back Table
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}

	if diff := cmp.Diff(tbl.Columns, back.Columns); diff != "" {
		t.Errorf("columns mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(cellText(tbl.Rows), cellText(back.Rows)); diff != "" {
		t.Errorf("cells mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(spanCounts(tbl.Rows), spanCounts(back.Rows)); diff != "" {
		t.Errorf("spans mismatch (-want +got):\n%s", diff)
	}
	if !back.Rows[2].Cells["tags.t"].Missing {
		t.Error("missing marker lost in round trip")
	}
	if want, got := tbl.Rows[0].Cells["big"].Value, back.Rows[0].Cells["big"].Value; !got.Equal(want) {
		t.Errorf("big = %v, want %v", got, want)
	}
}
