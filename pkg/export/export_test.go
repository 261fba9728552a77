package export

import (
	"context"
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/codeWuws/th-governance-web-sub002/pkg/grid"
	"github.com/codeWuws/th-governance-web-sub002/pkg/jsonvalue"
	"github.com/codeWuws/th-governance-web-sub002/pkg/observability"
)

func table(t *testing.T, input string) grid.Table {
	t.Helper()
	doc, err := jsonvalue.Parse([]byte(input))
	if err != nil {
		t.Fatal(err)
	}
	records, err := jsonvalue.Records(doc)
	if err != nil {
		t.Fatal(err)
	}
	return grid.Transform(records, grid.DefaultOptions())
}

func TestColumnName(t *testing.T) {
	tests := map[string]string{
		"id":       "id",
		"tags.t":   "tags__t",
		"a.b.c":    "a__b__c",
		"with_und": "with_und",
	}
	for in, want := range tests {
		if got := ColumnName(in); got != want {
			t.Errorf("ColumnName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestColumnsInferKinds(t *testing.T) {
	tbl := table(t, `[
		{"n": 1, "b": true, "s": "x", "mixed": 1, "big": 12345678901234567890123, "empty": null},
		{"n": 2.5, "b": false, "s": "y", "mixed": "two", "big": 1}
	]`)
	got := Columns(tbl)
	want := []Column{
		{Name: "b", Path: "b", Kind: KindBool},
		{Name: "big", Path: "big", Kind: KindText},
		{Name: "empty", Path: "empty", Kind: KindText},
		{Name: "mixed", Path: "mixed", Kind: KindText},
		{Name: "n", Path: "n", Kind: KindNumber},
		{Name: "s", Path: "s", Kind: KindText},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Columns mismatch (-want +got):\n%s", diff)
	}
}

func TestValues(t *testing.T) {
	tbl := table(t, `[{"id": 1, "ok": true, "list": [1, 2], "tags": [{"t": "x"}, {"t": "y"}]}, {"id": 2, "ok": "maybe"}]`)
	cols := Columns(tbl)
	got := Values(tbl, cols, grid.NewFormatter("de"))

	if diff := cmp.Diff([]string{"_source", "_index", "id", "list", "ok", "tags__t"}, Names(cols)); diff != "" {
		t.Errorf("Names mismatch (-want +got):\n%s", diff)
	}
	want := [][]any{
		{0, 0, float64(1), "[1,2]", "ja", "x"},
		{0, 1, float64(1), "[1,2]", "ja", "y"},
		{1, 0, float64(2), nil, "maybe", nil},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Values mismatch (-want +got):\n%s", diff)
	}
}

func TestBatches(t *testing.T) {
	rows := [][]any{{1}, {2}, {3}, {4}, {5}}
	got := Batches(rows, 2)
	if len(got) != 3 || len(got[0]) != 2 || len(got[2]) != 1 {
		t.Errorf("Batches = %v", got)
	}
	if Batches(nil, 2) != nil {
		t.Error("Batches(nil) should be nil")
	}
}

func TestExactFloat(t *testing.T) {
	tests := []struct {
		lit  string
		want float64
		ok   bool
	}{
		{"1", 1, true},
		{"-2.5", -2.5, true},
		{"1e3", 0, false},
		{"0.1", 0.1, true},
		{"99999999999999999999", 0, false},
	}
	for _, tt := range tests {
		got, ok := ExactFloat(tt.lit)
		if ok != tt.ok || (ok && got != tt.want) {
			t.Errorf("ExactFloat(%q) = %v, %v; want %v, %v", tt.lit, got, ok, tt.want, tt.ok)
		}
	}
}

type fakeExporter struct {
	rows   int
	closed bool
}

func (f *fakeExporter) Export(_ context.Context, _ string, t grid.Table) (int, error) {
	f.rows += len(t.Rows)
	return len(t.Rows), nil
}

func (f *fakeExporter) Close() error { f.closed = true; return nil }

type exportHooks struct {
	observability.NoopPipelineHooks
	kind, target string
	rows         int
}

func (h *exportHooks) OnExportComplete(_ context.Context, kind, target string, rows int, _ time.Duration, _ error) {
	h.kind, h.target, h.rows = kind, target, rows
}

func TestRegistry(t *testing.T) {
	fake := &fakeExporter{}
	Register("fake-test", func(context.Context, Config) (Exporter, error) { return fake, nil })

	if !slices.Contains(Kinds(), "fake-test") {
		t.Errorf("Kinds() = %v, want fake-test", Kinds())
	}

	hooks := &exportHooks{}
	observability.SetPipelineHooks(hooks)
	defer observability.Reset()

	exp, err := New(context.Background(), Config{Kind: "fake-test"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	n, err := exp.Export(context.Background(), "orders", table(t, `[{"a": 1}, {"a": 2}]`))
	if err != nil || n != 2 {
		t.Fatalf("Export = %d, %v", n, err)
	}
	if hooks.kind != "fake-test" || hooks.target != "orders" || hooks.rows != 2 {
		t.Errorf("hooks saw %+v", hooks)
	}
	if err := exp.Close(); err != nil || !fake.closed {
		t.Error("Close should reach the backend")
	}
}

func TestNewErrors(t *testing.T) {
	if _, err := New(context.Background(), Config{}); err == nil {
		t.Error("expected error for empty kind")
	}
	if _, err := New(context.Background(), Config{Kind: "nope"}); err == nil {
		t.Error("expected error for unknown kind")
	}

	boom := errors.New("boom")
	Register("failing-test", func(context.Context, Config) (Exporter, error) { return nil, boom })
	if _, err := New(context.Background(), Config{Kind: "failing-test"}); !errors.Is(err, boom) {
		t.Errorf("err = %v, want wrapped boom", err)
	}
}

func TestRegisterPanics(t *testing.T) {
	f := func(context.Context, Config) (Exporter, error) { return nil, nil }
	Register("dup-test", f)

	for name, fn := range map[string]func(){
		"empty":     func() { Register("", f) },
		"nil":       func() { Register("nil-test", nil) },
		"duplicate": func() { Register("dup-test", f) },
	} {
		t.Run(name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Error("expected panic")
				}
			}()
			fn()
		})
	}
}
