package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/codeWuws/th-governance-web-sub002/pkg/export"
	"github.com/codeWuws/th-governance-web-sub002/pkg/grid"
	"github.com/codeWuws/th-governance-web-sub002/pkg/jsonvalue"
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

func TestBuildCreateSQL(t *testing.T) {
	cols := []export.Column{
		{Name: "id", Kind: export.KindNumber},
		{Name: "tags__t", Kind: export.KindText},
		{Name: "ok", Kind: export.KindBool},
	}
	got := buildCreateSQL("orders", cols)
	want := `CREATE TABLE IF NOT EXISTS "orders" ("_source" INTEGER NOT NULL, "_index" INTEGER NOT NULL, "id" REAL, "tags__t" TEXT, "ok" BOOLEAN)`
	if got != want {
		t.Errorf("buildCreateSQL =\n%s\nwant\n%s", got, want)
	}
}

func TestBuildInsertSQL(t *testing.T) {
	query, args := buildInsertSQL("t", []string{"a", `b"c`}, [][]any{{1, "x"}, {2, nil}})
	want := `INSERT INTO "t" ("a", "b""c") VALUES (?,?), (?,?)`
	if query != want {
		t.Errorf("query = %s, want %s", query, want)
	}
	if len(args) != 4 || args[2] != 2 || args[3] != nil {
		t.Errorf("args = %v", args)
	}
}

func TestExport(t *testing.T) {
	ctx := context.Background()
	dsn := filepath.Join(t.TempDir(), "out.db")

	exp, err := New(ctx, export.Config{Kind: "sqlite", DSN: dsn, BatchSize: 1})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer exp.Close()

	tbl := table(t, `[{"id": 1, "ok": true, "tags": [{"t": "x"}, {"t": "y"}]}, {"id": 2, "ok": false, "tags": []}]`)
	n, err := exp.Export(ctx, "orders", tbl)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if n != 3 {
		t.Errorf("exported %d rows, want 3", n)
	}

	db := exp.(*Exporter).db
	var count int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM "orders" WHERE "id" = 1`).Scan(&count); err != nil {
		t.Fatalf("query: %v", err)
	}
	if count != 2 {
		t.Errorf("rows with id 1 = %d, want 2 (merged values repeat)", count)
	}

	var tag string
	if err := db.QueryRowContext(ctx, `SELECT "tags__t" FROM "orders" WHERE "_source" = 0 AND "_index" = 1`).Scan(&tag); err != nil {
		t.Fatalf("query: %v", err)
	}
	if tag != "y" {
		t.Errorf("tags__t = %q, want y", tag)
	}

	// Exporting again appends to the existing table.
	if _, err := exp.Export(ctx, "orders", tbl); err != nil {
		t.Fatalf("second Export: %v", err)
	}
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM "orders"`).Scan(&count); err != nil {
		t.Fatal(err)
	}
	if count != 6 {
		t.Errorf("total rows = %d, want 6", count)
	}
}

func TestExportRejectsBadTableName(t *testing.T) {
	ctx := context.Background()
	exp, err := New(ctx, export.Config{DSN: filepath.Join(t.TempDir(), "x.db")})
	if err != nil {
		t.Fatal(err)
	}
	defer exp.Close()
	if _, err := exp.Export(ctx, "orders; DROP TABLE x", grid.Table{}); err == nil {
		t.Error("expected invalid table name error")
	}
}
