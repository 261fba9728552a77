// Package sqlite exports tables into SQLite databases using the pure-Go
// modernc.org/sqlite driver.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"

	gserrors "github.com/codeWuws/th-governance-web-sub002/pkg/errors"
	"github.com/codeWuws/th-governance-web-sub002/pkg/export"
	"github.com/codeWuws/th-governance-web-sub002/pkg/grid"
)

// maxVariables is SQLite's default SQLITE_MAX_VARIABLE_NUMBER.
const maxVariables = 32766

func init() {
	export.Register("sqlite", New)
}

// Exporter writes tables into one SQLite database.
type Exporter struct {
	db  *sql.DB
	cfg export.Config
}

// New opens the database file named by cfg.DSN.
func New(ctx context.Context, cfg export.Config) (export.Exporter, error) {
	db, err := sql.Open("sqlite", cfg.DSN)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Exporter{db: db, cfg: cfg}, nil
}

// Close closes the database.
func (e *Exporter) Close() error { return e.db.Close() }

// Export creates the table when missing and inserts every row of t in a
// single transaction.
func (e *Exporter) Export(ctx context.Context, name string, t grid.Table) (int, error) {
	if err := gserrors.ValidateTableName(name); err != nil {
		return 0, err
	}
	cols := export.Columns(t)
	names := export.Names(cols)
	rows := export.Values(t, cols, e.cfg.Formatter())

	tx, err := e.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, buildCreateSQL(name, cols)); err != nil {
		return 0, fmt.Errorf("create %s: %w", name, err)
	}

	batch := min(e.cfg.Batch(), maxVariables/len(names))
	n := 0
	for _, chunk := range export.Batches(rows, batch) {
		query, args := buildInsertSQL(name, names, chunk)
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return n, fmt.Errorf("insert into %s: %w", name, err)
		}
		n += len(chunk)
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return n, nil
}

func sqlIdent(id string) string {
	return `"` + strings.ReplaceAll(id, `"`, `""`) + `"`
}

func sqlType(k export.ColumnKind) string {
	switch k {
	case export.KindNumber:
		return "REAL"
	case export.KindBool:
		return "BOOLEAN"
	default:
		return "TEXT"
	}
}

// buildCreateSQL returns the CREATE TABLE IF NOT EXISTS statement for cols.
func buildCreateSQL(table string, cols []export.Column) string {
	var b strings.Builder
	b.WriteString("CREATE TABLE IF NOT EXISTS ")
	b.WriteString(sqlIdent(table))
	b.WriteString(" (")
	b.WriteString(sqlIdent(export.SourceColumn) + " INTEGER NOT NULL, ")
	b.WriteString(sqlIdent(export.IndexColumn) + " INTEGER NOT NULL")
	for _, c := range cols {
		b.WriteString(", ")
		b.WriteString(sqlIdent(c.Name))
		b.WriteByte(' ')
		b.WriteString(sqlType(c.Kind))
	}
	b.WriteString(")")
	return b.String()
}

// buildInsertSQL returns a multi-row INSERT for rows and its arguments.
func buildInsertSQL(table string, columns []string, rows [][]any) (string, []any) {
	colList := make([]string, len(columns))
	for i, c := range columns {
		colList[i] = sqlIdent(c)
	}
	placeholders := "(" + strings.TrimRight(strings.Repeat("?,", len(columns)), ",") + ")"

	var b strings.Builder
	b.WriteString("INSERT INTO ")
	b.WriteString(sqlIdent(table))
	b.WriteString(" (")
	b.WriteString(strings.Join(colList, ", "))
	b.WriteString(") VALUES ")

	args := make([]any, 0, len(rows)*len(columns))
	for i, row := range rows {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(placeholders)
		args = append(args, row...)
	}
	return b.String(), args
}
