// Package export writes transformed tables into databases.
//
// Backends register themselves under a kind from an init function and are
// selected at run time:
//
//	import _ "github.com/codeWuws/th-governance-web-sub002/pkg/export/all"
//
//	exp, err := export.New(ctx, export.Config{Kind: "sqlite", DSN: "out.db"})
//	if err != nil { ... }
//	defer exp.Close()
//	n, err := exp.Export(ctx, "orders", table)
//
// Every row of the table becomes one database row (or document). Merge
// spans are a display concern and do not affect exported data: a value
// merged over three rows is written three times.
package export

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/codeWuws/th-governance-web-sub002/pkg/grid"
	"github.com/codeWuws/th-governance-web-sub002/pkg/observability"
)

// DefaultBatchSize bounds the number of rows sent per statement.
const DefaultBatchSize = 500

// Config selects and configures a backend.
type Config struct {
	// Kind is the registered backend name ("sqlite", "postgres", "mongo").
	Kind string

	// DSN is passed to the backend driver unchanged.
	DSN string

	// Database names the Mongo database. Ignored by SQL backends.
	Database string

	// BatchSize bounds rows per statement. Zero uses DefaultBatchSize.
	BatchSize int

	// Locale selects the formatter used for values written as text.
	Locale string
}

// Formatter returns the formatter for cfg.Locale.
func (cfg Config) Formatter() grid.Formatter {
	return grid.NewFormatter(cfg.Locale)
}

// Batch returns the configured batch size or DefaultBatchSize.
func (cfg Config) Batch() int {
	if cfg.BatchSize > 0 {
		return cfg.BatchSize
	}
	return DefaultBatchSize
}

// Exporter writes tables to one destination.
type Exporter interface {
	// Export writes every row of t into the table or collection name,
	// creating it when missing, and returns the number of rows written.
	Export(ctx context.Context, name string, t grid.Table) (int, error)

	// Close releases connections.
	Close() error
}

// Factory opens an Exporter for cfg.
type Factory func(ctx context.Context, cfg Config) (Exporter, error)

var (
	mu        sync.RWMutex
	factories = map[string]Factory{}
)

// Register makes a backend available under kind. It panics if kind is
// empty, f is nil, or kind is already registered.
func Register(kind string, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if kind == "" {
		panic("export: Register called with empty kind")
	}
	if f == nil {
		panic("export: Register called with nil factory")
	}
	if _, exists := factories[kind]; exists {
		panic(fmt.Sprintf("export: factory already registered for kind=%q", kind))
	}
	factories[kind] = f
}

// Kinds returns the registered backend names in sorted order.
func Kinds() []string {
	mu.RLock()
	defer mu.RUnlock()
	kinds := make([]string, 0, len(factories))
	for k := range factories {
		kinds = append(kinds, k)
	}
	slices.Sort(kinds)
	return kinds
}

// New opens the backend registered under cfg.Kind. The returned Exporter
// reports every export to the observability pipeline hooks.
func New(ctx context.Context, cfg Config) (Exporter, error) {
	if cfg.Kind == "" {
		return nil, fmt.Errorf("export: missing kind")
	}

	mu.RLock()
	f := factories[cfg.Kind]
	mu.RUnlock()

	if f == nil {
		return nil, fmt.Errorf("export: unsupported kind %q (available: %v)", cfg.Kind, Kinds())
	}
	exp, err := f(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("export: open %s: %w", cfg.Kind, err)
	}
	return instrumented{Exporter: exp, kind: cfg.Kind}, nil
}

type instrumented struct {
	Exporter
	kind string
}

func (e instrumented) Export(ctx context.Context, name string, t grid.Table) (int, error) {
	hooks := observability.Pipeline()
	hooks.OnExportStart(ctx, e.kind, name)
	start := time.Now()
	n, err := e.Exporter.Export(ctx, name, t)
	hooks.OnExportComplete(ctx, e.kind, name, n, time.Since(start), err)
	return n, err
}
