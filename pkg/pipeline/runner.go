package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/codeWuws/th-governance-web-sub002/pkg/cache"
	"github.com/codeWuws/th-governance-web-sub002/pkg/grid"
	"github.com/codeWuws/th-governance-web-sub002/pkg/observability"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// TTL overrides cache.TTLTable and cache.TTLArtifact when positive.
	TTL time.Duration
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete decode → transform → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, input []byte, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{}
	result.Stats.InputBytes = len(input)

	// Stage 1+2: Decode and transform
	transformStart := time.Now()
	t, tableHit, err := r.TransformWithCacheInfo(ctx, input, opts)
	if err != nil {
		return nil, err
	}
	result.Table = t
	result.Stats.TransformTime = time.Since(transformStart)
	result.Stats.Records = t.Records()
	result.Stats.Rows = len(t.Rows)
	result.Stats.Columns = len(grid.LeafPaths(t.Columns))
	result.Stats.HeaderDepth = t.HeaderDepth()
	result.CacheInfo.TableHit = tableHit

	tableData, err := json.Marshal(t)
	if err != nil {
		return nil, fmt.Errorf("encode table: %w", err)
	}
	result.TableHash = cache.Hash(tableData)

	r.Logger.Info("transformed records",
		"records", result.Stats.Records,
		"rows", result.Stats.Rows,
		"columns", result.Stats.Columns,
		"cached", tableHit,
		"duration", result.Stats.TransformTime)

	// Stage 3: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.renderWithCacheInfo(ctx, t, result.TableHash, opts)
	if err != nil {
		return nil, err
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", renderHit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// TransformWithCacheInfo decodes input and transforms its records, caching
// the table by input hash and transform options. It reports whether the
// table came from the cache.
func (r *Runner) TransformWithCacheInfo(ctx context.Context, input []byte, opts Options) (grid.Table, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForTransform(); err != nil {
		return grid.Table{}, false, err
	}

	cacheKey := r.Keyer.TableKey(cache.Hash(input), opts.TableKeyOpts())

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if data, ok := r.get(ctx, cacheKey); ok {
			var t grid.Table
			if err := json.Unmarshal(data, &t); err == nil {
				return t, true, nil
			}
			r.Logger.Debug("discarding unreadable cache entry", "key", cacheKey)
		}
	}

	records, err := Decode(ctx, input, opts)
	if err != nil {
		return grid.Table{}, false, fmt.Errorf("decode: %w", err)
	}

	hooks := observability.Pipeline()
	hooks.OnTransformStart(ctx, len(records))
	start := time.Now()
	t := grid.Transform(records, opts.GridOptions())
	hooks.OnTransformComplete(ctx, len(t.Rows), len(grid.LeafPaths(t.Columns)), time.Since(start))

	if data, err := json.Marshal(t); err == nil {
		r.set(ctx, cacheKey, data, r.ttl(cache.TTLTable))
	}
	return t, false, nil
}

// Transform is a convenience wrapper that calls TransformWithCacheInfo and discards the cache hit info.
func (r *Runner) Transform(ctx context.Context, input []byte, opts Options) (grid.Table, error) {
	t, _, err := r.TransformWithCacheInfo(ctx, input, opts)
	return t, err
}

// RenderWithCacheInfo renders t in every requested format, caching each
// artifact by table hash and render options.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, t grid.Table, opts Options) (map[string][]byte, bool, error) {
	data, err := json.Marshal(t)
	if err != nil {
		return nil, false, fmt.Errorf("encode table: %w", err)
	}
	return r.renderWithCacheInfo(ctx, t, cache.Hash(data), opts)
}

func (r *Runner) renderWithCacheInfo(ctx context.Context, t grid.Table, tableHash string, opts Options) (map[string][]byte, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}

	artifacts := make(map[string][]byte, len(opts.Formats))
	var missing []string
	for _, format := range opts.Formats {
		if !opts.Refresh {
			if data, ok := r.get(ctx, r.Keyer.ArtifactKey(tableHash, opts.ArtifactKeyOpts(format))); ok {
				artifacts[format] = data
				continue
			}
		}
		missing = append(missing, format)
	}
	if len(missing) == 0 {
		return artifacts, true, nil
	}

	renderOpts := opts
	renderOpts.Formats = missing
	rendered, err := Render(ctx, t, renderOpts)
	if err != nil {
		return nil, false, err
	}
	for format, data := range rendered {
		artifacts[format] = data
		r.set(ctx, r.Keyer.ArtifactKey(tableHash, opts.ArtifactKeyOpts(format)), data, r.ttl(cache.TTLArtifact))
	}
	return artifacts, false, nil
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and discards the cache hit info.
func (r *Runner) Render(ctx context.Context, t grid.Table, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, t, opts)
	return artifacts, err
}

// get reads key from the cache. Backend errors are logged and treated as
// misses so a broken cache never fails a run.
func (r *Runner) get(ctx context.Context, key string) ([]byte, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Warn("cache read failed", "key", key, "error", err)
		return nil, false
	}
	if hit {
		observability.Cache().OnCacheHit(ctx, key)
	} else {
		observability.Cache().OnCacheMiss(ctx, key)
	}
	return data, hit
}

func (r *Runner) set(ctx context.Context, key string, data []byte, ttl time.Duration) {
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		r.Logger.Warn("cache write failed", "key", key, "error", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, key, len(data))
}

func (r *Runner) ttl(def time.Duration) time.Duration {
	if r.TTL > 0 {
		return r.TTL
	}
	return def
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
