// Package pipeline provides the decode → transform → render pipeline for
// gridshape.
//
// This package implements the complete pipeline that the CLI and the HTTP
// service share. By centralizing this logic, both entry points apply the
// same defaults, validation and caching.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Decode: Parse the JSON input and pick out the records (optionally
//     through a JSONPath selector)
//  2. Transform: Build the column tree, expand rows and compute merge spans
//     with [grid.Transform]
//  3. Render: Write the table in the requested formats with [sink]
//
// Each stage can be run independently or as part of the complete pipeline.
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	opts := pipeline.Options{
//	    Select:  "$.data.items",
//	    Formats: []string{pipeline.FormatHTML, pipeline.FormatXLSX},
//	    Locale:  "de",
//	}
//	result, err := runner.Execute(ctx, input, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	html := result.Artifacts["html"]
//
// [grid.Transform]: https://pkg.go.dev/github.com/codeWuws/th-governance-web-sub002/pkg/grid#Transform
// [sink]: https://pkg.go.dev/github.com/codeWuws/th-governance-web-sub002/pkg/sink
package pipeline

import (
	"io"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/codeWuws/th-governance-web-sub002/pkg/cache"
	gserrors "github.com/codeWuws/th-governance-web-sub002/pkg/errors"
	"github.com/codeWuws/th-governance-web-sub002/pkg/grid"
	"github.com/codeWuws/th-governance-web-sub002/pkg/jsonvalue"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultMaxDepth is the nesting depth expanded when none is configured.
	DefaultMaxDepth = grid.DefaultMaxDepth

	// DefaultLocale selects the boolean words of rendered output.
	DefaultLocale = grid.DefaultLocale
)

// Format constants for output formats.
const (
	FormatJSON = "json"
	FormatCSV  = "csv"
	FormatHTML = "html"
	FormatXLSX = "xlsx"
	FormatText = "text"
	FormatDOT  = "dot"
	FormatSVG  = "svg"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatJSON: true,
	FormatCSV:  true,
	FormatHTML: true,
	FormatXLSX: true,
	FormatText: true,
	FormatDOT:  true,
	FormatSVG:  true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Decode options
	Select string `json:"select,omitempty"` // JSONPath selecting the records

	// Transform options
	MaxDepth    *int              `json:"max_depth,omitempty"`
	EmptyArrays string            `json:"empty_arrays,omitempty"` // "keep" or "drop"
	Labels      map[string]string `json:"labels,omitempty"`

	// Render options
	Formats  []string `json:"formats,omitempty"`
	Locale   string   `json:"locale,omitempty"`
	Collapse bool     `json:"collapse,omitempty"` // blank repeated values in CSV
	Sheet    string   `json:"sheet,omitempty"`    // XLSX worksheet name
	Title    string   `json:"title,omitempty"`    // HTML document title

	// Refresh bypasses cached results.
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`
	Source string      `json:"-"` // input name for logs and hooks

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Depth returns a pointer to n for Options.MaxDepth.
func Depth(n int) *int { return &n }

// Result contains the outputs of a pipeline run.
type Result struct {
	// Table is the transformed table.
	Table grid.Table

	// TableHash is the content hash of the table's JSON form.
	TableHash string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Records       int
	Rows          int
	Columns       int // leaf columns
	HeaderDepth   int
	InputBytes    int
	TransformTime time.Duration // decode and transform
	RenderTime    time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	TableHit  bool // Whether the table came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return gserrors.New(gserrors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: %s)",
			format, strings.Join(slices.Sorted(maps.Keys(ValidFormats)), ", "))
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks every field and applies defaults.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForTransform(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForTransform checks the decode and transform fields and applies
// their defaults.
func (o *Options) ValidateForTransform() error {
	if o.MaxDepth == nil {
		o.MaxDepth = Depth(DefaultMaxDepth)
	}
	if *o.MaxDepth < 0 {
		return gserrors.New(gserrors.ErrCodeInvalidInput, "max_depth must be >= 0, got %d", *o.MaxDepth)
	}
	if o.EmptyArrays != "" {
		if _, ok := grid.ParseEmptyArrayPolicy(o.EmptyArrays); !ok {
			return gserrors.New(gserrors.ErrCodeInvalidInput, "invalid empty_arrays: %q (must be keep or drop)", o.EmptyArrays)
		}
	}
	for path := range o.Labels {
		if err := gserrors.ValidateColumnPath(path); err != nil {
			return err
		}
	}
	if o.Select != "" {
		if _, err := jsonvalue.CompileSelector(o.Select); err != nil {
			return err
		}
	}
	o.setLogger()
	return nil
}

// ValidateForRender checks the render fields and applies their defaults.
func (o *Options) ValidateForRender() error {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatJSON}
	}
	if o.Locale == "" {
		o.Locale = DefaultLocale
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.Sheet != "" {
		if err := gserrors.ValidateSheetName(o.Sheet); err != nil {
			return err
		}
	}
	o.setLogger()
	return nil
}

func (o *Options) setLogger() {
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// GridOptions returns the transform options.
func (o *Options) GridOptions() grid.Options {
	policy, _ := grid.ParseEmptyArrayPolicy(o.EmptyArrays)
	opts := grid.Options{MaxDepth: DefaultMaxDepth, EmptyArrays: policy}
	if o.MaxDepth != nil {
		opts.MaxDepth = *o.MaxDepth
	}
	if len(o.Labels) > 0 {
		opts.Labels = grid.Labels(o.Labels)
	}
	return opts
}

// Formatter returns the cell formatter for o.Locale.
func (o *Options) Formatter() grid.Formatter {
	return grid.NewFormatter(o.Locale)
}

// TableKeyOpts returns cache key options for the transform stage.
func (o *Options) TableKeyOpts() cache.TableKeyOpts {
	g := o.GridOptions()
	return cache.TableKeyOpts{
		Select:      o.Select,
		MaxDepth:    g.MaxDepth,
		EmptyArrays: g.EmptyArrays.String(),
		Labels:      o.Labels,
	}
}

// ArtifactKeyOpts returns cache key options for one rendered format.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format:   format,
		Locale:   o.Formatter().Locale(),
		Collapse: o.Collapse && format == FormatCSV,
		Sheet:    o.sheetFor(format),
		Title:    o.titleFor(format),
	}
}

func (o *Options) sheetFor(format string) string {
	if format == FormatXLSX {
		return o.Sheet
	}
	return ""
}

func (o *Options) titleFor(format string) string {
	if format == FormatHTML {
		return o.Title
	}
	return ""
}
