// Package cli implements the gridshape command-line interface.
//
// The commands turn JSON documents into tables. Input comes from a file
// path, a URL or standard input ("-", the default):
//
//   - flatten: write the table as json, csv, html, xlsx, text, dot or svg
//   - schema: print the column tree as an outline or a Graphviz diagram
//   - preview: print the first rows as a terminal table
//   - browse: page through the table interactively
//   - export: load the rows into SQLite, PostgreSQL or MongoDB
//   - serve: run the HTTP service
//   - cache: clear or locate the result cache
//
// Every command reads the TOML configuration described in package config;
// flags override it. --verbose switches to debug logging and logs pipeline,
// cache and HTTP events.
package cli

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/codeWuws/th-governance-web-sub002/pkg/buildinfo"
	"github.com/codeWuws/th-governance-web-sub002/pkg/cache"
	"github.com/codeWuws/th-governance-web-sub002/pkg/config"
	"github.com/codeWuws/th-governance-web-sub002/pkg/httputil"
	"github.com/codeWuws/th-governance-web-sub002/pkg/observability"
	"github.com/codeWuws/th-governance-web-sub002/pkg/pipeline"
	"github.com/codeWuws/th-governance-web-sub002/pkg/source"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "gridshape"

	// httpCacheTTL is how long fetched documents are served without revalidation.
	httpCacheTTL = time.Hour
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	config     *config.Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level. At debug level the pipeline,
// cache and HTTP hooks log through the CLI logger.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
	if level <= log.DebugLevel {
		observability.NewLogHooks(c.Logger).Install()
	}
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "gridshape turns nested JSON into tables",
		Long: `gridshape turns nested JSON records into tables with grouped column headers.

Nested objects become column groups, arrays of objects fan a record out into
one row per element, and values shared by those rows are merged.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			_, err := c.loadConfig()
			return err
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $"+config.EnvConfig+" or the user config dir)")

	// Register all subcommands
	root.AddCommand(c.flattenCommand())
	root.AddCommand(c.schemaCommand())
	root.AddCommand(c.previewCommand())
	root.AddCommand(c.browseCommand())
	root.AddCommand(c.exportCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig reads the configuration once and reports unknown keys.
func (c *CLI) loadConfig() (*config.Config, error) {
	if c.config != nil {
		return c.config, nil
	}
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return nil, err
	}
	if cfg.Path != "" {
		c.Logger.Debug("loaded config", "path", cfg.Path)
	}
	for _, key := range cfg.Warnings {
		printWarning("unknown config key %q in %s", key, cfg.Path)
	}
	c.config = cfg
	return cfg, nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, err
	}
	store, err := newCache(ctx, cfg, noCache)
	if err != nil {
		return nil, err
	}
	runner := pipeline.NewRunner(store, nil, c.Logger)
	runner.TTL = cfg.Cache.TTL.Duration
	return runner, nil
}

// newCache opens the configured result cache: Redis when cache.redis_url
// is set, otherwise a file cache.
func newCache(ctx context.Context, cfg *config.Config, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	if cfg.Cache.RedisURL != "" {
		rc, err := cache.NewRedisCache(ctx, cfg.Cache.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("open redis cache: %w", err)
		}
		return rc, nil
	}
	return cache.NewFileCache(cacheDir(cfg))
}

// cacheDir returns the configured cache directory or cache.DefaultDir().
func cacheDir(cfg *config.Config) string {
	if cfg.Cache.Dir != "" {
		return cfg.Cache.Dir
	}
	return cache.DefaultDir()
}

// =============================================================================
// Input
// =============================================================================

// readInput reads the document named by the first argument, or the
// command's stdin. Remote documents are cached under the cache directory
// unless noCache.
func (c *CLI) readInput(cmd *cobra.Command, args []string, noCache bool) ([]byte, string, error) {
	ctx := cmd.Context()
	location := source.Stdin
	if len(args) > 0 {
		location = args[0]
	}

	opts := source.Options{Stdin: cmd.InOrStdin()}
	if source.Kind(location) == "http" {
		client := &httputil.Client{}
		if !noCache {
			cfg, err := c.loadConfig()
			if err != nil {
				return nil, "", err
			}
			if hc, err := httputil.NewCache(filepath.Join(cacheDir(cfg), "http"), httpCacheTTL); err == nil {
				client.Cache = hc
			} else {
				c.Logger.Warn("http cache disabled", "error", err)
			}
		}
		opts.Client = client

		sp := startSpinner(ctx, "Fetching "+location+"...")
		data, err := source.Read(ctx, location, opts)
		if err != nil {
			sp.fail("Fetch failed")
			return nil, "", err
		}
		sp.stop()
		return data, location, nil
	}

	data, err := source.Read(ctx, location, opts)
	if err != nil {
		return nil, "", err
	}
	return data, location, nil
}

// =============================================================================
// Options Helpers
// =============================================================================

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatJSON}
	}
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

// inputBase returns the input file name without directory and extension,
// or "table" for stdin and URLs without a usable name.
func inputBase(location string) string {
	if source.Kind(location) == "stdin" {
		return "table"
	}
	base := filepath.Base(strings.TrimRight(location, "/"))
	base = strings.TrimSuffix(base, filepath.Ext(base))
	if i := strings.IndexAny(base, "?#"); i >= 0 {
		base = base[:i]
	}
	if base == "" || base == "." || base == "/" {
		return "table"
	}
	return base
}
