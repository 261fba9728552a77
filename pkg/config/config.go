// Package config loads gridshape configuration files.
//
// Configuration is TOML:
//
//	max_depth    = 5
//	locale       = "zh"
//	empty_arrays = "keep"        # or "drop"
//	select       = "$.data.items"
//
//	[labels]
//	"tags.t" = "Tag"
//
//	[cache]
//	dir       = ""               # default: user cache dir
//	redis_url = ""               # redis://host:6379/0 enables the Redis cache
//	ttl       = "24h"
//
//	[server]
//	addr = ":8080"
//
// [Load] looks for the file named by --config, then $GRIDSHAPE_CONFIG, then
// $XDG_CONFIG_HOME/gridshape/config.toml. Only an explicitly named file has
// to exist.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/BurntSushi/toml"

	gserrors "github.com/codeWuws/th-governance-web-sub002/pkg/errors"
	"github.com/codeWuws/th-governance-web-sub002/pkg/grid"
)

// EnvConfig names the environment variable holding a config file path.
const EnvConfig = "GRIDSHAPE_CONFIG"

// DefaultAddr is the HTTP service listen address.
const DefaultAddr = ":8080"

// Config is the decoded configuration file. Pointer fields are nil when the
// key is absent so callers can tell "unset" from a zero value.
type Config struct {
	MaxDepth    *int              `toml:"max_depth"`
	Locale      string            `toml:"locale"`
	EmptyArrays string            `toml:"empty_arrays"`
	Select      string            `toml:"select"`
	Labels      map[string]string `toml:"labels"`
	Cache       CacheConfig       `toml:"cache"`
	Server      ServerConfig      `toml:"server"`

	// Path is the file the config was read from, empty for defaults.
	Path string `toml:"-"`

	// Warnings lists keys present in the file but not understood.
	Warnings []string `toml:"-"`
}

// CacheConfig configures the result cache.
type CacheConfig struct {
	Dir      string   `toml:"dir"`
	RedisURL string   `toml:"redis_url"`
	TTL      Duration `toml:"ttl"`
}

// ServerConfig configures the HTTP service.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// Duration decodes TOML strings such as "90s" or "24h".
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Load reads the configuration. explicit is the --config flag value. When
// no file is found the zero Config is returned.
func Load(explicit string) (*Config, error) {
	if explicit != "" {
		return LoadFile(explicit)
	}
	if env := os.Getenv(EnvConfig); env != "" {
		return LoadFile(env)
	}

	path := DefaultPath()
	if path == "" {
		return &Config{}, nil
	}
	cfg, err := LoadFile(path)
	if gserrors.Is(err, gserrors.ErrCodeFileNotFound) {
		return &Config{}, nil
	}
	return cfg, err
}

// DefaultPath returns $XDG_CONFIG_HOME/gridshape/config.toml, or "" when
// no config directory is known.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "gridshape", "config.toml")
}

// LoadFile decodes the file at path and validates it.
func LoadFile(path string) (*Config, error) {
	var cfg Config
	md, err := toml.DecodeFile(path, &cfg)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, gserrors.Wrap(gserrors.ErrCodeFileNotFound, err, "config file not found: %s", path)
	}
	if err != nil {
		return nil, gserrors.Wrap(gserrors.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	cfg.Path = path
	for _, key := range md.Undecoded() {
		cfg.Warnings = append(cfg.Warnings, key.String())
	}
	slices.Sort(cfg.Warnings)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks value ranges and label paths.
func (c *Config) Validate() error {
	if c.MaxDepth != nil && *c.MaxDepth < 0 {
		return gserrors.New(gserrors.ErrCodeInvalidConfig, "max_depth must be >= 0, got %d", *c.MaxDepth)
	}
	if c.EmptyArrays != "" {
		if _, ok := grid.ParseEmptyArrayPolicy(c.EmptyArrays); !ok {
			return gserrors.New(gserrors.ErrCodeInvalidConfig, "empty_arrays must be \"keep\" or \"drop\", got %q", c.EmptyArrays)
		}
	}
	for path := range c.Labels {
		if err := gserrors.ValidateColumnPath(path); err != nil {
			return gserrors.Wrap(gserrors.ErrCodeInvalidConfig, err, "labels")
		}
	}
	if c.Cache.TTL.Duration < 0 {
		return gserrors.New(gserrors.ErrCodeInvalidConfig, "cache.ttl must not be negative")
	}
	return nil
}

// Addr returns the configured listen address or DefaultAddr.
func (c *Config) Addr() string {
	if c.Server.Addr != "" {
		return c.Server.Addr
	}
	return DefaultAddr
}

// LoadLabels reads a label file: a flat TOML table of path = "Title".
//
//	"tags.t" = "Tag"
//	id       = "Order ID"
func LoadLabels(path string) (map[string]string, error) {
	labels := map[string]string{}
	if _, err := toml.DecodeFile(path, &labels); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, gserrors.Wrap(gserrors.ErrCodeFileNotFound, err, "label file not found: %s", path)
		}
		return nil, gserrors.Wrap(gserrors.ErrCodeInvalidConfig, err, "parse label file %s", path)
	}
	for p := range labels {
		if err := gserrors.ValidateColumnPath(p); err != nil {
			return nil, fmt.Errorf("label file %s: %w", path, err)
		}
	}
	return labels, nil
}
