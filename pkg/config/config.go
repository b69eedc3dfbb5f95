// Package config loads chartlayout settings from a TOML file.
//
// # Overview
//
// A configuration file overrides the engine defaults of [axis], [legend] and
// [radial], selects the cache backend and registers extra font files:
//
//	[fonts]
//	default = "Segoe UI"
//
//	[[fonts.file]]
//	name = "Segoe UI"
//	path = "/usr/share/fonts/segoeui.ttf"
//
//	[axis]
//	max_horizontal_skip = 4
//
//	[cache]
//	backend = "redis"
//	redis_addr = "localhost:6379"
//	ttl = "24h"
//
// Keys that are absent keep their default, so an empty file is valid.
//
// [axis]: github.com/matzehuels/chartlayout/pkg/layout/axis
// [legend]: github.com/matzehuels/chartlayout/pkg/layout/legend
// [radial]: github.com/matzehuels/chartlayout/pkg/layout/radial
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/chartlayout/pkg/cache"
	"github.com/matzehuels/chartlayout/pkg/errors"
	"github.com/matzehuels/chartlayout/pkg/fonts"
	"github.com/matzehuels/chartlayout/pkg/layout/axis"
	"github.com/matzehuels/chartlayout/pkg/layout/legend"
	"github.com/matzehuels/chartlayout/pkg/layout/radial"
	"github.com/matzehuels/chartlayout/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// AppName names the configuration and cache directories.
	AppName = "chartlayout"

	// FileName is the configuration file name inside the config directory.
	FileName = "config.toml"

	// DefaultAddr is the listen address of the HTTP service.
	DefaultAddr = ":8080"

	// DefaultTTL is how long cached layouts live.
	DefaultTTL = 24 * time.Hour
)

// =============================================================================
// Config - File Schema
// =============================================================================

// Config is the decoded configuration file.
type Config struct {
	Fonts  Fonts          `toml:"fonts"`
	Axis   axis.Options   `toml:"axis"`
	Legend legend.Style   `toml:"legend"`
	Radial radial.Options `toml:"radial"`
	Cache  Cache          `toml:"cache"`
	Server Server         `toml:"server"`

	// Path is the file the configuration was read from, empty for defaults.
	Path string `toml:"-"`
}

// Fonts selects the default family and registers font files.
type Fonts struct {
	Default string     `toml:"default"`
	Files   []FontFile `toml:"file"`
}

// FontFile is a TrueType or OpenType file registered under Name.
type FontFile struct {
	Name string `toml:"name"`
	Path string `toml:"path"`
}

// Cache configures the layout cache backend.
type Cache struct {
	Backend   string   `toml:"backend"`
	Dir       string   `toml:"dir"`
	TTL       Duration `toml:"ttl"`
	Prefix    string   `toml:"prefix"`
	RedisAddr string   `toml:"redis_addr"`
	RedisPass string   `toml:"redis_password"`
	RedisDB   int      `toml:"redis_db"`
	MongoURI  string   `toml:"mongo_uri"`
	MongoDB   string   `toml:"mongo_database"`
}

// Server configures the HTTP service.
type Server struct {
	Addr         string   `toml:"addr"`
	ReadTimeout  Duration `toml:"read_timeout"`
	WriteTimeout Duration `toml:"write_timeout"`
	MaxBodyBytes int64    `toml:"max_body_bytes"`
}

// Duration decodes TOML strings such as "90s" or "24h".
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
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

// =============================================================================
// Defaults & Loading
// =============================================================================

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Fonts:  Fonts{Default: fonts.DefaultFamily},
		Axis:   axis.DefaultOptions(),
		Legend: legend.DefaultStyle(),
		Radial: radial.DefaultOptions(),
		Cache: Cache{
			Backend: cache.BackendFile,
			TTL:     Duration{DefaultTTL},
		},
		Server: Server{
			Addr:         DefaultAddr,
			ReadTimeout:  Duration{30 * time.Second},
			WriteTimeout: Duration{60 * time.Second},
			MaxBodyBytes: 4 << 20,
		},
	}
}

// Load reads path on top of the defaults. An empty path tries [DefaultPath]
// and returns the defaults when that file does not exist.
func Load(path string) (Config, error) {
	cfg := Default()
	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return cfg, nil
		}
		path = p
	}

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) && !explicit {
			return cfg, nil
		}
		return cfg, errors.Wrap(errors.ErrCodeFileNotFound, err, "config file %s", path)
	}

	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	if err := checkUndecoded(md, path); err != nil {
		return cfg, err
	}
	cfg.Path = path
	return cfg, cfg.Validate()
}

// Parse decodes configuration text on top of the defaults.
func Parse(data string) (Config, error) {
	cfg := Default()
	md, err := toml.Decode(data, &cfg)
	if err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config")
	}
	if err := checkUndecoded(md, "config"); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

// checkUndecoded rejects keys that map to no field, which are almost always typos.
func checkUndecoded(md toml.MetaData, source string) error {
	undecoded := md.Undecoded()
	if len(undecoded) == 0 {
		return nil
	}
	keys := make([]string, len(undecoded))
	for i, k := range undecoded {
		keys[i] = k.String()
	}
	return errors.New(errors.ErrCodeInvalidConfig, "unknown keys in %s: %s", source, strings.Join(keys, ", "))
}

// Validate checks value ranges.
func (c Config) Validate() error {
	if err := errors.ValidateFontSize(c.Legend.FontSize); err != nil {
		return fmt.Errorf("legend: %w", err)
	}
	if err := errors.ValidateFontSize(c.Radial.FontSize); err != nil {
		return fmt.Errorf("radial: %w", err)
	}
	if c.Axis.Padding < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "axis.padding must not be negative")
	}
	if c.Legend.MaxSideFraction < 0 || c.Legend.MaxSideFraction > 1 {
		return errors.New(errors.ErrCodeInvalidConfig, "legend.max_side_fraction must be within [0, 1]")
	}
	if c.Radial.Fit.MinFontSize < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "radial.fit.min_font_size must not be negative")
	}
	switch strings.ToLower(c.Cache.Backend) {
	case "", cache.BackendFile, cache.BackendRedis, cache.BackendMongo, cache.BackendNone:
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "cache.backend %q (must be file, redis, mongo or none)", c.Cache.Backend)
	}
	for _, f := range c.Fonts.Files {
		if f.Name == "" || f.Path == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "fonts.file entries need name and path")
		}
	}
	return nil
}

// =============================================================================
// Paths
// =============================================================================

// Dir returns the configuration directory using the XDG standard
// (~/.config/chartlayout/).
func Dir() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, AppName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", AppName), nil
}

// DefaultPath returns the configuration file looked up when --config is unset.
func DefaultPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, FileName), nil
}

// =============================================================================
// Wiring
// =============================================================================

// RegisterFonts loads the configured font files into reg.
func (c Config) RegisterFonts(reg *fonts.Registry) error {
	for _, f := range c.Fonts.Files {
		if err := reg.RegisterFile(f.Name, f.Path); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidFont, err, "register font %q", f.Name)
		}
	}
	return nil
}

// CacheOptions converts the cache section for [cache.Open].
func (c Config) CacheOptions() cache.Options {
	return cache.Options{
		Backend: c.Cache.Backend,
		TTL:     c.Cache.TTL.Duration,
		Dir:     c.Cache.Dir,
		Redis: cache.RedisOptions{
			Addr:     c.Cache.RedisAddr,
			Password: c.Cache.RedisPass,
			DB:       c.Cache.RedisDB,
			Prefix:   c.Cache.Prefix,
		},
		Mongo: cache.MongoOptions{
			URI:      c.Cache.MongoURI,
			Database: c.Cache.MongoDB,
		},
	}
}

// LegendStyle returns the legend style with the default font family applied.
func (c Config) LegendStyle() legend.Style {
	s := c.Legend
	if s.FontFamily == "" {
		s.FontFamily = c.Fonts.Default
	}
	return s
}

// RadialOptions returns the radial options with the default font family applied.
func (c Config) RadialOptions() radial.Options {
	o := c.Radial
	if o.FontFamily == "" {
		o.FontFamily = c.Fonts.Default
	}
	return o
}

// Settings returns the pipeline settings described by the configuration.
func (c Config) Settings() pipeline.Settings {
	s := pipeline.DefaultSettings()
	s.FontFamily = c.Fonts.Default
	s.Axis = c.Axis
	s.Legend = c.LegendStyle()
	s.Radial = c.RadialOptions()
	return s
}
