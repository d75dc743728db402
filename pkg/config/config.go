package config

import (
	stderrors "errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/labelsheet/pkg/barcode"
	"github.com/matzehuels/labelsheet/pkg/cache"
	"github.com/matzehuels/labelsheet/pkg/errors"
	"github.com/matzehuels/labelsheet/pkg/inventory/mongostore"
	"github.com/matzehuels/labelsheet/pkg/layout"
	"github.com/matzehuels/labelsheet/pkg/render"
	"github.com/matzehuels/labelsheet/pkg/render/sink"
	"github.com/matzehuels/labelsheet/pkg/sheet"
)

// Environment variables read by [Config.ApplyEnv].
const (
	EnvInventoryURL = "LABELSHEET_INVENTORY_URL"
	EnvRedisAddr    = "LABELSHEET_REDIS_ADDR"
	EnvMongoURI     = "LABELSHEET_MONGO_URI"
	EnvServerAddr   = "LABELSHEET_ADDR"
)

// Defaults that are not owned by another package.
const (
	DefaultInventoryURL = "http://localhost:5000"
	DefaultServerAddr   = ":8080"
	DefaultMaxRecords   = 10000
)

// Config is the full set of file-configurable settings.
type Config struct {
	Grid      layout.GridConfig `toml:"grid"`
	Label     sheet.LabelStyle  `toml:"label"`
	Render    RenderConfig      `toml:"render"`
	Inventory InventoryConfig   `toml:"inventory"`
	Mongo     mongostore.Config `toml:"mongo"`
	Cache     CacheConfig       `toml:"cache"`
	Server    ServerConfig      `toml:"server"`
}

// RenderConfig selects output formats and page setup.
type RenderConfig struct {
	Symbology string   `toml:"symbology"`
	Formats   []string `toml:"formats"`
	PageSize  string   `toml:"page_size"` // name ("A4") or "WxH" in mm
	CutGuides bool     `toml:"cut_guides"`
	DPI       float64  `toml:"dpi"`
	Workers   int      `toml:"workers"` // 0 uses every CPU
	Title     string   `toml:"title"`
}

// InventoryConfig points at the inventory REST API.
type InventoryConfig struct {
	URL string `toml:"url"`
}

// CacheConfig selects the artifact cache backend. A Redis address takes
// precedence over the directory.
type CacheConfig struct {
	Dir   string            `toml:"dir"`
	TTL   Duration          `toml:"ttl"`
	Redis cache.RedisConfig `toml:"redis"`
}

// ServerConfig configures `labelsheet serve`.
type ServerConfig struct {
	Addr       string `toml:"addr"`
	MaxRecords int    `toml:"max_records"`
}

// Duration is a time.Duration written as a Go duration string ("168h").
type Duration struct {
	time.Duration
}

// UnmarshalText parses a duration string.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "invalid duration %q", text)
	}
	d.Duration = v
	return nil
}

// MarshalText formats the duration.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Grid:  layout.DefaultGrid(),
		Label: sheet.DefaultStyle(),
		Render: RenderConfig{
			Symbology: string(barcode.DefaultSymbology),
			Formats:   []string{render.FormatPDF},
			PageSize:  layout.DefaultPageSize.String(),
			DPI:       sink.DefaultDPI,
		},
		Inventory: InventoryConfig{URL: DefaultInventoryURL},
		Mongo: mongostore.Config{
			Database:   mongostore.DefaultDatabase,
			Collection: mongostore.DefaultCollection,
		},
		Cache:  CacheConfig{TTL: Duration{cache.TTLArtifact}},
		Server: ServerConfig{Addr: DefaultServerAddr, MaxRecords: DefaultMaxRecords},
	}
}

// Dir returns the labelsheet config directory.
func Dir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "labelsheet"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "labelsheet"), nil
}

// DefaultPath returns the config file read when --config is not given.
func DefaultPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// Load reads the config file at path on top of [Default]. An empty path
// reads [DefaultPath] and tolerates its absence; an explicit path must
// exist.
func Load(path string) (*Config, error) {
	cfg := Default()
	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return cfg, nil
		}
		path = p
	}

	meta, err := toml.DecodeFile(path, cfg)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			if explicit {
				return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "config file %s", path)
			}
			return Default(), nil
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, errors.New(errors.ErrCodeInvalidConfig, "%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	return cfg, nil
}

// Decode reads TOML from r on top of [Default].
func Decode(r io.Reader) (*Config, error) {
	cfg := Default()
	if _, err := toml.NewDecoder(r).Decode(cfg); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config")
	}
	return cfg, nil
}

// ApplyEnv overrides settings from the environment. getenv is usually
// os.Getenv.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if v := getenv(EnvInventoryURL); v != "" {
		c.Inventory.URL = v
	}
	if v := getenv(EnvRedisAddr); v != "" {
		c.Cache.Redis.Addr = v
	}
	if v := getenv(EnvMongoURI); v != "" {
		c.Mongo.URI = v
	}
	if v := getenv(EnvServerAddr); v != "" {
		c.Server.Addr = v
	}
}

// PageSize resolves the configured page size.
func (c *Config) PageSize() (layout.PageSize, error) {
	if c.Render.PageSize == "" {
		return layout.DefaultPageSize, nil
	}
	return layout.ParsePageSize(c.Render.PageSize)
}

// Symbology resolves the configured symbology.
func (c *Config) Symbology() (barcode.Symbology, error) {
	return barcode.ParseSymbology(c.Render.Symbology)
}

// Workers returns the encoding parallelism, resolving 0 to the CPU count.
func (c *Config) Workers() int {
	if c.Render.Workers > 0 {
		return c.Render.Workers
	}
	return runtime.GOMAXPROCS(0)
}

// Validate checks every section that can be checked without I/O.
func (c *Config) Validate() error {
	if err := c.Grid.Validate(); err != nil {
		return err
	}
	if err := c.Label.Validate(c.Grid); err != nil {
		return err
	}
	if _, err := c.Symbology(); err != nil {
		return err
	}
	if _, err := c.PageSize(); err != nil {
		return err
	}
	for _, f := range c.Render.Formats {
		if _, err := render.ParseFormat(f); err != nil {
			return err
		}
	}
	if !(c.Render.DPI >= 0) || c.Render.DPI > sink.MaxDPI {
		return errors.New(errors.ErrCodeInvalidConfig, "dpi must be between 0 and %v, got %v", sink.MaxDPI, c.Render.DPI)
	}
	if c.Inventory.URL != "" {
		if err := errors.ValidateURL(c.Inventory.URL); err != nil {
			return err
		}
	}
	if c.Cache.TTL.Duration < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "cache ttl must not be negative")
	}
	return nil
}

// Write encodes c as TOML.
func (c *Config) Write(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}

// Save writes c to path, creating parent directories.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "create config dir")
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "create %s", path)
	}
	if err := c.Write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
