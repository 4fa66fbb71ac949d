package blog

import (
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/mariddleh/blog/catalog"
	"github.com/mariddleh/blog/markdown"
)

// EnvPrefix is the prefix of environment variables that override the
// config file, e.g. BLOG_ADDR or BLOG_CONTENT_BASE_URL.
const EnvPrefix = "BLOG_"

// Config holds all configuration for a blog site.
type Config struct {
	Addr string `koanf:"addr"` // Listen address (default ":3000")
	URL  string `koanf:"url"`  // Canonical URL (default "http://localhost:3000")

	// ContentBaseURL fetches post content over HTTP from this base. When
	// empty, content is read from ContentDir or the embedded content files.
	ContentBaseURL string `koanf:"content_base_url"`
	ContentDir     string `koanf:"content_dir"`

	CatalogPath string `koanf:"catalog"`    // YAML catalog; empty uses the built-in posts
	StaticDir   string `koanf:"static_dir"` // Static assets served under /public (default "public")

	FetchTimeout    time.Duration `koanf:"fetch_timeout"`     // Per-fetch deadline (default 10s)
	ContentCacheTTL time.Duration `koanf:"content_cache_ttl"` // Default 5min; negative disables the cache

	// SearchRateLimit caps live search partials per client IP per minute
	// (default 120). Negative disables the limit.
	SearchRateLimit int `koanf:"search_rate_limit"`

	LogLevel string `koanf:"log_level"` // debug, info, warn or error (default info)

	// DisableMetrics turns off /metrics and the request and content
	// counters. The zero Config serves metrics.
	DisableMetrics bool `koanf:"disable_metrics"`
}

// DefaultConfig returns the configuration used when nothing is overridden.
func DefaultConfig() Config {
	var cfg Config
	cfg.setDefaults()
	return cfg
}

func (c *Config) setDefaults() {
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.URL == "" {
		c.URL = "http://localhost:3000"
	}
	if c.StaticDir == "" {
		c.StaticDir = "public"
	}
	if c.FetchTimeout == 0 {
		c.FetchTimeout = 10 * time.Second
	}
	if c.ContentCacheTTL == 0 {
		c.ContentCacheTTL = 5 * time.Minute
	}
	if c.SearchRateLimit == 0 {
		c.SearchRateLimit = 120
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}

// Validate checks that the configuration contains usable values.
func (c *Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("addr is required")
	}
	if err := validateHTTPURL("url", c.URL); err != nil {
		return err
	}
	if c.ContentBaseURL != "" {
		if err := validateHTTPURL("content_base_url", c.ContentBaseURL); err != nil {
			return err
		}
		if c.ContentDir != "" {
			return fmt.Errorf("content_base_url and content_dir are mutually exclusive")
		}
	}
	if c.FetchTimeout < 0 {
		return fmt.Errorf("fetch_timeout must be non-negative")
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid log_level %q: must be one of debug, info, warn, error", c.LogLevel)
	}
	return nil
}

func validateHTTPURL(key, raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid %s %q: scheme must be http or https", key, raw)
	}
	if u.Host == "" {
		return fmt.Errorf("invalid %s %q: missing host", key, raw)
	}
	return nil
}

// LoadConfig reads configuration from the given YAML file, then overlays
// environment variable overrides (BLOG_*). A missing or empty path only
// applies defaults and the environment.
func LoadConfig(path string) (Config, error) {
	k := koanf.New(".")
	cfg := DefaultConfig()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return Config{}, fmt.Errorf("reading config %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return Config{}, fmt.Errorf("accessing config %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil); err != nil {
		return Config{}, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	cfg.setDefaults()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Option configures additional App behavior.
type Option func(*App)

// WithCatalog serves c instead of loading Config.CatalogPath.
func WithCatalog(c *catalog.Catalog) Option {
	return func(a *App) {
		a.Catalog = c
	}
}

// WithContentSource replaces the content source derived from the config.
func WithContentSource(src ContentSource) Option {
	return func(a *App) {
		a.source = src
	}
}

// WithContentFS sets the filesystem holding the posts/ directory. It backs
// the /posts route and, unless a base URL is configured, post content.
func WithContentFS(fsys fs.FS) Option {
	return func(a *App) {
		a.contentFS = fsys
	}
}

// WithConverter replaces the default goldmark converter.
func WithConverter(conv markdown.Converter) Option {
	return func(a *App) {
		a.Converter = conv
	}
}

// WithLogger replaces the logger built from Config.LogLevel.
func WithLogger(l *Logger) Option {
	return func(a *App) {
		a.Logger = l
	}
}

// WithCustomRoutes registers additional routes on the Echo instance.
// The callback runs after the built-in routes are registered.
func WithCustomRoutes(fn func(*App)) Option {
	return func(a *App) {
		a.customRoutes = append(a.customRoutes, fn)
	}
}

// WithStaticDir sets the directory for static assets (default "public").
func WithStaticDir(dir string) Option {
	return func(a *App) {
		a.staticDir = dir
	}
}
