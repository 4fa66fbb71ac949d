// Package blog serves a personal blog: a fixed catalog of posts with
// search, tag and category filtering, single posts rendered from fetched
// markdown, an about page, RSS and a sitemap.
//
// Every request is one page view. The page controller resolves the page
// kind from the path, builds a filter from the query string and renders
// the matching view from package views.
package blog

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/mariddleh/blog/catalog"
	"github.com/mariddleh/blog/markdown"
)

// App is the blog application. It wires together the catalog, content
// source, converter, handlers and middleware.
type App struct {
	Config    Config
	Echo      *echo.Echo
	Catalog   *catalog.Catalog
	Content   *ContentCache
	Converter markdown.Converter
	Logger    *Logger

	source        ContentSource
	contentFS     fs.FS
	registry      *prometheus.Registry
	metrics       *metrics
	searchLimiter *RequestLimiter
	siteHost      string
	customRoutes  []func(*App)
	staticDir     string
	now           func() time.Time
}

// New creates an App ready to serve. Missing collaborators are derived from
// cfg: the catalog from CatalogPath, content from ContentBaseURL, ContentDir
// or the embedded files.
func New(cfg Config, opts ...Option) (*App, error) {
	cfg.setDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("blog: %w", err)
	}

	a := &App{
		Config:    cfg,
		Echo:      echo.New(),
		staticDir: cfg.StaticDir,
		now:       time.Now,
	}
	a.Echo.HideBanner = true
	a.Echo.HidePort = true

	for _, opt := range opts {
		opt(a)
	}

	if a.Logger == nil {
		level, _ := log.ParseLevel(cfg.LogLevel)
		a.Logger = NewLogger(os.Stderr, level)
	}
	if a.Catalog == nil {
		cat, err := catalog.Load(cfg.CatalogPath)
		if err != nil {
			return nil, fmt.Errorf("blog: load catalog: %w", err)
		}
		a.Catalog = cat
	}
	if a.Converter == nil {
		a.Converter = markdown.New()
	}
	if a.contentFS == nil {
		fsys, err := defaultContentFS(cfg.ContentDir)
		if err != nil {
			return nil, fmt.Errorf("blog: content files: %w", err)
		}
		a.contentFS = fsys
	}
	if a.source == nil {
		if cfg.ContentBaseURL != "" {
			a.source = NewHTTPSource(cfg.ContentBaseURL)
		} else {
			a.source = NewFSSource(a.contentFS)
		}
	}

	if u, err := url.Parse(cfg.URL); err == nil {
		a.siteHost = u.Hostname()
	}

	a.registry = prometheus.NewRegistry()
	a.metrics = newMetrics(a.registry)

	a.Content = NewContentCache(a.source, cfg.ContentCacheTTL)
	a.Content.onFetch = func(contentPath string, size int, hit bool) {
		a.metrics.observeFetch(contentPath, size, hit)
		a.Logger.ContentFetched(contentPath, size, hit)
	}

	if cfg.SearchRateLimit > 0 {
		a.searchLimiter = NewRequestLimiter(cfg.SearchRateLimit, time.Minute)
	}

	a.setupMiddleware()
	a.setupRoutes()
	for _, fn := range a.customRoutes {
		fn(a)
	}
	return a, nil
}

func defaultContentFS(dir string) (fs.FS, error) {
	if dir != "" {
		if _, err := os.Stat(dir); err != nil {
			return nil, err
		}
		return os.DirFS(dir), nil
	}
	return fs.Sub(ContentFiles, "content")
}

func (a *App) setupRoutes() {
	e := a.Echo

	e.Static("/public", a.staticDir)
	e.GET("/favicon.svg", a.handleFavicon)
	e.GET("/robots.txt", a.handleRobots)

	// Raw markdown, so /posts/<name>.md resolves for browsers too.
	if posts, err := fs.Sub(a.contentFS, "posts"); err == nil {
		e.StaticFS("/posts", posts)
	}

	e.GET("/sitemap.xml", a.handleSitemap)
	e.GET("/feed.xml", a.handleFeed)
	e.GET("/healthz", a.handleHealthz)
	if !a.Config.DisableMetrics {
		e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{
			Gatherer: a.registry,
		}))
	}

	e.GET("/", a.handlePage)
	e.GET("/:page", a.handlePage)
}

// Start starts the server and blocks until it stops.
func (a *App) Start() error {
	a.Logger.ServerStarting(a.Config.Addr, a.Config.URL, a.Catalog.Len())
	if err := a.Echo.Start(a.Config.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully stops the server.
func (a *App) Shutdown(ctx context.Context) error {
	if err := a.Echo.Shutdown(ctx); err != nil {
		return err
	}
	a.Logger.ServerStopped()
	return nil
}
