package blog

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/mariddleh/blog/analytics"
)

// Logger wraps charm/log for structured logging.
type Logger struct {
	*log.Logger
}

// NewLogger creates a timestamped logger writing to w at the given level.
func NewLogger(w io.Writer, level log.Level) *Logger {
	l := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.DateTime,
		Level:           level,
	})
	return &Logger{Logger: l}
}

// DiscardLogger returns a logger that discards all output.
func DiscardLogger() *Logger {
	return NewLogger(io.Discard, log.InfoLevel)
}

// ServerStarting logs the listen address before the server starts.
func (l *Logger) ServerStarting(addr, siteURL string, posts int) {
	l.Info("server starting",
		"addr", addr,
		"url", siteURL,
		"posts", posts)
}

// ServerStopped logs a completed shutdown.
func (l *Logger) ServerStopped() {
	l.Info("server stopped")
}

// Request logs one served request.
func (l *Logger) Request(method, uri string, status int, latency time.Duration, requestID string) {
	l.Info("request",
		"method", method,
		"uri", uri,
		"status", status,
		"latency", latency.Round(time.Microsecond),
		"request_id", requestID)
}

// PageView logs the classification of one full page view.
func (l *Logger) PageView(page, uri string, v analytics.Visit) {
	l.Debug("page view",
		"page", page,
		"uri", uri,
		"client", v.Client(),
		"browser", v.Browser,
		"os", v.OS,
		"device", v.Device,
		"source", v.Source)
}

// PostNotFound logs a request for a missing or unknown post id.
func (l *Logger) PostNotFound(id string) {
	l.Warn("post not found", "id", id)
}

// ContentLoadFailed logs a failed fetch or conversion of post content.
func (l *Logger) ContentLoadFailed(id, path string, err error) {
	l.Error("content load failed",
		"id", id,
		"path", path,
		"error", err)
}

// ContentFetched logs a successful content fetch.
func (l *Logger) ContentFetched(path string, size int, cached bool) {
	l.Debug("content fetched",
		"path", path,
		"bytes", size,
		"cached", cached)
}

// ServerError logs an unexpected handler failure.
func (l *Logger) ServerError(uri string, err error) {
	l.Error("server error",
		"uri", uri,
		"error", err)
}
