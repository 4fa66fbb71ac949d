package blog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"path"
	"strings"
)

// maxContentSize bounds a single fetched markdown document.
const maxContentSize = 4 << 20

// ErrPostNotFound is returned when a requested post id is empty or unknown.
var ErrPostNotFound = errors.New("post not found")

// StatusError reports a non-2xx response from an HTTP content source.
type StatusError struct {
	Code int
	URL  string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("fetch %s: unexpected status %d", e.URL, e.Code)
}

// LoadError reports that a post's content could not be fetched or converted.
type LoadError struct {
	PostID string
	Path   string
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load post %q from %s: %v", e.PostID, e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// ContentSource returns the raw markdown stored at a content path such as
// "posts/first-post.md".
type ContentSource interface {
	Fetch(ctx context.Context, contentPath string) ([]byte, error)
}

// HTTPSource fetches content with GET <BaseURL>/<contentPath>.
type HTTPSource struct {
	BaseURL string
	Client  *http.Client
}

// NewHTTPSource creates an HTTPSource. Deadlines come from the request
// context.
func NewHTTPSource(baseURL string) *HTTPSource {
	return &HTTPSource{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Client:  &http.Client{},
	}
}

// Fetch performs exactly one GET. Any status outside 2xx is a *StatusError.
func (s *HTTPSource) Fetch(ctx context.Context, contentPath string) ([]byte, error) {
	u := s.BaseURL + "/" + strings.TrimLeft(contentPath, "/")
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{Code: resp.StatusCode, URL: u}
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxContentSize+1))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", u, err)
	}
	if len(data) > maxContentSize {
		return nil, fmt.Errorf("content %s exceeds %d bytes", u, maxContentSize)
	}
	return data, nil
}

// FSSource reads content from a filesystem rooted at the content directory.
type FSSource struct {
	FS fs.FS
}

// NewFSSource creates an FSSource over fsys.
func NewFSSource(fsys fs.FS) *FSSource {
	return &FSSource{FS: fsys}
}

// Fetch reads contentPath from the filesystem.
func (s *FSSource) Fetch(ctx context.Context, contentPath string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	name := path.Clean(strings.TrimLeft(contentPath, "/"))
	if !fs.ValidPath(name) {
		return nil, fmt.Errorf("invalid content path %q", contentPath)
	}
	data, err := fs.ReadFile(s.FS, name)
	if err != nil {
		return nil, err
	}
	if len(data) > maxContentSize {
		return nil, fmt.Errorf("content %s exceeds %d bytes", name, maxContentSize)
	}
	return data, nil
}
