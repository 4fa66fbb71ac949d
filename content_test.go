package blog

import (
	"bytes"
	"context"
	"errors"
	"io/fs"
	"net/http"
	"net/http/httptest"
	"testing"
	"testing/fstest"
	"time"
)

func TestHTTPSourceFetch(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		switch r.URL.Path {
		case "/content/posts/missing.md":
			http.NotFound(w, r)
			return
		case "/content/posts/limit.md":
			w.Write(bytes.Repeat([]byte("a"), maxContentSize))
			return
		case "/content/posts/huge.md":
			w.Write(bytes.Repeat([]byte("a"), maxContentSize))
			w.Write([]byte("TAIL"))
			return
		}
		w.Write([]byte("# hi"))
	}))
	defer srv.Close()

	src := NewHTTPSource(srv.URL + "/content/")
	data, err := src.Fetch(context.Background(), "posts/a.md")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if string(data) != "# hi" {
		t.Errorf("data = %q", data)
	}
	if gotPath != "/content/posts/a.md" {
		t.Errorf("request path = %q", gotPath)
	}

	_, err = src.Fetch(context.Background(), "posts/missing.md")
	var se *StatusError
	if !errors.As(err, &se) {
		t.Fatalf("expected *StatusError, got %v", err)
	}
	if se.Code != http.StatusNotFound {
		t.Errorf("Code = %d", se.Code)
	}

	data, err = src.Fetch(context.Background(), "posts/limit.md")
	if err != nil || len(data) != maxContentSize {
		t.Errorf("document at the size limit: len = %d, err = %v", len(data), err)
	}

	data, err = src.Fetch(context.Background(), "posts/huge.md")
	if err == nil {
		t.Fatalf("oversize document returned %d bytes without error", len(data))
	}
	if data != nil {
		t.Errorf("oversize document returned partial content (%d bytes)", len(data))
	}
}

func TestHTTPSourceHonoursContext(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, err := NewHTTPSource(srv.URL).Fetch(ctx, "posts/a.md"); err == nil {
		t.Fatal("expected error after deadline")
	}
}

func TestFSSourceFetch(t *testing.T) {
	src := NewFSSource(fstest.MapFS{"posts/a.md": {Data: []byte("a")}})

	data, err := src.Fetch(context.Background(), "/posts/a.md")
	if err != nil || string(data) != "a" {
		t.Fatalf("Fetch = %q, %v", data, err)
	}
	if _, err := src.Fetch(context.Background(), "posts/b.md"); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("missing file error = %v", err)
	}
	if _, err := src.Fetch(context.Background(), "../secret"); err == nil {
		t.Error("expected error for path outside the content root")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := src.Fetch(ctx, "posts/a.md"); !errors.Is(err, context.Canceled) {
		t.Errorf("cancelled fetch error = %v", err)
	}
}

func TestLoadErrorUnwraps(t *testing.T) {
	inner := &StatusError{Code: http.StatusBadGateway, URL: "u"}
	err := error(&LoadError{PostID: "p", Path: "posts/p.md", Err: inner})
	var se *StatusError
	if !errors.As(err, &se) || se != inner {
		t.Error("LoadError should unwrap to its cause")
	}
}

func TestContentCacheTTL(t *testing.T) {
	src := &countingSource{next: NewFSSource(testContent)}
	cache := NewContentCache(src, time.Minute)
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	cache.now = func() time.Time { return now }

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		if _, err := cache.Fetch(ctx, "posts/first-post.md"); err != nil {
			t.Fatalf("Fetch: %v", err)
		}
	}
	if src.Calls() != 1 {
		t.Errorf("calls = %d, want 1", src.Calls())
	}

	now = now.Add(2 * time.Minute)
	if _, err := cache.Fetch(ctx, "posts/first-post.md"); err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if src.Calls() != 2 {
		t.Errorf("calls after expiry = %d, want 2", src.Calls())
	}

	cache.Invalidate()
	if cache.Len() != 0 {
		t.Errorf("Len after Invalidate = %d", cache.Len())
	}
	if _, err := cache.Fetch(ctx, "posts/first-post.md"); err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if src.Calls() != 3 {
		t.Errorf("calls after Invalidate = %d, want 3", src.Calls())
	}
}

func TestContentCacheSkipsErrors(t *testing.T) {
	src := &countingSource{next: NewFSSource(testContent)}
	cache := NewContentCache(src, time.Minute)
	for i := 0; i < 2; i++ {
		if _, err := cache.Fetch(context.Background(), "posts/none.md"); err == nil {
			t.Fatal("expected error")
		}
	}
	if src.Calls() != 2 || cache.Len() != 0 {
		t.Errorf("calls = %d, len = %d", src.Calls(), cache.Len())
	}
}

func TestContentCachePassThrough(t *testing.T) {
	src := &countingSource{next: NewFSSource(testContent)}
	cache := NewContentCache(src, 0)
	for i := 0; i < 2; i++ {
		if _, err := cache.Fetch(context.Background(), "posts/first-post.md"); err != nil {
			t.Fatalf("Fetch: %v", err)
		}
	}
	if src.Calls() != 2 || cache.Len() != 0 {
		t.Errorf("calls = %d, len = %d", src.Calls(), cache.Len())
	}
}
