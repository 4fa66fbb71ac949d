package blog

import (
	"context"
	"errors"
	"io/fs"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"testing/fstest"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/mariddleh/blog/catalog"
	"github.com/mariddleh/blog/markdown"
)

var testContent = fstest.MapFS{
	"posts/first-post.md":              {Data: []byte("# Hello\n\nhello **world**\n")},
	"posts/ai-learning-notes-2026.md":  {Data: []byte("---\ntitle: notes\n---\n\nnotes body\n")},
	"posts/study-abroad-experience.md": {Data: []byte("abroad body\n")},
}

type sourceFunc func(ctx context.Context, contentPath string) ([]byte, error)

func (f sourceFunc) Fetch(ctx context.Context, contentPath string) ([]byte, error) {
	return f(ctx, contentPath)
}

type countingSource struct {
	mu    sync.Mutex
	calls int
	next  ContentSource
}

func (s *countingSource) Fetch(ctx context.Context, contentPath string) ([]byte, error) {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
	return s.next.Fetch(ctx, contentPath)
}

func (s *countingSource) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func newTestApp(t *testing.T, opts ...Option) *App {
	t.Helper()
	base := []Option{
		WithCatalog(catalog.Default()),
		WithContentFS(testContent),
		WithLogger(DiscardLogger()),
		WithStaticDir(t.TempDir()),
	}
	cfg := Config{URL: "https://blog.example.com"}
	a, err := New(cfg, append(base, opts...)...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	a.now = func() time.Time { return time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC) }
	return a
}

func get(a *App, target string, header ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	rec := httptest.NewRecorder()
	a.Echo.ServeHTTP(rec, req)
	return rec
}

func TestResolvePage(t *testing.T) {
	tests := []struct {
		path string
		want PageKind
	}{
		{"/", PageList},
		{"/index.html", PageList},
		{"/post.html", PagePost},
		{"/blog/post.html", PagePost},
		{"/category.html", PageCategory},
		{"/about.html", PageAbout},
		{"/anything", PageList},
		{"/post.html/category.html", PagePost},
	}
	for _, tt := range tests {
		if got := ResolvePage(tt.path); got != tt.want {
			t.Errorf("ResolvePage(%q) = %s, want %s", tt.path, got, tt.want)
		}
	}
}

func TestHomeListsPostsNewestFirst(t *testing.T) {
	a := newTestApp(t)
	rec := get(a, "/")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, `id="posts-container"`) {
		t.Fatal("posts container missing")
	}
	i1 := strings.Index(body, "post.html?id=first-post")
	i2 := strings.Index(body, "post.html?id=ai-learning-notes-2026")
	i3 := strings.Index(body, "post.html?id=study-abroad-experience")
	if i1 < 0 || i2 < 0 || i3 < 0 || !(i1 < i2 && i2 < i3) {
		t.Errorf("unexpected post order: %d %d %d", i1, i2, i3)
	}
	if !strings.Contains(body, "<title>个人博客 | 留学·语言·AI·工作·海外生活</title>") {
		t.Error("document title not set from site config")
	}
}

func TestUnknownSingleSegmentFallsBackToList(t *testing.T) {
	a := newTestApp(t)
	rec := get(a, "/whatever")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `id="posts-container"`) {
		t.Errorf("status = %d, want list page", rec.Code)
	}
}

func TestSearchPartial(t *testing.T) {
	a := newTestApp(t)
	rec := get(a, "/?partial=posts&q=AI", "HX-Request", "true")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()
	if strings.Contains(body, "<html") {
		t.Error("partial should not include the page chrome")
	}
	if !strings.Contains(body, "ai-learning-notes-2026") || strings.Contains(body, "first-post") {
		t.Errorf("unexpected partial: %s", body)
	}
	if !strings.Contains(rec.Header().Get("Vary"), "HX-Request") {
		t.Error("Vary header missing HX-Request")
	}

	again := get(a, "/?partial=posts&q=AI", "HX-Request", "true")
	if again.Body.String() != body {
		t.Error("repeated partial renders differ")
	}
}

func TestSearchWithoutMatches(t *testing.T) {
	a := newTestApp(t)
	rec := get(a, "/?q=nothing-matches-this")
	if !strings.Contains(rec.Body.String(), "没有找到匹配的文章") {
		t.Error("no results placeholder missing")
	}
}

func TestTagFilter(t *testing.T) {
	a := newTestApp(t)
	body := get(a, "/?tag="+url.QueryEscape("留学")).Body.String()
	if !strings.Contains(body, "study-abroad-experience") || strings.Contains(body, "post.html?id=first-post") {
		t.Error("tag filter not applied")
	}
	if !strings.Contains(body, `class="tag active"`) {
		t.Error("active tag not marked")
	}
}

func TestCategoryPage(t *testing.T) {
	a := newTestApp(t)
	rec := get(a, "/category.html?category=AI")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{
		"<title>AI | 个人博客</title>",
		`<h2 id="category-title">分类：AI</h2>`,
		"ai-learning-notes-2026",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("category page missing %q", want)
		}
	}
	if strings.Contains(body, "post.html?id=first-post") {
		t.Error("other categories should be filtered out")
	}

	body = get(a, "/category.html?category=ai").Body.String()
	if !strings.Contains(body, "没有找到匹配的文章") {
		t.Error("category match should be case-sensitive")
	}
}

func TestAboutPage(t *testing.T) {
	a := newTestApp(t)
	rec := get(a, "/about.html")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "欢迎来到我的博客") || !strings.Contains(body, `id="tags-list"`) {
		t.Error("about page content or sidebar missing")
	}
}

func TestPostRendersConvertedContent(t *testing.T) {
	src := &countingSource{next: NewFSSource(testContent)}
	a := newTestApp(t, WithContentSource(src))
	a.Content = NewContentCache(src, -1)

	rec := get(a, "/post.html?id=first-post")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{
		"<strong>world</strong>",
		"<title>个人博客 | 留学·语言·AI·工作·海外生活</title>",
		"返回首页",
		`class="social-links"`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("post page missing %q", want)
		}
	}
	if src.Calls() != 1 {
		t.Errorf("fetch calls = %d, want 1", src.Calls())
	}
}

func TestPostFrontMatterStripped(t *testing.T) {
	a := newTestApp(t)
	body := get(a, "/post.html?id=ai-learning-notes-2026").Body.String()
	if !strings.Contains(body, "notes body") || strings.Contains(body, "title: notes") {
		t.Error("front matter should be removed from the rendered body")
	}
}

func TestPostNotFound(t *testing.T) {
	src := &countingSource{next: NewFSSource(testContent)}
	a := newTestApp(t, WithContentSource(src))

	for _, target := range []string{"/post.html", "/post.html?id=", "/post.html?id=missing"} {
		rec := get(a, target)
		if rec.Code != http.StatusNotFound {
			t.Errorf("%s: status = %d, want 404", target, rec.Code)
		}
		body := rec.Body.String()
		if !strings.Contains(body, "文章不存在") || !strings.Contains(body, "请检查链接是否正确。") {
			t.Errorf("%s: not found message missing", target)
		}
		if !strings.Contains(body, `href="/"`) {
			t.Errorf("%s: home link missing", target)
		}
	}
	if src.Calls() != 0 {
		t.Errorf("fetch calls = %d, want 0", src.Calls())
	}
}

func TestPostLoadFailure(t *testing.T) {
	huge := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(strings.Repeat("长", maxContentSize/3+1)))
	}))
	defer huge.Close()

	tests := []struct {
		name string
		src  ContentSource
		conv markdown.Converter
	}{
		{
			name: "status",
			src: sourceFunc(func(context.Context, string) ([]byte, error) {
				return nil, &StatusError{Code: http.StatusInternalServerError, URL: "x"}
			}),
		},
		{
			name: "network",
			src: sourceFunc(func(context.Context, string) ([]byte, error) {
				return nil, errors.New("connection refused")
			}),
		},
		{
			name: "oversize",
			src:  NewHTTPSource(huge.URL),
		},
		{
			name: "convert",
			src:  NewFSSource(testContent),
			conv: markdown.ConverterFunc(func([]byte) (string, error) {
				return "", errors.New("boom")
			}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := []Option{WithContentSource(tt.src)}
			if tt.conv != nil {
				opts = append(opts, WithConverter(tt.conv))
			}
			a := newTestApp(t, opts...)
			rec := get(a, "/post.html?id=first-post")
			if rec.Code != http.StatusBadGateway {
				t.Fatalf("status = %d, want 502", rec.Code)
			}
			body := rec.Body.String()
			if !strings.Contains(body, "加载失败") || !strings.Contains(body, "文章内容加载失败，请稍后重试。") {
				t.Error("load failure message missing")
			}
			if strings.Contains(body, "第一篇博客</h1>") {
				t.Error("no partial post content should be shown")
			}
		})
	}
}

func TestPostLoadFailureNotCached(t *testing.T) {
	fail := true
	src := sourceFunc(func(ctx context.Context, p string) ([]byte, error) {
		if fail {
			return nil, &StatusError{Code: http.StatusNotFound, URL: p}
		}
		return testContent["posts/first-post.md"].Data, nil
	})
	a := newTestApp(t, WithContentSource(src))
	if rec := get(a, "/post.html?id=first-post"); rec.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", rec.Code)
	}
	fail = false
	if rec := get(a, "/post.html?id=first-post"); rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 after recovery", rec.Code)
	}
}

func TestPostCancelledViewWritesNothing(t *testing.T) {
	src := sourceFunc(func(ctx context.Context, _ string) ([]byte, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	})
	a := newTestApp(t, WithContentSource(src))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	req := httptest.NewRequest(http.MethodGet, "/post.html?id=first-post", nil).WithContext(ctx)
	rec := httptest.NewRecorder()
	a.Echo.ServeHTTP(rec, req)
	if rec.Body.Len() != 0 {
		t.Errorf("expected no output, got %q", rec.Body.String())
	}
}

func TestPostFetchTimeout(t *testing.T) {
	src := sourceFunc(func(ctx context.Context, _ string) ([]byte, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	})
	a := newTestApp(t, WithContentSource(src))
	a.Config.FetchTimeout = 10 * time.Millisecond

	rec := get(a, "/post.html?id=first-post")
	if rec.Code != http.StatusBadGateway {
		t.Errorf("status = %d, want 502", rec.Code)
	}
}

func TestEmptyContentRendersEmptyBody(t *testing.T) {
	fsys := fstest.MapFS{"posts/first-post.md": {Data: []byte("  \n")}}
	a := newTestApp(t, WithContentFS(fsys))
	rec := get(a, "/post.html?id=first-post")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `<div class="markdown-body"></div>`) {
		t.Error("empty content should render an empty body")
	}
}

func TestUnknownRouteRendersPageNotFound(t *testing.T) {
	a := newTestApp(t)
	rec := get(a, "/a/b/c")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "页面不存在") {
		t.Error("page not found view missing")
	}
}

func TestRawMarkdownRoute(t *testing.T) {
	a := newTestApp(t)
	rec := get(a, "/posts/first-post.md")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "hello **world**") {
		t.Errorf("raw markdown = %q", rec.Body.String())
	}
}

func TestFeed(t *testing.T) {
	a := newTestApp(t)
	rec := get(a, "/feed.xml")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/rss+xml") {
		t.Errorf("Content-Type = %q", ct)
	}
	body := rec.Body.String()
	for _, want := range []string{
		"<title>个人博客</title>",
		"<link>https://blog.example.com/post.html?id=first-post</link>",
		"<category>AI</category>",
		"<pubDate>Tue, 10 Feb 2026 00:00:00 +0000</pubDate>",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("feed missing %q", want)
		}
	}
	if rec.Header().Get("Cache-Control") != "public, max-age=86400" {
		t.Errorf("Cache-Control = %q", rec.Header().Get("Cache-Control"))
	}
}

func TestSitemap(t *testing.T) {
	a := newTestApp(t)
	body := get(a, "/sitemap.xml").Body.String()
	for _, want := range []string{
		"<loc>https://blog.example.com/</loc>",
		"<loc>https://blog.example.com/about.html</loc>",
		"<loc>https://blog.example.com/category.html?category=AI</loc>",
		"<loc>https://blog.example.com/post.html?id=study-abroad-experience</loc>",
		"<lastmod>2026-01-20</lastmod>",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("sitemap missing %q", want)
		}
	}
}

func TestRobots(t *testing.T) {
	a := newTestApp(t)
	body := get(a, "/robots.txt").Body.String()
	if !strings.Contains(body, "Sitemap: https://blog.example.com/sitemap.xml") {
		t.Errorf("robots.txt = %q", body)
	}
}

func TestHealthz(t *testing.T) {
	a := newTestApp(t)
	rec := get(a, "/healthz")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"posts":3`) {
		t.Errorf("healthz = %d %s", rec.Code, rec.Body.String())
	}
}

func TestMetricsCountContentFetches(t *testing.T) {
	a := newTestApp(t)
	get(a, "/post.html?id=first-post")
	get(a, "/post.html?id=first-post")
	get(a, "/post.html?id=missing")

	body := get(a, "/metrics").Body.String()
	for _, want := range []string{
		`blog_content_fetches_total{cache="miss"} 1`,
		`blog_content_fetches_total{cache="hit"} 1`,
		"blog_post_not_found_total 1",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics missing %q", want)
		}
	}
}

func TestZeroConfigServesMetrics(t *testing.T) {
	a, err := New(Config{}, WithLogger(DiscardLogger()), WithStaticDir(t.TempDir()))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	get(a, "/")
	rec := get(a, "/metrics")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "blog_page_views_total") {
		t.Fatalf("metrics status = %d, want page view counters served", rec.Code)
	}
}

func TestMetricsDisabled(t *testing.T) {
	a, err := New(Config{DisableMetrics: true}, WithLogger(DiscardLogger()), WithStaticDir(t.TempDir()))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if rec := get(a, "/metrics"); rec.Code == http.StatusOK && strings.Contains(rec.Body.String(), "blog_") {
		t.Error("metrics should not be served when disabled")
	}
}

func TestEmbeddedContentCoversDefaultCatalog(t *testing.T) {
	a, err := New(Config{}, WithLogger(DiscardLogger()), WithStaticDir(t.TempDir()))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	for _, p := range a.Catalog.Posts() {
		rec := get(a, "/post.html?id="+p.ID)
		if rec.Code != http.StatusOK {
			t.Errorf("%s: status = %d", p.ID, rec.Code)
		}
	}
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	if _, err := New(Config{URL: "ftp://example.com"}); err == nil {
		t.Error("expected error for non-http url")
	}
}

func TestCheckContent(t *testing.T) {
	fsys := fstest.MapFS{"posts/first-post.md": {Data: []byte("ok")}}
	a := newTestApp(t, WithContentFS(fsys))
	errs := a.CheckContent(context.Background())
	if len(errs) != 2 {
		t.Fatalf("errors = %v, want 2", errs)
	}
	for _, err := range errs {
		var le *LoadError
		if !errors.As(err, &le) || le.PostID == "first-post" {
			t.Errorf("unexpected error %v", err)
		}
	}
}

func TestPostWithLeadingThematicBreak(t *testing.T) {
	fsys := fstest.MapFS{"posts/first-post.md": {Data: []byte("---\n\n# 标题\n\n正文段落\n\n---\n\n更多内容\n")}}
	a := newTestApp(t, WithContentFS(fsys))
	rec := get(a, "/post.html?id=first-post")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if body := rec.Body.String(); !strings.Contains(body, "正文段落") || !strings.Contains(body, "更多内容") {
		t.Error("post body missing")
	}
}

func TestCheckFrontMatter(t *testing.T) {
	embedded, err := fs.Sub(ContentFiles, "content")
	if err != nil {
		t.Fatal(err)
	}
	a := newTestApp(t, WithContentFS(embedded))
	if got := a.CheckFrontMatter(context.Background()); len(got) != 0 {
		t.Errorf("embedded content mismatches = %+v, want none", got)
	}

	fsys := fstest.MapFS{
		"posts/first-post.md":             {Data: []byte("---\ntitle: 另一个标题\ndate: \"2026-02-10\"\ntags: [博客]\n---\nbody\n")},
		"posts/ai-learning-notes-2026.md": {Data: []byte("no front matter\n")},
	}
	a = newTestApp(t, WithContentFS(fsys))
	got := a.CheckFrontMatter(context.Background())
	want := []FrontMatterMismatch{
		{PostID: "first-post", Field: "title", Catalog: "第一篇博客", FrontMatter: "另一个标题"},
		{PostID: "first-post", Field: "tags", Catalog: "博客, 起点", FrontMatter: "博客"},
	}
	if len(got) != len(want) {
		t.Fatalf("mismatches = %+v, want %+v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("mismatch[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestPageViewsCounted(t *testing.T) {
	a := newTestApp(t)
	get(a, "/", "User-Agent", "Mozilla/5.0 (X11; Linux x86_64) Firefox/121.0")
	get(a, "/about.html", "User-Agent", "Googlebot/2.1")
	get(a, "/?partial=posts", "HX-Request", "true")

	body := get(a, "/metrics").Body.String()
	for _, want := range []string{
		`blog_page_views_total{client="human",device="Desktop",page="list",source="Direct"} 1`,
		`blog_page_views_total{client="Googlebot",device="Bot",page="about",source="Direct"} 1`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics missing %q", want)
		}
	}
}

func TestWithCustomRoutes(t *testing.T) {
	a := newTestApp(t, WithCustomRoutes(func(a *App) {
		a.Echo.GET("/ping/pong", func(c echo.Context) error {
			return c.String(http.StatusOK, "pong")
		})
	}))
	if rec := get(a, "/ping/pong"); rec.Body.String() != "pong" {
		t.Errorf("custom route = %d %q", rec.Code, rec.Body.String())
	}
}

func TestNewLoadsCatalogAndContentDir(t *testing.T) {
	dir := t.TempDir()
	catalogYAML := `posts:
  - id: local
    title: Local post
    date: "2026-04-01"
    content_path: posts/local.md
`
	if err := os.WriteFile(filepath.Join(dir, "catalog.yaml"), []byte(catalogYAML), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Join(dir, "content", "posts"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "content", "posts", "local.md"), []byte("from *disk*"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := Config{
		CatalogPath: filepath.Join(dir, "catalog.yaml"),
		ContentDir:  filepath.Join(dir, "content"),
	}
	a, err := New(cfg, WithLogger(DiscardLogger()), WithStaticDir(dir))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if a.Catalog.Len() != 1 {
		t.Fatalf("posts = %d", a.Catalog.Len())
	}
	rec := get(a, "/post.html?id=local")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "<em>disk</em>") {
		t.Errorf("post = %d %s", rec.Code, rec.Body.String())
	}
}
