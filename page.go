package blog

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/mariddleh/blog/analytics"
	"github.com/mariddleh/blog/catalog"
	"github.com/mariddleh/blog/markdown"
	"github.com/mariddleh/blog/views"
)

// PageKind is the kind of page a request path resolves to.
type PageKind int

const (
	PageList PageKind = iota
	PagePost
	PageCategory
	PageAbout
)

func (k PageKind) String() string {
	switch k {
	case PagePost:
		return "post"
	case PageCategory:
		return "category"
	case PageAbout:
		return "about"
	default:
		return "list"
	}
}

// ResolvePage maps a request path to a PageKind. Markers are substring
// matches checked in order; anything else is the post list.
func ResolvePage(p string) PageKind {
	switch {
	case strings.Contains(p, "post.html"):
		return PagePost
	case strings.Contains(p, "category.html"):
		return PageCategory
	case strings.Contains(p, "about.html"):
		return PageAbout
	default:
		return PageList
	}
}

// handlePage dispatches one page view to exactly one renderer.
func (a *App) handlePage(c echo.Context) error {
	kind := ResolvePage(c.Request().URL.Path)
	if c.Request().Header.Get("HX-Request") != "true" {
		req := c.Request()
		v := analytics.Classify(req.UserAgent(), req.Referer(), a.siteHost)
		a.metrics.observeView(kind, v)
		a.Logger.PageView(kind.String(), req.URL.RequestURI(), v)
	}
	switch kind {
	case PagePost:
		return a.handlePost(c)
	case PageCategory:
		return a.handleCategory(c)
	case PageAbout:
		return a.handleAbout(c)
	default:
		return a.handleList(c)
	}
}

func (a *App) env() views.Env {
	return views.Env{BaseURL: a.Config.URL, Year: a.now().Year()}
}

func (a *App) handleList(c echo.Context) error {
	f := catalog.NewFilterState(c.QueryParam("q"), c.QueryParam("tag"), "")
	page := views.BuildListPage(a.Catalog, f, a.env())
	if isPartial(c, "posts") {
		return Render(c, views.PostListView(page.List))
	}
	return Render(c, views.ListView(page))
}

func (a *App) handleCategory(c echo.Context) error {
	f := catalog.NewFilterState(c.QueryParam("q"), c.QueryParam("tag"), c.QueryParam("category"))
	page := views.BuildCategoryPage(a.Catalog, f, a.env())
	if isPartial(c, "posts") {
		return Render(c, views.PostListView(page.List))
	}
	return Render(c, views.ListView(page))
}

func (a *App) handleAbout(c echo.Context) error {
	return Render(c, views.AboutView(views.BuildAboutPage(a.Catalog, a.env())))
}

func (a *App) handlePost(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.QueryParam("id")
	page, err := a.renderPost(ctx, id)
	if err == nil {
		return Render(c, views.PostView(page))
	}
	if ctx.Err() != nil {
		// Client went away; write nothing.
		return nil
	}
	site := a.Catalog.Site()
	if errors.Is(err, ErrPostNotFound) {
		a.Logger.PostNotFound(id)
		a.metrics.postNotFound.Inc()
		return RenderStatus(c, http.StatusNotFound, views.ErrorView(views.NotFoundPage(site)))
	}
	var le *LoadError
	if errors.As(err, &le) {
		a.Logger.ContentLoadFailed(le.PostID, le.Path, le.Err)
		a.metrics.loadFailures.Inc()
		return RenderStatus(c, http.StatusBadGateway, views.ErrorView(views.LoadFailurePage(site)))
	}
	return err
}

// renderPost resolves id, fetches its content once and converts it. It
// returns ErrPostNotFound for an empty or unknown id and a *LoadError when
// the content cannot be fetched or converted.
func (a *App) renderPost(ctx context.Context, id string) (views.PostPage, error) {
	if id == "" {
		return views.PostPage{}, ErrPostNotFound
	}
	post, ok := a.Catalog.Find(id)
	if !ok {
		return views.PostPage{}, fmt.Errorf("%w: %q", ErrPostNotFound, id)
	}
	body, err := a.loadContent(ctx, post)
	if err != nil {
		return views.PostPage{}, err
	}
	return views.BuildPostPage(a.Catalog, post, body, a.env()), nil
}

// loadContent fetches and converts the content of post. An empty document
// converts to an empty body.
func (a *App) loadContent(ctx context.Context, post catalog.Post) (string, error) {
	raw, err := a.fetchContent(ctx, post)
	if err != nil {
		return "", err
	}
	body, err := a.Converter.Convert(raw)
	if errors.Is(err, markdown.ErrEmpty) {
		return "", nil
	}
	if err != nil {
		return "", &LoadError{PostID: post.ID, Path: post.ContentPath, Err: fmt.Errorf("convert: %w", err)}
	}
	return body, nil
}

// fetchContent reads the raw markdown of post within the fetch timeout.
func (a *App) fetchContent(ctx context.Context, post catalog.Post) ([]byte, error) {
	if a.Config.FetchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.Config.FetchTimeout)
		defer cancel()
	}
	raw, err := a.Content.Fetch(ctx, post.ContentPath)
	if err != nil {
		return nil, &LoadError{PostID: post.ID, Path: post.ContentPath, Err: err}
	}
	return raw, nil
}

// CheckContent fetches and converts the content of every post and returns
// one *LoadError per post that failed.
func (a *App) CheckContent(ctx context.Context) []error {
	var errs []error
	for _, p := range a.Catalog.Posts() {
		if _, err := a.loadContent(ctx, p); err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}

// FrontMatterMismatch is a front matter field that disagrees with the
// catalog entry of its post.
type FrontMatterMismatch struct {
	PostID      string
	Field       string
	Catalog     string
	FrontMatter string
}

// CheckFrontMatter compares the front matter of every post's content with
// its catalog entry. Fields absent from the front matter are not compared;
// posts that fail to load are left to CheckContent.
func (a *App) CheckFrontMatter(ctx context.Context) []FrontMatterMismatch {
	var out []FrontMatterMismatch
	for _, p := range a.Catalog.Posts() {
		raw, err := a.fetchContent(ctx, p)
		if err != nil {
			continue
		}
		meta, _, err := markdown.SplitFrontMatter(raw)
		if err != nil {
			continue
		}
		if meta.Title != "" && meta.Title != p.Title {
			out = append(out, FrontMatterMismatch{p.ID, "title", p.Title, meta.Title})
		}
		if meta.Date != "" && meta.Date != p.Date {
			out = append(out, FrontMatterMismatch{p.ID, "date", p.Date, meta.Date})
		}
		if len(meta.Tags) > 0 && !slices.Equal(meta.Tags, p.Tags) {
			out = append(out, FrontMatterMismatch{p.ID, "tags", strings.Join(p.Tags, ", "), strings.Join(meta.Tags, ", ")})
		}
	}
	return out
}
