package blog

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/mariddleh/blog/catalog"
	"github.com/mariddleh/blog/views"
)

func (a *App) handleSitemap(c echo.Context) error {
	return a.renderSitemap(c, catalog.VisiblePosts(a.Catalog, catalog.FilterState{}))
}

func (a *App) handleFeed(c echo.Context) error {
	return a.renderRSS(c, catalog.VisiblePosts(a.Catalog, catalog.FilterState{}))
}

func (a *App) handleFavicon(c echo.Context) error {
	return c.File(a.staticDir + "/favicon.svg")
}

func (a *App) handleRobots(c echo.Context) error {
	var b strings.Builder
	b.WriteString("User-agent: *\nAllow: /\n")
	fmt.Fprintf(&b, "Sitemap: %s\n", views.AbsoluteURL(a.Config.URL, "sitemap.xml"))
	return c.String(http.StatusOK, b.String())
}

func (a *App) handleHealthz(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"status": "ok",
		"posts":  a.Catalog.Len(),
	})
}

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	site := a.Catalog.Site()
	he, ok := err.(*echo.HTTPError)
	if ok && he.Code == http.StatusNotFound {
		_ = RenderStatus(c, http.StatusNotFound, views.ErrorView(views.PageNotFoundPage(site)))
		return
	}
	code := http.StatusInternalServerError
	if ok {
		code = he.Code
	}
	if code >= 500 {
		a.Logger.ServerError(c.Request().RequestURI, err)
		_ = RenderStatus(c, code, views.ErrorView(views.ServerErrorPage(site, code)))
		return
	}
	a.Echo.DefaultHTTPErrorHandler(err, c)
}
