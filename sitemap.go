package blog

import (
	"encoding/xml"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/mariddleh/blog/catalog"
	"github.com/mariddleh/blog/views"
)

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod,omitempty"`
}

func (a *App) renderSitemap(c echo.Context, posts []catalog.Post) error {
	base := a.Config.URL
	var newest string
	if len(posts) > 0 {
		newest = posts[0].Date
	}
	urls := []sitemapURL{
		{Loc: views.AbsoluteURL(base), LastMod: newest},
		{Loc: views.AbsoluteURL(base, views.AboutPath)},
	}
	for _, cat := range catalog.Categories(a.Catalog) {
		urls = append(urls, sitemapURL{
			Loc: views.AbsoluteCategoryURL(base, cat),
		})
	}
	for _, p := range posts {
		urls = append(urls, sitemapURL{
			Loc:     views.AbsolutePostURL(base, p.ID),
			LastMod: p.Date,
		})
	}
	sitemap := sitemapURLSet{
		XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs:  urls,
	}
	c.Response().Header().Set(echo.HeaderContentType, "application/xml; charset=utf-8")
	c.Response().WriteHeader(http.StatusOK)
	c.Response().Write([]byte(xml.Header))
	return xml.NewEncoder(c.Response()).Encode(sitemap)
}
