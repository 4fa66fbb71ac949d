package views

import (
	"encoding/json"
	"net/url"
	"path"
	"strings"

	"github.com/a-h/templ"

	"github.com/mariddleh/blog/catalog"
	"github.com/mariddleh/blog/markdown"
)

// Page paths. The page controller recognises these by substring.
const (
	HomePath     = "/"
	PostPath     = "/post.html"
	CategoryPath = "/category.html"
	AboutPath    = "/about.html"
)

// DOM ids the page scripts and styles rely on.
const (
	PostsContainerID = "posts-container"
	TagsListID       = "tags-list"
	CategoryTitleID  = "category-title"
	SearchInputID    = "search-input"
)

// PostHref links to the single-post view of id.
func PostHref(id string) string {
	return PostPath + "?id=" + url.QueryEscape(id)
}

// CategoryHref links to the category view of cat.
func CategoryHref(cat string) string {
	return CategoryPath + "?category=" + url.QueryEscape(cat)
}

// FilterHref builds a link to base carrying the non-empty fields of f.
func FilterHref(base string, f catalog.FilterState) string {
	q := url.Values{}
	if f.Category != "" {
		q.Set("category", f.Category)
	}
	if f.Tag != "" {
		q.Set("tag", f.Tag)
	}
	if f.Search != "" {
		q.Set("q", f.Search)
	}
	if len(q) == 0 {
		return base
	}
	return base + "?" + q.Encode()
}

// AbsoluteURL joins path segments onto a base URL. Unlike directory-style
// URLs, page files such as post.html get no trailing slash.
func AbsoluteURL(base string, pathSegments ...string) string {
	u, err := url.Parse(base)
	if err != nil {
		return base
	}
	u.Path = path.Join(u.Path, path.Join(pathSegments...))
	if len(pathSegments) == 0 && !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	return u.String()
}

// AbsolutePostURL is the canonical URL of a post.
func AbsolutePostURL(base, id string) string {
	return AbsoluteURL(base, PostPath) + "?id=" + url.QueryEscape(id)
}

// AbsoluteCategoryURL is the canonical URL of a category view.
func AbsoluteCategoryURL(base, cat string) string {
	return AbsoluteURL(base, CategoryPath) + "?category=" + url.QueryEscape(cat)
}

// safeHref returns raw when it is an acceptable link target, "#" otherwise.
func safeHref(raw string) string {
	if markdown.SafeURL(raw) == "" {
		return "#"
	}
	return raw
}

// jsonLD embeds a structured data block. json.Marshal escapes <, > and &, so
// data cannot close the script element.
func jsonLD(data string) templ.Component {
	return templ.Raw(`<script type="application/ld+json">` + data + `</script>`)
}

// WebsiteJSONLD produces a Schema.org WebSite JSON-LD block.
func WebsiteJSONLD(site catalog.Site, baseURL string) string {
	data := map[string]interface{}{
		"@context": "https://schema.org",
		"@type":    "WebSite",
		"name":     site.Title,
		"url":      AbsoluteURL(baseURL),
	}
	if site.Subtitle != "" {
		data["description"] = site.Subtitle
	}
	b, err := json.Marshal(data)
	if err != nil {
		return "{}"
	}
	return string(b)
}

// BlogPostingJSONLD produces a Schema.org BlogPosting JSON-LD block for a post.
func BlogPostingJSONLD(site catalog.Site, post catalog.Post, baseURL string) string {
	postURL := AbsolutePostURL(baseURL, post.ID)
	data := map[string]interface{}{
		"@context":      "https://schema.org",
		"@type":         "BlogPosting",
		"headline":      post.Title,
		"description":   post.Excerpt,
		"datePublished": post.Date,
		"url":           postURL,
		"publisher": map[string]string{
			"@type": "Organization",
			"name":  site.Title,
		},
		"mainEntityOfPage": map[string]string{
			"@type": "WebPage",
			"@id":   postURL,
		},
	}
	if post.Category != "" {
		data["articleSection"] = post.Category
	}
	if len(post.Tags) > 0 {
		data["keywords"] = strings.Join(post.Tags, ", ")
	}
	b, err := json.Marshal(data)
	if err != nil {
		return "{}"
	}
	return string(b)
}
