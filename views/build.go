// Package views turns catalog data into page view-models and renders them
// as templ components. Builders are pure; only components write HTML.
package views

import (
	"net/http"
	"strings"

	"github.com/mariddleh/blog/catalog"
)

// User-visible strings.
const (
	NoResultsText        = "没有找到匹配的文章"
	AllPostsHeading      = "全部文章"
	CategoryHeadingLabel = "分类："
	BackHomeLabel        = "返回首页"

	NotFoundHeading     = "文章不存在"
	NotFoundMessage     = "请检查链接是否正确。"
	LoadFailureHeading  = "加载失败"
	LoadFailureMessage  = "文章内容加载失败，请稍后重试。"
	ServerErrorHeading  = "出错了"
	ServerErrorMessage  = "服务器开小差了，请稍后再试。"
	PageNotFoundHeading = "页面不存在"
	PageNotFoundMessage = "你访问的页面不存在。"
)

// relatedLimit caps the related posts shown under a post.
const relatedLimit = 3

// BuildChrome assembles the shared frame. activeHref marks the matching nav
// entry as active.
func BuildChrome(site catalog.Site, documentTitle, activeHref string, env Env) Chrome {
	ch := Chrome{
		DocumentTitle: documentTitle,
		SiteTitle:     site.Title,
		Subtitle:      site.Subtitle,
		Year:          env.Year,
	}
	for _, n := range site.Nav {
		ch.Nav = append(ch.Nav, NavItem{
			Label:  n.Label,
			Href:   safeHref(n.Href),
			Active: n.Href == activeHref,
		})
	}
	ch.Social = BuildSocialLinks(site)
	return ch
}

// BuildSocialLinks renders the site's social links in configured order.
func BuildSocialLinks(site catalog.Site) []Link {
	links := make([]Link, 0, len(site.SocialLinks))
	for _, l := range site.SocialLinks {
		links = append(links, Link{Label: l.Name, Href: safeHref(l.URL)})
	}
	return links
}

// BuildPostEntry converts one post into a list row.
func BuildPostEntry(p catalog.Post) PostEntry {
	e := PostEntry{
		ID:      p.ID,
		Title:   p.Title,
		Href:    PostHref(p.ID),
		Date:    p.Date,
		Excerpt: p.Excerpt,
	}
	if p.Category != "" {
		e.Category = p.Category
		e.CategoryHref = CategoryHref(p.Category)
	}
	return e
}

// BuildPostList converts the query engine's output into the list view-model.
// An empty input yields the "no results" placeholder.
func BuildPostList(posts []catalog.Post) PostList {
	if len(posts) == 0 {
		return PostList{Empty: true, EmptyMessage: NoResultsText}
	}
	l := PostList{Entries: make([]PostEntry, 0, len(posts))}
	for _, p := range posts {
		l.Entries = append(l.Entries, BuildPostEntry(p))
	}
	return l
}

// BuildSidebar builds the tag cloud, category list and search control for a
// list rooted at base. Tag links toggle the tag against f. live enables the
// htmx live search, which only makes sense where a post list is shown.
func BuildSidebar(c *catalog.Catalog, f catalog.FilterState, base string, live bool) Sidebar {
	sb := Sidebar{
		Search: f.Search,
		Action: base,
	}
	for _, t := range catalog.AllTags(c) {
		sb.Tags = append(sb.Tags, TagItem{
			Name:   t,
			Href:   FilterHref(base, f.ToggleTag(t)),
			Active: f.Tag == t,
		})
	}
	for _, cat := range catalog.Categories(c) {
		sb.Categories = append(sb.Categories, TagItem{
			Name:   cat,
			Href:   CategoryHref(cat),
			Active: f.Category == cat,
		})
	}
	if base == CategoryPath && f.Category != "" {
		sb.Hidden = append(sb.Hidden, Hidden{Name: "category", Value: f.Category})
	}
	if f.Tag != "" {
		sb.Hidden = append(sb.Hidden, Hidden{Name: "tag", Value: f.Tag})
	}
	if live {
		sb.LiveURL = base + "?partial=posts"
	}
	return sb
}

// BuildListPage is the home page: every visible post under f.
func BuildListPage(c *catalog.Catalog, f catalog.FilterState, env Env) ListPage {
	site := c.Site()
	ch := BuildChrome(site, site.DocumentTitle(), HomePath, env)
	ch.JSONLD = WebsiteJSONLD(site, env.BaseURL)
	return ListPage{
		Chrome:  ch,
		List:    BuildPostList(catalog.VisiblePosts(c, f)),
		Sidebar: BuildSidebar(c, f, HomePath, true),
	}
}

// BuildCategoryPage is the category view. f.Category is used verbatim.
func BuildCategoryPage(c *catalog.Catalog, f catalog.FilterState, env Env) ListPage {
	site := c.Site()
	heading := AllPostsHeading
	docTitle := AllPostsHeading + " | " + site.Title
	if f.Category != "" {
		heading = CategoryHeadingLabel + f.Category
		docTitle = f.Category + " | " + site.Title
	}
	return ListPage{
		Chrome:  BuildChrome(site, docTitle, CategoryPath, env),
		Heading: heading,
		List:    BuildPostList(catalog.VisiblePosts(c, f)),
		Sidebar: BuildSidebar(c, f, CategoryPath, true),
	}
}

// BuildPostPage is a post whose content has already been converted to HTML.
func BuildPostPage(c *catalog.Catalog, p catalog.Post, body string, env Env) PostPage {
	site := c.Site()
	ch := BuildChrome(site, site.DocumentTitle(), PostPath, env)
	ch.JSONLD = BlogPostingJSONLD(site, p, env.BaseURL)
	page := PostPage{
		Chrome:   ch,
		ID:       p.ID,
		Title:    p.Title,
		Date:     p.Date,
		Category: p.Category,
		Body:     body,
		BackHref: HomePath,
	}
	if p.Category != "" {
		page.CategoryHref = CategoryHref(p.Category)
	}
	for _, t := range p.Tags {
		page.Tags = append(page.Tags, TagItem{
			Name: t,
			Href: FilterHref(HomePath, catalog.FilterState{Tag: t}),
		})
	}
	for _, r := range catalog.Related(c, p, relatedLimit) {
		page.Related = append(page.Related, BuildPostEntry(r))
	}
	return page
}

// BuildAboutPage is the static about page with the sidebar.
func BuildAboutPage(c *catalog.Catalog, env Env) AboutPage {
	site := c.Site()
	var paras []string
	for _, p := range strings.Split(site.About, "\n\n") {
		if p = strings.TrimSpace(p); p != "" {
			paras = append(paras, p)
		}
	}
	return AboutPage{
		Chrome:     BuildChrome(site, site.DocumentTitle(), AboutPath, env),
		Paragraphs: paras,
		Sidebar:    BuildSidebar(c, catalog.FilterState{}, HomePath, false),
	}
}

// NotFoundPage is shown for a missing or unknown post id.
func NotFoundPage(site catalog.Site) ErrorPage {
	return errorPage(site, NotFoundHeading, NotFoundMessage, http.StatusNotFound)
}

// LoadFailurePage is shown when post content cannot be fetched or converted.
func LoadFailurePage(site catalog.Site) ErrorPage {
	return errorPage(site, LoadFailureHeading, LoadFailureMessage, http.StatusBadGateway)
}

// PageNotFoundPage is shown for unknown routes.
func PageNotFoundPage(site catalog.Site) ErrorPage {
	return errorPage(site, PageNotFoundHeading, PageNotFoundMessage, http.StatusNotFound)
}

// ServerErrorPage is shown for unexpected failures.
func ServerErrorPage(site catalog.Site, status int) ErrorPage {
	return errorPage(site, ServerErrorHeading, ServerErrorMessage, status)
}

func errorPage(site catalog.Site, heading, msg string, status int) ErrorPage {
	return ErrorPage{
		DocumentTitle: heading + " | " + site.Title,
		Heading:       heading,
		Message:       msg,
		Home:          Link{Label: BackHomeLabel, Href: HomePath},
		Status:        status,
	}
}
