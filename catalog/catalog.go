// Package catalog holds the blog's post records and site settings, and the
// pure query functions that derive the visible post list from them.
package catalog

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// DateLayout is the format of Post.Date.
const DateLayout = "2006-01-02"

// SocialLink is one entry of the footer's social links.
type SocialLink struct {
	Name string `yaml:"name"`
	URL  string `yaml:"url"`
}

// NavLink is one entry of the header navigation.
type NavLink struct {
	Label string `yaml:"label"`
	Href  string `yaml:"href"`
}

// Site holds site-wide settings rendered in every page's chrome.
type Site struct {
	Title       string       `yaml:"title"`
	Subtitle    string       `yaml:"subtitle"`
	SocialLinks []SocialLink `yaml:"social_links"`
	Nav         []NavLink    `yaml:"nav"`
	About       string       `yaml:"about"` // about page text, paragraphs separated by blank lines
}

// DocumentTitle is the title used by the list and about pages.
func (s Site) DocumentTitle() string {
	if s.Subtitle == "" {
		return s.Title
	}
	return s.Title + " | " + s.Subtitle
}

// Post is a single catalog entry. The post body lives outside the catalog
// and is referenced by ContentPath.
type Post struct {
	ID          string   `yaml:"id"`
	Title       string   `yaml:"title"`
	Date        string   `yaml:"date"`
	Category    string   `yaml:"category"`
	Tags        []string `yaml:"tags"`
	Excerpt     string   `yaml:"excerpt"`
	ContentPath string   `yaml:"content_path"`

	published time.Time
}

// Published returns the parsed Date. It is the zero time for posts that were
// not built through New.
func (p Post) Published() time.Time {
	return p.published
}

// HasTag reports whether tag is one of the post's tags.
func (p Post) HasTag(tag string) bool {
	for _, t := range p.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Catalog is an immutable, ordered collection of posts plus the site
// settings. Catalog order is the order posts were passed to New.
type Catalog struct {
	site  Site
	posts []Post
	byID  map[string]int
}

// ErrInvalidPost is wrapped by every validation error returned from New.
var ErrInvalidPost = errors.New("invalid post")

// New validates posts and builds a Catalog. IDs must be non-empty and unique,
// dates must be YYYY-MM-DD and every post needs a content path.
func New(site Site, posts []Post) (*Catalog, error) {
	c := &Catalog{
		site:  site,
		posts: make([]Post, 0, len(posts)),
		byID:  make(map[string]int, len(posts)),
	}
	for i, p := range posts {
		p.ID = strings.TrimSpace(p.ID)
		if p.ID == "" {
			return nil, fmt.Errorf("%w: post #%d has no id", ErrInvalidPost, i)
		}
		if _, dup := c.byID[p.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate id %q", ErrInvalidPost, p.ID)
		}
		t, err := time.Parse(DateLayout, p.Date)
		if err != nil {
			return nil, fmt.Errorf("%w: %q has bad date %q: %v", ErrInvalidPost, p.ID, p.Date, err)
		}
		if strings.TrimSpace(p.ContentPath) == "" {
			return nil, fmt.Errorf("%w: %q has no content path", ErrInvalidPost, p.ID)
		}
		p.published = t
		p.Tags = append([]string(nil), p.Tags...)
		c.byID[p.ID] = len(c.posts)
		c.posts = append(c.posts, p)
	}
	return c, nil
}

// MustNew is like New but panics on invalid input. Meant for built-in data.
func MustNew(site Site, posts []Post) *Catalog {
	c, err := New(site, posts)
	if err != nil {
		panic(err)
	}
	return c
}

// Site returns the site settings.
func (c *Catalog) Site() Site {
	return c.site
}

// Posts returns a copy of all posts in catalog order.
func (c *Catalog) Posts() []Post {
	out := make([]Post, len(c.posts))
	copy(out, c.posts)
	return out
}

// Len returns the number of posts.
func (c *Catalog) Len() int {
	return len(c.posts)
}

// Find returns the post with the given id.
func (c *Catalog) Find(id string) (Post, bool) {
	i, ok := c.byID[id]
	if !ok {
		return Post{}, false
	}
	return c.posts[i], true
}
