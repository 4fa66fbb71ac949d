package catalog

import (
	"slices"
	"strings"
)

// FilterState is the filter of a single page view. Empty fields disable the
// corresponding predicate.
type FilterState struct {
	Search   string // lower-cased substring matched against title and excerpt
	Tag      string // exact tag membership
	Category string // exact, case-sensitive category
}

// NewFilterState builds a FilterState from raw inputs. The search term is
// lower-cased; tag and category are kept verbatim.
func NewFilterState(search, tag, category string) FilterState {
	return FilterState{
		Search:   strings.ToLower(search),
		Tag:      tag,
		Category: category,
	}
}

// IsZero reports whether no predicate is active.
func (f FilterState) IsZero() bool {
	return f.Search == "" && f.Tag == "" && f.Category == ""
}

// ToggleTag returns f with tag selected, or with no tag selected if tag was
// already the active one. Only one tag is ever active.
func (f FilterState) ToggleTag(tag string) FilterState {
	if f.Tag == tag {
		f.Tag = ""
		return f
	}
	f.Tag = tag
	return f
}

// Match reports whether p satisfies every active predicate of f.
func (f FilterState) Match(p Post) bool {
	if f.Search != "" {
		q := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(p.Title), q) &&
			!strings.Contains(strings.ToLower(p.Excerpt), q) {
			return false
		}
	}
	if f.Tag != "" && !p.HasTag(f.Tag) {
		return false
	}
	if f.Category != "" && p.Category != f.Category {
		return false
	}
	return true
}

// VisiblePosts returns the posts matching f, newest first. Posts with the
// same date keep their catalog order.
func VisiblePosts(c *Catalog, f FilterState) []Post {
	out := make([]Post, 0, len(c.posts))
	for _, p := range c.posts {
		if f.Match(p) {
			out = append(out, p)
		}
	}
	sortNewestFirst(out)
	return out
}

func sortNewestFirst(posts []Post) {
	slices.SortStableFunc(posts, func(a, b Post) int {
		return b.published.Compare(a.published)
	})
}

// AllTags returns every distinct tag in order of first appearance.
func AllTags(c *Catalog) []string {
	seen := make(map[string]struct{})
	var tags []string
	for _, p := range c.posts {
		for _, t := range p.Tags {
			if t == "" {
				continue
			}
			if _, ok := seen[t]; ok {
				continue
			}
			seen[t] = struct{}{}
			tags = append(tags, t)
		}
	}
	return tags
}

// Categories returns every distinct non-empty category in order of first
// appearance.
func Categories(c *Catalog) []string {
	seen := make(map[string]struct{})
	var cats []string
	for _, p := range c.posts {
		if p.Category == "" {
			continue
		}
		if _, ok := seen[p.Category]; ok {
			continue
		}
		seen[p.Category] = struct{}{}
		cats = append(cats, p.Category)
	}
	return cats
}

// Related returns up to limit other posts sharing at least one tag with
// current, newest first. A limit <= 0 means no limit.
func Related(c *Catalog, current Post, limit int) []Post {
	var related []Post
	for _, p := range c.posts {
		if p.ID == current.ID {
			continue
		}
		for _, t := range p.Tags {
			if current.HasTag(t) {
				related = append(related, p)
				break
			}
		}
	}
	sortNewestFirst(related)
	if limit > 0 && len(related) > limit {
		related = related[:limit]
	}
	return related
}
