package catalog

import (
	"errors"
	"strings"
	"testing"
)

func ids(posts []Post) []string {
	out := make([]string, len(posts))
	for i, p := range posts {
		out[i] = p.ID
	}
	return out
}

func equalIDs(t *testing.T, got []Post, want ...string) {
	t.Helper()
	g := ids(got)
	if len(g) != len(want) {
		t.Fatalf("ids = %v, want %v", g, want)
	}
	for i := range want {
		if g[i] != want[i] {
			t.Fatalf("ids = %v, want %v", g, want)
		}
	}
}

func TestVisiblePostsNoFilterNewestFirst(t *testing.T) {
	got := VisiblePosts(Default(), FilterState{})
	equalIDs(t, got, "first-post", "ai-learning-notes-2026", "study-abroad-experience")
	wantDates := []string{"2026-02-10", "2026-02-05", "2026-01-20"}
	for i, p := range got {
		if p.Date != wantDates[i] {
			t.Errorf("post %d date = %q, want %q", i, p.Date, wantDates[i])
		}
	}
}

func TestVisiblePostsCategoryExact(t *testing.T) {
	c := Default()
	got := VisiblePosts(c, FilterState{Category: "AI"})
	equalIDs(t, got, "ai-learning-notes-2026")
	if got[0].Title != "2026年AI学习笔记" {
		t.Errorf("title = %q", got[0].Title)
	}
	if got := VisiblePosts(c, FilterState{Category: "ai"}); len(got) != 0 {
		t.Errorf("category match should be case-sensitive, got %v", ids(got))
	}
}

func TestVisiblePostsSearchIgnoresCase(t *testing.T) {
	c := Default()
	for _, in := range []string{"ai", "AI", "Ai"} {
		got := VisiblePosts(c, NewFilterState(in, "", ""))
		equalIDs(t, got, "ai-learning-notes-2026")
	}
	// excerpt-only match
	got := VisiblePosts(c, NewFilterState("自留地", "", ""))
	equalIDs(t, got, "first-post")
}

func TestVisiblePostsTag(t *testing.T) {
	c := Default()
	equalIDs(t, VisiblePosts(c, FilterState{Tag: "留学"}), "study-abroad-experience")
	if got := VisiblePosts(c, FilterState{Tag: "missing"}); len(got) != 0 {
		t.Errorf("unknown tag should match nothing, got %v", ids(got))
	}
}

func TestVisiblePostsAllPredicates(t *testing.T) {
	c := Default()
	got := VisiblePosts(c, FilterState{Search: "ai", Tag: "AI", Category: "AI"})
	equalIDs(t, got, "ai-learning-notes-2026")
	got = VisiblePosts(c, FilterState{Search: "ai", Category: "生活"})
	if len(got) != 0 {
		t.Errorf("expected empty result, got %v", ids(got))
	}
}

func TestVisiblePostsSubsetProperty(t *testing.T) {
	c := MustNew(Site{}, []Post{
		{ID: "a", Title: "Go tips", Date: "2024-03-01", Category: "dev", Tags: []string{"go"}, Excerpt: "x", ContentPath: "a.md"},
		{ID: "b", Title: "Rust", Date: "2024-03-02", Category: "dev", Tags: []string{"rust"}, Excerpt: "go further", ContentPath: "b.md"},
		{ID: "c", Title: "Travel", Date: "2024-03-03", Category: "life", Tags: []string{"go", "trip"}, Excerpt: "y", ContentPath: "c.md"},
		{ID: "d", Title: "GO home", Date: "2024-02-01", Category: "Dev", Tags: nil, Excerpt: "", ContentPath: "d.md"},
	})
	filters := []FilterState{
		{},
		{Search: "go"},
		{Tag: "go"},
		{Category: "dev"},
		{Search: "go", Tag: "go"},
		{Search: "go", Category: "dev"},
		{Search: "zzz"},
		{Tag: "trip", Category: "life"},
	}
	for _, f := range filters {
		got := VisiblePosts(c, f)
		in := make(map[string]bool)
		for _, p := range got {
			in[p.ID] = true
			if !f.Match(p) {
				t.Errorf("%+v: returned %q which does not match", f, p.ID)
			}
		}
		for _, p := range c.Posts() {
			if in[p.ID] {
				continue
			}
			failsSearch := f.Search != "" &&
				!strings.Contains(strings.ToLower(p.Title), f.Search) &&
				!strings.Contains(strings.ToLower(p.Excerpt), f.Search)
			failsTag := f.Tag != "" && !p.HasTag(f.Tag)
			failsCategory := f.Category != "" && p.Category != f.Category
			if !failsSearch && !failsTag && !failsCategory {
				t.Errorf("%+v: excluded %q although it passes every predicate", f, p.ID)
			}
		}
		for i := 1; i < len(got); i++ {
			if got[i-1].Published().Before(got[i].Published()) {
				t.Errorf("%+v: %q before newer %q", f, got[i-1].ID, got[i].ID)
			}
		}
	}
}

func TestVisiblePostsStableOnEqualDates(t *testing.T) {
	posts := []Post{
		{ID: "old", Date: "2024-01-01", ContentPath: "x"},
		{ID: "tie-1", Date: "2024-05-05", ContentPath: "x"},
		{ID: "tie-2", Date: "2024-05-05", ContentPath: "x"},
		{ID: "new", Date: "2024-06-01", ContentPath: "x"},
		{ID: "tie-3", Date: "2024-05-05", ContentPath: "x"},
	}
	c := MustNew(Site{}, posts)
	for i := 0; i < 20; i++ {
		equalIDs(t, VisiblePosts(c, FilterState{}), "new", "tie-1", "tie-2", "tie-3", "old")
	}
}

func TestToggleTagRoundTrip(t *testing.T) {
	f := FilterState{Search: "go", Category: "dev"}
	on := f.ToggleTag("go")
	if on.Tag != "go" {
		t.Fatalf("Tag = %q, want go", on.Tag)
	}
	off := on.ToggleTag("go")
	if off != f {
		t.Errorf("toggle twice = %+v, want %+v", off, f)
	}
	other := on.ToggleTag("rust")
	if other.Tag != "rust" {
		t.Errorf("switching tag should replace selection, got %q", other.Tag)
	}
}

func TestNewFilterStateLowersSearch(t *testing.T) {
	f := NewFilterState("HeLLo", "Go", "Dev")
	if f.Search != "hello" {
		t.Errorf("Search = %q", f.Search)
	}
	if f.Tag != "Go" || f.Category != "Dev" {
		t.Errorf("tag/category should be verbatim, got %+v", f)
	}
	if !(FilterState{}).IsZero() || f.IsZero() {
		t.Error("IsZero mismatch")
	}
}

func TestAllTagsDistinctFirstAppearance(t *testing.T) {
	c := MustNew(Site{}, []Post{
		{ID: "a", Date: "2024-01-01", Tags: []string{"go", "web", "go"}, ContentPath: "x"},
		{ID: "b", Date: "2024-01-02", Tags: []string{"rust", "web"}, ContentPath: "x"},
		{ID: "c", Date: "2024-01-03", Tags: []string{"Go"}, ContentPath: "x"},
	})
	got := AllTags(c)
	want := []string{"go", "web", "rust", "Go"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("AllTags = %v, want %v", got, want)
	}
	if got := AllTags(Default()); len(got) != 6 {
		t.Errorf("default catalog tag count = %d, want 6", len(got))
	}
}

func TestCategories(t *testing.T) {
	got := Categories(Default())
	if strings.Join(got, ",") != "生活,AI,留学" {
		t.Errorf("Categories = %v", got)
	}
}

func TestRelated(t *testing.T) {
	c := MustNew(Site{}, []Post{
		{ID: "a", Date: "2024-01-01", Tags: []string{"go"}, ContentPath: "x"},
		{ID: "b", Date: "2024-01-03", Tags: []string{"go", "web"}, ContentPath: "x"},
		{ID: "c", Date: "2024-01-02", Tags: []string{"web"}, ContentPath: "x"},
		{ID: "d", Date: "2024-01-04", Tags: []string{"rust"}, ContentPath: "x"},
	})
	cur, _ := c.Find("a")
	equalIDs(t, Related(c, cur, 0), "b")
	cur, _ = c.Find("b")
	equalIDs(t, Related(c, cur, 0), "c", "a")
	equalIDs(t, Related(c, cur, 1), "c")
}

func TestNewValidation(t *testing.T) {
	tests := []struct {
		name  string
		posts []Post
	}{
		{"missing id", []Post{{Date: "2024-01-01", ContentPath: "x"}}},
		{"duplicate id", []Post{{ID: "a", Date: "2024-01-01", ContentPath: "x"}, {ID: "a", Date: "2024-01-02", ContentPath: "y"}}},
		{"bad date", []Post{{ID: "a", Date: "2024-13-01", ContentPath: "x"}}},
		{"no content path", []Post{{ID: "a", Date: "2024-01-01"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(Site{}, tt.posts)
			if !errors.Is(err, ErrInvalidPost) {
				t.Errorf("err = %v, want ErrInvalidPost", err)
			}
		})
	}
}

func TestFind(t *testing.T) {
	c := Default()
	if _, ok := c.Find("nope"); ok {
		t.Error("Find should miss unknown id")
	}
	p, ok := c.Find("study-abroad-experience")
	if !ok || p.ContentPath != "posts/study-abroad-experience.md" {
		t.Errorf("Find = %+v, %v", p, ok)
	}
}
