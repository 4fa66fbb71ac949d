package views

//go:generate templ generate

// Env carries request-independent values every builder needs.
type Env struct {
	BaseURL string // canonical site URL, used for JSON-LD
	Year    int    // copyright year in the footer
}

// Link is a plain labelled hyperlink.
type Link struct {
	Label string
	Href  string
}

// NavItem is a header navigation entry.
type NavItem struct {
	Label  string
	Href   string
	Active bool
}

// Chrome is the shared page frame: head metadata, header and footer.
type Chrome struct {
	DocumentTitle string
	SiteTitle     string
	Subtitle      string
	Nav           []NavItem
	Social        []Link
	Year          int
	JSONLD        string
}

// PostEntry is one row of the post list.
type PostEntry struct {
	ID           string
	Title        string
	Href         string
	Date         string
	Category     string
	CategoryHref string
	Excerpt      string
}

// PostList is the content of the #posts-container element.
type PostList struct {
	Entries      []PostEntry
	Empty        bool
	EmptyMessage string
}

// TagItem is a selectable filter pill (tag or category).
type TagItem struct {
	Name   string
	Href   string
	Active bool
}

// Hidden is a hidden form field carried along with the search form.
type Hidden struct {
	Name  string
	Value string
}

// Sidebar holds the tag cloud, category list and search control.
type Sidebar struct {
	Tags       []TagItem
	Categories []TagItem
	Search     string
	Action     string   // search form action
	Hidden     []Hidden // active filters preserved on submit
	LiveURL    string   // htmx endpoint for live search; "" disables it
}

// ListPage is the home page and the category page.
type ListPage struct {
	Chrome
	Heading string // #category-title text; empty on the home page
	List    PostList
	Sidebar Sidebar
}

// PostPage is a fully rendered single post.
type PostPage struct {
	Chrome
	ID           string
	Title        string
	Date         string
	Category     string
	CategoryHref string
	Tags         []TagItem
	Body         string // converted HTML
	BackHref     string
	Related      []PostEntry
}

// AboutPage is the static about page.
type AboutPage struct {
	Chrome
	Paragraphs []string
	Sidebar    Sidebar
}

// ErrorPage replaces the whole body with a message and a way home.
type ErrorPage struct {
	DocumentTitle string
	Heading       string
	Message       string
	Home          Link
	Status        int
}
