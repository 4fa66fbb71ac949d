// Package markdown converts post markdown into display HTML and exposes the
// result as templ components.
package markdown

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html"
	"io"
	"net/url"
	"strings"

	"github.com/a-h/templ"
	"github.com/adrg/frontmatter"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	gmhtml "github.com/yuin/goldmark/renderer/html"
)

// ErrEmpty is returned when there is nothing to convert.
var ErrEmpty = errors.New("markdown: empty document")

// Converter turns raw markdown into display HTML.
type Converter interface {
	Convert(src []byte) (string, error)
}

// ConverterFunc adapts a plain function to Converter.
type ConverterFunc func(src []byte) (string, error)

// Convert calls f(src).
func (f ConverterFunc) Convert(src []byte) (string, error) {
	return f(src)
}

// Meta is the optional front matter block at the top of a post file.
type Meta struct {
	Title string   `yaml:"title"`
	Date  string   `yaml:"date"`
	Tags  []string `yaml:"tags"`
}

// Goldmark is the default Converter: GitHub-flavoured markdown, heading ids,
// chroma syntax highlighting. Front matter is stripped before rendering.
type Goldmark struct {
	md     goldmark.Markdown
	unsafe bool
}

// Option configures a Goldmark converter.
type Option func(*Goldmark)

// WithUnsafeHTML lets raw HTML in the source through to the output.
func WithUnsafeHTML() Option {
	return func(g *Goldmark) { g.unsafe = true }
}

// New returns a Goldmark converter.
func New(opts ...Option) *Goldmark {
	g := &Goldmark{}
	for _, opt := range opts {
		opt(g)
	}
	rendererOpts := []goldmark.Option{}
	if g.unsafe {
		rendererOpts = append(rendererOpts, goldmark.WithRendererOptions(gmhtml.WithUnsafe()))
	}
	g.md = goldmark.New(append([]goldmark.Option{
		goldmark.WithExtensions(
			extension.GFM,
			highlighting.NewHighlighting(
				highlighting.WithStyle("github"),
			),
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
	}, rendererOpts...)...)
	return g
}

// Convert renders src to HTML. Whitespace-only input yields ErrEmpty. A
// leading block that does not decode as front matter is rendered as markdown,
// so a document may open with a thematic break.
func (g *Goldmark) Convert(src []byte) (string, error) {
	body := src
	if _, rest, err := SplitFrontMatter(src); err == nil {
		body = rest
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return "", ErrEmpty
	}
	var buf bytes.Buffer
	if err := g.md.Convert(body, &buf); err != nil {
		return "", fmt.Errorf("markdown: convert: %w", err)
	}
	return buf.String(), nil
}

// SplitFrontMatter separates a leading YAML/TOML front matter block from the
// markdown body. Documents without front matter are returned unchanged.
func SplitFrontMatter(src []byte) (Meta, []byte, error) {
	var meta Meta
	body, err := frontmatter.Parse(bytes.NewReader(src), &meta)
	if err != nil {
		return Meta{}, nil, fmt.Errorf("markdown: front matter: %w", err)
	}
	return meta, body, nil
}

// HTML returns a templ.Component that writes already-converted HTML as is.
func HTML(converted string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, converted)
		return err
	})
}

// SafeURL validates and sanitizes a URL for use in HTML attributes.
// Relative paths, fragments and http(s)/mailto/tel URLs are allowed;
// anything else yields "".
func SafeURL(raw string) string {
	val := strings.TrimSpace(html.UnescapeString(raw))
	if val == "" {
		return ""
	}
	if strings.HasPrefix(val, "/") || strings.HasPrefix(val, "#") || strings.HasPrefix(val, "?") {
		return html.EscapeString(val)
	}
	parsed, err := url.Parse(val)
	if err != nil {
		return ""
	}
	if parsed.Scheme == "" {
		// bare relative reference such as "about.html"
		if parsed.Host == "" && !strings.Contains(val, ":") {
			return html.EscapeString(val)
		}
		return ""
	}
	switch strings.ToLower(parsed.Scheme) {
	case "http", "https", "mailto", "tel":
		return html.EscapeString(val)
	default:
		return ""
	}
}
