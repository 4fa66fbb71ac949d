package blog

import "embed"

// ContentFiles contains the markdown of the built-in posts under
// content/posts.
//
//go:embed content
var ContentFiles embed.FS
