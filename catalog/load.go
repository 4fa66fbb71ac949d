package catalog

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// file is the on-disk shape of a catalog YAML file.
type file struct {
	Site  *Site  `yaml:"site"`
	Posts []Post `yaml:"posts"`
}

// Decode reads a catalog from YAML. A missing site section falls back to
// DefaultSite; posts are always taken from the document.
func Decode(r io.Reader) (*Catalog, error) {
	var f file
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && err != io.EOF {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	site := DefaultSite
	if f.Site != nil {
		site = *f.Site
	}
	return New(site, f.Posts)
}

// Load reads the catalog file at path. An empty path yields Default().
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default(), nil
	}
	fh, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog %s: %w", path, err)
	}
	defer fh.Close()
	c, err := Decode(fh)
	if err != nil {
		return nil, fmt.Errorf("load catalog %s: %w", path, err)
	}
	return c, nil
}
