package metadata

import (
	"embed"
	"os"
	"path/filepath"
)

// Resource file names, without extension.
const (
	LocalesResource = "locales"
	WikiResource    = "wiki"
	CSVExtension    = "csv"
)

// Provider returns the contents of a bundled resource, or false when it is
// absent.
type Provider interface {
	FileContents(name, ext string) (string, bool)
}

//go:embed resources/*.csv
var resourceFS embed.FS

// EmbeddedProvider serves the resources compiled into the binary.
type EmbeddedProvider struct{}

// FileContents implements Provider.
func (EmbeddedProvider) FileContents(name, ext string) (string, bool) {
	data, err := resourceFS.ReadFile("resources/" + name + "." + ext)
	if err != nil {
		return "", false
	}
	return string(data), true
}

// DirProvider serves resources from a directory on disk.
type DirProvider struct {
	Dir string
}

// FileContents implements Provider.
func (p DirProvider) FileContents(name, ext string) (string, bool) {
	data, err := os.ReadFile(filepath.Join(p.Dir, name+"."+ext))
	if err != nil {
		return "", false
	}
	return string(data), true
}

// FallbackProvider tries each provider in turn.
type FallbackProvider []Provider

// FileContents implements Provider.
func (f FallbackProvider) FileContents(name, ext string) (string, bool) {
	for _, p := range f {
		if p == nil {
			continue
		}
		if s, ok := p.FileContents(name, ext); ok {
			return s, true
		}
	}
	return "", false
}
