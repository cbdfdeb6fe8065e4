// File: pkg/priority/category.go
package priority

import (
	"path"
	"strings"
)

// Category is a coarse classification of a file by its path.
type Category int

const (
	CategorySource Category = iota
	CategoryTest
	CategoryConfiguration
	CategoryDocumentation
	CategoryOther
)

func (c Category) String() string {
	switch c {
	case CategorySource:
		return "source"
	case CategoryTest:
		return "test"
	case CategoryConfiguration:
		return "configuration"
	case CategoryDocumentation:
		return "documentation"
	default:
		return "other"
	}
}

// Weights holds the base score per category for files no rule matches.
type Weights struct {
	Source        int64
	Test          int64
	Configuration int64
	Documentation int64
	Other         int64
}

// DefaultWeights favour source, then documentation, then tests.
var DefaultWeights = Weights{
	Source:        20,
	Test:          10,
	Configuration: 5,
	Documentation: 15,
	Other:         1,
}

// For returns the weight of c.
func (w Weights) For(c Category) int64 {
	switch c {
	case CategorySource:
		return w.Source
	case CategoryTest:
		return w.Test
	case CategoryConfiguration:
		return w.Configuration
	case CategoryDocumentation:
		return w.Documentation
	default:
		return w.Other
	}
}

var (
	testDirs = map[string]bool{
		"test": true, "tests": true, "spec": true, "specs": true,
		"__tests__": true, "testing": true, "testdata": true,
	}
	configNames = map[string]bool{
		"makefile": true, "dockerfile": true, "docker-compose.yml": true,
		"docker-compose.yaml": true, ".editorconfig": true, ".gitattributes": true,
		"package.json": true, "tsconfig.json": true, "cargo.toml": true,
		"go.mod": true, "pyproject.toml": true, "setup.cfg": true,
	}
	configExts = map[string]bool{
		".json": true, ".yaml": true, ".yml": true, ".toml": true, ".ini": true,
		".cfg": true, ".conf": true, ".config": true, ".xml": true, ".properties": true,
		".env": true, ".lock": true,
	}
	docExts = map[string]bool{
		".md": true, ".markdown": true, ".rst": true, ".txt": true, ".adoc": true,
		".asciidoc": true, ".org": true, ".tex": true,
	}
	docNames = map[string]bool{
		"readme": true, "changelog": true, "contributing": true, "authors": true,
		"license": true, "copying": true, "notice": true,
	}
	sourceExts = map[string]bool{
		".go": true, ".rs": true, ".c": true, ".h": true, ".cc": true, ".cpp": true,
		".hpp": true, ".cs": true, ".java": true, ".kt": true, ".scala": true,
		".py": true, ".rb": true, ".php": true, ".js": true, ".jsx": true, ".ts": true,
		".tsx": true, ".mjs": true, ".cjs": true, ".swift": true, ".m": true,
		".lua": true, ".pl": true, ".sh": true, ".bash": true, ".zsh": true,
		".ps1": true, ".sql": true, ".r": true, ".dart": true, ".ex": true,
		".exs": true, ".erl": true, ".hs": true, ".ml": true, ".clj": true,
		".vue": true, ".svelte": true, ".html": true, ".css": true, ".scss": true,
		".proto": true, ".zig": true, ".nim": true,
	}
)

// Categorize classifies a normalized path. Tests are recognized first so
// that foo_test.go is a test and not source.
func Categorize(p string) Category {
	lower := strings.ToLower(p)
	base := path.Base(lower)
	ext := path.Ext(base)
	stem := strings.TrimSuffix(base, ext)

	for _, dir := range strings.Split(path.Dir(lower), "/") {
		if testDirs[dir] {
			return CategoryTest
		}
	}
	if strings.HasPrefix(stem, "test_") || strings.HasSuffix(stem, "_test") ||
		strings.HasSuffix(stem, ".test") || strings.HasSuffix(stem, ".spec") ||
		strings.HasSuffix(stem, "_spec") {
		return CategoryTest
	}

	if configNames[base] || configExts[ext] || strings.HasPrefix(base, ".env") {
		return CategoryConfiguration
	}
	if docExts[ext] || docNames[stem] || strings.HasPrefix(lower, "docs/") || strings.Contains(lower, "/docs/") {
		return CategoryDocumentation
	}
	if sourceExts[ext] {
		return CategorySource
	}
	return CategoryOther
}
