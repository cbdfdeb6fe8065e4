// File: pkg/output/template.go
package output

import (
	"fmt"
	"regexp"
	"strings"

	yerr "yek/pkg/errors"
)

// Template placeholders.
const (
	PathPlaceholder    = "FILE_PATH"
	ContentPlaceholder = "FILE_CONTENT"
)

var placeholderPattern = regexp.MustCompile(PathPlaceholder + "|" + ContentPlaceholder)

type segment struct {
	literal string
	hole    string // "", PathPlaceholder or ContentPlaceholder
}

// Template renders one file entry.
type Template struct {
	raw      string
	segments []segment
	parser   *regexp.Regexp
	holes    []string // placeholder per parser group, in order
}

// NewTemplate compiles s. A literal backslash-n sequence, as typed on a
// command line, is read as a newline. s must contain at least one
// placeholder.
func NewTemplate(s string) (*Template, error) {
	s = strings.ReplaceAll(s, `\\n`, "\n")
	s = strings.ReplaceAll(s, `\n`, "\n")

	t := &Template{raw: s}
	var pattern strings.Builder
	pattern.WriteString(`^`)
	last := 0
	for _, loc := range placeholderPattern.FindAllStringIndex(s, -1) {
		lit := s[last:loc[0]]
		hole := s[loc[0]:loc[1]]
		t.segments = append(t.segments, segment{literal: lit}, segment{hole: hole})
		pattern.WriteString(regexp.QuoteMeta(lit))
		if hole == PathPlaceholder {
			pattern.WriteString(`([^\n]*?)`)
		} else {
			pattern.WriteString(`((?s:.*))`)
		}
		t.holes = append(t.holes, hole)
		last = loc[1]
	}
	if len(t.holes) == 0 {
		return nil, yerr.Configf(fmt.Errorf("template %q has neither %s nor %s", s, PathPlaceholder, ContentPlaceholder), "compile output template")
	}
	t.segments = append(t.segments, segment{literal: s[last:]})
	pattern.WriteString(regexp.QuoteMeta(s[last:]))
	pattern.WriteString(`$`)

	re, err := regexp.Compile(pattern.String())
	if err != nil {
		return nil, yerr.Configf(err, "compile output template")
	}
	t.parser = re
	return t, nil
}

// String returns the template text.
func (t *Template) String() string {
	return t.raw
}

// Render substitutes path and content. Substituted text is never scanned
// for placeholders again.
func (t *Template) Render(path, content string) string {
	var b strings.Builder
	b.Grow(len(t.raw) + len(path) + len(content))
	for _, seg := range t.segments {
		switch seg.hole {
		case PathPlaceholder:
			b.WriteString(path)
		case ContentPlaceholder:
			b.WriteString(content)
		default:
			b.WriteString(seg.literal)
		}
	}
	return b.String()
}

// Parse recovers the path and content from one rendered entry.
func (t *Template) Parse(rendered string) (path, content string, err error) {
	m := t.parser.FindStringSubmatch(rendered)
	if m == nil {
		return "", "", fmt.Errorf("entry does not match template %q", t.raw)
	}
	var havePath, haveContent bool
	for i, hole := range t.holes {
		v := m[i+1]
		switch hole {
		case PathPlaceholder:
			if havePath && v != path {
				return "", "", fmt.Errorf("inconsistent %s values %q and %q", PathPlaceholder, path, v)
			}
			path, havePath = v, true
		case ContentPlaceholder:
			if haveContent && v != content {
				return "", "", fmt.Errorf("inconsistent %s values", ContentPlaceholder)
			}
			content, haveContent = v, true
		}
	}
	return path, content, nil
}
