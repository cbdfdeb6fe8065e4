// File: pkg/ignore/patterns.go
package ignore

import (
	"fmt"
	"regexp"
	"strings"

	yerr "yek/pkg/errors"
)

// parsePatternLine processes a single gitignore-syntax line and returns a
// compiled regular expression and a negation flag.
// Returns a nil regexp if the line is a comment or empty.
func parsePatternLine(line string) (*regexp.Regexp, bool, error) {
	trimmed := strings.TrimRight(line, " \t\r")
	trimmed = strings.TrimLeft(trimmed, " \t")

	// Ignore empty lines and comments
	if trimmed == "" || strings.HasPrefix(trimmed, "#") {
		return nil, false, nil
	}

	// Handle negation
	negate := false
	if strings.HasPrefix(trimmed, "!") {
		negate = true
		trimmed = trimmed[1:]
	}

	// Escaped leading '#' or '!'
	if strings.HasPrefix(trimmed, `\#`) || strings.HasPrefix(trimmed, `\!`) {
		trimmed = trimmed[1:]
	}
	if trimmed == "" || trimmed == "/" {
		return nil, false, nil
	}

	expr := patternToRegex(trimmed)
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, false, yerr.Configf(fmt.Errorf("%w: %q: %v", yerr.ErrInvalidPattern, line, err), "compile ignore pattern")
	}
	return re, negate, nil
}

// patternToRegex converts a gitignore glob to an anchored regular expression
// matched against slash-separated relative paths. Directories are presented
// with a trailing slash.
func patternToRegex(pattern string) string {
	dirOnly := strings.HasSuffix(pattern, "/")
	pattern = strings.TrimSuffix(pattern, "/")

	// A slash anywhere but the end anchors the pattern to the root.
	anchored := strings.Contains(pattern, "/")
	pattern = strings.TrimPrefix(pattern, "/")

	var b strings.Builder
	b.WriteString("^")
	if !anchored {
		b.WriteString("(?:.*/)?")
	}

	for i := 0; i < len(pattern); i++ {
		c := pattern[i]
		switch {
		case c == '*' && strings.HasPrefix(pattern[i:], "**/"):
			// leading or middle "**/" matches zero or more directories
			b.WriteString("(?:.*/)?")
			i += 2
		case c == '*' && strings.HasPrefix(pattern[i:], "**") && i+2 == len(pattern):
			b.WriteString(".*")
			i++
		case c == '*':
			b.WriteString("[^/]*")
		case c == '?':
			b.WriteString("[^/]")
		case c == '[':
			end := strings.IndexByte(pattern[i+1:], ']')
			if end < 0 {
				b.WriteString(`\[`)
				continue
			}
			class := pattern[i+1 : i+1+end]
			if strings.HasPrefix(class, "!") {
				class = "^" + class[1:]
			}
			b.WriteString("[" + class + "]")
			i += end + 1
		case c == '\\' && i+1 < len(pattern):
			i++
			b.WriteString(regexp.QuoteMeta(string(pattern[i])))
		default:
			b.WriteString(regexp.QuoteMeta(string(c)))
		}
	}

	if dirOnly {
		// only paths below a matching directory, or the directory itself
		b.WriteString("/.*$")
	} else {
		b.WriteString("(?:/.*)?$")
	}
	return b.String()
}
