// File: pkg/ignore/ignore.go
package ignore

import (
	"os"
	"path"
	"regexp"
	"strings"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	yerr "yek/pkg/errors"
)

// IgnorePattern encapsulates a compiled regular expression pattern,
// a negation flag, and metadata about the pattern's origin.
type IgnorePattern struct {
	Pattern *regexp.Regexp // Compiled regular expression for the pattern.
	Negate  bool           // Indicates if the pattern is a negation (starts with '!').
	LineNo  int            // Line number in the source (1-based).
	Line    string         // Original pattern line.
	Source  string         // File the line came from, empty for inline patterns.

	anchored bool   // pattern is rooted at the base
	prefix   string // literal leading part of the pattern
}

// Matcher represents an ordered collection of ignore patterns.
// Later patterns take precedence over earlier ones.
type Matcher struct {
	patterns []*IgnorePattern
	logger   *zap.Logger
}

// New initializes a Matcher with a provided logger.
func New(logger *zap.Logger) *Matcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Matcher{logger: logger}
}

// Len returns the number of compiled patterns.
func (m *Matcher) Len() int {
	return len(m.patterns)
}

// CompileIgnoreLines compiles inline pattern lines. Every invalid line is
// reported; valid lines are still added.
func (m *Matcher) CompileIgnoreLines(lines ...string) error {
	return m.compile("", lines)
}

// CompileIgnoreFile reads an ignore file and compiles its lines.
// A missing file is not an error.
func (m *Matcher) CompileIgnoreFile(filePath string) error {
	content, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			m.logger.Debug("Ignore file does not exist and will be skipped", zap.String("filePath", filePath))
			return nil
		}
		return yerr.New(yerr.IO, "read ignore file", filePath, err)
	}
	lines := strings.Split(string(content), "\n")
	if err := m.compile(filePath, lines); err != nil {
		return err
	}
	m.logger.Debug("Compiled ignore patterns from file",
		zap.String("filePath", filePath),
		zap.Int("lineCount", len(lines)))
	return nil
}

func (m *Matcher) compile(source string, lines []string) error {
	var errs error
	for i, line := range lines {
		re, negate, err := parsePatternLine(line)
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		if re == nil {
			continue
		}
		ip := &IgnorePattern{
			Pattern: re,
			Negate:  negate,
			LineNo:  i + 1,
			Line:    line,
			Source:  source,
		}
		ip.anchored, ip.prefix = literalPrefix(line)
		m.patterns = append(m.patterns, ip)
		m.logger.Debug("Compiled ignore pattern",
			zap.String("source", source),
			zap.Int("lineNo", ip.LineNo),
			zap.String("pattern", ip.Line),
			zap.Bool("negate", ip.Negate))
	}
	return errs
}

// IsIgnored reports whether the normalized file path is ignored.
func (m *Matcher) IsIgnored(normalizedPath string) bool {
	matched, _ := m.MatchesPathWithPattern(normalizedPath)
	return matched
}

// IsIgnoredDir reports whether the normalized directory path can be pruned
// from the walk: it is ignored and no negation could re-include anything
// below it.
func (m *Matcher) IsIgnoredDir(normalizedPath string) bool {
	dir := strings.TrimSuffix(normalizedPath, "/")
	if !m.IsIgnored(dir + "/") {
		return false
	}
	for _, p := range m.patterns {
		if !p.Negate {
			continue
		}
		if !p.anchored {
			return false
		}
		if strings.HasPrefix(p.prefix, dir+"/") || strings.HasPrefix(dir+"/", p.prefix) {
			return false
		}
	}
	return true
}

// MatchesPathWithPattern checks if the given path matches any ignore pattern.
// It returns a boolean indicating a match and the last IgnorePattern that matched.
func (m *Matcher) MatchesPathWithPattern(p string) (bool, *IgnorePattern) {
	p = strings.TrimPrefix(path.Clean("/"+p), "/") + trailingSlash(p)

	matched := false
	var matchedPattern *IgnorePattern
	for _, pattern := range m.patterns {
		if pattern.Pattern.MatchString(p) {
			matched = !pattern.Negate
			matchedPattern = pattern
		}
	}
	return matched, matchedPattern
}

func trailingSlash(p string) string {
	if strings.HasSuffix(p, "/") && p != "/" {
		return "/"
	}
	return ""
}

// literalPrefix reports whether a pattern line is anchored and returns the
// part before its first wildcard.
func literalPrefix(line string) (bool, string) {
	p := strings.TrimSpace(line)
	p = strings.TrimPrefix(p, "!")
	body := strings.TrimSuffix(p, "/")
	anchored := strings.Contains(body, "/")
	p = strings.TrimPrefix(p, "/")
	if i := strings.IndexAny(p, `*?[\`); i >= 0 {
		p = p[:i]
	}
	return anchored, p
}
