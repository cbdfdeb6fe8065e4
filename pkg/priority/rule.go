// File: pkg/priority/rule.go
package priority

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	yerr "yek/pkg/errors"
)

// Rule kinds accepted by CompileRule.
const (
	KindRegex = "regex"
	KindGlob  = "glob"
)

// Matcher reports whether a normalized path matches.
type Matcher interface {
	Matches(path string) bool
	String() string
}

// Rule pairs a compiled matcher with the score it awards.
type Rule struct {
	Matcher Matcher
	Score   int64
}

type regexMatcher struct {
	re *regexp.Regexp
}

func (m regexMatcher) Matches(path string) bool { return m.re.MatchString(path) }
func (m regexMatcher) String() string          { return "regex:" + m.re.String() }

type globMatcher struct {
	pattern string
}

// Matches never errors here; the pattern was validated at compile time.
func (m globMatcher) Matches(path string) bool {
	ok, _ := doublestar.Match(m.pattern, path)
	return ok
}

func (m globMatcher) String() string { return "glob:" + m.pattern }

// CompileRule builds a Rule. An empty kind means regex.
func CompileRule(kind, pattern string, score int64) (Rule, error) {
	if pattern == "" {
		return Rule{}, yerr.Configf(yerr.ErrInvalidPattern, "compile priority rule: empty pattern")
	}
	switch strings.ToLower(kind) {
	case "", KindRegex:
		re, err := regexp.Compile(pattern)
		if err != nil {
			return Rule{}, yerr.Configf(fmt.Errorf("%w: %v", yerr.ErrInvalidPattern, err), "compile priority rule %q", pattern)
		}
		return Rule{Matcher: regexMatcher{re: re}, Score: score}, nil
	case KindGlob:
		if !doublestar.ValidatePattern(pattern) {
			return Rule{}, yerr.Configf(yerr.ErrInvalidPattern, "compile priority rule %q", pattern)
		}
		return Rule{Matcher: globMatcher{pattern: pattern}, Score: score}, nil
	default:
		return Rule{}, yerr.Configf(fmt.Errorf("%w: unknown kind %q", yerr.ErrInvalidPattern, kind), "compile priority rule %q", pattern)
	}
}
