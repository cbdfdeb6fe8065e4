// File: pkg/config/validate.go
package config

import (
	"fmt"
	"runtime"
	"strings"

	"go.uber.org/multierr"

	yerr "yek/pkg/errors"
	"yek/pkg/ignore"
	"yek/pkg/priority"
)

// Template placeholders.
const (
	PlaceholderPath    = "FILE_PATH"
	PlaceholderContent = "FILE_CONTENT"
)

// Settings is the validated, fully parsed form of a Config. It is built
// once per run and never modified.
type Settings struct {
	Inputs []string

	// IgnorePatterns holds the default list followed by user patterns.
	// Per-root .gitignore lines go after these, UnignorePatterns last.
	IgnorePatterns   []string
	UnignorePatterns []string
	BinaryExtensions map[string]bool

	TokenMode   bool
	Budget      int64 // bytes, or tokens in token mode
	MaxFileSize int64

	Rules           []priority.Rule
	CategoryWeights *priority.Weights
	GitBoostMax     int64
	MaxGitDepth     int

	Template    string
	OutputDir   string
	OutputName  string
	Stream      *bool
	JSON        bool
	TreeHeader  bool
	TreeOnly    bool
	LineNumbers bool

	Threads        int
	FollowSymlinks bool
	Debug          bool
}

// Resolve validates c and returns its Settings. All problems are reported
// together; any of them is a configuration error.
func (c *Config) Resolve() (*Settings, error) {
	s := &Settings{
		Inputs:         append([]string(nil), c.InputPaths...),
		TokenMode:      c.TokenMode(),
		GitBoostMax:    int64(c.GitBoostMax),
		MaxGitDepth:    c.MaxGitDepth,
		Template:       c.OutputTemplate,
		OutputDir:      c.OutputDir,
		OutputName:     c.OutputName,
		Stream:         c.Stream,
		JSON:           c.JSON,
		TreeHeader:     c.TreeHeader,
		TreeOnly:       c.TreeOnly,
		LineNumbers:    c.LineNumbers,
		Threads:        c.Threads,
		FollowSymlinks: c.FollowSymlinks,
		Debug:          c.Debug,
	}
	var errs error

	var err error
	if s.TokenMode {
		s.Budget, err = ParseTokenCount(c.Tokens)
	} else {
		s.Budget, err = ParseByteSize(c.MaxSize)
	}
	if err != nil {
		errs = multierr.Append(errs, yerr.Configf(err, "parse budget"))
	} else if s.Budget <= 0 {
		errs = multierr.Append(errs, yerr.Configf(yerr.ErrInvalidBudget, "budget must be positive"))
	}

	if s.MaxFileSize, err = ParseByteSize(c.MaxFileSize); err != nil {
		errs = multierr.Append(errs, yerr.Configf(err, "parse max_file_size"))
	} else if s.MaxFileSize <= 0 {
		errs = multierr.Append(errs, yerr.Configf(yerr.ErrInvalidBudget, "max_file_size must be positive"))
	}

	for _, rule := range c.PriorityRules {
		patterns := rule.AllPatterns()
		if len(patterns) == 0 {
			errs = multierr.Append(errs, yerr.Configf(yerr.ErrInvalidPattern, "priority rule with score %d has no pattern", rule.Score))
			continue
		}
		for _, p := range patterns {
			compiled, err := priority.CompileRule(rule.Kind, p, rule.Score)
			if err != nil {
				errs = multierr.Append(errs, err)
				continue
			}
			s.Rules = append(s.Rules, compiled)
		}
	}
	if w := c.CategoryWeights; w != nil {
		s.CategoryWeights = &priority.Weights{
			Source:        w.Source,
			Test:          w.Test,
			Configuration: w.Configuration,
			Documentation: w.Documentation,
			Other:         w.Other,
		}
	}
	if c.GitBoostMax < 0 {
		errs = multierr.Append(errs, yerr.Configf(fmt.Errorf("git_boost_max %d is negative", c.GitBoostMax), "validate"))
	}
	if c.MaxGitDepth < 0 {
		errs = multierr.Append(errs, yerr.Configf(fmt.Errorf("max_git_depth %d is negative", c.MaxGitDepth), "validate"))
	}

	s.IgnorePatterns = append(append([]string(nil), DefaultIgnorePatterns...), c.IgnorePatterns...)
	for _, p := range c.UnignorePatterns {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		s.UnignorePatterns = append(s.UnignorePatterns, "!"+strings.TrimPrefix(p, "!"))
	}
	probe := ignore.New(nil)
	if err := probe.CompileIgnoreLines(c.IgnorePatterns...); err != nil {
		errs = multierr.Append(errs, err)
	}
	if err := probe.CompileIgnoreLines(s.UnignorePatterns...); err != nil {
		errs = multierr.Append(errs, err)
	}

	s.BinaryExtensions = make(map[string]bool, len(BinaryExtensions)+len(c.BinaryExtensions))
	for _, list := range [][]string{BinaryExtensions, c.BinaryExtensions} {
		for _, ext := range list {
			ext = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
			if ext != "" {
				s.BinaryExtensions[ext] = true
			}
		}
	}

	if !strings.Contains(s.Template, PlaceholderPath) && !strings.Contains(s.Template, PlaceholderContent) {
		errs = multierr.Append(errs, yerr.Configf(fmt.Errorf("template %q has neither %s nor %s", s.Template, PlaceholderPath, PlaceholderContent), "validate output_template"))
	}
	if s.OutputName == "" {
		s.OutputName = DefaultOutputName
	}
	if strings.ContainsAny(s.OutputName, `/\`) {
		errs = multierr.Append(errs, yerr.Configf(fmt.Errorf("output_name %q contains a path separator", s.OutputName), "validate"))
	}

	if s.TreeOnly && s.JSON {
		errs = multierr.Append(errs, yerr.Configf(yerr.ErrConflictingFlags, "tree_only cannot be combined with json"))
	}
	if s.Stream != nil && *s.Stream && s.OutputDir != "" {
		errs = multierr.Append(errs, yerr.Configf(yerr.ErrConflictingFlags, "stream cannot be combined with output_dir"))
	}

	if s.Threads < 0 {
		errs = multierr.Append(errs, yerr.Configf(fmt.Errorf("threads %d is negative", s.Threads), "validate"))
	} else if s.Threads == 0 {
		s.Threads = runtime.NumCPU()
	}

	if errs != nil {
		return nil, errs
	}
	return s, nil
}

// IsBinaryExtension reports whether ext (with or without the dot) is in
// the binary table.
func (s *Settings) IsBinaryExtension(ext string) bool {
	return s.BinaryExtensions[strings.ToLower(strings.TrimPrefix(ext, "."))]
}
