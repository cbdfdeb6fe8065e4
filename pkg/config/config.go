// Package config provides configuration management for yek.
//
// Configuration Loading Order (later overrides earlier):
// 1. Defaults (hardcoded)
// 2. Config file: yek.yaml, yek.yml, yek.toml or yek.json in the first input directory
// 3. Environment Variables: YEK_* (a .env file in the working directory is loaded first)
// 4. Command-line flags
package config

// Config represents the complete, unresolved application configuration.
type Config struct {
	InputPaths       []string `yaml:"input_paths" toml:"input_paths"`
	IgnorePatterns   []string `yaml:"ignore_patterns" toml:"ignore_patterns"`
	UnignorePatterns []string `yaml:"unignore_patterns" toml:"unignore_patterns"`
	BinaryExtensions []string `yaml:"binary_extensions" toml:"binary_extensions"`

	MaxSize string `yaml:"max_size" toml:"max_size"` // byte budget per chunk, e.g. "10MB"
	Tokens  string `yaml:"tokens" toml:"tokens"`     // token budget; enables token mode when set

	PriorityRules   []PriorityRule   `yaml:"priority_rules" toml:"priority_rules"`
	CategoryWeights *CategoryWeights `yaml:"category_weights,omitempty" toml:"category_weights,omitempty"`
	GitBoostMax     int              `yaml:"git_boost_max" toml:"git_boost_max"`
	MaxGitDepth     int              `yaml:"max_git_depth" toml:"max_git_depth"`

	OutputTemplate string `yaml:"output_template" toml:"output_template"`
	OutputDir      string `yaml:"output_dir" toml:"output_dir"`
	OutputName     string `yaml:"output_name" toml:"output_name"`
	Stream         *bool  `yaml:"stream,omitempty" toml:"stream,omitempty"` // nil = auto-detect
	JSON           bool   `yaml:"json" toml:"json"`
	TreeHeader     bool   `yaml:"tree_header" toml:"tree_header"`
	TreeOnly       bool   `yaml:"tree_only" toml:"tree_only"`
	LineNumbers    bool   `yaml:"line_numbers" toml:"line_numbers"`

	Threads        int    `yaml:"threads" toml:"threads"`             // 0 = runtime.NumCPU()
	MaxFileSize    string `yaml:"max_file_size" toml:"max_file_size"` // per-file memory ceiling
	FollowSymlinks bool   `yaml:"follow_symlinks" toml:"follow_symlinks"`
	Debug          bool   `yaml:"debug" toml:"debug"`

	// ConfigFile is the file the configuration was read from, if any.
	ConfigFile string `yaml:"-" toml:"-"`
}

// PriorityRule assigns Score to every path matching Pattern or any of Patterns.
type PriorityRule struct {
	Pattern  string   `yaml:"pattern,omitempty" toml:"pattern,omitempty"`
	Patterns []string `yaml:"patterns,omitempty" toml:"patterns,omitempty"`
	Score    int64    `yaml:"score" toml:"score"`
	Kind     string   `yaml:"kind,omitempty" toml:"kind,omitempty"` // "regex" (default) or "glob"
}

// CategoryWeights sets the base score of files no priority rule matches,
// chosen by the file's category.
type CategoryWeights struct {
	Source        int64 `yaml:"source" toml:"source"`
	Test          int64 `yaml:"test" toml:"test"`
	Configuration int64 `yaml:"configuration" toml:"configuration"`
	Documentation int64 `yaml:"documentation" toml:"documentation"`
	Other         int64 `yaml:"other" toml:"other"`
}

// AllPatterns returns Pattern followed by Patterns, skipping empties.
func (r PriorityRule) AllPatterns() []string {
	var out []string
	if r.Pattern != "" {
		out = append(out, r.Pattern)
	}
	for _, p := range r.Patterns {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// TokenMode reports whether budgets are measured in tokens.
func (c *Config) TokenMode() bool {
	return c.Tokens != ""
}
