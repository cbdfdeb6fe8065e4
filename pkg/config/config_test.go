package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	yerr "yek/pkg/errors"
)

func noEnv(string) (string, bool) { return "", false }

func envMap(m map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}
}

func TestParseByteSize(t *testing.T) {
	cases := []struct {
		in   string
		want int64
		ok   bool
	}{
		{"10MB", 10 * 1024 * 1024, true},
		{"128KB", 128 * 1024, true},
		{"1GB", 1024 * 1024 * 1024, true},
		{"1024", 1024, true},
		{"10 MB", 10 * 1024 * 1024, true},
		{"5kb", 5 * 1024, true},
		{"1KiB", 1024, true},
		{"12B", 12, true},
		{"1K", 0, false},
		{"abc", 0, false},
		{"1.5MB", 0, false},
		{"", 0, false},
		{"-1MB", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseByteSize(tc.in)
		if !tc.ok {
			assert.ErrorIs(t, err, yerr.ErrInvalidBudget, tc.in)
			continue
		}
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got, tc.in)
	}
}

func TestParseTokenCount(t *testing.T) {
	cases := []struct {
		in   string
		want int64
		ok   bool
	}{
		{"100", 100, true},
		{"100k", 100000, true},
		{"128K", 128000, true},
		{"100KB", 0, false},
		{"1.5k", 0, false},
		{"k", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseTokenCount(tc.in)
		if !tc.ok {
			assert.ErrorIs(t, err, yerr.ErrInvalidBudget, tc.in)
			continue
		}
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got, tc.in)
	}
}

func TestLoaderDefaults(t *testing.T) {
	cfg, err := NewLoader().WithProjectRoot(t.TempDir()).WithEnv(noEnv).Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultMaxSize, cfg.MaxSize)
	assert.Equal(t, DefaultOutputTemplate, cfg.OutputTemplate)
	assert.Empty(t, cfg.ConfigFile)
	assert.Nil(t, cfg.Stream)
}

func TestLoaderYAML(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "yek.yaml"), []byte(`
max_size: 64KB
ignore_patterns:
  - "*.gen.go"
priority_rules:
  - pattern: "^src/"
    score: 100
  - patterns: ["docs/**", "*.md"]
    kind: glob
    score: 10
stream: false
`), 0644))

	cfg, err := NewLoader().WithProjectRoot(dir).WithEnv(noEnv).Load()
	require.NoError(t, err)
	assert.Equal(t, "64KB", cfg.MaxSize)
	assert.Equal(t, []string{"*.gen.go"}, cfg.IgnorePatterns)
	require.Len(t, cfg.PriorityRules, 2)
	assert.Equal(t, []string{"docs/**", "*.md"}, cfg.PriorityRules[1].AllPatterns())
	require.NotNil(t, cfg.Stream)
	assert.False(t, *cfg.Stream)
	assert.Equal(t, filepath.Join(dir, "yek.yaml"), cfg.ConfigFile)
}

func TestLoaderTOML(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "yek.toml"), []byte(`
tokens = "128k"
git_boost_max = 40

[[priority_rules]]
pattern = "^src/"
score = 100

[category_weights]
source = 30
`), 0644))

	cfg, err := NewLoader().WithProjectRoot(dir).WithEnv(noEnv).Load()
	require.NoError(t, err)
	assert.True(t, cfg.TokenMode())
	assert.Equal(t, 40, cfg.GitBoostMax)
	require.Len(t, cfg.PriorityRules, 1)
	require.NotNil(t, cfg.CategoryWeights)
	assert.Equal(t, int64(30), cfg.CategoryWeights.Source)
}

func TestLoaderJSONAndUnknownKey(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.json")
	require.NoError(t, os.WriteFile(good, []byte(`{"json": true, "output_name": "ctx"}`), 0644))
	cfg, err := NewLoader().WithConfigFile(good).WithEnv(noEnv).Load()
	require.NoError(t, err)
	assert.True(t, cfg.JSON)
	assert.Equal(t, "ctx", cfg.OutputName)

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("max_sise: 1MB\n"), 0644))
	_, err = NewLoader().WithConfigFile(bad).WithEnv(noEnv).Load()
	require.Error(t, err)
	assert.True(t, yerr.IsKind(err, yerr.Configuration))
}

func TestLoaderEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "yek.yml"), []byte("max_size: 1MB\nthreads: 2\n"), 0644))

	cfg, err := NewLoader().WithProjectRoot(dir).WithEnv(envMap(map[string]string{
		"YEK_MAX_SIZE": "2MB",
		"YEK_THREADS":  "8",
		"YEK_STREAM":   "true",
		"YEK_DEBUG":    "1",
	})).Load()
	require.NoError(t, err)
	assert.Equal(t, "2MB", cfg.MaxSize)
	assert.Equal(t, 8, cfg.Threads)
	require.NotNil(t, cfg.Stream)
	assert.True(t, *cfg.Stream)
	assert.True(t, cfg.Debug)

	_, err = NewLoader().WithProjectRoot(dir).WithEnv(envMap(map[string]string{"YEK_THREADS": "many"})).Load()
	assert.True(t, yerr.IsKind(err, yerr.Configuration))
}

func TestApplyFlagsOnlyChanged(t *testing.T) {
	fs := pflag.NewFlagSet("yek", pflag.ContinueOnError)
	RegisterFlags(fs)
	require.NoError(t, fs.Parse([]string{"--tokens", "10k", "--ignore-patterns", "a/**,b", "--stream"}))

	cfg := DefaultConfig()
	cfg.MaxSize = "3MB"
	cfg.IgnorePatterns = []string{"from-file"}
	require.NoError(t, ApplyFlags(cfg, fs))

	assert.Equal(t, "3MB", cfg.MaxSize, "unset flag keeps file value")
	assert.Equal(t, "10k", cfg.Tokens)
	assert.Equal(t, []string{"from-file", "a/**", "b"}, cfg.IgnorePatterns)
	require.NotNil(t, cfg.Stream)
	assert.True(t, *cfg.Stream)
}

func TestResolveDefaults(t *testing.T) {
	s, err := DefaultConfig().Resolve()
	require.NoError(t, err)
	assert.False(t, s.TokenMode)
	assert.Equal(t, int64(10*1024*1024), s.Budget)
	assert.Equal(t, int64(100*1024*1024), s.MaxFileSize)
	assert.Greater(t, s.Threads, 0)
	assert.True(t, s.IsBinaryExtension(".PNG"))
	assert.Equal(t, DefaultIgnorePatterns, s.IgnorePatterns)
}

func TestResolveMergesLists(t *testing.T) {
	cfg := DefaultConfig()
	cfg.IgnorePatterns = []string{"*.gen"}
	cfg.UnignorePatterns = []string{"keep.log", "!also.log"}
	cfg.BinaryExtensions = []string{".Foo"}

	s, err := cfg.Resolve()
	require.NoError(t, err)
	assert.Equal(t, "*.gen", s.IgnorePatterns[len(s.IgnorePatterns)-1])
	assert.Equal(t, []string{"!keep.log", "!also.log"}, s.UnignorePatterns)
	assert.True(t, s.IsBinaryExtension("foo"))
	assert.True(t, s.IsBinaryExtension("exe"))
}

func TestResolveRejectsInvalid(t *testing.T) {
	stream := true
	cases := []struct {
		name   string
		mutate func(*Config)
		cause  error
	}{
		{"zero budget", func(c *Config) { c.MaxSize = "0" }, yerr.ErrInvalidBudget},
		{"bad size", func(c *Config) { c.MaxSize = "lots" }, yerr.ErrInvalidBudget},
		{"zero tokens", func(c *Config) { c.Tokens = "0k" }, yerr.ErrInvalidBudget},
		{"bad rule", func(c *Config) { c.PriorityRules = []PriorityRule{{Pattern: "(", Score: 1}} }, yerr.ErrInvalidPattern},
		{"empty rule", func(c *Config) { c.PriorityRules = []PriorityRule{{Score: 1}} }, yerr.ErrInvalidPattern},
		{"bad ignore", func(c *Config) { c.IgnorePatterns = []string{"a[b-a]"} }, yerr.ErrInvalidPattern},
		{"tree only json", func(c *Config) { c.TreeOnly, c.JSON = true, true }, yerr.ErrConflictingFlags},
		{"stream and dir", func(c *Config) { c.Stream, c.OutputDir = &stream, "out" }, yerr.ErrConflictingFlags},
		{"bad template", func(c *Config) { c.OutputTemplate = "nothing" }, nil},
		{"negative threads", func(c *Config) { c.Threads = -1 }, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(cfg)
			_, err := cfg.Resolve()
			require.Error(t, err)
			assert.True(t, yerr.IsFatal(err))
			if tc.cause != nil {
				assert.True(t, errors.Is(err, tc.cause), err.Error())
			}
		})
	}
}

func TestResolveReportsEveryProblem(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxSize = "nope"
	cfg.TreeOnly, cfg.JSON = true, true
	_, err := cfg.Resolve()
	require.Error(t, err)
	assert.ErrorIs(t, err, yerr.ErrInvalidBudget)
	assert.ErrorIs(t, err, yerr.ErrConflictingFlags)
}
