// File: pkg/config/loader.go
package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	yerr "yek/pkg/errors"
)

const (
	// EnvPrefix is the prefix for all environment variables.
	EnvPrefix = "YEK_"
)

// ConfigFileNames are searched, in order, in the project root.
var ConfigFileNames = []string{"yek.yaml", "yek.yml", "yek.toml", "yek.json"}

// Loader loads configuration from files and environment.
type Loader struct {
	projectRoot string
	configFile  string
	lookupEnv   func(string) (string, bool)
}

// NewLoader creates a new config loader.
func NewLoader() *Loader {
	return &Loader{lookupEnv: os.LookupEnv}
}

// WithProjectRoot sets the directory searched for a config file.
func (l *Loader) WithProjectRoot(root string) *Loader {
	l.projectRoot = root
	return l
}

// WithConfigFile uses an explicit config file instead of searching.
func (l *Loader) WithConfigFile(path string) *Loader {
	l.configFile = path
	return l
}

// WithEnv replaces the environment lookup, mainly for tests.
func (l *Loader) WithEnv(lookup func(string) (string, bool)) *Loader {
	l.lookupEnv = lookup
	return l
}

// Load loads configuration with full precedence order:
// 1. Defaults
// 2. Config file (explicit, or the first of ConfigFileNames in the project root)
// 3. Environment Variables (YEK_*)
//
// Command-line flags are applied afterwards by ApplyFlags.
func (l *Loader) Load() (*Config, error) {
	cfg := DefaultConfig()

	path := l.configFile
	if path == "" {
		path = l.findConfigFile()
	}
	if path != "" {
		if err := loadFile(path, cfg); err != nil {
			return nil, err
		}
		cfg.ConfigFile = path
	}

	if err := l.applyEnvOverrides(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// findConfigFile returns the first config file present in the project root.
func (l *Loader) findConfigFile() string {
	root := l.projectRoot
	if root == "" {
		root = "."
	}
	for _, name := range ConfigFileNames {
		candidate := filepath.Join(root, name)
		if info, err := os.Stat(candidate); err == nil && info.Mode().IsRegular() {
			return candidate
		}
	}
	return ""
}

// loadFile decodes path over cfg, leaving absent keys untouched.
// YAML and JSON share the YAML decoder; TOML has its own.
func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return yerr.Configf(err, "read config file %s", path)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return yerr.Configf(err, "parse config file %s", path)
		}
	case ".yaml", ".yml", ".json":
		if len(bytes.TrimSpace(data)) == 0 {
			return nil
		}
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(cfg); err != nil {
			return yerr.Configf(err, "parse config file %s", path)
		}
	default:
		return yerr.Configf(fmt.Errorf("unsupported extension %q", filepath.Ext(path)), "load config file %s", path)
	}
	return nil
}

// applyEnvOverrides applies YEK_* environment variable overrides.
func (l *Loader) applyEnvOverrides(cfg *Config) error {
	strs := map[string]*string{
		"MAX_SIZE":        &cfg.MaxSize,
		"TOKENS":          &cfg.Tokens,
		"OUTPUT_DIR":      &cfg.OutputDir,
		"OUTPUT_NAME":     &cfg.OutputName,
		"OUTPUT_TEMPLATE": &cfg.OutputTemplate,
		"MAX_FILE_SIZE":   &cfg.MaxFileSize,
	}
	for key, dst := range strs {
		if v, ok := l.lookupEnv(EnvPrefix + key); ok && v != "" {
			*dst = v
		}
	}

	ints := map[string]*int{
		"THREADS":       &cfg.Threads,
		"GIT_BOOST_MAX": &cfg.GitBoostMax,
		"MAX_GIT_DEPTH": &cfg.MaxGitDepth,
	}
	for key, dst := range ints {
		v, ok := l.lookupEnv(EnvPrefix + key)
		if !ok || v == "" {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return yerr.Configf(err, "environment %s%s", EnvPrefix, key)
		}
		*dst = n
	}

	bools := map[string]*bool{
		"JSON":            &cfg.JSON,
		"TREE_HEADER":     &cfg.TreeHeader,
		"TREE_ONLY":       &cfg.TreeOnly,
		"LINE_NUMBERS":    &cfg.LineNumbers,
		"FOLLOW_SYMLINKS": &cfg.FollowSymlinks,
		"DEBUG":           &cfg.Debug,
	}
	for key, dst := range bools {
		v, ok := l.lookupEnv(EnvPrefix + key)
		if !ok || v == "" {
			continue
		}
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return yerr.Configf(err, "environment %s%s", EnvPrefix, key)
		}
		*dst = b
	}

	if v, ok := l.lookupEnv(EnvPrefix + "STREAM"); ok && v != "" {
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return yerr.Configf(err, "environment %sSTREAM", EnvPrefix)
		}
		cfg.Stream = &b
	}
	return nil
}
