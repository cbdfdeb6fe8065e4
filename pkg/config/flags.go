// File: pkg/config/flags.go
package config

import (
	"github.com/spf13/pflag"
)

// Flag names shared by RegisterFlags and ApplyFlags.
const (
	FlagConfig           = "config"
	FlagMaxSize          = "max-size"
	FlagTokens           = "tokens"
	FlagJSON             = "json"
	FlagTreeHeader       = "tree-header"
	FlagTreeOnly         = "tree-only"
	FlagLineNumbers      = "line-numbers"
	FlagOutputDir        = "output-dir"
	FlagOutputName       = "output-name"
	FlagOutputTemplate   = "output-template"
	FlagStream           = "stream"
	FlagThreads          = "threads"
	FlagMaxFileSize      = "max-file-size"
	FlagIgnorePatterns   = "ignore-patterns"
	FlagUnignorePatterns = "unignore-patterns"
	FlagFollowSymlinks   = "follow-symlinks"
	FlagGitBoostMax      = "git-boost-max"
	FlagMaxGitDepth      = "max-git-depth"
	FlagDebug            = "debug"
)

// RegisterFlags defines every configuration flag on fs.
func RegisterFlags(fs *pflag.FlagSet) {
	d := DefaultConfig()
	fs.String(FlagConfig, "", "Path to a yek.yaml, yek.toml or yek.json config file")
	fs.String(FlagMaxSize, d.MaxSize, "Maximum size per chunk (e.g. '10MB', '128KB')")
	fs.String(FlagTokens, "", "Budget chunks in tokens instead of bytes (e.g. '128k', '100000')")
	fs.Bool(FlagJSON, false, "Emit a JSON array of {path, content} objects")
	fs.Bool(FlagTreeHeader, false, "Prepend a directory tree of the emitted files")
	fs.Bool(FlagTreeOnly, false, "Emit only the directory tree")
	fs.Bool(FlagLineNumbers, false, "Prefix every content line with its line number")
	fs.String(FlagOutputDir, "", "Write numbered chunk files into this directory")
	fs.String(FlagOutputName, d.OutputName, "Base name of chunk files, or the output file name when it has an extension")
	fs.String(FlagOutputTemplate, d.OutputTemplate, "Per-file template with FILE_PATH and FILE_CONTENT placeholders")
	fs.Bool(FlagStream, false, "Force streaming to stdout (default: stream when stdout is not a terminal)")
	fs.Int(FlagThreads, 0, "Number of content loader workers (0 = number of CPUs)")
	fs.String(FlagMaxFileSize, d.MaxFileSize, "Files larger than this are skipped")
	fs.StringSlice(FlagIgnorePatterns, nil, "Additional gitignore-style patterns to skip")
	fs.StringSlice(FlagUnignorePatterns, nil, "Patterns re-included after all ignore rules")
	fs.Bool(FlagFollowSymlinks, false, "Follow symlinks that stay inside the input root")
	fs.Int(FlagGitBoostMax, d.GitBoostMax, "Maximum score boost for recently changed files")
	fs.Int(FlagMaxGitDepth, d.MaxGitDepth, "Number of recent commits considered for recency")
	fs.Bool(FlagDebug, false, "Enable debug logging and token diagnostics")
}

// ApplyFlags copies every flag the user set explicitly onto cfg.
func ApplyFlags(cfg *Config, fs *pflag.FlagSet) error {
	var err error
	str := func(name string, dst *string) {
		if err == nil && fs.Changed(name) {
			*dst, err = fs.GetString(name)
		}
	}
	boolean := func(name string, dst *bool) {
		if err == nil && fs.Changed(name) {
			*dst, err = fs.GetBool(name)
		}
	}
	integer := func(name string, dst *int) {
		if err == nil && fs.Changed(name) {
			*dst, err = fs.GetInt(name)
		}
	}
	slice := func(name string, dst *[]string) {
		if err == nil && fs.Changed(name) {
			var v []string
			v, err = fs.GetStringSlice(name)
			*dst = append(*dst, v...)
		}
	}

	str(FlagMaxSize, &cfg.MaxSize)
	str(FlagTokens, &cfg.Tokens)
	str(FlagOutputDir, &cfg.OutputDir)
	str(FlagOutputName, &cfg.OutputName)
	str(FlagOutputTemplate, &cfg.OutputTemplate)
	str(FlagMaxFileSize, &cfg.MaxFileSize)
	boolean(FlagJSON, &cfg.JSON)
	boolean(FlagTreeHeader, &cfg.TreeHeader)
	boolean(FlagTreeOnly, &cfg.TreeOnly)
	boolean(FlagLineNumbers, &cfg.LineNumbers)
	boolean(FlagFollowSymlinks, &cfg.FollowSymlinks)
	boolean(FlagDebug, &cfg.Debug)
	integer(FlagThreads, &cfg.Threads)
	integer(FlagGitBoostMax, &cfg.GitBoostMax)
	integer(FlagMaxGitDepth, &cfg.MaxGitDepth)
	slice(FlagIgnorePatterns, &cfg.IgnorePatterns)
	slice(FlagUnignorePatterns, &cfg.UnignorePatterns)

	if err == nil && fs.Changed(FlagStream) {
		var stream bool
		stream, err = fs.GetBool(FlagStream)
		cfg.Stream = &stream
	}
	return err
}
