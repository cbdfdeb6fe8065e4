// Package pipeline wires the phases of a run together: discovery and
// ranking, parallel loading, chunk assembly and emission.
package pipeline

import (
	"io"
	"os"

	"go.uber.org/zap"

	"yek/pkg/config"
	"yek/pkg/output"
	"yek/pkg/tokens"
)

// Context holds everything a run needs. It is built once and only read by
// the phases.
type Context struct {
	Settings *config.Settings
	Template *output.Template
	// Counter is set in token mode and in debug mode.
	Counter *tokens.Counter

	// Cwd resolves relative inputs. Defaults to the process working directory.
	Cwd        string
	Stdout     io.Writer
	IsTerminal func() bool
	Logger     *zap.Logger
}

// NewContext validates cfg and prepares the shared run state.
func NewContext(cfg *config.Config, logger *zap.Logger) (*Context, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	settings, err := cfg.Resolve()
	if err != nil {
		return nil, err
	}
	tmpl, err := output.NewTemplate(settings.Template)
	if err != nil {
		return nil, err
	}

	pc := &Context{
		Settings: settings,
		Template: tmpl,
		Stdout:   os.Stdout,
		Logger:   logger,
	}
	if settings.TokenMode || settings.Debug {
		if pc.Counter, err = tokens.NewCounter(tokens.DefaultCacheSize); err != nil {
			return nil, err
		}
	}
	if cwd, err := os.Getwd(); err == nil {
		pc.Cwd = cwd
	}

	logger.Debug("Resolved configuration",
		zap.String("configFile", cfg.ConfigFile),
		zap.Strings("inputs", settings.Inputs),
		zap.Bool("tokenMode", settings.TokenMode),
		zap.Int64("budget", settings.Budget),
		zap.Int64("maxFileSize", settings.MaxFileSize),
		zap.Int("rules", len(settings.Rules)),
		zap.Int64("gitBoostMax", settings.GitBoostMax),
		zap.Int("maxGitDepth", settings.MaxGitDepth),
		zap.Int("threads", settings.Threads),
		zap.String("outputDir", settings.OutputDir),
		zap.Bool("json", settings.JSON),
		zap.Bool("treeOnly", settings.TreeOnly))
	return pc, nil
}

func (pc *Context) countTokens() func(string) int64 {
	if pc.Counter == nil {
		return nil
	}
	return pc.Counter.Count
}
