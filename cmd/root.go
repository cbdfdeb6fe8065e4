package cmd

import (
	"context"
	"io"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"yek/pkg/config"
	"yek/pkg/logging"
	"yek/pkg/pipeline"
	"yek/pkg/version"
	"yek/pkg/walker"
)

// NewRootCmd builds the yek command. With no path arguments and a
// non-terminal in, paths are read from in, one per line. Emitted content
// goes to out.
func NewRootCmd(in io.Reader, out io.Writer) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "yek [paths...]",
		Short: "Serialize a repository into prioritized chunks for LLM consumption",
		Long: `yek walks the given directories, files or glob patterns, ranks every file
by priority rules and git recency, and emits them in chunks with the most
important files last. Output is streamed when stdout is piped and written
to numbered chunk files otherwise.`,
		Version:       version.Get().String(),
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			inputs, err := collectInputs(args, in)
			if err != nil {
				return err
			}
			return run(cmd, inputs, out)
		},
	}
	rootCmd.SetOut(out)
	rootCmd.SetVersionTemplate("{{.Version}}\n")
	config.RegisterFlags(rootCmd.Flags())
	rootCmd.AddCommand(newVersionCmd())
	return rootCmd
}

// Execute runs the root command on the process streams. It stops at the
// first interrupt.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return NewRootCmd(os.Stdin, os.Stdout).ExecuteContext(ctx)
}

func run(cmd *cobra.Command, inputs []string, out io.Writer) error {
	flags := cmd.Flags()
	configFile, err := flags.GetString(config.FlagConfig)
	if err != nil {
		return err
	}

	projectRoot := "."
	if len(inputs) > 0 {
		projectRoot = projectDir(inputs[0])
	}
	cfg, err := config.NewLoader().
		WithProjectRoot(projectRoot).
		WithConfigFile(configFile).
		Load()
	if err != nil {
		return err
	}
	if err := config.ApplyFlags(cfg, flags); err != nil {
		return err
	}
	if len(inputs) > 0 {
		cfg.InputPaths = inputs
	} else if len(cfg.InputPaths) == 0 {
		cfg.InputPaths = []string{"."}
	}

	logger, err := logging.Setup(cfg.Debug, version.AppName, version.Get().Version)
	if err != nil {
		return err
	}
	logger.Debug("Loaded configuration", zap.String("configFile", cfg.ConfigFile), zap.String("projectRoot", projectRoot))

	pc, err := pipeline.NewContext(cfg, logger)
	if err != nil {
		return err
	}
	pc.Stdout = out

	res, err := pipeline.Run(cmd.Context(), pc)
	if err != nil {
		return err
	}
	if res.Warnings != nil {
		logger.Warn("Completed with warnings", zap.Error(res.Warnings))
	}
	return nil
}

// collectInputs returns the positional paths, or the path list piped on
// in when there are none.
func collectInputs(args []string, in io.Reader) ([]string, error) {
	if len(args) > 0 || in == nil {
		return args, nil
	}
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return nil, nil
	}
	return walker.ReadPathList(in)
}

// projectDir is the directory searched for a config file.
func projectDir(input string) string {
	info, err := os.Stat(input)
	switch {
	case err != nil:
		return "."
	case info.IsDir():
		return input
	default:
		return filepath.Dir(input)
	}
}
