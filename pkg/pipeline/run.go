// File: pkg/pipeline/run.go
package pipeline

import (
	"context"
	"errors"
	"time"

	"github.com/dustin/go-humanize"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"yek/pkg/chunk"
	yerr "yek/pkg/errors"
	"yek/pkg/loader"
	"yek/pkg/output"
	"yek/pkg/priority"
	"yek/pkg/vcs"
	"yek/pkg/walker"
)

// Result summarizes a run.
type Result struct {
	Candidates int
	Report     loader.Report
	Chunks     []chunk.Chunk
	Output     output.Result
	// Warnings aggregates non-fatal problems outside the loader report:
	// missing inputs, paths skipped during discovery, unreadable git history.
	Warnings error
}

// Run executes every phase in order. Only fatal errors are returned;
// everything else ends up in the Result.
func Run(ctx context.Context, pc *Context) (*Result, error) {
	startTime := time.Now()
	logger := pc.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	s := pc.Settings
	res := &Result{}
	logger.Info("Starting run", zap.Strings("inputs", s.Inputs))

	// Phase 1: discovery and ranking.
	roots, err := walker.ResolveInputs(s.Inputs, pc.Cwd)
	if err != nil {
		if yerr.IsFatal(err) {
			return nil, err
		}
		for _, e := range multierr.Errors(err) {
			logger.Warn("Skipping input", zap.Error(e))
		}
		res.Warnings = multierr.Append(res.Warnings, err)
	}

	candidates, err := walker.Walk(ctx, roots, walker.Options{
		IgnorePatterns:   s.IgnorePatterns,
		UnignorePatterns: s.UnignorePatterns,
		FollowSymlinks:   s.FollowSymlinks,
		Logger:           logger,
	})
	if err != nil {
		if yerr.IsFatal(err) {
			return nil, err
		}
		res.Warnings = multierr.Append(res.Warnings, err)
	}
	res.Candidates = len(candidates)

	recency, err := buildRecency(ctx, roots, s.GitBoostMax, s.MaxGitDepth, logger)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		res.Warnings = multierr.Append(res.Warnings, err)
	}

	var engineOpts []priority.Option
	engineOpts = append(engineOpts, priority.WithLogger(logger))
	if s.CategoryWeights != nil {
		engineOpts = append(engineOpts, priority.WithCategoryWeights(*s.CategoryWeights))
	}
	engine := priority.NewEngine(s.Rules, recency, engineOpts...)

	files := make([]*priority.FileDescriptor, 0, len(candidates))
	for _, c := range candidates {
		files = append(files, priority.NewFileDescriptor(c.Path, c.AbsPath, c.RootIndex))
	}
	ranked := engine.Rank(files)
	logger.Info("Discovery complete",
		zap.Int("roots", len(roots)),
		zap.Int("files", len(ranked)),
		zap.Int("filesWithHistory", recency.Len()))

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Phase 2: parallel loading.
	count := pc.countTokens()
	res.Report = loader.New(loader.Options{
		Threads:          s.Threads,
		MaxFileSize:      s.MaxFileSize,
		BinaryExtensions: s.BinaryExtensions,
		LineNumbers:      s.LineNumbers,
		CountTokens:      count,
	}, logger).Load(ranked)
	logger.Info("Loading complete",
		zap.Int("loaded", res.Report.Loaded),
		zap.Int("binary", res.Report.Binary),
		zap.Int("skipped", res.Report.Skipped),
		zap.String("size", humanize.IBytes(uint64(res.Report.Bytes))))

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Phase 3: assembly and emission.
	var measure chunk.Measure = chunk.ByBytes
	if s.TokenMode {
		measure = chunk.ByTokens(count)
	}
	res.Chunks = chunk.Assemble(ranked, s.Budget, measure)
	if s.Debug {
		logChunks(logger, res.Chunks, count)
	}

	emitter := output.NewEmitter(output.Options{
		Template:   pc.Template,
		JSON:       s.JSON,
		TreeHeader: s.TreeHeader,
		TreeOnly:   s.TreeOnly,
		OutputDir:  s.OutputDir,
		OutputName: s.OutputName,
		Stream:     s.Stream,
		Stdout:     pc.Stdout,
		IsTerminal: pc.IsTerminal,
	}, logger)
	res.Output, err = emitter.Emit(ctx, res.Chunks)
	if err != nil {
		logger.Error("Failed to write output", zap.Error(err))
		return nil, err
	}

	logger.Info("Run completed",
		zap.Stringer("mode", res.Output.Mode),
		zap.Int("chunks", len(res.Chunks)),
		zap.Int("entries", res.Output.Entries),
		zap.String("written", humanize.IBytes(uint64(res.Output.Bytes))),
		zap.Duration("elapsed", time.Since(startTime)))
	return res, nil
}

// buildRecency reads commit history once per distinct root base. Bases
// without history contribute nothing. When two bases report the same
// normalized path, the newer timestamp is kept.
func buildRecency(ctx context.Context, roots []walker.Root, maxBoost int64, depth int, logger *zap.Logger) (*priority.RecencyModel, error) {
	if maxBoost <= 0 || depth <= 0 {
		return priority.NewRecencyModel(nil, maxBoost, depth), nil
	}

	merged := make(map[string]int64)
	visited := make(map[string]bool)
	var errs error
	for _, root := range roots {
		if visited[root.Base] {
			continue
		}
		visited[root.Base] = true

		ts, err := vcs.Git{Dir: root.Base}.CommitTimestamps(ctx, depth)
		if err != nil {
			if errors.Is(err, vcs.ErrNoHistory) {
				logger.Debug("No git history", zap.String("base", root.Base))
				continue
			}
			logger.Warn("Failed to read git history", zap.String("base", root.Base), zap.Error(err))
			errs = multierr.Append(errs, err)
			continue
		}
		for p, t := range ts {
			if cur, ok := merged[p]; !ok || t > cur {
				merged[p] = t
			}
		}
		logger.Debug("Read git history", zap.String("base", root.Base), zap.Int("files", len(ts)))
	}
	return priority.NewRecencyModel(merged, maxBoost, depth), errs
}

func logChunks(logger *zap.Logger, chunks []chunk.Chunk, count func(string) int64) {
	for _, c := range chunks {
		var total int64
		if count != nil {
			for _, f := range c.Files {
				total += f.TokenCount(count)
			}
		}
		logger.Debug("Assembled chunk",
			zap.Int("chunk", c.Index),
			zap.Int64("score", c.Score),
			zap.Int("files", len(c.Files)),
			zap.Int64("size", c.Size),
			zap.Int64("tokens", total),
			zap.Bool("oversized", c.Oversized))
	}
}
