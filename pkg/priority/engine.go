// Package priority scores normalized paths and fixes the one global order
// every later stage preserves.
//
// A path's score is the highest score of the rules matching it, or a
// neutral base when none match, plus a recency boost from commit history.
package priority

import (
	"sort"

	"go.uber.org/zap"
)

// NeutralScore is the base score of files no rule matches.
const NeutralScore int64 = 1

// Engine scores paths. It is immutable once built and safe for
// concurrent use.
type Engine struct {
	rules   []Rule
	recency *RecencyModel
	weights *Weights
	logger  *zap.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithCategoryWeights makes unmatched files start from their category
// weight instead of NeutralScore.
func WithCategoryWeights(w Weights) Option {
	return func(e *Engine) { e.weights = &w }
}

// WithLogger sets the engine logger.
func WithLogger(logger *zap.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// NewEngine builds an engine. recency may be nil.
func NewEngine(rules []Rule, recency *RecencyModel, opts ...Option) *Engine {
	e := &Engine{
		rules:   append([]Rule(nil), rules...),
		recency: recency,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// BaseScore returns the rule part of the score: the maximum over matching
// rules, or the unmatched base.
func (e *Engine) BaseScore(path string) int64 {
	var best int64
	matched := false
	for _, r := range e.rules {
		if r.Matcher.Matches(path) && (!matched || r.Score > best) {
			best = r.Score
			matched = true
		}
	}
	if matched {
		return best
	}
	if e.weights != nil {
		return e.weights.For(Categorize(path))
	}
	return NeutralScore
}

// Score returns the full score of a normalized path.
func (e *Engine) Score(path string) int64 {
	return e.BaseScore(path) + e.recency.Boost(path)
}

// Rank scores every file and sorts them by score ascending, then
// normalized path, then input root. SequenceIndex is set to the sorted
// position. The input slice is not reordered.
func (e *Engine) Rank(files []*FileDescriptor) []*FileDescriptor {
	ranked := make([]*FileDescriptor, len(files))
	copy(ranked, files)

	for _, f := range ranked {
		f.Score = e.Score(f.NormalizedPath)
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.Score != b.Score {
			return a.Score < b.Score
		}
		if a.NormalizedPath != b.NormalizedPath {
			return a.NormalizedPath < b.NormalizedPath
		}
		return a.RootIndex < b.RootIndex
	})
	for i, f := range ranked {
		f.SequenceIndex = i
	}

	e.logger.Debug("Ranked files",
		zap.Int("fileCount", len(ranked)),
		zap.Int("ruleCount", len(e.rules)),
		zap.Int("filesWithHistory", e.recency.Len()))
	return ranked
}
