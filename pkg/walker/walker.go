// File: pkg/walker/walker.go
package walker

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	yerr "yek/pkg/errors"
	"yek/pkg/ignore"
	"yek/pkg/pathnorm"
)

// GitignoreFile is read from every root base.
const GitignoreFile = ".gitignore"

// Candidate is a discovered file with its normalized path.
type Candidate struct {
	Path      string // normalized, relative to the root base
	AbsPath   string // physical path to read
	RootIndex int
}

// Options controls traversal.
type Options struct {
	// IgnorePatterns are compiled first, then the base's .gitignore, then
	// UnignorePatterns, so later lines win.
	IgnorePatterns   []string
	UnignorePatterns []string
	FollowSymlinks   bool
	Logger           *zap.Logger
}

type rootState struct {
	norm    *pathnorm.Normalizer
	matcher *ignore.Matcher
}

// Walk collects candidate files from every root in root order. Files
// reachable from several roots are reported once, under the first.
//
// Unreadable or unresolvable entries are logged, skipped and returned
// together as a non-fatal error next to the candidates. A path escaping its
// base is a security error and stops the walk; only that error is returned.
func Walk(ctx context.Context, roots []Root, opts Options) ([]Candidate, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	states := make(map[string]*rootState)
	seen := make(map[string]bool)
	var out []Candidate
	var skipped error

	for _, root := range roots {
		st, ok := states[root.Base]
		if !ok {
			var err error
			st, err = newRootState(root.Base, opts, logger)
			if err != nil {
				return nil, err
			}
			states[root.Base] = st
		}

		w := &walk{
			ctx:    ctx,
			root:   root,
			state:  st,
			follow: opts.FollowSymlinks,
			logger: logger.With(zap.String("root", root.Input)),
			seen:   seen,
		}
		var err error
		if root.Kind == InputDir {
			w.logger.Debug("Processing directory", zap.String("dir", root.Path))
			err = filepath.WalkDir(root.Path, w.visit)
		} else {
			err = w.file(root.Path, true)
		}
		if err != nil {
			if yerr.IsFatal(err) {
				logger.Error("Error during file traversal", zap.String("root", root.Input), zap.Error(err))
				return nil, err
			}
			w.skip("Skipping unreadable root", root.Path, err)
		}
		out = append(out, w.found...)
		skipped = multierr.Append(skipped, w.skipped)
		w.logger.Debug("Completed file traversal", zap.Int("files", len(w.found)))
	}
	return out, skipped
}

func newRootState(base string, opts Options, logger *zap.Logger) (*rootState, error) {
	n, err := pathnorm.New(base, pathnorm.WithSymlinks(opts.FollowSymlinks))
	if err != nil {
		return nil, err
	}
	m := ignore.New(logger)
	if err := m.CompileIgnoreLines(opts.IgnorePatterns...); err != nil {
		return nil, err
	}
	if err := m.CompileIgnoreFile(filepath.Join(base, GitignoreFile)); err != nil {
		if yerr.IsFatal(err) {
			return nil, err
		}
		logger.Warn("Skipping unreadable ignore file", zap.String("base", base), zap.Error(err))
	}
	if err := m.CompileIgnoreLines(opts.UnignorePatterns...); err != nil {
		return nil, err
	}
	logger.Debug("Loaded ignore patterns", zap.String("base", base), zap.Int("totalPatterns", m.Len()))
	return &rootState{norm: n, matcher: m}, nil
}

type walk struct {
	ctx     context.Context
	root    Root
	state   *rootState
	follow  bool
	logger  *zap.Logger
	seen    map[string]bool
	found   []Candidate
	skipped error
}

// skip records a per-file problem that does not stop the walk.
func (w *walk) skip(msg, p string, err error) {
	w.logger.Warn(msg, zap.String("path", p), zap.Error(err))
	if !yerr.IsKind(err, yerr.Resource) && !yerr.IsKind(err, yerr.IO) {
		err = yerr.New(yerr.IO, "walk", p, err)
	}
	w.skipped = multierr.Append(w.skipped, err)
}

func (w *walk) visit(p string, d fs.DirEntry, err error) error {
	if ctxErr := w.ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	if err != nil {
		if p == w.root.Path {
			return yerr.New(yerr.IO, "walk", p, err)
		}
		w.skip("Error accessing path during traversal", p, err)
		return nil
	}
	if p == w.root.Path {
		return nil
	}

	if d.IsDir() {
		r, err := w.state.norm.Resolve(p)
		if err != nil {
			if yerr.IsFatal(err) {
				return err
			}
			w.skip("Skipping unresolvable directory", p, err)
			return filepath.SkipDir
		}
		if w.state.matcher.IsIgnoredDir(r.Rel) {
			w.logger.Debug("Skipping ignored directory during traversal", zap.String("directory", r.Rel))
			return filepath.SkipDir
		}
		return nil
	}
	return w.file(p, false)
}

// file handles one regular file or symlink. explicit is set for files named
// directly as inputs.
func (w *walk) file(p string, explicit bool) error {
	r, err := w.state.norm.Resolve(p)
	if err != nil {
		if yerr.IsFatal(err) {
			return err
		}
		w.skip("Skipping unresolvable path", p, err)
		return nil
	}
	rel := r.Rel
	if w.state.matcher.IsIgnored(rel) {
		w.logger.Debug("Skipping ignored file", zap.String("path", rel), zap.Bool("explicit", explicit))
		return nil
	}

	info, err := os.Lstat(p)
	if err != nil {
		w.skip("Cannot stat file", p, err)
		return nil
	}

	abs := r.Abs
	if info.Mode()&fs.ModeSymlink != 0 {
		if !w.follow {
			w.logger.Debug("Skipping symlink", zap.String("path", rel))
			return nil
		}
		target, err := os.Stat(r.Abs)
		if err != nil || !target.Mode().IsRegular() {
			w.logger.Debug("Skipping symlink to non-regular file", zap.String("path", rel))
			return nil
		}
	} else if !info.Mode().IsRegular() {
		w.logger.Debug("Skipping non-regular file", zap.String("path", rel))
		return nil
	}

	key := abs
	if phys, err := filepath.EvalSymlinks(abs); err == nil {
		key = phys
	}
	if w.seen[key] {
		return nil
	}
	w.seen[key] = true
	w.found = append(w.found, Candidate{Path: rel, AbsPath: abs, RootIndex: w.root.Index})
	return nil
}
