// File: pkg/walker/inputs.go
package walker

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"go.uber.org/multierr"

	yerr "yek/pkg/errors"
)

// InputKind tells how a Root was given.
type InputKind int

const (
	InputDir InputKind = iota
	InputFile
)

// Root is one resolved input. Files found under it are normalized
// relative to Base.
type Root struct {
	Index int
	Input string // as given by the user
	Path  string // absolute path of the directory or file
	Base  string // absolute normalization base
	Kind  InputKind
}

// ResolveInputs turns user inputs (directories, files or glob patterns)
// into roots. Relative inputs are taken against cwd. A directory named
// through a symlink is walked at its physical location. Inputs that do not
// exist are reported as non-fatal IO errors next to the roots that did
// resolve.
func ResolveInputs(inputs []string, cwd string) ([]Root, error) {
	cwd, err := filepath.Abs(cwd)
	if err != nil {
		return nil, yerr.New(yerr.IO, "resolve working directory", cwd, err)
	}

	var roots []Root
	var errs error
	add := func(input, p string, isDir bool, base string) {
		kind := InputFile
		if isDir {
			// WalkDir does not descend into a root that is itself a link.
			if phys, err := filepath.EvalSymlinks(p); err == nil {
				p = phys
			}
			kind = InputDir
			base = p
		}
		roots = append(roots, Root{Index: len(roots), Input: input, Path: p, Base: base, Kind: kind})
	}

	for _, input := range inputs {
		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		abs := input
		if !filepath.IsAbs(abs) {
			abs = filepath.Join(cwd, input)
		}
		abs = filepath.Clean(abs)

		info, statErr := os.Stat(abs)
		if statErr == nil {
			add(input, abs, info.IsDir(), fileBase(abs, cwd))
			continue
		}

		if !isGlob(input) {
			errs = multierr.Append(errs, yerr.New(yerr.IO, "resolve input", input, statErr))
			continue
		}
		matches, err := doublestar.FilepathGlob(abs)
		if err != nil {
			errs = multierr.Append(errs, yerr.Configf(fmt.Errorf("%w: %v", yerr.ErrInvalidPattern, err), "expand glob %q", input))
			continue
		}
		if len(matches) == 0 {
			errs = multierr.Append(errs, yerr.New(yerr.IO, "expand glob", input, os.ErrNotExist))
			continue
		}
		for _, m := range matches {
			info, err := os.Stat(m)
			if err != nil {
				errs = multierr.Append(errs, yerr.New(yerr.IO, "stat glob match", m, err))
				continue
			}
			add(input, m, info.IsDir(), fileBase(m, cwd))
		}
	}
	return roots, errs
}

// fileBase picks the working directory when the file is inside it, so
// the file keeps its directory prefix, and the file's parent otherwise.
func fileBase(abs, cwd string) string {
	rel, err := filepath.Rel(cwd, abs)
	if err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return cwd
	}
	return filepath.Dir(abs)
}

func isGlob(s string) bool {
	return strings.ContainsAny(s, "*?[{")
}

// ReadPathList reads newline separated paths, dropping blank lines.
func ReadPathList(r io.Reader) ([]string, error) {
	var paths []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		if p := strings.TrimSpace(sc.Text()); p != "" {
			paths = append(paths, p)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, yerr.New(yerr.IO, "read path list", "", err)
	}
	return paths, nil
}
