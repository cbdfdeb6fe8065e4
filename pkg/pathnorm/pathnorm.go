// Package pathnorm turns platform-native paths into the canonical form used
// for rule matching, sorting and display: relative to a processing base,
// forward-slash delimited, lexically clean and Unicode NFC.
package pathnorm

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"golang.org/x/text/unicode/norm"

	yerr "yek/pkg/errors"
)

// MaxSymlinkHops bounds symlink resolution for a single path.
const MaxSymlinkHops = 100

// Resolved is the result of normalizing one native path.
type Resolved struct {
	Rel string // canonical relative path
	Abs string // physical absolute path to read from
}

// Normalizer resolves paths against a fixed base directory.
type Normalizer struct {
	base        string // absolute, lexically clean
	physBase    string // base with symlinks resolved
	followLinks bool
	maxLinkHops int
}

// Option configures a Normalizer.
type Option func(*Normalizer)

// WithSymlinks enables symlink resolution. Resolved targets must stay
// inside the physical base.
func WithSymlinks(follow bool) Option {
	return func(n *Normalizer) { n.followLinks = follow }
}

// New creates a Normalizer rooted at base.
func New(base string, opts ...Option) (*Normalizer, error) {
	if base == "" {
		base = "."
	}
	abs, err := filepath.Abs(base)
	if err != nil {
		return nil, yerr.New(yerr.IO, "resolve base", base, err)
	}
	n := &Normalizer{base: abs, physBase: abs, maxLinkHops: MaxSymlinkHops}
	for _, opt := range opts {
		opt(n)
	}
	if phys, err := n.evalSymlinks(abs); err == nil {
		n.physBase = phys
	}
	return n, nil
}

// Base returns the absolute base directory.
func (n *Normalizer) Base() string {
	return n.base
}

// Normalize returns the canonical relative form of native.
func (n *Normalizer) Normalize(native string) (string, error) {
	r, err := n.Resolve(native)
	if err != nil {
		return "", err
	}
	return r.Rel, nil
}

// Resolve normalizes native and reports the physical path behind it.
// Relative inputs are interpreted against the base.
func (n *Normalizer) Resolve(native string) (Resolved, error) {
	abs := native
	if !filepath.IsAbs(abs) {
		abs = filepath.Join(n.base, native)
	}
	abs = filepath.Clean(abs)

	rel, err := filepath.Rel(n.base, abs)
	if err != nil || escapes(rel) {
		return Resolved{}, yerr.New(yerr.Security, "normalize", native, yerr.ErrOutsideBase)
	}

	phys := abs
	if n.followLinks {
		phys, err = n.evalSymlinks(abs)
		if err != nil {
			return Resolved{}, err
		}
		prel, err := filepath.Rel(n.physBase, phys)
		if err != nil || escapes(prel) {
			return Resolved{}, yerr.New(yerr.Security, "resolve symlink", native,
				fmt.Errorf("%w: %s", yerr.ErrOutsideBase, phys))
		}
	}

	return Resolved{Rel: Clean(rel), Abs: phys}, nil
}

// evalSymlinks resolves every symlink in p one component at a time so that
// loops are detected within a bounded number of hops.
func (n *Normalizer) evalSymlinks(p string) (string, error) {
	vol := filepath.VolumeName(p)
	resolved := vol + string(filepath.Separator)
	pending := splitComponents(p[len(vol):])
	seen := make(map[string]struct{})
	hops := 0

	for len(pending) > 0 {
		c := pending[0]
		pending = pending[1:]
		switch c {
		case "", ".":
			continue
		case "..":
			resolved = filepath.Dir(resolved)
			continue
		}

		next := filepath.Join(resolved, c)
		info, err := os.Lstat(next)
		if err != nil {
			return "", yerr.New(yerr.IO, "lstat", next, err)
		}
		if info.Mode()&fs.ModeSymlink == 0 {
			resolved = next
			continue
		}

		if _, ok := seen[next]; ok {
			return "", yerr.New(yerr.Resource, "resolve symlink", p, yerr.ErrSymlinkLoop)
		}
		seen[next] = struct{}{}
		hops++
		if hops > n.maxLinkHops {
			return "", yerr.New(yerr.Resource, "resolve symlink", p,
				fmt.Errorf("%w: more than %d hops", yerr.ErrSymlinkLoop, n.maxLinkHops))
		}

		target, err := os.Readlink(next)
		if err != nil {
			return "", yerr.New(yerr.IO, "readlink", next, err)
		}
		if filepath.IsAbs(target) {
			tvol := filepath.VolumeName(target)
			resolved = tvol + string(filepath.Separator)
			target = target[len(tvol):]
		}
		pending = append(splitComponents(target), pending...)
	}
	return resolved, nil
}

// Clean converts p to canonical form without touching the filesystem.
// Backslashes are folded to forward slashes, drive letters and UNC
// prefixes are stripped, the result is lexically cleaned, made relative and
// NFC-normalized. An empty result is ".".
func Clean(p string) string {
	p = norm.NFC.String(p)
	p = strings.ReplaceAll(p, `\`, "/")
	p = stripVolume(p)
	p = path.Clean("/" + p)
	p = strings.TrimPrefix(p, "/")
	if p == "" {
		return "."
	}
	return p
}

// stripVolume removes `//?/`, `//?/UNC/server/share`, `//server/share` and
// `C:` prefixes from an already slash-folded path.
func stripVolume(p string) string {
	if strings.HasPrefix(p, "//?/") || strings.HasPrefix(p, "//./") {
		p = p[4:]
		if strings.HasPrefix(strings.ToUpper(p), "UNC/") {
			p = "//" + p[4:]
		}
	}
	if strings.HasPrefix(p, "//") {
		parts := strings.SplitN(p[2:], "/", 3)
		if len(parts) == 3 {
			return parts[2]
		}
		return ""
	}
	if len(p) >= 2 && p[1] == ':' && isLetter(p[0]) {
		return p[2:]
	}
	return p
}

func isLetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func escapes(rel string) bool {
	return rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

func splitComponents(p string) []string {
	return strings.FieldsFunc(p, func(r rune) bool {
		return r == filepath.Separator || r == '/'
	})
}
