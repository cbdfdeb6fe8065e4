// Package errors provides the typed error taxonomy used across yek.
//
// A run distinguishes failures that abort everything (security boundary
// violations, bad configuration, an unwritable output destination) from
// failures local to a single file, which are recorded and skipped.
package errors

import (
	"errors"
	"fmt"
)

// Kind represents the category of an error.
type Kind int

const (
	// Security indicates an attempted escape from an input root.
	Security Kind = iota
	// Resource indicates a per-file resource ceiling was hit.
	Resource
	// Encoding indicates invalid text encoding that was recovered.
	Encoding
	// Configuration indicates invalid or conflicting settings.
	Configuration
	// IO indicates a filesystem read or write failure.
	IO
)

// Sentinel causes. Match them with errors.Is through an *Error wrapper.
var (
	ErrOutsideBase      = errors.New("path resolves outside base directory")
	ErrSymlinkLoop      = errors.New("symlink loop")
	ErrTooLarge         = errors.New("file exceeds memory ceiling")
	ErrInvalidUTF8      = errors.New("invalid UTF-8 replaced")
	ErrBinary           = errors.New("binary content")
	ErrConflictingFlags = errors.New("conflicting options")
	ErrInvalidBudget    = errors.New("invalid budget")
	ErrInvalidPattern   = errors.New("invalid pattern")
)

// Error is the base error type for all yek errors.
type Error struct {
	Kind Kind
	Op   string // operation being performed, e.g. "normalize", "read"
	Path string // path involved, if any
	Err  error  // underlying cause

	// Destination marks IO errors concerning the output target itself.
	Destination bool
}

// Error returns the error message.
func (e *Error) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("[%s] %s %s: %v", e.Kind, e.Op, e.Path, e.Err)
	}
	return fmt.Sprintf("[%s] %s: %v", e.Kind, e.Op, e.Err)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a new *Error.
func New(kind Kind, op, path string, err error) *Error {
	return &Error{Kind: kind, Op: op, Path: path, Err: err}
}

// Destinationf creates an IO error about the output destination.
func Destinationf(path string, err error, format string, args ...any) *Error {
	return &Error{
		Kind:        IO,
		Op:          fmt.Sprintf(format, args...),
		Path:        path,
		Err:         err,
		Destination: true,
	}
}

// Configf creates a Configuration error wrapping cause.
func Configf(cause error, format string, args ...any) *Error {
	return &Error{Kind: Configuration, Op: fmt.Sprintf(format, args...), Err: cause}
}

// IsKind reports whether err is an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}

// IsFatal reports whether err must abort the whole run.
// Untyped errors are treated as fatal.
func IsFatal(err error) bool {
	if err == nil {
		return false
	}
	var e *Error
	if !errors.As(err, &e) {
		return true
	}
	switch e.Kind {
	case Security, Configuration:
		return true
	case IO:
		return e.Destination
	default:
		return false
	}
}

func (k Kind) String() string {
	switch k {
	case Security:
		return "SECURITY"
	case Resource:
		return "RESOURCE"
	case Encoding:
		return "ENCODING"
	case Configuration:
		return "CONFIG"
	case IO:
		return "IO"
	default:
		return "UNKNOWN"
	}
}
