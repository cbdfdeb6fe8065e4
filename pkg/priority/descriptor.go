// File: pkg/priority/descriptor.go
package priority

import (
	"sync"
)

// Status records what the content loader did with a file.
type Status int

const (
	StatusPending Status = iota
	StatusLoaded
	StatusBinary
	StatusUnreadable
	StatusTooLarge
)

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusLoaded:
		return "loaded"
	case StatusBinary:
		return "skipped: binary"
	case StatusUnreadable:
		return "skipped: unreadable"
	case StatusTooLarge:
		return "skipped: too large"
	default:
		return "unknown"
	}
}

// FileDescriptor is one file moving through the pipeline.
//
// Discovery fills NormalizedPath, AbsPath and RootIndex. The engine sets
// Score and SequenceIndex in a single sequential pass. The loader then
// fills the content fields, each descriptor by exactly one worker. After
// that the descriptor is read-only.
type FileDescriptor struct {
	NormalizedPath string
	AbsPath        string
	RootIndex      int

	Score         int64
	SequenceIndex int

	Status   Status
	Content  string
	ByteSize int64
	Err      error
	Warnings []string

	tokenOnce  sync.Once
	tokenCount int64
}

// NewFileDescriptor creates a descriptor for a discovered file.
func NewFileDescriptor(normalizedPath, absPath string, rootIndex int) *FileDescriptor {
	return &FileDescriptor{
		NormalizedPath: normalizedPath,
		AbsPath:        absPath,
		RootIndex:      rootIndex,
	}
}

// Included reports whether the file has text content to emit.
func (f *FileDescriptor) Included() bool {
	return f.Status == StatusLoaded
}

// TokenCount returns the token count of Content, computing it with count
// on first use.
func (f *FileDescriptor) TokenCount(count func(string) int64) int64 {
	f.tokenOnce.Do(func() {
		f.tokenCount = count(f.Content)
	})
	return f.tokenCount
}
