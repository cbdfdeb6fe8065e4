// Package chunk packs ranked files into bounded, score-homogeneous chunks.
package chunk

import (
	"sort"

	"yek/pkg/priority"
)

// Measure returns the size of a file in the active budget unit.
type Measure func(f *priority.FileDescriptor) int64

// ByBytes measures loaded content in bytes.
func ByBytes(f *priority.FileDescriptor) int64 {
	return f.ByteSize
}

// ByTokens measures loaded content in tokens, caching the count on the
// descriptor.
func ByTokens(count func(string) int64) Measure {
	return func(f *priority.FileDescriptor) int64 {
		return f.TokenCount(count)
	}
}

// Chunk is one output unit. All of its files share Score. Size never
// exceeds the budget unless Oversized, in which case Files has exactly one
// entry.
type Chunk struct {
	Index     int
	Score     int64
	Files     []*priority.FileDescriptor
	Size      int64
	Oversized bool
}

// Paths returns the normalized paths of the chunk's files.
func (c Chunk) Paths() []string {
	out := make([]string, len(c.Files))
	for i, f := range c.Files {
		out[i] = f.NormalizedPath
	}
	return out
}

// Assemble packs files in sequence order. Files that were not loaded are
// left out. A change of score always starts a new chunk; within a score,
// files are added until the next one would exceed budget. A file larger
// than budget gets a chunk to itself. The result is in emission order,
// lowest priority first.
func Assemble(files []*priority.FileDescriptor, budget int64, measure Measure) []Chunk {
	ordered := make([]*priority.FileDescriptor, 0, len(files))
	for _, f := range files {
		if f.Included() {
			ordered = append(ordered, f)
		}
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].SequenceIndex < ordered[j].SequenceIndex
	})

	var chunks []Chunk
	var cur *Chunk
	flush := func() {
		if cur != nil && len(cur.Files) > 0 {
			cur.Index = len(chunks)
			chunks = append(chunks, *cur)
		}
		cur = nil
	}

	for _, f := range ordered {
		size := measure(f)

		if cur != nil && (cur.Score != f.Score || cur.Size+size > budget) {
			flush()
		}
		if size > budget {
			cur = &Chunk{Score: f.Score, Files: []*priority.FileDescriptor{f}, Size: size, Oversized: true}
			flush()
			continue
		}
		if cur == nil {
			cur = &Chunk{Score: f.Score}
		}
		cur.Files = append(cur.Files, f)
		cur.Size += size
	}
	flush()
	return chunks
}
