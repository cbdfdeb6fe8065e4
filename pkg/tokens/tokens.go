// Package tokens estimates token counts for budget packing.
//
// A token is a maximal run of characters that are neither whitespace nor
// ASCII punctuation. This tracks model tokenizers closely enough for
// budgeting and needs no vocabulary files.
package tokens

import (
	"crypto/sha256"
	"unicode"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultCacheSize is the number of distinct contents remembered.
const DefaultCacheSize = 4096

// Count returns the number of tokens in s.
func Count(s string) int64 {
	var n int64
	inToken := false
	for _, r := range s {
		if unicode.IsSpace(r) || isASCIIPunct(r) {
			inToken = false
			continue
		}
		if !inToken {
			n++
			inToken = true
		}
	}
	return n
}

func isASCIIPunct(r rune) bool {
	return r < unicode.MaxASCII && (unicode.IsPunct(r) || unicode.IsSymbol(r))
}

// Counter memoizes Count by content digest. Duplicate files, common in
// vendored or generated trees, are counted once. Safe for concurrent use.
type Counter struct {
	cache *lru.Cache[[sha256.Size]byte, int64]
}

// NewCounter creates a Counter remembering up to size contents.
func NewCounter(size int) (*Counter, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	cache, err := lru.New[[sha256.Size]byte, int64](size)
	if err != nil {
		return nil, err
	}
	return &Counter{cache: cache}, nil
}

// Count returns the token count of s.
func (c *Counter) Count(s string) int64 {
	key := sha256.Sum256([]byte(s))
	if n, ok := c.cache.Get(key); ok {
		return n
	}
	n := Count(s)
	c.cache.Add(key, n)
	return n
}

// Len returns the number of cached entries.
func (c *Counter) Len() int {
	return c.cache.Len()
}
