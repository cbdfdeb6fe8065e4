// File: pkg/loader/binary.go
package loader

import (
	"bytes"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// sniffLen is how much of a file is inspected for binary content.
const sniffLen = 8192

// binaryRatio is the share of suspicious bytes above which content is binary.
const binaryRatio = 0.3

// looksBinary checks the start of data for NUL bytes or a high ratio of
// control characters and bytes that are not valid UTF-8.
func looksBinary(data []byte) bool {
	sample := data
	if len(sample) > sniffLen {
		sample = sample[:sniffLen]
	}
	if len(sample) == 0 {
		return false // Empty files are considered text
	}
	if bytes.IndexByte(sample, 0) >= 0 {
		return true
	}

	suspicious := 0
	for i := 0; i < len(sample); {
		r, size := utf8.DecodeRune(sample[i:])
		if r == utf8.RuneError && size <= 1 {
			// A rune cut off by the sample boundary is not evidence.
			if !utf8.FullRune(sample[i:]) && len(data) > len(sample) {
				break
			}
			suspicious++
			i++
			continue
		}
		if !isPrintable(r) {
			suspicious++
		}
		i += size
	}
	return float64(suspicious)/float64(len(sample)) > binaryRatio
}

// isPrintable reports whether r can appear in ordinary text.
func isPrintable(r rune) bool {
	switch r {
	case '\n', '\r', '\t', '\f', '\v':
		return true
	}
	return r >= 32 && r != 0x7f
}

// extensionOf returns the lowercase extension of p without the dot.
func extensionOf(p string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(p), "."))
}
