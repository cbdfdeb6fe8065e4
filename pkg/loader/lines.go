// File: pkg/loader/lines.go
package loader

import (
	"fmt"
	"strconv"
	"strings"
)

// withLineNumbers prefixes every line with its right-aligned number. The
// width is the digit count of the last line number, at least 3. A final
// newline does not start a new line.
func withLineNumbers(content string) string {
	if content == "" {
		return ""
	}
	lines := strings.Split(strings.TrimSuffix(content, "\n"), "\n")
	width := len(strconv.Itoa(len(lines)))
	if width < 3 {
		width = 3
	}

	var b strings.Builder
	b.Grow(len(content) + len(lines)*(width+3))
	for i, line := range lines {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%*d | %s", width, i+1, strings.TrimSuffix(line, "\r"))
	}
	return b.String()
}
