// File: pkg/config/size.go
package config

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"

	yerr "yek/pkg/errors"
)

var (
	byteSizePattern  = regexp.MustCompile(`^(\d+)\s*([kmgtKMGT][iI]?[bB]|[bB])?$`)
	tokenSizePattern = regexp.MustCompile(`^(\d+)([kK])?$`)
)

// ParseByteSize parses sizes such as "10MB", "128KB", "1GB" or "1024".
// Units are binary multiples: 1KB is 1024 bytes.
func ParseByteSize(s string) (int64, error) {
	s = strings.TrimSpace(s)
	m := byteSizePattern.FindStringSubmatch(s)
	if m == nil {
		return 0, fmt.Errorf("%w: invalid size format %q", yerr.ErrInvalidBudget, s)
	}
	unit := strings.ToUpper(m[2])
	if len(unit) == 2 && unit != "B" {
		// KB -> KiB so humanize applies binary multiples
		unit = unit[:1] + "iB"
	}
	n, err := humanize.ParseBytes(m[1] + unit)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", yerr.ErrInvalidBudget, err)
	}
	if n > 1<<62 {
		return 0, fmt.Errorf("%w: size %q too large", yerr.ErrInvalidBudget, s)
	}
	return int64(n), nil
}

// ParseTokenCount parses token budgets such as "128k" or "1000".
func ParseTokenCount(s string) (int64, error) {
	s = strings.TrimSpace(s)
	m := tokenSizePattern.FindStringSubmatch(s)
	if m == nil {
		return 0, fmt.Errorf("%w: invalid token size %q", yerr.ErrInvalidBudget, s)
	}
	n, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", yerr.ErrInvalidBudget, err)
	}
	if m[2] != "" {
		n *= 1000
	}
	return n, nil
}
