// Package money formats and parses monetary amounts. Amounts are stored
// as integer cents everywhere in the service; the wire format is a
// decimal string with exactly two fractional digits ("20.00") so values
// round-trip without floating point drift.
package money

import (
	"fmt"
	"strconv"
	"strings"
)

// FormatCents renders an amount in cents as a decimal string with two
// fractional digits.
func FormatCents(cents uint32) string {
	return fmt.Sprintf("%d.%02d", cents/100, cents%100)
}

// ParseAmount converts a decimal amount string into cents. At most two
// fractional digits are accepted; "20", "20.5" and "20.50" all parse to
// 2050 cents. Negative amounts and malformed input are rejected.
func ParseAmount(s string) (uint32, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.HasPrefix(s, "-") {
		return 0, fmt.Errorf("invalid amount %q", s)
	}
	whole := s
	frac := ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		whole, frac = s[:i], s[i+1:]
	}
	if whole == "" || len(frac) > 2 {
		return 0, fmt.Errorf("invalid amount %q", s)
	}
	w, err := strconv.ParseUint(whole, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q", s)
	}
	cents := w * 100
	if frac != "" {
		f, err := strconv.ParseUint(frac, 10, 32)
		if err != nil {
			return 0, fmt.Errorf("invalid amount %q", s)
		}
		if len(frac) == 1 {
			f *= 10
		}
		cents += f
	}
	if cents > 1<<32-1 {
		return 0, fmt.Errorf("amount out of range %q", s)
	}
	return uint32(cents), nil
}
