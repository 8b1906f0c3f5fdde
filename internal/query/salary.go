package query

import (
	"strconv"
	"strings"
)

// ParseSalary reduces a free-text salary to an integer by dropping every
// character that is not an ASCII digit. "$120,000" becomes 120000, but a
// range such as "$150k-$200k" collapses to 150200. ok is false when no digits
// remain or the number does not fit in an int64.
func ParseSalary(s string) (value int64, ok bool) {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, s)
	if digits == "" {
		return 0, false
	}
	n, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}
