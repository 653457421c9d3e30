package dataprocessing

import (
	"strconv"
	"strings"
)

// ParseNumeric converts a raw cell string to a float, tolerating thousands
// separators and a trailing percent sign ("1,234.5%" → 1234.5). It is the
// single source of truth for numeric-ness: every numeric-ratio computation
// and every aggregation routes through it so formatted numbers are treated
// identically everywhere.
func ParseNumeric(raw string) (float64, bool) {
	text := strings.TrimSpace(raw)
	if text == "" {
		return 0, false
	}
	text = strings.TrimSuffix(text, "%")
	text = strings.ReplaceAll(text, ",", "")
	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// IsNumeric reports whether ParseNumeric accepts the cell.
func IsNumeric(raw string) bool {
	_, ok := ParseNumeric(raw)
	return ok
}
