package extractor

import (
	"regexp"
	"strconv"
	"strings"
)

var numericPrefix = regexp.MustCompile(`^[+-]?(?:\d+\.?\d*|\.\d+)(?:[eE][+-]?\d+)?`)

// parseScore reads the longest decimal prefix of s ("0.9.1" is 0.9). A string
// with no numeric prefix scores 0.
func parseScore(s string) float64 {
	prefix := numericPrefix.FindString(strings.TrimSpace(s))
	if prefix == "" {
		return 0
	}
	f, err := strconv.ParseFloat(prefix, 64)
	if err != nil {
		return 0
	}
	return f
}
