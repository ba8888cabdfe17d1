// Package text provides small text helpers shared by the pipeline, the LLM
// adapters, the fetchers and the PDF extractor: word counting and locating
// JSON objects embedded in free text.
package text

import (
	"math"
	"strings"
)

// CountWords counts whitespace-separated tokens. Runs of whitespace
// (spaces, tabs, newlines, Unicode spaces) count as a single separator and
// empty tokens are ignored.
//
// Examples:
//
//	CountWords("")                 // 0
//	CountWords("a  b   c")         // 3
//	CountWords(" Kalimat satu.\n") // 2
func CountWords(s string) int {
	return len(strings.Fields(s))
}

// ReductionPercentage returns round(100 * (1 - summary/original)).
// It is 0 when original is 0 so callers never divide by zero.
// The value is negative when the output is longer than the source.
func ReductionPercentage(original, summary int) int {
	if original <= 0 {
		return 0
	}
	return int(math.Round(100 * (1 - float64(summary)/float64(original))))
}
