package text

import (
	"strings"

	"github.com/tidwall/gjson"
)

// FindJSONObject returns the first brace-balanced {...} in s that is valid
// JSON. Each opening brace is tried in turn, so prose such as "{output}"
// before the real object is skipped.
func FindJSONObject(s string) (string, bool) {
	for offset := 0; offset < len(s); {
		start := strings.IndexByte(s[offset:], '{')
		if start < 0 {
			return "", false
		}
		start += offset
		if obj, ok := balancedAt(s, start); ok && gjson.Valid(obj) {
			return obj, true
		}
		offset = start + 1
	}
	return "", false
}

// balancedAt returns s[start:] up to the brace that closes s[start],
// ignoring braces inside JSON strings.
func balancedAt(s string, start int) (string, bool) {
	depth := 0
	inString, escaped := false, false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}
	return "", false
}
