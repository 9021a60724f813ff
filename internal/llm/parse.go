// Package llm holds helpers for handling raw model output. Model replies are
// untrusted input: they may wrap JSON in prose, markdown fences, or nothing
// parseable at all.
package llm

// FirstJSONObject returns the first top-level {...} substring of s, honoring
// string literals and escapes so braces inside values do not confuse the
// balance count.
func FirstJSONObject(s string) (string, bool) {
	start := -1
	for i := 0; i < len(s); i++ {
		if s[i] == '{' {
			start = i
			break
		}
	}
	if start < 0 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
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
