package engine

import "strings"

// kwPrefix is the marker prepended to keyword names by preprocessSource.
const kwPrefix = "__kw_"

// preprocessSource rewrites script source into what zygomys reads:
//
//  1. ; line comments become // comments.
//  2. :keyword becomes the string literal "__kw_keyword", so keywords never
//     collide with user symbols.
//  3. kebab-case identifiers become snake_case (sweep-end -> sweep_end),
//     because zygomys reads a hyphen as subtraction.
//
// Double-quoted and backtick string literals pass through untouched.
func preprocessSource(source string) string {
	var sb strings.Builder
	sb.Grow(len(source) + len(source)/4)
	n := len(source)
	for i := 0; i < n; {
		c := source[i]
		switch {
		case c == '"' || c == '`':
			j := skipString(source, i)
			sb.WriteString(source[i:j])
			i = j

		case c == ';':
			for i < n && source[i] == ';' {
				i++
			}
			end := strings.IndexByte(source[i:], '\n')
			if end < 0 {
				end = n - i
			}
			sb.WriteString("//")
			sb.WriteString(source[i : i+end])
			i += end

		case c == ':' && i+1 < n && source[i+1] == '=':
			sb.WriteString(":=")
			i += 2

		case c == ':' && i+1 < n && isLetter(source[i+1]):
			j := i + 1
			for j < n && isKWChar(source[j]) {
				j++
			}
			sb.WriteString(`"` + kwPrefix + source[i+1:j] + `"`)
			i = j

		case c == '-' && i > 0 && i+1 < n && isIdentChar(source[i-1]) && isLetter(source[i+1]):
			sb.WriteByte('_')
			i++

		default:
			sb.WriteByte(c)
			i++
		}
	}
	return sb.String()
}

// skipString returns the index just past the string literal starting at i.
// Double-quoted literals honour backslash escapes; backtick literals do not.
func skipString(s string, i int) int {
	q := s[i]
	j := i + 1
	for j < len(s) && s[j] != q {
		if q == '"' && s[j] == '\\' && j+1 < len(s) {
			j++
		}
		j++
	}
	if j < len(s) {
		j++
	}
	return j
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isKWChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '-' || c == '_'
}

func isIdentChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '_'
}
