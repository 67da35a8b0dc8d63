package pyast

import "slices"

// keywords are the reserved words of Python 3. Soft keywords (match, case,
// type, _) are valid identifiers and are not listed.
var keywords = []string{
	"False", "None", "True", "and", "as", "assert", "async", "await",
	"break", "class", "continue", "def", "del", "elif", "else", "except",
	"finally", "for", "from", "global", "if", "import", "in", "is",
	"lambda", "nonlocal", "not", "or", "pass", "raise", "return", "try",
	"while", "with", "yield",
}

// IsKeyword reports whether s is a reserved word.
func IsKeyword(s string) bool {
	_, found := slices.BinarySearch(keywordsSorted, s)
	return found
}

var keywordsSorted = func() []string {
	out := slices.Clone(keywords)
	slices.Sort(out)
	return out
}()

// IsIdentifier reports whether s can be used as a Python name.
//
// Only ASCII identifiers are accepted. Python allows more, but generated
// names must also be valid C symbol fragments.
func IsIdentifier(s string) bool {
	if s == "" || IsKeyword(s) {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '_', 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z':
		case '0' <= c && c <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}
