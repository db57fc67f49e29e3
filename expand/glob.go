package expand

import (
	"regexp"
	"strings"
	"sync"
)

var patternCache sync.Map // string -> *regexp.Regexp

// CompilePattern translates a shell glob/case pattern into an anchored
// regular expression, memoizing by pattern string. Shared by `case`
// matching and `[[ == ]]`/`[[ != ]]`.
//
// Translation: `*` -> `.*`; `?` -> `.`; `[set]` preserved verbatim;
// regex metacharacters `\ ^ $ . + ( ) { } |` are escaped elsewhere.
// An invalid translated pattern falls back to exact string equality
// via a nil returned regexp (callers must handle that case).
func CompilePattern(pattern string) *regexp.Regexp {
	if v, ok := patternCache.Load(pattern); ok {
		return v.(*regexp.Regexp)
	}
	re, err := regexp.Compile("^" + translateGlob(pattern) + "$")
	if err != nil {
		patternCache.Store(pattern, (*regexp.Regexp)(nil))
		return nil
	}
	patternCache.Store(pattern, re)
	return re
}

// MatchPattern reports whether value matches the glob pattern,
// falling back to exact string equality if the pattern fails to
// translate into a valid regular expression.
func MatchPattern(pattern, value string) bool {
	re := CompilePattern(pattern)
	if re == nil {
		return pattern == value
	}
	return re.MatchString(value)
}

func translateGlob(pattern string) string {
	var b strings.Builder
	inBracket := false
	for i := 0; i < len(pattern); i++ {
		c := pattern[i]
		if inBracket {
			b.WriteByte(c)
			if c == ']' {
				inBracket = false
			}
			continue
		}
		switch c {
		case '*':
			b.WriteString(".*")
		case '?':
			b.WriteString(".")
		case '[':
			inBracket = true
			b.WriteByte(c)
		case '\\', '^', '$', '.', '+', '(', ')', '{', '}', '|':
			b.WriteByte('\\')
			b.WriteByte(c)
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// hasGlobMeta reports whether s contains any character with glob
// significance, used to decide whether a field is a path-expansion
// candidate.
func hasGlobMeta(s string) bool {
	return strings.ContainsAny(s, "*?[")
}
