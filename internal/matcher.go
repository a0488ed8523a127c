package internal

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Query - literal search string plus case mode.
type Query struct {
	Text       string
	IgnoreCase bool
}

// Span is a half-open byte range [Start, End) in the original line.
type Span struct {
	Start int
	End   int
}

func (q Query) Empty() bool { return q.Text == "" }

// Desc for logs.
func (q Query) Desc() string {
	if q.IgnoreCase {
		return "i:" + q.Text
	}
	return q.Text
}

// Match reports whether line contains at least one occurrence.
func (q Query) Match(line string) bool {
	if q.Empty() {
		return false
	}
	if !q.IgnoreCase {
		return strings.Contains(line, q.Text)
	}
	_, _, ok := q.next(line, 0)
	return ok
}

// FindAll returns leftmost-first, non-overlapping occurrences of q in line.
// In ignore-case mode runes are compared under simple case folding, so a span
// may differ in byte length from the query while still pointing at the
// source-cased text.
func FindAll(line string, q Query) []Span {
	if q.Empty() {
		return nil
	}
	var spans []Span
	pos := 0
	for pos <= len(line) {
		start, end, ok := q.next(line, pos)
		if !ok {
			break
		}
		spans = append(spans, Span{Start: start, End: end})
		pos = end
	}
	return spans
}

// next finds the first occurrence at or after pos.
func (q Query) next(line string, pos int) (int, int, bool) {
	if !q.IgnoreCase {
		i := strings.Index(line[pos:], q.Text)
		if i < 0 {
			return 0, 0, false
		}
		return pos + i, pos + i + len(q.Text), true
	}
	for i := pos; i < len(line); {
		if n, ok := foldPrefix(line[i:], q.Text); ok {
			return i, i + n, true
		}
		_, size := utf8.DecodeRuneInString(line[i:])
		i += size
	}
	return 0, 0, false
}

// foldPrefix checks that s starts with prefix under simple case folding and
// returns the number of bytes of s consumed. Invalid UTF-8 bytes only match
// the same byte.
func foldPrefix(s, prefix string) (int, bool) {
	n := 0
	for i := 0; i < len(prefix); {
		if n >= len(s) {
			return 0, false
		}
		pr, psize := utf8.DecodeRuneInString(prefix[i:])
		sr, ssize := utf8.DecodeRuneInString(s[n:])
		if (pr == utf8.RuneError && psize == 1) || (sr == utf8.RuneError && ssize == 1) {
			if psize != ssize || prefix[i] != s[n] {
				return 0, false
			}
		} else if !equalFoldRune(sr, pr) {
			return 0, false
		}
		i += psize
		n += ssize
	}
	return n, true
}

func equalFoldRune(a, b rune) bool {
	if a == b {
		return true
	}
	if a < utf8.RuneSelf && b < utf8.RuneSelf {
		// ASCII fast path
		if 'A' <= a && a <= 'Z' {
			a += 'a' - 'A'
		}
		if 'A' <= b && b <= 'Z' {
			b += 'a' - 'A'
		}
		return a == b
	}
	for r := unicode.SimpleFold(a); r != a; r = unicode.SimpleFold(r) {
		if r == b {
			return true
		}
	}
	return false
}
