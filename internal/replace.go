package internal

import "strings"

// DefaultReplacement is what a confirmed match turns into unless --with is set.
const DefaultReplacement = "<REPLACED>"

// ReplaceAll substitutes every occurrence of q in line with replacement.
func ReplaceAll(line string, q Query, replacement string) string {
	if q.Empty() {
		return line
	}
	if !q.IgnoreCase {
		return strings.ReplaceAll(line, q.Text, replacement)
	}
	spans := FindAll(line, q)
	if len(spans) == 0 {
		return line
	}
	var b strings.Builder
	last := 0
	for _, s := range spans {
		b.WriteString(line[last:s.Start])
		b.WriteString(replacement)
		last = s.End
	}
	b.WriteString(line[last:])
	return b.String()
}
