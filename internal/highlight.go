package internal

import "strings"

// Markers wrap highlighted spans. With Escape set, text bytes that would
// read as a marker (and backslashes in front of them) get a backslash
// prefix, so marked output stays unambiguous and Strip returns the line.
type Markers struct {
	Open   string
	Close  string
	Escape bool
}

const escapeByte = '\\'

var (
	// ANSIMarkers paint matches red on a terminal.
	ANSIMarkers = Markers{Open: "\x1b[31m", Close: "\x1b[0m"}
	// PlainMarkers are used when colour is off.
	PlainMarkers = Markers{Open: "[[", Close: "]]", Escape: true}
)

// Highlight wraps every occurrence of q in line with m. Text outside the
// occurrences is copied verbatim, apart from marker escaping.
func Highlight(line string, q Query, m Markers) string {
	spans := FindAll(line, q)
	if len(spans) == 0 && !m.Escape {
		return line
	}
	var b strings.Builder
	b.Grow(len(line) + len(spans)*(len(m.Open)+len(m.Close)))
	last := 0
	for _, s := range spans {
		m.write(&b, line[last:s.Start], m.Open)
		b.WriteString(m.Open)
		m.write(&b, line[s.Start:s.End], m.Close)
		b.WriteString(m.Close)
		last = s.End
	}
	m.write(&b, line[last:], "")
	return b.String()
}

// write copies seg, which is followed by next in the output.
func (m Markers) write(b *strings.Builder, seg, next string) {
	if !m.Escape {
		b.WriteString(seg)
		return
	}
	for i := 0; i < len(seg); i++ {
		if m.needsEscape(seg, i, next) {
			b.WriteByte(escapeByte)
		}
		b.WriteByte(seg[i])
	}
}

func (m Markers) needsEscape(seg string, i int, next string) bool {
	c := seg[i]
	if c == escapeByte {
		switch {
		case i+1 < len(seg):
			return m.special(seg[i+1])
		case next != "":
			return m.special(next[0])
		}
		return false
	}
	if !m.special(c) {
		return false
	}
	rest := seg[i:]
	if len(rest) < len(m.Open) || len(rest) < len(m.Close) {
		rest += next
	}
	return strings.HasPrefix(rest, m.Open) || strings.HasPrefix(rest, m.Close)
}

// special reports whether c may start an escape or a marker.
func (m Markers) special(c byte) bool {
	return c == escapeByte || (m.Open != "" && c == m.Open[0]) || (m.Close != "" && c == m.Close[0])
}

// escaped reports whether s[i] starts an escape pair.
func (m Markers) escaped(s string, i int) bool {
	return m.Escape && s[i] == escapeByte && i+1 < len(s) && m.special(s[i+1])
}

// Strip removes markers produced by Highlight and undoes escaping.
func (m Markers) Strip(s string) string {
	if !m.Escape {
		return strings.NewReplacer(m.Open, "", m.Close, "").Replace(s)
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); {
		switch {
		case m.escaped(s, i):
			b.WriteByte(s[i+1])
			i += 2
		case strings.HasPrefix(s[i:], m.Open):
			i += len(m.Open)
		case strings.HasPrefix(s[i:], m.Close):
			i += len(m.Close)
		default:
			b.WriteByte(s[i])
			i++
		}
	}
	return b.String()
}

// Split cuts a highlighted line into alternating plain/marked segments.
// Segments at odd positions were inside markers. Escapes are kept.
func (m Markers) Split(s string) []string {
	var parts []string
	for {
		i := m.index(s, m.Open)
		if i < 0 {
			break
		}
		rest := s[i+len(m.Open):]
		j := m.index(rest, m.Close)
		if j < 0 {
			break
		}
		parts = append(parts, s[:i], rest[:j])
		s = rest[j+len(m.Close):]
	}
	return append(parts, s)
}

// index finds the first marker occurrence that is not escaped.
func (m Markers) index(s, marker string) int {
	if !m.Escape {
		return strings.Index(s, marker)
	}
	for i := 0; i < len(s); i++ {
		if m.escaped(s, i) {
			i++
			continue
		}
		if strings.HasPrefix(s[i:], marker) {
			return i
		}
	}
	return -1
}
