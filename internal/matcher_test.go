package internal

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindAll(t *testing.T) {
	tests := []struct {
		name  string
		line  string
		query Query
		want  []Span
	}{
		{"two exact", "foo bar foo", Query{Text: "foo"}, []Span{{0, 3}, {8, 11}}},
		{"case sensitive miss", "Foo bar FOO", Query{Text: "foo"}, nil},
		{"ignore case", "foo bar Foo", Query{Text: "FOO", IgnoreCase: true}, []Span{{0, 3}, {8, 11}}},
		{"non overlapping", "aaaa", Query{Text: "aa"}, []Span{{0, 2}, {2, 4}}},
		{"non overlapping folded", "aAaAa", Query{Text: "aa", IgnoreCase: true}, []Span{{0, 2}, {2, 4}}},
		{"empty query", "anything", Query{}, nil},
		{"empty line", "", Query{Text: "x"}, nil},
		{"unicode fold", "Une ÉCOLE, une école", Query{Text: "école", IgnoreCase: true}, []Span{{4, 10}, {16, 22}}},
		{"kelvin sign", "5\u212a or 5k", Query{Text: "k", IgnoreCase: true}, []Span{{1, 4}, {9, 10}}},
		{"query longer than line", "ab", Query{Text: "abc", IgnoreCase: true}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FindAll(tt.line, tt.query))
		})
	}
}

func TestFindAll_KeepsSourceCasing(t *testing.T) {
	line := "foo bar Foo fOO"
	var got []string
	for _, s := range FindAll(line, Query{Text: "FOO", IgnoreCase: true}) {
		got = append(got, line[s.Start:s.End])
	}
	assert.Equal(t, []string{"foo", "Foo", "fOO"}, got)
}

func TestFindAll_OffsetsIncreasing(t *testing.T) {
	lines := []string{
		"abababab",
		"the cat sat on the mat with the hat",
		strings.Repeat("xyz", 50),
		"ÄäÄä ää",
	}
	queries := []Query{
		{Text: "ab"}, {Text: "aba"}, {Text: "the", IgnoreCase: true},
		{Text: "xyzx"}, {Text: "ää", IgnoreCase: true}, {Text: "at"},
	}
	for _, line := range lines {
		for _, q := range queries {
			spans := FindAll(line, q)
			prevEnd := 0
			for _, s := range spans {
				require.GreaterOrEqual(t, s.Start, prevEnd, "%q in %q overlaps", q.Text, line)
				require.Greater(t, s.End, s.Start)
				prevEnd = s.End
			}
			if !q.IgnoreCase {
				assert.Equal(t, countNonOverlapping(line, q.Text), len(spans), "%q in %q", q.Text, line)
			}
		}
	}
}

// countNonOverlapping counts occurrences by hand, left to right.
func countNonOverlapping(s, sub string) int {
	n := 0
	for i := 0; i+len(sub) <= len(s); {
		if s[i:i+len(sub)] == sub {
			n++
			i += len(sub)
			continue
		}
		i++
	}
	return n
}

func TestQuery_Match(t *testing.T) {
	assert.True(t, Query{Text: "abc"}.Match("123abc456"))
	assert.False(t, Query{Text: "abc"}.Match("ABC"))
	assert.True(t, Query{Text: "abc", IgnoreCase: true}.Match("XXXaBcYYY"))
	assert.False(t, Query{}.Match("anything"))
	assert.Equal(t, "i:abc", Query{Text: "abc", IgnoreCase: true}.Desc())
}

func TestFindAll_InvalidUTF8IgnoreCase(t *testing.T) {
	ci := func(s string) Query { return Query{Text: s, IgnoreCase: true} }
	cases := []struct {
		name string
		line string
		q    Query
		want []Span
	}{
		{"different invalid bytes", "a\xfeb", ci("a\xffb"), nil},
		{"same invalid byte", "A\xffB", ci("a\xffb"), []Span{{0, 3}}},
		{"invalid query vs replacement char", "x�y", ci("\xff"), nil},
		{"replacement char query vs invalid byte", "x\xffy", ci("�"), nil},
		{"replacement char matches itself", "x�y", ci("�"), []Span{{1, 4}}},
		{"latin-1 line", "caf\xe9 CAF\xe9", ci("caf\xe9"), []Span{{0, 4}, {5, 9}}},
		{"latin-1 vs utf-8", "caf\xe9", ci("café"), nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, FindAll(tc.line, tc.q))
		})
	}
}

func TestReplaceAll_InvalidUTF8IgnoreCase(t *testing.T) {
	q := Query{Text: "a\xffb", IgnoreCase: true}
	assert.Equal(t, "a\xfeb", ReplaceAll("a\xfeb", q, "X"))
	assert.Equal(t, "X-X", ReplaceAll("a\xffb-A\xffB", q, "X"))
}
