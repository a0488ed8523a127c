package internal

import (
	"mime"
	"path/filepath"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/sirupsen/logrus"
)

// DefaultTheme matches what the terminal preview used historically.
const DefaultTheme = "base16-snazzy"

// Renderer decorates a display line. hint is a file name or a MIME type.
// Implementations must leave highlighted match spans as they are.
type Renderer interface {
	Render(line, hint string) string
}

// PlainRenderer returns lines untouched.
type PlainRenderer struct{}

func (PlainRenderer) Render(line, _ string) string { return line }

// SyntaxRenderer colours text outside match markers with chroma.
type SyntaxRenderer struct {
	style     *chroma.Style
	formatter chroma.Formatter
	markers   Markers
	lexers    map[string]chroma.Lexer
}

func NewSyntaxRenderer(theme string, markers Markers) *SyntaxRenderer {
	if theme == "" {
		theme = DefaultTheme
	}
	return &SyntaxRenderer{
		style:     styles.Get(theme),
		formatter: formatters.Get("terminal16m"),
		markers:   markers,
		lexers:    make(map[string]chroma.Lexer),
	}
}

func (r *SyntaxRenderer) Render(line, hint string) string {
	lexer := r.lexer(hint)
	if lexer == nil || line == "" {
		return line
	}
	parts := r.markers.Split(line)
	var b strings.Builder
	for i, p := range parts {
		if i%2 == 1 {
			b.WriteString(r.markers.Open)
			b.WriteString(p)
			b.WriteString(r.markers.Close)
			continue
		}
		b.WriteString(r.colour(lexer, p))
	}
	return b.String()
}

func (r *SyntaxRenderer) colour(lexer chroma.Lexer, s string) string {
	if s == "" {
		return s
	}
	it, err := lexer.Tokenise(nil, s)
	if err != nil {
		return s
	}
	var b strings.Builder
	if err := r.formatter.Format(&b, r.style, it); err != nil {
		logrus.WithError(err).Debug("format line")
		return s
	}
	// lexers may append a newline token
	return strings.ReplaceAll(b.String(), "\n", "")
}

func (r *SyntaxRenderer) lexer(hint string) chroma.Lexer {
	if hint == "" {
		return nil
	}
	if l, ok := r.lexers[hint]; ok {
		return l
	}
	var l chroma.Lexer
	if mt, _, err := mime.ParseMediaType(hint); err == nil && strings.Contains(mt, "/") && filepath.Ext(hint) == "" {
		l = lexers.MatchMimeType(mt)
	} else {
		l = lexers.Match(filepath.Base(hint))
	}
	if l != nil {
		l = chroma.Coalesce(l)
	}
	r.lexers[hint] = l
	return l
}
