package internal

import "strings"

// SourceKind tells where a document came from.
type SourceKind int

const (
	KindFile SourceKind = iota
	KindURL
	KindArchiveEntry
)

func (k SourceKind) String() string {
	switch k {
	case KindFile:
		return "file"
	case KindURL:
		return "URL"
	case KindArchiveEntry:
		return "archive entry"
	}
	return "unknown"
}

// Document is one unit of searchable text, owned by a single session.
type Document struct {
	Label    string // path or locator shown to the operator
	Path     string // backing file, empty unless Kind == KindFile
	Kind     SourceKind
	TypeHint string // file name or extension used to pick a rendering profile
	Lines    []string

	sep             string
	trailingNewline bool
}

// NewDocument splits text into lines. Both "\n" and "\r\n" breaks are
// accepted; the separator of the first break is kept for writing back.
func NewDocument(label string, kind SourceKind, text string) *Document {
	d := &Document{Label: label, Kind: kind, TypeHint: label, sep: "\n"}
	if kind == KindFile {
		d.Path = label
	}
	if i := strings.IndexByte(text, '\n'); i > 0 && text[i-1] == '\r' {
		d.sep = "\r\n"
	}
	if strings.HasSuffix(text, "\n") {
		d.trailingNewline = true
		text = strings.TrimSuffix(text, "\n")
	}
	if text == "" && !d.trailingNewline {
		return d
	}
	d.Lines = strings.Split(text, "\n")
	if d.sep == "\r\n" {
		for i, l := range d.Lines {
			d.Lines[i] = strings.TrimSuffix(l, "\r")
		}
	}
	return d
}

// Mutable is true only for documents backed by a writable local file.
func (d *Document) Mutable() bool {
	return d.Kind == KindFile && d.Path != ""
}

// Content joins the lines back with the document's separator.
func (d *Document) Content() string {
	s := strings.Join(d.Lines, d.sep)
	if d.trailingNewline {
		s += d.sep
	}
	return s
}
