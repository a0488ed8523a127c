package internal

import (
	"context"
)

// Source produces the document a session works on.
type Source interface {
	Label() string
	Load(ctx context.Context) (*Document, error)
}

// FileSource is a local, writable file.
type FileSource struct{ Path string }

func (s FileSource) Label() string { return s.Path }

func (s FileSource) Load(ctx context.Context) (*Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return ReadDocument(s.Path)
}

// URLSource is a remote document, never writable.
type URLSource struct {
	Locator string
	Fetcher Fetcher
}

func (s URLSource) Label() string { return s.Locator }

func (s URLSource) Load(ctx context.Context) (*Document, error) {
	return s.Fetcher.Fetch(ctx, s.Locator)
}

// loadedSource carries a document (or its load error) read ahead of time.
type loadedSource struct {
	label string
	doc   *Document
	err   error
}

func (s *loadedSource) Label() string { return s.label }

func (s *loadedSource) Load(context.Context) (*Document, error) {
	doc, err := s.doc, s.err
	s.doc = nil // owned by the session from here
	return doc, err
}
