package internal

import (
	"context"
	"io"

	"github.com/sirupsen/logrus"
)

// Searcher wires options and collaborators into a run.
type Searcher struct {
	opts    Options
	console *Console
	render  Renderer
	prompt  Prompter
	fetcher Fetcher
	stats   *RunStats
}

// NewSearcher builds a searcher writing to out and reading prompts from in.
// opts must have been validated and prepared.
func NewSearcher(opts Options, out io.Writer, in io.Reader) *Searcher {
	console := NewConsole(out, opts.Color)
	var render Renderer = PlainRenderer{}
	if opts.Color {
		render = NewSyntaxRenderer(opts.Theme, ANSIMarkers)
	}
	return &Searcher{
		opts:    opts,
		console: console,
		render:  render,
		prompt:  NewLinePrompter(in, out),
		fetcher: NewHTTPFetcher(opts.Timeout, opts.HTMLText),
		stats:   &RunStats{},
	}
}

// WithFetcher swaps the retrieval service.
func (s *Searcher) WithFetcher(f Fetcher) *Searcher { s.fetcher = f; return s }

// WithRenderer swaps the rendering service.
func (s *Searcher) WithRenderer(r Renderer) *Searcher { s.render = r; return s }

func (s *Searcher) Stats() *RunStats { return s.stats }

// Run searches the configured source. In file and URL mode any session error
// is returned; in directory mode per-source errors are only reported.
func (s *Searcher) Run(ctx context.Context) error {
	mode, err := s.opts.Mode()
	if err != nil {
		return err
	}
	sink := NewResultSink(s.stats)

	switch mode {
	case ModeDir:
		sources, err := ListSources(ctx, &s.opts)
		if err != nil {
			return err
		}
		logrus.Debugf("Batch over %d sources in %s", len(sources), s.opts.Dir)
		return NewBatch(&s.opts, s.console, s.render, s.prompt, sink).Run(ctx, sources)
	case ModeURL:
		return s.single(ctx, URLSource{Locator: s.opts.URL, Fetcher: s.fetcher}, sink)
	default:
		return s.single(ctx, FileSource{Path: s.opts.Path}, sink)
	}
}

func (s *Searcher) single(ctx context.Context, src Source, sink func(SessionResult, error)) error {
	res, err := NewSession(src, s.opts.SessionOptions(), s.console, s.render, s.prompt).Run(ctx)
	sink(res, err)
	return err
}

// NewResultSink returns a closure counting session outcomes and logging
// failures.
func NewResultSink(stats *RunStats) func(SessionResult, error) {
	stats.Start()
	return func(res SessionResult, err error) {
		stats.Sources.Add(1)
		stats.Matches.Add(int64(res.Matches))
		if res.Saved {
			stats.Replaced.Add(int64(res.Replaced))
		}
		if err != nil {
			stats.Errors.Add(1)
			logrus.WithFields(logrus.Fields{"source": res.Label, "err": err}).Error("process error")
			return
		}
		logrus.WithFields(logrus.Fields{"source": res.Label, "matches": res.Matches, "replaced": res.Replaced}).Info("searched")
	}
}
