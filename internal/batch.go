package internal

import (
	"context"
	"errors"
	"fmt"

	"github.com/panjf2000/ants/v2"
	"github.com/sirupsen/logrus"
)

// Batch runs one independent session per source, in order.
type Batch struct {
	opts    *Options
	console *Console
	render  Renderer
	prompt  Prompter
	sink    func(SessionResult, error)
}

func NewBatch(opts *Options, console *Console, render Renderer, prompt Prompter, sink func(SessionResult, error)) *Batch {
	return &Batch{opts: opts, console: console, render: render, prompt: prompt, sink: sink}
}

// Run searches every source. Per-source failures are reported through the
// sink and do not stop the batch; only cancellation does.
func (b *Batch) Run(ctx context.Context, sources []Source) error {
	if b.opts.Workers > 1 && len(sources) > 1 {
		ra, err := newReadAhead(ctx, sources, b.opts.Workers)
		if err != nil {
			return err
		}
		defer ra.release()
		sources = ra.sources()
	}

	for _, src := range sources {
		if err := ctx.Err(); err != nil {
			return err
		}
		b.console.Banner("\n=== Searching in file: %s ===", src.Label())
		res, err := NewSession(src, b.opts.SessionOptions(), b.console, b.render, b.prompt).Run(ctx)
		b.sink(res, err)
		if err != nil && (errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)) {
			return err
		}
	}
	return nil
}

// readAhead loads documents on a bounded pool while sessions consume them in
// enumeration order. At most `window` documents are in flight or waiting.
type readAhead struct {
	ctx     context.Context
	pool    *ants.PoolWithFunc
	srcs    []Source
	results []chan *loadedSource
	window  int
	next    int
}

type loadTask struct {
	src Source
	out chan *loadedSource
}

func newReadAhead(ctx context.Context, srcs []Source, workers int) (*readAhead, error) {
	ra := &readAhead{ctx: ctx, srcs: srcs, window: workers}
	pool, err := ants.NewPoolWithFunc(workers, func(i interface{}) {
		t := i.(loadTask)
		doc, err := t.src.Load(ctx)
		t.out <- &loadedSource{label: t.src.Label(), doc: doc, err: err}
	})
	if err != nil {
		return nil, fmt.Errorf("pool: %w", err)
	}
	ra.pool = pool
	ra.results = make([]chan *loadedSource, len(srcs))
	for i := range ra.results {
		ra.results[i] = make(chan *loadedSource, 1)
	}
	for ra.next < len(srcs) && ra.next < ra.window {
		ra.submit()
	}
	return ra, nil
}

func (ra *readAhead) submit() {
	i := ra.next
	ra.next++
	if err := ra.pool.Invoke(loadTask{src: ra.srcs[i], out: ra.results[i]}); err != nil {
		logrus.WithError(err).Error("submit load")
		ra.results[i] <- &loadedSource{label: ra.srcs[i].Label(), err: err}
	}
}

// sources wraps each source so loading waits for its read-ahead result and
// schedules the next one.
func (ra *readAhead) sources() []Source {
	out := make([]Source, len(ra.srcs))
	for i := range ra.srcs {
		out[i] = &pendingSource{ra: ra, i: i}
	}
	return out
}

func (ra *readAhead) release() { ra.pool.Release() }

type pendingSource struct {
	ra *readAhead
	i  int
}

func (p *pendingSource) Label() string { return p.ra.srcs[p.i].Label() }

func (p *pendingSource) Load(ctx context.Context) (*Document, error) {
	if p.ra.next < len(p.ra.srcs) {
		p.ra.submit()
	}
	select {
	case ls := <-p.ra.results[p.i]:
		return ls.Load(ctx)
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
