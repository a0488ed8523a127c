package internal

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"
)

// State of a scan session.
type State int

const (
	StateScanning State = iota
	StateDisplaying
	StateReplacePrompting
	StateWriting
	StateIdle
	StateDone
)

func (s State) String() string {
	return [...]string{"scanning", "displaying", "prompting", "writing", "idle", "done"}[s]
}

// SessionOptions are the per-source search settings.
type SessionOptions struct {
	Query       Query
	Context     int
	MaxBlocks   int
	Replace     bool
	Replacement string
	Markers     Markers
}

// Match is a matching line, in ascending line order.
type Match struct {
	Line int
	Text string
}

// SessionResult summarises a finished session.
type SessionResult struct {
	Label     string
	Matches   int
	Shown     int
	Truncated bool
	Replaced  int
	Saved     bool
}

// Session searches one source and optionally drives the replace loop.
// It is not reusable: Run may be called once.
type Session struct {
	opts    SessionOptions
	source  Source
	console *Console
	render  Renderer
	prompt  Prompter
	write   func(*Document) error

	state   State
	doc     *Document
	matches []Match
	dirty   bool
	log     *logrus.Entry
}

func NewSession(source Source, opts SessionOptions, console *Console, render Renderer, prompt Prompter) *Session {
	if render == nil {
		render = PlainRenderer{}
	}
	if opts.Markers == (Markers{}) {
		opts.Markers = ANSIMarkers
	}
	return &Session{
		opts:    opts,
		source:  source,
		console: console,
		render:  render,
		prompt:  prompt,
		write:   WriteDocument,
		log:     logrus.WithField("source", source.Label()),
	}
}

func (s *Session) State() State { return s.state }

func (s *Session) enter(st State) {
	s.log.Debugf("session %s -> %s", s.state, st)
	s.state = st
}

// Run takes the session from Scanning to Done.
func (s *Session) Run(ctx context.Context) (SessionResult, error) {
	res := SessionResult{Label: s.source.Label()}
	if s.state == StateDone {
		return res, errors.New("session already finished")
	}
	defer func() {
		s.doc, s.matches = nil, nil
		s.enter(StateDone)
	}()

	s.enter(StateScanning)
	doc, err := s.source.Load(ctx)
	if err != nil {
		return res, err
	}
	s.doc = doc
	s.scan()
	res.Matches = len(s.matches)

	s.enter(StateDisplaying)
	res.Shown, res.Truncated = s.display()

	if !s.opts.Replace {
		s.enter(StateIdle)
		s.typeNote()
		return res, nil
	}
	if !doc.Mutable() {
		s.console.Warn("Warning: --replace is not supported for %s sources. No changes will be made.", doc.Kind)
		s.enter(StateIdle)
		s.typeNote()
		return res, nil
	}

	s.enter(StateReplacePrompting)
	replaced, err := s.promptAll(ctx)
	if err != nil {
		s.console.Warn("Replacement interrupted. No changes were saved.")
		return res, err
	}
	res.Replaced = replaced

	if !s.dirty {
		s.console.Println("No replacements made.")
		s.enter(StateIdle)
		s.typeNote()
		return res, nil
	}

	s.enter(StateWriting)
	if err := s.write(s.doc); err != nil {
		s.dirty = false
		res.Replaced = 0
		s.console.Warn("Could not save %s. No changes were saved.", doc.Label)
		return res, err
	}
	res.Saved = true
	s.console.Println("Replacements made and file saved.")
	s.typeNote()
	return res, nil
}

func (s *Session) scan() {
	for i, line := range s.doc.Lines {
		if s.opts.Query.Match(line) {
			s.matches = append(s.matches, Match{Line: i, Text: line})
		}
	}
	s.log.Debugf("%d matches for %q", len(s.matches), s.opts.Query.Desc())
}

func (s *Session) display() (int, bool) {
	s.console.Println("Preview of matches:")
	idx := make([]int, len(s.matches))
	for i, m := range s.matches {
		idx[i] = m.Line
	}
	plan := PlanWindows(idx, s.opts.Context, len(s.doc.Lines), s.opts.MaxBlocks)
	for _, b := range plan.Blocks {
		if b.Separator {
			s.console.Separator()
		}
		for _, l := range b.Lines {
			line := Highlight(s.doc.Lines[l], s.opts.Query, s.opts.Markers)
			s.console.Line(l+1, s.render.Render(line, s.doc.TypeHint))
		}
	}
	if plan.Truncated {
		s.console.Notice("Output truncated. Too many results.")
	}
	return len(plan.Blocks), plan.Truncated
}

type replaceMode int

const (
	modeAsk replaceMode = iota
	modeApplyAll
)

// promptAll walks every match, independent of the display cap. mode is the
// only state carried between iterations: once apply-all is chosen nothing
// is asked again; abort leaves the loop keeping edits made so far.
func (s *Session) promptAll(ctx context.Context) (int, error) {
	mode := modeAsk
	replaced := 0
	for _, m := range s.matches {
		d := DecisionApply
		if mode == modeAsk {
			current := s.doc.Lines[m.Line]
			var err error
			d, err = s.prompt.Decide(ctx, m.Line+1, Highlight(current, s.opts.Query, s.opts.Markers))
			if err != nil {
				s.dirty = false
				return 0, err
			}
			s.log.Debugf("line %d: %s", m.Line+1, d)
		}
		switch d {
		case DecisionAbort:
			return replaced, nil
		case DecisionSkip:
			continue
		case DecisionApplyAll:
			mode = modeApplyAll
		}
		s.doc.Lines[m.Line] = ReplaceAll(s.doc.Lines[m.Line], s.opts.Query, s.opts.Replacement)
		s.dirty = true
		replaced++
	}
	return replaced, nil
}

func (s *Session) typeNote() {
	if s.doc.Kind == KindURL {
		return
	}
	if t, ok := LookupFileType(s.doc.Label); ok {
		s.console.Println(t.Note())
	}
}
