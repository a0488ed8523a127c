package internal

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Decision is the operator's answer for one match.
type Decision int

const (
	DecisionSkip Decision = iota
	DecisionApply
	DecisionApplyAll
	DecisionAbort
)

func (d Decision) String() string {
	switch d {
	case DecisionApply:
		return "apply"
	case DecisionApplyAll:
		return "apply-all"
	case DecisionAbort:
		return "abort"
	}
	return "skip"
}

// ParseDecision maps operator input to a decision. Anything unrecognised is
// a skip.
func ParseDecision(input string) Decision {
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "y", "yes":
		return DecisionApply
	case "all", "a":
		return DecisionApplyAll
	case "quit", "q":
		return DecisionAbort
	}
	return DecisionSkip
}

// Prompter asks the operator what to do with one match.
type Prompter interface {
	Decide(ctx context.Context, lineNo int, display string) (Decision, error)
}

// LinePrompter reads one answer per line.
type LinePrompter struct {
	in  *bufio.Reader
	out io.Writer
}

func NewLinePrompter(in io.Reader, out io.Writer) *LinePrompter {
	return &LinePrompter{in: bufio.NewReader(in), out: out}
}

type readResult struct {
	line string
	err  error
}

// Decide prints the prompt and blocks for an answer. End of input aborts the
// remaining prompts.
func (p *LinePrompter) Decide(ctx context.Context, lineNo int, display string) (Decision, error) {
	if err := ctx.Err(); err != nil {
		return DecisionAbort, err
	}
	fmt.Fprintf(p.out, "Replace in line %d? (y/n/all/quit): %s ", lineNo, display)

	ch := make(chan readResult, 1)
	go func() {
		line, err := p.in.ReadString('\n')
		ch <- readResult{line: line, err: err}
	}()

	select {
	case <-ctx.Done():
		fmt.Fprintln(p.out)
		return DecisionAbort, ctx.Err()
	case r := <-ch:
		if r.err != nil {
			if errors.Is(r.err, io.EOF) {
				if strings.TrimSpace(r.line) == "" {
					fmt.Fprintln(p.out)
					return DecisionAbort, nil
				}
				return ParseDecision(r.line), nil
			}
			return DecisionAbort, r.err
		}
		return ParseDecision(r.line), nil
	}
}
