package internal

import (
	"fmt"
	"io"
	"sync/atomic"
	"time"
)

// RunStats atomic counters for totals
type RunStats struct {
	start    time.Time
	Sources  atomic.Int64
	Matches  atomic.Int64
	Replaced atomic.Int64
	Errors   atomic.Int64
}

func (s *RunStats) Start() {
	s.start = time.Now()
}

func (s *RunStats) Elapsed() time.Duration {
	return time.Since(s.start)
}

// Summary prints the totals block shown at the end of a run.
func (s *RunStats) Summary(w io.Writer) {
	fmt.Fprintf(w,
		"\n======= Search finished in %s =======\nSources searched: %d\nMatching lines: %d\nLines replaced: %d\nErrors: %d\n",
		s.Elapsed().Round(time.Millisecond), s.Sources.Load(), s.Matches.Load(), s.Replaced.Load(), s.Errors.Load(),
	)
}
