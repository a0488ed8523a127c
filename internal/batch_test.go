package internal

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sinkRecorder struct {
	results []SessionResult
	errs    []error
}

func (r *sinkRecorder) sink(res SessionResult, err error) {
	r.results = append(r.results, res)
	r.errs = append(r.errs, err)
}

func TestBatch_ContinuesPastReadErrors(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.txt")
	c := filepath.Join(dir, "c.txt")
	require.NoError(t, os.WriteFile(a, []byte("foo\n"), 0644))
	require.NoError(t, os.WriteFile(c, []byte("bar foo\n"), 0644))

	opts := Options{Query: "foo", All: true, Dir: dir, Color: false}
	opts.Prepare()
	var out bytes.Buffer
	rec := &sinkRecorder{}
	sources := []Source{
		FileSource{Path: a},
		failingSource{err: fmt.Errorf("%w: permission denied", ErrRead)},
		FileSource{Path: c},
	}

	err := NewBatch(&opts, NewConsole(&out, false), PlainRenderer{}, nil, rec.sink).Run(context.Background(), sources)
	require.NoError(t, err)
	require.Len(t, rec.results, 3)
	assert.NoError(t, rec.errs[0])
	assert.ErrorIs(t, rec.errs[1], ErrRead)
	assert.NoError(t, rec.errs[2])
	assert.Equal(t, 1, rec.results[2].Matches)

	s := out.String()
	assert.Less(t, strings.Index(s, "=== Searching in file: "+a), strings.Index(s, "=== Searching in file: "+c))
	assert.Contains(t, s, "1: bar [[foo]]")
}

func TestBatch_ApplyAllDoesNotCrossFiles(t *testing.T) {
	dir := t.TempDir()
	for _, n := range []string{"a.txt", "b.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, n), []byte("foo\nfoo\n"), 0644))
	}
	opts := Options{Query: "foo", All: true, Dir: dir, Replace: true, Replacement: DefaultReplacement}
	opts.Prepare()
	srcs, err := ListSources(context.Background(), &opts)
	require.NoError(t, err)

	p := &scriptedPrompter{answers: []Decision{DecisionApplyAll, DecisionSkip, DecisionSkip}}
	var out bytes.Buffer
	err = NewBatch(&opts, NewConsole(&out, false), PlainRenderer{}, p, func(SessionResult, error) {}).Run(context.Background(), srcs)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 1, 2}, p.asked, "second file is prompted again")

	a, _ := os.ReadFile(filepath.Join(dir, "a.txt"))
	b, _ := os.ReadFile(filepath.Join(dir, "b.txt"))
	assert.Equal(t, "<REPLACED>\n<REPLACED>\n", string(a))
	assert.Equal(t, "foo\nfoo\n", string(b))
}

func TestBatch_ReadAheadKeepsOrder(t *testing.T) {
	dir := t.TempDir()
	var names []string
	for i := 0; i < 12; i++ {
		n := fmt.Sprintf("f%02d.txt", i)
		names = append(names, n)
		require.NoError(t, os.WriteFile(filepath.Join(dir, n), []byte(fmt.Sprintf("hit %d\n", i)), 0644))
	}
	opts := Options{Query: "hit", All: true, Dir: dir, Workers: 4}
	opts.Prepare()
	srcs, err := ListSources(context.Background(), &opts)
	require.NoError(t, err)

	rec := &sinkRecorder{}
	var out bytes.Buffer
	require.NoError(t, NewBatch(&opts, NewConsole(&out, false), PlainRenderer{}, nil, rec.sink).Run(context.Background(), srcs))
	require.Len(t, rec.results, len(names))
	for i, r := range rec.results {
		assert.Equal(t, names[i], filepath.Base(r.Label))
		assert.NoError(t, rec.errs[i])
		assert.Equal(t, 1, r.Matches)
	}
}

func TestBatch_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	opts := Options{Query: "x", All: true}
	opts.Prepare()
	var out bytes.Buffer
	err := NewBatch(&opts, NewConsole(&out, false), PlainRenderer{}, nil, func(SessionResult, error) {}).
		Run(ctx, []Source{FileSource{Path: "whatever"}})
	assert.ErrorIs(t, err, context.Canceled)
}
