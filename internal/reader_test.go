package internal

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadDocument_Missing(t *testing.T) {
	_, err := ReadDocument(filepath.Join(t.TempDir(), "doesnotexist_12345.txt"))
	assert.ErrorIs(t, err, ErrRead)
}

func TestWriteDocument_ReplacesContentKeepsMode(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "script.sh")
	require.NoError(t, os.WriteFile(path, []byte("echo foo\r\necho bar\r\n"), 0755))

	doc, err := ReadDocument(path)
	require.NoError(t, err)
	doc.Lines[0] = "echo baz"
	require.NoError(t, WriteDocument(doc))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "echo baz\r\necho bar\r\n", string(data))

	st, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0755), st.Mode().Perm())

	// no temp files left behind
	entries, _ := os.ReadDir(dir)
	for _, e := range entries {
		assert.False(t, strings.HasPrefix(e.Name(), ".lg-"), "leftover %s", e.Name())
	}
}

func TestWriteDocument_ThroughSymlink(t *testing.T) {
	target := filepath.Join(t.TempDir(), "real.txt")
	require.NoError(t, os.WriteFile(target, []byte("foo\n"), 0644))
	link := filepath.Join(t.TempDir(), "link.txt")
	if err := os.Symlink(target, link); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}

	doc, err := ReadDocument(link)
	require.NoError(t, err)
	doc.Lines[0] = "bar"
	require.NoError(t, WriteDocument(doc))

	st, err := os.Lstat(link)
	require.NoError(t, err)
	assert.NotZero(t, st.Mode()&os.ModeSymlink, "link is kept")
	data, _ := os.ReadFile(target)
	assert.Equal(t, "bar\n", string(data))
}

func TestWriteDocument_RejectsReadOnlySources(t *testing.T) {
	err := WriteDocument(NewDocument("https://example.com", KindURL, "x"))
	assert.ErrorIs(t, err, ErrWrite)
}

func TestWriteDocument_MissingDirectory(t *testing.T) {
	doc := NewDocument(filepath.Join(t.TempDir(), "gone", "f.txt"), KindFile, "x")
	assert.ErrorIs(t, WriteDocument(doc), ErrWrite)
}

func TestReadEntry(t *testing.T) {
	doc, err := readEntry("a.zip:x.txt", strings.NewReader("one\ntwo"))
	require.NoError(t, err)
	assert.Equal(t, []string{"one", "two"}, doc.Lines)
	assert.False(t, doc.Mutable())
}
