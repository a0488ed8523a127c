package internal

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// ReadDocument loads a local file as a mutable document.
func ReadDocument(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRead, err)
	}
	return NewDocument(path, KindFile, string(data)), nil
}

// readEntry loads an already opened source (archive entry) as read-only.
func readEntry(label string, r io.Reader) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrRead, label, err)
	}
	return NewDocument(label, KindArchiveEntry, string(data)), nil
}

// WriteDocument replaces the backing file with the document content.
// Content goes to a temp file next to the target which is then renamed over
// it, so readers see either the old or the new file.
func WriteDocument(doc *Document) error {
	if !doc.Mutable() {
		return fmt.Errorf("%w: %s is not a writable file", ErrWrite, doc.Label)
	}
	target := doc.Path
	if resolved, err := filepath.EvalSymlinks(doc.Path); err == nil {
		target = resolved
	}
	mode := os.FileMode(0644)
	if st, err := os.Stat(target); err == nil {
		mode = st.Mode().Perm()
	}

	tmp, err := os.CreateTemp(filepath.Dir(target), ".lg-*")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrWrite, err)
	}
	tmpPath := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpPath) }

	if _, err := io.WriteString(tmp, doc.Content()); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("%w: %v", ErrWrite, err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("%w: %v", ErrWrite, err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("%w: %v", ErrWrite, err)
	}
	if err := os.Chmod(tmpPath, mode); err != nil {
		cleanup()
		return fmt.Errorf("%w: %v", ErrWrite, err)
	}
	// atomic rename
	if err := os.Rename(tmpPath, target); err != nil {
		cleanup()
		return fmt.Errorf("%w: %v", ErrWrite, err)
	}
	return nil
}
