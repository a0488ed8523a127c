package internal

import (
	"context"
	"errors"
	"fmt"
	"io"
	iofs "io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/mholt/archives"
	"github.com/sirupsen/logrus"
)

const maxArchiveFiles = 10000 // zip-bomb protection

var errArchiveLimit = errors.New("archive file limit reached")

// IsArchive by extension. O(1) map lookup
var archiveExt = map[string]struct{}{
	".zip": {}, ".tar": {}, ".gz": {}, ".bz2": {}, ".xz": {},
	".rar": {}, ".br": {}, ".lz4": {}, ".lz": {}, ".mz": {},
	".sz": {}, ".s2": {}, ".zz": {}, ".zst": {}, ".7z": {},
}

func IsArchive(path string) bool {
	_, ok := archiveExt[strings.ToLower(filepath.Ext(path))]
	return ok
}

// ListSources enumerates the immediate entries of opts.Dir in name order and
// keeps regular files allowed by the extension filters. With opts.Archives
// set, archives are expanded into one read-only source per entry.
func ListSources(ctx context.Context, opts *Options) ([]Source, error) {
	entries, err := os.ReadDir(opts.Dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRead, err)
	}
	var out []Source
	for _, e := range entries {
		if ctx.Err() != nil {
			return out, ctx.Err()
		}
		path := filepath.Join(opts.Dir, e.Name())
		if !isRegularFile(e, path) {
			continue
		}
		if opts.Archives && IsArchive(path) {
			out = append(out, archiveSources(ctx, path, opts)...)
			continue
		}
		if !opts.allowedExt(strings.ToLower(filepath.Ext(e.Name()))) {
			continue
		}
		out = append(out, FileSource{Path: path})
	}
	return out, nil
}

// isRegularFile follows symlinks; dangling links are skipped.
func isRegularFile(e os.DirEntry, path string) bool {
	if e.Type()&os.ModeSymlink == 0 {
		return e.Type().IsRegular()
	}
	st, err := os.Stat(path)
	if err != nil {
		logrus.WithError(err).WithField("path", path).Debug("skip symlink")
		return false
	}
	return st.Mode().IsRegular()
}

// ArchiveEntrySource is one file inside an archive. Read-only.
type ArchiveEntrySource struct {
	Archive string
	Inner   string
}

func (s ArchiveEntrySource) Label() string { return s.Archive + ":" + s.Inner }

func (s ArchiveEntrySource) Load(ctx context.Context) (*Document, error) {
	fsys, err := archives.FileSystem(ctx, s.Archive, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrRead, s.Archive, err)
	}
	if closer, ok := fsys.(io.Closer); ok {
		defer closer.Close()
	}
	f, err := fsys.Open(s.Inner)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrRead, s.Label(), err)
	}
	defer f.Close()
	return readEntry(s.Label(), f)
}

func archiveSources(ctx context.Context, path string, opts *Options) []Source {
	fsys, err := archives.FileSystem(ctx, path, nil)
	if err != nil {
		logrus.WithError(err).WithField("archive", path).Error("open archive")
		return nil
	}
	if closer, ok := fsys.(io.Closer); ok {
		defer closer.Close()
	}

	var out []Source
	_ = iofs.WalkDir(fsys, ".", func(inner string, d iofs.DirEntry, err error) error {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err != nil || d.IsDir() {
			return nil
		}
		if len(out) >= maxArchiveFiles {
			logrus.Warnf("Archive %s truncated: too many files (>= %d)", path, maxArchiveFiles)
			return errArchiveLimit
		}
		if !opts.allowedExt(strings.ToLower(filepath.Ext(inner))) {
			return nil
		}
		out = append(out, ArchiveEntrySource{Archive: path, Inner: inner})
		return nil
	})
	return out
}
