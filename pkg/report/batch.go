package report

import (
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/arthur-debert/spinflip/pkg/errors"
	"github.com/arthur-debert/spinflip/pkg/logging"
)

// FileMode is applied to every committed report
const FileMode = 0644

type stagedFile struct {
	path string
	tmp  string
}

// Batch stages report contents in temporary files and renames them over
// their destinations on Commit. Nothing is visible at a destination until
// Commit, and Discard removes everything staged so far.
type Batch struct {
	fs     afero.Fs
	staged []stagedFile
}

// NewBatch creates an empty batch on fs
func NewBatch(fs afero.Fs) *Batch {
	return &Batch{fs: fs}
}

// Stage writes content to a temporary file next to path. On failure the
// whole batch is discarded.
func (b *Batch) Stage(path string, content []byte) error {
	dir := filepath.Dir(path)
	if err := b.fs.MkdirAll(dir, 0755); err != nil {
		b.Discard()
		return errors.Wrapf(err, errors.ErrFileWrite, "failed to create directory %s", dir).
			WithDetail("path", path)
	}

	f, err := afero.TempFile(b.fs, dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		b.Discard()
		return errors.Wrapf(err, errors.ErrFileWrite, "failed to create %s", path).
			WithDetail("path", path)
	}
	tmp := f.Name()

	_, writeErr := f.Write(content)
	closeErr := f.Close()
	if writeErr == nil {
		writeErr = closeErr
	}
	if writeErr == nil {
		writeErr = b.fs.Chmod(tmp, FileMode)
	}
	if writeErr != nil {
		_ = b.fs.Remove(tmp)
		b.Discard()
		return errors.Wrapf(writeErr, errors.ErrFileWrite, "failed to write %s", path).
			WithDetail("path", path)
	}

	b.staged = append(b.staged, stagedFile{path: path, tmp: tmp})
	return nil
}

// Len returns the number of staged files
func (b *Batch) Len() int {
	return len(b.staged)
}

// Commit renames every staged file over its destination, in staging order.
// Existing destinations are moved aside first; if any rename fails, every
// destination already committed is restored, so a failed Commit leaves all
// destinations as they were.
func (b *Batch) Commit() error {
	logger := logging.GetLogger("report.batch")
	var done []committedFile

	for i, s := range b.staged {
		c := committedFile{path: s.path}
		if exists, _ := afero.Exists(b.fs, s.path); exists {
			c.backup = s.tmp + ".bak"
			if err := b.fs.Rename(s.path, c.backup); err != nil {
				b.rollback(done, b.staged[i:])
				return errors.Wrapf(err, errors.ErrFileWrite, "failed to replace %s", s.path).
					WithDetail("path", s.path)
			}
		}
		if err := b.fs.Rename(s.tmp, s.path); err != nil {
			b.rollback(append(done, c), b.staged[i:])
			return errors.Wrapf(err, errors.ErrFileWrite, "failed to write %s", s.path).
				WithDetail("path", s.path)
		}
		done = append(done, c)
		logger.Debug().Str("path", s.path).Msg("Committed report")
	}

	for _, c := range done {
		if c.backup != "" {
			_ = b.fs.Remove(c.backup)
		}
	}
	b.staged = nil
	return nil
}

type committedFile struct {
	path   string
	backup string // empty when the destination did not exist
}

// rollback puts destinations back the way they were, newest first, and
// drops the temporary files that were never committed.
func (b *Batch) rollback(done []committedFile, pending []stagedFile) {
	logger := logging.GetLogger("report.batch")
	for i := len(done) - 1; i >= 0; i-- {
		c := done[i]
		if c.backup == "" {
			_ = b.fs.Remove(c.path)
			continue
		}
		if exists, _ := afero.Exists(b.fs, c.path); exists {
			_ = b.fs.Remove(c.path)
		}
		if err := b.fs.Rename(c.backup, c.path); err != nil {
			logger.Error().Err(err).Str("path", c.path).Str("backup", c.backup).
				Msg("Failed to restore report, previous content kept in backup")
		}
	}
	for _, s := range pending {
		_ = b.fs.Remove(s.tmp)
	}
	b.staged = nil
}

// Discard removes every staged temporary file
func (b *Batch) Discard() {
	for _, s := range b.staged {
		_ = b.fs.Remove(s.tmp)
	}
	b.staged = nil
}
