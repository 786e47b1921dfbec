// Package mirror applies a tree diff to a destination tree, converging it
// toward the source. Mutations run synchronously, one diff entry at a time;
// correctness (parent-before-child creation, atomic file replacement) wins
// over throughput here.
package mirror

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/mdekstrand/redirt/internal/diff"
	"github.com/mdekstrand/redirt/internal/walk"
)

// Options configures a synchronizer pass.
type Options struct {
	// Prune removes destination-only entries. Off by default: pruning is
	// destructive, so the base behavior is additive/overwrite-only.
	Prune bool
	// Logger receives per-entry events. Nil means no logging.
	Logger *zap.Logger
}

// Stats counts the mutations a pass actually performed. Entries skipped as
// already up to date are counted separately from copies.
type Stats struct {
	FilesCopied int
	DirsCreated int
	UpToDate    int
	Pruned      int
	BytesCopied int64
}

// Syncer replays a diff stream onto the destination tree. After a
// successful pass, re-diffing the same pair yields only Present entries,
// and a second pass performs zero mutations.
type Syncer struct {
	srcRoot string
	dstRoot string
	opts    Options
	log     *zap.Logger
}

// New builds a synchronizer for one source/destination pair and ensures
// the destination root exists, creating it if absent. The root has to be
// in place here, before the caller starts a walk of the destination: a
// walk constructed against a missing root would race the creation and
// could fail its first stat. The roots must match the walks the diff is
// built from.
func New(srcRoot, dstRoot string, opts Options) (*Syncer, error) {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	s := &Syncer{srcRoot: srcRoot, dstRoot: dstRoot, opts: opts, log: log}
	if err := s.ensureRoot(); err != nil {
		return nil, err
	}
	return s, nil
}

// Run consumes the diff and applies each entry. The first mutation error
// stops the pass, leaving the destination partially converged; everything
// applied before the error stays applied.
func (s *Syncer) Run(d *diff.TreeDiff) (*Stats, error) {
	stats := &Stats{}
	for {
		e, err := d.Next()
		if err == io.EOF {
			return stats, nil
		}
		if err != nil {
			return stats, err
		}
		if err := s.apply(e, stats); err != nil {
			return stats, err
		}
	}
}

// ensureRoot creates the destination root if it is absent, and refuses to
// run when something that is not a directory sits at that path.
func (s *Syncer) ensureRoot() error {
	info, err := os.Stat(s.dstRoot)
	if err != nil {
		if os.IsNotExist(err) {
			return os.MkdirAll(s.dstRoot, 0o755)
		}
		return &walk.Error{Op: "stat", Path: s.dstRoot, Err: err}
	}
	if !info.IsDir() {
		return &walk.Error{Op: "sync", Path: s.dstRoot, Err: fmt.Errorf("destination root exists and is not a directory")}
	}
	return nil
}

func (s *Syncer) apply(e *diff.Entry, stats *Stats) error {
	switch e.Kind {
	case diff.Present:
		return nil
	case diff.Added:
		return s.applyAdded(e.Src, stats)
	case diff.Removed:
		return s.applyRemoved(e.Tgt, stats)
	case diff.Modified:
		return s.applyModified(e, stats)
	default:
		return fmt.Errorf("unexpected diff kind %v", e.Kind)
	}
}

func (s *Syncer) applyAdded(src *walk.Entry, stats *Stats) error {
	switch src.Type {
	case walk.TypeDir:
		created, err := s.createDir(src.Path)
		if err != nil {
			return err
		}
		if created {
			stats.DirsCreated++
		}
		return nil
	case walk.TypeFile:
		return s.copyFile(src, stats)
	default:
		return &walk.Error{Op: "sync", Path: src.Path.String(), Err: walk.ErrUnsupportedType}
	}
}

func (s *Syncer) applyRemoved(tgt *walk.Entry, stats *Stats) error {
	if !s.opts.Prune {
		s.log.Debug("leaving destination-only entry", zap.String("path", tgt.Path.String()))
		return nil
	}
	dst := tgt.Path.Under(s.dstRoot)

	// Children of an already-pruned directory are gone by the time
	// their own entries arrive; they do not count again.
	if _, err := os.Lstat(dst); os.IsNotExist(err) {
		return nil
	}
	s.log.Debug("pruning destination-only entry", zap.String("path", tgt.Path.String()))

	var err error
	if tgt.IsDir() {
		err = os.RemoveAll(dst)
	} else {
		err = os.Remove(dst)
	}
	if err != nil && !os.IsNotExist(err) {
		return &walk.Error{Op: "remove", Path: dst, Err: err}
	}
	stats.Pruned++
	return nil
}

func (s *Syncer) applyModified(e *diff.Entry, stats *Stats) error {
	src, tgt := e.Src, e.Tgt

	if e.ChangedType {
		// Clear whatever is there, then rebuild from the source side.
		dst := tgt.Path.Under(s.dstRoot)
		s.log.Debug("replacing destination entry of different type",
			zap.String("path", tgt.Path.String()),
			zap.Stringer("old", tgt.Type),
			zap.Stringer("new", src.Type))

		var err error
		if tgt.IsDir() {
			err = os.RemoveAll(dst)
		} else {
			err = os.Remove(dst)
		}
		if err != nil && !os.IsNotExist(err) {
			return &walk.Error{Op: "remove", Path: dst, Err: err}
		}

		switch src.Type {
		case walk.TypeDir:
			created, err := s.createDir(src.Path)
			if err != nil {
				return err
			}
			if created {
				stats.DirsCreated++
			}
			return nil
		case walk.TypeFile:
			return s.copyFile(src, stats)
		default:
			return &walk.Error{Op: "sync", Path: src.Path.String(), Err: walk.ErrUnsupportedType}
		}
	}

	switch src.Type {
	case walk.TypeFile:
		// A same-size destination with a newer mtime is treated as up
		// to date: align its timestamp instead of re-copying, so the
		// pair still diffs as Present afterwards.
		if !e.ChangedContent && tgt.Size == src.Size && tgt.ModTime.After(src.ModTime) {
			s.log.Debug("destination is up to date", zap.String("path", src.Path.String()))
			dst := src.Path.Under(s.dstRoot)
			if err := os.Chtimes(dst, src.ModTime, src.ModTime); err != nil {
				return &walk.Error{Op: "chtimes", Path: dst, Err: err}
			}
			stats.UpToDate++
			return nil
		}
		return s.copyFile(src, stats)
	case walk.TypeDir:
		// Directories only reach here with metadata flags, which do
		// not require any action on the directory itself.
		return nil
	default:
		return &walk.Error{Op: "sync", Path: src.Path.String(), Err: walk.ErrUnsupportedType}
	}
}

// createDir makes one destination directory, non-recursively: its parent
// is guaranteed to exist because ancestors are visited before descendants.
// It returns false when a directory was already in place.
func (s *Syncer) createDir(path walk.RelPath) (bool, error) {
	dst := path.Under(s.dstRoot)
	if info, err := os.Lstat(dst); err == nil {
		if info.IsDir() {
			s.log.Debug("directory already exists", zap.String("path", path.String()))
			return false, nil
		}
		// A non-directory in the way gets replaced.
		if err := os.Remove(dst); err != nil {
			return false, &walk.Error{Op: "remove", Path: dst, Err: err}
		}
	} else if !os.IsNotExist(err) {
		return false, &walk.Error{Op: "stat", Path: dst, Err: err}
	}

	s.log.Debug("creating directory", zap.String("path", path.String()))
	if err := os.Mkdir(dst, 0o755); err != nil {
		return false, &walk.Error{Op: "mkdir", Path: dst, Err: err}
	}
	return true, nil
}

// copyFile copies source bytes to the destination path via a temporary
// file in the same directory followed by an atomic rename, so a crash
// mid-copy never leaves a half-written file at the final path. The source
// mtime is carried over so a converged pair diffs as Present.
func (s *Syncer) copyFile(src *walk.Entry, stats *Stats) error {
	srcPath := src.Path.Under(s.srcRoot)
	dstPath := src.Path.Under(s.dstRoot)
	s.log.Debug("copying file", zap.String("path", src.Path.String()), zap.Int64("size", src.Size))

	// Anything in the way that is not a plain file has to go first;
	// rename cannot replace a directory.
	if info, err := os.Lstat(dstPath); err == nil && !info.Mode().IsRegular() {
		if info.IsDir() {
			err = os.RemoveAll(dstPath)
		} else {
			err = os.Remove(dstPath)
		}
		if err != nil {
			return &walk.Error{Op: "remove", Path: dstPath, Err: err}
		}
	}

	in, err := os.Open(srcPath)
	if err != nil {
		return &walk.Error{Op: "open", Path: srcPath, Err: err}
	}
	defer in.Close()

	tmp, err := os.CreateTemp(filepath.Dir(dstPath), ".redirt-*.tmp")
	if err != nil {
		return &walk.Error{Op: "create", Path: dstPath, Err: err}
	}
	tmpName := tmp.Name()

	n, err := io.Copy(tmp, in)
	if err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return &walk.Error{Op: "copy", Path: dstPath, Err: err}
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return &walk.Error{Op: "close", Path: dstPath, Err: err}
	}

	// Preserve the source mtime; the differ uses it as a change signal.
	if !src.ModTime.IsZero() {
		if err := os.Chtimes(tmpName, src.ModTime, src.ModTime); err != nil {
			os.Remove(tmpName)
			return &walk.Error{Op: "chtimes", Path: dstPath, Err: err}
		}
	}

	if err := os.Rename(tmpName, dstPath); err != nil {
		os.Remove(tmpName)
		return &walk.Error{Op: "rename", Path: dstPath, Err: err}
	}

	stats.FilesCopied++
	stats.BytesCopied += n
	return nil
}
