// Package diff merge-joins two ordered tree walks into a stream of
// classified differences.
//
// Both input walks must already be sorted ascending by relative path (the
// walk package guarantees this). The differ keeps one lookahead entry per
// side and advances only the side needed to resolve the current comparison,
// so it buffers a constant amount of state no matter how large the trees
// are.
package diff

import (
	"io"

	"go.uber.org/zap"

	"github.com/mdekstrand/redirt/internal/walk"
)

// Kind classifies one relative path across the two walks.
type Kind int

const (
	// Present paths exist on both sides and are equivalent under the
	// active comparison policy.
	Present Kind = iota
	// Added paths exist only in the source walk.
	Added
	// Removed paths exist only in the target walk.
	Removed
	// Modified paths exist on both sides but differ.
	Modified
)

func (k Kind) String() string {
	switch k {
	case Present:
		return "present"
	case Added:
		return "added"
	case Removed:
		return "removed"
	case Modified:
		return "modified"
	default:
		return "unknown"
	}
}

// Entry is the classification of one relative path. Exactly one entry is
// produced per distinct path across the two input walks.
type Entry struct {
	Kind Kind
	// Src is the source-side walk entry; nil for Removed.
	Src *walk.Entry
	// Tgt is the target-side walk entry; nil for Added.
	Tgt *walk.Entry

	// The changed flags are only meaningful for Modified entries.
	// ChangedContent is only ever set when the other three are false:
	// content is checked byte-for-byte only when the cheaper metadata
	// signals fail to prove a difference.
	ChangedType    bool
	ChangedMtime   bool
	ChangedSize    bool
	ChangedContent bool
}

// Path returns the entry's relative path, from whichever side has it.
func (e *Entry) Path() walk.RelPath {
	if e.Src != nil {
		return e.Src.Path
	}
	return e.Tgt.Path
}

// Options configures a tree diff.
type Options struct {
	// CheckContent compares files byte-for-byte when their type, size,
	// and mtime are all identical. Without it, a content change that
	// preserves size and mtime is reported as Present; that is a
	// documented trade-off, not a bug.
	CheckContent bool
	// Logger receives diff progress events. Nil means no logging.
	Logger *zap.Logger
}

// TreeDiff is a lazy merge-join over two walks. Next returns entries in
// ascending path order and io.EOF when both walks are exhausted; the first
// error from either side is terminal.
type TreeDiff struct {
	src, tgt walk.TreeWalk
	opts     Options
	log      *zap.Logger

	srcNext, tgtNext *walk.Entry
	srcDone, tgtDone bool
	err              error
}

// New builds a differ over a source and a target walk. Both walks must use
// the same traversal options or the comparison is meaningless.
func New(src, tgt walk.TreeWalk, opts Options) *TreeDiff {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &TreeDiff{src: src, tgt: tgt, opts: opts, log: log}
}

// Close releases both underlying walks.
func (d *TreeDiff) Close() error {
	d.src.Close()
	d.tgt.Close()
	return nil
}

// Next returns the next difference entry. It returns io.EOF when both
// walks are exhausted. Any other error is terminal and sticky.
func (d *TreeDiff) Next() (*Entry, error) {
	if d.err != nil {
		return nil, d.err
	}

	e, err := d.advance()
	if err != nil && err != io.EOF {
		d.err = err
	}
	return e, err
}

func (d *TreeDiff) advance() (*Entry, error) {
	if err := d.fill(); err != nil {
		return nil, err
	}

	switch {
	case d.srcNext == nil && d.tgtNext == nil:
		return nil, io.EOF
	case d.tgtNext == nil:
		e := &Entry{Kind: Added, Src: d.srcNext}
		d.srcNext = nil
		return e, nil
	case d.srcNext == nil:
		e := &Entry{Kind: Removed, Tgt: d.tgtNext}
		d.tgtNext = nil
		return e, nil
	}

	switch c := d.srcNext.Path.Compare(d.tgtNext.Path); {
	case c < 0:
		e := &Entry{Kind: Added, Src: d.srcNext}
		d.srcNext = nil
		return e, nil
	case c > 0:
		e := &Entry{Kind: Removed, Tgt: d.tgtNext}
		d.tgtNext = nil
		return e, nil
	default:
		src, tgt := d.srcNext, d.tgtNext
		d.srcNext, d.tgtNext = nil, nil
		return d.classify(src, tgt)
	}
}

// fill pulls one entry into each empty lookahead slot, propagating the
// first error from either side.
func (d *TreeDiff) fill() error {
	if d.srcNext == nil && !d.srcDone {
		e, err := d.src.Next()
		switch err {
		case nil:
			d.srcNext = e
		case io.EOF:
			d.srcDone = true
		default:
			return err
		}
	}
	if d.tgtNext == nil && !d.tgtDone {
		e, err := d.tgt.Next()
		switch err {
		case nil:
			d.tgtNext = e
		case io.EOF:
			d.tgtDone = true
		default:
			return err
		}
	}
	return nil
}

// classify decides what to report for a path present on both sides.
// Metadata differences are never content-checked: a size mismatch already
// proves the files differ, and comparing bytes would be wasted work.
func (d *TreeDiff) classify(src, tgt *walk.Entry) (*Entry, error) {
	e := &Entry{Src: src, Tgt: tgt}

	e.ChangedType = src.Type != tgt.Type
	if !e.ChangedType && src.Type != walk.TypeDir {
		e.ChangedMtime = !src.ModTime.Equal(tgt.ModTime)
		e.ChangedSize = src.Size != tgt.Size
	}

	if e.ChangedType || e.ChangedMtime || e.ChangedSize {
		e.Kind = Modified
		return e, nil
	}

	if d.opts.CheckContent && src.Type == walk.TypeFile {
		same, err := sameContent(src.Path.Under(d.src.Root()), tgt.Path.Under(d.tgt.Root()))
		if err != nil {
			return nil, err
		}
		if !same {
			d.log.Debug("content mismatch", zap.String("path", src.Path.String()))
			e.Kind = Modified
			e.ChangedContent = true
			return e, nil
		}
	}

	e.Kind = Present
	return e, nil
}
