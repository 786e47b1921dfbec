package walk

import (
	"io/fs"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// Walker is the stack-based walk implementation. A dedicated goroutine
// drives the traversal and streams entries over a bounded channel; the
// consumer pulls them through Next.
//
// The traversal is iterative. Pending work lives on an explicit stack of
// tagged items, so arbitrarily deep trees cannot exhaust the goroutine
// stack:
//
//   - scan: list a directory and queue its children
//   - process: stat one child and build its entry
//   - emit: yield a directory entry deferred until after its children
//
// The first listing or stat failure ends the walk; the error is the last
// item the consumer sees.
type Walker struct {
	stream
	root string
	opts Options
	log  *zap.Logger
}

var _ TreeWalk = (*Walker)(nil)

// New starts walking the tree rooted at root. The returned walker's entries
// must be drained with Next or released with Close.
func New(root string, opts Options) *Walker {
	w := &Walker{
		stream: newStream(opts.queueCap()),
		root:   root,
		opts:   opts,
		log:    opts.logger(),
	}
	go w.run()
	return w
}

// Root returns the directory this walk started from.
func (w *Walker) Root() string { return w.root }

// workKind tags a pending item on the traversal stack.
type workKind int

const (
	workScan workKind = iota
	workProcess
	workEmit
)

type workItem struct {
	kind  workKind
	path  RelPath // scan: the directory; process: the parent directory
	name  string  // process: the child name
	entry *Entry  // emit: the deferred directory entry
}

func (w *Walker) run() {
	defer close(w.ch)
	w.log.Debug("starting walk", zap.String("root", w.root))

	var pending stack[workItem]
	pending.push(workItem{kind: workScan})

	count := 0
	for {
		item, ok := pending.pop()
		if !ok {
			break
		}
		switch item.kind {
		case workScan:
			if err := w.scanDir(&pending, item.path); err != nil {
				w.send(result{err: err})
				return
			}
		case workProcess:
			e, err := w.processEntry(&pending, item.path, item.name)
			if err != nil {
				w.send(result{err: err})
				return
			}
			if e != nil {
				if !w.send(result{entry: e}) {
					return
				}
				count++
			}
		case workEmit:
			if !w.send(result{entry: item.entry}) {
				return
			}
			count++
		}
	}
	w.log.Debug("walk finished", zap.String("root", w.root), zap.Int("entries", count))
}

// scanDir lists a directory and pushes one process item per surviving
// child, in reverse name order so they pop ascending.
func (w *Walker) scanDir(pending *stack[workItem], dir RelPath) error {
	full := dir.Under(w.root)
	w.log.Debug("scanning directory", zap.String("dir", dir.String()))

	// os.ReadDir returns entries already sorted by name.
	entries, err := os.ReadDir(full)
	if err != nil {
		return wrapErr("scan", full, err)
	}

	names := make([]string, 0, len(entries))
	for _, de := range entries {
		name := de.Name()
		if !w.opts.IncludeHidden {
			hidden, err := isHidden(filepath.Join(full, name), name)
			if err != nil {
				return wrapErr("stat", filepath.Join(full, name), err)
			}
			if hidden {
				continue
			}
		}
		names = append(names, name)
	}

	for i := len(names) - 1; i >= 0; i-- {
		pending.push(workItem{kind: workProcess, path: dir, name: names[i]})
	}
	return nil
}

// processEntry stats one directory child and builds its entry. Directories
// additionally get a scan item pushed, and their own entry is emitted now,
// deferred, or dropped per the emission policy. The returned entry, if any,
// is ready to send.
func (w *Walker) processEntry(pending *stack[workItem], dir RelPath, name string) (*Entry, error) {
	path := dir.Join(name)
	full := path.Under(w.root)

	var info fs.FileInfo
	var err error
	if w.opts.FollowSymlinks {
		info, err = os.Stat(full)
	} else {
		info, err = os.Lstat(full)
	}
	if err != nil {
		return nil, wrapErr("stat", full, err)
	}

	e := newEntry(path, info)
	if !e.IsDir() {
		return e, nil
	}

	switch w.opts.DirEmission {
	case EmitAfter:
		// The emit item sits under the scan item, so it surfaces only
		// once every descendant has been produced.
		pending.push(workItem{kind: workEmit, entry: e})
		pending.push(workItem{kind: workScan, path: path})
		return nil, nil
	case EmitNever:
		pending.push(workItem{kind: workScan, path: path})
		return nil, nil
	default:
		pending.push(workItem{kind: workScan, path: path})
		return e, nil
	}
}
