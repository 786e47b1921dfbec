package walk

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/karrick/godirwalk"
	gitignore "github.com/sabhiram/go-gitignore"
	"go.uber.org/zap"
)

// errWalkAborted is returned from the visit callback to unwind godirwalk
// when the consumer has closed the walk.
var errWalkAborted = errors.New("walk aborted by consumer")

// IgnoreWalker is the second walk backend: it delegates traversal to
// godirwalk's lexically sorted walk and layers .gitignore filtering on top.
// It emits directories before their children and does not support the
// other emission policies; the copy command is its only intended consumer.
type IgnoreWalker struct {
	stream
	root    string
	opts    Options
	log     *zap.Logger
	matcher *gitignore.GitIgnore
}

var _ TreeWalk = (*IgnoreWalker)(nil)

// NewIgnoreWalker starts an ignore-aware walk of the tree rooted at root.
// Unless Options.NoIgnore is set, a .gitignore at the root governs which
// entries are skipped.
func NewIgnoreWalker(root string, opts Options) *IgnoreWalker {
	w := &IgnoreWalker{
		stream: newStream(opts.queueCap()),
		root:   root,
		opts:   opts,
		log:    opts.logger(),
	}
	go w.run()
	return w
}

// Root returns the directory this walk started from.
func (w *IgnoreWalker) Root() string { return w.root }

func (w *IgnoreWalker) run() {
	defer close(w.ch)
	w.log.Debug("starting ignore-aware walk", zap.String("root", w.root))

	if !w.opts.NoIgnore {
		matcher, err := loadIgnoreFile(w.root)
		if err != nil {
			w.send(result{err: err})
			return
		}
		w.matcher = matcher
	}

	err := godirwalk.Walk(w.root, &godirwalk.Options{
		FollowSymbolicLinks: w.opts.FollowSymlinks,
		Unsorted:            false,
		Callback:            w.visit,
	})
	if err != nil && !errors.Is(err, errWalkAborted) {
		w.send(result{err: err})
	}
}

func (w *IgnoreWalker) visit(osPathname string, de *godirwalk.Dirent) error {
	if osPathname == w.root {
		return nil
	}

	rel, err := filepath.Rel(w.root, osPathname)
	if err != nil {
		return wrapErr("resolve", osPathname, ErrNotRelative)
	}
	path := ParseRelPath(filepath.ToSlash(rel))

	if !w.opts.IncludeHidden {
		hidden, err := isHidden(osPathname, path.Base())
		if err != nil {
			return wrapErr("stat", osPathname, err)
		}
		if hidden {
			if de.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
	}

	if w.matcher != nil && w.ignored(path, de.IsDir()) {
		w.log.Debug("ignoring entry", zap.String("path", path.String()))
		if de.IsDir() {
			return filepath.SkipDir
		}
		return nil
	}

	var info fs.FileInfo
	if w.opts.FollowSymlinks {
		info, err = os.Stat(osPathname)
	} else {
		info, err = os.Lstat(osPathname)
	}
	if err != nil {
		return wrapErr("stat", osPathname, err)
	}

	if !w.send(result{entry: newEntry(path, info)}) {
		return errWalkAborted
	}
	return nil
}

// ignored matches a path against the ignore rules. Directory patterns like
// "build/" only match with the trailing slash, so directories are tried
// both ways.
func (w *IgnoreWalker) ignored(path RelPath, isDir bool) bool {
	rel := path.String()
	if w.matcher.MatchesPath(rel) {
		return true
	}
	return isDir && w.matcher.MatchesPath(rel+"/")
}

// loadIgnoreFile compiles the root's .gitignore, if there is one.
func loadIgnoreFile(root string) (*gitignore.GitIgnore, error) {
	p := filepath.Join(root, ".gitignore")
	if _, err := os.Stat(p); err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, wrapErr("stat", p, err)
	}
	matcher, err := gitignore.CompileIgnoreFile(p)
	if err != nil {
		return nil, wrapErr("parse", p, err)
	}
	return matcher, nil
}
