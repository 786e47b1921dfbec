// Package walk produces ordered, streaming traversals of directory trees.
//
// A walk runs on its own goroutine and hands entries to the consumer over a
// bounded channel, so memory use stays flat regardless of tree size or
// consumer speed. Entries arrive in ascending segment-wise path order, which
// is what lets two walks be merge-joined downstream.
package walk

import (
	"io"
	"sync"

	"go.uber.org/zap"
)

// DefaultQueueCapacity is the hand-off buffer size between the walk worker
// and its consumer.
const DefaultQueueCapacity = 1000

// DirEmission controls when a directory's own entry is delivered, relative
// to its children.
type DirEmission int

const (
	// EmitBefore yields a directory before any of its descendants.
	EmitBefore DirEmission = iota
	// EmitAfter yields a directory only after all of its descendants.
	EmitAfter
	// EmitNever suppresses directory entries entirely; their children
	// are still visited.
	EmitNever
)

// Options configures a walk. The zero value is usable: lstat symlinks, skip
// hidden files, emit directories before their children.
type Options struct {
	// FollowSymlinks stats link targets instead of the links themselves.
	FollowSymlinks bool
	// IncludeHidden includes hidden files and directories.
	IncludeHidden bool
	// NoIgnore disables ignore-file handling. Only the ignore-aware
	// backend consults it; the stack walker never reads ignore files.
	NoIgnore bool
	// DirEmission selects when directory entries are yielded.
	DirEmission DirEmission
	// QueueCapacity bounds the worker/consumer hand-off buffer.
	// Zero or negative means DefaultQueueCapacity.
	QueueCapacity int
	// Logger receives walk progress events. Nil means no logging.
	Logger *zap.Logger
}

func (o *Options) queueCap() int {
	if o.QueueCapacity <= 0 {
		return DefaultQueueCapacity
	}
	return o.QueueCapacity
}

func (o *Options) logger() *zap.Logger {
	if o.Logger == nil {
		return zap.NewNop()
	}
	return o.Logger
}

// TreeWalk is an ordered pull sequence of entries under one root. A walk is
// finite and not restartable; Next returns io.EOF once the walk is done,
// and any other error is terminal. Close releases the walk's worker early;
// it is safe to call more than once.
type TreeWalk interface {
	Next() (*Entry, error)
	Root() string
	Close() error
}

// result is one item on the worker/consumer hand-off queue.
type result struct {
	entry *Entry
	err   error
}

// stream is the consumer half shared by the walk backends: a bounded
// hand-off channel plus a close signal for early abandonment. The worker
// closes ch when it is done; the consumer closes done to release the
// worker.
type stream struct {
	ch        chan result
	done      chan struct{}
	closeOnce sync.Once

	err error
	eof bool
}

func newStream(capacity int) stream {
	return stream{
		ch:   make(chan result, capacity),
		done: make(chan struct{}),
	}
}

// Next returns the next entry. io.EOF means the walk completed; any other
// error is terminal and sticky.
func (s *stream) Next() (*Entry, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.eof {
		return nil, io.EOF
	}
	res, ok := <-s.ch
	if !ok {
		s.eof = true
		return nil, io.EOF
	}
	if res.err != nil {
		s.err = res.err
		return nil, res.err
	}
	return res.entry, nil
}

// Close signals the worker to stop. Entries still queued are discarded.
func (s *stream) Close() error {
	s.closeOnce.Do(func() { close(s.done) })
	return nil
}

// send delivers one result, applying backpressure while the queue is full.
// It returns false once the consumer has closed the walk; the worker must
// stop, not retry.
func (s *stream) send(res result) bool {
	select {
	case s.ch <- res:
		return true
	case <-s.done:
		return false
	}
}
