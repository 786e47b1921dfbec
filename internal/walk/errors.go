package walk

import (
	"errors"
	"fmt"
)

// Sentinel errors for the failure kinds a walk or sync can hit. Use
// errors.Is to test for them; the wrapped chain keeps the underlying
// OS error.
var (
	// ErrNotRelative reports a produced path that could not be expressed
	// relative to its walk root.
	ErrNotRelative = errors.New("path is not relative to root")
	// ErrUnsupportedType reports an entry that is neither a regular file,
	// a directory, nor a symlink.
	ErrUnsupportedType = errors.New("unsupported file type")
)

// Error wraps a failure with the operation and path it happened on.
type Error struct {
	Op   string
	Path string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s %s: %s", e.Op, e.Path, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func wrapErr(op, path string, err error) error {
	return &Error{Op: op, Path: path, Err: err}
}
