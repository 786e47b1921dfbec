package walk

import (
	"path/filepath"
	"strings"
)

// RelPath is the path of an entry relative to its walk root, as a sequence
// of name segments. The zero value (nil) is the root itself.
//
// Ordering is segment-wise: each segment is compared byte-wise, and a path
// sorts before any of its descendants. This is not the same as comparing
// the joined string ("a.b" sorts after "a/c" here, because "a" < "a.b").
type RelPath []string

// ParseRelPath splits a slash-separated path into segments. Empty input
// and "." both mean the root.
func ParseRelPath(s string) RelPath {
	if s == "" || s == "." {
		return nil
	}
	return RelPath(strings.Split(s, "/"))
}

// String joins the segments with forward slashes.
func (p RelPath) String() string {
	return strings.Join(p, "/")
}

// IsRoot reports whether this path names the walk root itself.
func (p RelPath) IsRoot() bool {
	return len(p) == 0
}

// Base returns the final segment, or "" for the root.
func (p RelPath) Base() string {
	if len(p) == 0 {
		return ""
	}
	return p[len(p)-1]
}

// Join returns a new path with name appended. The receiver is not modified
// and the result does not alias its backing array.
func (p RelPath) Join(name string) RelPath {
	out := make(RelPath, len(p)+1)
	copy(out, p)
	out[len(p)] = name
	return out
}

// Compare orders two paths segment-wise. It returns a negative number if
// p sorts before q, zero if they are equal, and a positive number otherwise.
func (p RelPath) Compare(q RelPath) int {
	n := len(p)
	if len(q) < n {
		n = len(q)
	}
	for i := 0; i < n; i++ {
		if c := strings.Compare(p[i], q[i]); c != 0 {
			return c
		}
	}
	return len(p) - len(q)
}

// Under resolves the relative path against a root directory, using the
// platform path separator.
func (p RelPath) Under(root string) string {
	if len(p) == 0 {
		return root
	}
	return filepath.Join(root, filepath.Join([]string(p)...))
}

// Equal reports whether two paths have identical segments.
func (p RelPath) Equal(q RelPath) bool {
	return p.Compare(q) == 0
}
