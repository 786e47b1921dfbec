//go:build !windows

package walk

import "strings"

// isHidden reports whether an entry is hidden. On POSIX systems that is a
// dot-prefixed name; the full path is unused.
func isHidden(_ string, name string) (bool, error) {
	return strings.HasPrefix(name, "."), nil
}
