//go:build windows

package walk

import (
	"golang.org/x/sys/windows"
)

// isHidden reports whether an entry is hidden, which on Windows is the
// hidden attribute bit rather than a naming convention.
func isHidden(path string, _ string) (bool, error) {
	p, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return false, err
	}
	attrs, err := windows.GetFileAttributes(p)
	if err != nil {
		return false, err
	}
	return attrs&windows.FILE_ATTRIBUTE_HIDDEN != 0, nil
}
