//go:build !darwin

package walk

import (
	"io/fs"
	"time"
)

// Creation times are not portably available; platforms without a birth time
// report the zero value.
func createTime(_ fs.FileInfo) time.Time {
	return time.Time{}
}
