package diff

import (
	"bytes"
	"io"
	"os"

	"github.com/mdekstrand/redirt/internal/walk"
)

const compareBufSize = 64 * 1024

// sameContent compares two files byte-for-byte through fixed-size buffers
// in lock-step, short-circuiting on the first mismatch. Nothing is hashed
// or cached; memory use is constant for arbitrarily large files. A length
// mismatch (possible when a file changed under us after being statted)
// counts as different content.
func sameContent(aPath, bPath string) (bool, error) {
	a, err := os.Open(aPath)
	if err != nil {
		return false, &walk.Error{Op: "open", Path: aPath, Err: err}
	}
	defer a.Close()

	b, err := os.Open(bPath)
	if err != nil {
		return false, &walk.Error{Op: "open", Path: bPath, Err: err}
	}
	defer b.Close()

	abuf := make([]byte, compareBufSize)
	bbuf := make([]byte, compareBufSize)
	for {
		na, erra := io.ReadFull(a, abuf)
		nb, errb := io.ReadFull(b, bbuf)

		if na != nb {
			return false, nil
		}
		if !bytes.Equal(abuf[:na], bbuf[:nb]) {
			return false, nil
		}

		aDone, err := readDone(erra)
		if err != nil {
			return false, &walk.Error{Op: "read", Path: aPath, Err: err}
		}
		bDone, err := readDone(errb)
		if err != nil {
			return false, &walk.Error{Op: "read", Path: bPath, Err: err}
		}
		if aDone || bDone {
			return aDone == bDone, nil
		}
	}
}

// readDone maps an io.ReadFull error to an end-of-file flag, passing real
// read failures through.
func readDone(err error) (bool, error) {
	switch err {
	case nil:
		return false, nil
	case io.EOF, io.ErrUnexpectedEOF:
		return true, nil
	default:
		return false, err
	}
}
