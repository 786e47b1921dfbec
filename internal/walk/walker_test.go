package walk

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeFile creates a file (and its parents) under root from a
// slash-separated relative path.
func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	p := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
}

// drain pulls every entry from a walk, failing the test on errors, and
// returns the slash paths in emission order.
func drain(t *testing.T, w TreeWalk) []string {
	t.Helper()
	var paths []string
	for {
		e, err := w.Next()
		if err == io.EOF {
			return paths
		}
		require.NoError(t, err)
		paths = append(paths, e.Path.String())
	}
}

func TestWalkOrder(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a", "alpha")
	writeFile(t, root, "b", "beta")
	writeFile(t, root, "c/d", "delta")

	w := New(root, Options{})
	defer w.Close()
	assert.Equal(t, []string{"a", "b", "c", "c/d"}, drain(t, w))
}

func TestWalkEntryFields(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "f", "hello")

	w := New(root, Options{})
	defer w.Close()

	e, err := w.Next()
	require.NoError(t, err)
	assert.Equal(t, "f", e.Path.String())
	assert.Equal(t, TypeFile, e.Type)
	assert.EqualValues(t, 5, e.Size)
	assert.False(t, e.ModTime.IsZero())

	_, err = w.Next()
	assert.Equal(t, io.EOF, err)
}

func TestWalkAfterChildren(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a", "alpha")
	writeFile(t, root, "b", "beta")
	writeFile(t, root, "c/d", "delta")

	w := New(root, Options{DirEmission: EmitAfter})
	defer w.Close()
	assert.Equal(t, []string{"a", "b", "c/d", "c"}, drain(t, w))
}

func TestWalkNeverEmitsDirsButStillDescends(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a", "alpha")
	writeFile(t, root, "c/d", "delta")
	writeFile(t, root, "c/e/f", "foxtrot")

	w := New(root, Options{DirEmission: EmitNever})
	defer w.Close()
	assert.Equal(t, []string{"a", "c/d", "c/e/f"}, drain(t, w))
}

func TestWalkHiddenFiltering(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a", "alpha")
	writeFile(t, root, ".hidden", "shh")
	writeFile(t, root, ".dir/inner", "shh")

	w := New(root, Options{})
	defer w.Close()
	assert.Equal(t, []string{"a"}, drain(t, w))

	w = New(root, Options{IncludeHidden: true})
	defer w.Close()
	assert.Equal(t, []string{".dir", ".dir/inner", ".hidden", "a"}, drain(t, w))
}

func TestWalkStrictlyAscendingNoDuplicates(t *testing.T) {
	root := t.TempDir()
	for _, rel := range []string{
		"z", "a.b", "a/c", "a/b/c", "a/b/d", "m/n/o/p", "m/n/q", "b",
	} {
		writeFile(t, root, rel, rel)
	}

	w := New(root, Options{QueueCapacity: 2})
	defer w.Close()

	var prev RelPath
	n := 0
	for {
		e, err := w.Next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		if n > 0 {
			assert.Negative(t, prev.Compare(e.Path),
				"%s must sort strictly before %s", prev, e.Path)
		}
		prev = e.Path
		n++
	}
	// 8 files plus the directories a, a/b, m, m/n, and m/n/o.
	assert.Equal(t, 13, n)
}

func TestWalkMissingRootFailsFast(t *testing.T) {
	w := New(filepath.Join(t.TempDir(), "nope"), Options{})
	defer w.Close()

	_, err := w.Next()
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)

	var werr *Error
	require.ErrorAs(t, err, &werr)
	assert.Equal(t, "scan", werr.Op)

	// The error is sticky.
	_, err2 := w.Next()
	assert.Equal(t, err, err2)
}

func TestWalkEarlyClose(t *testing.T) {
	root := t.TempDir()
	for _, rel := range []string{"a", "b", "c", "d", "e", "f", "g", "h"} {
		writeFile(t, root, rel, rel)
	}

	w := New(root, Options{QueueCapacity: 1})
	_, err := w.Next()
	require.NoError(t, err)

	// The worker is blocked on a full queue; closing must release it
	// without a panic or deadlock.
	require.NoError(t, w.Close())
	require.NoError(t, w.Close())
}

func TestWalkSymlinks(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "target", "content")
	require.NoError(t, os.Symlink(filepath.Join(root, "target"), filepath.Join(root, "link")))

	w := New(root, Options{})
	defer w.Close()
	e, err := w.Next()
	require.NoError(t, err)
	assert.Equal(t, "link", e.Path.String())
	assert.Equal(t, TypeSymlink, e.Type)

	w = New(root, Options{FollowSymlinks: true})
	defer w.Close()
	e, err = w.Next()
	require.NoError(t, err)
	assert.Equal(t, "link", e.Path.String())
	assert.Equal(t, TypeFile, e.Type)
	assert.EqualValues(t, 7, e.Size)
}

func TestWalkNestedDepth(t *testing.T) {
	root := t.TempDir()
	rel := "d0"
	for i := 1; i < 40; i++ {
		rel = rel + "/d" + string(rune('0'+i%10))
	}
	writeFile(t, root, rel+"/leaf", "deep")

	w := New(root, Options{})
	defer w.Close()
	paths := drain(t, w)
	assert.Len(t, paths, 41)
	assert.Equal(t, rel+"/leaf", paths[len(paths)-1])
}
