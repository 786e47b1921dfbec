package walk

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIgnoreWalkerRespectsGitignore(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, ".gitignore", "*.log\nbuild/\n")
	writeFile(t, root, "a.log", "noise")
	writeFile(t, root, "build/out", "artifact")
	writeFile(t, root, "keep.txt", "data")
	writeFile(t, root, "src/b.log", "noise")
	writeFile(t, root, "src/main.txt", "code")

	w := NewIgnoreWalker(root, Options{})
	defer w.Close()
	assert.Equal(t, []string{"keep.txt", "src", "src/main.txt"}, drain(t, w))
}

func TestIgnoreWalkerNoIgnore(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, ".gitignore", "*.log\n")
	writeFile(t, root, "a.log", "noise")
	writeFile(t, root, "keep.txt", "data")

	w := NewIgnoreWalker(root, Options{NoIgnore: true})
	defer w.Close()
	// Ignore rules are off, but the hidden filter still hides .gitignore.
	assert.Equal(t, []string{"a.log", "keep.txt"}, drain(t, w))
}

func TestIgnoreWalkerWithoutIgnoreFile(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a", "alpha")
	writeFile(t, root, "c/d", "delta")

	w := NewIgnoreWalker(root, Options{})
	defer w.Close()
	assert.Equal(t, []string{"a", "c", "c/d"}, drain(t, w))
}

func TestIgnoreWalkerAscendingOrder(t *testing.T) {
	root := t.TempDir()
	for _, rel := range []string{"z", "a/c", "a/b/c", "m/n", "b"} {
		writeFile(t, root, rel, rel)
	}

	w := NewIgnoreWalker(root, Options{})
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
			assert.Negative(t, prev.Compare(e.Path))
		}
		prev = e.Path
		n++
	}
	// 5 files plus the directories a, a/b, and m.
	assert.Equal(t, 8, n)
}

func TestIgnoreWalkerHidden(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, ".secret/x", "shh")
	writeFile(t, root, "a", "alpha")

	w := NewIgnoreWalker(root, Options{})
	defer w.Close()
	assert.Equal(t, []string{"a"}, drain(t, w))

	w = NewIgnoreWalker(root, Options{IncludeHidden: true, NoIgnore: true})
	defer w.Close()
	assert.Equal(t, []string{".secret", ".secret/x", "a"}, drain(t, w))
}
