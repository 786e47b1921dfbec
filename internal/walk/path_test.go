package walk

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRelPath(t *testing.T) {
	assert.Nil(t, ParseRelPath(""))
	assert.Nil(t, ParseRelPath("."))
	assert.Equal(t, RelPath{"a"}, ParseRelPath("a"))
	assert.Equal(t, RelPath{"a", "b", "c"}, ParseRelPath("a/b/c"))
}

func TestRelPathString(t *testing.T) {
	assert.Equal(t, "", RelPath(nil).String())
	assert.Equal(t, "a/b", RelPath{"a", "b"}.String())
}

func TestRelPathJoinDoesNotAlias(t *testing.T) {
	base := make(RelPath, 1, 4)
	base[0] = "a"
	p := base.Join("b")
	q := base.Join("c")
	assert.Equal(t, RelPath{"a", "b"}, p)
	assert.Equal(t, RelPath{"a", "c"}, q)
}

func TestRelPathCompare(t *testing.T) {
	cases := []struct {
		a, b string
		sign int
	}{
		{"", "a", -1},
		{"a", "a", 0},
		{"a", "b", -1},
		{"a", "a/b", -1},
		{"a/b", "b", -1},
		{"a/b", "a/c", -1},
		// Segment-wise order differs from joined-string order here:
		// '.' < '/' as bytes, but "a" is a prefix segment of nothing
		// in "a.b", so the directory path sorts first.
		{"a/c", "a.b", -1},
	}
	for _, c := range cases {
		got := ParseRelPath(c.a).Compare(ParseRelPath(c.b))
		switch c.sign {
		case -1:
			assert.Negative(t, got, "%q vs %q", c.a, c.b)
			assert.Positive(t, ParseRelPath(c.b).Compare(ParseRelPath(c.a)))
		case 0:
			assert.Zero(t, got, "%q vs %q", c.a, c.b)
		}
	}
}

func TestRelPathUnder(t *testing.T) {
	root := t.TempDir()
	require.Equal(t, root, RelPath(nil).Under(root))
	assert.Equal(t, filepath.Join(root, "a", "b"), RelPath{"a", "b"}.Under(root))
}
