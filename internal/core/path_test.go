package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linefs/linefs/api"
)

func TestNormalizePath(t *testing.T) {
	t.Parallel()

	t.Run("Valid", func(t *testing.T) {
		t.Parallel()

		tests := []struct {
			name string
			in   string
			want string
		}{
			{"root", "/", "/"},
			{"simple", "/a/b.txt", "/a/b.txt"},
			{"trailing_slash", "/a/b/", "/a/b"},
			{"repeated_separators", "//a///b", "/a/b"},
			{"dot_segments", "/a/./b/.", "/a/b"},
			{"dotdot_resolves", "/a/b/../c", "/a/c"},
			{"dotdot_to_root", "/a/..", "/"},
			{"only_dots", "/./.", "/"},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				t.Parallel()

				got, err := NormalizePath(tt.in)

				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
			})
		}
	})

	t.Run("Invalid", func(t *testing.T) {
		t.Parallel()

		tests := []struct {
			name string
			in   string
		}{
			{"empty", ""},
			{"relative", "a/b"},
			{"escapes_root", "/.."},
			{"escapes_root_deep", "/a/../../b"},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				t.Parallel()

				_, err := NormalizePath(tt.in)

				require.Error(t, err)
				assert.Equal(t, api.KindInvalidPath, api.KindOf(err))
			})
		}
	})
}

func TestParentPath(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "", ParentPath("/"))
	assert.Equal(t, "/", ParentPath("/a"))
	assert.Equal(t, "/a", ParentPath("/a/b"))
	assert.Equal(t, "/a/b", ParentPath("/a/b/c.txt"))
}

func TestBaseName(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "/", BaseName("/"))
	assert.Equal(t, "a", BaseName("/a"))
	assert.Equal(t, "c.txt", BaseName("/a/b/c.txt"))
}

func TestJoinChild(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "/a", JoinChild("/", "a"))
	assert.Equal(t, "/a/b", JoinChild("/a", "b"))
}

func TestAncestors(t *testing.T) {
	t.Parallel()

	assert.Nil(t, Ancestors("/"))
	assert.Nil(t, Ancestors("/a"))
	assert.Equal(t, []string{"/a"}, Ancestors("/a/b"))
	assert.Equal(t, []string{"/a", "/a/b"}, Ancestors("/a/b/c"))
}

func TestRelativeTo(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "", RelativeTo("/a", "/a"))
	assert.Equal(t, "a/b", RelativeTo("/a/b", "/"))
	assert.Equal(t, "b/c", RelativeTo("/a/b/c", "/a"))
}
