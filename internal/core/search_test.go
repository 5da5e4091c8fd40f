package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linefs/linefs/api"
)

// seedTree builds a small mixed tree used by the traversal tests.
func seedTree(t *testing.T) *Volume {
	t.Helper()
	v := testVolume(t)

	require.NoError(t, v.Write("/notes.md", "TODO buy milk\ndone"))
	require.NoError(t, v.Write("/docs/guide.md", "intro\ntodo: write more"))
	require.NoError(t, v.Write("/docs/data.txt", "plain"))
	require.NoError(t, v.Mkdir("/empty", false))
	require.NoError(t, v.Symlink("/docs/latest.md", "/docs/guide.md"))
	return v
}

func TestVolume_Ls(t *testing.T) {
	t.Parallel()

	t.Run("SortedImmediateChildren", func(t *testing.T) {
		t.Parallel()
		v := testVolume(t)
		require.NoError(t, v.Write("/b.txt", "x"))
		require.NoError(t, v.Write("/a.txt", "x"))
		require.NoError(t, v.Mkdir("/c", false))
		require.NoError(t, v.Write("/c/nested.txt", "x"))

		names, err := v.Ls("/")

		require.NoError(t, err)
		assert.Equal(t, []string{"a.txt", "b.txt", "c"}, names, "sorted, immediate children only")
	})

	t.Run("EmptyDirectory", func(t *testing.T) {
		t.Parallel()
		v := testVolume(t)
		require.NoError(t, v.Mkdir("/empty", false))

		names, err := v.Ls("/empty")

		require.NoError(t, err)
		assert.Empty(t, names)
	})

	t.Run("FileIsNotADirectory", func(t *testing.T) {
		t.Parallel()
		v := testVolume(t)
		require.NoError(t, v.Write("/f.txt", "x"))

		_, err := v.Ls("/f.txt")

		assert.Equal(t, api.KindNotADirectory, api.KindOf(err))
	})

	t.Run("Missing", func(t *testing.T) {
		t.Parallel()
		v := testVolume(t)

		_, err := v.Ls("/nope")

		assert.Equal(t, api.KindNotFound, api.KindOf(err))
	})
}

func TestVolume_Find(t *testing.T) {
	t.Parallel()

	t.Run("GlobOnName", func(t *testing.T) {
		t.Parallel()
		v := seedTree(t)

		got, err := v.Find("/", "*.md", api.FindOptions{})

		require.NoError(t, err)
		assert.Equal(t, []string{"/docs/guide.md", "/docs/latest.md", "/notes.md"}, got,
			"every matching descendant in lexicographic depth-first order")
	})

	t.Run("QuestionMarkMatchesSingleChar", func(t *testing.T) {
		t.Parallel()
		v := testVolume(t)
		require.NoError(t, v.Write("/a1.txt", "x"))
		require.NoError(t, v.Write("/a22.txt", "x"))

		got, err := v.Find("/", "a?.txt", api.FindOptions{})

		require.NoError(t, err)
		assert.Equal(t, []string{"/a1.txt"}, got)
	})

	t.Run("TypeFilter", func(t *testing.T) {
		t.Parallel()
		v := seedTree(t)

		dirs, err := v.Find("/", "*", api.FindOptions{Type: api.TypeDir})
		require.NoError(t, err)
		assert.Equal(t, []string{"/docs", "/empty"}, dirs)

		links, err := v.Find("/", "*", api.FindOptions{Type: api.TypeSymlink})
		require.NoError(t, err)
		assert.Equal(t, []string{"/docs/latest.md"}, links)
	})

	t.Run("FullPathMatching", func(t *testing.T) {
		t.Parallel()
		v := seedTree(t)

		got, err := v.Find("/", "docs/*.md", api.FindOptions{FullPath: true})

		require.NoError(t, err)
		assert.Equal(t, []string{"/docs/guide.md", "/docs/latest.md"}, got)
	})

	t.Run("ScopedToSubtree", func(t *testing.T) {
		t.Parallel()
		v := seedTree(t)

		got, err := v.Find("/docs", "*.md", api.FindOptions{})

		require.NoError(t, err)
		assert.Equal(t, []string{"/docs/guide.md", "/docs/latest.md"}, got)
	})

	t.Run("MissingRoot", func(t *testing.T) {
		t.Parallel()
		v := testVolume(t)

		_, err := v.Find("/nope", "*", api.FindOptions{})

		assert.Equal(t, api.KindNotFound, api.KindOf(err))
	})

	t.Run("MalformedPattern", func(t *testing.T) {
		t.Parallel()
		v := testVolume(t)

		_, err := v.Find("/", "[", api.FindOptions{})

		assert.Equal(t, api.KindInvalidPattern, api.KindOf(err))
	})
}

func TestVolume_Grep(t *testing.T) {
	t.Parallel()

	t.Run("WholeLineGlob", func(t *testing.T) {
		t.Parallel()
		v := seedTree(t)

		got, err := v.Grep("/", "*TODO*", api.GrepOptions{})

		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, api.GrepMatch{Path: "/notes.md", Line: 1, Text: "TODO buy milk"}, got[0])
	})

	t.Run("CaseFolding", func(t *testing.T) {
		t.Parallel()
		v := seedTree(t)

		got, err := v.Grep("/", "*todo*", api.GrepOptions{NoCase: true})

		require.NoError(t, err)
		require.Len(t, got, 2)
		// file path order first, then ascending line numbers
		assert.Equal(t, "/docs/guide.md", got[0].Path)
		assert.Equal(t, 2, got[0].Line)
		assert.Equal(t, "/notes.md", got[1].Path)
		assert.Equal(t, 1, got[1].Line)
	})

	t.Run("CaseMustMatchWithoutNoCase", func(t *testing.T) {
		t.Parallel()
		v := seedTree(t)

		got, err := v.Grep("/", "*todo*", api.GrepOptions{})

		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "/docs/guide.md", got[0].Path)
	})

	t.Run("LineNumbersAscendWithinFile", func(t *testing.T) {
		t.Parallel()
		v := testVolume(t)
		require.NoError(t, v.Write("/f.txt", "hit one\nmiss\nhit two"))

		got, err := v.Grep("/", "hit*", api.GrepOptions{})

		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, 1, got[0].Line)
		assert.Equal(t, 3, got[1].Line)
	})

	t.Run("WildcardsCrossSlashes", func(t *testing.T) {
		t.Parallel()
		v := testVolume(t)
		require.NoError(t, v.Write("/f.txt", "src/main.go: TODO fix\nclean"))

		got, err := v.Grep("/", "*TODO*", api.GrepOptions{})

		require.NoError(t, err)
		require.Len(t, got, 1, "lines are flat text, not paths")
		assert.Equal(t, "src/main.go: TODO fix", got[0].Text)
	})

	t.Run("LiteralSlashInPattern", func(t *testing.T) {
		t.Parallel()
		v := testVolume(t)
		require.NoError(t, v.Write("/f.txt", "src/main.go: TODO fix"))

		got, err := v.Grep("/", "src/*: TODO*", api.GrepOptions{})

		require.NoError(t, err)
		assert.Len(t, got, 1)
	})

	t.Run("MalformedPattern", func(t *testing.T) {
		t.Parallel()
		v := testVolume(t)

		_, err := v.Grep("/", "[", api.GrepOptions{})

		assert.Equal(t, api.KindInvalidPattern, api.KindOf(err))
	})
}

func TestVolume_Stats(t *testing.T) {
	t.Parallel()

	v := seedTree(t)

	st := v.Stats()

	assert.Equal(t, "test", st.Key)
	assert.NotEmpty(t, st.InstanceID)
	assert.Equal(t, 3, st.Files)
	assert.Equal(t, 3, st.Dirs, "root, /docs and /empty")
	assert.Equal(t, 1, st.Symlinks)
	assert.Equal(t, 7, st.Nodes)

	wantBytes := int64(len("TODO buy milk\ndone") + len("intro\ntodo: write more") + len("plain"))
	assert.Equal(t, wantBytes, st.Bytes)
}
