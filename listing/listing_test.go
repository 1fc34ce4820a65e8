package listing

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// statTable builds a StatFunc from name->kind; names missing from kinds fail
func statTable(kinds map[string]Kind, calls map[string]int) StatFunc {
	return func(name string) (Kind, error) {
		if calls != nil {
			calls[name]++
		}
		k, ok := kinds[name]
		if !ok {
			return KindFile, errors.New("stat " + name + ": no such file or directory")
		}
		return k, nil
	}
}

func TestClassify(t *testing.T) {
	t.Parallel()

	stat := statTable(map[string]Kind{"docs": KindDirectory, "a.txt": KindFile}, nil)

	t.Run("directory", func(t *testing.T) {
		t.Parallel()
		c := Classify("docs", stat)
		require.IsType(t, Classified{}, c)
		assert.Equal(t, Entry{Name: "docs", Kind: KindDirectory}, c.(Classified).Entry)
	})
	t.Run("file", func(t *testing.T) {
		t.Parallel()
		c := Classify("a.txt", stat)
		require.IsType(t, Classified{}, c)
		assert.Equal(t, KindFile, c.(Classified).Kind)
	})
	t.Run("unreadable", func(t *testing.T) {
		t.Parallel()
		c := Classify("gone", stat)
		require.IsType(t, Unreadable{}, c)
		u := c.(Unreadable)
		assert.Equal(t, "gone", u.Name)
		assert.Error(t, u.Err)
	})
}

func TestBuild_PartitionsAndSortsByteOrder(t *testing.T) {
	t.Parallel()

	stat := statTable(map[string]Kind{
		"a":     KindDirectory,
		"B":     KindDirectory,
		"c.txt": KindFile,
		"A.md":  KindFile,
		"_x":    KindFile,
	}, nil)

	l := Build([]string{"c.txt", "a", "_x", "B", "A.md"}, stat)

	assert.Equal(t, []Entry{
		{Name: "B", Kind: KindDirectory},
		{Name: "a", Kind: KindDirectory},
	}, l.Dirs, "uppercase sorts before lowercase")
	assert.Equal(t, []Entry{
		{Name: "A.md", Kind: KindFile},
		{Name: "_x", Kind: KindFile},
		{Name: "c.txt", Kind: KindFile},
	}, l.Files)
	assert.Equal(t, 5, l.Len())
}

func TestBuild_DropsUnreadableEntries(t *testing.T) {
	t.Parallel()

	calls := map[string]int{}
	stat := statTable(map[string]Kind{"keep": KindDirectory, "also.txt": KindFile}, calls)

	l := Build([]string{"keep", "broken-link", "also.txt"}, stat)

	assert.Equal(t, 2, l.Len())
	for _, e := range append(l.Dirs, l.Files...) {
		assert.NotEqual(t, "broken-link", e.Name)
	}
	assert.Equal(t, map[string]int{"keep": 1, "broken-link": 1, "also.txt": 1}, calls,
		"stat must be called exactly once per entry")
}

func TestBuild_Empty(t *testing.T) {
	t.Parallel()

	l := Build(nil, statTable(nil, nil))

	assert.Empty(t, l.Dirs)
	assert.Empty(t, l.Files)
	assert.Zero(t, l.Len())
}

func TestKind_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "directory", KindDirectory.String())
	assert.Equal(t, "file", KindFile.String())
}
