package storage

import (
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var namePattern = regexp.MustCompile(`^[0-9a-f]{32}_photo\.png$`)

func TestNewName_Format(t *testing.T) {
	name := NewName("photo.png")
	assert.Regexp(t, namePattern, name)
}

func TestNewName_Unique(t *testing.T) {
	a := NewName("photo.png")
	b := NewName("photo.png")
	assert.NotEqual(t, a, b)
}

func TestStoreAndURIs(t *testing.T) {
	root := t.TempDir()
	s := NewFileSystem(root)
	name := "abc123_photo.png"

	require.NoError(t, s.StoreOriginal(name, []byte("original bytes")))
	require.NoError(t, s.StoreThumbnail(name, []byte("thumb bytes")))

	orig, err := os.ReadFile(filepath.Join(root, "img", name))
	require.NoError(t, err)
	assert.Equal(t, []byte("original bytes"), orig)

	thumb, err := os.ReadFile(filepath.Join(root, "img", "thumbnail", name))
	require.NoError(t, err)
	assert.Equal(t, []byte("thumb bytes"), thumb)

	assert.Equal(t, "static/img/"+name, s.OriginalURI(name))
	assert.Equal(t, "static/img/thumbnail/"+name, s.ThumbnailURI(name))
}

func TestStoreCreatesDirectories(t *testing.T) {
	root := t.TempDir()
	s := NewFileSystem(filepath.Join(root, "missing", "static"))

	require.NoError(t, s.StoreThumbnail("x.png", []byte("x")))

	info, err := os.Stat(filepath.Join(root, "missing", "static", "img", "thumbnail"))
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestStoreLeavesNoTempFiles(t *testing.T) {
	root := t.TempDir()
	s := NewFileSystem(root)

	require.NoError(t, s.StoreOriginal("a.png", []byte("a")))

	entries, err := os.ReadDir(filepath.Join(root, "img"))
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, e.Name())
		}
	}
	assert.Equal(t, []string{"a.png"}, names)
}

func TestRemove(t *testing.T) {
	root := t.TempDir()
	s := NewFileSystem(root)
	name := "gone.png"

	require.NoError(t, s.StoreOriginal(name, []byte("o")))
	require.NoError(t, s.StoreThumbnail(name, []byte("t")))

	require.NoError(t, s.Remove(name))

	_, err := os.Stat(filepath.Join(root, "img", name))
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(root, "img", "thumbnail", name))
	assert.True(t, os.IsNotExist(err))
}

func TestRemove_Idempotent(t *testing.T) {
	s := NewFileSystem(t.TempDir())

	// Nothing stored; missing files must not be an error.
	assert.NoError(t, s.Remove("never-existed.png"))
}

func TestRemove_PartialFiles(t *testing.T) {
	root := t.TempDir()
	s := NewFileSystem(root)
	name := "half.png"

	// Only the thumbnail exists.
	require.NoError(t, s.StoreThumbnail(name, []byte("t")))

	require.NoError(t, s.Remove(name))
	_, err := os.Stat(filepath.Join(root, "img", "thumbnail", name))
	assert.True(t, os.IsNotExist(err))
}
