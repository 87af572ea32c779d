package example

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileCache(t *testing.T) {
	cache := NewFileCache(filepath.Join(t.TempDir(), "examples"))

	_, found, err := cache.Load("breeze-1-")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, cache.Store("breeze-1-", []string{"A breeze."}))
	require.NoError(t, cache.Store("breeze-1-sailing / wind", []string{"A sailing breeze."}))

	got, found, err := cache.Load("breeze-1-")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []string{"A breeze."}, got)

	got, found, err = cache.Load("breeze-1-sailing / wind")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []string{"A sailing breeze."}, got)
}

func TestFileCache_Load_Corrupt(t *testing.T) {
	dir := t.TempDir()
	cache := NewFileCache(dir)
	require.NoError(t, os.WriteFile(cache.filePath("breeze-1-"), []byte("not json"), 0o644))

	_, found, err := cache.Load("breeze-1-")
	assert.ErrorContains(t, err, "json.Unmarshal")
	assert.False(t, found)
}
