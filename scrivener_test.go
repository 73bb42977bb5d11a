package scrivener

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenWorkspace(t *testing.T) {
	t.Run("create new workspace", func(t *testing.T) {
		tmpDir := filepath.Join(t.TempDir(), "test_workspace")
		w, err := OpenWorkspace(tmpDir)
		require.NoError(t, err)
		require.NotNil(t, w)
		defer w.Close()

		assert.NotNil(t, w.IndexCache())
		assert.NotNil(t, w.QueryCache())
		assert.NotNil(t, w.ArtifactStore())
		assert.NotNil(t, w.backend)
		assert.NotNil(t, w.provider)
	})

	t.Run("error with invalid path", func(t *testing.T) {
		tmpFile := filepath.Join(t.TempDir(), "not_a_dir")
		require.NoError(t, os.WriteFile(tmpFile, []byte("test"), 0644))

		w, err := OpenWorkspace(tmpFile)
		assert.Error(t, err)
		assert.Nil(t, w)
	})
}

func TestWorkspace_Close(t *testing.T) {
	w, err := OpenWorkspace(t.TempDir())
	require.NoError(t, err)
	require.NotNil(t, w)

	assert.NoError(t, w.Close())
}

func TestWorkspace_NewPipeline(t *testing.T) {
	w, err := OpenWorkspace(t.TempDir())
	require.NoError(t, err)
	defer w.Close()

	p, err := w.NewPipeline()
	require.NoError(t, err)
	require.NotNil(t, p)
}
