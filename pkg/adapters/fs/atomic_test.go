package fs

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteFileAtomic(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "snapshot.json")

	require.NoError(t, writeFileAtomic(target, []byte("one"), 0644))
	require.NoError(t, writeFileAtomic(target, []byte("two"), 0644))

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "two", string(data))

	// No temp files left behind.
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	for _, e := range entries {
		assert.False(t, strings.HasPrefix(e.Name(), tempFilePrefix), "leftover temp file %s", e.Name())
	}
}

func TestWriteFileAtomic_MissingDirectoryFails(t *testing.T) {
	err := writeFileAtomic(filepath.Join(t.TempDir(), "nope", "snapshot.json"), []byte("x"), 0644)
	assert.Error(t, err)
}
