package fs

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocuments_ReadAndCache(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "main.go")
	require.NoError(t, os.WriteFile(path, []byte("package main\n"), 0644))

	docs := NewDocuments(slog.Default())

	doc, err := docs.Get(path)
	require.NoError(t, err)
	assert.Equal(t, 2, doc.LineCount()) // trailing newline yields an empty last line

	line, ok := doc.Line(0)
	require.True(t, ok)
	assert.Equal(t, "package main", line)
}

func TestDocuments_InvalidateForcesReread(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.txt")
	require.NoError(t, os.WriteFile(path, []byte("before"), 0644))

	docs := NewDocuments(slog.Default())
	_, err := docs.Get(path)
	require.NoError(t, err)

	// Rewrite with identical mtime resolution concerns sidestepped by
	// explicitly invalidating.
	require.NoError(t, os.WriteFile(path, []byte("after"), 0644))
	docs.Invalidate(path)

	doc, err := docs.Get(path)
	require.NoError(t, err)
	line, _ := doc.Line(0)
	assert.Equal(t, "after", line)
}

func TestDocuments_DetectsMtimeChange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.txt")
	require.NoError(t, os.WriteFile(path, []byte("before"), 0644))

	docs := NewDocuments(slog.Default())
	_, err := docs.Get(path)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte("after"), 0644))
	future := time.Now().Add(2 * time.Second)
	require.NoError(t, os.Chtimes(path, future, future))

	doc, err := docs.Get(path)
	require.NoError(t, err)
	line, _ := doc.Line(0)
	assert.Equal(t, "after", line)
}

func TestDocuments_MissingFile(t *testing.T) {
	docs := NewDocuments(slog.Default())
	_, err := docs.Get(filepath.Join(t.TempDir(), "missing.go"))
	assert.Error(t, err)
}
