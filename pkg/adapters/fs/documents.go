package fs

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/aretw0/marginalia/pkg/core"
)

// Documents reads annotated files from disk and caches the parsed
// line views. Validity checks touch the same file once per annotation, so a
// short TTL cache keyed by path and validated against mtime saves the
// repeated reads without ever serving a stale parse.
type Documents struct {
	cache  *gocache.Cache
	logger *slog.Logger
}

type cachedDocument struct {
	doc     core.Document
	modTime time.Time
}

// NewDocuments creates a document provider with a short-lived cache.
func NewDocuments(logger *slog.Logger) *Documents {
	if logger == nil {
		logger = slog.Default()
	}
	return &Documents{
		cache:  gocache.New(30*time.Second, time.Minute),
		logger: logger,
	}
}

// Get returns the line view of the file at path, from cache when the file
// has not changed since it was parsed.
func (d *Documents) Get(path string) (core.Document, error) {
	info, err := os.Stat(path)
	if err != nil {
		return core.Document{}, fmt.Errorf("failed to stat document: %w", err)
	}

	if entry, ok := d.cache.Get(path); ok {
		cached := entry.(cachedDocument)
		if cached.modTime.Equal(info.ModTime()) {
			return cached.doc, nil
		}
		d.logger.Debug("document changed on disk, re-reading", "path", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return core.Document{}, fmt.Errorf("failed to read document: %w", err)
	}

	doc := core.NewDocument(string(data))
	d.cache.Set(path, cachedDocument{doc: doc, modTime: info.ModTime()}, gocache.DefaultExpiration)
	return doc, nil
}

// Invalidate drops the cached view of one path.
func (d *Documents) Invalidate(path string) {
	d.cache.Delete(path)
}
