package fs

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/marginalia/pkg/core"
)

func waitForEvent(t *testing.T, events <-chan core.Event, want core.EventType) core.Event {
	t.Helper()
	deadline := time.After(5 * time.Second)
	for {
		select {
		case e, ok := <-events:
			require.True(t, ok, "event channel closed while waiting for %s", want)
			if e.Type == want {
				return e
			}
		case <-deadline:
			t.Fatalf("timed out waiting for %s event", want)
		}
	}
}

// A span annotation goes stale when its anchored text is rewritten, fresh
// again when the content is restored, and missing when the file disappears.
func TestWatcher_StaleFreshMissingCycle(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "main.go")
	original := "package main\n\nfunc main() {\n\tfoo()\n}\n"
	require.NoError(t, os.WriteFile(source, []byte(original), 0644))

	store := core.NewStore(testGateway(t, Config{}))
	anchor := core.Anchor{
		StartLine: 3, StartColumn: 1, EndLine: 3, EndColumn: 6, AnchoredText: "foo()",
	}
	ann, err := store.Upsert(source, anchor, "hot path", "")
	require.NoError(t, err)

	watcher := NewWatcher(store, NewDocuments(slog.Default()), "", slog.Default())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, watcher.Start(ctx))

	// Rewriting the anchored text makes the annotation stale.
	require.NoError(t, os.WriteFile(source, []byte("package main\n\nfunc main() {\n\tbar()\n}\n"), 0644))
	event := waitForEvent(t, watcher.Events(), core.EventStale)
	assert.Equal(t, source, event.Document)
	assert.Equal(t, ann.ID, event.AnnotationID)

	// Restoring the original content makes it fresh again.
	require.NoError(t, os.WriteFile(source, []byte(original), 0644))
	waitForEvent(t, watcher.Events(), core.EventFresh)

	// Deleting the file reports the annotation as missing.
	require.NoError(t, os.Remove(source))
	event = waitForEvent(t, watcher.Events(), core.EventMissing)
	assert.Equal(t, ann.ID, event.AnnotationID)
}

// An already-stale annotation produces no event on start: the baseline pass
// records validity silently and only later transitions are published.
func TestWatcher_BaselineDoesNotEmit(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "main.go")
	require.NoError(t, os.WriteFile(source, []byte("nothing anchored here\n"), 0644))

	store := core.NewStore(testGateway(t, Config{}))
	anchor := core.Anchor{
		StartLine: 0, StartColumn: 0, EndLine: 0, EndColumn: 5, AnchoredText: "gone()",
	}
	_, err := store.Upsert(source, anchor, "already stale", "")
	require.NoError(t, err)

	watcher := NewWatcher(store, NewDocuments(slog.Default()), "", slog.Default())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, watcher.Start(ctx))

	select {
	case e := <-watcher.Events():
		t.Fatalf("unexpected event after start: %s", e)
	case <-time.After(300 * time.Millisecond):
	}
}

func TestWatcher_PatternFiltersDocuments(t *testing.T) {
	dir := t.TempDir()
	goFile := filepath.Join(dir, "a.go")
	tsFile := filepath.Join(dir, "b.ts")
	require.NoError(t, os.WriteFile(goFile, []byte("alpha\n"), 0644))
	require.NoError(t, os.WriteFile(tsFile, []byte("beta\n"), 0644))

	store := core.NewStore(testGateway(t, Config{}))
	for _, f := range []string{goFile, tsFile} {
		_, err := store.Upsert(f, core.LineAnchor(0), "note", "")
		require.NoError(t, err)
	}

	watcher := NewWatcher(store, NewDocuments(slog.Default()), "**/*.go", slog.Default())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, watcher.Start(ctx))

	// The .ts file is outside the pattern; deleting it must stay silent.
	require.NoError(t, os.Remove(tsFile))
	require.NoError(t, os.Remove(goFile))

	event := waitForEvent(t, watcher.Events(), core.EventMissing)
	assert.Equal(t, goFile, event.Document)
}

func TestWatcher_StartRequiresMatchingDocuments(t *testing.T) {
	store := core.NewStore(testGateway(t, Config{}))
	watcher := NewWatcher(store, NewDocuments(slog.Default()), "**/*.go", slog.Default())

	err := watcher.Start(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no annotated documents")
}

func TestWatcher_CancelClosesEventChannel(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "a.go")
	require.NoError(t, os.WriteFile(source, []byte("x\n"), 0644))

	store := core.NewStore(testGateway(t, Config{}))
	_, err := store.Upsert(source, core.LineAnchor(0), "note", "")
	require.NoError(t, err)

	watcher := NewWatcher(store, NewDocuments(slog.Default()), "", slog.Default())
	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, watcher.Start(ctx))

	cancel()

	assert.Eventually(t, func() bool {
		select {
		case _, ok := <-watcher.Events():
			return !ok
		default:
			return false
		}
	}, 5*time.Second, 10*time.Millisecond, "event channel should close on cancel")
}
