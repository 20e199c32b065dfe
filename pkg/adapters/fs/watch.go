package fs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/aretw0/lifecycle"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"

	"github.com/aretw0/marginalia/pkg/core"
)

// Watcher observes annotated files and emits a core.Event whenever an
// annotation's validity changes: an edit makes an anchor stale, a revert
// makes it fresh again, a deleted file makes it missing.
//
// The watcher never mutates the store. It snapshots the annotated document
// set when started; annotations added afterwards are picked up by the next
// watch session.
type Watcher struct {
	store    *core.Store
	docs     *Documents
	pattern  string // doublestar glob over document paths; empty matches all
	logger   *slog.Logger
	events   chan core.Event
	debounce *debouncer

	tracked map[string][]core.Annotation

	mu    sync.Mutex
	state map[string]core.EventType // document + "\x00" + annotation id
}

// NewWatcher creates a watcher over the store's annotated documents whose
// paths match pattern.
func NewWatcher(store *core.Store, docs *Documents, pattern string, logger *slog.Logger) *Watcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Watcher{
		store:    store,
		docs:     docs,
		pattern:  pattern,
		logger:   logger,
		events:   make(chan core.Event, 16),
		debounce: newDebouncer(50 * time.Millisecond),
		tracked:  make(map[string][]core.Annotation),
		state:    make(map[string]core.EventType),
	}
}

// Events returns the channel validity transitions are delivered on. It is
// closed when the watcher stops.
func (w *Watcher) Events() <-chan core.Event {
	return w.events
}

// Start seeds the validity baseline and launches the event loop. It returns
// once the loop is running; the loop stops when ctx is cancelled.
func (w *Watcher) Start(ctx context.Context) error {
	for _, document := range w.store.Documents() {
		if !w.matches(document) {
			continue
		}
		w.tracked[document] = w.store.ListForDocument(document)
	}
	if len(w.tracked) == 0 {
		return fmt.Errorf("no annotated documents match pattern %q", w.pattern)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}

	// Watch parent directories: editors replace files via rename, which
	// silently drops a watch on the file itself.
	dirs := make(map[string]bool)
	for document := range w.tracked {
		dirs[filepath.Dir(document)] = true
	}
	for dir := range dirs {
		if err := fsw.Add(dir); err != nil {
			w.logger.Warn("cannot watch directory", "dir", dir, "error", err)
		}
	}

	// Baseline pass, without emitting events.
	for document := range w.tracked {
		w.evaluate(ctx, document, false)
	}

	lifecycle.Go(ctx, func(ctx context.Context) error {
		defer close(w.events)
		defer fsw.Close()
		defer w.debounce.stop()
		return w.run(ctx, fsw)
	}, lifecycle.WithErrorHandler(func(err error) {
		w.logger.Error("watcher failed", "error", err)
	}))

	return nil
}

func (w *Watcher) run(ctx context.Context, fsw *fsnotify.Watcher) error {
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			document := filepath.Clean(event.Name)
			if _, tracked := w.tracked[document]; !tracked {
				continue
			}
			w.logger.Debug("event received", "name", event.Name, "op", event.Op)
			w.debounce.add(document, func() {
				w.docs.Invalidate(document)
				w.evaluate(ctx, document, true)
			})

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("fsnotify error", "error", err)
		}
	}
}

// evaluate recomputes validity for every annotation of one document and,
// when emit is set, publishes the transitions.
func (w *Watcher) evaluate(ctx context.Context, document string, emit bool) {
	anns := w.tracked[document]

	doc, err := w.docs.Get(document)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			w.logger.Warn("cannot read document", "document", document, "error", err)
		}
		for _, ann := range anns {
			w.transition(ctx, core.EventMissing, document, ann.ID, emit)
		}
		return
	}

	for _, ann := range anns {
		eventType := core.EventStale
		if core.IsValid(ann, doc) {
			eventType = core.EventFresh
		}
		w.transition(ctx, eventType, document, ann.ID, emit)
	}
}

func (w *Watcher) transition(ctx context.Context, eventType core.EventType, document, id string, emit bool) {
	key := document + "\x00" + id
	w.mu.Lock()
	unchanged := w.state[key] == eventType
	w.state[key] = eventType
	w.mu.Unlock()
	if unchanged {
		return
	}
	if !emit {
		return
	}

	select {
	case w.events <- core.Event{
		Type:         eventType,
		Document:     document,
		AnnotationID: id,
		Timestamp:    time.Now().Unix(),
	}:
	case <-ctx.Done():
	}
}

func (w *Watcher) matches(document string) bool {
	if w.pattern == "" {
		return true
	}
	ok, err := doublestar.Match(w.pattern, filepath.ToSlash(document))
	if err != nil {
		w.logger.Warn("invalid watch pattern", "pattern", w.pattern, "error", err)
		return false
	}
	return ok
}
