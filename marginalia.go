package marginalia

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/aretw0/marginalia/pkg/adapters/fs"
	"github.com/aretw0/marginalia/pkg/core"
)

// CommitOutcome describes what a Commit did to the store.
type CommitOutcome string

const (
	OutcomeCreated CommitOutcome = "created"
	OutcomeUpdated CommitOutcome = "updated"
	OutcomeRemoved CommitOutcome = "removed"
	OutcomeNoop    CommitOutcome = "noop"
)

// CommitResult reports the outcome of a commit and, for created/updated
// outcomes, the resulting annotation.
type CommitResult struct {
	Outcome    CommitOutcome
	Annotation core.Annotation
}

// Validity pairs an annotation with its evaluated anchor state.
type Validity struct {
	Annotation core.Annotation
	Valid      bool
}

// Session owns one annotation store for its lifetime and wires it to the
// snapshot gateway and the document reader. A session has exactly one
// logical writer; see core.Store.
type Session struct {
	store  *core.Store
	docs   *fs.Documents
	logger *slog.Logger
}

// New creates a session whose snapshot lives at path.
//
//	session, err := marginalia.New("/home/me/.marginalia/annotations.json",
//		marginalia.WithBackup(true),
//	)
func New(path string, opts ...Option) (*Session, error) {
	if path == "" {
		return nil, fmt.Errorf("snapshot path cannot be empty")
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	logger := o.logger
	if logger == nil {
		logger = slog.Default()
	}

	gateway := o.gateway
	if gateway == nil {
		gateway = fs.NewGateway(fs.Config{
			Path:       path,
			Backup:     o.backup,
			BackupPath: o.backupPath,
			Logger:     logger,
		})
	}

	storeOpts := []core.StoreOption{core.WithStoreLogger(logger)}
	if o.clock != nil {
		storeOpts = append(storeOpts, core.WithClock(o.clock))
	}
	if o.idSource != nil {
		storeOpts = append(storeOpts, core.WithIDSource(o.idSource))
	}

	return &Session{
		store:  core.NewStore(gateway, storeOpts...),
		docs:   fs.NewDocuments(logger),
		logger: logger,
	}, nil
}

// Open loads the last saved snapshot into the session. Legacy line-keyed
// records are migrated on the way in; a missing or unreadable snapshot opens
// an empty session.
func (s *Session) Open(ctx context.Context) error {
	return s.store.Load(ctx)
}

// Store exposes the underlying annotation store.
func (s *Session) Store() *core.Store {
	return s.store
}

// Prefill resolves the create-vs-edit decision for an editing surface: given
// the active document and selection coordinates, it returns the annotation
// already anchored there, if any, so its text can prefill the editor.
func (s *Session) Prefill(document string, anchor core.Anchor) (core.Annotation, bool) {
	return s.store.FindByAnchor(document, anchor)
}

// Commit applies a user's committed text against a location and persists the
// result. This is where empty-text policy lives, not in the store:
//
//   - empty text with a known annotation id removes that annotation;
//   - empty text with no id is a silent no-op (an abandoned compose);
//   - non-empty text creates or updates via the store.
//
// Persistence is fire-and-forget: when the save fails, the in-memory
// mutation is retained, the result still describes it, and the error tells
// the caller to inform the user.
func (s *Session) Commit(ctx context.Context, document string, anchor core.Anchor, text, existingID string) (CommitResult, error) {
	if strings.TrimSpace(text) == "" {
		if existingID == "" {
			return CommitResult{Outcome: OutcomeNoop}, nil
		}
		if !s.store.Remove(document, existingID) {
			return CommitResult{Outcome: OutcomeNoop}, nil
		}
		return CommitResult{Outcome: OutcomeRemoved}, s.persist(ctx)
	}

	ann, err := s.store.Upsert(document, anchor, text, existingID)
	if err != nil {
		return CommitResult{Outcome: OutcomeNoop}, err
	}

	outcome := OutcomeCreated
	if existingID != "" && ann.ID == existingID {
		outcome = OutcomeUpdated
	}
	return CommitResult{Outcome: outcome, Annotation: ann}, s.persist(ctx)
}

// Remove deletes an annotation by id and persists the result.
func (s *Session) Remove(ctx context.Context, document, id string) (bool, error) {
	if !s.store.Remove(document, id) {
		return false, nil
	}
	return true, s.persist(ctx)
}

// List returns one document's annotations in stored order.
func (s *Session) List(document string) []core.Annotation {
	return s.store.ListForDocument(document)
}

// Sequenced returns all annotations across documents in presentation order.
func (s *Session) Sequenced() []core.Entry {
	return core.Sequence(s.store.All())
}

// CaptureAnchor builds a span anchor over the given zero-based coordinates,
// capturing the currently selected text from the live document. Equal start
// and end positions produce a line anchor instead (nothing is selected, so
// there is no text to capture); a selection whose end precedes its start is
// rejected.
func (s *Session) CaptureAnchor(document string, startLine, startColumn, endLine, endColumn int) (core.Anchor, error) {
	if endLine < startLine || (endLine == startLine && endColumn < startColumn) {
		return core.Anchor{}, fmt.Errorf("selection is reversed: end position precedes start for %s", document)
	}
	if startLine == endLine && startColumn == endColumn {
		return core.LineAnchor(startLine), nil
	}

	anchor := core.Anchor{
		StartLine:   startLine,
		StartColumn: startColumn,
		EndLine:     endLine,
		EndColumn:   endColumn,
	}

	doc, err := s.docs.Get(document)
	if err != nil {
		return core.Anchor{}, err
	}
	selected, ok := doc.Slice(anchor)
	if !ok {
		return core.Anchor{}, fmt.Errorf("selection out of bounds for %s", document)
	}
	anchor.AnchoredText = selected
	return anchor, nil
}

// Check evaluates every annotation of one document against its live content.
// A document that cannot be read reports all of its annotations as invalid,
// matching the evaluator's out-of-bounds policy.
func (s *Session) Check(document string) []Validity {
	anns := s.store.ListForDocument(document)
	if len(anns) == 0 {
		return nil
	}

	results := make([]Validity, 0, len(anns))
	doc, err := s.docs.Get(document)
	if err != nil {
		s.logger.Debug("document unreadable, marking annotations stale", "document", document, "error", err)
		for _, ann := range anns {
			results = append(results, Validity{Annotation: ann})
		}
		return results
	}

	for _, ann := range anns {
		results = append(results, Validity{Annotation: ann, Valid: core.IsValid(ann, doc)})
	}
	return results
}

// CheckAll evaluates every annotated document whose path matches the
// doublestar pattern (empty pattern matches all). Keys are document
// identities.
func (s *Session) CheckAll(pattern string) (map[string][]Validity, error) {
	results := make(map[string][]Validity)
	for _, document := range s.store.Documents() {
		if pattern != "" {
			ok, err := doublestar.Match(pattern, filepath.ToSlash(document))
			if err != nil {
				return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
			}
			if !ok {
				continue
			}
		}
		results[document] = s.Check(document)
	}
	return results, nil
}

// Watch starts a validity watcher over annotated documents matching pattern
// and returns its event channel. The watcher stops when ctx is cancelled.
func (s *Session) Watch(ctx context.Context, pattern string) (<-chan core.Event, error) {
	watcher := fs.NewWatcher(s.store, s.docs, pattern, s.logger)
	if err := watcher.Start(ctx); err != nil {
		return nil, err
	}
	return watcher.Events(), nil
}

func (s *Session) persist(ctx context.Context) error {
	if err := s.store.Save(ctx); err != nil {
		return fmt.Errorf("annotations kept in memory but not saved: %w", err)
	}
	return nil
}
