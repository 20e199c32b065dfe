package core

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Store handles the business logic for annotations. It owns every Annotation
// value it holds: lookups return copies, and mutations go through Upsert and
// Remove only.
//
// The store is deliberately unlocked. All mutations happen synchronously in
// response to discrete events and there is exactly one logical writer per
// session; callers that need concurrent access must serialize it themselves.
type Store struct {
	gateway     Gateway
	logger      *slog.Logger
	now         func() time.Time
	newID       func() string
	annotations map[string][]Annotation
}

// StoreOption defines a functional option for configuring the Store.
type StoreOption func(*Store)

// WithStoreLogger sets the logger used for load/save reporting.
func WithStoreLogger(logger *slog.Logger) StoreOption {
	return func(s *Store) {
		s.logger = logger
	}
}

// WithClock overrides the timestamp source (useful for deterministic tests).
func WithClock(now func() time.Time) StoreOption {
	return func(s *Store) {
		s.now = now
	}
}

// WithIDSource overrides the annotation id generator.
func WithIDSource(newID func() string) StoreOption {
	return func(s *Store) {
		s.newID = newID
	}
}

// NewStore creates an empty Store backed by the given gateway.
func NewStore(gateway Gateway, opts ...StoreOption) *Store {
	s := &Store{
		gateway:     gateway,
		logger:      slog.Default(),
		now:         time.Now,
		newID:       uuid.NewString,
		annotations: make(map[string][]Annotation),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load replaces the in-memory state with the gateway's last snapshot.
// A missing or malformed snapshot loads as empty; only unexpected I/O
// failures propagate.
func (s *Store) Load(ctx context.Context) error {
	snapshot, err := s.gateway.Load(ctx)
	if err != nil {
		return err
	}
	s.annotations = make(map[string][]Annotation, len(snapshot))
	for document, anns := range snapshot {
		if len(anns) == 0 {
			continue
		}
		s.annotations[document] = append([]Annotation(nil), anns...)
	}
	return nil
}

// Save writes the full in-memory state through the gateway. The in-memory
// state is retained regardless of the outcome.
func (s *Store) Save(ctx context.Context) error {
	snapshot := make(map[string][]Annotation, len(s.annotations))
	for document, anns := range s.annotations {
		snapshot[document] = append([]Annotation(nil), anns...)
	}
	return s.gateway.Save(ctx, snapshot)
}

// Upsert creates or updates an annotation.
//
// With an existingID that resolves, only the text is replaced (plus the
// anchor's captured selection when both sides are span anchors); id and
// creation timestamp are preserved. Otherwise a new annotation is appended
// with a fresh id and the current timestamp.
//
// Empty text is never a valid persisted state; committing empty text against
// a known annotation is the caller's cue to Remove it instead.
func (s *Store) Upsert(document string, anchor Anchor, text string, existingID string) (Annotation, error) {
	if strings.TrimSpace(text) == "" {
		return Annotation{}, ErrEmptyText
	}

	if existingID != "" {
		anns := s.annotations[document]
		for i := range anns {
			if anns[i].ID != existingID {
				continue
			}
			anns[i].Text = text
			if anns[i].Anchor.IsSpan() && anchor.AnchoredText != "" {
				anns[i].Anchor.AnchoredText = anchor.AnchoredText
			}
			return anns[i], nil
		}
		// Unknown id: fall through and create.
	}

	ann := Annotation{
		ID:        s.newID(),
		Text:      text,
		Anchor:    anchor,
		CreatedAt: s.now().UnixMilli(),
	}
	s.annotations[document] = append(s.annotations[document], ann)
	return ann, nil
}

// Remove deletes an annotation by id. When the document's last annotation is
// removed the document entry itself is dropped, never left empty. Returns
// whether a removal occurred.
func (s *Store) Remove(document, id string) bool {
	anns, ok := s.annotations[document]
	if !ok {
		return false
	}
	for i := range anns {
		if anns[i].ID != id {
			continue
		}
		anns = append(anns[:i], anns[i+1:]...)
		if len(anns) == 0 {
			delete(s.annotations, document)
		} else {
			s.annotations[document] = anns
		}
		return true
	}
	return false
}

// FindByAnchor returns the annotation whose anchor occupies exactly the same
// coordinates, if any. This is a coordinate-identity match (create-vs-edit
// decision), not a staleness check.
func (s *Store) FindByAnchor(document string, anchor Anchor) (Annotation, bool) {
	for _, ann := range s.annotations[document] {
		if ann.Anchor.SamePosition(anchor) {
			return ann, true
		}
	}
	return Annotation{}, false
}

// FindByID returns the annotation with the given id, if any.
func (s *Store) FindByID(document, id string) (Annotation, bool) {
	for _, ann := range s.annotations[document] {
		if ann.ID == id {
			return ann, true
		}
	}
	return Annotation{}, false
}

// ListForDocument returns the annotations of one document in raw stored
// order. Consumption order is the sequencer's job, not the store's.
func (s *Store) ListForDocument(document string) []Annotation {
	anns := s.annotations[document]
	if len(anns) == 0 {
		return nil
	}
	return append([]Annotation(nil), anns...)
}

// Documents returns the identities of all annotated documents, sorted.
func (s *Store) Documents() []string {
	documents := make([]string, 0, len(s.annotations))
	for document := range s.annotations {
		documents = append(documents, document)
	}
	sort.Strings(documents)
	return documents
}

// All returns every annotation across documents as entries, documents in
// sorted order and annotations in stored order, suitable as sequencer input.
func (s *Store) All() []Entry {
	var entries []Entry
	for _, document := range s.Documents() {
		for _, ann := range s.annotations[document] {
			entries = append(entries, Entry{Document: document, Annotation: ann})
		}
	}
	return entries
}

// Len returns the total number of annotations across all documents.
func (s *Store) Len() int {
	n := 0
	for _, anns := range s.annotations {
		n += len(anns)
	}
	return n
}
