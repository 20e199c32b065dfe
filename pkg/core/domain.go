// Annotation is the central entity of the domain.
package core

import "fmt"

// RestOfLineColumn is the sentinel end column used by anchors that cover a
// whole line (notably anchors produced by legacy migration). It exceeds any
// realistic line length; renderers clamp it to the actual line length and
// must never persist the clamped value back.
const RestOfLineColumn = 1 << 20

// Anchor pins an annotation to a location inside one document.
// Coordinates are zero-based; the end position is exclusive.
type Anchor struct {
	StartLine   int
	StartColumn int
	EndLine     int
	EndColumn   int

	// AnchoredText is the text captured when the annotation was created.
	// Only span anchors carry it; a line anchor leaves it empty and is
	// valid as long as its line still exists.
	AnchoredText string
}

// IsSpan reports whether the anchor captured a selection at creation time.
func (a Anchor) IsSpan() bool {
	return a.AnchoredText != ""
}

// SamePosition reports coordinate identity with another anchor.
// This decides "am I re-opening the annotation the user just selected";
// it says nothing about staleness.
func (a Anchor) SamePosition(b Anchor) bool {
	return a.StartLine == b.StartLine &&
		a.StartColumn == b.StartColumn &&
		a.EndLine == b.EndLine &&
		a.EndColumn == b.EndColumn
}

// LineAnchor builds an anchor covering the whole of one zero-based line.
func LineAnchor(line int) Anchor {
	return Anchor{
		StartLine: line,
		EndLine:   line,
		EndColumn: RestOfLineColumn,
	}
}

// Annotation is free-form text attached to an anchored location.
// The file it annotates is never modified.
type Annotation struct {
	ID     string
	Text   string
	Anchor Anchor

	// CreatedAt is epoch milliseconds. Zero means unknown: annotations
	// migrated from the legacy line-keyed format carried no timestamp.
	CreatedAt int64
}

// Timed reports whether the annotation carries a creation timestamp.
func (a Annotation) Timed() bool {
	return a.CreatedAt > 0
}

// Entry pairs an annotation with the document it belongs to. The sequencer
// consumes and produces entries so ordering can cross document boundaries.
type Entry struct {
	Document   string
	Annotation Annotation
}

// EventType represents a validity transition observed by a watcher.
type EventType string

const (
	// EventStale fires when an annotation's anchor stops matching live content.
	EventStale EventType = "STALE"
	// EventFresh fires when an annotation's anchor matches again.
	EventFresh EventType = "FRESH"
	// EventMissing fires when the annotated document disappears.
	EventMissing EventType = "MISSING"
)

// Event describes a validity change for one annotation.
type Event struct {
	Type         EventType
	Document     string
	AnnotationID string
	Timestamp    int64 // Unix timestamp
}

// String implements lifecycle.Event.
func (e Event) String() string {
	return fmt.Sprintf("%s %s (%s)", e.Type, e.Document, e.AnnotationID)
}
