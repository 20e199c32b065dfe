package core

import "strings"

// Document is a line-indexed view of one document's content, used for
// staleness evaluation. It is immutable once built.
type Document struct {
	lines []string
}

// NewDocument splits raw content into lines. CRLF endings are tolerated.
func NewDocument(content string) Document {
	lines := strings.Split(content, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return Document{lines: lines}
}

// LineCount returns the number of lines in the document.
func (d Document) LineCount() int {
	return len(d.lines)
}

// Line returns the zero-based line, if it exists.
func (d Document) Line(i int) (string, bool) {
	if i < 0 || i >= len(d.lines) {
		return "", false
	}
	return d.lines[i], true
}

// Slice extracts the text covered by the anchor. Columns beyond the actual
// line length are clamped (this is how the RestOfLineColumn sentinel is
// rendered); out-of-range lines report failure instead.
func (d Document) Slice(a Anchor) (string, bool) {
	if a.StartLine < 0 || a.EndLine < a.StartLine || a.EndLine >= len(d.lines) {
		return "", false
	}

	if a.StartLine == a.EndLine {
		line := []rune(d.lines[a.StartLine])
		start, end := clampColumns(a.StartColumn, a.EndColumn, len(line))
		return string(line[start:end]), true
	}

	parts := make([]string, 0, a.EndLine-a.StartLine+1)
	for i := a.StartLine; i <= a.EndLine; i++ {
		line := []rune(d.lines[i])
		switch i {
		case a.StartLine:
			start, _ := clampColumns(a.StartColumn, a.StartColumn, len(line))
			parts = append(parts, string(line[start:]))
		case a.EndLine:
			_, end := clampColumns(0, a.EndColumn, len(line))
			parts = append(parts, string(line[:end]))
		default:
			parts = append(parts, string(line))
		}
	}
	return strings.Join(parts, "\n"), true
}

func clampColumns(start, end, length int) (int, int) {
	if start < 0 {
		start = 0
	}
	if start > length {
		start = length
	}
	if end < start {
		end = start
	}
	if end > length {
		end = length
	}
	return start, end
}

// IsValid reports whether the annotation's anchor still matches the live
// document content. It never panics; any anchor the document can no longer
// satisfy evaluates to false.
//
// Line anchors tolerate in-line edits and only require their line to exist.
// Span anchors must survive reformatting but invalidate on content change,
// so the captured and the live text are compared after whitespace
// normalization.
func IsValid(ann Annotation, doc Document) bool {
	anchor := ann.Anchor

	if anchor.EndLine >= doc.LineCount() || anchor.StartLine < 0 {
		return false
	}

	if !anchor.IsSpan() {
		return anchor.StartLine < doc.LineCount()
	}

	current, ok := doc.Slice(anchor)
	if !ok {
		return false
	}
	return normalizeWhitespace(current) == normalizeWhitespace(anchor.AnchoredText)
}

// normalizeWhitespace trims the ends and collapses every internal whitespace
// run (including newlines) to a single space.
func normalizeWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
