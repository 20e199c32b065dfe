package fs

import "github.com/aretw0/marginalia/pkg/core"

// annotationJSON is the persisted shape of one annotation. Field names are
// the wire contract and must not drift; older snapshots in this exact shape
// pass migration untouched.
type annotationJSON struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Timestamp int64     `json:"timestamp,omitempty"`
	Range     rangeJSON `json:"range"`
}

type rangeJSON struct {
	StartLine      int    `json:"startLine"`
	StartCharacter int    `json:"startCharacter"`
	EndLine        int    `json:"endLine"`
	EndCharacter   int    `json:"endCharacter"`
	SelectedText   string `json:"selectedText,omitempty"`
}

func toWire(ann core.Annotation) annotationJSON {
	return annotationJSON{
		ID:        ann.ID,
		Text:      ann.Text,
		Timestamp: ann.CreatedAt,
		Range: rangeJSON{
			StartLine:      ann.Anchor.StartLine,
			StartCharacter: ann.Anchor.StartColumn,
			EndLine:        ann.Anchor.EndLine,
			EndCharacter:   ann.Anchor.EndColumn,
			SelectedText:   ann.Anchor.AnchoredText,
		},
	}
}

func fromWire(w annotationJSON) core.Annotation {
	return core.Annotation{
		ID:        w.ID,
		Text:      w.Text,
		CreatedAt: w.Timestamp,
		Anchor: core.Anchor{
			StartLine:    w.Range.StartLine,
			StartColumn:  w.Range.StartCharacter,
			EndLine:      w.Range.EndLine,
			EndColumn:    w.Range.EndCharacter,
			AnchoredText: w.Range.SelectedText,
		},
	}
}
