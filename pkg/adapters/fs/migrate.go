package fs

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"

	"github.com/google/uuid"

	"github.com/aretw0/marginalia/pkg/core"
)

// decodeRecord turns one persisted document record into annotations,
// recognizing the record's shape structurally: a JSON array is the current
// format and passes through unchanged, a JSON object is the legacy
// line-keyed format and gets migrated. Detection happens exactly once, at
// the load boundary; everything past this function only ever sees
// core.Annotation.
func decodeRecord(raw json.RawMessage) ([]core.Annotation, error) {
	trimmed := bytes.TrimLeft(raw, " \t\r\n")
	if len(trimmed) == 0 {
		return nil, nil
	}

	switch trimmed[0] {
	case '[':
		var wire []annotationJSON
		if err := json.Unmarshal(raw, &wire); err != nil {
			return nil, fmt.Errorf("invalid annotation list: %w", err)
		}
		anns := make([]core.Annotation, 0, len(wire))
		for _, w := range wire {
			anns = append(anns, fromWire(w))
		}
		return anns, nil

	case '{':
		var legacy map[string]string
		if err := json.Unmarshal(raw, &legacy); err != nil {
			return nil, fmt.Errorf("invalid legacy record: %w", err)
		}
		return migrateLegacy(legacy), nil

	default:
		return nil, fmt.Errorf("unrecognized record shape")
	}
}

// migrateLegacy converts a legacy record (1-based textual line number to
// comment text) into current-format annotations. Each entry becomes one
// line annotation covering the full width of its line, with a fresh id and
// no creation timestamp, since the legacy format carried neither. The
// conversion is one-directional; there is no downgrade path.
func migrateLegacy(legacy map[string]string) []core.Annotation {
	type entry struct {
		line int
		text string
	}

	entries := make([]entry, 0, len(legacy))
	for key, text := range legacy {
		line, err := strconv.Atoi(key)
		if err != nil || line < 1 {
			// Not a line number; the legacy writer never produced this.
			continue
		}
		entries = append(entries, entry{line: line, text: text})
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].line < entries[j].line
	})

	anns := make([]core.Annotation, 0, len(entries))
	for _, e := range entries {
		anns = append(anns, core.Annotation{
			ID:     uuid.NewString(),
			Text:   e.text,
			Anchor: core.LineAnchor(e.line - 1),
		})
	}
	return anns
}
