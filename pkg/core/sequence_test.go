package core_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/marginalia/pkg/core"
)

func timedEntry(document, id string, createdAt int64) core.Entry {
	return core.Entry{
		Document:   document,
		Annotation: core.Annotation{ID: id, Text: "note", CreatedAt: createdAt, Anchor: core.LineAnchor(0)},
	}
}

func untimedEntry(document, id string) core.Entry {
	return timedEntry(document, id, 0)
}

func ids(entries []core.Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Annotation.ID
	}
	return out
}

func TestSequence_Empty(t *testing.T) {
	assert.Empty(t, core.Sequence(nil))
}

func TestSequence_AllTimedIsPureRecency(t *testing.T) {
	entries := []core.Entry{
		timedEntry("/a.go", "old", 100),
		timedEntry("/b.go", "newest", 300),
		timedEntry("/a.go", "mid", 200),
	}

	got := core.Sequence(entries)
	assert.Equal(t, []string{"newest", "mid", "old"}, ids(got))
}

func TestSequence_TimedTiesKeepOriginalOrder(t *testing.T) {
	entries := []core.Entry{
		timedEntry("/a.go", "first", 100),
		timedEntry("/b.go", "second", 100),
	}

	got := core.Sequence(entries)
	assert.Equal(t, []string{"first", "second"}, ids(got))
}

func TestSequence_TimedAlwaysSurfacesFirst(t *testing.T) {
	entries := []core.Entry{
		untimedEntry("/a.go", "u1"),
		untimedEntry("/b.go", "u2"),
		timedEntry("/c.go", "t1", 500),
		untimedEntry("/a.go", "u3"),
	}

	got := core.Sequence(entries)
	require.Len(t, got, 4)
	assert.Equal(t, "t1", got[0].Annotation.ID)
}

func TestSequence_Deterministic(t *testing.T) {
	entries := []core.Entry{
		untimedEntry("/a.go", "u1"),
		untimedEntry("/a.go", "u2"),
		untimedEntry("/b.go", "u3"),
		untimedEntry("/c.go", "u4"),
		untimedEntry("/c.go", "u5"),
	}

	first := core.Sequence(append([]core.Entry(nil), entries...))
	second := core.Sequence(append([]core.Entry(nil), entries...))
	assert.Equal(t, ids(first), ids(second), "same input must produce the same order")
	assert.ElementsMatch(t, ids(entries), ids(first))
}

func TestSequence_InterleavesTimedAndUntimed(t *testing.T) {
	entries := []core.Entry{
		timedEntry("/t.go", "t1", 300),
		timedEntry("/t.go", "t2", 200),
		timedEntry("/t.go", "t3", 100),
		untimedEntry("/u.go", "u1"),
		untimedEntry("/u.go", "u2"),
		untimedEntry("/u.go", "u3"),
		untimedEntry("/u.go", "u4"),
	}

	got := core.Sequence(entries)
	require.Len(t, got, 7)

	// One timed entry, then up to two untimed, repeating.
	assert.Equal(t, "t1", got[0].Annotation.ID)
	assert.False(t, got[1].Annotation.Timed())
	assert.False(t, got[2].Annotation.Timed())
	assert.Equal(t, "t2", got[3].Annotation.ID)
	assert.False(t, got[4].Annotation.Timed())
	assert.False(t, got[5].Annotation.Timed())
	assert.Equal(t, "t3", got[6].Annotation.ID)
}
