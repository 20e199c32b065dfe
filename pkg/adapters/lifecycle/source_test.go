package lifecycle

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/marginalia/pkg/core"
)

func TestSource_BridgesEvents(t *testing.T) {
	events := make(chan core.Event, 1)
	source := NewSource(events)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, source.Start(ctx))

	sent := core.Event{Type: core.EventStale, Document: "/a.go", AnnotationID: "a1"}
	events <- sent

	select {
	case got := <-source.Events():
		assert.Equal(t, sent.String(), got.String())
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for bridged event")
	}
}

func TestSource_FiltersByEventType(t *testing.T) {
	events := make(chan core.Event, 3)
	source := NewSource(events, core.EventMissing)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, source.Start(ctx))

	events <- core.Event{Type: core.EventStale, Document: "/a.go", AnnotationID: "a1"}
	events <- core.Event{Type: core.EventFresh, Document: "/a.go", AnnotationID: "a1"}
	missing := core.Event{Type: core.EventMissing, Document: "/a.go", AnnotationID: "a1"}
	events <- missing

	select {
	case got := <-source.Events():
		assert.Equal(t, missing.String(), got.String(), "stale and fresh should be dropped")
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for filtered event")
	}
}

func TestSource_ClosesWhenInputCloses(t *testing.T) {
	events := make(chan core.Event)
	source := NewSource(events)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, source.Start(ctx))

	close(events)

	select {
	case _, ok := <-source.Events():
		assert.False(t, ok, "output channel should close with the input")
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for channel close")
	}
}
