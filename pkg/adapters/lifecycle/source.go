// Package lifecycle adapts annotation validity events to the
// aretw0/lifecycle supervision model.
package lifecycle

import (
	"context"

	"github.com/aretw0/lifecycle"

	"github.com/aretw0/marginalia/pkg/core"
)

// Source forwards a watcher's validity transitions as lifecycle events, so a
// watch session can be supervised alongside the other sources of a
// lifecycle-managed host application. An optional set of event types
// restricts what is forwarded; with none given every transition passes
// through.
type Source struct {
	in   <-chan core.Event
	out  chan lifecycle.Event
	keep map[core.EventType]bool
}

func NewSource(events <-chan core.Event, types ...core.EventType) *Source {
	var keep map[core.EventType]bool
	if len(types) > 0 {
		keep = make(map[core.EventType]bool, len(types))
		for _, eventType := range types {
			keep[eventType] = true
		}
	}
	return &Source{
		in:   events,
		out:  make(chan lifecycle.Event),
		keep: keep,
	}
}

func (s *Source) Events() <-chan lifecycle.Event {
	return s.out
}

// Start launches the forwarding loop under lifecycle supervision. The output
// channel closes when the input closes or ctx is cancelled.
func (s *Source) Start(ctx context.Context) error {
	lifecycle.Go(ctx, func(ctx context.Context) error {
		defer close(s.out)
		for {
			select {
			case <-ctx.Done():
				return nil
			case e, ok := <-s.in:
				if !ok {
					return nil
				}
				if s.keep != nil && !s.keep[e.Type] {
					continue
				}
				// core.Event implements lifecycle.Event (has String())
				select {
				case s.out <- e:
				case <-ctx.Done():
					return nil
				}
			}
		}
	})
	return nil
}

var _ lifecycle.Source = (*Source)(nil)
