package core

import (
	"github.com/aretw0/introspection"
)

// StoreState exposes internal state for observability.
type StoreState struct {
	Documents   int    `json:"documents"`
	Annotations int    `json:"annotations"`
	GatewayType string `json:"gateway_type"`
}

// State implements introspection.Introspectable.
func (s *Store) State() any {
	gatewayType := "unknown"
	if s.gateway != nil {
		gatewayType = "gateway"
		if comp, ok := s.gateway.(introspection.Component); ok {
			gatewayType = comp.ComponentType()
		}
	}

	return StoreState{
		Documents:   len(s.annotations),
		Annotations: s.Len(),
		GatewayType: gatewayType,
	}
}

// ComponentType implements introspection.Component.
func (s *Store) ComponentType() string {
	return "store"
}

var _ introspection.Introspectable = (*Store)(nil)
var _ introspection.Component = (*Store)(nil)
