package fs

import (
	"os"

	"github.com/aretw0/introspection"
)

// GatewayState exposes internal state for observability.
type GatewayState struct {
	Path       string `json:"path"`
	BackupPath string `json:"backup_path,omitempty"`
	Backup     bool   `json:"backup"`
	Exists     bool   `json:"exists"`
	SizeBytes  int64  `json:"size_bytes"`
}

// State implements introspection.Introspectable.
func (g *Gateway) State() any {
	state := GatewayState{
		Path:   g.Path,
		Backup: g.config.Backup,
	}
	if g.config.Backup {
		state.BackupPath = g.config.BackupPath
	}
	if info, err := os.Stat(g.Path); err == nil {
		state.Exists = true
		state.SizeBytes = info.Size()
	}
	return state
}

// ComponentType implements introspection.Component.
func (g *Gateway) ComponentType() string {
	return "fs-gateway"
}

var _ introspection.Introspectable = (*Gateway)(nil)
var _ introspection.Component = (*Gateway)(nil)
