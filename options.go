package marginalia

import (
	"log/slog"
	"time"

	"github.com/aretw0/marginalia/pkg/core"
)

// options holds the internal configuration for a marginalia session.
type options struct {
	backup     bool
	backupPath string
	gateway    core.Gateway
	logger     *slog.Logger
	clock      func() time.Time
	idSource   func() string
}

// Option defines a functional option for configuring marginalia.
type Option func(*options)

func defaultOptions() *options {
	return &options{}
}

// WithBackup duplicates the previous snapshot to a backup location before
// each overwrite.
func WithBackup(backup bool) Option {
	return func(o *options) {
		o.backup = backup
	}
}

// WithBackupPath overrides the backup location (default: snapshot path + ".bak").
func WithBackupPath(path string) Option {
	return func(o *options) {
		o.backupPath = path
	}
}

// WithLogger sets the logger for the session.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithGateway allows injecting a custom persistence adapter (e.g. mock, sql).
// If provided, the default JSON snapshot adapter is skipped.
func WithGateway(gateway core.Gateway) Option {
	return func(o *options) {
		o.gateway = gateway
	}
}

// WithClock overrides the timestamp source (useful for deterministic tests).
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.clock = now
	}
}

// WithIDSource overrides the annotation id generator.
func WithIDSource(newID func() string) Option {
	return func(o *options) {
		o.idSource = newID
	}
}
