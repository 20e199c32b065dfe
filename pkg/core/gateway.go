package core

import "context"

// Gateway defines the contract for durably loading and saving the full
// annotation snapshot. Adhering to this interface keeps the core independent
// of the underlying storage mechanism (JSON file, SQL, S3, etc).
//
// The store treats persistence as fire-and-forget: a failed Save is reported
// to the caller but never rolls back the in-memory state, which remains the
// source of truth for the running session.
type Gateway interface {
	// Load returns whatever was last durably saved, keyed by document
	// identity, or an empty map if nothing exists yet. Malformed input is
	// reported (logged) and treated as empty, never raised as fatal.
	Load(ctx context.Context) (map[string][]Annotation, error)

	// Save writes the full snapshot. Partial or incremental writes are not
	// supported.
	Save(ctx context.Context, snapshot map[string][]Annotation) error
}
