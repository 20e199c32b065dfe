// Package marginalia is the composition root for the marginalia library.
//
// It connects the core annotation engine (Domain Layer) with the
// infrastructure adapters (Persistence Layer) using the Hexagonal
// Architecture pattern.
//
// Philosophy:
//
// Marginalia lets you write in the margins of a codebase. Annotations attach
// to positions or spans inside source files without ever modifying those
// files; they live in an external JSON snapshot keyed by file identity.
// Anchors detect when the code they point at has drifted, legacy line-keyed
// records migrate forward on load, and listings interleave documents
// deterministically so recent notes always surface first.
//
// Features:
//
//   - **Hexagonal Architecture**: Core engine is isolated from persistence details.
//   - **Span and line anchors**: precise staleness detection for selections,
//     tolerant marking for whole lines.
//   - **Atomic snapshots**: temp-file + rename writes, optional copy-aside backup.
//   - **Watch mode**: fsnotify-driven re-evaluation as annotated files change.
//   - **Extensible**: alternative stores plug in via `core.Gateway`.
//
// Usage:
//
//	// Open a session against a snapshot file
//	session, err := marginalia.New("~/.marginalia/annotations.json",
//		marginalia.WithBackup(true),
//		marginalia.WithLogger(logger),
//	)
//
//	// Attach a note to a selection
//	anchor, _ := session.CaptureAnchor("/src/app.ts", 4, 2, 4, 7)
//	result, err := session.Commit(ctx, "/src/app.ts", anchor, "check null", "")
package marginalia
