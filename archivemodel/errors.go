package archivemodel

import "errors"

// Sentinel error kinds: each wraps caller context with
// fmt.Errorf("...: %w", ...) at the call site rather than carrying its own
// payload type.
var (
	// ErrInvalidThought is raised by ingest validation (caller-visible).
	ErrInvalidThought = errors.New("archivemodel: invalid thought")

	// ErrAccessDenied is raised by the Federation Broker at write time
	// (caller-visible, no recovery).
	ErrAccessDenied = errors.New("archivemodel: access denied")

	// ErrEmbeddingFailed is raised when the Embedder fails. Caller-visible on
	// ingest; on lookup the Matchmaker hides it behind a MISS classification.
	ErrEmbeddingFailed = errors.New("archivemodel: embedding failed")

	// ErrIndexInconsistency means an index invariant was violated; this is
	// fatal — the process should crash and restore from snapshot.
	ErrIndexInconsistency = errors.New("archivemodel: index inconsistency")

	// ErrDeadlineExceeded is surfaced as a MISS by the Matchmaker, never
	// returned directly to a lookup caller.
	ErrDeadlineExceeded = errors.New("archivemodel: deadline exceeded")

	// ErrNotFound is raised when an operation targets a thought id that does
	// not exist; relocation treats this as idempotent and swallows it.
	ErrNotFound = errors.New("archivemodel: not found")
)
