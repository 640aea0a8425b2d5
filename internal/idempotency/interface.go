package idempotency

import "context"

// Store is a bounded set of keys used to suppress redundant work. It is not
// a source of truth: once a key is evicted, or the process restarts with the
// memory backend, the same work may start again and must be caught by the
// ERP-side business-key checks.
type Store interface {
	// Seen reports whether key is in the set.
	Seen(ctx context.Context, key string) (bool, error)
	// MarkSeen adds key. Re-marking a present key keeps its original insertion position.
	MarkSeen(ctx context.Context, key string) error
	// CheckAndMark adds key and reports whether it was already present.
	CheckAndMark(ctx context.Context, key string) (bool, error)
	// Len returns the number of keys held.
	Len(ctx context.Context) (int, error)
}
