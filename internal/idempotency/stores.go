package idempotency

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Stores groups the process-wide sets. It is built once and injected.
type Stores struct {
	Events      Store
	Completions Store
	Manual      Store
	Deleted     Store

	rdb *redis.Client
}

// NewStores builds every set on the configured backend.
func NewStores(ctx context.Context, cfg Config) (*Stores, error) {
	cfg = cfg.normalized()
	switch cfg.Backend {
	case BackendMemory:
		return &Stores{
			Events:      NewMemory(cfg),
			Completions: NewMemory(cfg),
			Manual:      NewMemory(cfg),
			Deleted:     NewMemory(cfg),
		}, nil
	case BackendRedis:
		rdb, err := DialRedis(ctx, cfg.RedisURL)
		if err != nil {
			return nil, err
		}
		return &Stores{
			Events:      NewRedis(rdb, SetEvents, cfg),
			Completions: NewRedis(rdb, SetCompletions, cfg),
			Manual:      NewRedis(rdb, SetManual, cfg),
			Deleted:     NewRedis(rdb, SetDeleted, cfg),
			rdb:         rdb,
		}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.Backend)
	}
}

// Stats returns the size of each set.
func (s *Stores) Stats(ctx context.Context) (map[string]int, error) {
	named := map[string]Store{
		SetEvents:      s.Events,
		SetCompletions: s.Completions,
		SetManual:      s.Manual,
		SetDeleted:     s.Deleted,
	}
	out := make(map[string]int, len(named))
	for name, st := range named {
		n, err := st.Len(ctx)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		out[name] = n
	}
	return out, nil
}

// Close releases the Redis connection, if any.
func (s *Stores) Close() error {
	if s.rdb == nil {
		return nil
	}
	return s.rdb.Close()
}
