package idempotency

import (
	"context"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
)

// memoryStore keeps keys in insertion order. Lookups go through Contains and
// ContainsOrAdd, neither of which refreshes recency, so RemoveOldest always
// drops the oldest-inserted key.
type memoryStore struct {
	mu       sync.Mutex
	keys     *lru.Cache[string, struct{}]
	capacity int
	target   int
}

// NewMemory creates an in-process Store.
func NewMemory(cfg Config) Store {
	cfg = cfg.normalized()
	// One slot of headroom so the cache never evicts on its own; trimming to
	// target is done explicitly below.
	keys, _ := lru.New[string, struct{}](cfg.Capacity + 1)
	return &memoryStore{
		keys:     keys,
		capacity: cfg.Capacity,
		target:   cfg.Target,
	}
}

func (s *memoryStore) Seen(_ context.Context, key string) (bool, error) {
	return s.keys.Contains(key), nil
}

func (s *memoryStore) MarkSeen(ctx context.Context, key string) error {
	_, err := s.CheckAndMark(ctx, key)
	return err
}

func (s *memoryStore) CheckAndMark(_ context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	present, _ := s.keys.ContainsOrAdd(key, struct{}{})
	if !present && s.keys.Len() > s.capacity {
		for s.keys.Len() > s.target {
			s.keys.RemoveOldest()
		}
	}
	return present, nil
}

func (s *memoryStore) Len(_ context.Context) (int, error) {
	return s.keys.Len(), nil
}
