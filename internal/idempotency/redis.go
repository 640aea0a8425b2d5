package idempotency

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// redisStore keeps keys in a sorted set scored by insertion time, which lets
// the set survive restarts and be shared between replicas.
type redisStore struct {
	rdb      redis.UniversalClient
	key      string
	capacity int
	target   int
}

// NewRedis creates a Store on the sorted set "<prefix>:<name>".
func NewRedis(rdb redis.UniversalClient, name string, cfg Config) Store {
	cfg = cfg.normalized()
	return &redisStore{
		rdb:      rdb,
		key:      cfg.KeyPrefix + ":" + name,
		capacity: cfg.Capacity,
		target:   cfg.Target,
	}
}

// DialRedis parses url and pings the server.
func DialRedis(ctx context.Context, url string) (*redis.Client, error) {
	if url == "" {
		return nil, ErrRedisURL
	}
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	rdb := redis.NewClient(opt)
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return rdb, nil
}

// scoreFromTime uses microseconds, which float64 still represents exactly.
func scoreFromTime(t time.Time) float64 {
	return float64(t.UnixMicro())
}

func (s *redisStore) Seen(ctx context.Context, key string) (bool, error) {
	err := s.rdb.ZScore(ctx, s.key, key).Err()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("zscore %s: %w", s.key, err)
	}
	return true, nil
}

func (s *redisStore) MarkSeen(ctx context.Context, key string) error {
	_, err := s.CheckAndMark(ctx, key)
	return err
}

func (s *redisStore) CheckAndMark(ctx context.Context, key string) (bool, error) {
	added, err := s.rdb.ZAddNX(ctx, s.key, redis.Z{Score: scoreFromTime(time.Now()), Member: key}).Result()
	if err != nil {
		return false, fmt.Errorf("zadd %s: %w", s.key, err)
	}
	if added == 0 {
		return true, nil
	}
	return false, s.trim(ctx)
}

// trim removes the lowest-scored members once the set exceeds capacity.
func (s *redisStore) trim(ctx context.Context) error {
	n, err := s.rdb.ZCard(ctx, s.key).Result()
	if err != nil {
		return fmt.Errorf("zcard %s: %w", s.key, err)
	}
	if n <= int64(s.capacity) {
		return nil
	}
	if err := s.rdb.ZRemRangeByRank(ctx, s.key, 0, n-int64(s.target)-1).Err(); err != nil {
		return fmt.Errorf("zremrangebyrank %s: %w", s.key, err)
	}
	return nil
}

func (s *redisStore) Len(ctx context.Context) (int, error) {
	n, err := s.rdb.ZCard(ctx, s.key).Result()
	if err != nil {
		return 0, fmt.Errorf("zcard %s: %w", s.key, err)
	}
	return int(n), nil
}
