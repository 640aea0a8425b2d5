package idempotency

import "errors"

const (
	BackendMemory = "memory"
	BackendRedis  = "redis"

	defaultCapacity = 5000
	defaultTarget   = 4000
	defaultPrefix   = "jobcard:idem"
)

// Set names. Each is a separate Store with its own eviction.
const (
	SetEvents      = "events"
	SetCompletions = "completions"
	SetManual      = "manual"
	SetDeleted     = "deleted"
)

var (
	ErrUnknownBackend = errors.New("unknown idempotency backend")
	ErrRedisURL       = errors.New("idempotency redis url is empty")
)

// Config bounds every set. When a set grows past Capacity, the oldest-inserted
// keys are evicted until Target remain.
type Config struct {
	Backend   string
	Capacity  int
	Target    int
	RedisURL  string
	KeyPrefix string
}

func (c Config) normalized() Config {
	if c.Capacity <= 0 {
		c.Capacity = defaultCapacity
	}
	if c.Target <= 0 || c.Target > c.Capacity {
		c.Target = c.Capacity * 4 / 5
		if c.Target == 0 {
			c.Target = c.Capacity
		}
	}
	if c.KeyPrefix == "" {
		c.KeyPrefix = defaultPrefix
	}
	if c.Backend == "" {
		c.Backend = BackendMemory
	}
	return c
}
