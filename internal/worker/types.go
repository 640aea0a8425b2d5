package worker

import (
	"context"
	"errors"
	"time"

	"jobcard-automation/internal/model"
)

const (
	defaultMaxConcurrency = 16
	defaultJobTimeout     = 2 * time.Minute
)

// ErrClosed is returned by Submit after Shutdown has begun.
var ErrClosed = errors.New("dispatcher is shut down")

// ProcessFunc handles one event. Errors are logged, never returned to the sender.
type ProcessFunc func(ctx context.Context, ev model.WebhookEvent) error

// Config bounds background processing.
type Config struct {
	MaxConcurrency int
	JobTimeout     time.Duration
}
