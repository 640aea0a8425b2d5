package worker

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"

	"jobcard-automation/internal/model"
	pkgLog "jobcard-automation/pkg/log"
)

// Dispatcher runs events in the background with bounded concurrency.
type Dispatcher struct {
	process ProcessFunc
	sem     *semaphore.Weighted
	timeout time.Duration
	l       pkgLog.Logger

	root   context.Context
	cancel context.CancelFunc

	mu       sync.Mutex
	closed   bool
	wg       sync.WaitGroup
	inFlight atomic.Int64
}

// New creates a Dispatcher that hands every submitted event to process.
func New(process ProcessFunc, cfg Config, l pkgLog.Logger) *Dispatcher {
	if cfg.MaxConcurrency <= 0 {
		cfg.MaxConcurrency = defaultMaxConcurrency
	}
	if cfg.JobTimeout <= 0 {
		cfg.JobTimeout = defaultJobTimeout
	}
	root, cancel := context.WithCancel(context.Background())
	return &Dispatcher{
		process: process,
		sem:     semaphore.NewWeighted(int64(cfg.MaxConcurrency)),
		timeout: cfg.JobTimeout,
		l:       l,
		root:    root,
		cancel:  cancel,
	}
}

// Submit schedules ev and returns at once. The request context only
// contributes its trace id; processing outlives the request.
func (d *Dispatcher) Submit(ctx context.Context, ev model.WebhookEvent) error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return ErrClosed
	}
	d.wg.Add(1)
	d.mu.Unlock()

	traceID := pkgLog.TraceID(ctx)
	if traceID == "" {
		traceID = uuid.NewString()
	}

	d.inFlight.Add(1)
	go d.run(traceID, ev)
	return nil
}

func (d *Dispatcher) run(traceID string, ev model.WebhookEvent) {
	defer d.wg.Done()
	defer d.inFlight.Add(-1)

	ctx, cancel := context.WithTimeout(pkgLog.WithTraceID(d.root, traceID), d.timeout)
	defer cancel()

	if err := d.sem.Acquire(ctx, 1); err != nil {
		d.l.Warnf(ctx, "internal.worker.run: dropped %s job=%s quote=%s: %v", ev.Kind, ev.JobID, ev.QuoteID, err)
		return
	}
	defer d.sem.Release(1)

	defer func() {
		if r := recover(); r != nil {
			d.l.Errorf(ctx, "internal.worker.run: panic processing %s job=%s quote=%s: %v\n%s", ev.Kind, ev.JobID, ev.QuoteID, r, debug.Stack())
		}
	}()

	d.l.Infof(ctx, "Processing webhook async: %s job=%s quote=%s status=%d action=%s", ev.Kind, ev.JobID, ev.QuoteID, ev.StatusID, ev.RawAction)
	if err := d.process(ctx, ev); err != nil {
		d.l.Errorf(ctx, "Webhook processing failed: %v", err)
		return
	}
	d.l.Debugf(ctx, "Webhook processed: %s job=%s quote=%s", ev.Kind, ev.JobID, ev.QuoteID)
}

// InFlight returns the number of submitted events not yet finished.
func (d *Dispatcher) InFlight() int {
	return int(d.inFlight.Load())
}

// Shutdown stops accepting events and waits for in-flight work. When ctx
// ends first, outstanding work is cancelled and ctx's error returned.
func (d *Dispatcher) Shutdown(ctx context.Context) error {
	d.mu.Lock()
	d.closed = true
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		d.cancel()
		return nil
	case <-ctx.Done():
		d.cancel()
		return fmt.Errorf("dispatcher drain: %w", ctx.Err())
	}
}
