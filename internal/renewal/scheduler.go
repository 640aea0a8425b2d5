package renewal

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron"

	pkgLog "jobcard-automation/pkg/log"
)

const scheduledRunTimeout = 30 * time.Minute

// Scheduler triggers the runner on a cron schedule.
type Scheduler struct {
	cron   *cron.Cron
	runner UseCase
	l      pkgLog.Logger
}

// NewScheduler validates spec (six fields, seconds first) and registers the run.
func NewScheduler(runner UseCase, spec string, loc *time.Location, l pkgLog.Logger) (*Scheduler, error) {
	if loc == nil {
		loc = time.UTC
	}
	parser := cron.NewParser(cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
	schedule, err := parser.Parse(spec)
	if err != nil {
		return nil, fmt.Errorf("invalid renewal schedule %q: %w", spec, err)
	}

	s := &Scheduler{
		cron:   cron.NewWithLocation(loc),
		runner: runner,
		l:      l,
	}
	s.cron.Schedule(schedule, cron.FuncJob(s.runScheduled))
	return s, nil
}

// Start runs the cron loop in its own goroutine.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop halts scheduling. A run already started keeps going to completion.
func (s *Scheduler) Stop() {
	s.cron.Stop()
}

func (s *Scheduler) runScheduled() {
	ctx, cancel := context.WithTimeout(pkgLog.WithTraceID(context.Background(), uuid.NewString()), scheduledRunTimeout)
	defer cancel()

	report, err := s.runner.Run(ctx, RunInput{})
	switch {
	case errors.Is(err, ErrRunnerBusy):
		s.l.Warnf(ctx, "Scheduled renewal run skipped: %v", err)
	case err != nil:
		s.l.Errorf(ctx, "internal.renewal.runScheduled: %v", err)
	default:
		s.l.Infof(ctx, "Scheduled renewal run %s complete: %d action(s), %d failure(s)", report.RunID, len(report.Actions), report.Failures)
	}
}
