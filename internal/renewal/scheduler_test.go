package renewal

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgLog "jobcard-automation/pkg/log"
)

type recordingRunner struct {
	mu     sync.Mutex
	inputs []RunInput
	err    error
}

func (r *recordingRunner) Run(ctx context.Context, input RunInput) (RunReport, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.inputs = append(r.inputs, input)
	return RunReport{RunID: "r1"}, r.err
}

func TestNewScheduler(t *testing.T) {
	_, err := NewScheduler(&recordingRunner{}, "0 0 6 * * *", nil, pkgLog.NewNop())
	require.NoError(t, err)

	_, err = NewScheduler(&recordingRunner{}, "@daily", nil, pkgLog.NewNop())
	require.NoError(t, err)

	_, err = NewScheduler(&recordingRunner{}, "not a schedule", nil, pkgLog.NewNop())
	assert.Error(t, err)
}

func TestSchedulerRunsWithDefaults(t *testing.T) {
	runner := &recordingRunner{}
	s, err := NewScheduler(runner, "0 0 6 * * *", nil, pkgLog.NewNop())
	require.NoError(t, err)

	s.runScheduled()
	runner.err = ErrRunnerBusy
	s.runScheduled()

	require.Len(t, runner.inputs, 2)
	assert.Equal(t, RunInput{}, runner.inputs[0])
}
