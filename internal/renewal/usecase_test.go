package renewal

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobcard-automation/internal/gateway"
	"jobcard-automation/internal/gateway/gatewaytest"
	"jobcard-automation/internal/model"
	pkgLog "jobcard-automation/pkg/log"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func ptr(t time.Time) *time.Time { return &t }

// seedJobs stores a completed maintenance job whose two-month reminder falls on 2026-01-15,
// plus jobs the runner must pass over.
func seedJobs(fake *gatewaytest.Fake) {
	fake.PutJob(model.JobLinkInfo{JobID: "123", TagIDs: []int{256}, StatusID: 12, CompletedDate: ptr(date(2025, 3, 15)), CustomerName: "Acme"})
	fake.PutJob(model.JobLinkInfo{JobID: "124", TagIDs: []int{256}, StatusID: 5, StatusName: "In Progress", CompletedDate: ptr(date(2025, 3, 15))})
	fake.PutJob(model.JobLinkInfo{JobID: "125", TagIDs: []int{256}, StatusID: 12})
	fake.PutJob(model.JobLinkInfo{JobID: "126", TagIDs: []int{256}, Stage: "Complete", CompletedDate: ptr(date(2025, 4, 2))})
	fake.PutJob(model.JobLinkInfo{JobID: "200", TagIDs: []int{3}, StatusID: 12, CompletedDate: ptr(date(2025, 3, 15))})
}

func newTestRunner(fake *gatewaytest.Fake) *usecase {
	return New(fake, Config{TagID: 256, AssigneeID: 5}, pkgLog.NewNop()).(*usecase)
}

func TestRunDryRunHasNoSideEffects(t *testing.T) {
	fake := gatewaytest.New()
	seedJobs(fake)
	uc := newTestRunner(fake)

	report, err := uc.Run(context.Background(), RunInput{Today: date(2026, 1, 15), DryRun: true})
	require.NoError(t, err)

	assert.True(t, report.DryRun)
	assert.Equal(t, "2026-01-15", report.Today)
	assert.Equal(t, 4, report.JobsScanned)
	assert.Equal(t, 2, report.Considered)
	require.Len(t, report.Actions, 1)

	action := report.Actions[0]
	assert.Equal(t, "123", action.JobID)
	assert.Equal(t, 2, action.MonthsBefore)
	assert.Equal(t, "2026-01-15", action.ReminderDate)
	assert.Equal(t, "2026-03-15", action.RenewalDueDate)
	assert.Equal(t, "Maintenance renewal reminder (2 months): Job #123 due 2026-03-15", action.Subject)
	assert.False(t, action.Executed)

	_, tasks, _ := fake.Counts()
	assert.Zero(t, tasks)
	assert.Empty(t, fake.Tasks())
}

func TestRunCreatesRemindersOnce(t *testing.T) {
	ctx := context.Background()
	fake := gatewaytest.New()
	seedJobs(fake)
	uc := newTestRunner(fake)

	first, err := uc.Run(ctx, RunInput{Today: date(2026, 1, 15)})
	require.NoError(t, err)
	require.Len(t, first.Actions, 1)
	assert.True(t, first.Actions[0].Executed)
	assert.True(t, first.Actions[0].Created)
	assert.NotEmpty(t, first.Actions[0].TaskID)

	second, err := uc.Run(ctx, RunInput{Today: date(2026, 1, 15)})
	require.NoError(t, err)
	require.Len(t, second.Actions, 1)
	assert.False(t, second.Actions[0].Created)
	assert.Equal(t, first.Actions[0].TaskID, second.Actions[0].TaskID)

	tasks := fake.Tasks()
	require.Len(t, tasks, 1)
	assert.Equal(t, date(2026, 1, 15), tasks[0].DueDate)
	assert.Equal(t, 5, tasks[0].AssignedToID)
	assert.Contains(t, tasks[0].Description, "2026-03-15")
	assert.Contains(t, tasks[0].Description, "Acme")
}

func TestRunReminderCheckpoints(t *testing.T) {
	tests := []struct {
		today  time.Time
		months []int
	}{
		{date(2025, 12, 15), []int{3}},
		{date(2026, 1, 15), []int{2}},
		{date(2026, 2, 15), []int{1}},
		{date(2026, 3, 15), nil},
		{date(2025, 12, 14), nil},
	}
	for _, tt := range tests {
		t.Run(tt.today.Format("2006-01-02"), func(t *testing.T) {
			fake := gatewaytest.New()
			fake.PutJob(model.JobLinkInfo{JobID: "123", TagIDs: []int{256}, StatusID: 12, CompletedDate: ptr(date(2025, 3, 15))})
			uc := newTestRunner(fake)

			report, err := uc.Run(context.Background(), RunInput{Today: tt.today, DryRun: true})
			require.NoError(t, err)

			var got []int
			for _, a := range report.Actions {
				got = append(got, a.MonthsBefore)
			}
			assert.Equal(t, tt.months, got)
		})
	}
}

// unfilteredGateway lists every stored job, as a deployment that ignores
// the tag filter would.
type unfilteredGateway struct {
	*gatewaytest.Fake
	jobs []model.JobLinkInfo
}

func (g *unfilteredGateway) ListJobsByTag(ctx context.Context, opt gateway.ListJobsOptions) ([]model.JobLinkInfo, error) {
	return g.jobs, nil
}

func TestRunSkipsUntaggedJobs(t *testing.T) {
	fake := gatewaytest.New()
	gw := &unfilteredGateway{Fake: fake, jobs: []model.JobLinkInfo{
		{JobID: "1", TagIDs: []int{256}, StatusID: 12, CompletedDate: ptr(date(2025, 3, 15))},
		{JobID: "2", StatusID: 12, CompletedDate: ptr(date(2025, 3, 15))},
		{JobID: "3", TagIDs: []int{5}, StatusID: 12, CompletedDate: ptr(date(2025, 3, 15))},
	}}
	uc := New(gw, Config{TagID: 256, AssigneeID: 5}, pkgLog.NewNop())

	report, err := uc.Run(context.Background(), RunInput{Today: date(2026, 1, 15)})
	require.NoError(t, err)
	assert.Equal(t, 3, report.JobsScanned)
	assert.Equal(t, 1, report.Considered)
	require.Len(t, report.Actions, 1)
	assert.Equal(t, "1", report.Actions[0].JobID)

	tasks := fake.Tasks()
	require.Len(t, tasks, 1)
	assert.Contains(t, tasks[0].Subject, "Job #1 ")
}

func TestRunInputOverrides(t *testing.T) {
	fake := gatewaytest.New()
	fake.PutJob(model.JobLinkInfo{JobID: "9", JobNumber: "J-9", TagIDs: []int{77}, StatusID: 12, CompletedDate: ptr(date(2025, 3, 15))})
	uc := newTestRunner(fake)

	report, err := uc.Run(context.Background(), RunInput{TagID: 77, AssigneeID: 8, Today: date(2026, 2, 15)})
	require.NoError(t, err)
	assert.Equal(t, 77, report.TagID)
	require.Len(t, report.Actions, 1)
	assert.Equal(t, "Maintenance renewal reminder (1 month): Job #J-9 due 2026-03-15", report.Actions[0].Subject)

	tasks := fake.Tasks()
	require.Len(t, tasks, 1)
	assert.Equal(t, 8, tasks[0].AssignedToID)
}

func TestRunTodayUsesConfiguredZone(t *testing.T) {
	fake := gatewaytest.New()
	uc := New(fake, Config{TagID: 256, Location: time.FixedZone("AEDT", 11*3600)}, pkgLog.NewNop()).(*usecase)
	uc.now = func() time.Time { return time.Date(2026, 1, 14, 23, 30, 0, 0, time.UTC) }

	report, err := uc.Run(context.Background(), RunInput{DryRun: true})
	require.NoError(t, err)
	assert.Equal(t, "2026-01-15", report.Today)
}

func TestRunFailures(t *testing.T) {
	ctx := context.Background()

	t.Run("task failure is recorded and the run continues", func(t *testing.T) {
		fake := gatewaytest.New()
		fake.PutJob(model.JobLinkInfo{JobID: "1", TagIDs: []int{256}, StatusID: 12, CompletedDate: ptr(date(2025, 3, 15))})
		fake.PutJob(model.JobLinkInfo{JobID: "2", TagIDs: []int{256}, StatusID: 12, CompletedDate: ptr(date(2025, 3, 15))})
		fake.FailOn("CreateTask", errors.New("rejected"))
		uc := newTestRunner(fake)

		report, err := uc.Run(ctx, RunInput{Today: date(2026, 1, 15)})
		require.NoError(t, err)
		assert.Equal(t, 2, report.Failures)
		require.Len(t, report.Actions, 2)
		assert.Equal(t, "rejected", report.Actions[0].Error)
	})

	t.Run("listing failure aborts", func(t *testing.T) {
		fake := gatewaytest.New()
		fake.FailOn("ListJobsByTag", errors.New("timeout"))
		uc := newTestRunner(fake)

		_, err := uc.Run(ctx, RunInput{Today: date(2026, 1, 15)})
		assert.Error(t, err)
	})

	t.Run("busy", func(t *testing.T) {
		uc := newTestRunner(gatewaytest.New())
		uc.running.Store(true)

		_, err := uc.Run(ctx, RunInput{})
		assert.ErrorIs(t, err, ErrRunnerBusy)
	})

	t.Run("no tag", func(t *testing.T) {
		uc := New(gatewaytest.New(), Config{}, pkgLog.NewNop())
		_, err := uc.Run(ctx, RunInput{})
		assert.ErrorIs(t, err, ErrInvalidTagID)
	})
}
