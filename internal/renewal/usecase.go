package renewal

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"jobcard-automation/internal/gateway"
	"jobcard-automation/internal/model"
	"jobcard-automation/pkg/datemath"
)

func (uc *usecase) Run(ctx context.Context, input RunInput) (RunReport, error) {
	if !uc.running.CompareAndSwap(false, true) {
		return RunReport{}, ErrRunnerBusy
	}
	defer uc.running.Store(false)

	if input.TagID == 0 {
		input.TagID = uc.cfg.TagID
	}
	if input.TagID <= 0 {
		return RunReport{}, ErrInvalidTagID
	}
	if input.AssigneeID == 0 {
		input.AssigneeID = uc.cfg.AssigneeID
	}
	today := uc.today(input.Today)

	report := RunReport{
		RunID:   uuid.NewString(),
		Today:   datemath.FormatDate(today),
		TagID:   input.TagID,
		DryRun:  input.DryRun,
		Actions: []ReminderAction{},
	}

	jobs, err := uc.gw.ListJobsByTag(ctx, gateway.ListJobsOptions{TagID: input.TagID})
	if err != nil {
		return report, fmt.Errorf("list jobs tagged %d: %w", input.TagID, err)
	}

	for _, job := range jobs {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		report.JobsScanned++
		if !job.HasTag(input.TagID) || job.CompletedDate == nil || !job.IsCompleted() {
			continue
		}
		report.Considered++

		schedule := datemath.ComputeRenewalSchedule(*job.CompletedDate)
		for _, r := range schedule.DueOn(today) {
			action := uc.remind(ctx, job, schedule, r, input)
			if action.Error != "" {
				report.Failures++
			}
			report.Actions = append(report.Actions, action)
		}
	}

	uc.l.Infof(ctx, "Renewal run %s for %s: scanned=%d considered=%d actions=%d failures=%d dry_run=%v",
		report.RunID, report.Today, report.JobsScanned, report.Considered, len(report.Actions), report.Failures, report.DryRun)
	return report, nil
}

// remind ensures one reminder task. A failure is recorded on the action and
// does not stop the run.
func (uc *usecase) remind(ctx context.Context, job model.JobLinkInfo, schedule datemath.RenewalSchedule, r datemath.Reminder, input RunInput) ReminderAction {
	action := ReminderAction{
		JobID:          job.JobID,
		JobNumber:      job.JobNumber,
		MonthsBefore:   r.MonthsBefore,
		ReminderDate:   datemath.FormatDate(r.Date),
		RenewalDueDate: datemath.FormatDate(schedule.RenewalDueDate),
		Subject:        model.RenewalReminderSubject(job, r.MonthsBefore, schedule.RenewalDueDate),
	}
	if input.DryRun {
		return action
	}

	action.Executed = true
	res, err := gateway.EnsureTask(ctx, uc.gw, gateway.CreateTaskOptions{
		Subject:     action.Subject,
		Description: reminderDescription(job, schedule, r),
		DueDate:     r.Date,
		AssigneeID:  input.AssigneeID,
		JobID:       job.JobID,
		QuoteID:     job.QuoteID,
	})
	if err != nil {
		uc.l.Errorf(ctx, "internal.renewal.remind: job %s reminder %d: %v", job.JobID, r.MonthsBefore, err)
		action.Error = err.Error()
		return action
	}
	action.Created = res.Created
	action.TaskID = res.TaskID
	return action
}

func (uc *usecase) today(t time.Time) time.Time {
	if t.IsZero() {
		t = uc.now().In(uc.cfg.Location)
	}
	return datemath.DateOnly(t)
}

func reminderDescription(job model.JobLinkInfo, s datemath.RenewalSchedule, r datemath.Reminder) string {
	desc := fmt.Sprintf("The maintenance contract for Job #%s is due for renewal on %s (%d month(s) from now).",
		job.DisplayNumber(), datemath.FormatDate(s.RenewalDueDate), r.MonthsBefore)
	if job.CustomerName != "" {
		desc += " Customer: " + job.CustomerName + "."
	}
	if job.SiteName != "" {
		desc += " Site: " + job.SiteName + "."
	}
	return desc
}
