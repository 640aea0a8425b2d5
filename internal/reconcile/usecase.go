package reconcile

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"jobcard-automation/internal/gateway"
	"jobcard-automation/internal/idempotency"
	"jobcard-automation/internal/model"
	"jobcard-automation/pkg/datemath"
)

const quoteReviewLead = 24 * time.Hour

// HandleEvent collapses concurrent handling of the same delivery, then runs
// the decision tree. Steps within one event are strictly sequential.
func (uc *usecase) HandleEvent(ctx context.Context, ev model.WebhookEvent) (HandleOutput, error) {
	key := idempotency.EventKey(ev)
	v, err, shared := uc.flights.Do(key, func() (any, error) {
		return uc.handleEvent(ctx, ev, key)
	})
	if shared {
		uc.l.Debugf(ctx, "internal.reconcile.HandleEvent: collapsed concurrent delivery %s", key)
	}
	out, _ := v.(HandleOutput)
	return out, err
}

func (uc *usecase) handleEvent(ctx context.Context, ev model.WebhookEvent, key string) (HandleOutput, error) {
	out := HandleOutput{Kind: ev.Kind, JobID: ev.JobID, QuoteID: ev.QuoteID}

	// Without a delivery id or timestamp the key cannot tell a retry from a
	// later genuine change, so only the downstream checks apply.
	dedupe := ev.WebhookID != "" || ev.Timestamp != ""
	if dedupe && uc.seen(ctx, uc.stores.Events, key) {
		out.skip("duplicate delivery")
		return out, nil
	}

	var err error
	switch ev.Kind {
	case model.EventJobDeleted:
		err = uc.markDeleted(ctx, ev.JobID, &out)
	case model.EventJobStatusChanged:
		err = uc.handleJob(ctx, ev, &out)
	case model.EventQuoteChanged:
		err = uc.handleQuote(ctx, ev.QuoteID, &out)
	default:
		out.skip("unclassified event")
	}
	if err != nil {
		uc.l.Errorf(ctx, "internal.reconcile.handleEvent: %s job=%s quote=%s: %v", ev.Kind, ev.JobID, ev.QuoteID, err)
		return out, err
	}

	if dedupe {
		uc.mark(ctx, uc.stores.Events, key)
	}
	return out, nil
}

func (uc *usecase) ReconcileJob(ctx context.Context, input ReconcileJobInput) (HandleOutput, error) {
	if strings.TrimSpace(input.JobID) == "" {
		return HandleOutput{}, ErrJobIDRequired
	}

	statusID := input.StatusID
	if statusID == 0 {
		job, err := uc.gw.GetJob(ctx, input.JobID)
		if err != nil {
			return HandleOutput{}, fmt.Errorf("get job %s: %w", input.JobID, err)
		}
		statusID = job.StatusID
	}

	ev := model.WebhookEvent{
		Kind:       model.EventJobStatusChanged,
		JobID:      input.JobID,
		StatusID:   statusID,
		RawAction:  model.ActionUpdated,
		ReceivedAt: uc.now().UTC(),
	}
	key := "reconcile|" + input.JobID + "|" + strconv.Itoa(statusID)
	v, err, _ := uc.flights.Do(key, func() (any, error) {
		out := HandleOutput{Kind: ev.Kind, JobID: ev.JobID}
		err := uc.handleJob(ctx, ev, &out)
		return out, err
	})
	out, _ := v.(HandleOutput)
	return out, err
}

func (uc *usecase) PreviewTrigger(ctx context.Context, quoteID string) (TriggerPreview, error) {
	if strings.TrimSpace(quoteID) == "" {
		return TriggerPreview{}, ErrQuoteIDRequired
	}

	quote, err := uc.gw.GetQuote(ctx, quoteID)
	if err != nil {
		return TriggerPreview{}, fmt.Errorf("get quote %s: %w", quoteID, err)
	}

	preview := TriggerPreview{
		QuoteID:      quote.QuoteID,
		QuoteNumber:  quote.QuoteNumber,
		CustomerName: quote.CustomerName,
		Fields:       quote.CustomFields,
		FieldID:      uc.cfg.TriggerFieldID,
		FieldName:    uc.cfg.TriggerFieldName,
		YesValue:     uc.cfg.YesValue,
	}
	if field, ok := MatchTrigger(quote.CustomFields, uc.cfg); ok {
		preview.Matched = true
		preview.MatchedField = &field
	}
	return preview, nil
}

func (uc *usecase) markDeleted(ctx context.Context, jobID string, out *HandleOutput) error {
	if jobID == "" {
		out.skip("deleted event without job id")
		return nil
	}
	if err := uc.stores.Deleted.MarkSeen(ctx, jobID); err != nil {
		return fmt.Errorf("record deleted job %s: %w", jobID, err)
	}
	uc.l.Infof(ctx, "Job %s deleted, later events will be dropped", jobID)
	out.act(Action{Type: ActionJobDeleted, Ref: jobID, Created: true})
	return nil
}

func (uc *usecase) handleJob(ctx context.Context, ev model.WebhookEvent, out *HandleOutput) error {
	if ev.JobID == "" {
		out.skip("job event without job id")
		return nil
	}
	if uc.seen(ctx, uc.stores.Deleted, ev.JobID) {
		uc.l.Infof(ctx, "Dropping %s for deleted job %s", ev.Kind, ev.JobID)
		out.skip("job deleted")
		return nil
	}

	if ev.IsCreateOrUpdate() && isJobEvent(ev) {
		if err := uc.propagateTag(ctx, ev.JobID, out); err != nil {
			return fmt.Errorf("maintenance tag propagation: %w", err)
		}
	}

	switch ev.StatusID {
	case model.StatusCompleted:
		if err := uc.scheduleCompletion(ctx, ev.JobID, out); err != nil {
			return fmt.Errorf("completion scheduling: %w", err)
		}
	case 0:
	case model.StatusCompletedChecked:
		// Job-card PDF generation owns this status.
		out.skip("status 38 is not reconciled")
	default:
		out.skip(fmt.Sprintf("status %d is not reconciled", ev.StatusID))
	}
	return nil
}

// isJobEvent accepts deliveries without an event id and job.* event ids.
func isJobEvent(ev model.WebhookEvent) bool {
	return ev.EventID == "" || strings.HasPrefix(strings.ToLower(ev.EventID), "job")
}

func (uc *usecase) propagateTag(ctx context.Context, jobID string, out *HandleOutput) error {
	tagID := uc.cfg.MaintenanceTagID

	job, err := uc.gw.GetJob(ctx, jobID)
	if err != nil {
		return err
	}
	if !job.HasQuote() {
		out.skip("job has no linked quote")
		return nil
	}
	out.QuoteID = job.QuoteID

	quote, err := uc.gw.GetQuote(ctx, job.QuoteID)
	if err != nil {
		return err
	}
	field, ok := MatchTrigger(quote.CustomFields, uc.cfg)
	if !ok {
		out.skip("quote " + job.QuoteID + " does not match trigger")
		return nil
	}

	res, err := uc.gw.EnsureJobTag(ctx, jobID, tagID)
	if err != nil {
		return err
	}
	// The task and note below are idempotent, so they still run when the tag
	// is already present. A delivery that failed after tagging is finished
	// by the next one.
	if res.AlreadyPresent {
		out.skip("maintenance tag already present")
	} else {
		out.act(Action{Type: ActionTagApplied, Ref: strconv.Itoa(tagID), Created: true})
		uc.l.Infof(ctx, "Job %s tagged %d from quote %s", jobID, tagID, job.QuoteID)
	}

	subject := model.ConversionTaskSubject(job)
	task, err := gateway.EnsureTask(ctx, uc.gw, gateway.CreateTaskOptions{
		Subject:     subject,
		Description: conversionDescription(job, quote, field, tagID),
		DueDate:     datemath.DateOnly(uc.now()),
		AssigneeID:  uc.cfg.AssigneeID,
		JobID:       jobID,
		QuoteID:     job.QuoteID,
	})
	if err != nil {
		return fmt.Errorf("conversion task: %w", err)
	}
	out.act(Action{Type: ActionConversionTask, Ref: task.TaskID, Created: task.Created, Detail: subject})

	note, err := uc.gw.CreateNoteOnce(ctx, gateway.CreateNoteOptions{
		JobID:       jobID,
		Subject:     "Maintenance tag applied",
		Body:        tagNoteBody(job, quote, field, tagID),
		MarkerToken: model.TagMarker(jobID, tagID),
	})
	if err != nil {
		return fmt.Errorf("tag note: %w", err)
	}
	out.act(Action{Type: ActionTagNote, Ref: note.NoteID, Created: note.Created})
	return nil
}

func (uc *usecase) scheduleCompletion(ctx context.Context, jobID string, out *HandleOutput) error {
	job, err := uc.gw.GetJob(ctx, jobID)
	if err != nil {
		return err
	}
	if !job.HasTag(uc.cfg.MaintenanceTagID) {
		out.skip("job is not tagged for maintenance")
		return nil
	}
	if job.CompletedDate == nil {
		uc.l.Warnf(ctx, "internal.reconcile.scheduleCompletion: job %s is completed but has no completed date", jobID)
		out.skip("no completed date")
		return nil
	}

	completed := *job.CompletedDate
	key := idempotency.CompletionKey(jobID, datemath.FormatDate(completed))
	if uc.seen(ctx, uc.stores.Completions, key) {
		out.skip("completion already scheduled")
		return nil
	}

	schedule := datemath.ComputeRenewalSchedule(completed)
	subject := model.CompletionTaskSubject(job, completed)
	task, err := gateway.EnsureTask(ctx, uc.gw, gateway.CreateTaskOptions{
		Subject:     subject,
		Description: completionDescription(job, schedule),
		DueDate:     schedule.StartDate,
		AssigneeID:  uc.cfg.AssigneeID,
		JobID:       jobID,
	})
	if err != nil {
		return fmt.Errorf("completion task: %w", err)
	}
	out.act(Action{Type: ActionCompletionTask, Ref: task.TaskID, Created: task.Created, Detail: subject})

	if task.Created {
		note, err := uc.gw.CreateNoteOnce(ctx, gateway.CreateNoteOptions{
			JobID:       jobID,
			Subject:     "Maintenance schedule",
			Body:        scheduleNoteBody(job, schedule),
			MarkerToken: model.ScheduleMarker(jobID, completed),
		})
		if err != nil {
			return fmt.Errorf("schedule note: %w", err)
		}
		out.act(Action{Type: ActionScheduleNote, Ref: note.NoteID, Created: note.Created})
	}

	uc.mark(ctx, uc.stores.Completions, key)
	return nil
}

func (uc *usecase) handleQuote(ctx context.Context, quoteID string, out *HandleOutput) error {
	if quoteID == "" {
		out.skip("quote event without quote id")
		return nil
	}

	quote, err := uc.gw.GetQuote(ctx, quoteID)
	if err != nil {
		return err
	}
	field, ok := MatchTrigger(quote.CustomFields, uc.cfg)
	if !ok {
		out.skip("quote does not match trigger")
		return nil
	}

	subject := model.QuoteReviewSubject(quote)
	task, err := gateway.EnsureTask(ctx, uc.gw, gateway.CreateTaskOptions{
		Subject:     subject,
		Description: quoteReviewDescription(quote, field),
		DueDate:     uc.now().Add(quoteReviewLead),
		AssigneeID:  uc.cfg.ReviewerID,
		QuoteID:     quoteID,
	})
	if err != nil {
		return fmt.Errorf("quote review task: %w", err)
	}
	out.act(Action{Type: ActionQuoteReviewTask, Ref: task.TaskID, Created: task.Created, Detail: subject})
	return nil
}

// seen treats a store failure as unseen; the ERP-side checks still hold.
func (uc *usecase) seen(ctx context.Context, s idempotency.Store, key string) bool {
	ok, err := s.Seen(ctx, key)
	if err != nil {
		uc.l.Warnf(ctx, "internal.reconcile.seen: %s: %v", key, err)
		return false
	}
	return ok
}

func (uc *usecase) mark(ctx context.Context, s idempotency.Store, key string) {
	if err := s.MarkSeen(ctx, key); err != nil {
		uc.l.Warnf(ctx, "internal.reconcile.mark: %s: %v", key, err)
	}
}
