package gateway

import (
	"context"

	"jobcard-automation/internal/model"
)

// Gateway is the narrow, stable view of the ERP that the automation is written
// against. Implementations absorb inconsistent field names, payload shapes and
// endpoint variants. Every call may fail with a *simpro.APIError.
type Gateway interface {
	// GetJob fetches a job and normalizes tags, completion date and quote linkage.
	GetJob(ctx context.Context, jobID string) (model.JobLinkInfo, error)

	// GetQuote fetches a quote header and its custom fields.
	GetQuote(ctx context.Context, quoteID string) (model.QuoteAutomationView, error)

	// EnsureJobTag attaches tagID to the job unless it is already present.
	// It only issues a mutating call when the tag is absent.
	EnsureJobTag(ctx context.Context, jobID string, tagID int) (EnsureTagResult, error)

	// CreateTask creates a task, probing payload shapes and endpoints until one is accepted.
	CreateTask(ctx context.Context, opt CreateTaskOptions) (model.TaskRef, error)

	// FindTasksBySubject returns tasks whose subject contains subject.
	FindTasksBySubject(ctx context.Context, subject string) ([]model.Task, error)

	// CreateNoteOnce posts a job note unless an existing note already contains the marker.
	CreateNoteOnce(ctx context.Context, opt CreateNoteOptions) (CreateNoteResult, error)

	// ListJobsByTag lists every job carrying the tag, following pagination.
	ListJobsByTag(ctx context.Context, opt ListJobsOptions) ([]model.JobLinkInfo, error)
}
