package gateway

import "time"

// CreateTaskOptions holds the parameters for creating a task.
type CreateTaskOptions struct {
	Subject     string
	Description string
	DueDate     time.Time
	AssigneeID  int    // 0 leaves the task unassigned
	JobID       string // optional context, used for scoped endpoints
	QuoteID     string // optional context, enables the quote-scoped endpoint
}

// CreateNoteOptions holds the parameters for posting a job note.
type CreateNoteOptions struct {
	JobID       string
	Subject     string
	Body        string
	MarkerToken string // substring used to detect an already-posted note
}

// ListJobsOptions holds the parameters for listing jobs by tag.
type ListJobsOptions struct {
	TagID    int
	PageSize int // default 250
}

// EnsureTagResult reports whether the tag was already on the job.
type EnsureTagResult struct {
	AlreadyPresent bool
}

// CreateNoteResult reports whether a note was created.
type CreateNoteResult struct {
	Created bool
	NoteID  string
}

// EnsureTaskResult reports the outcome of EnsureTask.
type EnsureTaskResult struct {
	Created  bool
	TaskID   string
	Existing []string // ids of tasks already carrying the subject
}
