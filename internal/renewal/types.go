package renewal

import "time"

// Config holds runner defaults used when RunInput leaves a field zero.
type Config struct {
	TagID      int
	AssigneeID int
	Location   *time.Location // the zone whose calendar date "today" is taken from
}

// RunInput parameterizes one run. Zero values fall back to Config; a zero
// Today means the current date.
type RunInput struct {
	TagID      int
	AssigneeID int
	Today      time.Time
	DryRun     bool
}

// ReminderAction is one reminder due on the run date.
type ReminderAction struct {
	JobID          string `json:"job_id"`
	JobNumber      string `json:"job_number,omitempty"`
	MonthsBefore   int    `json:"months_before"`
	ReminderDate   string `json:"reminder_date"`
	RenewalDueDate string `json:"renewal_due_date"`
	Subject        string `json:"subject"`
	Executed       bool   `json:"executed"` // false in dry-run mode
	Created        bool   `json:"created"`
	TaskID         string `json:"task_id,omitempty"`
	Error          string `json:"error,omitempty"`
}

// RunReport summarizes a run.
type RunReport struct {
	RunID       string           `json:"run_id"`
	Today       string           `json:"today"`
	TagID       int              `json:"tag_id"`
	DryRun      bool             `json:"dry_run"`
	JobsScanned int              `json:"jobs_scanned"`
	Considered  int              `json:"considered"`
	Actions     []ReminderAction `json:"actions"`
	Failures    int              `json:"failures"`
}
