package admin

import "jobcard-automation/pkg/response"

// CreateTaskRequest represents a manual task request
type CreateTaskRequest struct {
	Subject     string `json:"subject" binding:"required"`
	Description string `json:"description"`
	DueDate     string `json:"due_date"` // YYYY-MM-DD or an expression such as "tomorrow"; empty means today
	AssigneeID  *int   `json:"assignee_id"`
	JobID       string `json:"job_id"`
}

// CreateTaskResponse represents the outcome of a manual task request
type CreateTaskResponse struct {
	Created   bool          `json:"created"`
	Duplicate bool          `json:"duplicate"`
	TaskID    string        `json:"task_id,omitempty"`
	Existing  []string      `json:"existing,omitempty"`
	Subject   string        `json:"subject"`
	DueDate   response.Date `json:"due_date"`
}

// RunRenewalsRequest represents a renewal run request
type RunRenewalsRequest struct {
	Today      string `json:"today"`
	DryRun     bool   `json:"dry_run"`
	TagID      int    `json:"tag_id"`
	AssigneeID int    `json:"assignee_id"`
}

// ReconcileJobRequest represents a job replay request
type ReconcileJobRequest struct {
	StatusID int `json:"status_id"`
}

// StatsResponse represents the idempotency set sizes
type StatsResponse struct {
	Sets map[string]int    `json:"sets"`
	At   response.DateTime `json:"at"`
}
