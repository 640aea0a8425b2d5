package reconcile

import (
	"jobcard-automation/internal/model"
)

// Config holds the named automation options.
type Config struct {
	TriggerFieldID   string
	TriggerFieldName string
	YesValue         string
	AssigneeID       int // 0 leaves tasks unassigned
	ReviewerID       int // quote review assignee; falls back to AssigneeID
	MaintenanceTagID int
}

// ActionType names a side effect performed or intended by the engine.
type ActionType string

const (
	ActionTagApplied      ActionType = "tag_applied"
	ActionConversionTask  ActionType = "conversion_task"
	ActionTagNote         ActionType = "tag_note"
	ActionCompletionTask  ActionType = "completion_task"
	ActionScheduleNote    ActionType = "schedule_note"
	ActionQuoteReviewTask ActionType = "quote_review_task"
	ActionJobDeleted      ActionType = "job_marked_deleted"
)

// Action is one side effect. Created is false when the ERP already held it.
type Action struct {
	Type    ActionType `json:"type"`
	Ref     string     `json:"ref,omitempty"`
	Created bool       `json:"created"`
	Detail  string     `json:"detail,omitempty"`
}

// HandleOutput summarizes one event's handling.
type HandleOutput struct {
	Kind    model.EventKind `json:"kind"`
	JobID   string          `json:"job_id,omitempty"`
	QuoteID string          `json:"quote_id,omitempty"`
	Actions []Action        `json:"actions"`
	Skipped []string        `json:"skipped,omitempty"` // why steps stopped early
}

func (o *HandleOutput) act(a Action) {
	o.Actions = append(o.Actions, a)
}

func (o *HandleOutput) skip(reason string) {
	o.Skipped = append(o.Skipped, reason)
}

// ReconcileJobInput replays a job. StatusID 0 uses the job's current status.
type ReconcileJobInput struct {
	JobID    string
	StatusID int
}

// TriggerPreview is the predicate evaluation for one quote.
type TriggerPreview struct {
	QuoteID      string              `json:"quote_id"`
	QuoteNumber  string              `json:"quote_number,omitempty"`
	CustomerName string              `json:"customer_name,omitempty"`
	Fields       []model.CustomField `json:"fields"`
	Matched      bool                `json:"matched"`
	MatchedField *model.CustomField  `json:"matched_field,omitempty"`
	FieldID      string              `json:"trigger_field_id"`
	FieldName    string              `json:"trigger_field_name"`
	YesValue     string              `json:"yes_value"`
}
