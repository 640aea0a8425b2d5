package model

import (
	"encoding/json"
	"time"
)

// EventKind is the canonical classification of an inbound webhook.
type EventKind string

const (
	EventJobStatusChanged EventKind = "JobStatusChanged"
	EventJobDeleted       EventKind = "JobDeleted"
	EventQuoteChanged     EventKind = "QuoteChanged"
	EventUnknown          EventKind = "Unknown"
)

// Status codes observed on the Simpro job workflow.
const (
	StatusCompleted        = 12
	StatusCompletedChecked = 38
)

// Raw actions, lower-cased.
const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)

// WebhookEvent is a classified inbound webhook. It lives for one delivery.
type WebhookEvent struct {
	Kind      EventKind       `json:"kind"`
	JobID     string          `json:"job_id,omitempty"`
	QuoteID   string          `json:"quote_id,omitempty"`
	StatusID  int             `json:"status_id,omitempty"` // 0 when absent
	RawAction string          `json:"raw_action,omitempty"`
	EventID   string          `json:"event_id,omitempty"`   // e.g. "job.status", "job.deleted"
	WebhookID string          `json:"webhook_id,omitempty"` // sender-side delivery id when present
	Timestamp string          `json:"timestamp,omitempty"`  // sender-side event date when present
	Raw       json.RawMessage `json:"-"`

	ReceivedAt time.Time `json:"received_at"`
}

// HasStatus reports whether the payload carried a status id.
func (e WebhookEvent) HasStatus() bool {
	return e.StatusID > 0
}

// IsCreateOrUpdate reports whether the raw action is created or updated.
func (e WebhookEvent) IsCreateOrUpdate() bool {
	return e.RawAction == ActionCreated || e.RawAction == ActionUpdated
}
