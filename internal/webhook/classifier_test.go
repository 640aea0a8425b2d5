package webhook

import (
	"testing"
	"time"

	"jobcard-automation/internal/model"
)

func TestClassify(t *testing.T) {
	now := time.Date(2025, 3, 15, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		body      string
		wantKind  model.EventKind
		wantJob   string
		wantQuote string
		wantStat  int
		wantAct   string
	}{
		{
			name:     "reference jobID updated",
			body:     `{"reference":{"jobID":"123"},"action":"updated"}`,
			wantKind: model.EventJobStatusChanged,
			wantJob:  "123",
			wantAct:  "updated",
		},
		{
			name:     "numeric ids with status",
			body:     `{"ID":"job.status","reference":{"jobID":123,"statusID":12},"action":"Updated"}`,
			wantKind: model.EventJobStatusChanged,
			wantJob:  "123",
			wantStat: 12,
			wantAct:  "updated",
		},
		{
			name:     "camelCase reference",
			body:     `{"reference":{"jobId":"55"}}`,
			wantKind: model.EventJobStatusChanged,
			wantJob:  "55",
		},
		{
			name:     "nested Job object and Status object",
			body:     `{"Job":{"ID":7},"Status":{"ID":"38"}}`,
			wantKind: model.EventJobStatusChanged,
			wantJob:  "7",
			wantStat: 38,
		},
		{
			name:     "flat jobId and statusId",
			body:     `{"jobId":"9","statusId":12}`,
			wantKind: model.EventJobStatusChanged,
			wantJob:  "9",
			wantStat: 12,
		},
		{
			name:     "lower job object",
			body:     `{"job":{"id":"10"}}`,
			wantKind: model.EventJobStatusChanged,
			wantJob:  "10",
		},
		{
			name:     "first path wins",
			body:     `{"reference":{"jobID":"1"},"jobId":"2"}`,
			wantKind: model.EventJobStatusChanged,
			wantJob:  "1",
		},
		{
			name:     "deleted by action",
			body:     `{"reference":{"jobID":"123"},"action":"DELETED"}`,
			wantKind: model.EventJobDeleted,
			wantJob:  "123",
			wantAct:  "deleted",
		},
		{
			name:     "deleted by event id",
			body:     `{"ID":"job.deleted","reference":{"jobID":"123"}}`,
			wantKind: model.EventJobDeleted,
			wantJob:  "123",
		},
		{
			name:      "quote only",
			body:      `{"reference":{"quoteID":"999"},"action":"updated"}`,
			wantKind:  model.EventQuoteChanged,
			wantQuote: "999",
			wantAct:   "updated",
		},
		{
			name:      "quote object",
			body:      `{"Quote":{"ID":5}}`,
			wantKind:  model.EventQuoteChanged,
			wantQuote: "5",
		},
		{
			name:      "job and quote prefers job",
			body:      `{"reference":{"jobID":"1","quoteID":"2"}}`,
			wantKind:  model.EventJobStatusChanged,
			wantJob:   "1",
			wantQuote: "2",
		},
		{
			name:     "zero job id is absent",
			body:     `{"reference":{"jobID":0}}`,
			wantKind: model.EventUnknown,
		},
		{
			name:     "empty object",
			body:     `{}`,
			wantKind: model.EventUnknown,
		},
		{
			name:     "malformed json",
			body:     `{"reference":{"jobID":`,
			wantKind: model.EventUnknown,
		},
		{
			name:     "array body",
			body:     `[{"jobId":"1"}]`,
			wantKind: model.EventUnknown,
		},
		{
			name:     "empty body",
			body:     ``,
			wantKind: model.EventUnknown,
		},
		{
			name:     "wrong types",
			body:     `{"reference":{"jobID":{"x":1},"statusID":"abc"},"action":12}`,
			wantKind: model.EventUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev := Classify([]byte(tt.body), now)
			if ev.Kind != tt.wantKind {
				t.Errorf("Kind = %s, want %s", ev.Kind, tt.wantKind)
			}
			if ev.JobID != tt.wantJob {
				t.Errorf("JobID = %q, want %q", ev.JobID, tt.wantJob)
			}
			if ev.QuoteID != tt.wantQuote {
				t.Errorf("QuoteID = %q, want %q", ev.QuoteID, tt.wantQuote)
			}
			if ev.StatusID != tt.wantStat {
				t.Errorf("StatusID = %d, want %d", ev.StatusID, tt.wantStat)
			}
			if ev.RawAction != tt.wantAct {
				t.Errorf("RawAction = %q, want %q", ev.RawAction, tt.wantAct)
			}
			if !ev.ReceivedAt.Equal(now) {
				t.Errorf("ReceivedAt = %v, want %v", ev.ReceivedAt, now)
			}
		})
	}
}

func TestClassifyDeliveryFields(t *testing.T) {
	ev := Classify([]byte(`{"ID":"job.status","webhookID":"wh-1","date":"2025-03-15T10:00:00Z","reference":{"jobID":"1"}}`), time.Now())

	if ev.EventID != "job.status" || ev.WebhookID != "wh-1" || ev.Timestamp != "2025-03-15T10:00:00Z" {
		t.Errorf("unexpected delivery fields: %+v", ev)
	}
	if string(ev.Raw) == "" {
		t.Error("expected raw payload to be kept")
	}
}
