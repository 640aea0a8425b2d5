package webhook

import (
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"jobcard-automation/internal/model"
)

// Extraction attempts, first non-empty wins.
var (
	jobIDPaths     = []string{"reference.jobID", "reference.jobId", "Job.ID", "jobId", "job.id"}
	quoteIDPaths   = []string{"reference.quoteID", "Quote.ID", "quoteId", "quote.id"}
	statusIDPaths  = []string{"reference.statusID", "Status.ID", "statusId"}
	actionPaths    = []string{"action", "Action"}
	eventIDPaths   = []string{"ID", "id", "event", "eventID", "eventId"}
	webhookIDPaths = []string{"webhookID", "webhookId", "deliveryID", "deliveryId"}
	timestampPaths = []string{"date", "Date", "timestamp", "dateTime"}
)

const deletedEventMarker = "job.deleted"

// Classify turns a raw webhook body into a WebhookEvent. It has no side
// effects and never panics: a body that is not a JSON object yields an
// Unknown event with every optional field empty.
func Classify(raw []byte, receivedAt time.Time) model.WebhookEvent {
	ev := model.WebhookEvent{
		Kind:       model.EventUnknown,
		Raw:        raw,
		ReceivedAt: receivedAt,
	}
	if !gjson.ValidBytes(raw) {
		return ev
	}
	body := gjson.ParseBytes(raw)
	if !body.IsObject() {
		return ev
	}

	ev.JobID = firstID(body, jobIDPaths...)
	ev.QuoteID = firstID(body, quoteIDPaths...)
	ev.StatusID = firstPositive(body, statusIDPaths...)
	ev.RawAction = strings.ToLower(firstString(body, actionPaths...))
	ev.EventID = firstString(body, eventIDPaths...)
	ev.WebhookID = firstString(body, webhookIDPaths...)
	ev.Timestamp = firstString(body, timestampPaths...)

	switch {
	case ev.RawAction == model.ActionDeleted || strings.Contains(strings.ToLower(ev.EventID), deletedEventMarker):
		ev.Kind = model.EventJobDeleted
	case ev.JobID != "":
		ev.Kind = model.EventJobStatusChanged
	case ev.QuoteID != "":
		ev.Kind = model.EventQuoteChanged
	}
	return ev
}

// firstID returns the first id rendered as a string. Zero ids are absent.
func firstID(body gjson.Result, paths ...string) string {
	for _, p := range paths {
		v := body.Get(p)
		var s string
		switch v.Type {
		case gjson.Number:
			if v.Num == float64(int64(v.Num)) {
				s = strconv.FormatInt(int64(v.Num), 10)
			}
		case gjson.String:
			s = strings.TrimSpace(v.Str)
		}
		if s != "" && s != "0" {
			return s
		}
	}
	return ""
}

func firstString(body gjson.Result, paths ...string) string {
	for _, p := range paths {
		v := body.Get(p)
		if v.Type == gjson.String {
			if s := strings.TrimSpace(v.Str); s != "" {
				return s
			}
		}
	}
	return ""
}

func firstPositive(body gjson.Result, paths ...string) int {
	for _, p := range paths {
		v := body.Get(p)
		var n int
		switch v.Type {
		case gjson.Number:
			n = int(v.Int())
		case gjson.String:
			n, _ = strconv.Atoi(strings.TrimSpace(v.Str))
		}
		if n > 0 {
			return n
		}
	}
	return 0
}
