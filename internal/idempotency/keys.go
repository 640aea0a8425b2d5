package idempotency

import (
	"strconv"
	"strings"

	"jobcard-automation/internal/model"
)

// EventKey identifies one webhook delivery: kind, entity id, raw action and
// event id, plus whichever of webhook id, status and timestamp the sender
// supplied. Deliveries that differ in action or event id never share a key.
func EventKey(ev model.WebhookEvent) string {
	entity := ev.JobID
	if entity == "" {
		entity = ev.QuoteID
	}
	status := ""
	if ev.HasStatus() {
		status = strconv.Itoa(ev.StatusID)
	}
	return join("event", string(ev.Kind), entity, ev.RawAction, ev.EventID, ev.WebhookID, status, ev.Timestamp)
}

// CompletionKey identifies completion scheduling for one job and completed date.
func CompletionKey(jobID, completedDate string) string {
	return join("completion", jobID, completedDate, "status"+strconv.Itoa(model.StatusCompleted))
}

// ManualKey identifies an operator-triggered action.
func ManualKey(parts ...string) string {
	return join(append([]string{"manual"}, parts...)...)
}

func join(parts ...string) string {
	return strings.Join(parts, "|")
}
