package model

import (
	"fmt"
	"time"

	"jobcard-automation/pkg/datemath"
)

// Task subjects are business keys: a task carrying exactly the same subject
// means the work was already done. Changing a format re-creates tasks.

// ConversionTaskSubject names the task raised when a job gains the maintenance tag.
func ConversionTaskSubject(job JobLinkInfo) string {
	return fmt.Sprintf("Maintenance conversion: Job #%s", job.DisplayNumber())
}

// CompletionTaskSubject names the completion-day task for a maintenance job.
func CompletionTaskSubject(job JobLinkInfo, completed time.Time) string {
	return fmt.Sprintf("Maintenance start: Job #%s (%s)", job.DisplayNumber(), datemath.FormatDate(completed))
}

// RenewalReminderSubject names a renewal reminder task.
func RenewalReminderSubject(job JobLinkInfo, monthsBefore int, due time.Time) string {
	unit := "months"
	if monthsBefore == 1 {
		unit = "month"
	}
	return fmt.Sprintf("Maintenance renewal reminder (%d %s): Job #%s due %s", monthsBefore, unit, job.DisplayNumber(), datemath.FormatDate(due))
}

// QuoteReviewSubject names the review task for a quote that matched the trigger.
func QuoteReviewSubject(quote QuoteAutomationView) string {
	return fmt.Sprintf("Review maintenance quote #%s", quote.DisplayNumber())
}

// TagMarker is embedded in the audit note posted when the maintenance tag is applied.
func TagMarker(jobID string, tagID int) string {
	return fmt.Sprintf("[MC_AUTOMATION:TAG:%s:%d]", jobID, tagID)
}

// ScheduleMarker is embedded in the renewal schedule note.
func ScheduleMarker(jobID string, completed time.Time) string {
	return fmt.Sprintf("[MC_AUTOMATION:SCHEDULE:%s:%s]", jobID, datemath.FormatDate(completed))
}
