package reconcile

import (
	"fmt"
	"strings"

	"jobcard-automation/internal/model"
	"jobcard-automation/pkg/datemath"
)

func describeField(f model.CustomField) string {
	switch {
	case f.Name != "" && f.ID != "":
		return fmt.Sprintf("%q (id %s)", f.Name, f.ID)
	case f.Name != "":
		return fmt.Sprintf("%q", f.Name)
	default:
		return "id " + f.ID
	}
}

func conversionDescription(job model.JobLinkInfo, quote model.QuoteAutomationView, field model.CustomField, tagID int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Job #%s was converted from maintenance quote #%s and tagged %d.\n", job.DisplayNumber(), quote.DisplayNumber(), tagID)
	if customer := firstNonEmpty(job.CustomerName, quote.CustomerName); customer != "" {
		fmt.Fprintf(&b, "Customer: %s\n", customer)
	}
	if job.SiteName != "" {
		fmt.Fprintf(&b, "Site: %s\n", job.SiteName)
	}
	fmt.Fprintf(&b, "Set up the maintenance contract. Trigger: %s = %q.", describeField(field), field.Value)
	return b.String()
}

func tagNoteBody(job model.JobLinkInfo, quote model.QuoteAutomationView, field model.CustomField, tagID int) string {
	return fmt.Sprintf(
		"Maintenance tag %d applied to Job #%s.\nTrigger: quote #%s field %s = %q.",
		tagID, job.DisplayNumber(), quote.DisplayNumber(), describeField(field), field.Value,
	)
}

func completionDescription(job model.JobLinkInfo, s datemath.RenewalSchedule) string {
	return fmt.Sprintf(
		"Maintenance contract for Job #%s starts %s. Renewal due %s.",
		job.DisplayNumber(), datemath.FormatDate(s.StartDate), datemath.FormatDate(s.RenewalDueDate),
	)
}

func scheduleNoteBody(job model.JobLinkInfo, s datemath.RenewalSchedule) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Maintenance schedule for Job #%s\n", job.DisplayNumber())
	fmt.Fprintf(&b, "Start date: %s\n", datemath.FormatDate(s.StartDate))
	fmt.Fprintf(&b, "Renewal due: %s\n", datemath.FormatDate(s.RenewalDueDate))
	b.WriteString("Reminders:")
	for _, r := range s.Reminders {
		fmt.Fprintf(&b, "\n- %d month(s) before: %s", r.MonthsBefore, datemath.FormatDate(r.Date))
	}
	return b.String()
}

func quoteReviewDescription(quote model.QuoteAutomationView, field model.CustomField) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Quote #%s", quote.DisplayNumber())
	if quote.CustomerName != "" {
		fmt.Fprintf(&b, " for %s", quote.CustomerName)
	}
	fmt.Fprintf(&b, " is marked for a maintenance contract: %s = %q.", describeField(field), field.Value)
	return b.String()
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
