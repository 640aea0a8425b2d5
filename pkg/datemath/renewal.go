package datemath

import "time"

// RenewalTermMonths is the length of a maintenance contract.
const RenewalTermMonths = 12

// ReminderOffsets are the months-before-renewal checkpoints, earliest first.
var ReminderOffsets = []int{3, 2, 1}

// Reminder is a checkpoint ahead of the renewal due date.
type Reminder struct {
	MonthsBefore int       `json:"months_before"`
	Date         time.Time `json:"date"`
}

// RenewalSchedule is the contract timeline derived from a completion date.
type RenewalSchedule struct {
	StartDate      time.Time  `json:"start_date"`
	RenewalDueDate time.Time  `json:"renewal_due_date"`
	Reminders      []Reminder `json:"reminders"`
}

// ComputeRenewalSchedule derives the renewal due date and reminders from the
// completion date. Reminders are strictly increasing and strictly before the due date.
func ComputeRenewalSchedule(completed time.Time) RenewalSchedule {
	start := DateOnly(completed)
	due := AddCalendarMonths(start, RenewalTermMonths)

	reminders := make([]Reminder, 0, len(ReminderOffsets))
	for _, monthsBefore := range ReminderOffsets {
		reminders = append(reminders, Reminder{
			MonthsBefore: monthsBefore,
			Date:         AddCalendarMonths(due, -monthsBefore),
		})
	}

	return RenewalSchedule{
		StartDate:      start,
		RenewalDueDate: due,
		Reminders:      reminders,
	}
}

// DueOn returns the reminders whose date is the same calendar day as day.
func (s RenewalSchedule) DueOn(day time.Time) []Reminder {
	var due []Reminder
	for _, r := range s.Reminders {
		if SameDay(r.Date, day) {
			due = append(due, r)
		}
	}
	return due
}
