package datemath_test

import (
	"testing"
	"time"

	"jobcard-automation/pkg/datemath"
)

func TestComputeRenewalSchedule(t *testing.T) {
	s := datemath.ComputeRenewalSchedule(time.Date(2025, 3, 15, 14, 0, 0, 0, time.UTC))

	if got := datemath.FormatDate(s.StartDate); got != "2025-03-15" {
		t.Errorf("StartDate = %s", got)
	}
	if got := datemath.FormatDate(s.RenewalDueDate); got != "2026-03-15" {
		t.Errorf("RenewalDueDate = %s", got)
	}

	want := []struct {
		months int
		date   string
	}{{3, "2025-12-15"}, {2, "2026-01-15"}, {1, "2026-02-15"}}

	if len(s.Reminders) != len(want) {
		t.Fatalf("expected %d reminders, got %d", len(want), len(s.Reminders))
	}
	for i, w := range want {
		r := s.Reminders[i]
		if r.MonthsBefore != w.months || datemath.FormatDate(r.Date) != w.date {
			t.Errorf("reminder %d = {%d %s}, want {%d %s}", i, r.MonthsBefore, datemath.FormatDate(r.Date), w.months, w.date)
		}
	}
}

func TestRenewalScheduleInvariant(t *testing.T) {
	start := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	for d := start; d.Before(end); d = d.AddDate(0, 0, 1) {
		s := datemath.ComputeRenewalSchedule(d)

		if !s.RenewalDueDate.Equal(datemath.AddCalendarMonths(d, 12)) {
			t.Fatalf("%s: due date %s is not start+12 months", datemath.FormatDate(d), datemath.FormatDate(s.RenewalDueDate))
		}
		for i, r := range s.Reminders {
			if !r.Date.Before(s.RenewalDueDate) {
				t.Fatalf("%s: reminder %d not before due date", datemath.FormatDate(d), i)
			}
			if i > 0 && !s.Reminders[i-1].Date.Before(r.Date) {
				t.Fatalf("%s: reminders not strictly increasing at %d", datemath.FormatDate(d), i)
			}
		}
	}
}

func TestDueOn(t *testing.T) {
	s := datemath.ComputeRenewalSchedule(time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC))

	due := s.DueOn(time.Date(2026, 1, 15, 9, 0, 0, 0, time.UTC))
	if len(due) != 1 || due[0].MonthsBefore != 2 {
		t.Fatalf("expected the 2-month reminder, got %+v", due)
	}

	if due := s.DueOn(time.Date(2026, 1, 16, 0, 0, 0, 0, time.UTC)); len(due) != 0 {
		t.Errorf("expected nothing due, got %+v", due)
	}
}
