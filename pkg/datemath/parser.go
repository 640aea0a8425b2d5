package datemath

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var relativePattern = regexp.MustCompile(`^(?:in )?([+-]?\d+) ?(d|day|days|month|months)( ago)?$`)

// Parser resolves operator-supplied date expressions ("today", "tomorrow",
// "in 3 days", "-1 month", "2025-03-15") against a reference time.
type Parser struct {
	location *time.Location
}

// NewParser creates a parser that interprets "today" in the given IANA timezone.
func NewParser(timezone string) (*Parser, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", timezone, err)
	}
	return &Parser{location: loc}, nil
}

// Today returns the calendar date of base in the parser's timezone, as a UTC date.
func (p *Parser) Today(base time.Time) time.Time {
	local := base.In(p.location)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)
}

// Parse resolves expr to a UTC calendar date. An empty expression means today.
func (p *Parser) Parse(expr string, base time.Time) (time.Time, error) {
	if t, ok := ParseDate(expr); ok {
		return t, nil
	}

	expr = strings.ToLower(strings.TrimSpace(expr))
	today := p.Today(base)

	switch expr {
	case "", "today":
		return today, nil
	case "tomorrow":
		return today.AddDate(0, 0, 1), nil
	case "yesterday":
		return today.AddDate(0, 0, -1), nil
	}

	m := relativePattern.FindStringSubmatch(expr)
	if m == nil {
		return time.Time{}, fmt.Errorf("unrecognised date expression: %q", expr)
	}

	amount, err := strconv.Atoi(m[1])
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid amount in %q: %w", expr, err)
	}
	if m[3] != "" {
		amount = -amount
	}

	if strings.HasPrefix(m[2], "month") {
		return AddCalendarMonths(today, amount), nil
	}
	return today.AddDate(0, 0, amount), nil
}
