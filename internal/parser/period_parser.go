package parser

import (
	"fmt"
	"regexp"
	"time"
)

var (
	dayRegex   = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	weekRegex  = regexp.MustCompile(`^\d{4}-W\d{2}$`)
	monthRegex = regexp.MustCompile(`^\d{4}-\d{2}$`)
)

// ParseDay validates a report date in yyyy-mm-dd form.
func ParseDay(input string) (string, error) {
	if !dayRegex.MatchString(input) {
		return "", fmt.Errorf("invalid date %q, use yyyy-mm-dd", input)
	}
	if _, err := time.Parse("2006-01-02", input); err != nil {
		return "", fmt.Errorf("invalid date %q: %v", input, err)
	}
	return input, nil
}

// ParseWeek validates an ISO week in yyyy-Www form (e.g. 2026-W07).
func ParseWeek(input string) (string, error) {
	if !weekRegex.MatchString(input) {
		return "", fmt.Errorf("invalid week %q, use yyyy-Www (e.g. 2026-W07)", input)
	}
	var year, week int
	if _, err := fmt.Sscanf(input, "%d-W%d", &year, &week); err != nil {
		return "", fmt.Errorf("invalid week %q", input)
	}
	if week < 1 || week > 53 {
		return "", fmt.Errorf("week must be between 1 and 53")
	}
	return input, nil
}

// ParseMonth validates a month in yyyy-mm form.
func ParseMonth(input string) (string, error) {
	if !monthRegex.MatchString(input) {
		return "", fmt.Errorf("invalid month %q, use yyyy-mm", input)
	}
	if _, err := time.Parse("2006-01", input); err != nil {
		return "", fmt.Errorf("invalid month %q: %v", input, err)
	}
	return input, nil
}

// ParseRange validates a custom report range given as two yyyy-mm-dd dates.
// The start must not be after the end.
func ParseRange(start, end string) (string, string, error) {
	s, err := ParseDay(start)
	if err != nil {
		return "", "", err
	}
	e, err := ParseDay(end)
	if err != nil {
		return "", "", err
	}
	startT, _ := time.Parse("2006-01-02", s)
	endT, _ := time.Parse("2006-01-02", e)
	if startT.After(endT) {
		return "", "", fmt.Errorf("range start %s is after end %s", s, e)
	}
	return s, e, nil
}
