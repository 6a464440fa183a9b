package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

var (
	literalDatePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	dayCountPattern    = regexp.MustCompile(`(\d+)\s*days?`)
	weekCountPattern   = regexp.MustCompile(`(\d+)\s*weeks?`)
	clockPattern       = regexp.MustCompile(`^\d{1,2}:\d{2}$`)
	meridiemPattern    = regexp.MustCompile(`^(\d{1,2})(?::(\d{2}))?\s*(am|pm)$`)
)

// ResolveDate turns a literal or relative date expression into its
// canonical YYYY-MM-DD form. Literal dates must name a real calendar
// day; relative keywords are evaluated against ref. The second return
// is false when the expression is not recognized or not a valid date.
func ResolveDate(raw string, ref time.Time) (string, bool) {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return "", false
	}

	if literalDatePattern.MatchString(s) {
		if _, err := time.Parse(dateLayout, s); err != nil {
			return "", false
		}
		return s, true
	}

	if offset, ok := RelativeOffset(s); ok {
		return ref.AddDate(0, 0, offset).Format(dateLayout), true
	}
	return "", false
}

// RelativeOffset resolves a relative date expression to a day offset
// from the reference date. First matching rule wins: today, tomorrow,
// yesterday, "next week" (+7), "next month" (+30, a fixed
// approximation that is not calendar-month aware), "N day(s)",
// "N week(s)".
func RelativeOffset(raw string) (int, bool) {
	// Collapse interior runs of whitespace so "next   week" and
	// "next week" resolve alike.
	s := strings.Join(strings.Fields(strings.ToLower(raw)), " ")

	switch s {
	case "today":
		return 0, true
	case "tomorrow":
		return 1, true
	case "yesterday":
		return -1, true
	}
	if strings.Contains(s, "next week") {
		return 7, true
	}
	if strings.Contains(s, "next month") {
		return 30, true
	}
	if m := dayCountPattern.FindStringSubmatch(s); m != nil {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			return 0, false
		}
		return n, true
	}
	if m := weekCountPattern.FindStringSubmatch(s); m != nil {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			return 0, false
		}
		return n * 7, true
	}
	return 0, false
}

// ResolveTime normalizes a time expression to 24-hour HH:MM. Accepts
// "14:00" style 24-hour clock (hours 0-23) and "3pm" / "3:30pm" style
// 12-hour clock (hours 1-12; 12am maps to 00, 12pm stays 12).
func ResolveTime(raw string) (string, bool) {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return "", false
	}

	if clockPattern.MatchString(s) {
		parts := strings.SplitN(s, ":", 2)
		hour, _ := strconv.Atoi(parts[0])
		minute, _ := strconv.Atoi(parts[1])
		if hour > 23 || minute > 59 {
			return "", false
		}
		return fmt.Sprintf("%02d:%02d", hour, minute), true
	}

	m := meridiemPattern.FindStringSubmatch(s)
	if m == nil {
		return "", false
	}
	hour, _ := strconv.Atoi(m[1])
	minute := 0
	if m[2] != "" {
		minute, _ = strconv.Atoi(m[2])
	}
	if hour < 1 || hour > 12 || minute > 59 {
		return "", false
	}
	switch {
	case m[3] == "pm" && hour != 12:
		hour += 12
	case m[3] == "am" && hour == 12:
		hour = 0
	}
	return fmt.Sprintf("%02d:%02d", hour, minute), true
}
