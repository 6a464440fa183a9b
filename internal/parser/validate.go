package parser

import (
	"fmt"
	"regexp"
	"time"
)

var (
	strictEmailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	strictTagPattern   = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)
)

// ValidEmail reports whether s is a syntactically valid email address.
func ValidEmail(s string) bool {
	return strictEmailPattern.MatchString(s)
}

// ValidPriority reports whether s names one of the canonical priority
// levels: high, medium, low.
func ValidPriority(s string) bool {
	switch s {
	case "high", "medium", "low":
		return true
	default:
		return false
	}
}

// ValidDate reports whether s is a real calendar date in YYYY-MM-DD
// form.
func ValidDate(s string) bool {
	if !literalDatePattern.MatchString(s) {
		return false
	}
	_, err := time.Parse(dateLayout, s)
	return err == nil
}

// ValidTag reports whether s is a well-formed tag: letters, digits,
// and underscores only.
func ValidTag(s string) bool {
	return strictTagPattern.MatchString(s)
}

// ValidTime reports whether s matches an accepted time grammar with
// the hour in range for its notation (0-23 for the 24-hour clock,
// 1-12 with am/pm).
func ValidTime(s string) bool {
	_, ok := ResolveTime(s)
	return ok
}

// Violations checks every field of a candidate independently and
// returns all constraint violations, in field order. Fields other
// than the description are optional; a violation means present but
// malformed. The candidate is valid iff the result is empty.
//
// Tags are re-checked even though the extraction grammar already
// constrains their charset, so candidates assembled from other
// sources (deserialized storage, direct construction) get the same
// screening.
func Violations(f Fields) []string {
	var errs []string

	if f.Description == "" {
		errs = append(errs, "task description is required")
	} else if CollapseWhitespace(f.Description) == "" {
		errs = append(errs, "task description cannot be empty")
	}
	if f.Priority != "" && !ValidPriority(f.Priority) {
		errs = append(errs, fmt.Sprintf("invalid priority: %q, must be high, medium, or low", f.Priority))
	}
	if f.AssignedTo != "" && !ValidEmail(f.AssignedTo) {
		errs = append(errs, fmt.Sprintf("invalid email address: %q", f.AssignedTo))
	}
	if f.DueDate != "" && !ValidDate(f.DueDate) {
		errs = append(errs, fmt.Sprintf("invalid date format: %q, use YYYY-MM-DD", f.DueDate))
	}
	for _, tag := range f.Tags {
		if !ValidTag(tag) {
			errs = append(errs, fmt.Sprintf("invalid tag format: %q", tag))
		}
	}
	if f.Time != "" && !ValidTime(f.Time) {
		errs = append(errs, fmt.Sprintf("invalid time format: %q", f.Time))
	}
	return errs
}
