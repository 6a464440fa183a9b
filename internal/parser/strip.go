package parser

import "strings"

// StripMetadata removes every metadata token from text and returns the
// remaining free text as the description candidate. Removal covers
// tags, priority, both due-date forms, assignee, time, and duration;
// runs of whitespace left behind collapse to single spaces.
// Stripping is idempotent: a second pass is a no-op.
func StripMetadata(text string) string {
	out := tagPattern.ReplaceAllString(text, "")
	out = priorityPattern.ReplaceAllString(out, "")
	out = dueDatePattern.ReplaceAllString(out, "")
	out = relativeDatePattern.ReplaceAllString(out, "")
	out = emailPattern.ReplaceAllString(out, "")
	out = timePattern.ReplaceAllString(out, "")
	out = durationPattern.ReplaceAllString(out, "")
	return CollapseWhitespace(out)
}

// CollapseWhitespace reduces consecutive whitespace to single spaces
// and trims the ends.
func CollapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
