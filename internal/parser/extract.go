package parser

import (
	"strings"
	"time"
)

// ExtractTags returns every tag in text, lowercased, in order of first
// appearance, with duplicates collapsed.
func ExtractTags(text string) []string {
	matches := tagPattern.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(matches))
	tags := make([]string, 0, len(matches))
	for _, m := range matches {
		tag := strings.ToLower(m[2])
		if seen[tag] {
			continue
		}
		seen[tag] = true
		tags = append(tags, tag)
	}
	return tags
}

// ExtractPriority returns the first priority token in text, lowercased,
// or empty if none is present.
func ExtractPriority(text string) string {
	m := priorityPattern.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	return strings.ToLower(m[1])
}

// ExtractDueDate returns the due date in canonical YYYY-MM-DD form.
// The absolute due: form is tried first; failing that, a relative
// keyword is resolved against ref.
func ExtractDueDate(text string, ref time.Time) string {
	if m := dueDatePattern.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	if m := relativeDatePattern.FindStringSubmatch(text); m != nil {
		if date, ok := ResolveDate(m[1], ref); ok {
			return date
		}
	}
	return ""
}

// ExtractEmail returns the first assignee email in text, lowercased,
// or empty if none is present.
func ExtractEmail(text string) string {
	m := emailPattern.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	return strings.ToLower(m[1])
}

// ExtractTime returns the first time expression in text normalized to
// 24-hour HH:MM, or empty if none is present or the hour is out of
// range for its notation.
func ExtractTime(text string) string {
	m := timePattern.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	hour := m[1]
	minute := m[2]
	if minute == "" {
		minute = "00"
	}
	period := m[3]
	if normalized, ok := ResolveTime(hour + ":" + minute + period); ok {
		return normalized
	}
	return ""
}

// ExtractDuration returns the first duration token in text ("1h30m",
// "2h", "45m"), or empty if none is present.
func ExtractDuration(text string) string {
	return durationPattern.FindString(text)
}
