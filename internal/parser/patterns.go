package parser

import "regexp"

// Compiled metadata token matchers. The grammars are fixed; the
// registry is built once and read-only afterwards, so concurrent use
// needs no synchronization.
var (
	// Tags like @shopping, at the start of the input or after
	// whitespace. Example: "Buy milk @shopping" captures "shopping".
	tagPattern = regexp.MustCompile(`(?i)(^|\s)@(\w+)`)

	// Priority levels: #high, #medium, #low. Any other #word is not a
	// priority token and is left alone.
	priorityPattern = regexp.MustCompile(`(?i)#(high|medium|low)`)

	// Absolute due dates: due:2025-10-20.
	dueDatePattern = regexp.MustCompile(`due:(\d{4}-\d{2}-\d{2})`)

	// Relative due dates: due:tomorrow, due:next week.
	relativeDatePattern = regexp.MustCompile(`(?i)due:(today|tomorrow|yesterday|next\s+week|next\s+month)`)

	// Assignees: assigned:alice@example.com.
	emailPattern = regexp.MustCompile(`(?i)assigned:([a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,})`)

	// Any assignee-shaped token, valid or not. Used to tell "no
	// assignee" apart from "assignee present but malformed".
	assigneeTokenPattern = regexp.MustCompile(`(?i)assigned:(\S+)`)

	// Times: "at 3pm", "by 5:30 PM", "at 14:00". Captures hour,
	// optional minutes, optional am/pm.
	timePattern = regexp.MustCompile(`(?i)(?:at|by)\s+(\d{1,2})(?::(\d{2}))?\s*(am|pm)?`)

	// Durations as whole words: "1h", "30m", "2h30m".
	durationPattern = regexp.MustCompile(`\b\d+h\d*m?\b|\b\d+m\b`)
)

var patterns = map[string]*regexp.Regexp{
	"tag":           tagPattern,
	"priority":      priorityPattern,
	"due_date":      dueDatePattern,
	"relative_date": relativeDatePattern,
	"email":         emailPattern,
	"time":          timePattern,
	"duration":      durationPattern,
}

// Pattern returns the compiled matcher registered under name, or nil
// if no such pattern exists.
func Pattern(name string) *regexp.Regexp {
	return patterns[name]
}
