// Package parser extracts structured task fields from free-form
// natural-language input like "Buy milk @shopping #high due:tomorrow
// at 3pm". Extraction, metadata stripping, and validation are pure
// functions over the input string; a Parser value only carries the
// clock used to resolve relative dates, so concurrent use is safe.
package parser

import (
	"fmt"
	"strings"
	"time"
)

type ErrorCode string

const (
	ErrCodeEmptyInput         ErrorCode = "empty_input"
	ErrCodeMissingDescription ErrorCode = "missing_description"
	ErrCodeInvalidPriority    ErrorCode = "invalid_priority"
	ErrCodeInvalidEmail       ErrorCode = "invalid_email"
	ErrCodeInvalidTaskData    ErrorCode = "invalid_task_data"
)

type Error struct {
	Code    ErrorCode
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Fields is the transient result of a successful parse. It is handed
// to entity construction and never kept around; none of its members
// alias the raw input.
type Fields struct {
	Description string
	Tags        []string
	Priority    string
	DueDate     string
	AssignedTo  string
	Time        string
	Duration    string
}

// LineError records one failed input of a batch parse, tagged with its
// 1-based position in the input sequence.
type LineError struct {
	Line int
	Err  error
}

func (e LineError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

type Parser struct {
	now func() time.Time
}

// New returns a Parser that resolves relative dates against the wall
// clock.
func New() *Parser {
	return &Parser{now: time.Now}
}

// NewAt returns a Parser pinned to a fixed reference time, for
// deterministic resolution of expressions like "due:tomorrow".
func NewAt(ref time.Time) *Parser {
	return &Parser{now: func() time.Time { return ref }}
}

// Parse extracts structured fields from one raw task string. The
// returned error is always a *Error: empty_input for blank input,
// missing_description when stripping leaves no free text,
// invalid_priority and invalid_email for malformed extracted tokens,
// and invalid_task_data carrying every remaining violation joined
// with " | ".
func (p *Parser) Parse(raw string) (Fields, error) {
	if strings.TrimSpace(raw) == "" {
		return Fields{}, &Error{Code: ErrCodeEmptyInput, Message: "task string cannot be empty"}
	}

	ref := p.now()
	fields := Fields{
		Tags:       ExtractTags(raw),
		Priority:   ExtractPriority(raw),
		DueDate:    ExtractDueDate(raw, ref),
		AssignedTo: ExtractEmail(raw),
		Time:       ExtractTime(raw),
		Duration:   ExtractDuration(raw),
	}
	fields.Description = StripMetadata(raw)

	if fields.Description == "" {
		return Fields{}, &Error{Code: ErrCodeMissingDescription, Message: "task description is missing"}
	}

	// The extraction grammars already constrain these tokens; the
	// checks are re-applied so a looser grammar cannot slip a bad
	// value past this point.
	if fields.Priority != "" && !ValidPriority(fields.Priority) {
		return Fields{}, &Error{Code: ErrCodeInvalidPriority, Message: fmt.Sprintf("invalid priority: %s", fields.Priority)}
	}
	if fields.AssignedTo != "" && !ValidEmail(fields.AssignedTo) {
		return Fields{}, &Error{Code: ErrCodeInvalidEmail, Message: fmt.Sprintf("invalid email: %s", fields.AssignedTo)}
	}
	if fields.AssignedTo == "" {
		if m := assigneeTokenPattern.FindStringSubmatch(raw); m != nil {
			return Fields{}, &Error{Code: ErrCodeInvalidEmail, Message: fmt.Sprintf("invalid email: %s", m[1])}
		}
	}

	if errs := Violations(fields); len(errs) > 0 {
		return Fields{}, &Error{Code: ErrCodeInvalidTaskData, Message: strings.Join(errs, " | ")}
	}
	return fields, nil
}

// ParseAll parses each input independently and returns the successes
// in input order, plus a LineError per failed input. One bad line
// never aborts the batch.
func (p *Parser) ParseAll(lines []string) ([]Fields, []LineError) {
	parsed := make([]Fields, 0, len(lines))
	var failed []LineError
	for i, line := range lines {
		fields, err := p.Parse(line)
		if err != nil {
			failed = append(failed, LineError{Line: i + 1, Err: err})
			continue
		}
		parsed = append(parsed, fields)
	}
	return parsed, failed
}
