package model

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sandeepkv93/taskline/internal/parser"
)

var (
	ErrInvalidPriority = errors.New("model: invalid task priority")
	ErrInvalidStatus   = errors.New("model: invalid task status")
)

// Priority is one of the three canonical levels, or empty for none.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

func (p Priority) IsValid() bool {
	switch p {
	case "", PriorityHigh, PriorityMedium, PriorityLow:
		return true
	default:
		return false
	}
}

type Status string

const (
	StatusIncomplete Status = "incomplete"
	StatusComplete   Status = "complete"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusIncomplete, StatusComplete:
		return true
	default:
		return false
	}
}

// Task is a single tracked todo item. DueDate is canonical
// YYYY-MM-DD, Time is 24-hour HH:MM, Duration is a free-form token
// like "1h30m"; all three are empty when unset.
type Task struct {
	ID          string
	Description string
	Tags        []string
	Priority    Priority
	DueDate     string
	AssignedTo  string
	Status      Status
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Time        string
	Duration    string
}

// NewTask builds a Task from parsed fields: fresh uuid, status
// incomplete, both timestamps set to now. Priority and status are
// validated here again, independent of the parser, so tasks
// constructed from other sources get the same screening.
func NewTask(fields parser.Fields, now time.Time) (Task, error) {
	task := Task{
		ID:          uuid.NewString(),
		Description: strings.TrimSpace(fields.Description),
		Tags:        normalizeTags(fields.Tags),
		Priority:    Priority(strings.ToLower(fields.Priority)),
		DueDate:     fields.DueDate,
		AssignedTo:  strings.ToLower(fields.AssignedTo),
		Status:      StatusIncomplete,
		CreatedAt:   now,
		UpdatedAt:   now,
		Time:        fields.Time,
		Duration:    fields.Duration,
	}
	if err := task.Validate(); err != nil {
		return Task{}, err
	}
	return task, nil
}

func (t Task) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return errors.New("model: task id is required")
	}
	if strings.TrimSpace(t.Description) == "" {
		return errors.New("model: task description is required")
	}
	if !t.Priority.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidPriority, t.Priority)
	}
	if !t.Status.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, t.Status)
	}
	if t.DueDate != "" && !parser.ValidDate(t.DueDate) {
		return fmt.Errorf("model: invalid due date %q", t.DueDate)
	}
	if t.AssignedTo != "" && !parser.ValidEmail(t.AssignedTo) {
		return fmt.Errorf("model: invalid assignee %q", t.AssignedTo)
	}
	if t.CreatedAt.IsZero() {
		return errors.New("model: task created_at is required")
	}
	return nil
}

func (t Task) IsComplete() bool {
	return t.Status == StatusComplete
}

// Overdue reports whether an incomplete task's due date has passed
// relative to the given day.
func (t Task) Overdue(today time.Time) bool {
	if t.DueDate == "" || t.IsComplete() {
		return false
	}
	due, err := time.Parse("2006-01-02", t.DueDate)
	if err != nil {
		return false
	}
	day := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	return due.Before(day)
}

func (t *Task) MarkComplete(now time.Time) {
	t.Status = StatusComplete
	t.UpdatedAt = now
}

func (t *Task) MarkIncomplete(now time.Time) {
	t.Status = StatusIncomplete
	t.UpdatedAt = now
}

// AddTag appends a tag unless already present. Tags are kept
// lowercase.
func (t *Task) AddTag(tag string, now time.Time) {
	tag = strings.ToLower(tag)
	if t.HasTag(tag) {
		return
	}
	t.Tags = append(t.Tags, tag)
	t.UpdatedAt = now
}

func (t *Task) RemoveTag(tag string, now time.Time) {
	tag = strings.ToLower(tag)
	for i, existing := range t.Tags {
		if existing == tag {
			t.Tags = append(t.Tags[:i], t.Tags[i+1:]...)
			t.UpdatedAt = now
			return
		}
	}
}

func (t Task) HasTag(tag string) bool {
	tag = strings.ToLower(tag)
	for _, existing := range t.Tags {
		if existing == tag {
			return true
		}
	}
	return false
}

// SetPriority changes the priority, rejecting unknown levels.
func (t *Task) SetPriority(p Priority, now time.Time) error {
	p = Priority(strings.ToLower(string(p)))
	if !p.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidPriority, p)
	}
	t.Priority = p
	t.UpdatedAt = now
	return nil
}

func normalizeTags(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(tags))
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		lower := strings.ToLower(tag)
		if seen[lower] {
			continue
		}
		seen[lower] = true
		out = append(out, lower)
	}
	return out
}
