package model

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/sandeepkv93/taskline/internal/parser"
)

func TestNewTaskFromFields(t *testing.T) {
	now := time.Date(2025, 10, 17, 12, 0, 0, 0, time.UTC)
	task, err := NewTask(parser.Fields{
		Description: "Buy groceries",
		Tags:        []string{"Shopping", "shopping", "errands"},
		Priority:    "HIGH",
		DueDate:     "2025-10-20",
		AssignedTo:  "Alice@Example.COM",
		Time:        "15:00",
		Duration:    "1h",
	}, now)
	if err != nil {
		t.Fatalf("new task: %v", err)
	}
	if task.ID == "" {
		t.Fatal("expected generated id")
	}
	if task.Status != StatusIncomplete {
		t.Fatalf("status = %s", task.Status)
	}
	if task.Priority != PriorityHigh {
		t.Fatalf("priority = %s", task.Priority)
	}
	if !reflect.DeepEqual(task.Tags, []string{"shopping", "errands"}) {
		t.Fatalf("tags = %v", task.Tags)
	}
	if task.AssignedTo != "alice@example.com" {
		t.Fatalf("assigned_to = %s", task.AssignedTo)
	}
	if !task.CreatedAt.Equal(now) || !task.UpdatedAt.Equal(now) {
		t.Fatalf("timestamps = %v / %v", task.CreatedAt, task.UpdatedAt)
	}
}

func TestNewTaskRejectsBadPriority(t *testing.T) {
	now := time.Date(2025, 10, 17, 12, 0, 0, 0, time.UTC)
	_, err := NewTask(parser.Fields{Description: "Task", Priority: "critical"}, now)
	if err == nil || !errors.Is(err, ErrInvalidPriority) {
		t.Fatalf("expected ErrInvalidPriority, got %v", err)
	}
}

func TestValidateRejectsBadStatus(t *testing.T) {
	now := time.Date(2025, 10, 17, 12, 0, 0, 0, time.UTC)
	task, err := NewTask(parser.Fields{Description: "Task"}, now)
	if err != nil {
		t.Fatalf("new task: %v", err)
	}
	task.Status = Status("archived")
	if err := task.Validate(); err == nil || !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}
}

func TestMarkCompleteAndReopen(t *testing.T) {
	created := time.Date(2025, 10, 17, 12, 0, 0, 0, time.UTC)
	later := created.Add(2 * time.Hour)

	task, err := NewTask(parser.Fields{Description: "Task"}, created)
	if err != nil {
		t.Fatalf("new task: %v", err)
	}
	task.MarkComplete(later)
	if !task.IsComplete() || !task.UpdatedAt.Equal(later) {
		t.Fatalf("after complete: %+v", task)
	}
	task.MarkIncomplete(later.Add(time.Hour))
	if task.IsComplete() {
		t.Fatal("expected incomplete after reopen")
	}
}

func TestTagMutations(t *testing.T) {
	now := time.Date(2025, 10, 17, 12, 0, 0, 0, time.UTC)
	task, err := NewTask(parser.Fields{Description: "Task"}, now)
	if err != nil {
		t.Fatalf("new task: %v", err)
	}
	task.AddTag("Work", now)
	task.AddTag("work", now)
	if !reflect.DeepEqual(task.Tags, []string{"work"}) {
		t.Fatalf("tags = %v", task.Tags)
	}
	task.RemoveTag("WORK", now)
	if len(task.Tags) != 0 {
		t.Fatalf("tags after remove = %v", task.Tags)
	}
}

func TestSetPriority(t *testing.T) {
	now := time.Date(2025, 10, 17, 12, 0, 0, 0, time.UTC)
	task, err := NewTask(parser.Fields{Description: "Task", Priority: "low"}, now)
	if err != nil {
		t.Fatalf("new task: %v", err)
	}
	if err := task.SetPriority("HIGH", now); err != nil {
		t.Fatalf("set priority: %v", err)
	}
	if task.Priority != PriorityHigh {
		t.Fatalf("priority = %s", task.Priority)
	}
	if err := task.SetPriority("urgent", now); err == nil {
		t.Fatal("expected error for unknown priority")
	}
}

func TestOverdue(t *testing.T) {
	now := time.Date(2025, 10, 17, 12, 0, 0, 0, time.UTC)
	task, err := NewTask(parser.Fields{Description: "Task", DueDate: "2025-10-16"}, now)
	if err != nil {
		t.Fatalf("new task: %v", err)
	}
	if !task.Overdue(now) {
		t.Fatal("expected overdue")
	}
	task.DueDate = "2025-10-17"
	if task.Overdue(now) {
		t.Fatal("due today is not overdue")
	}
	task.DueDate = "2025-10-16"
	task.MarkComplete(now)
	if task.Overdue(now) {
		t.Fatal("complete tasks are never overdue")
	}
}
