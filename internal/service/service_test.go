package service

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/sandeepkv93/taskline/internal/model"
	"github.com/sandeepkv93/taskline/internal/parser"
	"github.com/sandeepkv93/taskline/internal/storage"
)

var testRef = time.Date(2025, 10, 17, 10, 0, 0, 0, time.UTC)

func setupService(t *testing.T) *TaskService {
	t.Helper()
	repo, err := storage.OpenJSON(filepath.Join(t.TempDir(), "tasks.json"), 0)
	if err != nil {
		t.Fatalf("open repo: %v", err)
	}
	return NewAt(repo, testRef)
}

func TestAddFromStringStoresParsedTask(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	task, err := svc.AddFromString(ctx,
		"Buy groceries @shopping #high due:2025-10-20 assigned:alice@example.com at 3pm")
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if task.Description != "Buy groceries" || task.Priority != model.PriorityHigh {
		t.Fatalf("unexpected task: %#v", task)
	}

	stored, err := svc.Get(ctx, task.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if stored.DueDate != "2025-10-20" || stored.Time != "15:00" || stored.AssignedTo != "alice@example.com" {
		t.Fatalf("unexpected stored task: %#v", stored)
	}
	if stored.Status != model.StatusIncomplete {
		t.Fatalf("status = %s", stored.Status)
	}
}

func TestAddFromStringRelativeDateUsesReference(t *testing.T) {
	svc := setupService(t)
	task, err := svc.AddFromString(context.Background(), "Call client due:tomorrow")
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if task.DueDate != "2025-10-18" {
		t.Fatalf("due date = %q", task.DueDate)
	}
}

func TestAddFromStringSurfacesParserError(t *testing.T) {
	svc := setupService(t)
	_, err := svc.AddFromString(context.Background(), "@shopping #high")
	var pe *parser.Error
	if !errors.As(err, &pe) || pe.Code != parser.ErrCodeMissingDescription {
		t.Fatalf("expected missing description error, got %v", err)
	}
}

func TestCompleteAndReopen(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	task, err := svc.AddFromString(ctx, "Water plants")
	if err != nil {
		t.Fatalf("add: %v", err)
	}

	completed, err := svc.Complete(ctx, task.ID)
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if completed.Status != model.StatusComplete {
		t.Fatalf("status = %s", completed.Status)
	}

	reopened, err := svc.Reopen(ctx, task.ID)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if reopened.Status != model.StatusIncomplete {
		t.Fatalf("status = %s", reopened.Status)
	}

	if _, err := svc.Complete(ctx, "missing"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListsAndFilters(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	lines := []string{
		"Buy milk @shopping #high due:2025-10-16",
		"Review code @work",
		"Old chore @home",
	}
	added, failed := svc.ImportLines(ctx, lines)
	if len(failed) != 0 {
		t.Fatalf("unexpected failures: %v", failed)
	}
	if _, err := svc.Complete(ctx, added[2].ID); err != nil {
		t.Fatalf("complete: %v", err)
	}

	incomplete, err := svc.ListIncomplete(ctx)
	if err != nil || len(incomplete) != 2 {
		t.Fatalf("incomplete = %d, %v", len(incomplete), err)
	}
	complete, err := svc.ListComplete(ctx)
	if err != nil || len(complete) != 1 {
		t.Fatalf("complete = %d, %v", len(complete), err)
	}
	high, err := svc.ByPriority(ctx, model.PriorityHigh)
	if err != nil || len(high) != 1 || high[0].Description != "Buy milk" {
		t.Fatalf("by priority = %#v, %v", high, err)
	}
	tagged, err := svc.ByTag(ctx, "work")
	if err != nil || len(tagged) != 1 || tagged[0].Description != "Review code" {
		t.Fatalf("by tag = %#v, %v", tagged, err)
	}
	overdue, err := svc.Overdue(ctx)
	if err != nil || len(overdue) != 1 || overdue[0].Description != "Buy milk" {
		t.Fatalf("overdue = %#v, %v", overdue, err)
	}
	found, err := svc.Search(ctx, "REVIEW")
	if err != nil || len(found) != 1 {
		t.Fatalf("search = %#v, %v", found, err)
	}

	counts, err := svc.Counts(ctx)
	if err != nil || counts.Total != 3 || counts.Complete != 1 || counts.Incomplete != 2 {
		t.Fatalf("counts = %+v, %v", counts, err)
	}
}

func TestImportLinesRecordsFailures(t *testing.T) {
	svc := setupService(t)
	added, failed := svc.ImportLines(context.Background(), []string{
		"Buy milk @shopping",
		"@shopping #high",
		"Review code @work",
	})
	if len(added) != 2 {
		t.Fatalf("added = %d, want 2", len(added))
	}
	if len(failed) != 1 || failed[0].Line != 2 {
		t.Fatalf("failed = %v", failed)
	}
}

func TestClearCompleted(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	first, err := svc.AddFromString(ctx, "One")
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := svc.AddFromString(ctx, "Two"); err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := svc.Complete(ctx, first.ID); err != nil {
		t.Fatalf("complete: %v", err)
	}

	removed, err := svc.ClearCompleted(ctx)
	if err != nil || removed != 1 {
		t.Fatalf("clear completed = %d, %v", removed, err)
	}
	counts, err := svc.Counts(ctx)
	if err != nil || counts.Total != 1 {
		t.Fatalf("counts = %+v, %v", counts, err)
	}
}

func TestSetPriorityRejectsUnknownLevel(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	task, err := svc.AddFromString(ctx, "One")
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := svc.SetPriority(ctx, task.ID, "urgent"); err == nil {
		t.Fatal("expected error for unknown priority")
	}
	updated, err := svc.SetPriority(ctx, task.ID, model.PriorityLow)
	if err != nil || updated.Priority != model.PriorityLow {
		t.Fatalf("set priority = %#v, %v", updated, err)
	}
}
