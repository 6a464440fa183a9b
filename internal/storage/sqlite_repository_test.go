package storage

import (
	"context"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

func setupSQLite(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := OpenSQLite(filepath.Join(t.TempDir(), "taskline-test.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func sampleTask(id, description string, created time.Time) Task {
	return Task{
		ID:          id,
		Description: description,
		Tags:        []string{"work"},
		Priority:    "medium",
		Status:      "incomplete",
		CreatedAt:   created,
		UpdatedAt:   created,
	}
}

func TestSQLiteTaskCRUD(t *testing.T) {
	repo := setupSQLite(t)
	ctx := context.Background()
	created := time.Date(2025, 10, 17, 12, 0, 0, 0, time.UTC)

	task := Task{
		ID:          "task-1",
		Description: "Buy groceries",
		Tags:        []string{"shopping", "errands"},
		Priority:    "high",
		DueDate:     "2025-10-20",
		AssignedTo:  "alice@example.com",
		Status:      "incomplete",
		CreatedAt:   created,
		UpdatedAt:   created,
		Time:        "15:00",
		Duration:    "1h",
	}
	if err := repo.Create(ctx, task); err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := repo.Get(ctx, task.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Description != task.Description || got.DueDate != task.DueDate || got.Time != "15:00" {
		t.Fatalf("unexpected task: %#v", got)
	}
	if !reflect.DeepEqual(got.Tags, []string{"shopping", "errands"}) {
		t.Fatalf("tags = %v", got.Tags)
	}
	if !got.CreatedAt.Equal(created) {
		t.Fatalf("created_at = %v", got.CreatedAt)
	}

	got.Status = "complete"
	got.Tags = []string{"shopping"}
	got.UpdatedAt = created.Add(time.Hour)
	if err := repo.Update(ctx, got); err != nil {
		t.Fatalf("update: %v", err)
	}
	updated, err := repo.Get(ctx, task.ID)
	if err != nil {
		t.Fatalf("get updated: %v", err)
	}
	if updated.Status != "complete" || !reflect.DeepEqual(updated.Tags, []string{"shopping"}) {
		t.Fatalf("unexpected updated task: %#v", updated)
	}

	if err := repo.Delete(ctx, task.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := repo.Get(ctx, task.ID); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := repo.Delete(ctx, task.ID); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestSQLiteListFilters(t *testing.T) {
	repo := setupSQLite(t)
	ctx := context.Background()
	base := time.Date(2025, 10, 17, 12, 0, 0, 0, time.UTC)

	tasks := []Task{
		{ID: "a", Description: "Buy milk", Tags: []string{"shopping"}, Priority: "high",
			DueDate: "2025-10-16", Status: "incomplete", CreatedAt: base, UpdatedAt: base},
		{ID: "b", Description: "Review code", Tags: []string{"work"}, Priority: "medium",
			Status: "incomplete", CreatedAt: base.Add(time.Minute), UpdatedAt: base},
		{ID: "c", Description: "Old chore", Status: "complete",
			CreatedAt: base.Add(2 * time.Minute), UpdatedAt: base},
	}
	for _, task := range tasks {
		if err := repo.Create(ctx, task); err != nil {
			t.Fatalf("create %s: %v", task.ID, err)
		}
	}

	cases := []struct {
		name    string
		filter  TaskFilter
		wantIDs []string
	}{
		{"all", TaskFilter{}, []string{"c", "b", "a"}},
		{"incomplete", TaskFilter{Status: "incomplete"}, []string{"b", "a"}},
		{"priority", TaskFilter{Priority: "high"}, []string{"a"}},
		{"tag", TaskFilter{Tag: "work"}, []string{"b"}},
		{"search", TaskFilter{Search: "REVIEW"}, []string{"b"}},
		{"due before", TaskFilter{DueBefore: "2025-10-17"}, []string{"a"}},
		{"limit", TaskFilter{Limit: 2}, []string{"c", "b"}},
		{"offset", TaskFilter{Limit: 2, Offset: 1}, []string{"b", "a"}},
	}
	for _, tc := range cases {
		listed, err := repo.List(ctx, tc.filter)
		if err != nil {
			t.Fatalf("%s: list: %v", tc.name, err)
		}
		ids := make([]string, len(listed))
		for i, task := range listed {
			ids[i] = task.ID
		}
		if !reflect.DeepEqual(ids, tc.wantIDs) {
			t.Fatalf("%s: ids = %v, want %v", tc.name, ids, tc.wantIDs)
		}
	}
}

func TestSQLiteCountAndClear(t *testing.T) {
	repo := setupSQLite(t)
	ctx := context.Background()
	base := time.Date(2025, 10, 17, 12, 0, 0, 0, time.UTC)

	if err := repo.Create(ctx, sampleTask("a", "One", base)); err != nil {
		t.Fatalf("create: %v", err)
	}
	done := sampleTask("b", "Two", base.Add(time.Minute))
	done.Status = "complete"
	if err := repo.Create(ctx, done); err != nil {
		t.Fatalf("create: %v", err)
	}

	counts, err := repo.Count(ctx)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if counts.Total != 2 || counts.Complete != 1 || counts.Incomplete != 1 {
		t.Fatalf("counts = %+v", counts)
	}

	removed, err := repo.Clear(ctx, true)
	if err != nil {
		t.Fatalf("clear completed: %v", err)
	}
	if removed != 1 {
		t.Fatalf("removed = %d", removed)
	}
	counts, err = repo.Count(ctx)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if counts.Total != 1 || counts.Complete != 0 {
		t.Fatalf("counts after clear = %+v", counts)
	}

	if _, err := repo.Clear(ctx, false); err != nil {
		t.Fatalf("clear all: %v", err)
	}
	counts, err = repo.Count(ctx)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if counts.Total != 0 {
		t.Fatalf("counts after clear all = %+v", counts)
	}
}
