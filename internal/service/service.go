// Package service binds the natural-language parser to task storage.
// Every mutation is persisted before the call returns; there is no
// write-behind, so at most the in-flight mutation can be lost on a
// crash.
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sandeepkv93/taskline/internal/model"
	"github.com/sandeepkv93/taskline/internal/parser"
	"github.com/sandeepkv93/taskline/internal/storage"
)

type TaskService struct {
	repo   storage.Repository
	parser *parser.Parser
	now    func() time.Time
}

func New(repo storage.Repository) *TaskService {
	return &TaskService{
		repo:   repo,
		parser: parser.New(),
		now:    time.Now,
	}
}

// NewAt pins the service and its parser to a fixed reference time,
// for deterministic tests.
func NewAt(repo storage.Repository, ref time.Time) *TaskService {
	return &TaskService{
		repo:   repo,
		parser: parser.NewAt(ref),
		now:    func() time.Time { return ref },
	}
}

// AddFromString parses one natural-language task line and stores the
// resulting task. The returned error is the parser's own on bad
// input.
func (s *TaskService) AddFromString(ctx context.Context, raw string) (model.Task, error) {
	fields, err := s.parser.Parse(raw)
	if err != nil {
		return model.Task{}, err
	}
	task, err := model.NewTask(fields, s.now().UTC())
	if err != nil {
		return model.Task{}, err
	}
	if err := s.repo.Create(ctx, toRecord(task)); err != nil {
		return model.Task{}, fmt.Errorf("store task: %w", err)
	}
	return task, nil
}

// Add stores an already-constructed task after re-validating it.
func (s *TaskService) Add(ctx context.Context, task model.Task) error {
	if err := task.Validate(); err != nil {
		return err
	}
	return s.repo.Create(ctx, toRecord(task))
}

func (s *TaskService) Get(ctx context.Context, id string) (model.Task, error) {
	record, err := s.repo.Get(ctx, id)
	if err != nil {
		return model.Task{}, err
	}
	return fromRecord(record), nil
}

// Save validates and persists an edited task.
func (s *TaskService) Save(ctx context.Context, task model.Task) error {
	if err := task.Validate(); err != nil {
		return err
	}
	return s.repo.Update(ctx, toRecord(task))
}

func (s *TaskService) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func (s *TaskService) Complete(ctx context.Context, id string) (model.Task, error) {
	return s.mutate(ctx, id, func(task *model.Task) {
		task.MarkComplete(s.now().UTC())
	})
}

func (s *TaskService) Reopen(ctx context.Context, id string) (model.Task, error) {
	return s.mutate(ctx, id, func(task *model.Task) {
		task.MarkIncomplete(s.now().UTC())
	})
}

func (s *TaskService) AddTag(ctx context.Context, id, tag string) (model.Task, error) {
	return s.mutate(ctx, id, func(task *model.Task) {
		task.AddTag(tag, s.now().UTC())
	})
}

func (s *TaskService) RemoveTag(ctx context.Context, id, tag string) (model.Task, error) {
	return s.mutate(ctx, id, func(task *model.Task) {
		task.RemoveTag(tag, s.now().UTC())
	})
}

func (s *TaskService) SetPriority(ctx context.Context, id string, p model.Priority) (model.Task, error) {
	var setErr error
	task, err := s.mutate(ctx, id, func(task *model.Task) {
		setErr = task.SetPriority(p, s.now().UTC())
	})
	if setErr != nil {
		return model.Task{}, setErr
	}
	return task, err
}

func (s *TaskService) mutate(ctx context.Context, id string, apply func(*model.Task)) (model.Task, error) {
	record, err := s.repo.Get(ctx, id)
	if err != nil {
		return model.Task{}, err
	}
	task := fromRecord(record)
	apply(&task)
	if err := task.Validate(); err != nil {
		return model.Task{}, err
	}
	if err := s.repo.Update(ctx, toRecord(task)); err != nil {
		return model.Task{}, err
	}
	return task, nil
}

func (s *TaskService) List(ctx context.Context, filter storage.TaskFilter) ([]model.Task, error) {
	records, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	tasks := make([]model.Task, len(records))
	for i, record := range records {
		tasks[i] = fromRecord(record)
	}
	return tasks, nil
}

func (s *TaskService) ListAll(ctx context.Context) ([]model.Task, error) {
	return s.List(ctx, storage.TaskFilter{})
}

func (s *TaskService) ListIncomplete(ctx context.Context) ([]model.Task, error) {
	return s.List(ctx, storage.TaskFilter{Status: string(model.StatusIncomplete)})
}

func (s *TaskService) ListComplete(ctx context.Context) ([]model.Task, error) {
	return s.List(ctx, storage.TaskFilter{Status: string(model.StatusComplete)})
}

func (s *TaskService) ByPriority(ctx context.Context, p model.Priority) ([]model.Task, error) {
	return s.List(ctx, storage.TaskFilter{Priority: string(p)})
}

func (s *TaskService) ByTag(ctx context.Context, tag string) ([]model.Task, error) {
	return s.List(ctx, storage.TaskFilter{Tag: tag})
}

// Overdue lists incomplete tasks whose due date is before today.
func (s *TaskService) Overdue(ctx context.Context) ([]model.Task, error) {
	today := s.now().UTC().Format("2006-01-02")
	return s.List(ctx, storage.TaskFilter{
		Status:    string(model.StatusIncomplete),
		DueBefore: today,
	})
}

// Search lists tasks whose description contains the keyword,
// case-insensitively.
func (s *TaskService) Search(ctx context.Context, keyword string) ([]model.Task, error) {
	return s.List(ctx, storage.TaskFilter{Search: keyword})
}

func (s *TaskService) Counts(ctx context.Context) (storage.Counts, error) {
	return s.repo.Count(ctx)
}

func (s *TaskService) ClearCompleted(ctx context.Context) (int, error) {
	return s.repo.Clear(ctx, true)
}

func (s *TaskService) ClearAll(ctx context.Context) (int, error) {
	return s.repo.Clear(ctx, false)
}

// ImportLines parses and stores each line independently. Failed lines
// are reported with their 1-based position; one bad line never stops
// the import.
func (s *TaskService) ImportLines(ctx context.Context, lines []string) ([]model.Task, []parser.LineError) {
	added := make([]model.Task, 0, len(lines))
	var failed []parser.LineError
	for i, line := range lines {
		task, err := s.AddFromString(ctx, line)
		if err != nil {
			failed = append(failed, parser.LineError{Line: i + 1, Err: err})
			continue
		}
		added = append(added, task)
	}
	return added, failed
}

func toRecord(task model.Task) storage.Task {
	return storage.Task{
		ID:          task.ID,
		Description: task.Description,
		Tags:        task.Tags,
		Priority:    string(task.Priority),
		DueDate:     task.DueDate,
		AssignedTo:  task.AssignedTo,
		Status:      string(task.Status),
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
		Time:        task.Time,
		Duration:    task.Duration,
	}
}

func fromRecord(record storage.Task) model.Task {
	return model.Task{
		ID:          record.ID,
		Description: record.Description,
		Tags:        record.Tags,
		Priority:    model.Priority(record.Priority),
		DueDate:     record.DueDate,
		AssignedTo:  record.AssignedTo,
		Status:      model.Status(record.Status),
		CreatedAt:   record.CreatedAt,
		UpdatedAt:   record.UpdatedAt,
		Time:        record.Time,
		Duration:    record.Duration,
	}
}
