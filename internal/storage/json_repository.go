package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

// timeNow is overridable in tests so backup names are deterministic.
var timeNow = func() time.Time { return time.Now().UTC() }

const backupTimeLayout = "20060102_150405"

// snapshot is the on-disk shape: a mapping from task id to record.
type snapshot struct {
	Tasks map[string]Task `json:"tasks"`
}

// JSONRepository keeps the full task set in memory and rewrites a
// JSON snapshot file on every mutation. Each save first copies the
// previous snapshot to a timestamped backup, then writes a temp file
// and renames it into place, so the snapshot on disk is always a
// complete, parseable store.
type JSONRepository struct {
	mu      sync.Mutex
	path    string
	backups int
	tasks   map[string]Task
}

// OpenJSON loads (or initializes) the snapshot at path. backups is
// the number of timestamped backup files retained per snapshot;
// older ones are pruned after each save.
func OpenJSON(path string, backups int) (*JSONRepository, error) {
	repo := &JSONRepository{
		path:    path,
		backups: backups,
		tasks:   make(map[string]Task),
	}
	raw, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return repo, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	var snap snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return nil, fmt.Errorf("parse snapshot %s: %w", path, err)
	}
	if snap.Tasks != nil {
		repo.tasks = snap.Tasks
	}
	return repo, nil
}

func (r *JSONRepository) Close() error {
	return nil
}

func (r *JSONRepository) Create(_ context.Context, in Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.tasks[in.ID]; exists {
		return fmt.Errorf("storage: duplicate task id %q", in.ID)
	}
	r.tasks[in.ID] = in
	return r.save()
}

func (r *JSONRepository) Get(_ context.Context, id string) (Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	task, ok := r.tasks[id]
	if !ok {
		return Task{}, ErrNotFound
	}
	return task, nil
}

func (r *JSONRepository) Update(_ context.Context, in Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tasks[in.ID]; !ok {
		return ErrNotFound
	}
	r.tasks[in.ID] = in
	return r.save()
}

func (r *JSONRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tasks[id]; !ok {
		return ErrNotFound
	}
	delete(r.tasks, id)
	return r.save()
}

func (r *JSONRepository) List(_ context.Context, filter TaskFilter) ([]Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Task, 0, len(r.tasks))
	for _, task := range r.tasks {
		if matchesFilter(task, filter) {
			out = append(out, task)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	out = paginate(out, filter.Limit, filter.Offset)
	return out, nil
}

func (r *JSONRepository) Count(_ context.Context) (Counts, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	counts := Counts{Total: len(r.tasks)}
	for _, task := range r.tasks {
		if task.Status == "complete" {
			counts.Complete++
		}
	}
	counts.Incomplete = counts.Total - counts.Complete
	return counts, nil
}

func (r *JSONRepository) Clear(_ context.Context, completedOnly bool) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for id, task := range r.tasks {
		if completedOnly && task.Status != "complete" {
			continue
		}
		delete(r.tasks, id)
		removed++
	}
	if removed == 0 {
		return 0, nil
	}
	return removed, r.save()
}

// save must be called with the lock held.
func (r *JSONRepository) save() error {
	if err := r.backupCurrent(); err != nil {
		return err
	}

	snap := snapshot{Tasks: r.tasks}
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(r.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".tasks-*.json")
	if err != nil {
		return fmt.Errorf("create temp snapshot: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("sync snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("close snapshot: %w", err)
	}
	if err := os.Rename(tmpName, r.path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("replace snapshot: %w", err)
	}
	return nil
}

func (r *JSONRepository) backupCurrent() error {
	if r.backups <= 0 {
		return nil
	}
	current, err := os.ReadFile(r.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read snapshot for backup: %w", err)
	}
	name := fmt.Sprintf("%s.backup_%s", r.path, timeNow().Format(backupTimeLayout))
	if err := os.WriteFile(name, current, 0o644); err != nil {
		return fmt.Errorf("write backup: %w", err)
	}
	return r.pruneBackups()
}

func (r *JSONRepository) pruneBackups() error {
	matches, err := filepath.Glob(r.path + ".backup_*")
	if err != nil {
		return err
	}
	if len(matches) <= r.backups {
		return nil
	}
	// Timestamped names sort chronologically.
	sort.Strings(matches)
	for _, stale := range matches[:len(matches)-r.backups] {
		if err := os.Remove(stale); err != nil {
			return fmt.Errorf("prune backup %s: %w", stale, err)
		}
	}
	return nil
}

func matchesFilter(task Task, filter TaskFilter) bool {
	if filter.Status != "" && task.Status != filter.Status {
		return false
	}
	if filter.Priority != "" && task.Priority != filter.Priority {
		return false
	}
	if filter.Tag != "" {
		found := false
		want := strings.ToLower(filter.Tag)
		for _, tag := range task.Tags {
			if tag == want {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if filter.Search != "" &&
		!strings.Contains(strings.ToLower(task.Description), strings.ToLower(filter.Search)) {
		return false
	}
	if filter.DueBefore != "" && (task.DueDate == "" || task.DueDate >= filter.DueBefore) {
		return false
	}
	return true
}

func paginate(tasks []Task, limit, offset int) []Task {
	if offset > 0 {
		if offset >= len(tasks) {
			return []Task{}
		}
		tasks = tasks[offset:]
	}
	if limit > 0 && limit < len(tasks) {
		tasks = tasks[:limit]
	}
	return tasks
}
