package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

const sqliteTimeLayout = time.RFC3339Nano

// SQLiteRepository persists tasks in a local SQLite database. Tags
// live in a side table keyed by (task_id, tag) with their insertion
// position preserved.
type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(db *sql.DB) (*SQLiteRepository, error) {
	if db == nil {
		return nil, errors.New("storage: nil db")
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}
	return &SQLiteRepository{db: db}, nil
}

// OpenSQLite opens (creating if needed) the database at path, applies
// pending migrations, and returns a ready repository.
func OpenSQLite(path string) (*SQLiteRepository, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := MigrateUp(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	repo, err := NewSQLiteRepository(db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return repo, nil
}

func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

func (r *SQLiteRepository) Create(ctx context.Context, in Task) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO tasks (id, description, priority, due_date, assigned_to, status, created_at, updated_at, time, duration)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		in.ID, in.Description, in.Priority, in.DueDate, in.AssignedTo, in.Status,
		formatTime(in.CreatedAt), formatTime(in.UpdatedAt), in.Time, in.Duration,
	)
	if err != nil {
		return err
	}
	if err := insertTags(ctx, tx, in.ID, in.Tags); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *SQLiteRepository) Get(ctx context.Context, id string) (Task, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, description, priority, due_date, assigned_to, status, created_at, updated_at, time, duration
		FROM tasks WHERE id = ?`, id)
	task, err := scanTask(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Task{}, ErrNotFound
		}
		return Task{}, err
	}
	task.Tags, err = r.loadTags(ctx, id)
	if err != nil {
		return Task{}, err
	}
	return task, nil
}

func (r *SQLiteRepository) Update(ctx context.Context, in Task) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, `
		UPDATE tasks
		SET description = ?, priority = ?, due_date = ?, assigned_to = ?, status = ?, updated_at = ?, time = ?, duration = ?
		WHERE id = ?`,
		in.Description, in.Priority, in.DueDate, in.AssignedTo, in.Status,
		formatTime(in.UpdatedAt), in.Time, in.Duration, in.ID,
	)
	if err != nil {
		return err
	}
	if err := checkRowsAffected(res); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM task_tags WHERE task_id = ?`, in.ID); err != nil {
		return err
	}
	if err := insertTags(ctx, tx, in.ID, in.Tags); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *SQLiteRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return checkRowsAffected(res)
}

func (r *SQLiteRepository) List(ctx context.Context, filter TaskFilter) ([]Task, error) {
	query := `SELECT id, description, priority, due_date, assigned_to, status, created_at, updated_at, time, duration FROM tasks`
	clauses := make([]string, 0, 5)
	args := make([]any, 0, 7)

	if filter.Status != "" {
		clauses = append(clauses, "status = ?")
		args = append(args, filter.Status)
	}
	if filter.Priority != "" {
		clauses = append(clauses, "priority = ?")
		args = append(args, filter.Priority)
	}
	if filter.Tag != "" {
		clauses = append(clauses, "id IN (SELECT task_id FROM task_tags WHERE tag = ?)")
		args = append(args, strings.ToLower(filter.Tag))
	}
	if filter.Search != "" {
		clauses = append(clauses, "LOWER(description) LIKE ?")
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
	}
	if filter.DueBefore != "" {
		clauses = append(clauses, "due_date != '' AND due_date < ?")
		args = append(args, filter.DueBefore)
	}
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += ` ORDER BY created_at DESC`
	query += applyPagination(&args, filter.Limit, filter.Offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Task, 0)
	for rows.Next() {
		task, scanErr := scanTask(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		out = append(out, task)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range out {
		tags, tagErr := r.loadTags(ctx, out[i].ID)
		if tagErr != nil {
			return nil, tagErr
		}
		out[i].Tags = tags
	}
	return out, nil
}

func (r *SQLiteRepository) Count(ctx context.Context) (Counts, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
		       COALESCE(SUM(CASE WHEN status = 'complete' THEN 1 ELSE 0 END), 0)
		FROM tasks`)
	var counts Counts
	if err := row.Scan(&counts.Total, &counts.Complete); err != nil {
		return Counts{}, err
	}
	counts.Incomplete = counts.Total - counts.Complete
	return counts, nil
}

func (r *SQLiteRepository) Clear(ctx context.Context, completedOnly bool) (int, error) {
	query := `DELETE FROM tasks`
	if completedOnly {
		query += ` WHERE status = 'complete'`
	}
	res, err := r.db.ExecContext(ctx, query)
	if err != nil {
		return 0, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(affected), nil
}

func (r *SQLiteRepository) loadTags(ctx context.Context, taskID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT tag FROM task_tags WHERE task_id = ? ORDER BY position ASC`, taskID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tags []string
	for rows.Next() {
		var tag string
		if err := rows.Scan(&tag); err != nil {
			return nil, err
		}
		tags = append(tags, tag)
	}
	return tags, rows.Err()
}

func insertTags(ctx context.Context, tx *sql.Tx, taskID string, tags []string) error {
	for i, tag := range tags {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO task_tags (task_id, position, tag) VALUES (?, ?, ?)`,
			taskID, i, strings.ToLower(tag)); err != nil {
			return err
		}
	}
	return nil
}

func applyPagination(args *[]any, limit, offset int) string {
	out := ""
	if limit > 0 {
		out += " LIMIT ?"
		*args = append(*args, limit)
	}
	if offset > 0 {
		if limit <= 0 {
			out += " LIMIT -1"
		}
		out += " OFFSET ?"
		*args = append(*args, offset)
	}
	return out
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTask(s scanner) (Task, error) {
	var out Task
	var created, updated string
	if err := s.Scan(&out.ID, &out.Description, &out.Priority, &out.DueDate, &out.AssignedTo,
		&out.Status, &created, &updated, &out.Time, &out.Duration); err != nil {
		return Task{}, err
	}
	createdAt, err := parseStoredTime(created)
	if err != nil {
		return Task{}, err
	}
	updatedAt, err := parseStoredTime(updated)
	if err != nil {
		return Task{}, err
	}
	out.CreatedAt = createdAt
	out.UpdatedAt = updatedAt
	return out, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(sqliteTimeLayout)
}

func parseStoredTime(value string) (time.Time, error) {
	t, err := time.Parse(sqliteTimeLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse stored time %q: %w", value, err)
	}
	return t, nil
}

func checkRowsAffected(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
