package storage

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("storage: not found")

// Repository is the persistence boundary for tasks. Implementations
// must complete (or fail) each mutation before returning so that a
// crash never loses an acknowledged write. Single-writer semantics
// are assumed.
type Repository interface {
	Create(ctx context.Context, in Task) error
	Get(ctx context.Context, id string) (Task, error)
	Update(ctx context.Context, in Task) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter TaskFilter) ([]Task, error)
	Count(ctx context.Context) (Counts, error)

	// Clear deletes completed tasks, or every task when completedOnly
	// is false, returning the number removed.
	Clear(ctx context.Context, completedOnly bool) (int, error)

	Close() error
}
