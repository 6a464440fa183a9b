package storage

import "time"

// Task is the persisted task record. The JSON field names are the
// wire format of the snapshot store and must stay stable.
type Task struct {
	ID          string    `json:"id"`
	Description string    `json:"description"`
	Tags        []string  `json:"tags"`
	Priority    string    `json:"priority"`
	DueDate     string    `json:"due_date"`
	AssignedTo  string    `json:"assigned_to"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Time        string    `json:"time"`
	Duration    string    `json:"duration"`
}

// TaskFilter narrows List results. Zero values mean "no constraint".
// DueBefore is an exclusive YYYY-MM-DD bound and only matches tasks
// that have a due date.
type TaskFilter struct {
	Status    string
	Priority  string
	Tag       string
	Search    string
	DueBefore string
	Limit     int
	Offset    int
}

// Counts summarizes the store by completion status.
type Counts struct {
	Total      int
	Complete   int
	Incomplete int
}
