package domain

import "time"

const (
	StatusPending    = "pending"
	StatusInProgress = "in-progress"
	StatusCompleted  = "completed"
)

const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

type Task struct {
	ID          string     `json:"_id"`
	UserID      string     `json:"user"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      string     `json:"status"`
	Completed   bool       `json:"completed"`
	Priority    string     `json:"priority"`
	DueDate     *time.Time `json:"dueDate"`
	CompletedAt *time.Time `json:"completedAt"`
	Tags        []string   `json:"tags"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// SetStatus moves the task to status and keeps Completed and CompletedAt in
// step with it. A task already completed keeps its original completion time.
func (t *Task) SetStatus(status string, now time.Time) {
	wasCompleted := t.Completed
	t.Status = status
	t.Completed = status == StatusCompleted

	switch {
	case t.Completed && !wasCompleted:
		t.CompletedAt = &now
	case t.Completed && t.CompletedAt == nil:
		t.CompletedAt = &now
	case !t.Completed:
		t.CompletedAt = nil
	}
}

type TaskStats struct {
	Total          int64 `json:"total"`
	Pending        int64 `json:"pending"`
	InProgress     int64 `json:"inProgress"`
	Completed      int64 `json:"completed"`
	HighPriority   int64 `json:"highPriority"`
	MediumPriority int64 `json:"mediumPriority"`
	LowPriority    int64 `json:"lowPriority"`
}

// Add counts one task into the totals.
func (s *TaskStats) Add(t *Task) {
	s.Total++
	switch t.Status {
	case StatusPending:
		s.Pending++
	case StatusInProgress:
		s.InProgress++
	case StatusCompleted:
		s.Completed++
	}
	switch t.Priority {
	case PriorityHigh:
		s.HighPriority++
	case PriorityMedium:
		s.MediumPriority++
	case PriorityLow:
		s.LowPriority++
	}
}
