package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/vedran77/taskly/internal/domain"
	"github.com/vedran77/taskly/internal/repository"
)

type TaskRepo struct {
	store *Store
}

func NewTaskRepo(store *Store) *TaskRepo {
	return &TaskRepo{store: store}
}

func (r *TaskRepo) Create(ctx context.Context, task *domain.Task) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if task.ID == "" {
		task.ID = domain.NewID()
	}
	r.store.tasks[task.ID] = cloneTask(*task)
	return nil
}

func (r *TaskRepo) GetByOwner(ctx context.Context, id, ownerID string) (*domain.Task, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	t, ok := r.store.tasks[id]
	if !ok || t.UserID != ownerID {
		return nil, nil
	}
	t = cloneTask(t)
	return &t, nil
}

func (r *TaskRepo) List(ctx context.Context, ownerID string, filter repository.TaskFilter) ([]domain.Task, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	search := strings.ToLower(filter.Search)
	tasks := []domain.Task{}
	for _, t := range r.store.tasks {
		if t.UserID != ownerID {
			continue
		}
		if filter.Status != "" && t.Status != filter.Status {
			continue
		}
		if filter.Priority != "" && t.Priority != filter.Priority {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(t.Title), search) &&
			!strings.Contains(strings.ToLower(t.Description), search) {
			continue
		}
		tasks = append(tasks, cloneTask(t))
	}

	less := lessFunc(filter.SortKeyOrDefault())
	sort.SliceStable(tasks, func(i, j int) bool {
		a, b := &tasks[i], &tasks[j]
		if filter.Desc {
			a, b = b, a
		}
		if c := less(a, b); c != 0 {
			return c < 0
		}
		return a.ID < b.ID
	})
	return tasks, nil
}

func (r *TaskRepo) Update(ctx context.Context, task *domain.Task) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	existing, ok := r.store.tasks[task.ID]
	if !ok || existing.UserID != task.UserID {
		return domain.NotFound("Task not found")
	}
	r.store.tasks[task.ID] = cloneTask(*task)
	return nil
}

func (r *TaskRepo) Delete(ctx context.Context, id, ownerID string) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	t, ok := r.store.tasks[id]
	if !ok || t.UserID != ownerID {
		return false, nil
	}
	delete(r.store.tasks, id)
	return true, nil
}

func (r *TaskRepo) DeleteByOwner(ctx context.Context, ownerID string) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var n int64
	for id, t := range r.store.tasks {
		if t.UserID == ownerID {
			delete(r.store.tasks, id)
			n++
		}
	}
	return n, nil
}

func (r *TaskRepo) Stats(ctx context.Context, ownerID string) (*domain.TaskStats, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	stats := &domain.TaskStats{}
	for _, t := range r.store.tasks {
		if t.UserID == ownerID {
			stats.Add(&t)
		}
	}
	return stats, nil
}

// lessFunc returns a three-way comparison for the given sort key. Missing due
// dates sort before present ones, matching the document store.
func lessFunc(key string) func(a, b *domain.Task) int {
	switch key {
	case "updatedAt":
		return func(a, b *domain.Task) int { return a.UpdatedAt.Compare(b.UpdatedAt) }
	case "dueDate":
		return func(a, b *domain.Task) int { return compareTimePtr(a.DueDate, b.DueDate) }
	case "title":
		return func(a, b *domain.Task) int { return strings.Compare(a.Title, b.Title) }
	case "priority":
		return func(a, b *domain.Task) int { return strings.Compare(a.Priority, b.Priority) }
	case "status":
		return func(a, b *domain.Task) int { return strings.Compare(a.Status, b.Status) }
	default:
		return func(a, b *domain.Task) int { return a.CreatedAt.Compare(b.CreatedAt) }
	}
}

func compareTimePtr(a, b *time.Time) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	default:
		return a.Compare(*b)
	}
}
