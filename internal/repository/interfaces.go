package repository

import (
	"context"

	"github.com/vedran77/taskly/internal/domain"
)

// Lookups return (nil, nil) when nothing matches. Writes that address a record
// that does not exist return a domain.NotFound error. Driver failures are
// translated into *domain.Error values before they leave an adapter.

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	Delete(ctx context.Context, id string) (bool, error)
}

type TaskRepository interface {
	Create(ctx context.Context, task *domain.Task) error
	GetByOwner(ctx context.Context, id, ownerID string) (*domain.Task, error)
	List(ctx context.Context, ownerID string, filter TaskFilter) ([]domain.Task, error)
	Update(ctx context.Context, task *domain.Task) error
	Delete(ctx context.Context, id, ownerID string) (bool, error)
	DeleteByOwner(ctx context.Context, ownerID string) (int64, error)
	Stats(ctx context.Context, ownerID string) (*domain.TaskStats, error)
}

// Pinger is implemented by stores that can report their reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}

type TaskFilter struct {
	Status   string
	Priority string
	Search   string
	SortBy   string
	Desc     bool
}

const DefaultSortKey = "createdAt"

// SortKeyOrDefault returns the requested sort key, falling back to createdAt.
func (f TaskFilter) SortKeyOrDefault() string {
	if f.SortBy == "" {
		return DefaultSortKey
	}
	return f.SortBy
}
