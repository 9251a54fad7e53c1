package memory

import (
	"context"
	"sync"

	"github.com/vedran77/taskly/internal/domain"
)

// Store keeps users and tasks in process memory. It is meant for local
// development and tests; nothing survives a restart.
type Store struct {
	mu    sync.RWMutex
	users map[string]domain.User
	tasks map[string]domain.Task
}

func NewStore() *Store {
	return &Store{
		users: make(map[string]domain.User),
		tasks: make(map[string]domain.Task),
	}
}

func (s *Store) Ping(ctx context.Context) error {
	return ctx.Err()
}

func cloneTask(t domain.Task) domain.Task {
	if t.Tags != nil {
		t.Tags = append([]string(nil), t.Tags...)
	}
	if t.DueDate != nil {
		d := *t.DueDate
		t.DueDate = &d
	}
	if t.CompletedAt != nil {
		c := *t.CompletedAt
		t.CompletedAt = &c
	}
	return t
}

func cloneUser(u domain.User) domain.User {
	if u.Avatar != nil {
		a := *u.Avatar
		u.Avatar = &a
	}
	if u.Bio != nil {
		b := *u.Bio
		u.Bio = &b
	}
	return u
}
