package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/vedran77/taskly/internal/domain"
)

type UserRepo struct {
	store *Store
}

func NewUserRepo(store *Store) *UserRepo {
	return &UserRepo{store: store}
}

func (r *UserRepo) Create(ctx context.Context, user *domain.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, u := range r.store.users {
		if strings.EqualFold(u.Email, user.Email) {
			return domain.Conflict("Duplicate field value entered", "email already exists")
		}
	}
	if user.ID == "" {
		user.ID = domain.NewID()
	}
	r.store.users[user.ID] = cloneUser(*user)
	return nil
}

func (r *UserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	u, ok := r.store.users[id]
	if !ok {
		return nil, nil
	}
	u = cloneUser(u)
	return &u, nil
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, u := range r.store.users {
		if strings.EqualFold(u.Email, email) {
			u = cloneUser(u)
			return &u, nil
		}
	}
	return nil, nil
}

func (r *UserRepo) List(ctx context.Context) ([]domain.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	users := make([]domain.User, 0, len(r.store.users))
	for _, u := range r.store.users {
		users = append(users, cloneUser(u))
	}
	sort.Slice(users, func(i, j int) bool {
		if users[i].CreatedAt.Equal(users[j].CreatedAt) {
			return users[i].ID > users[j].ID
		}
		return users[i].CreatedAt.After(users[j].CreatedAt)
	})
	return users, nil
}

func (r *UserRepo) Update(ctx context.Context, user *domain.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.users[user.ID]; !ok {
		return domain.NotFound("User not found")
	}
	r.store.users[user.ID] = cloneUser(*user)
	return nil
}

func (r *UserRepo) Delete(ctx context.Context, id string) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.users[id]; !ok {
		return false, nil
	}
	delete(r.store.users, id)
	return true, nil
}
