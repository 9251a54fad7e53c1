package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vedran77/taskly/internal/domain"
)

const userColumns = "id, name, email, password_hash, avatar, bio, role, is_active, created_at, updated_at"

type UserRepo struct {
	pool *pgxpool.Pool
}

func NewUserRepo(pool *pgxpool.Pool) *UserRepo {
	return &UserRepo{pool: pool}
}

func (r *UserRepo) Create(ctx context.Context, user *domain.User) error {
	if user.ID == "" {
		user.ID = domain.NewID()
	}

	query := `
		INSERT INTO users (id, name, email, password_hash, avatar, bio, role, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := r.pool.Exec(ctx, query,
		user.ID, user.Name, user.Email, user.PasswordHash, user.Avatar,
		user.Bio, user.Role, user.IsActive, user.CreatedAt, user.UpdatedAt,
	)
	return translateError(err)
}

func (r *UserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return r.scanUser(ctx, "SELECT "+userColumns+" FROM users WHERE id = $1", id)
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.scanUser(ctx, "SELECT "+userColumns+" FROM users WHERE email = $1", email)
}

func (r *UserRepo) List(ctx context.Context) ([]domain.User, error) {
	rows, err := r.pool.Query(ctx, "SELECT "+userColumns+" FROM users ORDER BY created_at DESC, id DESC")
	if err != nil {
		return nil, translateError(err)
	}
	defer rows.Close()

	users := []domain.User{}
	for rows.Next() {
		var u domain.User
		if err := scanUserRow(rows, &u); err != nil {
			return nil, translateError(err)
		}
		users = append(users, u)
	}
	return users, translateError(rows.Err())
}

func (r *UserRepo) Update(ctx context.Context, user *domain.User) error {
	query := `
		UPDATE users
		SET name = $1, email = $2, password_hash = $3, avatar = $4, bio = $5,
		    role = $6, is_active = $7, updated_at = $8
		WHERE id = $9`

	tag, err := r.pool.Exec(ctx, query,
		user.Name, user.Email, user.PasswordHash, user.Avatar, user.Bio,
		user.Role, user.IsActive, user.UpdatedAt, user.ID,
	)
	if err != nil {
		return translateError(err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFound("User not found")
	}
	return nil
}

// Delete removes the user; tasks go with it through ON DELETE CASCADE.
func (r *UserRepo) Delete(ctx context.Context, id string) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return false, translateError(err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *UserRepo) scanUser(ctx context.Context, query string, arg any) (*domain.User, error) {
	var u domain.User
	err := scanUserRow(r.pool.QueryRow(ctx, query, arg), &u)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, translateError(err)
	}
	return &u, nil
}

func scanUserRow(row pgx.Row, u *domain.User) error {
	return row.Scan(
		&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Avatar,
		&u.Bio, &u.Role, &u.IsActive, &u.CreatedAt, &u.UpdatedAt,
	)
}
