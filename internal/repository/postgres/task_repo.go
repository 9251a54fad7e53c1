package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vedran77/taskly/internal/domain"
	"github.com/vedran77/taskly/internal/repository"
)

const taskColumns = "id, user_id, title, description, status, completed, priority, due_date, completed_at, tags, created_at, updated_at"

var sortColumns = map[string]string{
	"createdAt": "created_at",
	"updatedAt": "updated_at",
	"dueDate":   "due_date",
	"title":     "title",
	"priority":  "priority",
	"status":    "status",
}

type TaskRepo struct {
	pool *pgxpool.Pool
}

func NewTaskRepo(pool *pgxpool.Pool) *TaskRepo {
	return &TaskRepo{pool: pool}
}

func (r *TaskRepo) Create(ctx context.Context, t *domain.Task) error {
	if t.ID == "" {
		t.ID = domain.NewID()
	}

	query := `
		INSERT INTO tasks (` + taskColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	_, err := r.pool.Exec(ctx, query,
		t.ID, t.UserID, t.Title, t.Description, t.Status, t.Completed,
		t.Priority, t.DueDate, t.CompletedAt, tagsOrEmpty(t.Tags), t.CreatedAt, t.UpdatedAt,
	)
	return translateError(err)
}

func (r *TaskRepo) GetByOwner(ctx context.Context, id, ownerID string) (*domain.Task, error) {
	query := "SELECT " + taskColumns + " FROM tasks WHERE id = $1 AND user_id = $2"

	var t domain.Task
	err := scanTaskRow(r.pool.QueryRow(ctx, query, id, ownerID), &t)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, translateError(err)
	}
	return &t, nil
}

func (r *TaskRepo) List(ctx context.Context, ownerID string, f repository.TaskFilter) ([]domain.Task, error) {
	query, args := buildListQuery(ownerID, f)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, translateError(err)
	}
	defer rows.Close()

	tasks := []domain.Task{}
	for rows.Next() {
		var t domain.Task
		if err := scanTaskRow(rows, &t); err != nil {
			return nil, translateError(err)
		}
		tasks = append(tasks, t)
	}
	return tasks, translateError(rows.Err())
}

func (r *TaskRepo) Update(ctx context.Context, t *domain.Task) error {
	query := `
		UPDATE tasks
		SET title = $1, description = $2, status = $3, completed = $4, priority = $5,
		    due_date = $6, completed_at = $7, tags = $8, updated_at = $9
		WHERE id = $10 AND user_id = $11`

	tag, err := r.pool.Exec(ctx, query,
		t.Title, t.Description, t.Status, t.Completed, t.Priority,
		t.DueDate, t.CompletedAt, tagsOrEmpty(t.Tags), t.UpdatedAt, t.ID, t.UserID,
	)
	if err != nil {
		return translateError(err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFound("Task not found")
	}
	return nil
}

func (r *TaskRepo) Delete(ctx context.Context, id, ownerID string) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM tasks WHERE id = $1 AND user_id = $2`, id, ownerID)
	if err != nil {
		return false, translateError(err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *TaskRepo) DeleteByOwner(ctx context.Context, ownerID string) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM tasks WHERE user_id = $1`, ownerID)
	if err != nil {
		return 0, translateError(err)
	}
	return tag.RowsAffected(), nil
}

func (r *TaskRepo) Stats(ctx context.Context, ownerID string) (*domain.TaskStats, error) {
	query := `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE status = 'pending'),
			COUNT(*) FILTER (WHERE status = 'in-progress'),
			COUNT(*) FILTER (WHERE status = 'completed'),
			COUNT(*) FILTER (WHERE priority = 'high'),
			COUNT(*) FILTER (WHERE priority = 'medium'),
			COUNT(*) FILTER (WHERE priority = 'low')
		FROM tasks
		WHERE user_id = $1`

	var s domain.TaskStats
	err := r.pool.QueryRow(ctx, query, ownerID).Scan(
		&s.Total, &s.Pending, &s.InProgress, &s.Completed,
		&s.HighPriority, &s.MediumPriority, &s.LowPriority,
	)
	if err != nil {
		return nil, translateError(err)
	}
	return &s, nil
}

// buildListQuery renders the filtered, sorted task query for one owner.
// Missing due dates sort first ascending and last descending, the same as the
// document store.
func buildListQuery(ownerID string, f repository.TaskFilter) (string, []any) {
	var b strings.Builder
	args := []any{ownerID}

	b.WriteString("SELECT " + taskColumns + " FROM tasks WHERE user_id = $1")
	if f.Status != "" {
		args = append(args, f.Status)
		fmt.Fprintf(&b, " AND status = $%d", len(args))
	}
	if f.Priority != "" {
		args = append(args, f.Priority)
		fmt.Fprintf(&b, " AND priority = $%d", len(args))
	}
	if f.Search != "" {
		args = append(args, "%"+escapeLike(f.Search)+"%")
		fmt.Fprintf(&b, " AND (title ILIKE $%d OR description ILIKE $%d)", len(args), len(args))
	}

	col, ok := sortColumns[f.SortKeyOrDefault()]
	if !ok {
		col = sortColumns[repository.DefaultSortKey]
	}
	dir, nulls := "ASC", "NULLS FIRST"
	if f.Desc {
		dir, nulls = "DESC", "NULLS LAST"
	}
	fmt.Fprintf(&b, " ORDER BY %s %s %s, id %s", col, dir, nulls, dir)

	return b.String(), args
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

func tagsOrEmpty(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}

func scanTaskRow(row pgx.Row, t *domain.Task) error {
	err := row.Scan(
		&t.ID, &t.UserID, &t.Title, &t.Description, &t.Status, &t.Completed,
		&t.Priority, &t.DueDate, &t.CompletedAt, &t.Tags, &t.CreatedAt, &t.UpdatedAt,
	)
	if t.Tags == nil {
		t.Tags = []string{}
	}
	return err
}
