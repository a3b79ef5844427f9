package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"taskboard/internal/apperr"
	"taskboard/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TaskRepository persists tasks in postgres. Every read and mutation
// is a single statement scoped by (id, user_id), so a row belonging to
// another user is indistinguishable from a missing row. Methods return
// (nil, nil) when no owned row matches; storage failures come back
// already normalized.
type TaskRepository struct {
	db *pgxpool.Pool
}

func NewTaskRepository(db *pgxpool.Pool) *TaskRepository {
	return &TaskRepository{db: db}
}

const taskColumns = `id, title, description, completed, user_id, created_at, updated_at`

// likeEscaper quotes LIKE wildcards so a search term matches its
// characters literally. "%" and "_" in user input are text, not
// patterns.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

func scanTask(row pgx.Row) (*domain.Task, error) {
	var t domain.Task
	err := row.Scan(&t.ID, &t.Title, &t.Description, &t.Completed, &t.UserID, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, apperr.From(err)
	}
	return &t, nil
}

func (r *TaskRepository) Create(ctx context.Context, t *domain.Task) error {
	err := r.db.QueryRow(ctx,
		`INSERT INTO tasks (user_id, title, description, completed)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at, updated_at`,
		t.UserID, t.Title, t.Description, t.Completed,
	).Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return apperr.From(err)
	}
	return nil
}

func (r *TaskRepository) GetByID(ctx context.Context, id int64, userID string) (*domain.Task, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE id = $1 AND user_id = $2`,
		id, userID,
	)
	return scanTask(row)
}

// List returns one page of tasks matching q plus the total match count
// ignoring offset/limit. Ordering is created_at descending with id
// ascending as the tie break, so pages are stable.
func (r *TaskRepository) List(ctx context.Context, q domain.TaskQuery) ([]*domain.Task, int, error) {
	where := `WHERE user_id = $1`
	args := []any{q.UserID}

	if q.Text != "" {
		args = append(args, "%"+escapeLike(q.Text)+"%")
		where += fmt.Sprintf(` AND title ILIKE $%d`, len(args))
	}
	if q.Completed != nil {
		args = append(args, *q.Completed)
		where += fmt.Sprintf(` AND completed = $%d`, len(args))
	}

	var total int
	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM tasks `+where, args...).Scan(&total); err != nil {
		return nil, 0, apperr.From(err)
	}

	args = append(args, q.Offset, q.Limit)
	query := fmt.Sprintf(
		`SELECT `+taskColumns+` FROM tasks %s ORDER BY created_at DESC, id ASC OFFSET $%d LIMIT $%d`,
		where, len(args)-1, len(args),
	)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, apperr.From(err)
	}
	defer rows.Close()

	var tasks []*domain.Task
	for rows.Next() {
		var t domain.Task
		if err := rows.Scan(&t.ID, &t.Title, &t.Description, &t.Completed, &t.UserID, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, 0, apperr.From(err)
		}
		tasks = append(tasks, &t)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, apperr.From(err)
	}
	return tasks, total, nil
}

// Update applies a partial patch as a single conditional statement.
// Unset patch fields keep their current column values.
func (r *TaskRepository) Update(ctx context.Context, id int64, userID string, p domain.TaskPatch) (*domain.Task, error) {
	row := r.db.QueryRow(ctx,
		`UPDATE tasks
		 SET title       = COALESCE($3, title),
		     description = COALESCE($4, description),
		     completed   = COALESCE($5, completed),
		     updated_at  = now()
		 WHERE id = $1 AND user_id = $2
		 RETURNING `+taskColumns,
		id, userID, p.Title, p.Description, p.Completed,
	)
	return scanTask(row)
}

// Toggle negates completed in place; there is no read-then-write
// window to race against.
func (r *TaskRepository) Toggle(ctx context.Context, id int64, userID string) (*domain.Task, error) {
	row := r.db.QueryRow(ctx,
		`UPDATE tasks
		 SET completed = NOT completed, updated_at = now()
		 WHERE id = $1 AND user_id = $2
		 RETURNING `+taskColumns,
		id, userID,
	)
	return scanTask(row)
}

// Delete removes the owned row and returns it; (nil, nil) when the row
// was already gone, which makes repeat deletes harmless.
func (r *TaskRepository) Delete(ctx context.Context, id int64, userID string) (*domain.Task, error) {
	row := r.db.QueryRow(ctx,
		`DELETE FROM tasks WHERE id = $1 AND user_id = $2 RETURNING `+taskColumns,
		id, userID,
	)
	return scanTask(row)
}
