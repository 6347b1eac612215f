package tasks

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/printdesk/internal/common"
	"github.com/dmitrijs2005/printdesk/internal/dbx"
	"github.com/dmitrijs2005/printdesk/internal/server/models"
)

// PostgresRepository implements task storage over a dbx.DBTX (*sql.DB or
// *sql.Tx). The CAS transition maps onto a conditional UPDATE, so the
// database row lock is the per-task arbiter.
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const taskColumns = `id, title, description, service_ref, price, priority, status, assignee,
		created_at, assigned_at, started_at, completed_at, due_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (*models.Task, error) {
	t := &models.Task{}
	err := row.Scan(
		&t.ID, &t.Title, &t.Description, &t.ServiceRef, &t.Price, &t.Priority, &t.Status,
		&t.Assignee, &t.CreatedAt, &t.AssignedAt, &t.StartedAt, &t.CompletedAt, &t.DueAt,
	)
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (r *PostgresRepository) Create(ctx context.Context, task *models.Task) (*models.Task, error) {
	query := `
		INSERT INTO tasks (id, title, description, service_ref, price, priority, status, created_at, due_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := r.db.ExecContext(ctx, query,
		task.ID, task.Title, task.Description, task.ServiceRef,
		task.Price, task.Priority, task.Status, task.CreatedAt, task.DueAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return task, nil
}

func (r *PostgresRepository) Get(ctx context.Context, id string) (*models.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1`

	task, err := scanTask(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return task, nil
}

func (r *PostgresRepository) List(ctx context.Context, status *models.TaskStatus) ([]*models.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks`
	args := []any{}
	if status != nil {
		query += ` WHERE status = $1`
		args = append(args, *status)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, task)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// CompareAndSwapStatus updates the row only when its current status matches
// tr.From. Zero rows updated means either the task is missing or another
// transition won the race; a follow-up read distinguishes the two.
func (r *PostgresRepository) CompareAndSwapStatus(ctx context.Context, id string, tr Transition) (*models.Task, error) {
	query := `
		UPDATE tasks
		SET status = $3,
		    assignee = $4,
		    assigned_at = CASE WHEN $3 = 'assigned' THEN $5 ELSE assigned_at END,
		    started_at = CASE WHEN $3 = 'in_progress' THEN $5 ELSE started_at END,
		    completed_at = CASE WHEN $3 = 'completed' THEN $5 ELSE completed_at END
		WHERE id = $1 AND status = $2
		RETURNING ` + taskColumns + `
	`
	task, err := scanTask(r.db.QueryRowContext(ctx, query, id, tr.From, tr.To, tr.Assignee, tr.At))
	if err == nil {
		return task, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("db error: %w", err)
	}

	if _, getErr := r.Get(ctx, id); getErr != nil {
		return nil, getErr
	}
	return nil, fmt.Errorf("%w: task %s is not %s", common.ErrConflict, id, tr.From)
}
