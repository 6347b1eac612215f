// Package tasks provides repositories for task entities. The repository owns
// the single most important correctness property of the system: status
// transitions are compare-and-swap operations atomic per task, so two racing
// claims on the same task can never both succeed.
package tasks

import (
	"context"
	"time"

	"github.com/dmitrijs2005/printdesk/internal/server/models"
)

// Transition describes an atomic status change. Assignee is the value after
// the transition (nil clears it, e.g. on cancellation). At is recorded into
// the timestamp column matching To.
type Transition struct {
	From     models.TaskStatus
	To       models.TaskStatus
	Assignee *string
	At       time.Time
}

type Repository interface {
	Create(ctx context.Context, task *models.Task) (*models.Task, error)
	Get(ctx context.Context, id string) (*models.Task, error)
	// List returns tasks, optionally filtered by status, newest first.
	List(ctx context.Context, status *models.TaskStatus) ([]*models.Task, error)
	// CompareAndSwapStatus applies tr only if the task's current status
	// equals tr.From. It returns common.ErrorNotFound if the task does not
	// exist and common.ErrConflict if the status check fails; in both cases
	// no mutation is observable.
	CompareAndSwapStatus(ctx context.Context, id string, tr Transition) (*models.Task, error)
}
