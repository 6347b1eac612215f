package tasks

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/dmitrijs2005/printdesk/internal/common"
	"github.com/dmitrijs2005/printdesk/internal/server/models"
)

// InMemoryRepository keeps tasks in a map guarded by a mutex. The check-and-set
// inside CompareAndSwapStatus runs entirely under the lock, which serializes
// racing transitions on the same task. Unrelated operations only contend for
// the brief map access, never for external I/O.
type InMemoryRepository struct {
	mu    sync.RWMutex
	tasks map[string]*models.Task
}

// NewInMemoryRepository constructs an empty in-memory task store.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{tasks: make(map[string]*models.Task)}
}

func (r *InMemoryRepository) Create(ctx context.Context, task *models.Task) (*models.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.tasks[task.ID]; ok {
		return nil, fmt.Errorf("%w: task %s already exists", common.ErrConflict, task.ID)
	}
	r.tasks[task.ID] = task.Clone()
	return task, nil
}

func (r *InMemoryRepository) Get(ctx context.Context, id string) (*models.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	task, ok := r.tasks[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return task.Clone(), nil
}

func (r *InMemoryRepository) List(ctx context.Context, status *models.TaskStatus) ([]*models.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*models.Task
	for _, task := range r.tasks {
		if status != nil && task.Status != *status {
			continue
		}
		result = append(result, task.Clone())
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].ID < result[j].ID
		}
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (r *InMemoryRepository) CompareAndSwapStatus(ctx context.Context, id string, tr Transition) (*models.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	task, ok := r.tasks[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	if task.Status != tr.From {
		return nil, fmt.Errorf("%w: task %s is not %s", common.ErrConflict, id, tr.From)
	}

	updated := task.Clone()
	updated.Status = tr.To
	updated.Assignee = nil
	if tr.Assignee != nil {
		v := *tr.Assignee
		updated.Assignee = &v
	}
	at := tr.At
	switch tr.To {
	case models.TaskStatusAssigned:
		updated.AssignedAt = &at
	case models.TaskStatusInProgress:
		updated.StartedAt = &at
	case models.TaskStatusCompleted:
		updated.CompletedAt = &at
	}

	r.tasks[id] = updated
	return updated.Clone(), nil
}
