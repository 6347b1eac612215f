package services

import (
	"context"
	"database/sql"
	"time"

	"github.com/dmitrijs2005/printdesk/internal/server/models"
	"github.com/dmitrijs2005/printdesk/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

// TaskSpec carries the caller-supplied fields of a new task. Everything else
// (ID, status, timestamps) is owned by the service.
type TaskSpec struct {
	Title       string              `json:"title"`
	Description string              `json:"description"`
	ServiceRef  string              `json:"service_ref"`
	Price       float64             `json:"price"`
	Priority    models.TaskPriority `json:"priority"`
	DueAt       *time.Time          `json:"due_at"`
}

// TaskService owns the task catalog: creating offers and reading them back.
// Status transitions live in AssignmentService.
type TaskService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	fanout      *FanoutService
}

// NewTaskService constructs a TaskService.
func NewTaskService(db *sql.DB, m repomanager.RepositoryManager, fanout *FanoutService) *TaskService {
	return &TaskService{db: db, repomanager: m, fanout: fanout}
}

// Create validates the spec, stores the task in the available state, and
// broadcasts a task.created event.
func (s *TaskService) Create(ctx context.Context, spec TaskSpec) (*models.Task, error) {
	priority := spec.Priority
	if priority == "" {
		priority = models.TaskPriorityNormal
	}

	task := &models.Task{
		ID:          uuid.New().String(),
		Title:       spec.Title,
		Description: spec.Description,
		ServiceRef:  spec.ServiceRef,
		Price:       spec.Price,
		Priority:    priority,
		Status:      models.TaskStatusAvailable,
		CreatedAt:   time.Now(),
		DueAt:       spec.DueAt,
	}
	if err := task.Validate(); err != nil {
		return nil, err
	}

	repo := s.repomanager.Tasks(s.db)
	created, err := repo.Create(ctx, task)
	if err != nil {
		return nil, err
	}

	s.fanout.Publish(ctx, &models.Event{
		Type:   models.EventTaskCreated,
		Scope:  models.EventScopeBroadcast,
		TaskID: created.ID,
		Status: created.Status,
	})
	return created, nil
}

// Get returns the task by ID.
func (s *TaskService) Get(ctx context.Context, id string) (*models.Task, error) {
	repo := s.repomanager.Tasks(s.db)
	return repo.Get(ctx, id)
}

// List returns tasks, optionally filtered by status, newest first.
func (s *TaskService) List(ctx context.Context, status *models.TaskStatus) ([]*models.Task, error) {
	repo := s.repomanager.Tasks(s.db)
	return repo.List(ctx, status)
}
