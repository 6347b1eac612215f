package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dmitrijs2005/printdesk/internal/common"
	"github.com/dmitrijs2005/printdesk/internal/dbx"
	"github.com/dmitrijs2005/printdesk/internal/server/models"
	"github.com/dmitrijs2005/printdesk/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/printdesk/internal/server/repositories/tasks"
)

// Actor identifies who is performing an assignment operation: the session's
// username plus its role.
type Actor struct {
	Ref  string
	Role string
}

// IsAdmin reports whether the actor may perform privileged operations.
func (a Actor) IsAdmin() bool { return a.Role == models.RoleAdmin }

// AssignmentService drives the task status ladder:
//
//	available -> assigned -> in_progress -> completed
//
// with cancellation allowed from any non-terminal state. Every transition is
// a compare-and-swap in the task repository, so two racing claims (or a claim
// racing a cancellation) resolve to exactly one winner. Completion appends
// the task charge to the ledger.
type AssignmentService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	ledger      *LedgerService
	fanout      *FanoutService
}

// NewAssignmentService constructs an AssignmentService.
func NewAssignmentService(db *sql.DB, m repomanager.RepositoryManager, ledger *LedgerService, fanout *FanoutService) *AssignmentService {
	return &AssignmentService{db: db, repomanager: m, ledger: ledger, fanout: fanout}
}

// Claim moves an available task to assigned with the actor as assignee.
// A task that exists but is not available yields ErrConflict; concurrent
// claims on the same task produce one winner and ErrConflict for the rest.
func (s *AssignmentService) Claim(ctx context.Context, taskID string, actor Actor) (*models.Task, error) {
	repo := s.repomanager.Tasks(s.db)

	assignee := actor.Ref
	task, err := repo.CompareAndSwapStatus(ctx, taskID, tasks.Transition{
		From:     models.TaskStatusAvailable,
		To:       models.TaskStatusAssigned,
		Assignee: &assignee,
		At:       time.Now(),
	})
	if err != nil {
		return nil, err
	}

	s.fanout.Publish(ctx, &models.Event{
		Type:   models.EventTaskClaimed,
		Scope:  models.EventScopeActor,
		Target: actor.Ref,
		TaskID: task.ID,
		Actor:  actor.Ref,
		Status: task.Status,
	})
	return task, nil
}

// Advance moves the actor's task to the requested target status: assigned to
// in_progress, or in_progress to completed. A target that skips a rung, or
// repeats the current one, yields ErrInvalidTransition. Only the assignee may
// advance; anyone else gets ErrConflict and the task is untouched.
//
// Advancing to completed appends the task charge to the ledger. The caller
// may supply a breakdown snapshot for the charge; when it is nil the full
// price is recorded as usage. On the SQL path the status swap and the charge
// share one transaction, so a ledger failure rolls both back.
func (s *AssignmentService) Advance(ctx context.Context, taskID string, actor Actor, target models.TaskStatus, breakdown *models.Breakdown) (*models.Task, error) {
	if !target.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", common.ErrValidation, target)
	}
	if target != models.TaskStatusInProgress && target != models.TaskStatusCompleted {
		return nil, fmt.Errorf("%w: advance cannot target %s", common.ErrInvalidTransition, target)
	}

	task, err := s.repomanager.Tasks(s.db).Get(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if !task.Status.CanTransitionTo(target) {
		return nil, fmt.Errorf("%w: task %s cannot advance from %s to %s", common.ErrInvalidTransition, taskID, task.Status, target)
	}
	if task.Assignee == nil || *task.Assignee != actor.Ref {
		return nil, fmt.Errorf("%w: task %s is not assigned to %s", common.ErrConflict, taskID, actor.Ref)
	}

	assignee := actor.Ref
	transition := tasks.Transition{
		From:     task.Status,
		To:       target,
		Assignee: &assignee,
		At:       time.Now(),
	}

	var updated *models.Task
	var charge *models.Transaction
	apply := func(ctx context.Context, db dbx.DBTX) error {
		var err error
		updated, err = s.repomanager.Tasks(db).CompareAndSwapStatus(ctx, taskID, transition)
		if err != nil {
			return err
		}
		if updated.Status != models.TaskStatusCompleted {
			return nil
		}
		split := models.Breakdown{Usage: updated.Price}
		if breakdown != nil {
			split = *breakdown
		}
		charge, err = s.ledger.record(ctx, db, RecordSpec{
			Type:      models.TransactionTypeTaskCharge,
			TaskID:    updated.ID,
			Amount:    updated.Price,
			Actor:     actor.Ref,
			Breakdown: split,
		})
		return err
	}

	if s.db != nil {
		err = dbx.WithTx(ctx, s.db, nil, apply)
	} else {
		err = apply(ctx, nil)
	}
	if err != nil {
		return nil, err
	}

	eventType := models.EventTaskAdvanced
	if updated.Status == models.TaskStatusCompleted {
		eventType = models.EventTaskCompleted
		s.ledger.announce(ctx, charge)
	}

	s.fanout.Publish(ctx, &models.Event{
		Type:   eventType,
		Scope:  models.EventScopeActor,
		Target: actor.Ref,
		TaskID: updated.ID,
		Actor:  actor.Ref,
		Status: updated.Status,
	})
	return updated, nil
}

// Cancel moves a non-terminal task to cancelled and clears its assignee.
// The current assignee may cancel their own task; admins may force-cancel
// any. Everyone else gets ErrorUnauthorized. Completed and cancelled tasks
// yield ErrInvalidTransition.
func (s *AssignmentService) Cancel(ctx context.Context, taskID string, actor Actor) (*models.Task, error) {
	repo := s.repomanager.Tasks(s.db)

	task, err := repo.Get(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if task.Status.IsTerminal() {
		return nil, fmt.Errorf("%w: task %s is already %s", common.ErrInvalidTransition, taskID, task.Status)
	}
	if !actor.IsAdmin() && (task.Assignee == nil || *task.Assignee != actor.Ref) {
		return nil, common.ErrorUnauthorized
	}

	updated, err := repo.CompareAndSwapStatus(ctx, taskID, tasks.Transition{
		From:     task.Status,
		To:       models.TaskStatusCancelled,
		Assignee: nil,
		At:       time.Now(),
	})
	if err != nil {
		return nil, err
	}

	s.fanout.Publish(ctx, &models.Event{
		Type:   models.EventTaskCancelled,
		Scope:  models.EventScopeBroadcast,
		TaskID: updated.ID,
		Actor:  actor.Ref,
		Status: updated.Status,
	})
	return updated, nil
}
