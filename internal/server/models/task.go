// Package models defines the server-side entities of PrintDesk: tasks,
// ledger transactions, sessions, verification codes and shared documents.
package models

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/dmitrijs2005/printdesk/internal/common"
)

// TaskStatus is the lifecycle state of a task. Transitions follow a monotonic
// ladder (available, assigned, in_progress, completed); cancelled is
// reachable from any non-terminal state.
type TaskStatus string

const (
	TaskStatusAvailable  TaskStatus = "available"
	TaskStatusAssigned   TaskStatus = "assigned"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusCompleted  TaskStatus = "completed"
	TaskStatusCancelled  TaskStatus = "cancelled"
)

// IsTerminal reports whether no further transitions are possible.
func (s TaskStatus) IsTerminal() bool {
	return s == TaskStatusCompleted || s == TaskStatusCancelled
}

// RequiresAssignee reports whether a task in this status must carry an
// assignee. The task invariant: assignee is set if and only if the status
// requires one.
func (s TaskStatus) RequiresAssignee() bool {
	return s == TaskStatusAssigned || s == TaskStatusInProgress || s == TaskStatusCompleted
}

// CanTransitionTo reports whether target is reachable from s in one step.
func (s TaskStatus) CanTransitionTo(target TaskStatus) bool {
	if target == TaskStatusCancelled {
		return !s.IsTerminal()
	}
	switch s {
	case TaskStatusAvailable:
		return target == TaskStatusAssigned
	case TaskStatusAssigned:
		return target == TaskStatusInProgress
	case TaskStatusInProgress:
		return target == TaskStatusCompleted
	default:
		return false
	}
}

// Valid reports whether s is a known status value.
func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusAvailable, TaskStatusAssigned, TaskStatusInProgress,
		TaskStatusCompleted, TaskStatusCancelled:
		return true
	}
	return false
}

// TaskPriority orders tasks for presentation; it has no scheduling effect.
type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "low"
	TaskPriorityNormal TaskPriority = "normal"
	TaskPriorityHigh   TaskPriority = "high"
	TaskPriorityUrgent TaskPriority = "urgent"
)

// Valid reports whether p is a known priority value.
func (p TaskPriority) Valid() bool {
	switch p {
	case TaskPriorityLow, TaskPriorityNormal, TaskPriorityHigh, TaskPriorityUrgent:
		return true
	}
	return false
}

// Task is a unit of billable work offered to portal workers.
type Task struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description,omitempty"`
	ServiceRef  string       `json:"service_ref,omitempty"`
	Price       float64      `json:"price"`
	Priority    TaskPriority `json:"priority"`
	Status      TaskStatus   `json:"status"`
	Assignee    *string      `json:"assignee,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
	AssignedAt  *time.Time   `json:"assigned_at,omitempty"`
	StartedAt   *time.Time   `json:"started_at,omitempty"`
	CompletedAt *time.Time   `json:"completed_at,omitempty"`
	DueAt       *time.Time   `json:"due_at,omitempty"`
}

// Validate checks the fields a caller controls at creation time.
func (t *Task) Validate() error {
	if strings.TrimSpace(t.Title) == "" {
		return fmt.Errorf("%w: title is required", common.ErrValidation)
	}
	if math.IsNaN(t.Price) || math.IsInf(t.Price, 0) {
		return fmt.Errorf("%w: price must be finite", common.ErrValidation)
	}
	if t.Price < 0 {
		return fmt.Errorf("%w: price must not be negative", common.ErrValidation)
	}
	if t.Priority != "" && !t.Priority.Valid() {
		return fmt.Errorf("%w: unknown priority %q", common.ErrValidation, t.Priority)
	}
	return nil
}

// CheckInvariant verifies the assignee-iff-status rule. Repositories call it
// after every transition.
func (t *Task) CheckInvariant() error {
	if t.Status.RequiresAssignee() && t.Assignee == nil {
		return fmt.Errorf("%w: status %s requires an assignee", common.ErrConflict, t.Status)
	}
	if !t.Status.RequiresAssignee() && t.Assignee != nil {
		return fmt.Errorf("%w: status %s must not carry an assignee", common.ErrConflict, t.Status)
	}
	return nil
}

// Clone returns a deep copy so callers can hand out tasks without sharing
// mutable state with the store.
func (t *Task) Clone() *Task {
	c := *t
	if t.Assignee != nil {
		v := *t.Assignee
		c.Assignee = &v
	}
	for _, p := range []struct {
		src *time.Time
		dst **time.Time
	}{
		{t.AssignedAt, &c.AssignedAt},
		{t.StartedAt, &c.StartedAt},
		{t.CompletedAt, &c.CompletedAt},
		{t.DueAt, &c.DueAt},
	} {
		if p.src != nil {
			v := *p.src
			*p.dst = &v
		}
	}
	return &c
}
