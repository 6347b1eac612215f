package models

import "time"

// EventScope controls who receives a published event.
type EventScope string

const (
	// EventScopeBroadcast delivers to every subscriber.
	EventScopeBroadcast EventScope = "broadcast"
	// EventScopeActor delivers to subscribers whose session belongs to
	// Target, plus admin sessions.
	EventScopeActor EventScope = "actor"
	// EventScopeAdmin delivers to admin sessions only.
	EventScopeAdmin EventScope = "admin"
)

// Event types published by the assignment and ledger flows.
const (
	EventTaskCreated    = "task.created"
	EventTaskClaimed    = "task.claimed"
	EventTaskAdvanced   = "task.advanced"
	EventTaskCompleted  = "task.completed"
	EventTaskCancelled  = "task.cancelled"
	EventLedgerRecorded = "ledger.recorded"
)

// Event is a state-change notification fanned out to subscribed sessions.
// Delivery is best-effort; events carry enough state for a client to refresh
// without a follow-up query.
type Event struct {
	ID        string     `json:"id"`
	Type      string     `json:"type"`
	Scope     EventScope `json:"scope"`
	Target    string     `json:"target,omitempty"`
	TaskID    string     `json:"task_id,omitempty"`
	Actor     string     `json:"actor,omitempty"`
	Status    TaskStatus `json:"status,omitempty"`
	Amount    float64    `json:"amount,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}
