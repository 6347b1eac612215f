package models

import (
	"errors"
	"testing"

	"github.com/dmitrijs2005/printdesk/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaskStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from TaskStatus
		to   TaskStatus
		want bool
	}{
		{TaskStatusAvailable, TaskStatusAssigned, true},
		{TaskStatusAssigned, TaskStatusInProgress, true},
		{TaskStatusInProgress, TaskStatusCompleted, true},
		{TaskStatusAvailable, TaskStatusCancelled, true},
		{TaskStatusAssigned, TaskStatusCancelled, true},
		{TaskStatusInProgress, TaskStatusCancelled, true},

		// no skipping rungs
		{TaskStatusAvailable, TaskStatusInProgress, false},
		{TaskStatusAvailable, TaskStatusCompleted, false},
		{TaskStatusAssigned, TaskStatusCompleted, false},

		// no going back
		{TaskStatusAssigned, TaskStatusAvailable, false},
		{TaskStatusInProgress, TaskStatusAssigned, false},

		// terminal states are final
		{TaskStatusCompleted, TaskStatusCancelled, false},
		{TaskStatusCancelled, TaskStatusCancelled, false},
		{TaskStatusCompleted, TaskStatusAssigned, false},
	}

	for _, tc := range tests {
		got := tc.from.CanTransitionTo(tc.to)
		assert.Equal(t, tc.want, got, "%s -> %s", tc.from, tc.to)
	}
}

func TestTask_Validate(t *testing.T) {
	valid := Task{Title: "Print 10 pages", Price: 2.50, Priority: TaskPriorityNormal}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name string
		task Task
	}{
		{"empty title", Task{Title: "  ", Price: 1}},
		{"negative price", Task{Title: "x", Price: -1}},
		{"nan price", Task{Title: "x", Price: nan()}},
		{"unknown priority", Task{Title: "x", Price: 1, Priority: "extreme"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.task.Validate()
			require.Error(t, err)
			assert.True(t, errors.Is(err, common.ErrValidation), "want ErrValidation, got %v", err)
		})
	}
}

func TestTask_CheckInvariant(t *testing.T) {
	worker := "worker-a"

	ok := Task{Status: TaskStatusAssigned, Assignee: &worker}
	require.NoError(t, ok.CheckInvariant())

	free := Task{Status: TaskStatusAvailable}
	require.NoError(t, free.CheckInvariant())

	missing := Task{Status: TaskStatusInProgress}
	require.ErrorIs(t, missing.CheckInvariant(), common.ErrConflict)

	stray := Task{Status: TaskStatusCancelled, Assignee: &worker}
	require.ErrorIs(t, stray.CheckInvariant(), common.ErrConflict)
}

func TestTask_CloneIsDeep(t *testing.T) {
	worker := "worker-a"
	orig := Task{ID: "t1", Status: TaskStatusAssigned, Assignee: &worker}

	c := orig.Clone()
	*c.Assignee = "worker-b"
	c.Status = TaskStatusCompleted

	assert.Equal(t, "worker-a", *orig.Assignee)
	assert.Equal(t, TaskStatusAssigned, orig.Status)
}

func nan() float64 {
	var zero float64
	return zero / zero
}
