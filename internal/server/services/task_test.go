package services

import (
	"context"
	"testing"
	"time"

	"github.com/dmitrijs2005/printdesk/internal/common"
	"github.com/dmitrijs2005/printdesk/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaskService_Create(t *testing.T) {
	ctx := context.Background()
	svc := newTestServices(t)

	task, err := svc.tasks.Create(ctx, TaskSpec{Title: "Print 10 pages", Price: 2.50})
	require.NoError(t, err)

	assert.NotEmpty(t, task.ID)
	assert.Equal(t, models.TaskStatusAvailable, task.Status)
	assert.Equal(t, models.TaskPriorityNormal, task.Priority, "priority defaults to normal")
	assert.Nil(t, task.Assignee)
	assert.False(t, task.CreatedAt.IsZero())
}

func TestTaskService_Create_Validation(t *testing.T) {
	ctx := context.Background()
	svc := newTestServices(t)

	tests := []struct {
		name string
		spec TaskSpec
	}{
		{"empty title", TaskSpec{Title: "   ", Price: 1}},
		{"negative price", TaskSpec{Title: "t", Price: -1}},
		{"unknown priority", TaskSpec{Title: "t", Price: 1, Priority: "whenever"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.tasks.Create(ctx, tt.spec)
			assert.ErrorIs(t, err, common.ErrValidation)
		})
	}
}

func TestTaskService_Create_PublishesEvent(t *testing.T) {
	ctx := context.Background()
	svc := newTestServices(t)

	session, err := svc.sessions.Issue(ctx, "w1", models.SessionTypePortal)
	require.NoError(t, err)
	ch, cancel := svc.fanout.Subscribe(session)
	defer cancel()

	task, err := svc.tasks.Create(ctx, TaskSpec{Title: "Print", Price: 1})
	require.NoError(t, err)

	select {
	case ev := <-ch:
		assert.Equal(t, models.EventTaskCreated, ev.Type)
		assert.Equal(t, task.ID, ev.TaskID)
		assert.Equal(t, models.TaskStatusAvailable, ev.Status)
	case <-time.After(time.Second):
		t.Fatal("no task.created event received")
	}
}

func TestTaskService_GetAndList(t *testing.T) {
	ctx := context.Background()
	svc := newTestServices(t)

	created, err := svc.tasks.Create(ctx, TaskSpec{Title: "A", Price: 1})
	require.NoError(t, err)
	_, err = svc.tasks.Create(ctx, TaskSpec{Title: "B", Price: 2})
	require.NoError(t, err)

	got, err := svc.tasks.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "A", got.Title)

	_, err = svc.tasks.Get(ctx, "missing")
	assert.ErrorIs(t, err, common.ErrorNotFound)

	all, err := svc.tasks.List(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	available := models.TaskStatusAvailable
	filtered, err := svc.tasks.List(ctx, &available)
	require.NoError(t, err)
	assert.Len(t, filtered, 2)
}
