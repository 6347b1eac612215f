package tasks

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/printdesk/internal/common"
	"github.com/dmitrijs2005/printdesk/internal/server/models"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func taskRows(status models.TaskStatus, assignee *string) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{
		"id", "title", "description", "service_ref", "price", "priority", "status", "assignee",
		"created_at", "assigned_at", "started_at", "completed_at", "due_at",
	}).AddRow("t1", "Print 10 pages", "", "", 2.50, "normal", string(status), assignee,
		now, nil, nil, nil, nil)
}

func TestPostgresCreate_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO tasks`)).
		WithArgs("t1", "Print 10 pages", "", "", 2.50, "normal", "available", sqlmock.AnyArg(), nil).
		WillReturnResult(sqlmock.NewResult(0, 1))

	_, err := repo.Create(context.Background(), &models.Task{
		ID: "t1", Title: "Print 10 pages", Price: 2.50,
		Priority: models.TaskPriorityNormal, Status: models.TaskStatusAvailable,
		CreatedAt: time.Now(),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestPostgresGet_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT .* FROM tasks WHERE id = \$1`).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.Get(context.Background(), "missing")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want ErrorNotFound, got %v", err)
	}
}

func TestPostgresCAS_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	worker := "w1"
	mock.ExpectQuery(`UPDATE tasks`).
		WithArgs("t1", "available", "assigned", worker, sqlmock.AnyArg()).
		WillReturnRows(taskRows(models.TaskStatusAssigned, &worker))

	got, err := repo.CompareAndSwapStatus(context.Background(), "t1", Transition{
		From: models.TaskStatusAvailable, To: models.TaskStatusAssigned,
		Assignee: &worker, At: time.Now(),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Status != models.TaskStatusAssigned {
		t.Fatalf("want status assigned, got %s", got.Status)
	}
}

func TestPostgresCAS_ConflictWhenRowUnchanged(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	worker := "w1"
	mock.ExpectQuery(`UPDATE tasks`).
		WithArgs("t1", "available", "assigned", worker, sqlmock.AnyArg()).
		WillReturnError(sql.ErrNoRows)

	// follow-up read finds the task, so the CAS failure is a conflict
	other := "w2"
	mock.ExpectQuery(`SELECT .* FROM tasks WHERE id = \$1`).
		WithArgs("t1").
		WillReturnRows(taskRows(models.TaskStatusAssigned, &other))

	_, err := repo.CompareAndSwapStatus(context.Background(), "t1", Transition{
		From: models.TaskStatusAvailable, To: models.TaskStatusAssigned,
		Assignee: &worker, At: time.Now(),
	})
	if !errors.Is(err, common.ErrConflict) {
		t.Fatalf("want ErrConflict, got %v", err)
	}
}

func TestPostgresCAS_NotFoundWhenRowMissing(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	worker := "w1"
	mock.ExpectQuery(`UPDATE tasks`).
		WithArgs("missing", "available", "assigned", worker, sqlmock.AnyArg()).
		WillReturnError(sql.ErrNoRows)

	mock.ExpectQuery(`SELECT .* FROM tasks WHERE id = \$1`).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.CompareAndSwapStatus(context.Background(), "missing", Transition{
		From: models.TaskStatusAvailable, To: models.TaskStatusAssigned,
		Assignee: &worker, At: time.Now(),
	})
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want ErrorNotFound, got %v", err)
	}
}

func TestPostgresList_FilterArg(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT .* FROM tasks WHERE status = \$1 ORDER BY created_at DESC`).
		WithArgs("available").
		WillReturnRows(taskRows(models.TaskStatusAvailable, nil))

	available := models.TaskStatusAvailable
	got, err := repo.List(context.Background(), &available)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].ID != "t1" {
		t.Fatalf("unexpected result: %+v", got)
	}
}
