package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dmitrijs2005/printdesk/internal/common"
	"github.com/dmitrijs2005/printdesk/internal/logging"
	"github.com/dmitrijs2005/printdesk/internal/server/config"
	"github.com/dmitrijs2005/printdesk/internal/server/models"
	"github.com/dmitrijs2005/printdesk/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/printdesk/internal/server/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testAPI is a fully wired server over in-memory stores plus direct service
// handles for seeding state the API itself cannot (e.g. minting sessions
// without the out-of-band code).
type testAPI struct {
	ts       *httptest.Server
	sessions *services.SessionService
	tasks    *services.TaskService
	ledger   *services.LedgerService
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()

	cfg := &config.Config{
		SecretKey:               "k",
		CodeValidityDuration:    time.Minute,
		SessionValidityDuration: time.Hour,
		SweepInterval:           time.Minute,
		ReconcileInterval:       time.Minute,
		S3Region:                "us-east-1",
		S3RootUser:              "minioadmin",
		S3RootPassword:          "minioadmin",
		S3Bucket:                "documents",
		S3BaseEndpoint:          "http://127.0.0.1:9000",
	}
	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	rm := repomanager.NewInMemoryRepositoryManager()

	sessions := services.NewSessionService(nil, rm, cfg, logger)
	fanout := services.NewFanoutService(sessions, cfg, logger)
	ledger := services.NewLedgerService(nil, rm, fanout)
	tasks := services.NewTaskService(nil, rm, fanout)
	assignment := services.NewAssignmentService(nil, rm, ledger, fanout)
	auth := services.NewAuthService(nil, rm, sessions, cfg, logger)
	documents := services.NewDocumentService(nil, rm, cfg)

	srv := NewServer(cfg, logger, tasks, assignment, ledger, sessions, auth, documents, fanout)

	ts := httptest.NewServer(srv.routes())
	t.Cleanup(ts.Close)

	return &testAPI{ts: ts, sessions: sessions, tasks: tasks, ledger: ledger}
}

func (a *testAPI) signIn(t *testing.T, username string, st models.SessionType) string {
	t.Helper()
	session, err := a.sessions.Issue(context.Background(), username, st)
	require.NoError(t, err)
	return session.Token
}

// do sends a JSON request and decodes the JSON response into out (when out
// is non-nil).
func (a *testAPI) do(t *testing.T, method, path, token string, body, out any) int {
	t.Helper()

	var reqBody io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reqBody = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, a.ts.URL+path, reqBody)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set(common.SessionTokenHeaderName, token)
	}

	resp, err := a.ts.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func TestAPI_Ping(t *testing.T) {
	api := newTestAPI(t)

	var body map[string]string
	code := api.do(t, http.MethodGet, "/ping", "", nil, &body)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", body["status"])
}

func TestAPI_RequiresSession(t *testing.T) {
	api := newTestAPI(t)

	code := api.do(t, http.MethodGet, "/tasks", "", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, code)

	code = api.do(t, http.MethodGet, "/tasks", "bogus-token", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestAPI_TaskLifecycle(t *testing.T) {
	api := newTestAPI(t)
	adminToken := api.signIn(t, "boss", models.SessionTypeAdmin)
	workerToken := api.signIn(t, "w1", models.SessionTypePortal)
	otherToken := api.signIn(t, "w2", models.SessionTypePortal)

	var task models.Task
	code := api.do(t, http.MethodPost, "/tasks", adminToken,
		map[string]any{"title": "Print 10 pages", "price": 2.50}, &task)
	require.Equal(t, http.StatusCreated, code)
	assert.Equal(t, models.TaskStatusAvailable, task.Status)

	var list []models.Task
	code = api.do(t, http.MethodGet, "/tasks?status=available", workerToken, nil, &list)
	require.Equal(t, http.StatusOK, code)
	require.Len(t, list, 1)

	var claimed models.Task
	code = api.do(t, http.MethodPost, "/tasks/"+task.ID+"/claim", workerToken, nil, &claimed)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, models.TaskStatusAssigned, claimed.Status)
	require.NotNil(t, claimed.Assignee)
	assert.Equal(t, "w1", *claimed.Assignee)

	// second claim loses
	code = api.do(t, http.MethodPost, "/tasks/"+task.ID+"/claim", otherToken, nil, nil)
	assert.Equal(t, http.StatusConflict, code)

	// only the assignee can advance
	code = api.do(t, http.MethodPost, "/tasks/"+task.ID+"/advance", otherToken,
		map[string]any{"target": "in_progress"}, nil)
	assert.Equal(t, http.StatusConflict, code)

	var advanced models.Task
	code = api.do(t, http.MethodPost, "/tasks/"+task.ID+"/advance", workerToken,
		map[string]any{"target": "in_progress"}, &advanced)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, models.TaskStatusInProgress, advanced.Status)

	// repeating the request must not complete the task
	code = api.do(t, http.MethodPost, "/tasks/"+task.ID+"/advance", workerToken,
		map[string]any{"target": "in_progress"}, nil)
	assert.Equal(t, http.StatusConflict, code)

	code = api.do(t, http.MethodPost, "/tasks/"+task.ID+"/advance", workerToken,
		map[string]any{"target": "completed"}, &advanced)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, models.TaskStatusCompleted, advanced.Status)

	// completion charged the ledger
	var balance map[string]any
	code = api.do(t, http.MethodGet, "/balance", workerToken, nil, &balance)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "w1", balance["actor"])
	assert.InDelta(t, 2.50, balance["balance"].(float64), 1e-9)

	// terminal tasks cannot advance further
	code = api.do(t, http.MethodPost, "/tasks/"+task.ID+"/advance", workerToken,
		map[string]any{"target": "completed"}, nil)
	assert.Equal(t, http.StatusConflict, code)

	// a missing or unknown target is a bad request
	code = api.do(t, http.MethodPost, "/tasks/"+task.ID+"/advance", workerToken, nil, nil)
	assert.Equal(t, http.StatusBadRequest, code)
	code = api.do(t, http.MethodPost, "/tasks/"+task.ID+"/advance", workerToken,
		map[string]any{"target": "bogus"}, nil)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestAPI_AdvanceTask_BreakdownPassthrough(t *testing.T) {
	api := newTestAPI(t)
	adminToken := api.signIn(t, "boss", models.SessionTypeAdmin)
	workerToken := api.signIn(t, "w1", models.SessionTypePortal)

	var task models.Task
	code := api.do(t, http.MethodPost, "/tasks", adminToken,
		map[string]any{"title": "Print", "price": 3.0}, &task)
	require.Equal(t, http.StatusCreated, code)

	_ = api.do(t, http.MethodPost, "/tasks/"+task.ID+"/claim", workerToken, nil, nil)
	_ = api.do(t, http.MethodPost, "/tasks/"+task.ID+"/advance", workerToken,
		map[string]any{"target": "in_progress"}, nil)

	code = api.do(t, http.MethodPost, "/tasks/"+task.ID+"/advance", workerToken,
		map[string]any{
			"target":    "completed",
			"breakdown": map[string]any{"usage": 0.5, "print_bw": 1.5, "print_color": 1.0},
		}, nil)
	require.Equal(t, http.StatusOK, code)

	var history []models.Transaction
	code = api.do(t, http.MethodGet, "/transactions", workerToken, nil, &history)
	require.Equal(t, http.StatusOK, code)
	require.Len(t, history, 1)
	assert.InDelta(t, 3.0, history[0].Amount, 1e-9)
	assert.InDelta(t, 0.5, history[0].Breakdown.Usage, 1e-9)
	assert.InDelta(t, 1.5, history[0].Breakdown.PrintBW, 1e-9)
	assert.InDelta(t, 1.0, history[0].Breakdown.PrintColor, 1e-9)
}

func TestAPI_CreateTask_AdminOnly(t *testing.T) {
	api := newTestAPI(t)
	workerToken := api.signIn(t, "w1", models.SessionTypePortal)

	code := api.do(t, http.MethodPost, "/tasks", workerToken,
		map[string]any{"title": "t", "price": 1}, nil)
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestAPI_CreateTask_Validation(t *testing.T) {
	api := newTestAPI(t)
	adminToken := api.signIn(t, "boss", models.SessionTypeAdmin)

	code := api.do(t, http.MethodPost, "/tasks", adminToken,
		map[string]any{"title": "", "price": 1}, nil)
	assert.Equal(t, http.StatusBadRequest, code)

	code = api.do(t, http.MethodGet, "/tasks?status=bogus", adminToken, nil, nil)
	assert.Equal(t, http.StatusBadRequest, code)

	code = api.do(t, http.MethodGet, "/tasks/missing", adminToken, nil, nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestAPI_CancelTask(t *testing.T) {
	api := newTestAPI(t)
	adminToken := api.signIn(t, "boss", models.SessionTypeAdmin)
	workerToken := api.signIn(t, "w1", models.SessionTypePortal)
	otherToken := api.signIn(t, "w2", models.SessionTypePortal)

	var task models.Task
	code := api.do(t, http.MethodPost, "/tasks", adminToken,
		map[string]any{"title": "Print", "price": 1}, &task)
	require.Equal(t, http.StatusCreated, code)

	_ = api.do(t, http.MethodPost, "/tasks/"+task.ID+"/claim", workerToken, nil, nil)

	// only the assignee or an admin may cancel
	code = api.do(t, http.MethodPost, "/tasks/"+task.ID+"/cancel", otherToken, nil, nil)
	assert.Equal(t, http.StatusUnauthorized, code)

	var cancelled models.Task
	code = api.do(t, http.MethodPost, "/tasks/"+task.ID+"/cancel", adminToken, nil, &cancelled)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, models.TaskStatusCancelled, cancelled.Status)
	assert.Nil(t, cancelled.Assignee)
}

func TestAPI_CancelTask_ByAssignee(t *testing.T) {
	api := newTestAPI(t)
	adminToken := api.signIn(t, "boss", models.SessionTypeAdmin)
	workerToken := api.signIn(t, "w1", models.SessionTypePortal)

	var task models.Task
	code := api.do(t, http.MethodPost, "/tasks", adminToken,
		map[string]any{"title": "Print", "price": 1}, &task)
	require.Equal(t, http.StatusCreated, code)

	_ = api.do(t, http.MethodPost, "/tasks/"+task.ID+"/claim", workerToken, nil, nil)

	var cancelled models.Task
	code = api.do(t, http.MethodPost, "/tasks/"+task.ID+"/cancel", workerToken, nil, &cancelled)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, models.TaskStatusCancelled, cancelled.Status)
	assert.Nil(t, cancelled.Assignee)
}

func TestAPI_Transactions(t *testing.T) {
	api := newTestAPI(t)
	adminToken := api.signIn(t, "boss", models.SessionTypeAdmin)
	workerToken := api.signIn(t, "w1", models.SessionTypePortal)

	var entry models.Transaction
	code := api.do(t, http.MethodPost, "/transactions", adminToken,
		map[string]any{"type": "top_up", "actor": "w1", "amount": 10}, &entry)
	require.Equal(t, http.StatusCreated, code)
	assert.Equal(t, models.TransactionTypeTopUp, entry.Type)

	// workers cannot record entries
	code = api.do(t, http.MethodPost, "/transactions", workerToken,
		map[string]any{"type": "top_up", "actor": "w1", "amount": 10}, nil)
	assert.Equal(t, http.StatusUnauthorized, code)

	var history []models.Transaction
	code = api.do(t, http.MethodGet, "/transactions", workerToken, nil, &history)
	require.Equal(t, http.StatusOK, code)
	require.Len(t, history, 1)
	assert.InDelta(t, 10.0, history[0].Amount, 1e-9)

	// admins can inspect any actor's history
	code = api.do(t, http.MethodGet, "/transactions?actor=w1", adminToken, nil, &history)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, history, 1)

	// missing actor on a record is a validation error
	code = api.do(t, http.MethodPost, "/transactions", adminToken,
		map[string]any{"type": "top_up", "amount": 10}, nil)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestAPI_AuthEndpoints(t *testing.T) {
	api := newTestAPI(t)

	var codeResp map[string]string
	status := api.do(t, http.MethodPost, "/auth/code", "",
		map[string]string{"username": "w1"}, &codeResp)
	require.Equal(t, http.StatusOK, status)
	require.NotEmpty(t, codeResp["temp_token"])

	// a wrong code is rejected
	status = api.do(t, http.MethodPost, "/auth/verify", "",
		map[string]string{"temp_token": codeResp["temp_token"], "code": "000000"}, nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	// garbage temp tokens are rejected
	status = api.do(t, http.MethodPost, "/auth/verify", "",
		map[string]string{"temp_token": "garbage", "code": "000000"}, nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	// empty username is a validation error
	status = api.do(t, http.MethodPost, "/auth/code", "",
		map[string]string{"username": ""}, nil)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestAPI_Logout(t *testing.T) {
	api := newTestAPI(t)
	token := api.signIn(t, "w1", models.SessionTypePortal)

	code := api.do(t, http.MethodPost, "/auth/logout", token, nil, nil)
	require.Equal(t, http.StatusOK, code)

	code = api.do(t, http.MethodGet, "/tasks", token, nil, nil)
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestAPI_Documents(t *testing.T) {
	api := newTestAPI(t)
	adminToken := api.signIn(t, "boss", models.SessionTypeAdmin)
	workerToken := api.signIn(t, "w1", models.SessionTypePortal)

	// uploads are admin-only
	code := api.do(t, http.MethodPost, "/documents", workerToken,
		map[string]string{"title": "Price list"}, nil)
	assert.Equal(t, http.StatusUnauthorized, code)

	// empty title fails before any storage work
	code = api.do(t, http.MethodPost, "/documents", adminToken,
		map[string]string{"title": " "}, nil)
	assert.Equal(t, http.StatusBadRequest, code)

	var list []models.Document
	code = api.do(t, http.MethodGet, "/documents", workerToken, nil, &list)
	require.Equal(t, http.StatusOK, code)
	assert.Empty(t, list)

	code = api.do(t, http.MethodGet, "/documents/missing/url", workerToken, nil, nil)
	assert.Equal(t, http.StatusNotFound, code)
}
