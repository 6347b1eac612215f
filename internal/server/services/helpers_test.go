package services

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/dmitrijs2005/printdesk/internal/logging"
	"github.com/dmitrijs2005/printdesk/internal/server/config"
	"github.com/dmitrijs2005/printdesk/internal/server/repositories/repomanager"
)

// --- helpers shared by the service tests ---

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func testConfig() *config.Config {
	return &config.Config{
		SecretKey:               "k",
		CodeValidityDuration:    time.Minute,
		SessionValidityDuration: time.Hour,
		SweepInterval:           time.Minute,
		ReconcileInterval:       time.Minute,
	}
}

// testServices wires the full service graph over in-memory stores. The db
// handle is nil: the in-memory manager ignores it.
type testServices struct {
	rm         repomanager.RepositoryManager
	sessions   *SessionService
	auth       *AuthService
	fanout     *FanoutService
	tasks      *TaskService
	ledger     *LedgerService
	assignment *AssignmentService
	documents  *DocumentService
}

func newTestServices(t *testing.T) *testServices {
	t.Helper()

	cfg := testConfig()
	logger := testLogger()
	rm := repomanager.NewInMemoryRepositoryManager()

	sessions := NewSessionService(nil, rm, cfg, logger)
	fanout := NewFanoutService(sessions, cfg, logger)
	ledger := NewLedgerService(nil, rm, fanout)

	return &testServices{
		rm:         rm,
		sessions:   sessions,
		auth:       NewAuthService(nil, rm, sessions, cfg, logger),
		fanout:     fanout,
		tasks:      NewTaskService(nil, rm, fanout),
		ledger:     ledger,
		assignment: NewAssignmentService(nil, rm, ledger, fanout),
		documents:  NewDocumentService(nil, rm, cfg),
	}
}
