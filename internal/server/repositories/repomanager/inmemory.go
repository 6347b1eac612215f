package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/printdesk/internal/dbx"
	"github.com/dmitrijs2005/printdesk/internal/server/repositories/documents"
	"github.com/dmitrijs2005/printdesk/internal/server/repositories/sessions"
	"github.com/dmitrijs2005/printdesk/internal/server/repositories/tasks"
	"github.com/dmitrijs2005/printdesk/internal/server/repositories/transactions"
	"github.com/dmitrijs2005/printdesk/internal/server/repositories/verificationcodes"
)

// InMemoryRepositoryManager vends process-local repositories. Used when no
// database DSN is configured and in tests. The db argument is ignored; the
// same repository instances are returned on every call so all components see
// shared state.
type InMemoryRepositoryManager struct {
	tasks             *tasks.InMemoryRepository
	transactions      *transactions.InMemoryRepository
	sessions          *sessions.InMemoryRepository
	verificationCodes *verificationcodes.InMemoryRepository
	documents         *documents.InMemoryRepository
}

func (m *InMemoryRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	return nil
}

func (m *InMemoryRepositoryManager) Tasks(db dbx.DBTX) tasks.Repository {
	return m.tasks
}

func (m *InMemoryRepositoryManager) Transactions(db dbx.DBTX) transactions.Repository {
	return m.transactions
}

func (m *InMemoryRepositoryManager) Sessions(db dbx.DBTX) sessions.Repository {
	return m.sessions
}

func (m *InMemoryRepositoryManager) VerificationCodes(db dbx.DBTX) verificationcodes.Repository {
	return m.verificationCodes
}

func (m *InMemoryRepositoryManager) Documents(db dbx.DBTX) documents.Repository {
	return m.documents
}

// NewInMemoryRepositoryManager constructs a RepositoryManager backed by
// in-memory stores.
func NewInMemoryRepositoryManager() RepositoryManager {
	return &InMemoryRepositoryManager{
		tasks:             tasks.NewInMemoryRepository(),
		transactions:      transactions.NewInMemoryRepository(),
		sessions:          sessions.NewInMemoryRepository(),
		verificationCodes: verificationcodes.NewInMemoryRepository(),
		documents:         documents.NewInMemoryRepository(),
	}
}
