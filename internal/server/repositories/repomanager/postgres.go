// Package repomanager provides a concrete RepositoryManager for PostgreSQL,
// wiring together repository constructors and database migrations (via goose).
package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/printdesk/internal/dbx"
	"github.com/dmitrijs2005/printdesk/internal/server/migrations"
	"github.com/dmitrijs2005/printdesk/internal/server/repositories/documents"
	"github.com/dmitrijs2005/printdesk/internal/server/repositories/sessions"
	"github.com/dmitrijs2005/printdesk/internal/server/repositories/tasks"
	"github.com/dmitrijs2005/printdesk/internal/server/repositories/transactions"
	"github.com/dmitrijs2005/printdesk/internal/server/repositories/verificationcodes"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// PostgresRepositoryManager vends PostgreSQL-backed repository implementations
// and exposes a schema migration hook.
type PostgresRepositoryManager struct{}

// Tasks returns a tasks.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) Tasks(db dbx.DBTX) tasks.Repository {
	return tasks.NewPostgresRepository(db)
}

// Transactions returns a transactions.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) Transactions(db dbx.DBTX) transactions.Repository {
	return transactions.NewPostgresRepository(db)
}

// Sessions returns a sessions.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) Sessions(db dbx.DBTX) sessions.Repository {
	return sessions.NewPostgresRepository(db)
}

// VerificationCodes returns a verificationcodes.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) VerificationCodes(db dbx.DBTX) verificationcodes.Repository {
	return verificationcodes.NewPostgresRepository(db)
}

// Documents returns a documents.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) Documents(db dbx.DBTX) documents.Repository {
	return documents.NewPostgresRepository(db)
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations sets up goose with the embedded migrations and runs them
// against the provided database connection.
func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	goose.SetDialect("pgx")
	if err := gooseUpContext(ctx, db, "."); err != nil {
		return err
	}
	return nil
}

// NewPostgresRepositoryManager constructs a PostgreSQL-backed RepositoryManager.
func NewPostgresRepositoryManager(db *sql.DB) (RepositoryManager, error) {
	return &PostgresRepositoryManager{}, nil
}
