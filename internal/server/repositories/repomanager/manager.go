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

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Tasks(db dbx.DBTX) tasks.Repository
	Transactions(db dbx.DBTX) transactions.Repository
	Sessions(db dbx.DBTX) sessions.Repository
	VerificationCodes(db dbx.DBTX) verificationcodes.Repository
	Documents(db dbx.DBTX) documents.Repository
}
