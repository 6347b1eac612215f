// Package transactions provides the append-only ledger repositories.
// Entries are immutable once created; there is no update or delete path.
package transactions

import (
	"context"

	"github.com/dmitrijs2005/printdesk/internal/server/models"
)

type Repository interface {
	// Create appends an entry to the ledger.
	Create(ctx context.Context, tx *models.Transaction) (*models.Transaction, error)
	// ListByActor returns all entries for the actor, oldest first.
	ListByActor(ctx context.Context, actor string) ([]*models.Transaction, error)
	// SumByActor returns the signed sum of amounts for the actor. The result
	// reflects every append that completed before the call.
	SumByActor(ctx context.Context, actor string) (float64, error)
}
