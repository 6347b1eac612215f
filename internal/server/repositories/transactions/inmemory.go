package transactions

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/printdesk/internal/server/models"
)

// InMemoryRepository keeps the ledger as an append-ordered slice. A RWMutex
// gives reader/writer concurrency: balance reads never block each other and
// appends stay serialized.
type InMemoryRepository struct {
	mu      sync.RWMutex
	entries []*models.Transaction
}

// NewInMemoryRepository constructs an empty in-memory ledger.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{}
}

func (r *InMemoryRepository) Create(ctx context.Context, tx *models.Transaction) (*models.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := *tx
	r.entries = append(r.entries, &stored)
	return tx, nil
}

func (r *InMemoryRepository) ListByActor(ctx context.Context, actor string) ([]*models.Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*models.Transaction
	for _, e := range r.entries {
		if e.Actor == actor {
			item := *e
			result = append(result, &item)
		}
	}
	return result, nil
}

func (r *InMemoryRepository) SumByActor(ctx context.Context, actor string) (float64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var sum float64
	for _, e := range r.entries {
		if e.Actor == actor {
			sum += e.Amount
		}
	}
	return sum, nil
}
