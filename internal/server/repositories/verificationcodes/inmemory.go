package verificationcodes

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/printdesk/internal/common"
	"github.com/dmitrijs2005/printdesk/internal/server/models"
)

type codeKey struct {
	kind models.VerificationCodeKind
	key  string
}

// InMemoryRepository keeps verification codes in a (kind, key)-keyed map,
// which makes the uniqueness constraint structural.
type InMemoryRepository struct {
	mu    sync.RWMutex
	codes map[codeKey]*models.VerificationCode
}

// NewInMemoryRepository constructs an empty in-memory code store.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{codes: make(map[codeKey]*models.VerificationCode)}
}

func (r *InMemoryRepository) Upsert(ctx context.Context, code *models.VerificationCode) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := *code
	r.codes[codeKey{code.Kind, code.Key}] = &stored
	return nil
}

func (r *InMemoryRepository) Find(ctx context.Context, kind models.VerificationCodeKind, key string) (*models.VerificationCode, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	code, ok := r.codes[codeKey{kind, key}]
	if !ok {
		return nil, common.ErrorNotFound
	}
	copied := *code
	return &copied, nil
}

func (r *InMemoryRepository) Delete(ctx context.Context, kind models.VerificationCodeKind, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.codes, codeKey{kind, key})
	return nil
}

func (r *InMemoryRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var n int64
	for k, code := range r.codes {
		if code.Expired(now) {
			delete(r.codes, k)
			n++
		}
	}
	return n, nil
}
