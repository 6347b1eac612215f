package sessions

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/printdesk/internal/common"
	"github.com/dmitrijs2005/printdesk/internal/server/models"
)

// InMemoryRepository keeps sessions in a token-keyed map. Reads take the
// shared lock only; session validation is read-mostly.
type InMemoryRepository struct {
	mu       sync.RWMutex
	sessions map[string]*models.Session
}

// NewInMemoryRepository constructs an empty in-memory session store.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{sessions: make(map[string]*models.Session)}
}

func (r *InMemoryRepository) Create(ctx context.Context, session *models.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := *session
	r.sessions[session.Token] = &stored
	return nil
}

func (r *InMemoryRepository) Find(ctx context.Context, token string) (*models.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	session, ok := r.sessions[token]
	if !ok {
		return nil, common.ErrorNotFound
	}
	copied := *session
	return &copied, nil
}

func (r *InMemoryRepository) Delete(ctx context.Context, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.sessions, token)
	return nil
}

func (r *InMemoryRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var n int64
	for token, session := range r.sessions {
		if session.Expired(now) {
			delete(r.sessions, token)
			n++
		}
	}
	return n, nil
}
