package documents

import (
	"context"
	"sort"
	"sync"

	"github.com/dmitrijs2005/printdesk/internal/common"
	"github.com/dmitrijs2005/printdesk/internal/server/models"
)

// InMemoryRepository keeps document metadata in an id-keyed map.
type InMemoryRepository struct {
	mu   sync.RWMutex
	docs map[string]*models.Document
}

// NewInMemoryRepository constructs an empty in-memory document store.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{docs: make(map[string]*models.Document)}
}

func (r *InMemoryRepository) Create(ctx context.Context, doc *models.Document) (*models.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := *doc
	r.docs[doc.ID] = &stored
	return doc, nil
}

func (r *InMemoryRepository) Get(ctx context.Context, id string) (*models.Document, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	doc, ok := r.docs[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	copied := *doc
	return &copied, nil
}

func (r *InMemoryRepository) List(ctx context.Context) ([]*models.Document, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*models.Document
	for _, doc := range r.docs {
		copied := *doc
		result = append(result, &copied)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].ID < result[j].ID
		}
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}
