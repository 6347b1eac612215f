// Package documents provides repositories for shared-document catalog
// metadata. File content is out of scope; only storage keys are tracked.
package documents

import (
	"context"

	"github.com/dmitrijs2005/printdesk/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, doc *models.Document) (*models.Document, error)
	Get(ctx context.Context, id string) (*models.Document, error)
	List(ctx context.Context) ([]*models.Document, error)
}
