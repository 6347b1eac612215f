package documents

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/printdesk/internal/common"
	"github.com/dmitrijs2005/printdesk/internal/dbx"
	"github.com/dmitrijs2005/printdesk/internal/server/models"
)

// PostgresRepository implements document catalog storage over a dbx.DBTX
// (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, doc *models.Document) (*models.Document, error) {
	query := `
		INSERT INTO documents (id, title, description, storage_key, owner, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	if _, err := r.db.ExecContext(ctx, query,
		doc.ID, doc.Title, doc.Description, doc.StorageKey, doc.Owner, doc.CreatedAt); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return doc, nil
}

func (r *PostgresRepository) Get(ctx context.Context, id string) (*models.Document, error) {
	query := `
		SELECT id, title, description, storage_key, owner, created_at
		FROM documents
		WHERE id = $1
	`
	doc := &models.Document{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&doc.ID, &doc.Title, &doc.Description, &doc.StorageKey, &doc.Owner, &doc.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return doc, nil
}

func (r *PostgresRepository) List(ctx context.Context) ([]*models.Document, error) {
	query := `
		SELECT id, title, description, storage_key, owner, created_at
		FROM documents
		ORDER BY created_at DESC
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Document
	for rows.Next() {
		doc := &models.Document{}
		if err := rows.Scan(
			&doc.ID, &doc.Title, &doc.Description, &doc.StorageKey, &doc.Owner, &doc.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
