package transactions

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/printdesk/internal/dbx"
	"github.com/dmitrijs2005/printdesk/internal/server/models"
)

// PostgresRepository implements the ledger over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, tx *models.Transaction) (*models.Transaction, error) {
	query := `
		INSERT INTO transactions
			(id, type, task_id, session_ref, amount, actor,
			 breakdown_usage, breakdown_print_bw, breakdown_print_color, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := r.db.ExecContext(ctx, query,
		tx.ID, tx.Type, tx.TaskID, tx.SessionRef, tx.Amount, tx.Actor,
		tx.Breakdown.Usage, tx.Breakdown.PrintBW, tx.Breakdown.PrintColor, tx.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return tx, nil
}

func (r *PostgresRepository) ListByActor(ctx context.Context, actor string) ([]*models.Transaction, error) {
	query := `
		SELECT id, type, task_id, session_ref, amount, actor,
		       breakdown_usage, breakdown_print_bw, breakdown_print_color, created_at
		FROM transactions
		WHERE actor = $1
		ORDER BY created_at
	`
	rows, err := r.db.QueryContext(ctx, query, actor)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Transaction
	for rows.Next() {
		item := &models.Transaction{}
		if err := rows.Scan(
			&item.ID, &item.Type, &item.TaskID, &item.SessionRef, &item.Amount, &item.Actor,
			&item.Breakdown.Usage, &item.Breakdown.PrintBW, &item.Breakdown.PrintColor, &item.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) SumByActor(ctx context.Context, actor string) (float64, error) {
	query := `SELECT COALESCE(SUM(amount), 0) FROM transactions WHERE actor = $1`

	var sum float64
	if err := r.db.QueryRowContext(ctx, query, actor).Scan(&sum); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return sum, nil
}
