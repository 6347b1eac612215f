package verificationcodes

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/printdesk/internal/common"
	"github.com/dmitrijs2005/printdesk/internal/dbx"
	"github.com/dmitrijs2005/printdesk/internal/server/models"
)

// PostgresRepository implements verification-code storage over a dbx.DBTX
// (*sql.DB or *sql.Tx). The (kind, key) uniqueness lives in the primary key;
// Upsert rides on ON CONFLICT.
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Upsert(ctx context.Context, code *models.VerificationCode) error {
	query := `
		INSERT INTO verification_codes (kind, key, verifier, salt, created_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (kind, key)
		DO UPDATE SET
			verifier = EXCLUDED.verifier,
			salt = EXCLUDED.salt,
			created_at = EXCLUDED.created_at,
			expires_at = EXCLUDED.expires_at
	`
	if _, err := r.db.ExecContext(ctx, query,
		code.Kind, code.Key, code.Verifier, code.Salt, code.CreatedAt, code.ExpiresAt); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Find(ctx context.Context, kind models.VerificationCodeKind, key string) (*models.VerificationCode, error) {
	query := `
		SELECT kind, key, verifier, salt, created_at, expires_at
		FROM verification_codes
		WHERE kind = $1 AND key = $2
	`
	code := &models.VerificationCode{}
	err := r.db.QueryRowContext(ctx, query, kind, key).Scan(
		&code.Kind, &code.Key, &code.Verifier, &code.Salt, &code.CreatedAt, &code.ExpiresAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return code, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, kind models.VerificationCodeKind, key string) error {
	query := `DELETE FROM verification_codes WHERE kind = $1 AND key = $2`
	if _, err := r.db.ExecContext(ctx, query, kind, key); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	query := `DELETE FROM verification_codes WHERE expires_at <= $1`
	res, err := r.db.ExecContext(ctx, query, now)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected error: %w", err)
	}
	return n, nil
}
