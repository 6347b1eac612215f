// Package verificationcodes provides repositories for the transient secrets
// used during authentication. At most one code exists per (kind, key) pair:
// issuing a new one replaces the previous.
package verificationcodes

import (
	"context"
	"time"

	"github.com/dmitrijs2005/printdesk/internal/server/models"
)

type Repository interface {
	// Upsert stores the code, replacing any existing one for the same
	// (kind, key) pair.
	Upsert(ctx context.Context, code *models.VerificationCode) error
	// Find returns the code for (kind, key), expired or not; expiry policy
	// belongs to the caller. Returns common.ErrorNotFound when absent.
	Find(ctx context.Context, kind models.VerificationCodeKind, key string) (*models.VerificationCode, error)
	// Delete removes the code; codes are single-use.
	Delete(ctx context.Context, kind models.VerificationCodeKind, key string) error
	// DeleteExpired removes codes whose expiry is at or before now.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
