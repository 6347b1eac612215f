// Package sessions provides repositories for authenticated session storage.
// Expiry is enforced by readers; DeleteExpired only reclaims storage.
package sessions

import (
	"context"
	"time"

	"github.com/dmitrijs2005/printdesk/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, session *models.Session) error
	// Find returns the session for the token, expired or not. Expiry policy
	// belongs to the caller. Returns common.ErrorNotFound when absent.
	Find(ctx context.Context, token string) (*models.Session, error)
	Delete(ctx context.Context, token string) error
	// DeleteExpired removes sessions whose expiry is at or before now and
	// returns how many were removed.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
