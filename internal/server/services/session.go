// Package services contains server-side business logic. This file implements
// SessionService, which issues opaque session tokens, validates them with
// eager expiry checks, and sweeps expired rows in the background.
package services

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/dmitrijs2005/printdesk/internal/common"
	"github.com/dmitrijs2005/printdesk/internal/logging"
	"github.com/dmitrijs2005/printdesk/internal/server/config"
	"github.com/dmitrijs2005/printdesk/internal/server/models"
	"github.com/dmitrijs2005/printdesk/internal/server/repositories/repomanager"
)

// SessionService manages the session directory. Tokens are opaque random
// strings; all authorization state hangs off the stored session row.
type SessionService struct {
	db                      *sql.DB
	repomanager             repomanager.RepositoryManager
	logger                  logging.Logger
	sessionValidityDuration time.Duration
	sweepInterval           time.Duration
}

// NewSessionService constructs a SessionService using repositories and server config.
func NewSessionService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config, logger logging.Logger) *SessionService {
	return &SessionService{
		db:                      db,
		repomanager:             m,
		logger:                  logger.With("component", "sessions"),
		sessionValidityDuration: cfg.SessionValidityDuration,
		sweepInterval:           cfg.SweepInterval,
	}
}

// Issue creates a session for the authenticated username. The role is derived
// from the session type: admin sessions act with RoleAdmin, portal sessions
// with RoleCustomer.
func (s *SessionService) Issue(ctx context.Context, username string, sessionType models.SessionType) (*models.Session, error) {
	token, err := common.MakeRandHexString(32)
	if err != nil {
		return nil, common.ErrorInternal
	}

	role := models.RoleCustomer
	if sessionType == models.SessionTypeAdmin {
		role = models.RoleAdmin
	}

	now := time.Now()
	session := &models.Session{
		Token:     token,
		Username:  username,
		Type:      sessionType,
		Role:      role,
		CreatedAt: now,
		ExpiresAt: now.Add(s.sessionValidityDuration),
	}

	repo := s.repomanager.Sessions(s.db)
	if err := repo.Create(ctx, session); err != nil {
		return nil, common.ErrorInternal
	}
	return session, nil
}

// Validate resolves a token to its session. An expired session is deleted on
// the spot and reported as ErrExpired, so expiry never depends on the sweep
// having run.
func (s *SessionService) Validate(ctx context.Context, token string) (*models.Session, error) {
	repo := s.repomanager.Sessions(s.db)

	session, err := repo.Find(ctx, token)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, common.ErrorInternal
	}

	if session.Expired(time.Now()) {
		_ = repo.Delete(ctx, token)
		return nil, common.ErrExpired
	}
	return session, nil
}

// Revoke removes the session for the token. Revoking an unknown token is not
// an error.
func (s *SessionService) Revoke(ctx context.Context, token string) error {
	repo := s.repomanager.Sessions(s.db)
	if err := repo.Delete(ctx, token); err != nil && !errors.Is(err, common.ErrorNotFound) {
		return common.ErrorInternal
	}
	return nil
}

// SweepExpired removes expired sessions and verification codes once.
// It exists for liveness only; readers never observe expired rows regardless.
func (s *SessionService) SweepExpired(ctx context.Context) {
	now := time.Now()

	sessions, err := s.repomanager.Sessions(s.db).DeleteExpired(ctx, now)
	if err != nil {
		s.logger.Error(ctx, "session sweep failed", "error", err)
	}
	codes, err := s.repomanager.VerificationCodes(s.db).DeleteExpired(ctx, now)
	if err != nil {
		s.logger.Error(ctx, "verification code sweep failed", "error", err)
	}

	if sessions > 0 || codes > 0 {
		s.logger.Debug(ctx, "sweep removed expired rows", "sessions", sessions, "codes", codes)
	}
}

// RunSweeper periodically reclaims expired sessions and codes until the
// context is cancelled.
func (s *SessionService) RunSweeper(ctx context.Context) {
	ticker := time.NewTicker(s.sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.SweepExpired(ctx)
		}
	}
}
