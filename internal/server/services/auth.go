package services

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/dmitrijs2005/printdesk/internal/common"
	"github.com/dmitrijs2005/printdesk/internal/cryptox"
	"github.com/dmitrijs2005/printdesk/internal/logging"
	"github.com/dmitrijs2005/printdesk/internal/server/auth"
	"github.com/dmitrijs2005/printdesk/internal/server/config"
	"github.com/dmitrijs2005/printdesk/internal/server/models"
	"github.com/dmitrijs2005/printdesk/internal/server/repositories/repomanager"
)

// CodeLength is the number of digits in a sign-in code.
const CodeLength = 6

var makeSignInCode = func() (string, error) {
	return common.MakeRandDigitCode(CodeLength)
}

// AuthService implements passwordless sign-in. RequestCode issues a one-time
// digit code (delivered out of band) plus a short-lived temp token binding the
// exchange; VerifyCode trades both for a session.
//
// Only Argon2id verifiers of the code and the temp token are stored, never
// the secrets themselves, and both are single-use.
type AuthService struct {
	db                   *sql.DB
	repomanager          repomanager.RepositoryManager
	sessions             *SessionService
	logger               logging.Logger
	jwtSecret            []byte
	codeValidityDuration time.Duration
}

// NewAuthService constructs an AuthService using repositories and server config.
func NewAuthService(db *sql.DB, m repomanager.RepositoryManager, sessions *SessionService, cfg *config.Config, logger logging.Logger) *AuthService {
	return &AuthService{
		db:                   db,
		repomanager:          m,
		sessions:             sessions,
		logger:               logger.With("component", "auth"),
		jwtSecret:            []byte(cfg.SecretKey),
		codeValidityDuration: cfg.CodeValidityDuration,
	}
}

func codeKinds(sessionType models.SessionType) (code, token models.VerificationCodeKind) {
	if sessionType == models.SessionTypeAdmin {
		return models.CodeKindAdminOTP, models.CodeKindAdminTempToken
	}
	return models.CodeKindUserOTP, models.CodeKindUserTempToken
}

// RequestCode starts a sign-in: it generates a digit code, stores verifiers
// for the code and for the returned temp token, and hands the code to the
// out-of-band delivery path. Issuing a new code replaces any outstanding one
// for the same username.
func (s *AuthService) RequestCode(ctx context.Context, username string, sessionType models.SessionType) (string, error) {
	if username == "" {
		return "", common.ErrValidation
	}

	code, err := makeSignInCode()
	if err != nil {
		return "", common.ErrorInternal
	}

	tempToken, err := auth.GenerateTempToken(username, sessionType, s.jwtSecret, s.codeValidityDuration)
	if err != nil {
		return "", common.ErrorInternal
	}

	now := time.Now()
	expires := now.Add(s.codeValidityDuration)
	codeKind, tokenKind := codeKinds(sessionType)

	repo := s.repomanager.VerificationCodes(s.db)
	for _, vc := range []*models.VerificationCode{
		newVerifierRecord(codeKind, username, code, now, expires),
		newVerifierRecord(tokenKind, username, tempToken, now, expires),
	} {
		if err := repo.Upsert(ctx, vc); err != nil {
			return "", common.ErrorInternal
		}
	}

	// Delivery is out of band (mail, desk phone). The code itself stays out
	// of responses and of Info-level logs.
	s.logger.Debug(ctx, "sign-in code issued", "username", username, "session_type", sessionType, "code", code)

	return tempToken, nil
}

// VerifyCode completes a sign-in: it checks the temp token signature and
// expiry, verifies the code against the stored verifier in constant time,
// consumes both records, and issues a session.
func (s *AuthService) VerifyCode(ctx context.Context, tempToken string, code string) (*models.Session, error) {
	claims, err := auth.ParseTempToken(tempToken, s.jwtSecret)
	if err != nil {
		return nil, err
	}

	sessionType := models.SessionType(claims.SessionType)
	codeKind, tokenKind := codeKinds(sessionType)

	repo := s.repomanager.VerificationCodes(s.db)

	now := time.Now()
	for _, check := range []struct {
		kind   models.VerificationCodeKind
		secret string
	}{
		{tokenKind, tempToken},
		{codeKind, code},
	} {
		vc, err := repo.Find(ctx, check.kind, claims.Username)
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return nil, common.ErrorUnauthorized
			}
			return nil, common.ErrorInternal
		}
		if vc.Expired(now) {
			_ = repo.Delete(ctx, check.kind, claims.Username)
			return nil, common.ErrExpired
		}
		if !cryptox.VerifyMatch(vc.Verifier, []byte(check.secret), vc.Salt) {
			return nil, common.ErrorUnauthorized
		}
	}

	// Both secrets matched; consume them so neither can be replayed.
	_ = repo.Delete(ctx, codeKind, claims.Username)
	_ = repo.Delete(ctx, tokenKind, claims.Username)

	return s.sessions.Issue(ctx, claims.Username, sessionType)
}

func newVerifierRecord(kind models.VerificationCodeKind, key, secret string, created, expires time.Time) *models.VerificationCode {
	salt := common.GenerateRandByteArray(16)
	return &models.VerificationCode{
		Kind:      kind,
		Key:       key,
		Verifier:  cryptox.DeriveVerifier([]byte(secret), salt),
		Salt:      salt,
		CreatedAt: created,
		ExpiresAt: expires,
	}
}
