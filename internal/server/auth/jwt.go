// Package auth issues and checks the short-lived signed tokens that bind a
// verification-code request to its verification attempt.
package auth

import (
	"errors"
	"time"

	"github.com/dmitrijs2005/printdesk/internal/common"
	"github.com/dmitrijs2005/printdesk/internal/server/models"
	"github.com/golang-jwt/jwt/v5"
)

// Claims carries the standard claims plus the identity the token was issued
// for and which portal (admin or customer) requested it.
type Claims struct {
	jwt.RegisteredClaims
	Username    string
	SessionType models.SessionType
}

// GenerateTempToken signs an HS256 token for username valid for the given
// duration.
func GenerateTempToken(username string, sessionType models.SessionType, secretKey []byte, validityDuration time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(validityDuration)),
		},
		Username:    username,
		SessionType: sessionType,
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// ParseTempToken validates the token and returns the claims it was issued
// with. Expired tokens map to common.ErrExpired, anything else invalid to
// common.ErrInvalidToken.
func ParseTempToken(tokenString string, secretKey []byte) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, common.ErrExpired
		}
		return nil, common.ErrInvalidToken
	}

	if !token.Valid {
		return nil, common.ErrInvalidToken
	}

	return claims, nil
}
