package models

import "time"

// VerificationCodeKind distinguishes the transient secrets used during
// authentication. (Kind, Key) pairs are unique: issuing a new code replaces
// any previous one for the same key.
type VerificationCodeKind string

const (
	CodeKindAdminOTP       VerificationCodeKind = "admin_otp"
	CodeKindUserOTP        VerificationCodeKind = "user_otp"
	CodeKindAdminTempToken VerificationCodeKind = "admin_temp_token"
	CodeKindUserTempToken  VerificationCodeKind = "user_temp_token"
)

// VerificationCode stores the Argon2id verifier of a one-time code, never the
// code itself. Codes are single-use and expire on their own.
type VerificationCode struct {
	Kind      VerificationCodeKind `json:"kind"`
	Key       string               `json:"key"`
	Verifier  []byte               `json:"-"`
	Salt      []byte               `json:"-"`
	CreatedAt time.Time            `json:"created_at"`
	ExpiresAt time.Time            `json:"expires_at"`
}

// Expired reports whether the code is past its expiry at the given time.
func (c *VerificationCode) Expired(now time.Time) bool {
	return !now.Before(c.ExpiresAt)
}
