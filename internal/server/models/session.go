package models

import "time"

// SessionType separates the admin console from the customer portal.
type SessionType string

const (
	SessionTypeAdmin  SessionType = "admin"
	SessionTypePortal SessionType = "portal"
)

// Well-known roles attached to sessions.
const (
	RoleAdmin    = "admin"
	RoleCustomer = "customer"
)

// Session is an authenticated actor identified by an opaque token. Expiry is
// checked eagerly on every validation; the background sweep only reclaims
// storage.
type Session struct {
	Token     string      `json:"token"`
	Username  string      `json:"username"`
	Type      SessionType `json:"type"`
	Role      string      `json:"role"`
	CreatedAt time.Time   `json:"created_at"`
	ExpiresAt time.Time   `json:"expires_at"`
}

// Expired reports whether the session is past its expiry at the given time.
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// IsAdmin reports whether the session may perform privileged operations.
func (s *Session) IsAdmin() bool {
	return s.Role == RoleAdmin
}
