package session

import (
	"github.com/golang-jwt/jwt/v5"
)

// SessionClaims is the token payload binding a bearer token to exactly one
// identity.
type SessionClaims struct {
	jwt.RegisteredClaims
	UID      string `json:"uid,omitempty"`
	Username string `json:"username,omitempty"`
}

// UserID returns the identity the token is bound to
func (c *SessionClaims) UserID() string {
	if c.UID != "" {
		return c.UID
	}
	return c.RegisteredClaims.Subject
}
