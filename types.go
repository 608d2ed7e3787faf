package session

import (
	"context"
	"fmt"
)

type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

// Identity is the read-only projection of a user the rest of the system
// holds. The issuer owns the backing record; everything else sees this.
type Identity interface {
	ID() string
	Username() string
	Email() string
	FirstName() string
	LastName() string
}

// IdentityProvider ensures we have a store to verify and resolve identities
type IdentityProvider interface {
	VerifyIdentity(ctx context.Context, identifier, secret string) (Identity, error)
	FindIdentityByID(ctx context.Context, id string) (Identity, error)
}

// TokenService mints and validates bearer tokens without tying callers to
// a specific signing implementation.
type TokenService interface {
	Mint(identity Identity) (string, error)
	Validate(token string) (*SessionClaims, error)
}

// TokenStore is the persisted token slot: a single durable string entry
// that outlives the client process and is the sole carrier of session
// continuity across restarts. An empty slot reads as ("", nil).
type TokenStore interface {
	Read(ctx context.Context) (string, error)
	Write(ctx context.Context, token string) error
	Clear(ctx context.Context) error
}

// Client is the transport leg the Controller drives against the issuer.
type Client interface {
	Login(ctx context.Context, identifier, secret string) (string, error)
	Register(ctx context.Context, msg RegisterUserMessage) error
	FetchIdentity(ctx context.Context, token string) (Identity, error)
}

// Navigator receives the "navigate to route" signal the UI layer consumes.
type Navigator interface {
	Navigate(route string)
}

// NavigatorFunc adapts a function into a Navigator.
type NavigatorFunc func(route string)

// Navigate satisfies the Navigator interface.
func (f NavigatorFunc) Navigate(route string) {
	if f != nil {
		f(route)
	}
}

type noopNavigator struct{}

func (noopNavigator) Navigate(string) {}

// Config holds issuer options
type Config interface {
	GetSigningKey() string
	GetTokenExpiration() int
	GetIssuer() string
	GetAudience() []string
}

type defLogger struct{}

func (d defLogger) Error(format string, args ...any) {
	fmt.Printf("[ERR] SESSION "+newline(format), args...)
}

func (d defLogger) Warn(format string, args ...any) {
	fmt.Printf("[WRN] SESSION "+newline(format), args...)
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Printf("[INF] SESSION "+newline(format), args...)
}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Printf("[DBG] SESSION "+newline(format), args...)
}

func newline(s string) string {
	if len(s) > 0 && s[len(s)-1] != '\n' {
		s += "\n"
	}
	return s
}
