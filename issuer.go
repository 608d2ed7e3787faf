package session

import (
	"context"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	goerrors "github.com/goliatone/go-errors"
	"github.com/uptrace/bun"
)

// Issuer is the server side session authority: it validates credentials,
// mints bearer tokens, and resolves tokens back to identities.
type Issuer struct {
	provider IdentityProvider
	repo     RepositoryManager
	tokens   TokenService
	logger   Logger
}

// NewIssuer returns a new Issuer
func NewIssuer(provider IdentityProvider, repo RepositoryManager, cfg Config) *Issuer {
	tokens := NewTokenService(
		[]byte(cfg.GetSigningKey()),
		cfg.GetTokenExpiration(),
		cfg.GetIssuer(),
		cfg.GetAudience(),
		defLogger{},
	)

	return &Issuer{
		provider: provider,
		repo:     repo,
		tokens:   tokens,
		logger:   defLogger{},
	}
}

func (s *Issuer) WithLogger(logger Logger) *Issuer {
	if logger != nil {
		s.logger = logger
	}
	return s
}

// WithTokenService overrides the token service, mostly useful in tests.
func (s *Issuer) WithTokenService(tokens TokenService) *Issuer {
	if tokens != nil {
		s.tokens = tokens
	}
	return s
}

// TokenService returns the TokenService instance used by this Issuer
func (s *Issuer) TokenService() TokenService {
	return s.tokens
}

// Login validates identifier+secret and emits a fresh token bound to the
// resolved identity. The credential store is never mutated.
func (s *Issuer) Login(ctx context.Context, identifier, secret string) (string, error) {
	identity, err := s.provider.VerifyIdentity(ctx, identifier, secret)
	if err != nil {
		s.logger.Error("Login verify identity error", "error", err)
		return "", err
	}

	if identity == nil {
		s.logger.Error("Login identity is nil")
		return "", ErrInvalidCredentials
	}

	token, err := s.tokens.Mint(identity)
	if err != nil {
		s.logger.Error("Login token mint error", "error", err)
		return "", err
	}

	return token, nil
}

// ResolveIdentity looks up the identity a bearer token is bound to. It is a
// pure lookup: no refresh and no expiry extension.
func (s *Issuer) ResolveIdentity(ctx context.Context, token string) (Identity, error) {
	if strings.TrimSpace(token) == "" {
		return nil, ErrInvalidToken
	}

	claims, err := s.tokens.Validate(token)
	if err != nil {
		s.logger.Debug("ResolveIdentity token validation failed", "error", err)
		return nil, err
	}

	identity, err := s.provider.FindIdentityByID(ctx, claims.UserID())
	if err != nil {
		s.logger.Error("ResolveIdentity find identity error", "error", err)
		return nil, err
	}

	return identity, nil
}

// RegisterUserMessage carries a registration request
type RegisterUserMessage struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	Secret    string `json:"secret"`
}

// Validate will run validation rules
func (e RegisterUserMessage) Validate() error {
	return validation.ValidateStruct(&e,
		validation.Field(&e.Username, validation.Required, validation.Length(2, 100)),
		validation.Field(&e.Email, validation.Required, validation.Length(6, 100), is.Email),
		validation.Field(&e.FirstName, validation.Length(0, 200)),
		validation.Field(&e.LastName, validation.Length(0, 200)),
		validation.Field(&e.Secret, validation.Required, validation.Length(8, 100)),
	)
}

// Register validates and persists a new credential/identity pair. It emits
// no token: registration does not imply login.
func (s *Issuer) Register(ctx context.Context, msg RegisterUserMessage) error {
	if err := msg.Validate(); err != nil {
		s.logger.Debug("Register payload validation failed", "error", err)
		return goerrors.Wrap(err, ErrInvalidInput.Category, err.Error()).
			WithTextCode(ErrInvalidInput.TextCode).
			WithCode(goerrors.CodeBadRequest)
	}

	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	err := s.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		taken, err := s.repo.Users().ExistsWithIdentifierTx(ctx, tx, msg.Username, msg.Email)
		if err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to check identifier uniqueness")
		}
		if taken {
			return ErrDuplicateIdentifier
		}

		hash, err := HashPassword(msg.Secret)
		if err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to hash password")
		}

		user := &User{
			Username:     msg.Username,
			Email:        msg.Email,
			FirstName:    msg.FirstName,
			LastName:     msg.LastName,
			PasswordHash: hash,
		}

		if _, err = s.repo.Users().RegisterTx(ctx, tx, user); err != nil {
			return goerrors.Wrap(err, goerrors.CategoryConflict, "could not create user")
		}

		return nil
	})

	if err != nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return richErr
		}
		return goerrors.Wrap(err, goerrors.CategoryInternal, "user registration transaction failed")
	}

	return nil
}
