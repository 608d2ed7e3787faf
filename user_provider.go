package session

import (
	"context"

	"github.com/goliatone/go-errors"
)

// UserProvider implements IdentityProvider on top of the Users repository
type UserProvider struct {
	store  Users
	logger Logger
}

var _ IdentityProvider = (*UserProvider)(nil)

// NewUserProvider will create a new UserProvider
func NewUserProvider(store Users) *UserProvider {
	return &UserProvider{
		store:  store,
		logger: defLogger{},
	}
}

func (u *UserProvider) WithLogger(l Logger) *UserProvider {
	if l != nil {
		u.logger = l
	}
	return u
}

// VerifyIdentity will find the user, compare the secret, and return the
// identity. Unknown identifier and wrong secret both come back as
// ErrInvalidCredentials so a caller cannot probe for registered accounts.
func (u *UserProvider) VerifyIdentity(ctx context.Context, identifier, secret string) (Identity, error) {
	user, err := u.store.GetByIdentifier(ctx, identifier)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, ErrInvalidCredentials
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to retrieve user during verification")
	}

	if err := ComparePasswordAndHash(secret, user.PasswordHash); err != nil {
		if IsInvalidCredentials(err) {
			return nil, err
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to compare password hash")
	}

	return NewIdentityFromUser(user), nil
}

// FindIdentityByID resolves the identity a validated token is bound to.
func (u *UserProvider) FindIdentityByID(ctx context.Context, id string) (Identity, error) {
	user, err := u.store.GetByID(ctx, id)
	if err != nil {
		if errors.IsNotFound(err) {
			// token outlived its user
			return nil, ErrInvalidToken
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to retrieve user by id")
	}

	return NewIdentityFromUser(user), nil
}
