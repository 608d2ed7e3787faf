package session

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// User is the credential store record backing an identity
type User struct {
	bun.BaseModel `bun:"table:users,alias:usr"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Username      string     `bun:"username,notnull,unique" json:"username,omitempty"`
	Email         string     `bun:"email,notnull,unique" json:"email,omitempty"`
	FirstName     string     `bun:"first_name" json:"first_name,omitempty"`
	LastName      string     `bun:"last_name" json:"last_name,omitempty"`
	PasswordHash  string     `bun:"password_hash,notnull" json:"-"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
	DeletedAt     *time.Time `bun:"deleted_at,soft_delete,nullzero" json:"deleted_at,omitempty"`
}

// UserIdentity adapts a User into the Identity interface.
type UserIdentity struct {
	user *User
}

// NewIdentityFromUser returns an Identity adapter for the provided user.
func NewIdentityFromUser(user *User) Identity {
	if user == nil {
		return nil
	}
	return UserIdentity{user: user}
}

// ID returns the user's ID as a string.
func (u UserIdentity) ID() string {
	if u.user == nil {
		return ""
	}
	return u.user.ID.String()
}

// Username returns the user's username.
func (u UserIdentity) Username() string {
	if u.user == nil {
		return ""
	}
	return u.user.Username
}

// Email returns the user's email address.
func (u UserIdentity) Email() string {
	if u.user == nil {
		return ""
	}
	return u.user.Email
}

// FirstName returns the user's first name.
func (u UserIdentity) FirstName() string {
	if u.user == nil {
		return ""
	}
	return u.user.FirstName
}

// LastName returns the user's last name.
func (u UserIdentity) LastName() string {
	if u.user == nil {
		return ""
	}
	return u.user.LastName
}

// Profile is the wire projection of an identity. It is what GET /user/me
// returns and what the API client rebuilds on the other side.
type Profile struct {
	UserID    string `json:"id"`
	Name      string `json:"username"`
	Mail      string `json:"email"`
	GivenName string `json:"first_name,omitempty"`
	Surname   string `json:"last_name,omitempty"`
}

var _ Identity = Profile{}

// NewProfile projects any Identity into its wire form.
func NewProfile(identity Identity) Profile {
	if identity == nil {
		return Profile{}
	}
	return Profile{
		UserID:    identity.ID(),
		Name:      identity.Username(),
		Mail:      identity.Email(),
		GivenName: identity.FirstName(),
		Surname:   identity.LastName(),
	}
}

func (p Profile) ID() string        { return p.UserID }
func (p Profile) Username() string  { return p.Name }
func (p Profile) Email() string     { return p.Mail }
func (p Profile) FirstName() string { return p.GivenName }
func (p Profile) LastName() string  { return p.Surname }
