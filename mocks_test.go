package session_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	session "github.com/hollowgrove/go-session"
)

// TestIdentity is a simple implementation of Identity for testing
type TestIdentity struct {
	id        string
	username  string
	email     string
	firstName string
	lastName  string
}

func (t TestIdentity) ID() string        { return t.id }
func (t TestIdentity) Username() string  { return t.username }
func (t TestIdentity) Email() string     { return t.email }
func (t TestIdentity) FirstName() string { return t.firstName }
func (t TestIdentity) LastName() string  { return t.lastName }

// MockIdentityProvider implements session.IdentityProvider
type MockIdentityProvider struct {
	mock.Mock
}

func (m *MockIdentityProvider) VerifyIdentity(ctx context.Context, identifier, secret string) (session.Identity, error) {
	args := m.Called(ctx, identifier, secret)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(session.Identity), args.Error(1)
}

func (m *MockIdentityProvider) FindIdentityByID(ctx context.Context, id string) (session.Identity, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(session.Identity), args.Error(1)
}

// MockClient implements session.Client
type MockClient struct {
	mock.Mock
}

func (m *MockClient) Login(ctx context.Context, identifier, secret string) (string, error) {
	args := m.Called(ctx, identifier, secret)
	return args.String(0), args.Error(1)
}

func (m *MockClient) Register(ctx context.Context, msg session.RegisterUserMessage) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

func (m *MockClient) FetchIdentity(ctx context.Context, token string) (session.Identity, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(session.Identity), args.Error(1)
}

// recordingNavigator captures every route signal.
type recordingNavigator struct {
	routes []string
}

func (r *recordingNavigator) Navigate(route string) {
	r.routes = append(r.routes, route)
}

// testConfig satisfies session.Config with fixed values.
type testConfig struct {
	signingKey      string
	tokenExpiration int
	issuer          string
	audience        []string
}

func newTestConfig() testConfig {
	return testConfig{
		signingKey:      "test-signing-key",
		tokenExpiration: 24,
		issuer:          "test-issuer",
		audience:        []string{"test:audience"},
	}
}

func (c testConfig) GetSigningKey() string   { return c.signingKey }
func (c testConfig) GetTokenExpiration() int { return c.tokenExpiration }
func (c testConfig) GetIssuer() string       { return c.issuer }
func (c testConfig) GetAudience() []string   { return c.audience }
