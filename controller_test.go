package session_test

import (
	"context"
	"testing"

	goerrors "github.com/goliatone/go-errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	session "github.com/hollowgrove/go-session"
)

func readSlot(t *testing.T, store session.TokenStore) string {
	t.Helper()
	token, err := store.Read(context.Background())
	require.NoError(t, err)
	return token
}

func TestControllerBootstrap(t *testing.T) {
	ctx := context.Background()
	identity := TestIdentity{id: "user-1", username: "alice", email: "alice@example.com"}

	t.Run("empty slot goes straight to logged out", func(t *testing.T) {
		api := new(MockClient)
		controller := session.NewController(api)

		assert.Equal(t, session.StateUnknown, controller.State())

		state := controller.Bootstrap(ctx)
		assert.Equal(t, session.StateLoggedOut, state)
		assert.Nil(t, controller.CurrentIdentity())
		api.AssertNotCalled(t, "FetchIdentity")
	})

	t.Run("valid persisted token restores the session", func(t *testing.T) {
		api := new(MockClient)
		store := session.NewMemoryTokenStore()
		require.NoError(t, store.Write(ctx, "persisted-token"))

		api.On("FetchIdentity", ctx, "persisted-token").Return(identity, nil).Once()

		controller := session.NewController(api, session.WithTokenStore(store))
		state := controller.Bootstrap(ctx)

		assert.Equal(t, session.StateLoggedIn, state)
		require.NotNil(t, controller.CurrentIdentity())
		assert.Equal(t, "user-1", controller.CurrentIdentity().ID())
		assert.Equal(t, "persisted-token", readSlot(t, store))
		api.AssertExpectations(t)
	})

	t.Run("invalid token clears the slot and logs out", func(t *testing.T) {
		api := new(MockClient)
		store := session.NewMemoryTokenStore()
		require.NoError(t, store.Write(ctx, "garbage"))

		api.On("FetchIdentity", ctx, "garbage").
			Return(nil, session.ErrInvalidToken).Once()

		controller := session.NewController(api, session.WithTokenStore(store))
		state := controller.Bootstrap(ctx)

		assert.Equal(t, session.StateLoggedOut, state)
		assert.Nil(t, controller.CurrentIdentity())
		assert.Empty(t, readSlot(t, store))
		api.AssertExpectations(t)
	})

	t.Run("transport failure is treated like an invalid token", func(t *testing.T) {
		api := new(MockClient)
		store := session.NewMemoryTokenStore()
		require.NoError(t, store.Write(ctx, "unverifiable"))

		api.On("FetchIdentity", ctx, "unverifiable").
			Return(nil, session.WrapTransport(goerrors.New("boom", goerrors.CategoryOperation), "request failed")).
			Once()

		controller := session.NewController(api, session.WithTokenStore(store))
		state := controller.Bootstrap(ctx)

		assert.Equal(t, session.StateLoggedOut, state)
		assert.Empty(t, readSlot(t, store))
		api.AssertExpectations(t)
	})
}

func TestControllerLogin(t *testing.T) {
	ctx := context.Background()
	identity := TestIdentity{id: "user-1", username: "alice", email: "alice@example.com"}

	t.Run("successful login persists token and navigates to profile", func(t *testing.T) {
		api := new(MockClient)
		store := session.NewMemoryTokenStore()
		nav := &recordingNavigator{}

		api.On("Login", ctx, "alice", "pw1").Return("fresh-token", nil).Once()
		api.On("FetchIdentity", ctx, "fresh-token").Return(identity, nil).Once()

		controller := session.NewController(api,
			session.WithTokenStore(store),
			session.WithNavigator(nav),
		)
		controller.Bootstrap(ctx)

		err := controller.Login(ctx, "alice", "pw1")
		require.NoError(t, err)

		assert.Equal(t, session.StateLoggedIn, controller.State())
		assert.Equal(t, "user-1", controller.CurrentIdentity().ID())
		assert.Equal(t, "fresh-token", readSlot(t, store))
		assert.Equal(t, []string{session.RouteProfile}, nav.routes)
		api.AssertExpectations(t)
	})

	t.Run("rejected login leaves state and slot untouched", func(t *testing.T) {
		api := new(MockClient)
		store := session.NewMemoryTokenStore()
		nav := &recordingNavigator{}

		api.On("Login", ctx, "alice", "wrong").
			Return("", session.ErrInvalidCredentials).Once()

		controller := session.NewController(api,
			session.WithTokenStore(store),
			session.WithNavigator(nav),
		)
		controller.Bootstrap(ctx)

		err := controller.Login(ctx, "alice", "wrong")
		require.Error(t, err)
		assert.Equal(t, "invalid credentials", session.ErrorMessage(err))

		assert.Equal(t, session.StateLoggedOut, controller.State())
		assert.Empty(t, readSlot(t, store))
		assert.Empty(t, nav.routes)
		api.AssertExpectations(t)
	})

	t.Run("identity fetch failure never leaves a half logged in token", func(t *testing.T) {
		api := new(MockClient)
		store := session.NewMemoryTokenStore()
		nav := &recordingNavigator{}

		api.On("Login", ctx, "alice", "pw1").Return("fresh-token", nil).Once()
		api.On("FetchIdentity", ctx, "fresh-token").
			Return(nil, session.WrapTransport(goerrors.New("down", goerrors.CategoryOperation), "request failed")).
			Once()

		controller := session.NewController(api,
			session.WithTokenStore(store),
			session.WithNavigator(nav),
		)
		controller.Bootstrap(ctx)

		err := controller.Login(ctx, "alice", "pw1")
		require.Error(t, err)

		assert.Equal(t, session.StateLoggedOut, controller.State())
		assert.Nil(t, controller.CurrentIdentity())
		assert.Empty(t, readSlot(t, store))
		assert.Empty(t, nav.routes)
		api.AssertExpectations(t)
	})
}

func TestControllerLogout(t *testing.T) {
	ctx := context.Background()
	identity := TestIdentity{id: "user-1", username: "alice"}

	api := new(MockClient)
	store := session.NewMemoryTokenStore()
	nav := &recordingNavigator{}

	api.On("Login", ctx, "alice", "pw1").Return("fresh-token", nil).Once()
	api.On("FetchIdentity", ctx, "fresh-token").Return(identity, nil).Once()

	controller := session.NewController(api,
		session.WithTokenStore(store),
		session.WithNavigator(nav),
	)
	controller.Bootstrap(ctx)
	require.NoError(t, controller.Login(ctx, "alice", "pw1"))
	require.Equal(t, session.StateLoggedIn, controller.State())

	controller.Logout(ctx)

	assert.Equal(t, session.StateLoggedOut, controller.State())
	assert.Nil(t, controller.CurrentIdentity())
	assert.Empty(t, readSlot(t, store))
	assert.Equal(t, []string{session.RouteProfile, session.RouteHome}, nav.routes)

	// logging out twice is safe and clears the slot both times
	controller.Logout(ctx)
	assert.Equal(t, session.StateLoggedOut, controller.State())
	assert.Empty(t, readSlot(t, store))
	assert.Equal(t, []string{session.RouteProfile, session.RouteHome, session.RouteHome}, nav.routes)
}

func TestControllerRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("success navigates without creating a session", func(t *testing.T) {
		api := new(MockClient)
		nav := &recordingNavigator{}

		msg := session.RegisterUserMessage{
			Username: "alice",
			Email:    "alice@example.com",
			Secret:   "password123",
		}
		api.On("Register", ctx, msg).Return(nil).Once()

		controller := session.NewController(api, session.WithNavigator(nav))
		controller.Bootstrap(ctx)

		err := controller.Register(ctx, msg)
		require.NoError(t, err)

		assert.Equal(t, session.StateLoggedOut, controller.State())
		assert.Equal(t, []string{session.RouteRegisterSuccess}, nav.routes)
		api.AssertExpectations(t)
	})

	t.Run("failure returns the message and does not navigate", func(t *testing.T) {
		api := new(MockClient)
		nav := &recordingNavigator{}

		msg := session.RegisterUserMessage{Username: "alice"}
		api.On("Register", ctx, msg).Return(session.ErrDuplicateIdentifier).Once()

		controller := session.NewController(api, session.WithNavigator(nav))
		controller.Bootstrap(ctx)

		err := controller.Register(ctx, msg)
		require.Error(t, err)
		assert.Equal(t, "identifier already registered", session.ErrorMessage(err))
		assert.Empty(t, nav.routes)
		api.AssertExpectations(t)
	})
}

func TestControllerReloadRoundTrip(t *testing.T) {
	ctx := context.Background()
	identity := TestIdentity{id: "user-1", username: "alice", email: "alice@example.com"}

	api := new(MockClient)
	store := session.NewMemoryTokenStore()

	api.On("Login", ctx, "alice", "pw1").Return("fresh-token", nil).Once()
	api.On("FetchIdentity", ctx, "fresh-token").Return(identity, nil).Twice()

	first := session.NewController(api, session.WithTokenStore(store))
	first.Bootstrap(ctx)
	require.NoError(t, first.Login(ctx, "alice", "pw1"))

	// a new controller over the same slot simulates the reload
	second := session.NewController(api, session.WithTokenStore(store))
	state := second.Bootstrap(ctx)

	assert.Equal(t, session.StateLoggedIn, state)
	require.NotNil(t, second.CurrentIdentity())
	assert.Equal(t, first.CurrentIdentity().ID(), second.CurrentIdentity().ID())
	api.AssertExpectations(t)
}
