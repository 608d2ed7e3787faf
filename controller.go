package session

import (
	"context"
	"sync"
)

// State is the client visible session state. Exactly one state exists at a
// time per Controller.
type State int

const (
	// StateUnknown is the pre-bootstrap state; consumers must treat it as
	// not yet authoritative.
	StateUnknown State = iota
	StateLoggedOut
	StateVerifying
	StateLoggedIn
)

func (s State) String() string {
	switch s {
	case StateLoggedOut:
		return "logged_out"
	case StateVerifying:
		return "verifying"
	case StateLoggedIn:
		return "logged_in"
	default:
		return "unknown"
	}
}

// Routes the Controller signals to the Navigator after successful
// transitions.
const (
	RouteHome            = "/"
	RouteProfile         = "/profile"
	RouteRegisterSuccess = "/success"
)

// Controller is the single authority over client session state. It drives
// login, logout, register, and the reload-time bootstrap against an
// injected transport, and owns the persisted token slot.
type Controller struct {
	api       Client
	store     TokenStore
	navigator Navigator
	logger    Logger

	mu       sync.Mutex
	state    State
	identity Identity
}

// ControllerOption customizes Controller construction.
type ControllerOption func(*Controller)

// WithTokenStore injects the persisted token slot.
func WithTokenStore(store TokenStore) ControllerOption {
	return func(c *Controller) {
		if store != nil {
			c.store = store
		}
	}
}

// WithNavigator injects the route signal consumed by the UI layer.
func WithNavigator(nav Navigator) ControllerOption {
	return func(c *Controller) {
		if nav != nil {
			c.navigator = nav
		}
	}
}

// WithControllerLogger overrides the Controller logger.
func WithControllerLogger(logger Logger) ControllerOption {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewController returns a Controller in StateUnknown; call Bootstrap once
// at process start to reach an authoritative state.
func NewController(api Client, opts ...ControllerOption) *Controller {
	c := &Controller{
		api:       api,
		store:     NewMemoryTokenStore(),
		navigator: noopNavigator{},
		logger:    defLogger{},
		state:     StateUnknown,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	return c
}

// State returns the current session state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// CurrentIdentity returns the logged in identity, or nil outside
// StateLoggedIn.
func (c *Controller) CurrentIdentity() Identity {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.identity
}

// Bootstrap reconstructs session state from the persisted token alone. It
// runs once per client process start, is idempotent, and is silent: every
// failure, transport failures included, degrades to StateLoggedOut with a
// cleared slot rather than surfacing an error. The resulting state is
// returned.
func (c *Controller) Bootstrap(ctx context.Context) State {
	c.mu.Lock()
	defer c.mu.Unlock()

	token, err := c.store.Read(ctx)
	if err != nil {
		c.logger.Warn("bootstrap token slot read failed", "error", err)
		c.transition(StateLoggedOut, nil)
		return c.state
	}

	if token == "" {
		c.transition(StateLoggedOut, nil)
		return c.state
	}

	c.transition(StateVerifying, nil)

	identity, err := c.api.FetchIdentity(ctx, token)
	if err != nil {
		// an unverifiable session is de-authenticated, never retained
		c.logger.Debug("bootstrap verification failed", "error", err)
		c.clearSlot(ctx)
		c.transition(StateLoggedOut, nil)
		return c.state
	}

	c.transition(StateLoggedIn, identity)
	return c.state
}

// Login runs the two-leg login sequence: exchange credentials for a token,
// persist it, then resolve the identity. On issuer rejection or transport
// failure before the token is persisted, state and slot are untouched and
// the error is returned. If the identity leg fails after the token was
// persisted, the slot is cleared and state degrades to StateLoggedOut so a
// token is never left behind without a resolved identity.
func (c *Controller) Login(ctx context.Context, identifier, secret string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	token, err := c.api.Login(ctx, identifier, secret)
	if err != nil {
		return err
	}

	if err := c.store.Write(ctx, token); err != nil {
		return WrapTransport(err, "failed to persist session token")
	}

	c.transition(StateVerifying, nil)

	identity, err := c.api.FetchIdentity(ctx, token)
	if err != nil {
		c.clearSlot(ctx)
		c.transition(StateLoggedOut, nil)
		return err
	}

	c.transition(StateLoggedIn, identity)
	c.navigator.Navigate(RouteProfile)
	return nil
}

// Logout unconditionally clears the slot, moves to StateLoggedOut, and
// signals navigation home. It always succeeds and is idempotent.
func (c *Controller) Logout(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.clearSlot(ctx)
	c.transition(StateLoggedOut, nil)
	c.navigator.Navigate(RouteHome)
}

// Register forwards the registration request. Success creates no session;
// it only signals navigation to the success page. On failure the error is
// returned and state is untouched.
func (c *Controller) Register(ctx context.Context, msg RegisterUserMessage) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.api.Register(ctx, msg); err != nil {
		return err
	}

	c.navigator.Navigate(RouteRegisterSuccess)
	return nil
}

// transition is the single place session state changes. Callers hold c.mu.
func (c *Controller) transition(next State, identity Identity) {
	if next != StateLoggedIn {
		identity = nil
	}

	c.logger.Debug("session state transition", "from", c.state.String(), "to", next.String())
	c.state = next
	c.identity = identity
}

func (c *Controller) clearSlot(ctx context.Context) {
	if err := c.store.Clear(ctx); err != nil {
		c.logger.Warn("failed to clear token slot", "error", err)
	}
}
