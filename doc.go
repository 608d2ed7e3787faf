// Package session implements a bearer token session lifecycle split across
// two collaborators that share one token/identity contract.
//
// Issuer (server side):
//   - Login validates credentials against the Bun-backed credential store
//     and mints a signed token bound to exactly one identity.
//   - Register persists a new credential/identity pair without creating a
//     session.
//   - ResolveIdentity is a pure lookup from token to identity; absent,
//     malformed, and expired tokens answer the same ErrInvalidToken.
//
// Controller (client side):
//   - Owns the single session state (LoggedOut, Verifying, LoggedIn) and is
//     the only thing allowed to change it.
//   - Bootstrap rebuilds session state after a process restart from the
//     persisted token slot alone, de-authenticating on any failure.
//   - The token slot (TokenStore) and route signal (Navigator) are injected
//     capabilities, so tests and embedders can swap them freely.
//
// The HTTP/JSON wire contract between the two lives in server.go (fiber
// handlers) and client.go (APIClient); IssuerClient connects both halves
// in-process for single-binary deployments.
package session
