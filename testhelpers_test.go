package session_test

import (
	"context"
	"database/sql"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	session "github.com/hollowgrove/go-session"
)

// newTestDB opens a private in-memory SQLite database with the users table
// created.
func newTestDB(t *testing.T) *bun.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	sqldb, err := sql.Open(sqliteshim.ShimName, dsn)
	require.NoError(t, err)

	db := bun.NewDB(sqldb, sqlitedialect.New())
	// keep the shared in-memory database alive for the whole test
	db.SetMaxIdleConns(1)

	_, err = db.NewCreateTable().
		Model((*session.User)(nil)).
		IfNotExists().
		Exec(context.Background())
	require.NoError(t, err)

	t.Cleanup(func() { _ = db.Close() })

	return db
}

// newTestIssuer wires a full issuer over a fresh in-memory credential store.
func newTestIssuer(t *testing.T) (*session.Issuer, session.RepositoryManager) {
	t.Helper()

	db := newTestDB(t)
	repo := session.NewRepositoryManager(db)
	provider := session.NewUserProvider(repo.Users())
	issuer := session.NewIssuer(provider, repo, newTestConfig())

	return issuer, repo
}

// registerTestUser registers a user through the issuer and fails the test
// on error.
func registerTestUser(t *testing.T, issuer *session.Issuer, username, email, secret string) {
	t.Helper()

	err := issuer.Register(context.Background(), session.RegisterUserMessage{
		Username:  username,
		Email:     email,
		FirstName: "Test",
		LastName:  "User",
		Secret:    secret,
	})
	require.NoError(t, err)
}
