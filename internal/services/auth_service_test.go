package services_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookshelf/internal/domain"
	"bookshelf/internal/repos"
	"bookshelf/internal/services"
)

func TestRegister(t *testing.T) {
	db := memdb(t)
	svc := newAuthService(t, db)

	u, tok, err := svc.Register("Ada", "ada@example.com", "secret1", "")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleUser, u.Role, "role defaults to user")
	assert.NotEmpty(t, u.ID)
	assert.NotEqual(t, "secret1", u.Hash, "password must be stored hashed")

	id, err := svc.Resolve(tok)
	require.NoError(t, err)
	assert.Equal(t, u.ID, id.ID)

	// Email uniqueness is case-insensitive.
	_, _, err = svc.Register("Ada Again", "ADA@example.com", "secret1", "")
	assert.ErrorIs(t, err, services.ErrEmailTaken)

	// The admin role cannot be claimed at registration.
	_, _, err = svc.Register("Eve", "eve@example.com", "secret1", domain.RoleAdmin)
	assert.ErrorIs(t, err, services.ErrInvalidRole)
	_, _, err = svc.Register("Eve", "eve@example.com", "secret1", "superuser")
	assert.ErrorIs(t, err, services.ErrInvalidRole)
}

func TestLogin(t *testing.T) {
	db := memdb(t)
	svc := newAuthService(t, db)
	seedUser(t, db, "u1", "ada@example.com", domain.RoleUser)

	u, tok, err := svc.Login("ada@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "u1", u.ID)
	assert.NotEmpty(t, tok)

	_, _, err = svc.Login("ada@example.com", "wrong")
	assert.ErrorIs(t, err, services.ErrBadCreds)

	// Unknown email fails identically to a bad password.
	_, _, err = svc.Login("nobody@example.com", "secret1")
	assert.ErrorIs(t, err, services.ErrBadCreds)
}

func TestGuestLogin(t *testing.T) {
	db := memdb(t)
	svc := newAuthService(t, db)

	id, tok := svc.GuestLogin()
	assert.True(t, strings.HasPrefix(id.ID, domain.GuestIDPrefix))
	assert.Equal(t, domain.RoleGuest, id.Role)
	assert.Equal(t, "Guest User", id.Name)

	// Resolving a guest token never touches the users table.
	resolved, err := svc.Resolve(tok)
	require.NoError(t, err)
	assert.Equal(t, id.ID, resolved.ID)
	assert.True(t, resolved.IsEphemeralGuest())

	n, err := repos.NewUserRepo(db).Count()
	require.NoError(t, err)
	assert.Zero(t, n, "guest login must not create rows")
}

func TestResolve(t *testing.T) {
	db := memdb(t)
	svc := newAuthService(t, db)
	seedUser(t, db, "admin1", "root@example.com", domain.RoleAdmin)
	seedUser(t, db, "u1", "ada@example.com", domain.RoleUser)

	_, err := svc.Resolve("")
	assert.ErrorIs(t, err, services.ErrNoToken)

	_, err = svc.Resolve("v4.local.not-a-real-token")
	assert.ErrorIs(t, err, services.ErrInvalidToken)

	expired := services.NewAuthService(repos.NewUserRepo(db), newTokens(t, -time.Minute))
	_, err = svc.Resolve(expired.Tokens.Issue("u1", domain.RoleUser))
	assert.ErrorIs(t, err, services.ErrExpiredToken)

	// A token whose subject row was deleted is rejected.
	tok := svc.Tokens.Issue("u1", domain.RoleUser)
	require.NoError(t, repos.NewUserRepo(db).DeleteCascade("u1"))
	_, err = svc.Resolve(tok)
	assert.ErrorIs(t, err, services.ErrSubjectGone)
}

func TestResolveUsesCurrentRole(t *testing.T) {
	db := memdb(t)
	svc := newAuthService(t, db)
	seedUser(t, db, "u1", "ada@example.com", domain.RoleUser)

	tok := svc.Tokens.Issue("u1", domain.RoleUser)

	users := repos.NewUserRepo(db)
	u, err := users.ByID("u1")
	require.NoError(t, err)
	u.Role = domain.RoleAdmin
	require.NoError(t, users.UpdateProfile(u))

	// Promotion takes effect on the next request; the stale role claim
	// inside the token is ignored for persisted users.
	id, err := svc.Resolve(tok)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, id.Role)
}
