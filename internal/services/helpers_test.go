package services_test

import (
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"bookshelf/internal/auth"
	"bookshelf/internal/domain"
	"bookshelf/internal/repos"
	"bookshelf/internal/services"
)

const testKeyHex = "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f"

func memdb(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	require.NoError(t, err)
	// A second pool connection would get its own empty in-memory database.
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func seedUser(t *testing.T, db *sqlx.DB, id, email, role string) domain.Identity {
	t.Helper()
	hash, err := auth.HashPassword("secret1")
	require.NoError(t, err)
	u := &domain.User{ID: id, Name: "Test " + id, Email: email, Hash: hash, Role: role}
	require.NoError(t, repos.NewUserRepo(db).Create(u))
	return u.Identity()
}

func seedBook(t *testing.T, db *sqlx.DB, id, title, genre, ownerID string, visible bool) *domain.Book {
	t.Helper()
	b := &domain.Book{ID: id, Title: title, Author: "Some Author", Genre: genre, Visibility: visible}
	if ownerID != "" {
		b.OwnerID = &ownerID
	}
	repo := repos.NewBookRepo(db)
	require.NoError(t, repo.Create(b))
	created, err := repo.Get(id)
	require.NoError(t, err)
	return created
}

func newTokens(t *testing.T, ttl time.Duration) *auth.TokenService {
	t.Helper()
	tokens, err := auth.NewTokenService(testKeyHex, ttl)
	require.NoError(t, err)
	return tokens
}

func newAuthService(t *testing.T, db *sqlx.DB) *services.AuthService {
	t.Helper()
	return services.NewAuthService(repos.NewUserRepo(db), newTokens(t, time.Hour))
}

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }
