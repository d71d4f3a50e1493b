package services

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"bookshelf/internal/auth"
	"bookshelf/internal/domain"
	"bookshelf/internal/repos"
)

// AuthService owns registration, credential checks and per-request session
// resolution.
type AuthService struct {
	Users  *repos.UserRepo
	Tokens *auth.TokenService
}

func NewAuthService(users *repos.UserRepo, tokens *auth.TokenService) *AuthService {
	return &AuthService{Users: users, Tokens: tokens}
}

// Register creates a user account and issues a session token for it. The
// admin role cannot be claimed at registration; promotion goes through
// profile update by an existing admin.
func (s *AuthService) Register(name, email, password, role string) (*domain.User, string, error) {
	if role == "" {
		role = domain.RoleUser
	}
	if role == domain.RoleAdmin || !domain.ValidRole(role) {
		return nil, "", ErrInvalidRole
	}

	if _, err := s.Users.ByEmail(email); err == nil {
		return nil, "", ErrEmailTaken
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, "", err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}

	u := &domain.User{
		ID:    uuid.NewString(),
		Name:  name,
		Email: email,
		Hash:  hash,
		Role:  role,
	}
	if err := s.Users.Create(u); err != nil {
		if repos.IsUniqueViolation(err) {
			return nil, "", ErrEmailTaken
		}
		return nil, "", err
	}

	return u, s.Tokens.Issue(u.ID, u.Role), nil
}

// Login checks credentials and issues a fresh token. The already-logged-in
// short circuit lives in the handler, which resolves any incoming cookie
// before falling through to this.
func (s *AuthService) Login(email, password string) (*domain.User, string, error) {
	u, err := s.Users.ByEmail(email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, "", ErrBadCreds
		}
		return nil, "", err
	}
	if !auth.VerifyPassword(u.Hash, password) {
		return nil, "", ErrBadCreds
	}
	return u, s.Tokens.Issue(u.ID, u.Role), nil
}

// GuestLogin mints an ephemeral identity with no store row. The synthetic id
// is time-based so concurrent guests stay distinguishable in logs.
func (s *AuthService) GuestLogin() (domain.Identity, string) {
	id := domain.Identity{
		ID:   fmt.Sprintf("%s%d", domain.GuestIDPrefix, time.Now().UnixMilli()),
		Name: "Guest User",
		Role: domain.RoleGuest,
	}
	return id, s.Tokens.Issue(id.ID, id.Role)
}

// Reissue returns a fresh token for an already-resolved identity (sliding
// expiry on login short-circuit).
func (s *AuthService) Reissue(id domain.Identity) string {
	return s.Tokens.Issue(id.ID, id.Role)
}

// Resolve turns a raw cookie token into an authenticated identity.
//
// Guests are synthesized entirely from claims and never touch the store.
// Persisted users are looked up by subject id and carry their *current* row,
// so a role change takes effect on the next request without re-login; the
// token's role claim is deliberately ignored for them.
func (s *AuthService) Resolve(token string) (domain.Identity, error) {
	if token == "" {
		return domain.Identity{}, ErrNoToken
	}

	claims, err := s.Tokens.Verify(token)
	if err != nil {
		if errors.Is(err, auth.ErrTokenExpired) {
			return domain.Identity{}, ErrExpiredToken
		}
		return domain.Identity{}, ErrInvalidToken
	}

	if claims.Role == domain.RoleGuest {
		return domain.Identity{
			ID:   claims.Subject,
			Name: "Guest User",
			Role: domain.RoleGuest,
		}, nil
	}

	u, err := s.Users.ByID(claims.Subject)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Identity{}, ErrSubjectGone
		}
		return domain.Identity{}, err
	}
	return u.Identity(), nil
}
