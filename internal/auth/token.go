package auth

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"aidanwoods.dev/go-paseto"
)

const tokenIssuer = "bookshelf"

// PASETO v4 symmetric key requirements.
const (
	keyBytesSize = 32 // 256 bits
	keyHexSize   = 64 // 32 bytes as hex
)

var (
	ErrTokenInvalid = errors.New("token is invalid")
	ErrTokenExpired = errors.New("token has expired")
)

// Claims carried by a session token. Role is the role at issuance; for
// persisted users the resolver replaces it with the current DB value.
type Claims struct {
	Subject    string    `json:"sub"`
	Role       string    `json:"role"`
	IssuedAt   time.Time `json:"iat"`
	Expiration time.Time `json:"exp"`
}

// TokenService issues and verifies PASETO v4.local session tokens under a
// shared symmetric key.
type TokenService struct {
	key paseto.V4SymmetricKey
	ttl time.Duration
}

// NewTokenService builds a token service from a 64-hex-char key. An empty
// keyHex generates a random key, which invalidates all tokens on restart;
// acceptable for development only.
func NewTokenService(keyHex string, ttl time.Duration) (*TokenService, error) {
	if keyHex == "" {
		return &TokenService{key: paseto.NewV4SymmetricKey(), ttl: ttl}, nil
	}
	if len(keyHex) != keyHexSize {
		return nil, fmt.Errorf("token secret must be %d hex characters (%d bytes), got %d", keyHexSize, keyBytesSize, len(keyHex))
	}
	raw, err := hex.DecodeString(keyHex)
	if err != nil {
		return nil, fmt.Errorf("token secret is not valid hex: %w", err)
	}
	key, err := paseto.V4SymmetricKeyFromBytes(raw)
	if err != nil {
		return nil, fmt.Errorf("build symmetric key: %w", err)
	}
	return &TokenService{key: key, ttl: ttl}, nil
}

// TTL returns the configured token lifetime (also the cookie MaxAge).
func (s *TokenService) TTL() time.Duration { return s.ttl }

// Issue creates an encrypted token binding subjectID and role for the
// configured lifetime.
func (s *TokenService) Issue(subjectID, role string) string {
	now := time.Now()
	t := paseto.NewToken()
	t.SetIssuer(tokenIssuer)
	t.SetSubject(subjectID)
	t.SetIssuedAt(now)
	t.SetNotBefore(now)
	t.SetExpiration(now.Add(s.ttl))
	// Set only errors on unserializable values; a string cannot fail.
	_ = t.Set("role", role)
	return t.V4Encrypt(s.key, nil)
}

// Verify decrypts and validates a token. Structural or signature problems
// yield ErrTokenInvalid; a well-formed token past its expiry yields
// ErrTokenExpired. Expiry is checked here rather than by a parser rule so
// the two failures stay distinguishable.
func (s *TokenService) Verify(tokenString string) (*Claims, error) {
	parser := paseto.NewParserWithoutExpiryCheck()
	parser.AddRule(paseto.IssuedBy(tokenIssuer))

	t, err := parser.ParseV4Local(s.key, tokenString, nil)
	if err != nil {
		return nil, ErrTokenInvalid
	}

	var claims Claims
	if err := json.Unmarshal(t.ClaimsJSON(), &claims); err != nil {
		return nil, ErrTokenInvalid
	}
	if claims.Subject == "" || claims.Role == "" {
		return nil, ErrTokenInvalid
	}
	if time.Now().After(claims.Expiration) {
		return nil, ErrTokenExpired
	}
	return &claims, nil
}
