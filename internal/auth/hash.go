package auth

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// bcrypt embeds a random salt per hash, so hashing the same password twice
// yields different digests, and CompareHashAndPassword is constant-time.
const hashCost = 10

const maxPasswordLength = 72 // bcrypt truncates beyond this

// HashPassword returns a bcrypt digest of the plaintext. Failure is fatal to
// the calling operation; there is nothing sensible to retry.
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", errors.New("password cannot be empty")
	}
	if len(password) > maxPasswordLength {
		return "", errors.New("password exceeds maximum length")
	}
	h, err := bcrypt.GenerateFromPassword([]byte(password), hashCost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

// VerifyPassword reports whether password matches the stored digest.
func VerifyPassword(digest, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(password)) == nil
}
