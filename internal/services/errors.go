package services

import "errors"

// Sentinels the handler layer maps onto the HTTP error taxonomy. Messages
// are the client-facing text.
var (
	// 400
	ErrEmailTaken  = errors.New("user already exists with this email")
	ErrEmailInUse  = errors.New("email already in use by another account")
	ErrInvalidRole = errors.New("invalid target role specified")

	// 401
	ErrBadCreds     = errors.New("invalid email or password")
	ErrNoToken      = errors.New("not authorized, no token provided")
	ErrInvalidToken = errors.New("not authorized, token is invalid")
	ErrExpiredToken = errors.New("not authorized, token has expired")
	ErrSubjectGone  = errors.New("not authorized, user for this token no longer exists")

	// 403
	ErrNotBookOwner   = errors.New("you are not authorized to modify this book")
	ErrRoleEscalation = errors.New("you cannot assign yourself the admin role")
	ErrGuestProfile   = errors.New("ephemeral guest profiles cannot be modified")
	ErrGuestLibrary   = errors.New("guest sessions cannot keep a personal library")
	ErrAdminSelfWipe  = errors.New("administrators cannot delete their own account")
	ErrLastAdmin      = errors.New("cannot delete the last remaining admin account")

	// 404
	ErrBookNotFound  = errors.New("book not found")
	ErrUserNotFound  = errors.New("user not found")
	ErrEntryNotFound = errors.New("book not found in your library")

	// 409
	ErrDuplicateEntry = errors.New("this book is already in your library")
)
