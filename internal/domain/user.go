package domain

import "strings"

// Roles a user row (or token claim) may carry.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
	RoleGuest = "guest"
)

// GuestIDPrefix marks synthetic guest identifiers minted by guest login.
// Such identities never have a backing users row.
const GuestIDPrefix = "guest_"

type User struct {
	ID        string `db:"id" json:"id"`
	Name      string `db:"name" json:"name"`
	Email     string `db:"email" json:"email"`
	Hash      string `db:"password_hash" json:"-"`
	Role      string `db:"role" json:"role"`
	CreatedAt string `db:"created_at" json:"createdAt"`
	UpdatedAt string `db:"updated_at" json:"updatedAt,omitempty"`
}

// Identity is the per-request authenticated principal. For persisted users it
// mirrors the current users row; for guests it is synthesized from token
// claims and Email stays empty.
type Identity struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

func (i Identity) IsAdmin() bool { return i.Role == RoleAdmin }

// IsEphemeralGuest reports whether this identity exists only in its token:
// guest role with a synthetic id and no users row behind it.
func (i Identity) IsEphemeralGuest() bool {
	return i.Role == RoleGuest && strings.HasPrefix(i.ID, GuestIDPrefix)
}

func ValidRole(r string) bool {
	return r == RoleUser || r == RoleAdmin || r == RoleGuest
}

func (u *User) Identity() Identity {
	return Identity{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}
}
