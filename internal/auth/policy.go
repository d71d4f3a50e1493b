package auth

import "bookshelf/internal/domain"

// Pure allow/deny decisions. Guards that need store state (last-admin count,
// target row lookup) run inside the owning service's transaction; everything
// here is side-effect free.

// CanModifyBook allows update/delete of a book to its owner or an admin.
func CanModifyBook(id domain.Identity, b *domain.Book) bool {
	return b.OwnedBy(id.ID) || id.IsAdmin()
}

// CanReadBook allows reads of hidden books only to the owner or an admin.
// Visible books are readable by anyone, authenticated or not.
func CanReadBook(id *domain.Identity, b *domain.Book) bool {
	if b.Visibility {
		return true
	}
	if id == nil {
		return false
	}
	return b.OwnedBy(id.ID) || id.IsAdmin()
}

// CanAssignRole permits granting the admin role only to identities whose
// current role is already admin. Non-escalating role changes are open.
func CanAssignRole(actor domain.Identity, target string) bool {
	if target == domain.RoleAdmin {
		return actor.IsAdmin()
	}
	return domain.ValidRole(target)
}

// CanMutateProfile denies profile update and account deletion to ephemeral
// guests, which have no persisted row to mutate.
func CanMutateProfile(id domain.Identity) bool {
	return !id.IsEphemeralGuest()
}
