package services

import (
	"database/sql"
	"errors"

	"bookshelf/internal/auth"
	"bookshelf/internal/domain"
	"bookshelf/internal/repos"
)

type UserService struct {
	Users *repos.UserRepo
}

func NewUserService(users *repos.UserRepo) *UserService { return &UserService{Users: users} }

// ProfileUpdate carries the self-service mutable fields. Role changes pass
// the escalation guard; everything else on the row is off limits.
type ProfileUpdate struct {
	Name  *string `json:"name" validate:"omitempty,min=2,max=100"`
	Email *string `json:"email" validate:"omitempty,email"`
	Role  *string `json:"role" validate:"omitempty,oneof=user guest admin"`
}

// UpdateProfile applies a profile update for the acting identity. Ephemeral
// guests are rejected outright: there is no row to change.
func (s *UserService) UpdateProfile(actor domain.Identity, in ProfileUpdate) (domain.Identity, error) {
	if !auth.CanMutateProfile(actor) {
		return domain.Identity{}, ErrGuestProfile
	}

	u, err := s.Users.ByID(actor.ID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Identity{}, ErrUserNotFound
		}
		return domain.Identity{}, err
	}

	changed := false
	if in.Name != nil && *in.Name != u.Name {
		u.Name = *in.Name
		changed = true
	}
	if in.Email != nil && *in.Email != u.Email {
		if _, err := s.Users.ByEmail(*in.Email); err == nil {
			return domain.Identity{}, ErrEmailInUse
		} else if !errors.Is(err, sql.ErrNoRows) {
			return domain.Identity{}, err
		}
		u.Email = *in.Email
		changed = true
	}
	if in.Role != nil && *in.Role != u.Role {
		// The guard checks the actor's CURRENT role, not the requested one:
		// only a sitting admin may grant admin. Demotions are open.
		if !auth.CanAssignRole(actor, *in.Role) {
			if *in.Role == domain.RoleAdmin {
				return domain.Identity{}, ErrRoleEscalation
			}
			return domain.Identity{}, ErrInvalidRole
		}
		u.Role = *in.Role
		changed = true
	}

	if !changed {
		return u.Identity(), nil
	}
	if err := s.Users.UpdateProfile(u); err != nil {
		if repos.IsUniqueViolation(err) {
			return domain.Identity{}, ErrEmailInUse
		}
		return domain.Identity{}, err
	}
	return u.Identity(), nil
}

// DeleteAccount removes the acting identity's own account with the full
// cascade (books orphaned, library entries dropped) in one transaction.
// The last remaining admin cannot remove itself.
func (s *UserService) DeleteAccount(actor domain.Identity) error {
	if !auth.CanMutateProfile(actor) {
		return ErrGuestProfile
	}
	err := s.Users.DeleteCascade(actor.ID)
	switch {
	case errors.Is(err, repos.ErrLastAdmin):
		return ErrLastAdmin
	case errors.Is(err, sql.ErrNoRows):
		return ErrUserNotFound
	}
	return err
}
