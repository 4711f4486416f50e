package actor

import (
	"errors"

	"github.com/google/uuid"
)

var ErrInvalidRole = errors.New("invalid role")

type Role string

const (
	RoleCouple Role = "couple"
	RoleVendor Role = "vendor"
	RoleAdmin  Role = "admin"
)

func (r Role) String() string {
	return string(r)
}

func (r Role) IsValid() bool {
	switch r {
	case RoleCouple, RoleVendor, RoleAdmin:
		return true
	default:
		return false
	}
}

func NewRole(s string) (Role, error) {
	role := Role(s)
	if !role.IsValid() {
		return "", ErrInvalidRole
	}
	return role, nil
}

// Actor is the authenticated caller. For vendors, ID is the vendor id.
type Actor struct {
	ID   uuid.UUID
	Role Role
}

func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// CanManageVendor reports whether a may change vendorID's calendar.
func (a Actor) CanManageVendor(vendorID uuid.UUID) bool {
	return a.IsAdmin() || (a.Role == RoleVendor && a.ID == vendorID)
}
