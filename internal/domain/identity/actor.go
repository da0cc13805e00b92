package identity

import "github.com/google/uuid"

// Actor is the authenticated principal performing an operation
type Actor struct {
	UserID    uuid.UUID
	Username  string
	Roles     []Role
	CompanyID *uuid.UUID // set for employees
}

// HasRole reports whether the actor holds the role
func (a Actor) HasRole(role Role) bool {
	for _, r := range a.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// IsAdmin reports whether the actor is an administrator
func (a Actor) IsAdmin() bool {
	return a.HasRole(RoleAdmin)
}
