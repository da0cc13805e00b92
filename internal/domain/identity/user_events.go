package identity

import (
	"github.com/google/uuid"
	"github.com/supplychain/backend/internal/domain/shared"
)

// AggregateTypeUser is the aggregate type name of users
const AggregateTypeUser = "User"

const (
	EventTypeUserRegistered    = "identity.user.registered"
	EventTypeUserPasswordReset = "identity.user.password_reset"
)

// UserRegisteredEvent is published when a user registers
type UserRegisteredEvent struct {
	shared.BaseDomainEvent
	Username string   `json:"username"`
	Email    string   `json:"email"`
	Groups   []string `json:"groups"`
}

// NewUserRegisteredEvent creates a UserRegisteredEvent
func NewUserRegisteredEvent(u *User) *UserRegisteredEvent {
	return &UserRegisteredEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeUserRegistered, AggregateTypeUser, u.ID, uuid.Nil),
		Username:        u.Username,
		Email:           u.Email,
		Groups:          RoleStrings(u.Groups),
	}
}

// UserPasswordResetEvent is published when a password is replaced
type UserPasswordResetEvent struct {
	shared.BaseDomainEvent
	Username string `json:"username"`
}

// NewUserPasswordResetEvent creates a UserPasswordResetEvent
func NewUserPasswordResetEvent(u *User) *UserPasswordResetEvent {
	return &UserPasswordResetEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeUserPasswordReset, AggregateTypeUser, u.ID, uuid.Nil),
		Username:        u.Username,
	}
}
