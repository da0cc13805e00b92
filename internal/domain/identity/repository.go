package identity

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// UserRepository defines persistence for users
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	Update(ctx context.Context, user *User) error
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
	// FindByUsername looks up a normalised username
	FindByUsername(ctx context.Context, username string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Count(ctx context.Context) (int64, error)
}

// PasswordResetStore keeps pending resets keyed by e-mail until they expire
type PasswordResetStore interface {
	Save(ctx context.Context, reset *PasswordReset, ttl time.Duration) error
	// Find returns shared.ErrNotFound when no live reset exists
	Find(ctx context.Context, email string) (*PasswordReset, error)
	Delete(ctx context.Context, email string) error
}
