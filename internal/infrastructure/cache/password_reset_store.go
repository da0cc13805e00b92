package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/supplychain/backend/internal/domain/identity"
	"github.com/supplychain/backend/internal/domain/shared"
)

const passwordResetKeyPrefix = "auth:otp:"

// Store is the byte-level TTL store shared by the Redis and in-memory backends
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// PasswordResetStore keeps pending password resets as JSON, keyed by e-mail
type PasswordResetStore struct {
	store Store
}

// NewPasswordResetStore creates a reset store on top of a TTL store
func NewPasswordResetStore(store Store) *PasswordResetStore {
	return &PasswordResetStore{store: store}
}

func passwordResetKey(email string) string {
	return passwordResetKeyPrefix + strings.ToLower(strings.TrimSpace(email))
}

// Save stores the reset for ttl, replacing any earlier one for the same e-mail
func (s *PasswordResetStore) Save(ctx context.Context, reset *identity.PasswordReset, ttl time.Duration) error {
	data, err := json.Marshal(reset)
	if err != nil {
		return fmt.Errorf("failed to encode password reset: %w", err)
	}
	return s.store.Set(ctx, passwordResetKey(reset.Email), data, ttl)
}

// Find returns the pending reset, or shared.ErrNotFound when none exists
func (s *PasswordResetStore) Find(ctx context.Context, email string) (*identity.PasswordReset, error) {
	data, ok, err := s.store.Get(ctx, passwordResetKey(email))
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, shared.ErrNotFound
	}
	var reset identity.PasswordReset
	if err := json.Unmarshal(data, &reset); err != nil {
		return nil, fmt.Errorf("failed to decode password reset: %w", err)
	}
	return &reset, nil
}

// Delete removes the pending reset of an e-mail
func (s *PasswordResetStore) Delete(ctx context.Context, email string) error {
	return s.store.Delete(ctx, passwordResetKey(email))
}

var _ identity.PasswordResetStore = (*PasswordResetStore)(nil)
