package cache

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/supplychain/backend/internal/domain/identity"
	"github.com/supplychain/backend/internal/domain/shared"
	"github.com/supplychain/backend/internal/infrastructure/config"
)

func TestPasswordResetStore_RoundTrip(t *testing.T) {
	mem := NewMemoryStore(0)
	defer mem.Close()
	store := NewPasswordResetStore(mem)
	ctx := context.Background()

	reset := &identity.PasswordReset{
		UserID:    uuid.New(),
		Email:     "Owner@Example.com",
		Code:      "123456",
		ExpiresAt: time.Now().Add(10 * time.Minute).UTC().Truncate(time.Second),
		Attempts:  2,
	}
	require.NoError(t, store.Save(ctx, reset, 10*time.Minute))

	found, err := store.Find(ctx, " owner@example.com ")
	require.NoError(t, err)
	assert.Equal(t, reset.UserID, found.UserID)
	assert.Equal(t, "123456", found.Code)
	assert.Equal(t, 2, found.Attempts)
	assert.True(t, reset.ExpiresAt.Equal(found.ExpiresAt))

	require.NoError(t, store.Delete(ctx, "owner@example.com"))
	_, err = store.Find(ctx, "owner@example.com")
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestPasswordResetStore_Expired(t *testing.T) {
	mem := NewMemoryStore(0)
	defer mem.Close()
	current := time.Now()
	mem.now = func() time.Time { return current }

	store := NewPasswordResetStore(mem)
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, &identity.PasswordReset{Email: "a@example.com", Code: "000001"}, time.Minute))

	current = current.Add(time.Minute)
	_, err := store.Find(ctx, "a@example.com")
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestFactory_FallsBackToMemory(t *testing.T) {
	t.Run("redis disabled", func(t *testing.T) {
		backend, err := NewFactory(config.RedisConfig{Enabled: false}).Create(context.Background())
		require.NoError(t, err)
		defer backend.Close()

		assert.True(t, backend.InMemory())
		assert.NotNil(t, backend.Memory)
	})

	t.Run("redis unreachable", func(t *testing.T) {
		cfg := config.RedisConfig{Enabled: true, Host: "127.0.0.1", Port: 1}
		backend, err := NewFactory(cfg, WithCleanupInterval(0)).Create(context.Background())
		require.NoError(t, err)
		defer backend.Close()

		assert.True(t, backend.InMemory())
	})

	t.Run("fallback disabled", func(t *testing.T) {
		cfg := config.RedisConfig{Enabled: true, Host: "127.0.0.1", Port: 1}
		_, err := NewFactory(cfg, WithInMemoryFallback(false)).Create(context.Background())
		assert.Error(t, err)
	})
}
