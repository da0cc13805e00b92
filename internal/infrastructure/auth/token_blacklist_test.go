package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryTokenBlacklist_AddToBlacklist(t *testing.T) {
	ctx := context.Background()
	bl := NewInMemoryTokenBlacklist()

	require.NoError(t, bl.AddToBlacklist(ctx, "jti-1", time.Minute))
	require.NoError(t, bl.AddToBlacklist(ctx, "jti-expired", 0))

	ok, err := bl.IsBlacklisted(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = bl.IsBlacklisted(ctx, "jti-expired")
	require.NoError(t, err)
	assert.False(t, ok, "tokens that are already expired need no entry")

	ok, err = bl.IsBlacklisted(ctx, "unknown")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestInMemoryTokenBlacklist_UserTokenInvalidation(t *testing.T) {
	ctx := context.Background()
	bl := NewInMemoryTokenBlacklist()

	issued := time.Now().Add(-time.Minute)
	invalid, err := bl.IsUserTokenInvalidated(ctx, "user-1", issued)
	require.NoError(t, err)
	assert.False(t, invalid)

	require.NoError(t, bl.AddUserTokensToBlacklist(ctx, "user-1", time.Hour))

	invalid, err = bl.IsUserTokenInvalidated(ctx, "user-1", issued)
	require.NoError(t, err)
	assert.True(t, invalid)

	invalid, err = bl.IsUserTokenInvalidated(ctx, "user-1", time.Now().Add(2*time.Second))
	require.NoError(t, err)
	assert.False(t, invalid, "tokens issued after the reset stay valid")

	invalid, err = bl.IsUserTokenInvalidated(ctx, "user-2", issued)
	require.NoError(t, err)
	assert.False(t, invalid)
}

func TestInMemoryTokenBlacklist_Purge(t *testing.T) {
	ctx := context.Background()
	bl := NewInMemoryTokenBlacklist()
	require.NoError(t, bl.AddToBlacklist(ctx, "short", time.Second))
	require.NoError(t, bl.AddToBlacklist(ctx, "long", time.Hour))
	require.NoError(t, bl.AddUserTokensToBlacklist(ctx, "user-1", time.Second))

	assert.Equal(t, 2, bl.Purge(time.Now().Add(time.Minute)))

	ok, _ := bl.IsBlacklisted(ctx, "long")
	assert.True(t, ok)
}

func TestTokenBlacklist_Implementations(t *testing.T) {
	var _ TokenBlacklist = NewInMemoryTokenBlacklist()
	var _ TokenBlacklist = (*RedisTokenBlacklist)(nil)
}
