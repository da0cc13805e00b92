package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/supplychain/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// DefaultCleanupInterval is how often the in-memory store drops expired entries
const DefaultCleanupInterval = 5 * time.Minute

// Backend is the store chosen by the factory plus the Redis client behind it,
// which is nil when running in memory
type Backend struct {
	Store  Store
	Client *redis.Client
	Memory *MemoryStore
}

// InMemory reports whether the backend fell back to process memory
func (b *Backend) InMemory() bool {
	return b.Client == nil
}

// Close releases the Redis client or stops the memory cleanup loop
func (b *Backend) Close() error {
	if b.Client != nil {
		return b.Client.Close()
	}
	if b.Memory != nil {
		return b.Memory.Close()
	}
	return nil
}

// Factory creates stores based on configuration
type Factory struct {
	redisConfig           config.RedisConfig
	logger                *zap.Logger
	allowInMemoryFallback bool
	cleanupInterval       time.Duration
}

// FactoryOption is a functional option for configuring the factory
type FactoryOption func(*Factory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) FactoryOption {
	return func(f *Factory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether to fall back to the in-memory store
// when Redis is unavailable. Default is true.
func WithInMemoryFallback(allow bool) FactoryOption {
	return func(f *Factory) {
		f.allowInMemoryFallback = allow
	}
}

// WithCleanupInterval sets the expiry sweep of the in-memory store. Zero
// disables the background sweep so that a scheduler can call Purge instead.
func WithCleanupInterval(d time.Duration) FactoryOption {
	return func(f *Factory) {
		f.cleanupInterval = d
	}
}

// NewFactory creates a new factory
func NewFactory(cfg config.RedisConfig, opts ...FactoryOption) *Factory {
	f := &Factory{
		redisConfig:           cfg,
		logger:                zap.NewNop(),
		allowInMemoryFallback: true,
		cleanupInterval:       DefaultCleanupInterval,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Create connects to Redis when enabled and falls back to memory otherwise.
// In-memory stores do not share state across instances, so revocations and
// OTPs are local to the process.
func (f *Factory) Create(ctx context.Context) (*Backend, error) {
	if !f.redisConfig.Enabled {
		f.logger.Info("Redis disabled, using in-memory store")
		return f.memoryBackend(), nil
	}

	client, err := NewRedisClient(ctx, f.redisConfig)
	if err == nil {
		f.logger.Info("using Redis store", zap.String("addr", f.redisConfig.Addr()))
		return &Backend{Store: NewRedisStore(client), Client: client}, nil
	}

	if !f.allowInMemoryFallback {
		return nil, fmt.Errorf("redis required but unavailable: %w", err)
	}

	f.logger.Warn("Redis unavailable, falling back to in-memory store. "+
		"Token revocations and OTPs will not be shared between instances.",
		zap.Error(err),
	)
	return f.memoryBackend(), nil
}

func (f *Factory) memoryBackend() *Backend {
	mem := NewMemoryStore(f.cleanupInterval)
	return &Backend{Store: mem, Memory: mem}
}
