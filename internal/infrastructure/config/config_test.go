package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "a-test-secret-that-is-long-enough-for-prod"

func defaultConfig(t *testing.T) *Config {
	t.Helper()
	cfg, err := decode(newViper())
	require.NoError(t, err)
	return cfg
}

func TestLoad(t *testing.T) {
	t.Run("loads default values when env vars not set", func(t *testing.T) {
		t.Setenv("SCM_JWT_SECRET", testSecret)

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "supplychain-backend", cfg.App.Name)
		assert.Equal(t, "development", cfg.App.Env)
		assert.Equal(t, "8080", cfg.App.Port)
		assert.Equal(t, "localhost", cfg.Database.Host)
		assert.Equal(t, 5432, cfg.Database.Port)
		assert.Equal(t, "supplychain", cfg.Database.DBName)
		assert.Equal(t, 25, cfg.Database.MaxOpenConns)
		assert.Equal(t, 10*time.Minute, cfg.Auth.OTPTTL)
		assert.Equal(t, 30*time.Second, cfg.Dashboard.CacheTTL)
		assert.Equal(t, "supplychain.events", cfg.Messaging.Exchange)
		assert.Equal(t, "0 0 * * * *", cfg.Scheduler.OverdueInvoiceCron)
		assert.Equal(t, cfg.App.Name, cfg.Telemetry.ServiceName)
	})

	t.Run("loads values from environment variables with SCM prefix", func(t *testing.T) {
		t.Setenv("SCM_JWT_SECRET", testSecret)
		t.Setenv("SCM_APP_NAME", "test-app")
		t.Setenv("SCM_APP_PORT", "9000")
		t.Setenv("SCM_DATABASE_HOST", "testdb.local")
		t.Setenv("SCM_DATABASE_PORT", "5433")
		t.Setenv("SCM_DATABASE_MAX_OPEN_CONNS", "50")
		t.Setenv("SCM_DATABASE_MAX_IDLE_CONNS", "10")
		t.Setenv("SCM_DASHBOARD_CACHE_TTL", "1m")
		t.Setenv("SCM_REDIS_ENABLED", "true")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "test-app", cfg.App.Name)
		assert.Equal(t, "9000", cfg.App.Port)
		assert.Equal(t, "testdb.local", cfg.Database.Host)
		assert.Equal(t, 5433, cfg.Database.Port)
		assert.Equal(t, 50, cfg.Database.MaxOpenConns)
		assert.Equal(t, 10, cfg.Database.MaxIdleConns)
		assert.Equal(t, time.Minute, cfg.Dashboard.CacheTTL)
		assert.True(t, cfg.Redis.Enabled)
		assert.Equal(t, "localhost:6379", cfg.Redis.Addr())
	})

	t.Run("requires a jwt secret", func(t *testing.T) {
		t.Setenv("SCM_JWT_SECRET", "")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "jwt.secret")
	})

	t.Run("validates MaxIdleConns cannot exceed MaxOpenConns", func(t *testing.T) {
		t.Setenv("SCM_JWT_SECRET", testSecret)
		t.Setenv("SCM_DATABASE_MAX_OPEN_CONNS", "10")
		t.Setenv("SCM_DATABASE_MAX_IDLE_CONNS", "20")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cannot exceed")
	})
}

func TestValidate_Production(t *testing.T) {
	base := func() *Config {
		cfg := defaultConfig(t)
		cfg.App.Env = "production"
		cfg.JWT.Secret = testSecret
		cfg.Database.Password = "secret"
		cfg.Database.SSLMode = "require"
		return cfg
	}

	require.NoError(t, base().validate())

	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"short secret", func(c *Config) { c.JWT.Secret = "short" }, "at least 32 characters"},
		{"no db password", func(c *Config) { c.Database.Password = "" }, "database.password"},
		{"ssl disabled", func(c *Config) { c.Database.SSLMode = "disable" }, "sslmode"},
		{"wildcard cors", func(c *Config) { c.HTTP.CORSAllowOrigins = []string{"*"} }, "cors_allow_origins"},
		{"open swagger", func(c *Config) { c.Swagger.Enabled = true }, "swagger"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(cfg)
			err := cfg.validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestValidate_StorageCredentials(t *testing.T) {
	cfg := defaultConfig(t)
	cfg.JWT.Secret = testSecret
	cfg.Storage.Enabled = true
	err := cfg.validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "storage credentials")
}

func TestDatabaseConfig_DSN(t *testing.T) {
	d := DatabaseConfig{Host: "db", Port: 5432, User: "app", Password: "p@ss/word", DBName: "scm", SSLMode: "disable"}
	assert.Equal(t, "postgres://app:p%40ss%2Fword@db:5432/scm?sslmode=disable", d.DSN())
}

func TestValidate_ReportsEveryProblem(t *testing.T) {
	cfg := defaultConfig(t)
	cfg.Database.MaxOpenConns = 0
	cfg.Telemetry.SamplingRatio = 2

	err := cfg.validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "jwt.secret is required")
	assert.Contains(t, err.Error(), "max_open_conns must be positive")
	assert.Contains(t, err.Error(), "sampling_ratio")
}

func TestLoad_ListFromEnvironment(t *testing.T) {
	t.Setenv("SCM_JWT_SECRET", testSecret)
	t.Setenv("SCM_HTTP_CORS_ALLOW_ORIGINS", "https://a.example,https://b.example")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.HTTP.CORSAllowOrigins)
	assert.Equal(t, "http://localhost:8080/files", cfg.Storage.PublicBaseURL)
}
