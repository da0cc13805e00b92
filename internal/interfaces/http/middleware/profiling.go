package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/supplychain/backend/internal/infrastructure/telemetry"
)

// ProfilingConfig holds configuration for the profiling middleware
type ProfilingConfig struct {
	Enabled          bool
	SkipPaths        []string
	SkipPathPrefixes []string
}

// DefaultProfilingConfig skips health checks and API docs
func DefaultProfilingConfig() ProfilingConfig {
	return ProfilingConfig{
		Enabled:          true,
		SkipPaths:        []string{"/health", "/api/v1/health"},
		SkipPathPrefixes: []string{"/swagger", "/files"},
	}
}

// Profiling tags CPU samples taken while serving the request with the
// route, method and, once JWTAuth has run, the caller's company and role
func Profiling(cfg ProfilingConfig) gin.HandlerFunc {
	if !cfg.Enabled {
		return func(c *gin.Context) { c.Next() }
	}
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		for _, p := range cfg.SkipPaths {
			if path == p {
				c.Next()
				return
			}
		}
		for _, prefix := range cfg.SkipPathPrefixes {
			if strings.HasPrefix(path, prefix) {
				c.Next()
				return
			}
		}

		telemetry.WithProfilingLabels(c.Request.Context(), profilingLabels(c), func(ctx context.Context) {
			c.Request = c.Request.WithContext(ctx)
			c.Next()
		})
	}
}

func profilingLabels(c *gin.Context) map[string]string {
	labels := map[string]string{
		telemetry.ProfilingLabelMethod: c.Request.Method,
		telemetry.ProfilingLabelRoute:  routePattern(c),
	}
	if claims := GetJWTClaims(c); claims != nil {
		if claims.CompanyID != "" {
			labels[telemetry.ProfilingLabelCompanyID] = claims.CompanyID
		}
		if len(claims.Roles) > 0 {
			labels[telemetry.ProfilingLabelRole] = claims.Roles[0]
		}
	}
	return labels
}
