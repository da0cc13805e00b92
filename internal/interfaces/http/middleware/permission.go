package middleware

import (
	"net/http"
	"slices"

	"github.com/gin-gonic/gin"
	"github.com/supplychain/backend/internal/domain/identity"
	"github.com/supplychain/backend/internal/infrastructure/auth"
	"github.com/supplychain/backend/internal/interfaces/http/dto"
)

// RequirePermission admits actors whose token grants permission
func RequirePermission(permission string) gin.HandlerFunc {
	return RequireAnyPermission(permission)
}

// RequireAnyPermission admits actors holding one of permissions
func RequireAnyPermission(permissions ...string) gin.HandlerFunc {
	return guard("You do not have permission to perform this action", func(claims *auth.Claims) bool {
		return claims.HasAnyPermission(permissions...)
	})
}

// RequireRole admits actors with one of roles
func RequireRole(roles ...identity.Role) gin.HandlerFunc {
	return guard("Your role does not allow this action", func(claims *auth.Claims) bool {
		return slices.ContainsFunc(roles, claims.HasRole)
	})
}

// guard runs after JWTAuth. No claims means the route was mounted without
// authentication, which is answered like a missing token.
func guard(denied string, allow func(*auth.Claims) bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetJWTClaims(c)
		switch {
		case claims == nil:
			AbortWithError(c, http.StatusUnauthorized, dto.ErrCodeUnauthorized, "Authentication required")
		case !allow(claims):
			AbortWithError(c, http.StatusForbidden, dto.ErrCodeForbidden, denied)
		default:
			c.Next()
		}
	}
}
