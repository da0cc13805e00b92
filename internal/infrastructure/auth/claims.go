package auth

import (
	"slices"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/supplychain/backend/internal/domain/identity"
)

// TokenType tells access and refresh tokens apart
type TokenType string

const (
	TokenTypeAccess  TokenType = "access"
	TokenTypeRefresh TokenType = "refresh"
)

// Claims is the JWT payload. Access tokens carry the actor's roles, the
// permissions derived from them and the company; refresh tokens only the
// user and how often the session was refreshed.
type Claims struct {
	jwt.RegisteredClaims
	UserID       string    `json:"user_id"`
	Username     string    `json:"username,omitempty"`
	Roles        []string  `json:"roles,omitempty"`
	Permissions  []string  `json:"permissions,omitempty"`
	CompanyID    string    `json:"company_id,omitempty"`
	TokenType    TokenType `json:"token_type"`
	RefreshCount int       `json:"refresh_count,omitempty"`
}

func (c *Claims) UserUUID() (uuid.UUID, error) {
	return uuid.Parse(c.UserID)
}

// Actor rebuilds the principal an access token was issued for
func (c *Claims) Actor() (identity.Actor, error) {
	userID, err := c.UserUUID()
	if err != nil {
		return identity.Actor{}, ErrInvalidClaims
	}
	roles, err := identity.ParseRoles(c.Roles)
	if err != nil && len(c.Roles) > 0 {
		return identity.Actor{}, ErrInvalidClaims
	}
	actor := identity.Actor{UserID: userID, Username: c.Username, Roles: roles}
	if c.CompanyID == "" {
		return actor, nil
	}
	companyID, err := uuid.Parse(c.CompanyID)
	if err != nil {
		return identity.Actor{}, ErrInvalidClaims
	}
	actor.CompanyID = &companyID
	return actor, nil
}

func (c *Claims) HasRole(role identity.Role) bool {
	return slices.Contains(c.Roles, string(role))
}

func (c *Claims) HasPermission(permission string) bool {
	return slices.Contains(c.Permissions, permission)
}

func (c *Claims) HasAnyPermission(permissions ...string) bool {
	return slices.ContainsFunc(permissions, c.HasPermission)
}

func (c *Claims) HasAllPermissions(permissions ...string) bool {
	for _, p := range permissions {
		if !c.HasPermission(p) {
			return false
		}
	}
	return true
}

// IssuedAtTime is compared against per-user revocation timestamps
func (c *Claims) IssuedAtTime() time.Time {
	if c.IssuedAt == nil {
		return time.Time{}
	}
	return c.IssuedAt.Time
}

// RemainingTTL is how long a revoked jti must stay blacklisted
func (c *Claims) RemainingTTL() time.Duration {
	if c.ExpiresAt == nil {
		return 0
	}
	return max(time.Until(c.ExpiresAt.Time), 0)
}
