package identity

import (
	"time"

	"github.com/google/uuid"
	"github.com/supplychain/backend/internal/domain/identity"
)

// RegisterInput contains the data to create an account
type RegisterInput struct {
	Username string
	Email    string
	Password string
	Groups   []string
}

// LoginInput contains the login credentials. Username may also be the e-mail.
type LoginInput struct {
	Username string
	Password string
}

// LogoutInput identifies the access token to revoke
type LogoutInput struct {
	JTI          string
	RemainingTTL time.Duration
}

// RefreshTokenInput contains the refresh token
type RefreshTokenInput struct {
	RefreshToken string
}

// ResetPasswordInput contains the OTP and the new password
type ResetPasswordInput struct {
	Email       string
	OTP         string
	NewPassword string
}

// UserInfo is the public view of a user
type UserInfo struct {
	ID          uuid.UUID  `json:"id"`
	Username    string     `json:"username"`
	Email       string     `json:"email"`
	Groups      []string   `json:"groups"`
	Permissions []string   `json:"permissions"`
	IsStaff     bool       `json:"is_staff"`
	CompanyID   *uuid.UUID `json:"company_id,omitempty"`
	Status      string     `json:"status"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// LoginResult contains the issued tokens and the user
type LoginResult struct {
	AccessToken           string    `json:"access_token"`
	RefreshToken          string    `json:"refresh_token"`
	AccessTokenExpiresAt  time.Time `json:"access_token_expires_at"`
	RefreshTokenExpiresAt time.Time `json:"refresh_token_expires_at"`
	TokenType             string    `json:"token_type"`
	User                  UserInfo  `json:"user"`
}

// ToUserInfo converts a domain user to UserInfo
func ToUserInfo(u *identity.User) UserInfo {
	return UserInfo{
		ID:          u.ID,
		Username:    u.Username,
		Email:       u.Email,
		Groups:      identity.RoleStrings(u.Groups),
		Permissions: u.Permissions(),
		IsStaff:     u.IsStaff,
		CompanyID:   u.CompanyID,
		Status:      string(u.Status),
		LastLoginAt: u.LastLoginAt,
		CreatedAt:   u.CreatedAt,
	}
}
