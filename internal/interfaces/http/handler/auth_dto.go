package handler

// RegisterRequest represents the request body for account registration
type RegisterRequest struct {
	Username string   `json:"username" binding:"required,min=3,max=150" example:"acme_admin"`
	Email    string   `json:"email" binding:"required,email,max=254" example:"owner@acme.example"`
	Password string   `json:"password" binding:"required,min=8,max=128" example:"s3cretPass!"`
	Groups   []string `json:"groups" binding:"required,min=1,dive,oneof=admin manufacturer employee retailer" example:"manufacturer"`
}

// LoginRequest represents the request body for user login. Username may
// also be the account e-mail.
type LoginRequest struct {
	Username string `json:"username" binding:"required,max=254" example:"acme_admin"`
	Password string `json:"password" binding:"required,max=128" example:"s3cretPass!"`
}

// RefreshTokenRequest represents the request body for token refresh
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// ForgotPasswordRequest starts a password reset
type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email" example:"owner@acme.example"`
}

// VerifyOTPRequest checks a password reset code
type VerifyOTPRequest struct {
	Email string `json:"email" binding:"required,email" example:"owner@acme.example"`
	OTP   string `json:"otp" binding:"required,len=6,numeric" example:"482913"`
}

// ResetPasswordRequest sets a new password using a reset code
type ResetPasswordRequest struct {
	Email       string `json:"email" binding:"required,email" example:"owner@acme.example"`
	OTP         string `json:"otp" binding:"required,len=6,numeric" example:"482913"`
	NewPassword string `json:"new_password" binding:"required,min=8,max=128" example:"n3wPassword!"`
}
