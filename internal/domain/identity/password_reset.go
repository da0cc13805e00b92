package identity

import (
	"crypto/rand"
	"crypto/subtle"
	"fmt"
	"math/big"
	"time"

	"github.com/google/uuid"
	"github.com/supplychain/backend/internal/domain/shared"
)

// MaxOTPAttempts is the number of wrong codes tolerated per reset
const MaxOTPAttempts = 5

// PasswordReset is a pending one-time-password reset for an account
type PasswordReset struct {
	UserID    uuid.UUID `json:"user_id"`
	Email     string    `json:"email"`
	Code      string    `json:"code"`
	ExpiresAt time.Time `json:"expires_at"`
	Attempts  int       `json:"attempts"`
	Verified  bool      `json:"verified"`
}

// NewPasswordReset issues a 6-digit code valid for ttl
func NewPasswordReset(user *User, ttl time.Duration) (*PasswordReset, error) {
	code, err := generateOTP()
	if err != nil {
		return nil, shared.NewDomainError("OTP_GENERATION_FAILED", "Failed to generate one-time password")
	}
	return &PasswordReset{
		UserID:    user.ID,
		Email:     user.Email,
		Code:      code,
		ExpiresAt: time.Now().Add(ttl),
	}, nil
}

// IsExpired reports whether the code has expired at the given time
func (p *PasswordReset) IsExpired(now time.Time) bool {
	return !now.Before(p.ExpiresAt)
}

// TTL returns the remaining lifetime of the code
func (p *PasswordReset) TTL(now time.Time) time.Duration {
	if p.IsExpired(now) {
		return 0
	}
	return p.ExpiresAt.Sub(now)
}

// Verify checks a submitted code. A wrong code counts as an attempt;
// the reset is unusable once MaxOTPAttempts is reached.
func (p *PasswordReset) Verify(code string, now time.Time) error {
	if p.IsExpired(now) {
		return shared.NewDomainError("OTP_EXPIRED", "One-time password has expired")
	}
	if p.Attempts >= MaxOTPAttempts {
		return shared.NewDomainError("OTP_ATTEMPTS_EXCEEDED", "Too many invalid attempts, request a new code")
	}
	if subtle.ConstantTimeCompare([]byte(p.Code), []byte(code)) != 1 {
		p.Attempts++
		return shared.NewDomainError("INVALID_OTP", "Invalid one-time password")
	}
	p.Verified = true
	return nil
}

func generateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
