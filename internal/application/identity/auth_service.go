package identity

import (
	"context"
	"errors"
	"time"

	"github.com/supplychain/backend/internal/domain/identity"
	"github.com/supplychain/backend/internal/domain/shared"
	"github.com/supplychain/backend/internal/infrastructure/auth"
	"go.uber.org/zap"
)

// AuthServiceConfig contains configuration for the auth service
type AuthServiceConfig struct {
	OTPTTL              time.Duration // lifetime of a password reset code
	AllowAdminBootstrap bool          // first user may register as admin
}

// DefaultAuthServiceConfig returns default configuration
func DefaultAuthServiceConfig() AuthServiceConfig {
	return AuthServiceConfig{
		OTPTTL:              10 * time.Minute,
		AllowAdminBootstrap: true,
	}
}

var errInvalidCredentials = shared.NewDomainError("INVALID_CREDENTIALS", "Invalid username or password")

// AuthService handles authentication operations
type AuthService struct {
	userRepo   identity.UserRepository
	resets     identity.PasswordResetStore
	jwtService *auth.JWTService
	blacklist  auth.TokenBlacklist
	events     shared.EventPublisher
	config     AuthServiceConfig
	logger     *zap.Logger
	now        func() time.Time
}

// NewAuthService creates a new authentication service
func NewAuthService(
	userRepo identity.UserRepository,
	resets identity.PasswordResetStore,
	jwtService *auth.JWTService,
	blacklist auth.TokenBlacklist,
	events shared.EventPublisher,
	config AuthServiceConfig,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		resets:     resets,
		jwtService: jwtService,
		blacklist:  blacklist,
		events:     events,
		config:     config,
		logger:     logger,
		now:        time.Now,
	}
}

// Register creates a new account
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*UserInfo, error) {
	groups, err := identity.ParseRoles(input.Groups)
	if err != nil {
		return nil, err
	}

	username := identity.NormalizeLogin(input.Username)
	email := identity.NormalizeLogin(input.Email)
	exists, err := s.userRepo.ExistsByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if !exists {
		exists, err = s.userRepo.ExistsByEmail(ctx, email)
		if err != nil {
			return nil, err
		}
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "User already exists")
	}

	for _, g := range groups {
		if g != identity.RoleAdmin {
			continue
		}
		if err := s.checkAdminBootstrap(ctx); err != nil {
			s.logger.Warn("Rejected admin self-registration", zap.String("username", username))
			return nil, err
		}
	}

	user, err := identity.NewUser(input.Username, input.Email, input.Password, groups)
	if err != nil {
		return nil, err
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	if err := shared.PublishAndClear(ctx, s.events, user); err != nil {
		s.logger.Error("Failed to publish user events", zap.Error(err))
	}

	s.logger.Info("User registered",
		zap.String("user_id", user.ID.String()),
		zap.Strings("groups", identity.RoleStrings(groups)))
	info := ToUserInfo(user)
	return &info, nil
}

func (s *AuthService) checkAdminBootstrap(ctx context.Context) error {
	forbidden := shared.NewDomainError("FORBIDDEN", "The admin group cannot be self-assigned")
	if !s.config.AllowAdminBootstrap {
		return forbidden
	}
	count, err := s.userRepo.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return forbidden
	}
	return nil
}

// Login authenticates a user by username or e-mail and returns tokens
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	login := identity.NormalizeLogin(input.Username)
	s.logger.Info("Login attempt", zap.String("username", login))

	user, err := s.userRepo.FindByUsername(ctx, login)
	if errors.Is(err, shared.ErrNotFound) {
		user, err = s.userRepo.FindByEmail(ctx, login)
	}
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			s.logger.Warn("User not found during login", zap.String("username", login))
			return nil, errInvalidCredentials
		}
		return nil, err
	}

	if !user.VerifyPassword(input.Password) {
		s.logger.Warn("Invalid password attempt", zap.String("username", login))
		return nil, errInvalidCredentials
	}
	if !user.CanLogin() {
		s.logger.Warn("Login attempt for deactivated account", zap.String("username", login))
		return nil, shared.NewDomainError("ACCOUNT_DEACTIVATED", "Account has been deactivated")
	}

	pair, err := s.jwtService.GenerateTokenPair(user.Actor())
	if err != nil {
		s.logger.Error("Failed to generate token pair", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to generate authentication tokens")
	}

	user.RecordLogin()
	if err := s.userRepo.Update(ctx, user); err != nil {
		// Don't fail the login - just log the error
		s.logger.Error("Failed to record login", zap.Error(err))
	}

	s.logger.Info("User logged in successfully",
		zap.String("username", user.Username),
		zap.String("user_id", user.ID.String()))
	return toLoginResult(pair, user), nil
}

// Logout revokes the access token for the rest of its lifetime
func (s *AuthService) Logout(ctx context.Context, input LogoutInput) error {
	if input.JTI == "" {
		return shared.NewDomainError("TOKEN_INVALID", "Token has no identifier")
	}
	if err := s.blacklist.AddToBlacklist(ctx, input.JTI, input.RemainingTTL); err != nil {
		s.logger.Error("Failed to revoke token", zap.Error(err))
		return err
	}
	s.logger.Info("Token revoked", zap.String("jti", input.JTI))
	return nil
}

// Me returns the current user
func (s *AuthService) Me(ctx context.Context, actor identity.Actor) (*UserInfo, error) {
	user, err := s.userRepo.FindByID(ctx, actor.UserID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("USER_NOT_FOUND", "User not found")
		}
		return nil, err
	}
	info := ToUserInfo(user)
	return &info, nil
}

// RefreshToken issues a new token pair from a valid refresh token
func (s *AuthService) RefreshToken(ctx context.Context, input RefreshTokenInput) (*LoginResult, error) {
	claims, err := s.jwtService.ValidateRefreshToken(input.RefreshToken)
	if err != nil {
		s.logger.Warn("Refresh token validation failed", zap.Error(err))
		return nil, tokenError(err)
	}
	userID, err := claims.UserUUID()
	if err != nil {
		return nil, shared.NewDomainError("TOKEN_INVALID", "Invalid user ID in token")
	}

	if revoked, err := s.blacklist.IsUserTokenInvalidated(ctx, claims.UserID, claims.IssuedAtTime()); err != nil {
		return nil, err
	} else if revoked {
		return nil, shared.NewDomainError("TOKEN_REVOKED", "Token has been revoked. Please log in again")
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		s.logger.Warn("User not found during token refresh", zap.String("user_id", userID.String()))
		return nil, shared.NewDomainError("USER_NOT_FOUND", "User not found")
	}
	if !user.CanLogin() {
		return nil, shared.NewDomainError("ACCOUNT_DEACTIVATED", "Account has been deactivated")
	}

	pair, err := s.jwtService.RefreshTokenPair(input.RefreshToken, user.Actor())
	if err != nil {
		return nil, tokenError(err)
	}
	return toLoginResult(pair, user), nil
}

// ForgotPassword issues a one-time password for the account with the e-mail.
// Unknown e-mails succeed silently.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.userRepo.FindByEmail(ctx, identity.NormalizeLogin(email))
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			s.logger.Info("Password reset requested for unknown e-mail")
			return nil
		}
		return err
	}
	if !user.CanLogin() {
		return nil
	}

	reset, err := identity.NewPasswordReset(user, s.config.OTPTTL)
	if err != nil {
		return err
	}
	if err := s.resets.Save(ctx, reset, s.config.OTPTTL); err != nil {
		return err
	}
	// No delivery channel is wired; the code is only logged.
	s.logger.Info("Password reset OTP issued",
		zap.String("user_id", user.ID.String()),
		zap.String("otp", reset.Code),
		zap.Time("expires_at", reset.ExpiresAt))
	return nil
}

// VerifyOTP checks a reset code without consuming it
func (s *AuthService) VerifyOTP(ctx context.Context, email, otp string) error {
	_, err := s.verify(ctx, identity.NormalizeLogin(email), otp)
	return err
}

// ResetPassword consumes the reset code, sets the new password and revokes
// every token issued to the user before now
func (s *AuthService) ResetPassword(ctx context.Context, input ResetPasswordInput) error {
	email := identity.NormalizeLogin(input.Email)
	reset, err := s.verify(ctx, email, input.OTP)
	if err != nil {
		return err
	}

	user, err := s.userRepo.FindByID(ctx, reset.UserID)
	if err != nil {
		return err
	}
	if err := user.SetPassword(input.NewPassword); err != nil {
		return err
	}
	if err := s.userRepo.Update(ctx, user); err != nil {
		return err
	}
	if err := s.resets.Delete(ctx, email); err != nil {
		s.logger.Error("Failed to delete password reset", zap.Error(err))
	}
	if err := s.blacklist.AddUserTokensToBlacklist(ctx, user.ID.String(), s.jwtService.RefreshTokenExpiration()); err != nil {
		s.logger.Error("Failed to revoke user tokens", zap.Error(err))
		return err
	}
	if err := shared.PublishAndClear(ctx, s.events, user); err != nil {
		s.logger.Error("Failed to publish user events", zap.Error(err))
	}

	s.logger.Info("Password reset", zap.String("user_id", user.ID.String()))
	return nil
}

func (s *AuthService) verify(ctx context.Context, email, otp string) (*identity.PasswordReset, error) {
	reset, err := s.resets.Find(ctx, email)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("INVALID_OTP", "Invalid one-time password")
		}
		return nil, err
	}
	now := s.now()
	verifyErr := reset.Verify(otp, now)
	if ttl := reset.TTL(now); ttl > 0 {
		// Persist the attempt counter and verified flag
		if err := s.resets.Save(ctx, reset, ttl); err != nil {
			return nil, err
		}
	}
	if verifyErr != nil {
		s.logger.Warn("OTP verification failed", zap.Int("attempts", reset.Attempts), zap.Error(verifyErr))
		return nil, verifyErr
	}
	return reset, nil
}

func toLoginResult(pair *auth.TokenPair, user *identity.User) *LoginResult {
	return &LoginResult{
		AccessToken:           pair.AccessToken,
		RefreshToken:          pair.RefreshToken,
		AccessTokenExpiresAt:  pair.AccessTokenExpiresAt,
		RefreshTokenExpiresAt: pair.RefreshTokenExpiresAt,
		TokenType:             pair.TokenType,
		User:                  ToUserInfo(user),
	}
}

func tokenError(err error) error {
	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		return shared.NewDomainError("TOKEN_EXPIRED", "Refresh token has expired")
	case errors.Is(err, auth.ErrMaxRefreshExceeded):
		return shared.NewDomainError("TOKEN_MAX_REFRESH", "Maximum token refresh count exceeded. Please log in again")
	case errors.Is(err, auth.ErrInvalidToken), errors.Is(err, auth.ErrInvalidTokenType), errors.Is(err, auth.ErrInvalidClaims):
		return shared.NewDomainError("TOKEN_INVALID", "Invalid refresh token")
	default:
		return shared.NewDomainError("TOKEN_ERROR", "Failed to validate refresh token")
	}
}
