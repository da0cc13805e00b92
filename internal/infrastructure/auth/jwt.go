package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/supplychain/backend/internal/domain/identity"
	"github.com/supplychain/backend/internal/infrastructure/config"
)

var (
	ErrInvalidToken       = errors.New("invalid token")
	ErrExpiredToken       = errors.New("token has expired")
	ErrInvalidTokenType   = errors.New("invalid token type")
	ErrInvalidClaims      = errors.New("invalid token claims")
	ErrTokenNotYetValid   = errors.New("token is not yet valid")
	ErrMissingUserID      = errors.New("missing user_id in claims")
	ErrMaxRefreshExceeded = errors.New("maximum refresh count exceeded")
	ErrTokenBlacklisted   = errors.New("token has been revoked")
)

// TokenPair is returned by login, registration and refresh
type TokenPair struct {
	AccessToken           string    `json:"access_token"`
	RefreshToken          string    `json:"refresh_token"`
	AccessTokenExpiresAt  time.Time `json:"access_token_expires_at"`
	RefreshTokenExpiresAt time.Time `json:"refresh_token_expires_at"`
	TokenType             string    `json:"token_type"`
}

// keyring signs and verifies one kind of token
type keyring struct {
	kind   TokenType
	secret []byte
	ttl    time.Duration
}

// JWTService issues HS256 token pairs. Access and refresh tokens use
// separate secrets unless no refresh secret is configured.
type JWTService struct {
	access          keyring
	refresh         keyring
	issuer          string
	maxRefreshCount int
	now             func() time.Time
}

func NewJWTService(cfg config.JWTConfig) *JWTService {
	refreshSecret := cfg.RefreshSecret
	if refreshSecret == "" {
		refreshSecret = cfg.Secret
	}
	return &JWTService{
		access:          keyring{kind: TokenTypeAccess, secret: []byte(cfg.Secret), ttl: cfg.AccessTokenExpiration},
		refresh:         keyring{kind: TokenTypeRefresh, secret: []byte(refreshSecret), ttl: cfg.RefreshTokenExpiration},
		issuer:          cfg.Issuer,
		maxRefreshCount: cfg.MaxRefreshCount,
		now:             time.Now,
	}
}

// GenerateTokenPair starts a new session for actor
func (s *JWTService) GenerateTokenPair(actor identity.Actor) (*TokenPair, error) {
	return s.issue(actor, 0)
}

// RefreshTokenPair rotates a session. The new access token reflects actor's
// current roles, and actor must be the refresh token's subject.
func (s *JWTService) RefreshTokenPair(refreshToken string, actor identity.Actor) (*TokenPair, error) {
	claims, err := s.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, err
	}
	if claims.RefreshCount >= s.maxRefreshCount {
		return nil, ErrMaxRefreshExceeded
	}
	if claims.UserID != actor.UserID.String() {
		return nil, ErrInvalidClaims
	}
	return s.issue(actor, claims.RefreshCount+1)
}

func (s *JWTService) ValidateAccessToken(token string) (*Claims, error) {
	return s.parse(token, s.access)
}

func (s *JWTService) ValidateRefreshToken(token string) (*Claims, error) {
	return s.parse(token, s.refresh)
}

func (s *JWTService) AccessTokenExpiration() time.Duration  { return s.access.ttl }
func (s *JWTService) RefreshTokenExpiration() time.Duration { return s.refresh.ttl }

func (s *JWTService) issue(actor identity.Actor, refreshCount int) (*TokenPair, error) {
	if actor.UserID == uuid.Nil {
		return nil, ErrMissingUserID
	}
	now := s.now()

	access := &Claims{
		UserID:      actor.UserID.String(),
		Username:    actor.Username,
		Roles:       identity.RoleStrings(actor.Roles),
		Permissions: identity.PermissionsFor(actor.Roles),
	}
	if actor.CompanyID != nil {
		access.CompanyID = actor.CompanyID.String()
	}
	accessToken, accessExp, err := s.sign(access, s.access, now)
	if err != nil {
		return nil, err
	}

	// roles are looked up again on refresh, so the refresh token omits them
	refresh := &Claims{UserID: actor.UserID.String(), RefreshCount: refreshCount}
	refreshToken, refreshExp, err := s.sign(refresh, s.refresh, now)
	if err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:           accessToken,
		RefreshToken:          refreshToken,
		AccessTokenExpiresAt:  accessExp,
		RefreshTokenExpiresAt: refreshExp,
		TokenType:             "Bearer",
	}, nil
}

// sign fills the registered claims and type for k and returns the token with
// its expiry
func (s *JWTService) sign(claims *Claims, k keyring, now time.Time) (string, time.Time, error) {
	exp := now.Add(k.ttl)
	claims.TokenType = k.kind
	claims.RegisteredClaims = jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		Issuer:    s.issuer,
		Subject:   claims.UserID,
		Audience:  jwt.ClaimStrings{s.issuer},
		ExpiresAt: jwt.NewNumericDate(exp),
		NotBefore: jwt.NewNumericDate(now),
		IssuedAt:  jwt.NewNumericDate(now),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(k.secret)
	return token, exp, err
}

func (s *JWTService) parse(raw string, k keyring) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(raw, claims,
		func(*jwt.Token) (any, error) { return k.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.issuer),
		jwt.WithTimeFunc(s.now),
	)
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, ErrExpiredToken
	case errors.Is(err, jwt.ErrTokenNotValidYet):
		return nil, ErrTokenNotYetValid
	case err != nil:
		return nil, ErrInvalidToken
	case claims.TokenType != k.kind:
		return nil, ErrInvalidTokenType
	case claims.UserID == "":
		return nil, ErrMissingUserID
	}
	return claims, nil
}
