package middleware

import (
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/supplychain/backend/internal/domain/identity"
	"github.com/supplychain/backend/internal/infrastructure/auth"
	"github.com/supplychain/backend/internal/infrastructure/config"
	"github.com/supplychain/backend/internal/interfaces/http/dto"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func configWithSecret(secret string) config.JWTConfig {
	return config.JWTConfig{
		Secret:                 secret,
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 7 * 24 * time.Hour,
		Issuer:                 "test-issuer",
		MaxRefreshCount:        10,
	}
}

func newTestJWTService() *auth.JWTService {
	return auth.NewJWTService(configWithSecret("test-secret-key-at-least-32-chars"))
}

func newActor(roles ...identity.Role) identity.Actor {
	companyID := uuid.New()
	return identity.Actor{
		UserID:    uuid.New(),
		Username:  "maker",
		Roles:     roles,
		CompanyID: &companyID,
	}
}

func accessToken(t *testing.T, svc *auth.JWTService, actor identity.Actor) string {
	t.Helper()
	pair, err := svc.GenerateTokenPair(actor)
	require.NoError(t, err)
	return pair.AccessToken
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) dto.Response {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}
