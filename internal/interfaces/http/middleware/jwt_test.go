package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/supplychain/backend/internal/domain/identity"
	"github.com/supplychain/backend/internal/infrastructure/auth"
	"github.com/supplychain/backend/internal/interfaces/http/dto"
)

func newJWTRouter(svc *auth.JWTService, blacklist auth.TokenBlacklist, extra ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(RequestID(), JWTAuth(JWTMiddlewareConfig{JWTService: svc, TokenBlacklist: blacklist}))
	r.Use(extra...)
	r.GET("/me", func(c *gin.Context) {
		actor, ok := GetActor(c)
		if !ok {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.String(http.StatusOK, actor.UserID.String())
	})
	return r
}

func serveWithToken(r *gin.Engine, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestJWTAuth_ValidToken(t *testing.T) {
	svc := newTestJWTService()
	actor := newActor(identity.RoleManufacturer)

	w := serveWithToken(newJWTRouter(svc, nil), accessToken(t, svc, actor))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, actor.UserID.String(), w.Body.String())
}

func TestJWTAuth_StoresClaimsAndActor(t *testing.T) {
	svc := newTestJWTService()
	actor := newActor(identity.RoleRetailer)

	r := gin.New()
	r.Use(JWTAuth(JWTMiddlewareConfig{JWTService: svc}))
	r.GET("/me", func(c *gin.Context) {
		claims := GetJWTClaims(c)
		require.NotNil(t, claims)
		assert.Equal(t, actor.CompanyID.String(), claims.CompanyID)
		assert.True(t, claims.HasRole(identity.RoleRetailer))

		got, ok := GetActor(c)
		require.True(t, ok)
		assert.Equal(t, actor.UserID, got.UserID)
		require.NotNil(t, got.CompanyID)
		assert.Equal(t, *actor.CompanyID, *got.CompanyID)
		c.Status(http.StatusNoContent)
	})

	w := serveWithToken(r, accessToken(t, svc, actor))
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestJWTAuth_Rejections(t *testing.T) {
	svc := newTestJWTService()
	other := auth.NewJWTService(configWithSecret("another-secret-key-at-least-32-chars"))
	actor := newActor(identity.RoleEmployee)

	pair, err := svc.GenerateTokenPair(actor)
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		code   string
	}{
		{"missing header", "", dto.ErrCodeUnauthorized},
		{"wrong scheme", "Basic abc", dto.ErrCodeUnauthorized},
		{"garbage token", "Bearer not-a-jwt", dto.ErrCodeTokenInvalid},
		{"refresh token used as access", "Bearer " + pair.RefreshToken, dto.ErrCodeTokenInvalid},
		{"foreign signature", "Bearer " + accessToken(t, other, actor), dto.ErrCodeTokenInvalid},
	}

	r := newJWTRouter(svc, nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
			resp := decodeResponse(t, w)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.code, resp.Error.Code)
			assert.NotEmpty(t, resp.Error.RequestID)
		})
	}
}

func TestJWTAuth_RevokedToken(t *testing.T) {
	svc := newTestJWTService()
	blacklist := auth.NewInMemoryTokenBlacklist()
	actor := newActor(identity.RoleManufacturer)
	token := accessToken(t, svc, actor)

	claims, err := svc.ValidateAccessToken(token)
	require.NoError(t, err)

	r := newJWTRouter(svc, blacklist)
	assert.Equal(t, http.StatusOK, serveWithToken(r, token).Code)

	require.NoError(t, blacklist.AddToBlacklist(context.Background(), claims.ID, time.Minute))

	w := serveWithToken(r, token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	resp := decodeResponse(t, w)
	require.NotNil(t, resp.Error)
	assert.Equal(t, dto.ErrCodeTokenRevoked, resp.Error.Code)
}

func TestJWTAuth_UserTokensInvalidated(t *testing.T) {
	svc := newTestJWTService()
	blacklist := auth.NewInMemoryTokenBlacklist()
	actor := newActor(identity.RoleRetailer)
	token := accessToken(t, svc, actor)

	require.NoError(t, blacklist.AddUserTokensToBlacklist(context.Background(), actor.UserID.String(), time.Hour))

	w := serveWithToken(newJWTRouter(svc, blacklist), token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequirePermission(t *testing.T) {
	svc := newTestJWTService()
	r := newJWTRouter(svc, nil, RequirePermission(identity.PermCatalogManage))

	assert.Equal(t, http.StatusOK,
		serveWithToken(r, accessToken(t, svc, newActor(identity.RoleManufacturer))).Code)
	assert.Equal(t, http.StatusOK,
		serveWithToken(r, accessToken(t, svc, newActor(identity.RoleAdmin))).Code)

	w := serveWithToken(r, accessToken(t, svc, newActor(identity.RoleRetailer)))
	assert.Equal(t, http.StatusForbidden, w.Code)
	resp := decodeResponse(t, w)
	require.NotNil(t, resp.Error)
	assert.Equal(t, dto.ErrCodeForbidden, resp.Error.Code)
}

func TestRequireAnyPermission(t *testing.T) {
	svc := newTestJWTService()
	r := newJWTRouter(svc, nil, RequireAnyPermission(identity.PermShipmentManage, identity.PermShipmentDeliver))

	assert.Equal(t, http.StatusOK,
		serveWithToken(r, accessToken(t, svc, newActor(identity.RoleEmployee))).Code)
	assert.Equal(t, http.StatusForbidden,
		serveWithToken(r, accessToken(t, svc, newActor(identity.RoleRetailer))).Code)
}

func TestRequireRole(t *testing.T) {
	svc := newTestJWTService()
	r := newJWTRouter(svc, nil, RequireRole(identity.RoleRetailer))

	assert.Equal(t, http.StatusOK,
		serveWithToken(r, accessToken(t, svc, newActor(identity.RoleRetailer))).Code)
	assert.Equal(t, http.StatusForbidden,
		serveWithToken(r, accessToken(t, svc, newActor(identity.RoleManufacturer))).Code)
}

func TestPermissionWithoutClaims(t *testing.T) {
	r := gin.New()
	r.GET("/p", RequirePermission(identity.PermOrderRead), func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/r", RequireRole(identity.RoleAdmin), func(c *gin.Context) { c.Status(http.StatusOK) })

	for _, path := range []string{"/p", "/r"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
	}
}
