package middleware

import (
	"net/http"
	"net/http/httptest"
	"net/netip"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/supplychain/backend/internal/domain/identity"
)

func newSwaggerRouter(cfg SwaggerConfig, jwt gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.GET("/swagger/*any", SwaggerProtection(cfg, jwt), func(c *gin.Context) {
		c.String(http.StatusOK, "docs")
	})
	return r
}

func TestSwaggerProtection_Disabled(t *testing.T) {
	r := newSwaggerRouter(SwaggerConfig{Enabled: false}, nil)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/swagger/index.html", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSwaggerProtection_Open(t *testing.T) {
	r := newSwaggerRouter(SwaggerConfig{Enabled: true}, nil)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/swagger/index.html", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "docs", w.Body.String())
}

func TestSwaggerProtection_IPAllowList(t *testing.T) {
	r := newSwaggerRouter(SwaggerConfig{Enabled: true, AllowedIPs: []string{"10.0.0.0/8", "192.168.1.5"}}, nil)

	tests := []struct {
		remote string
		want   int
	}{
		{"10.1.2.3:1234", http.StatusOK},
		{"192.168.1.5:80", http.StatusOK},
		{"172.16.0.1:80", http.StatusForbidden},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, "/swagger/index.html", nil)
		req.RemoteAddr = tt.remote
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, tt.want, w.Code, tt.remote)
	}
}

func TestSwaggerProtection_RequireAuth(t *testing.T) {
	svc := newTestJWTService()
	jwt := JWTAuth(JWTMiddlewareConfig{JWTService: svc})
	r := newSwaggerRouter(SwaggerConfig{Enabled: true, RequireAuth: true}, jwt)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/swagger/index.html", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/swagger/index.html", nil)
	req.Header.Set("Authorization", "Bearer "+accessToken(t, svc, newActor(identity.RoleAdmin)))
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestParseAllowList(t *testing.T) {
	list := parseAllowList([]string{" 10.0.0.0/8 ", "not-an-ip", "::1", "192.168.1.0/33"})
	assert.Len(t, list, 2)

	tests := []struct {
		addr string
		want bool
	}{
		{"10.200.0.1", true},
		{"::ffff:10.0.0.7", true},
		{"::1", true},
		{"11.0.0.1", false},
		{"192.168.1.1", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, list.admits(netip.MustParseAddr(tt.addr)), tt.addr)
	}
	assert.False(t, list.admits(netip.Addr{}))
}
