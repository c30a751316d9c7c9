//go:build unit

package middleware_test

import (
	"net/http"
	"testing"
	"time"

	"parking-booking/internal/domain/user"
	"parking-booking/internal/handler/middleware"
	"parking-booking/internal/pkg/config"
	"parking-booking/internal/pkg/jwt"
	"parking-booking/tests/common/authtest"
	"parking-booking/tests/common/httptest"

	"github.com/gin-gonic/gin"
	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthRouter(t *testing.T) (*gin.Engine, *authtest.JWTHelper) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := config.JWTConfig{Secret: "middleware-secret", Duration: "1h"}
	auth := middleware.NewAuthMiddleware(jwt.NewService(cfg.Secret, time.Hour, nil))

	r := gin.New()
	r.GET("/me", auth.RequireAuth(), func(c *gin.Context) {
		actor, ok := middleware.GetActor(c)
		require.True(t, ok)
		c.JSON(http.StatusOK, gin.H{"id": actor.ID.String(), "role": string(actor.Role)})
	})
	r.GET("/admin", auth.RequireAuth(), auth.RequireRole(user.RoleAdmin), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return r, authtest.NewJWTHelper(cfg)
}

func TestRequireAuth(t *testing.T) {
	router, tokens := newAuthRouter(t)

	t.Run("valid token exposes the actor", func(t *testing.T) {
		id, token := tokens.NewUserToken(t, user.RoleUser)

		rec := httptest.PerformRequest(t, router, http.MethodGet, "/me", nil, token)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"id":"`+id.String()+`","role":"user"}`, rec.Body.String())
	})

	t.Run("missing token", func(t *testing.T) {
		rec := httptest.PerformRequest(t, router, http.MethodGet, "/me", nil, "")
		httptest.AssertErrorResponse(t, rec, http.StatusUnauthorized, "Access token required")
	})

	t.Run("expired token", func(t *testing.T) {
		token := tokens.CreateExpiredToken(t, uuid.New(), user.RoleUser)
		rec := httptest.PerformRequest(t, router, http.MethodGet, "/me", nil, token)
		httptest.AssertErrorResponse(t, rec, http.StatusUnauthorized, "Invalid or expired token")
	})

	t.Run("token naming an unknown role", func(t *testing.T) {
		claims := jwt.Claims{
			UserID:           uuid.New(),
			Role:             "operator",
			RegisteredClaims: gojwt.RegisteredClaims{ExpiresAt: gojwt.NewNumericDate(time.Now().Add(time.Hour))},
		}
		token, err := gojwt.NewWithClaims(gojwt.SigningMethodHS256, claims).SignedString([]byte("middleware-secret"))
		require.NoError(t, err)

		rec := httptest.PerformRequest(t, router, http.MethodGet, "/me", nil, token)

		httptest.AssertErrorResponse(t, rec, http.StatusUnauthorized, "Invalid or expired token")
	})

	t.Run("token signed with another secret", func(t *testing.T) {
		other := authtest.NewJWTHelper(config.JWTConfig{Secret: "other", Duration: "1h"})
		rec := httptest.PerformRequest(t, router, http.MethodGet, "/me", nil, other.GenerateToken(t, uuid.New(), user.RoleAdmin))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestRequireRole(t *testing.T) {
	router, tokens := newAuthRouter(t)

	_, adminToken := tokens.NewUserToken(t, user.RoleAdmin)
	rec := httptest.PerformRequest(t, router, http.MethodGet, "/admin", nil, adminToken)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	_, userToken := tokens.NewUserToken(t, user.RoleUser)
	rec = httptest.PerformRequest(t, router, http.MethodGet, "/admin", nil, userToken)
	httptest.AssertErrorResponse(t, rec, http.StatusForbidden, "Access denied")
}
