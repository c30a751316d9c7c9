//go:build unit || e2e

package authtest

import (
	"testing"
	"time"

	"parking-booking/internal/domain/user"
	"parking-booking/internal/pkg/config"
	"parking-booking/internal/pkg/jwt"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type JWTHelper struct {
	cfg config.JWTConfig
}

func NewJWTHelper(cfg config.JWTConfig) *JWTHelper {
	return &JWTHelper{cfg: cfg}
}

func (h *JWTHelper) GenerateToken(t *testing.T, userID uuid.UUID, role user.Role) string {
	t.Helper()
	duration, err := time.ParseDuration(h.cfg.Duration)
	require.NoError(t, err)
	token, err := jwt.NewService(h.cfg.Secret, duration, nil).GenerateToken(userID, role)
	require.NoError(t, err)
	return token
}

// NewUserToken returns a fresh user id together with a signed token for it.
func (h *JWTHelper) NewUserToken(t *testing.T, role user.Role) (uuid.UUID, string) {
	t.Helper()
	userID := uuid.New()
	return userID, h.GenerateToken(t, userID, role)
}

func (h *JWTHelper) CreateExpiredToken(t *testing.T, userID uuid.UUID, role user.Role) string {
	t.Helper()
	token, err := jwt.NewService(h.cfg.Secret, -time.Minute, nil).GenerateToken(userID, role)
	require.NoError(t, err)
	return token
}
