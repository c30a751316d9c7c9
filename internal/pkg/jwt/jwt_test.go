//go:build unit

package jwt_test

import (
	"testing"
	"time"

	"parking-booking/internal/domain/user"
	"parking-booking/internal/pkg/clock"
	"parking-booking/internal/pkg/jwt"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var issuedAt = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

func sign(t *testing.T, method gojwt.SigningMethod, secret string, claims gojwt.Claims) string {
	t.Helper()
	token, err := gojwt.NewWithClaims(method, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func TestService_Authenticate(t *testing.T) {
	svc := jwt.NewService("secret", time.Hour, clock.NewMockClock(issuedAt))
	userID := uuid.New()

	token, err := svc.GenerateToken(userID, user.RoleAdmin)
	require.NoError(t, err)

	actor, err := svc.Authenticate(token)
	require.NoError(t, err)
	assert.Equal(t, user.NewActor(userID, user.RoleAdmin), actor)
	assert.True(t, actor.IsAdmin())
}

func TestService_Authenticate_Errors(t *testing.T) {
	userID := uuid.New()
	expiry := gojwt.NewNumericDate(issuedAt.Add(time.Hour))

	testCases := []struct {
		name    string
		token   func(t *testing.T) string
		now     time.Time
		wantErr error
	}{
		{
			name: "expired token",
			token: func(t *testing.T) string {
				tok, err := jwt.NewService("secret", time.Minute, clock.NewMockClock(issuedAt)).GenerateToken(userID, user.RoleUser)
				require.NoError(t, err)
				return tok
			},
			now:     issuedAt.Add(2 * time.Minute),
			wantErr: jwt.ErrExpiredToken,
		},
		{
			name: "wrong secret",
			token: func(t *testing.T) string {
				tok, err := jwt.NewService("secret-a", time.Hour, clock.NewMockClock(issuedAt)).GenerateToken(userID, user.RoleUser)
				require.NoError(t, err)
				return tok
			},
			now:     issuedAt,
			wantErr: jwt.ErrInvalidToken,
		},
		{
			name: "signing method other than HS256",
			token: func(t *testing.T) string {
				return sign(t, gojwt.SigningMethodHS512, "secret", jwt.Claims{
					UserID: userID, Role: "user",
					RegisteredClaims: gojwt.RegisteredClaims{ExpiresAt: expiry},
				})
			},
			now:     issuedAt,
			wantErr: jwt.ErrInvalidToken,
		},
		{
			name: "no expiry",
			token: func(t *testing.T) string {
				return sign(t, gojwt.SigningMethodHS256, "secret", jwt.Claims{UserID: userID, Role: "user"})
			},
			now:     issuedAt,
			wantErr: jwt.ErrInvalidToken,
		},
		{
			name: "unknown role",
			token: func(t *testing.T) string {
				return sign(t, gojwt.SigningMethodHS256, "secret", jwt.Claims{
					UserID: userID, Role: "superuser",
					RegisteredClaims: gojwt.RegisteredClaims{ExpiresAt: expiry},
				})
			},
			now:     issuedAt,
			wantErr: jwt.ErrInvalidActor,
		},
		{
			name: "missing user id",
			token: func(t *testing.T) string {
				return sign(t, gojwt.SigningMethodHS256, "secret", jwt.Claims{
					Role:             "admin",
					RegisteredClaims: gojwt.RegisteredClaims{ExpiresAt: expiry},
				})
			},
			now:     issuedAt,
			wantErr: jwt.ErrInvalidActor,
		},
		{
			name:    "garbage",
			token:   func(*testing.T) string { return "not-a-token" },
			now:     issuedAt,
			wantErr: jwt.ErrInvalidToken,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			svc := jwt.NewService("secret", time.Hour, clock.NewMockClock(tc.now))

			_, err := svc.Authenticate(tc.token(t))

			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestService_Authenticate_ToleratesClockSkew(t *testing.T) {
	token, err := jwt.NewService("secret", time.Minute, clock.NewMockClock(issuedAt)).GenerateToken(uuid.New(), user.RoleUser)
	require.NoError(t, err)

	svc := jwt.NewService("secret", time.Hour, clock.NewMockClock(issuedAt.Add(time.Minute+10*time.Second)))
	_, err = svc.Authenticate(token)

	assert.NoError(t, err)
}
