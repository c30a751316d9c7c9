package jwt

import (
	"errors"
	"time"

	"parking-booking/internal/domain/user"
	"parking-booking/internal/pkg/clock"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token expired")
	// ErrInvalidActor means the signature checked out but the claims do not
	// name a usable caller.
	ErrInvalidActor = errors.New("token does not identify an actor")
)

// clockSkew tolerated between the identity provider and this service.
const clockSkew = 30 * time.Second

type Claims struct {
	UserID uuid.UUID `json:"user_id"`
	Role   string    `json:"role"`
	jwt.RegisteredClaims
}

// Service authenticates bearer tokens minted by the identity provider.
// Tokens are HS256 only and must carry an expiry.
type Service struct {
	secretKey     []byte
	tokenDuration time.Duration
	clock         clock.Clock
	parser        *jwt.Parser
}

func NewService(secretKey string, tokenDuration time.Duration, clk clock.Clock) *Service {
	if clk == nil {
		clk = clock.NewRealClock()
	}
	return &Service{
		secretKey:     []byte(secretKey),
		tokenDuration: tokenDuration,
		clock:         clk,
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithExpirationRequired(),
			jwt.WithLeeway(clockSkew),
			jwt.WithTimeFunc(clk.Now),
		),
	}
}

// GenerateToken plays the provider side; the API itself never issues tokens.
func (s *Service) GenerateToken(userID uuid.UUID, role user.Role) (string, error) {
	now := s.clock.Now()
	claims := Claims{
		UserID: userID,
		Role:   role.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenDuration)),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secretKey)
}

// Authenticate verifies the token and returns the caller it names.
func (s *Service) Authenticate(tokenString string) (user.Actor, error) {
	claims := &Claims{}
	token, err := s.parser.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
		return s.secretKey, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return user.Actor{}, ErrExpiredToken
		}
		return user.Actor{}, ErrInvalidToken
	}
	if !token.Valid {
		return user.Actor{}, ErrInvalidToken
	}

	if claims.UserID == uuid.Nil {
		return user.Actor{}, ErrInvalidActor
	}
	role, err := user.NewRole(claims.Role)
	if err != nil {
		return user.Actor{}, ErrInvalidActor
	}
	return user.NewActor(claims.UserID, role), nil
}
