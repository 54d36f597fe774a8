package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"socialnet/internal/model"
)

const (
	// SessionExpiry is the lifetime of a session token issued without "remember me".
	SessionExpiry = 24 * time.Hour
	// RememberedSessionExpiry is the lifetime of a remembered session token.
	RememberedSessionExpiry = 30 * 24 * time.Hour
)

// Claims represents JWT claims of a session bearer token.
// The registered ID claim carries the opaque session token.
type Claims struct {
	UserID uint       `json:"user_id"`
	Role   model.Role `json:"role"`
	jwt.RegisteredClaims
}

// JWTService handles JWT token generation and validation.
type JWTService struct {
	secret []byte
}

// NewJWTService creates a new JWT service with the given secret.
func NewJWTService(secret string) *JWTService {
	return &JWTService{
		secret: []byte(secret),
	}
}

// ExpiryFor returns the token lifetime for the remember flag.
func ExpiryFor(remember bool) time.Duration {
	if remember {
		return RememberedSessionExpiry
	}
	return SessionExpiry
}

// GenerateToken signs a bearer token for the session.
func (s *JWTService) GenerateToken(userID uint, role model.Role, sessionToken string, remember bool, now time.Time) (string, error) {
	claims := &Claims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        sessionToken,
			ExpiresAt: jwt.NewNumericDate(now.Add(ExpiryFor(remember))),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// ValidateToken validates a JWT token and returns the claims.
func (s *JWTService) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	})

	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}

	return claims, nil
}
