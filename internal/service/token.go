package service

import (
	"time"

	"food-court/internal/domain"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	// BcryptCost is the cost factor for bcrypt password hashing
	BcryptCost = 10

	// DefaultTokenExpiry is used when no expiry is configured
	DefaultTokenExpiry = 24 * time.Hour
)

// Claims represents the JWT claims issued on login
type Claims struct {
	UserID uuid.UUID   `json:"user_id"`
	Role   domain.Role `json:"role"`
	jwt.RegisteredClaims
}

// issueToken signs an HS256 bearer token carrying the principal's id and role
func issueToken(secret string, id uuid.UUID, role domain.Role, expiry time.Duration) (string, error) {
	if expiry <= 0 {
		expiry = DefaultTokenExpiry
	}

	claims := &Claims{
		UserID: id,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.String(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiry)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}
