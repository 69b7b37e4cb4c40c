package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	UserID uuid.UUID
	Roles  []string
	JTI    string
}

// AccessTokenClaims represents the typed JWT issued to clients. Roles carries
// the user's platform-wide markers only; opportunity standing is always read
// from storage.
type AccessTokenClaims struct {
	UserID uuid.UUID `json:"user_id"`
	Roles  []string  `json:"roles,omitempty"`
	jwt.RegisteredClaims
}
