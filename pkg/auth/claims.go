package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/lbstore/storefront-backend/pkg/enums"
)

// AccessTokenPayload is what the login flow knows when minting a token.
type AccessTokenPayload struct {
	AdminID uuid.UUID
	Email   string
	Role    enums.Role
	JTI     string
}

// AccessTokenClaims is the typed JWT issued to admins. The jti doubles as
// the redis access-session id.
type AccessTokenClaims struct {
	AdminID uuid.UUID  `json:"admin_id"`
	Email   string     `json:"email"`
	Role    enums.Role `json:"role"`
	jwt.RegisteredClaims
}
