package models

import (
	"github.com/golang-jwt/jwt/v5"
)

// Claims is the JWT claims structure issued by the identity provider.
// Token issuance is out of scope; this service only verifies.
type Claims struct {
	jwt.RegisteredClaims        // Standard JWT claims (sub, iss, aud, exp, iat, etc.)
	Email                string `json:"email"`
	Role                 string `json:"role"`
}

// GetUserID returns the user ID from the JWT subject claim.
// This is the primary identifier for the authenticated user.
func (c *Claims) GetUserID() string {
	return c.Subject
}
