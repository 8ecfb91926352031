package auth

import "doctracker/internal/domain/models"

// TokenVerifier defines the interface for JWT token verification.
// The middleware stays agnostic to how tokens are actually verified.
type TokenVerifier interface {
	// VerifyToken validates a JWT token string and returns the parsed claims.
	// Returns an error if the token is invalid, expired, or has an invalid signature.
	VerifyToken(tokenString string) (*models.Claims, error)

	// Close releases any resources held by the verifier (e.g., HTTP connections for JWKS).
	Close() error
}
