package auth

import "portfolio/internal/domain/models"

// JWTVerifier validates session tokens.
// Middleware depends only on this so the signing scheme can change.
type JWTVerifier interface {
	// VerifyToken returns the claims of a valid token. Any failure
	// (malformed, expired, bad signature) wraps domain.ErrUnauthorized.
	VerifyToken(tokenString string) (*models.Claims, error)

	// Close releases any resources held by the verifier.
	Close() error
}

// TokenIssuer mints session tokens.
type TokenIssuer interface {
	IssueToken(userID, email string) (string, error)
}
