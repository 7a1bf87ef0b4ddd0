package models

import "github.com/golang-jwt/jwt/v5"

// Claims is the payload of a session token.
type Claims struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// GetUserID returns the userId claim, falling back to the subject for
// tokens minted by an external issuer.
func (c *Claims) GetUserID() string {
	if c.UserID != "" {
		return c.UserID
	}
	return c.Subject
}
