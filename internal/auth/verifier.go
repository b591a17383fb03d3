// Package auth verifies session tokens. Session issuance lives outside this
// service; the middleware only checks the shared-secret signature and pulls
// the user ID out of the subject claim.
package auth

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// Verifier validates HS256 bearer tokens
type Verifier struct {
	secret []byte
}

// NewVerifier creates a verifier for the shared signing secret
func NewVerifier(secret string) (*Verifier, error) {
	if secret == "" {
		return nil, fmt.Errorf("JWT secret is required")
	}
	return &Verifier{secret: []byte(secret)}, nil
}

// VerifyToken checks the token signature and expiry and returns the session
// user ID from the subject claim
func (v *Verifier) VerifyToken(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil {
		return "", fmt.Errorf("invalid token: %w", err)
	}

	subject, err := token.Claims.GetSubject()
	if err != nil || subject == "" {
		return "", fmt.Errorf("token has no subject")
	}

	return subject, nil
}
