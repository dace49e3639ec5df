package middleware

import (
	"github.com/golang-jwt/jwt/v5"
)

// TokenGate is the stronger AdminGate variant: it accepts an HS256 JWT
// carrying role=ADMIN instead of the shared code. Tokens are issued out
// of band; the gate only verifies. When the token carries a sub claim
// and a caller identity was supplied, the two must match, which gives
// per-admin identity without an allow-list.
type TokenGate struct {
	secret []byte
}

// NewTokenGate builds a gate verifying tokens signed with the given
// secret.
func NewTokenGate(secret string) *TokenGate {
	return &TokenGate{secret: []byte(secret)}
}

// Authorize parses and validates the token, requiring the HMAC signing
// method and an ADMIN role claim.
func (g *TokenGate) Authorize(credential, callerIdentity string) bool {
	tok, err := jwt.Parse(credential, func(t *jwt.Token) (interface{}, error) {
		// Reject any signing method other than HMAC.
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return g.secret, nil
	})
	if err != nil || !tok.Valid {
		return false
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return false
	}
	role, _ := claims["role"].(string)
	if role != "ADMIN" {
		return false
	}
	if callerIdentity != "" {
		if sub, _ := claims["sub"].(string); sub != "" && sub != callerIdentity {
			return false
		}
	}
	return true
}
