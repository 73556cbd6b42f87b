package socketio

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// NamespaceClaims mirrors the teacher's own namespace-scoped JWT shape
// (handler.go's validateConnect verifies a namespace claim server-side); this
// client mints rather than verifies one, for a namespace CONNECT auth payload.
type NamespaceClaims struct {
	Namespace string `json:"ns"`
	jwt.RegisteredClaims
}

// SignAuthToken mints an HS256 JWT for claims, suitable for embedding in a
// namespace CONNECT auth payload (e.g. map[string]any{"token": token}).
func SignAuthToken(claims jwt.Claims, secret []byte) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// NewNamespaceAuthToken is a convenience wrapper around SignAuthToken for the
// common case of a single namespace-scoped, time-limited token.
func NewNamespaceAuthToken(namespace string, ttl time.Duration, secret []byte) (string, error) {
	claims := NamespaceClaims{
		Namespace: namespace,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	return SignAuthToken(claims, secret)
}
