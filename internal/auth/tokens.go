package auth

import (
	"errors"
	"fmt"
	"time"

	"deptportal/internal/config"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid or expired token")

// Claims is the JWT payload for both principal kinds.
type Claims struct {
	PrincipalID   int    `json:"pid"`
	PrincipalKind string `json:"kind"`
	Name          string `json:"name"`
	jwt.RegisteredClaims
}

// TokenManager signs and validates access tokens. The signing secret
// and lifetime come from configuration rather than process globals.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenManager(cfg config.AuthConfig) *TokenManager {
	return &TokenManager{
		secret: []byte(cfg.Secret),
		ttl:    time.Duration(cfg.TokenTTL) * time.Second,
	}
}

// Generate creates a signed token for the principal with the fixed
// absolute lifetime. There is no refresh; expiry ends the session.
func (tm *TokenManager) Generate(p Principal) (string, error) {
	now := time.Now()
	claims := Claims{
		PrincipalID:   p.ID,
		PrincipalKind: string(p.Kind),
		Name:          p.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tm.ttl)),
			Subject:   fmt.Sprintf("%s:%d", p.Kind, p.ID),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(tm.secret)
}

// Validate parses a token and returns the principal it asserts.
func (tm *TokenManager) Validate(tokenString string) (Principal, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return tm.secret, nil
	})
	if err != nil || !token.Valid {
		return Principal{}, ErrInvalidToken
	}

	kind := Kind(claims.PrincipalKind)
	if kind != KindStudent && kind != KindAdmin {
		return Principal{}, ErrInvalidToken
	}

	return Principal{Kind: kind, ID: claims.PrincipalID, Name: claims.Name}, nil
}

// TTL exposes the configured token lifetime for cookie expiry.
func (tm *TokenManager) TTL() time.Duration {
	return tm.ttl
}
