// internal/app/system/token/token.go
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const minSecretLen = 32

var (
	// ErrInvalidToken is returned for tokens that fail signature,
	// expiry, or claim validation.
	ErrInvalidToken = errors.New("invalid session token")
)

// Claims are the session token claims. Subject carries the user id;
// Email is the login identity the token was issued for.
type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Manager issues and parses HS256 session tokens. Callers treat the
// token string as opaque.
type Manager struct {
	secret []byte
	ttl    time.Duration
	issuer string
}

// NewManager validates the signing configuration. The secret must be at
// least 32 bytes; the TTL must be positive.
func NewManager(secret string, ttl time.Duration, issuer string) (*Manager, error) {
	if len(secret) < minSecretLen {
		return nil, errors.New("token secret must be at least 32 bytes")
	}
	if ttl <= 0 {
		return nil, errors.New("token TTL must be positive")
	}
	return &Manager{secret: []byte(secret), ttl: ttl, issuer: issuer}, nil
}

// Issue signs a token bound to the user's email and id.
func (m *Manager) Issue(email, userID string) (string, error) {
	now := time.Now()
	claims := Claims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    m.issuer,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}

// Parse validates a token string and returns its claims.
func (m *Manager) Parse(tokenStr string) (*Claims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)
	tok, err := parser.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return m.secret, nil
	})
	if err != nil || !tok.Valid {
		return nil, ErrInvalidToken
	}
	claims, ok := tok.Claims.(*Claims)
	if !ok {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
