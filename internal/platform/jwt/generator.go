// Package jwtmw issues and verifies the HS256 tokens used by the auth feature
// and provides the gin middleware that guards protected routes.
package jwtmw

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// EnvKeyJWTSecret names the environment variable holding the signing secret.
const EnvKeyJWTSecret = "JWT_SECRET"

// ErrInvalidToken is returned for tokens that are malformed, expired, badly signed
// or missing a required claim.
var ErrInvalidToken = errors.New("invalid token")

// Claims is the verified content of a token.
type Claims struct {
	UserID    uint
	Email     string
	Role      string
	ExpiresAt time.Time
}

// Generator signs and verifies tokens with a shared secret.
type Generator struct {
	secret     []byte
	expiration time.Duration
	now        func() time.Time
}

// NewGenerator creates a Generator whose tokens expire after expiration.
func NewGenerator(secret string, expiration time.Duration) *Generator {
	return &Generator{
		secret:     []byte(secret),
		expiration: expiration,
		now:        time.Now,
	}
}

// GenerateToken creates a signed token carrying the user's id, email and role.
// It also returns the expiry so callers can report it.
func (g *Generator) GenerateToken(userID uint, email, role string) (string, time.Time, error) {
	now := g.now()
	expiresAt := now.Add(g.expiration)
	claims := jwt.MapClaims{
		"sub":   userID,
		"email": email,
		"role":  role,
		"exp":   expiresAt.Unix(),
		"iat":   now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(g.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, expiresAt.UTC().Truncate(time.Second), nil
}

// ParseToken verifies tokenStr and extracts its claims.
// Only HMAC-signed tokens are accepted.
func (g *Generator) ParseToken(tokenStr string) (*Claims, error) {
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return g.secret, nil
	}, jwt.WithExpirationRequired(), jwt.WithTimeFunc(g.now))
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	mc, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}
	sub, ok := mc["sub"].(float64) // JSON numbers decode as float64
	if !ok || sub <= 0 {
		return nil, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}
	exp, err := mc.GetExpirationTime()
	if err != nil || exp == nil {
		return nil, fmt.Errorf("%w: missing expiry", ErrInvalidToken)
	}

	email, _ := mc["email"].(string)
	role, _ := mc["role"].(string)
	return &Claims{
		UserID:    uint(sub),
		Email:     email,
		Role:      role,
		ExpiresAt: exp.Time,
	}, nil
}

// VerifyToken checks tokenStr and returns its subject.
func (g *Generator) VerifyToken(tokenStr string) (uint, error) {
	claims, err := g.ParseToken(tokenStr)
	if err != nil {
		return 0, err
	}
	return claims.UserID, nil
}
