// Package auth provides token authentication for erdgen API clients.
// It implements JWT-based authentication with scope checks.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"evalgo.org/erdgen/internal/config"
)

var (
	// ErrInvalidToken is returned when a JWT token is invalid
	ErrInvalidToken = errors.New("invalid token")
	// ErrExpiredToken is returned when a JWT token has expired
	ErrExpiredToken = errors.New("token has expired")
)

// Issuer is written into every token.
const Issuer = "erdgen"

// Scope is a permission carried by a client token.
type Scope string

const (
	// ScopeRead allows listing layouts and parsing DBML.
	ScopeRead Scope = "read"
	// ScopeGenerate allows diagram generation, including the live editor.
	ScopeGenerate Scope = "generate"
)

// Claims represents JWT custom claims
type Claims struct {
	ClientID string  `json:"client_id"`
	Scopes   []Scope `json:"scopes"`
	jwt.RegisteredClaims
}

// HasScope reports whether the claims grant s.
func (c *Claims) HasScope(s Scope) bool {
	for _, have := range c.Scopes {
		if have == s {
			return true
		}
	}
	return false
}

// JWTService issues and validates client tokens.
type JWTService struct {
	secret     []byte
	expiration time.Duration
}

// NewJWTService creates a new JWT service
func NewJWTService(cfg *config.Config) *JWTService {
	return &JWTService{
		secret:     []byte(cfg.Security.JWTSecret),
		expiration: cfg.Security.JWTExpiration,
	}
}

// GenerateClientToken signs a token for clientID. A zero expiration falls
// back to the configured one.
func (s *JWTService) GenerateClientToken(clientID string, scopes []Scope, expiration time.Duration) (string, error) {
	if len(s.secret) == 0 {
		return "", fmt.Errorf("jwt secret is required")
	}
	if clientID == "" {
		return "", fmt.Errorf("client id is required")
	}
	if expiration <= 0 {
		expiration = s.expiration
	}

	now := time.Now()
	claims := Claims{
		ClientID: clientID,
		Scopes:   scopes,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(now.Add(expiration)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    Issuer,
			Subject:   clientID,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, nil
}

// ValidateToken validates a JWT token and returns the claims
func (s *JWTService) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithIssuer(Issuer))

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// ParseScopes converts scope names, rejecting unknown ones.
func ParseScopes(names []string) ([]Scope, error) {
	scopes := make([]Scope, 0, len(names))
	for _, n := range names {
		switch s := Scope(n); s {
		case ScopeRead, ScopeGenerate:
			scopes = append(scopes, s)
		default:
			return nil, fmt.Errorf("unknown scope %q", n)
		}
	}
	return scopes, nil
}
