// Package auth issues and validates the JWT tokens that protect the write
// endpoints. Auth is optional: with no secret configured the middleware
// passes every request through.
package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AuthError is an authentication failure with a stable code
type AuthError struct {
	Code    string
	Message string
}

func (e *AuthError) Error() string {
	return e.Message
}

// Config holds authentication configuration
type Config struct {
	JWTSecret string
	JWTIssuer string
	TokenTTL  time.Duration
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		JWTIssuer: "buzzwatch",
		TokenTTL:  24 * time.Hour,
	}
}

// Service handles token operations
type Service struct {
	config Config
}

// NewService creates a new auth service
func NewService(cfg Config) *Service {
	return &Service{config: cfg}
}

// IssueToken creates a signed token for the given subject
func (s *Service) IssueToken(subject string) (string, error) {
	now := time.Now()

	claims := jwt.MapClaims{
		"sub": subject,
		"iss": s.config.JWTIssuer,
		"iat": now.Unix(),
		"exp": now.Add(s.config.TokenTTL).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.config.JWTSecret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// ValidateToken validates a JWT and returns its subject
func (s *Service) ValidateToken(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.JWTSecret), nil
	})

	if err != nil {
		return "", &AuthError{Code: "invalid_token", Message: "invalid or expired token"}
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", &AuthError{Code: "invalid_token", Message: "invalid token claims"}
	}

	if iss, _ := claims["iss"].(string); iss != s.config.JWTIssuer {
		return "", &AuthError{Code: "invalid_token", Message: "invalid token issuer"}
	}

	subject, ok := claims["sub"].(string)
	if !ok || subject == "" {
		return "", &AuthError{Code: "invalid_token", Message: "invalid token subject"}
	}

	return subject, nil
}
