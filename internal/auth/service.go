package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/prospect-analyzer/data-validation/internal/config"
)

// Service issues and validates API tokens.
type Service struct {
	secret        []byte
	tokenDuration time.Duration
}

// Claims carries the identity encoded in an API token.
type Claims struct {
	ClientID string   `json:"client_id"`
	Scopes   []string `json:"scopes"`
	jwt.RegisteredClaims
}

// NewService creates an auth service from configuration.
func NewService(cfg config.AuthConfig, secret string) *Service {
	return &Service{
		secret:        []byte(secret),
		tokenDuration: cfg.TokenDuration,
	}
}

// GenerateToken issues a signed token for an API client.
func (s *Service) GenerateToken(clientID string, scopes []string) (string, error) {
	now := time.Now()

	claims := &Claims{
		ClientID: clientID,
		Scopes:   scopes,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenDuration)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    "data-validation",
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

// ValidateToken parses and verifies a token string.
func (s *Service) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	claims, ok := token.Claims.(*Claims)
	if !ok {
		return nil, fmt.Errorf("invalid token claims")
	}
	return claims, nil
}

// HasScope reports whether the claims grant the given scope.
func (s *Service) HasScope(claims *Claims, scope string) bool {
	for _, granted := range claims.Scopes {
		if granted == scope {
			return true
		}
	}
	return false
}

// HashAPIKey hashes a client API key for storage.
func HashAPIKey(key string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(key), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash API key: %w", err)
	}
	return string(hash), nil
}

// VerifyAPIKey checks a client API key against its stored hash.
func VerifyAPIKey(hash, key string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(key)) == nil
}

// API scopes
const (
	ScopeValidate = "validate"
	ScopeReports  = "reports"
	ScopeAdmin    = "admin"
)
