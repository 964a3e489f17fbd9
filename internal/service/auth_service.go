package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"ventureshield/internal/model"
)

var (
	ErrInvalidToken   = errors.New("invalid or expired token")
	ErrAuthDisabled   = errors.New("client auth is not configured")
	ErrMissingClient  = errors.New("client id is required")
	ErrNegativeExpiry = errors.New("token lifetime must not be negative")
)

// AuthService issues and validates API client tokens
type AuthService struct {
	jwtSecret []byte
}

// NewAuthService creates a new auth service. An empty secret disables auth.
func NewAuthService(secret string) *AuthService {
	return &AuthService{jwtSecret: []byte(secret)}
}

// Enabled reports whether tokens are required
func (s *AuthService) Enabled() bool {
	return len(s.jwtSecret) > 0
}

// IssueClientToken signs a token for clientID. A zero ttl never expires.
func (s *AuthService) IssueClientToken(clientID string, ttl time.Duration) (*model.TokenResponse, error) {
	if !s.Enabled() {
		return nil, ErrAuthDisabled
	}
	if clientID == "" {
		return nil, ErrMissingClient
	}
	if ttl < 0 {
		return nil, ErrNegativeExpiry
	}

	now := time.Now()
	claims := &model.ClientClaims{
		ClientID: clientID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:       uuid.New().String(),
			IssuedAt: jwt.NewNumericDate(now),
		},
	}
	resp := &model.TokenResponse{ClientID: clientID}
	if ttl > 0 {
		exp := now.Add(ttl)
		claims.ExpiresAt = jwt.NewNumericDate(exp)
		resp.ExpiresAt = exp.UTC().Format(time.RFC3339)
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return nil, err
	}
	resp.Token = signed
	return resp, nil
}

// ValidateClientToken validates a client JWT and returns claims
func (s *AuthService) ValidateClientToken(tokenString string) (*model.ClientClaims, error) {
	if !s.Enabled() {
		return nil, ErrAuthDisabled
	}

	token, err := jwt.ParseWithClaims(tokenString, &model.ClientClaims{}, func(token *jwt.Token) (interface{}, error) {
		return s.jwtSecret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*model.ClientClaims)
	if !ok || !token.Valid || claims.ClientID == "" {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
