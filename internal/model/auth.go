package model

import "github.com/golang-jwt/jwt/v5"

// ClientClaims are JWT claims for API clients
type ClientClaims struct {
	ClientID string `json:"clientId"`
	jwt.RegisteredClaims
}

// TokenResponse is returned when a client token is issued
type TokenResponse struct {
	Token     string `json:"token"`
	ClientID  string `json:"clientId"`
	ExpiresAt string `json:"expiresAt,omitempty"`
}
