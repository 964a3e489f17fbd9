package service

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ventureshield/internal/model"
)

func TestAuthService_IssueAndValidate(t *testing.T) {
	svc := NewAuthService("s3cret")

	resp, err := svc.IssueClientToken("acme-fund", time.Hour)
	require.NoError(t, err)
	assert.Equal(t, "acme-fund", resp.ClientID)
	assert.NotEmpty(t, resp.ExpiresAt)

	claims, err := svc.ValidateClientToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, "acme-fund", claims.ClientID)
	assert.NotEmpty(t, claims.ID)
}

func TestAuthService_NonExpiringToken(t *testing.T) {
	svc := NewAuthService("s3cret")

	resp, err := svc.IssueClientToken("acme-fund", 0)
	require.NoError(t, err)
	assert.Empty(t, resp.ExpiresAt)

	_, err = svc.ValidateClientToken(resp.Token)
	assert.NoError(t, err)
}

func TestAuthService_RejectsBadTokens(t *testing.T) {
	svc := NewAuthService("s3cret")

	other, err := NewAuthService("different").IssueClientToken("acme-fund", time.Hour)
	require.NoError(t, err)

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, &model.ClientClaims{
		ClientID: "acme-fund",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	})
	expiredToken, err := expired.SignedString([]byte("s3cret"))
	require.NoError(t, err)

	anonymous := jwt.NewWithClaims(jwt.SigningMethodHS256, &model.ClientClaims{})
	anonymousToken, err := anonymous.SignedString([]byte("s3cret"))
	require.NoError(t, err)

	for name, token := range map[string]string{
		"garbage":        "not-a-jwt",
		"wrong secret":   other.Token,
		"expired":        expiredToken,
		"missing client": anonymousToken,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := svc.ValidateClientToken(token)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestAuthService_Disabled(t *testing.T) {
	svc := NewAuthService("")

	assert.False(t, svc.Enabled())
	_, err := svc.IssueClientToken("acme-fund", time.Hour)
	assert.ErrorIs(t, err, ErrAuthDisabled)
	_, err = svc.ValidateClientToken("anything")
	assert.ErrorIs(t, err, ErrAuthDisabled)
}

func TestAuthService_IssueArguments(t *testing.T) {
	svc := NewAuthService("s3cret")

	_, err := svc.IssueClientToken("", time.Hour)
	assert.ErrorIs(t, err, ErrMissingClient)
	_, err = svc.IssueClientToken("acme-fund", -time.Second)
	assert.ErrorIs(t, err, ErrNegativeExpiry)
}
