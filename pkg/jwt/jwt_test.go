package jwt

import (
	"testing"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidate(t *testing.T) {
	service := NewService("test-secret-key")

	for _, role := range []string{"verified", "unverified"} {
		t.Run(role, func(t *testing.T) {
			token, err := service.GenerateToken("8f14e45f-ceea-567a-9a36-3b6e4c6a1f2d", role)
			require.NoError(t, err)

			claims, err := service.ValidateToken(token)
			require.NoError(t, err)
			assert.Equal(t, "8f14e45f-ceea-567a-9a36-3b6e4c6a1f2d", claims.UserID)
			assert.Equal(t, "8f14e45f-ceea-567a-9a36-3b6e4c6a1f2d", claims.Subject)
			assert.Equal(t, role, claims.Role)
		})
	}
}

func TestTokenLifetime(t *testing.T) {
	service := NewService("test-secret-key")

	token, err := service.GenerateToken("user-1", "verified")
	require.NoError(t, err)
	claims, err := service.ValidateToken(token)
	require.NoError(t, err)

	require.NotNil(t, claims.ExpiresAt)
	require.NotNil(t, claims.IssuedAt)
	assert.Equal(t, tokenTTL, claims.ExpiresAt.Sub(claims.IssuedAt.Time))
	assert.True(t, time.Now().Before(claims.ExpiresAt.Time))
}

func TestValidateToken_Rejects(t *testing.T) {
	service := NewService("test-secret-key")

	foreign, err := NewService("another-secret").GenerateToken("user-1", "verified")
	require.NoError(t, err)

	unsigned, err := gojwt.NewWithClaims(gojwt.SigningMethodNone, &Claims{UserID: "user-1"}).
		SignedString(gojwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"garbage", "invalid-token"},
		{"other secret", foreign},
		{"alg none", unsigned},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.ValidateToken(tt.token)
			assert.Error(t, err)
		})
	}
}
