package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prospect-analyzer/data-validation/internal/config"
)

func newTestAuthService() *Service {
	return NewService(config.AuthConfig{TokenDuration: time.Hour}, "test-secret")
}

func TestTokenRoundTrip(t *testing.T) {
	svc := newTestAuthService()

	token, err := svc.GenerateToken("client-1", []string{ScopeValidate, ScopeReports})
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)

	assert.Equal(t, "client-1", claims.ClientID)
	assert.Equal(t, "data-validation", claims.Issuer)
	assert.True(t, svc.HasScope(claims, ScopeValidate))
	assert.True(t, svc.HasScope(claims, ScopeReports))
	assert.False(t, svc.HasScope(claims, ScopeAdmin))
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	issuer := newTestAuthService()
	verifier := NewService(config.AuthConfig{TokenDuration: time.Hour}, "other-secret")

	token, err := issuer.GenerateToken("client-1", nil)
	require.NoError(t, err)

	_, err = verifier.ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	svc := newTestAuthService()

	_, err := svc.ValidateToken("not-a-token")
	assert.Error(t, err)
}

func TestAPIKeyHashing(t *testing.T) {
	hash, err := HashAPIKey("super-secret-key")
	require.NoError(t, err)
	require.NotEqual(t, "super-secret-key", hash)

	assert.True(t, VerifyAPIKey(hash, "super-secret-key"))
	assert.False(t, VerifyAPIKey(hash, "wrong-key"))
}
