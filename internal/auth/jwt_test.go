// AngelaMos | 2026
// jwt_test.go

package auth

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/slidecraft/internal/config"
	"github.com/carterperez-dev/slidecraft/internal/core"
)

func newTestJWTManager(t *testing.T, accessExpire time.Duration) *JWTManager {
	t.Helper()

	dir := t.TempDir()
	privatePath := filepath.Join(dir, "jwt_private.pem")
	publicPath := filepath.Join(dir, "jwt_public.pem")
	require.NoError(t, GenerateKeyPair(privatePath, publicPath))

	manager, err := NewJWTManager(config.JWTConfig{
		PrivateKeyPath:     privatePath,
		PublicKeyPath:      publicPath,
		AccessTokenExpire:  accessExpire,
		RefreshTokenExpire: 7 * 24 * time.Hour,
		Issuer:             "slidecraft-test",
		Audience:           "slidecraft-api",
	})
	require.NoError(t, err)

	return manager
}

func TestAccessTokenRoundTrip(t *testing.T) {
	manager := newTestJWTManager(t, 15*time.Minute)

	signed, err := manager.CreateAccessToken(AccessTokenClaims{
		AccountID:    "acct-1",
		Role:         "user",
		Plan:         "premium",
		TokenVersion: 3,
	})
	require.NoError(t, err)
	require.NotEmpty(t, signed)

	claims, err := manager.VerifyAccessToken(context.Background(), signed)
	require.NoError(t, err)

	assert.Equal(t, "acct-1", claims.AccountID)
	assert.Equal(t, "user", claims.Role)
	assert.Equal(t, "premium", claims.Plan)
	assert.Equal(t, 3, claims.TokenVersion)
}

func TestAccessTokenExpired(t *testing.T) {
	manager := newTestJWTManager(t, -1*time.Minute)

	signed, err := manager.CreateAccessToken(AccessTokenClaims{
		AccountID: "acct-1",
		Role:      "user",
		Plan:      "free",
	})
	require.NoError(t, err)

	_, err = manager.VerifyAccessToken(context.Background(), signed)
	assert.ErrorIs(t, err, core.ErrTokenExpired)
}

func TestAccessTokenRejectsGarbage(t *testing.T) {
	manager := newTestJWTManager(t, 15*time.Minute)

	_, err := manager.VerifyAccessToken(
		context.Background(),
		"not.a.token",
	)
	assert.ErrorIs(t, err, core.ErrTokenInvalid)
}

func TestAccessTokenRejectsForeignKey(t *testing.T) {
	issuing := newTestJWTManager(t, 15*time.Minute)
	verifying := newTestJWTManager(t, 15*time.Minute)

	signed, err := issuing.CreateAccessToken(AccessTokenClaims{
		AccountID: "acct-1",
		Role:      "user",
		Plan:      "free",
	})
	require.NoError(t, err)

	_, err = verifying.VerifyAccessToken(context.Background(), signed)
	assert.ErrorIs(t, err, core.ErrTokenInvalid)
}

func TestRefreshTokenGeneratesFamily(t *testing.T) {
	manager := newTestJWTManager(t, 15*time.Minute)

	first, err := manager.CreateRefreshToken("acct-1", "")
	require.NoError(t, err)
	assert.NotEmpty(t, first.Token)
	assert.NotEmpty(t, first.FamilyID)
	assert.True(t, first.ExpiresAt.After(time.Now()))

	rotated, err := manager.CreateRefreshToken("acct-1", first.FamilyID)
	require.NoError(t, err)
	assert.Equal(t, first.FamilyID, rotated.FamilyID)
	assert.NotEqual(t, first.Token, rotated.Token)
}

func TestVerifyRefreshTokenHash(t *testing.T) {
	manager := newTestJWTManager(t, 15*time.Minute)

	data, err := manager.CreateRefreshToken("acct-1", "")
	require.NoError(t, err)

	assert.True(t, manager.VerifyRefreshTokenHash(data.Token, data.Hash))
	assert.False(t, manager.VerifyRefreshTokenHash("wrong", data.Hash))
}

func TestKeyIDExposedInJWKS(t *testing.T) {
	manager := newTestJWTManager(t, 15*time.Minute)

	assert.NotEmpty(t, manager.GetKeyID())
	assert.NotNil(t, manager.GetPublicKey())
}
