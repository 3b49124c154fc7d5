package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/terreiro/backend/internal/infrastructure/config"
)

func testJWTService() *JWTService {
	return NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-at-least-32-characters-long",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 24 * time.Hour,
		Issuer:                 "terreiro-test",
	})
}

func TestJWTService_TenantTokenRoundTrip(t *testing.T) {
	svc := testJWTService()
	tenantID := uuid.New()
	userID := uuid.New()

	pair, err := svc.GenerateTokenPair(GenerateTokenInput{
		TenantID: &tenantID,
		UserID:   userID,
		Username: "maria",
		Role:     "admin",
	})
	require.NoError(t, err)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)
	assert.Equal(t, "Bearer", pair.TokenType)

	claims, err := svc.ValidateAccessToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, tenantID.String(), claims.TenantID)
	assert.Equal(t, userID.String(), claims.UserID)
	assert.Equal(t, "maria", claims.Username)
	assert.Equal(t, "admin", claims.Role)
	assert.False(t, claims.Master)

	parsed, err := claims.TenantUUID()
	require.NoError(t, err)
	require.NotNil(t, parsed)
	assert.Equal(t, tenantID, *parsed)
}

func TestJWTService_MasterTokenHasNoTenant(t *testing.T) {
	svc := testJWTService()
	userID := uuid.New()

	pair, err := svc.GenerateTokenPair(GenerateTokenInput{
		UserID:   userID,
		Username: "root",
		Role:     "master",
		Master:   true,
	})
	require.NoError(t, err)

	claims, err := svc.ValidateAccessToken(pair.AccessToken)
	require.NoError(t, err)
	assert.True(t, claims.Master)
	assert.Empty(t, claims.TenantID)

	parsed, err := claims.TenantUUID()
	require.NoError(t, err)
	assert.Nil(t, parsed)
}

func TestJWTService_RejectsWrongTokenType(t *testing.T) {
	svc := testJWTService()
	tenantID := uuid.New()

	pair, err := svc.GenerateTokenPair(GenerateTokenInput{
		TenantID: &tenantID,
		UserID:   uuid.New(),
		Username: "maria",
		Role:     "staff",
	})
	require.NoError(t, err)

	_, err = svc.ValidateAccessToken(pair.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidTokenType)

	_, err = svc.ValidateRefreshToken(pair.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidTokenType)
}

func TestJWTService_RejectsGarbage(t *testing.T) {
	svc := testJWTService()

	_, err := svc.ValidateAccessToken("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTService_RejectsTokenFromOtherSecret(t *testing.T) {
	svc := testJWTService()
	other := NewJWTService(config.JWTConfig{
		Secret:                 "another-secret-also-32-characters-xx",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 24 * time.Hour,
		Issuer:                 "terreiro-test",
	})

	tenantID := uuid.New()
	pair, err := other.GenerateTokenPair(GenerateTokenInput{
		TenantID: &tenantID,
		UserID:   uuid.New(),
		Username: "maria",
		Role:     "staff",
	})
	require.NoError(t, err)

	_, err = svc.ValidateAccessToken(pair.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestMemoryTokenBlacklist(t *testing.T) {
	ctx := context.Background()
	bl := NewMemoryTokenBlacklist()

	revoked, err := bl.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, bl.Revoke(ctx, "jti-1", time.Minute))

	revoked, err = bl.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	// zero ttl is a no-op
	require.NoError(t, bl.Revoke(ctx, "jti-2", 0))
	revoked, err = bl.IsRevoked(ctx, "jti-2")
	require.NoError(t, err)
	assert.False(t, revoked)
}
