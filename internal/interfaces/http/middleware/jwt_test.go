package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/terreiro/backend/internal/infrastructure/auth"
	"github.com/terreiro/backend/internal/infrastructure/config"
)

func newJWTService() *auth.JWTService {
	return auth.NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-at-least-32-characters-long",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 24 * time.Hour,
		Issuer:                 "terreiro-test",
	})
}

func newEngine(cfg JWTConfig) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(JWTAuthWithConfig(cfg))
	engine.GET("/protected", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"tenant_id": GetJWTTenantID(c), "master": IsMaster(c)})
	})
	engine.GET("/api/v1/auth/login", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return engine
}

func TestJWTAuth_RejectsMissingToken(t *testing.T) {
	engine := newEngine(DefaultJWTConfig(newJWTService()))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	engine.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTAuth_SkipPathsPassThrough(t *testing.T) {
	engine := newEngine(DefaultJWTConfig(newJWTService()))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/login", nil)
	engine.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestJWTAuth_ValidTokenPopulatesContext(t *testing.T) {
	jwtService := newJWTService()
	engine := newEngine(DefaultJWTConfig(jwtService))

	tenantID := uuid.New()
	pair, err := jwtService.GenerateTokenPair(auth.GenerateTokenInput{
		TenantID: &tenantID,
		UserID:   uuid.New(),
		Username: "admin-casa01",
		Role:     "admin",
	})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set(AuthHeaderKey, BearerPrefix+pair.AccessToken)
	engine.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), tenantID.String())
}

func TestJWTAuth_RejectsRevokedToken(t *testing.T) {
	jwtService := newJWTService()
	blacklist := auth.NewMemoryTokenBlacklist()

	cfg := DefaultJWTConfig(jwtService)
	cfg.TokenBlacklist = blacklist
	engine := newEngine(cfg)

	tenantID := uuid.New()
	pair, err := jwtService.GenerateTokenPair(auth.GenerateTokenInput{
		TenantID: &tenantID,
		UserID:   uuid.New(),
		Username: "admin-casa01",
		Role:     "admin",
	})
	require.NoError(t, err)

	claims, err := jwtService.ValidateAccessToken(pair.AccessToken)
	require.NoError(t, err)
	require.NoError(t, blacklist.Revoke(context.Background(), claims.ID, time.Hour))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set(AuthHeaderKey, BearerPrefix+pair.AccessToken)
	engine.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireMaster(t *testing.T) {
	jwtService := newJWTService()

	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(JWTAuthWithConfig(DefaultJWTConfig(jwtService)))
	engine.GET("/master-only", RequireMaster(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	tenantID := uuid.New()
	tenantPair, err := jwtService.GenerateTokenPair(auth.GenerateTokenInput{
		TenantID: &tenantID,
		UserID:   uuid.New(),
		Username: "admin-casa01",
		Role:     "admin",
	})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/master-only", nil)
	req.Header.Set(AuthHeaderKey, BearerPrefix+tenantPair.AccessToken)
	engine.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	masterPair, err := jwtService.GenerateTokenPair(auth.GenerateTokenInput{
		UserID:   uuid.New(),
		Username: "developer",
		Role:     "master",
		Master:   true,
	})
	require.NoError(t, err)

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/master-only", nil)
	req.Header.Set(AuthHeaderKey, BearerPrefix+masterPair.AccessToken)
	engine.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}
