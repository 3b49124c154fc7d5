package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	communityapp "github.com/terreiro/backend/internal/application/community"
	appsync "github.com/terreiro/backend/internal/application/sync"
	"github.com/terreiro/backend/internal/domain/identity"
	"github.com/terreiro/backend/internal/infrastructure/persistence"
	"github.com/terreiro/backend/internal/interfaces/http/dto"
	"github.com/terreiro/backend/internal/interfaces/http/middleware"
)

func setupMemberAPI(t *testing.T) (*gin.Engine, uuid.UUID) {
	t.Helper()
	database, err := persistence.NewTestDatabase()
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })

	ctx := context.Background()
	planRepo := persistence.NewGormPlanRepository(database.DB)
	tenantRepo := persistence.NewGormTenantRepository(database.DB)
	memberRepo := persistence.NewGormMemberRepository(database.DB)
	outboxRepo := persistence.NewGormOutboxRepository(database.DB)

	plan := identity.DefaultPlans()[0]
	require.NoError(t, planRepo.Save(ctx, plan))
	tenant, err := identity.NewTenant("CASA01", "Casa de Teste", plan, time.Now())
	require.NoError(t, err)
	tenant.ClearDomainEvents()
	require.NoError(t, tenantRepo.Save(ctx, tenant))

	enqueuer := appsync.NewEnqueuer(outboxRepo, false, zap.NewNop())
	service := communityapp.NewMemberService(memberRepo, tenantRepo, planRepo, enqueuer, zap.NewNop())

	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(func(c *gin.Context) {
		c.Set(middleware.JWTTenantIDKey, tenant.ID.String())
	})
	api := engine.Group("/api/v1")
	NewMemberHandler(service).RegisterRoutes(api)

	return engine, tenant.ID
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) dto.Response {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestMemberAPI_CreateAndList(t *testing.T) {
	engine, _ := setupMemberAPI(t)

	body := `{"name":"Maria da Silva","email":"maria@example.com","is_medium":true}`
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/members", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	engine.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	resp := decodeResponse(t, rec)
	assert.True(t, resp.Success)

	rec = httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/members", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	resp = decodeResponse(t, rec)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, int64(1), resp.Meta.Total)
}

func TestMemberAPI_ValidationFailure(t *testing.T) {
	engine, _ := setupMemberAPI(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/members", strings.NewReader(`{"email":"not-an-email"}`))
	req.Header.Set("Content-Type", "application/json")
	engine.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)
}

func TestMemberAPI_InvalidCPFMapsToBadRequest(t *testing.T) {
	engine, _ := setupMemberAPI(t)

	body := `{"name":"Maria da Silva","cpf":"111.111.111-11"}`
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/members", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	engine.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "INVALID_CPF", resp.Error.Code)
}

func TestMemberAPI_GetUnknownIsNotFound(t *testing.T) {
	engine, _ := setupMemberAPI(t)

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/members/"+uuid.NewString(), nil))

	require.Equal(t, http.StatusNotFound, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "NOT_FOUND", resp.Error.Code)
}
