package audit

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/terreiro/backend/internal/domain/audit"
	"github.com/terreiro/backend/internal/domain/identity"
	"github.com/terreiro/backend/internal/domain/shared"
	"github.com/terreiro/backend/internal/infrastructure/persistence"
)

type auditFixture struct {
	recorder *Recorder
	queries  *QueryService
	repo     audit.Repository
	tenant   *identity.Tenant
}

func setupAudit(t *testing.T) *auditFixture {
	t.Helper()
	database, err := persistence.NewTestDatabase()
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })

	repo := persistence.NewGormAuditRepository(database.DB)
	plan := identity.DefaultPlans()[0]
	tenant, err := identity.NewTenant("CASA01", "Casa de Teste", plan, time.Now())
	require.NoError(t, err)
	tenant.ClearDomainEvents()

	return &auditFixture{
		recorder: NewRecorder(repo, zap.NewNop()),
		queries:  NewQueryService(repo),
		repo:     repo,
		tenant:   tenant,
	}
}

func TestRecorder_OneEntryPerTransition(t *testing.T) {
	ctx := context.Background()
	f := setupAudit(t)

	events := []shared.DomainEvent{
		identity.NewTenantCreatedEvent(f.tenant),
		identity.NewTenantStatusChangedEvent(f.tenant, identity.TenantStatusActive, identity.TenantStatusFrozen),
		identity.NewTenantStatusChangedEvent(f.tenant, identity.TenantStatusFrozen, identity.TenantStatusActive),
	}
	for _, event := range events {
		require.NoError(t, f.recorder.Handle(ctx, event))
	}

	page, err := f.queries.List(ctx, shared.DefaultFilter())
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.Total)
}

func TestRecorder_AutoBlockIsFinancialWarning(t *testing.T) {
	ctx := context.Background()
	f := setupAudit(t)

	event := identity.NewTenantStatusChangedEvent(f.tenant,
		identity.TenantStatusActive, identity.TenantStatusBlocked)
	require.NoError(t, f.recorder.Handle(ctx, event))

	page, err := f.queries.List(ctx, shared.DefaultFilter())
	require.NoError(t, err)
	require.Equal(t, int64(1), page.Total)
	entry := page.Items[0]
	assert.Equal(t, audit.CategoryFinancial, entry.Category)
	assert.Equal(t, audit.SeverityWarning, entry.Severity)
	require.NotNil(t, entry.TenantID)
	assert.Equal(t, f.tenant.ID, *entry.TenantID)
}

func TestRecorder_DeletionIsSecurityCritical(t *testing.T) {
	ctx := context.Background()
	f := setupAudit(t)

	require.NoError(t, f.recorder.Handle(ctx, identity.NewTenantDeletedEvent(f.tenant)))

	page, err := f.queries.List(ctx, shared.DefaultFilter())
	require.NoError(t, err)
	require.Equal(t, int64(1), page.Total)
	assert.Equal(t, audit.CategorySecurity, page.Items[0].Category)
	assert.Equal(t, audit.SeverityCritical, page.Items[0].Severity)
}

func TestQueryService_ExportCSV(t *testing.T) {
	ctx := context.Background()
	f := setupAudit(t)

	require.NoError(t, f.recorder.Handle(ctx, identity.NewTenantCreatedEvent(f.tenant)))

	out, err := f.queries.ExportCSV(ctx, shared.Filter{})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "Data,Hora,Ação,Categoria,Severidade,Autor,Cliente,Detalhes", lines[0])
	assert.Contains(t, lines[1], "Cliente criado")
	assert.Contains(t, lines[1], "Casa de Teste")
}
