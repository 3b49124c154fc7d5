package identity

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	auditapp "github.com/terreiro/backend/internal/application/audit"
	appsync "github.com/terreiro/backend/internal/application/sync"
	"github.com/terreiro/backend/internal/domain/audit"
	"github.com/terreiro/backend/internal/domain/identity"
	"github.com/terreiro/backend/internal/domain/shared"
	"github.com/terreiro/backend/internal/infrastructure/event"
	"github.com/terreiro/backend/internal/infrastructure/persistence"
)

// Walks one tenant through the whole billing cycle: provisioning, a paid
// month, then the overdue sweep once the grace period has run out.
func TestSubscriptionLifecycle_OverdueTenantIsSweptAndAudited(t *testing.T) {
	ctx := context.Background()
	database, err := persistence.NewTestDatabase()
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })

	tenantRepo := persistence.NewGormTenantRepository(database.DB)
	planRepo := persistence.NewGormPlanRepository(database.DB)
	userRepo := persistence.NewGormUserRepository(database.DB)
	settingsRepo := persistence.NewGormSettingsRepository(database.DB)
	transactionRepo := persistence.NewGormTransactionRepository(database.DB)
	outboxRepo := persistence.NewGormOutboxRepository(database.DB)
	auditRepo := persistence.NewGormAuditRepository(database.DB)
	enqueuer := appsync.NewEnqueuer(outboxRepo, false, zap.NewNop())

	bus := event.NewInMemoryEventBus(zap.NewNop())
	require.NoError(t, bus.Start(ctx))
	t.Cleanup(func() { _ = bus.Stop(context.Background()) })
	bus.Subscribe(auditapp.NewRecorder(auditRepo, zap.NewNop()))

	provisioning := NewProvisioningService(tenantRepo, planRepo, userRepo, settingsRepo, bus, enqueuer, zap.NewNop())
	require.NoError(t, provisioning.SeedDefaults(ctx))
	payments := NewPaymentService(tenantRepo, planRepo, transactionRepo, bus, enqueuer, zap.NewNop())
	sweep := NewAutoblockService(tenantRepo, bus, enqueuer, 5, zap.NewNop())

	// Provisioned on Jan 1st with a 30-day plan: coverage through Jan 31st
	pinClock(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	view, err := provisioning.CreateTenant(ctx, CreateTenantInput{
		Code:          "CASA01",
		Name:          "Casa da Mata",
		PlanName:      "Básico",
		AdminUsername: "admin-casa01",
		AdminPassword: "segredo-forte",
	})
	require.NoError(t, err)
	require.NotNil(t, view.ExpiresAt)
	assert.Equal(t, time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC), view.ExpiresAt.UTC())

	// January is paid; it was already covered, so the expiration stays put
	view, err = payments.RecordPayment(ctx, RecordPaymentInput{
		TenantID: view.ID,
		MonthRef: "2024-01",
		Status:   identity.PaymentStatusPaid,
	})
	require.NoError(t, err)
	assert.Equal(t, map[string]identity.PaymentStatus{"2024-01": identity.PaymentStatusPaid}, view.Payments)
	assert.Equal(t, time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC), view.ExpiresAt.UTC())

	// Feb 10th is past Jan 31st plus the 5 grace days
	pinClock(t, time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC))
	blocked, err := sweep.Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, blocked)

	stored, err := tenantRepo.FindByID(ctx, view.ID)
	require.NoError(t, err)
	assert.Equal(t, identity.TenantStatusBlocked, stored.Status)

	// Exactly one financial warning was appended for the block
	page, err := auditapp.NewQueryService(auditRepo).List(ctx, shared.DefaultFilter())
	require.NoError(t, err)
	warnings := 0
	for _, entry := range page.Items {
		if entry.Category == audit.CategoryFinancial && entry.Severity == audit.SeverityWarning {
			warnings++
		}
	}
	assert.Equal(t, 1, warnings)
}
