package identity

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	appsync "github.com/terreiro/backend/internal/application/sync"
	"github.com/terreiro/backend/internal/domain/finance"
	"github.com/terreiro/backend/internal/domain/identity"
	"github.com/terreiro/backend/internal/domain/shared"
)

// PaymentService maintains each tenant's month-by-month payment map
type PaymentService struct {
	tenantRepo      identity.TenantRepository
	planRepo        identity.PlanRepository
	transactionRepo finance.TransactionRepository
	eventBus        shared.EventPublisher
	enqueuer        *appsync.Enqueuer
	logger          *zap.Logger
}

// NewPaymentService creates a new payment service
func NewPaymentService(
	tenantRepo identity.TenantRepository,
	planRepo identity.PlanRepository,
	transactionRepo finance.TransactionRepository,
	eventBus shared.EventPublisher,
	enqueuer *appsync.Enqueuer,
	logger *zap.Logger,
) *PaymentService {
	return &PaymentService{
		tenantRepo:      tenantRepo,
		planRepo:        planRepo,
		transactionRepo: transactionRepo,
		eventBus:        eventBus,
		enqueuer:        enqueuer,
		logger:          logger,
	}
}

// RecordPayment marks one month in the tenant's payment map. A paid month
// extends the tenant's expiration by the plan's duration and appends one
// mensalidade row for the plan price to the tenant's ledger.
func (s *PaymentService) RecordPayment(ctx context.Context, input RecordPaymentInput) (*TenantView, error) {
	tenant, err := s.tenantRepo.FindByID(ctx, input.TenantID)
	if err != nil {
		return nil, err
	}

	durationDays := 30
	price := tenant.MonthlyValue
	if plan, err := s.planRepo.FindByName(ctx, tenant.PlanName); err == nil {
		durationDays = plan.DurationDays
		price = plan.Price
	} else {
		s.logger.Warn("plan not found for payment, using 30-day duration",
			zap.String("tenant_id", tenant.ID.String()),
			zap.String("plan", tenant.PlanName))
	}

	if err := tenant.RecordPayment(input.MonthRef, input.Status, durationDays); err != nil {
		return nil, err
	}
	if err := s.tenantRepo.Save(ctx, tenant); err != nil {
		return nil, err
	}

	if input.Status == identity.PaymentStatusPaid {
		if err := s.appendLedgerRow(ctx, tenant, input.MonthRef, price); err != nil {
			return nil, err
		}
	}

	events := tenant.GetDomainEvents()
	if len(events) > 0 {
		if err := s.eventBus.Publish(ctx, events...); err != nil {
			s.logger.Error("failed to publish payment events", zap.Error(err))
		}
		tenant.ClearDomainEvents()
	}

	if err := s.enqueuer.Upsert(ctx, tenant.ID, appsync.CollectionTenants, tenant.ID, NewTenantView(tenant)); err != nil {
		s.logger.Error("failed to queue tenant replication", zap.Error(err))
	}

	s.logger.Info("payment recorded",
		zap.String("tenant_id", tenant.ID.String()),
		zap.String("month_ref", input.MonthRef),
		zap.String("status", string(input.Status)))

	view := NewTenantView(tenant)
	return &view, nil
}

// appendLedgerRow writes the mensalidade row that mirrors a paid month in
// the tenant's own ledger
func (s *PaymentService) appendLedgerRow(ctx context.Context, tenant *identity.Tenant, monthRef string, price decimal.Decimal) error {
	row, err := finance.NewTransaction(tenant.ID, finance.TypeMensalidade, price,
		time.Now(), finance.StatusPaid, "Mensalidade "+monthRef)
	if err != nil {
		return err
	}
	if err := row.SetMonthReference(monthRef); err != nil {
		return err
	}
	if err := s.transactionRepo.Save(ctx, row); err != nil {
		return err
	}
	if err := s.enqueuer.Upsert(ctx, tenant.ID, appsync.CollectionLedger, row.ID, row); err != nil {
		s.logger.Error("failed to queue mensalidade replication", zap.Error(err))
	}
	return nil
}
