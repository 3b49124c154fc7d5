package identity

import (
	"context"

	"go.uber.org/zap"

	appsync "github.com/terreiro/backend/internal/application/sync"
	"github.com/terreiro/backend/internal/domain/identity"
	"github.com/terreiro/backend/internal/domain/shared"
)

// SweepJobName identifies the overdue sweep for manual triggers
const SweepJobName = "tenant-overdue-sweep"

// AutoblockService blocks active tenants whose subscription is past its
// grace period. It runs as a scheduler job and can be triggered manually
// from the console.
type AutoblockService struct {
	tenantRepo identity.TenantRepository
	eventBus   shared.EventPublisher
	enqueuer   *appsync.Enqueuer
	graceDays  int
	logger     *zap.Logger
}

// NewAutoblockService creates a new autoblock sweep
func NewAutoblockService(
	tenantRepo identity.TenantRepository,
	eventBus shared.EventPublisher,
	enqueuer *appsync.Enqueuer,
	graceDays int,
	logger *zap.Logger,
) *AutoblockService {
	return &AutoblockService{
		tenantRepo: tenantRepo,
		eventBus:   eventBus,
		enqueuer:   enqueuer,
		graceDays:  graceDays,
		logger:     logger,
	}
}

// Name implements scheduler.Job
func (s *AutoblockService) Name() string {
	return SweepJobName
}

// Run implements scheduler.Job
func (s *AutoblockService) Run(ctx context.Context) error {
	_, err := s.Sweep(ctx)
	return err
}

// Sweep blocks every active tenant past its grace period and returns how
// many were blocked. One tenant failing does not stop the rest.
func (s *AutoblockService) Sweep(ctx context.Context) (int, error) {
	tenants, err := s.tenantRepo.FindActive(ctx)
	if err != nil {
		return 0, err
	}

	now := timeNow()
	blocked := 0
	for i := range tenants {
		tenant := &tenants[i]
		if !tenant.IsOverdue(now, s.graceDays) {
			continue
		}

		if err := tenant.Block(); err != nil {
			s.logger.Error("failed to block overdue tenant",
				zap.String("tenant_id", tenant.ID.String()), zap.Error(err))
			continue
		}
		if err := s.tenantRepo.Save(ctx, tenant); err != nil {
			s.logger.Error("failed to persist overdue block",
				zap.String("tenant_id", tenant.ID.String()), zap.Error(err))
			continue
		}

		events := tenant.GetDomainEvents()
		if len(events) > 0 {
			if err := s.eventBus.Publish(ctx, events...); err != nil {
				s.logger.Error("failed to publish block events", zap.Error(err))
			}
			tenant.ClearDomainEvents()
		}
		if err := s.enqueuer.Upsert(ctx, tenant.ID, appsync.CollectionTenants, tenant.ID, NewTenantView(tenant)); err != nil {
			s.logger.Error("failed to queue tenant replication", zap.Error(err))
		}

		blocked++
		s.logger.Warn("tenant blocked for non-payment",
			zap.String("tenant_id", tenant.ID.String()),
			zap.String("code", tenant.Code))
	}

	if blocked > 0 {
		s.logger.Info("overdue sweep finished",
			zap.Int("checked", len(tenants)),
			zap.Int("blocked", blocked))
	}
	return blocked, nil
}
