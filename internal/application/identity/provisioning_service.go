package identity

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	appsync "github.com/terreiro/backend/internal/application/sync"
	"github.com/terreiro/backend/internal/domain/identity"
	domainsettings "github.com/terreiro/backend/internal/domain/settings"
	"github.com/terreiro/backend/internal/domain/shared"
)

// ProvisioningService handles tenant creation and console-side tenant
// management. Plan management lives here too since plans only exist to be
// assigned to tenants.
type ProvisioningService struct {
	tenantRepo   identity.TenantRepository
	planRepo     identity.PlanRepository
	userRepo     identity.UserRepository
	settingsRepo domainsettings.Repository
	eventBus     shared.EventPublisher
	enqueuer     *appsync.Enqueuer
	logger       *zap.Logger
}

// NewProvisioningService creates a new provisioning service
func NewProvisioningService(
	tenantRepo identity.TenantRepository,
	planRepo identity.PlanRepository,
	userRepo identity.UserRepository,
	settingsRepo domainsettings.Repository,
	eventBus shared.EventPublisher,
	enqueuer *appsync.Enqueuer,
	logger *zap.Logger,
) *ProvisioningService {
	return &ProvisioningService{
		tenantRepo:   tenantRepo,
		planRepo:     planRepo,
		userRepo:     userRepo,
		settingsRepo: settingsRepo,
		eventBus:     eventBus,
		enqueuer:     enqueuer,
		logger:       logger,
	}
}

// SeedDefaults writes the built-in plans on first boot. Existing plans are
// left untouched.
func (s *ProvisioningService) SeedDefaults(ctx context.Context) error {
	existing, err := s.planRepo.FindAll(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}

	for _, plan := range identity.DefaultPlans() {
		if err := s.planRepo.Save(ctx, plan); err != nil {
			return err
		}
	}
	s.logger.Info("seeded default plans")
	return nil
}

// CreateTenant provisions a new tenant: the tenant record, its default
// settings, and the initial admin account.
func (s *ProvisioningService) CreateTenant(ctx context.Context, input CreateTenantInput) (*TenantView, error) {
	exists, err := s.tenantRepo.ExistsByCode(ctx, input.Code)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("CODE_TAKEN", "A tenant with this code already exists")
	}

	plan, err := s.planRepo.FindByName(ctx, input.PlanName)
	if err != nil {
		return nil, shared.NewDomainError("PLAN_NOT_FOUND", "Unknown plan")
	}

	tenant, err := identity.NewTenant(input.Code, input.Name, plan, timeNow())
	if err != nil {
		return nil, err
	}
	if input.ContactName != "" || input.ContactPhone != "" || input.ContactEmail != "" {
		if err := tenant.SetContact(input.ContactName, input.ContactPhone, input.ContactEmail); err != nil {
			return nil, err
		}
	}
	tenant.Notes = input.Notes

	if err := s.tenantRepo.Save(ctx, tenant); err != nil {
		return nil, err
	}

	if err := s.settingsRepo.Save(ctx, tenant.ID, domainsettings.Default()); err != nil {
		s.logger.Error("failed to store default settings",
			zap.String("tenant_id", tenant.ID.String()), zap.Error(err))
	}

	admin, err := identity.NewUser(tenant.ID, input.AdminUsername, input.AdminPassword, identity.UserRoleAdmin)
	if err != nil {
		return nil, err
	}
	if err := s.userRepo.Save(ctx, admin); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, tenant)
	s.enqueueUpsert(ctx, tenant)

	s.logger.Info("tenant provisioned",
		zap.String("tenant_id", tenant.ID.String()),
		zap.String("code", tenant.Code),
		zap.String("plan", tenant.PlanName))

	view := NewTenantView(tenant)
	return &view, nil
}

// GetTenant returns one tenant by ID
func (s *ProvisioningService) GetTenant(ctx context.Context, id uuid.UUID) (*TenantView, error) {
	tenant, err := s.tenantRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	view := NewTenantView(tenant)
	return &view, nil
}

// ListTenants returns a filtered, paginated tenant list
func (s *ProvisioningService) ListTenants(ctx context.Context, filter shared.Filter) (*shared.Paginated[TenantView], error) {
	tenants, err := s.tenantRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.tenantRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	views := make([]TenantView, len(tenants))
	for i := range tenants {
		views[i] = NewTenantView(&tenants[i])
	}
	result := shared.NewPaginated(views, total, filter.Page, filter.PageSize)
	return &result, nil
}

// UpdateTenant edits a tenant's basic and contact fields
func (s *ProvisioningService) UpdateTenant(ctx context.Context, id uuid.UUID, input UpdateTenantInput) (*TenantView, error) {
	tenant, err := s.tenantRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := tenant.Update(input.Name); err != nil {
		return nil, err
	}
	if err := tenant.SetContact(input.ContactName, input.ContactPhone, input.ContactEmail); err != nil {
		return nil, err
	}
	tenant.Notes = input.Notes

	if err := s.tenantRepo.Save(ctx, tenant); err != nil {
		return nil, err
	}
	s.enqueueUpsert(ctx, tenant)

	view := NewTenantView(tenant)
	return &view, nil
}

// ChangePlan moves a tenant to a different plan
func (s *ProvisioningService) ChangePlan(ctx context.Context, id uuid.UUID, planName string) (*TenantView, error) {
	tenant, err := s.tenantRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	plan, err := s.planRepo.FindByName(ctx, planName)
	if err != nil {
		return nil, shared.NewDomainError("PLAN_NOT_FOUND", "Unknown plan")
	}

	if err := tenant.ChangePlan(plan); err != nil {
		return nil, err
	}
	if err := s.tenantRepo.Save(ctx, tenant); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, tenant)
	s.enqueueUpsert(ctx, tenant)

	view := NewTenantView(tenant)
	return &view, nil
}

// SetEnabledModules overrides the plan's module list for one tenant
func (s *ProvisioningService) SetEnabledModules(ctx context.Context, id uuid.UUID, modules []string) (*TenantView, error) {
	tenant, err := s.tenantRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	known := make(map[string]bool)
	for _, m := range identity.AllModules() {
		known[m] = true
	}
	for _, m := range modules {
		if !known[m] {
			return nil, shared.NewDomainError("UNKNOWN_MODULE", "Unknown module: "+m)
		}
	}

	tenant.SetEnabledModules(modules)
	if err := s.tenantRepo.Save(ctx, tenant); err != nil {
		return nil, err
	}
	s.enqueueUpsert(ctx, tenant)

	view := NewTenantView(tenant)
	return &view, nil
}

// Stats summarizes tenant counts by status for the console dashboard
func (s *ProvisioningService) Stats(ctx context.Context) (*TenantStats, error) {
	stats := &TenantStats{}
	var err error

	if stats.Total, err = s.tenantRepo.Count(ctx, shared.Filter{}); err != nil {
		return nil, err
	}
	if stats.Active, err = s.tenantRepo.CountByStatus(ctx, identity.TenantStatusActive); err != nil {
		return nil, err
	}
	if stats.Frozen, err = s.tenantRepo.CountByStatus(ctx, identity.TenantStatusFrozen); err != nil {
		return nil, err
	}
	if stats.Blocked, err = s.tenantRepo.CountByStatus(ctx, identity.TenantStatusBlocked); err != nil {
		return nil, err
	}
	return stats, nil
}

// ListPlans returns every configured plan
func (s *ProvisioningService) ListPlans(ctx context.Context) ([]identity.Plan, error) {
	return s.planRepo.FindAll(ctx)
}

// SavePlan creates or updates a plan
func (s *ProvisioningService) SavePlan(ctx context.Context, input PlanInput) (*identity.Plan, error) {
	existing, err := s.planRepo.FindByName(ctx, input.Name)
	if err == nil {
		if err := existing.Update(input.Price, input.DurationDays, input.MaxMembers, input.Modules); err != nil {
			return nil, err
		}
		if err := s.planRepo.Save(ctx, existing); err != nil {
			return nil, err
		}
		return existing, nil
	}

	plan, err := identity.NewPlan(input.Name, input.Price, input.DurationDays, input.MaxMembers, input.Modules)
	if err != nil {
		return nil, err
	}
	if err := s.planRepo.Save(ctx, plan); err != nil {
		return nil, err
	}
	return plan, nil
}

// DeletePlan removes a plan that no tenant is subscribed to
func (s *ProvisioningService) DeletePlan(ctx context.Context, name string) error {
	filter := shared.Filter{Filters: map[string]interface{}{"plan_name": name}}
	count, err := s.tenantRepo.Count(ctx, filter)
	if err != nil {
		return err
	}
	if count > 0 {
		return shared.NewDomainError("PLAN_IN_USE", "Plan is still assigned to tenants")
	}
	return s.planRepo.Delete(ctx, name)
}

func (s *ProvisioningService) publishEvents(ctx context.Context, tenant *identity.Tenant) {
	events := tenant.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	if err := s.eventBus.Publish(ctx, events...); err != nil {
		s.logger.Error("failed to publish tenant events", zap.Error(err))
	}
	tenant.ClearDomainEvents()
}

func (s *ProvisioningService) enqueueUpsert(ctx context.Context, tenant *identity.Tenant) {
	if err := s.enqueuer.Upsert(ctx, tenant.ID, appsync.CollectionTenants, tenant.ID, NewTenantView(tenant)); err != nil {
		s.logger.Error("failed to queue tenant replication",
			zap.String("tenant_id", tenant.ID.String()), zap.Error(err))
	}
}
