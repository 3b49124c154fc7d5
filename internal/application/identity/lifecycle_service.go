package identity

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	appsync "github.com/terreiro/backend/internal/application/sync"
	"github.com/terreiro/backend/internal/domain/agenda"
	"github.com/terreiro/backend/internal/domain/community"
	"github.com/terreiro/backend/internal/domain/finance"
	"github.com/terreiro/backend/internal/domain/identity"
	domainsettings "github.com/terreiro/backend/internal/domain/settings"
	"github.com/terreiro/backend/internal/domain/shared"
	"github.com/terreiro/backend/internal/domain/support"
)

// RemotePurger removes all remote documents of a tenant
type RemotePurger interface {
	PurgeTenant(ctx context.Context, tenantID uuid.UUID) error
}

// DataMigrationPurger clears a tenant's data-migration ledger
type DataMigrationPurger interface {
	DeleteForTenant(ctx context.Context, tenantID uuid.UUID) error
}

// LifecycleService drives tenant status transitions and deletion from the
// master console
type LifecycleService struct {
	tenantRepo      identity.TenantRepository
	userRepo        identity.UserRepository
	memberRepo      community.MemberRepository
	transactionRepo finance.TransactionRepository
	itemRepo        itemDeleter
	eventRepo       agenda.EventRepository
	courseRepo      agenda.CourseRepository
	ticketRepo      support.TicketRepository
	settingsRepo    domainsettings.Repository
	migrationLedger DataMigrationPurger
	remote          RemotePurger
	eventBus        shared.EventPublisher
	enqueuer        *appsync.Enqueuer
	logger          *zap.Logger
}

type itemDeleter interface {
	DeleteAllForTenant(ctx context.Context, tenantID uuid.UUID) error
}

// LifecycleDeps bundles the constructor arguments for LifecycleService
type LifecycleDeps struct {
	TenantRepo      identity.TenantRepository
	UserRepo        identity.UserRepository
	MemberRepo      community.MemberRepository
	TransactionRepo finance.TransactionRepository
	ItemRepo        itemDeleter
	EventRepo       agenda.EventRepository
	CourseRepo      agenda.CourseRepository
	TicketRepo      support.TicketRepository
	SettingsRepo    domainsettings.Repository
	MigrationLedger DataMigrationPurger
	Remote          RemotePurger
	EventBus        shared.EventPublisher
	Enqueuer        *appsync.Enqueuer
	Logger          *zap.Logger
}

// NewLifecycleService creates a new lifecycle service
func NewLifecycleService(deps LifecycleDeps) *LifecycleService {
	return &LifecycleService{
		tenantRepo:      deps.TenantRepo,
		userRepo:        deps.UserRepo,
		memberRepo:      deps.MemberRepo,
		transactionRepo: deps.TransactionRepo,
		itemRepo:        deps.ItemRepo,
		eventRepo:       deps.EventRepo,
		courseRepo:      deps.CourseRepo,
		ticketRepo:      deps.TicketRepo,
		settingsRepo:    deps.SettingsRepo,
		migrationLedger: deps.MigrationLedger,
		remote:          deps.Remote,
		eventBus:        deps.EventBus,
		enqueuer:        deps.Enqueuer,
		logger:          deps.Logger,
	}
}

// Freeze pauses a tenant
func (s *LifecycleService) Freeze(ctx context.Context, input TransitionInput) (*TenantView, error) {
	return s.transition(ctx, input, (*identity.Tenant).Freeze)
}

// Unfreeze reactivates a frozen tenant
func (s *LifecycleService) Unfreeze(ctx context.Context, input TransitionInput) (*TenantView, error) {
	return s.transition(ctx, input, (*identity.Tenant).Unfreeze)
}

// Block blocks a tenant for non-payment or abuse
func (s *LifecycleService) Block(ctx context.Context, input TransitionInput) (*TenantView, error) {
	return s.transition(ctx, input, (*identity.Tenant).Block)
}

// Unblock reactivates a blocked tenant
func (s *LifecycleService) Unblock(ctx context.Context, input TransitionInput) (*TenantView, error) {
	return s.transition(ctx, input, (*identity.Tenant).Unblock)
}

// transition re-confirms the operator's password, then moves the tenant's
// status. The automatic sweep goes through the domain directly and is not
// gated here.
func (s *LifecycleService) transition(ctx context.Context, input TransitionInput, op func(*identity.Tenant) error) (*TenantView, error) {
	if _, err := s.verifyOperator(ctx, input.MasterUserID, input.MasterPassword); err != nil {
		return nil, err
	}

	tenant, err := s.tenantRepo.FindByID(ctx, input.TenantID)
	if err != nil {
		return nil, err
	}

	if err := op(tenant); err != nil {
		return nil, err
	}
	if err := s.tenantRepo.Save(ctx, tenant); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, tenant)
	if err := s.enqueuer.Upsert(ctx, tenant.ID, appsync.CollectionTenants, tenant.ID, NewTenantView(tenant)); err != nil {
		s.logger.Error("failed to queue tenant replication", zap.Error(err))
	}

	s.logger.Info("tenant status changed",
		zap.String("tenant_id", tenant.ID.String()),
		zap.String("status", string(tenant.Status)))

	view := NewTenantView(tenant)
	return &view, nil
}

// Delete removes a tenant and all of its data, remote first. The operator's
// password is re-confirmed; the remote purge must succeed before anything
// local is dropped, so a half-deleted tenant can always be retried.
func (s *LifecycleService) Delete(ctx context.Context, input DeleteTenantInput) error {
	operator, err := s.verifyOperator(ctx, input.MasterUserID, input.MasterPassword)
	if err != nil {
		return err
	}

	tenant, err := s.tenantRepo.FindByID(ctx, input.TenantID)
	if err != nil {
		return err
	}

	if s.enqueuer.Enabled() && s.remote != nil {
		if err := s.remote.PurgeTenant(ctx, tenant.ID); err != nil {
			s.logger.Error("remote purge failed, aborting deletion",
				zap.String("tenant_id", tenant.ID.String()), zap.Error(err))
			return shared.NewDomainError("REMOTE_PURGE_FAILED", "Could not remove remote data; tenant was not deleted")
		}
	}
	if err := s.enqueuer.DropTenantQueue(ctx, tenant.ID); err != nil {
		return err
	}

	purges := []func(context.Context, uuid.UUID) error{
		s.memberRepo.DeleteAllForTenant,
		s.transactionRepo.DeleteAllForTenant,
		s.itemRepo.DeleteAllForTenant,
		s.eventRepo.DeleteAllForTenant,
		s.courseRepo.DeleteAllForTenant,
		s.ticketRepo.DeleteAllForTenant,
		s.settingsRepo.DeleteForTenant,
		s.migrationLedger.DeleteForTenant,
		s.userRepo.DeleteAllForTenant,
	}
	for _, purge := range purges {
		if err := purge(ctx, tenant.ID); err != nil {
			return err
		}
	}

	if err := s.tenantRepo.Delete(ctx, tenant.ID); err != nil {
		return err
	}

	if err := s.eventBus.Publish(ctx, identity.NewTenantDeletedEvent(tenant)); err != nil {
		s.logger.Error("failed to publish tenant deleted event", zap.Error(err))
	}

	s.logger.Info("tenant deleted",
		zap.String("tenant_id", tenant.ID.String()),
		zap.String("code", tenant.Code),
		zap.String("operator", operator.Username))
	return nil
}

// verifyOperator re-confirms that the request comes from a master user who
// re-typed their own password
func (s *LifecycleService) verifyOperator(ctx context.Context, userID uuid.UUID, password string) (*identity.User, error) {
	operator, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, shared.NewDomainError("USER_NOT_FOUND", "Operator not found")
	}
	if !operator.IsMaster() {
		return nil, shared.ErrForbidden
	}
	if !operator.CheckPassword(password) {
		return nil, shared.ErrPasswordMismatch
	}
	return operator, nil
}

func (s *LifecycleService) publishEvents(ctx context.Context, tenant *identity.Tenant) {
	events := tenant.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	if err := s.eventBus.Publish(ctx, events...); err != nil {
		s.logger.Error("failed to publish tenant events", zap.Error(err))
	}
	tenant.ClearDomainEvents()
}
