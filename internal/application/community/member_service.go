package community

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	appsync "github.com/terreiro/backend/internal/application/sync"
	"github.com/terreiro/backend/internal/domain/community"
	"github.com/terreiro/backend/internal/domain/identity"
	"github.com/terreiro/backend/internal/domain/shared"
)

// CreateMemberInput carries the fields for a new roster member
type CreateMemberInput struct {
	Name        string `json:"name" validate:"required,max=200"`
	Email       string `json:"email" validate:"omitempty,email"`
	CPF         string `json:"cpf"`
	Phone       string `json:"phone"`
	IsMedium    bool   `json:"is_medium"`
	IsAssistant bool   `json:"is_assistant"`
}

// UpdateMemberInput carries the editable fields of a member
type UpdateMemberInput struct {
	Name        string `json:"name" validate:"required,max=200"`
	Email       string `json:"email" validate:"omitempty,email"`
	CPF         string `json:"cpf"`
	Phone       string `json:"phone"`
	IsMedium    bool   `json:"is_medium"`
	IsAssistant bool   `json:"is_assistant"`
}

// MemberService manages the tenant's member roster
type MemberService struct {
	memberRepo community.MemberRepository
	tenantRepo identity.TenantRepository
	planRepo   identity.PlanRepository
	enqueuer   *appsync.Enqueuer
	logger     *zap.Logger
}

// NewMemberService creates a new member service
func NewMemberService(
	memberRepo community.MemberRepository,
	tenantRepo identity.TenantRepository,
	planRepo identity.PlanRepository,
	enqueuer *appsync.Enqueuer,
	logger *zap.Logger,
) *MemberService {
	return &MemberService{
		memberRepo: memberRepo,
		tenantRepo: tenantRepo,
		planRepo:   planRepo,
		enqueuer:   enqueuer,
		logger:     logger,
	}
}

// Create adds a member to the roster. The tenant's plan caps how many members
// the roster can hold; the count includes deactivated members so tenants
// cannot cycle seats by deactivating.
func (s *MemberService) Create(ctx context.Context, tenantID uuid.UUID, input CreateMemberInput) (*community.Member, error) {
	if err := s.checkPlanLimit(ctx, tenantID); err != nil {
		return nil, err
	}

	member, err := community.NewMember(tenantID, input.Name, input.Email, input.CPF)
	if err != nil {
		return nil, err
	}
	member.Phone = input.Phone
	member.SetRoles(input.IsMedium, input.IsAssistant)

	if err := s.memberRepo.Save(ctx, member); err != nil {
		return nil, err
	}

	s.logger.Info("member created",
		zap.String("tenant_id", tenantID.String()),
		zap.String("member_id", member.ID.String()))

	s.replicate(ctx, member)
	return member, nil
}

// Get returns a single member
func (s *MemberService) Get(ctx context.Context, tenantID, id uuid.UUID) (*community.Member, error) {
	return s.memberRepo.FindByID(ctx, tenantID, id)
}

// List returns a page of the roster
func (s *MemberService) List(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (*shared.Paginated[community.Member], error) {
	members, err := s.memberRepo.FindAll(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.memberRepo.Count(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	page := shared.NewPaginated(members, total, filter.Page, filter.PageSize)
	return &page, nil
}

// Update edits a member's contact fields and role flags
func (s *MemberService) Update(ctx context.Context, tenantID, id uuid.UUID, input UpdateMemberInput) (*community.Member, error) {
	member, err := s.memberRepo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := member.Update(input.Name, input.Email, input.CPF, input.Phone); err != nil {
		return nil, err
	}
	member.SetRoles(input.IsMedium, input.IsAssistant)

	if err := s.memberRepo.Save(ctx, member); err != nil {
		return nil, err
	}
	s.replicate(ctx, member)
	return member, nil
}

// AwardMedal appends a medal label to the member's record
func (s *MemberService) AwardMedal(ctx context.Context, tenantID, id uuid.UUID, medal string) (*community.Member, error) {
	if medal == "" {
		return nil, shared.NewDomainError("INVALID_MEDAL", "Medal label cannot be empty")
	}
	member, err := s.memberRepo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	member.AwardMedal(medal)

	if err := s.memberRepo.Save(ctx, member); err != nil {
		return nil, err
	}
	s.replicate(ctx, member)
	return member, nil
}

// Deactivate removes the member from the active roster without deleting the
// record. Ledger history stays attached.
func (s *MemberService) Deactivate(ctx context.Context, tenantID, id uuid.UUID) (*community.Member, error) {
	member, err := s.memberRepo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	member.Deactivate()

	if err := s.memberRepo.Save(ctx, member); err != nil {
		return nil, err
	}
	s.replicate(ctx, member)
	return member, nil
}

// Delete removes the member record permanently
func (s *MemberService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	if _, err := s.memberRepo.FindByID(ctx, tenantID, id); err != nil {
		return err
	}
	if err := s.memberRepo.Delete(ctx, tenantID, id); err != nil {
		return err
	}
	if err := s.enqueuer.Delete(ctx, tenantID, appsync.CollectionMembers, id); err != nil {
		s.logger.Error("failed to queue member deletion", zap.Error(err))
	}
	return nil
}

func (s *MemberService) replicate(ctx context.Context, member *community.Member) {
	if err := s.enqueuer.Upsert(ctx, member.TenantID, appsync.CollectionMembers, member.ID, member); err != nil {
		s.logger.Error("failed to queue member replication",
			zap.String("member_id", member.ID.String()),
			zap.Error(err))
	}
}

func (s *MemberService) checkPlanLimit(ctx context.Context, tenantID uuid.UUID) error {
	tenant, err := s.tenantRepo.FindByID(ctx, tenantID)
	if err != nil {
		return err
	}
	plan, err := s.planRepo.FindByName(ctx, tenant.PlanName)
	if err != nil {
		// A tenant on a retired plan keeps working without a cap
		s.logger.Warn("plan not found while checking member limit",
			zap.String("tenant_id", tenantID.String()),
			zap.String("plan_name", tenant.PlanName))
		return nil
	}

	count, err := s.memberRepo.Count(ctx, tenantID, shared.Filter{})
	if err != nil {
		return err
	}
	if count >= int64(plan.MaxMembers) {
		return shared.ErrPlanLimitExceeded
	}
	return nil
}
