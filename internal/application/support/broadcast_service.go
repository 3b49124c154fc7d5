package support

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/terreiro/backend/internal/domain/shared"
	"github.com/terreiro/backend/internal/domain/support"
)

// BroadcastInput carries a master announcement. An empty target list
// reaches every tenant.
type BroadcastInput struct {
	Title     string      `json:"title" validate:"required,max=200"`
	Body      string      `json:"body" validate:"required"`
	Author    string      `json:"author" validate:"required,max=100"`
	TargetIDs []uuid.UUID `json:"target_ids"`
}

// BroadcastView is a broadcast as seen by one tenant
type BroadcastView struct {
	*support.Broadcast
	Read bool `json:"read"`
}

// BroadcastService manages master announcements
type BroadcastService struct {
	broadcastRepo support.BroadcastRepository
	logger        *zap.Logger
}

// NewBroadcastService creates a new broadcast service
func NewBroadcastService(broadcastRepo support.BroadcastRepository, logger *zap.Logger) *BroadcastService {
	return &BroadcastService{broadcastRepo: broadcastRepo, logger: logger}
}

// Create publishes a new announcement
func (s *BroadcastService) Create(ctx context.Context, input BroadcastInput) (*support.Broadcast, error) {
	broadcast, err := support.NewBroadcast(input.Title, input.Body, input.Author, input.TargetIDs)
	if err != nil {
		return nil, err
	}
	if err := s.broadcastRepo.Save(ctx, broadcast); err != nil {
		return nil, err
	}

	s.logger.Info("broadcast published",
		zap.String("broadcast_id", broadcast.ID.String()),
		zap.Int("targets", len(input.TargetIDs)))
	return broadcast, nil
}

// ListAll returns every announcement for the master console
func (s *BroadcastService) ListAll(ctx context.Context, filter shared.Filter) ([]support.Broadcast, error) {
	return s.broadcastRepo.FindAll(ctx, filter)
}

// ListForTenant returns the announcements targeting a tenant, flagged with
// that tenant's read state
func (s *BroadcastService) ListForTenant(ctx context.Context, tenantID uuid.UUID) ([]BroadcastView, error) {
	broadcasts, err := s.broadcastRepo.FindForTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	views := make([]BroadcastView, 0, len(broadcasts))
	for i := range broadcasts {
		b := broadcasts[i]
		read := false
		for _, id := range b.ReadBy {
			if id == tenantID {
				read = true
				break
			}
		}
		views = append(views, BroadcastView{Broadcast: &b, Read: read})
	}
	return views, nil
}

// MarkRead records that a tenant has seen an announcement
func (s *BroadcastService) MarkRead(ctx context.Context, tenantID, id uuid.UUID) error {
	broadcast, err := s.broadcastRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !broadcast.Targets(tenantID) {
		return shared.ErrNotFound
	}
	broadcast.MarkRead(tenantID)
	return s.broadcastRepo.Save(ctx, broadcast)
}

// Delete removes an announcement
func (s *BroadcastService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.broadcastRepo.Delete(ctx, id)
}
