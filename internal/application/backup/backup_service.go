// Package backup produces and serves point-in-time JSON exports of a
// tenant's data.
package backup

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/terreiro/backend/internal/domain/agenda"
	"github.com/terreiro/backend/internal/domain/community"
	"github.com/terreiro/backend/internal/domain/finance"
	"github.com/terreiro/backend/internal/domain/identity"
	"github.com/terreiro/backend/internal/domain/inventory"
	domainsettings "github.com/terreiro/backend/internal/domain/settings"
	"github.com/terreiro/backend/internal/domain/shared"
	"github.com/terreiro/backend/internal/infrastructure/storage"
)

// Snapshot is one complete tenant export. The layout is versioned so a
// future restore path can tell formats apart.
type Snapshot struct {
	FormatVersion int                     `json:"format_version"`
	TenantID      uuid.UUID               `json:"tenant_id"`
	TenantCode    string                  `json:"tenant_code"`
	TakenAt       time.Time               `json:"taken_at"`
	Settings      domainsettings.Settings `json:"settings"`
	Members       []community.Member      `json:"members"`
	Transactions  []finance.Transaction   `json:"transactions"`
	Items         []inventory.Item        `json:"items"`
	Events        []agenda.Event          `json:"events"`
	Courses       []agenda.Course         `json:"courses"`
}

// BackupInfo describes one stored backup object
type BackupInfo struct {
	Key       string    `json:"key"`
	Size      int64     `json:"size"`
	CreatedAt time.Time `json:"created_at"`
}

// Service writes tenant snapshots to object storage and lists or serves
// them back
type Service struct {
	tenantRepo      identity.TenantRepository
	memberRepo      community.MemberRepository
	transactionRepo finance.TransactionRepository
	itemRepo        inventory.ItemRepository
	eventRepo       agenda.EventRepository
	courseRepo      agenda.CourseRepository
	settingsRepo    domainsettings.Repository
	objects         storage.ObjectStorage
	logger          *zap.Logger
}

// Deps bundles the repositories a snapshot reads from
type Deps struct {
	TenantRepo      identity.TenantRepository
	MemberRepo      community.MemberRepository
	TransactionRepo finance.TransactionRepository
	ItemRepo        inventory.ItemRepository
	EventRepo       agenda.EventRepository
	CourseRepo      agenda.CourseRepository
	SettingsRepo    domainsettings.Repository
	Objects         storage.ObjectStorage
	Logger          *zap.Logger
}

// NewService creates a new backup service
func NewService(deps Deps) *Service {
	return &Service{
		tenantRepo:      deps.TenantRepo,
		memberRepo:      deps.MemberRepo,
		transactionRepo: deps.TransactionRepo,
		itemRepo:        deps.ItemRepo,
		eventRepo:       deps.EventRepo,
		courseRepo:      deps.CourseRepo,
		settingsRepo:    deps.SettingsRepo,
		objects:         deps.Objects,
		logger:          deps.Logger,
	}
}

// Take snapshots every collection of a tenant and stores the JSON document.
// Returns the storage key of the new backup.
func (s *Service) Take(ctx context.Context, tenantID uuid.UUID) (string, error) {
	tenant, err := s.tenantRepo.FindByID(ctx, tenantID)
	if err != nil {
		return "", err
	}

	snapshot := Snapshot{
		FormatVersion: 1,
		TenantID:      tenant.ID,
		TenantCode:    tenant.Code,
		TakenAt:       time.Now().UTC(),
	}

	all := shared.Filter{}
	if snapshot.Members, err = s.memberRepo.FindAll(ctx, tenantID, all); err != nil {
		return "", fmt.Errorf("failed to collect members: %w", err)
	}
	if snapshot.Transactions, err = s.transactionRepo.FindAll(ctx, tenantID, all); err != nil {
		return "", fmt.Errorf("failed to collect ledger: %w", err)
	}
	if snapshot.Items, err = s.itemRepo.FindAll(ctx, tenantID, all); err != nil {
		return "", fmt.Errorf("failed to collect inventory: %w", err)
	}
	if snapshot.Events, err = s.eventRepo.FindAll(ctx, tenantID, all); err != nil {
		return "", fmt.Errorf("failed to collect events: %w", err)
	}
	if snapshot.Courses, err = s.courseRepo.FindAll(ctx, tenantID, all); err != nil {
		return "", fmt.Errorf("failed to collect courses: %w", err)
	}

	stored, _, err := s.settingsRepo.Find(ctx, tenantID)
	if err != nil {
		return "", fmt.Errorf("failed to collect settings: %w", err)
	}
	snapshot.Settings = stored.WithDefaults()

	payload, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return "", err
	}

	key := storage.BackupKey(tenant.Code, tenant.ID, snapshot.TakenAt)
	if err := s.objects.Put(ctx, key, payload, "application/json"); err != nil {
		return "", fmt.Errorf("failed to store backup: %w", err)
	}

	s.logger.Info("tenant backup stored",
		zap.String("tenant_id", tenantID.String()),
		zap.String("key", key),
		zap.Int("bytes", len(payload)))
	return key, nil
}

// List returns a tenant's stored backups, newest first
func (s *Service) List(ctx context.Context, tenantID uuid.UUID) ([]BackupInfo, error) {
	objects, err := s.objects.List(ctx, storage.TenantPrefix(tenantID))
	if err != nil {
		return nil, err
	}
	infos := make([]BackupInfo, len(objects))
	for i, obj := range objects {
		infos[i] = BackupInfo{Key: obj.Key, Size: obj.Size, CreatedAt: obj.LastModified}
	}
	return infos, nil
}

// Download returns the raw JSON document of one stored backup. Keys outside
// the tenant's own prefix are refused.
func (s *Service) Download(ctx context.Context, tenantID uuid.UUID, key string) ([]byte, error) {
	if !storage.KeyBelongsTo(key, tenantID) {
		return nil, shared.ErrNotFound
	}
	data, err := s.objects.Get(ctx, key)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return data, nil
}
