// Package settings exposes the per-tenant configuration record.
package settings

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	appsync "github.com/terreiro/backend/internal/application/sync"
	"github.com/terreiro/backend/internal/domain/settings"
	"github.com/terreiro/backend/internal/infrastructure/cache"
)

const (
	cachePrefix = "settings"
	cacheTTL    = 15 * time.Minute
)

// Service reads and writes tenant settings plus the installation-wide
// record. Defaults are applied once when a record is loaded from storage;
// callers always see a fully populated structure and never default at the
// read site.
type Service struct {
	repo     settings.Repository
	global   settings.GlobalRepository
	store    cache.Store
	enqueuer *appsync.Enqueuer
	logger   *zap.Logger
}

// NewService creates a new settings service
func NewService(repo settings.Repository, global settings.GlobalRepository, store cache.Store, enqueuer *appsync.Enqueuer, logger *zap.Logger) *Service {
	return &Service{repo: repo, global: global, store: store, enqueuer: enqueuer, logger: logger}
}

// Get returns the tenant's settings with defaults applied. A tenant without
// a stored record gets the built-in configuration.
func (s *Service) Get(ctx context.Context, tenantID uuid.UUID) (settings.Settings, error) {
	key := cache.Namespaced(cachePrefix, tenantID)

	var cached settings.Settings
	found, err := s.store.Get(ctx, key, &cached)
	if err != nil {
		s.logger.Warn("settings cache read failed", zap.Error(err))
	} else if found {
		return cached, nil
	}

	stored, ok, err := s.repo.Find(ctx, tenantID)
	if err != nil {
		return settings.Settings{}, err
	}
	if !ok {
		stored = settings.Settings{}
	}
	loaded := stored.WithDefaults()

	if err := s.store.Set(ctx, key, loaded, cacheTTL); err != nil {
		s.logger.Warn("settings cache write failed", zap.Error(err))
	}
	return loaded, nil
}

// Save stores the tenant's settings and invalidates the cached copy
func (s *Service) Save(ctx context.Context, tenantID uuid.UUID, cfg settings.Settings) (settings.Settings, error) {
	cfg = cfg.WithDefaults()
	if err := s.repo.Save(ctx, tenantID, cfg); err != nil {
		return settings.Settings{}, err
	}
	if err := s.store.Delete(ctx, cache.Namespaced(cachePrefix, tenantID)); err != nil {
		s.logger.Warn("settings cache invalidation failed", zap.Error(err))
	}
	if err := s.enqueuer.Upsert(ctx, tenantID, appsync.CollectionSettings, tenantID, cfg); err != nil {
		s.logger.Error("failed to queue settings replication", zap.Error(err))
	}
	return cfg, nil
}

// GetGlobal returns the installation-wide record: the license block and the
// system name. These are shared by every tenant and cached under the bare
// prefix, never a tenant-suffixed key.
func (s *Service) GetGlobal(ctx context.Context) (settings.Global, error) {
	key := cache.Namespaced(cachePrefix, uuid.Nil)

	var cached settings.Global
	found, err := s.store.Get(ctx, key, &cached)
	if err != nil {
		s.logger.Warn("global settings cache read failed", zap.Error(err))
	} else if found {
		return cached, nil
	}

	stored, ok, err := s.global.FindGlobal(ctx)
	if err != nil {
		return settings.Global{}, err
	}
	if !ok {
		stored = settings.Global{}
	}
	loaded := stored.WithDefaults()

	if err := s.store.Set(ctx, key, loaded, cacheTTL); err != nil {
		s.logger.Warn("global settings cache write failed", zap.Error(err))
	}
	return loaded, nil
}

// SaveGlobal stores the installation-wide record and invalidates the cached
// copy
func (s *Service) SaveGlobal(ctx context.Context, g settings.Global) (settings.Global, error) {
	g = g.WithDefaults()
	if err := s.global.SaveGlobal(ctx, g); err != nil {
		return settings.Global{}, err
	}
	if err := s.store.Delete(ctx, cache.Namespaced(cachePrefix, uuid.Nil)); err != nil {
		s.logger.Warn("global settings cache invalidation failed", zap.Error(err))
	}
	return g, nil
}
