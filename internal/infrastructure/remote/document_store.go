package remote

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Config holds connection settings for the remote document store
type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// DocumentStore is an HTTP client for the hosted document store that mirrors
// tenant data. Records live under /tenants/<tenant>/<collection>/<record>.
type DocumentStore struct {
	client *resty.Client
	logger *zap.Logger
}

// NewDocumentStore creates a client for the remote document store
func NewDocumentStore(cfg Config, logger *zap.Logger) *DocumentStore {
	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("X-Api-Key", cfg.APIKey)

	return &DocumentStore{
		client: client,
		logger: logger,
	}
}

// Upsert writes a record document to the remote store
func (s *DocumentStore) Upsert(ctx context.Context, tenantID uuid.UUID, collection string, recordID uuid.UUID, payload []byte) error {
	resp, err := s.client.R().
		SetContext(ctx).
		SetBody(payload).
		Put(recordPath(tenantID, collection, recordID))
	if err != nil {
		return fmt.Errorf("remote upsert: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("remote upsert: status %d: %s", resp.StatusCode(), resp.String())
	}
	return nil
}

// Delete removes a record document from the remote store. A 404 from the
// remote side counts as success so replays stay idempotent.
func (s *DocumentStore) Delete(ctx context.Context, tenantID uuid.UUID, collection string, recordID uuid.UUID) error {
	resp, err := s.client.R().
		SetContext(ctx).
		Delete(recordPath(tenantID, collection, recordID))
	if err != nil {
		return fmt.Errorf("remote delete: %w", err)
	}
	if resp.IsError() && resp.StatusCode() != 404 {
		return fmt.Errorf("remote delete: status %d: %s", resp.StatusCode(), resp.String())
	}
	return nil
}

// PurgeTenant removes every remote document belonging to a tenant. Called
// during tenant deletion before any local data is dropped.
func (s *DocumentStore) PurgeTenant(ctx context.Context, tenantID uuid.UUID) error {
	resp, err := s.client.R().
		SetContext(ctx).
		Delete(fmt.Sprintf("/tenants/%s", tenantID))
	if err != nil {
		return fmt.Errorf("remote purge: %w", err)
	}
	if resp.IsError() && resp.StatusCode() != 404 {
		return fmt.Errorf("remote purge: status %d: %s", resp.StatusCode(), resp.String())
	}
	s.logger.Info("purged remote tenant data", zap.String("tenant_id", tenantID.String()))
	return nil
}

// Ping checks connectivity to the remote store
func (s *DocumentStore) Ping(ctx context.Context) error {
	resp, err := s.client.R().
		SetContext(ctx).
		Get("/health")
	if err != nil {
		return fmt.Errorf("remote ping: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("remote ping: status %d", resp.StatusCode())
	}
	return nil
}

func recordPath(tenantID uuid.UUID, collection string, recordID uuid.UUID) string {
	return fmt.Sprintf("/tenants/%s/%s/%s", tenantID, collection, recordID)
}
