package audit

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"

	"github.com/google/uuid"

	"github.com/terreiro/backend/internal/domain/audit"
	"github.com/terreiro/backend/internal/domain/shared"
)

// csvHeader matches the export format the operator console always produced
var csvHeader = []string{"Data", "Hora", "Ação", "Categoria", "Severidade", "Autor", "Cliente", "Detalhes"}

// QueryService serves console reads over the audit log
type QueryService struct {
	repo audit.Repository
}

// NewQueryService creates a new audit query service
func NewQueryService(repo audit.Repository) *QueryService {
	return &QueryService{repo: repo}
}

// List returns a page of the audit log, newest first
func (s *QueryService) List(ctx context.Context, filter shared.Filter) (*shared.Paginated[audit.Entry], error) {
	entries, total, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	page := shared.NewPaginated(entries, total, filter.Page, filter.PageSize)
	return &page, nil
}

// ListForTenant returns one tenant's audit trail
func (s *QueryService) ListForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (*shared.Paginated[audit.Entry], error) {
	entries, total, err := s.repo.FindByTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	page := shared.NewPaginated(entries, total, filter.Page, filter.PageSize)
	return &page, nil
}

// ExportCSV renders the entries matching the filter as a CSV document
func (s *QueryService) ExportCSV(ctx context.Context, filter shared.Filter) ([]byte, error) {
	filter.PageSize = 0 // export is never paginated
	entries, _, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(csvHeader); err != nil {
		return nil, err
	}
	for _, entry := range entries {
		at := entry.OccurredAt()
		record := []string{
			at.Format("02/01/2006"),
			at.Format("15:04:05"),
			entry.Action,
			string(entry.Category),
			string(entry.Severity),
			entry.Actor,
			entry.TenantName,
			entry.Detail,
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to render audit export: %w", err)
	}
	return buf.Bytes(), nil
}
