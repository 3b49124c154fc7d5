// Package audit records tenant lifecycle activity into the append-only
// audit log and serves console queries over it.
package audit

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/terreiro/backend/internal/domain/audit"
	"github.com/terreiro/backend/internal/domain/identity"
	"github.com/terreiro/backend/internal/domain/shared"
)

// Recorder subscribes to tenant events and appends one audit entry per
// occurrence. Category and severity follow the transition type: payment and
// blocking activity is financial, deletion is a critical security entry, the
// rest is routine client management.
type Recorder struct {
	repo   audit.Repository
	logger *zap.Logger
}

// NewRecorder creates the audit recorder
func NewRecorder(repo audit.Repository, logger *zap.Logger) *Recorder {
	return &Recorder{repo: repo, logger: logger}
}

// EventTypes lists the tenant events the recorder subscribes to
func (r *Recorder) EventTypes() []string {
	return []string{
		identity.EventTypeTenantCreated,
		identity.EventTypeTenantStatusChanged,
		identity.EventTypeTenantPlanChanged,
		identity.EventTypeTenantPaymentRecorded,
		identity.EventTypeTenantDeleted,
	}
}

// Handle appends the audit entry for one tenant event
func (r *Recorder) Handle(ctx context.Context, event shared.DomainEvent) error {
	entry, err := r.entryFor(event)
	if err != nil {
		return err
	}
	if entry == nil {
		return nil
	}
	if err := r.repo.Append(ctx, entry); err != nil {
		return fmt.Errorf("failed to append audit entry: %w", err)
	}
	return nil
}

func (r *Recorder) entryFor(event shared.DomainEvent) (*audit.Entry, error) {
	tenantID := event.AggregateID()

	switch e := event.(type) {
	case *identity.TenantCreatedEvent:
		return audit.NewEntry(&tenantID, e.Name, "Cliente criado",
			audit.CategoryClientManagement, audit.SeverityInfo,
			fmt.Sprintf("Código %s, plano %s", e.Code, e.Plan), "")

	case *identity.TenantStatusChangedEvent:
		category, severity := transitionClass(e.OldStatus, e.NewStatus)
		return audit.NewEntry(&tenantID, e.Name,
			fmt.Sprintf("Status alterado: %s → %s", e.OldStatus, e.NewStatus),
			category, severity,
			fmt.Sprintf("Cliente %s", e.Code), "")

	case *identity.TenantPlanChangedEvent:
		return audit.NewEntry(&tenantID, e.Code, "Plano alterado",
			audit.CategoryClientManagement, audit.SeverityInfo,
			fmt.Sprintf("%s → %s", e.OldPlan, e.NewPlan), "")

	case *identity.TenantPaymentRecordedEvent:
		return audit.NewEntry(&tenantID, e.Code, "Pagamento registrado",
			audit.CategoryFinancial, audit.SeverityInfo,
			fmt.Sprintf("Referência %s: %s", e.MonthRef, e.Payment), "")

	case *identity.TenantDeletedEvent:
		return audit.NewEntry(&tenantID, e.Name, "Cliente excluído",
			audit.CategorySecurity, audit.SeverityCritical,
			fmt.Sprintf("Código %s, dados locais e remotos removidos", e.Code), "")
	}

	r.logger.Debug("ignoring unexpected event type", zap.String("event_type", event.EventType()))
	return nil, nil
}

// transitionClass maps a status transition to its audit classification.
// Blocking is billing enforcement, so both directions are financial;
// blocking itself is a warning.
func transitionClass(from, to identity.TenantStatus) (audit.Category, audit.Severity) {
	switch {
	case to == identity.TenantStatusBlocked:
		return audit.CategoryFinancial, audit.SeverityWarning
	case from == identity.TenantStatusBlocked:
		return audit.CategoryFinancial, audit.SeverityInfo
	}
	return audit.CategoryClientManagement, audit.SeverityInfo
}
