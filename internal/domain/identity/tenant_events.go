package identity

import (
	"github.com/terreiro/backend/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypeTenant = "Tenant"

// Event type constants
const (
	EventTypeTenantCreated         = "TenantCreated"
	EventTypeTenantStatusChanged   = "TenantStatusChanged"
	EventTypeTenantPlanChanged     = "TenantPlanChanged"
	EventTypeTenantPaymentRecorded = "TenantPaymentRecorded"
	EventTypeTenantDeleted         = "TenantDeleted"
)

// TenantCreatedEvent is published when a new tenant is provisioned
type TenantCreatedEvent struct {
	shared.BaseDomainEvent
	Code string `json:"code"`
	Name string `json:"name"`
	Plan string `json:"plan"`
}

// NewTenantCreatedEvent creates a new TenantCreatedEvent
func NewTenantCreatedEvent(tenant *Tenant) *TenantCreatedEvent {
	return &TenantCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeTenantCreated, AggregateTypeTenant, tenant.ID, tenant.ID),
		Code:            tenant.Code,
		Name:            tenant.Name,
		Plan:            tenant.PlanName,
	}
}

// TenantStatusChangedEvent is published on every status transition,
// manual or automatic
type TenantStatusChangedEvent struct {
	shared.BaseDomainEvent
	Code      string       `json:"code"`
	Name      string       `json:"name"`
	OldStatus TenantStatus `json:"old_status"`
	NewStatus TenantStatus `json:"new_status"`
}

// NewTenantStatusChangedEvent creates a new TenantStatusChangedEvent
func NewTenantStatusChangedEvent(tenant *Tenant, oldStatus, newStatus TenantStatus) *TenantStatusChangedEvent {
	return &TenantStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeTenantStatusChanged, AggregateTypeTenant, tenant.ID, tenant.ID),
		Code:            tenant.Code,
		Name:            tenant.Name,
		OldStatus:       oldStatus,
		NewStatus:       newStatus,
	}
}

// TenantPlanChangedEvent is published when a tenant moves between plans
type TenantPlanChangedEvent struct {
	shared.BaseDomainEvent
	Code    string `json:"code"`
	OldPlan string `json:"old_plan"`
	NewPlan string `json:"new_plan"`
}

// NewTenantPlanChangedEvent creates a new TenantPlanChangedEvent
func NewTenantPlanChangedEvent(tenant *Tenant, oldPlan, newPlan string) *TenantPlanChangedEvent {
	return &TenantPlanChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeTenantPlanChanged, AggregateTypeTenant, tenant.ID, tenant.ID),
		Code:            tenant.Code,
		OldPlan:         oldPlan,
		NewPlan:         newPlan,
	}
}

// TenantPaymentRecordedEvent is published when a month's payment status is set
type TenantPaymentRecordedEvent struct {
	shared.BaseDomainEvent
	Code     string        `json:"code"`
	MonthRef string        `json:"month_ref"`
	Payment  PaymentStatus `json:"payment"`
}

// NewTenantPaymentRecordedEvent creates a new TenantPaymentRecordedEvent
func NewTenantPaymentRecordedEvent(tenant *Tenant, monthRef string, status PaymentStatus) *TenantPaymentRecordedEvent {
	return &TenantPaymentRecordedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeTenantPaymentRecorded, AggregateTypeTenant, tenant.ID, tenant.ID),
		Code:            tenant.Code,
		MonthRef:        monthRef,
		Payment:         status,
	}
}

// TenantDeletedEvent is published after a password-confirmed purge
type TenantDeletedEvent struct {
	shared.BaseDomainEvent
	Code string `json:"code"`
	Name string `json:"name"`
}

// NewTenantDeletedEvent creates a new TenantDeletedEvent
func NewTenantDeletedEvent(tenant *Tenant) *TenantDeletedEvent {
	return &TenantDeletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeTenantDeleted, AggregateTypeTenant, tenant.ID, tenant.ID),
		Code:            tenant.Code,
		Name:            tenant.Name,
	}
}
