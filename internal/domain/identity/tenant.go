package identity

import (
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/terreiro/backend/internal/domain/shared"
)

// TenantStatus represents the status of a tenant
type TenantStatus string

const (
	TenantStatusActive  TenantStatus = "active"
	TenantStatusFrozen  TenantStatus = "frozen"  // Temporarily paused by an operator
	TenantStatusBlocked TenantStatus = "blocked" // Blocked manually or by the overdue sweep
)

// PaymentStatus represents the billing status of one month
type PaymentStatus string

const (
	PaymentStatusPaid    PaymentStatus = "paid"
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusLate    PaymentStatus = "late"
)

// PaymentMap is a sparse map of "YYYY-MM" month references to payment status
type PaymentMap map[string]PaymentStatus

var monthRefPattern = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])$`)

// ValidMonthRef reports whether s is a well-formed "YYYY-MM" month reference
func ValidMonthRef(s string) bool {
	return monthRefPattern.MatchString(s)
}

// Tenant represents one customer organization. It is the aggregate root for
// tenant provisioning, billing status and lifecycle transitions.
type Tenant struct {
	shared.BaseAggregateRoot
	Code           string          `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name           string          `gorm:"type:varchar(200);not null"`
	PlanName       string          `gorm:"type:varchar(50);not null"`
	MonthlyValue   decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Status         TenantStatus    `gorm:"type:varchar(20);not null;default:'active'"`
	ExpiresAt      *time.Time      `gorm:"index"`
	Payments       PaymentMap      `gorm:"-"`
	EnabledModules []string        `gorm:"-"` // Overrides the plan's module list when non-empty
	ContactName    string          `gorm:"type:varchar(100)"`
	ContactPhone   string          `gorm:"type:varchar(50)"`
	ContactEmail   string          `gorm:"type:varchar(200)"`
	Notes          string          `gorm:"type:text"`
}

// NewTenant creates a new active tenant subscribed to the given plan.
// Expiration is set durationDays after the start date.
func NewTenant(code, name string, plan *Plan, start time.Time) (*Tenant, error) {
	if err := validateTenantCode(code); err != nil {
		return nil, err
	}
	if err := validateTenantName(name); err != nil {
		return nil, err
	}
	if plan == nil {
		return nil, shared.NewDomainError("INVALID_PLAN", "Plan is required")
	}

	expires := start.AddDate(0, 0, plan.DurationDays)
	tenant := &Tenant{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Code:              strings.ToUpper(code),
		Name:              name,
		PlanName:          plan.Name,
		MonthlyValue:      plan.Price,
		Status:            TenantStatusActive,
		ExpiresAt:         &expires,
		Payments:          make(PaymentMap),
	}

	tenant.AddDomainEvent(NewTenantCreatedEvent(tenant))

	return tenant, nil
}

// Update updates the tenant's basic information
func (t *Tenant) Update(name string) error {
	if err := validateTenantName(name); err != nil {
		return err
	}
	t.Name = name
	t.touch()
	return nil
}

// SetContact sets the tenant's contact information
func (t *Tenant) SetContact(contactName, phone, email string) error {
	if contactName != "" && len(contactName) > 100 {
		return shared.NewDomainError("INVALID_CONTACT_NAME", "Contact name cannot exceed 100 characters")
	}
	if phone != "" && len(phone) > 50 {
		return shared.NewDomainError("INVALID_PHONE", "Phone cannot exceed 50 characters")
	}
	if email != "" && len(email) > 200 {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot exceed 200 characters")
	}

	t.ContactName = contactName
	t.ContactPhone = phone
	t.ContactEmail = email
	t.touch()
	return nil
}

// ChangePlan moves the tenant to a different plan. The module override is
// cleared so the new plan's modules apply.
func (t *Tenant) ChangePlan(plan *Plan) error {
	if plan == nil {
		return shared.NewDomainError("INVALID_PLAN", "Plan is required")
	}

	oldPlan := t.PlanName
	t.PlanName = plan.Name
	t.MonthlyValue = plan.Price
	t.EnabledModules = nil
	t.touch()

	t.AddDomainEvent(NewTenantPlanChangedEvent(t, oldPlan, plan.Name))
	return nil
}

// SetEnabledModules overrides the plan's module list for this tenant
func (t *Tenant) SetEnabledModules(modules []string) {
	t.EnabledModules = modules
	t.touch()
}

// RecordPayment registers the payment status for a month reference and, when
// paid, extends the subscription to durationDays past the start of the paid
// month if that lands later than the current expiration.
func (t *Tenant) RecordPayment(monthRef string, status PaymentStatus, durationDays int) error {
	if !ValidMonthRef(monthRef) {
		return shared.NewDomainError("INVALID_MONTH_REF", "Month reference must be in YYYY-MM format")
	}
	switch status {
	case PaymentStatusPaid, PaymentStatusPending, PaymentStatusLate:
	default:
		return shared.NewDomainError("INVALID_PAYMENT_STATUS", "Invalid payment status")
	}
	if current, ok := t.Payments[monthRef]; ok && current == status {
		return shared.NewDomainError("ALREADY_PAID", "Month is already recorded with this status")
	}

	if t.Payments == nil {
		t.Payments = make(PaymentMap)
	}
	t.Payments[monthRef] = status

	if status == PaymentStatusPaid && durationDays > 0 {
		// A paid month buys durationDays of coverage counted from that
		// month's start. Paying a month the subscription already covers
		// leaves the expiration where it is.
		if refStart, err := time.Parse("2006-01", monthRef); err == nil {
			expires := refStart.AddDate(0, 0, durationDays)
			if t.ExpiresAt == nil || expires.After(*t.ExpiresAt) {
				t.ExpiresAt = &expires
			}
		}
	}

	t.touch()
	t.AddDomainEvent(NewTenantPaymentRecordedEvent(t, monthRef, status))
	return nil
}

// SetExpiration sets the subscription expiration date directly
func (t *Tenant) SetExpiration(expiresAt time.Time) {
	t.ExpiresAt = &expiresAt
	t.touch()
}

// Freeze pauses an active tenant
func (t *Tenant) Freeze() error {
	if t.Status == TenantStatusFrozen {
		return shared.NewDomainError("ALREADY_FROZEN", "Tenant is already frozen")
	}
	if t.Status == TenantStatusBlocked {
		return shared.NewDomainError("INVALID_STATE", "Blocked tenant cannot be frozen")
	}
	return t.transition(TenantStatusFrozen)
}

// Unfreeze reactivates a frozen tenant
func (t *Tenant) Unfreeze() error {
	if t.Status != TenantStatusFrozen {
		return shared.NewDomainError("NOT_FROZEN", "Tenant is not frozen")
	}
	return t.transition(TenantStatusActive)
}

// Block blocks the tenant, manually or via the overdue sweep
func (t *Tenant) Block() error {
	if t.Status == TenantStatusBlocked {
		return shared.NewDomainError("ALREADY_BLOCKED", "Tenant is already blocked")
	}
	return t.transition(TenantStatusBlocked)
}

// Unblock reactivates a blocked tenant
func (t *Tenant) Unblock() error {
	if t.Status != TenantStatusBlocked {
		return shared.NewDomainError("NOT_BLOCKED", "Tenant is not blocked")
	}
	return t.transition(TenantStatusActive)
}

func (t *Tenant) transition(to TenantStatus) error {
	oldStatus := t.Status
	t.Status = to
	t.touch()
	t.AddDomainEvent(NewTenantStatusChangedEvent(t, oldStatus, to))
	return nil
}

func (t *Tenant) touch() {
	t.UpdatedAt = time.Now()
	t.IncrementVersion()
}

// IsActive returns true if the tenant is active
func (t *Tenant) IsActive() bool {
	return t.Status == TenantStatusActive
}

// BlockDeadline returns the instant at which an active tenant becomes
// eligible for the automatic block sweep: expiration plus the grace period.
// The second return is false when no expiration is set.
func (t *Tenant) BlockDeadline(graceDays int) (time.Time, bool) {
	if t.ExpiresAt == nil {
		return time.Time{}, false
	}
	return t.ExpiresAt.AddDate(0, 0, graceDays), true
}

// IsOverdue reports whether now has reached the block deadline
func (t *Tenant) IsOverdue(now time.Time, graceDays int) bool {
	deadline, ok := t.BlockDeadline(graceDays)
	if !ok {
		return false
	}
	return !now.Before(deadline)
}

func validateTenantCode(code string) error {
	if code == "" {
		return shared.NewDomainError("INVALID_CODE", "Tenant code cannot be empty")
	}
	if len(code) > 50 {
		return shared.NewDomainError("INVALID_CODE", "Tenant code cannot exceed 50 characters")
	}
	for _, r := range code {
		if !((r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' || r == '-') {
			return shared.NewDomainError("INVALID_CODE", "Tenant code can only contain letters, numbers, underscores, and hyphens")
		}
	}
	return nil
}

func validateTenantName(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Tenant name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Tenant name cannot exceed 200 characters")
	}
	return nil
}
