package identity

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/terreiro/backend/internal/domain/shared"
)

// Module name constants for plan composition and per-tenant overrides
const (
	ModuleMembers   = "members"
	ModuleFinance   = "finance"
	ModuleInventory = "inventory"
	ModuleCanteen   = "canteen"
	ModuleAgenda    = "agenda"
	ModuleCourses   = "courses"
	ModuleBackup    = "backup"
)

// AllModules returns every module a plan can enable
func AllModules() []string {
	return []string{
		ModuleMembers,
		ModuleFinance,
		ModuleInventory,
		ModuleCanteen,
		ModuleAgenda,
		ModuleCourses,
		ModuleBackup,
	}
}

// Plan represents a subscription plan offered to tenants
type Plan struct {
	shared.BaseAggregateRoot
	Name         string          `gorm:"type:varchar(50);not null;uniqueIndex"`
	Price        decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	DurationDays int             `gorm:"not null"`
	Modules      []string        `gorm:"-"`
	MaxMembers   int             `gorm:"not null"`
	Active       bool            `gorm:"not null;default:true"`
}

// NewPlan creates a new subscription plan
func NewPlan(name string, price decimal.Decimal, durationDays, maxMembers int, modules []string) (*Plan, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Plan name cannot be empty")
	}
	if price.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Plan price cannot be negative")
	}
	if durationDays <= 0 {
		return nil, shared.NewDomainError("INVALID_DURATION", "Plan duration must be positive")
	}
	if maxMembers <= 0 {
		return nil, shared.NewDomainError("INVALID_MAX_MEMBERS", "Member limit must be positive")
	}

	return &Plan{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Price:             price,
		DurationDays:      durationDays,
		Modules:           modules,
		MaxMembers:        maxMembers,
		Active:            true,
	}, nil
}

// Update changes the plan's price, duration and limits
func (p *Plan) Update(price decimal.Decimal, durationDays, maxMembers int, modules []string) error {
	if price.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Plan price cannot be negative")
	}
	if durationDays <= 0 {
		return shared.NewDomainError("INVALID_DURATION", "Plan duration must be positive")
	}
	if maxMembers <= 0 {
		return shared.NewDomainError("INVALID_MAX_MEMBERS", "Member limit must be positive")
	}

	p.Price = price
	p.DurationDays = durationDays
	p.MaxMembers = maxMembers
	p.Modules = modules
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
	return nil
}

// Deactivate retires the plan from new subscriptions
func (p *Plan) Deactivate() {
	p.Active = false
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}

// DefaultPlans returns the built-in plans seeded on first run
func DefaultPlans() []*Plan {
	basic, _ := NewPlan("Básico", decimal.NewFromInt(50), 30, 50,
		[]string{ModuleMembers, ModuleFinance})
	complete, _ := NewPlan("Completo", decimal.NewFromInt(90), 30, 150,
		[]string{ModuleMembers, ModuleFinance, ModuleInventory, ModuleAgenda, ModuleCourses})
	premium, _ := NewPlan("Premium", decimal.NewFromInt(150), 30, 1000, AllModules())
	return []*Plan{basic, complete, premium}
}

// PlanRepository defines the interface for plan persistence
type PlanRepository interface {
	FindByName(ctx context.Context, name string) (*Plan, error)
	FindAll(ctx context.Context) ([]Plan, error)
	Save(ctx context.Context, plan *Plan) error
	Delete(ctx context.Context, name string) error
}
