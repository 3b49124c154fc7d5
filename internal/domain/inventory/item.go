package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/terreiro/backend/internal/domain/shared"
)

// Item represents one stocked article (ervas, velas, bebidas, ...)
type Item struct {
	shared.TenantAggregateRoot
	Name         string          `gorm:"type:varchar(200);not null"`
	Category     string          `gorm:"type:varchar(100)"`
	Quantity     int             `gorm:"not null;default:0"`
	UnitPrice    decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	MinimumStock int             `gorm:"not null;default:0"`
}

// NewItem creates a new inventory item
func NewItem(tenantID uuid.UUID, name, category string, quantity int, unitPrice decimal.Decimal) (*Item, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Item name cannot be empty")
	}
	if quantity < 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity cannot be negative")
	}
	if unitPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}

	return &Item{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Name:                name,
		Category:            category,
		Quantity:            quantity,
		UnitPrice:           unitPrice,
	}, nil
}

// Update changes the item's descriptive fields and pricing
func (i *Item) Update(name, category string, unitPrice decimal.Decimal, minimumStock int) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Item name cannot be empty")
	}
	if unitPrice.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}
	if minimumStock < 0 {
		return shared.NewDomainError("INVALID_MINIMUM", "Minimum stock cannot be negative")
	}

	i.Name = name
	i.Category = category
	i.UnitPrice = unitPrice
	i.MinimumStock = minimumStock
	i.touch()
	return nil
}

// Restock adds quantity to the item
func (i *Item) Restock(quantity int) error {
	if quantity <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Restock quantity must be positive")
	}
	i.Quantity += quantity
	i.touch()
	return nil
}

// Consume removes quantity from stock, rejecting a negative result
func (i *Item) Consume(quantity int) error {
	if quantity <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Consumed quantity must be positive")
	}
	if quantity > i.Quantity {
		return shared.NewDomainError("INSUFFICIENT_STOCK", "Not enough stock for this item")
	}
	i.Quantity -= quantity
	i.touch()
	return nil
}

// BelowMinimum reports whether stock fell under the configured floor
func (i *Item) BelowMinimum() bool {
	return i.Quantity < i.MinimumStock
}

func (i *Item) touch() {
	i.UpdatedAt = time.Now()
	i.IncrementVersion()
}

// ItemRepository defines the tenant-scoped inventory persistence interface
type ItemRepository interface {
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*Item, error)
	FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Item, error)
	Save(ctx context.Context, item *Item) error
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
	DeleteAllForTenant(ctx context.Context, tenantID uuid.UUID) error
}
