package models

import (
	"github.com/shopspring/decimal"

	"github.com/terreiro/backend/internal/domain/inventory"
)

// ItemModel is the persistence model for the inventory Item domain entity.
type ItemModel struct {
	TenantAggregateModel
	Name         string          `gorm:"type:varchar(200);not null"`
	Category     string          `gorm:"type:varchar(100);index"`
	Quantity     int             `gorm:"not null;default:0"`
	UnitPrice    decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	MinimumStock int             `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (ItemModel) TableName() string {
	return "inventory_items"
}

// ToDomain converts the persistence model to a domain Item entity
func (m *ItemModel) ToDomain() *inventory.Item {
	item := &inventory.Item{
		Name:         m.Name,
		Category:     m.Category,
		Quantity:     m.Quantity,
		UnitPrice:    m.UnitPrice,
		MinimumStock: m.MinimumStock,
	}
	m.PopulateTenantAggregateRoot(&item.TenantAggregateRoot)
	return item
}

// FromDomain populates the persistence model from a domain Item entity
func (m *ItemModel) FromDomain(item *inventory.Item) {
	m.FromDomainTenantAggregateRoot(item.TenantAggregateRoot)
	m.Name = item.Name
	m.Category = item.Category
	m.Quantity = item.Quantity
	m.UnitPrice = item.UnitPrice
	m.MinimumStock = item.MinimumStock
}
