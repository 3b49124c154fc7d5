package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/terreiro/backend/internal/domain/finance"
)

// TransactionModel is the persistence model for the ledger Transaction entity.
type TransactionModel struct {
	TenantAggregateModel
	Type           finance.TransactionType   `gorm:"type:varchar(20);not null;index"`
	Amount         decimal.Decimal           `gorm:"type:decimal(10,2);not null"`
	Date           time.Time                 `gorm:"not null;index"`
	Status         finance.TransactionStatus `gorm:"type:varchar(20);not null;index"`
	Description    string                    `gorm:"type:varchar(500)"`
	MemberID       *uuid.UUID                `gorm:"type:uuid;index"`
	MonthReference string                    `gorm:"type:varchar(7);index"`
	Source         finance.TransactionSource `gorm:"type:varchar(20);not null;default:'manual'"`
}

// TableName returns the table name for GORM
func (TransactionModel) TableName() string {
	return "transactions"
}

// ToDomain converts the persistence model to a domain Transaction entity
func (m *TransactionModel) ToDomain() *finance.Transaction {
	tx := &finance.Transaction{
		Type:           m.Type,
		Amount:         m.Amount,
		Date:           m.Date,
		Status:         m.Status,
		Description:    m.Description,
		MemberID:       m.MemberID,
		MonthReference: m.MonthReference,
		Source:         m.Source,
	}
	m.PopulateTenantAggregateRoot(&tx.TenantAggregateRoot)
	return tx
}

// FromDomain populates the persistence model from a domain Transaction entity
func (m *TransactionModel) FromDomain(tx *finance.Transaction) {
	m.FromDomainTenantAggregateRoot(tx.TenantAggregateRoot)
	m.Type = tx.Type
	m.Amount = tx.Amount
	m.Date = tx.Date
	m.Status = tx.Status
	m.Description = tx.Description
	m.MemberID = tx.MemberID
	m.MonthReference = tx.MonthReference
	m.Source = tx.Source
}

// DataMigrationModel records applied one-time data migrations, keyed by a
// version marker so each runs at most once per tenant.
type DataMigrationModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	TenantID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_data_migrations_tenant_marker"`
	Marker    string    `gorm:"type:varchar(100);not null;uniqueIndex:idx_data_migrations_tenant_marker"`
	AppliedAt time.Time `gorm:"not null"`
	Detail    string    `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (DataMigrationModel) TableName() string {
	return "data_migrations"
}
