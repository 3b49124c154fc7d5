package finance

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/terreiro/backend/internal/domain/shared"
)

// TransactionType classifies ledger rows
type TransactionType string

const (
	TypeMensalidade TransactionType = "mensalidade"
	TypeDonation    TransactionType = "donation"
	TypeExpense     TransactionType = "expense"
	TypeCanteen     TransactionType = "canteen"
	TypeOther       TransactionType = "other"
)

// TransactionStatus is the settlement state of a ledger row
type TransactionStatus string

const (
	StatusPaid    TransactionStatus = "paid"
	StatusPending TransactionStatus = "pending"
	StatusPartial TransactionStatus = "partial"
	StatusLate    TransactionStatus = "late"
)

// TransactionSource records where a ledger row came from
type TransactionSource string

const (
	SourceManual    TransactionSource = "manual"
	SourceMigration TransactionSource = "migration"
)

// IsValid reports whether the type is known
func (t TransactionType) IsValid() bool {
	switch t {
	case TypeMensalidade, TypeDonation, TypeExpense, TypeCanteen, TypeOther:
		return true
	}
	return false
}

// IsValid reports whether the status is known
func (s TransactionStatus) IsValid() bool {
	switch s {
	case StatusPaid, StatusPending, StatusPartial, StatusLate:
		return true
	}
	return false
}

// Transaction is one normalized ledger row. Once paid it only changes
// through an explicit Update, never implicitly.
type Transaction struct {
	shared.TenantAggregateRoot
	Type           TransactionType   `gorm:"type:varchar(20);not null"`
	Amount         decimal.Decimal   `gorm:"type:decimal(10,2);not null"`
	Date           time.Time         `gorm:"not null;index"`
	Status         TransactionStatus `gorm:"type:varchar(20);not null"`
	Description    string            `gorm:"type:varchar(500)"`
	MemberID       *uuid.UUID        `gorm:"type:uuid;index"`
	MonthReference string            `gorm:"type:varchar(7);index"` // YYYY-MM, set on mensalidades and migrated rows
	Source         TransactionSource `gorm:"type:varchar(20);not null;default:'manual'"`
}

// NewTransaction creates a manually entered ledger row
func NewTransaction(tenantID uuid.UUID, txType TransactionType, amount decimal.Decimal, date time.Time, status TransactionStatus, description string) (*Transaction, error) {
	if !txType.IsValid() {
		return nil, shared.NewDomainError("INVALID_TYPE", "Invalid transaction type")
	}
	if !status.IsValid() {
		return nil, shared.NewDomainError("INVALID_STATUS", "Invalid transaction status")
	}
	if amount.IsNegative() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Amount cannot be negative")
	}
	if date.IsZero() {
		return nil, shared.NewDomainError("INVALID_DATE", "Transaction date is required")
	}

	return &Transaction{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Type:                txType,
		Amount:              amount,
		Date:                date,
		Status:              status,
		Description:         description,
		Source:              SourceManual,
	}, nil
}

// NewMigratedTransaction creates a mensalidade row synthesized by the legacy
// payment migration. The date is fixed to the 5th of the reference month; the
// true historical payment day is not recoverable from the legacy data.
func NewMigratedTransaction(tenantID, memberID uuid.UUID, monthRef string, amount decimal.Decimal) (*Transaction, error) {
	refDate, err := time.Parse("2006-01", monthRef)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_MONTH_REF", "Month reference must be in YYYY-MM format")
	}
	if amount.IsNegative() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Amount cannot be negative")
	}

	tx := &Transaction{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Type:                TypeMensalidade,
		Amount:              amount,
		Date:                time.Date(refDate.Year(), refDate.Month(), 5, 0, 0, 0, 0, time.UTC),
		Status:              StatusPaid,
		Description:         "Mensalidade " + monthRef,
		MemberID:            &memberID,
		MonthReference:      monthRef,
		Source:              SourceMigration,
	}
	return tx, nil
}

// LinkMember associates the row with a roster member
func (t *Transaction) LinkMember(memberID uuid.UUID) {
	t.MemberID = &memberID
	t.touch()
}

// SetMonthReference tags the row with a YYYY-MM reference
func (t *Transaction) SetMonthReference(monthRef string) error {
	if _, err := time.Parse("2006-01", monthRef); err != nil {
		return shared.NewDomainError("INVALID_MONTH_REF", "Month reference must be in YYYY-MM format")
	}
	t.MonthReference = monthRef
	t.touch()
	return nil
}

// Update explicitly edits the row. This is the only way a paid row changes.
func (t *Transaction) Update(amount decimal.Decimal, date time.Time, status TransactionStatus, description string) error {
	if amount.IsNegative() {
		return shared.NewDomainError("INVALID_AMOUNT", "Amount cannot be negative")
	}
	if !status.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", "Invalid transaction status")
	}
	if date.IsZero() {
		return shared.NewDomainError("INVALID_DATE", "Transaction date is required")
	}

	t.Amount = amount
	t.Date = date
	t.Status = status
	t.Description = description
	t.touch()
	return nil
}

// MarkPaid settles a pending, partial or late row
func (t *Transaction) MarkPaid() error {
	if t.Status == StatusPaid {
		return shared.NewDomainError("ALREADY_PAID", "Transaction is already paid")
	}
	t.Status = StatusPaid
	t.touch()
	return nil
}

func (t *Transaction) touch() {
	t.UpdatedAt = time.Now()
	t.IncrementVersion()
}

// TransactionRepository defines the tenant-scoped ledger persistence interface
type TransactionRepository interface {
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*Transaction, error)
	FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Transaction, error)
	FindByMonth(ctx context.Context, tenantID uuid.UUID, monthRef string) ([]Transaction, error)
	Save(ctx context.Context, tx *Transaction) error
	SaveAll(ctx context.Context, txs []*Transaction) error
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
	Count(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
	DeleteAllForTenant(ctx context.Context, tenantID uuid.UUID) error
}
