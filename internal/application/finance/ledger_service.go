// Package finance exposes the tenant's normalized payment ledger.
package finance

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	appsync "github.com/terreiro/backend/internal/application/sync"
	"github.com/terreiro/backend/internal/domain/community"
	"github.com/terreiro/backend/internal/domain/finance"
	"github.com/terreiro/backend/internal/domain/shared"
)

// CreateTransactionInput carries the fields for a new ledger row
type CreateTransactionInput struct {
	Type           finance.TransactionType   `json:"type" validate:"required"`
	Amount         decimal.Decimal           `json:"amount"`
	Date           time.Time                 `json:"date" validate:"required"`
	Status         finance.TransactionStatus `json:"status" validate:"required"`
	Description    string                    `json:"description" validate:"max=500"`
	MemberID       *uuid.UUID                `json:"member_id"`
	MonthReference string                    `json:"month_reference"`
}

// UpdateTransactionInput carries the editable fields of a ledger row
type UpdateTransactionInput struct {
	Amount      decimal.Decimal           `json:"amount"`
	Date        time.Time                 `json:"date" validate:"required"`
	Status      finance.TransactionStatus `json:"status" validate:"required"`
	Description string                    `json:"description" validate:"max=500"`
}

// MonthlySummary aggregates a month of ledger activity
type MonthlySummary struct {
	MonthRef string                                     `json:"month_ref"`
	Income   decimal.Decimal                            `json:"income"`
	Expenses decimal.Decimal                            `json:"expenses"`
	Balance  decimal.Decimal                            `json:"balance"`
	Pending  decimal.Decimal                            `json:"pending"`
	ByType   map[finance.TransactionType]decimal.Decimal `json:"by_type"`
}

// LedgerService manages the tenant's payment ledger
type LedgerService struct {
	transactionRepo finance.TransactionRepository
	memberRepo      community.MemberRepository
	enqueuer        *appsync.Enqueuer
	logger          *zap.Logger
}

// NewLedgerService creates a new ledger service
func NewLedgerService(
	transactionRepo finance.TransactionRepository,
	memberRepo community.MemberRepository,
	enqueuer *appsync.Enqueuer,
	logger *zap.Logger,
) *LedgerService {
	return &LedgerService{
		transactionRepo: transactionRepo,
		memberRepo:      memberRepo,
		enqueuer:        enqueuer,
		logger:          logger,
	}
}

// Create writes a new ledger row. A linked member must exist in the tenant.
func (s *LedgerService) Create(ctx context.Context, tenantID uuid.UUID, input CreateTransactionInput) (*finance.Transaction, error) {
	tx, err := finance.NewTransaction(tenantID, input.Type, input.Amount, input.Date, input.Status, input.Description)
	if err != nil {
		return nil, err
	}
	if input.MemberID != nil {
		if _, err := s.memberRepo.FindByID(ctx, tenantID, *input.MemberID); err != nil {
			return nil, err
		}
		tx.LinkMember(*input.MemberID)
	}
	if input.MonthReference != "" {
		if err := tx.SetMonthReference(input.MonthReference); err != nil {
			return nil, err
		}
	}

	if err := s.transactionRepo.Save(ctx, tx); err != nil {
		return nil, err
	}
	s.replicate(ctx, tx)
	return tx, nil
}

// Get returns a single ledger row
func (s *LedgerService) Get(ctx context.Context, tenantID, id uuid.UUID) (*finance.Transaction, error) {
	return s.transactionRepo.FindByID(ctx, tenantID, id)
}

// List returns a page of the ledger
func (s *LedgerService) List(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (*shared.Paginated[finance.Transaction], error) {
	txs, err := s.transactionRepo.FindAll(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.transactionRepo.Count(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	page := shared.NewPaginated(txs, total, filter.Page, filter.PageSize)
	return &page, nil
}

// ListByMonth returns the rows tagged with a YYYY-MM month reference
func (s *LedgerService) ListByMonth(ctx context.Context, tenantID uuid.UUID, monthRef string) ([]finance.Transaction, error) {
	if _, err := time.Parse("2006-01", monthRef); err != nil {
		return nil, shared.NewDomainError("INVALID_MONTH_REF", "Month reference must be in YYYY-MM format")
	}
	return s.transactionRepo.FindByMonth(ctx, tenantID, monthRef)
}

// Update explicitly edits a ledger row
func (s *LedgerService) Update(ctx context.Context, tenantID, id uuid.UUID, input UpdateTransactionInput) (*finance.Transaction, error) {
	tx, err := s.transactionRepo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := tx.Update(input.Amount, input.Date, input.Status, input.Description); err != nil {
		return nil, err
	}
	if err := s.transactionRepo.Save(ctx, tx); err != nil {
		return nil, err
	}
	s.replicate(ctx, tx)
	return tx, nil
}

// MarkPaid settles a pending, partial or late row
func (s *LedgerService) MarkPaid(ctx context.Context, tenantID, id uuid.UUID) (*finance.Transaction, error) {
	tx, err := s.transactionRepo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := tx.MarkPaid(); err != nil {
		return nil, err
	}
	if err := s.transactionRepo.Save(ctx, tx); err != nil {
		return nil, err
	}
	s.replicate(ctx, tx)
	return tx, nil
}

// Delete removes a ledger row
func (s *LedgerService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	if err := s.transactionRepo.Delete(ctx, tenantID, id); err != nil {
		return err
	}
	if err := s.enqueuer.Delete(ctx, tenantID, appsync.CollectionLedger, id); err != nil {
		s.logger.Error("failed to queue ledger deletion", zap.Error(err))
	}
	return nil
}

// Summarize aggregates a calendar month by transaction date. Expenses count
// toward the expense total; every other paid row counts toward income.
// Unpaid rows accumulate under Pending instead.
func (s *LedgerService) Summarize(ctx context.Context, tenantID uuid.UUID, monthRef string) (*MonthlySummary, error) {
	refDate, err := time.Parse("2006-01", monthRef)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_MONTH_REF", "Month reference must be in YYYY-MM format")
	}
	from := time.Date(refDate.Year(), refDate.Month(), 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)

	txs, err := s.transactionRepo.FindAll(ctx, tenantID, shared.Filter{
		Filters: map[string]interface{}{"date_from": from, "date_to": to},
	})
	if err != nil {
		return nil, err
	}

	summary := &MonthlySummary{
		MonthRef: monthRef,
		Income:   decimal.Zero,
		Expenses: decimal.Zero,
		Pending:  decimal.Zero,
		ByType:   make(map[finance.TransactionType]decimal.Decimal),
	}
	for _, tx := range txs {
		summary.ByType[tx.Type] = summary.ByType[tx.Type].Add(tx.Amount)

		switch {
		case tx.Type == finance.TypeExpense:
			summary.Expenses = summary.Expenses.Add(tx.Amount)
		case tx.Status == finance.StatusPaid:
			summary.Income = summary.Income.Add(tx.Amount)
		default:
			summary.Pending = summary.Pending.Add(tx.Amount)
		}
	}
	summary.Balance = summary.Income.Sub(summary.Expenses)
	return summary, nil
}

func (s *LedgerService) replicate(ctx context.Context, tx *finance.Transaction) {
	if err := s.enqueuer.Upsert(ctx, tx.TenantID, appsync.CollectionLedger, tx.ID, tx); err != nil {
		s.logger.Error("failed to queue ledger replication",
			zap.String("transaction_id", tx.ID.String()),
			zap.Error(err))
	}
}
