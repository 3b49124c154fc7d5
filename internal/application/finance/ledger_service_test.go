package finance

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	appsync "github.com/terreiro/backend/internal/application/sync"
	"github.com/terreiro/backend/internal/domain/community"
	"github.com/terreiro/backend/internal/domain/finance"
	"github.com/terreiro/backend/internal/domain/shared"
	"github.com/terreiro/backend/internal/infrastructure/persistence"
)

type ledgerFixture struct {
	service    *LedgerService
	memberRepo community.MemberRepository
	tenantID   uuid.UUID
}

func setupLedger(t *testing.T) *ledgerFixture {
	t.Helper()
	database, err := persistence.NewTestDatabase()
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })

	transactionRepo := persistence.NewGormTransactionRepository(database.DB)
	memberRepo := persistence.NewGormMemberRepository(database.DB)
	outboxRepo := persistence.NewGormOutboxRepository(database.DB)
	enqueuer := appsync.NewEnqueuer(outboxRepo, false, zap.NewNop())

	return &ledgerFixture{
		service:    NewLedgerService(transactionRepo, memberRepo, enqueuer, zap.NewNop()),
		memberRepo: memberRepo,
		tenantID:   uuid.New(),
	}
}

func amount(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func TestLedgerService_CreateRejectsUnknownMember(t *testing.T) {
	ctx := context.Background()
	f := setupLedger(t)

	unknown := uuid.New()
	_, err := f.service.Create(ctx, f.tenantID, CreateTransactionInput{
		Type:     finance.TypeMensalidade,
		Amount:   amount("60.00"),
		Date:     time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC),
		Status:   finance.StatusPaid,
		MemberID: &unknown,
	})
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestLedgerService_MarkPaidOnlyOnce(t *testing.T) {
	ctx := context.Background()
	f := setupLedger(t)

	tx, err := f.service.Create(ctx, f.tenantID, CreateTransactionInput{
		Type:   finance.TypeDonation,
		Amount: amount("25.00"),
		Date:   time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC),
		Status: finance.StatusPending,
	})
	require.NoError(t, err)

	tx, err = f.service.MarkPaid(ctx, f.tenantID, tx.ID)
	require.NoError(t, err)
	assert.Equal(t, finance.StatusPaid, tx.Status)

	_, err = f.service.MarkPaid(ctx, f.tenantID, tx.ID)
	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "ALREADY_PAID", domainErr.Code)
}

func TestLedgerService_SummarizeMonth(t *testing.T) {
	ctx := context.Background()
	f := setupLedger(t)

	seed := []struct {
		txType finance.TransactionType
		amt    string
		day    int
		status finance.TransactionStatus
	}{
		{finance.TypeMensalidade, "60.00", 5, finance.StatusPaid},
		{finance.TypeCanteen, "17.50", 12, finance.StatusPaid},
		{finance.TypeExpense, "40.00", 15, finance.StatusPaid},
		{finance.TypeMensalidade, "60.00", 20, finance.StatusPending},
	}
	for _, row := range seed {
		_, err := f.service.Create(ctx, f.tenantID, CreateTransactionInput{
			Type:   row.txType,
			Amount: amount(row.amt),
			Date:   time.Date(2024, 3, row.day, 10, 0, 0, 0, time.UTC),
			Status: row.status,
		})
		require.NoError(t, err)
	}
	// A row in another month stays out of the summary
	_, err := f.service.Create(ctx, f.tenantID, CreateTransactionInput{
		Type:   finance.TypeDonation,
		Amount: amount("100.00"),
		Date:   time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC),
		Status: finance.StatusPaid,
	})
	require.NoError(t, err)

	summary, err := f.service.Summarize(ctx, f.tenantID, "2024-03")
	require.NoError(t, err)
	assert.True(t, summary.Income.Equal(amount("77.50")), "income was %s", summary.Income)
	assert.True(t, summary.Expenses.Equal(amount("40.00")))
	assert.True(t, summary.Balance.Equal(amount("37.50")))
	assert.True(t, summary.Pending.Equal(amount("60.00")))
	assert.True(t, summary.ByType[finance.TypeMensalidade].Equal(amount("120.00")))
}

func TestLedgerService_ListByMonthValidatesRef(t *testing.T) {
	ctx := context.Background()
	f := setupLedger(t)

	_, err := f.service.ListByMonth(ctx, f.tenantID, "03/2024")
	require.Error(t, err)

	tx, err := f.service.Create(ctx, f.tenantID, CreateTransactionInput{
		Type:           finance.TypeMensalidade,
		Amount:         amount("60.00"),
		Date:           time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC),
		Status:         finance.StatusPaid,
		MonthReference: "2024-03",
	})
	require.NoError(t, err)

	rows, err := f.service.ListByMonth(ctx, f.tenantID, "2024-03")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, tx.ID, rows[0].ID)
}
