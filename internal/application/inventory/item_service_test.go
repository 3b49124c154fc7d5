package inventory

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	appsync "github.com/terreiro/backend/internal/application/sync"
	"github.com/terreiro/backend/internal/domain/finance"
	"github.com/terreiro/backend/internal/domain/shared"
	"github.com/terreiro/backend/internal/infrastructure/persistence"
)

type inventoryFixture struct {
	service         *ItemService
	transactionRepo finance.TransactionRepository
	tenantID        uuid.UUID
}

func setupInventory(t *testing.T) *inventoryFixture {
	t.Helper()
	database, err := persistence.NewTestDatabase()
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })

	itemRepo := persistence.NewGormItemRepository(database.DB)
	transactionRepo := persistence.NewGormTransactionRepository(database.DB)
	outboxRepo := persistence.NewGormOutboxRepository(database.DB)
	enqueuer := appsync.NewEnqueuer(outboxRepo, false, zap.NewNop())

	return &inventoryFixture{
		service:         NewItemService(itemRepo, transactionRepo, enqueuer, zap.NewNop()),
		transactionRepo: transactionRepo,
		tenantID:        uuid.New(),
	}
}

func price(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func TestItemService_RestockAndConsume(t *testing.T) {
	ctx := context.Background()
	f := setupInventory(t)

	item, err := f.service.Create(ctx, f.tenantID, CreateItemInput{
		Name:      "Vela branca",
		Category:  "velas",
		Quantity:  10,
		UnitPrice: price("2.50"),
	})
	require.NoError(t, err)

	item, err = f.service.Restock(ctx, f.tenantID, item.ID, 5)
	require.NoError(t, err)
	assert.Equal(t, 15, item.Quantity)

	item, err = f.service.Consume(ctx, f.tenantID, item.ID, 12)
	require.NoError(t, err)
	assert.Equal(t, 3, item.Quantity)

	_, err = f.service.Consume(ctx, f.tenantID, item.ID, 4)
	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INSUFFICIENT_STOCK", domainErr.Code)
}

func TestItemService_ListBelowMinimum(t *testing.T) {
	ctx := context.Background()
	f := setupInventory(t)

	_, err := f.service.Create(ctx, f.tenantID, CreateItemInput{
		Name: "Vela branca", Quantity: 20, UnitPrice: price("2.50"), MinimumStock: 5,
	})
	require.NoError(t, err)
	low, err := f.service.Create(ctx, f.tenantID, CreateItemInput{
		Name: "Guiné", Quantity: 2, UnitPrice: price("4.00"), MinimumStock: 10,
	})
	require.NoError(t, err)

	items, err := f.service.ListBelowMinimum(ctx, f.tenantID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, low.ID, items[0].ID)
}

func TestItemService_RecordSaleWritesLedgerRow(t *testing.T) {
	ctx := context.Background()
	f := setupInventory(t)

	soda, err := f.service.Create(ctx, f.tenantID, CreateItemInput{
		Name: "Refrigerante", Quantity: 24, UnitPrice: price("6.00"),
	})
	require.NoError(t, err)
	cake, err := f.service.Create(ctx, f.tenantID, CreateItemInput{
		Name: "Bolo", Quantity: 8, UnitPrice: price("5.50"),
	})
	require.NoError(t, err)

	result, err := f.service.RecordSale(ctx, f.tenantID, SaleInput{
		Lines: []SaleLine{
			{ItemID: soda.ID, Quantity: 2},
			{ItemID: cake.ID, Quantity: 1},
		},
	})
	require.NoError(t, err)
	assert.True(t, result.Total.Equal(price("17.50")), "total was %s", result.Total)

	soda, err = f.service.Get(ctx, f.tenantID, soda.ID)
	require.NoError(t, err)
	assert.Equal(t, 22, soda.Quantity)

	tx, err := f.transactionRepo.FindByID(ctx, f.tenantID, result.TransactionID)
	require.NoError(t, err)
	assert.Equal(t, finance.TypeCanteen, tx.Type)
	assert.Equal(t, finance.StatusPaid, tx.Status)
	assert.True(t, tx.Amount.Equal(price("17.50")))
}

func TestItemService_RecordSaleRejectsOversell(t *testing.T) {
	ctx := context.Background()
	f := setupInventory(t)

	soda, err := f.service.Create(ctx, f.tenantID, CreateItemInput{
		Name: "Refrigerante", Quantity: 3, UnitPrice: price("6.00"),
	})
	require.NoError(t, err)
	cake, err := f.service.Create(ctx, f.tenantID, CreateItemInput{
		Name: "Bolo", Quantity: 8, UnitPrice: price("5.50"),
	})
	require.NoError(t, err)

	_, err = f.service.RecordSale(ctx, f.tenantID, SaleInput{
		Lines: []SaleLine{
			{ItemID: cake.ID, Quantity: 2},
			{ItemID: soda.ID, Quantity: 5},
		},
	})
	require.Error(t, err)

	// No line was applied and no ledger row was written
	cake, err = f.service.Get(ctx, f.tenantID, cake.ID)
	require.NoError(t, err)
	assert.Equal(t, 8, cake.Quantity)

	count, err := f.transactionRepo.Count(ctx, f.tenantID, shared.Filter{})
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestItemService_RecordSaleSumsDuplicateLines(t *testing.T) {
	ctx := context.Background()
	f := setupInventory(t)

	soda, err := f.service.Create(ctx, f.tenantID, CreateItemInput{
		Name: "Refrigerante", Quantity: 5, UnitPrice: price("6.00"),
	})
	require.NoError(t, err)

	// Two lines of the same item must be checked against stock together
	_, err = f.service.RecordSale(ctx, f.tenantID, SaleInput{
		Lines: []SaleLine{
			{ItemID: soda.ID, Quantity: 3},
			{ItemID: soda.ID, Quantity: 3},
		},
	})
	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INSUFFICIENT_STOCK", domainErr.Code)

	soda, err = f.service.Get(ctx, f.tenantID, soda.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, soda.Quantity)

	// Within stock, duplicates collapse into one consumed quantity
	result, err := f.service.RecordSale(ctx, f.tenantID, SaleInput{
		Lines: []SaleLine{
			{ItemID: soda.ID, Quantity: 2},
			{ItemID: soda.ID, Quantity: 2},
		},
	})
	require.NoError(t, err)
	assert.True(t, result.Total.Equal(price("24.00")), "total was %s", result.Total)
	require.Len(t, result.Items, 1)
	assert.Equal(t, "4x Refrigerante", result.Items[0])

	soda, err = f.service.Get(ctx, f.tenantID, soda.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, soda.Quantity)
}
