// Package inventory exposes stock management for the tenant's canteen and
// ritual supplies.
package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	appsync "github.com/terreiro/backend/internal/application/sync"
	"github.com/terreiro/backend/internal/domain/finance"
	"github.com/terreiro/backend/internal/domain/inventory"
	"github.com/terreiro/backend/internal/domain/shared"
)

// CreateItemInput carries the fields for a new stocked item
type CreateItemInput struct {
	Name         string          `json:"name" validate:"required,max=200"`
	Category     string          `json:"category" validate:"max=100"`
	Quantity     int             `json:"quantity" validate:"min=0"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	MinimumStock int             `json:"minimum_stock" validate:"min=0"`
}

// UpdateItemInput carries the editable fields of an item
type UpdateItemInput struct {
	Name         string          `json:"name" validate:"required,max=200"`
	Category     string          `json:"category" validate:"max=100"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	MinimumStock int             `json:"minimum_stock" validate:"min=0"`
}

// SaleLine is one item/quantity pair in a canteen sale
type SaleLine struct {
	ItemID   uuid.UUID `json:"item_id" validate:"required"`
	Quantity int       `json:"quantity" validate:"required,min=1"`
}

// SaleInput is a canteen sale: stock is consumed and a single paid ledger
// row is written for the total
type SaleInput struct {
	Lines       []SaleLine `json:"lines" validate:"required,min=1,dive"`
	Description string     `json:"description"`
}

// SaleResult summarizes a recorded canteen sale
type SaleResult struct {
	TransactionID uuid.UUID       `json:"transaction_id"`
	Total         decimal.Decimal `json:"total"`
	Items         []string        `json:"items"`
}

// ItemService manages the tenant's stock
type ItemService struct {
	itemRepo        inventory.ItemRepository
	transactionRepo finance.TransactionRepository
	enqueuer        *appsync.Enqueuer
	logger          *zap.Logger
}

// NewItemService creates a new inventory service
func NewItemService(
	itemRepo inventory.ItemRepository,
	transactionRepo finance.TransactionRepository,
	enqueuer *appsync.Enqueuer,
	logger *zap.Logger,
) *ItemService {
	return &ItemService{
		itemRepo:        itemRepo,
		transactionRepo: transactionRepo,
		enqueuer:        enqueuer,
		logger:          logger,
	}
}

// Create adds an item to the stock
func (s *ItemService) Create(ctx context.Context, tenantID uuid.UUID, input CreateItemInput) (*inventory.Item, error) {
	item, err := inventory.NewItem(tenantID, input.Name, input.Category, input.Quantity, input.UnitPrice)
	if err != nil {
		return nil, err
	}
	item.MinimumStock = input.MinimumStock

	if err := s.itemRepo.Save(ctx, item); err != nil {
		return nil, err
	}
	s.replicate(ctx, item)
	return item, nil
}

// Get returns a single item
func (s *ItemService) Get(ctx context.Context, tenantID, id uuid.UUID) (*inventory.Item, error) {
	return s.itemRepo.FindByID(ctx, tenantID, id)
}

// List returns the stocked items matching the filter
func (s *ItemService) List(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]inventory.Item, error) {
	return s.itemRepo.FindAll(ctx, tenantID, filter)
}

// ListBelowMinimum returns items whose stock fell under the configured floor
func (s *ItemService) ListBelowMinimum(ctx context.Context, tenantID uuid.UUID) ([]inventory.Item, error) {
	items, err := s.itemRepo.FindAll(ctx, tenantID, shared.Filter{})
	if err != nil {
		return nil, err
	}
	low := make([]inventory.Item, 0)
	for _, item := range items {
		if item.BelowMinimum() {
			low = append(low, item)
		}
	}
	return low, nil
}

// Update edits an item's descriptive fields and pricing
func (s *ItemService) Update(ctx context.Context, tenantID, id uuid.UUID, input UpdateItemInput) (*inventory.Item, error) {
	item, err := s.itemRepo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := item.Update(input.Name, input.Category, input.UnitPrice, input.MinimumStock); err != nil {
		return nil, err
	}
	if err := s.itemRepo.Save(ctx, item); err != nil {
		return nil, err
	}
	s.replicate(ctx, item)
	return item, nil
}

// Restock adds quantity to an item
func (s *ItemService) Restock(ctx context.Context, tenantID, id uuid.UUID, quantity int) (*inventory.Item, error) {
	return s.adjust(ctx, tenantID, id, (*inventory.Item).Restock, quantity)
}

// Consume removes quantity from an item without touching the ledger, for
// supplies used in the house's own works
func (s *ItemService) Consume(ctx context.Context, tenantID, id uuid.UUID, quantity int) (*inventory.Item, error) {
	return s.adjust(ctx, tenantID, id, (*inventory.Item).Consume, quantity)
}

// RecordSale consumes stock for every line and writes one paid canteen row
// for the total. Lines are validated against stock before anything is
// consumed, so a sale either applies in full or not at all.
func (s *ItemService) RecordSale(ctx context.Context, tenantID uuid.UUID, input SaleInput) (*SaleResult, error) {
	if len(input.Lines) == 0 {
		return nil, shared.NewDomainError("EMPTY_SALE", "A sale needs at least one line")
	}

	// The same item may show up on several lines; quantities are summed per
	// item first so the stock check sees the whole sale, not each line alone.
	order := make([]uuid.UUID, 0, len(input.Lines))
	wanted := make(map[uuid.UUID]int, len(input.Lines))
	for _, line := range input.Lines {
		if line.Quantity <= 0 {
			return nil, shared.NewDomainError("INVALID_QUANTITY", "Sale quantity must be positive")
		}
		if _, seen := wanted[line.ItemID]; !seen {
			order = append(order, line.ItemID)
		}
		wanted[line.ItemID] += line.Quantity
	}

	items := make([]*inventory.Item, 0, len(order))
	total := decimal.Zero
	names := make([]string, 0, len(order))
	for _, id := range order {
		item, err := s.itemRepo.FindByID(ctx, tenantID, id)
		if err != nil {
			return nil, err
		}
		quantity := wanted[id]
		if quantity > item.Quantity {
			return nil, shared.NewDomainError("INSUFFICIENT_STOCK",
				fmt.Sprintf("Not enough stock for %s", item.Name))
		}
		items = append(items, item)
		total = total.Add(item.UnitPrice.Mul(decimal.NewFromInt(int64(quantity))))
		names = append(names, fmt.Sprintf("%dx %s", quantity, item.Name))
	}

	for i, id := range order {
		if err := items[i].Consume(wanted[id]); err != nil {
			return nil, err
		}
	}

	description := input.Description
	if description == "" {
		description = "Venda cantina"
	}
	tx, err := finance.NewTransaction(tenantID, finance.TypeCanteen, total,
		time.Now(), finance.StatusPaid, description)
	if err != nil {
		return nil, err
	}

	for _, item := range items {
		if err := s.itemRepo.Save(ctx, item); err != nil {
			return nil, err
		}
		s.replicate(ctx, item)
	}
	if err := s.transactionRepo.Save(ctx, tx); err != nil {
		return nil, err
	}
	if err := s.enqueuer.Upsert(ctx, tenantID, appsync.CollectionLedger, tx.ID, tx); err != nil {
		s.logger.Error("failed to queue sale replication", zap.Error(err))
	}

	s.logger.Info("canteen sale recorded",
		zap.String("tenant_id", tenantID.String()),
		zap.String("transaction_id", tx.ID.String()),
		zap.String("total", total.String()))

	return &SaleResult{TransactionID: tx.ID, Total: total, Items: names}, nil
}

// Delete removes an item from the stock
func (s *ItemService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	if _, err := s.itemRepo.FindByID(ctx, tenantID, id); err != nil {
		return err
	}
	if err := s.itemRepo.Delete(ctx, tenantID, id); err != nil {
		return err
	}
	if err := s.enqueuer.Delete(ctx, tenantID, appsync.CollectionInventory, id); err != nil {
		s.logger.Error("failed to queue item deletion", zap.Error(err))
	}
	return nil
}

func (s *ItemService) adjust(ctx context.Context, tenantID, id uuid.UUID, op func(*inventory.Item, int) error, quantity int) (*inventory.Item, error) {
	item, err := s.itemRepo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := op(item, quantity); err != nil {
		return nil, err
	}
	if err := s.itemRepo.Save(ctx, item); err != nil {
		return nil, err
	}
	s.replicate(ctx, item)
	return item, nil
}

func (s *ItemService) replicate(ctx context.Context, item *inventory.Item) {
	if err := s.enqueuer.Upsert(ctx, item.TenantID, appsync.CollectionInventory, item.ID, item); err != nil {
		s.logger.Error("failed to queue item replication",
			zap.String("item_id", item.ID.String()),
			zap.Error(err))
	}
}
