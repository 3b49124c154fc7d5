package finance

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/terreiro/backend/internal/domain/community"
	"github.com/terreiro/backend/internal/domain/finance"
	"github.com/terreiro/backend/internal/domain/settings"
	"github.com/terreiro/backend/internal/domain/shared"
)

// LegacyPaymentMarker identifies the one-time migration that rewrites the
// embedded per-member payment maps into normalized ledger rows.
const LegacyPaymentMarker = "finance_0001_legacy_payments"

// MigrationLedger records which one-time data migrations ran for a tenant
type MigrationLedger interface {
	HasApplied(ctx context.Context, tenantID uuid.UUID, marker string) (bool, error)
	MarkApplied(ctx context.Context, tenantID uuid.UUID, marker, detail string) error
}

// LegacyPaymentMigration converts the pre-ledger embedded payment maps into
// mensalidade rows. The applied marker is persisted per tenant, so a re-run
// stays a no-op even after a manual ledger wipe.
type LegacyPaymentMigration struct {
	transactionRepo finance.TransactionRepository
	memberRepo      community.MemberRepository
	settingsRepo    settings.Repository
	ledger          MigrationLedger
	logger          *zap.Logger
}

// NewLegacyPaymentMigration creates the one-time legacy payment migration
func NewLegacyPaymentMigration(
	transactionRepo finance.TransactionRepository,
	memberRepo community.MemberRepository,
	settingsRepo settings.Repository,
	ledger MigrationLedger,
	logger *zap.Logger,
) *LegacyPaymentMigration {
	return &LegacyPaymentMigration{
		transactionRepo: transactionRepo,
		memberRepo:      memberRepo,
		settingsRepo:    settingsRepo,
		ledger:          ledger,
		logger:          logger,
	}
}

// Apply runs the migration for one tenant and returns how many rows were
// written. Already-applied tenants and tenants with existing ledger rows or
// no legacy data are left untouched.
//
// Amounts are derived from the tenant's pricing settings by role: medium
// rate, else assistant rate, else zero. The true historical amounts are not
// recoverable from the legacy maps; the flat-rate derivation is an accepted
// data-quality gap, recorded in the applied marker's detail.
func (m *LegacyPaymentMigration) Apply(ctx context.Context, tenantID uuid.UUID) (int, error) {
	applied, err := m.ledger.HasApplied(ctx, tenantID, LegacyPaymentMarker)
	if err != nil {
		return 0, err
	}
	if applied {
		return 0, nil
	}

	existing, err := m.transactionRepo.Count(ctx, tenantID, shared.Filter{})
	if err != nil {
		return 0, err
	}
	if existing > 0 {
		// A populated ledger means the tenant never had legacy-only data
		// or was migrated by hand. Mark it so the check never runs again.
		if err := m.ledger.MarkApplied(ctx, tenantID, LegacyPaymentMarker, "skipped: ledger already populated"); err != nil {
			return 0, err
		}
		return 0, nil
	}

	members, err := m.memberRepo.FindAll(ctx, tenantID, shared.Filter{})
	if err != nil {
		return 0, err
	}

	stored, _, err := m.settingsRepo.Find(ctx, tenantID)
	if err != nil {
		return 0, err
	}
	pricing := stored.WithDefaults().Pricing

	var rows []*finance.Transaction
	for i := range members {
		member := &members[i]
		amount := m.rateFor(member, pricing)
		for _, monthRef := range paidMonths(member.LegacyPayments) {
			tx, err := finance.NewMigratedTransaction(tenantID, member.ID, monthRef, amount)
			if err != nil {
				m.logger.Warn("skipping malformed legacy payment",
					zap.String("member_id", member.ID.String()),
					zap.String("month_ref", monthRef),
					zap.Error(err))
				continue
			}
			rows = append(rows, tx)
		}
	}

	if len(rows) > 0 {
		if err := m.transactionRepo.SaveAll(ctx, rows); err != nil {
			return 0, err
		}
	}
	detail := fmt.Sprintf("migrated %d legacy payment rows", len(rows))
	if err := m.ledger.MarkApplied(ctx, tenantID, LegacyPaymentMarker, detail); err != nil {
		return 0, err
	}

	m.logger.Info("legacy payment migration applied",
		zap.String("tenant_id", tenantID.String()),
		zap.Int("rows", len(rows)))
	return len(rows), nil
}

func (m *LegacyPaymentMigration) rateFor(member *community.Member, pricing settings.Pricing) decimal.Decimal {
	switch {
	case member.IsMedium:
		return pricing.MediumMonthly
	case member.IsAssistant:
		return pricing.AssistantMonthly
	}
	return decimal.Zero
}

// paidMonths extracts the paid entries of a legacy payment map in a stable
// order, so migrated rows come out deterministic across runs
func paidMonths(payments map[string]string) []string {
	months := make([]string, 0, len(payments))
	for monthRef, status := range payments {
		if status == "paid" {
			months = append(months, monthRef)
		}
	}
	sort.Strings(months)
	return months
}
