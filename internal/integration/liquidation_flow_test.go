//go:build integration

package integration

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/poofware/liquidation-service/internal/constants"
	"github.com/poofware/liquidation-service/internal/dtos"
	"github.com/poofware/liquidation-service/internal/models"
	"github.com/poofware/liquidation-service/internal/repositories"
	"github.com/poofware/liquidation-service/internal/utils"
)

// seedLiquidatableOwner creates a fresh owner with one unit, one
// open-ended lease and a portfolio mandate, all through the public
// ledger write path. Every test gets its own owner so the suite can
// run against a shared database without cross-test interference.
func seedLiquidatableOwner(t *testing.T, ctx context.Context, rent, feeRate, feeBasis string) *models.Owner {
	t.Helper()

	owner, err := ledgerSvc.CreateOwner(ctx, dtos.CreateOwnerRequest{
		DisplayName: fmt.Sprintf("Integration Owner %s", uuid.New().String()[:8]),
	})
	require.NoError(t, err)

	unit, err := ledgerSvc.CreateUnit(ctx, dtos.CreateUnitRequest{
		Label: fmt.Sprintf("Unit %s", uuid.New().String()[:8]),
	})
	require.NoError(t, err)

	_, err = ledgerSvc.AssignOwner(ctx, unit.ID, dtos.AssignOwnerRequest{
		OwnerID: owner.ID, ShareNumerator: 1, ShareDenominator: 1,
	})
	require.NoError(t, err)

	_, err = ledgerSvc.CreateLease(ctx, dtos.CreateLeaseRequest{
		UnitID:     unit.ID,
		TenantName: "Integration Tenant",
		RentAmount: decimal.RequireFromString(rent),
		StartDate:  "2024-01-01",
	})
	require.NoError(t, err)

	_, err = ledgerSvc.CreateMandate(ctx, dtos.CreateMandateRequest{
		OwnerID:        owner.ID,
		FeeRatePercent: decimal.RequireFromString(feeRate),
		FeeBasis:       feeBasis,
		ValidFrom:      "2024-01-01",
	})
	require.NoError(t, err)

	return owner
}

func TestLiquidationLifecycle(t *testing.T) {
	ctx := context.Background()
	owner := seedLiquidatableOwner(t, ctx, "5000", "10", constants.FeeBasisInvoiced)

	// Preview computes without persisting.
	preview, err := liqSvc.Preview(ctx, owner.ID, 3, 2025)
	require.NoError(t, err)
	require.True(t, preview.NetAmount.Equal(decimal.RequireFromString("4500")),
		"previewed net: %s", preview.NetAmount)

	existing, err := liqRepo.GetByOwnerAndPeriod(ctx, owner.ID, 3, 2025)
	require.NoError(t, err)
	require.Nil(t, existing, "preview must not persist")

	// Create persists the snapshot with its lines.
	created, err := liqSvc.Create(ctx, owner.ID, 3, 2025)
	require.NoError(t, err)
	require.Equal(t, models.LiquidationStatusValidated, created.Status)
	require.False(t, created.CreatedAt.IsZero())

	fetched, err := liqRepo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, fetched)
	require.True(t, fetched.NetAmount.Equal(created.NetAmount))
	require.NotEmpty(t, fetched.Lines)

	// A second create for the same key is rejected by the store.
	_, err = liqSvc.Create(ctx, owner.ID, 3, 2025)
	require.ErrorIs(t, err, utils.ErrDuplicateLiquidation)

	// History sees exactly one row for this owner and period.
	month, year := 3, 2025
	page, err := liqSvc.History(ctx, repositories.HistoryFilter{Month: &month, Year: &year, PageSize: constants.MaxPageSize})
	require.NoError(t, err)
	found := 0
	for _, item := range page.Items {
		if item.OwnerID == owner.ID {
			found++
		}
	}
	require.Equal(t, 1, found)
}

func TestConcurrentCreateSingleWinner(t *testing.T) {
	ctx := context.Background()
	owner := seedLiquidatableOwner(t, ctx, "3000", "8", constants.FeeBasisInvoiced)

	const goroutines = 10
	var wg sync.WaitGroup
	errs := make([]error, goroutines)
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = liqSvc.Create(ctx, owner.ID, 5, 2025)
		}(i)
	}
	wg.Wait()

	winners := 0
	for _, err := range errs {
		switch {
		case err == nil:
			winners++
		case errors.Is(err, utils.ErrDuplicateLiquidation):
		default:
			t.Fatalf("unexpected error from concurrent create: %v", err)
		}
	}
	require.Equal(t, 1, winners, "the unique constraint must let exactly one insert through")
}

func TestPendingReflectsCreates(t *testing.T) {
	ctx := context.Background()
	owner := seedLiquidatableOwner(t, ctx, "2500", "10", constants.FeeBasisInvoiced)

	resp, err := liqSvc.ListPending(ctx, 7, 2025)
	require.NoError(t, err)
	require.True(t, pendingContains(resp, owner.ID), "fresh owner must be pending")

	_, err = liqSvc.Create(ctx, owner.ID, 7, 2025)
	require.NoError(t, err)

	resp, err = liqSvc.ListPending(ctx, 7, 2025)
	require.NoError(t, err)
	require.False(t, pendingContains(resp, owner.ID), "liquidated owner must leave pending")
}

func pendingContains(resp *dtos.PendingListResponse, ownerID uuid.UUID) bool {
	for _, e := range resp.Entries {
		if e.Owner.ID == ownerID {
			return true
		}
	}
	return false
}

func TestRentEntryOverridesContractRent(t *testing.T) {
	ctx := context.Background()
	owner := seedLiquidatableOwner(t, ctx, "2000", "10", constants.FeeBasisCollected)

	shares, err := unitRepo.GetUnitsOwnedBy(ctx, owner.ID)
	require.NoError(t, err)
	require.Len(t, shares, 1)
	leases, err := leaseRepo.ListByUnit(ctx, shares[0].UnitID)
	require.NoError(t, err)
	require.Len(t, leases, 1)

	_, err = ledgerSvc.RecordRentEntry(ctx, dtos.RecordRentEntryRequest{
		LeaseID:         leases[0].ID,
		Month:           9,
		Year:            2025,
		InvoicedAmount:  decimal.RequireFromString("2000"),
		CollectedAmount: decimal.RequireFromString("1500"),
	})
	require.NoError(t, err)

	b, err := liqSvc.Preview(ctx, owner.ID, 9, 2025)
	require.NoError(t, err)
	require.True(t, b.TotalRent.Equal(decimal.RequireFromString("1500")),
		"collected basis must read the rent entry, got %s", b.TotalRent)
	require.True(t, b.TotalFees.Equal(decimal.RequireFromString("150")))
}

func TestSnapshotSurvivesLedgerChanges(t *testing.T) {
	ctx := context.Background()
	owner := seedLiquidatableOwner(t, ctx, "4000", "10", constants.FeeBasisInvoiced)

	created, err := liqSvc.Create(ctx, owner.ID, 11, 2025)
	require.NoError(t, err)

	// Ledger moves after the fact: a backdated charge lands in the
	// already-liquidated month.
	shares, err := unitRepo.GetUnitsOwnedBy(ctx, owner.ID)
	require.NoError(t, err)
	unitID := shares[0].UnitID
	require.NoError(t, chargeRepo.Create(ctx, &models.Charge{
		ID:         uuid.New(),
		Amount:     decimal.RequireFromString("700"),
		ImputedTo:  models.ChargeTarget{Type: constants.ImputedUnit, ID: &unitID},
		Payer:      models.ChargePayer{Type: constants.PayerAgency},
		OwnerBorne: true,
		Title:      "Backdated works",
		CreatedAt:  time.Date(2025, 11, 15, 0, 0, 0, 0, time.UTC),
	}))

	// The persisted row is untouched; only a fresh preview sees it.
	stored, err := liqRepo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	require.True(t, stored.NetAmount.Equal(created.NetAmount), "snapshot is immutable")

	preview, err := liqSvc.Preview(ctx, owner.ID, 11, 2025)
	require.NoError(t, err)
	require.False(t, preview.NetAmount.Equal(created.NetAmount), "preview reflects the live ledger")
}
