package app

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/poofware/liquidation-service/internal/constants"
	"github.com/poofware/liquidation-service/internal/models"
	"github.com/poofware/liquidation-service/internal/repositories"
	"github.com/poofware/liquidation-service/internal/utils"
	"github.com/shopspring/decimal"
)

// SentinelOwnerID marks that seeding already ran.
const SentinelOwnerID = "dddddddd-dddd-4ddd-dddd-ddddddddddd1"

// SeedTestData loads a small demo portfolio: one sole owner, one
// co-owner at 50%, leases, a collected-rent mandate and an owner-borne
// charge. Idempotent: a second run finds the sentinel owner and stops.
func SeedTestData(
	ctx context.Context,
	ownerRepo repositories.OwnerRepository,
	unitRepo repositories.UnitRepository,
	leaseRepo repositories.LeaseRepository,
	mandateRepo repositories.MandateRepository,
	chargeRepo repositories.ChargeRepository,
) error {
	sentinelID := uuid.MustParse(SentinelOwnerID)

	if existing, err := ownerRepo.GetByID(ctx, sentinelID); err != nil {
		return fmt.Errorf("failed to check for sentinel owner: %w", err)
	} else if existing != nil {
		utils.Logger.Info("liquidation-service: Seed data already present; skipping seeding.")
		return nil
	}

	now := time.Now().UTC()
	mandateStart := time.Date(now.Year()-1, time.January, 1, 0, 0, 0, 0, time.UTC)

	soleOwner := &models.Owner{ID: sentinelID, DisplayName: "Marie Deschamps", Email: "marie@example.com"}
	coOwner := &models.Owner{ID: uuid.New(), DisplayName: "Paul Armand", Email: "paul@example.com"}
	for _, o := range []*models.Owner{soleOwner, coOwner} {
		if err := ownerRepo.Create(ctx, o); err != nil {
			return fmt.Errorf("seed owner %s: %w", o.DisplayName, err)
		}
	}

	unitA := &models.Unit{ID: uuid.New(), Label: "Apt 12, Rue des Lilas", Address: "4 Rue des Lilas"}
	unitB := &models.Unit{ID: uuid.New(), Label: "Apt 3, Quai Nord", Address: "18 Quai Nord"}
	for _, u := range []*models.Unit{unitA, unitB} {
		if err := unitRepo.Create(ctx, u); err != nil {
			return fmt.Errorf("seed unit %s: %w", u.Label, err)
		}
	}

	shares := []*models.OwnershipShare{
		{OwnerID: soleOwner.ID, UnitID: unitA.ID, ShareNumerator: 1, ShareDenominator: 1},
		{OwnerID: coOwner.ID, UnitID: unitB.ID, ShareNumerator: 1, ShareDenominator: 2},
	}
	for _, s := range shares {
		if err := unitRepo.AssignOwner(ctx, s); err != nil {
			return fmt.Errorf("seed share: %w", err)
		}
	}

	leases := []*models.Lease{
		{
			ID: uuid.New(), UnitID: unitA.ID, TenantName: "Ines Weiss",
			RentAmount:    decimal.NewFromInt(5000),
			ChargesAmount: decimal.NewFromInt(120),
			StartDate:     mandateStart,
		},
		{
			ID: uuid.New(), UnitID: unitB.ID, TenantName: "Victor Haas",
			RentAmount:    decimal.NewFromInt(4000),
			ChargesAmount: decimal.NewFromInt(80),
			StartDate:     mandateStart,
		},
	}
	for _, l := range leases {
		if err := leaseRepo.Create(ctx, l); err != nil {
			return fmt.Errorf("seed lease for %s: %w", l.TenantName, err)
		}
	}

	mandates := []*models.Mandate{
		{
			ID: uuid.New(), OwnerID: soleOwner.ID,
			FeeRatePercent: decimal.NewFromInt(10),
			FeeBasis:       constants.FeeBasisInvoiced,
			ValidFrom:      mandateStart,
		},
		{
			ID: uuid.New(), OwnerID: coOwner.ID,
			FeeRatePercent: decimal.NewFromInt(10),
			FeeBasis:       constants.FeeBasisInvoiced,
			ValidFrom:      mandateStart,
		},
	}
	for _, m := range mandates {
		if err := mandateRepo.Create(ctx, m); err != nil {
			return fmt.Errorf("seed mandate: %w", err)
		}
	}

	ownerID := soleOwner.ID
	charge := &models.Charge{
		ID:         uuid.New(),
		Amount:     decimal.NewFromInt(300),
		ImputedTo:  models.ChargeTarget{Type: constants.ImputedUnit, ID: &unitA.ID},
		Payer:      models.ChargePayer{Type: constants.PayerOwner, ID: &ownerID},
		OwnerBorne: true,
		Title:      "Boiler repair",
		CreatedAt:  now,
	}
	if err := chargeRepo.Create(ctx, charge); err != nil {
		return fmt.Errorf("seed charge: %w", err)
	}

	utils.Logger.Info("liquidation-service: Seeding completed successfully.")
	return nil
}
