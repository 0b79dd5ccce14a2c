package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/poofware/liquidation-service/internal/constants"
	"github.com/poofware/liquidation-service/internal/models"
	"github.com/poofware/liquidation-service/internal/repositories"
	"github.com/poofware/liquidation-service/internal/utils"
	"github.com/shopspring/decimal"
)

var oneHundred = decimal.NewFromInt(100)

// CalculatorService computes liquidation breakdowns. It only reads the
// ledgers; it never writes, so Compute is safe to call any number of
// times for any (owner, period) key, including concurrently.
type CalculatorService struct {
	ownerRepo   repositories.OwnerRepository
	unitRepo    repositories.UnitRepository
	leaseRepo   repositories.LeaseRepository
	mandateRepo repositories.MandateRepository
	chargeRepo  repositories.ChargeRepository
}

func NewCalculatorService(
	ownerRepo repositories.OwnerRepository,
	unitRepo repositories.UnitRepository,
	leaseRepo repositories.LeaseRepository,
	mandateRepo repositories.MandateRepository,
	chargeRepo repositories.ChargeRepository,
) *CalculatorService {
	return &CalculatorService{
		ownerRepo:   ownerRepo,
		unitRepo:    unitRepo,
		leaseRepo:   leaseRepo,
		mandateRepo: mandateRepo,
		chargeRepo:  chargeRepo,
	}
}

// appliedMandate tracks one mandate used during a calculation together
// with the rent it governs, so fees can be computed per mandate when
// unit-scoped terms differ from the portfolio-wide ones.
type appliedMandate struct {
	mandate *models.Mandate
	basis   decimal.Decimal
}

// Compute builds the breakdown for one owner and period.
//
// Rent and portfolio charges are prorated by the owner's share of the
// unit they attach to; charges whose payer is the owner directly count
// in full. Fee terms resolve per unit: a mandate scoped to a unit
// overrides the portfolio-wide one for that unit's rent. An owner with
// no active leases gets a valid zero-rent breakdown, not an error. A
// missing mandate is an error: the owner must not be liquidated with
// an undefined fee rate.
func (s *CalculatorService) Compute(ctx context.Context, ownerID uuid.UUID, month, year int) (*models.Breakdown, error) {
	if !utils.ValidPeriod(month, year) {
		return nil, utils.ErrInvalidPeriod
	}

	owner, err := s.ownerRepo.GetByID(ctx, ownerID)
	if err != nil {
		return nil, utils.NewUpstreamReadError("owners", err)
	}
	if owner == nil {
		return nil, utils.ErrOwnerNotFound
	}

	shares, err := s.unitRepo.GetUnitsOwnedBy(ctx, ownerID)
	if err != nil {
		return nil, utils.NewUpstreamReadError("ownership", err)
	}

	shareByUnit := make(map[uuid.UUID]*models.OwnershipShare, len(shares))
	unitIDs := make([]uuid.UUID, 0, len(shares))
	for _, sh := range shares {
		shareByUnit[sh.UnitID] = sh
		unitIDs = append(unitIDs, sh.UnitID)
	}

	effectiveOn := utils.PeriodStartDate(month, year)
	portfolio, err := s.mandateRepo.GetMandate(ctx, ownerID, nil, effectiveOn)
	if err != nil {
		return nil, utils.NewUpstreamReadError("mandates", err)
	}
	mandateByUnit := make(map[uuid.UUID]*models.Mandate, len(unitIDs))
	defaultMandate := portfolio
	for _, unitID := range unitIDs {
		m, err := s.mandateRepo.GetMandate(ctx, ownerID, &unitID, effectiveOn)
		if err != nil {
			return nil, utils.NewUpstreamReadError("mandates", err)
		}
		mandateByUnit[unitID] = m
		if defaultMandate == nil && m != nil {
			defaultMandate = m
		}
	}
	if defaultMandate == nil {
		return nil, utils.ErrNoMandate
	}

	b := &models.Breakdown{
		OwnerID: ownerID,
		Month:   month,
		Year:    year,
		Lines:   []models.BreakdownLine{},
	}

	totalRent, rentLines, applied, err := s.sumRent(ctx, unitIDs, shareByUnit, mandateByUnit, month, year)
	if err != nil {
		return nil, err
	}
	b.TotalRent = totalRent
	b.Lines = append(b.Lines, rentLines...)

	totalCharges, chargeLines, err := s.sumCharges(ctx, ownerID, shareByUnit, month, year)
	if err != nil {
		return nil, err
	}
	b.TotalCharges = totalCharges
	b.Lines = append(b.Lines, chargeLines...)

	// A vacant portfolio still records its fee terms, with a zero fee.
	if len(applied) == 0 {
		applied = []*appliedMandate{{mandate: defaultMandate, basis: decimal.Zero}}
	}
	total := decimal.Zero
	for _, a := range applied {
		fee := a.mandate.FeeRatePercent.Mul(a.basis).Div(oneHundred)
		total = total.Add(fee)
		b.Lines = append(b.Lines, models.BreakdownLine{
			Kind:   models.LineKindFee,
			Label:  fmt.Sprintf("Management fee %s%% on %s", a.mandate.FeeRatePercent.String(), a.mandate.FeeBasis),
			Amount: fee,
		})
	}
	b.TotalFees = total

	// The scalar fee fields record the single mandate applied when there
	// is one; with mixed unit-scoped terms they carry the portfolio-wide
	// mandate and the per-mandate detail stays in the fee lines.
	scalar := applied[0].mandate
	if len(applied) > 1 && portfolio != nil {
		scalar = portfolio
	}
	b.FeeRateApplied = scalar.FeeRatePercent
	b.FeeBasis = scalar.FeeBasis

	// Never clamped: a negative net means the owner owes the agency.
	b.NetAmount = b.TotalRent.Sub(b.TotalCharges).Sub(b.TotalFees)
	return b, nil
}

func (s *CalculatorService) sumRent(
	ctx context.Context,
	unitIDs []uuid.UUID,
	shareByUnit map[uuid.UUID]*models.OwnershipShare,
	mandateByUnit map[uuid.UUID]*models.Mandate,
	month, year int,
) (decimal.Decimal, []models.BreakdownLine, []*appliedMandate, error) {
	total := decimal.Zero
	var lines []models.BreakdownLine
	var applied []*appliedMandate
	appliedIdx := make(map[uuid.UUID]int)

	rents, err := s.leaseRepo.GetActiveLeaseRents(ctx, unitIDs, month, year)
	if err != nil {
		return decimal.Zero, nil, nil, utils.NewUpstreamReadError("rent_ledger", err)
	}

	for _, lr := range rents {
		mandate := mandateByUnit[lr.UnitID]
		if mandate == nil {
			// Rent without fee terms cannot be liquidated.
			return decimal.Zero, nil, nil, utils.ErrNoMandate
		}

		amount := lr.InvoicedAmount
		if mandate.FeeBasis == constants.FeeBasisCollected {
			amount = lr.CollectedAmount
		}
		amount = prorate(amount, shareByUnit[lr.UnitID])

		idx, ok := appliedIdx[mandate.ID]
		if !ok {
			idx = len(applied)
			appliedIdx[mandate.ID] = idx
			applied = append(applied, &appliedMandate{mandate: mandate})
		}
		applied[idx].basis = applied[idx].basis.Add(amount)

		total = total.Add(amount)
		leaseID := lr.LeaseID
		lines = append(lines, models.BreakdownLine{
			Kind:     models.LineKindRent,
			SourceID: &leaseID,
			Label:    fmt.Sprintf("Rent - %s", lr.TenantName),
			Amount:   amount,
		})
	}
	return total, lines, applied, nil
}

func (s *CalculatorService) sumCharges(
	ctx context.Context,
	ownerID uuid.UUID,
	shareByUnit map[uuid.UUID]*models.OwnershipShare,
	month, year int,
) (decimal.Decimal, []models.BreakdownLine, error) {
	total := decimal.Zero
	var lines []models.BreakdownLine

	charges, err := s.chargeRepo.GetChargesForOwner(ctx, ownerID, month, year)
	if err != nil {
		return decimal.Zero, nil, utils.NewUpstreamReadError("charge_ledger", err)
	}

	for _, oc := range charges {
		amount := oc.Amount
		if !oc.Direct && oc.ShareDenominator > 0 {
			amount = amount.
				Mul(decimal.NewFromInt(oc.ShareNumerator)).
				Div(decimal.NewFromInt(oc.ShareDenominator))
		}

		total = total.Add(amount)
		chargeID := oc.ID
		label := oc.Title
		if label == "" {
			label = fmt.Sprintf("Charge (%s)", oc.ImputedTo.Type)
		}
		lines = append(lines, models.BreakdownLine{
			Kind:     models.LineKindCharge,
			SourceID: &chargeID,
			Label:    label,
			Amount:   amount,
		})
	}
	return total, lines, nil
}

// prorate scales an amount by the owner's share of a unit. A missing
// share means the lease surfaced for a unit the owner no longer holds;
// it contributes nothing.
func prorate(amount decimal.Decimal, share *models.OwnershipShare) decimal.Decimal {
	if share == nil || share.ShareDenominator == 0 {
		return decimal.Zero
	}
	if share.ShareNumerator == share.ShareDenominator {
		return amount
	}
	return amount.
		Mul(decimal.NewFromInt(share.ShareNumerator)).
		Div(decimal.NewFromInt(share.ShareDenominator))
}
