package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/poofware/liquidation-service/internal/constants"
	"github.com/poofware/liquidation-service/internal/dtos"
	"github.com/poofware/liquidation-service/internal/models"
	"github.com/poofware/liquidation-service/internal/repositories"
	"github.com/poofware/liquidation-service/internal/utils"
)

// LiquidationService orchestrates the liquidation lifecycle: preview
// (unpersisted), create (persisted, idempotent per owner/period),
// pending list and history.
type LiquidationService struct {
	calc      *CalculatorService
	ownerRepo repositories.OwnerRepository
	liqRepo   repositories.LiquidationRepository
}

func NewLiquidationService(
	calc *CalculatorService,
	ownerRepo repositories.OwnerRepository,
	liqRepo repositories.LiquidationRepository,
) *LiquidationService {
	return &LiquidationService{
		calc:      calc,
		ownerRepo: ownerRepo,
		liqRepo:   liqRepo,
	}
}

// Preview computes a breakdown without persisting anything. Results
// derive from the live ledgers and must not be cached past the request
// that produced them.
func (s *LiquidationService) Preview(ctx context.Context, ownerID uuid.UUID, month, year int) (*models.Breakdown, error) {
	return s.calc.Compute(ctx, ownerID, month, year)
}

// Create recomputes the breakdown authoritatively and persists the
// snapshot. A client-supplied breakdown is never trusted: previews can
// go stale between preview and create. The store's uniqueness
// constraint decides duplicate races; there is no check-then-insert.
func (s *LiquidationService) Create(ctx context.Context, ownerID uuid.UUID, month, year int) (*models.Liquidation, error) {
	b, err := s.calc.Compute(ctx, ownerID, month, year)
	if err != nil {
		return nil, err
	}

	liq := &models.Liquidation{
		ID:             uuid.New(),
		OwnerID:        ownerID,
		Month:          month,
		Year:           year,
		TotalRent:      b.TotalRent,
		TotalCharges:   b.TotalCharges,
		TotalFees:      b.TotalFees,
		FeeRateApplied: b.FeeRateApplied,
		FeeBasis:       b.FeeBasis,
		NetAmount:      b.NetAmount,
		Status:         models.LiquidationStatusValidated,
	}
	for i, line := range b.Lines {
		liq.Lines = append(liq.Lines, models.LiquidationLine{
			ID:            uuid.New(),
			LiquidationID: liq.ID,
			Kind:          line.Kind,
			Label:         line.Label,
			Amount:        line.Amount,
			Position:      i,
		})
	}

	if err := s.liqRepo.Create(ctx, liq); err != nil {
		if errors.Is(err, utils.ErrDuplicateLiquidation) {
			return nil, err
		}
		return nil, utils.NewUpstreamReadError("liquidations", err)
	}

	// Re-read for the store-assigned created_at.
	created, err := s.liqRepo.GetByID(ctx, liq.ID)
	if err != nil || created == nil {
		// The row is committed; return what we have rather than fail
		// the create over a read-back hiccup.
		utils.Logger.WithError(err).Warnf("Could not re-read liquidation %s after create", liq.ID)
		return liq, nil
	}
	return created, nil
}

// ListPending computes a breakdown for every owner holding units who
// has no persisted liquidation for the period. Owners blocked by a
// missing mandate stay listed with a reason instead of a breakdown, so
// the union of pending and history always covers every relevant owner.
func (s *LiquidationService) ListPending(ctx context.Context, month, year int) (*dtos.PendingListResponse, error) {
	if !utils.ValidPeriod(month, year) {
		return nil, utils.ErrInvalidPeriod
	}

	owners, err := s.ownerRepo.ListWithHoldings(ctx)
	if err != nil {
		return nil, utils.NewUpstreamReadError("owners", err)
	}

	doneIDs, err := s.liqRepo.ListOwnerIDsForPeriod(ctx, month, year)
	if err != nil {
		return nil, utils.NewUpstreamReadError("liquidations", err)
	}
	done := make(map[uuid.UUID]bool, len(doneIDs))
	for _, id := range doneIDs {
		done[id] = true
	}

	resp := &dtos.PendingListResponse{
		Month:   month,
		Year:    year,
		Entries: []dtos.PendingEntry{},
	}
	for _, owner := range owners {
		if done[owner.ID] {
			continue
		}
		b, err := s.calc.Compute(ctx, owner.ID, month, year)
		if err != nil {
			if errors.Is(err, utils.ErrNoMandate) {
				resp.Entries = append(resp.Entries, dtos.PendingEntry{
					Owner:         owner,
					BlockedReason: utils.ErrCodeMandateMissing,
				})
				continue
			}
			return nil, err
		}
		resp.Entries = append(resp.Entries, dtos.PendingEntry{Owner: owner, Breakdown: b})
	}
	return resp, nil
}

// History lists persisted liquidations only. Transient breakdowns are
// never included.
func (s *LiquidationService) History(ctx context.Context, f repositories.HistoryFilter) (*dtos.PagedLiquidations, error) {
	if f.Month != nil && (*f.Month < 1 || *f.Month > 12) {
		return nil, utils.ErrInvalidPeriod
	}

	items, total, err := s.liqRepo.List(ctx, f)
	if err != nil {
		return nil, utils.NewUpstreamReadError("liquidations", err)
	}
	if items == nil {
		items = []*models.Liquidation{}
	}

	page := f.Page
	if page < 1 {
		page = 1
	}
	pageSize := f.PageSize
	if pageSize < 1 {
		pageSize = constants.DefaultPageSize
	}
	return &dtos.PagedLiquidations{
		Items:    items,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}, nil
}
