package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/poofware/liquidation-service/internal/constants"
	"github.com/poofware/liquidation-service/internal/dtos"
	"github.com/poofware/liquidation-service/internal/models"
	"github.com/poofware/liquidation-service/internal/repositories"
	"github.com/poofware/liquidation-service/internal/utils"
)

// LedgerService is the write path for the ledgers the calculator reads:
// owners, units and shares, leases and rent entries, mandates, charges.
// It enforces referential checks the storage layer alone cannot give a
// useful error for.
type LedgerService struct {
	ownerRepo   repositories.OwnerRepository
	unitRepo    repositories.UnitRepository
	leaseRepo   repositories.LeaseRepository
	mandateRepo repositories.MandateRepository
	chargeRepo  repositories.ChargeRepository
}

func NewLedgerService(
	ownerRepo repositories.OwnerRepository,
	unitRepo repositories.UnitRepository,
	leaseRepo repositories.LeaseRepository,
	mandateRepo repositories.MandateRepository,
	chargeRepo repositories.ChargeRepository,
) *LedgerService {
	return &LedgerService{
		ownerRepo:   ownerRepo,
		unitRepo:    unitRepo,
		leaseRepo:   leaseRepo,
		mandateRepo: mandateRepo,
		chargeRepo:  chargeRepo,
	}
}

func (s *LedgerService) CreateOwner(ctx context.Context, req dtos.CreateOwnerRequest) (*models.Owner, error) {
	o := &models.Owner{
		ID:          uuid.New(),
		DisplayName: req.DisplayName,
		Email:       req.Email,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.ownerRepo.Create(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

func (s *LedgerService) CreateUnit(ctx context.Context, req dtos.CreateUnitRequest) (*models.Unit, error) {
	u := &models.Unit{
		ID:        uuid.New(),
		Label:     req.Label,
		Address:   req.Address,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.unitRepo.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *LedgerService) AssignOwner(ctx context.Context, unitID uuid.UUID, req dtos.AssignOwnerRequest) (*models.OwnershipShare, error) {
	if unit, err := s.unitRepo.GetByID(ctx, unitID); err != nil {
		return nil, err
	} else if unit == nil {
		return nil, utils.ErrUnitNotFound
	}
	if owner, err := s.ownerRepo.GetByID(ctx, req.OwnerID); err != nil {
		return nil, err
	} else if owner == nil {
		return nil, utils.ErrOwnerNotFound
	}

	share := &models.OwnershipShare{
		OwnerID:          req.OwnerID,
		UnitID:           unitID,
		ShareNumerator:   req.ShareNumerator,
		ShareDenominator: req.ShareDenominator,
	}
	if err := s.unitRepo.AssignOwner(ctx, share); err != nil {
		return nil, err
	}
	return share, nil
}

func (s *LedgerService) CreateLease(ctx context.Context, req dtos.CreateLeaseRequest) (*models.Lease, error) {
	if unit, err := s.unitRepo.GetByID(ctx, req.UnitID); err != nil {
		return nil, err
	} else if unit == nil {
		return nil, utils.ErrUnitNotFound
	}

	startDate, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		return nil, err
	}
	var endDate *time.Time
	if req.EndDate != "" {
		d, err := time.Parse("2006-01-02", req.EndDate)
		if err != nil {
			return nil, err
		}
		endDate = &d
	}

	l := &models.Lease{
		ID:            uuid.New(),
		UnitID:        req.UnitID,
		TenantName:    req.TenantName,
		RentAmount:    req.RentAmount,
		ChargesAmount: req.ChargesAmount,
		StartDate:     startDate,
		EndDate:       endDate,
		CreatedAt:     time.Now().UTC(),
	}
	if err := s.leaseRepo.Create(ctx, l); err != nil {
		return nil, err
	}
	return l, nil
}

func (s *LedgerService) RecordRentEntry(ctx context.Context, req dtos.RecordRentEntryRequest) (*models.RentEntry, error) {
	if lease, err := s.leaseRepo.GetByID(ctx, req.LeaseID); err != nil {
		return nil, err
	} else if lease == nil {
		return nil, utils.ErrLeaseNotFound
	}
	if !utils.ValidPeriod(req.Month, req.Year) {
		return nil, utils.ErrInvalidPeriod
	}

	e := &models.RentEntry{
		ID:              uuid.New(),
		LeaseID:         req.LeaseID,
		Month:           req.Month,
		Year:            req.Year,
		InvoicedAmount:  req.InvoicedAmount,
		CollectedAmount: req.CollectedAmount,
	}
	if err := s.leaseRepo.RecordRentEntry(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

func (s *LedgerService) CreateMandate(ctx context.Context, req dtos.CreateMandateRequest) (*models.Mandate, error) {
	if owner, err := s.ownerRepo.GetByID(ctx, req.OwnerID); err != nil {
		return nil, err
	} else if owner == nil {
		return nil, utils.ErrOwnerNotFound
	}

	validFrom, err := time.Parse("2006-01-02", req.ValidFrom)
	if err != nil {
		return nil, err
	}
	var validUntil *time.Time
	if req.ValidUntil != "" {
		d, err := time.Parse("2006-01-02", req.ValidUntil)
		if err != nil {
			return nil, err
		}
		validUntil = &d
	}

	m := &models.Mandate{
		ID:             uuid.New(),
		OwnerID:        req.OwnerID,
		UnitID:         req.UnitID,
		FeeRatePercent: req.FeeRatePercent,
		FeeBasis:       req.FeeBasis,
		ValidFrom:      validFrom,
		ValidUntil:     validUntil,
		CreatedAt:      time.Now().UTC(),
	}
	if err := s.mandateRepo.Create(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *LedgerService) CreateCharge(ctx context.Context, req dtos.CreateChargeRequest) (*models.Charge, error) {
	switch req.ImputedType {
	case constants.ImputedUnit:
		if req.ImputedID == nil {
			return nil, utils.ErrUnitNotFound
		}
		if unit, err := s.unitRepo.GetByID(ctx, *req.ImputedID); err != nil {
			return nil, err
		} else if unit == nil {
			return nil, utils.ErrUnitNotFound
		}
	case constants.ImputedLease:
		if req.ImputedID == nil {
			return nil, utils.ErrLeaseNotFound
		}
		if lease, err := s.leaseRepo.GetByID(ctx, *req.ImputedID); err != nil {
			return nil, err
		} else if lease == nil {
			return nil, utils.ErrLeaseNotFound
		}
	}
	if req.PayerType == constants.PayerOwner {
		if req.PayerID == nil {
			return nil, utils.ErrOwnerNotFound
		}
		if owner, err := s.ownerRepo.GetByID(ctx, *req.PayerID); err != nil {
			return nil, err
		} else if owner == nil {
			return nil, utils.ErrOwnerNotFound
		}
	}

	c := &models.Charge{
		ID:     uuid.New(),
		Amount: req.Amount,
		ImputedTo: models.ChargeTarget{
			Type: req.ImputedType,
			ID:   req.ImputedID,
		},
		Payer: models.ChargePayer{
			Type: req.PayerType,
			ID:   req.PayerID,
		},
		OwnerBorne: req.OwnerBorne,
		Title:      req.Title,
		Notes:      req.Notes,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.chargeRepo.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}
