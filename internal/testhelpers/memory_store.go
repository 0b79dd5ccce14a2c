// Package testhelpers provides in-memory repository implementations
// mirroring the Postgres semantics, for service and controller tests
// that should not need a database.
package testhelpers

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/poofware/liquidation-service/internal/constants"
	"github.com/poofware/liquidation-service/internal/models"
	"github.com/poofware/liquidation-service/internal/repositories"
	"github.com/poofware/liquidation-service/internal/utils"
)

type rentKey struct {
	leaseID uuid.UUID
	month   int
	year    int
}

type periodKey struct {
	ownerID uuid.UUID
	month   int
	year    int
}

// MemoryStore holds all ledger data behind one mutex. The per-ledger
// repository views returned by OwnerRepo() etc. satisfy the repository
// interfaces the services consume.
//
// Setting an Err* field makes every call on that ledger fail, to
// exercise upstream-read error paths.
type MemoryStore struct {
	mu sync.Mutex

	owners       map[uuid.UUID]*models.Owner
	units        map[uuid.UUID]*models.Unit
	shares       []*models.OwnershipShare
	leases       map[uuid.UUID]*models.Lease
	rentEntries  map[rentKey]*models.RentEntry
	mandates     []*models.Mandate
	charges      []*models.Charge
	liquidations map[periodKey]*models.Liquidation

	ErrOwners       error
	ErrUnits        error
	ErrLeases       error
	ErrMandates     error
	ErrCharges      error
	ErrLiquidations error
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		owners:       make(map[uuid.UUID]*models.Owner),
		units:        make(map[uuid.UUID]*models.Unit),
		leases:       make(map[uuid.UUID]*models.Lease),
		rentEntries:  make(map[rentKey]*models.RentEntry),
		liquidations: make(map[periodKey]*models.Liquidation),
	}
}

func (s *MemoryStore) OwnerRepo() repositories.OwnerRepository             { return &memOwnerRepo{s} }
func (s *MemoryStore) UnitRepo() repositories.UnitRepository               { return &memUnitRepo{s} }
func (s *MemoryStore) LeaseRepo() repositories.LeaseRepository             { return &memLeaseRepo{s} }
func (s *MemoryStore) MandateRepo() repositories.MandateRepository         { return &memMandateRepo{s} }
func (s *MemoryStore) ChargeRepo() repositories.ChargeRepository           { return &memChargeRepo{s} }
func (s *MemoryStore) LiquidationRepo() repositories.LiquidationRepository { return &memLiquidationRepo{s} }

/* ───────────── owners ───────────── */

type memOwnerRepo struct{ s *MemoryStore }

func (r *memOwnerRepo) Create(_ context.Context, o *models.Owner) error {
	if r.s.ErrOwners != nil {
		return r.s.ErrOwners
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *o
	if cp.CreatedAt.IsZero() {
		cp.CreatedAt = time.Now().UTC()
	}
	r.s.owners[cp.ID] = &cp
	return nil
}

func (r *memOwnerRepo) GetByID(_ context.Context, id uuid.UUID) (*models.Owner, error) {
	if r.s.ErrOwners != nil {
		return nil, r.s.ErrOwners
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	o, ok := r.s.owners[id]
	if !ok || o.DeletedAt != nil {
		return nil, nil
	}
	cp := *o
	return &cp, nil
}

func (r *memOwnerRepo) List(_ context.Context) ([]*models.Owner, error) {
	if r.s.ErrOwners != nil {
		return nil, r.s.ErrOwners
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*models.Owner
	for _, o := range r.s.owners {
		if o.DeletedAt == nil {
			cp := *o
			out = append(out, &cp)
		}
	}
	sortOwners(out)
	return out, nil
}

func (r *memOwnerRepo) ListWithHoldings(_ context.Context) ([]*models.Owner, error) {
	if r.s.ErrOwners != nil {
		return nil, r.s.ErrOwners
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	holding := make(map[uuid.UUID]bool)
	for _, sh := range r.s.shares {
		holding[sh.OwnerID] = true
	}
	var out []*models.Owner
	for _, o := range r.s.owners {
		if o.DeletedAt == nil && holding[o.ID] {
			cp := *o
			out = append(out, &cp)
		}
	}
	sortOwners(out)
	return out, nil
}

func (r *memOwnerRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	if r.s.ErrOwners != nil {
		return r.s.ErrOwners
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if o, ok := r.s.owners[id]; ok && o.DeletedAt == nil {
		now := time.Now().UTC()
		o.DeletedAt = &now
	}
	return nil
}

func sortOwners(owners []*models.Owner) {
	sort.Slice(owners, func(i, j int) bool {
		if owners[i].DisplayName != owners[j].DisplayName {
			return owners[i].DisplayName < owners[j].DisplayName
		}
		return owners[i].ID.String() < owners[j].ID.String()
	})
}

/* ───────────── units & shares ───────────── */

type memUnitRepo struct{ s *MemoryStore }

func (r *memUnitRepo) Create(_ context.Context, u *models.Unit) error {
	if r.s.ErrUnits != nil {
		return r.s.ErrUnits
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *u
	r.s.units[cp.ID] = &cp
	return nil
}

func (r *memUnitRepo) GetByID(_ context.Context, id uuid.UUID) (*models.Unit, error) {
	if r.s.ErrUnits != nil {
		return nil, r.s.ErrUnits
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.units[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (r *memUnitRepo) List(_ context.Context) ([]*models.Unit, error) {
	if r.s.ErrUnits != nil {
		return nil, r.s.ErrUnits
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*models.Unit
	for _, u := range r.s.units {
		cp := *u
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Label < out[j].Label })
	return out, nil
}

func (r *memUnitRepo) AssignOwner(_ context.Context, s *models.OwnershipShare) error {
	if r.s.ErrUnits != nil {
		return r.s.ErrUnits
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.shares {
		if existing.OwnerID == s.OwnerID && existing.UnitID == s.UnitID {
			existing.ShareNumerator = s.ShareNumerator
			existing.ShareDenominator = s.ShareDenominator
			return nil
		}
	}
	cp := *s
	r.s.shares = append(r.s.shares, &cp)
	return nil
}

func (r *memUnitRepo) GetUnitsOwnedBy(_ context.Context, ownerID uuid.UUID) ([]*models.OwnershipShare, error) {
	if r.s.ErrUnits != nil {
		return nil, r.s.ErrUnits
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*models.OwnershipShare
	for _, sh := range r.s.shares {
		if sh.OwnerID == ownerID {
			cp := *sh
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *memUnitRepo) ListOwnersOfUnit(_ context.Context, unitID uuid.UUID) ([]*models.OwnershipShare, error) {
	if r.s.ErrUnits != nil {
		return nil, r.s.ErrUnits
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*models.OwnershipShare
	for _, sh := range r.s.shares {
		if sh.UnitID == unitID {
			cp := *sh
			out = append(out, &cp)
		}
	}
	return out, nil
}

/* ───────────── leases & rent entries ───────────── */

type memLeaseRepo struct{ s *MemoryStore }

func (r *memLeaseRepo) Create(_ context.Context, l *models.Lease) error {
	if r.s.ErrLeases != nil {
		return r.s.ErrLeases
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *l
	r.s.leases[cp.ID] = &cp
	return nil
}

func (r *memLeaseRepo) GetByID(_ context.Context, id uuid.UUID) (*models.Lease, error) {
	if r.s.ErrLeases != nil {
		return nil, r.s.ErrLeases
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	l, ok := r.s.leases[id]
	if !ok {
		return nil, nil
	}
	cp := *l
	return &cp, nil
}

func (r *memLeaseRepo) ListByUnit(_ context.Context, unitID uuid.UUID) ([]*models.Lease, error) {
	if r.s.ErrLeases != nil {
		return nil, r.s.ErrLeases
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*models.Lease
	for _, l := range r.s.leases {
		if l.UnitID == unitID {
			cp := *l
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartDate.After(out[j].StartDate) })
	return out, nil
}

func (r *memLeaseRepo) GetActiveLeaseRents(_ context.Context, unitIDs []uuid.UUID, month, year int) ([]*models.LeaseRent, error) {
	if r.s.ErrLeases != nil {
		return nil, r.s.ErrLeases
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	wanted := make(map[uuid.UUID]bool, len(unitIDs))
	for _, id := range unitIDs {
		wanted[id] = true
	}

	var out []*models.LeaseRent
	for _, l := range r.s.leases {
		if !wanted[l.UnitID] || !utils.LeaseActiveInPeriod(l.StartDate, l.EndDate, month, year) {
			continue
		}
		lr := &models.LeaseRent{
			LeaseID:         l.ID,
			UnitID:          l.UnitID,
			TenantName:      l.TenantName,
			InvoicedAmount:  l.RentAmount,
			CollectedAmount: l.RentAmount,
		}
		if e, ok := r.s.rentEntries[rentKey{l.ID, month, year}]; ok {
			lr.InvoicedAmount = e.InvoicedAmount
			lr.CollectedAmount = e.CollectedAmount
		}
		out = append(out, lr)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LeaseID.String() < out[j].LeaseID.String() })
	return out, nil
}

func (r *memLeaseRepo) RecordRentEntry(_ context.Context, e *models.RentEntry) error {
	if r.s.ErrLeases != nil {
		return r.s.ErrLeases
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *e
	r.s.rentEntries[rentKey{e.LeaseID, e.Month, e.Year}] = &cp
	return nil
}

/* ───────────── mandates ───────────── */

type memMandateRepo struct{ s *MemoryStore }

func (r *memMandateRepo) Create(_ context.Context, m *models.Mandate) error {
	if r.s.ErrMandates != nil {
		return r.s.ErrMandates
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *m
	r.s.mandates = append(r.s.mandates, &cp)
	return nil
}

func (r *memMandateRepo) ListByOwner(_ context.Context, ownerID uuid.UUID) ([]*models.Mandate, error) {
	if r.s.ErrMandates != nil {
		return nil, r.s.ErrMandates
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*models.Mandate
	for _, m := range r.s.mandates {
		if m.OwnerID == ownerID {
			cp := *m
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ValidFrom.After(out[j].ValidFrom) })
	return out, nil
}

func (r *memMandateRepo) GetMandate(_ context.Context, ownerID uuid.UUID, unitID *uuid.UUID, effectiveOn time.Time) (*models.Mandate, error) {
	if r.s.ErrMandates != nil {
		return nil, r.s.ErrMandates
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var best *models.Mandate
	for _, m := range r.s.mandates {
		if m.OwnerID != ownerID || !m.CoversDate(effectiveOn) {
			continue
		}
		if m.UnitID != nil && (unitID == nil || *m.UnitID != *unitID) {
			continue
		}
		if best == nil || betterMandate(m, best) {
			best = m
		}
	}
	if best == nil {
		return nil, nil
	}
	cp := *best
	return &cp, nil
}

// betterMandate mirrors the SQL ordering: unit-scoped first, then the
// most recent valid_from.
func betterMandate(candidate, current *models.Mandate) bool {
	candUnit := candidate.UnitID != nil
	curUnit := current.UnitID != nil
	if candUnit != curUnit {
		return candUnit
	}
	return candidate.ValidFrom.After(current.ValidFrom)
}

/* ───────────── charges ───────────── */

type memChargeRepo struct{ s *MemoryStore }

func (r *memChargeRepo) Create(_ context.Context, c *models.Charge) error {
	if r.s.ErrCharges != nil {
		return r.s.ErrCharges
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *c
	r.s.charges = append(r.s.charges, &cp)
	return nil
}

func (r *memChargeRepo) GetByID(_ context.Context, id uuid.UUID) (*models.Charge, error) {
	if r.s.ErrCharges != nil {
		return nil, r.s.ErrCharges
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, c := range r.s.charges {
		if c.ID == id {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memChargeRepo) ListForPeriod(_ context.Context, month, year int) ([]*models.Charge, error) {
	if r.s.ErrCharges != nil {
		return nil, r.s.ErrCharges
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	start, end := utils.PeriodBounds(month, year)
	var out []*models.Charge
	for _, c := range r.s.charges {
		if !c.CreatedAt.Before(start) && c.CreatedAt.Before(end) {
			cp := *c
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *memChargeRepo) GetChargesForOwner(_ context.Context, ownerID uuid.UUID, month, year int) ([]*models.OwnerCharge, error) {
	if r.s.ErrCharges != nil {
		return nil, r.s.ErrCharges
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	start, end := utils.PeriodBounds(month, year)
	shareByUnit := make(map[uuid.UUID]*models.OwnershipShare)
	for _, sh := range r.s.shares {
		if sh.OwnerID == ownerID {
			shareByUnit[sh.UnitID] = sh
		}
	}

	var out []*models.OwnerCharge
	for _, c := range r.s.charges {
		if c.CreatedAt.Before(start) || !c.CreatedAt.Before(end) {
			continue
		}
		direct := c.Payer.Type == constants.PayerOwner && c.Payer.ID != nil && *c.Payer.ID == ownerID
		if direct {
			out = append(out, &models.OwnerCharge{Charge: *c, Direct: true, ShareNumerator: 1, ShareDenominator: 1})
			continue
		}
		if !c.OwnerBorne || c.ImputedTo.ID == nil {
			continue
		}
		var unitID uuid.UUID
		switch c.ImputedTo.Type {
		case constants.ImputedUnit:
			unitID = *c.ImputedTo.ID
		case constants.ImputedLease:
			lease, ok := r.s.leases[*c.ImputedTo.ID]
			if !ok {
				continue
			}
			unitID = lease.UnitID
		default:
			continue
		}
		if sh, ok := shareByUnit[unitID]; ok {
			out = append(out, &models.OwnerCharge{
				Charge:           *c,
				ShareNumerator:   sh.ShareNumerator,
				ShareDenominator: sh.ShareDenominator,
			})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	return out, nil
}

/* ───────────── liquidations ───────────── */

type memLiquidationRepo struct{ s *MemoryStore }

func (r *memLiquidationRepo) Create(_ context.Context, l *models.Liquidation) error {
	if r.s.ErrLiquidations != nil {
		return r.s.ErrLiquidations
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	key := periodKey{l.OwnerID, l.Month, l.Year}
	if _, exists := r.s.liquidations[key]; exists {
		return utils.ErrDuplicateLiquidation
	}
	cp := *l
	cp.Lines = append([]models.LiquidationLine(nil), l.Lines...)
	if cp.CreatedAt.IsZero() {
		cp.CreatedAt = time.Now().UTC()
	}
	r.s.liquidations[key] = &cp
	return nil
}

func (r *memLiquidationRepo) GetByID(_ context.Context, id uuid.UUID) (*models.Liquidation, error) {
	if r.s.ErrLiquidations != nil {
		return nil, r.s.ErrLiquidations
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, l := range r.s.liquidations {
		if l.ID == id {
			cp := *l
			cp.Lines = append([]models.LiquidationLine(nil), l.Lines...)
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memLiquidationRepo) GetByOwnerAndPeriod(_ context.Context, ownerID uuid.UUID, month, year int) (*models.Liquidation, error) {
	if r.s.ErrLiquidations != nil {
		return nil, r.s.ErrLiquidations
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	l, ok := r.s.liquidations[periodKey{ownerID, month, year}]
	if !ok {
		return nil, nil
	}
	cp := *l
	return &cp, nil
}

func (r *memLiquidationRepo) ListOwnerIDsForPeriod(_ context.Context, month, year int) ([]uuid.UUID, error) {
	if r.s.ErrLiquidations != nil {
		return nil, r.s.ErrLiquidations
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []uuid.UUID
	for key := range r.s.liquidations {
		if key.month == month && key.year == year {
			out = append(out, key.ownerID)
		}
	}
	return out, nil
}

func (r *memLiquidationRepo) List(_ context.Context, f repositories.HistoryFilter) ([]*models.Liquidation, int, error) {
	if r.s.ErrLiquidations != nil {
		return nil, 0, r.s.ErrLiquidations
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var all []*models.Liquidation
	for _, l := range r.s.liquidations {
		if f.Month != nil && l.Month != *f.Month {
			continue
		}
		if f.Year != nil && l.Year != *f.Year {
			continue
		}
		cp := *l
		all = append(all, &cp)
	}

	desc := f.SortDir == "desc"
	sort.Slice(all, func(i, j int) bool {
		// cmp < 0 when i sorts before j ascending; equal keys fall
		// through to the id tiebreak, matching the SQL's ORDER BY.
		var cmp int
		switch f.SortBy {
		case "net_amount":
			cmp = all[i].NetAmount.Cmp(all[j].NetAmount)
		case "created_at":
			if all[i].CreatedAt.Before(all[j].CreatedAt) {
				cmp = -1
			} else if all[i].CreatedAt.After(all[j].CreatedAt) {
				cmp = 1
			}
		default:
			switch {
			case all[i].Year != all[j].Year:
				cmp = all[i].Year - all[j].Year
			default:
				cmp = all[i].Month - all[j].Month
			}
		}
		if cmp == 0 {
			return all[i].ID.String() < all[j].ID.String()
		}
		if desc {
			return cmp > 0
		}
		return cmp < 0
	})

	total := len(all)
	page := f.Page
	if page < 1 {
		page = 1
	}
	pageSize := f.PageSize
	if pageSize < 1 {
		pageSize = constants.DefaultPageSize
	}
	lo := (page - 1) * pageSize
	if lo > total {
		lo = total
	}
	hi := lo + pageSize
	if hi > total {
		hi = total
	}
	return all[lo:hi], total, nil
}
