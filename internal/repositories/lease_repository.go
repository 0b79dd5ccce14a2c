package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/poofware/liquidation-service/internal/models"
	"github.com/poofware/liquidation-service/internal/utils"
)

/* ───────────── public interface ───────────── */

type LeaseRepository interface {
	Create(ctx context.Context, l *models.Lease) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Lease, error)
	ListByUnit(ctx context.Context, unitID uuid.UUID) ([]*models.Lease, error)

	// GetActiveLeaseRents is the rent-ledger read: for every lease on
	// one of the given units active during the period, the invoiced and
	// collected amounts. Both fall back to the lease's contractual rent
	// when no rent entry was recorded for the period; rent is presumed
	// collected unless the ledger says otherwise.
	GetActiveLeaseRents(ctx context.Context, unitIDs []uuid.UUID, month, year int) ([]*models.LeaseRent, error)

	// RecordRentEntry upserts the invoiced/collected amounts for a
	// lease and period.
	RecordRentEntry(ctx context.Context, e *models.RentEntry) error
}

/* ───────────── implementation ───────────── */

type leaseRepo struct {
	db DB
}

func NewLeaseRepository(db DB) LeaseRepository {
	return &leaseRepo{db: db}
}

func baseSelectLease() string {
	return `
		SELECT id, unit_id, tenant_name, rent_amount, charges_amount,
		       start_date, end_date, created_at
		FROM leases
	`
}

func (r *leaseRepo) scanLease(row pgx.Row) (*models.Lease, error) {
	var l models.Lease
	err := row.Scan(
		&l.ID, &l.UnitID, &l.TenantName, &l.RentAmount, &l.ChargesAmount,
		&l.StartDate, &l.EndDate, &l.CreatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *leaseRepo) Create(ctx context.Context, l *models.Lease) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO leases (
			id, unit_id, tenant_name, rent_amount, charges_amount,
			start_date, end_date, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
	`, l.ID, l.UnitID, l.TenantName, l.RentAmount, l.ChargesAmount, l.StartDate, l.EndDate)
	return err
}

func (r *leaseRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Lease, error) {
	row := r.db.QueryRow(ctx, baseSelectLease()+" WHERE id = $1", id)
	return r.scanLease(row)
}

func (r *leaseRepo) ListByUnit(ctx context.Context, unitID uuid.UUID) ([]*models.Lease, error) {
	rows, err := r.db.Query(ctx, baseSelectLease()+" WHERE unit_id = $1 ORDER BY start_date DESC", unitID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var leases []*models.Lease
	for rows.Next() {
		l, err := r.scanLease(rows)
		if err != nil {
			return nil, err
		}
		leases = append(leases, l)
	}
	return leases, rows.Err()
}

func (r *leaseRepo) GetActiveLeaseRents(ctx context.Context, unitIDs []uuid.UUID, month, year int) ([]*models.LeaseRent, error) {
	if len(unitIDs) == 0 {
		return nil, nil
	}
	periodStart, periodEnd := utils.PeriodBounds(month, year)

	// A lease is active for the period when its date range overlaps
	// the period's half-open interval.
	q := `
		SELECT l.id, l.unit_id, l.tenant_name,
		       COALESCE(re.invoiced_amount, l.rent_amount),
		       COALESCE(re.collected_amount, l.rent_amount)
		FROM leases l
		LEFT JOIN rent_entries re
		       ON re.lease_id = l.id AND re.month = $2 AND re.year = $3
		WHERE l.unit_id = ANY($1)
		  AND l.start_date < $5
		  AND (l.end_date IS NULL OR l.end_date >= $4)
		ORDER BY l.unit_id, l.start_date
	`
	rows, err := r.db.Query(ctx, q, unitIDs, month, year, periodStart, periodEnd)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rents []*models.LeaseRent
	for rows.Next() {
		var lr models.LeaseRent
		if err := rows.Scan(&lr.LeaseID, &lr.UnitID, &lr.TenantName, &lr.InvoicedAmount, &lr.CollectedAmount); err != nil {
			return nil, err
		}
		rents = append(rents, &lr)
	}
	return rents, rows.Err()
}

func (r *leaseRepo) RecordRentEntry(ctx context.Context, e *models.RentEntry) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO rent_entries (id, lease_id, month, year, invoiced_amount, collected_amount, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		ON CONFLICT (lease_id, month, year)
		DO UPDATE SET invoiced_amount = $5, collected_amount = $6
	`, e.ID, e.LeaseID, e.Month, e.Year, e.InvoicedAmount, e.CollectedAmount)
	return err
}
