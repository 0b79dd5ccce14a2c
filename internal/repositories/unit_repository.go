package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/poofware/liquidation-service/internal/models"
)

/* ───────────── public interface ───────────── */

type UnitRepository interface {
	Create(ctx context.Context, u *models.Unit) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Unit, error)
	List(ctx context.Context) ([]*models.Unit, error)

	// AssignOwner upserts an ownership share for (owner, unit).
	AssignOwner(ctx context.Context, s *models.OwnershipShare) error
	// GetUnitsOwnedBy returns the owner's shares, one per held unit.
	GetUnitsOwnedBy(ctx context.Context, ownerID uuid.UUID) ([]*models.OwnershipShare, error)
	ListOwnersOfUnit(ctx context.Context, unitID uuid.UUID) ([]*models.OwnershipShare, error)
}

/* ───────────── implementation ───────────── */

type unitRepo struct {
	db DB
}

func NewUnitRepository(db DB) UnitRepository {
	return &unitRepo{db: db}
}

func baseSelectUnit() string {
	return `
		SELECT id, label, address, created_at
		FROM units
	`
}

func (r *unitRepo) scanUnit(row pgx.Row) (*models.Unit, error) {
	var u models.Unit
	err := row.Scan(&u.ID, &u.Label, &u.Address, &u.CreatedAt)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *unitRepo) Create(ctx context.Context, u *models.Unit) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO units (id, label, address, created_at)
		VALUES ($1, $2, $3, NOW())
	`, u.ID, u.Label, u.Address)
	return err
}

func (r *unitRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Unit, error) {
	row := r.db.QueryRow(ctx, baseSelectUnit()+" WHERE id = $1", id)
	return r.scanUnit(row)
}

func (r *unitRepo) List(ctx context.Context) ([]*models.Unit, error) {
	rows, err := r.db.Query(ctx, baseSelectUnit()+" ORDER BY label")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var units []*models.Unit
	for rows.Next() {
		u, err := r.scanUnit(rows)
		if err != nil {
			return nil, err
		}
		units = append(units, u)
	}
	return units, rows.Err()
}

func (r *unitRepo) AssignOwner(ctx context.Context, s *models.OwnershipShare) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO ownership_shares (owner_id, unit_id, share_numerator, share_denominator)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (owner_id, unit_id)
		DO UPDATE SET share_numerator = $3, share_denominator = $4
	`, s.OwnerID, s.UnitID, s.ShareNumerator, s.ShareDenominator)
	return err
}

func (r *unitRepo) GetUnitsOwnedBy(ctx context.Context, ownerID uuid.UUID) ([]*models.OwnershipShare, error) {
	return r.listShares(ctx, `
		SELECT owner_id, unit_id, share_numerator, share_denominator
		FROM ownership_shares WHERE owner_id = $1 ORDER BY unit_id
	`, ownerID)
}

func (r *unitRepo) ListOwnersOfUnit(ctx context.Context, unitID uuid.UUID) ([]*models.OwnershipShare, error) {
	return r.listShares(ctx, `
		SELECT owner_id, unit_id, share_numerator, share_denominator
		FROM ownership_shares WHERE unit_id = $1 ORDER BY owner_id
	`, unitID)
}

func (r *unitRepo) listShares(ctx context.Context, q string, arg interface{}) ([]*models.OwnershipShare, error) {
	rows, err := r.db.Query(ctx, q, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var shares []*models.OwnershipShare
	for rows.Next() {
		var s models.OwnershipShare
		if err := rows.Scan(&s.OwnerID, &s.UnitID, &s.ShareNumerator, &s.ShareDenominator); err != nil {
			return nil, err
		}
		shares = append(shares, &s)
	}
	return shares, rows.Err()
}
