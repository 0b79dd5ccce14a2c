package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/poofware/liquidation-service/internal/models"
)

/* ───────────── public interface ───────────── */

type MandateRepository interface {
	Create(ctx context.Context, m *models.Mandate) error
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*models.Mandate, error)

	// GetMandate resolves the mandate in force for an owner on a date.
	// A unit-scoped mandate wins over a portfolio-wide one when unitID
	// is given. Returns nil when none resolves.
	GetMandate(ctx context.Context, ownerID uuid.UUID, unitID *uuid.UUID, effectiveOn time.Time) (*models.Mandate, error)
}

/* ───────────── implementation ───────────── */

type mandateRepo struct {
	db DB
}

func NewMandateRepository(db DB) MandateRepository {
	return &mandateRepo{db: db}
}

func baseSelectMandate() string {
	return `
		SELECT id, owner_id, unit_id, fee_rate_percent, fee_basis,
		       valid_from, valid_until, created_at
		FROM mandates
	`
}

func (r *mandateRepo) scanMandate(row pgx.Row) (*models.Mandate, error) {
	var m models.Mandate
	err := row.Scan(
		&m.ID, &m.OwnerID, &m.UnitID, &m.FeeRatePercent, &m.FeeBasis,
		&m.ValidFrom, &m.ValidUntil, &m.CreatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *mandateRepo) Create(ctx context.Context, m *models.Mandate) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO mandates (
			id, owner_id, unit_id, fee_rate_percent, fee_basis,
			valid_from, valid_until, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
	`, m.ID, m.OwnerID, m.UnitID, m.FeeRatePercent, m.FeeBasis, m.ValidFrom, m.ValidUntil)
	return err
}

func (r *mandateRepo) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*models.Mandate, error) {
	rows, err := r.db.Query(ctx, baseSelectMandate()+" WHERE owner_id = $1 ORDER BY valid_from DESC", ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var mandates []*models.Mandate
	for rows.Next() {
		m, err := r.scanMandate(rows)
		if err != nil {
			return nil, err
		}
		mandates = append(mandates, m)
	}
	return mandates, rows.Err()
}

func (r *mandateRepo) GetMandate(ctx context.Context, ownerID uuid.UUID, unitID *uuid.UUID, effectiveOn time.Time) (*models.Mandate, error) {
	// unit_id IS NOT DISTINCT FROM matching is not what we want here:
	// a unit-scoped lookup should still fall back to the portfolio
	// mandate, so order unit-scoped rows first and take the newest.
	q := baseSelectMandate() + `
		WHERE owner_id = $1
		  AND (unit_id IS NULL OR unit_id = $2)
		  AND valid_from <= $3
		  AND (valid_until IS NULL OR valid_until >= $3)
		ORDER BY (unit_id IS NULL), valid_from DESC
		LIMIT 1
	`
	row := r.db.QueryRow(ctx, q, ownerID, unitID, effectiveOn)
	return r.scanMandate(row)
}
