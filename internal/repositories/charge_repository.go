package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/poofware/liquidation-service/internal/models"
	"github.com/poofware/liquidation-service/internal/utils"
)

/* ───────────── public interface ───────────── */

type ChargeRepository interface {
	Create(ctx context.Context, c *models.Charge) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Charge, error)
	ListForPeriod(ctx context.Context, month, year int) ([]*models.Charge, error)

	// GetChargesForOwner is the charge-ledger read for a liquidation:
	// every charge created in the period that attributes to the owner,
	// either directly (payer is the owner) or through the owner's
	// portfolio (imputed to a held unit/lease and flagged owner-borne),
	// with the owner's share attached for proration.
	GetChargesForOwner(ctx context.Context, ownerID uuid.UUID, month, year int) ([]*models.OwnerCharge, error)
}

/* ───────────── implementation ───────────── */

type chargeRepo struct {
	db DB
}

func NewChargeRepository(db DB) ChargeRepository {
	return &chargeRepo{db: db}
}

func baseSelectCharge() string {
	return `
		SELECT id, amount, imputed_type, imputed_id, payer_type, payer_id,
		       owner_borne, title, notes, created_at
		FROM charges
	`
}

func scanCharge(row pgx.Row, c *models.Charge) error {
	return row.Scan(
		&c.ID, &c.Amount, &c.ImputedTo.Type, &c.ImputedTo.ID,
		&c.Payer.Type, &c.Payer.ID, &c.OwnerBorne, &c.Title, &c.Notes, &c.CreatedAt,
	)
}

func (r *chargeRepo) Create(ctx context.Context, c *models.Charge) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO charges (
			id, amount, imputed_type, imputed_id, payer_type, payer_id,
			owner_borne, title, notes, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, c.ID, c.Amount, c.ImputedTo.Type, c.ImputedTo.ID, c.Payer.Type, c.Payer.ID,
		c.OwnerBorne, c.Title, c.Notes, c.CreatedAt)
	return err
}

func (r *chargeRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Charge, error) {
	var c models.Charge
	err := scanCharge(r.db.QueryRow(ctx, baseSelectCharge()+" WHERE id = $1", id), &c)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *chargeRepo) ListForPeriod(ctx context.Context, month, year int) ([]*models.Charge, error) {
	periodStart, periodEnd := utils.PeriodBounds(month, year)
	rows, err := r.db.Query(ctx,
		baseSelectCharge()+" WHERE created_at >= $1 AND created_at < $2 ORDER BY created_at",
		periodStart, periodEnd)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var charges []*models.Charge
	for rows.Next() {
		var c models.Charge
		if err := scanCharge(rows, &c); err != nil {
			return nil, err
		}
		charges = append(charges, &c)
	}
	return charges, rows.Err()
}

func (r *chargeRepo) GetChargesForOwner(ctx context.Context, ownerID uuid.UUID, month, year int) ([]*models.OwnerCharge, error) {
	periodStart, periodEnd := utils.PeriodBounds(month, year)

	// Direct charges count in full (share 1/1). Portfolio charges join
	// through ownership_shares, going through the lease's unit when the
	// charge is imputed to a lease. The NOT clause keeps a charge that
	// is both payer-owner and unit-imputed from attributing twice.
	q := `
		SELECT c.id, c.amount, c.imputed_type, c.imputed_id, c.payer_type, c.payer_id,
		       c.owner_borne, c.title, c.notes, c.created_at,
		       TRUE AS direct, 1::bigint, 1::bigint
		FROM charges c
		WHERE c.payer_type = 'owner' AND c.payer_id = $1
		  AND c.created_at >= $2 AND c.created_at < $3

		UNION ALL

		SELECT c.id, c.amount, c.imputed_type, c.imputed_id, c.payer_type, c.payer_id,
		       c.owner_borne, c.title, c.notes, c.created_at,
		       FALSE AS direct, s.share_numerator, s.share_denominator
		FROM charges c
		JOIN ownership_shares s ON s.owner_id = $1
		WHERE c.owner_borne
		  AND NOT (c.payer_type = 'owner' AND c.payer_id = $1)
		  AND c.created_at >= $2 AND c.created_at < $3
		  AND (
			(c.imputed_type = 'unit' AND c.imputed_id = s.unit_id)
			OR (c.imputed_type = 'lease' AND c.imputed_id IN
				(SELECT l.id FROM leases l WHERE l.unit_id = s.unit_id))
		  )

		ORDER BY created_at, id
	`
	rows, err := r.db.Query(ctx, q, ownerID, periodStart, periodEnd)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var charges []*models.OwnerCharge
	for rows.Next() {
		var oc models.OwnerCharge
		err := rows.Scan(
			&oc.ID, &oc.Amount, &oc.ImputedTo.Type, &oc.ImputedTo.ID,
			&oc.Payer.Type, &oc.Payer.ID, &oc.OwnerBorne, &oc.Title, &oc.Notes, &oc.CreatedAt,
			&oc.Direct, &oc.ShareNumerator, &oc.ShareDenominator,
		)
		if err != nil {
			return nil, err
		}
		charges = append(charges, &oc)
	}
	return charges, rows.Err()
}
