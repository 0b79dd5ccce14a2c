package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/poofware/liquidation-service/internal/models"
)

/* ───────────── public interface ───────────── */

type OwnerRepository interface {
	Create(ctx context.Context, o *models.Owner) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Owner, error)
	List(ctx context.Context) ([]*models.Owner, error)
	// ListWithHoldings returns every live owner holding at least one
	// ownership share. This is the candidate set for a pending list.
	ListWithHoldings(ctx context.Context) ([]*models.Owner, error)
	SoftDelete(ctx context.Context, id uuid.UUID) error
}

/* ───────────── implementation ───────────── */

type ownerRepo struct {
	db DB
}

func NewOwnerRepository(db DB) OwnerRepository {
	return &ownerRepo{db: db}
}

func baseSelectOwner() string {
	return `
		SELECT id, display_name, email, deleted_at, created_at
		FROM owners
	`
}

func (r *ownerRepo) scanOwner(row pgx.Row) (*models.Owner, error) {
	var o models.Owner
	err := row.Scan(&o.ID, &o.DisplayName, &o.Email, &o.DeletedAt, &o.CreatedAt)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *ownerRepo) Create(ctx context.Context, o *models.Owner) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO owners (id, display_name, email, created_at)
		VALUES ($1, $2, $3, NOW())
	`, o.ID, o.DisplayName, o.Email)
	return err
}

func (r *ownerRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Owner, error) {
	row := r.db.QueryRow(ctx, baseSelectOwner()+" WHERE id = $1 AND deleted_at IS NULL", id)
	return r.scanOwner(row)
}

func (r *ownerRepo) List(ctx context.Context) ([]*models.Owner, error) {
	rows, err := r.db.Query(ctx, baseSelectOwner()+" WHERE deleted_at IS NULL ORDER BY display_name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return r.collect(rows)
}

func (r *ownerRepo) ListWithHoldings(ctx context.Context) ([]*models.Owner, error) {
	q := baseSelectOwner() + `
		WHERE deleted_at IS NULL
		  AND EXISTS (SELECT 1 FROM ownership_shares s WHERE s.owner_id = owners.id)
		ORDER BY display_name, id
	`
	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return r.collect(rows)
}

func (r *ownerRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.Exec(ctx, `
		UPDATE owners SET deleted_at = NOW() WHERE id = $1 AND deleted_at IS NULL
	`, id)
	return err
}

func (r *ownerRepo) collect(rows pgx.Rows) ([]*models.Owner, error) {
	var owners []*models.Owner
	for rows.Next() {
		o, err := r.scanOwner(rows)
		if err != nil {
			return nil, err
		}
		owners = append(owners, o)
	}
	return owners, rows.Err()
}
