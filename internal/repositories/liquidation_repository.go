package repositories

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/poofware/liquidation-service/internal/constants"
	"github.com/poofware/liquidation-service/internal/models"
	"github.com/poofware/liquidation-service/internal/utils"
)

// HistoryFilter narrows and orders the historical liquidation list.
type HistoryFilter struct {
	Month    *int
	Year     *int
	SortBy   string // period | net_amount | created_at
	SortDir  string // asc | desc
	Page     int
	PageSize int
}

/* ───────────── public interface ───────────── */

type LiquidationRepository interface {
	// Create persists a liquidation with its breakdown lines in one
	// transaction. The unique (owner_id, month, year) constraint is the
	// idempotency guarantee: a concurrent create for the same key loses
	// the insert race and gets utils.ErrDuplicateLiquidation. There is
	// no update or delete path; the table is append-only.
	Create(ctx context.Context, l *models.Liquidation) error

	GetByID(ctx context.Context, id uuid.UUID) (*models.Liquidation, error)
	GetByOwnerAndPeriod(ctx context.Context, ownerID uuid.UUID, month, year int) (*models.Liquidation, error)

	// ListOwnerIDsForPeriod returns the owners already liquidated for a
	// period. The pending list excludes them.
	ListOwnerIDsForPeriod(ctx context.Context, month, year int) ([]uuid.UUID, error)

	// List is the history read path: persisted rows only, filtered,
	// sorted and paged. Returns the page plus the unpaged total.
	List(ctx context.Context, f HistoryFilter) ([]*models.Liquidation, int, error)
}

/* ───────────── implementation ───────────── */

type liquidationRepo struct {
	db DB
}

func NewLiquidationRepository(db DB) LiquidationRepository {
	return &liquidationRepo{db: db}
}

func baseSelectLiquidation() string {
	return `
		SELECT id, owner_id, month, year, total_rent, total_charges, total_fees,
		       fee_rate_applied, fee_basis, net_amount, status, created_at
		FROM liquidations
	`
}

func (r *liquidationRepo) scanLiquidation(row pgx.Row) (*models.Liquidation, error) {
	var l models.Liquidation
	err := row.Scan(
		&l.ID, &l.OwnerID, &l.Month, &l.Year, &l.TotalRent, &l.TotalCharges,
		&l.TotalFees, &l.FeeRateApplied, &l.FeeBasis, &l.NetAmount, &l.Status, &l.CreatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *liquidationRepo) Create(ctx context.Context, l *models.Liquidation) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
		INSERT INTO liquidations (
			id, owner_id, month, year, total_rent, total_charges, total_fees,
			fee_rate_applied, fee_basis, net_amount, status, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW())
		ON CONFLICT (owner_id, month, year) DO NOTHING
	`, l.ID, l.OwnerID, l.Month, l.Year, l.TotalRent, l.TotalCharges, l.TotalFees,
		l.FeeRateApplied, l.FeeBasis, l.NetAmount, l.Status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return utils.ErrDuplicateLiquidation
	}

	for i := range l.Lines {
		line := &l.Lines[i]
		_, err := tx.Exec(ctx, `
			INSERT INTO liquidation_lines (id, liquidation_id, kind, label, amount, position)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, line.ID, l.ID, line.Kind, line.Label, line.Amount, line.Position)
		if err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func (r *liquidationRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Liquidation, error) {
	l, err := r.scanLiquidation(r.db.QueryRow(ctx, baseSelectLiquidation()+" WHERE id = $1", id))
	if err != nil || l == nil {
		return l, err
	}
	if err := r.loadLines(ctx, l); err != nil {
		return nil, err
	}
	return l, nil
}

func (r *liquidationRepo) GetByOwnerAndPeriod(ctx context.Context, ownerID uuid.UUID, month, year int) (*models.Liquidation, error) {
	row := r.db.QueryRow(ctx,
		baseSelectLiquidation()+" WHERE owner_id = $1 AND month = $2 AND year = $3",
		ownerID, month, year)
	return r.scanLiquidation(row)
}

func (r *liquidationRepo) ListOwnerIDsForPeriod(ctx context.Context, month, year int) ([]uuid.UUID, error) {
	rows, err := r.db.Query(ctx,
		"SELECT owner_id FROM liquidations WHERE month = $1 AND year = $2", month, year)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// sortColumns whitelists the sortable fields; anything else falls back
// to period. Never interpolate caller input into ORDER BY directly.
var sortColumns = map[string]string{
	"period":     "year %s, month %s",
	"net_amount": "net_amount %s",
	"created_at": "created_at %s",
}

func (r *liquidationRepo) List(ctx context.Context, f HistoryFilter) ([]*models.Liquidation, int, error) {
	var conds []string
	var args []interface{}

	if f.Month != nil {
		args = append(args, *f.Month)
		conds = append(conds, fmt.Sprintf("month = $%d", len(args)))
	}
	if f.Year != nil {
		args = append(args, *f.Year)
		conds = append(conds, fmt.Sprintf("year = $%d", len(args)))
	}

	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var total int
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM liquidations"+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	dir := "ASC"
	if strings.EqualFold(f.SortDir, "desc") {
		dir = "DESC"
	}
	orderTmpl, ok := sortColumns[f.SortBy]
	if !ok {
		orderTmpl = sortColumns["period"]
	}
	order := strings.ReplaceAll(orderTmpl, "%s", dir)

	page := f.Page
	if page < 1 {
		page = 1
	}
	pageSize := f.PageSize
	if pageSize < 1 {
		pageSize = constants.DefaultPageSize
	}
	if pageSize > constants.MaxPageSize {
		pageSize = constants.MaxPageSize
	}

	args = append(args, pageSize, (page-1)*pageSize)
	q := fmt.Sprintf("%s%s ORDER BY %s, id LIMIT $%d OFFSET $%d",
		baseSelectLiquidation(), where, order, len(args)-1, len(args))

	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var list []*models.Liquidation
	for rows.Next() {
		l, err := r.scanLiquidation(rows)
		if err != nil {
			return nil, 0, err
		}
		list = append(list, l)
	}
	return list, total, rows.Err()
}

func (r *liquidationRepo) loadLines(ctx context.Context, l *models.Liquidation) error {
	rows, err := r.db.Query(ctx, `
		SELECT id, liquidation_id, kind, label, amount, position
		FROM liquidation_lines WHERE liquidation_id = $1 ORDER BY position
	`, l.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var line models.LiquidationLine
		if err := rows.Scan(&line.ID, &line.LiquidationID, &line.Kind, &line.Label, &line.Amount, &line.Position); err != nil {
			return err
		}
		l.Lines = append(l.Lines, line)
	}
	return rows.Err()
}
