package app

import (
	"context"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/poofware/liquidation-service/internal/utils"
)

// Schema statements, applied in order at startup. All idempotent.
// The unique index on liquidations(owner_id, month, year) is the
// engine's idempotency guarantee; nothing here may weaken it.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS owners (
		id           UUID PRIMARY KEY,
		display_name TEXT NOT NULL,
		email        TEXT NOT NULL DEFAULT '',
		deleted_at   TIMESTAMPTZ,
		created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS units (
		id         UUID PRIMARY KEY,
		label      TEXT NOT NULL,
		address    TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS ownership_shares (
		owner_id          UUID NOT NULL REFERENCES owners(id),
		unit_id           UUID NOT NULL REFERENCES units(id),
		share_numerator   BIGINT NOT NULL CHECK (share_numerator > 0),
		share_denominator BIGINT NOT NULL CHECK (share_denominator > 0),
		PRIMARY KEY (owner_id, unit_id)
	)`,
	`CREATE TABLE IF NOT EXISTS leases (
		id             UUID PRIMARY KEY,
		unit_id        UUID NOT NULL REFERENCES units(id),
		tenant_name    TEXT NOT NULL,
		rent_amount    NUMERIC(18,4) NOT NULL,
		charges_amount NUMERIC(18,4) NOT NULL DEFAULT 0,
		start_date     DATE NOT NULL,
		end_date       DATE,
		created_at     TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS rent_entries (
		id               UUID PRIMARY KEY,
		lease_id         UUID NOT NULL REFERENCES leases(id),
		month            INT NOT NULL CHECK (month BETWEEN 1 AND 12),
		year             INT NOT NULL,
		invoiced_amount  NUMERIC(18,4) NOT NULL DEFAULT 0,
		collected_amount NUMERIC(18,4) NOT NULL DEFAULT 0,
		created_at       TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE (lease_id, month, year)
	)`,
	`CREATE TABLE IF NOT EXISTS mandates (
		id               UUID PRIMARY KEY,
		owner_id         UUID NOT NULL REFERENCES owners(id),
		unit_id          UUID REFERENCES units(id),
		fee_rate_percent NUMERIC(8,4) NOT NULL,
		fee_basis        TEXT NOT NULL CHECK (fee_basis IN ('collected_rent','invoiced_rent')),
		valid_from       DATE NOT NULL,
		valid_until      DATE,
		created_at       TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS charges (
		id           UUID PRIMARY KEY,
		amount       NUMERIC(18,4) NOT NULL,
		imputed_type TEXT NOT NULL CHECK (imputed_type IN
			('lease','unit','intervention','claim','tenant','owner','free_standing')),
		imputed_id   UUID,
		payer_type   TEXT NOT NULL CHECK (payer_type IN ('tenant','owner','agency')),
		payer_id     UUID,
		owner_borne  BOOLEAN NOT NULL DEFAULT FALSE,
		title        TEXT NOT NULL DEFAULT '',
		notes        TEXT NOT NULL DEFAULT '',
		created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_charges_created_at ON charges (created_at)`,
	`CREATE TABLE IF NOT EXISTS liquidations (
		id               UUID PRIMARY KEY,
		owner_id         UUID NOT NULL REFERENCES owners(id),
		month            INT NOT NULL CHECK (month BETWEEN 1 AND 12),
		year             INT NOT NULL,
		total_rent       NUMERIC(18,4) NOT NULL,
		total_charges    NUMERIC(18,4) NOT NULL,
		total_fees       NUMERIC(18,4) NOT NULL,
		fee_rate_applied NUMERIC(8,4) NOT NULL,
		fee_basis        TEXT NOT NULL,
		net_amount       NUMERIC(18,4) NOT NULL,
		status           TEXT NOT NULL CHECK (status IN ('draft','validated')),
		created_at       TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE (owner_id, month, year)
	)`,
	`CREATE TABLE IF NOT EXISTS liquidation_lines (
		id             UUID PRIMARY KEY,
		liquidation_id UUID NOT NULL REFERENCES liquidations(id),
		kind           TEXT NOT NULL CHECK (kind IN ('rent','charge','fee')),
		label          TEXT NOT NULL,
		amount         NUMERIC(18,4) NOT NULL,
		position       INT NOT NULL
	)`,
}

// Migrate applies the schema. Safe to run on every startup.
func Migrate(ctx context.Context, db *pgxpool.Pool) error {
	for _, stmt := range migrations {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	utils.Logger.Info("liquidation-service schema up to date")
	return nil
}
