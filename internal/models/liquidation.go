package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LiquidationStatusType defines the possible states of a liquidation.
type LiquidationStatusType string

const (
	LiquidationStatusDraft     LiquidationStatusType = "draft"
	LiquidationStatusValidated LiquidationStatusType = "validated"
)

// Liquidation is the materialized payout record for one (owner, month,
// year) key. At most one row exists per key; once created it is
// immutable. Corrections go through a new period or a reversal record,
// never an in-place edit.
type Liquidation struct {
	ID             uuid.UUID             `json:"id"`
	OwnerID        uuid.UUID             `json:"owner_id"`
	Month          int                   `json:"month"`
	Year           int                   `json:"year"`
	TotalRent      decimal.Decimal       `json:"total_rent"`
	TotalCharges   decimal.Decimal       `json:"total_charges"`
	TotalFees      decimal.Decimal       `json:"total_fees"`
	FeeRateApplied decimal.Decimal       `json:"fee_rate_applied"`
	FeeBasis       string                `json:"fee_basis"`
	NetAmount      decimal.Decimal       `json:"net_amount"`
	Status         LiquidationStatusType `json:"status"`
	Lines          []LiquidationLine     `json:"lines,omitempty"`
	CreatedAt      time.Time             `json:"created_at"`
}

// Line kinds persisted with a liquidation.
const (
	LineKindRent   = "rent"
	LineKindCharge = "charge"
	LineKindFee    = "fee"
)

// LiquidationLine is one detail row of a persisted liquidation: the
// rent, charge and fee lines that produced the totals, kept for audit.
type LiquidationLine struct {
	ID            uuid.UUID       `json:"id"`
	LiquidationID uuid.UUID       `json:"liquidation_id"`
	Kind          string          `json:"kind"`
	Label         string          `json:"label"`
	Amount        decimal.Decimal `json:"amount"`
	Position      int             `json:"position"`
}
