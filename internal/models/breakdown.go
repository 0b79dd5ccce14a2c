package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BreakdownLine is one contributing line of a computed breakdown. For
// rent lines SourceID is the lease; for charge lines the charge.
type BreakdownLine struct {
	Kind     string          `json:"kind"`
	SourceID *uuid.UUID      `json:"source_id,omitempty"`
	Label    string          `json:"label"`
	Amount   decimal.Decimal `json:"amount"`
}

// Breakdown is the transient result of one liquidation calculation.
// It is never stored as-is: Create re-runs the calculation and
// snapshots the result into a Liquidation row.
//
// NetAmount == TotalRent - TotalCharges - TotalFees always holds
// exactly; a negative net (owner owes the agency) is a valid result.
type Breakdown struct {
	OwnerID        uuid.UUID       `json:"owner_id"`
	Month          int             `json:"month"`
	Year           int             `json:"year"`
	TotalRent      decimal.Decimal `json:"total_rent"`
	TotalCharges   decimal.Decimal `json:"total_charges"`
	TotalFees      decimal.Decimal `json:"total_fees"`
	FeeRateApplied decimal.Decimal `json:"fee_rate_applied"`
	FeeBasis       string          `json:"fee_basis"`
	NetAmount      decimal.Decimal `json:"net_amount"`
	Lines          []BreakdownLine `json:"lines"`
}
