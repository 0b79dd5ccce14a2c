package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ChargeTarget is the tagged variant a charge is imputed to: one of
// lease, unit, intervention, claim, tenant, owner or free_standing.
// ID is nil for free-standing charges.
type ChargeTarget struct {
	Type string     `json:"type"`
	ID   *uuid.UUID `json:"id,omitempty"`
}

// ChargePayer names who bears the charge: a tenant, an owner, or the
// agency itself (ID nil for agency).
type ChargePayer struct {
	Type string     `json:"type"`
	ID   *uuid.UUID `json:"id,omitempty"`
}

// OwnerCharge is one charge-ledger read for a liquidation: a charge
// attributable to an owner, with how it attributes. Direct charges
// (payer is the owner) count in full; portfolio charges (imputed to a
// unit/lease the owner holds, flagged owner-borne) count prorated by
// the owner's share of that unit.
type OwnerCharge struct {
	Charge
	Direct           bool  `json:"direct"`
	ShareNumerator   int64 `json:"share_numerator"`
	ShareDenominator int64 `json:"share_denominator"`
}

// Charge is one expense record in the charge ledger. A charge counts
// against an owner's liquidation when its payer is that owner, or when
// it is imputed to a unit/lease in the owner's portfolio and flagged
// OwnerBorne.
type Charge struct {
	ID         uuid.UUID       `json:"id"`
	Amount     decimal.Decimal `json:"amount"`
	ImputedTo  ChargeTarget    `json:"imputed_to"`
	Payer      ChargePayer     `json:"payer"`
	OwnerBorne bool            `json:"owner_borne"`
	Title      string          `json:"title,omitempty"`
	Notes      string          `json:"notes,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
}
