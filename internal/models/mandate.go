package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Mandate is the management agreement between the agency and an owner:
// the fee rate the agency keeps and the basis it is computed on.
// UnitID nil means the mandate covers the owner's whole portfolio; a
// unit-scoped mandate overrides the portfolio one for that unit.
type Mandate struct {
	ID             uuid.UUID       `json:"id"`
	OwnerID        uuid.UUID       `json:"owner_id"`
	UnitID         *uuid.UUID      `json:"unit_id,omitempty"`
	FeeRatePercent decimal.Decimal `json:"fee_rate_percent"`
	FeeBasis       string          `json:"fee_basis"`
	ValidFrom      time.Time       `json:"valid_from"`
	ValidUntil     *time.Time      `json:"valid_until,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
}

// CoversDate reports whether the mandate is in force on the given date.
func (m *Mandate) CoversDate(d time.Time) bool {
	if d.Before(m.ValidFrom) {
		return false
	}
	if m.ValidUntil != nil && d.After(*m.ValidUntil) {
		return false
	}
	return true
}
