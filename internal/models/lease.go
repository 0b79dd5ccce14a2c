package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Lease links a unit to a tenant for a date range. RentAmount is the
// contractual monthly rent; ChargesAmount the monthly service charges
// invoiced alongside it.
type Lease struct {
	ID            uuid.UUID       `json:"id"`
	UnitID        uuid.UUID       `json:"unit_id"`
	TenantName    string          `json:"tenant_name"`
	RentAmount    decimal.Decimal `json:"rent_amount"`
	ChargesAmount decimal.Decimal `json:"charges_amount"`
	StartDate     time.Time       `json:"start_date"`
	EndDate       *time.Time      `json:"end_date,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

// LeaseRent is one rent-ledger read for a period: what a lease
// invoiced and what was collected. When no ledger entry was recorded
// both fall back to the contractual rent; rent is presumed collected
// unless the ledger says otherwise.
type LeaseRent struct {
	LeaseID         uuid.UUID       `json:"lease_id"`
	UnitID          uuid.UUID       `json:"unit_id"`
	TenantName      string          `json:"tenant_name"`
	InvoicedAmount  decimal.Decimal `json:"invoiced_amount"`
	CollectedAmount decimal.Decimal `json:"collected_amount"`
}

// RentEntry is one rent-ledger row: what was invoiced and what was
// actually collected for a lease in a given month. Recording an entry
// is how partial or missed collection enters a liquidation; without
// one the contractual rent stands for both amounts.
type RentEntry struct {
	ID              uuid.UUID       `json:"id"`
	LeaseID         uuid.UUID       `json:"lease_id"`
	Month           int             `json:"month"`
	Year            int             `json:"year"`
	InvoicedAmount  decimal.Decimal `json:"invoiced_amount"`
	CollectedAmount decimal.Decimal `json:"collected_amount"`
	CreatedAt       time.Time       `json:"created_at"`
}
