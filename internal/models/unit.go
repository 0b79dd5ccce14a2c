package models

import (
	"time"

	"github.com/google/uuid"
)

// Unit is a physical property under management. A unit can be held by
// several owners at once (indivision); each holding is an
// OwnershipShare.
type Unit struct {
	ID        uuid.UUID `json:"id"`
	Label     string    `json:"label"`
	Address   string    `json:"address"`
	CreatedAt time.Time `json:"created_at"`
}

// OwnershipShare links an owner to a unit with a fractional share
// (numerator/denominator). A sole owner holds 1/1.
type OwnershipShare struct {
	OwnerID          uuid.UUID `json:"owner_id"`
	UnitID           uuid.UUID `json:"unit_id"`
	ShareNumerator   int64     `json:"share_numerator"`
	ShareDenominator int64     `json:"share_denominator"`
}
