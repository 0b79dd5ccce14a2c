package dtos

import (
	"github.com/google/uuid"
	"github.com/poofware/liquidation-service/internal/models"
)

// LiquidationRequest is the body of both preview and create: the
// engine always takes an explicit period, never an implicit "now".
type LiquidationRequest struct {
	OwnerID uuid.UUID `json:"owner_id" validate:"required"`
	Month   int       `json:"month" validate:"required,min=1,max=12"`
	Year    int       `json:"year" validate:"required,min=2000,max=2100"`
}

// PendingEntry is one owner awaiting liquidation for a period. Either
// Breakdown is set, or BlockedReason explains why the owner cannot be
// liquidated yet (e.g. no resolvable mandate). Blocked owners stay in
// the pending list so the pending/history partition covers every
// relevant owner.
type PendingEntry struct {
	Owner         *models.Owner     `json:"owner"`
	Breakdown     *models.Breakdown `json:"breakdown,omitempty"`
	BlockedReason string            `json:"blocked_reason,omitempty"`
}

// PendingListResponse is the response of GET /liquidations/pending.
type PendingListResponse struct {
	Month   int            `json:"month"`
	Year    int            `json:"year"`
	Entries []PendingEntry `json:"entries"`
}

// PagedLiquidations is the response of the history listing.
type PagedLiquidations struct {
	Items    []*models.Liquidation `json:"items"`
	Total    int                   `json:"total"`
	Page     int                   `json:"page"`
	PageSize int                   `json:"page_size"`
}
