package dtos

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CreateOwnerRequest struct {
	DisplayName string `json:"display_name" validate:"required,min=1,max=200"`
	Email       string `json:"email" validate:"omitempty,email"`
}

type CreateUnitRequest struct {
	Label   string `json:"label" validate:"required,min=1,max=200"`
	Address string `json:"address" validate:"omitempty,max=500"`
}

type AssignOwnerRequest struct {
	OwnerID          uuid.UUID `json:"owner_id" validate:"required"`
	ShareNumerator   int64     `json:"share_numerator" validate:"required,min=1"`
	ShareDenominator int64     `json:"share_denominator" validate:"required,min=1"`
}

type CreateLeaseRequest struct {
	UnitID        uuid.UUID       `json:"unit_id" validate:"required"`
	TenantName    string          `json:"tenant_name" validate:"required,min=1,max=200"`
	RentAmount    decimal.Decimal `json:"rent_amount" validate:"required"`
	ChargesAmount decimal.Decimal `json:"charges_amount"`
	StartDate     string          `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate       string          `json:"end_date" validate:"omitempty,datetime=2006-01-02"`
}

type RecordRentEntryRequest struct {
	LeaseID         uuid.UUID       `json:"lease_id" validate:"required"`
	Month           int             `json:"month" validate:"required,min=1,max=12"`
	Year            int             `json:"year" validate:"required,min=2000,max=2100"`
	InvoicedAmount  decimal.Decimal `json:"invoiced_amount"`
	CollectedAmount decimal.Decimal `json:"collected_amount"`
}

type CreateMandateRequest struct {
	OwnerID        uuid.UUID       `json:"owner_id" validate:"required"`
	UnitID         *uuid.UUID      `json:"unit_id"`
	FeeRatePercent decimal.Decimal `json:"fee_rate_percent" validate:"required"`
	FeeBasis       string          `json:"fee_basis" validate:"required,oneof=collected_rent invoiced_rent"`
	ValidFrom      string          `json:"valid_from" validate:"required,datetime=2006-01-02"`
	ValidUntil     string          `json:"valid_until" validate:"omitempty,datetime=2006-01-02"`
}

type CreateChargeRequest struct {
	Amount      decimal.Decimal `json:"amount" validate:"required"`
	ImputedType string          `json:"imputed_type" validate:"required,oneof=lease unit intervention claim tenant owner free_standing"`
	ImputedID   *uuid.UUID      `json:"imputed_id"`
	PayerType   string          `json:"payer_type" validate:"required,oneof=tenant owner agency"`
	PayerID     *uuid.UUID      `json:"payer_id"`
	OwnerBorne  bool            `json:"owner_borne"`
	Title       string          `json:"title" validate:"omitempty,max=200"`
	Notes       string          `json:"notes" validate:"omitempty,max=2000"`
}
