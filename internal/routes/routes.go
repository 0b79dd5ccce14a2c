package routes

const (
	Health = "/health"

	LiquidationPreview = "/api/v1/liquidations/preview"
	Liquidations       = "/api/v1/liquidations"
	LiquidationByID    = "/api/v1/liquidations/{id}"
	LiquidationPending = "/api/v1/liquidations/pending"

	Owners        = "/api/v1/owners"
	OwnerByID     = "/api/v1/owners/{id}"
	OwnerMandates = "/api/v1/owners/{id}/mandates"

	Units      = "/api/v1/units"
	UnitOwners = "/api/v1/units/{id}/owners"
	UnitLeases = "/api/v1/units/{id}/leases"

	Leases      = "/api/v1/leases"
	RentEntries = "/api/v1/rent-entries"
	Mandates    = "/api/v1/mandates"
	Charges     = "/api/v1/charges"
)
