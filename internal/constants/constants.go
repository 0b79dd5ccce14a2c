package constants

const (
	// Liquidations are only computed for periods inside this window.
	MinLiquidationYear = 2000
	MaxLiquidationYear = 2100

	// History pagination defaults.
	DefaultPageSize = 25
	MaxPageSize     = 200
)

// Charge imputation targets. A charge is pinned to exactly one of these.
const (
	ImputedLease        = "lease"
	ImputedUnit         = "unit"
	ImputedIntervention = "intervention"
	ImputedClaim        = "claim"
	ImputedTenant       = "tenant"
	ImputedOwner        = "owner"
	ImputedFreeStanding = "free_standing"
)

// Charge payers.
const (
	PayerTenant = "tenant"
	PayerOwner  = "owner"
	PayerAgency = "agency"
)

// Fee bases a mandate can carry.
const (
	FeeBasisCollected = "collected_rent"
	FeeBasisInvoiced  = "invoiced_rent"
)
