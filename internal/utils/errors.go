package utils

import (
	"errors"
	"fmt"
)

// Domain-level errors used by the service layer to provide
// fine-grained failure reasons.
var (
	// ErrInvalidPeriod means the requested month/year is out of range.
	// Rejected before any ledger read.
	ErrInvalidPeriod = errors.New("invalid_period")

	// ErrNoMandate means no fee mandate resolves for the owner/period.
	// The owner must not be liquidated with an undefined fee rate.
	ErrNoMandate = errors.New("mandate_missing")

	// ErrDuplicateLiquidation means a liquidation already exists for the
	// (owner, month, year) key. Callers treat this as "already done".
	ErrDuplicateLiquidation = errors.New("duplicate_liquidation")

	// ErrOwnerNotFound means the owner id resolves to no live owner row.
	ErrOwnerNotFound = errors.New("owner_not_found")

	ErrUnitNotFound  = errors.New("unit_not_found")
	ErrLeaseNotFound = errors.New("lease_not_found")
)

// UpstreamReadError wraps a failed ledger/registry read. A calculation
// aborts entirely on one of these; missing data is never silently
// treated as zero.
type UpstreamReadError struct {
	Source string
	Err    error
}

func (e *UpstreamReadError) Error() string {
	return fmt.Sprintf("upstream read failed (%s): %v", e.Source, e.Err)
}

func (e *UpstreamReadError) Unwrap() error {
	return e.Err
}

// NewUpstreamReadError tags a repository failure with the ledger it
// came from so callers can distinguish "nothing to pay" from "cannot
// determine amount".
func NewUpstreamReadError(source string, err error) *UpstreamReadError {
	return &UpstreamReadError{Source: source, Err: err}
}
