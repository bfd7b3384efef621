package registrar

import (
	"math"

	"github.com/GNSR-Network/registry_core/internal/contract"
	"github.com/GNSR-Network/registry_core/internal/fees"
)

// mulPrice multiplies two positive price components, rejecting any product
// that does not fit the ledger's integer unit. Fee tables and tier fees are
// owner-controlled, so a well-formed interaction can still reach an amount
// that overflows; such a purchase must fail, never undercharge.
func mulPrice(a, b int64) (int64, error) {
	if b != 0 && a > math.MaxInt64/b {
		return 0, contract.ErrValidation("price exceeds the maximum representable amount")
	}
	return a * b, nil
}

// AnnualFee is the per-year price of a name at a tier: the fee schedule's
// base price for the name length, scaled by the tier's fee relative to the
// baseline. With the default catalog every tier sits at the baseline, so
// the schedule value is charged unchanged. Division rounds half up.
func AnnualFee(table map[string]int64, name string, tier contract.Tier) (int64, error) {
	base, err := fees.ForLength(table, len(name))
	if err != nil {
		return 0, err
	}
	if tier.Fee == contract.TierFeeBaseline {
		return base, nil
	}
	const half = contract.TierFeeBaseline / 2
	scaled, err := mulPrice(base, tier.Fee)
	if err != nil {
		return 0, err
	}
	if scaled > math.MaxInt64-half {
		return 0, contract.ErrValidation("price exceeds the maximum representable amount")
	}
	return (scaled + half) / contract.TierFeeBaseline, nil
}

// LeasePrice is the total charge for a lease or extension of the given
// number of years. Linear in years.
func LeasePrice(annual, years int64) (int64, error) {
	return mulPrice(annual, years)
}

// PermabuyPrice is the one-time charge for permanent ownership.
func PermabuyPrice(annual int64) (int64, error) {
	return mulPrice(annual, contract.PermabuyLeaseYears)
}
