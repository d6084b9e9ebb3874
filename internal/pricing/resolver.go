// Package pricing resolves the effective unit price for wholesale
// quantity bands. It is the single source of truth for the tier
// boundaries, which used to be duplicated across the storefront.
package pricing

// Tier boundaries are fixed by commercial policy, not configurable
// per product.
const (
	// MinWholesaleQty is the threshold below which wholesale pricing
	// does not apply.
	MinWholesaleQty = 10
	// Tier1MaxQty closes the first band [MinWholesaleQty, Tier1MaxQty].
	Tier1MaxQty = 30
	// Tier2MaxQty closes the second band (Tier1MaxQty, Tier2MaxQty];
	// everything above is tier 3.
	Tier2MaxQty = 50
)

// RateTable holds the pre-resolved unit price per quantity band, in
// minor currency units. The tier keys are part of the persisted and
// client-facing contract.
type RateTable struct {
	Tier1 int `json:"tier1"`
	Tier2 int `json:"tier2"`
	Tier3 int `json:"tier3"`
}

// IsConfigured reports whether the table carries any usable rate.
// An all-zero table means wholesale was never set up for the product.
func (r *RateTable) IsConfigured() bool {
	if r == nil {
		return false
	}
	return r.Tier1 != 0 || r.Tier2 != 0 || r.Tier3 != 0
}

// ResolveUnitPrice maps a requested quantity onto the effective unit
// price. Prices are applied literally from the table, with no
// interpolation, proration, or rounding; tier monotonicity is the
// caller's responsibility.
//
// The function is total: any quantity below MinWholesaleQty, including
// zero and negatives, falls back to the base price. It never clamps;
// the minimum-quantity clamp on wholesale cart adds is cart policy,
// not pricing policy.
func ResolveUnitPrice(baseUnitPrice int, rates *RateTable, quantity int) int {
	if !rates.IsConfigured() || quantity < MinWholesaleQty {
		return baseUnitPrice
	}

	switch {
	case quantity <= Tier1MaxQty:
		return rates.Tier1
	case quantity <= Tier2MaxQty:
		return rates.Tier2
	case quantity > Tier2MaxQty:
		return rates.Tier3
	}

	// Unreachable: the bands above cover every quantity >= MinWholesaleQty.
	return baseUnitPrice
}
