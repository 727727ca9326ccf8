package pricing

import (
	"errors"

	"github.com/shopspring/decimal"
)

// ErrNoTiers signals a misconfigured catalog: a positive quantity was priced
// against an empty tier list.
var ErrNoTiers = errors.New("no_tiers")

// TierRate is the resolved unit rate for a quantity. Tier is nil when the
// quantity carried no usage.
type TierRate struct {
	Rate decimal.Decimal
	Tier *Tier
}

// ResolveTier returns the applicable unit rate for quantity. Tiers must be
// supplied pre-sorted ascending by MinQuantity; the resolver does not sort.
//
// A non-positive quantity resolves to a zero rate. If the quantity exceeds
// every bound the last tier applies, so a well-formed list whose final tier is
// unbounded never fails a positive quantity.
func ResolveTier(tiers []Tier, quantity float64) (TierRate, error) {
	if quantity <= 0 {
		return TierRate{Rate: decimal.Zero}, nil
	}
	if len(tiers) == 0 {
		return TierRate{Rate: decimal.Zero}, ErrNoTiers
	}

	for i := range tiers {
		t := &tiers[i]
		if quantity < t.MinQuantity {
			continue
		}
		if t.MaxQuantity == nil || quantity <= *t.MaxQuantity {
			return TierRate{Rate: t.UnitRate, Tier: t}, nil
		}
	}

	// Quantity exceeds all bounds: the caller passed a non-terminal-unbounded
	// list. Fall back to the last tier.
	last := &tiers[len(tiers)-1]
	return TierRate{Rate: last.UnitRate, Tier: last}, nil
}
