package services

import "fmt"

// Bundle is a priced point offer. Bundles are computed from the configured
// peg on demand and never persisted; the durable purchase facts live in the
// ledger and settlement tables.
type Bundle struct {
	ID          string `json:"id"`
	Points      int64  `json:"points"`
	BonusPoints int64  `json:"bonus_points"`
	USDCents    int64  `json:"usd_cents"`
}

type bundleSpec struct {
	points   int64
	bonusBps int64
}

// PricingEngine turns a bundle id into a concrete (points, bonus, gross)
// tuple under the sell peg. The catalog is fixed; the peg is configuration,
// so sell price and internal settlement price can diverge.
type PricingEngine struct {
	unitSellCents int64
	catalog       map[string]bundleSpec
}

func NewPricingEngine(unitSellCents int64) *PricingEngine {
	return &PricingEngine{
		unitSellCents: unitSellCents,
		catalog: map[string]bundleSpec{
			"500":  {points: 500},
			"1000": {points: 1000},
			"2500": {points: 2500, bonusBps: 500},
		},
	}
}

func (e *PricingEngine) Quote(bundleID string) (Bundle, error) {
	spec, ok := e.catalog[bundleID]
	if !ok {
		return Bundle{}, fmt.Errorf("%w: %q", ErrInvalidBundle, bundleID)
	}
	return Bundle{
		ID:          bundleID,
		Points:      spec.points,
		BonusPoints: spec.points * spec.bonusBps / 10000,
		USDCents:    spec.points * e.unitSellCents,
	}, nil
}
