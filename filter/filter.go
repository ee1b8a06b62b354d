// Package filter implements the tier-based offer viability heuristic.
//
// An offer converts Have into Want at a given rate (units of Want per unit
// of Have). If Have sits in a numerically higher (less valuable) tier than
// Want, a rate above 1 is not realistic and the offer is treated as a
// price-fixing listing. Every other combination is accepted, including
// trading a valuable currency down below par.
package filter

import (
	"github.com/samber/lo"

	"github.com/sig-0/flip/provider/currencies"
	"github.com/sig-0/flip/storage/types"
)

// IsViable reports whether the offer is plausible enough for path search
func IsViable(want, have currencies.Currency, offer *types.ConversionOffer) bool {
	// Trading up in value above par
	if have.Tier > want.Tier && offer.Rate > 1 {
		return false
	}

	// TODO decide on filtering have.Tier < want.Tier && rate < 1 (trading down below par)
	return true
}

// Offers returns the viable offers, preserving their order
func Offers(want, have currencies.Currency, offers []*types.ConversionOffer) []*types.ConversionOffer {
	return lo.Filter(offers, func(offer *types.ConversionOffer, _ int) bool {
		return IsViable(want, have, offer)
	})
}
