package ingest

import (
	"context"

	"github.com/sig-0/flip/provider/currencies"
	"github.com/sig-0/flip/storage/types"
)

// Provider acquires the offer bundle for a single currency pair
type Provider interface {
	// Fetch fetches, parses and filters the offers for the pair in the given league
	Fetch(ctx context.Context, league string, pair types.Pair) (*types.OfferBundle, error)
}

// PathSearch is the arbitrage path search over collected offers.
// It is invoked once after every completed collection
type PathSearch interface {
	// Search looks for profitable conversion cycles, up to the given depth
	Search(
		ctx context.Context,
		catalog *currencies.Catalog,
		bundles []*types.OfferBundle,
		depth int,
	) error
}
