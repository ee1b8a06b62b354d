package ingest

import (
	"context"

	"github.com/sig-0/flip/provider/currencies"
	"github.com/sig-0/flip/storage/types"
)

type (
	fetchDelegate  func(context.Context, string, types.Pair) (*types.OfferBundle, error)
	searchDelegate func(context.Context, *currencies.Catalog, []*types.OfferBundle, int) error
)

type mockProvider struct {
	fetchFn fetchDelegate
}

func (m *mockProvider) Fetch(ctx context.Context, league string, pair types.Pair) (*types.OfferBundle, error) {
	if m.fetchFn != nil {
		return m.fetchFn(ctx, league, pair)
	}

	return nil, nil
}

type mockPathSearch struct {
	searchFn searchDelegate
}

func (m *mockPathSearch) Search(
	ctx context.Context,
	catalog *currencies.Catalog,
	bundles []*types.OfferBundle,
	depth int,
) error {
	if m.searchFn != nil {
		return m.searchFn(ctx, catalog, bundles, depth)
	}

	return nil
}

// bundleFor creates a single-offer bundle for the pair
func bundleFor(league string, pair types.Pair) *types.OfferBundle {
	return &types.OfferBundle{
		Want:   pair.Want,
		Have:   pair.Have,
		League: league,
		Offers: []*types.ConversionOffer{
			{
				Contact: "trader",
				Want:    pair.Want,
				Have:    pair.Have,
				League:  league,
				Rate:    1.5,
				Stock:   10,
			},
		},
	}
}
