// Package storagetest contains the behavioral test suite shared by all
// snapshot storage adapters
package storagetest

import (
	"context"
	"testing"
	"time"

	"github.com/rs/xid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sig-0/flip/storage"
	"github.com/sig-0/flip/storage/types"
)

// Factory creates a fresh, empty storage instance for a single test
type Factory func(t *testing.T) storage.Storage

// NewSnapshot creates a single-bundle snapshot for the league, collected at the given time
func NewSnapshot(league string, at time.Time) *types.Snapshot {
	return &types.Snapshot{
		ID:          xid.NewWithTime(at).String(),
		League:      league,
		CollectedAt: at.UTC(),
		Bundles: []*types.OfferBundle{
			{
				Want:   "Chaos",
				Have:   "Alteration",
				League: league,
				Offers: []*types.ConversionOffer{
					{
						Contact: "trader",
						Want:    "Chaos",
						Have:    "Alteration",
						League:  league,
						Rate:    0.0714,
						Stock:   120,
					},
				},
			},
		},
		Failures: []types.PairFailure{
			{
				Want:  "Exalted",
				Have:  "Chaos",
				Error: "request timed out",
			},
		},
	}
}

// Run runs the storage behavior suite against the given factory
func Run(t *testing.T, factory Factory) {
	t.Helper()

	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("empty storage", func(t *testing.T) {
		t.Parallel()

		s := factory(t)

		latest, err := s.LatestSnapshot(context.Background(), "Standard")
		require.NoError(t, err)
		assert.Nil(t, latest)

		page, err := s.ListSnapshots(context.Background(), &types.SnapshotQuery{League: "Standard"})
		require.NoError(t, err)
		require.NotNil(t, page)
		assert.Empty(t, page.Results)
		assert.Equal(t, int64(0), page.Total)

		leagues, err := s.ListLeagues(context.Background())
		require.NoError(t, err)
		assert.Empty(t, leagues)
	})

	t.Run("save and load latest", func(t *testing.T) {
		t.Parallel()

		var (
			s   = factory(t)
			ctx = context.Background()

			older = NewSnapshot("Standard", base)
			newer = NewSnapshot("Standard", base.Add(time.Hour))
		)

		// Save out of order
		require.NoError(t, s.SaveSnapshot(ctx, newer))
		require.NoError(t, s.SaveSnapshot(ctx, older))

		latest, err := s.LatestSnapshot(ctx, "Standard")
		require.NoError(t, err)
		require.NotNil(t, latest)

		assert.Equal(t, newer.ID, latest.ID)
		assert.Equal(t, "Standard", latest.League)
		assert.True(t, newer.CollectedAt.Equal(latest.CollectedAt))

		require.Len(t, latest.Bundles, 1)
		require.Len(t, latest.Bundles[0].Offers, 1)
		assert.Equal(t, newer.Bundles[0].Offers[0], latest.Bundles[0].Offers[0])

		require.Len(t, latest.Failures, 1)
		assert.Equal(t, newer.Failures[0], latest.Failures[0])
	})

	t.Run("leagues isolated", func(t *testing.T) {
		t.Parallel()

		var (
			s   = factory(t)
			ctx = context.Background()
		)

		require.NoError(t, s.SaveSnapshot(ctx, NewSnapshot("Standard", base)))
		require.NoError(t, s.SaveSnapshot(ctx, NewSnapshot("Hardcore", base.Add(time.Minute))))

		latest, err := s.LatestSnapshot(ctx, "Hardcore")
		require.NoError(t, err)
		require.NotNil(t, latest)
		assert.Equal(t, "Hardcore", latest.League)

		missing, err := s.LatestSnapshot(ctx, "Ruthless")
		require.NoError(t, err)
		assert.Nil(t, missing)

		leagues, err := s.ListLeagues(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"Hardcore", "Standard"}, leagues)
	})

	t.Run("list paginated", func(t *testing.T) {
		t.Parallel()

		var (
			s   = factory(t)
			ctx = context.Background()

			saved = make([]*types.Snapshot, 0, 5)
		)

		for i := range 5 {
			snapshot := NewSnapshot("Standard", base.Add(time.Duration(i)*time.Minute))
			saved = append(saved, snapshot)

			require.NoError(t, s.SaveSnapshot(ctx, snapshot))
		}

		page, err := s.ListSnapshots(ctx, &types.SnapshotQuery{
			League: "Standard",
			Offset: 1,
			Limit:  2,
		})
		require.NoError(t, err)
		require.NotNil(t, page)

		assert.Equal(t, int64(5), page.Total)
		require.Len(t, page.Results, 2)

		// Most recent first
		assert.Equal(t, saved[3].ID, page.Results[0].ID)
		assert.Equal(t, saved[2].ID, page.Results[1].ID)

		// Offset past the end
		page, err = s.ListSnapshots(ctx, &types.SnapshotQuery{
			League: "Standard",
			Offset: 10,
		})
		require.NoError(t, err)
		assert.Empty(t, page.Results)
		assert.Equal(t, int64(5), page.Total)
	})
}
