package ingest

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sig-0/flip/provider/currencies"
	"github.com/sig-0/flip/storage/types"
)

const testLeague = "Standard"

// testPairs generates n distinct pairs out of the default catalog
func testPairs(t *testing.T, n int) []types.Pair {
	t.Helper()

	perms := currencies.Default().Permutations()
	require.GreaterOrEqual(t, len(perms), n)

	return perms[:n]
}

func TestCollector_New(t *testing.T) {
	t.Parallel()

	t.Run("default workers", func(t *testing.T) {
		t.Parallel()

		c := NewCollector(&mockProvider{})

		assert.Equal(t, DefaultWorkers, c.workers)
		assert.NotNil(t, c.logger)
	})

	t.Run("custom workers", func(t *testing.T) {
		t.Parallel()

		c := NewCollector(&mockProvider{}, WithWorkers(3))

		assert.Equal(t, 3, c.workers)
	})

	t.Run("invalid workers", func(t *testing.T) {
		t.Parallel()

		c := NewCollector(&mockProvider{}, WithWorkers(0))

		assert.Equal(t, DefaultWorkers, c.workers)
	})
}

func TestCollector_Collect(t *testing.T) {
	t.Parallel()

	t.Run("empty pairs", func(t *testing.T) {
		t.Parallel()

		var (
			called atomic.Bool

			c = NewCollector(&mockProvider{
				fetchFn: func(_ context.Context, _ string, _ types.Pair) (*types.OfferBundle, error) {
					called.Store(true)

					return nil, nil
				},
			})
		)

		bundles, err := c.Collect(context.Background(), testLeague, nil)
		require.NoError(t, err)

		assert.Empty(t, bundles)
		assert.False(t, called.Load())
	})

	t.Run("order preserved", func(t *testing.T) {
		t.Parallel()

		var (
			pairs = testPairs(t, 30)
			delay = make(map[types.Pair]time.Duration, len(pairs))
		)

		// Earlier pairs finish last
		for i, pair := range pairs {
			delay[pair] = time.Duration(len(pairs)-i) * time.Millisecond
		}

		c := NewCollector(&mockProvider{
			fetchFn: func(_ context.Context, league string, pair types.Pair) (*types.OfferBundle, error) {
				time.Sleep(delay[pair])

				return bundleFor(league, pair), nil
			},
		})

		bundles, err := c.Collect(context.Background(), testLeague, pairs)
		require.NoError(t, err)
		require.Len(t, bundles, len(pairs))

		for i, bundle := range bundles {
			require.NotNil(t, bundle)

			assert.Equal(t, pairs[i], bundle.Pair())
			assert.Equal(t, testLeague, bundle.League)
		}
	})

	t.Run("bounded concurrency", func(t *testing.T) {
		t.Parallel()

		var (
			workers  = 4
			inFlight atomic.Int32
			maxSeen  atomic.Int32

			pairs = testPairs(t, 40)
		)

		c := NewCollector(&mockProvider{
			fetchFn: func(_ context.Context, league string, pair types.Pair) (*types.OfferBundle, error) {
				current := inFlight.Add(1)
				defer inFlight.Add(-1)

				for {
					seen := maxSeen.Load()
					if current <= seen || maxSeen.CompareAndSwap(seen, current) {
						break
					}
				}

				time.Sleep(2 * time.Millisecond)

				return bundleFor(league, pair), nil
			},
		}, WithWorkers(workers))

		bundles, err := c.Collect(context.Background(), testLeague, pairs)
		require.NoError(t, err)

		assert.Len(t, bundles, len(pairs))
		assert.LessOrEqual(t, maxSeen.Load(), int32(workers))
		assert.Positive(t, maxSeen.Load())
	})

	t.Run("fail fast", func(t *testing.T) {
		t.Parallel()

		var (
			pairs   = testPairs(t, 10)
			failing = pairs[3]

			fetchErr = &currencies.UnknownCurrencyError{Name: "Mirror of Kalandra"}
		)

		c := NewCollector(&mockProvider{
			fetchFn: func(ctx context.Context, league string, pair types.Pair) (*types.OfferBundle, error) {
				if pair == failing {
					return nil, fetchErr
				}

				return bundleFor(league, pair), nil
			},
		}, WithWorkers(2))

		bundles, err := c.Collect(context.Background(), testLeague, pairs)
		require.Error(t, err)

		assert.Nil(t, bundles)
		assert.ErrorIs(t, err, currencies.ErrUnknownCurrency)

		var unknownErr *currencies.UnknownCurrencyError
		require.True(t, errors.As(err, &unknownErr))
		assert.Equal(t, types.Currency("Mirror of Kalandra"), unknownErr.Name)
	})

	t.Run("ctx canceled", func(t *testing.T) {
		t.Parallel()

		ctx, cancelFn := context.WithCancel(context.Background())
		cancelFn()

		c := NewCollector(&mockProvider{
			fetchFn: func(ctx context.Context, league string, pair types.Pair) (*types.OfferBundle, error) {
				if err := ctx.Err(); err != nil {
					return nil, err
				}

				return bundleFor(league, pair), nil
			},
		})

		_, err := c.Collect(ctx, testLeague, testPairs(t, 5))
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestCollector_CollectEach(t *testing.T) {
	t.Parallel()

	t.Run("failures isolated", func(t *testing.T) {
		t.Parallel()

		var (
			pairs    = testPairs(t, 8)
			fetchErr = errors.New("remote unavailable")
		)

		c := NewCollector(&mockProvider{
			fetchFn: func(_ context.Context, league string, pair types.Pair) (*types.OfferBundle, error) {
				if pair == pairs[1] || pair == pairs[6] {
					return nil, fetchErr
				}

				return bundleFor(league, pair), nil
			},
		}, WithWorkers(3))

		results := c.CollectEach(context.Background(), testLeague, pairs)
		require.Len(t, results, len(pairs))

		for i, res := range results {
			assert.Equal(t, pairs[i], res.Pair)

			if i == 1 || i == 6 {
				assert.ErrorIs(t, res.Err, fetchErr)
				assert.Nil(t, res.Bundle)

				continue
			}

			require.NoError(t, res.Err)
			require.NotNil(t, res.Bundle)
			assert.Equal(t, pairs[i], res.Bundle.Pair())
		}
	})

	t.Run("ctx canceled", func(t *testing.T) {
		t.Parallel()

		ctx, cancelFn := context.WithCancel(context.Background())
		cancelFn()

		c := NewCollector(&mockProvider{
			fetchFn: func(ctx context.Context, league string, pair types.Pair) (*types.OfferBundle, error) {
				if err := ctx.Err(); err != nil {
					return nil, err
				}

				return bundleFor(league, pair), nil
			},
		})

		results := c.CollectEach(ctx, testLeague, testPairs(t, 5))
		require.Len(t, results, 5)

		for _, res := range results {
			assert.ErrorIs(t, res.Err, context.Canceled)
			assert.Nil(t, res.Bundle)
		}
	})
}

func TestSnapshotFromResults(t *testing.T) {
	t.Parallel()

	var (
		pairs = testPairs(t, 3)
		at    = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

		results = []Result{
			{Pair: pairs[0], Bundle: bundleFor(testLeague, pairs[0])},
			{Pair: pairs[1], Err: errors.New("timed out")},
			{Pair: pairs[2], Bundle: bundleFor(testLeague, pairs[2])},
		}
	)

	snapshot := SnapshotFromResults(testLeague, at, results)

	require.NotNil(t, snapshot)
	assert.NotEmpty(t, snapshot.ID)
	assert.Equal(t, testLeague, snapshot.League)
	assert.Equal(t, at, snapshot.CollectedAt)

	require.Len(t, snapshot.Bundles, 2)
	assert.Equal(t, pairs[0], snapshot.Bundles[0].Pair())
	assert.Equal(t, pairs[2], snapshot.Bundles[1].Pair())

	require.Len(t, snapshot.Failures, 1)
	assert.Equal(t, pairs[1].Want, snapshot.Failures[0].Want)
	assert.Equal(t, pairs[1].Have, snapshot.Failures[0].Have)
	assert.Equal(t, "timed out", snapshot.Failures[0].Error)
}
