package ingest

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/sig-0/flip/metrics"
	"github.com/sig-0/flip/storage/types"
)

// DefaultWorkers is the default number of in-flight acquisitions
const DefaultWorkers = 20

// Result is the isolated acquisition outcome for a single pair
type Result struct {
	Err    error              // encountered error, if any
	Bundle *types.OfferBundle // the acquired bundle, nil on error
	Pair   types.Pair         // the requested pair
}

// Collector fans acquisitions out across a fixed-size worker pool
type Collector struct {
	provider Provider
	logger   *slog.Logger

	workers int
}

// NewCollector creates a new Collector instance
func NewCollector(provider Provider, opts ...CollectorOption) *Collector {
	c := &Collector{
		provider: provider,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		workers:  DefaultWorkers,
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.workers <= 0 {
		c.workers = DefaultWorkers
	}

	return c
}

// Collect acquires the bundles for all pairs in the league.
// The i-th bundle corresponds to pairs[i]. The first failed acquisition
// cancels the remaining ones, and is returned
func (c *Collector) Collect(
	ctx context.Context,
	league string,
	pairs []types.Pair,
) ([]*types.OfferBundle, error) {
	defer c.observe(league, time.Now())

	bundles := make([]*types.OfferBundle, len(pairs))

	err := c.run(ctx, len(pairs), func(ctx context.Context, i int) error {
		bundle, err := c.provider.Fetch(ctx, league, pairs[i])
		if err != nil {
			return fmt.Errorf("unable to collect pair #%d (%s): %w", i, pairs[i], err)
		}

		bundles[i] = bundle

		return nil
	})
	if err != nil {
		return nil, err
	}

	c.logger.Info(
		"collection complete",
		"league", league,
		"pairs", len(pairs),
	)

	return bundles, nil
}

// CollectEach acquires the bundles for all pairs in the league,
// isolating failures to their pair. The i-th result corresponds to pairs[i]
func (c *Collector) CollectEach(
	ctx context.Context,
	league string,
	pairs []types.Pair,
) []Result {
	defer c.observe(league, time.Now())

	results := make([]Result, len(pairs))
	for i, pair := range pairs {
		results[i].Pair = pair
	}

	runErr := c.run(ctx, len(pairs), func(ctx context.Context, i int) error {
		bundle, err := c.provider.Fetch(ctx, league, pairs[i])
		if err != nil {
			c.logger.Warn(
				"unable to collect pair",
				"league", league,
				"want", pairs[i].Want,
				"have", pairs[i].Have,
				"err", err,
			)

			results[i].Err = err

			return nil
		}

		results[i].Bundle = bundle

		return nil
	})

	failed := 0

	for i := range results {
		// Pairs never dispatched due to cancellation
		if results[i].Bundle == nil && results[i].Err == nil {
			results[i].Err = runErr
		}

		if results[i].Err != nil {
			failed++
		}
	}

	c.logger.Info(
		"collection complete",
		"league", league,
		"pairs", len(pairs),
		"failed", failed,
	)

	return results
}

// run executes fn for every index in [0, n), using at most c.workers
// concurrent workers. Workers pull indexes off a shared queue
func (c *Collector) run(
	ctx context.Context,
	n int,
	fn func(context.Context, int) error,
) error {
	if n == 0 {
		return nil
	}

	var (
		group, gCtx = errgroup.WithContext(ctx)
		indexCh     = make(chan int)
		workers     = min(c.workers, n)
	)

	// Feed the pair indexes
	group.Go(func() error {
		defer close(indexCh)

		for i := range n {
			select {
			case <-gCtx.Done():
				return gCtx.Err()
			case indexCh <- i:
			}
		}

		return nil
	})

	for range workers {
		group.Go(func() error {
			for i := range indexCh {
				if err := fn(gCtx, i); err != nil {
					return err
				}
			}

			return nil
		})
	}

	return group.Wait()
}

func (c *Collector) observe(league string, start time.Time) {
	metrics.CollectionDuration.
		WithLabelValues(league).
		Observe(time.Since(start).Seconds())
}
