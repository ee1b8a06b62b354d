package ingest

import (
	"time"

	"github.com/rs/xid"

	"github.com/sig-0/flip/storage/types"
)

// NewSnapshot wraps the collected bundles into a new league snapshot
func NewSnapshot(league string, at time.Time, bundles []*types.OfferBundle) *types.Snapshot {
	return &types.Snapshot{
		ID:          xid.NewWithTime(at).String(),
		League:      league,
		CollectedAt: at.UTC(),
		Bundles:     bundles,
	}
}

// SnapshotFromResults wraps isolated collection results into a new league snapshot.
// Failed pairs are recorded as snapshot failures, in request order
func SnapshotFromResults(league string, at time.Time, results []Result) *types.Snapshot {
	var (
		bundles  = make([]*types.OfferBundle, 0, len(results))
		failures []types.PairFailure
	)

	for _, res := range results {
		if res.Err != nil {
			failures = append(failures, types.PairFailure{
				Want:  res.Pair.Want,
				Have:  res.Pair.Have,
				Error: res.Err.Error(),
			})

			continue
		}

		bundles = append(bundles, res.Bundle)
	}

	snapshot := NewSnapshot(league, at, bundles)
	snapshot.Failures = failures

	return snapshot
}
