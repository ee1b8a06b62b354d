package sql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	pgStorage "github.com/sig-0/flip/storage/sql/gen"
	"github.com/sig-0/flip/storage/types"
)

type Storage struct {
	queries *pgStorage.Queries
}

func NewStorage(queries *pgStorage.Queries) *Storage {
	return &Storage{
		queries: queries,
	}
}

// payload is the JSONB body of a stored snapshot
type payload struct {
	Bundles  []*types.OfferBundle `json:"bundles"`
	Failures []types.PairFailure  `json:"failures,omitempty"`
}

func (s *Storage) SaveSnapshot(
	ctx context.Context,
	snapshot *types.Snapshot,
) error {
	body, err := json.Marshal(payload{
		Bundles:  snapshot.Bundles,
		Failures: snapshot.Failures,
	})
	if err != nil {
		return fmt.Errorf("unable to encode snapshot: %w", err)
	}

	arg := pgStorage.SaveSnapshotParams{
		ID:          snapshot.ID,
		League:      snapshot.League,
		CollectedAt: timeToTimestampz(snapshot.CollectedAt),
		Bundles:     int32(len(snapshot.Bundles)),
		Failures:    int32(len(snapshot.Failures)),
		Payload:     body,
	}

	if err = s.queries.SaveSnapshot(ctx, arg); err != nil {
		return fmt.Errorf("unable to save snapshot: %w", err)
	}

	return nil
}

func (s *Storage) LatestSnapshot(
	ctx context.Context,
	league string,
) (*types.Snapshot, error) {
	result, err := s.queries.LatestSnapshot(ctx, league)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil //nolint:nilnil // valid case
		}

		return nil, fmt.Errorf("unable to fetch snapshot: %w", err)
	}

	return parseSnapshot(
		result.ID,
		result.League,
		result.CollectedAt,
		result.Payload,
	)
}

func (s *Storage) ListSnapshots(
	ctx context.Context,
	query *types.SnapshotQuery,
) (*types.Page[*types.Snapshot], error) {
	off, lim := query.Window()

	arg := pgStorage.ListSnapshotsParams{
		League: query.League,
		Limit:  lim,
		Offset: off,
	}

	results, err := s.queries.ListSnapshots(ctx, arg)
	if err != nil {
		return nil, fmt.Errorf("unable to fetch snapshots: %w", err)
	}

	if len(results) == 0 {
		// The window may be past the end, the total is still reported
		total, err := s.queries.CountSnapshots(ctx, query.League)
		if err != nil {
			return nil, fmt.Errorf("unable to count snapshots: %w", err)
		}

		return &types.Page[*types.Snapshot]{
			Results: nil,
			Total:   total,
		}, nil
	}

	items := make([]*types.Snapshot, 0, len(results))

	for _, row := range results {
		snapshot, err := parseSnapshot(
			row.ID,
			row.League,
			row.CollectedAt,
			row.Payload,
		)
		if err != nil {
			return nil, err
		}

		items = append(items, snapshot)
	}

	return &types.Page[*types.Snapshot]{
		Results: items,
		Total:   results[0].Total,
	}, nil
}

func (s *Storage) ListLeagues(ctx context.Context) ([]string, error) {
	results, err := s.queries.ListLeagues(ctx)
	if err != nil {
		return nil, fmt.Errorf("unable to fetch leagues: %w", err)
	}

	return results, nil
}

// parseSnapshot parses the postgres snapshot row to the common Go type
func parseSnapshot(
	id, league string,
	collectedAt pgtype.Timestamptz,
	body []byte,
) (*types.Snapshot, error) {
	var p payload
	if err := json.Unmarshal(body, &p); err != nil {
		return nil, fmt.Errorf("unable to decode snapshot %q: %w", id, err)
	}

	return &types.Snapshot{
		ID:          id,
		League:      league,
		CollectedAt: timestampzToTime(collectedAt),
		Bundles:     p.Bundles,
		Failures:    p.Failures,
	}, nil
}

// timeToTimestampz converts the time value to postgres timestamp
func timeToTimestampz(t time.Time) pgtype.Timestamptz {
	return pgtype.Timestamptz{
		Time:  t.UTC(),
		Valid: true,
	}
}

// timestampzToTime converts the postgres timestamp value to time
func timestampzToTime(ts pgtype.Timestamptz) time.Time {
	if !ts.Valid {
		return time.Time{}
	}

	return ts.Time.UTC()
}
