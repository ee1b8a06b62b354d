package mock

import (
	"context"

	"github.com/sig-0/flip/storage/types"
)

type (
	SaveSnapshotDelegate   func(context.Context, *types.Snapshot) error
	LatestSnapshotDelegate func(context.Context, string) (*types.Snapshot, error)
	ListSnapshotsDelegate  func(context.Context, *types.SnapshotQuery) (*types.Page[*types.Snapshot], error)
	ListLeaguesDelegate    func(context.Context) ([]string, error)
)

type Storage struct {
	SaveSnapshotFn   SaveSnapshotDelegate
	LatestSnapshotFn LatestSnapshotDelegate
	ListSnapshotsFn  ListSnapshotsDelegate
	ListLeaguesFn    ListLeaguesDelegate
}

func (m *Storage) SaveSnapshot(ctx context.Context, snapshot *types.Snapshot) error {
	if m.SaveSnapshotFn != nil {
		return m.SaveSnapshotFn(ctx, snapshot)
	}

	return nil
}

func (m *Storage) LatestSnapshot(ctx context.Context, league string) (*types.Snapshot, error) {
	if m.LatestSnapshotFn != nil {
		return m.LatestSnapshotFn(ctx, league)
	}

	return nil, nil
}

func (m *Storage) ListSnapshots(
	ctx context.Context,
	query *types.SnapshotQuery,
) (*types.Page[*types.Snapshot], error) {
	if m.ListSnapshotsFn != nil {
		return m.ListSnapshotsFn(ctx, query)
	}

	return nil, nil
}

func (m *Storage) ListLeagues(ctx context.Context) ([]string, error) {
	if m.ListLeaguesFn != nil {
		return m.ListLeaguesFn(ctx)
	}

	return nil, nil
}
