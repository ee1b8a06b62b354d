package storage

import (
	"context"

	"github.com/sig-0/flip/storage/types"
)

// Storage is an abstraction over collected offer snapshots
type Storage interface {
	// SaveSnapshot saves the given collection snapshot
	SaveSnapshot(context.Context, *types.Snapshot) error

	// LatestSnapshot fetches the most recent snapshot for the league, if any
	LatestSnapshot(context.Context, string) (*types.Snapshot, error)

	// ListSnapshots lists the league snapshots, most recent first
	ListSnapshots(context.Context, *types.SnapshotQuery) (*types.Page[*types.Snapshot], error)

	// ListLeagues lists all leagues with at least one snapshot
	ListLeagues(context.Context) ([]string, error)
}
