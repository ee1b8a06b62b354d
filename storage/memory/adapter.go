package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/sig-0/flip/storage/types"
)

// Storage keeps league snapshots in memory, most recent first
type Storage struct {
	data map[string][]types.Snapshot // league -> snapshots

	mu sync.RWMutex
}

func NewStorage() *Storage {
	return &Storage{
		data: make(map[string][]types.Snapshot),
	}
}

func (s *Storage) SaveSnapshot(_ context.Context, snapshot *types.Snapshot) error {
	elem := *snapshot
	elem.CollectedAt = elem.CollectedAt.UTC()

	s.mu.Lock()
	defer s.mu.Unlock()

	var (
		snapshots = s.data[elem.League]
		replaced  = false
	)

	// Replace the snapshot if the ID is already known
	for i := range snapshots {
		if snapshots[i].ID == elem.ID {
			snapshots[i] = elem
			replaced = true

			break
		}
	}

	if !replaced {
		snapshots = append(snapshots, elem)
	}

	sort.SliceStable(snapshots, func(i, j int) bool {
		return snapshots[i].CollectedAt.After(snapshots[j].CollectedAt)
	})

	s.data[elem.League] = snapshots

	return nil
}

func (s *Storage) LatestSnapshot(_ context.Context, league string) (*types.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snapshots := s.data[league]
	if len(snapshots) == 0 {
		return nil, nil
	}

	cp := snapshots[0]

	return &cp, nil
}

func (s *Storage) ListSnapshots(
	_ context.Context,
	query *types.SnapshotQuery,
) (*types.Page[*types.Snapshot], error) {
	off, lim := query.Window()

	s.mu.RLock()
	defer s.mu.RUnlock()

	snapshots := s.data[query.League]

	total := int64(len(snapshots))
	if off >= total {
		return &types.Page[*types.Snapshot]{
			Results: nil,
			Total:   total,
		}, nil
	}

	start := int(off)
	end := min(start+int(lim), len(snapshots))

	out := make([]*types.Snapshot, 0, end-start)

	for _, v := range snapshots[start:end] {
		cp := v
		out = append(out, &cp)
	}

	return &types.Page[*types.Snapshot]{
		Results: out,
		Total:   total,
	}, nil
}

func (s *Storage) ListLeagues(_ context.Context) ([]string, error) {
	s.mu.RLock()

	out := make([]string, 0, len(s.data))

	for league := range s.data {
		out = append(out, league)
	}

	s.mu.RUnlock()

	sort.Strings(out)

	return out, nil
}
