package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/sig-0/flip/storage/types"
)

const (
	// Layout is the snapshot file name time layout
	Layout = "2006_01_02_15_04_05"

	extension = ".json"
)

var errInvalidLeague = errors.New("invalid league name")

// Storage keeps every snapshot as a JSON file, named after its collection time,
// under a per-league directory: <root>/<league>/YYYY_MM_DD_HH_MM_SS.json.
// Snapshots collected within the same second overwrite each other
type Storage struct {
	root string

	mu sync.RWMutex
}

func NewStorage(root string) *Storage {
	return &Storage{
		root: root,
	}
}

// Path returns the file path the snapshot is saved to
func (s *Storage) Path(snapshot *types.Snapshot) (string, error) {
	dir, err := s.leagueDir(snapshot.League)
	if err != nil {
		return "", err
	}

	return filepath.Join(dir, snapshot.CollectedAt.UTC().Format(Layout)+extension), nil
}

func (s *Storage) SaveSnapshot(_ context.Context, snapshot *types.Snapshot) error {
	path, err := s.Path(snapshot)
	if err != nil {
		return err
	}

	body, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return fmt.Errorf("unable to encode snapshot: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err = os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("unable to create snapshot directory: %w", err)
	}

	// Write to a temporary file first, so readers never see partial snapshots
	tmp := path + ".tmp"

	if err = os.WriteFile(tmp, body, 0o644); err != nil {
		return fmt.Errorf("unable to write snapshot: %w", err)
	}

	if err = os.Rename(tmp, path); err != nil {
		return fmt.Errorf("unable to save snapshot: %w", err)
	}

	return nil
}

func (s *Storage) LatestSnapshot(_ context.Context, league string) (*types.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	files, err := s.snapshotFiles(league)
	if err != nil {
		return nil, err
	}

	if len(files) == 0 {
		return nil, nil //nolint:nilnil // valid case
	}

	return readSnapshot(files[0])
}

func (s *Storage) ListSnapshots(
	_ context.Context,
	query *types.SnapshotQuery,
) (*types.Page[*types.Snapshot], error) {
	off, lim := query.Window()

	s.mu.RLock()
	defer s.mu.RUnlock()

	files, err := s.snapshotFiles(query.League)
	if err != nil {
		return nil, err
	}

	total := int64(len(files))
	if off >= total {
		return &types.Page[*types.Snapshot]{
			Results: nil,
			Total:   total,
		}, nil
	}

	start := int(off)
	end := min(start+int(lim), len(files))

	out := make([]*types.Snapshot, 0, end-start)

	for _, path := range files[start:end] {
		snapshot, err := readSnapshot(path)
		if err != nil {
			return nil, err
		}

		out = append(out, snapshot)
	}

	return &types.Page[*types.Snapshot]{
		Results: out,
		Total:   total,
	}, nil
}

func (s *Storage) ListLeagues(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(s.root)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}

		return nil, fmt.Errorf("unable to read storage directory: %w", err)
	}

	out := make([]string, 0, len(entries))

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		files, err := s.snapshotFiles(entry.Name())
		if err != nil {
			return nil, err
		}

		if len(files) == 0 {
			continue
		}

		out = append(out, entry.Name())
	}

	// os.ReadDir already sorts by name
	return out, nil
}

// leagueDir returns the snapshot directory of the league
func (s *Storage) leagueDir(league string) (string, error) {
	if league == "" ||
		league == "." ||
		league == ".." ||
		strings.ContainsAny(league, `/\`) {
		return "", fmt.Errorf("%w: %q", errInvalidLeague, league)
	}

	return filepath.Join(s.root, league), nil
}

// snapshotFiles lists the league snapshot files, most recent first
func (s *Storage) snapshotFiles(league string) ([]string, error) {
	dir, err := s.leagueDir(league)
	if err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}

		return nil, fmt.Errorf("unable to read league directory: %w", err)
	}

	files := make([]string, 0, len(entries))

	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != extension {
			continue
		}

		files = append(files, filepath.Join(dir, entry.Name()))
	}

	// The name layout sorts chronologically
	sort.Sort(sort.Reverse(sort.StringSlice(files)))

	return files, nil
}

// readSnapshot reads and decodes a single snapshot file
func readSnapshot(path string) (*types.Snapshot, error) {
	body, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to read snapshot: %w", err)
	}

	var snapshot types.Snapshot
	if err = json.Unmarshal(body, &snapshot); err != nil {
		return nil, fmt.Errorf("unable to decode snapshot %q: %w", filepath.Base(path), err)
	}

	return &snapshot, nil
}
