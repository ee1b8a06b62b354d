package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/sig-0/flip/storage/types"
)

const schema = `
CREATE TABLE IF NOT EXISTS snapshots (
  id TEXT PRIMARY KEY,
  league TEXT NOT NULL,
  collected_at INTEGER NOT NULL,
  payload TEXT NOT NULL,
  created_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_snapshots_league_ts ON snapshots(league, collected_at);
`

// Storage is a single-file SQLite snapshot store
type Storage struct {
	db *sql.DB
}

// NewStorage opens (or creates) the SQLite database at the given path,
// and runs the schema migration
func NewStorage(path string) (*Storage, error) {
	// Ensure the directory exists
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("unable to create DB directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("unable to open DB: %w", err)
	}

	db.SetMaxOpenConns(1)

	s := &Storage{db: db}
	if err = s.migrate(context.Background()); err != nil {
		_ = db.Close()

		return nil, fmt.Errorf("unable to migrate DB: %w", err)
	}

	return s, nil
}

// Close closes the underlying DB
func (s *Storage) Close() error {
	return s.db.Close()
}

func (s *Storage) migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, schema)

	return err
}

// payload is the JSON body of a stored snapshot
type payload struct {
	Bundles  []*types.OfferBundle `json:"bundles"`
	Failures []types.PairFailure  `json:"failures,omitempty"`
}

func (s *Storage) SaveSnapshot(ctx context.Context, snapshot *types.Snapshot) error {
	body, err := json.Marshal(payload{
		Bundles:  snapshot.Bundles,
		Failures: snapshot.Failures,
	})
	if err != nil {
		return fmt.Errorf("unable to encode snapshot: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
INSERT INTO snapshots (id, league, collected_at, payload, created_at)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
  league = excluded.league,
  collected_at = excluded.collected_at,
  payload = excluded.payload`,
		snapshot.ID,
		snapshot.League,
		snapshot.CollectedAt.UTC().UnixNano(),
		string(body),
		time.Now().UTC().UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("unable to save snapshot: %w", err)
	}

	return nil
}

func (s *Storage) LatestSnapshot(ctx context.Context, league string) (*types.Snapshot, error) {
	row := s.db.QueryRowContext(ctx, `
SELECT id, league, collected_at, payload
FROM snapshots
WHERE league = ?
ORDER BY collected_at DESC, id DESC
LIMIT 1`,
		league,
	)

	snapshot, err := scanSnapshot(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil //nolint:nilnil // valid case
		}

		return nil, fmt.Errorf("unable to fetch snapshot: %w", err)
	}

	return snapshot, nil
}

func (s *Storage) ListSnapshots(
	ctx context.Context,
	query *types.SnapshotQuery,
) (*types.Page[*types.Snapshot], error) {
	off, lim := query.Window()

	var total int64
	if err := s.db.QueryRowContext(
		ctx,
		`SELECT COUNT(*) FROM snapshots WHERE league = ?`,
		query.League,
	).Scan(&total); err != nil {
		return nil, fmt.Errorf("unable to count snapshots: %w", err)
	}

	if off >= total {
		return &types.Page[*types.Snapshot]{
			Results: nil,
			Total:   total,
		}, nil
	}

	rows, err := s.db.QueryContext(ctx, `
SELECT id, league, collected_at, payload
FROM snapshots
WHERE league = ?
ORDER BY collected_at DESC, id DESC
LIMIT ? OFFSET ?`,
		query.League,
		lim,
		off,
	)
	if err != nil {
		return nil, fmt.Errorf("unable to fetch snapshots: %w", err)
	}

	defer rows.Close()

	items := make([]*types.Snapshot, 0, lim)

	for rows.Next() {
		snapshot, err := scanSnapshot(rows)
		if err != nil {
			return nil, fmt.Errorf("unable to read snapshot: %w", err)
		}

		items = append(items, snapshot)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("unable to iterate snapshots: %w", err)
	}

	return &types.Page[*types.Snapshot]{
		Results: items,
		Total:   total,
	}, nil
}

func (s *Storage) ListLeagues(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT DISTINCT league FROM snapshots ORDER BY league`)
	if err != nil {
		return nil, fmt.Errorf("unable to fetch leagues: %w", err)
	}

	defer rows.Close()

	var out []string

	for rows.Next() {
		var league string
		if err = rows.Scan(&league); err != nil {
			return nil, fmt.Errorf("unable to read league: %w", err)
		}

		out = append(out, league)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("unable to iterate leagues: %w", err)
	}

	return out, nil
}

// scanner is the common row scanning interface of sql.Row and sql.Rows
type scanner interface {
	Scan(dest ...any) error
}

// scanSnapshot scans a single snapshot row
func scanSnapshot(row scanner) (*types.Snapshot, error) {
	var (
		id, league, body string
		collectedAt      int64
	)

	if err := row.Scan(&id, &league, &collectedAt, &body); err != nil {
		return nil, err
	}

	var p payload
	if err := json.Unmarshal([]byte(body), &p); err != nil {
		return nil, fmt.Errorf("unable to decode snapshot %q: %w", id, err)
	}

	return &types.Snapshot{
		ID:          id,
		League:      league,
		CollectedAt: time.Unix(0, collectedAt).UTC(),
		Bundles:     p.Bundles,
		Failures:    p.Failures,
	}, nil
}
