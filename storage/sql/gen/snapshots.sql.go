package gen

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const latestSnapshot = `-- name: LatestSnapshot :one
SELECT id, league, collected_at, bundles, failures, payload
FROM snapshots
WHERE league = $1
ORDER BY collected_at DESC, id DESC
LIMIT 1
`

func (q *Queries) LatestSnapshot(ctx context.Context, league string) (Snapshot, error) {
	row := q.db.QueryRow(ctx, latestSnapshot, league)

	var i Snapshot
	err := row.Scan(
		&i.ID,
		&i.League,
		&i.CollectedAt,
		&i.Bundles,
		&i.Failures,
		&i.Payload,
	)

	return i, err
}

const listLeagues = `-- name: ListLeagues :many
SELECT DISTINCT league
FROM snapshots
ORDER BY league
`

func (q *Queries) ListLeagues(ctx context.Context) ([]string, error) {
	rows, err := q.db.Query(ctx, listLeagues)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []string
	for rows.Next() {
		var league string
		if err := rows.Scan(&league); err != nil {
			return nil, err
		}
		items = append(items, league)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return items, nil
}

const listSnapshots = `-- name: ListSnapshots :many
SELECT id, league, collected_at, bundles, failures, payload, COUNT(*) OVER () AS total
FROM snapshots
WHERE league = $1
ORDER BY collected_at DESC, id DESC
LIMIT $2 OFFSET $3
`

type ListSnapshotsParams struct {
	League string
	Limit  int32
	Offset int64
}

type ListSnapshotsRow struct {
	ID          string
	League      string
	CollectedAt pgtype.Timestamptz
	Bundles     int32
	Failures    int32
	Payload     []byte
	Total       int64
}

func (q *Queries) ListSnapshots(ctx context.Context, arg ListSnapshotsParams) ([]ListSnapshotsRow, error) {
	rows, err := q.db.Query(ctx, listSnapshots, arg.League, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []ListSnapshotsRow
	for rows.Next() {
		var i ListSnapshotsRow
		if err := rows.Scan(
			&i.ID,
			&i.League,
			&i.CollectedAt,
			&i.Bundles,
			&i.Failures,
			&i.Payload,
			&i.Total,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return items, nil
}

const countSnapshots = `-- name: CountSnapshots :one
SELECT COUNT(*)
FROM snapshots
WHERE league = $1
`

func (q *Queries) CountSnapshots(ctx context.Context, league string) (int64, error) {
	row := q.db.QueryRow(ctx, countSnapshots, league)

	var count int64
	err := row.Scan(&count)

	return count, err
}

const saveSnapshot = `-- name: SaveSnapshot :exec
INSERT INTO snapshots (id, league, collected_at, bundles, failures, payload)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (id) DO UPDATE
    SET league       = EXCLUDED.league,
        collected_at = EXCLUDED.collected_at,
        bundles      = EXCLUDED.bundles,
        failures     = EXCLUDED.failures,
        payload      = EXCLUDED.payload
`

type SaveSnapshotParams struct {
	ID          string
	League      string
	CollectedAt pgtype.Timestamptz
	Bundles     int32
	Failures    int32
	Payload     []byte
}

func (q *Queries) SaveSnapshot(ctx context.Context, arg SaveSnapshotParams) error {
	_, err := q.db.Exec(ctx, saveSnapshot,
		arg.ID,
		arg.League,
		arg.CollectedAt,
		arg.Bundles,
		arg.Failures,
		arg.Payload,
	)

	return err
}
