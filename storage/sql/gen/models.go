package gen

import (
	"github.com/jackc/pgx/v5/pgtype"
)

type Snapshot struct {
	ID          string
	League      string
	CollectedAt pgtype.Timestamptz
	Bundles     int32
	Failures    int32
	Payload     []byte
}
